package document

import (
	"context"
	"log/slog"
	"runtime/debug"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fzzzy/mumulib/pkg/metrics"
	"github.com/fzzzy/mumulib/pkg/vdom"
)

// DefaultQueueSize is the capacity of the task queue.
const DefaultQueueSize = 256

// Document is a live document: a body tree plus its task queue.
type Document struct {
	body    *vdom.VNode
	hidGen  *vdom.HIDGenerator
	morpher *vdom.Morpher
	frames  FrameScheduler
	metrics *metrics.Recorder
	logger  *slog.Logger

	tasks  chan func()
	done   chan struct{}
	closed atomic.Bool
	once   sync.Once

	// Loop-owned; touched only from tasks.
	ready        bool
	onReady      []func()
	listeners    map[string][]listenerEntry
	nextListener int

	subMu   sync.Mutex
	subs    map[int]func([]vdom.Patch)
	nextSub int
}

// Option configures a Document.
type Option func(*options)

type options struct {
	logger        *slog.Logger
	frames        FrameScheduler
	frameInterval time.Duration
	queueSize     int
	metrics       *metrics.Recorder
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithFrames replaces the frame scheduler, e.g. with ManualFrames in tests.
func WithFrames(f FrameScheduler) Option {
	return func(o *options) { o.frames = f }
}

// WithFrameInterval sets the frame tick of the default scheduler.
func WithFrameInterval(d time.Duration) Option {
	return func(o *options) { o.frameInterval = d }
}

// WithQueueSize sets the task queue capacity.
func WithQueueSize(n int) Option {
	return func(o *options) { o.queueSize = n }
}

// WithMetrics sets the metrics recorder (default: metrics.Default()).
func WithMetrics(m *metrics.Recorder) Option {
	return func(o *options) { o.metrics = m }
}

// New creates a Document over body. A nil body becomes an empty <body>.
// Every node of body is assigned a hydration ID.
func New(body *vdom.VNode, opts ...Option) *Document {
	o := options{
		frameInterval: DefaultFrameInterval,
		queueSize:     DefaultQueueSize,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default().With("component", "document")
	}
	if o.metrics == nil {
		o.metrics = metrics.Default()
	}
	if body == nil {
		body = vdom.Body()
	}

	gen := vdom.NewHIDGenerator()
	vdom.AssignHIDs(body, gen)

	d := &Document{
		body:      body,
		hidGen:    gen,
		morpher:   vdom.NewMorpher(gen),
		metrics:   o.metrics,
		logger:    o.logger,
		tasks:     make(chan func(), o.queueSize),
		done:      make(chan struct{}),
		listeners: make(map[string][]listenerEntry),
		subs:      make(map[int]func([]vdom.Patch)),
	}
	d.frames = o.frames
	if d.frames == nil {
		d.frames = &tickerFrames{interval: o.frameInterval, post: d.Post}
	}
	return d
}

// Body returns the live body. Only touch it from the task queue.
func (d *Document) Body() *vdom.VNode {
	return d.body
}

// Logger returns the document logger.
func (d *Document) Logger() *slog.Logger {
	return d.logger
}

// Post queues fn to run on the task queue. It never blocks.
func (d *Document) Post(fn func()) error {
	if d.closed.Load() {
		return ErrClosed
	}
	select {
	case d.tasks <- fn:
		return nil
	case <-d.done:
		return ErrClosed
	default:
		d.logger.Warn("task queue full, dropping task")
		return ErrQueueFull
	}
}

// Do runs fn on the task queue and waits for it to finish.
func (d *Document) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if err := d.Post(func() {
		defer close(finished)
		fn()
	}); err != nil {
		return err
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-d.done:
		return ErrClosed
	}
}

// Run executes queued tasks until ctx is done or the document is closed.
func (d *Document) Run(ctx context.Context) error {
	for {
		select {
		case fn := <-d.tasks:
			d.execute(fn)
		case <-ctx.Done():
			return ctx.Err()
		case <-d.done:
			return nil
		}
	}
}

// execute runs a task with panic recovery.
func (d *Document) execute(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("task panic",
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	fn()
}

// Close stops Run and rejects further work.
func (d *Document) Close() {
	d.once.Do(func() {
		d.closed.Store(true)
		close(d.done)
	})
}

// Done returns a channel that's closed when the document is closed.
func (d *Document) Done() <-chan struct{} {
	return d.done
}

// RequestFrame runs fn on the next frame.
func (d *Document) RequestFrame(fn func()) {
	d.frames.RequestFrame(fn)
}

// OnReady registers fn for the ready signal. If the document is already
// ready fn runs immediately.
func (d *Document) OnReady(fn func()) {
	if d.ready {
		fn()
		return
	}
	d.onReady = append(d.onReady, fn)
}

// Ready fires the ready signal. Only the first call has an effect.
func (d *Document) Ready() {
	if d.ready {
		return
	}
	d.ready = true
	fns := d.onReady
	d.onReady = nil
	for _, fn := range fns {
		fn()
	}
}

// IsReady reports whether Ready has been called.
func (d *Document) IsReady() bool {
	return d.ready
}

// Morph reconciles live (the body or a node inside it) against desired and
// publishes the resulting patches.
func (d *Document) Morph(live, desired *vdom.VNode) {
	patches := d.morpher.Morph(live, desired)
	d.publish(patches)
}

// Subscribe registers fn to receive every patch batch. fn runs on the task
// queue and must not block. The returned function unsubscribes.
func (d *Document) Subscribe(fn func([]vdom.Patch)) (unsubscribe func()) {
	d.subMu.Lock()
	id := d.nextSub
	d.nextSub++
	d.subs[id] = fn
	d.subMu.Unlock()

	return func() {
		d.subMu.Lock()
		delete(d.subs, id)
		d.subMu.Unlock()
	}
}

// publish sends patches to every subscriber in subscription order.
func (d *Document) publish(patches []vdom.Patch) {
	if len(patches) == 0 {
		return
	}
	d.metrics.RecordPatches(len(patches))

	d.subMu.Lock()
	ids := make([]int, 0, len(d.subs))
	for id := range d.subs {
		ids = append(ids, id)
	}
	fns := make([]func([]vdom.Patch), 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		fns = append(fns, d.subs[id])
	}
	d.subMu.Unlock()

	for _, fn := range fns {
		fn(patches)
	}
}

// Find returns the live node with the given hydration ID.
func (d *Document) Find(hid string) *vdom.VNode {
	var found *vdom.VNode
	vdom.Walk(d.body, func(n *vdom.VNode) bool {
		if found != nil {
			return false
		}
		if n.HID == hid {
			found = n
			return false
		}
		return true
	})
	return found
}

// GetElementByID returns the live element with the given id attribute.
func (d *Document) GetElementByID(id string) *vdom.VNode {
	return vdom.FindByID(d.body, id)
}
