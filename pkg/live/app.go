package live

import (
	"context"
	"log/slog"
	"time"

	"github.com/fzzzy/mumulib/pkg/dialog"
	"github.com/fzzzy/mumulib/pkg/document"
	"github.com/fzzzy/mumulib/pkg/metrics"
	"github.com/fzzzy/mumulib/pkg/patslot"
	"github.com/fzzzy/mumulib/pkg/state"
	"github.com/fzzzy/mumulib/pkg/vdom"
)

// PatternKey names the pattern a state map is rendered with.
const PatternKey = "pat"

// Attributes read from clicked elements.
const (
	AttrDialog = "data-dialog"
	AttrPath   = "data-path"
)

// App is a live document driven by a state store.
type App struct {
	doc      *document.Document
	store    *state.Store
	dialogs  *dialog.Orchestrator
	forms    *state.FormBinding
	baseline *patslot.Baseline
	registry patslot.Registry
	initial  state.Patch
	logger   *slog.Logger
	ctx      context.Context
	started  bool
}

// Option configures an App.
type Option func(*config)

type config struct {
	logger   *slog.Logger
	metrics  *metrics.Recorder
	frames   document.FrameScheduler
	interval time.Duration
	registry patslot.Registry
	initial  state.Patch
}

// WithLogger sets the logger shared by the document, store and dialogs.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Recorder) Option {
	return func(c *config) { c.metrics = m }
}

// WithFrames sets the frame scheduler.
func WithFrames(f document.FrameScheduler) Option {
	return func(c *config) { c.frames = f }
}

// WithFrameInterval sets the frame tick of the default scheduler.
func WithFrameInterval(d time.Duration) Option {
	return func(c *config) { c.interval = d }
}

// WithRegistry sets the pattern registry. The default is a baseline snapshot
// of the body passed to New.
func WithRegistry(r patslot.Registry) Option {
	return func(c *config) { c.registry = r }
}

// WithInitialState merges p into the state before the first notification.
func WithInitialState(p state.Patch) Option {
	return func(c *config) { c.initial = p }
}

// New creates an App over body. The baseline is snapshotted before the
// document assigns hydration IDs.
func New(body *vdom.VNode, opts ...Option) *App {
	c := config{}
	for _, opt := range opts {
		opt(&c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.metrics == nil {
		c.metrics = metrics.Default()
	}
	if body == nil {
		body = vdom.Body()
	}

	baseline := patslot.StaticBaseline(body)

	docOpts := []document.Option{
		document.WithLogger(c.logger.With("component", "document")),
		document.WithMetrics(c.metrics),
	}
	if c.frames != nil {
		docOpts = append(docOpts, document.WithFrames(c.frames))
	}
	if c.interval > 0 {
		docOpts = append(docOpts, document.WithFrameInterval(c.interval))
	}
	doc := document.New(body, docOpts...)

	store := state.New(doc,
		state.WithLogger(c.logger.With("component", "state")),
		state.WithMetrics(c.metrics))

	a := &App{
		doc:      doc,
		store:    store,
		baseline: baseline,
		registry: c.registry,
		initial:  c.initial,
		logger:   c.logger.With("component", "live"),
		ctx:      context.Background(),
	}
	if a.registry == nil {
		a.registry = baseline
	}
	a.dialogs = dialog.New(store, doc,
		dialog.WithLogger(c.logger.With("component", "dialog")),
		dialog.WithMetrics(c.metrics))
	return a
}

// Document returns the live document.
func (a *App) Document() *document.Document { return a.doc }

// Store returns the state store.
func (a *App) Store() *state.Store { return a.store }

// Dialogs returns the dialog orchestrator.
func (a *App) Dialogs() *dialog.Orchestrator { return a.dialogs }

// Baseline returns the snapshot patterns are looked up in by default.
func (a *App) Baseline() *patslot.Baseline { return a.baseline }

// Start wires the store to the document and fires the ready signal. Call it
// once on the task queue, or before Run from the goroutine that owns the
// document.
func (a *App) Start(ctx context.Context) {
	if a.started {
		return
	}
	a.started = true
	a.ctx = ctx

	// Render before forms reconcile control values against the new body.
	a.store.OnState(a.render)
	a.forms = state.BindForms(a.store, a.doc)
	a.doc.AddEventListener(document.EventClick, a.onClick)

	a.doc.OnReady(func() {
		if len(a.initial) > 0 {
			a.store.SetState(a.initial)
		}
		a.store.Ready()
	})
	a.doc.Ready()
}

// Run starts the app and executes the document's task queue until ctx is
// done.
func (a *App) Run(ctx context.Context) error {
	if err := a.doc.Post(func() { a.Start(ctx) }); err != nil {
		return err
	}
	return a.doc.Run(ctx)
}

// Close stops the document.
func (a *App) Close() {
	if a.forms != nil {
		a.forms.Unbind()
	}
	a.doc.Close()
}

// Reload swaps the live body for body and re-renders it from the current
// state. The baseline is replaced too unless a custom registry was given.
// Call it on the task queue.
func (a *App) Reload(body *vdom.VNode) {
	baseline := patslot.StaticBaseline(body)
	if a.registry == a.baseline {
		a.registry = baseline
	}
	a.baseline = baseline

	a.doc.Morph(a.doc.Body(), body)
	a.render(a.store.State())
	a.logger.Info("document reloaded")
}

// render fills the live body from s.
func (a *App) render(s state.State) {
	if err := patslot.RenderBody(a.ctx, a.doc, a.Slots(a.ctx, s)); err != nil {
		a.logger.Warn("render failed", "error", err)
	}
}

// Slots derives body slots from a state snapshot. Maps without a pattern
// are skipped.
func (a *App) Slots(ctx context.Context, s state.State) patslot.Slots {
	slots := make(patslot.Slots, len(s))
	for k, v := range s {
		if val, ok := a.valueOf(ctx, v); ok {
			slots[k] = val
		}
	}
	return slots
}

func (a *App) valueOf(ctx context.Context, v any) (patslot.Value, bool) {
	switch x := v.(type) {
	case state.Patch:
		return a.valueOf(ctx, map[string]any(x))
	case map[string]any:
		id, _ := x[PatternKey].(string)
		if id == "" {
			return patslot.Value{}, false
		}
		sub := make(patslot.Slots, len(x))
		for k, item := range x {
			if k == PatternKey {
				continue
			}
			if val, ok := a.valueOf(ctx, item); ok {
				sub[k] = val
			}
		}
		node, err := patslot.ClonePattern(ctx, a.registry, id, sub)
		if err != nil {
			a.logger.Warn("pattern render failed", "pattern", id, "error", err)
		}
		if node == nil {
			return patslot.Value{}, false
		}
		return patslot.Node(node), true
	case []any:
		items := make([]patslot.Value, 0, len(x))
		for _, item := range x {
			if val, ok := a.valueOf(ctx, item); ok {
				items = append(items, val)
			}
		}
		return patslot.Seq(items...), true
	default:
		return patslot.ValueOf(x), true
	}
}

// onClick opens the dialog named by the clicked element.
func (a *App) onClick(ev *document.Event) {
	n := ev.Target
	if n == nil {
		return
	}
	id := n.GetAttr(AttrDialog)
	if id == "" {
		return
	}
	if err := a.dialogs.Open(a.ctx, id, n.GetAttr(AttrPath), a.renderDialog); err != nil {
		a.logger.Warn("dialog open failed", "dialog", id, "error", err)
	}
}

// renderDialog fills the dialog's slots from the selected sub-state.
func (a *App) renderDialog(d *vdom.VNode, sub any) *vdom.VNode {
	if p, ok := sub.(state.Patch); ok {
		sub = map[string]any(p)
	}
	m, ok := sub.(map[string]any)
	if !ok {
		return d
	}
	slots := make(patslot.Slots, len(m))
	for k, v := range m {
		if k == PatternKey {
			continue
		}
		if val, ok := a.valueOf(a.ctx, v); ok {
			slots[k] = val
		}
	}
	if err := patslot.Fill(a.ctx, d, slots, patslot.Replace); err != nil {
		a.logger.Warn("dialog render failed", "error", err)
	}
	return d
}
