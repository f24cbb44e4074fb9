package document

import (
	"errors"
	"sync"
	"time"
)

// DefaultFrameInterval approximates a 60Hz display refresh.
const DefaultFrameInterval = 16 * time.Millisecond

// FrameScheduler runs callbacks on the next frame.
type FrameScheduler interface {
	RequestFrame(fn func())
}

// frameQueue collects callbacks for the next frame.
type frameQueue struct {
	mu      sync.Mutex
	pending []func()
}

// add queues fn and reports whether it is the first callback of the frame.
func (q *frameQueue) add(fn func()) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, fn)
	return len(q.pending) == 1
}

// requeue puts fns back ahead of callbacks requested since they were taken
// and reports whether the queue was empty before.
func (q *frameQueue) requeue(fns []func()) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	empty := len(q.pending) == 0
	q.pending = append(fns, q.pending...)
	return empty
}

// take removes and returns the callbacks of the current frame.
func (q *frameQueue) take() []func() {
	q.mu.Lock()
	defer q.mu.Unlock()
	fns := q.pending
	q.pending = nil
	return fns
}

// tickerFrames fires one frame per interval while callbacks are pending and
// runs them through post. A frame rejected by a full queue is retried on the
// next tick.
type tickerFrames struct {
	frameQueue
	interval time.Duration
	post     func(func()) error
}

func (f *tickerFrames) RequestFrame(fn func()) {
	if f.add(fn) {
		f.schedule()
	}
}

func (f *tickerFrames) schedule() {
	time.AfterFunc(f.interval, f.fire)
}

func (f *tickerFrames) fire() {
	fns := f.take()
	if len(fns) == 0 {
		return
	}
	err := f.post(func() {
		for _, fn := range fns {
			fn()
		}
	})
	if errors.Is(err, ErrQueueFull) && f.requeue(fns) {
		f.schedule()
	}
}

// ManualFrames is a FrameScheduler driven by explicit Tick calls.
type ManualFrames struct {
	frameQueue
}

// NewManualFrames creates a ManualFrames scheduler.
func NewManualFrames() *ManualFrames {
	return &ManualFrames{}
}

// RequestFrame implements FrameScheduler.
func (m *ManualFrames) RequestFrame(fn func()) {
	m.add(fn)
}

// Pending returns the number of callbacks waiting for the next frame.
func (m *ManualFrames) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Tick runs the callbacks of the current frame and reports how many ran.
// Callbacks requested during the tick wait for the next one.
func (m *ManualFrames) Tick() int {
	fns := m.take()
	for _, fn := range fns {
		fn()
	}
	return len(fns)
}
