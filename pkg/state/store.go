package state

import (
	"log/slog"
	"reflect"

	"github.com/fzzzy/mumulib/pkg/metrics"
)

// State is the shared state map. Subscribers receive the live map; mutate it
// only through SetState and SetPath or changes go unnoticed.
type State = map[string]any

// Patch is a set of top-level keys to merge into the state.
type Patch map[string]any

// Subscriber is called with the state after every change.
type Subscriber func(s State)

type absentValue struct{}

// Absent deletes a key when used as a value in SetState or SetPath.
var Absent any = absentValue{}

// Scheduler runs callbacks on the next frame. *document.Document and
// *document.ManualFrames implement it.
type Scheduler interface {
	RequestFrame(fn func())
}

// Store is the state store.
type Store struct {
	state  State
	subs   []Subscriber
	frames Scheduler

	phase        Phase
	depth        int
	dirty        bool
	framePending bool
	notified     bool

	logger  *slog.Logger
	metrics *metrics.Recorder
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithMetrics sets the metrics recorder (default: metrics.Default()).
func WithMetrics(m *metrics.Recorder) Option {
	return func(s *Store) { s.metrics = m }
}

// New creates an empty, uninitialized Store whose coalesced notifications
// run on frames.
func New(frames Scheduler, opts ...Option) *Store {
	s := &Store{
		state:  make(State),
		frames: frames,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default().With("component", "state")
	}
	if s.metrics == nil {
		s.metrics = metrics.Default()
	}
	return s
}

// State returns the live state map.
func (s *Store) State() State {
	return s.state
}

// Phase returns the current phase.
func (s *Store) Phase() Phase {
	return s.phase
}

// OnState registers fn. If a notification pass has already completed, fn is
// first called with the current state.
func (s *Store) OnState(fn Subscriber) {
	if s.notified {
		fn(s.state)
	}
	s.subs = append(s.subs, fn)
}

// Ready moves the store out of PhaseUninitialized and performs the first
// notification, setting "loaded" to true. The notification runs even if
// "loaded" was already set. Later calls do nothing.
func (s *Store) Ready() {
	if s.phase != PhaseUninitialized {
		return
	}
	s.phase = PhaseIdle
	s.state["loaded"] = true
	s.changed()
}

// SetState merges p into the state. Keys whose value is Absent are deleted.
// Subscribers are notified if any key changed; an empty patch always
// notifies.
func (s *Store) SetState(p Patch) {
	changed := len(p) == 0
	for k, v := range p {
		if s.assign(s.state, k, v) {
			changed = true
		}
	}
	if changed {
		s.changed()
	}
}

// SetPath writes value at a dotted path, creating intermediate maps as
// needed. Subscribers are notified if the value at the path changed.
func (s *Store) SetPath(path string, value any) {
	parent, key := s.walk(splitPath(path), true)
	if parent == nil {
		return
	}
	if parent.set(key, value) {
		s.changed()
	}
}

// Get returns the value at a dotted path.
func (s *Store) Get(path string) (any, bool) {
	parent, key := s.walk(splitPath(path), false)
	if parent == nil {
		return nil, false
	}
	return parent.get(key)
}

// assign sets m[k] and reports whether it changed.
func (s *Store) assign(m map[string]any, k string, v any) bool {
	old, exists := m[k]
	if v == Absent {
		if !exists {
			return false
		}
		delete(m, k)
		return true
	}
	if exists && same(old, v) {
		return false
	}
	m[k] = v
	return true
}

// changed runs or defers a notification pass.
func (s *Store) changed() {
	if s.phase == PhaseUninitialized {
		s.logger.Debug("state changed before ready")
		return
	}

	s.depth++
	if s.depth == 1 {
		s.notify()
	} else {
		s.dirty = true
	}
	s.depth--

	if s.depth > 0 {
		return
	}
	switch {
	case s.dirty:
		s.dirty = false
		s.requestFlush()
	case s.framePending:
		s.phase = PhaseFlushPending
	default:
		s.phase = PhaseIdle
	}
}

// notify runs one pass over the subscribers in subscription order.
func (s *Store) notify() {
	s.phase = PhaseMutating
	subs := append([]Subscriber(nil), s.subs...)
	s.logger.Debug("state notify", "subscribers", len(subs))
	s.metrics.RecordNotification()
	for _, fn := range subs {
		fn(s.state)
	}
	s.notified = true
}

func (s *Store) requestFlush() {
	s.phase = PhaseFlushPending
	if s.framePending {
		return
	}
	s.framePending = true
	s.frames.RequestFrame(s.flush)
}

// flush is the frame callback: one forced notification for everything that
// was coalesced. Mutations it triggers are deferred to the next frame.
func (s *Store) flush() {
	s.framePending = false
	s.metrics.RecordFlush()
	s.changed()
}

// same reports whether v would leave old unchanged. Maps, slices, pointers
// and channels compare by identity, other values by ==. Funcs always differ.
func same(old, v any) bool {
	if old == nil || v == nil {
		return old == nil && v == nil
	}
	a, b := reflect.ValueOf(old), reflect.ValueOf(v)
	if a.Type() != b.Type() {
		return false
	}
	switch a.Kind() {
	case reflect.Func:
		// Code pointers do not identify closures.
		return false
	case reflect.Map, reflect.Slice, reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		if a.Kind() == reflect.Slice && a.Len() != b.Len() {
			return false
		}
		return a.Pointer() == b.Pointer()
	}
	if a.Comparable() {
		return a.Equal(b)
	}
	return reflect.DeepEqual(old, v)
}

// SelectedKey is the state key naming the currently selected sub-path.
const SelectedKey = "selected"

// Selected returns the selected path without a leading "this.", or "".
func (s *Store) Selected() string {
	v, _ := s.state[SelectedKey].(string)
	return JoinPath(v)
}
