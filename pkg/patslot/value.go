package patslot

import (
	"context"
	stderrors "errors"
	"fmt"
	"iter"
	"sync"

	"github.com/fzzzy/mumulib/internal/errors"
	"github.com/fzzzy/mumulib/pkg/vdom"
)

// ValueKind discriminates the shapes a slot value can take.
type ValueKind uint8

const (
	KindAbsent   ValueKind = iota // no value; fills as "undefined"
	KindScalar                    // stringifiable scalar
	KindNode                      // markup node
	KindSeq                       // finite sequence
	KindLazy                      // one-shot lazy sequence
	KindDeferred                  // resolves asynchronously, once
)

// String returns the string representation of the ValueKind.
func (k ValueKind) String() string {
	switch k {
	case KindAbsent:
		return "Absent"
	case KindScalar:
		return "Scalar"
	case KindNode:
		return "Node"
	case KindSeq:
		return "Seq"
	case KindLazy:
		return "Lazy"
	case KindDeferred:
		return "Deferred"
	default:
		return "Unknown"
	}
}

// Value is a slot value. The zero Value is absent.
type Value struct {
	kind     ValueKind
	text     string
	node     *vdom.VNode
	items    []Value
	lazy     iter.Seq[Value]
	deferred *Deferred
}

// Kind returns the shape of v.
func (v Value) Kind() ValueKind { return v.kind }

// Absent returns the absent value.
func Absent() Value { return Value{} }

// String returns a scalar value holding s.
func String(s string) Value { return Value{kind: KindScalar, text: s} }

// Scalar returns a scalar value holding the string form of x.
// A nil x is absent.
func Scalar(x any) Value {
	if x == nil {
		return Value{}
	}
	return Value{kind: KindScalar, text: fmt.Sprint(x)}
}

// Node returns a value holding a markup node. A nil node is absent.
func Node(n *vdom.VNode) Value {
	if n == nil {
		return Value{}
	}
	return Value{kind: KindNode, node: n}
}

// Seq returns a finite sequence value.
func Seq(items ...Value) Value {
	return Value{kind: KindSeq, items: items}
}

// Lazy returns a sequence produced by seq. The sequence is consumed at most
// once per fill; every target of that fill reuses the materialized items.
// Sequences must be finite.
func Lazy(seq iter.Seq[Value]) Value {
	if seq == nil {
		return Value{}
	}
	return Value{kind: KindLazy, lazy: seq}
}

// FromDeferred returns a value that resolves when d settles.
func FromDeferred(d *Deferred) Value {
	if d == nil {
		return Value{}
	}
	return Value{kind: KindDeferred, deferred: d}
}

// ValueOf converts a Go value into a Value.
func ValueOf(x any) Value {
	switch v := x.(type) {
	case nil:
		return Value{}
	case Value:
		return v
	case *vdom.VNode:
		return Node(v)
	case string:
		return String(v)
	case *Deferred:
		return FromDeferred(v)
	case func(context.Context) (Value, error):
		return FromDeferred(Defer(v))
	case iter.Seq[Value]:
		return Lazy(v)
	case []Value:
		return Seq(v...)
	case []*vdom.VNode:
		items := make([]Value, len(v))
		for i, n := range v {
			items[i] = Node(n)
		}
		return Seq(items...)
	case []string:
		items := make([]Value, len(v))
		for i, s := range v {
			items[i] = String(s)
		}
		return Seq(items...)
	case []any:
		items := make([]Value, len(v))
		for i, item := range v {
			items[i] = ValueOf(item)
		}
		return Seq(items...)
	default:
		return Scalar(v)
	}
}

// Deferred is a slot value that settles exactly once.
type Deferred struct {
	start    func()
	startOne sync.Once
	settle   sync.Once
	done     chan struct{}
	val      Value
	err      error
}

// Defer returns a Deferred computed by fn on first await. fn runs once, in its
// own goroutine, with a context that is not canceled when the first awaiter
// gives up.
func Defer(fn func(ctx context.Context) (Value, error)) *Deferred {
	d := &Deferred{done: make(chan struct{})}
	d.start = func() {
		go func() {
			v, err := fn(context.Background())
			d.resolve(v, err)
		}()
	}
	return d
}

// NewPromise returns an unsettled Deferred with its resolve and reject functions.
// Only the first settlement takes effect.
func NewPromise() (d *Deferred, resolve func(Value), reject func(error)) {
	d = &Deferred{done: make(chan struct{})}
	return d, func(v Value) { d.resolve(v, nil) }, func(err error) { d.resolve(Value{}, err) }
}

// Resolved returns an already-settled Deferred.
func Resolved(v Value) *Deferred {
	d, resolve, _ := NewPromise()
	resolve(v)
	return d
}

func (d *Deferred) resolve(v Value, err error) {
	d.settle.Do(func() {
		d.val, d.err = v, err
		close(d.done)
	})
}

// Await blocks until d settles or ctx is done. A Deferred that never settles
// leaves Await pending until ctx ends.
func (d *Deferred) Await(ctx context.Context) (Value, error) {
	if d.start != nil {
		d.startOne.Do(d.start)
	}
	select {
	case <-d.done:
		return d.val, d.err
	case <-ctx.Done():
		return Value{}, ctx.Err()
	}
}

// Item is one materialized element of a sequence: a node or a text.
type Item struct {
	Node *vdom.VNode
	Text string
}

// Materialized is a Value with every deferred awaited and every sequence
// drained. Its Kind is one of KindAbsent, KindScalar, KindNode or KindSeq.
type Materialized struct {
	Kind  ValueKind
	Text  string
	Node  *vdom.VNode
	Items []Item
}

// Cases holds one handler per materialized shape; a nil handler is skipped.
type Cases struct {
	Absent func() error
	Scalar func(text string) error
	Node   func(n *vdom.VNode) error
	Seq    func(items []Item) error
}

// Match calls the handler for m's shape.
func (m Materialized) Match(c Cases) error {
	switch m.Kind {
	case KindScalar:
		if c.Scalar != nil {
			return c.Scalar(m.Text)
		}
	case KindNode:
		if c.Node != nil {
			return c.Node(m.Node)
		}
	case KindSeq:
		if c.Seq != nil {
			return c.Seq(m.Items)
		}
	default:
		if c.Absent != nil {
			return c.Absent()
		}
	}
	return nil
}

// undefinedText is what an absent value fills as.
const undefinedText = "undefined"

// Materialize resolves v once: deferreds are awaited (a deferred sequence
// completely, before anything is returned), lazy sequences are drained, and
// per-item deferreds are awaited in order. Nested sequences are flattened.
func (v Value) Materialize(ctx context.Context) (Materialized, error) {
	switch v.kind {
	case KindScalar:
		return Materialized{Kind: KindScalar, Text: v.text}, nil
	case KindNode:
		return Materialized{Kind: KindNode, Node: v.node}, nil
	case KindDeferred:
		inner, err := v.deferred.Await(ctx)
		if err != nil {
			return Materialized{}, deferredError(err)
		}
		return inner.Materialize(ctx)
	case KindSeq, KindLazy:
		items, err := v.collect(ctx, nil)
		if err != nil {
			return Materialized{}, err
		}
		return Materialized{Kind: KindSeq, Items: items}, nil
	default:
		return Materialized{Kind: KindAbsent}, nil
	}
}

// collect appends the items of sequence v to out.
func (v Value) collect(ctx context.Context, out []Item) ([]Item, error) {
	var err error
	add := func(item Value) bool {
		out, err = item.appendItem(ctx, out)
		return err == nil
	}

	if v.kind == KindLazy {
		for item := range v.lazy {
			if !add(item) {
				break
			}
		}
	} else {
		for _, item := range v.items {
			if !add(item) {
				break
			}
		}
	}
	if out == nil {
		out = []Item{}
	}
	return out, err
}

func (v Value) appendItem(ctx context.Context, out []Item) ([]Item, error) {
	switch v.kind {
	case KindNode:
		return append(out, Item{Node: v.node}), nil
	case KindScalar:
		return append(out, Item{Text: v.text}), nil
	case KindSeq, KindLazy:
		return v.collect(ctx, out)
	case KindDeferred:
		inner, err := v.deferred.Await(ctx)
		if err != nil {
			return out, deferredError(err)
		}
		return inner.appendItem(ctx, out)
	default:
		return append(out, Item{Text: undefinedText}), nil
	}
}

func deferredError(err error) error {
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return errors.New("M005").Wrap(err)
}
