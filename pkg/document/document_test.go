package document

import (
	"context"
	"testing"
	"time"

	"github.com/fzzzy/mumulib/pkg/vdom"
)

func newTestDoc(body *vdom.VNode) (*Document, *ManualFrames) {
	frames := NewManualFrames()
	return New(body, WithFrames(frames)), frames
}

func TestNewAssignsHIDs(t *testing.T) {
	d, _ := newTestDoc(vdom.Body(vdom.Div(vdom.ID("a"), "text")))

	div := d.GetElementByID("a")
	if div == nil || div.HID == "" || div.Children[0].HID == "" {
		t.Fatal("every node should have a hydration ID")
	}
	if d.Find(div.HID) != div {
		t.Error("Find should return the node for its HID")
	}
	if d.Find("missing") != nil {
		t.Error("Find(missing) should be nil")
	}
}

func TestNilBody(t *testing.T) {
	d, _ := newTestDoc(nil)
	if d.Body() == nil || d.Body().Tag != "body" {
		t.Errorf("nil body should become <body>, got %+v", d.Body())
	}
}

func TestRunExecutesTasksInOrder(t *testing.T) {
	d, _ := newTestDoc(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	var got []int
	for i := 0; i < 3; i++ {
		if err := d.Post(func() { got = append(got, i) }); err != nil {
			t.Fatal(err)
		}
	}
	if err := d.Do(ctx, func() {}); err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0] != 0 || got[2] != 2 {
		t.Errorf("tasks ran as %v", got)
	}
}

func TestTaskPanicDoesNotStopLoop(t *testing.T) {
	d, _ := newTestDoc(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	_ = d.Post(func() { panic("boom") })
	ran := false
	if err := d.Do(ctx, func() { ran = true }); err != nil || !ran {
		t.Errorf("loop should survive a panicking task: %v", err)
	}
}

func TestQueueFullAndClosed(t *testing.T) {
	d := New(nil, WithQueueSize(1), WithFrames(NewManualFrames()))
	if err := d.Post(func() {}); err != nil {
		t.Fatal(err)
	}
	if err := d.Post(func() {}); err != ErrQueueFull {
		t.Errorf("err = %v, want ErrQueueFull", err)
	}
	d.Close()
	d.Close()
	if err := d.Post(func() {}); err != ErrClosed {
		t.Errorf("err = %v, want ErrClosed", err)
	}
	if err := d.Run(context.Background()); err != nil {
		t.Errorf("Run on closed document = %v", err)
	}
}

func TestReadyFiresOnce(t *testing.T) {
	d, _ := newTestDoc(nil)
	calls := 0
	d.OnReady(func() { calls++ })

	d.Ready()
	d.Ready()
	if calls != 1 || !d.IsReady() {
		t.Errorf("calls = %d, want 1", calls)
	}

	late := false
	d.OnReady(func() { late = true })
	if !late {
		t.Error("OnReady after Ready should run immediately")
	}
}

func TestManualFrames(t *testing.T) {
	frames := NewManualFrames()
	var order []string
	frames.RequestFrame(func() {
		order = append(order, "a")
		frames.RequestFrame(func() { order = append(order, "c") })
	})
	frames.RequestFrame(func() { order = append(order, "b") })

	if n := frames.Tick(); n != 2 {
		t.Errorf("first tick ran %d", n)
	}
	if frames.Pending() != 1 {
		t.Errorf("pending = %d, want 1", frames.Pending())
	}
	frames.Tick()
	if len(order) != 3 || order[2] != "c" {
		t.Errorf("order = %v", order)
	}
}

func TestTickerFramesRunOnQueue(t *testing.T) {
	d := New(nil, WithFrameInterval(time.Millisecond))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	go d.Run(ctx)

	fired := make(chan int, 2)
	_ = d.Do(ctx, func() {
		d.RequestFrame(func() { fired <- 1 })
		d.RequestFrame(func() { fired <- 2 })
	})
	for want := 1; want <= 2; want++ {
		select {
		case got := <-fired:
			if got != want {
				t.Errorf("frame callback %d ran out of order", got)
			}
		case <-ctx.Done():
			t.Fatal("frame never fired")
		}
	}
}

func TestMorphPublishesPatches(t *testing.T) {
	d, _ := newTestDoc(vdom.Body(vdom.P("old")))
	var batches [][]vdom.Patch
	unsubscribe := d.Subscribe(func(p []vdom.Patch) { batches = append(batches, p) })

	desired := d.Body().Clone()
	vdom.SetTextContent(desired.Children[0], "new")
	d.Morph(d.Body(), desired)

	if len(batches) != 1 || batches[0][0].Op != vdom.PatchSetText {
		t.Fatalf("batches = %+v", batches)
	}
	if vdom.TextContent(d.Body()) != "new" {
		t.Error("live body not updated")
	}

	d.Morph(d.Body(), d.Body().Clone())
	if len(batches) != 1 {
		t.Error("a no-op morph should publish nothing")
	}

	unsubscribe()
	vdom.SetTextContent(desired.Children[0], "newer")
	d.Morph(d.Body(), desired)
	if len(batches) != 1 {
		t.Error("unsubscribed listener still called")
	}
}

func TestTickerFramesSurviveFullQueue(t *testing.T) {
	d := New(nil, WithQueueSize(1), WithFrameInterval(time.Millisecond))
	if err := d.Post(func() {}); err != nil {
		t.Fatal(err)
	}

	fired := make(chan struct{}, 1)
	d.RequestFrame(func() { fired <- struct{}{} })

	// Let several ticks hit the full queue before the loop drains it.
	time.Sleep(20 * time.Millisecond)
	select {
	case <-fired:
		t.Fatal("frame ran while the loop was stopped")
	default:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	go d.Run(ctx)

	select {
	case <-fired:
	case <-ctx.Done():
		t.Fatal("frame rejected by a full queue never ran")
	}
}
