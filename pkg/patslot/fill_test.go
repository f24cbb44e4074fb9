package patslot

import (
	"context"
	stderrors "errors"
	"iter"
	"testing"

	"github.com/fzzzy/mumulib/pkg/render"
	"github.com/fzzzy/mumulib/pkg/vdom"
	"github.com/google/go-cmp/cmp"
)

var ctx = context.Background()

func mustFill(t *testing.T, root *vdom.VNode, name string, v Value, mode Mode) {
	t.Helper()
	if err := FillSlots(ctx, root, name, v, mode); err != nil {
		t.Fatalf("FillSlots(%q): %v", name, err)
	}
}

func TestFillScalar(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		mode  Mode
		want  string
	}{
		{"replace string", String("Jane"), Replace, `<div><span data-slot="name">Jane</span></div>`},
		{"replace number", Scalar(12), Replace, `<div><span data-slot="name">12</span></div>`},
		{"replace absent", Absent(), Replace, `<div><span data-slot="name">undefined</span></div>`},
		{"append string", String(" Smith"), Append, `<div><span data-slot="name">old Smith</span></div>`},
		{"replace empty", String(""), Replace, `<div><span data-slot="name"></span></div>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := vdom.Div(vdom.Span(vdom.SlotAttr("name"), "old"))
			mustFill(t, root, "name", tt.value, tt.mode)
			if got := render.String(root); got != tt.want {
				t.Errorf("got %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestFillNodeReplace(t *testing.T) {
	root := vdom.Ul(
		vdom.Li("first"),
		vdom.Li(vdom.SlotAttr("item"), "placeholder"),
		vdom.Li("last"),
	)
	incoming := vdom.Span(vdom.Class("new"), "hello")

	mustFill(t, root, "item", Node(incoming), Replace)

	want := `<ul><li>first</li><span class="new" data-slot="item">hello</span><li>last</li></ul>`
	if got := render.String(root); got != want {
		t.Errorf("got %s\nwant %s", got, want)
	}
	if incoming.HasAttr(vdom.AttrSlot) {
		t.Error("caller's node was mutated")
	}
}

func TestFillNodeKeepsPatternIdentity(t *testing.T) {
	root := vdom.Div(vdom.Div(vdom.Pat("card"), vdom.SlotAttr("body"), "old"))

	mustFill(t, root, "body", Node(vdom.P("new")), Replace)

	target := root.Children[0]
	if got := target.GetAttr(vdom.AttrPattern); got != "card" {
		t.Errorf("data-pat = %q, want card", got)
	}
	if got := target.GetAttr(vdom.AttrSlot); got != "body" {
		t.Errorf("data-slot = %q, want body", got)
	}
	if target.Tag != "p" {
		t.Errorf("tag = %s, want p", target.Tag)
	}
}

func TestFillNodeAppend(t *testing.T) {
	root := vdom.Div(vdom.Ul(vdom.SlotAttr("list"), vdom.Li("a")))
	incoming := vdom.Li("b")

	mustFill(t, root, "list", Node(incoming), Append)
	mustFill(t, root, "list", Node(incoming), Append)

	want := `<div><ul data-slot="list"><li>a</li><li>b</li><li>b</li></ul></div>`
	if got := render.String(root); got != want {
		t.Errorf("got %s\nwant %s", got, want)
	}
	list := root.Children[0]
	if list.Children[1] == incoming || list.Children[1] == list.Children[2] {
		t.Error("appended nodes must be independent clones")
	}
}

func TestFillSequenceOrder(t *testing.T) {
	elementA := vdom.Em("a")
	root := vdom.Div(vdom.P(vdom.SlotAttr("s")))

	mustFill(t, root, "s", Seq(Node(elementA), String("text")), Replace)

	target := root.Children[0]
	if len(target.Children) != 2 {
		t.Fatalf("children = %d, want 2", len(target.Children))
	}
	if target.Children[0].Tag != "em" || target.Children[0] == elementA {
		t.Error("first child should be a clone of elementA")
	}
	if target.Children[1].Kind != vdom.KindText || target.Children[1].Text != "text" {
		t.Errorf("second child = %+v, want text node", target.Children[1])
	}
}

func TestFillNestedSequenceFlattens(t *testing.T) {
	root := vdom.Ul(vdom.SlotAttr("s"))
	nested := Seq(Node(vdom.Li("a")), Seq(Node(vdom.Li("b")), String("c")))

	mustFill(t, root, "s", nested, Replace)

	if got, want := render.String(root), `<ul data-slot="s"><li>a</li><li>b</li>c</ul>`; got != want {
		t.Errorf("got %s want %s", got, want)
	}
}

func TestFillSequenceModes(t *testing.T) {
	build := func() *vdom.VNode {
		return vdom.Ol(vdom.SlotAttr("towns"), vdom.Li("old"))
	}
	towns := ValueOf([]*vdom.VNode{vdom.Li("Paris"), vdom.Li("Oslo")})

	root := build()
	mustFill(t, root, "towns", towns, Replace)
	if got, want := render.String(root), `<ol data-slot="towns"><li>Paris</li><li>Oslo</li></ol>`; got != want {
		t.Errorf("replace: got %s want %s", got, want)
	}

	root = build()
	mustFill(t, root, "towns", towns, Append)
	if got, want := render.String(root), `<ol data-slot="towns"><li>old</li><li>Paris</li><li>Oslo</li></ol>`; got != want {
		t.Errorf("append: got %s want %s", got, want)
	}
}

func TestFillLazySequenceReusedAcrossTargets(t *testing.T) {
	pulls := 0
	var seq iter.Seq[Value] = func(yield func(Value) bool) {
		pulls++
		for _, s := range []string{"x", "y"} {
			if !yield(String(s)) {
				return
			}
		}
	}
	root := vdom.Div(vdom.P(vdom.SlotAttr("s")), vdom.P(vdom.SlotAttr("s")))

	mustFill(t, root, "s", Lazy(seq), Replace)

	if pulls != 1 {
		t.Errorf("sequence iterated %d times, want 1", pulls)
	}
	for i, p := range root.Children {
		if got := vdom.TextContent(p); got != "xy" {
			t.Errorf("target %d text = %q, want xy", i, got)
		}
	}
}

func TestFillDeferred(t *testing.T) {
	d, resolve, _ := NewPromise()
	go resolve(Seq(String("a"), FromDeferred(Resolved(String("b"))), Absent()))

	root := vdom.Div(vdom.P(vdom.SlotAttr("s")))
	mustFill(t, root, "s", FromDeferred(d), Replace)

	if got := vdom.TextContent(root); got != "abundefined" {
		t.Errorf("text = %q, want abundefined", got)
	}
}

func TestFillDeferredFuncViaValueOf(t *testing.T) {
	calls := 0
	fn := func(context.Context) (Value, error) {
		calls++
		return String("later"), nil
	}
	root := vdom.Div(vdom.P(vdom.SlotAttr("s")), vdom.P(vdom.SlotAttr("s")))
	mustFill(t, root, "s", ValueOf(fn), Replace)

	if calls != 1 {
		t.Errorf("deferred ran %d times, want 1", calls)
	}
	if got := vdom.TextContent(root); got != "laterlater" {
		t.Errorf("text = %q", got)
	}
}

func TestFillDeferredFailureLeavesTree(t *testing.T) {
	boom := stderrors.New("boom")
	root := vdom.Div(vdom.P(vdom.SlotAttr("s"), "keep"))
	before := root.Clone()

	d, _, reject := NewPromise()
	reject(boom)
	err := FillSlots(ctx, root, "s", FromDeferred(d), Replace)

	if !stderrors.Is(err, ErrDeferredFailed) || !stderrors.Is(err, boom) {
		t.Fatalf("err = %v, want deferred failure wrapping boom", err)
	}
	if diff := cmp.Diff(before, root); diff != "" {
		t.Errorf("tree changed (-before +after):\n%s", diff)
	}
}

func TestFillPendingDeferredHonorsContext(t *testing.T) {
	d, _, _ := NewPromise()
	c, cancel := context.WithCancel(ctx)
	cancel()

	err := FillSlots(c, vdom.Div(), "s", FromDeferred(d), Replace)
	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestFillRootIsTarget(t *testing.T) {
	root := vdom.Span(vdom.SlotAttr("x"), vdom.Span(vdom.SlotAttr("x"), "inner"))
	mustFill(t, root, "x", String("only root"), Replace)

	if len(root.Children) != 1 || root.Children[0].Text != "only root" {
		t.Errorf("root should be the only target, got %s", render.String(root))
	}
}

func TestFillNoTargetIsNoop(t *testing.T) {
	root := vdom.Div(vdom.P(vdom.SlotAttr("a"), "keep"))
	before := root.Clone()

	mustFill(t, root, "missing", String("x"), Replace)

	if diff := cmp.Diff(before, root); diff != "" {
		t.Errorf("tree changed (-before +after):\n%s", diff)
	}
}

func TestFillIdempotent(t *testing.T) {
	values := map[string]Value{
		"scalar": String("v"),
		"node":   Node(vdom.Div(vdom.Class("n"), "node")),
		"seq":    Seq(Node(vdom.Li("a")), String("b")),
		"absent": Absent(),
	}
	for name, v := range values {
		t.Run(name, func(t *testing.T) {
			build := func() *vdom.VNode {
				return vdom.Section(
					vdom.H1(vdom.SlotAttr("s"), vdom.AttrMap("title=s"), "old"),
					vdom.P(vdom.SlotAttr("s")),
				)
			}
			once, twice := build(), build()
			_ = FillSlots(ctx, once, "s", v, Replace)
			_ = FillSlots(ctx, twice, "s", v, Replace)
			_ = FillSlots(ctx, twice, "s", v, Replace)

			if diff := cmp.Diff(once, twice); diff != "" {
				t.Errorf("second fill changed the tree (-once +twice):\n%s", diff)
			}
		})
	}
}

func TestFillAttributeBindings(t *testing.T) {
	root := vdom.Div(vdom.AttrMap("title=name"),
		vdom.A(vdom.AttrMap("href=url, class = kind"), vdom.SlotAttr("name")),
	)

	mustFill(t, root, "name", String("Ann"), Replace)
	mustFill(t, root, "url", String("/ann"), Replace)

	if got := root.GetAttr("title"); got != "Ann" {
		t.Errorf("self binding title = %q, want Ann", got)
	}
	link := root.Children[0]
	if got := link.GetAttr("href"); got != "/ann" {
		t.Errorf("href = %q, want /ann", got)
	}
	if link.HasAttr("class") {
		t.Error("unfilled slot kind should not set class")
	}
	if got := vdom.TextContent(link); got != "Ann" {
		t.Errorf("text = %q, want Ann", got)
	}

	mustFill(t, root, "kind", Seq(String("big"), String("-red")), Replace)
	if got := link.GetAttr("class"); got != "big-red" {
		t.Errorf("class = %q, want big-red", got)
	}
	mustFill(t, root, "url", Absent(), Replace)
	if got := link.GetAttr("href"); got != "undefined" {
		t.Errorf("absent href = %q, want undefined", got)
	}
}

func TestFillInvalidBindingOnlyAffectsThatBinding(t *testing.T) {
	root := vdom.Div(
		vdom.P(vdom.AttrMap("title=s"), "a"),
		vdom.P(vdom.AttrMap("id=other"), "b"),
		vdom.Div(vdom.SlotAttr("s")),
	)

	err := FillSlots(ctx, root, "s", Node(vdom.Em("x")), Replace)
	if !stderrors.Is(err, ErrInvalidAttributeBinding) {
		t.Fatalf("err = %v, want ErrInvalidAttributeBinding", err)
	}
	if root.Children[0].HasAttr("title") {
		t.Error("invalid binding should not set the attribute")
	}
	if got := root.Children[2].Tag; got != "em" {
		t.Errorf("slot fill should still apply, got <%s>", got)
	}

	if err := FillSlots(ctx, root, "other", String("ok"), Replace); err != nil {
		t.Fatalf("unrelated binding: %v", err)
	}
	if got := root.Children[1].GetAttr("id"); got != "ok" {
		t.Errorf("id = %q, want ok", got)
	}
}

func TestFillSortedOrderAndJoinedBindingErrors(t *testing.T) {
	root := vdom.Div(vdom.AttrMap("title=a,id=b"),
		vdom.P(vdom.SlotAttr("a")),
		vdom.P(vdom.SlotAttr("b")),
		vdom.P(vdom.SlotAttr("c")),
	)
	err := Fill(ctx, root, Slots{
		"c": String("3"),
		"a": Node(vdom.Em()),
		"b": Node(vdom.Em()),
	}, Replace)
	if !stderrors.Is(err, ErrInvalidAttributeBinding) {
		t.Fatalf("err = %v", err)
	}
	if root.HasAttr("title") || root.HasAttr("id") {
		t.Error("element values must not be bound to attributes")
	}
	if got := vdom.TextContent(root.Children[2]); got != "3" {
		t.Errorf("later slot should still be filled, got %q", got)
	}
	if got := (Slots{"b": Absent(), "a": Absent(), "c": Absent()}).Names(); !cmp.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("Names() = %v", got)
	}
}

func TestParseBindings(t *testing.T) {
	tests := []struct {
		in   string
		want []Binding
	}{
		{"", nil},
		{"style=color", []Binding{{"style", "color"}}},
		{"href=url,title=name", []Binding{{"href", "url"}, {"title", "name"}}},
		{" href = url , bad, a=b=c, =x", []Binding{{"href", "url"}}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, ParseBindings(tt.in)); diff != "" {
			t.Errorf("ParseBindings(%q) (-want +got):\n%s", tt.in, diff)
		}
	}
}
