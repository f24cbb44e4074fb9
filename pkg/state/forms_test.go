package state

import (
	"testing"

	"github.com/fzzzy/mumulib/pkg/document"
	"github.com/fzzzy/mumulib/pkg/vdom"
)

func formFixture(t *testing.T) (*Store, *document.Document, *int) {
	t.Helper()
	frames := document.NewManualFrames()
	doc := document.New(vdom.Body(vdom.Form(
		vdom.Input(vdom.ID("title"), vdom.Name("this.title")),
		vdom.Input(vdom.ID("sel"), vdom.Name("selected")),
		vdom.Input(vdom.ID("pname"), vdom.Name("selected.name")),
		vdom.Textarea(vdom.ID("notes"), vdom.Name("this.notes")),
		vdom.Select(vdom.ID("color"), vdom.Name("this.color"),
			vdom.Option(vdom.Value("red"), "Red"),
			vdom.Option(vdom.Value("blue"), "Blue"),
		),
		vdom.Input(vdom.ID("small"), vdom.Type("radio"), vdom.Name("this.size"), vdom.Value("s")),
		vdom.Input(vdom.ID("large"), vdom.Type("radio"), vdom.Name("this.size"), vdom.Value("l")),
		vdom.Input(vdom.ID("agree"), vdom.Type("checkbox"), vdom.Name("this.agree")),
		vdom.Input(vdom.ID("free"), vdom.Name("unbound")),
	)), document.WithFrames(frames))

	store := New(frames)
	BindForms(store, doc)
	calls := new(int)
	store.OnState(func(State) { *calls++ })
	store.Ready()
	*calls = 0
	return store, doc, calls
}

func control(t *testing.T, doc *document.Document, id string) *vdom.VNode {
	t.Helper()
	n := doc.GetElementByID(id)
	if n == nil {
		t.Fatalf("no control %q", id)
	}
	return n
}

func TestFormsReflectState(t *testing.T) {
	store, doc, _ := formFixture(t)

	store.SetState(Patch{
		"title":    "Hello",
		"notes":    "line",
		"color":    "blue",
		"size":     "l",
		"agree":    true,
		"selected": "people.ann",
		"people":   map[string]any{"ann": map[string]any{"name": "Ann"}},
	})

	tests := map[string]string{
		"title": "Hello",
		"notes": "line",
		"color": "blue",
		"sel":   "people.ann",
		"pname": "Ann",
		"free":  "",
	}
	for id, want := range tests {
		if got := document.ControlValue(control(t, doc, id)); got != want {
			t.Errorf("%s = %q, want %q", id, got, want)
		}
	}
	if !document.ControlChecked(control(t, doc, "large")) || document.ControlChecked(control(t, doc, "small")) {
		t.Error("radio group not reflected")
	}
	if !document.ControlChecked(control(t, doc, "agree")) {
		t.Error("checkbox not reflected")
	}
}

func TestFormsReflectSkipsRedundantWrites(t *testing.T) {
	store, doc, _ := formFixture(t)
	store.SetState(Patch{"title": "Same"})

	patches := 0
	doc.Subscribe(func(p []vdom.Patch) { patches += len(p) })
	store.SetState(Patch{"other": 1})
	if patches != 0 {
		t.Errorf("unchanged controls produced %d patches", patches)
	}
}

func TestFormsFocusOutWritesOnlyChanges(t *testing.T) {
	store, doc, calls := formFixture(t)
	title := control(t, doc, "title")

	// Focus and blur without editing.
	_ = doc.Dispatch(&document.Event{Type: document.EventFocus, Target: title})
	_ = doc.Dispatch(&document.Event{Type: document.EventFocusOut, Target: title, Value: ""})
	if *calls != 0 {
		t.Fatalf("unchanged focusout notified %d times", *calls)
	}

	_ = doc.Dispatch(&document.Event{Type: document.EventFocus, Target: title})
	_ = doc.Dispatch(&document.Event{Type: document.EventFocusOut, Target: title, Value: "typed"})
	if v, _ := store.Get("title"); v != "typed" || *calls != 1 {
		t.Errorf("title = %v, calls = %d", v, *calls)
	}

	// A change after the focusout with the same value is not written again.
	_ = doc.Dispatch(&document.Event{Type: document.EventChange, Target: title, Value: "typed"})
	if *calls != 1 {
		t.Errorf("duplicate commit notified, calls = %d", *calls)
	}
}

func TestFormsWriteWithoutFocusSnapshot(t *testing.T) {
	store, doc, _ := formFixture(t)
	notes := control(t, doc, "notes")

	_ = doc.Dispatch(&document.Event{Type: document.EventFocusOut, Target: notes, Value: "direct"})
	if v, _ := store.Get("notes"); v != "direct" {
		t.Errorf("notes = %v", v)
	}
}

func TestFormsSelectedPaths(t *testing.T) {
	store, doc, _ := formFixture(t)
	store.SetState(Patch{"selected": "this.people.bob"})

	pname := control(t, doc, "pname")
	_ = doc.Dispatch(&document.Event{Type: document.EventFocusOut, Target: pname, Value: "Bob"})

	if v, ok := store.Get("people.bob.name"); !ok || v != "Bob" {
		t.Errorf("people.bob.name = %v, %v", v, ok)
	}

	sel := control(t, doc, "sel")
	_ = doc.Dispatch(&document.Event{Type: document.EventFocusOut, Target: sel, Value: "people.cy"})
	if store.Selected() != "people.cy" {
		t.Errorf("selected = %q", store.Selected())
	}
}

func TestFormsSelectedUnsetIgnoresWrites(t *testing.T) {
	store, doc, calls := formFixture(t)
	pname := control(t, doc, "pname")
	_ = doc.Dispatch(&document.Event{Type: document.EventFocusOut, Target: pname, Value: "x"})
	if *calls != 0 || len(store.State()) != 1 {
		t.Errorf("write without selection changed state: %v", store.State())
	}
}

func TestFormsTogglesAlwaysWriteOnChange(t *testing.T) {
	store, doc, calls := formFixture(t)

	color := control(t, doc, "color")
	_ = doc.Dispatch(&document.Event{Type: document.EventFocus, Target: color})
	_ = doc.Dispatch(&document.Event{Type: document.EventChange, Target: color, Value: "blue"})
	if v, _ := store.Get("color"); v != "blue" {
		t.Errorf("color = %v", v)
	}

	small := control(t, doc, "small")
	_ = doc.Dispatch(&document.Event{Type: document.EventChange, Target: small, Checked: true})
	if v, _ := store.Get("size"); v != "s" {
		t.Errorf("size = %v", v)
	}

	agree := control(t, doc, "agree")
	_ = doc.Dispatch(&document.Event{Type: document.EventChange, Target: agree, Checked: true})
	if v, _ := store.Get("agree"); v != true {
		t.Errorf("agree = %v", v)
	}

	// focusout on toggles and selects is ignored.
	before := *calls
	_ = doc.Dispatch(&document.Event{Type: document.EventFocusOut, Target: agree})
	if *calls != before {
		t.Error("focusout on a checkbox should not write")
	}
}

func TestFormsUnbind(t *testing.T) {
	frames := document.NewManualFrames()
	doc := document.New(vdom.Body(vdom.Input(vdom.ID("t"), vdom.Name("this.t"))), document.WithFrames(frames))
	store := New(frames)
	b := BindForms(store, doc)
	store.Ready()
	b.Unbind()

	store.SetState(Patch{"t": "x"})
	if got := document.ControlValue(control(t, doc, "t")); got != "" {
		t.Errorf("unbound control updated to %q", got)
	}
	_ = doc.Dispatch(&document.Event{Type: document.EventFocusOut, Target: control(t, doc, "t"), Value: "y"})
	if v, _ := store.Get("t"); v != "x" {
		t.Errorf("unbound control wrote %v", v)
	}
}
