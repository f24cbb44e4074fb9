package state

import (
	"fmt"
	"strings"

	"github.com/fzzzy/mumulib/pkg/document"
	"github.com/fzzzy/mumulib/pkg/vdom"
)

// Form control names bound to the state.
const (
	thisPrefix     = "this."
	selectedPrefix = "selected."
)

// statePath returns the state path a control name is bound to.
func (s *Store) statePath(name string) (string, bool) {
	switch {
	case name == SelectedKey:
		return SelectedKey, true
	case strings.HasPrefix(name, thisPrefix):
		return name[len(thisPrefix):], true
	case strings.HasPrefix(name, selectedPrefix):
		sel := s.Selected()
		if sel == "" {
			return "", false
		}
		return JoinPath(sel, name[len(selectedPrefix):]), true
	}
	return "", false
}

// FormBinding keeps the document's form controls and a Store in sync.
type FormBinding struct {
	store  *Store
	doc    *document.Document
	focus  map[string]string
	remove []func()
	active bool
}

// BindForms synchronizes doc's form controls named "this.*", "selected.*"
// or "selected" with store.
//
// After every notification each bound control shows the value at its path.
// Edits flow back through SetPath: text controls on focusout or change, only
// if the value differs from the one seen at focus; selects, checkboxes and
// radios on every change.
func BindForms(store *Store, doc *document.Document) *FormBinding {
	b := &FormBinding{
		store:  store,
		doc:    doc,
		focus:  make(map[string]string),
		active: true,
	}
	store.OnState(b.refresh)
	b.remove = append(b.remove,
		doc.AddEventListener(document.EventFocus, b.onFocus),
		doc.AddEventListener(document.EventFocusOut, b.onCommit),
		doc.AddEventListener(document.EventChange, b.onCommit),
	)
	return b
}

// Unbind stops the synchronization.
func (b *FormBinding) Unbind() {
	b.active = false
	for _, fn := range b.remove {
		fn()
	}
	b.remove = nil
}

// refresh writes state values into bound controls that differ.
func (b *FormBinding) refresh(State) {
	if !b.active {
		return
	}
	for _, n := range document.Controls(b.doc.Body()) {
		path, ok := b.store.statePath(n.GetAttr("name"))
		if !ok {
			continue
		}
		v, ok := b.store.Get(path)
		if !ok {
			continue
		}
		switch {
		case n.GetAttr("type") == "checkbox":
			b.doc.SetChecked(n, truthy(v))
		case n.GetAttr("type") == "radio":
			b.doc.SetChecked(n, toString(v) == document.ControlValue(n))
		default:
			if b.doc.SetControlValue(n, toString(v)) {
				b.focus[n.HID] = toString(v)
			}
		}
	}
}

func (b *FormBinding) onFocus(ev *document.Event) {
	n := ev.Target
	if !document.IsControl(n) {
		return
	}
	b.focus[n.HID] = document.ControlValue(n)
}

// onCommit handles focusout and change.
func (b *FormBinding) onCommit(ev *document.Event) {
	n := ev.Target
	if !document.IsControl(n) {
		return
	}
	path, ok := b.store.statePath(n.GetAttr("name"))
	if !ok {
		return
	}

	if document.IsToggle(n) || n.Tag == "select" {
		if ev.Type != document.EventChange {
			return
		}
		b.write(n, path)
		return
	}

	value := document.ControlValue(n)
	if seen, ok := b.focus[n.HID]; ok && seen == value {
		return
	}
	b.focus[n.HID] = value
	b.write(n, path)
}

func (b *FormBinding) write(n *vdom.VNode, path string) {
	switch n.GetAttr("type") {
	case "checkbox":
		b.store.SetPath(path, document.ControlChecked(n))
	case "radio":
		if document.ControlChecked(n) {
			b.store.SetPath(path, document.ControlValue(n))
		}
	default:
		b.store.SetPath(path, document.ControlValue(n))
	}
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != "" && x != "false"
	default:
		return toString(v) != "0"
	}
}

func toString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return fmt.Sprint(v)
	}
}
