package document

import (
	"errors"

	"github.com/fzzzy/mumulib/pkg/vdom"
)

// Event types understood by Dispatch.
const (
	EventFocus    = "focus"
	EventFocusOut = "focusout"
	EventInput    = "input"
	EventChange   = "change"
	EventClose    = "close"
	EventClick    = "click"
)

// ErrUnknownTarget is returned when an event names a node that is not in the
// live tree.
var ErrUnknownTarget = errors.New("document: unknown event target")

// Event is a client event delivered to document listeners.
type Event struct {
	Type string

	// HID addresses the target when Target is nil.
	HID    string
	Target *vdom.VNode

	// Value is the control's value as the client sees it (input, change,
	// focusout, focus).
	Value string

	// Checked is the checkbox or radio state (change).
	Checked bool

	// ReturnValue is the dialog's return value (close).
	ReturnValue string
}

// Listener handles a dispatched event.
type Listener func(ev *Event)

type listenerEntry struct {
	id int
	fn Listener
}

// AddEventListener registers fn for events of type typ at document level,
// so every event of that type reaches it whatever its target. The returned
// function removes the listener.
func (d *Document) AddEventListener(typ string, fn Listener) (remove func()) {
	d.nextListener++
	id := d.nextListener
	d.listeners[typ] = append(d.listeners[typ], listenerEntry{id: id, fn: fn})
	return func() {
		entries := d.listeners[typ]
		for i, e := range entries {
			if e.id == id {
				d.listeners[typ] = append(entries[:i:i], entries[i+1:]...)
				return
			}
		}
	}
}

// Dispatch applies a client event to the live tree and runs the listeners for
// its type in registration order. Call it on the task queue.
//
// The client already shows the new state, so applying it emits no patches.
func (d *Document) Dispatch(ev *Event) error {
	if ev.Target == nil && ev.HID != "" {
		ev.Target = d.Find(ev.HID)
		if ev.Target == nil {
			d.logger.Warn("event for unknown node", "hid", ev.HID, "type", ev.Type)
			return ErrUnknownTarget
		}
	}
	if ev.Target != nil {
		d.applyClientState(ev)
	}

	entries := append([]listenerEntry(nil), d.listeners[ev.Type]...)
	for _, e := range entries {
		e.fn(ev)
	}
	return nil
}

// applyClientState mirrors what the browser already did before firing ev.
func (d *Document) applyClientState(ev *Event) {
	n := ev.Target
	switch ev.Type {
	case EventInput, EventChange, EventFocusOut:
		if !IsControl(n) {
			return
		}
		if IsToggle(n) {
			if ev.Type == EventChange {
				d.setChecked(n, ev.Checked, false)
			}
			return
		}
		d.setValue(n, ev.Value, false)
	case EventClose:
		if n.Tag == "dialog" {
			n.RemoveAttr("open")
		}
	}
}
