// Package dialog opens modal forms bound to a selected part of the state.
//
// Open marks a state path as selected, renders the dialog from the value at
// that path and shows it. When the client closes the dialog the form it was
// closed with is collected. A form carrying a "method" input calls that
// method on the selected value; any other form writes its "selected.*"
// inputs back into the state. Either way the selection is cleared.
package dialog

import (
	"context"
	"log/slog"
	"strings"

	"github.com/fzzzy/mumulib/internal/errors"
	"github.com/fzzzy/mumulib/pkg/document"
	"github.com/fzzzy/mumulib/pkg/metrics"
	"github.com/fzzzy/mumulib/pkg/state"
	"github.com/fzzzy/mumulib/pkg/vdom"
)

// ReturnCancel is the return value that dismisses a dialog without effect.
const ReturnCancel = "cancel"

// Reserved input names of a method form.
const (
	inputMethod = "method"
	inputPath   = "path"
)

// Render builds the desired dialog from a copy of the live one and the value
// at the selected path.
type Render func(dialog *vdom.VNode, sub any) *vdom.VNode

// Method handles a method form. args holds the form's inputs by name,
// without "method" and "path".
type Method func(ctx context.Context, args map[string]string) error

// Invoker is a state value that dispatches method forms itself.
type Invoker interface {
	Invoke(ctx context.Context, method string, args map[string]string) error
}

// Orchestrator opens dialogs of one document.
type Orchestrator struct {
	store   *state.Store
	doc     *document.Document
	logger  *slog.Logger
	metrics *metrics.Recorder
	onError func(error)

	// Close listeners by dialog id.
	open map[string]func()
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithErrorHandler sets a callback for failures while handling a close.
func WithErrorHandler(fn func(error)) Option {
	return func(o *Orchestrator) { o.onError = fn }
}

// WithMetrics sets the metrics recorder (default: metrics.Default()).
func WithMetrics(m *metrics.Recorder) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// New creates an Orchestrator.
func New(store *state.Store, doc *document.Document, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store: store,
		doc:   doc,
		open:  make(map[string]func()),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default().With("component", "dialog")
	}
	if o.metrics == nil {
		o.metrics = metrics.Default()
	}
	return o
}

// Open selects path, renders the dialog with id dialogID from the value at
// path and shows it. Call it on the document's task queue; ctx is passed to
// the method invoked when the dialog closes.
func (o *Orchestrator) Open(ctx context.Context, dialogID, path string, render Render) error {
	live := o.doc.GetElementByID(dialogID)
	if live == nil {
		return errors.New("M021").WithDetailf("no dialog with id %q", dialogID)
	}

	o.store.SetState(state.Patch{state.SelectedKey: path})
	sub, _ := o.store.Get(path)

	desired := live.Clone()
	if render != nil {
		desired = render(desired, sub)
	}
	desired.SetAttr("open", true)
	o.doc.Morph(live, desired)

	if remove, ok := o.open[dialogID]; ok {
		remove()
	}
	var remove func()
	remove = o.doc.AddEventListener(document.EventClose, func(ev *document.Event) {
		if ev.Target != live {
			return
		}
		remove()
		delete(o.open, dialogID)
		if err := o.Close(ctx, live, ev.ReturnValue); err != nil {
			o.logger.Error("dialog close failed", "dialog", dialogID, "error", err)
			if o.onError != nil {
				o.onError(err)
			}
		}
	})
	o.open[dialogID] = remove

	o.logger.Debug("dialog opened", "dialog", dialogID, "path", path)
	return nil
}

// Close applies the form a dialog was closed with and clears the selection.
func (o *Orchestrator) Close(ctx context.Context, dialog *vdom.VNode, returnValue string) error {
	defer o.store.SetState(state.Patch{state.SelectedKey: state.Absent})

	if returnValue == ReturnCancel {
		o.metrics.RecordDialog("cancel")
		return nil
	}

	form := findForm(dialog, returnValue)
	if form == nil {
		o.metrics.RecordDialog("empty")
		return nil
	}

	args := collect(form)
	if method, ok := args[inputMethod]; ok {
		target := args[inputPath]
		if target == "" {
			target = o.store.Selected()
		}
		delete(args, inputMethod)
		delete(args, inputPath)
		if err := o.invoke(ctx, target, method, args); err != nil {
			o.metrics.RecordDialog("error")
			return err
		}
		o.metrics.RecordDialog("method")
		return nil
	}

	selected := o.store.Selected()
	if selected == "" {
		o.metrics.RecordDialog("empty")
		return nil
	}
	for _, in := range vdom.FindTag(form, "input") {
		field, ok := strings.CutPrefix(in.GetAttr("name"), "selected.")
		if !ok || field == "" {
			continue
		}
		if v, ok := inputValue(in); ok {
			o.store.SetPath(state.JoinPath(selected, field), v)
		}
	}
	o.metrics.RecordDialog("fields")
	return nil
}

// invoke calls method on the value at path.
func (o *Orchestrator) invoke(ctx context.Context, path, method string, args map[string]string) error {
	target, _ := o.store.Get(path)

	var fn Method
	switch t := target.(type) {
	case Invoker:
		fn = func(ctx context.Context, args map[string]string) error {
			return t.Invoke(ctx, method, args)
		}
	case map[string]any:
		switch m := t[method].(type) {
		case Method:
			fn = m
		case func(context.Context, map[string]string) error:
			fn = m
		}
	}
	if fn == nil {
		return errors.New("M020").WithDetailf("%s has no method %q", path, method)
	}

	o.logger.Debug("calling dialog method", "path", path, "method", method)
	if err := fn(ctx, args); err != nil {
		return errors.New("M022").WithDetailf("%s.%s", path, method).Wrap(err)
	}
	return nil
}

// findForm returns the form named returnValue, else the first form.
func findForm(dialog *vdom.VNode, returnValue string) *vdom.VNode {
	forms := vdom.FindTag(dialog, "form")
	if returnValue != "" {
		for _, f := range forms {
			if f.GetAttr("name") == returnValue {
				return f
			}
		}
	}
	if len(forms) > 0 {
		return forms[0]
	}
	return nil
}

// collect returns a form's named inputs.
func collect(form *vdom.VNode) map[string]string {
	args := make(map[string]string)
	for _, in := range vdom.FindTag(form, "input") {
		name := in.GetAttr("name")
		if v, ok := inputValue(in); ok && name != "" {
			args[name] = v
		}
	}
	return args
}

// inputValue returns what an input submits; unchecked radios submit nothing.
func inputValue(in *vdom.VNode) (string, bool) {
	switch in.GetAttr("type") {
	case "checkbox":
		if document.ControlChecked(in) {
			return "on", true
		}
		return "", true
	case "radio":
		return document.ControlValue(in), document.ControlChecked(in)
	}
	return document.ControlValue(in), true
}
