// Package live runs a document whose body is derived from application state.
//
// An App owns one document, one state store, the form binding between them
// and a dialog orchestrator. Every state notification re-renders the body:
// each top-level key fills the slot of the same name. A map carrying a "pat"
// key becomes a clone of that pattern filled with its other keys, and a list
// becomes a sequence.
//
//	app := live.New(body, live.WithInitialState(state.Patch{
//	    "person1": map[string]any{"pat": "person", "name": "Jane"},
//	}))
//	go app.Run(ctx)
//
// Elements carrying data-dialog open the dialog with that id when clicked;
// data-path names the state the dialog edits.
package live
