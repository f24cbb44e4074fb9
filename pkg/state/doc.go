// Package state provides the shared application state store.
//
// A Store holds one mutable map, notifies subscribers when it changes and
// coalesces mutations made from inside a notification into a single
// notification on the next frame:
//
//	store := state.New(doc)
//	store.OnState(func(s state.State) { render(s) })
//	doc.OnReady(store.Ready)
//
//	store.SetState(state.Patch{"selected": "person1"})
//	store.SetPath("person1.number", 1)
//
// A Store is not safe for concurrent use. Like the document it belongs to,
// it is driven from the document's task queue.
package state
