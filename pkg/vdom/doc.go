// Package vdom provides the markup node model used by mumulib.
//
// A VNode is an ownership-free reference into a live or offscreen element
// tree. Identity is positional: two nodes are the same only if they are the
// same pointer at the same place in a tree.
//
// # Core Types
//
// VNode represents elements, text, fragments, and raw HTML. Props holds the
// attributes of an element. Attr is used to build Props.
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Dl(Pat("person"), AttrMap("style=color"),
//	    Dt(Text("Name")),
//	    Dd(SlotAttr("name"), Text("name goes here")),
//	)
//
// Markup can also be parsed from HTML text with Parse and ParseFragment.
//
// # Morphing
//
// Morph reconciles a live tree against a desired tree in place and returns
// the Patch operations it applied, addressed by HID. AssignHIDs walks a tree
// and gives every node a hydration ID so patches can be replayed on a client.
package vdom
