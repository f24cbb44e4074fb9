package vdom

import "strings"

// attr creates an Attr with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Identity attributes

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// StyleAttr sets the style attribute (named to avoid conflict with Style element).
func StyleAttr(style string) Attr { return attr("style", style) }

// Data creates a data-* attribute.
// Example: Data("id", "123") → data-id="123"
func Data(key, value string) Attr { return attr("data-"+key, value) }

// Pattern and slot vocabulary

// Pat marks a node as the pattern named id (data-pat).
func Pat(id string) Attr { return attr(AttrPattern, id) }

// SlotAttr marks a node as a fill target for the slot named id (data-slot).
func SlotAttr(id string) Attr { return attr(AttrSlot, id) }

// AttrMap declares attribute bindings in "attr=slot,attr=slot" form (data-attr).
func AttrMap(bindings string) Attr { return attr(AttrBinding, bindings) }

// Form attributes

// Name sets the name attribute.
func Name(name string) Attr { return attr("name", name) }

// Value sets the value attribute.
func Value(value string) Attr { return attr("value", value) }

// Type sets the type attribute.
func Type(t string) Attr { return attr("type", t) }

// Checked sets the checked attribute.
func Checked() Attr { return attr("checked", true) }

// Selected sets the selected attribute.
func Selected() Attr { return attr("selected", true) }

// Open sets the open attribute (dialog, details).
func Open() Attr { return attr("open", true) }
