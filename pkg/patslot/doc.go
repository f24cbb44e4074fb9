// Package patslot clones markup patterns and fills their slots.
//
// A pattern is any element carrying data-pat="<id>". A slot is any element
// carrying data-slot="<name>". Filling a slot writes a Value into every
// matching node: scalars become text, elements replace the node, sequences
// become its children. After each fill, data-attr bindings of the form
// "attr=slot,attr=slot" are re-derived for the slot just filled.
//
//	reg := patslot.NewBaseline(doc.Body)
//	person, err := patslot.ClonePattern(ctx, reg, "person", patslot.Slots{
//	    "name":  patslot.String("Jane Smith"),
//	    "age":   patslot.Scalar(12),
//	    "color": patslot.String("color: blue"),
//	})
//
// ClonePattern and FillSlots are pure tree transformations over *vdom.VNode.
// RenderBody is the one entry point that touches a live document, through
// the Host interface.
package patslot
