package vdom

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement  VKind = iota // <div>, <dl>, etc.
	KindText                  // Plain text node
	KindFragment              // Grouping without wrapper
	KindRaw                   // Raw HTML (dangerous)
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindRaw:
		return "Raw"
	default:
		return "Unknown"
	}
}

// Markup attribute vocabulary shared with the host document.
const (
	AttrPattern = "data-pat"
	AttrSlot    = "data-slot"
	AttrBinding = "data-attr"
)

// VNode is a markup node.
type VNode struct {
	Kind     VKind    // Node type
	Tag      string   // Element tag name (e.g., "div")
	Props    Props    // Attributes
	Children []*VNode // Child nodes
	Text     string   // For KindText and KindRaw
	HID      string   // Hydration ID (assigned by AssignHIDs)
}

// Props holds attributes.
type Props map[string]any

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// IsElement reports whether v is a non-nil element node.
func (v *VNode) IsElement() bool {
	return v != nil && v.Kind == KindElement
}

// Attr returns the string form of the named attribute and whether it is set.
func (v *VNode) Attr(key string) (string, bool) {
	if v == nil || v.Props == nil {
		return "", false
	}
	val, ok := v.Props[key]
	if !ok {
		return "", false
	}
	return PropString(val), true
}

// GetAttr returns the string form of the named attribute, or "" if unset.
func (v *VNode) GetAttr(key string) string {
	s, _ := v.Attr(key)
	return s
}

// HasAttr reports whether the named attribute is set.
func (v *VNode) HasAttr(key string) bool {
	_, ok := v.Attr(key)
	return ok
}

// SetAttr sets an attribute, allocating Props if needed.
func (v *VNode) SetAttr(key string, value any) {
	if v.Props == nil {
		v.Props = make(Props)
	}
	v.Props[key] = value
}

// RemoveAttr deletes an attribute.
func (v *VNode) RemoveAttr(key string) {
	if v.Props != nil {
		delete(v.Props, key)
	}
}
