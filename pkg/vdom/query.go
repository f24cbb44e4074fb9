package vdom

import "strings"

// Walk visits root and its descendants in document order.
// If visit returns false the children of that node are skipped.
func Walk(root *VNode, visit func(n *VNode) bool) {
	if root == nil {
		return
	}
	if !visit(root) {
		return
	}
	for _, child := range root.Children {
		Walk(child, visit)
	}
}

// QueryAll returns every descendant of root (root excluded) whose attribute
// key equals value, in document order.
func QueryAll(root *VNode, key, value string) []*VNode {
	var out []*VNode
	descendants(root, func(n *VNode) {
		if v, ok := n.Attr(key); ok && v == value {
			out = append(out, n)
		}
	})
	return out
}

// QueryAttr returns every descendant of root (root excluded) that carries
// attribute key, in document order.
func QueryAttr(root *VNode, key string) []*VNode {
	var out []*VNode
	descendants(root, func(n *VNode) {
		if n.HasAttr(key) {
			out = append(out, n)
		}
	})
	return out
}

// First returns the first descendant whose attribute key equals value.
func First(root *VNode, key, value string) *VNode {
	var found *VNode
	Walk(root, func(n *VNode) bool {
		if found != nil {
			return false
		}
		if n != root {
			if v, ok := n.Attr(key); ok && v == value {
				found = n
				return false
			}
		}
		return true
	})
	return found
}

// FindByID returns the first node in root's subtree (root included) with the given id.
func FindByID(root *VNode, id string) *VNode {
	if root.GetAttr("id") == id && root.IsElement() {
		return root
	}
	return First(root, "id", id)
}

// FindTag returns every element in root's subtree (root excluded) with one of the given tags.
func FindTag(root *VNode, tags ...string) []*VNode {
	var out []*VNode
	descendants(root, func(n *VNode) {
		if n.Kind != KindElement {
			return
		}
		for _, t := range tags {
			if strings.EqualFold(n.Tag, t) {
				out = append(out, n)
				return
			}
		}
	})
	return out
}

func descendants(root *VNode, fn func(n *VNode)) {
	if root == nil {
		return
	}
	for _, child := range root.Children {
		Walk(child, func(n *VNode) bool {
			if n != nil {
				fn(n)
			}
			return true
		})
	}
}

// TextContent returns the concatenated text of v and its descendants.
func TextContent(v *VNode) string {
	if v == nil {
		return ""
	}
	if v.Kind == KindText || v.Kind == KindRaw {
		return v.Text
	}
	var b strings.Builder
	Walk(v, func(n *VNode) bool {
		if n.Kind == KindText || n.Kind == KindRaw {
			b.WriteString(n.Text)
		}
		return true
	})
	return b.String()
}

// SetTextContent replaces all children of v with a single text node.
// An empty string leaves v without children.
func SetTextContent(v *VNode, s string) {
	if v.Kind == KindText || v.Kind == KindRaw {
		v.Text = s
		return
	}
	v.Children = make([]*VNode, 0, 1)
	if s != "" {
		v.Children = append(v.Children, Text(s))
	}
}

// AppendChild adds child as the last child of parent.
func AppendChild(parent, child *VNode) {
	parent.Children = append(parent.Children, child)
}

// RemoveChildren detaches every child of v.
func RemoveChildren(v *VNode) {
	v.Children = make([]*VNode, 0)
}

// ReplaceWith substitutes replacement for target at target's position in
// whatever tree holds it. The substitution is done in place: every parent
// that referenced target now sees the replacement's kind, tag, attributes,
// and children. replacement should not be used afterwards.
func ReplaceWith(target, replacement *VNode) {
	hid := target.HID
	*target = *replacement
	target.HID = hid
}
