package patslot

import (
	"strings"

	"github.com/fzzzy/mumulib/internal/errors"
	"github.com/fzzzy/mumulib/pkg/vdom"
)

// Binding maps an attribute to a slot name.
type Binding struct {
	Attr string
	Slot string
}

// ParseBindings parses a data-attr value of the form "attr=slot,attr=slot".
// Pairs that do not split into exactly two components are ignored.
func ParseBindings(s string) []Binding {
	var out []Binding
	for _, mapping := range strings.Split(s, ",") {
		parts := strings.Split(mapping, "=")
		if len(parts) != 2 {
			continue
		}
		attr, slot := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		if attr == "" {
			continue
		}
		out = append(out, Binding{Attr: attr, Slot: slot})
	}
	return out
}

// applyBindings re-derives every binding of slot name in root's subtree,
// root included. A failing binding does not stop the others.
func applyBindings(root *vdom.VNode, name string, value Materialized) []error {
	nodes := vdom.QueryAttr(root, vdom.AttrBinding)
	if root.HasAttr(vdom.AttrBinding) {
		nodes = append([]*vdom.VNode{root}, nodes...)
	}

	var errs []error
	for _, n := range nodes {
		for _, b := range ParseBindings(n.GetAttr(vdom.AttrBinding)) {
			if b.Slot != name {
				continue
			}
			s, err := attrString(value)
			if err != nil {
				errs = append(errs, errors.New("M002").
					WithDetailf("cannot bind %s on <%s> to an element value of slot %q", b.Attr, n.Tag, name))
				continue
			}
			n.SetAttr(b.Attr, s)
		}
	}
	return errs
}

// attrString stringifies a value for an attribute.
func attrString(value Materialized) (string, error) {
	var out string
	err := value.Match(Cases{
		Absent: func() error {
			out = undefinedText
			return nil
		},
		Scalar: func(text string) error {
			out = text
			return nil
		},
		Node: func(*vdom.VNode) error {
			return ErrInvalidAttributeBinding
		},
		Seq: func(items []Item) error {
			var b strings.Builder
			for _, item := range items {
				if item.Node != nil {
					return ErrInvalidAttributeBinding
				}
				b.WriteString(item.Text)
			}
			out = b.String()
			return nil
		},
	})
	return out, err
}
