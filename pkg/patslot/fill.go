package patslot

import (
	"context"
	stderrors "errors"
	"sort"

	"github.com/fzzzy/mumulib/pkg/metrics"
	"github.com/fzzzy/mumulib/pkg/vdom"
)

// Mode selects how a fill treats existing content.
type Mode uint8

const (
	// Replace substitutes the target (elements) or its content (everything else).
	Replace Mode = iota
	// Append adds to the target's existing content.
	Append
)

// String returns the string representation of the Mode.
func (m Mode) String() string {
	if m == Append {
		return "append"
	}
	return "replace"
}

// Slots maps slot names to values.
type Slots map[string]Value

// Names returns the slot names in the order fills are applied (sorted).
func (s Slots) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FillSlots writes value into every node of root's subtree carrying
// data-slot=name, then re-derives the data-attr bindings of that slot.
//
// If root itself carries data-slot=name it is the only target. A fill with no
// targets is a no-op. The value is materialized once and applied identically
// to every target, in document order.
//
// The returned error is either a materialization failure (nothing was
// filled) or one or more ErrInvalidAttributeBinding errors (every target and
// every other binding was still applied).
func FillSlots(ctx context.Context, root *vdom.VNode, name string, value Value, mode Mode) error {
	if root == nil {
		return nil
	}

	m, err := value.Materialize(ctx)
	if err != nil {
		return err
	}

	var targets []*vdom.VNode
	if slot, ok := root.Attr(vdom.AttrSlot); ok && slot == name {
		targets = []*vdom.VNode{root}
	} else {
		targets = vdom.QueryAll(root, vdom.AttrSlot, name)
	}

	for _, target := range targets {
		fillTarget(target, name, m, mode)
	}
	metrics.Default().RecordFill(mode.String(), len(targets))

	return stderrors.Join(applyBindings(root, name, m)...)
}

// Fill applies every slot in s to root in Names order. A materialization
// failure stops the fill; binding failures are collected and returned once
// every slot has been applied.
func Fill(ctx context.Context, root *vdom.VNode, s Slots, mode Mode) error {
	var errs []error
	for _, name := range s.Names() {
		err := FillSlots(ctx, root, name, s[name], mode)
		if err == nil {
			continue
		}
		if !stderrors.Is(err, ErrInvalidAttributeBinding) {
			return err
		}
		errs = append(errs, err)
	}
	return stderrors.Join(errs...)
}

// fillTarget applies a materialized value to one slot node.
func fillTarget(target *vdom.VNode, name string, m Materialized, mode Mode) {
	_ = m.Match(Cases{
		Node: func(n *vdom.VNode) error {
			fresh := n.Clone()
			if mode == Append {
				vdom.AppendChild(target, fresh)
				return nil
			}
			if fresh.Kind == vdom.KindElement {
				fresh.SetAttr(vdom.AttrSlot, name)
				if pat, ok := target.Attr(vdom.AttrPattern); ok && !fresh.HasAttr(vdom.AttrPattern) {
					fresh.SetAttr(vdom.AttrPattern, pat)
				}
			}
			vdom.ReplaceWith(target, fresh)
			return nil
		},
		Seq: func(items []Item) error {
			if mode == Replace {
				vdom.RemoveChildren(target)
			}
			for _, item := range items {
				if item.Node != nil {
					vdom.AppendChild(target, item.Node.Clone())
				} else {
					vdom.AppendChild(target, vdom.Text(item.Text))
				}
			}
			return nil
		},
		Scalar: func(text string) error {
			fillText(target, text, mode)
			return nil
		},
		Absent: func() error {
			fillText(target, undefinedText, mode)
			return nil
		},
	})
}

func fillText(target *vdom.VNode, text string, mode Mode) {
	if mode == Append {
		text = vdom.TextContent(target) + text
	}
	vdom.SetTextContent(target, text)
}
