package document

import (
	"strconv"

	"github.com/fzzzy/mumulib/pkg/vdom"
)

// IsControl reports whether n is an input, select or textarea element.
func IsControl(n *vdom.VNode) bool {
	if n == nil || n.Kind != vdom.KindElement {
		return false
	}
	switch n.Tag {
	case "input", "select", "textarea":
		return true
	}
	return false
}

// IsToggle reports whether n is a checkbox or radio input.
func IsToggle(n *vdom.VNode) bool {
	if n == nil || n.Tag != "input" {
		return false
	}
	t := n.GetAttr("type")
	return t == "checkbox" || t == "radio"
}

// Controls returns every named form control in root's subtree, root
// included, in document order.
func Controls(root *vdom.VNode) []*vdom.VNode {
	var out []*vdom.VNode
	vdom.Walk(root, func(n *vdom.VNode) bool {
		if IsControl(n) && n.HasAttr("name") {
			out = append(out, n)
		}
		return true
	})
	return out
}

// ControlValue returns the value a control would submit: the value
// attribute for inputs, the text for textareas and the selected option's
// value for selects.
func ControlValue(n *vdom.VNode) string {
	switch n.Tag {
	case "textarea":
		return vdom.TextContent(n)
	case "select":
		options := vdom.FindTag(n, "option")
		for _, opt := range options {
			if isOn(opt, "selected") {
				return optionValue(opt)
			}
		}
		if len(options) > 0 {
			return optionValue(options[0])
		}
		return ""
	default:
		return n.GetAttr("value")
	}
}

// ControlChecked reports whether a checkbox or radio is checked.
func ControlChecked(n *vdom.VNode) bool {
	return isOn(n, "checked")
}

// SetControlValue sets a control's value in the live tree and pushes it to
// clients. It reports whether anything changed.
func (d *Document) SetControlValue(n *vdom.VNode, value string) bool {
	return d.setValue(n, value, true)
}

// SetChecked checks or unchecks a checkbox or radio and pushes it to
// clients. Checking a radio unchecks the others of its group.
func (d *Document) SetChecked(n *vdom.VNode, checked bool) bool {
	return d.setChecked(n, checked, true)
}

func (d *Document) setValue(n *vdom.VNode, value string, push bool) bool {
	if ControlValue(n) == value {
		return false
	}
	switch n.Tag {
	case "textarea":
		vdom.SetTextContent(n, value)
	case "select":
		for _, opt := range vdom.FindTag(n, "option") {
			if optionValue(opt) == value {
				opt.SetAttr("selected", true)
			} else {
				opt.RemoveAttr("selected")
			}
		}
	default:
		n.SetAttr("value", value)
	}
	if push {
		d.publish([]vdom.Patch{{Op: vdom.PatchSetValue, HID: n.HID, Key: "value", Value: value}})
	}
	return true
}

func (d *Document) setChecked(n *vdom.VNode, checked, push bool) bool {
	if ControlChecked(n) == checked {
		return false
	}
	if checked {
		n.SetAttr("checked", true)
		if n.GetAttr("type") == "radio" {
			d.uncheckGroup(n)
		}
	} else {
		n.RemoveAttr("checked")
	}
	if push {
		d.publish([]vdom.Patch{{Op: vdom.PatchSetValue, HID: n.HID, Key: "checked", Value: strconv.FormatBool(checked)}})
	}
	return true
}

// uncheckGroup clears the other radios sharing n's name.
func (d *Document) uncheckGroup(n *vdom.VNode) {
	name := n.GetAttr("name")
	if name == "" {
		return
	}
	for _, other := range vdom.QueryAll(d.body, "name", name) {
		if other != n && other.Tag == "input" && other.GetAttr("type") == "radio" {
			other.RemoveAttr("checked")
		}
	}
}

func optionValue(opt *vdom.VNode) string {
	if v, ok := opt.Attr("value"); ok {
		return v
	}
	return vdom.TextContent(opt)
}

// isOn reports whether a boolean attribute is present and not false.
func isOn(n *vdom.VNode, key string) bool {
	v, ok := n.Props[key]
	if !ok || v == nil {
		return false
	}
	if b, isBool := v.(bool); isBool {
		return b
	}
	return true
}
