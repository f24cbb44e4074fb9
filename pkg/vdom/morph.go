package vdom

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
)

// Morpher reconciles live trees against desired trees in place.
type Morpher struct {
	gen *HIDGenerator
}

// NewMorpher creates a Morpher. Nodes inserted into a live tree receive HIDs
// from gen; a nil gen leaves new nodes without HIDs.
func NewMorpher(gen *HIDGenerator) *Morpher {
	return &Morpher{gen: gen}
}

// Morph reconciles live against desired with a throwaway Morpher.
func Morph(live, desired *VNode) []Patch {
	return NewMorpher(nil).Morph(live, desired)
}

// Morph mutates live until it is structurally equal to desired and returns the
// patches it applied, in order. Matching is positional. desired is never
// mutated and no node of desired is adopted into live; inserted subtrees are
// clones.
func (m *Morpher) Morph(live, desired *VNode) []Patch {
	var patches []Patch
	if live == nil || desired == nil {
		return patches
	}
	m.morph(live, desired, "", 0, &patches)
	return patches
}

// morph recursively reconciles nodes and appends patches.
// parentHID is the HID of the parent element and index the position of live
// among its children.
func (m *Morpher) morph(live, desired *VNode, parentHID string, index int, patches *[]Patch) {
	// Different types or tags - replace
	if live.Kind != desired.Kind || (live.Kind == KindElement && live.Tag != desired.Tag) {
		m.replace(live, desired, parentHID, index, patches)
		return
	}

	switch live.Kind {
	case KindText, KindRaw:
		m.morphText(live, desired, parentHID, index, patches)
	case KindElement:
		m.morphProps(live, desired, patches)
		m.morphChildren(live, desired, live.HID, patches)
	case KindFragment:
		m.morphChildren(live, desired, parentHID, patches)
	}
}

// replace swaps live for a clone of desired, keeping live's position.
func (m *Morpher) replace(live, desired *VNode, parentHID string, index int, patches *[]Patch) {
	hid := live.HID
	fresh := desired.Clone()
	AssignHIDs(fresh, m.gen)
	*patches = append(*patches, Patch{
		Op:       PatchReplaceNode,
		HID:      hid,
		Node:     fresh,
		ParentID: parentHID,
		Index:    index,
	})
	*live = *fresh
}

// morphText reconciles text and raw nodes.
func (m *Morpher) morphText(live, desired *VNode, parentHID string, index int, patches *[]Patch) {
	if live.Text == desired.Text {
		return
	}
	live.Text = desired.Text

	targetHID := live.HID
	if targetHID == "" {
		targetHID = parentHID
	}
	if live.Kind == KindRaw {
		*patches = append(*patches, Patch{
			Op:       PatchReplaceNode,
			HID:      targetHID,
			Node:     live.Clone(),
			ParentID: parentHID,
			Index:    index,
		})
		return
	}
	*patches = append(*patches, Patch{
		Op:       PatchSetText,
		HID:      targetHID,
		Value:    desired.Text,
		ParentID: parentHID,
		Index:    index,
	})
}

// morphProps reconciles attributes. Keys are visited in sorted order so
// the patch list is deterministic.
func (m *Morpher) morphProps(live, desired *VNode, patches *[]Patch) {
	for _, key := range sortedKeys(live.Props) {
		if _, exists := desired.Props[key]; !exists {
			delete(live.Props, key)
			*patches = append(*patches, Patch{
				Op:  PatchRemoveAttr,
				HID: live.HID,
				Key: key,
			})
		}
	}

	for _, key := range sortedKeys(desired.Props) {
		nextVal := desired.Props[key]
		prevVal, exists := live.Props[key]
		if exists && propsEqual(prevVal, nextVal) {
			continue
		}
		live.SetAttr(key, nextVal)
		*patches = append(*patches, Patch{
			Op:    PatchSetAttr,
			HID:   live.HID,
			Key:   key,
			Value: PropString(nextVal),
		})
	}
}

// morphChildren reconciles child lists positionally.
func (m *Morpher) morphChildren(live, desired *VNode, parentHID string, patches *[]Patch) {
	common := len(live.Children)
	if len(desired.Children) < common {
		common = len(desired.Children)
	}

	for i := 0; i < common; i++ {
		m.morph(live.Children[i], desired.Children[i], parentHID, i, patches)
	}

	// Extra live children are removed from the end
	for i := len(live.Children) - 1; i >= common; i-- {
		*patches = append(*patches, Patch{
			Op:       PatchRemoveNode,
			HID:      live.Children[i].HID,
			ParentID: parentHID,
			Index:    i,
		})
	}
	if len(live.Children) > common {
		live.Children = live.Children[:common:common]
	}

	// Missing children are appended as clones
	for i := common; i < len(desired.Children); i++ {
		fresh := desired.Children[i].Clone()
		AssignHIDs(fresh, m.gen)
		live.Children = append(live.Children, fresh)
		*patches = append(*patches, Patch{
			Op:       PatchInsertNode,
			ParentID: parentHID,
			Index:    i,
			Node:     fresh,
		})
	}
}

func sortedKeys(p Props) []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// propsEqual compares two prop values for equality.
func propsEqual(a, b any) bool {
	// Fast path for common types
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return av == bv
		}
		return false
	case int:
		if bv, ok := b.(int); ok {
			return av == bv
		}
		return false
	case float64:
		if bv, ok := b.(float64); ok {
			return av == bv
		}
		return false
	case bool:
		if bv, ok := b.(bool); ok {
			return av == bv
		}
		return false
	case nil:
		return b == nil
	}
	// Fallback to reflect for complex types
	return reflect.DeepEqual(a, b)
}

// PropString converts a prop value to its attribute string.
func PropString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
