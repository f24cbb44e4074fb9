package vdom

// Clone returns a deep copy of the subtree rooted at v.
// The copy shares no Props maps or Children slices with v, so later fills on
// the copy never reach the original. HIDs are not copied.
func (v *VNode) Clone() *VNode {
	if v == nil {
		return nil
	}
	c := &VNode{
		Kind: v.Kind,
		Tag:  v.Tag,
		Text: v.Text,
	}
	if v.Props != nil {
		c.Props = make(Props, len(v.Props))
		for k, val := range v.Props {
			c.Props[k] = val
		}
	}
	if v.Children != nil {
		c.Children = make([]*VNode, 0, len(v.Children))
		for _, child := range v.Children {
			if child != nil {
				c.Children = append(c.Children, child.Clone())
			}
		}
	}
	return c
}
