package vdom

import (
	"fmt"
	"sync"
)

// HIDGenerator generates unique hydration IDs.
type HIDGenerator struct {
	counter uint32
	mu      sync.Mutex
}

// NewHIDGenerator creates a new HIDGenerator.
func NewHIDGenerator() *HIDGenerator {
	return &HIDGenerator{}
}

// Next returns the next hydration ID (e.g., "h1", "h2", ...).
func (g *HIDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return fmt.Sprintf("h%d", g.counter)
}

// Current returns the current counter value without incrementing.
func (g *HIDGenerator) Current() uint32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.counter
}

// AssignHIDs walks the tree and assigns HIDs to every element and text node
// that does not have one yet.
func AssignHIDs(node *VNode, gen *HIDGenerator) {
	if node == nil || gen == nil {
		return
	}

	if node.HID == "" && (node.Kind == KindElement || node.Kind == KindText || node.Kind == KindRaw) {
		node.HID = gen.Next()
	}

	for _, child := range node.Children {
		AssignHIDs(child, gen)
	}
}

// IndexHIDs returns a map from HID to node for the subtree rooted at node.
func IndexHIDs(node *VNode) map[string]*VNode {
	index := make(map[string]*VNode)
	Walk(node, func(n *VNode) bool {
		if n.HID != "" {
			index[n.HID] = n
		}
		return true
	})
	return index
}
