package state

import (
	"strconv"
	"strings"
)

// splitPath splits a dotted path. A leading "this." is dropped so that form
// control names and selected paths can be used directly.
func splitPath(path string) []string {
	path = strings.TrimPrefix(path, "this.")
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

// JoinPath joins path segments, skipping empty ones.
func JoinPath(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimPrefix(p, "this.")
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ".")
}

// slot is a writable location holding the last path segment: a map key or
// a slice element.
type slot struct {
	store *Store
	m     map[string]any
	list  []any
	index int
}

func (p *slot) get(key string) (any, bool) {
	if p.m != nil {
		v, ok := p.m[key]
		return v, ok
	}
	return p.list[p.index], true
}

// set writes value and reports whether it changed.
func (p *slot) set(key string, value any) bool {
	if p.m != nil {
		return p.store.assign(p.m, key, value)
	}
	if value == Absent {
		value = nil
	}
	if same(p.list[p.index], value) {
		return false
	}
	p.list[p.index] = value
	return true
}

// walk resolves every segment but the last. With create, missing or
// non-container intermediates are replaced by new maps; without it they end
// the walk with a nil slot.
func (s *Store) walk(parts []string, create bool) (*slot, string) {
	if len(parts) == 0 {
		return nil, ""
	}
	var cur any = s.state
	for i, part := range parts {
		last := i == len(parts)-1
		if p, ok := cur.(Patch); ok {
			cur = map[string]any(p)
		}
		switch c := cur.(type) {
		case map[string]any:
			if last {
				return &slot{store: s, m: c}, part
			}
			next, ok := c[part]
			if !isContainer(next) {
				if !create {
					return nil, ""
				}
				if ok {
					s.logger.Debug("replacing non-container on path", "segment", part)
				}
				next = make(map[string]any)
				c[part] = next
			}
			cur = next
		case []any:
			idx, err := strconv.Atoi(part)
			if err != nil || idx < 0 || idx >= len(c) {
				return nil, ""
			}
			if last {
				return &slot{store: s, list: c, index: idx}, part
			}
			next := c[idx]
			if !isContainer(next) {
				if !create {
					return nil, ""
				}
				next = make(map[string]any)
				c[idx] = next
			}
			cur = next
		default:
			return nil, ""
		}
	}
	return nil, ""
}

func isContainer(v any) bool {
	switch v.(type) {
	case map[string]any, Patch, []any:
		return true
	}
	return false
}
