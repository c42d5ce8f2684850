// SPDX-License-Identifier: MIT
package flattree

import "fmt"

// Expand sets the expansion flag of items.
//
// Each item's parent must be expanded (top-level items always qualify); violating this is a
// programming error & panics with [ErrParentCollapsed]. Unknown items are skipped.
func (t *Tree[T]) Expand(items ...T) { t.setExpanded("expand", true, items) }

// Collapse clears the expansion flag of items.
//
// The precondition of [Tree.Expand] applies. Descendants keep their own flags.
func (t *Tree[T]) Collapse(items ...T) { t.setExpanded("collapse", false, items) }

func (t *Tree[T]) setExpanded(op string, expanded bool, items []T) {
	for _, item := range items {
		h, ok := t.index.lookup(item)
		if !ok {
			t.debugf("%s: (%v) %v", op, item, ErrNotFound)
			continue
		}

		s := t.nodes.get(h)
		if !t.nodes.get(s.parent).expanded {
			panic(fmt.Errorf("%s (%v): %w", op, item, ErrParentCollapsed))
		}
		s.expanded = expanded
	}
}

// IsExpanded reports the expansion flag of item; false for unknown items.
func (t *Tree[T]) IsExpanded(item T) bool {
	s, ok := t.lookup(item)
	return ok && s.expanded
}

// IsVisible reports whether item would be displayed, as defined by the configured
// [VisibilityMode]; false for unknown items.
func (t *Tree[T]) IsVisible(item T) bool {
	s, ok := t.lookup(item)
	if !ok {
		return false
	}

	return t.visible(s)
}

// visible applies the configured VisibilityMode to a live node.
func (t *Tree[T]) visible(s *slot[T]) bool {
	parent := t.nodes.get(s.parent)
	if t.cfg.Visibility == VisibilityParent {
		return parent.expanded
	}

	for p := parent; ; p = t.nodes.get(p.parent) {
		if !p.expanded {
			return false
		}
		if p.depth < 0 {
			return true
		}
	}
}
