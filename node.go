// SPDX-License-Identifier: MIT
package flattree

import "fmt"

type (
	// Handle identifies a node within its Tree's arena.
	//
	// A handle outlives the node it refers to; once the node is removed the handle resolves to
	// nothing, even if the slot is reused.
	Handle struct {
		slot uint32
		gen  uint32
	}

	// Node is a read-only view of a node at the time it was obtained.
	//
	// Two views are the same node iff their handles are equal; payload equality is irrelevant.
	Node[T comparable] struct {
		handle   Handle
		item     T
		index    int
		level    int
		expanded bool
	}
)

// rootHandle refers to the virtual root, it is never released.
var rootHandle = Handle{}

// IsRoot reports whether the handle refers to the virtual root.
func (h Handle) IsRoot() bool { return h == rootHandle }

// String implements fmt.Stringer.
func (h Handle) String() string { return fmt.Sprintf("%d@%d", h.slot, h.gen) }

// Handle retrieves the [Node]'s identity.
func (n Node[T]) Handle() Handle { return n.handle }

// Item retrieves the [Node]'s identifier.
func (n Node[T]) Item() T { return n.item }

// Index retrieves the [Node]'s flat index.
func (n Node[T]) Index() int { return n.index }

// Level retrieves the [Node]'s depth, 0 for top-level nodes.
func (n Node[T]) Level() int { return n.level }

// IsExpanded reports the [Node]'s expansion flag.
func (n Node[T]) IsExpanded() bool { return n.expanded }

// String implements fmt.Stringer.
func (n Node[T]) String() string {
	return fmt.Sprintf("[%d] %v, index:%d", n.level, n.item, n.index)
}

// view builds a [Node] from a live slot.
func (t *Tree[T]) view(h Handle, s *slot[T]) Node[T] {
	return Node[T]{
		handle:   h,
		item:     s.item,
		index:    s.index,
		level:    s.depth,
		expanded: s.expanded,
	}
}
