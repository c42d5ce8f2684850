// SPDX-License-Identifier: MIT
package flattree

type (
	// slot holds a node's state inside the arena.
	slot[T comparable] struct {
		item T

		// parent is the upper node; the virtual root for top-level nodes.
		parent Handle

		// children holds the lower nodes in display order.
		children []Handle

		// index is the flat pre-order position, -1 until assigned.
		index int

		// depth is -1 for the virtual root.
		depth int

		// size counts the nodes of the subtree rooted here, self included.
		size int

		gen      uint32
		live     bool
		expanded bool
	}

	// arena owns every node of a Tree, the tree links are handles into it.
	arena[T comparable] struct {
		slots []slot[T]
		free  []uint32

		// epoch is the generation of slots appended since the last reset, it exceeds every
		// generation handed out before that reset.
		epoch  uint32
		maxGen uint32
	}
)

const unassigned = -1

func newArena[T comparable]() *arena[T] {
	a := &arena[T]{}
	a.reset()

	return a
}

// reset discards every node but the virtual root.
func (a *arena[T]) reset() {
	if len(a.slots) > 1 {
		a.epoch = a.maxGen + 1
		a.maxGen = a.epoch
	}

	a.slots = append(a.slots[:0], slot[T]{
		index:    unassigned,
		depth:    -1,
		size:     1,
		live:     true,
		expanded: true,
	})
	a.free = a.free[:0]
}

// root retrieves the virtual root's slot.
func (a *arena[T]) root() *slot[T] { return &a.slots[0] }

// get resolves a handle; nil for released or foreign handles.
//
// The pointer is invalidated by the next alloc.
func (a *arena[T]) get(h Handle) *slot[T] {
	if int(h.slot) >= len(a.slots) {
		return nil
	}

	s := &a.slots[h.slot]
	if !s.live || s.gen != h.gen {
		return nil
	}

	return s
}

// alloc creates a childless, unindexed node.
func (a *arena[T]) alloc(item T, depth int, parent Handle) Handle {
	fresh := slot[T]{
		item:   item,
		parent: parent,
		index:  unassigned,
		depth:  depth,
		size:   1,
		live:   true,
	}

	if n := len(a.free); n > 0 {
		id := a.free[n-1]
		a.free = a.free[:n-1]

		fresh.gen = a.slots[id].gen
		a.slots[id] = fresh

		return Handle{slot: id, gen: fresh.gen}
	}

	fresh.gen = a.epoch
	a.slots = append(a.slots, fresh)

	return Handle{slot: uint32(len(a.slots) - 1), gen: fresh.gen}
}

// release frees a node's slot; handles to it go stale.
//
// The caller detaches the node & releases its descendants.
func (a *arena[T]) release(h Handle) {
	s := a.get(h)
	if s == nil || h.IsRoot() {
		return
	}

	var zero T
	s.item = zero
	s.children = nil
	s.live = false
	if s.gen++; s.gen > a.maxGen {
		a.maxGen = s.gen
	}

	a.free = append(a.free, h.slot)
}

// live counts the allocated nodes, the virtual root excluded.
func (a *arena[T]) live() int { return len(a.slots) - len(a.free) - 1 }
