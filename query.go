// SPDX-License-Identifier: MIT
package flattree

// lookup resolves an identifier to its live slot.
func (t *Tree[T]) lookup(item T) (s *slot[T], ok bool) {
	h, ok := t.index.lookup(item)
	if !ok {
		return
	}

	s = t.nodes.get(h)
	ok = s != nil

	return
}

// Len is the number of nodes in the tree.
func (t *Tree[T]) Len() int { return t.index.len() }

// Contains reports whether item is in the tree.
func (t *Tree[T]) Contains(item T) bool {
	_, ok := t.index.lookup(item)
	return ok
}

// Index retrieves the flat index of item.
//
// The value is stale inside [Tree.PerformBatchUpdates].
func (t *Tree[T]) Index(item T) (index int, ok bool) {
	s, ok := t.lookup(item)
	if !ok {
		return
	}

	return s.index, true
}

// Level retrieves the depth of item, 0 for top-level items.
func (t *Tree[T]) Level(item T) (level int, ok bool) {
	s, ok := t.lookup(item)
	if !ok {
		return
	}

	return s.depth, true
}

// Parent retrieves the parent of item; ok is false for top-level & unknown items.
func (t *Tree[T]) Parent(item T) (parent T, ok bool) {
	s, ok := t.lookup(item)
	if !ok || s.parent.IsRoot() {
		return parent, false
	}

	return t.nodes.get(s.parent).item, true
}

// Node retrieves a view of item's node.
func (t *Tree[T]) Node(item T) (node Node[T], ok bool) {
	h, ok := t.index.lookup(item)
	if !ok {
		return
	}

	return t.view(h, t.nodes.get(h)), true
}

// Children lists the immediate children of item in display order.
func (t *Tree[T]) Children(item T) (children []T) {
	s, ok := t.lookup(item)
	if !ok {
		return
	}

	children = make([]T, len(s.children))
	for i, h := range s.children {
		children[i] = t.nodes.get(h).item
	}

	return
}

// ItemAt retrieves the item at a flat index, descending by subtree sizes.
//
// Complexity is O(depth × siblings) rather than O(n).
func (t *Tree[T]) ItemAt(index int) (item T, ok bool) {
	root := t.nodes.root()
	if index < 0 || index >= root.size-1 {
		return
	}

	// offset is the flat position of the first child of the current node.
	offset, children := 0, root.children
	for len(children) > 0 {
		var next []Handle
		for _, h := range children {
			s := t.nodes.get(h)
			if index == offset {
				return s.item, true
			}
			if index < offset+s.size {
				offset, next = offset+1, s.children
				break
			}
			offset += s.size
		}
		children = next
	}

	return
}

// Walk visits every node in flat order until fn returns false, regardless of expansion.
func (t *Tree[T]) Walk(fn func(Node[T]) bool) {
	t.walk(t.nodes.root().children, false, fn)
}

// walk performs a pre-order traversal; visibleOnly prunes subtrees that cannot be displayed.
func (t *Tree[T]) walk(children []Handle, visibleOnly bool, fn func(Node[T]) bool) bool {
	for _, h := range children {
		s := t.nodes.get(h)
		if !fn(t.view(h, s)) {
			return false
		}

		if visibleOnly && !s.expanded && t.cfg.Visibility == VisibilityAncestors {
			continue
		}
		if !t.walk(s.children, visibleOnly, fn) {
			return false
		}
	}

	return true
}

// Nodes lists every node in flat order.
func (t *Tree[T]) Nodes() (nodes []Node[T]) {
	nodes = make([]Node[T], 0, t.Len())
	t.Walk(func(n Node[T]) bool {
		nodes = append(nodes, n)
		return true
	})

	return
}

// Items lists every item in flat order.
func (t *Tree[T]) Items() (items []T) {
	items = make([]T, 0, t.Len())
	t.Walk(func(n Node[T]) bool {
		items = append(items, n.item)
		return true
	})

	return
}

// RootNodes lists the top-level nodes.
func (t *Tree[T]) RootNodes() (nodes []Node[T]) {
	children := t.nodes.root().children
	nodes = make([]Node[T], len(children))
	for i, h := range children {
		nodes[i] = t.view(h, t.nodes.get(h))
	}

	return
}

// RootItems lists the top-level items.
func (t *Tree[T]) RootItems() (items []T) {
	children := t.nodes.root().children
	items = make([]T, len(children))
	for i, h := range children {
		items[i] = t.nodes.get(h).item
	}

	return
}

// VisibleNodes lists the nodes reported visible by [Tree.IsVisible], in flat order.
//
// Their flat indices are those of the complete sequence; display rows are the positions in
// the returned slice.
func (t *Tree[T]) VisibleNodes() (nodes []Node[T]) {
	nodes = make([]Node[T], 0)
	t.walk(t.nodes.root().children, true, func(n Node[T]) bool {
		// Under VisibilityAncestors the walk already pruned collapsed subtrees.
		if t.cfg.Visibility == VisibilityAncestors || t.visible(t.nodes.get(n.handle)) {
			nodes = append(nodes, n)
		}
		return true
	})

	return
}

// VisibleItems lists the items reported visible by [Tree.IsVisible], in flat order.
func (t *Tree[T]) VisibleItems() (items []T) {
	nodes := t.VisibleNodes()

	items = make([]T, len(nodes))
	for i := range nodes {
		items[i] = nodes[i].item
	}

	return
}
