// SPDX-License-Identifier: MIT
package flattree

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// Append adds items as the last top-level nodes.
//
// An error is returned, with the tree unchanged, when an item is already in the tree or
// repeated in items.
func (t *Tree[T]) Append(items ...T) error {
	return t.insertAt(rootHandle, -1, items)
}

// AppendTo adds items as the last children of parent.
//
// An unknown parent results in items being appended as top-level nodes.
func (t *Tree[T]) AppendTo(parent T, items ...T) error {
	h, ok := t.index.lookup(parent)
	if !ok {
		t.debugf("append: parent (%v) %v, appending to the root", parent, ErrNotFound)
		h = rootHandle
	}

	return t.insertAt(h, -1, items)
}

// InsertBefore adds items as siblings immediately preceding anchor, at anchor's level.
//
// An unknown anchor is a no-op.
func (t *Tree[T]) InsertBefore(anchor T, items ...T) error {
	return t.insertBeside(anchor, 0, items)
}

// InsertAfter adds items as siblings immediately following anchor, at anchor's level.
//
// An unknown anchor is a no-op.
func (t *Tree[T]) InsertAfter(anchor T, items ...T) error {
	return t.insertBeside(anchor, 1, items)
}

// insertBeside splices items into the anchor's parent at the anchor's position + offset.
func (t *Tree[T]) insertBeside(anchor T, offset int, items []T) error {
	h, ok := t.index.lookup(anchor)
	if !ok {
		t.debugf("insert: anchor (%v) %v", anchor, ErrNotFound)
		return nil
	}

	s := t.nodes.get(h)
	parent := t.nodes.get(s.parent)
	if parent == nil {
		return nil
	}

	pos := slices.Index(parent.children, h)
	if pos < 0 {
		return nil
	}

	return t.insertAt(s.parent, pos+offset, items)
}

// insertAt creates nodes for items under parent starting at child position pos; -1 appends.
func (t *Tree[T]) insertAt(parent Handle, pos int, items []T) (err error) {
	if err = t.validateNew(items); err != nil || len(items) < 1 {
		return
	}

	depth := t.nodes.get(parent).depth + 1

	handles := make([]Handle, len(items))
	for i, item := range items {
		handles[i] = t.nodes.alloc(item, depth, parent)
		t.index.insert(item, handles[i])
	}

	// alloc may have moved the slots, resolve the parent afterwards.
	p := t.nodes.get(parent)
	if pos < 0 || pos > len(p.children) {
		pos = len(p.children)
	}
	p.children = slices.Insert(p.children, pos, handles...)

	t.resize(parent, len(items))
	for i, h := range handles {
		stride := 0
		if i == 0 {
			stride = len(handles)
		}
		t.reindexer.mark(h, stride)
	}

	t.reindex()

	return
}

// validateNew rejects items already in the tree or repeated within items.
func (t *Tree[T]) validateNew(items []T) error {
	seen := make(map[T]struct{}, len(items))
	for _, item := range items {
		if _, ok := t.index.lookup(item); ok {
			return fmt.Errorf("(%v) %w", item, ErrDuplicateItem)
		}
		if _, ok := seen[item]; ok {
			return fmt.Errorf("(%v) %w: repeated in the call", item, ErrDuplicateItem)
		}
		seen[item] = struct{}{}
	}

	return nil
}

// resize adds delta to the subtree size of h & its ancestors.
func (t *Tree[T]) resize(h Handle, delta int) {
	for {
		s := t.nodes.get(h)
		s.size += delta

		if h.IsRoot() {
			return
		}
		h = s.parent
	}
}

// Remove detaches items together with their subtrees.
//
// Descendants are not re-parented, they leave the tree with their ancestor. Unknown items are
// skipped.
func (t *Tree[T]) Remove(items ...T) {
	for _, item := range items {
		h, ok := t.index.lookup(item)
		if !ok {
			t.debugf("remove: (%v) %v", item, ErrNotFound)
			continue
		}

		s := t.nodes.get(h)
		parent, size := s.parent, s.size

		p := t.nodes.get(parent)
		if pos := slices.Index(p.children, h); pos > -1 {
			p.children = slices.Delete(p.children, pos, pos+1)
		}

		t.resize(parent, -size)
		t.reindexer.mark(parent, -size)
		t.discard(h)
	}

	t.reindex()
}

// discard erases a detached subtree from the index & the arena.
func (t *Tree[T]) discard(h Handle) {
	s := t.nodes.get(h)
	if s == nil {
		return
	}

	for _, child := range s.children {
		t.discard(child)
	}

	t.index.remove(s.item)
	t.nodes.release(h)
}

// RemoveAll discards every node.
func (t *Tree[T]) RemoveAll() {
	n := t.index.len()

	t.nodes.reset()
	t.index.removeAll()

	t.reindexer.mark(rootHandle, -n)
	t.reindex()
}

// PerformBatchUpdates applies the mutations made by updates with a single reindex pass.
//
// Flat indices are stale while updates runs, every other query stays accurate. Batches nest;
// the outermost one reindexes. The tree is reindexed even if updates fails or panics; its error
// is returned wrapped in [ErrBatchUpdate].
func (t *Tree[T]) PerformBatchUpdates(updates func(*Tree[T]) error) (err error) {
	t.batchDepth++
	defer func() {
		t.batchDepth--
		t.reindex()
	}()

	if updates == nil {
		return
	}

	if err = updates(t); err != nil {
		err = fmt.Errorf("%w: %w", ErrBatchUpdate, err)
	}

	return
}
