// SPDX-License-Identifier: MIT
package flattree

type (
	// reindexer restores flat indices after mutation.
	//
	// Mutations mark the nodes whose own position must be derived exactly (fresh nodes & the
	// ancestors of every change); the sweep assigns those & bulk-shifts everything else.
	reindexer[T comparable] struct {
		t *Tree[T]

		// marks is empty at rest; handles of nodes released mid-batch never match again.
		marks  map[Handle]struct{}
		stride int

		last ReindexStats
	}

	// ReindexStats describes the last reindex pass.
	ReindexStats struct {
		Mode ReindexMode

		// Marked is the number of nodes on changed paths (incremental mode).
		Marked int
		// Visited is the number of nodes whose index was derived exactly.
		Visited int
		// Shifted is the number of nodes whose index was offset in bulk.
		Shifted int
		// Stride is the net count of flat positions gained or lost since the previous pass.
		Stride int
	}
)

func newReindexer[T comparable](t *Tree[T]) *reindexer[T] {
	return &reindexer[T]{t: t, marks: make(map[Handle]struct{})}
}

// mark records a change of stride positions at h & marks the path up to the virtual root.
func (r *reindexer[T]) mark(h Handle, stride int) {
	r.stride += stride

	a := r.t.nodes
	for {
		if _, ok := r.marks[h]; ok {
			return
		}
		r.marks[h] = struct{}{}

		if h.IsRoot() {
			return
		}

		s := a.get(h)
		if s == nil {
			return
		}
		h = s.parent
	}
}

// pending reports whether a mutation awaits reindexing.
func (r *reindexer[T]) pending() bool { return len(r.marks) > 0 }

// clear drops every mark.
func (r *reindexer[T]) clear() {
	for k := range r.marks {
		delete(r.marks, k)
	}
	r.stride = 0
}

// run repairs the flat indices with the configured mode.
func (r *reindexer[T]) run(mode ReindexMode) {
	stats := ReindexStats{Mode: mode, Marked: len(r.marks), Stride: r.stride}

	switch mode {
	case ReindexFull:
		next := 0
		root := r.t.nodes.root()
		root.size = 1 + r.full(root.children, &next, &stats)
	default:
		if !r.pending() {
			r.last = stats
			return
		}
		r.sweep(rootHandle, 0, &stats)
	}

	r.clear()
	r.last = stats

	r.t.debugf("reindex %s: marked %d, visited %d, shifted %d, stride %+d",
		mode, stats.Marked, stats.Visited, stats.Shifted, stats.Stride)
}

// full assigns consecutive indices in pre-order, recomputing subtree sizes.
//
// It returns the number of nodes under children.
func (r *reindexer[T]) full(children []Handle, next *int, stats *ReindexStats) (count int) {
	a := r.t.nodes
	for _, h := range children {
		s := a.get(h)
		s.index = *next
		*next++
		stats.Visited++

		s.size = 1 + r.full(s.children, next, stats)
		count += s.size
	}

	return
}

// sweep walks the children of a marked node with next as the position of its first child.
//
// Marked children are indexed exactly & descended into. An unmarked child's subtree is
// structurally unchanged, every node in it moves by the same amount; it is skipped in O(1)
// when that amount is 0.
//
// Siblings left of the first marked child are still iterated at O(1) each, a pass costs
// O(marked nodes × their sibling positions) rather than O(marked nodes).
func (r *reindexer[T]) sweep(h Handle, next int, stats *ReindexStats) int {
	a := r.t.nodes
	delete(r.marks, h)

	for _, child := range a.get(h).children {
		s := a.get(child)

		if _, ok := r.marks[child]; ok {
			s.index = next
			stats.Visited++
			next = r.sweep(child, next+1, stats)

			continue
		}

		if delta := next - s.index; delta != 0 {
			r.shift(child, delta, stats)
		}
		next += s.size
	}

	return next
}

// shift offsets every index in the subtree rooted at h.
func (r *reindexer[T]) shift(h Handle, delta int, stats *ReindexStats) {
	a := r.t.nodes

	s := a.get(h)
	s.index += delta
	stats.Shifted++

	for _, child := range s.children {
		r.shift(child, delta, stats)
	}
}

// reindex runs after a mutating call, deferred while a batch is open.
func (t *Tree[T]) reindex() {
	if t.batchDepth > 0 {
		return
	}

	t.reindexer.run(t.cfg.Reindex)
}

// Reindex repairs the flat indices with the configured [ReindexMode].
//
// Mutations reindex on their own; this is only needed after changing the mode. Repeating it
// has no effect.
func (t *Tree[T]) Reindex() { t.reindexer.run(t.cfg.Reindex) }

// ReindexAll renumbers every node with a full pre-order traversal, discarding pending marks.
func (t *Tree[T]) ReindexAll() { t.reindexer.run(ReindexFull) }

// LastReindex describes the most recent reindex pass.
func (t *Tree[T]) LastReindex() ReindexStats { return t.reindexer.last }
