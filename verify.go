// SPDX-License-Identifier: MIT
package flattree

import (
	"errors"
	"fmt"

	"github.com/davecgh/go-spew/spew"
)

// ErrCorrupt is wrapped by every violation reported by [Tree.Verify].
var ErrCorrupt = errors.New("tree is corrupt")

// Verify checks the structural consistency of the tree, returning every violation joined.
//
// Flat index checks are skipped inside [Tree.PerformBatchUpdates].
func (t *Tree[T]) Verify() (err error) {
	var errs []error
	report := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrCorrupt, fmt.Sprintf(format, args...)))
	}

	settled := t.batchDepth < 1

	root := t.nodes.root()
	if root.depth != -1 || !root.expanded {
		report("virtual root depth %d, expanded %t", root.depth, root.expanded)
	}

	next, reachable := 0, 0

	var check func(h Handle) int
	check = func(h Handle) (size int) {
		p := t.nodes.get(h)
		size = 1

		for _, child := range p.children {
			s := t.nodes.get(child)
			if s == nil {
				report("stale child %s under (%v)", child, p.item)
				continue
			}
			reachable++

			if s.parent != h {
				report("(%v) parent %s, linked under %s", s.item, s.parent, h)
			}
			if s.depth != p.depth+1 {
				report("(%v) depth %d, parent depth %d", s.item, s.depth, p.depth)
			}
			if settled && s.index != next {
				report("(%v) index %d, want %d", s.item, s.index, next)
			}
			if got, ok := t.index.lookup(s.item); !ok || got != child {
				report("(%v) not indexed by its handle %s", s.item, child)
			}
			next++

			size += check(child)
		}

		if p.size != size {
			report("(%v) size %d, want %d", p.item, p.size, size)
		}

		return
	}
	check(rootHandle)

	if n := t.index.len(); n != reachable {
		report("%d identifiers indexed, %d nodes reachable", n, reachable)
	}
	if n := t.nodes.live(); n != reachable {
		report("%d slots allocated, %d nodes reachable", n, reachable)
	}

	for item, h := range t.index.m {
		if s := t.nodes.get(h); s == nil || s.item != item {
			report("(%v) indexed by a stale handle %s", item, h)
		}
	}

	if settled && t.reindexer.pending() {
		report("%d marks left after reindexing", len(t.reindexer.marks))
	}

	if err = errors.Join(errs...); err != nil {
		t.debugf("verify: %d violation(s) in:\n%s", len(errs), spew.Sdump(t.nodes.slots))
	}

	return
}
