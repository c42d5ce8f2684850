// SPDX-License-Identifier: MIT
package flattree

import (
	"fmt"
	"io"
	"strings"
)

// String implements fmt.Stringer, see [Tree.Dump].
func (t *Tree[T]) String() string {
	if t == nil {
		return "<nil>"
	}

	w := new(strings.Builder)
	t.Dump(w)

	return w.String()
}

// Dump writes one line per node in flat order, indented by level.
//
// Collapsed nodes with children are marked with a "+", expanded ones with a "-".
func (t *Tree[T]) Dump(w io.Writer) {
	if t == nil {
		return
	}

	fmt.Fprintf(w, "### nodes(%d), reindex(%s)\n", t.Len(), t.cfg.Reindex)
	t.dumpRec(w, t.nodes.root().children)
}

// dumpRec, rec-descent the tree.
func (t *Tree[T]) dumpRec(w io.Writer, children []Handle) {
	for _, h := range children {
		s := t.nodes.get(h)

		marker := " "
		if len(s.children) > 0 {
			marker = "+"
			if s.expanded {
				marker = "-"
			}
		}

		fmt.Fprintf(w, "%s%s[%d] %v index:%d\n", strings.Repeat(".", s.depth), marker, s.depth, s.item, s.index)
		t.dumpRec(w, s.children)
	}
}
