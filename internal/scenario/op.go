// SPDX-License-Identifier: MIT

// Package scenario generates seeded mutation scripts & replays them against trees that differ
// only in configuration, reporting the first step at which they disagree.
package scenario

import (
	"fmt"
	"math/rand"
)

type (
	// OpKind enumerates the mutations a script can perform.
	OpKind int

	// Op is a single scripted mutation.
	//
	// Target names an existing (or once existing) identifier; Items are fresh identifiers.
	Op struct {
		Kind   OpKind
		Target int
		Items  []int

		// Batch holds the ops run by an OpBatch.
		Batch []Op
	}
)

// Scripted mutations.
const (
	OpAppend OpKind = iota
	OpAppendTo
	OpInsertBefore
	OpInsertAfter
	OpRemove
	OpRemoveAll
	OpExpand
	OpCollapse
	OpBatch

	opKinds
)

var opNames = [...]string{
	OpAppend:       "append",
	OpAppendTo:     "append-to",
	OpInsertBefore: "insert-before",
	OpInsertAfter:  "insert-after",
	OpRemove:       "remove",
	OpRemoveAll:    "remove-all",
	OpExpand:       "expand",
	OpCollapse:     "collapse",
	OpBatch:        "batch",
}

// String implements fmt.Stringer.
func (k OpKind) String() string {
	if k < 0 || k >= opKinds {
		return fmt.Sprintf("OpKind(%d)", int(k))
	}

	return opNames[k]
}

// String implements fmt.Stringer.
func (o Op) String() string {
	switch o.Kind {
	case OpAppend:
		return fmt.Sprintf("%s %v", o.Kind, o.Items)
	case OpRemoveAll:
		return o.Kind.String()
	case OpBatch:
		return fmt.Sprintf("%s %v", o.Kind, o.Batch)
	case OpRemove, OpExpand, OpCollapse:
		return fmt.Sprintf("%s %d", o.Kind, o.Target)
	default:
		return fmt.Sprintf("%s %d %v", o.Kind, o.Target, o.Items)
	}
}

// generator produces ops over a growing identifier space.
type generator struct {
	rng *rand.Rand

	// last is the most recently issued identifier, identifiers start at 1.
	last int
}

// Generate produces a reproducible script of length ops from seed.
//
// Targets are drawn from every identifier issued so far, so removed & unknown identifiers
// are exercised too.
func Generate(seed int64, length int) (script []Op) {
	g := &generator{rng: rand.New(rand.NewSource(seed))}

	script = make([]Op, length)
	for i := range script {
		script[i] = g.op(true)
	}

	return
}

func (g *generator) op(allowBatch bool) (o Op) {
	// Weighted towards growth; removeAll stays rare.
	switch n := g.rng.Intn(100); {
	case n < 15:
		o.Kind = OpAppend
	case n < 40:
		o.Kind = OpAppendTo
	case n < 50:
		o.Kind = OpInsertBefore
	case n < 60:
		o.Kind = OpInsertAfter
	case n < 75:
		o.Kind = OpRemove
	case n < 77:
		o.Kind = OpRemoveAll
	case n < 85:
		o.Kind = OpExpand
	case n < 90:
		o.Kind = OpCollapse
	default:
		o.Kind = OpAppendTo
		if allowBatch {
			o.Kind = OpBatch
		}
	}

	switch o.Kind {
	case OpRemoveAll:
	case OpBatch:
		o.Batch = make([]Op, 1+g.rng.Intn(6))
		for i := range o.Batch {
			o.Batch[i] = g.op(false)
		}
	default:
		o.Target = g.target()
		if o.Kind <= OpInsertAfter {
			o.Items = g.fresh(1 + g.rng.Intn(3))
		}
	}

	return
}

// target picks an issued identifier, or the occasional one never issued.
func (g *generator) target() int {
	if g.last < 1 || g.rng.Intn(20) == 0 {
		return g.last + 1 + g.rng.Intn(10)
	}

	return 1 + g.rng.Intn(g.last)
}

// fresh issues n new identifiers; rarely it repeats an issued one to exercise rejection.
func (g *generator) fresh(n int) (items []int) {
	items = make([]int, n)
	for i := range items {
		if g.last > 0 && g.rng.Intn(25) == 0 {
			items[i] = 1 + g.rng.Intn(g.last)
			continue
		}

		g.last++
		items[i] = g.last
	}

	return
}
