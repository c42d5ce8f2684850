// SPDX-License-Identifier: MIT
package flattree

import "golang.org/x/exp/maps"

// identIndex maps identifiers to their node's handle.
//
// It never rewrites tree links, callers keep it in step with the arena.
type identIndex[T comparable] struct {
	m map[T]Handle
}

func newIdentIndex[T comparable]() *identIndex[T] {
	return &identIndex[T]{m: make(map[T]Handle)}
}

func (x *identIndex[T]) lookup(item T) (h Handle, ok bool) {
	h, ok = x.m[item]
	return
}

// insert overwrites an existing entry; duplicate detection happens before mutation.
func (x *identIndex[T]) insert(item T, h Handle) { x.m[item] = h }

func (x *identIndex[T]) remove(item T) { delete(x.m, item) }

func (x *identIndex[T]) removeAll() { maps.Clear(x.m) }

func (x *identIndex[T]) len() int { return len(x.m) }
