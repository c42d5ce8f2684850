// SPDX-License-Identifier: MIT
package flattree

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

var abc = []string{"a", "b", "c"}

func TestTree_Append(t *testing.T) {
	type args struct {
		initial []string
		items   []string
	}

	tests := []struct {
		name    string
		args    args
		want    []string
		wantErr error
	}{
		{
			name: "empty tree keeps call order",
			args: args{items: []string{"c", "a", "b"}},
			want: []string{"c", "a", "b"},
		},
		{
			name: "after existing roots",
			args: args{initial: abc, items: []string{"d", "e"}},
			want: []string{"a", "b", "c", "d", "e"},
		},
		{
			name: "no items",
			args: args{initial: abc},
			want: abc,
		},
		{
			name:    "already in the tree",
			args:    args{initial: abc, items: []string{"d", "b"}},
			want:    abc,
			wantErr: ErrDuplicateItem,
		},
		{
			name:    "repeated in the call",
			args:    args{items: []string{"x", "y", "x"}},
			want:    []string{},
			wantErr: ErrDuplicateItem,
		},
	}
	for _, tt := range tests {
		for _, mode := range reindexModes {
			t.Run(fmt.Sprintf("%s/%s", tt.name, mode), func(t *testing.T) {
				tree := newTestTree(t, mode, tt.args.initial, nil)

				err := tree.Append(tt.args.items...)
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Tree.Append() error = %v, wantErr %v", err, tt.wantErr)
				}
				assertFlat(t, tree, tt.want)

				for _, item := range tt.want {
					if level, _ := tree.Level(item); level != 0 {
						t.Errorf("Tree.Level(%s) = %d, want 0", item, level)
					}
				}
			})
		}
	}
}

func TestTree_AppendTo(t *testing.T) {
	type args struct {
		parent string
		items  []string
	}

	tests := []struct {
		name       string
		args       args
		want       []string
		wantLevels map[string]int
		wantParent string
	}{
		{
			name:       "first root",
			args:       args{parent: "a", items: []string{"d"}},
			want:       []string{"a", "d", "b", "c"},
			wantLevels: map[string]int{"a": 0, "d": 1, "b": 0, "c": 0},
			wantParent: "a",
		},
		{
			name:       "last root",
			args:       args{parent: "c", items: []string{"d", "e"}},
			want:       []string{"a", "b", "c", "d", "e"},
			wantLevels: map[string]int{"d": 1, "e": 1},
			wantParent: "c",
		},
		{
			name:       "unknown parent appends to the root",
			args:       args{parent: "z", items: []string{"d"}},
			want:       []string{"a", "b", "c", "d"},
			wantLevels: map[string]int{"d": 0},
		},
	}
	for _, tt := range tests {
		for _, mode := range reindexModes {
			t.Run(fmt.Sprintf("%s/%s", tt.name, mode), func(t *testing.T) {
				tree := newTestTree(t, mode, abc, nil)

				if err := tree.AppendTo(tt.args.parent, tt.args.items...); err != nil {
					t.Fatalf("Tree.AppendTo() error = %v", err)
				}
				assertFlat(t, tree, tt.want)

				for item, want := range tt.wantLevels {
					if got, ok := tree.Level(item); !ok || got != want {
						t.Errorf("Tree.Level(%s) = %d, %t, want %d", item, got, ok, want)
					}
				}

				got, ok := tree.Parent(tt.args.items[0])
				if ok != (tt.wantParent != "") || got != tt.wantParent {
					t.Errorf("Tree.Parent(%s) = %q, %t, want %q", tt.args.items[0], got, ok, tt.wantParent)
				}
			})
		}
	}
}

func TestTree_AppendTo_nested(t *testing.T) {
	for _, mode := range reindexModes {
		t.Run(mode.String(), func(t *testing.T) {
			tree := newTestTree(t, mode, abc, map[string][]string{"a": {"d"}})

			if err := tree.AppendTo("d", "e", "f"); err != nil {
				t.Fatalf("Tree.AppendTo() error = %v", err)
			}
			if err := tree.AppendTo("e", "g"); err != nil {
				t.Fatalf("Tree.AppendTo() error = %v", err)
			}
			assertFlat(t, tree, []string{"a", "d", "e", "g", "f", "b", "c"})

			if got, _ := tree.Level("g"); got != 3 {
				t.Errorf("Tree.Level(g) = %d, want 3", got)
			}
		})
	}
}

func TestTree_Insert(t *testing.T) {
	type args struct {
		after  bool
		anchor string
		items  []string
	}

	tests := []struct {
		name      string
		children  map[string][]string
		args      args
		want      []string
		wantLevel int
		wantErr   error
	}{
		{
			name:      "before a child",
			children:  map[string][]string{"a": {"d"}},
			args:      args{anchor: "d", items: []string{"x", "y"}},
			want:      []string{"a", "x", "y", "d", "b", "c"},
			wantLevel: 1,
		},
		{
			name:     "before the first root",
			args:     args{anchor: "a", items: []string{"x"}},
			want:     []string{"x", "a", "b", "c"},
			children: map[string][]string{},
		},
		{
			name: "after a root",
			args: args{after: true, anchor: "a", items: []string{"x", "y"}},
			want: []string{"a", "x", "y", "b", "c"},
		},
		{
			name:     "after a root with children",
			children: map[string][]string{"a": {"d"}},
			args:     args{after: true, anchor: "a", items: []string{"x", "y"}},
			want:     []string{"a", "d", "x", "y", "b", "c"},
		},
		{
			name:      "after the last child",
			children:  map[string][]string{"b": {"d", "e"}},
			args:      args{after: true, anchor: "e", items: []string{"x"}},
			want:      []string{"a", "b", "d", "e", "x", "c"},
			wantLevel: 1,
		},
		{
			name: "unknown anchor",
			args: args{anchor: "z", items: []string{"x"}},
			want: abc,
		},
		{
			name:    "duplicate",
			args:    args{after: true, anchor: "a", items: []string{"x", "c"}},
			want:    abc,
			wantErr: ErrDuplicateItem,
		},
	}
	for _, tt := range tests {
		for _, mode := range reindexModes {
			t.Run(fmt.Sprintf("%s/%s", tt.name, mode), func(t *testing.T) {
				tree := newTestTree(t, mode, abc, tt.children)

				var err error
				if tt.args.after {
					err = tree.InsertAfter(tt.args.anchor, tt.args.items...)
				} else {
					err = tree.InsertBefore(tt.args.anchor, tt.args.items...)
				}
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Tree.Insert() error = %v, wantErr %v", err, tt.wantErr)
				}
				assertFlat(t, tree, tt.want)

				if tt.wantErr != nil || tt.args.anchor == "z" {
					return
				}
				for _, item := range tt.args.items {
					if got, _ := tree.Level(item); got != tt.wantLevel {
						t.Errorf("Tree.Level(%s) = %d, want %d", item, got, tt.wantLevel)
					}
				}
			})
		}
	}
}

func TestTree_Remove(t *testing.T) {
	tests := []struct {
		name         string
		children     map[string][]string
		items        []string
		want         []string
		wantAbsent   []string
		wantChildren map[string][]string
	}{
		{
			name:       "child & root",
			children:   map[string][]string{"a": {"d"}},
			items:      []string{"d", "b"},
			want:       []string{"a", "c"},
			wantAbsent: []string{"d", "b"},
		},
		{
			name:       "whole subtree",
			children:   map[string][]string{"a": {"d", "e"}, "b": {"f"}},
			items:      []string{"a"},
			want:       []string{"b", "f", "c"},
			wantAbsent: []string{"a", "d", "e"},
		},
		{
			name:         "ancestor then descendant",
			children:     map[string][]string{"b": {"d", "e"}},
			items:        []string{"b", "e"},
			want:         []string{"a", "c"},
			wantAbsent:   []string{"b", "d", "e"},
			wantChildren: map[string][]string{"a": {}},
		},
		{
			name:         "middle child",
			children:     map[string][]string{"c": {"d", "e", "f"}},
			items:        []string{"e"},
			want:         []string{"a", "b", "c", "d", "f"},
			wantAbsent:   []string{"e"},
			wantChildren: map[string][]string{"c": {"d", "f"}},
		},
		{
			name:  "unknown items are skipped",
			items: []string{"z", "c", "y"},
			want:  []string{"a", "b"},
		},
	}
	for _, tt := range tests {
		for _, mode := range reindexModes {
			t.Run(fmt.Sprintf("%s/%s", tt.name, mode), func(t *testing.T) {
				tree := newTestTree(t, mode, abc, tt.children)

				tree.Remove(tt.items...)
				assertFlat(t, tree, tt.want)

				for _, item := range tt.wantAbsent {
					if tree.Contains(item) {
						t.Errorf("Tree.Contains(%s) = true, want false", item)
					}
					if _, ok := tree.Index(item); ok {
						t.Errorf("Tree.Index(%s) found a removed item", item)
					}
				}
				for item, want := range tt.wantChildren {
					if got := tree.Children(item); !reflect.DeepEqual(got, want) {
						t.Errorf("Tree.Children(%s) = %v, want %v", item, got, want)
					}
				}
			})
		}
	}
}

func TestTree_RemoveAll(t *testing.T) {
	for _, mode := range reindexModes {
		t.Run(mode.String(), func(t *testing.T) {
			tree := newTestTree(t, mode, abc, map[string][]string{"a": {"d"}})

			for i := 0; i < 2; i++ {
				tree.RemoveAll()

				if got := tree.Items(); len(got) != 0 {
					t.Errorf("Tree.Items() = %v, want empty", got)
				}
				if got := tree.Nodes(); len(got) != 0 {
					t.Errorf("Tree.Nodes() = %v, want empty", got)
				}
				if tree.Contains("a") || tree.Contains("d") {
					t.Errorf("Tree.Contains() found a removed item")
				}
				if err := tree.Verify(); err != nil {
					t.Errorf("Tree.Verify() error = %v", err)
				}
			}

			// The identifiers are free for reuse.
			if err := tree.Append("d", "a"); err != nil {
				t.Fatalf("Tree.Append() error = %v", err)
			}
			assertFlat(t, tree, []string{"d", "a"})
		})
	}
}

func TestTree_Contains(t *testing.T) {
	tree := New[string]()

	if tree.Contains("a") {
		t.Errorf("Tree.Contains(a) = true on an empty tree")
	}

	_ = tree.Append("a")
	_ = tree.AppendTo("a", "b")
	if !tree.Contains("a") || !tree.Contains("b") {
		t.Errorf("Tree.Contains() = false for inserted items")
	}

	tree.Remove("a")
	if tree.Contains("a") || tree.Contains("b") {
		t.Errorf("Tree.Contains() = true for removed items")
	}

	_ = tree.Append("b")
	tree.RemoveAll()
	if tree.Contains("b") {
		t.Errorf("Tree.Contains(b) = true after RemoveAll")
	}
}

func TestTree_PerformBatchUpdates(t *testing.T) {
	errUpdate := errors.New("update failed")

	tests := []struct {
		name    string
		updates func(*Tree[string]) error
		want    []string
		wantErr error
	}{
		{
			name: "mixed mutations",
			updates: func(tree *Tree[string]) error {
				if err := tree.AppendTo("a", "d", "e"); err != nil {
					return err
				}
				if err := tree.InsertBefore("b", "x"); err != nil {
					return err
				}
				tree.Remove("d", "c")
				return tree.AppendTo("e", "f")
			},
			want: []string{"a", "e", "f", "x", "b"},
		},
		{
			name: "nested",
			updates: func(tree *Tree[string]) error {
				_ = tree.Append("d")
				return tree.PerformBatchUpdates(func(tree *Tree[string]) error {
					return tree.AppendTo("d", "e")
				})
			},
			want: []string{"a", "b", "c", "d", "e"},
		},
		{
			name: "remove all then append",
			updates: func(tree *Tree[string]) error {
				_ = tree.AppendTo("b", "d")
				tree.RemoveAll()
				return tree.Append("x", "y")
			},
			want: []string{"x", "y"},
		},
		{
			name:    "failed update still reindexes",
			updates: func(tree *Tree[string]) error { _ = tree.AppendTo("c", "d"); return errUpdate },
			want:    []string{"a", "b", "c", "d"},
			wantErr: errUpdate,
		},
		{
			name: "nil updates",
			want: abc,
		},
	}
	for _, tt := range tests {
		for _, mode := range reindexModes {
			t.Run(fmt.Sprintf("%s/%s", tt.name, mode), func(t *testing.T) {
				tree := newTestTree(t, mode, abc, nil)

				err := tree.PerformBatchUpdates(tt.updates)
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Tree.PerformBatchUpdates() error = %v, wantErr %v", err, tt.wantErr)
				}
				if tt.wantErr != nil && !errors.Is(err, ErrBatchUpdate) {
					t.Errorf("Tree.PerformBatchUpdates() error = %v, want it wrapped in %v", err, ErrBatchUpdate)
				}
				assertFlat(t, tree, tt.want)
			})
		}
	}
}

func TestTree_PerformBatchUpdates_deferred(t *testing.T) {
	tree := newTestTree(t, ReindexIncremental, abc, nil)

	_ = tree.PerformBatchUpdates(func(tree *Tree[string]) error {
		_ = tree.InsertBefore("a", "x")

		// Only the flat indices lag behind.
		if got, _ := tree.Index("x"); got != unassigned {
			t.Errorf("Tree.Index(x) = %d inside a batch, want %d", got, unassigned)
		}
		if got, _ := tree.Index("a"); got != 0 {
			t.Errorf("Tree.Index(a) = %d inside a batch, want 0", got)
		}
		if !tree.Contains("x") || tree.Len() != 4 {
			t.Errorf("Tree.Contains(x) = %t, Tree.Len() = %d inside a batch", tree.Contains("x"), tree.Len())
		}
		if err := tree.Verify(); err != nil {
			t.Errorf("Tree.Verify() error = %v inside a batch", err)
		}

		return nil
	})

	assertFlat(t, tree, []string{"x", "a", "b", "c"})
	if got := tree.LastReindex(); got.Marked != 2 || got.Stride != 1 {
		t.Errorf("Tree.LastReindex() = %+v, want a single pass over 2 marks", got)
	}
}
