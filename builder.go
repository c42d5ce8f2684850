// SPDX-License-Identifier: MIT
package flattree

import (
	"context"
	"errors"
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
)

type (
	// Builder defines an interface for entities that can be read into a Tree.
	Builder[T comparable] interface {
		// Value obtains the identifier stored by the Builder.
		Value() T
		// Parent obtains the parent stored by the Builder, the zero value for top-level items.
		Parent() T
	}

	// BuildSource is a wrapper type for []Builder used to generate a Tree.
	BuildSource[T comparable] struct {
		debug  bool
		logger logrus.FieldLogger

		list []Builder[T]

		// isOrdered asserts that parents precede their children in list.
		isOrdered bool

		treeOptions []Option[T]
	}

	// DefaultBuilder is a sample Builder interface implementation.
	DefaultBuilder[T comparable] struct {
		value  T
		parent T
	}

	// BuildOption defines the BuildSource functional option type.
	BuildOption[T comparable] func(*BuildSource[T])
)

// Tree building errors.
var (
	ErrBuildTree = errors.New("failed to build tree")

	ErrEmptyTreeSrc   = errors.New("empty tree source")
	ErrInvalidTreeSrc = errors.New("invalid tree source")

	ErrLocateParents = errors.New("unable to locate parent(s)")

	ErrPanicked = errors.New("recovery from panic")
)

// NewDefaultBuilder instantiates a DefaultBuilder.
func NewDefaultBuilder[T comparable](value, parent T) *DefaultBuilder[T] {
	return &DefaultBuilder[T]{value: value, parent: parent}
}

// Value obtains the identifier stored by the DefaultBuilder.
func (d *DefaultBuilder[T]) Value() T { return d.value }

// Parent obtains the parent stored by the DefaultBuilder
func (d *DefaultBuilder[T]) Parent() T { return d.parent }

// NewBuildSource instantiates a BuildSource.
func NewBuildSource[T comparable](options ...BuildOption[T]) *BuildSource[T] {
	b := &BuildSource[T]{list: []Builder[T]{}, logger: defConfig.Logger}

	for _, opt := range options {
		opt(b)
	}

	return b
}

// WithBuilders configures the underlying list.
//
// The list is consumed by Build.
func WithBuilders[T comparable](list []Builder[T]) BuildOption[T] {
	return func(b *BuildSource[T]) { b.list = list }
}

// WithBuildLogger configures the logger option.
func WithBuildLogger[T comparable](logger logrus.FieldLogger) BuildOption[T] {
	return func(b *BuildSource[T]) { b.logger = logger }
}

// WithBuildDebug configures the debug option.
func WithBuildDebug[T comparable](debug bool) BuildOption[T] {
	return func(b *BuildSource[T]) { b.debug = debug }
}

// WithOrdered declares that every parent precedes its children, enabling a single pass.
func WithOrdered[T comparable](ordered bool) BuildOption[T] {
	return func(b *BuildSource[T]) { b.isOrdered = ordered }
}

// WithTreeOptions configures the options of the built Tree.
func WithTreeOptions[T comparable](options ...Option[T]) BuildOption[T] {
	return func(b *BuildSource[T]) { b.treeOptions = append(b.treeOptions, options...) }
}

// Len retrieves the length of the BuildSource.
func (b *BuildSource[T]) Len() int { return len(b.list) }

// Cut a value at some index from the BuildSource.
func (b *BuildSource[T]) Cut(index int) { b.list = slices.Delete(b.list, index, index+1) }

// Build generates a Tree from the BuildSource, in a single batch.
//
// Siblings keep their relative order from the source. Unordered sources take a pass per level
// of the deepest chain; a pass that places nothing fails with [ErrLocateParents]. No Tree is
// returned on failure.
func (b *BuildSource[T]) Build(ctx context.Context) (t *Tree[T], err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrBuildTree, err)
		}
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanicked, r)
		}

		if err != nil {
			// Skip expensive operation if not debug.
			if b.debug {
				b.logger.Debugf("current tree: %s\nsource remnants: %s", t, spew.Sdump(b.list))
			}

			err = fmt.Errorf("%w: %w", ErrInvalidTreeSrc, err)
			t = nil
		}
	}()

	if b.Len() < 1 {
		err = ErrEmptyTreeSrc
		return
	}

	t = New(b.treeOptions...)
	_ = t.PerformBatchUpdates(func(t *Tree[T]) error {
		err = b.place(ctx, t)
		return nil
	})

	return
}

// place moves every Builder whose parent is known into t, pass after pass.
func (b *BuildSource[T]) place(ctx context.Context, t *Tree[T]) (err error) {
	var topLevel T

	for prevLen := -1; b.Len() > 0; {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		lenSrc := b.Len()
		if lenSrc == prevLen {
			return fmt.Errorf("%w for: %s", ErrLocateParents, spew.Sprint(b.list))
		}
		prevLen = lenSrc

		for index := 0; index < lenSrc; index++ {
			node := b.list[index]
			parent := node.Parent()

			switch {
			case parent == topLevel:
				err = t.Append(node.Value())
			case t.Contains(parent):
				err = t.AppendTo(parent, node.Value())
			default:
				// Parent not in the tree (yet).
				continue
			}
			if err != nil {
				return
			}

			// Remove the placed node from the build source.
			b.Cut(index)
			index--
			lenSrc--
		}

		if b.debug {
			b.logger.Debugf("build pass: %d placed, %d remaining", prevLen-b.Len(), b.Len())
		}

		if b.isOrdered && b.Len() > 0 {
			return fmt.Errorf("%w for: %s", ErrLocateParents, spew.Sprint(b.list))
		}
	}

	return
}
