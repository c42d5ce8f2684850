// SPDX-License-Identifier: MIT

// Package flattree exposes a tree of identifiers as a single flat, densely indexed pre-order
// sequence, as consumed by list, table & outline widgets.
//
// Lookups by identifier are O(1); the flat index is repaired after every mutation, either by a
// full traversal or by an incremental pass that only touches the path to the change & the
// subtrees to its right.
//
// A Tree is not safe for concurrent use.
package flattree

import (
	"errors"

	"github.com/sirupsen/logrus"
)

type (
	// Tree holds a forest of identifiers under a virtual root.
	//
	// Synchronization is left to the caller, the type is designed for a single owner.
	Tree[T comparable] struct {
		// cfg contains a pointer to a [Config], possibly shared by several trees.
		cfg *Config

		// nodes owns every node; slot 0 is the virtual root.
		nodes *arena[T]

		// index maps identifiers to their node.
		index *identIndex[T]

		// reindexer repairs flat indices after mutation.
		reindexer *reindexer[T]

		// batchDepth counts nested PerformBatchUpdates calls.
		batchDepth int
	}

	// Config defines configuration options for a [Tree]'s operations.
	Config struct {
		// Logger for [Tree] messages.
		//
		// Preferring a public field to allow for sharing.
		Logger logrus.FieldLogger
		Debug  bool

		// Reindex selects the algorithm used to repair flat indices.
		Reindex ReindexMode

		// Visibility selects the IsVisible semantics.
		Visibility VisibilityMode
	}

	// ReindexMode selects a reindexing algorithm.
	ReindexMode int

	// VisibilityMode selects how visibility is derived from expansion flags.
	VisibilityMode int

	// Option defines the Tree functional option type.
	Option[T comparable] func(*Tree[T])
)

const (
	// ReindexIncremental repairs the path to each change & shifts the subtrees to its right.
	ReindexIncremental ReindexMode = iota
	// ReindexFull renumbers every node with a pre-order traversal.
	ReindexFull
)

const (
	// VisibilityAncestors reports a node visible when every ancestor is expanded.
	VisibilityAncestors VisibilityMode = iota
	// VisibilityParent reports a node visible when its immediate parent is expanded.
	VisibilityParent
)

// Errors encountered when handling a Tree.
var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicateItem   = errors.New("is already in the tree")
	ErrParentCollapsed = errors.New("parent is collapsed")
	ErrBatchUpdate     = errors.New("batch update failed")
)

var defConfig = DefConfig()

// DefConfig obtains the package's [Tree] default options.
func DefConfig() *Config {
	return &Config{
		Logger:     logrus.New(),
		Debug:      false,
		Reindex:    ReindexIncremental,
		Visibility: VisibilityAncestors,
	}
}

// New instantiates an empty [Tree].
func New[T comparable](options ...Option[T]) *Tree[T] {
	cfg := *defConfig

	t := &Tree[T]{
		cfg:   &cfg,
		nodes: newArena[T](),
		index: newIdentIndex[T](),
	}
	t.reindexer = newReindexer(t)

	for _, opt := range options {
		opt(t)
	}

	return t
}

// WithConfig configures the [Tree] [Config].
func WithConfig[T comparable](cfg *Config) Option[T] {
	return func(t *Tree[T]) { t.cfg = cfg }
}

// WithLogger configures the logger on a copy of the current [Config].
func WithLogger[T comparable](logger logrus.FieldLogger) Option[T] {
	return func(t *Tree[T]) {
		cfg := *t.cfg
		cfg.Logger = logger
		t.cfg = &cfg
	}
}

// WithDebug configures the debug option on a copy of the current [Config].
func WithDebug[T comparable](debug bool) Option[T] {
	return func(t *Tree[T]) {
		cfg := *t.cfg
		cfg.Debug = debug
		t.cfg = &cfg
	}
}

// WithReindexMode configures the reindexing algorithm on a copy of the current [Config].
func WithReindexMode[T comparable](mode ReindexMode) Option[T] {
	return func(t *Tree[T]) {
		cfg := *t.cfg
		cfg.Reindex = mode
		t.cfg = &cfg
	}
}

// WithVisibility configures the visibility semantics on a copy of the current [Config].
func WithVisibility[T comparable](mode VisibilityMode) Option[T] {
	return func(t *Tree[T]) {
		cfg := *t.cfg
		cfg.Visibility = mode
		t.cfg = &cfg
	}
}

// Config retrieves the [Tree]'s configuration.
//
// The pointer is live: mutating it reconfigures the tree, along with every other tree sharing it
// through [WithConfig]. Trees built on the defaults each hold their own copy.
func (t *Tree[T]) Config() *Config { return t.cfg }

// String returns the name of the mode.
func (m ReindexMode) String() string {
	switch m {
	case ReindexIncremental:
		return "incremental"
	case ReindexFull:
		return "full"
	default:
		return "unknown"
	}
}

func (t *Tree[T]) debugf(format string, args ...interface{}) {
	if t.cfg.Debug {
		t.cfg.Logger.Debugf(format, args...)
	}
}
