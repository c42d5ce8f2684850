// SPDX-License-Identifier: MIT
package flattree

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"gitlab.com/fisherprime/flattree/lexer"
)

// Deserialization errors.
var (
	ErrExcessiveValues     = errors.New("the deserialization source has unclosed values")
	ErrExcessiveEndMarkers = errors.New("the deserialization source has excessive end markers")
	ErrDanglingMarker      = errors.New("expanded marker without a value")
)

// Deserialize transforms the outline text format, as lexed with lexOptions, into a Tree.
//
// The tree is built in a single batch; expansion flags are restored as serialized, even under
// collapsed ancestors.
func Deserialize[T comparable](ctx context.Context, lexOptions []lexer.Option, options ...Option[T]) (t *Tree[T], err error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	l := lexer.New(lexOptions...)
	go l.Lex(ctx)

	t = New(options...)
	_ = t.PerformBatchUpdates(func(t *Tree[T]) error {
		err = t.deserialize(l)
		return nil
	})

	if err != nil {
		if t.cfg.Debug {
			t.cfg.Logger.Debugf("deserialized values: %d, end markers: %d, tree: %s",
				l.ValueCounter(), l.EndCounter(), t)
		}

		return nil, fmt.Errorf("%w: %w", ErrInvalidTreeSrc, err)
	}

	return
}

// deserialize performs the deserialization grunt work, an explicit stack holds the open nodes.
func (t *Tree[T]) deserialize(l *lexer.Lexer) (err error) {
	var (
		open     []Handle
		expanded bool
	)

	for {
		item, proceed := l.Item()
		if !proceed {
			return
		}

		t.debugf("lexed item: %s", item)

		switch item.ID {
		case lexer.ItemEOF:
			if expanded {
				return ErrDanglingMarker
			}
			if len(open) > 0 {
				return fmt.Errorf("%w: +%d", ErrExcessiveValues, len(open))
			}
			return
		case lexer.ItemError:
			return item.Err
		case lexer.ItemSplitter:
			continue
		case lexer.ItemExpanded:
			expanded = true
			continue
		case lexer.ItemEndMarker:
			if expanded {
				return ErrDanglingMarker
			}
			if len(open) < 1 {
				return fmt.Errorf("%w: %s", ErrExcessiveEndMarkers, item.Val)
			}
			open = open[:len(open)-1]
			continue
		}

		var dest T
		if dest, err = decodeValue[T](item.Val); err != nil {
			return
		}

		parent := rootHandle
		if len(open) > 0 {
			parent = open[len(open)-1]
		}
		if err = t.insertAt(parent, -1, []T{dest}); err != nil {
			return
		}

		h, _ := t.index.lookup(dest)
		t.nodes.get(h).expanded, expanded = expanded, false
		open = append(open, h)
	}
}

// decodeValue parses a lexed value; bare values that are not valid JSON are read as strings.
//
// A bare value decoded into a string identifier is taken verbatim, `null` reads as "null".
func decodeValue[T comparable](val []byte) (dest T, err error) {
	if s, ok := any(&dest).(*string); ok && val[0] != '"' {
		*s = string(val)
		return
	}

	if err = json.Unmarshal(val, &dest); err == nil || val[0] == '"' {
		return
	}

	if json.Unmarshal([]byte(strconv.Quote(string(val))), &dest) == nil {
		err = nil
	}

	return
}
