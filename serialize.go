// SPDX-License-Identifier: MIT
package flattree

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gitlab.com/fisherprime/flattree/lexer"
)

// ErrUnserializable is returned for identifiers the outline format cannot represent.
var ErrUnserializable = errors.New("identifier cannot be serialized")

// Serialize transforms the tree into the outline text format, expansion flags included.
//
// Top-level nodes follow one another; e.g. `+a,d)),b),c)` holds a(d), b & c with a expanded.
// Identifiers are JSON encoded scalars, strings are left bare when the lexer
// permits it & they do not read as another JSON scalar.
func (t *Tree[T]) Serialize(ctx context.Context, opts lexer.Opts) (output string, err error) {
	opts.Validate()

	var buffer strings.Builder
	for i, h := range t.nodes.root().children {
		if i > 0 {
			buffer.WriteRune(opts.Splitter)
		}
		if err = t.serialize(ctx, &opts, &buffer, h); err != nil {
			// Invalidate serialization output.
			return
		}
	}
	output = buffer.String()

	if t.cfg.Debug {
		t.cfg.Logger.Debugf("serialized %d node(s): %s", t.Len(), output)
	}

	return
}

// serialize performs the serialization grunt work.
func (t *Tree[T]) serialize(ctx context.Context, opts *lexer.Opts, buffer *strings.Builder, h Handle) (err error) {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	s := t.nodes.get(h)

	value, err := encodeValue(s.item)
	if err != nil {
		return
	}
	if s.expanded {
		buffer.WriteRune(opts.ExpandMarker)
	}
	buffer.WriteString(value)

	for _, child := range s.children {
		buffer.WriteRune(opts.Splitter)
		if err = t.serialize(ctx, opts, buffer, child); err != nil {
			return
		}
	}
	buffer.WriteRune(opts.EndMarker)

	return
}

// encodeValue renders an identifier as a lexer value.
func encodeValue[T comparable](item T) (value string, err error) {
	b, err := json.Marshal(item)
	if err != nil {
		return "", fmt.Errorf("(%v) %w: %w", item, ErrUnserializable, err)
	}

	value = string(b)
	switch {
	case strings.HasPrefix(value, `"`):
		// Strings reading as other JSON scalars (null, true, 123) stay quoted.
		if s, ok := any(item).(string); ok && lexer.IsBare(s) && !json.Valid([]byte(s)) {
			value = s
		}
	case !lexer.IsBare(value):
		err = fmt.Errorf("(%v) %w: %s", item, ErrUnserializable, value)
	}

	return
}
