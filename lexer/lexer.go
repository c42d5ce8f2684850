// SPDX-License-Identifier: MIT

// Package lexer tokenizes the outline text format: node values in pre-order, each node's
// children closed by an end marker, e.g. `+a,b),c))` for a(b, c) with a expanded.
package lexer

// REF: https://go.dev/talks/2011/lex.slide

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"
)

type (
	// stateFn lexes from the current state, returning the next one.
	stateFn func(context.Context) stateFn

	// Lexer emits Items lexed from a source over a channel.
	//
	// Lex runs in its own goroutine; Item consumes.
	Lexer struct {
		opts Opts

		// c communicates lexed Items.
		c chan Item

		source io.RuneScanner

		// token holds the runes of the Item being lexed.
		token []rune

		valueCounter int
		endCounter   int
	}

	// Option defines the Lexer functional option type
	Option func(*Lexer)
)

const (
	// errContext is the number of runes quoted after an unknown token.
	errContext    = 32
	defBufferSize = 16

	quote  = '"'
	escape = '\\'
)

// Lexing errors.
var (
	ErrUnknownTokens   = errors.New("unknown tokens")
	ErrUnterminatedVal = errors.New("unterminated quoted value")
)

var whitespace = [256]bool{' ': true, '\t': true, '\r': true, '\n': true}

// New instantiates a Lexer, the source defaults to an empty one.
func New(options ...Option) *Lexer {
	l := &Lexer{
		opts:   *NewOpts(),
		c:      make(chan Item, defBufferSize),
		source: strings.NewReader(""),
		token:  make([]rune, 0, defBufferSize),
	}

	for _, opt := range options {
		opt(l)
	}
	l.opts.Validate()

	return l
}

// WithOpts configures the markup, debug & logger options at once.
func WithOpts(opts *Opts) Option { return func(l *Lexer) { l.opts = *opts } }

// WithDebug configures the debug option.
func WithDebug(debug bool) Option { return func(l *Lexer) { l.opts.Debug = debug } }

// WithEndMarker configures the endMarker option.
func WithEndMarker(r rune) Option { return func(l *Lexer) { l.opts.EndMarker = r } }

// WithSplitter configures the splitter option.
func WithSplitter(r rune) Option { return func(l *Lexer) { l.opts.Splitter = r } }

// WithExpandMarker configures the expandMarker option.
func WithExpandMarker(r rune) Option { return func(l *Lexer) { l.opts.ExpandMarker = r } }

// WithLogger configures the logger option.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(l *Lexer) { l.opts.Logger = logger }
}

// WithSource configures the source option.
func WithSource(source io.RuneScanner) Option { return func(l *Lexer) { l.source = source } }

// Opts obtains the Lexer's markup configuration.
func (l *Lexer) Opts() Opts { return l.opts }

// ValueCounter obtains the number of values lexed so far.
func (l *Lexer) ValueCounter() int { return l.valueCounter }

// EndCounter obtains the number of end markers lexed so far.
func (l *Lexer) EndCounter() int { return l.endCounter }

// Logger obtains the logger.
func (l *Lexer) Logger() logrus.FieldLogger { return l.opts.Logger }

// Lex lexes the source by executing state functions, until an ItemEOF or ItemError is emitted
// or ctx is done.
func (l *Lexer) Lex(ctx context.Context) {
	defer close(l.c)

	for state := l.lexWhitespace; state != nil; {
		state = state(ctx)
	}
}

// Item retrieves the next lexed Item; ok is false once the Lexer is done.
func (l *Lexer) Item() (i Item, ok bool) {
	i, ok = <-l.c
	return
}

// lexWhitespace discards whitespace & dispatches on the next rune.
func (l *Lexer) lexWhitespace(ctx context.Context) stateFn {
	if err := ctx.Err(); err != nil {
		l.emitError(ctx, err)
		return nil
	}

	r, err := l.next()
	for err == nil && isWhitespace(r) {
		r, err = l.next()
	}
	if err != nil {
		l.emitError(ctx, err)
		return nil
	}
	l.token = l.token[:0]

	switch {
	case r == l.opts.EndMarker:
		l.endCounter++
		return l.emitRune(ctx, ItemEndMarker, r)
	case r == l.opts.Splitter:
		return l.emitRune(ctx, ItemSplitter, r)
	case r == l.opts.ExpandMarker:
		return l.emitRune(ctx, ItemExpanded, r)
	case r == quote:
		l.token = append(l.token, r)
		return l.lexQuoted
	case isValue(r):
		l.token = append(l.token, r)
		return l.lexValue
	default:
		l.token = append(l.token, r)
		for len(l.token) < errContext {
			if r, err = l.next(); err != nil {
				break
			}
			l.token = append(l.token, r)
		}
		l.emitError(ctx, fmt.Errorf("%w: %s", ErrUnknownTokens, string(l.token)))

		return nil
	}
}

// lexValue consumes a bare value.
func (l *Lexer) lexValue(ctx context.Context) stateFn {
	for {
		r, err := l.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			l.emitError(ctx, err)
			return nil
		}

		if !isValue(r) {
			if err = l.source.UnreadRune(); err != nil {
				l.emitError(ctx, err)
				return nil
			}
			break
		}
		l.token = append(l.token, r)
	}

	l.valueCounter++
	if !l.emit(ctx, Item{ID: ItemValue, Val: []byte(string(l.token))}) {
		return nil
	}

	return l.lexWhitespace
}

// lexQuoted consumes a double quoted value, escapes are kept for the value's decoder.
func (l *Lexer) lexQuoted(ctx context.Context) stateFn {
	escaped := false
	for {
		r, err := l.next()
		if errors.Is(err, io.EOF) {
			l.emitError(ctx, fmt.Errorf("%w: %s", ErrUnterminatedVal, string(l.token)))
			return nil
		}
		if err != nil {
			l.emitError(ctx, err)
			return nil
		}
		l.token = append(l.token, r)

		switch {
		case escaped:
			escaped = false
		case r == escape:
			escaped = true
		case r == quote:
			l.valueCounter++
			if !l.emit(ctx, Item{ID: ItemValue, Val: []byte(string(l.token))}) {
				return nil
			}

			return l.lexWhitespace
		}
	}
}

func (l *Lexer) next() (r rune, err error) {
	r, _, err = l.source.ReadRune()
	return
}

// emitRune sends a single rune Item & resumes at lexWhitespace.
func (l *Lexer) emitRune(ctx context.Context, id ItemID, r rune) stateFn {
	if !l.emit(ctx, Item{ID: id, Val: []byte(string(r))}) {
		return nil
	}

	return l.lexWhitespace
}

// emit sends an Item, reporting false if ctx was done first.
func (l *Lexer) emit(ctx context.Context, i Item) bool {
	if l.opts.Debug {
		l.opts.Logger.Debugf("lexer emit: %s", i)
	}

	select {
	case l.c <- i:
		return true
	case <-ctx.Done():
		return false
	}
}

// emitError terminates lexing with an ItemError, or an ItemEOF for io.EOF.
func (l *Lexer) emitError(ctx context.Context, err error) {
	if errors.Is(err, io.EOF) {
		l.emit(ctx, Item{ID: ItemEOF})
		return
	}

	l.emit(ctx, Item{ID: ItemError, Err: err})
}

func isWhitespace(r rune) bool { return r < 256 && whitespace[r] }

// isValue reports whether r may appear in a bare value.
func isValue(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || r == '.'
}

// IsBare reports whether s can be written as a value without quoting.
func IsBare(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if !isValue(r) {
			return false
		}
	}

	return true
}
