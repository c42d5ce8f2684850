// SPDX-License-Identifier: MIT
package lexer

import (
	"github.com/sirupsen/logrus"
)

type (
	// Opts defines the markup shared by serializers & the Lexer.
	Opts struct {
		Debug bool

		EndMarker    rune
		Splitter     rune
		ExpandMarker rune

		Logger logrus.FieldLogger
	}
)

const (
	// defEndMarker closes a node's children.
	defEndMarker = ')'

	// defSplitter separates consecutive values.
	defSplitter = ','

	// defExpandMarker prefixes the values of expanded nodes.
	defExpandMarker = '+'

	emptyRune rune = 0
)

// NewOpts instantiates Opts with the default markup.
func NewOpts() *Opts {
	return &Opts{
		EndMarker:    defEndMarker,
		Splitter:     defSplitter,
		ExpandMarker: defExpandMarker,
		Logger:       logrus.New(),
	}
}

// Validate populates missing Opts entries with defaults.
func (o *Opts) Validate() {
	if o.EndMarker == emptyRune {
		o.EndMarker = defEndMarker
	}
	if o.Splitter == emptyRune {
		o.Splitter = defSplitter
	}
	if o.ExpandMarker == emptyRune {
		o.ExpandMarker = defExpandMarker
	}
	if o.Logger == nil {
		o.Logger = logrus.New()
	}
}
