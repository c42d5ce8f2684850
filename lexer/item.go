// SPDX-License-Identifier: MIT
package lexer

import "fmt"

type (
	// ItemID identifies the kind of a lexed Item.
	ItemID int

	// Item is a lexed token.
	Item struct {
		Err error

		// Val holds the raw value text, quotes included for quoted values.
		Val []byte
		ID  ItemID
	}
)

// Item kinds.
const (
	_ ItemID = iota // Consume 0 to start actual numbering at 1.

	ItemError     // Lexing failed, see Item.Err.
	ItemSplitter  // Separates a value from the next one.
	ItemEOF       // End of the source.
	ItemValue     // A tree node's identifier.
	ItemEndMarker // Closes the children of the last open node.
	ItemExpanded  // Flags the following value's node as expanded.
)

var itemNames = map[ItemID]string{
	ItemError:     "error",
	ItemSplitter:  "splitter",
	ItemEOF:       "EOF",
	ItemValue:     "value",
	ItemEndMarker: "end marker",
	ItemExpanded:  "expanded marker",
}

// String implements fmt.Stringer.
func (i ItemID) String() string {
	if name, ok := itemNames[i]; ok {
		return name
	}

	return fmt.Sprintf("ItemID(%d)", int(i))
}

// String implements fmt.Stringer.
func (i Item) String() string {
	switch i.ID {
	case ItemError:
		return fmt.Sprintf("%s: %v", i.ID, i.Err)
	case ItemEOF:
		return i.ID.String()
	default:
		return fmt.Sprintf("%s %q", i.ID, i.Val)
	}
}
