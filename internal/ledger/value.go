// =============================================================================
// Ledger Scanner - Cell Values
// =============================================================================
//
// This file defines Value, the tagged value held by every field of a ledger
// row. Spreadsheet cells arrive as text, as numbers, or not at all, and the
// scanners must accept all three without failing.
//
// VALUE KINDS:
//   - Null   : The field is absent or the cell was empty.
//   - Text   : Any textual cell content (kept verbatim, not trimmed).
//   - Number : A numeric cell (float64, as spreadsheets store them).
//
// Value is a comparable struct. Two values are equal only when both the kind
// and the payload match, so Number(2) and Text("2") are different keys.
//
// =============================================================================

package ledger

import (
	"strconv"
)

// =============================================================================
// VALUE KIND
// =============================================================================

// Kind identifies which payload a Value carries.
type Kind int

const (
	// Null marks an absent or empty field.
	Null Kind = iota

	// Text marks a textual field.
	Text

	// Number marks a numeric field.
	Number
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Number:
		return "number"
	default:
		return "null"
	}
}

// =============================================================================
// VALUE
// =============================================================================

// Value is a single field value of a ledger row.
// The zero Value is Null.
type Value struct {
	kind Kind
	text string
	num  float64
}

// NullValue returns the Null value.
func NullValue() Value {
	return Value{}
}

// TextValue wraps a string.
func TextValue(s string) Value {
	return Value{kind: Text, text: s}
}

// NumberValue wraps a float64.
func NumberValue(f float64) Value {
	return Value{kind: Number, num: f}
}

// Kind returns the kind of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether the value is Null.
func (v Value) IsNull() bool {
	return v.kind == Null
}

// String renders the value as text.
//
// RETURNS:
//   - "" for Null.
//   - The raw text for Text (no trimming).
//   - The shortest decimal form for Number, without a trailing ".0" for
//     whole numbers (200000, not 2e+05 or 200000.0).
func (v Value) String() string {
	switch v.kind {
	case Text:
		return v.text
	case Number:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	default:
		return ""
	}
}

// Interface returns the payload as a plain Go value: nil, string or float64.
// Report writers use this to serialise rows.
func (v Value) Interface() interface{} {
	switch v.kind {
	case Text:
		return v.text
	case Number:
		return v.num
	default:
		return nil
	}
}
