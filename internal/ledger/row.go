// =============================================================================
// Ledger Scanner - Ledger Rows
// =============================================================================
//
// A Row is one accounting entry read from a ledger file. It keeps every
// column of the source sheet in the original column order, but the scanners
// only look at four of them:
//
//   | Field         | Used by                   | Expected content          |
//   |---------------|---------------------------|---------------------------|
//   | Date          | weekend scan              | ISO date, YYYY-MM-DD      |
//   | Amount        | large-amount scan         | number or numeric text    |
//   | Description   | missing-description scan  | free text                 |
//   | VoucherNumber | duplicate-voucher scan    | any value, compared as-is |
//
// ACCESSORS:
//   Every accessor is fail-soft. Instead of returning an error for a missing
//   or malformed value, it returns ok=false and the caller decides what that
//   means for its check. Rows are never modified after construction.
//
// =============================================================================

package ledger

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ROW STRUCTURE
// =============================================================================

// Field is a named value, used to build a Row in column order.
type Field struct {
	Name  string
	Value Value
}

// Row is a single ledger entry.
type Row struct {
	// line is the 1-based line (or sheet row) the entry was read from.
	// Zero when the row was not read from a file.
	line int

	// names keeps the column order of the source file.
	names []string

	// values maps a field name to its value.
	values map[string]Value

	// repeated lists the names given more than once, in first-repeat order.
	repeated []string
}

// Ledger is an ordered sequence of rows.
// Scan results are Ledgers holding the same *Row pointers as their input.
type Ledger []*Row

// NewRow creates a row from fields in column order.
//
// PARAMETERS:
//   - line: The 1-based source line number (0 if unknown).
//   - fields: The fields of the row. When a name repeats, the last value wins
//     but the column keeps its first position.
//
// RETURNS:
//   - A new, immutable Row.
func NewRow(line int, fields ...Field) *Row {
	row := &Row{
		line:   line,
		names:  make([]string, 0, len(fields)),
		values: make(map[string]Value, len(fields)),
	}

	for _, f := range fields {
		if _, exists := row.values[f.Name]; !exists {
			row.names = append(row.names, f.Name)
		} else if !contains(row.repeated, f.Name) {
			row.repeated = append(row.repeated, f.Name)
		}
		row.values[f.Name] = f.Value
	}

	return row
}

// Line returns the source line number of the row.
func (r *Row) Line() int {
	return r.line
}

// Names returns the field names in column order.
// The returned slice is a copy.
func (r *Row) Names() []string {
	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}

// Repeated returns the field names that were given more than once when the
// row was built, such as "Dato" and "Date" both mapping to Date.
func (r *Row) Repeated() []string {
	repeated := make([]string, len(r.repeated))
	copy(repeated, r.repeated)
	return repeated
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// Fields returns the fields in column order.
func (r *Row) Fields() []Field {
	fields := make([]Field, len(r.names))
	for i, name := range r.names {
		fields[i] = Field{Name: name, Value: r.values[name]}
	}
	return fields
}

// =============================================================================
// FAIL-SOFT ACCESSORS
// =============================================================================

// Value returns the raw value of a field.
// ok is false when the row has no such field.
func (r *Row) Value(name string) (Value, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Text returns the field rendered as text with surrounding whitespace removed.
//
// RETURNS:
//   - The trimmed text, and true when the field exists and is not Null.
//   - "", false when the field is absent or Null.
//
// A present field may still yield "" (blank text); callers that treat blank
// as missing must check for it.
func (r *Row) Text(name string) (string, bool) {
	v, ok := r.values[name]
	if !ok || v.IsNull() {
		return "", false
	}
	return strings.TrimSpace(v.String()), true
}

// Number converts the field to a float64.
//
// RETURNS:
//   - The number, and true on success. Infinities convert: a Number cell
//     holding ±Inf, or text such as "inf" or "-Infinity".
//   - 0, false when the field is absent, Null, non-numeric text, or NaN.
//
// Text is trimmed before conversion, so " 1500.50 " converts.
func (r *Row) Number(name string) (float64, bool) {
	v, ok := r.values[name]
	if !ok {
		return 0, false
	}

	var f float64
	switch v.kind {
	case Number:
		f = v.num

	case Text:
		parsed, ok := parseFloat(v.text)
		if !ok {
			return 0, false
		}
		f = parsed

	default:
		return 0, false
	}

	if math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// parseFloat parses trimmed decimal text. Hexadecimal forms and digit
// separators are not numbers in a ledger.
func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if strings.ContainsAny(s, "xX_") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Out-of-range text still carries a value: ParseFloat returns ±Inf
		// or ±0 with ErrRange.
		if errors.Is(err, strconv.ErrRange) {
			return f, true
		}
		return 0, false
	}
	return f, true
}

// Decimal converts the field to an exact decimal, for summing amounts
// without float rounding.
//
// RETURNS:
//   - The number, and true on success.
//   - decimal.Zero, false when the field is absent, Null, non-numeric text,
//     or a non-finite number.
func (r *Row) Decimal(name string) (decimal.Decimal, bool) {
	v, ok := r.values[name]
	if !ok {
		return decimal.Zero, false
	}

	switch v.kind {
	case Number:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(v.num), true

	case Text:
		text := strings.TrimSpace(v.text)
		if strings.ContainsAny(text, "xX_") {
			return decimal.Zero, false
		}
		d, err := decimal.NewFromString(text)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true

	default:
		return decimal.Zero, false
	}
}

// dateLayouts are the accepted ISO renderings of a calendar date.
// The date-time forms cover values written by spreadsheet tools, which
// render date cells with a midnight clock time.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
}

// Date parses the field as an ISO calendar date.
//
// RETURNS:
//   - The parsed time, and true on success.
//   - time.Time{}, false when the field is absent, Null, numeric, or text that
//     is not an ISO date.
func (r *Row) Date(name string) (time.Time, bool) {
	v, ok := r.values[name]
	if !ok || v.kind != Text {
		return time.Time{}, false
	}
	return ParseDate(v.text)
}

// ParseDate parses s as an ISO calendar date, optionally followed by a time.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// Key returns the field value for use as a grouping key.
// An absent field yields the Null value, so absent and Null keys are equal.
func (r *Row) Key(name string) Value {
	return r.values[name]
}
