// =============================================================================
// Ledger Scanner - Scan Functions
// =============================================================================
//
// This module contains the four ledger checks. Each check walks the ledger
// once and returns the rows that match its criterion:
//
//   | Check                     | A row matches when ...                         |
//   |---------------------------|------------------------------------------------|
//   | Missing description       | Description is absent, null or blank           |
//   | Large amounts             | |Amount| >= threshold (default 100 000)        |
//   | Weekend entries           | Date falls on a Saturday or Sunday             |
//   | Duplicate voucher numbers | another row has the same VoucherNumber         |
//
// BEHAVIOR:
//   - The checks never fail. A value that cannot be converted (an Amount that
//     is not a number, a Date that is not an ISO date) excludes the row from
//     that check instead of producing an error.
//   - Results hold the input *Row pointers; rows are never copied or changed.
//   - Input order is preserved, except for the pairing order of the
//     duplicate-voucher check described on DuplicateVouchers.
//
// =============================================================================

package scanner

import (
	"math"
	"time"

	"github.com/ginjaninja78/ledger-scanner/internal/ledger"
)

// DefaultThreshold is the default minimum absolute amount flagged by
// LargeAmounts.
const DefaultThreshold float64 = 100_000

// =============================================================================
// MISSING DESCRIPTION
// =============================================================================

// MissingDescription returns every row whose Description is absent, null, or
// empty after trimming surrounding whitespace.
func MissingDescription(rows ledger.Ledger) ledger.Ledger {
	result := make(ledger.Ledger, 0)

	for _, r := range rows {
		text, ok := r.Text(ledger.FieldDescription)
		if !ok || text == "" {
			result = append(result, r)
		}
	}

	return result
}

// =============================================================================
// LARGE AMOUNTS
// =============================================================================

// LargeAmounts returns every row whose Amount has an absolute value greater
// than or equal to threshold.
//
// PARAMETERS:
//   - rows: The ledger to scan.
//   - threshold: The inclusive lower bound for |Amount|. Use DefaultThreshold
//     when no other value is configured.
//
// RETURNS:
//   - The matching rows in ledger order.
//
// Amounts compare as float64. Rows whose Amount is absent, not numeric or
// NaN are skipped. Infinite amounts match any threshold except NaN; a NaN
// threshold matches nothing.
func LargeAmounts(rows ledger.Ledger, threshold float64) ledger.Ledger {
	result := make(ledger.Ledger, 0)

	for _, r := range rows {
		amount, ok := r.Number(ledger.FieldAmount)
		if !ok {
			continue
		}
		if math.Abs(amount) >= threshold {
			result = append(result, r)
		}
	}

	return result
}

// =============================================================================
// WEEKEND ENTRIES
// =============================================================================

// WeekendEntries returns every row whose Date falls on a Saturday or Sunday.
// Rows with an absent or unparsable Date are skipped.
func WeekendEntries(rows ledger.Ledger) ledger.Ledger {
	result := make(ledger.Ledger, 0)

	for _, r := range rows {
		date, ok := r.Date(ledger.FieldDate)
		if !ok {
			continue
		}
		if isWeekend(date) {
			result = append(result, r)
		}
	}

	return result
}

// isWeekend reports whether t falls on a Saturday or Sunday.
func isWeekend(t time.Time) bool {
	day := t.Weekday()
	return day == time.Saturday || day == time.Sunday
}

// =============================================================================
// DUPLICATE VOUCHER NUMBERS
// =============================================================================

// DuplicateVouchers returns the rows that share a VoucherNumber with at least
// one other row. Every such row is returned exactly once.
//
// ORDERING:
//   The ledger is walked once. The first row of each voucher number is held
//   back until the second one is seen; at that point the second row is
//   appended, followed by the held-back first row. Later rows with the same
//   voucher number are appended as they are met. For rows r1, r2, r3 sharing
//   one voucher number the output is therefore [r2, r1, r3].
//
// An absent or null VoucherNumber is an ordinary key: rows without a voucher
// number are reported as duplicates of each other. Keys compare by kind and
// value, so the number 2 and the text "2" are different voucher numbers.
func DuplicateVouchers(rows ledger.Ledger) ledger.Ledger {
	result := make(ledger.Ledger, 0)

	// first holds the first row seen for each key until it has been emitted,
	// after which the entry is set to nil.
	first := make(map[ledger.Value]*ledger.Row)

	for _, r := range rows {
		key := r.Key(ledger.FieldVoucherNumber)

		held, seen := first[key]
		if !seen {
			first[key] = r
			continue
		}

		result = append(result, r)
		if held != nil {
			result = append(result, held)
			first[key] = nil
		}
	}

	return result
}
