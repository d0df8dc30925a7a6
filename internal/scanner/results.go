// =============================================================================
// Ledger Scanner - Aggregated Results
// =============================================================================
//
// ScanAll runs every check against one ledger and collects the findings under
// fixed, human-readable labels. The label order is the display order.
//
// =============================================================================

package scanner

import (
	"github.com/ginjaninja78/ledger-scanner/internal/ledger"
)

// Check labels, in display order.
const (
	LabelMissingDescription = "Missing description"
	LabelLargeAmounts       = "Large amounts"
	LabelWeekendEntries     = "Weekend entries"
	LabelDuplicateVouchers  = "Duplicate voucher numbers"
)

// =============================================================================
// CHECK CATALOGUE
// =============================================================================

// Check describes one of the ledger checks.
type Check struct {
	// Label is the display label used in results and reports.
	Label string

	// Name is a short machine-friendly name.
	Name string

	// Description explains what the check flags.
	Description string
}

// Checks returns the ledger checks in display order.
func Checks() []Check {
	return []Check{
		{
			Label:       LabelMissingDescription,
			Name:        "missing-description",
			Description: "Entries whose description is empty, blank or missing",
		},
		{
			Label:       LabelLargeAmounts,
			Name:        "large-amounts",
			Description: "Entries whose absolute amount is at or above the threshold",
		},
		{
			Label:       LabelWeekendEntries,
			Name:        "weekend-entries",
			Description: "Entries dated on a Saturday or Sunday",
		},
		{
			Label:       LabelDuplicateVouchers,
			Name:        "duplicate-vouchers",
			Description: "Entries sharing a voucher number with another entry",
		},
	}
}

// =============================================================================
// RESULTS
// =============================================================================

// Finding is the outcome of one check: its label and the matched rows.
type Finding struct {
	Label string
	Rows  ledger.Ledger
}

// Count returns the number of matched rows.
func (f Finding) Count() int {
	return len(f.Rows)
}

// Results holds the findings of every check in display order.
type Results []Finding

// ScanAll runs all four checks against rows.
//
// PARAMETERS:
//   - rows: The ledger to scan. It is only read.
//   - threshold: The large-amount threshold (see LargeAmounts).
//
// RETURNS:
//   - One Finding per check, in the order of Checks().
func ScanAll(rows ledger.Ledger, threshold float64) Results {
	return Results{
		{Label: LabelMissingDescription, Rows: MissingDescription(rows)},
		{Label: LabelLargeAmounts, Rows: LargeAmounts(rows, threshold)},
		{Label: LabelWeekendEntries, Rows: WeekendEntries(rows)},
		{Label: LabelDuplicateVouchers, Rows: DuplicateVouchers(rows)},
	}
}

// Get returns the rows found under label.
func (r Results) Get(label string) (ledger.Ledger, bool) {
	for _, f := range r {
		if f.Label == label {
			return f.Rows, true
		}
	}
	return nil, false
}

// Labels returns the labels in display order.
func (r Results) Labels() []string {
	labels := make([]string, len(r))
	for i, f := range r {
		labels[i] = f.Label
	}
	return labels
}

// Counts returns the number of matched rows per label.
func (r Results) Counts() map[string]int {
	counts := make(map[string]int, len(r))
	for _, f := range r {
		counts[f.Label] = f.Count()
	}
	return counts
}

// Total returns the number of findings across all checks. A row flagged by
// two checks counts twice.
func (r Results) Total() int {
	total := 0
	for _, f := range r {
		total += f.Count()
	}
	return total
}
