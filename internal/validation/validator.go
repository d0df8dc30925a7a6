// =============================================================================
// Ledger Scanner - Ledger Inspection
// =============================================================================
//
// This module inspects a ledger before it is scanned and reports anything
// that makes the check results misleading. The checks themselves are
// fail-soft: a missing column or an unreadable value never stops them, it
// only changes what they find. Inspection makes those cases visible.
//
// INSPECTION LEVELS:
//   1. Column-level: Is each scanned column present in the ledger at all,
//      and does only one column map to it?
//   2. Value-level: Do the present Amount and Date values convert?
//
// ERROR HANDLING:
//   - Issues are collected, never returned as errors
//   - Each issue carries the field, the number of rows it affects and the
//     first source line, for easy troubleshooting
//   - Every issue is a warning; scanning always continues
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/ledger-scanner/internal/ledger"
)

// =============================================================================
// ISSUE TYPES
// =============================================================================

// SeverityWarning marks an issue that does not stop the scan.
const SeverityWarning = "warning"

// Issue describes a single problem found in a ledger.
type Issue struct {
	// Severity indicates the severity of the issue.
	Severity string

	// Field is the canonical field the issue concerns.
	Field string

	// Message is a human-readable description of the issue.
	Message string

	// Rows is the number of rows affected.
	Rows int

	// FirstLine is the source line of the first affected row.
	// Zero for missing-column issues.
	FirstLine int
}

// Error implements the error interface.
func (i *Issue) Error() string {
	msg := fmt.Sprintf("[%s] Field '%s': %s", strings.ToUpper(i.Severity), i.Field, i.Message)
	if i.FirstLine > 0 {
		msg += fmt.Sprintf(" (%d rows, first at line %d)", i.Rows, i.FirstLine)
	}
	return msg
}

// =============================================================================
// INSPECTION RESULT
// =============================================================================

// Result contains the outcome of an inspection.
type Result struct {
	// Issues contains every issue found, column-level issues first.
	Issues []*Issue

	// RowsInspected is the number of rows looked at.
	RowsInspected int
}

// HasIssues reports whether anything was found.
func (r *Result) HasIssues() bool {
	return len(r.Issues) > 0
}

// =============================================================================
// COLUMN RULES
// =============================================================================

// missingColumnMessages describes what each check does when its column is
// absent from the whole ledger.
var missingColumnMessages = []struct {
	field   string
	message string
}{
	{ledger.FieldDate, "column not found; no weekend entries can be found"},
	{ledger.FieldAmount, "column not found; no large amounts can be found"},
	{ledger.FieldDescription, "column not found; every row counts as missing a description"},
	{ledger.FieldVoucherNumber, "column not found; every row counts as a duplicate voucher number"},
}

// =============================================================================
// MAIN INSPECTION FUNCTION
// =============================================================================

// Inspect looks through a ledger for missing columns and unreadable values.
//
// PARAMETERS:
//   - rows: The ledger to inspect.
//
// RETURNS:
//   - The inspection result. An empty ledger yields no issues, since there
//     is nothing for the checks to misread.
func Inspect(rows ledger.Ledger) *Result {
	result := &Result{RowsInspected: len(rows)}
	if len(rows) == 0 {
		return result
	}

	present := make(map[string]bool)
	for _, r := range rows {
		for _, name := range r.Names() {
			present[name] = true
		}
	}

	// Column-level.
	for _, rule := range missingColumnMessages {
		if !present[rule.field] {
			result.Issues = append(result.Issues, &Issue{
				Severity: SeverityWarning,
				Field:    rule.field,
				Message:  rule.message,
				Rows:     len(rows),
			})
		}
	}

	// Columns that share a canonical name.
	result.Issues = append(result.Issues, inspectRepeated(rows)...)

	// Value-level.
	if present[ledger.FieldAmount] {
		if issue := inspectValues(rows, ledger.FieldAmount, isNumber,
			"value is not a number; the row is skipped by the large-amount check"); issue != nil {
			result.Issues = append(result.Issues, issue)
		}
	}
	if present[ledger.FieldDate] {
		if issue := inspectValues(rows, ledger.FieldDate, isDate,
			"value is not an ISO date; the row is skipped by the weekend check"); issue != nil {
			result.Issues = append(result.Issues, issue)
		}
	}

	return result
}

// inspectRepeated reports fields that several columns map to, such as a
// sheet with both "Dato" and "Date". The row keeps the rightmost column.
func inspectRepeated(rows ledger.Ledger) []*Issue {
	var issues []*Issue
	byField := make(map[string]*Issue)

	for _, r := range rows {
		for _, name := range r.Repeated() {
			issue, ok := byField[name]
			if !ok {
				issue = &Issue{
					Severity:  SeverityWarning,
					Field:     name,
					Message:   "several columns map to this field; only the last one is read",
					FirstLine: r.Line(),
				}
				byField[name] = issue
				issues = append(issues, issue)
			}
			issue.Rows++
		}
	}

	return issues
}

// inspectValues counts the rows whose field holds a value that valid
// rejects. Absent, null and blank values are not counted.
func inspectValues(rows ledger.Ledger, field string, valid func(*ledger.Row, string) bool, message string) *Issue {
	var issue *Issue

	for _, r := range rows {
		text, ok := r.Text(field)
		if !ok || text == "" {
			continue
		}
		if valid(r, field) {
			continue
		}

		if issue == nil {
			issue = &Issue{
				Severity:  SeverityWarning,
				Field:     field,
				Message:   message,
				FirstLine: r.Line(),
			}
		}
		issue.Rows++
	}

	return issue
}

func isNumber(r *ledger.Row, field string) bool {
	_, ok := r.Number(field)
	return ok
}

func isDate(r *ledger.Row, field string) bool {
	_, ok := r.Date(field)
	return ok
}

// =============================================================================
// ERROR FORMATTING
// =============================================================================

// FormatIssues formats issues for display, one per line.
func FormatIssues(issues []*Issue) string {
	if len(issues) == 0 {
		return "No issues found."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d issue(s):\n", len(issues))
	for i, issue := range issues {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, issue.Error())
	}
	return sb.String()
}
