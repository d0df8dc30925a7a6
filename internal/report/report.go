// =============================================================================
// Ledger Scanner - Findings Report
// =============================================================================
//
// This module renders the results of the four checks. Three forms exist:
//
//   - Text lines, one per check, "<label>: <n> funn". This is what the
//     command line prints for every ledger.
//   - A YAML document listing every flagged row.
//   - An XLSX workbook with a summary sheet and one sheet per check
//     (see workbook.go).
//
// Every report carries the run ID, so reports written in one run can be
// matched up afterwards.
//
// =============================================================================

package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/ledger-scanner/internal/ledger"
	"github.com/ginjaninja78/ledger-scanner/internal/scanner"
)

// =============================================================================
// TEXT RENDERING
// =============================================================================

// Lines returns one "<label>: <n> funn" line per finding, in result order.
func Lines(results scanner.Results) []string {
	lines := make([]string, len(results))
	for i, f := range results {
		lines[i] = fmt.Sprintf("%s: %d funn", f.Label, f.Count())
	}
	return lines
}

// Render joins Lines with newlines, without a trailing newline.
func Render(results scanner.Results) string {
	return strings.Join(Lines(results), "\n")
}

// =============================================================================
// REPORT STRUCTURE
// =============================================================================

// Report is the machine-readable form of one ledger's findings.
type Report struct {
	// RunID identifies the scan run that produced the report.
	RunID string `yaml:"run_id"`

	// Source is the ledger file that was scanned.
	Source string `yaml:"source"`

	// GeneratedAt is when the report was built.
	GeneratedAt time.Time `yaml:"generated_at"`

	// Threshold is the large-amount threshold used.
	Threshold float64 `yaml:"threshold"`

	// Rows is the number of ledger rows read.
	Rows int `yaml:"rows"`

	// Total is the number of findings over all checks. A row flagged by
	// two checks counts twice.
	Total int `yaml:"total_findings"`

	// Warnings lists the inspection issues found in the ledger.
	Warnings []string `yaml:"warnings,omitempty"`

	// Checks holds one entry per check, in check order.
	Checks []CheckReport `yaml:"checks"`
}

// CheckReport lists the rows one check flagged.
type CheckReport struct {
	Label string      `yaml:"label"`
	Count int         `yaml:"count"`

	// AmountTotal is the exact sum of |Amount| over the flagged rows whose
	// Amount is a finite number. Rows without one add nothing.
	AmountTotal decimal.Decimal `yaml:"-"`

	Rows []RowReport `yaml:"rows"`
}

// MarshalYAML writes AmountTotal as an exact decimal string.
func (c CheckReport) MarshalYAML() (interface{}, error) {
	return struct {
		Label       string      `yaml:"label"`
		Count       int         `yaml:"count"`
		AmountTotal string      `yaml:"amount_total"`
		Rows        []RowReport `yaml:"rows"`
	}{c.Label, c.Count, c.AmountTotal.String(), c.Rows}, nil
}

// amountTotal sums the absolute Amounts of rows as exact decimals.
func amountTotal(rows ledger.Ledger) decimal.Decimal {
	total := decimal.Zero
	for _, row := range rows {
		if amount, ok := row.Decimal(ledger.FieldAmount); ok {
			total = total.Add(amount.Abs())
		}
	}
	return total
}

// RowReport is one flagged row.
type RowReport struct {
	Line   int    `yaml:"line"`
	Fields Fields `yaml:"fields"`
}

// Fields keeps a row's fields in column order when encoded.
type Fields []ledger.Field

// MarshalYAML encodes the fields as a mapping in column order.
func (f Fields) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}

	for _, field := range f {
		var value yaml.Node
		if err := value.Encode(field.Value.Interface()); err != nil {
			return nil, fmt.Errorf("failed to encode field %s: %w", field.Name, err)
		}
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: field.Name}
		node.Content = append(node.Content, key, &value)
	}

	return node, nil
}

// NewRunID returns a new run ID.
func NewRunID() string {
	return uuid.New().String()
}

// New builds the report for one scanned ledger.
//
// PARAMETERS:
//   - runID: The run ID shared by every report of the run.
//   - source: The ledger file path.
//   - rowCount: The number of rows read from the ledger.
//   - threshold: The large-amount threshold used.
//   - results: The check results.
//
// RETURNS:
//   - The report, stamped with the current time.
func New(runID, source string, rowCount int, threshold float64, results scanner.Results) *Report {
	rep := &Report{
		RunID:       runID,
		Source:      source,
		GeneratedAt: time.Now(),
		Threshold:   threshold,
		Rows:        rowCount,
		Total:       results.Total(),
		Checks:      make([]CheckReport, len(results)),
	}

	for i, finding := range results {
		check := CheckReport{
			Label:       finding.Label,
			Count:       finding.Count(),
			AmountTotal: amountTotal(finding.Rows),
			Rows:        make([]RowReport, len(finding.Rows)),
		}
		for j, row := range finding.Rows {
			check.Rows[j] = RowReport{Line: row.Line(), Fields: row.Fields()}
		}
		rep.Checks[i] = check
	}

	return rep
}

// =============================================================================
// ENCODING
// =============================================================================

// EncodeYAML encodes the report as a YAML document.
func EncodeYAML(rep *Report) ([]byte, error) {
	var buf bytes.Buffer

	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)

	if err := encoder.Encode(rep); err != nil {
		return nil, fmt.Errorf("failed to encode YAML report: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode YAML report: %w", err)
	}

	return buf.Bytes(), nil
}
