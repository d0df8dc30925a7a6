// =============================================================================
// Ledger Scanner - CSV Ledger Parser
// =============================================================================
//
// This module reads ledgers exported as CSV. The first non-empty record is
// the header row; every following non-empty record becomes one ledger row.
//
// VALUE HANDLING:
//   - Empty cells become Null.
//   - Every other cell is kept as Text, untrimmed (so "  " stays Text). Converting "200000" to a
//     number or "2024-01-06" to a date is left to the row accessors, so a
//     malformed cell never fails the whole file.
//
// HEADER HANDLING:
//   - Headers are trimmed and mapped to canonical field names
//     (e.g. "Beløp" -> "Amount").
//   - Empty headers become "Column_<n>".
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ginjaninja78/ledger-scanner/internal/config"
	"github.com/ginjaninja78/ledger-scanner/internal/ledger"
)

// ErrEmptyFile is returned when a CSV file holds no header row.
var ErrEmptyFile = errors.New("CSV file is empty")

// utf8BOM is stripped from the first header cell; spreadsheet tools add it.
const utf8BOM = "\uFEFF"

// =============================================================================
// READER
// =============================================================================

// Reader reads CSV ledgers.
type Reader struct {
	settings config.CSVSettings
}

// NewReader creates a CSV ledger reader.
func NewReader(settings config.CSVSettings) *Reader {
	return &Reader{settings: settings}
}

// Name returns the reader name.
func (r *Reader) Name() string { return "csv" }

// Extensions returns the file extensions handled by the reader.
func (r *Reader) Extensions() []string { return []string{".csv"} }

// Read parses the CSV file at path.
func (r *Reader) Read(path string) (ledger.Ledger, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Parse(bufio.NewReader(file), r.settings)
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV ledger from an io.Reader.
//
// PARAMETERS:
//   - in: The CSV input.
//   - settings: The CSV settings (delimiter).
//
// RETURNS:
//   - The ledger rows in file order. Row line numbers are the 1-based
//     lines the records start on.
//   - ErrEmptyFile if there is no header row, or a wrapped read error.
func Parse(in io.Reader, settings config.CSVSettings) (ledger.Ledger, error) {
	comma, err := settings.Comma()
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(in)
	reader.Comma = comma

	// Allow a variable number of fields per record.
	reader.FieldsPerRecord = -1

	// Allow quotes that don't follow strict CSV rules.
	reader.LazyQuotes = true

	var (
		headers []string
		rows    = make(ledger.Ledger, 0)
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}

		// Skip empty records.
		if isRecordEmpty(record) {
			continue
		}

		// The first non-empty record is the header row.
		if headers == nil {
			headers = cleanHeaders(record)
			continue
		}

		line, _ := reader.FieldPos(0)
		rows = append(rows, buildRow(line, headers, record))
	}

	if headers == nil {
		return nil, ErrEmptyFile
	}

	return rows, nil
}

// cleanHeaders strips a leading byte order mark and normalises the header
// row.
func cleanHeaders(raw []string) []string {
	if len(raw) > 0 {
		raw[0] = strings.TrimPrefix(raw[0], utf8BOM)
	}
	return ledger.Headers(raw)
}

// buildRow converts one CSV record to a ledger row. Missing trailing cells
// become Null; cells beyond the header width are dropped.
func buildRow(line int, headers, record []string) *ledger.Row {
	fields := make([]ledger.Field, len(headers))

	for col, header := range headers {
		value := ledger.NullValue()
		if col < len(record) && record[col] != "" {
			value = ledger.TextValue(record[col])
		}
		fields[col] = ledger.Field{Name: header, Value: value}
	}

	return ledger.NewRow(line, fields...)
}

// isRecordEmpty checks if a record contains only empty values.
func isRecordEmpty(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
