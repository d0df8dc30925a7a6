// =============================================================================
// Ledger Scanner - XLSX Ledger Parser
// =============================================================================
//
// This module reads ledgers stored as Excel workbooks (.xlsx and .xlsm).
// A ledger is a single worksheet laid out as a table:
//
//   | Dato       | Beløp   | Beskrivelse | Bilagsnummer |
//   |------------|---------|-------------|--------------|
//   | 2024-01-01 | 50000   |             | 1            |
//   | 2024-01-06 | 200000  | Kjøp        | 2            |
//
// SHEET SELECTION:
//   - The first sheet is read unless a sheet name is given.
//   - The first non-empty row of the sheet is the header row.
//
// CELL TYPES:
//   - Empty cells become Null.
//   - Text cells (shared, inline, formula strings, errors) become Text.
//   - Numeric cells become Number, except numeric cells carrying a date
//     number format: those are Excel date serials and become Text in the
//     "YYYY-MM-DD" form ("YYYY-MM-DD HH:MM:SS" when they carry a time).
//   - Boolean cells become Text "TRUE" or "FALSE".
//
// =============================================================================

package xlsxparser

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/ledger-scanner/internal/ledger"
)

var (
	// ErrNoSheets is returned for a workbook without worksheets.
	ErrNoSheets = errors.New("workbook has no sheets")

	// ErrSheetNotFound is returned when the requested sheet does not exist.
	ErrSheetNotFound = errors.New("sheet not found")
)

// =============================================================================
// READER
// =============================================================================

// Reader reads spreadsheet ledgers.
type Reader struct {
	// sheet is the worksheet to read; empty means the first sheet.
	sheet string
}

// NewReader creates a spreadsheet ledger reader for the named sheet.
func NewReader(sheet string) *Reader {
	return &Reader{sheet: sheet}
}

// Name returns the reader name.
func (r *Reader) Name() string { return "xlsx" }

// Extensions returns the file extensions handled by the reader.
func (r *Reader) Extensions() []string { return []string{".xlsx", ".xlsm"} }

// Read parses the workbook at path.
func (r *Reader) Read(path string) (ledger.Ledger, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return ReadWorkbook(f, r.sheet)
}

// Parse reads a workbook from an io.Reader.
func Parse(in io.Reader, sheet string) (ledger.Ledger, error) {
	f, err := excelize.OpenReader(in)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return ReadWorkbook(f, sheet)
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// ReadWorkbook reads the ledger table of an open workbook.
//
// PARAMETERS:
//   - f: The open workbook.
//   - sheet: The worksheet to read. Empty selects the first sheet.
//
// RETURNS:
//   - The ledger rows in sheet order, numbered by their 1-based sheet row.
//     A sheet with a header row and nothing below it yields an empty ledger.
//   - ErrNoSheets or ErrSheetNotFound (wrapped), or a wrapped read error.
func ReadWorkbook(f *excelize.File, sheet string) (ledger.Ledger, error) {
	name, err := resolveSheet(f, sheet)
	if err != nil {
		return nil, err
	}

	// Raw values keep numbers unformatted; cell types and styles decide what
	// each value means.
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	s := &sheetReader{
		file:       f,
		sheet:      name,
		dateStyles: make(map[int]bool),
	}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		s.date1904 = *props.Date1904
	}

	result := make(ledger.Ledger, 0)

	// Find the header row.
	headerIndex := -1
	for i, row := range rows {
		if !isRowEmpty(row) {
			headerIndex = i
			break
		}
	}
	if headerIndex < 0 {
		return result, nil
	}

	headers := ledger.Headers(rows[headerIndex])

	for i := headerIndex + 1; i < len(rows); i++ {
		row := rows[i]

		// Skip empty rows.
		if len(row) == 0 || isRowEmpty(row) {
			continue
		}

		r, err := s.buildRow(i+1, headers, row)
		if err != nil {
			return nil, fmt.Errorf("error reading row %d: %w", i+1, err)
		}
		result = append(result, r)
	}

	return result, nil
}

// resolveSheet returns the name of the worksheet to read.
func resolveSheet(f *excelize.File, sheet string) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", ErrNoSheets
	}

	if sheet == "" {
		return sheets[0], nil
	}

	// Excel treats sheet names case-insensitively.
	for _, name := range sheets {
		if strings.EqualFold(name, sheet) {
			return name, nil
		}
	}

	return "", fmt.Errorf("%w: %q (available: %s)", ErrSheetNotFound, sheet, strings.Join(sheets, ", "))
}

// =============================================================================
// CELL CONVERSION
// =============================================================================

// sheetReader converts the cells of one worksheet.
type sheetReader struct {
	file     *excelize.File
	sheet    string
	date1904 bool

	// dateStyles caches whether a style ID carries a date number format.
	dateStyles map[int]bool
}

// buildRow converts one sheet row to a ledger row. Cells beyond the header
// width are dropped; missing trailing cells become Null.
func (s *sheetReader) buildRow(line int, headers, row []string) (*ledger.Row, error) {
	fields := make([]ledger.Field, len(headers))

	for col, header := range headers {
		value := ledger.NullValue()
		if col < len(row) && row[col] != "" {
			cell, err := excelize.CoordinatesToCellName(col+1, line)
			if err != nil {
				return nil, err
			}
			if value, err = s.cellValue(cell, row[col]); err != nil {
				return nil, fmt.Errorf("cell %s: %w", cell, err)
			}
		}
		fields[col] = ledger.Field{Name: header, Value: value}
	}

	return ledger.NewRow(line, fields...), nil
}

// cellValue converts the raw value of a non-empty cell.
func (s *sheetReader) cellValue(cell, raw string) (ledger.Value, error) {
	cellType, err := s.file.GetCellType(s.sheet, cell)
	if err != nil {
		return ledger.Value{}, err
	}

	switch cellType {
	case excelize.CellTypeBool:
		switch raw {
		case "1":
			return ledger.TextValue("TRUE"), nil
		case "0":
			return ledger.TextValue("FALSE"), nil
		}
		return ledger.TextValue(raw), nil

	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return ledger.TextValue(raw), nil
		}

		isDate, err := s.isDateCell(cell)
		if err != nil {
			return ledger.Value{}, err
		}
		if isDate {
			if text, ok := s.serialToText(n); ok {
				return ledger.TextValue(text), nil
			}
		}
		return ledger.NumberValue(n), nil

	default:
		return ledger.TextValue(raw), nil
	}
}

// isDateCell reports whether the cell's style carries a date number format.
func (s *sheetReader) isDateCell(cell string) (bool, error) {
	styleID, err := s.file.GetCellStyle(s.sheet, cell)
	if err != nil {
		return false, err
	}
	if styleID == 0 {
		return false, nil
	}

	if isDate, ok := s.dateStyles[styleID]; ok {
		return isDate, nil
	}

	style, err := s.file.GetStyle(styleID)
	if err != nil {
		return false, err
	}

	var isDate bool
	if style.CustomNumFmt != nil {
		isDate = isDateFormatCode(*style.CustomNumFmt)
	} else {
		isDate = isBuiltInDateFormat(style.NumFmt)
	}
	s.dateStyles[styleID] = isDate

	return isDate, nil
}

// serialToText renders an Excel date serial as ISO text.
func (s *sheetReader) serialToText(serial float64) (string, bool) {
	t, err := excelize.ExcelDateToTime(serial, s.date1904)
	if err != nil {
		return "", false
	}
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format("2006-01-02"), true
	}
	return t.Format("2006-01-02 15:04:05"), true
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// isBuiltInDateFormat reports whether a built-in number format ID shows a
// calendar date. Time-only formats (18-21, 45-47) are not dates.
func isBuiltInDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 17, id == 22:
		return true
	case id >= 27 && id <= 36, id >= 50 && id <= 58:
		// East Asian date formats.
		return true
	}
	return false
}

// isDateFormatCode reports whether a custom number format code shows a
// calendar date. Quoted literals, escaped characters and bracketed sections
// such as [Red] or [$-409] are ignored.
func isDateFormatCode(code string) bool {
	// Only the first section applies to positive numbers.
	if i := strings.IndexByte(code, ';'); i >= 0 {
		code = code[:i]
	}

	inQuotes, inBrackets, escaped := false, false, false
	for _, r := range code {
		switch {
		case escaped:
			escaped = false
		case inQuotes:
			inQuotes = r != '"'
		case inBrackets:
			inBrackets = r != ']'
		case r == '\\':
			escaped = true
		case r == '"':
			inQuotes = true
		case r == '[':
			inBrackets = true
		case r == 'y', r == 'Y', r == 'd', r == 'D':
			return true
		}
	}
	return false
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
