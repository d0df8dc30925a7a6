package report

import (
	"fmt"
	"math"
	"time"

	"github.com/xuri/excelize/v2"
)

// summarySheet is the name of the first sheet of a workbook report.
const summarySheet = "Summary"

// maxSheetName is the longest sheet name Excel accepts.
const maxSheetName = 31

// EncodeWorkbook encodes the report as an XLSX workbook.
//
// WORKBOOK LAYOUT:
//   - "Summary": run ID, source, time, threshold and row count, followed by
//     one "<label> | <count> | <amount total>" line per check, the total, and then the
//     inspection warnings, if any.
//   - One sheet per check, named after its label, with a "Line" column and
//     one column per field seen in the flagged rows.
func EncodeWorkbook(rep *Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return nil, fmt.Errorf("failed to name summary sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	summary := [][]interface{}{
		{"Run ID", rep.RunID},
		{"Source", rep.Source},
		{"Generated", rep.GeneratedAt.Format(time.RFC3339)},
		{"Threshold", rep.Threshold},
		{"Rows", rep.Rows},
		nil,
		{"Check", "Findings", "Amount"},
	}
	for _, check := range rep.Checks {
		summary = append(summary, []interface{}{check.Label, check.Count, check.AmountTotal.InexactFloat64()})
	}
	summary = append(summary, []interface{}{"Total", rep.Total})
	if len(rep.Warnings) > 0 {
		summary = append(summary, nil, []interface{}{"Warnings"})
		for _, w := range rep.Warnings {
			summary = append(summary, []interface{}{w})
		}
	}

	if err := writeRows(f, summarySheet, summary); err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(summarySheet, 7, 7, bold); err != nil {
		return nil, fmt.Errorf("failed to style summary sheet: %w", err)
	}
	if len(rep.Warnings) > 0 {
		row := 7 + len(rep.Checks) + 3
		if err := f.SetRowStyle(summarySheet, row, row, bold); err != nil {
			return nil, fmt.Errorf("failed to style summary sheet: %w", err)
		}
	}
	if err := f.SetColWidth(summarySheet, "A", "A", 28); err != nil {
		return nil, fmt.Errorf("failed to size summary sheet: %w", err)
	}

	for _, check := range rep.Checks {
		name := sheetName(check.Label)
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
		if err := writeRows(f, name, checkTable(check)); err != nil {
			return nil, err
		}
		if err := f.SetRowStyle(name, 1, 1, bold); err != nil {
			return nil, fmt.Errorf("failed to style sheet %s: %w", name, err)
		}
	}

	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode workbook report: %w", err)
	}
	return buf.Bytes(), nil
}

// checkTable lays out the flagged rows of one check. Columns follow the
// order in which field names first appear.
func checkTable(check CheckReport) [][]interface{} {
	var columns []string
	seen := make(map[string]bool)
	for _, row := range check.Rows {
		for _, field := range row.Fields {
			if !seen[field.Name] {
				seen[field.Name] = true
				columns = append(columns, field.Name)
			}
		}
	}

	header := make([]interface{}, 0, len(columns)+1)
	header = append(header, "Line")
	for _, c := range columns {
		header = append(header, c)
	}

	table := [][]interface{}{header}
	for _, row := range check.Rows {
		values := make(map[string]interface{}, len(row.Fields))
		for _, field := range row.Fields {
			values[field.Name] = cellValue(field.Value.Interface())
		}

		line := make([]interface{}, 0, len(columns)+1)
		line = append(line, row.Line)
		for _, c := range columns {
			line = append(line, values[c])
		}
		table = append(table, line)
	}

	return table
}

// cellValue stores non-finite numbers as text; a workbook cannot hold them.
func cellValue(v interface{}) interface{} {
	if n, ok := v.(float64); ok && (math.IsNaN(n) || math.IsInf(n, 0)) {
		return fmt.Sprint(n)
	}
	return v
}

// writeRows writes rows to sheet from A1 down. Nil rows are left blank.
func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if row == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

// sheetName shortens a label to a valid sheet name.
func sheetName(label string) string {
	runes := []rune(label)
	if len(runes) > maxSheetName {
		return string(runes[:maxSheetName])
	}
	return label
}
