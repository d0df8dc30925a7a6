// =============================================================================
// Ledger Scanner - File Manager Utility
// =============================================================================
//
// This module provides file utilities for the scanner, including:
//   - Ledger file discovery (expanding directory arguments)
//   - Report file naming
//   - Run summary generation
//   - Directory management
//
// Ledger files are only ever read. Reports and run summaries are written to
// the output directory and never overwrite each other: report names carry a
// timestamp and the run ID, and WriteUniqueFile adds a numeric suffix when
// two ledgers of one run share a base name.
//
// =============================================================================

package utils

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDir creates dir and its parents if they don't exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// WriteUniqueFile writes data to name in dir without replacing an existing
// file. When name is taken, "_2", "_3", ... is inserted before the
// extension until a free name is found.
//
// RETURNS:
//   - The path written.
//   - An error if the file cannot be created or written.
func WriteUniqueFile(dir, name string, data []byte) (string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	for n := 1; ; n++ {
		candidate := name
		if n > 1 {
			candidate = fmt.Sprintf("%s_%d%s", stem, n, ext)
		}
		path := filepath.Join(dir, candidate)

		file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to create file: %w", err)
		}

		if _, err := file.Write(data); err != nil {
			file.Close()
			return "", fmt.Errorf("failed to write file: %w", err)
		}
		if err := file.Close(); err != nil {
			return "", fmt.Errorf("failed to write file: %w", err)
		}
		return path, nil
	}
}

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// DiscoverLedgerFiles expands the command line arguments into ledger files.
//
// PARAMETERS:
//   - args: File and directory paths, in the order given.
//   - supports: Reports whether a file name has a readable format.
//   - recursive: Whether directories are searched below their top level.
//
// RETURNS:
//   - The files to scan. File arguments are kept as given, even when
//     unsupported or missing, so the caller can report them. Directory
//     arguments are replaced by the supported files they contain, sorted.
//   - An error if a directory cannot be read.
func DiscoverLedgerFiles(args []string, supports func(string) bool, recursive bool) ([]string, error) {
	var files []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			files = append(files, arg)
			continue
		}

		found, err := scanDirectory(arg, supports, recursive)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}

	return files, nil
}

// scanDirectory lists the supported files in dir.
func scanDirectory(dir string, supports func(string) bool, recursive bool) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != dir && !recursive {
				return filepath.SkipDir
			}
			return nil
		}

		// Skip Excel lock files such as "~$hovedbok.xlsx".
		if strings.HasPrefix(d.Name(), "~$") {
			return nil
		}

		if supports(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan directory %s: %w", dir, err)
	}

	sort.Strings(files)
	return files, nil
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName generates a unique output file name.
//
// PARAMETERS:
//   - format: The format string for the file name.
//             Placeholders:
//               {uuid}      - A random UUID unless params sets "uuid"
//               {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//               {date}      - Current date (YYYYMMDD)
//               {time}      - Current time (HHMMSS)
//               {original}  - Ledger file name without extension
//   - params: A map of placeholder values.
//   - ext: The extension the name must end with, e.g. ".yaml".
//
// RETURNS:
//   - The generated file name.
//
// EXAMPLE:
//   format: "{original}_{timestamp}_{uuid}"
//   params: {"original": "hovedbok"}
//   output: "hovedbok_20240115_143022_a1b2c3d4-e5f6-7890-abcd-ef1234567890.yaml"
func GenerateOutputFileName(format string, params map[string]string, ext string) string {
	now := time.Now()

	// Build replacements.
	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}

	// Add custom params.
	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	// Apply replacements.
	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	// Path separators would move the file out of the output directory.
	result = strings.NewReplacer("/", "_", `\`, "_").Replace(result)

	if ext != "" && !strings.HasSuffix(strings.ToLower(result), strings.ToLower(ext)) {
		result += ext
	}

	return result
}

// BaseName returns the file name of path without its extension.
func BaseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// =============================================================================
// RUN SUMMARY
// =============================================================================

// RunSummary contains the statistics of one scan run.
type RunSummary struct {
	RunID         string
	StartTime     time.Time
	EndTime       time.Time
	TotalFiles    int
	ScannedFiles  int
	FailedFiles   int
	TotalRows     int
	TotalFindings int
	Scanned       []ScannedFileInfo
	Failed        []FailedFileInfo
}

// ScannedFileInfo contains information about a successfully scanned file.
type ScannedFileInfo struct {
	InputFile  string
	ReportFile string
	Rows       int
	Counts     []string
	ScanTime   time.Duration

	// Inspection is the formatted inspection block, empty when the ledger
	// had no issues.
	Inspection string
}

// FailedFileInfo contains information about a file that could not be
// scanned.
type FailedFileInfo struct {
	InputFile    string
	ErrorMessage string
}

// WriteSummaryLog writes a run summary to a text file.
//
// PARAMETERS:
//   - summary: The run summary.
//   - outputDir: The directory to write the summary file.
//
// RETURNS:
//   - The path to the summary file.
//   - An error if writing fails.
func WriteSummaryLog(summary RunSummary, outputDir string) (string, error) {
	if err := EnsureDir(outputDir); err != nil {
		return "", err
	}

	// Generate summary file name.
	timestamp := summary.EndTime.Format("20060102_150405")
	summaryFileName := fmt.Sprintf("scan_summary_%s.txt", timestamp)
	if summary.RunID != "" {
		summaryFileName = fmt.Sprintf("scan_summary_%s_%s.txt", timestamp, summary.RunID)
	}
	summaryPath := filepath.Join(outputDir, summaryFileName)

	// Create the file.
	file, err := os.Create(summaryPath)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	// Write header.
	duration := summary.EndTime.Sub(summary.StartTime)
	fmt.Fprintf(writer, "Ledger Scanner - Run Summary\n"+
		"================================================================================\n\n"+
		"Run Information:\n"+
		"  Run ID:         %s\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n\n"+
		"Statistics:\n"+
		"  Total Files:    %d\n"+
		"  Scanned:        %d\n"+
		"  Failed:         %d\n"+
		"  Total Rows:     %d\n"+
		"  Total Findings: %d\n\n",
		summary.RunID,
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		duration.String(),
		summary.TotalFiles,
		summary.ScannedFiles,
		summary.FailedFiles,
		summary.TotalRows,
		summary.TotalFindings)

	// Write scanned files.
	if len(summary.Scanned) > 0 {
		writer.WriteString("Scanned Files:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, sf := range summary.Scanned {
			fmt.Fprintf(writer, "  Input:     %s\n", sf.InputFile)
			if sf.ReportFile != "" {
				fmt.Fprintf(writer, "  Report:    %s\n", sf.ReportFile)
			}
			fmt.Fprintf(writer, "  Rows:      %d\n", sf.Rows)
			for _, line := range sf.Counts {
				fmt.Fprintf(writer, "    %s\n", line)
			}
			if sf.Inspection != "" {
				for _, line := range strings.Split(strings.TrimRight(sf.Inspection, "\n"), "\n") {
					fmt.Fprintf(writer, "  %s\n", line)
				}
			}
			fmt.Fprintf(writer, "  Scan Time: %s\n\n", sf.ScanTime.String())
		}
	}

	// Write failed files.
	if len(summary.Failed) > 0 {
		writer.WriteString("Failed Files:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, ff := range summary.Failed {
			fmt.Fprintf(writer, "  File:  %s\n", ff.InputFile)
			fmt.Fprintf(writer, "  Error: %s\n\n", ff.ErrorMessage)
		}
	}

	// Write footer.
	writer.WriteString("================================================================================\n" +
		"End of Summary\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush summary file: %w", err)
	}

	return summaryPath, nil
}
