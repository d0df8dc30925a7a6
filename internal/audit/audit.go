// =============================================================================
// Ledger Scanner - Audit Module
// =============================================================================
//
// This module runs the scan pipeline for a single ledger file, from reading
// the file to writing the findings report.
//
// AUDIT PIPELINE:
//   1. Read the ledger with the reader registered for its extension
//   2. Inspect the ledger for missing columns and unreadable values
//   3. Run the four checks
//   4. Build and write the findings report (yaml and xlsx formats only)
//
// A failure in step 1 means no checks run and the result carries the error.
// Inspection issues are logged as warnings and never stop the scan. A
// failure in step 4 keeps the check results, so the counts can still be
// shown.
//
// =============================================================================

package audit

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ginjaninja78/ledger-scanner/internal/config"
	"github.com/ginjaninja78/ledger-scanner/internal/loader"
	"github.com/ginjaninja78/ledger-scanner/internal/report"
	"github.com/ginjaninja78/ledger-scanner/internal/scanner"
	"github.com/ginjaninja78/ledger-scanner/internal/validation"
	"github.com/ginjaninja78/ledger-scanner/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of scanning a single file.
type Result struct {
	// FilePath is the path to the ledger file that was scanned.
	FilePath string

	// ReportFile is the path to the written report.
	// This is empty for the text format or if writing failed.
	ReportFile string

	// Findings holds the check results. It is nil if the ledger could not
	// be read.
	Findings scanner.Results

	// Inspection holds the issues found in the ledger. It is nil if the
	// ledger could not be read.
	Inspection *validation.Result

	// Success indicates whether every step succeeded.
	Success bool

	// Error contains the error if a step failed.
	Error error

	// Stats contains scan statistics.
	Stats Stats
}

// Stats contains statistics about one scan.
type Stats struct {
	// Rows is the number of ledger rows read.
	Rows int

	// Findings is the number of findings over all checks.
	Findings int

	// ScanTime is the time taken to scan the file.
	ScanTime time.Duration
}

// =============================================================================
// AUDITOR STRUCTURE
// =============================================================================

// Logger is the logging interface used by the auditor. *log.Logger from
// github.com/charmbracelet/log satisfies it.
type Logger interface {
	Debug(msg interface{}, keyvals ...interface{})
	Info(msg interface{}, keyvals ...interface{})
	Warn(msg interface{}, keyvals ...interface{})
	Error(msg interface{}, keyvals ...interface{})
}

// Auditor scans a single ledger file.
type Auditor struct {
	// path is the ledger file.
	path string

	// cfg is the application configuration.
	cfg *config.Config

	// registry picks the reader for the file.
	registry *loader.Registry

	// runID is shared by every report of the run.
	runID string

	logger Logger
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// New creates a new Auditor.
//
// PARAMETERS:
//   - path: The ledger file to scan.
//   - cfg: The application configuration.
//   - registry: The reader registry.
//   - runID: The run ID written into reports and report file names.
//
// RETURNS:
//   - A new Auditor that logs through the default charm logger.
func New(path string, cfg *config.Config, registry *loader.Registry, runID string) *Auditor {
	return &Auditor{
		path:     path,
		cfg:      cfg,
		registry: registry,
		runID:    runID,
		logger:   log.Default(),
	}
}

// SetLogger replaces the auditor's logger.
func (a *Auditor) SetLogger(logger Logger) {
	a.logger = logger
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the scan pipeline for the file.
func (a *Auditor) Run() Result {
	startTime := time.Now()
	result := Result{FilePath: a.path}

	// =========================================================================
	// STEP 1: READ LEDGER
	// =========================================================================

	a.logger.Debug("Reading ledger", "file", a.path)

	rows, err := a.registry.Load(a.path)
	if err != nil {
		result.Error = err
		return result
	}

	result.Stats.Rows = len(rows)
	a.logger.Debug("Read ledger", "file", a.path, "rows", len(rows))

	// =========================================================================
	// STEP 2: INSPECT LEDGER
	// =========================================================================

	inspection := validation.Inspect(rows)
	result.Inspection = inspection
	a.logger.Debug("Inspected ledger", "file", a.path, "rows", inspection.RowsInspected, "issues", len(inspection.Issues))

	if inspection.HasIssues() {
		for _, issue := range inspection.Issues {
			keyvals := []interface{}{"file", a.path, "field", issue.Field}
			if issue.FirstLine > 0 {
				keyvals = append(keyvals, "rows", issue.Rows, "line", issue.FirstLine)
			}
			a.logger.Warn(issue.Message, keyvals...)
		}
	}

	// =========================================================================
	// STEP 3: RUN CHECKS
	// =========================================================================

	findings := scanner.ScanAll(rows, a.cfg.Threshold)
	result.Findings = findings
	result.Stats.Findings = findings.Total()

	for _, f := range findings {
		a.logger.Debug("Check complete", "check", f.Label, "findings", f.Count())
	}

	// =========================================================================
	// STEP 4: WRITE REPORT
	// =========================================================================

	if a.cfg.ReportFormat != config.FormatText {
		rep := report.New(a.runID, a.path, len(rows), a.cfg.Threshold, findings)
		for _, issue := range inspection.Issues {
			rep.Warnings = append(rep.Warnings, issue.Error())
		}

		reportPath, err := a.writeReport(rep)
		if err != nil {
			result.Error = fmt.Errorf("failed to write report: %w", err)
			result.Stats.ScanTime = time.Since(startTime)
			return result
		}

		result.ReportFile = reportPath
		a.logger.Info("Wrote report", "file", reportPath)
	}

	// =========================================================================
	// COMPLETE
	// =========================================================================

	result.Success = true
	result.Stats.ScanTime = time.Since(startTime)

	return result
}

// writeReport encodes the report in the configured format and writes it to
// the output directory.
//
// RETURNS:
//   - The path to the report file.
//   - An error if encoding or writing fails.
func (a *Auditor) writeReport(rep *report.Report) (string, error) {
	var (
		data []byte
		ext  string
		err  error
	)

	switch a.cfg.ReportFormat {
	case config.FormatYAML:
		data, err = report.EncodeYAML(rep)
		ext = ".yaml"
	case config.FormatXLSX:
		data, err = report.EncodeWorkbook(rep)
		ext = ".xlsx"
	default:
		return "", fmt.Errorf("unknown report format %q", a.cfg.ReportFormat)
	}
	if err != nil {
		return "", err
	}

	if err := utils.EnsureDir(a.cfg.OutputDir); err != nil {
		return "", err
	}

	fileName := utils.GenerateOutputFileName(a.cfg.ReportFileFormat, map[string]string{
		"original": utils.BaseName(a.path),
		"uuid":     a.runID,
	}, ext)

	return utils.WriteUniqueFile(a.cfg.OutputDir, fileName, data)
}
