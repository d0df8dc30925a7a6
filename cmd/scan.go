// =============================================================================
// Ledger Scanner - Scan Command
// =============================================================================
//
// This file defines the 'scan' command, which runs the four audit checks on
// one or more ledger files and prints the number of findings per check.
//
// COMMAND USAGE:
//   ledgerscan scan [FILE|DIR ...] [flags]
//
// FLAGS:
//   --threshold   : Minimum absolute amount flagged as large
//   --sheet       : Worksheet to read from spreadsheet ledgers
//   --format      : Report format: text, yaml or xlsx
//   --output-dir  : Directory for yaml/xlsx reports
//   --recursive   : Search directories below their top level
//   --summary     : Write a run summary file to the output directory
//
// OUTPUT:
//   Missing description: 2 funn
//   Large amounts: 2 funn
//   Weekend entries: 2 funn
//   Duplicate voucher numbers: 2 funn
//
//   With more than one file, each block is headed by "== <file> ==". A file
//   that cannot be read gets one line describing why instead of the counts,
//   and the command exits non-zero once every file has been attempted.
//
// =============================================================================

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/ledger-scanner/internal/audit"
	"github.com/ginjaninja78/ledger-scanner/internal/config"
	"github.com/ginjaninja78/ledger-scanner/internal/loader"
	"github.com/ginjaninja78/ledger-scanner/internal/report"
	"github.com/ginjaninja78/ledger-scanner/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// threshold overrides the configured large-amount threshold.
var threshold float64

// sheet overrides the configured worksheet.
var sheet string

// reportFormat overrides the configured report format.
var reportFormat string

// outputDir overrides the configured report directory.
var outputDir string

// recursive searches directory arguments recursively.
var recursive bool

// writeSummary writes a run summary file.
var writeSummary bool

// =============================================================================
// SCAN COMMAND DEFINITION
// =============================================================================

// scanCmd represents the 'scan' command.
var scanCmd = &cobra.Command{
	Use:   "scan [FILE|DIR ...]",
	Short: "Scan ledger files for suspicious entries",
	Long: `The scan command reads each ledger file, runs the four audit checks and
prints one "<check>: <n> funn" line per check.

Directory arguments are expanded to the .csv, .xlsx and .xlsm files they
contain. Files are scanned one after another; a file that cannot be read
does not stop the others.

With --format yaml or --format xlsx, a report listing every flagged row is
also written to the output directory.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScan(cmd, args)
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().Float64Var(
		&threshold,
		"threshold",
		100_000,
		"Minimum absolute amount flagged as large (overrides config)",
	)

	scanCmd.Flags().StringVar(
		&sheet,
		"sheet",
		"",
		"Worksheet to read from spreadsheet ledgers (default: first sheet)",
	)

	scanCmd.Flags().StringVar(
		&reportFormat,
		"format",
		config.FormatText,
		"Report format: "+strings.Join(config.ReportFormats, ", "),
	)

	scanCmd.Flags().StringVar(
		&outputDir,
		"output-dir",
		"",
		"Directory for yaml/xlsx reports (overrides config)",
	)

	scanCmd.Flags().BoolVarP(
		&recursive,
		"recursive",
		"r",
		false,
		"Search directories recursively",
	)

	scanCmd.Flags().BoolVar(
		&writeSummary,
		"summary",
		false,
		"Write a run summary file to the output directory",
	)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runScan scans every ledger named on the command line.
func runScan(cmd *cobra.Command, args []string) error {
	startTime := time.Now()
	out := cmd.OutOrStdout()

	// =========================================================================
	// STEP 1: LOAD CONFIGURATION
	// =========================================================================

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyScanFlags(cmd, cfg); err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg)
	logger.Debug("Loaded configuration", "threshold", cfg.Threshold, "format", cfg.ReportFormat)

	// =========================================================================
	// STEP 2: DISCOVER LEDGER FILES
	// =========================================================================

	registry := loader.DefaultRegistry(cfg)

	files, err := utils.DiscoverLedgerFiles(args, registry.Supports, recursive)
	if err != nil {
		return fmt.Errorf("failed to discover ledger files: %w", err)
	}

	if len(files) == 0 {
		logger.Warn("No ledger files found", "supported", strings.Join(registry.Extensions(), ", "))
		return nil
	}

	// =========================================================================
	// STEP 3: SCAN FILES
	// =========================================================================

	runID := report.NewRunID()
	logger.Debug("Scanning", "files", len(files), "run", runID)

	results := make([]audit.Result, 0, len(files))
	failed := 0

	for i, file := range files {
		if len(files) > 1 {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "== %s ==\n", file)
		}

		auditor := audit.New(file, cfg, registry, runID)
		auditor.SetLogger(logger)
		result := auditor.Run()
		results = append(results, result)

		if result.Findings != nil {
			fmt.Fprintln(out, report.Render(result.Findings))
		}

		if result.Error != nil {
			failed++
			fmt.Fprintln(out, result.Error)
			logger.Debug("Scan failed", "file", file, "err", result.Error)
		}
	}

	// =========================================================================
	// STEP 4: WRITE SUMMARY
	// =========================================================================

	if writeSummary {
		summary := audit.Summarize(runID, startTime, time.Now(), results)
		path, err := utils.WriteSummaryLog(summary, cfg.OutputDir)
		if err != nil {
			return fmt.Errorf("failed to write run summary: %w", err)
		}
		logger.Info("Wrote run summary", "file", path)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) could not be scanned", failed, len(files))
	}

	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// applyScanFlags copies explicitly set flags over the loaded configuration
// and validates the result.
func applyScanFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	if flags.Changed("threshold") {
		cfg.Threshold = threshold
	}
	if flags.Changed("sheet") {
		cfg.Sheet = sheet
	}
	if flags.Changed("format") {
		cfg.ReportFormat = strings.ToLower(strings.TrimSpace(reportFormat))
	}
	if flags.Changed("output-dir") {
		cfg.OutputDir = outputDir
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}
