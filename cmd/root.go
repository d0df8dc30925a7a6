// =============================================================================
// Ledger Scanner - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (ledgerscan)
//   ├── scanCmd (ledgerscan scan)
//   ├── checksCmd (ledgerscan checks)
//   └── versionCmd (ledgerscan version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading the configuration file
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/ledger-scanner/internal/config"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ledgerscan",
	Short: "Ledger Scanner - Flag suspicious entries in bookkeeping ledgers",
	Long: `Ledger Scanner reads general ledger exports (XLSX, XLSM or CSV) and runs
four audit checks on every posting:

  - Missing description        : the description is empty or absent
  - Large amounts              : the absolute amount is at or above a threshold
  - Weekend entries            : the posting date is a Saturday or Sunday
  - Duplicate voucher numbers  : a voucher number is used more than once

Norwegian column headers (Dato, Beløp, Beskrivelse, Bilagsnummer) are
recognised alongside the English ones.

Example Usage:
  ledgerscan scan hovedbok.xlsx              # Print the finding counts
  ledgerscan scan --threshold 50000 exports/ # Scan every ledger in a directory
  ledgerscan scan --format xlsx hovedbok.xlsx
  ledgerscan checks                          # List the checks`,

	SilenceErrors: true,
	SilenceUsage:  true,

	// If no subcommand is provided, print the help message.
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init sets up the global flags.
func init() {
	// --config flag: Allows the user to specify a custom configuration file.
	// A missing default file is not an error; a missing named file is.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		config.DefaultPath,
		"Path to the configuration file",
	)

	// --verbose flag: Enables debug logging.
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// loadConfig loads the configuration named by --config.
func loadConfig() (*config.Config, error) {
	explicit := rootCmd.PersistentFlags().Changed("config")

	cfg, err := config.Load(cfgFile, explicit)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// newLogger creates the charm logger used by the commands. Logs go to w,
// which is stderr outside of tests, so they never mix with the findings.
func newLogger(w io.Writer, cfg *config.Config) *log.Logger {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	if verbose {
		level = log.DebugLevel
	}

	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          "ledgerscan",
		ReportTimestamp: true,
	})
}
