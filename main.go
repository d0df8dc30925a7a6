// =============================================================================
// Ledger Scanner - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Ledger Scanner CLI application.
// It delegates command execution to the cmd package.
//
// USAGE:
//   ledgerscan scan FILE|DIR ... - Scan ledger files and print finding counts
//   ledgerscan checks            - List the audit checks
//   ledgerscan version           - Display the application version
//
// ARCHITECTURE:
//   - cmd/      : CLI command definitions (Cobra)
//   - internal/ : Ledger model, checks, readers, reports
//   - pkg/      : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/ledger-scanner/cmd"
)

func main() {
	cmd.Execute()
}
