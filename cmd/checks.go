// =============================================================================
// Ledger Scanner - Checks Command
// =============================================================================
//
// This file defines the 'checks' command, which lists the audit checks run
// by 'scan' in report order.
//
// COMMAND USAGE:
//   ledgerscan checks
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/ledger-scanner/internal/scanner"
)

// checksCmd lists the checks run by 'scan', in report order.
var checksCmd = &cobra.Command{
	Use:   "checks",
	Short: "List the audit checks",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		for _, c := range scanner.Checks() {
			fmt.Fprintf(out, "%-20s %s\n", c.Name, c.Label)
			fmt.Fprintf(out, "%-20s %s\n", "", c.Description)
		}
	},
}

func init() {
	rootCmd.AddCommand(checksCmd)
}
