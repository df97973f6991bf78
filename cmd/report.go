package cmd

import (
	"github.com/pagewatch/a11ymon/core"
	"github.com/pagewatch/a11ymon/internal/contract"
	"github.com/spf13/cobra"
)

// reportCmd re-renders a previously exported audit without re-running it.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Re-render a previously exported audit from CSV.",
	Long: `Load a CSV file written by a previous audit and render it again.

This lets you re-apply display options (limit, min-score, precision, output
format) to stored results without re-running browsers or providers.

Examples:
  # Render a stored audit as a table
  a11ymon report --input audit.csv

  # Convert a stored audit to JSON
  a11ymon report --input audit.csv --output json

  # Show only pages scoring below 80 from a stored audit
  a11ymon report --input audit.csv --min-score 80 --limit 10`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteReport(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot render report", err)
		}
	},
}
