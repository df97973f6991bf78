package cmd

import (
	"github.com/pagewatch/a11ymon/core"
	"github.com/pagewatch/a11ymon/internal/contract"
	"github.com/spf13/cobra"
)

// scoringCmd documents the active scoring configuration.
var scoringCmd = &cobra.Command{
	Use:   "scoring",
	Short: "Show the active weights, penalties, and severity bands.",
	Long: `Print the scoring rules the audit will apply.

Displays:
- Source weights used to combine page quality, structural, and rule signals
- Penalty weights applied to structural errors, contrast issues, and violations
- Severity bands that map composite scores to labels

Custom weights and penalties from the config file are reflected here, so this
is the quickest way to confirm a config override took effect.

Examples:
  # Show the current scoring rules
  a11ymon scoring

  # Export the rules as JSON for documentation
  a11ymon scoring --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteScoring(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot show scoring rules", err)
		}
	},
}
