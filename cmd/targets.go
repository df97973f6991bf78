package cmd

import (
	"github.com/pagewatch/a11ymon/core"
	"github.com/pagewatch/a11ymon/internal/contract"
	"github.com/spf13/cobra"
)

// targetsCmd previews the audit batch without running it.
var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List the pages an audit would cover.",
	Long: `Resolve the market catalog, filters, and explicit URLs into the final
audit batch and print it without contacting any provider.

Use this to verify market and page filters before paying for a full run.

Examples:
  # Show every page in every configured market
  a11ymon targets

  # Preview a filtered batch
  a11ymon targets --market France --pages home,product

  # Check which URL an explicit target resolves to
  a11ymon targets --url https://staging.example.com/landing`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTargets(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot list targets", err)
		}
	},
}
