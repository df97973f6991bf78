package cmd

import (
	"github.com/pagewatch/a11ymon/core"
	"github.com/pagewatch/a11ymon/internal/contract"
	"github.com/spf13/cobra"
)

// auditCmd runs a full accessibility audit against the market catalog.
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Run an accessibility audit across storefront pages.",
	Long: `Audit storefront pages and rank them by composite accessibility score.

Each page is measured by up to three signal sources:
- Page quality: provider-reported accessibility score for the rendered page
- Structural scan: error and contrast issue counts from a structural analyzer
- Rule engine: axe-style violations gathered in a real browser session

Signals are normalized to 0-100, combined with configurable weights, and
classified into severity bands. When a source fails mid-run, the remaining
sources are reweighted and the result is flagged as degraded instead of
being dropped.

Examples:
  # Audit every page in every configured market
  a11ymon audit

  # Audit only the French and UK home pages
  a11ymon audit --market France,UK --pages home

  # Audit an arbitrary URL outside the catalog
  a11ymon audit --url https://staging.example.com/landing

  # Include the shared SSO login page and capture screenshots
  a11ymon audit --include-login --screenshot-dir ./shots

  # Skip the browser engine for a fast provider-only pass
  a11ymon audit --skip-rule-engine --output csv --output-file audit.csv

  # Attach remediation advice to the worst findings
  a11ymon audit --advise --advisor-key $GEMINI_KEY`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAudit(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot run audit", err)
		}
	},
}
