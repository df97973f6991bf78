// Package cmd defines the command-line interface for a11ymon.
package cmd

import (
	"github.com/pagewatch/a11ymon/internal/contract"
	"github.com/pagewatch/a11ymon/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(targetsCmd)
	rootCmd.AddCommand(scoringCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(resultsCmd)

	// Add the results subcommands to the parent results command
	resultsCmd.AddCommand(resultsClearCmd)
	resultsCmd.AddCommand(resultsStatusCmd)
	resultsCmd.AddCommand(resultsExportCmd)
	resultsCmd.AddCommand(resultsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("market", "m", "", "Comma-separated list of market names to audit")
	rootCmd.PersistentFlags().StringP("pages", "p", "", "Comma-separated list of page keys: home, category, product")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().Float64("min-score", 0, "Only display results scoring below this composite score (0 disables the filter)")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent audit workers")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "Result tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("page-quality-key", "", "API key for the page quality provider")
	rootCmd.PersistentFlags().String("structural-key", "", "API key for the structural scan provider")
	rootCmd.PersistentFlags().String("advisor-key", "", "API key for the remediation advisor")
	rootCmd.PersistentFlags().String("advisor-model", "", "Model name for the remediation advisor")
	rootCmd.PersistentFlags().String("login-url", "", "Override the shared SSO login URL")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of auditCmd to Viper
	auditCmd.Flags().StringSliceP("url", "u", nil, "Audit explicit URLs instead of the market catalog (repeatable)")
	auditCmd.Flags().Bool("include-login", false, "Prepend the shared SSO login page to the batch")
	auditCmd.Flags().Bool("skip-rule-engine", false, "Skip the browser-based rule engine signal")
	auditCmd.Flags().Bool("advise", false, "Generate remediation advice for the worst findings")
	auditCmd.Flags().String("deploy-version", "", "Deployment version to record alongside results")
	auditCmd.Flags().String("screenshot-dir", "", "Directory to save a screenshot per audited page")
	auditCmd.Flags().String("settle-wait", "", "Wait after navigation before injecting the rule engine (e.g. 3s)")
	auditCmd.Flags().Int("attempts", contract.DefaultMaxAttempts, "Total rule engine attempts per target")
	if err := viper.BindPFlags(auditCmd.Flags()); err != nil {
		contract.LogFatal("Error binding audit flags", err)
	}

	// Bind all flags of reportCmd to Viper
	reportCmd.Flags().StringP("input", "i", "", "Path to a CSV file produced by a previous audit")
	if err := viper.BindPFlags(reportCmd.Flags()); err != nil {
		contract.LogFatal("Error binding report flags", err)
	}

	// Bind all flags of resultsMigrateCmd to Viper
	resultsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(resultsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding results migrate flags", err)
	}
}
