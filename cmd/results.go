package cmd

import (
	"fmt"

	"github.com/pagewatch/a11ymon/internal/contract"
	"github.com/pagewatch/a11ymon/internal/resultstore"
	"github.com/pagewatch/a11ymon/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// resultsSetup loads minimal configuration needed for results operations.
// This is used by commands that need store access without full shared setup.
func resultsSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get store-related config values
	backendStr := viper.GetString("store-backend")
	connStr := viper.GetString("store-db-connect")

	// Handle empty backend as NoneBackend
	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Get output-related config values (used by export command)
	outputFile := viper.GetString("output-file")

	// Initialize the store with the loaded config
	if err := resultstore.InitStore(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize result tracking: %w", err)
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	cfg.OutputFile = outputFile

	return nil
}

// resultsSetupWrapper wraps resultsSetup to provide PreRunE for results commands.
func resultsSetupWrapper(_ *cobra.Command, _ []string) error {
	return resultsSetup()
}

// resultsMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize the store or create
// tables, allowing migrations to run on a fresh database.
func resultsMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get store-related config values
	backendStr := viper.GetString("store-backend")
	connStr := viper.GetString("store-db-connect")

	// Handle empty backend as NoneBackend
	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = resultstore.GetResultsDBFilePath()
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr

	return nil
}

// resultsMigrateSetupWrapper wraps resultsMigrateSetup to provide PreRunE for migrate command.
func resultsMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return resultsMigrateSetup()
}

// resultsCmd focused on audit result data management.
//
// Note: Results subcommands use minimal initialization (resultsSetup) instead
// of the full sharedSetup used by audit commands. This avoids catalog
// validation and provider config processing for simple store operations.
var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Manage historical audit result tracking and exports",
	Long: `Manage historical audit data used for trend tracking and reporting.

When enabled, a11ymon tracks every audit run, storing:
- Run metadata (timestamp, configuration, target count)
- Composite and per-source scores for each audited page
- Finding counts, recommendations, and deployment versions

This enables longitudinal tracking of accessibility across deployments.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show result tracking statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all tracking data
  migrate - Run database schema migrations

Examples:
  # Check tracking status
  a11ymon results status

  # Export for analysis in pandas/DuckDB
  a11ymon results export --output-file audit-data.parquet`,
}

// resultsClearCmd clears the stored audit data.
var resultsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all historical audit tracking data",
	Long: `Delete all stored audit runs and page score history.

This removes:
- All audit run metadata
- Historical composite and per-source scores
- Finding counts and recommendations per page

WARNING: This action cannot be undone. Consider exporting data first.

Use this when:
- Resetting trend tracking after a site relaunch
- Database storage is full
- Starting fresh audit history

Examples:
  # Export before clearing
  a11ymon results export --output-file backup.parquet
  a11ymon results clear

  # Clear and start fresh
  a11ymon results clear`,
	PreRunE: resultsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := resultstore.ClearStore(cfg.StoreBackend, resultstore.GetResultsDBFilePath(), cfg.StoreDBConnect); err != nil {
			contract.LogFatal("Failed to clear audit data", err)
		}
		fmt.Println("Audit data cleared successfully.")
	},
}

// resultsStatusCmd shows result store status.
var resultsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display result tracking statistics and connection details",
	Long: `Show detailed information about historical audit tracking.

Displays:
- Backend type and connection status
- Total number of audit runs stored
- Last and oldest audit run timestamps
- Total page results recorded across all runs
- Database table sizes

Use this to:
- Verify result tracking is enabled and working
- Monitor data accumulation over time
- Check database connection health

Examples:
  # Check result tracking status
  a11ymon results status`,
	PreRunE: resultsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := resultstore.Manager.GetResultStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get result store status", err)
		}
		resultstore.PrintStoreStatus(status)
	},
}

// resultsExportCmd exports audit data to Parquet files.
var resultsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export historical data to Parquet for BI tools and analytics",
	Long: `Export all stored audit data to Parquet format for use with analytics tools.

Exports two datasets:
- Audit runs - metadata about each audit execution
- Audit results - per-page scores, finding counts, and recommendations

Parquet format enables:
- Fast querying with DuckDB, Apache Spark, pandas
- Efficient storage with columnar compression
- Direct import into BI tools (Tableau, Metabase, etc.)

Requires: --output-file parameter

Use cases:
- Accessibility trends across deployments
- Custom dashboards and visualizations
- Compliance reporting per market

Examples:
  # Export all data
  a11ymon results export --output-file audit-data.parquet

  # Use with DuckDB for analysis
  a11ymon results export --output-file data.parquet
  duckdb -c "SELECT * FROM read_parquet('data.parquet.audit_results.parquet') LIMIT 10"`,
	PreRunE: resultsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := resultstore.ExecuteResultsExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export audit data", err)
		}
	},
}

// resultsMigrateCmd runs database migrations for the result store.
var resultsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the result tracking store.

Migrations allow:
- Upgrading to new schema versions when a11ymon is updated
- Safely modifying database structure without data loss
- Rolling back schema changes if needed

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  a11ymon results migrate

  # Migrate to specific version
  a11ymon results migrate --target-version 1

  # Rollback to previous version
  a11ymon results migrate --target-version 0`,
	PreRunE: resultsMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := resultstore.MigrateStore(cfg.StoreBackend, cfg.StoreDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
