package resultstore

import (
	"errors"
	"fmt"

	"github.com/pagewatch/a11ymon/internal/parquet"
)

// ExecuteResultsExport performs the actual export of audit data to Parquet files.
func ExecuteResultsExport(outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	// Get the result store
	store := Manager.GetResultStore()
	if store == nil {
		return errors.New("result tracking is disabled; nothing to export")
	}

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}

	if status.TotalRuns == 0 {
		return errors.New("no audit data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total audit runs: %d\n", status.TotalRuns)
	fmt.Printf("Total page records: %d\n", status.TotalResults)

	// Retrieve all audit runs
	auditRuns, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve audit runs: %w", err)
	}

	// Retrieve all per-page results
	auditRecords, err := store.GetAllResults()
	if err != nil {
		return fmt.Errorf("failed to retrieve audit results: %w", err)
	}

	// Convert to Parquet format
	parquetRuns := parquet.ConvertAuditRunRecords(auditRuns)
	parquetRecords := parquet.ConvertAuditRecords(auditRecords)

	// Write audit runs to Parquet
	runsFile := outputFile + ".audit_runs.parquet"
	if err := parquet.WriteAuditRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write audit runs: %w", err)
	}
	fmt.Printf("Exported %d audit runs to: %s\n", len(parquetRuns), runsFile)

	// Write per-page records to Parquet
	recordsFile := outputFile + ".audit_results.parquet"
	if err := parquet.WriteAuditRecordsParquet(parquetRecords, recordsFile); err != nil {
		return fmt.Errorf("failed to write audit results: %w", err)
	}
	fmt.Printf("Exported %d page records to: %s\n", len(parquetRecords), recordsFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Apache Arrow")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
