// Package parquet provides data structures and functions for exporting audit
// data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/pagewatch/a11ymon/schema"
)

// AuditRun represents a single audit run with metadata.
// This struct maps to the a11ymon_audit_runs database table.
type AuditRun struct {
	// RunID is the unique identifier for this audit run
	RunID int64 `parquet:"run_id,snappy"`

	// StartTime is when the audit began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the audit completed (nullable, stored as TIMESTAMP with nanosecond precision)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// TotalTargets is the number of pages audited in this run
	TotalTargets int32 `parquet:"total_targets,snappy"`

	// ConfigParams contains the JSON-encoded run parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// AuditRecord represents the scores and counts for a single page in an audit.
// This struct maps to the a11ymon_audit_results database table.
type AuditRecord struct {
	// RunID references the parent audit run
	RunID int64 `parquet:"run_id,snappy"`

	// Market is the storefront market label
	Market string `parquet:"market,snappy"`

	// PageLabel is the page type label within the market
	PageLabel string `parquet:"page_label,snappy"`

	// URL is the fully qualified audited page URL
	URL string `parquet:"url,snappy"`

	// RecordedAt is when this page was audited (stored as TIMESTAMP with nanosecond precision)
	RecordedAt time.Time `parquet:"recorded_at,snappy"`

	// CompositeScore is the weighted 0-100 accessibility score
	CompositeScore float64 `parquet:"composite_score,snappy"`

	// Degraded is true when at least one signal source was unavailable
	Degraded bool `parquet:"degraded,snappy"`

	// FullyDegraded is true when every signal source was unavailable
	FullyDegraded bool `parquet:"fully_degraded,snappy"`

	// PageQualityScore is the normalized page-quality component score (nullable)
	PageQualityScore *float64 `parquet:"page_quality_score,optional,snappy"`

	// StructuralScore is the normalized structural-scan component score (nullable)
	StructuralScore *float64 `parquet:"structural_score,optional,snappy"`

	// RuleEngineScore is the normalized rule-engine component score (nullable)
	RuleEngineScore *float64 `parquet:"rule_engine_score,optional,snappy"`

	// CriticalCount is the number of critical rule-engine violations
	CriticalCount int32 `parquet:"critical_count,snappy"`

	// SeriousCount is the number of serious rule-engine violations
	SeriousCount int32 `parquet:"serious_count,snappy"`

	// ModerateCount is the number of moderate rule-engine violations
	ModerateCount int32 `parquet:"moderate_count,snappy"`

	// MinorCount is the number of minor rule-engine violations
	MinorCount int32 `parquet:"minor_count,snappy"`

	// TotalFindings is the total number of rule-engine violations
	TotalFindings int32 `parquet:"total_findings,snappy"`

	// StructuralErrors is the structural-scan full blocker count
	StructuralErrors int32 `parquet:"structural_errors,snappy"`

	// ContrastIssues is the structural-scan contrast failure count
	ContrastIssues int32 `parquet:"contrast_issues,snappy"`

	// Recommendations is the delimited recommendation list (nullable)
	Recommendations *string `parquet:"recommendations,optional,snappy"`

	// DeployVersion tags the site deployment under audit (nullable)
	DeployVersion *string `parquet:"deploy_version,optional,snappy"`
}

// WriteAuditRunsParquet writes a slice of AuditRun structs to a Parquet file.
func WriteAuditRunsParquet(data []AuditRun, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the AuditRun struct tags
	writer := parquet.NewGenericWriter[AuditRun](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteAuditRecordsParquet writes a slice of AuditRecord structs to a Parquet file.
func WriteAuditRecordsParquet(data []AuditRecord, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the AuditRecord struct tags
	writer := parquet.NewGenericWriter[AuditRecord](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// ConvertAuditRunRecords converts schema.AuditRunRecord to AuditRun for Parquet export.
func ConvertAuditRunRecords(records []schema.AuditRunRecord) []AuditRun {
	result := make([]AuditRun, len(records))
	for i, record := range records {
		result[i] = AuditRun{
			RunID:        record.RunID,
			StartTime:    record.StartTime,
			EndTime:      record.EndTime,
			TotalTargets: int32(record.TotalTargets),
			ConfigParams: optionalString(record.ConfigParams),
		}
	}
	return result
}

// ConvertAuditRecords converts schema.AuditRecord to AuditRecord for Parquet export.
func ConvertAuditRecords(records []schema.AuditRecord) []AuditRecord {
	result := make([]AuditRecord, len(records))
	for i, record := range records {
		result[i] = AuditRecord{
			RunID:            record.RunID,
			Market:           record.Market,
			PageLabel:        record.PageLabel,
			URL:              record.URL,
			RecordedAt:       record.RecordedAt,
			CompositeScore:   record.CompositeScore,
			Degraded:         record.Degraded,
			FullyDegraded:    record.FullyDegraded,
			PageQualityScore: record.PageQualityScore,
			StructuralScore:  record.StructuralScore,
			RuleEngineScore:  record.RuleEngineScore,
			CriticalCount:    int32(record.CriticalCount),
			SeriousCount:     int32(record.SeriousCount),
			ModerateCount:    int32(record.ModerateCount),
			MinorCount:       int32(record.MinorCount),
			TotalFindings:    int32(record.TotalFindings),
			StructuralErrors: int32(record.StructuralErrors),
			ContrastIssues:   int32(record.ContrastIssues),
			Recommendations:  optionalString(record.Recommendations),
			DeployVersion:    optionalString(record.DeployVersion),
		}
	}
	return result
}

// optionalString maps an empty string to a Parquet null.
func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
