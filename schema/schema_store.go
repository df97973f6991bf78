package schema

import "time"

// StoreStatus reports health and size information for the result store.
type StoreStatus struct {
	Backend      string
	Connected    bool
	TotalRuns    int64
	LastRunID    int64
	LastRunTime  time.Time
	OldestRun    time.Time
	TotalResults int64
	TableSizes   map[string]int64
}

// AuditRunRecord is one persisted audit run, as read back from the store.
type AuditRunRecord struct {
	RunID        int64
	StartTime    time.Time
	EndTime      *time.Time
	TotalTargets int
	ConfigParams string // JSON-encoded run parameters
}

// AuditRecord is one persisted per-target result, flattened for storage.
// Findings detail is summarized; scores and severity counts are exact.
type AuditRecord struct {
	RunID            int64
	Market           string
	PageLabel        string
	URL              string
	CompositeScore   float64
	Degraded         bool
	FullyDegraded    bool
	PageQualityScore *float64
	StructuralScore  *float64
	RuleEngineScore  *float64
	CriticalCount    int
	SeriousCount     int
	ModerateCount    int
	MinorCount       int
	TotalFindings    int
	StructuralErrors int
	ContrastIssues   int
	Recommendations  string // delimited with RecSeparator
	DeployVersion    string
	RecordedAt       time.Time
}
