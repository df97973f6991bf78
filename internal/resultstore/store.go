// Package resultstore persists audit runs and per-target results across
// SQLite, MySQL, and PostgreSQL backends.
package resultstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"  // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib"  // PostgreSQL driver
	_ "modernc.org/sqlite"              // SQLite driver

	"github.com/pagewatch/a11ymon/internal/contract"
	"github.com/pagewatch/a11ymon/schema"
)

// Table names for audit tracking.
const (
	auditRunsTable    = "a11ymon_audit_runs"
	auditResultsTable = "a11ymon_audit_results"
)

// ResultStoreImpl implements the ResultStore interface.
type ResultStoreImpl struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
}

var _ contract.ResultStore = &ResultStoreImpl{} // Compile-time check

// NewResultStore creates a new ResultStore with the specified backend.
func NewResultStore(backend schema.DatabaseBackend, connStr string) (contract.ResultStore, error) {
	var db *sql.DB
	var err error
	var driverName string

	switch backend {
	case schema.SQLiteBackend:
		driverName = "sqlite"
		dbPath := connStr
		if dbPath == "" {
			dbPath = GetResultsDBFilePath()
		}
		db, err = sql.Open(driverName, dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		driverName = "mysql"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		driverName = "pgx"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	case schema.NoneBackend:
		// Return a no-op store for disabled tracking
		return &ResultStoreImpl{
			db:         nil,
			backend:    backend,
			driverName: "",
		}, nil

	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}

	// Ping to verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w. Check that the server is running and connection parameters are valid", backend, err)
	}

	// Create the table schemas
	if err := createAuditTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create audit tables: %w", err)
	}

	return &ResultStoreImpl{
		db:         db,
		backend:    backend,
		driverName: driverName,
	}, nil
}

// createAuditTables creates the audit tracking tables.
func createAuditTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{auditRunsTable, getCreateAuditRunsQuery(backend)},
		{auditResultsTable, getCreateAuditResultsQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateAuditRunsQuery returns the CREATE TABLE query for a11ymon_audit_runs.
func getCreateAuditRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(auditRunsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				total_targets INT,
				config_params TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				total_targets INT,
				config_params TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				start_time TEXT NOT NULL,
				end_time TEXT,
				total_targets INTEGER,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreateAuditResultsQuery returns the CREATE TABLE query for a11ymon_audit_results.
func getCreateAuditResultsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(auditResultsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				market VARCHAR(100) NOT NULL,
				page_label VARCHAR(100) NOT NULL,
				url VARCHAR(1024) NOT NULL,
				recorded_at DATETIME(6) NOT NULL,
				composite_score DOUBLE NOT NULL,
				degraded BOOLEAN NOT NULL,
				fully_degraded BOOLEAN NOT NULL,
				page_quality_score DOUBLE,
				structural_score DOUBLE,
				rule_engine_score DOUBLE,
				critical_count INT NOT NULL,
				serious_count INT NOT NULL,
				moderate_count INT NOT NULL,
				minor_count INT NOT NULL,
				total_findings INT NOT NULL,
				structural_errors INT NOT NULL,
				contrast_issues INT NOT NULL,
				recommendations TEXT,
				deploy_version VARCHAR(100),
				PRIMARY KEY (run_id, market, page_label)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				market TEXT NOT NULL,
				page_label TEXT NOT NULL,
				url TEXT NOT NULL,
				recorded_at TIMESTAMPTZ NOT NULL,
				composite_score DOUBLE PRECISION NOT NULL,
				degraded BOOLEAN NOT NULL,
				fully_degraded BOOLEAN NOT NULL,
				page_quality_score DOUBLE PRECISION,
				structural_score DOUBLE PRECISION,
				rule_engine_score DOUBLE PRECISION,
				critical_count INT NOT NULL,
				serious_count INT NOT NULL,
				moderate_count INT NOT NULL,
				minor_count INT NOT NULL,
				total_findings INT NOT NULL,
				structural_errors INT NOT NULL,
				contrast_issues INT NOT NULL,
				recommendations TEXT,
				deploy_version TEXT,
				PRIMARY KEY (run_id, market, page_label)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				market TEXT NOT NULL,
				page_label TEXT NOT NULL,
				url TEXT NOT NULL,
				recorded_at TEXT NOT NULL,
				composite_score REAL NOT NULL,
				degraded INTEGER NOT NULL,
				fully_degraded INTEGER NOT NULL,
				page_quality_score REAL,
				structural_score REAL,
				rule_engine_score REAL,
				critical_count INTEGER NOT NULL,
				serious_count INTEGER NOT NULL,
				moderate_count INTEGER NOT NULL,
				minor_count INTEGER NOT NULL,
				total_findings INTEGER NOT NULL,
				structural_errors INTEGER NOT NULL,
				contrast_issues INTEGER NOT NULL,
				recommendations TEXT,
				deploy_version TEXT,
				PRIMARY KEY (run_id, market, page_label)
			);
		`, quotedTableName)
	}
}

// BeginRun creates a new audit run and returns its unique ID.
func (rs *ResultStoreImpl) BeginRun(startTime time.Time, configParams map[string]any) (int64, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(auditRunsTable, rs.backend)

	var runID int64
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES ($1, $2) RETURNING run_id`, quotedTableName)
		err = rs.db.QueryRow(query, startTime, string(configJSON)).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES (?, ?)`, quotedTableName)
		var result sql.Result
		result, err = rs.db.Exec(query, formatTime(startTime, rs.backend), string(configJSON))
		if err != nil {
			return 0, err
		}
		runID, err = result.LastInsertId()
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert audit run: %w", err)
	}
	return runID, nil
}

// EndRun updates the audit run with completion data.
func (rs *ResultStoreImpl) EndRun(runID int64, endTime time.Time, totalTargets int) error {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(auditRunsTable, rs.backend)

	var query string
	var args []any
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`UPDATE %s SET end_time = $1, total_targets = $2 WHERE run_id = $3`, quotedTableName)
		args = []any{endTime, totalTargets, runID}
	default: // SQLite and MySQL
		query = fmt.Sprintf(`UPDATE %s SET end_time = ?, total_targets = ? WHERE run_id = ?`, quotedTableName)
		args = []any{formatTime(endTime, rs.backend), totalTargets, runID}
	}

	if _, err := rs.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to update audit run: %w", err)
	}
	return nil
}

// RecordResult stores one target's audit result under a run.
func (rs *ResultStoreImpl) RecordResult(runID int64, result schema.AuditResult) error {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(auditResultsTable, rs.backend)

	columns := `run_id, market, page_label, url, recorded_at, composite_score, degraded, fully_degraded,
		page_quality_score, structural_score, rule_engine_score,
		critical_count, serious_count, moderate_count, minor_count, total_findings,
		structural_errors, contrast_issues, recommendations, deploy_version`

	var placeholders string
	if rs.backend == schema.PostgreSQLBackend {
		parts := make([]string, 20)
		for i := range parts {
			parts[i] = fmt.Sprintf("$%d", i+1)
		}
		placeholders = strings.Join(parts, ", ")
	} else {
		placeholders = strings.TrimSuffix(strings.Repeat("?, ", 20), ", ")
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`, quotedTableName, columns, placeholders)

	args := []any{
		runID,
		result.Market,
		result.PageLabel,
		result.URL,
		formatTime(result.Timestamp, rs.backend),
		result.CompositeScore,
		result.Degraded,
		result.FullyDegraded,
		componentScoreArg(&result, schema.SourcePageQuality),
		componentScoreArg(&result, schema.SourceStructuralScan),
		componentScoreArg(&result, schema.SourceRuleEngine),
		result.CriticalCount,
		result.SeriousCount,
		result.ModerateCount,
		result.MinorCount,
		result.TotalFindings,
		result.StructuralErrors,
		result.ContrastIssues,
		strings.Join(result.Recommendations, schema.RecSeparator),
		result.DeployVersion,
	}

	if _, err := rs.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to insert audit result: %w", err)
	}
	return nil
}

// componentScoreArg returns the score for a source, or nil so absent and
// unavailable sources store as NULL rather than a fake zero.
func componentScoreArg(result *schema.AuditResult, source schema.SignalSource) any {
	cs, ok := result.ComponentScoreFor(source)
	if !ok || !cs.Available {
		return nil
	}
	return cs.Score
}

// GetAllRuns retrieves all audit runs from the store.
func (rs *ResultStoreImpl) GetAllRuns() ([]schema.AuditRunRecord, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	quotedTableName := quoteTableName(auditRunsTable, rs.backend)
	query := fmt.Sprintf("SELECT run_id, start_time, end_time, total_targets, config_params FROM %s ORDER BY run_id", quotedTableName)

	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.AuditRunRecord
	for rows.Next() {
		var record schema.AuditRunRecord
		var totalTargets sql.NullInt64
		var configParams sql.NullString

		switch rs.backend {
		case schema.SQLiteBackend:
			var startTimeStr string
			var endTimeStr *string
			if err := rows.Scan(&record.RunID, &startTimeStr, &endTimeStr, &totalTargets, &configParams); err != nil {
				return nil, fmt.Errorf("failed to scan audit run: %w", err)
			}
			if record.StartTime, err = time.Parse(time.RFC3339Nano, startTimeStr); err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			if endTimeStr != nil {
				endTime, err := time.Parse(time.RFC3339Nano, *endTimeStr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
				record.EndTime = &endTime
			}
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&record.RunID, &record.StartTime, &record.EndTime, &totalTargets, &configParams); err != nil {
				return nil, fmt.Errorf("failed to scan audit run: %w", err)
			}
		}

		record.TotalTargets = int(totalTargets.Int64)
		record.ConfigParams = configParams.String
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit runs: %w", err)
	}
	return results, nil
}

// GetAllResults retrieves all per-target results from the store.
func (rs *ResultStoreImpl) GetAllResults() ([]schema.AuditRecord, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	quotedTableName := quoteTableName(auditResultsTable, rs.backend)
	query := fmt.Sprintf(`SELECT run_id, market, page_label, url, recorded_at, composite_score, degraded, fully_degraded,
		page_quality_score, structural_score, rule_engine_score,
		critical_count, serious_count, moderate_count, minor_count, total_findings,
		structural_errors, contrast_issues, recommendations, deploy_version
		FROM %s ORDER BY run_id, market, page_label`, quotedTableName)

	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.AuditRecord
	for rows.Next() {
		var record schema.AuditRecord
		var recommendations, deployVersion sql.NullString

		scanCommon := func(recordedAt any) error {
			return rows.Scan(&record.RunID, &record.Market, &record.PageLabel, &record.URL, recordedAt,
				&record.CompositeScore, &record.Degraded, &record.FullyDegraded,
				&record.PageQualityScore, &record.StructuralScore, &record.RuleEngineScore,
				&record.CriticalCount, &record.SeriousCount, &record.ModerateCount, &record.MinorCount,
				&record.TotalFindings, &record.StructuralErrors, &record.ContrastIssues,
				&recommendations, &deployVersion)
		}

		switch rs.backend {
		case schema.SQLiteBackend:
			var recordedAtStr string
			if err := scanCommon(&recordedAtStr); err != nil {
				return nil, fmt.Errorf("failed to scan audit result: %w", err)
			}
			if record.RecordedAt, err = time.Parse(time.RFC3339Nano, recordedAtStr); err != nil {
				return nil, fmt.Errorf("failed to parse recorded_at: %w", err)
			}
		default: // MySQL and PostgreSQL
			if err := scanCommon(&record.RecordedAt); err != nil {
				return nil, fmt.Errorf("failed to scan audit result: %w", err)
			}
		}

		record.Recommendations = recommendations.String
		record.DeployVersion = deployVersion.String
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit results: %w", err)
	}
	return results, nil
}

// Clear removes all stored runs and results.
func (rs *ResultStoreImpl) Clear() error {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil
	}

	for _, table := range []string{auditResultsTable, auditRunsTable} {
		query := fmt.Sprintf("DELETE FROM %s", quoteTableName(table, rs.backend))
		if _, err := rs.db.Exec(query); err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
	}
	return nil
}

// Close closes the underlying connection.
func (rs *ResultStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}

// quoteTableName quotes a table identifier for the backend.
func quoteTableName(tableName string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return "`" + tableName + "`"
	default: // SQLite and PostgreSQL
		return `"` + tableName + `"`
	}
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.Format(time.RFC3339Nano)
	default:
		return t
	}
}
