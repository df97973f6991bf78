package resultstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagewatch/a11ymon/schema"
)

func sampleResult(market, page string, score float64) schema.AuditResult {
	pq := 87.0
	rule := 85.0
	return schema.AuditResult{
		Market:         market,
		PageLabel:      page,
		URL:            "https://shop.example.fr/",
		CompositeScore: score,
		ComponentScores: []schema.ComponentScore{
			{Source: schema.SourcePageQuality, Score: pq, Weight: 0.4, Available: true},
			{Source: schema.SourceStructuralScan, Available: false},
			{Source: schema.SourceRuleEngine, Score: rule, Weight: 0.6, Available: true},
		},
		Degraded:         true,
		CriticalCount:    1,
		SeriousCount:     2,
		ModerateCount:    0,
		MinorCount:       3,
		TotalFindings:    6,
		Recommendations:  []string{"CRITICAL: Fix 1 critical violations", "Plan accessibility improvements"},
		DeployVersion:    "2026.08.1",
		Timestamp:        time.Now().UTC(),
	}
}

func TestResultStore_NoneBackend(t *testing.T) {
	store, err := NewResultStore(schema.NoneBackend, "")
	require.NoError(t, err)
	require.NotNil(t, store)

	// BeginRun should return 0 for NoneBackend
	runID, err := store.BeginRun(time.Now(), map[string]any{"markets": "France"})
	assert.NoError(t, err)
	assert.Equal(t, int64(0), runID)

	// Other operations should not error
	err = store.RecordResult(1, sampleResult("France", "Home", 86.2))
	assert.NoError(t, err)

	err = store.EndRun(1, time.Now(), 1)
	assert.NoError(t, err)

	status, err := store.GetStatus()
	assert.NoError(t, err)
	assert.False(t, status.Connected)

	err = store.Close()
	assert.NoError(t, err)
}

func TestResultStore_SQLite(t *testing.T) {
	// Use in-memory SQLite for testing
	store, err := NewResultStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	require.NotNil(t, store)
	defer func() { _ = store.Close() }()

	startTime := time.Now()
	runID, err := store.BeginRun(startTime, map[string]any{
		"markets": "France,UK",
		"pages":   "home,product",
		"workers": 2,
	})
	require.NoError(t, err)
	assert.Greater(t, runID, int64(0))

	err = store.RecordResult(runID, sampleResult("France", "Home", 86.2))
	assert.NoError(t, err)

	err = store.RecordResult(runID, sampleResult("UK", "Product", 72.5))
	assert.NoError(t, err)

	err = store.EndRun(runID, time.Now(), 2)
	assert.NoError(t, err)
}

func TestResultStore_RoundTrip(t *testing.T) {
	store, err := NewResultStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	runID, err := store.BeginRun(time.Now(), map[string]any{"markets": "France"})
	require.NoError(t, err)

	original := sampleResult("France", "Home", 86.2)
	require.NoError(t, store.RecordResult(runID, original))
	require.NoError(t, store.EndRun(runID, time.Now(), 1))

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].RunID)
	assert.NotNil(t, runs[0].EndTime)
	assert.Equal(t, 1, runs[0].TotalTargets)
	assert.Contains(t, runs[0].ConfigParams, "France")

	records, err := store.GetAllResults()
	require.NoError(t, err)
	require.Len(t, records, 1)

	record := records[0]
	assert.Equal(t, "France", record.Market)
	assert.Equal(t, "Home", record.PageLabel)
	assert.Equal(t, original.URL, record.URL)
	assert.InDelta(t, 86.2, record.CompositeScore, 0.0001)
	assert.True(t, record.Degraded)
	assert.False(t, record.FullyDegraded)

	// Available component scores survive; the unavailable one stores as NULL
	require.NotNil(t, record.PageQualityScore)
	assert.InDelta(t, 87.0, *record.PageQualityScore, 0.0001)
	assert.Nil(t, record.StructuralScore)
	require.NotNil(t, record.RuleEngineScore)
	assert.InDelta(t, 85.0, *record.RuleEngineScore, 0.0001)

	assert.Equal(t, 1, record.CriticalCount)
	assert.Equal(t, 2, record.SeriousCount)
	assert.Equal(t, 6, record.TotalFindings)
	assert.Equal(t, "CRITICAL: Fix 1 critical violations | Plan accessibility improvements", record.Recommendations)
	assert.Equal(t, "2026.08.1", record.DeployVersion)
}

func TestResultStore_MultipleRuns(t *testing.T) {
	store, err := NewResultStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	firstID, err := store.BeginRun(time.Now(), map[string]any{"markets": "France"})
	require.NoError(t, err)

	secondID, err := store.BeginRun(time.Now(), map[string]any{"markets": "UK"})
	require.NoError(t, err)

	assert.NotEqual(t, firstID, secondID)
	assert.Greater(t, secondID, firstID)

	require.NoError(t, store.RecordResult(firstID, sampleResult("France", "Home", 90.1)))
	require.NoError(t, store.RecordResult(secondID, sampleResult("UK", "Home", 78.4)))

	records, err := store.GetAllResults()
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestResultStore_GetStatus(t *testing.T) {
	store, err := NewResultStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	// Empty store
	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, string(schema.SQLiteBackend), status.Backend)
	assert.Equal(t, int64(0), status.TotalRuns)

	runID, err := store.BeginRun(time.Now(), nil)
	require.NoError(t, err)
	require.NoError(t, store.RecordResult(runID, sampleResult("France", "Home", 86.2)))

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, int64(1), status.TotalRuns)
	assert.Equal(t, runID, status.LastRunID)
	assert.Equal(t, int64(1), status.TotalResults)
	assert.Equal(t, int64(1), status.TableSizes[auditRunsTable])
	assert.Equal(t, int64(1), status.TableSizes[auditResultsTable])
	assert.False(t, status.LastRunTime.IsZero())
	assert.False(t, status.OldestRun.IsZero())
}

func TestResultStore_Clear(t *testing.T) {
	store, err := NewResultStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	runID, err := store.BeginRun(time.Now(), nil)
	require.NoError(t, err)
	require.NoError(t, store.RecordResult(runID, sampleResult("France", "Home", 86.2)))

	require.NoError(t, store.Clear())

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, int64(0), status.TotalRuns)
	assert.Equal(t, int64(0), status.TotalResults)
}

func TestResultStore_UnsupportedBackend(t *testing.T) {
	_, err := NewResultStore(schema.DatabaseBackend("oracle"), "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported backend")
}
