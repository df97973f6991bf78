package outwriter

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagewatch/a11ymon/schema"
)

func csvSampleResult() schema.AuditResult {
	return schema.AuditResult{
		Market:         "France",
		PageLabel:      "Home",
		URL:            "https://shop.example.fr/",
		CompositeScore: 88.7,
		Degraded:       true,
		ComponentScores: []schema.ComponentScore{
			{Source: schema.SourcePageQuality, Score: 87, Weight: 0.4 / 0.7, Available: true},
			{Source: schema.SourceStructuralScan, Score: 91, Weight: 0.3 / 0.7, Available: true},
			{Source: schema.SourceRuleEngine, Available: false},
		},
		CriticalCount:    1,
		SeriousCount:     2,
		ModerateCount:    3,
		MinorCount:       4,
		TotalFindings:    10,
		StructuralErrors: 5,
		ContrastIssues:   6,
		Recommendations:  []string{"CRITICAL: Fix 1 critical violations", "PLAN: Schedule fixes in next sprint"},
		DeployVersion:    "2026.08.1",
		Timestamp:        time.Date(2026, 8, 30, 10, 30, 0, 0, time.UTC),
	}
}

func TestAuditCSVRoundTrip(t *testing.T) {
	original := csvSampleResult()

	var buf bytes.Buffer
	require.NoError(t, writeCSVWithHeader(&buf, auditCSVHeader, csvRowWriter([]schema.AuditResult{original})))

	parsed, err := ParseAuditCSV(&buf)
	require.NoError(t, err)
	require.Len(t, parsed, 1)

	got := parsed[0]
	assert.Equal(t, original.Market, got.Market)
	assert.Equal(t, original.PageLabel, got.PageLabel)
	assert.Equal(t, original.URL, got.URL)
	// Full-precision float cells make the round trip exact, not approximate.
	assert.Equal(t, original.CompositeScore, got.CompositeScore)
	assert.Equal(t, original.Degraded, got.Degraded)
	assert.Equal(t, original.FullyDegraded, got.FullyDegraded)

	require.Len(t, got.ComponentScores, 2)
	assert.Equal(t, schema.SourcePageQuality, got.ComponentScores[0].Source)
	assert.Equal(t, 87.0, got.ComponentScores[0].Score)
	assert.Equal(t, 0.4/0.7, got.ComponentScores[0].Weight)
	assert.Equal(t, schema.SourceStructuralScan, got.ComponentScores[1].Source)

	assert.Equal(t, original.CriticalCount, got.CriticalCount)
	assert.Equal(t, original.SeriousCount, got.SeriousCount)
	assert.Equal(t, original.ModerateCount, got.ModerateCount)
	assert.Equal(t, original.MinorCount, got.MinorCount)
	assert.Equal(t, original.TotalFindings, got.TotalFindings)
	assert.Equal(t, original.StructuralErrors, got.StructuralErrors)
	assert.Equal(t, original.ContrastIssues, got.ContrastIssues)
	assert.Equal(t, original.Recommendations, got.Recommendations)
	assert.Equal(t, original.DeployVersion, got.DeployVersion)
	assert.True(t, original.Timestamp.Equal(got.Timestamp))
}

func TestAuditCSVUnavailableComponentIsEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeCSVWithHeader(&buf, auditCSVHeader, csvRowWriter([]schema.AuditResult{csvSampleResult()})))

	reader := csv.NewReader(&buf)
	records, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	row := records[1]
	// rule_engine_score and rule_engine_weight
	assert.Empty(t, row[10])
	assert.Empty(t, row[11])
}

func TestParseAuditCSVRejectsUnknownLayout(t *testing.T) {
	_, err := ParseAuditCSV(strings.NewReader("a,b,c\n1,2,3\n"))
	assert.ErrorContains(t, err, "unrecognized CSV layout")
}

func TestParseAuditCSVReportsLine(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeCSVWithHeader(&buf, auditCSVHeader, csvRowWriter([]schema.AuditResult{csvSampleResult()})))

	// Corrupt the composite score of the data row.
	corrupted := strings.Replace(buf.String(), "88.7", "not-a-number", 1)

	_, err := ParseAuditCSV(strings.NewReader(corrupted))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.Contains(t, err.Error(), "composite_score")
}

func TestReadAuditCSVFileMissingPath(t *testing.T) {
	_, err := ReadAuditCSVFile("")
	assert.ErrorContains(t, err, "no input file given")
}
