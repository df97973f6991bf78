package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagewatch/a11ymon/internal/contract"
	"github.com/pagewatch/a11ymon/schema"
)

func scoredResult(label string, score float64) schema.AuditResult {
	return schema.AuditResult{
		Market:         "France",
		PageLabel:      label,
		CompositeScore: score,
	}
}

func TestFilterResultsMinScoreKeepsPagesBelowThreshold(t *testing.T) {
	results := []schema.AuditResult{
		scoredResult("Home", 95.2),
		scoredResult("Category", 71.8),
		scoredResult("Product", 80.0),
	}
	cfg := &contract.Config{MinScore: 80, ResultLimit: 10}

	filtered := filterResults(results, cfg)

	require.Len(t, filtered, 1)
	assert.Equal(t, "Category", filtered[0].PageLabel)
}

func TestFilterResultsMinScoreKeepsDegradedPages(t *testing.T) {
	degraded := scoredResult("Product", 0)
	degraded.Degraded = true
	degraded.FullyDegraded = true
	results := []schema.AuditResult{
		scoredResult("Home", 95.2),
		degraded,
	}
	cfg := &contract.Config{MinScore: 80, ResultLimit: 10}

	filtered := filterResults(results, cfg)

	require.Len(t, filtered, 1)
	assert.True(t, filtered[0].FullyDegraded)
}

func TestFilterResultsZeroMinScoreDisablesFilter(t *testing.T) {
	results := []schema.AuditResult{
		scoredResult("Home", 95.2),
		scoredResult("Category", 71.8),
	}
	cfg := &contract.Config{MinScore: 0, ResultLimit: 10}

	assert.Len(t, filterResults(results, cfg), 2)
}

func TestFilterResultsLimitCapsRows(t *testing.T) {
	results := []schema.AuditResult{
		scoredResult("Home", 95.2),
		scoredResult("Category", 71.8),
		scoredResult("Product", 80.0),
	}
	cfg := &contract.Config{ResultLimit: 2}

	assert.Len(t, filterResults(results, cfg), 2)
}
