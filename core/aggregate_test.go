package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagewatch/a11ymon/schema"
)

func availablePageQuality(percentage float64) schema.SignalReading {
	return schema.SignalReading{
		Source:     schema.SourcePageQuality,
		Available:  true,
		Percentage: percentage,
	}
}

func availableStructural(errors, contrast int) schema.SignalReading {
	return schema.SignalReading{
		Source:    schema.SourceStructuralScan,
		Available: true,
		RawMetrics: map[schema.MetricKey]int{
			schema.MetricErrors:   errors,
			schema.MetricContrast: contrast,
		},
	}
}

func availableRuleEngine(critical, serious int) schema.SignalReading {
	return schema.SignalReading{
		Source:    schema.SourceRuleEngine,
		Available: true,
		RawMetrics: map[schema.MetricKey]int{
			schema.MetricCritical: critical,
			schema.MetricSerious:  serious,
		},
	}
}

func TestAggregateAllSourcesAvailable(t *testing.T) {
	readings := []schema.SignalReading{
		availablePageQuality(87),
		availableStructural(5, 6),
		availableRuleEngine(0, 1),
	}

	out := Aggregate(readings, schema.DefaultSourceWeights(), schema.DefaultPenaltyWeights())

	assert.False(t, out.Degraded)
	assert.False(t, out.FullyDegraded)
	// 0.4*87 + 0.3*91 + 0.3*95
	assert.InDelta(t, 90.6, out.Composite, 0.0001)
	require.Len(t, out.ComponentScores, 3)
	for _, cs := range out.ComponentScores {
		assert.True(t, cs.Available)
	}
}

func TestAggregateWeightRedistribution(t *testing.T) {
	readings := []schema.SignalReading{
		availablePageQuality(87),
		availableStructural(5, 6),
		schema.Unavailable(schema.SourceRuleEngine, assert.AnError),
	}

	out := Aggregate(readings, schema.DefaultSourceWeights(), schema.DefaultPenaltyWeights())

	assert.True(t, out.Degraded)
	assert.False(t, out.FullyDegraded)
	// (0.4*87 + 0.3*91) / 0.7
	assert.InDelta(t, 88.7, out.Composite, 0.0001)

	require.Len(t, out.ComponentScores, 3)
	assert.InDelta(t, 0.4/0.7, out.ComponentScores[0].Weight, 0.0001)
	assert.InDelta(t, 0.3/0.7, out.ComponentScores[1].Weight, 0.0001)
	assert.False(t, out.ComponentScores[2].Available)
	assert.Zero(t, out.ComponentScores[2].Weight)
}

func TestAggregateModeratelyAccessiblePage(t *testing.T) {
	readings := []schema.SignalReading{
		availablePageQuality(90),
		availableStructural(5, 2),
		availableRuleEngine(0, 1),
	}

	out := Aggregate(readings, schema.DefaultSourceWeights(), schema.DefaultPenaltyWeights())

	assert.False(t, out.Degraded)
	// 0.4*90 + 0.3*93 + 0.3*95
	assert.InDelta(t, 92.4, out.Composite, 0.0001)
}

func TestAggregateModeratelyAccessiblePageWithoutPageQuality(t *testing.T) {
	readings := []schema.SignalReading{
		schema.Unavailable(schema.SourcePageQuality, assert.AnError),
		availableStructural(5, 2),
		availableRuleEngine(0, 1),
	}

	out := Aggregate(readings, schema.DefaultSourceWeights(), schema.DefaultPenaltyWeights())

	assert.True(t, out.Degraded)
	// (0.3*93 + 0.3*95) / 0.6
	assert.InDelta(t, 94.0, out.Composite, 0.0001)
	assert.False(t, out.ComponentScores[0].Available)
	assert.InDelta(t, 0.5, out.ComponentScores[1].Weight, 0.0001)
	assert.InDelta(t, 0.5, out.ComponentScores[2].Weight, 0.0001)
}

func TestAggregateSingleSurvivor(t *testing.T) {
	readings := []schema.SignalReading{
		availablePageQuality(87),
		schema.Unavailable(schema.SourceStructuralScan, assert.AnError),
		schema.Unavailable(schema.SourceRuleEngine, assert.AnError),
	}

	out := Aggregate(readings, schema.DefaultSourceWeights(), schema.DefaultPenaltyWeights())

	assert.True(t, out.Degraded)
	assert.False(t, out.FullyDegraded)
	assert.InDelta(t, 87.0, out.Composite, 0.0001)
	assert.InDelta(t, 1.0, out.ComponentScores[0].Weight, 0.0001)
}

func TestAggregateFullyDegraded(t *testing.T) {
	readings := []schema.SignalReading{
		schema.Unavailable(schema.SourcePageQuality, assert.AnError),
		schema.Unavailable(schema.SourceStructuralScan, assert.AnError),
		schema.Unavailable(schema.SourceRuleEngine, assert.AnError),
	}

	out := Aggregate(readings, schema.DefaultSourceWeights(), schema.DefaultPenaltyWeights())

	assert.True(t, out.Degraded)
	assert.True(t, out.FullyDegraded)
	assert.Zero(t, out.Composite)
	require.Len(t, out.ComponentScores, 3)
	for _, cs := range out.ComponentScores {
		assert.False(t, cs.Available)
		assert.Zero(t, cs.Score)
		assert.Zero(t, cs.Weight)
	}
}

func TestAggregateExcludedSourceIsNotDegradation(t *testing.T) {
	// A source that was never configured does not appear in the readings at
	// all; the remaining sources carry the full weight without a degraded flag.
	readings := []schema.SignalReading{
		availablePageQuality(90),
		availableStructural(0, 0),
	}

	out := Aggregate(readings, schema.DefaultSourceWeights(), schema.DefaultPenaltyWeights())

	assert.False(t, out.Degraded)
	// (0.4*90 + 0.3*100) / 0.7
	assert.InDelta(t, 94.3, out.Composite, 0.0001)
}

func TestAggregateRounding(t *testing.T) {
	readings := []schema.SignalReading{
		availablePageQuality(86.66),
	}

	out := Aggregate(readings, schema.DefaultSourceWeights(), schema.DefaultPenaltyWeights())
	assert.InDelta(t, 86.7, out.Composite, 0.0001)
}

// BenchmarkAggregate benchmarks composite score calculation.
func BenchmarkAggregate(b *testing.B) {
	readings := []schema.SignalReading{
		availablePageQuality(87),
		availableStructural(5, 6),
		availableRuleEngine(0, 1),
	}
	weights := schema.DefaultSourceWeights()
	penalties := schema.DefaultPenaltyWeights()

	for b.Loop() {
		Aggregate(readings, weights, penalties)
	}
}
