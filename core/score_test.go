package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pagewatch/a11ymon/schema"
)

func TestNormalizePageQuality(t *testing.T) {
	penalties := schema.DefaultPenaltyWeights()

	tests := []struct {
		name       string
		percentage float64
		want       float64
	}{
		{"typical score", 87, 87},
		{"perfect score", 100, 100},
		{"zero score", 0, 0},
		{"above scale clamps", 104.5, 100},
		{"below scale clamps", -3, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reading := schema.SignalReading{
				Source:     schema.SourcePageQuality,
				Available:  true,
				Percentage: tc.percentage,
			}
			assert.InDelta(t, tc.want, NormalizeReading(reading, penalties), 0.0001)
		})
	}
}

func TestNormalizeStructural(t *testing.T) {
	penalties := schema.DefaultPenaltyWeights()

	tests := []struct {
		name     string
		errors   int
		contrast int
		want     float64
	}{
		{"clean page", 0, 0, 100},
		{"errors only", 10, 0, 88},
		{"contrast only", 0, 10, 95},
		{"mixed", 7, 12, 85.6},
		{"floor at zero", 100, 50, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reading := schema.SignalReading{
				Source:    schema.SourceStructuralScan,
				Available: true,
				RawMetrics: map[schema.MetricKey]int{
					schema.MetricErrors:   tc.errors,
					schema.MetricContrast: tc.contrast,
				},
			}
			assert.InDelta(t, tc.want, NormalizeReading(reading, penalties), 0.0001)
		})
	}
}

func TestNormalizeRuleEngine(t *testing.T) {
	penalties := schema.DefaultPenaltyWeights()

	tests := []struct {
		name     string
		critical int
		serious  int
		moderate int
		want     float64
	}{
		{"clean page", 0, 0, 0, 100},
		{"critical only", 3, 0, 0, 70},
		{"serious only", 0, 4, 0, 80},
		{"mixed", 2, 3, 0, 65},
		{"moderate never moves the score", 0, 0, 50, 100},
		{"floor at zero", 11, 0, 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reading := schema.SignalReading{
				Source:    schema.SourceRuleEngine,
				Available: true,
				RawMetrics: map[schema.MetricKey]int{
					schema.MetricCritical: tc.critical,
					schema.MetricSerious:  tc.serious,
					schema.MetricModerate: tc.moderate,
				},
			}
			assert.InDelta(t, tc.want, NormalizeReading(reading, penalties), 0.0001)
		})
	}
}

func TestNormalizeCustomPenalties(t *testing.T) {
	penalties := schema.PenaltyWeights{
		StructuralError: 2,
		Contrast:        1,
		Critical:        20,
		Serious:         10,
	}

	structural := schema.SignalReading{
		Source:    schema.SourceStructuralScan,
		Available: true,
		RawMetrics: map[schema.MetricKey]int{
			schema.MetricErrors:   5,
			schema.MetricContrast: 4,
		},
	}
	assert.InDelta(t, 86.0, NormalizeReading(structural, penalties), 0.0001)

	rule := schema.SignalReading{
		Source:    schema.SourceRuleEngine,
		Available: true,
		RawMetrics: map[schema.MetricKey]int{
			schema.MetricCritical: 2,
			schema.MetricSerious:  1,
		},
	}
	assert.InDelta(t, 50.0, NormalizeReading(rule, penalties), 0.0001)
}
