// Package core implements the audit pipeline: normalize signal readings,
// aggregate them into a composite score, classify findings, and derive
// recommendations.
package core

import (
	"github.com/pagewatch/a11ymon/schema"
)

// NormalizeReading converts one signal reading into a 0-100 score. The
// normalizers are pure: same reading and penalties, same score. Callers
// must not normalize unavailable readings.
func NormalizeReading(reading schema.SignalReading, penalties schema.PenaltyWeights) float64 {
	switch reading.Source {
	case schema.SourcePageQuality:
		return normalizePageQuality(reading)
	case schema.SourceStructuralScan:
		return normalizeStructural(reading, penalties)
	default:
		return normalizeRuleEngine(reading, penalties)
	}
}

// normalizePageQuality passes the provider's own percentage through,
// clamped to the scale.
func normalizePageQuality(reading schema.SignalReading) float64 {
	return clampScore(reading.Percentage)
}

// normalizeStructural starts from a perfect score and subtracts weighted
// structural error and contrast counts. Errors are outright barriers and
// penalize harder than contrast issues.
func normalizeStructural(reading schema.SignalReading, penalties schema.PenaltyWeights) float64 {
	errs := float64(reading.RawMetrics[schema.MetricErrors])
	contrast := float64(reading.RawMetrics[schema.MetricContrast])
	return clampScore(100 - errs*penalties.StructuralError - contrast*penalties.Contrast)
}

// normalizeRuleEngine subtracts weighted critical and serious violation
// counts. Moderate and minor violations surface in findings but never
// move the score.
func normalizeRuleEngine(reading schema.SignalReading, penalties schema.PenaltyWeights) float64 {
	critical := float64(reading.RawMetrics[schema.MetricCritical])
	serious := float64(reading.RawMetrics[schema.MetricSerious])
	return clampScore(100 - critical*penalties.Critical - serious*penalties.Serious)
}

// clampScore bounds a score to the 0-100 scale. A page can accumulate more
// penalty than the scale holds; the floor keeps scores comparable.
func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
