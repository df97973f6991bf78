package core

import (
	"math"

	"github.com/pagewatch/a11ymon/schema"
)

// AggregateOutput is the scored view of one target's readings.
type AggregateOutput struct {
	Composite       float64
	Degraded        bool
	FullyDegraded   bool
	ComponentScores []schema.ComponentScore
}

// Aggregate blends normalized component scores into a composite. Sources
// that failed are excluded and their weight redistributes across the
// surviving sources in proportion to the configured weights, so a partial
// audit still lands on the 0-100 scale instead of shrinking toward zero.
//
// With every source down there is nothing to measure: the composite is 0
// with FullyDegraded set, and renderers must not present it as a score.
func Aggregate(readings []schema.SignalReading, weights map[schema.SignalSource]float64, penalties schema.PenaltyWeights) AggregateOutput {
	out := AggregateOutput{}

	liveWeight := 0.0
	for _, r := range readings {
		if r.Available {
			liveWeight += weights[r.Source]
		} else {
			out.Degraded = true
		}
	}

	if liveWeight == 0 {
		out.FullyDegraded = true
		for _, r := range readings {
			out.ComponentScores = append(out.ComponentScores, schema.ComponentScore{
				Source: r.Source,
			})
		}
		return out
	}

	composite := 0.0
	for _, r := range readings {
		cs := schema.ComponentScore{Source: r.Source}
		if r.Available {
			cs.Available = true
			cs.Score = NormalizeReading(r, penalties)
			cs.Weight = weights[r.Source] / liveWeight
			composite += cs.Score * cs.Weight
		}
		out.ComponentScores = append(out.ComponentScores, cs)
	}

	out.Composite = roundTo(composite, 1)
	return out
}

// roundTo rounds half away from zero at the given number of decimals.
func roundTo(v float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(v*factor) / factor
}
