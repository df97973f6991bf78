package core

import (
	"fmt"
)

// RecommendationInput carries everything the rule set reads.
type RecommendationInput struct {
	Composite        float64
	FullyDegraded    bool
	StructuralErrors int
	ContrastIssues   int
	CriticalCount    int
	SeriousCount     int
	RuleEngineError  string
}

// Recommend derives prioritized action items from one result. Rules fire
// in a fixed order so reports are comparable across pages and runs; the
// list is never empty.
func Recommend(in RecommendationInput) []string {
	var recs []string

	if in.RuleEngineError != "" {
		recs = append(recs, "Rule engine unstable: results not included in score")
	}

	if in.CriticalCount > 0 {
		recs = append(recs, fmt.Sprintf("CRITICAL: Fix %d critical violations", in.CriticalCount))
	}
	if in.SeriousCount > 0 {
		recs = append(recs, fmt.Sprintf("HIGH: Resolve %d serious violations", in.SeriousCount))
	}

	switch {
	case in.ContrastIssues > 10:
		recs = append(recs, fmt.Sprintf("HIGH: Fix %d contrast issues (WCAG AA)", in.ContrastIssues))
	case in.ContrastIssues > 0:
		recs = append(recs, fmt.Sprintf("MEDIUM: Improve %d contrast ratios", in.ContrastIssues))
	}

	switch {
	case in.StructuralErrors > 20:
		recs = append(recs, fmt.Sprintf("HIGH: %d accessibility errors detected", in.StructuralErrors))
	case in.StructuralErrors > 5:
		recs = append(recs, fmt.Sprintf("MEDIUM: %d errors need attention", in.StructuralErrors))
	}

	// Band advice only applies to a measured composite. A fully degraded
	// zero is an availability problem, not a quality signal.
	if !in.FullyDegraded {
		switch {
		case in.Composite < 60:
			recs = append(recs, "ACTION REQUIRED: Critical barriers present")
		case in.Composite < 80:
			recs = append(recs, "PLAN: Schedule fixes in next sprint")
		case in.Composite >= 90:
			recs = append(recs, "MAINTAIN: Monitor for regressions")
		}
	}

	if len(recs) == 0 {
		return []string{"No major issues detected"}
	}
	return recs
}
