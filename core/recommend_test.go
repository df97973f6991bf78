package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecommendDefault(t *testing.T) {
	recs := Recommend(RecommendationInput{Composite: 85})
	assert.Equal(t, []string{"No major issues detected"}, recs)
}

func TestRecommendOrdering(t *testing.T) {
	in := RecommendationInput{
		Composite:        45.5,
		StructuralErrors: 25,
		ContrastIssues:   12,
		CriticalCount:    3,
		SeriousCount:     7,
		RuleEngineError:  "attempt 2/2: axe-core not loaded",
	}

	recs := Recommend(in)

	assert.Equal(t, []string{
		"Rule engine unstable: results not included in score",
		"CRITICAL: Fix 3 critical violations",
		"HIGH: Resolve 7 serious violations",
		"HIGH: Fix 12 contrast issues (WCAG AA)",
		"HIGH: 25 accessibility errors detected",
		"ACTION REQUIRED: Critical barriers present",
	}, recs)
}

func TestRecommendThresholds(t *testing.T) {
	tests := []struct {
		name string
		in   RecommendationInput
		want []string
	}{
		{
			name: "moderate contrast",
			in:   RecommendationInput{Composite: 85, ContrastIssues: 4},
			want: []string{"MEDIUM: Improve 4 contrast ratios"},
		},
		{
			name: "contrast boundary stays medium",
			in:   RecommendationInput{Composite: 85, ContrastIssues: 10},
			want: []string{"MEDIUM: Improve 10 contrast ratios"},
		},
		{
			name: "moderate errors",
			in:   RecommendationInput{Composite: 85, StructuralErrors: 8},
			want: []string{"MEDIUM: 8 errors need attention"},
		},
		{
			name: "few errors fire nothing",
			in:   RecommendationInput{Composite: 85, StructuralErrors: 5},
			want: []string{"No major issues detected"},
		},
		{
			name: "plan band",
			in:   RecommendationInput{Composite: 72.4},
			want: []string{"PLAN: Schedule fixes in next sprint"},
		},
		{
			name: "maintain band",
			in:   RecommendationInput{Composite: 93.1},
			want: []string{"MAINTAIN: Monitor for regressions"},
		},
		{
			name: "mid band fires nothing",
			in:   RecommendationInput{Composite: 85},
			want: []string{"No major issues detected"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Recommend(tc.in))
		})
	}
}

func TestRecommendFullyDegradedSkipsBands(t *testing.T) {
	// A composite of 0 with no live signal is an availability problem and
	// must not read as "critical barriers present".
	recs := Recommend(RecommendationInput{Composite: 0, FullyDegraded: true})
	assert.Equal(t, []string{"No major issues detected"}, recs)

	recs = Recommend(RecommendationInput{
		Composite:       0,
		FullyDegraded:   true,
		RuleEngineError: "browser startup failed",
	})
	assert.Equal(t, []string{"Rule engine unstable: results not included in score"}, recs)
}
