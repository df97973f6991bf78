// Package schema has the shared models and constants for all parts of a11ymon.
package schema

import "time"

// AuditTarget identifies one unit of audit work: a single page on a single
// market storefront. Targets are immutable; callers build them before
// handing a batch to the orchestrator.
type AuditTarget struct {
	Market    string // market label, e.g. "France" or "Global"
	PageLabel string // page type label, e.g. "Home", "Category", "Product"
	URL       string // fully qualified page URL
}

// Finding is one itemized accessibility issue reported by the in-page rule
// engine. Findings are created once per audit run and never mutated after.
type Finding struct {
	// RuleID is the rule identifier from the source engine, e.g. "color-contrast".
	RuleID string `json:"rule_id"`

	// Severity is the impact bucket; defaults to minor when the engine omits it.
	Severity Severity `json:"severity"`

	// ElementCount is the number of affected DOM nodes.
	ElementCount int `json:"element_count"`

	// Description is the human-readable help text from the engine.
	Description string `json:"description"`

	// Criterion is the mapped WCAG success criterion, or the generic marker
	// when no mapping exists. Unmapped findings are never dropped.
	Criterion string `json:"criterion"`

	// Advice holds optional AI-generated remediation text.
	Advice string `json:"advice,omitempty"`
}

// SignalReading is the normalized output of one signal source for one target.
// When Available is false the raw metrics must not feed into scoring; the
// aggregator excludes the source and redistributes its weight.
type SignalReading struct {
	Source     SignalSource      `json:"source"`
	Available  bool              `json:"available"`
	RawMetrics map[MetricKey]int `json:"raw_metrics,omitempty"`

	// Percentage is the page-quality provider's own 0-100 score.
	Percentage float64 `json:"percentage,omitempty"`

	Findings []Finding `json:"findings,omitempty"`

	// TopFailed lists titles of failed page-quality sub-checks. Summary
	// only; it never feeds into scoring.
	TopFailed []string `json:"top_failed,omitempty"`

	// Screenshot is the path of a capture taken during the reading, when
	// screenshotting is enabled.
	Screenshot string `json:"screenshot,omitempty"`

	// Error is a bounded diagnostic, set only when Available is false.
	Error string `json:"error,omitempty"`
}

// Unavailable builds a reading that records a source failure. The error
// message is bounded so provider stack traces cannot bloat result payloads.
func Unavailable(source SignalSource, err error) SignalReading {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	if len(msg) > MaxErrorLen {
		msg = msg[:MaxErrorLen]
	}
	return SignalReading{Source: source, Available: false, Error: msg}
}

// ComponentScore is one source's normalized 0-100 score together with the
// weight it carried in the composite. Derived on every audit, never stored.
type ComponentScore struct {
	Source    SignalSource `json:"source"`
	Score     float64      `json:"score"`
	Weight    float64      `json:"weight"`
	Available bool         `json:"available"`
}

// AuditResult is the unit of output per target. It is created exclusively
// by the orchestrator and immutable once returned; a batch is a slice of
// results with no shared mutable state between entries.
type AuditResult struct {
	Market    string `json:"market"`
	PageLabel string `json:"page_label"`
	URL       string `json:"url"`

	CompositeScore float64 `json:"composite_score"`

	// Degraded means at least one source was unavailable. FullyDegraded
	// means all were: the composite 0 is not a measurement and must render
	// distinctly from a genuine zero score.
	Degraded      bool `json:"degraded"`
	FullyDegraded bool `json:"fully_degraded"`

	ComponentScores []ComponentScore `json:"component_scores"`

	// Severity counts reflect the full violation list, not the bounded
	// findings sample carried in Findings.
	CriticalCount int `json:"critical_count"`
	SeriousCount  int `json:"serious_count"`
	ModerateCount int `json:"moderate_count"`
	MinorCount    int `json:"minor_count"`
	TotalFindings int `json:"total_findings"`

	StructuralErrors int `json:"structural_errors"`
	ContrastIssues   int `json:"contrast_issues"`

	Findings        []Finding `json:"findings,omitempty"`
	TopFailed       []string  `json:"top_failed,omitempty"`
	Recommendations []string  `json:"recommendations"`

	DeployVersion string    `json:"deploy_version,omitempty"`
	Screenshot    string    `json:"screenshot,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// ComponentScoreFor returns the component score for the given source and
// whether it was present in the result.
func (r *AuditResult) ComponentScoreFor(source SignalSource) (ComponentScore, bool) {
	for _, cs := range r.ComponentScores {
		if cs.Source == source {
			return cs, true
		}
	}
	return ComponentScore{}, false
}

// SeverityCount returns the full-list violation count for one severity.
func (r *AuditResult) SeverityCount(sev Severity) int {
	switch sev {
	case SeverityCritical:
		return r.CriticalCount
	case SeveritySerious:
		return r.SeriousCount
	case SeverityModerate:
		return r.ModerateCount
	default:
		return r.MinorCount
	}
}
