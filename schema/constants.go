package schema

// Custom string types for type safety.
type (
	// SignalSource identifies one independent accessibility signal provider.
	SignalSource string

	// Severity is the impact bucket of a finding.
	Severity string

	// MetricKey represents keys used in raw signal metrics.
	MetricKey string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for result storage.
	DatabaseBackend string
)

// All signal sources.
const (
	SourcePageQuality    SignalSource = "page_quality"
	SourceStructuralScan SignalSource = "structural_scan"
	SourceRuleEngine     SignalSource = "rule_engine"
)

// AllSignalSources lists the sources in their nominal weighting order.
var AllSignalSources = []SignalSource{SourcePageQuality, SourceStructuralScan, SourceRuleEngine}

// Severity buckets, ordered from most to least severe.
const (
	SeverityCritical Severity = "critical"
	SeveritySerious  Severity = "serious"
	SeverityModerate Severity = "moderate"
	SeverityMinor    Severity = "minor"
)

// AllSeverities lists severities from most to least severe.
var AllSeverities = []Severity{SeverityCritical, SeveritySerious, SeverityModerate, SeverityMinor}

// severityRanks gives each severity a numeric tier; lower sorts first.
var severityRanks = map[Severity]int{
	SeverityCritical: 0,
	SeveritySerious:  1,
	SeverityModerate: 2,
	SeverityMinor:    3,
}

// Rank returns the numeric tier for a severity. Unknown severities rank
// below minor so malformed engine output never outranks real impact.
func (s Severity) Rank() int {
	if r, ok := severityRanks[s]; ok {
		return r
	}
	return len(severityRanks)
}

// ParseSeverity normalizes an engine impact string into a Severity.
// Absent or unknown impacts default to minor, never dropped.
func ParseSeverity(impact string) Severity {
	switch Severity(impact) {
	case SeverityCritical, SeveritySerious, SeverityModerate, SeverityMinor:
		return Severity(impact)
	default:
		return SeverityMinor
	}
}

// Raw metric keys produced by the signal clients.
const (
	MetricErrors   MetricKey = "errors"   // structural scan: full accessibility blockers
	MetricContrast MetricKey = "contrast" // structural scan: contrast failures
	MetricCritical MetricKey = "critical" // rule engine: critical violation count
	MetricSerious  MetricKey = "serious"  // rule engine: serious violation count
	MetricModerate MetricKey = "moderate" // rule engine: moderate violation count
	MetricMinor    MetricKey = "minor"    // rule engine: minor violation count
	MetricTotal    MetricKey = "total"    // rule engine: total violation count
)

// All output modes supported.
const (
	TextOut OutputMode = "text" // default
	CSVOut  OutputMode = "csv"
	JSONOut OutputMode = "json"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut: {},
	CSVOut:  {},
	JSONOut: {},
}

// All result store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// ValidDatabaseBackends lists all valid result store backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// MaxErrorLen bounds diagnostic strings carried on degraded readings.
const MaxErrorLen = 120

// RecSeparator joins recommendation lists into a single delimited string
// for CSV cells and store columns. Recommendation text never contains it.
const RecSeparator = " | "

// MaxFindingsSample bounds the itemized findings carried per result.
// Severity counts always reflect the full violation list.
const MaxFindingsSample = 5

// UnmappedCriterion labels findings whose rule has no WCAG mapping.
const UnmappedCriterion = "WCAG (general accessibility)"

// DefaultSourceWeights returns the nominal composite weights per source.
// The aggregator renormalizes over available sources at audit time.
func DefaultSourceWeights() map[SignalSource]float64 {
	return map[SignalSource]float64{
		SourcePageQuality:    0.4,
		SourceStructuralScan: 0.3,
		SourceRuleEngine:     0.3,
	}
}

// PenaltyWeights holds the per-issue score deductions for the penalty-based
// normalizers. Tunable via the config file; the defaults below apply
// otherwise.
type PenaltyWeights struct {
	StructuralError float64 `json:"structural_error"`
	Contrast        float64 `json:"contrast"`
	Critical        float64 `json:"critical"`
	Serious         float64 `json:"serious"`
}

// DefaultPenaltyWeights returns the default penalty scheme: structural
// errors are full blockers, contrast issues partial; rule-engine critical
// violations penalize roughly twice as hard as serious ones.
func DefaultPenaltyWeights() PenaltyWeights {
	return PenaltyWeights{
		StructuralError: 1.2,
		Contrast:        0.5,
		Critical:        10,
		Serious:         5,
	}
}
