package core

import (
	"sort"

	"github.com/pagewatch/a11ymon/schema"
)

// criterionByRule maps rule engine rule ids to WCAG success criteria.
// Covers the rules the storefronts actually trip; anything else falls
// through to the generic marker rather than being dropped.
var criterionByRule = map[string]string{
	"area-alt":                    "WCAG 1.1.1 (Non-text Content)",
	"image-alt":                   "WCAG 1.1.1 (Non-text Content)",
	"input-image-alt":             "WCAG 1.1.1 (Non-text Content)",
	"object-alt":                  "WCAG 1.1.1 (Non-text Content)",
	"role-img-alt":                "WCAG 1.1.1 (Non-text Content)",
	"svg-img-alt":                 "WCAG 1.1.1 (Non-text Content)",
	"video-caption":               "WCAG 1.2.2 (Captions)",
	"definition-list":             "WCAG 1.3.1 (Info and Relationships)",
	"list":                        "WCAG 1.3.1 (Info and Relationships)",
	"listitem":                    "WCAG 1.3.1 (Info and Relationships)",
	"td-headers-attr":             "WCAG 1.3.1 (Info and Relationships)",
	"th-has-data-cells":           "WCAG 1.3.1 (Info and Relationships)",
	"autocomplete-valid":          "WCAG 1.3.5 (Identify Input Purpose)",
	"color-contrast":              "WCAG 1.4.3 (Contrast Minimum)",
	"meta-viewport":               "WCAG 1.4.4 (Resize Text)",
	"html-has-lang":               "WCAG 3.1.1 (Language of Page)",
	"html-lang-valid":             "WCAG 3.1.1 (Language of Page)",
	"valid-lang":                  "WCAG 3.1.2 (Language of Parts)",
	"aria-allowed-attr":           "WCAG 4.1.2 (Name, Role, Value)",
	"aria-hidden-focus":           "WCAG 4.1.2 (Name, Role, Value)",
	"aria-required-attr":          "WCAG 4.1.2 (Name, Role, Value)",
	"aria-required-children":      "WCAG 1.3.1 (Info and Relationships)",
	"aria-required-parent":        "WCAG 1.3.1 (Info and Relationships)",
	"aria-roles":                  "WCAG 4.1.2 (Name, Role, Value)",
	"aria-valid-attr":             "WCAG 4.1.2 (Name, Role, Value)",
	"aria-valid-attr-value":       "WCAG 4.1.2 (Name, Role, Value)",
	"button-name":                 "WCAG 4.1.2 (Name, Role, Value)",
	"input-button-name":           "WCAG 4.1.2 (Name, Role, Value)",
	"select-name":                 "WCAG 4.1.2 (Name, Role, Value)",
	"frame-title":                 "WCAG 4.1.2 (Name, Role, Value)",
	"nested-interactive":          "WCAG 4.1.2 (Name, Role, Value)",
	"link-name":                   "WCAG 2.4.4 (Link Purpose)",
	"bypass":                      "WCAG 2.4.1 (Bypass Blocks)",
	"document-title":              "WCAG 2.4.2 (Page Titled)",
	"duplicate-id-aria":           "WCAG 4.1.1 (Parsing)",
	"form-field-multiple-labels":  "WCAG 3.3.2 (Labels or Instructions)",
	"label":                       "WCAG 3.3.2 (Labels or Instructions)",
	"scrollable-region-focusable": "WCAG 2.1.1 (Keyboard)",
	"server-side-image-map":       "WCAG 2.1.1 (Keyboard)",
	"blink":                       "WCAG 2.2.2 (Pause, Stop, Hide)",
	"marquee":                     "WCAG 2.2.2 (Pause, Stop, Hide)",
	"meta-refresh":                "WCAG 2.2.1 (Timing Adjustable)",
}

// ClassifyFindings maps each finding to its WCAG criterion and orders the
// list by severity, most severe first, with rule id as the tiebreak so
// output is stable run to run. The input slice is not modified.
func ClassifyFindings(findings []schema.Finding) []schema.Finding {
	classified := make([]schema.Finding, len(findings))
	for i, f := range findings {
		f.Criterion = CriterionFor(f.RuleID)
		classified[i] = f
	}

	sort.SliceStable(classified, func(i, j int) bool {
		ri, rj := classified[i].Severity.Rank(), classified[j].Severity.Rank()
		if ri != rj {
			return ri < rj
		}
		return classified[i].RuleID < classified[j].RuleID
	})
	return classified
}

// CriterionFor returns the WCAG criterion for a rule id, or the generic
// marker for rules without a mapping.
func CriterionFor(ruleID string) string {
	if criterion, ok := criterionByRule[ruleID]; ok {
		return criterion
	}
	return schema.UnmappedCriterion
}
