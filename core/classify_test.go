package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagewatch/a11ymon/schema"
)

func TestClassifyFindingsOrdering(t *testing.T) {
	findings := []schema.Finding{
		{RuleID: "list", Severity: schema.SeverityMinor},
		{RuleID: "color-contrast", Severity: schema.SeveritySerious},
		{RuleID: "image-alt", Severity: schema.SeverityCritical},
		{RuleID: "button-name", Severity: schema.SeverityCritical},
		{RuleID: "meta-viewport", Severity: schema.SeverityModerate},
	}

	classified := ClassifyFindings(findings)

	require.Len(t, classified, 5)
	got := make([]string, len(classified))
	for i, f := range classified {
		got[i] = f.RuleID
	}
	// Most severe first; rule id breaks ties within a severity.
	assert.Equal(t, []string{"button-name", "image-alt", "color-contrast", "meta-viewport", "list"}, got)
}

func TestClassifyFindingsCriteria(t *testing.T) {
	findings := []schema.Finding{
		{RuleID: "image-alt", Severity: schema.SeverityCritical},
		{RuleID: "color-contrast", Severity: schema.SeveritySerious},
		{RuleID: "some-future-rule", Severity: schema.SeverityMinor},
	}

	classified := ClassifyFindings(findings)

	assert.Equal(t, "WCAG 1.1.1 (Non-text Content)", classified[0].Criterion)
	assert.Equal(t, "WCAG 1.4.3 (Contrast Minimum)", classified[1].Criterion)
	// Unmapped rules get the generic marker, never dropped.
	assert.Equal(t, schema.UnmappedCriterion, classified[2].Criterion)
}

func TestClassifyFindingsDoesNotMutateInput(t *testing.T) {
	findings := []schema.Finding{
		{RuleID: "list", Severity: schema.SeverityMinor},
		{RuleID: "image-alt", Severity: schema.SeverityCritical},
	}

	_ = ClassifyFindings(findings)

	assert.Equal(t, "list", findings[0].RuleID)
	assert.Empty(t, findings[0].Criterion)
}

func TestClassifyFindingsEmpty(t *testing.T) {
	assert.Empty(t, ClassifyFindings(nil))
	assert.Empty(t, ClassifyFindings([]schema.Finding{}))
}

func TestCriterionFor(t *testing.T) {
	assert.Equal(t, "WCAG 2.4.4 (Link Purpose)", CriterionFor("link-name"))
	assert.Equal(t, schema.UnmappedCriterion, CriterionFor("unknown-rule"))
	assert.Equal(t, schema.UnmappedCriterion, CriterionFor(""))
}
