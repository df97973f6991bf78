// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"golang.org/x/term"

	"github.com/pagewatch/a11ymon/internal/contract"
	"github.com/pagewatch/a11ymon/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteResults prints audit results using the configured output format.
func (ow *OutWriter) WriteResults(results []schema.AuditResult, cfg *contract.Config, duration time.Duration) error {
	return PrintAuditResults(results, cfg, duration)
}

// WriteTargets prints the resolved audit batch using the configured output format.
func (ow *OutWriter) WriteTargets(targets []schema.AuditTarget, cfg *contract.Config) error {
	return PrintTargets(targets, cfg)
}

// WriteScoring prints the active scoring rules using the configured output format.
func (ow *OutWriter) WriteScoring(cfg *contract.Config) error {
	return PrintScoringRules(cfg)
}

// GetMaxTableURLWidth calculates the maximum width for URLs in table output
// based on terminal width and the fixed columns around them.
func GetMaxTableURLWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default for narrow terminals and CI
			termWidth = 80
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the fixed columns: market, page, score, label,
	// severity counts, plus borders and padding.
	const baseWidth = 70

	available := termWidth - baseWidth
	if available < 20 {
		return 20
	}
	return available
}
