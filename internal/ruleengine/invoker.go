package ruleengine

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pagewatch/a11ymon/internal/contract"
	"github.com/pagewatch/a11ymon/schema"
)

// runScript invokes the injected engine restricted to the WCAG 2.0/2.1
// A and AA rule sets, matching the scope of the other signal sources.
const runScript = `
	const callback = arguments[arguments.length - 1];
	if (!window.axe) {
		callback({error: 'axe-core not loaded'});
		return;
	}
	axe.run(document, {runOnly: {type: 'tag', values: ['wcag2a', 'wcag2aa', 'wcag21a', 'wcag21aa']}})
		.then((res) => callback({violations: res.violations.map((v) => ({
			id: v.id,
			impact: v.impact,
			help: v.help,
			nodes: v.nodes.length
		}))}))
		.catch((err) => callback({error: err.toString()}));
`

// retryBackoff is the pause between failed attempts.
const retryBackoff = time.Second

// axeViolation is one engine violation in the reduced shape runScript emits.
type axeViolation struct {
	ID     string `json:"id"`
	Impact string `json:"impact"`
	Help   string `json:"help"`
	Nodes  int    `json:"nodes"`
}

// axeResult is the callback payload from runScript.
type axeResult struct {
	Error      string         `json:"error"`
	Violations []axeViolation `json:"violations"`
}

// Invoker runs the rule engine against a target URL. It retries with a
// fresh browser session per attempt; storefront pages are heavy enough
// that a wedged renderer is a normal failure mode, and a stale session is
// never worth reusing.
type Invoker struct {
	Browser contract.Browser
	Scripts contract.ScriptSource

	// SettleWait is the post-navigation pause before injection.
	SettleWait time.Duration

	// MaxAttempts is the total attempt count, including the first.
	MaxAttempts int

	// ScreenshotDir enables page captures when non-empty.
	ScreenshotDir string
}

var _ contract.RuleRunner = &Invoker{}

// NewInvoker builds an invoker with the given browser and script source.
func NewInvoker(browser contract.Browser, scripts contract.ScriptSource, cfg *contract.Config) *Invoker {
	return &Invoker{
		Browser:       browser,
		Scripts:       scripts,
		SettleWait:    cfg.SettleWait,
		MaxAttempts:   cfg.MaxAttempts,
		ScreenshotDir: cfg.ScreenshotDir,
	}
}

// Run executes the rule engine for one target. Exhausted attempts yield an
// unavailable reading carrying the final attempt's error; the engine never
// aborts an audit.
func (inv *Invoker) Run(ctx context.Context, url string) schema.SignalReading {
	script, err := inv.Scripts.Script(ctx)
	if err != nil {
		return schema.Unavailable(schema.SourceRuleEngine, err)
	}

	attempts := inv.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return schema.Unavailable(schema.SourceRuleEngine, err)
		}

		reading, err := inv.runOnce(ctx, url, script)
		if err == nil {
			return reading
		}
		lastErr = fmt.Errorf("attempt %d/%d: %w", attempt, attempts, err)

		if attempt < attempts {
			select {
			case <-time.After(retryBackoff):
			case <-ctx.Done():
				return schema.Unavailable(schema.SourceRuleEngine, ctx.Err())
			}
		}
	}
	return schema.Unavailable(schema.SourceRuleEngine, lastErr)
}

// runOnce performs a single attempt in a fresh session. The session is
// closed on every path, success or failure.
func (inv *Invoker) runOnce(ctx context.Context, url, script string) (schema.SignalReading, error) {
	session, err := inv.Browser.NewSession(ctx)
	if err != nil {
		return schema.SignalReading{}, fmt.Errorf("open browser session: %w", err)
	}
	defer func() { _ = session.Close() }()

	if err := session.Navigate(ctx, url); err != nil {
		return schema.SignalReading{}, fmt.Errorf("navigate: %w", err)
	}

	// The storefronts render client-side with no completion signal, so a
	// bounded settle wait stands in for one.
	if inv.SettleWait > 0 {
		select {
		case <-time.After(inv.SettleWait):
		case <-ctx.Done():
			return schema.SignalReading{}, ctx.Err()
		}
	}

	if err := session.EvaluateScript(ctx, script, nil); err != nil {
		return schema.SignalReading{}, fmt.Errorf("inject rule engine: %w", err)
	}

	var result axeResult
	if err := session.EvaluateAsyncScript(ctx, runScript, &result); err != nil {
		return schema.SignalReading{}, fmt.Errorf("run rule engine: %w", err)
	}
	if result.Error != "" {
		return schema.SignalReading{}, fmt.Errorf("rule engine reported: %s", result.Error)
	}

	reading := buildReading(result.Violations)

	if inv.ScreenshotDir != "" {
		path, err := inv.capture(ctx, session, url)
		if err != nil {
			contract.LogWarn("screenshot capture", err)
		} else {
			reading.Screenshot = path
		}
	}

	return reading, nil
}

// buildReading converts the full violation list into a reading. Severity
// counts always cover the full list; the itemized findings are capped to a
// readable sample.
func buildReading(violations []axeViolation) schema.SignalReading {
	counts := map[schema.MetricKey]int{
		schema.MetricCritical: 0,
		schema.MetricSerious:  0,
		schema.MetricModerate: 0,
		schema.MetricMinor:    0,
		schema.MetricTotal:    len(violations),
	}

	var findings []schema.Finding
	for _, v := range violations {
		sev := schema.ParseSeverity(v.Impact)
		switch sev {
		case schema.SeverityCritical:
			counts[schema.MetricCritical]++
		case schema.SeveritySerious:
			counts[schema.MetricSerious]++
		case schema.SeverityModerate:
			counts[schema.MetricModerate]++
		default:
			counts[schema.MetricMinor]++
		}

		if len(findings) < schema.MaxFindingsSample {
			findings = append(findings, schema.Finding{
				RuleID:       v.ID,
				Severity:     sev,
				ElementCount: v.Nodes,
				Description:  v.Help,
			})
		}
	}

	return schema.SignalReading{
		Source:     schema.SourceRuleEngine,
		Available:  true,
		RawMetrics: counts,
		Findings:   findings,
	}
}

// capture writes a PNG of the current page into ScreenshotDir. File names
// derive from the URL hash so re-audits of the same page overwrite rather
// than accumulate.
func (inv *Invoker) capture(ctx context.Context, session contract.BrowserSession, url string) (string, error) {
	data, err := session.Screenshot(ctx)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(inv.ScreenshotDir, 0o755); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%x", sha256.Sum256([]byte(url)))[:16] + ".png"
	path := filepath.Join(inv.ScreenshotDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
