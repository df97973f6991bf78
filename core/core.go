// Package core has core logic for auditing, scoring and reporting.
package core

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pagewatch/a11ymon/internal/advisor"
	"github.com/pagewatch/a11ymon/internal/browser"
	"github.com/pagewatch/a11ymon/internal/contract"
	"github.com/pagewatch/a11ymon/internal/outwriter"
	"github.com/pagewatch/a11ymon/internal/ruleengine"
	"github.com/pagewatch/a11ymon/internal/signals"
	"github.com/pagewatch/a11ymon/schema"
)

// ExecutorFunc defines the function signature for executing different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config) error

// ExecuteAudit runs the full audit batch and prints results. It serves as
// the main entry point for the 'audit' command.
func ExecuteAudit(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	results, duration, err := GetAuditResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintAuditResults(results, cfg, duration)
}

// GetAuditResults runs the audit batch and returns the filtered results
// without printing. The MCP server uses this directly.
func GetAuditResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) ([]schema.AuditResult, time.Duration, error) {
	start := time.Now()

	targets, err := BuildTargets(cfg)
	if err != nil {
		return nil, 0, err
	}

	orch, cleanup, err := buildOrchestrator(ctx, cfg)
	if err != nil {
		return nil, 0, err
	}
	defer cleanup()

	// --- Begin run tracking (if configured) ---
	var runID int64
	var store contract.ResultStore
	if mgr != nil {
		store = mgr.GetResultStore()
	}
	if store != nil {
		params := map[string]any{
			"markets":          cfg.MarketFilter,
			"pages":            cfg.PageFilter,
			"workers":          cfg.Workers,
			"skip_rule_engine": cfg.SkipRuleEngine,
			"deploy_version":   cfg.DeployVersion,
		}
		runID, err = store.BeginRun(start, params)
		if err != nil {
			contract.LogWarn("Run tracking initialization failed", err)
			runID = 0
		}
	}

	results := orch.AuditBatch(ctx, targets)

	if store != nil && runID > 0 {
		for i := range results {
			if err := store.RecordResult(runID, results[i]); err != nil {
				contract.LogWarn("Failed to record result", err)
			}
		}
		if err := store.EndRun(runID, time.Now(), len(targets)); err != nil {
			contract.LogWarn("Failed to finalize run tracking", err)
		}
	}

	return filterResults(results, cfg), time.Since(start), nil
}

// ExecuteReport re-renders a previously exported CSV report. It serves as
// the main entry point for the 'report' command.
func ExecuteReport(ctx context.Context, cfg *contract.Config) error {
	start := time.Now()
	results, err := outwriter.ReadAuditCSVFile(cfg.InputFile)
	if err != nil {
		return fmt.Errorf("load report: %w", err)
	}
	duration := time.Since(start)
	return outwriter.PrintAuditResults(filterResults(results, cfg), cfg, duration)
}

// ExecuteTargets resolves and prints the audit batch without auditing.
// It serves as the main entry point for the 'targets' command.
func ExecuteTargets(ctx context.Context, cfg *contract.Config) error {
	targets, err := BuildTargets(cfg)
	if err != nil {
		return err
	}
	return outwriter.PrintTargets(targets, cfg)
}

// ExecuteScoring prints the active scoring rules. It serves as the main
// entry point for the 'scoring' command.
func ExecuteScoring(ctx context.Context, cfg *contract.Config) error {
	return outwriter.PrintScoringRules(cfg)
}

// buildOrchestrator wires an orchestrator from the configuration. Sources
// without credentials are left nil so their weight redistributes instead
// of counting as failures. The returned cleanup releases the browser and
// advisor resources.
func buildOrchestrator(ctx context.Context, cfg *contract.Config) (*Orchestrator, func(), error) {
	orch := &Orchestrator{
		Config:   cfg,
		Progress: stderrProgress,
	}

	if cfg.PageQualityKey != "" {
		orch.PageQuality = signals.NewPageQualityClient(cfg.PageQualityKey)
	}
	if cfg.StructuralKey != "" {
		orch.Structural = signals.NewStructuralScanClient(cfg.StructuralKey)
	}

	var cleanups []func()
	cleanup := func() {
		for _, fn := range cleanups {
			fn()
		}
	}

	if !cfg.SkipRuleEngine {
		chrome := browser.NewChromeBrowser(ctx)
		cleanups = append(cleanups, func() { _ = chrome.Close() })
		orch.RuleRunner = ruleengine.NewInvoker(chrome, ruleengine.NewScriptCache(), cfg)
	}

	orch.Advisor = advisor.NoopAdvisor{}
	if cfg.Advise && cfg.AdvisorKey != "" {
		gem, err := advisor.NewGeminiAdvisor(ctx, cfg.AdvisorKey, cfg.AdvisorModel)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		cleanups = append(cleanups, func() { _ = gem.Close() })
		orch.Advisor = gem
	}

	return orch, cleanup, nil
}

// stderrProgress reports batch progress without polluting report output.
func stderrProgress(target schema.AuditTarget, index, total int) {
	fmt.Fprintf(os.Stderr, "[%d/%d] audited %s / %s\n", index+1, total, target.Market, target.PageLabel)
}

// filterResults applies the display filters: min-score keeps only pages
// scoring below the threshold (degraded pages always stay visible), and
// the result limit caps the number of rows.
func filterResults(results []schema.AuditResult, cfg *contract.Config) []schema.AuditResult {
	filtered := results
	if cfg.MinScore > 0 {
		filtered = make([]schema.AuditResult, 0, len(results))
		for i := range results {
			if results[i].CompositeScore < cfg.MinScore || results[i].FullyDegraded {
				filtered = append(filtered, results[i])
			}
		}
	}
	if len(filtered) > cfg.ResultLimit {
		filtered = filtered[:cfg.ResultLimit]
	}
	return filtered
}
