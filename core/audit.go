package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pagewatch/a11ymon/internal/contract"
	"github.com/pagewatch/a11ymon/schema"
)

// Orchestrator runs the full audit pipeline for targets. Signal fields
// left nil are treated as not configured and excluded from aggregation
// entirely; this is distinct from a configured source failing, which
// degrades the result.
type Orchestrator struct {
	Config      *contract.Config
	PageQuality contract.SignalClient
	Structural  contract.SignalClient
	RuleRunner  contract.RuleRunner
	Advisor     contract.Advisor
	Progress    contract.ProgressFunc
}

// AuditBatch audits all targets through a bounded worker pool and returns
// one result per target, in target order. Failures are isolated: a target
// whose audit panics or fails in every source still yields a (degraded)
// result, and neighboring targets proceed untouched.
func (o *Orchestrator) AuditBatch(ctx context.Context, targets []schema.AuditTarget) []schema.AuditResult {
	results := make([]schema.AuditResult, len(targets))
	indexCh := make(chan int, len(targets))

	var completed sync.Map
	var wg sync.WaitGroup
	for range o.Config.Workers {
		wg.Go(func() {
			for idx := range indexCh {
				if ctx.Err() != nil {
					return
				}
				// Each goroutine writes to a unique index, which is safe.
				results[idx] = o.auditIsolated(ctx, targets[idx])
				completed.Store(idx, true)
				if o.Progress != nil {
					o.Progress(targets[idx], idx, len(targets))
				}
			}
		})
	}

	for i := range targets {
		indexCh <- i
	}
	close(indexCh)
	wg.Wait()

	// Targets skipped by cancellation still get a well-formed result.
	for i := range results {
		if _, ok := completed.Load(i); !ok {
			results[i] = o.fallbackResult(targets[i], fmt.Errorf("audit cancelled"))
		}
	}
	return results
}

// auditIsolated wraps AuditOne with a panic barrier so one misbehaving
// target cannot take down the batch.
func (o *Orchestrator) auditIsolated(ctx context.Context, target schema.AuditTarget) (result schema.AuditResult) {
	defer func() {
		if r := recover(); r != nil {
			contract.LogWarn(fmt.Sprintf("audit of %s panicked", target.URL), fmt.Errorf("%v", r))
			result = o.fallbackResult(target, fmt.Errorf("audit panicked: %v", r))
		}
	}()
	return o.AuditOne(ctx, target)
}

// AuditOne runs every configured signal source against a single target and
// assembles the scored result. Sources run sequentially; batch throughput
// comes from the worker pool, and the providers throttle per-key anyway.
func (o *Orchestrator) AuditOne(ctx context.Context, target schema.AuditTarget) schema.AuditResult {
	var readings []schema.SignalReading

	if o.PageQuality != nil {
		readings = append(readings, o.PageQuality.Fetch(ctx, target.URL))
	}
	if o.Structural != nil {
		readings = append(readings, o.Structural.Fetch(ctx, target.URL))
	}

	var ruleReading schema.SignalReading
	haveRuleReading := false
	if o.RuleRunner != nil {
		ruleReading = o.RuleRunner.Run(ctx, target.URL)
		haveRuleReading = true
		readings = append(readings, ruleReading)
	}

	agg := Aggregate(readings, o.Config.SourceWeights, o.Config.Penalties)

	result := schema.AuditResult{
		Market:          target.Market,
		PageLabel:       target.PageLabel,
		URL:             target.URL,
		CompositeScore:  agg.Composite,
		Degraded:        agg.Degraded,
		FullyDegraded:   agg.FullyDegraded,
		ComponentScores: agg.ComponentScores,
		DeployVersion:   o.Config.DeployVersion,
		Timestamp:       time.Now().UTC(),
	}

	ruleErr := ""
	for _, r := range readings {
		switch r.Source {
		case schema.SourcePageQuality:
			if r.Available {
				result.TopFailed = r.TopFailed
			}
		case schema.SourceStructuralScan:
			if r.Available {
				result.StructuralErrors = r.RawMetrics[schema.MetricErrors]
				result.ContrastIssues = r.RawMetrics[schema.MetricContrast]
			}
		case schema.SourceRuleEngine:
			if !r.Available {
				ruleErr = r.Error
			}
		}
	}

	if haveRuleReading && ruleReading.Available {
		result.CriticalCount = ruleReading.RawMetrics[schema.MetricCritical]
		result.SeriousCount = ruleReading.RawMetrics[schema.MetricSerious]
		result.ModerateCount = ruleReading.RawMetrics[schema.MetricModerate]
		result.MinorCount = ruleReading.RawMetrics[schema.MetricMinor]
		result.TotalFindings = ruleReading.RawMetrics[schema.MetricTotal]
		result.Screenshot = ruleReading.Screenshot
		result.Findings = ClassifyFindings(ruleReading.Findings)
		o.attachAdvice(ctx, target, result.Findings)
	}

	result.Recommendations = Recommend(RecommendationInput{
		Composite:        result.CompositeScore,
		FullyDegraded:    result.FullyDegraded,
		StructuralErrors: result.StructuralErrors,
		ContrastIssues:   result.ContrastIssues,
		CriticalCount:    result.CriticalCount,
		SeriousCount:     result.SeriousCount,
		RuleEngineError:  ruleErr,
	})

	return result
}

// attachAdvice fills in advisory text per finding when advice is enabled.
func (o *Orchestrator) attachAdvice(ctx context.Context, target schema.AuditTarget, findings []schema.Finding) {
	if !o.Config.Advise || o.Advisor == nil {
		return
	}
	pageContext := fmt.Sprintf("%s %s", target.Market, target.PageLabel)
	for i := range findings {
		findings[i].Advice = o.Advisor.Advise(ctx, findings[i], pageContext)
	}
}

// fallbackResult is a fully degraded result for a target whose audit never
// produced readings.
func (o *Orchestrator) fallbackResult(target schema.AuditTarget, err error) schema.AuditResult {
	return schema.AuditResult{
		Market:        target.Market,
		PageLabel:     target.PageLabel,
		URL:           target.URL,
		Degraded:      true,
		FullyDegraded: true,
		Recommendations: []string{
			"Audit incomplete: " + contract.TruncateErr(err),
		},
		DeployVersion: o.Config.DeployVersion,
		Timestamp:     time.Now().UTC(),
	}
}
