// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/pagewatch/a11ymon/schema"
)

// SignalClient is one external accessibility-signal provider. Fetch never
// returns an error: provider failures are represented as unavailable
// readings so the aggregator can redistribute weight instead of aborting.
type SignalClient interface {
	// Source identifies which provider this client wraps.
	Source() schema.SignalSource

	// Fetch audits the given URL and returns a normalized reading.
	Fetch(ctx context.Context, url string) schema.SignalReading
}

// RuleRunner drives the in-page rule engine against a target URL.
// Like SignalClient.Fetch, exhausted retries surface as an unavailable
// reading rather than an error.
type RuleRunner interface {
	Run(ctx context.Context, url string) schema.SignalReading
}

// BrowserSession is one isolated browser session. Sessions are never
// reused across attempts or targets; every session must be closed exactly
// once on every exit path.
type BrowserSession interface {
	// Navigate loads the given URL in the session.
	Navigate(ctx context.Context, url string) error

	// EvaluateScript runs a script in the page context and decodes the
	// resulting value into out. Pass nil to discard the result.
	EvaluateScript(ctx context.Context, code string, out any) error

	// EvaluateAsyncScript runs a promise-returning script in the page
	// context, waits for completion, and decodes the settled value into out.
	EvaluateAsyncScript(ctx context.Context, code string, out any) error

	// Screenshot captures the current viewport as PNG bytes.
	Screenshot(ctx context.Context) ([]byte, error)

	// Close releases the session and its underlying browser resources.
	Close() error
}

// Browser creates isolated browser sessions. This allows the rule-engine
// invoker to be tested without a real browser.
type Browser interface {
	NewSession(ctx context.Context) (BrowserSession, error)
}

// Advisor generates remediation advice for a finding. Implementations are
// unavailable-tolerant: any failure yields a placeholder string, never an
// error, so advisory text can never degrade an audit.
type Advisor interface {
	Advise(ctx context.Context, finding schema.Finding, pageContext string) string
	Close() error
}

// ScriptSource supplies the in-page rule-engine script. Implementations
// cache the script process-wide since it is static content.
type ScriptSource interface {
	Script(ctx context.Context) (string, error)
}

// ResultStore persists audit runs and their per-target results.
// This allows the store layer to be mocked for testing.
type ResultStore interface {
	// BeginRun creates a new audit run and returns its unique ID.
	BeginRun(startTime time.Time, params map[string]any) (int64, error)

	// EndRun updates the audit run with completion data.
	EndRun(runID int64, endTime time.Time, totalTargets int) error

	// RecordResult stores one target's audit result under a run.
	RecordResult(runID int64, result schema.AuditResult) error

	// GetStatus returns status information about the store.
	GetStatus() (schema.StoreStatus, error)

	// GetAllRuns returns every recorded audit run.
	GetAllRuns() ([]schema.AuditRunRecord, error)

	// GetAllResults returns every recorded per-target result.
	GetAllResults() ([]schema.AuditRecord, error)

	// Clear removes all stored runs and results.
	Clear() error

	// Close closes the underlying connection.
	Close() error
}

// StoreManager hands out the configured result store, if any.
type StoreManager interface {
	GetResultStore() ResultStore
}

// ProgressFunc reports incremental batch progress: the target being
// audited and its position within the batch.
type ProgressFunc func(target schema.AuditTarget, index, total int)
