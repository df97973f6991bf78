// Package ruleengine drives the in-page accessibility rule engine inside a
// live browser session and converts its violation report into a signal
// reading.
package ruleengine

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/pagewatch/a11ymon/internal/contract"
)

// DefaultScriptURL is the pinned CDN build of the rule engine. Pinned so
// every audit in a batch runs the exact same rule set.
const DefaultScriptURL = "https://cdnjs.cloudflare.com/ajax/libs/axe-core/4.7.2/axe.min.js"

// DefaultScriptTTL is how long a fetched engine script stays cached. The
// script is ~500KB and immutable at a pinned version, so the TTL only
// guards against a process that outlives a CDN fix.
const DefaultScriptTTL = time.Hour

// ScriptCache fetches the engine script over HTTP and caches it in memory.
// Safe for concurrent use by the worker pool.
type ScriptCache struct {
	URL    string
	TTL    time.Duration
	Client *http.Client

	mu        sync.Mutex
	script    string
	fetchedAt time.Time
}

var _ contract.ScriptSource = &ScriptCache{}

// NewScriptCache builds a cache for the pinned CDN build.
func NewScriptCache() *ScriptCache {
	return &ScriptCache{
		URL:    DefaultScriptURL,
		TTL:    DefaultScriptTTL,
		Client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Script returns the engine source, fetching it when the cache is empty or
// stale. A stale cached copy is served if the refresh fetch fails, since a
// slightly old engine beats no engine.
func (c *ScriptCache) Script(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.script != "" && time.Since(c.fetchedAt) < c.TTL {
		return c.script, nil
	}

	script, err := c.fetch(ctx)
	if err != nil {
		if c.script != "" {
			return c.script, nil
		}
		return "", err
	}

	c.script = script
	c.fetchedAt = time.Now()
	return script, nil
}

func (c *ScriptCache) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch rule engine script: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("rule engine script fetch returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read rule engine script: %w", err)
	}
	if len(body) == 0 {
		return "", fmt.Errorf("rule engine script fetch returned empty body")
	}
	return string(body), nil
}
