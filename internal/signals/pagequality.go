// Package signals implements the remote signal source clients. Each client
// turns one provider response into a schema.SignalReading; provider failures
// become unavailable readings, never errors that abort an audit.
package signals

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/pagewatch/a11ymon/internal/contract"
	"github.com/pagewatch/a11ymon/schema"
)

// DefaultPageQualityURL is the PageSpeed Insights v5 endpoint.
const DefaultPageQualityURL = "https://www.googleapis.com/pagespeedonline/v5/runPagespeed"

// PageQualityTimeout bounds one provider call. The provider runs a full
// headless render on its side, so this is generous.
const PageQualityTimeout = 45 * time.Second

// pageQualityResponse mirrors the slice of the provider payload we read.
// The score is a pointer so an absent category score is distinguishable
// from a genuine zero.
type pageQualityResponse struct {
	LighthouseResult struct {
		Categories struct {
			Accessibility struct {
				Score *float64 `json:"score"`
			} `json:"accessibility"`
		} `json:"categories"`
		Audits map[string]struct {
			Score *float64 `json:"score"`
			Title string   `json:"title"`
		} `json:"audits"`
	} `json:"lighthouseResult"`
}

// PageQualityClient fetches the accessibility category score from the
// page-quality provider.
type PageQualityClient struct {
	// BaseURL overrides the provider endpoint, for tests.
	BaseURL string
	APIKey  string
	Client  *http.Client
}

var _ contract.SignalClient = &PageQualityClient{}

// NewPageQualityClient builds a client with the production endpoint.
func NewPageQualityClient(apiKey string) *PageQualityClient {
	return &PageQualityClient{
		BaseURL: DefaultPageQualityURL,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: PageQualityTimeout},
	}
}

// Source identifies this client in readings and component scores.
func (c *PageQualityClient) Source() schema.SignalSource {
	return schema.SourcePageQuality
}

// Fetch runs one provider call for the target URL. Any failure mode,
// transport error, non-200 status, or a payload without the accessibility
// score, yields an unavailable reading.
func (c *PageQualityClient) Fetch(ctx context.Context, target string) schema.SignalReading {
	if c.APIKey == "" {
		return schema.Unavailable(c.Source(), fmt.Errorf("no API key configured"))
	}

	q := url.Values{}
	q.Set("url", target)
	q.Set("category", "accessibility")
	q.Set("onlyCategories", "accessibility")
	q.Set("strategy", "desktop")
	q.Set("key", c.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return schema.Unavailable(c.Source(), err)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return schema.Unavailable(c.Source(), err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return schema.Unavailable(c.Source(), fmt.Errorf("provider returned status %d", resp.StatusCode))
	}

	var payload pageQualityResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return schema.Unavailable(c.Source(), fmt.Errorf("decode response: %w", err))
	}

	score := payload.LighthouseResult.Categories.Accessibility.Score
	if score == nil {
		return schema.Unavailable(c.Source(), fmt.Errorf("response missing accessibility score"))
	}

	// Audits scored below 1 are the failed sub-checks. Title-sorted so
	// the summary is stable across runs.
	var failed []string
	for _, audit := range payload.LighthouseResult.Audits {
		if audit.Score != nil && *audit.Score < 1 {
			title := audit.Title
			if title == "" {
				title = "Unknown"
			}
			failed = append(failed, title)
		}
	}
	sort.Strings(failed)

	return schema.SignalReading{
		Source:     c.Source(),
		Available:  true,
		Percentage: *score * 100,
		TopFailed:  failed,
	}
}
