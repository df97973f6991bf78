package signals

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pagewatch/a11ymon/internal/contract"
	"github.com/pagewatch/a11ymon/schema"
)

// DefaultStructuralURL is the WAVE API endpoint.
const DefaultStructuralURL = "https://wave.webaim.org/api/request"

// StructuralTimeout bounds one structural scan call.
const StructuralTimeout = 35 * time.Second

// structuralResponse mirrors the category counters we read from the
// provider payload.
type structuralResponse struct {
	Categories map[string]struct {
		Count json.Number `json:"count"`
	} `json:"categories"`
}

// StructuralScanClient fetches structural error and contrast counts from
// the structural scan provider.
type StructuralScanClient struct {
	// BaseURL overrides the provider endpoint, for tests.
	BaseURL string
	APIKey  string
	Client  *http.Client
}

var _ contract.SignalClient = &StructuralScanClient{}

// NewStructuralScanClient builds a client with the production endpoint.
func NewStructuralScanClient(apiKey string) *StructuralScanClient {
	return &StructuralScanClient{
		BaseURL: DefaultStructuralURL,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: StructuralTimeout},
	}
}

// Source identifies this client in readings and component scores.
func (c *StructuralScanClient) Source() schema.SignalSource {
	return schema.SourceStructuralScan
}

// Fetch runs one provider call for the target URL. A missing category is
// read as zero; the provider omits empty categories on clean pages.
func (c *StructuralScanClient) Fetch(ctx context.Context, target string) schema.SignalReading {
	if c.APIKey == "" {
		return schema.Unavailable(c.Source(), fmt.Errorf("no API key configured"))
	}

	q := url.Values{}
	q.Set("key", c.APIKey)
	q.Set("url", target)

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

	var payload structuralResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return schema.Unavailable(c.Source(), fmt.Errorf("decode response: %w", err))
	}

	return schema.SignalReading{
		Source:    c.Source(),
		Available: true,
		RawMetrics: map[schema.MetricKey]int{
			schema.MetricErrors:   categoryCount(payload, "error"),
			schema.MetricContrast: categoryCount(payload, "contrast"),
		},
	}
}

// categoryCount extracts one category counter, tolerating both numeric and
// string-encoded counts. Anything unparseable counts as zero.
func categoryCount(payload structuralResponse, name string) int {
	cat, ok := payload.Categories[name]
	if !ok {
		return 0
	}
	n, err := cat.Count.Int64()
	if err != nil {
		return 0
	}
	if n < 0 {
		return 0
	}
	return int(n)
}
