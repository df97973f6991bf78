package core

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/pagewatch/a11ymon/internal/contract"
	"github.com/pagewatch/a11ymon/schema"
)

// BuildTargets expands the configuration into the ordered audit batch.
// Explicit URLs bypass the catalog entirely. Otherwise the batch covers
// the configured markets and page types, markets sorted alphabetically and
// pages in catalog order, so two runs over the same config produce the
// same batch in the same order.
func BuildTargets(cfg *contract.Config) ([]schema.AuditTarget, error) {
	if len(cfg.ExplicitURLs) > 0 {
		return explicitTargets(cfg.ExplicitURLs)
	}

	markets := cfg.MarketFilter
	if len(markets) == 0 {
		markets = cfg.MarketNames()
	}

	pages := cfg.PageFilter
	if len(pages) == 0 {
		pages = contract.PageKeys
	}

	var targets []schema.AuditTarget

	// The shared login page is market-independent and audited once.
	if cfg.IncludeLogin {
		targets = append(targets, schema.AuditTarget{
			Market:    "Global",
			PageLabel: contract.LoginPageLabel,
			URL:       cfg.LoginURL,
		})
	}

	for _, market := range markets {
		catalog := cfg.Markets[market]
		for _, page := range pages {
			pageURL, ok := catalog[page]
			if !ok || pageURL == "" {
				continue
			}
			targets = append(targets, schema.AuditTarget{
				Market:    market,
				PageLabel: contract.PageLabels[page],
				URL:       pageURL,
			})
		}
	}

	if len(targets) == 0 {
		return nil, fmt.Errorf("no audit targets match the given market and page filters")
	}
	return targets, nil
}

// explicitTargets wraps ad hoc URLs in targets. The market and page labels
// are synthesized since ad hoc pages have no catalog entry.
func explicitTargets(urls []string) ([]schema.AuditTarget, error) {
	targets := make([]schema.AuditTarget, 0, len(urls))
	for _, raw := range urls {
		parsed, err := url.Parse(raw)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return nil, fmt.Errorf("invalid audit URL %q: must be absolute with scheme and host", raw)
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return nil, fmt.Errorf("invalid audit URL %q: scheme must be http or https", raw)
		}
		label := parsed.Path
		if label == "" || label == "/" {
			label = "/"
		}
		targets = append(targets, schema.AuditTarget{
			Market:    "Ad hoc",
			PageLabel: strings.TrimSuffix(parsed.Host+label, "/"),
			URL:       raw,
		})
	}
	return targets, nil
}
