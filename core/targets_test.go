package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagewatch/a11ymon/internal/contract"
	"github.com/pagewatch/a11ymon/schema"
)

func targetConfig() *contract.Config {
	return &contract.Config{
		Markets: map[string]map[string]string{
			"France": {
				"home":     "https://shop.example.fr/",
				"category": "https://shop.example.fr/office",
				"product":  "https://shop.example.fr/pen-123",
			},
			"UK": {
				"home":    "https://shop.example.co.uk/",
				"product": "https://shop.example.co.uk/pen-123",
			},
		},
		LoginURL: "https://welcome.example.com/login",
	}
}

func TestBuildTargetsFullCatalog(t *testing.T) {
	cfg := targetConfig()

	targets, err := BuildTargets(cfg)

	require.NoError(t, err)
	// France has three pages, UK lacks a category entry.
	require.Len(t, targets, 5)

	// Markets sorted alphabetically, pages in catalog order.
	assert.Equal(t, schema.AuditTarget{Market: "France", PageLabel: "Home", URL: "https://shop.example.fr/"}, targets[0])
	assert.Equal(t, "Category", targets[1].PageLabel)
	assert.Equal(t, "Product", targets[2].PageLabel)
	assert.Equal(t, "UK", targets[3].Market)
	assert.Equal(t, "Home", targets[3].PageLabel)
	assert.Equal(t, "Product", targets[4].PageLabel)
}

func TestBuildTargetsFilters(t *testing.T) {
	cfg := targetConfig()
	cfg.MarketFilter = []string{"UK"}
	cfg.PageFilter = []string{"home"}

	targets, err := BuildTargets(cfg)

	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, "UK", targets[0].Market)
	assert.Equal(t, "https://shop.example.co.uk/", targets[0].URL)
}

func TestBuildTargetsIncludeLogin(t *testing.T) {
	cfg := targetConfig()
	cfg.IncludeLogin = true
	cfg.MarketFilter = []string{"France"}
	cfg.PageFilter = []string{"home"}

	targets, err := BuildTargets(cfg)

	require.NoError(t, err)
	require.Len(t, targets, 2)
	assert.Equal(t, "Global", targets[0].Market)
	assert.Equal(t, contract.LoginPageLabel, targets[0].PageLabel)
	assert.Equal(t, cfg.LoginURL, targets[0].URL)
	assert.Equal(t, "France", targets[1].Market)
}

func TestBuildTargetsNoMatches(t *testing.T) {
	cfg := targetConfig()
	cfg.MarketFilter = []string{"UK"}
	cfg.PageFilter = []string{"category"}

	_, err := BuildTargets(cfg)
	assert.ErrorContains(t, err, "no audit targets match")
}

func TestBuildTargetsExplicitURLs(t *testing.T) {
	cfg := targetConfig()
	cfg.ExplicitURLs = []string{
		"https://example.com/landing",
		"http://staging.example.com/",
	}

	targets, err := BuildTargets(cfg)

	require.NoError(t, err)
	require.Len(t, targets, 2)
	assert.Equal(t, "Ad hoc", targets[0].Market)
	assert.Equal(t, "example.com/landing", targets[0].PageLabel)
	assert.Equal(t, "staging.example.com", targets[1].PageLabel)
}

func TestBuildTargetsExplicitURLValidation(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"relative path", "/just/a/path"},
		{"missing scheme", "example.com/page"},
		{"unsupported scheme", "ftp://example.com/file"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := targetConfig()
			cfg.ExplicitURLs = []string{tc.url}
			_, err := BuildTargets(cfg)
			assert.ErrorContains(t, err, "invalid audit URL")
		})
	}
}
