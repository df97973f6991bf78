package contract

import (
	"fmt"
	"maps"
	"sort"
	"strings"
	"time"

	"github.com/pagewatch/a11ymon/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit = 50
	MaxResultLimit     = 500
	DefaultPrecision   = 1

	// DefaultWorkers and MaxWorkers bound batch concurrency. Each worker
	// owns a full browser session and the providers rate-limit, so the
	// ceiling stays low on purpose.
	DefaultWorkers = 2
	MaxWorkers     = 4

	// DefaultSettleWait is how long the rule-engine invoker waits after
	// navigation before injecting the engine. The storefronts render
	// client-side and expose no reliable completion signal, so this is a
	// deliberate bounded wait rather than an event.
	DefaultSettleWait = 3 * time.Second

	// DefaultMaxAttempts is the total rule-engine attempts per target.
	DefaultMaxAttempts = 2
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Page keys recognized in market catalogs, in display order.
var PageKeys = []string{"home", "category", "product"}

// PageLabels maps catalog page keys to display labels.
var PageLabels = map[string]string{
	"home":     "Home",
	"category": "Category",
	"product":  "Product",
}

// LoginPageLabel labels the shared SSO login target.
const LoginPageLabel = "Login (SSO)"

// SourceWeightsRaw holds custom composite weights from the config file.
// Float pointers distinguish "absent" from an explicit zero.
type SourceWeightsRaw struct {
	PageQuality    *float64 `mapstructure:"page_quality"`
	StructuralScan *float64 `mapstructure:"structural_scan"`
	RuleEngine     *float64 `mapstructure:"rule_engine"`
}

// PenaltiesRaw holds custom penalty weights from the config file.
type PenaltiesRaw struct {
	StructuralError *float64 `mapstructure:"structural_error"`
	Contrast        *float64 `mapstructure:"contrast"`
	Critical        *float64 `mapstructure:"critical"`
	Serious         *float64 `mapstructure:"serious"`
}

// Config holds the runtime configuration for an audit.
// This struct is the final, validated config.
type Config struct {
	// Markets maps market name -> page key -> URL.
	Markets map[string]map[string]string

	// MarketFilter limits the audit to the named markets; empty means all.
	MarketFilter []string

	// PageFilter limits the audit to the named page keys; empty means all.
	PageFilter []string

	// ExplicitURLs bypass the market catalog entirely when set.
	ExplicitURLs []string

	// IncludeLogin prepends the shared SSO login target to the batch.
	IncludeLogin bool
	LoginURL     string

	PageQualityKey string
	StructuralKey  string
	AdvisorKey     string
	AdvisorModel   string

	SkipRuleEngine bool
	Advise         bool
	DeployVersion  string
	ScreenshotDir  string

	Workers     int
	ResultLimit int
	MinScore    float64
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	InputFile   string

	SettleWait  time.Duration
	MaxAttempts int

	SourceWeights map[schema.SignalSource]float64
	Penalties     schema.PenaltyWeights

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string

	UseColors bool
	Width     int // Terminal width override (0 = auto-detect)
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config
// file). Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Market         string  `mapstructure:"market"`
	Pages          string  `mapstructure:"pages"`
	Limit          int     `mapstructure:"limit"`
	MinScore       float64 `mapstructure:"min-score"`
	Workers        int     `mapstructure:"workers"`
	Precision      int     `mapstructure:"precision"`
	Output         string  `mapstructure:"output"`
	OutputFile     string  `mapstructure:"output-file"`
	Color          string  `mapstructure:"color"`
	Width          int     `mapstructure:"width"`
	StoreBackend   string  `mapstructure:"store-backend"`
	StoreDBConnect string  `mapstructure:"store-db-connect"`

	// --- Provider credentials (flags or A11YMON_* env) ---
	PageQualityKey string `mapstructure:"page-quality-key"`
	StructuralKey  string `mapstructure:"structural-key"`
	AdvisorKey     string `mapstructure:"advisor-key"`
	AdvisorModel   string `mapstructure:"advisor-model"`

	// --- Fields from auditCmd.Flags() ---
	URLs           []string `mapstructure:"url"`
	IncludeLogin   bool     `mapstructure:"include-login"`
	SkipRuleEngine bool     `mapstructure:"skip-rule-engine"`
	Advise         bool     `mapstructure:"advise"`
	DeployVersion  string   `mapstructure:"deploy-version"`
	ScreenshotDir  string   `mapstructure:"screenshot-dir"`
	SettleWait     string   `mapstructure:"settle-wait"`
	MaxAttempts    int      `mapstructure:"attempts"`

	// --- Fields from reportCmd.Flags() ---
	Input string `mapstructure:"input"`

	// --- Config file blocks ---
	Markets   map[string]map[string]string `mapstructure:"markets"`
	LoginURL  string                       `mapstructure:"login-url"`
	Weights   SourceWeightsRaw             `mapstructure:"weights"`
	Penalties PenaltiesRaw                 `mapstructure:"penalties"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Markets != nil {
		clone.Markets = make(map[string]map[string]string, len(c.Markets))
		for market, pages := range c.Markets {
			clone.Markets[market] = maps.Clone(pages)
		}
	}
	clone.MarketFilter = append([]string(nil), c.MarketFilter...)
	clone.PageFilter = append([]string(nil), c.PageFilter...)
	clone.ExplicitURLs = append([]string(nil), c.ExplicitURLs...)
	if c.SourceWeights != nil {
		clone.SourceWeights = maps.Clone(c.SourceWeights)
	}
	return &clone
}

// MarketNames returns the configured market names in sorted order for
// deterministic batch construction and display.
func (c *Config) MarketNames() []string {
	names := make([]string, 0, len(c.Markets))
	for name := range c.Markets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and populates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processMarkets(cfg, input); err != nil {
		return err
	}
	if err := processSourceWeights(cfg, input); err != nil {
		return err
	}
	if err := processPenalties(cfg, input); err != nil {
		return err
	}
	return validateSignalPaths(cfg)
}

// validateSimpleInputs processes and validates all non-catalog fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.InputFile = input.Input
	cfg.PageQualityKey = strings.TrimSpace(input.PageQualityKey)
	cfg.StructuralKey = strings.TrimSpace(input.StructuralKey)
	cfg.AdvisorKey = strings.TrimSpace(input.AdvisorKey)
	cfg.AdvisorModel = strings.TrimSpace(input.AdvisorModel)
	cfg.SkipRuleEngine = input.SkipRuleEngine
	cfg.Advise = input.Advise
	cfg.DeployVersion = strings.TrimSpace(input.DeployVersion)
	cfg.ScreenshotDir = strings.TrimSpace(input.ScreenshotDir)
	cfg.IncludeLogin = input.IncludeLogin
	cfg.Width = input.Width

	for _, u := range input.URLs {
		if trimmed := strings.TrimSpace(u); trimmed != "" {
			cfg.ExplicitURLs = append(cfg.ExplicitURLs, trimmed)
		}
	}

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 2. Workers Validation ---
	// Every worker holds a live browser session and the signal providers
	// throttle, so the pool is hard-capped.
	if input.Workers <= 0 || input.Workers > MaxWorkers {
		return fmt.Errorf("workers must be between 1 and %d (received %d)", MaxWorkers, input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 3. MinScore Validation ---
	if input.MinScore < 0 || input.MinScore > 100 {
		return fmt.Errorf("min-score must be between 0 and 100 (received %.1f)", input.MinScore)
	}
	cfg.MinScore = input.MinScore

	// --- 4. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", cfg.Output)
	}

	// --- 5. Store Backend Validation ---
	cfg.StoreBackend = schema.DatabaseBackend(strings.ToLower(input.StoreBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	if err := ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect); err != nil {
		return err
	}

	// --- 6. Rule-Engine Tuning ---
	cfg.SettleWait = DefaultSettleWait
	if input.SettleWait != "" {
		wait, err := time.ParseDuration(input.SettleWait)
		if err != nil {
			return fmt.Errorf("invalid settle-wait '%s': %w", input.SettleWait, err)
		}
		if wait < 0 || wait > 30*time.Second {
			return fmt.Errorf("settle-wait must be between 0s and 30s (received %s)", wait)
		}
		cfg.SettleWait = wait
	}

	cfg.MaxAttempts = input.MaxAttempts
	if cfg.MaxAttempts < 1 || cfg.MaxAttempts > 5 {
		return fmt.Errorf("attempts must be between 1 and 5 (received %d)", cfg.MaxAttempts)
	}

	return nil
}

// processMarkets merges the config-file market catalog over the defaults
// and applies the market/pages filters.
func processMarkets(cfg *Config, input *ConfigRawInput) error {
	cfg.Markets = DefaultMarkets()
	for market, pages := range input.Markets {
		merged, ok := cfg.Markets[market]
		if !ok {
			merged = make(map[string]string, len(pages))
			cfg.Markets[market] = merged
		}
		for key, url := range pages {
			if !validPageKey(key) {
				return fmt.Errorf("market %q has unknown page key %q. must be one of %s", market, key, strings.Join(PageKeys, ", "))
			}
			merged[key] = url
		}
	}

	cfg.LoginURL = DefaultLoginURL
	if input.LoginURL != "" {
		cfg.LoginURL = input.LoginURL
	}

	if input.Market != "" {
		for _, m := range strings.Split(input.Market, ",") {
			m = strings.TrimSpace(m)
			if m == "" {
				continue
			}
			if _, ok := cfg.Markets[m]; !ok {
				return fmt.Errorf("unknown market %q. configured markets: %s", m, strings.Join(marketKeys(cfg.Markets), ", "))
			}
			cfg.MarketFilter = append(cfg.MarketFilter, m)
		}
	}

	if input.Pages != "" {
		for _, p := range strings.Split(input.Pages, ",") {
			p = strings.ToLower(strings.TrimSpace(p))
			if p == "" {
				continue
			}
			if !validPageKey(p) {
				return fmt.Errorf("unknown page type %q. must be one of %s", p, strings.Join(PageKeys, ", "))
			}
			cfg.PageFilter = append(cfg.PageFilter, p)
		}
	}

	return nil
}

// processSourceWeights merges custom composite weights over the defaults
// and validates that they sum to 1.0.
func processSourceWeights(cfg *Config, input *ConfigRawInput) error {
	weights := schema.DefaultSourceWeights()

	customized := false
	apply := func(source schema.SignalSource, v *float64) error {
		if v == nil {
			return nil
		}
		if *v < 0 || *v > 1 {
			return fmt.Errorf("weight for %s must be between 0 and 1 (received %.3f)", source, *v)
		}
		weights[source] = *v
		customized = true
		return nil
	}

	if err := apply(schema.SourcePageQuality, input.Weights.PageQuality); err != nil {
		return err
	}
	if err := apply(schema.SourceStructuralScan, input.Weights.StructuralScan); err != nil {
		return err
	}
	if err := apply(schema.SourceRuleEngine, input.Weights.RuleEngine); err != nil {
		return err
	}

	if customized {
		sum := 0.0
		for _, w := range weights {
			sum += w
		}
		if sum < 0.999 || sum > 1.001 {
			return fmt.Errorf("custom source weights must sum to 1.0, got %.3f", sum)
		}
	}

	cfg.SourceWeights = weights
	return nil
}

// processPenalties merges custom penalty weights over the defaults and
// enforces the ordering invariants between them.
func processPenalties(cfg *Config, input *ConfigRawInput) error {
	p := schema.DefaultPenaltyWeights()

	if input.Penalties.StructuralError != nil {
		p.StructuralError = *input.Penalties.StructuralError
	}
	if input.Penalties.Contrast != nil {
		p.Contrast = *input.Penalties.Contrast
	}
	if input.Penalties.Critical != nil {
		p.Critical = *input.Penalties.Critical
	}
	if input.Penalties.Serious != nil {
		p.Serious = *input.Penalties.Serious
	}

	if p.StructuralError <= 0 || p.Contrast <= 0 || p.Critical <= 0 || p.Serious <= 0 {
		return fmt.Errorf("penalty weights must all be positive")
	}
	if p.StructuralError <= p.Contrast {
		return fmt.Errorf("structural_error penalty (%.2f) must exceed contrast penalty (%.2f): errors are full blockers", p.StructuralError, p.Contrast)
	}
	if p.Critical <= p.Serious {
		return fmt.Errorf("critical penalty (%.2f) must exceed serious penalty (%.2f)", p.Critical, p.Serious)
	}

	cfg.Penalties = p
	return nil
}

// validateSignalPaths is the fatal-only startup gate: with no provider key
// configured and the rule engine disabled there is no signal path at all,
// so no meaningful audit is possible.
func validateSignalPaths(cfg *Config) error {
	if cfg.PageQualityKey == "" && cfg.StructuralKey == "" && cfg.SkipRuleEngine {
		return fmt.Errorf("no signal source configured: set page-quality-key or structural-key, or enable the rule engine")
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database
// connection strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

func validPageKey(key string) bool {
	for _, k := range PageKeys {
		if k == key {
			return true
		}
	}
	return false
}

func marketKeys(markets map[string]map[string]string) []string {
	keys := make([]string, 0, len(markets))
	for k := range markets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
