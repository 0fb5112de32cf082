package main

import "errors"

// KnownMetrics is the set of metric names exported by perses-gateway plus
// recording rule names referenced in dashboards and alerts. Histograms are
// listed by base name; validation strips the _bucket, _sum and _count
// suffixes.
var KnownMetrics = map[string]bool{
	// HTTP metrics.
	"pgw_http_request_duration_seconds": true,
	"pgw_http_requests_total":           true,

	// Health metrics.
	"pgw_healthz_up": true,
	"pgw_readyz_up":  true,

	// Perses upstream metrics.
	"pgw_perses_requests_total":           true,
	"pgw_perses_request_duration_seconds": true,
	"pgw_perses_rate_limit_waits_total":   true,

	// Datasource cache metrics.
	"pgw_datasource_cache_lookups_total": true,
	"pgw_datasource_cache_entries":       true,

	// Warmup metrics.
	"pgw_warmup_runs_total":        true,
	"pgw_warmup_duration_seconds":  true,
	"pgw_warmup_datasources_total": true,

	// Recording rules.
	"pgw:http_requests:rate5m":            true,
	"pgw:http_errors:rate5m":              true,
	"pgw:perses_requests:rate5m":          true,
	"pgw:perses_errors:rate5m":            true,
	"pgw:datasource_cache_lookups:rate5m": true,
	"pgw:datasource_cache_hits:rate5m":    true,

	// Standard Prometheus metrics referenced in dashboards.
	"up":                         true,
	"process_start_time_seconds": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}
