// Package config handles loading and validating the gateway configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Admin check modes.
const (
	AdminCheckSubjectAccessReview = "subjectaccessreview"
	AdminCheckDisabled            = "disabled"
)

// Config is the top-level gateway configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Perses     PersesConfig     `yaml:"perses"`
	Kubernetes KubernetesConfig `yaml:"kubernetes"`
	Cache      CacheConfig      `yaml:"cache"`
	Warmup     WarmupConfig     `yaml:"warmup"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// PersesConfig defines how the gateway reaches Perses.
type PersesConfig struct {
	URL       string          `yaml:"url"`
	BasePath  string          `yaml:"base_path"`
	Token     string          `yaml:"token"`
	TokenFile string          `yaml:"token_file"`
	Timeout   time.Duration   `yaml:"timeout"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig defines Perses API rate limiting settings.
type RateLimitConfig struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

// KubernetesConfig defines cluster access. When disabled, projects are
// taken from Perses and nobody is treated as an admin unless the request
// says so.
type KubernetesConfig struct {
	Enabled              bool   `yaml:"enabled"`
	Kubeconfig           string `yaml:"kubeconfig"`
	ProjectLabelSelector string `yaml:"project_label_selector"`
	AdminCheck           string `yaml:"admin_check"` // subjectaccessreview, disabled
}

// CacheConfig defines datasource cache settings.
type CacheConfig struct {
	TTL      time.Duration `yaml:"ttl"`
	Coalesce bool          `yaml:"coalesce"`
}

// WarmupConfig defines periodic datasource cache warmup.
type WarmupConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}

// TelemetryConfig defines OpenTelemetry export settings.
type TelemetryConfig struct {
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	Insecure     bool   `yaml:"insecure"`
	ServiceName  string `yaml:"service_name"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// AdminCheckEnabled reports whether admin status is decided by the cluster.
func (c *Config) AdminCheckEnabled() bool {
	return c.Kubernetes.Enabled && c.Kubernetes.AdminCheck == AdminCheckSubjectAccessReview
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyPersesDefaults(&cfg.Perses)
	applyKubernetesDefaults(&cfg.Kubernetes)
	applyCacheDefaults(&cfg.Cache)
	applyWarmupDefaults(&cfg.Warmup)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyPersesDefaults(p *PersesConfig) {
	if p.BasePath == "" {
		p.BasePath = "/perses/api"
	}
	if p.Timeout == 0 {
		p.Timeout = 30 * time.Second
	}
	if p.RateLimit.PerSecond == 0 {
		p.RateLimit.PerSecond = 20
	}
	if p.RateLimit.Burst == 0 {
		p.RateLimit.Burst = 40
	}
}

func applyKubernetesDefaults(k *KubernetesConfig) {
	if k.ProjectLabelSelector == "" {
		k.ProjectLabelSelector = "opendatahub.io/dashboard=true"
	}
	if k.AdminCheck == "" {
		k.AdminCheck = AdminCheckSubjectAccessReview
	}
}

func applyCacheDefaults(c *CacheConfig) {
	if c.TTL == 0 {
		c.TTL = 5 * time.Minute
	}
}

func applyWarmupDefaults(w *WarmupConfig) {
	if w.Interval == 0 {
		w.Interval = 4 * time.Minute
	}
}

func applyTelemetryDefaults(t *TelemetryConfig) {
	if t.ServiceName == "" {
		t.ServiceName = "perses-gateway"
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Perses.URL == "" {
		errs = append(errs, fmt.Errorf("perses.url is required"))
	} else if u, err := url.Parse(cfg.Perses.URL); err != nil ||
		(u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("perses.url must be an http(s) URL (got %q)", cfg.Perses.URL))
	}
	if cfg.Perses.Token != "" && cfg.Perses.TokenFile != "" {
		errs = append(errs, fmt.Errorf("perses.token and perses.token_file are mutually exclusive"))
	}
	if cfg.Perses.Timeout < 0 {
		errs = append(errs, fmt.Errorf("perses.timeout must not be negative"))
	}
	if cfg.Perses.RateLimit.PerSecond < 0 || cfg.Perses.RateLimit.Burst < 0 {
		errs = append(errs, fmt.Errorf("perses.rate_limit values must not be negative"))
	}

	switch cfg.Kubernetes.AdminCheck {
	case AdminCheckSubjectAccessReview, AdminCheckDisabled:
	default:
		errs = append(
			errs,
			fmt.Errorf(
				"kubernetes.admin_check must be one of: %s, %s (got %q)",
				AdminCheckSubjectAccessReview, AdminCheckDisabled, cfg.Kubernetes.AdminCheck,
			),
		)
	}

	if cfg.Cache.TTL < 0 {
		errs = append(errs, fmt.Errorf("cache.ttl must not be negative"))
	}
	if cfg.Warmup.Enabled && cfg.Warmup.Interval < time.Second {
		errs = append(errs, fmt.Errorf("warmup.interval must be at least 1s"))
	}

	return errors.Join(errs...)
}
