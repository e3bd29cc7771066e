// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	domain "github.com/donaldgifford/notice-tracker/pkg/types"
)

// Config is the top-level application configuration.
type Config struct {
	Server    ServerConfig          `yaml:"server"`
	Scheduler SchedulerConfig       `yaml:"scheduler"`
	Fetch     FetchConfig           `yaml:"fetch"`
	Telegram  TelegramConfig        `yaml:"telegram"`
	Store     StoreConfig           `yaml:"store"`
	Telemetry TelemetryConfig       `yaml:"telemetry"`
	Logging   LoggingConfig         `yaml:"logging"`
	Sites     map[string]SiteConfig `yaml:"sites"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	// ForceToken guards the manual check trigger. Leaving it empty disables
	// the check and the trigger accepts any caller.
	ForceToken string `yaml:"force_token"`
}

// SchedulerConfig defines the check pass cadence.
type SchedulerConfig struct {
	CheckInterval time.Duration `yaml:"check_interval"`
	// SkipFirstRun suppresses the pass that normally fires as soon as the
	// scheduler starts.
	SkipFirstRun bool `yaml:"skip_first_run"`
}

// FetchConfig defines page download behavior.
type FetchConfig struct {
	Timeout    time.Duration `yaml:"timeout"`
	Attempts   int           `yaml:"attempts"`
	RetryDelay time.Duration `yaml:"retry_delay"`
	UserAgent  string        `yaml:"user_agent"`
	// VerifyTLS turns certificate verification on. Off by default because
	// several monitored boards serve expired or self-signed certificates.
	VerifyTLS bool            `yaml:"verify_tls"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig defines the politeness limit applied across all fetches.
// A zero PerSecond disables the limiter.
type RateLimitConfig struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

// TelegramConfig defines the Telegram Bot API notification target.
type TelegramConfig struct {
	Enabled    bool          `yaml:"enabled"`
	BotToken   string        `yaml:"bot_token"`
	ChatID     string        `yaml:"chat_id"`
	APIBase    string        `yaml:"api_base"`
	BatchLimit int           `yaml:"batch_limit"`
	Timeout    time.Duration `yaml:"timeout"`
}

// StoreConfig selects and configures the snapshot store backend.
type StoreConfig struct {
	Backend  string          `yaml:"backend"` // file, postgres, redis, memory
	File     FileStoreConfig `yaml:"file"`
	Postgres DatabaseConfig  `yaml:"postgres"`
	Redis    RedisConfig     `yaml:"redis"`
}

// FileStoreConfig defines the JSON-file snapshot store settings.
type FileStoreConfig struct {
	Dir string `yaml:"dir"`
}

// DatabaseConfig defines PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	PoolSize int    `yaml:"pool_size"`
}

// DSN returns a PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode,
	)
}

// RedisConfig defines Redis connection settings.
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

// TelemetryConfig defines OTLP export settings.
type TelemetryConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
	// Metrics additionally exports process runtime metrics over OTLP.
	// Application metrics stay on the Prometheus scrape path either way.
	Metrics bool `yaml:"metrics"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// SiteConfig defines one monitored notice page.
type SiteConfig struct {
	URL string `yaml:"url"`
	// BaseURL anchors relative hrefs. Defaults to the page URL.
	BaseURL  string   `yaml:"base_url"`
	Keywords []string `yaml:"keywords"`
	// Selector optionally narrows link extraction to part of the page.
	Selector string `yaml:"selector"`
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
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

// SiteList converts the sites map into a slice ordered by site key, so
// every pass walks the registry in the same order.
func (c *Config) SiteList() []domain.Site {
	keys := make([]string, 0, len(c.Sites))
	for k := range c.Sites {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sites := make([]domain.Site, 0, len(keys))
	for _, k := range keys {
		sc := c.Sites[k]
		sites = append(sites, domain.Site{
			Key:      k,
			URL:      sc.URL,
			BaseURL:  sc.BaseURL,
			Keywords: sc.Keywords,
			Selector: sc.Selector,
		})
	}
	return sites
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applySchedulerDefaults(&cfg.Scheduler)
	applyFetchDefaults(&cfg.Fetch)
	applyTelegramDefaults(&cfg.Telegram)
	applyStoreDefaults(&cfg.Store)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyLoggingDefaults(&cfg.Logging)
	applySiteDefaults(cfg.Sites)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 10000
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applySchedulerDefaults(s *SchedulerConfig) {
	if s.CheckInterval == 0 {
		s.CheckInterval = 5 * time.Minute
	}
}

func applyFetchDefaults(f *FetchConfig) {
	if f.Timeout == 0 {
		f.Timeout = 20 * time.Second
	}
	if f.Attempts == 0 {
		f.Attempts = 3
	}
	if f.RetryDelay == 0 {
		f.RetryDelay = 5 * time.Second
	}
	if f.UserAgent == "" {
		f.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64)"
	}
	if f.RateLimit.PerSecond > 0 && f.RateLimit.Burst == 0 {
		f.RateLimit.Burst = 1
	}
}

func applyTelegramDefaults(t *TelegramConfig) {
	if t.APIBase == "" {
		t.APIBase = "https://api.telegram.org"
	}
	if t.BatchLimit == 0 {
		t.BatchLimit = 3500
	}
	if t.Timeout == 0 {
		t.Timeout = 10 * time.Second
	}
}

func applyStoreDefaults(s *StoreConfig) {
	if s.Backend == "" {
		s.Backend = "file"
	}
	if s.File.Dir == "" {
		s.File.Dir = "."
	}
	if s.Postgres.Port == 0 {
		s.Postgres.Port = 5432
	}
	if s.Postgres.SSLMode == "" {
		s.Postgres.SSLMode = "disable"
	}
	if s.Postgres.PoolSize == 0 {
		s.Postgres.PoolSize = 10
	}
	if s.Redis.Addr == "" {
		s.Redis.Addr = "localhost:6379"
	}
	if s.Redis.KeyPrefix == "" {
		s.Redis.KeyPrefix = "ntt"
	}
}

func applyTelemetryDefaults(t *TelemetryConfig) {
	if t.Endpoint == "" {
		t.Endpoint = "localhost:4317"
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

func applySiteDefaults(sites map[string]SiteConfig) {
	for key, sc := range sites {
		if sc.BaseURL == "" {
			sc.BaseURL = sc.URL
			sites[key] = sc
		}
	}
}

func validate(cfg *Config) error {
	var errs []error

	if len(cfg.Sites) == 0 {
		errs = append(errs, fmt.Errorf("at least one site must be configured"))
	}
	for key, sc := range cfg.Sites {
		if sc.URL == "" {
			errs = append(errs, fmt.Errorf("sites.%s.url is required", key))
			continue
		}
		if _, err := url.Parse(sc.URL); err != nil {
			errs = append(errs, fmt.Errorf("sites.%s.url is not a valid URL: %w", key, err))
		}
		if _, err := url.Parse(sc.BaseURL); err != nil {
			errs = append(errs, fmt.Errorf("sites.%s.base_url is not a valid URL: %w", key, err))
		}
	}

	if cfg.Fetch.Attempts < 1 {
		errs = append(errs, fmt.Errorf("fetch.attempts must be at least 1 (got %d)", cfg.Fetch.Attempts))
	}
	if cfg.Telegram.BatchLimit < 1 {
		errs = append(errs, fmt.Errorf("telegram.batch_limit must be positive (got %d)", cfg.Telegram.BatchLimit))
	}

	if cfg.Telegram.Enabled {
		if cfg.Telegram.BotToken == "" {
			errs = append(errs, fmt.Errorf("telegram.bot_token is required when telegram is enabled"))
		}
		if cfg.Telegram.ChatID == "" {
			errs = append(errs, fmt.Errorf("telegram.chat_id is required when telegram is enabled"))
		}
	}

	switch cfg.Store.Backend {
	case "file", "memory", "redis":
		// No required fields beyond defaults.
	case "postgres":
		if cfg.Store.Postgres.Host == "" {
			errs = append(errs, fmt.Errorf("store.postgres.host is required when backend is postgres"))
		}
		if cfg.Store.Postgres.Name == "" {
			errs = append(errs, fmt.Errorf("store.postgres.name is required when backend is postgres"))
		}
		if cfg.Store.Postgres.User == "" {
			errs = append(errs, fmt.Errorf("store.postgres.user is required when backend is postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf(
			"store.backend must be one of: file, postgres, redis, memory (got %q)",
			cfg.Store.Backend,
		))
	}

	return errors.Join(errs...)
}
