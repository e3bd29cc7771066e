package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		envVars   map[string]string
		wantErr   string
		checkFunc func(t *testing.T, cfg *Config)
	}{
		{
			name: "valid minimal config",
			yaml: `
sites:
  neet:
    url: https://example.org/notices
    keywords: ["neet"]
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				require.Contains(t, cfg.Sites, "neet")
				assert.Equal(t, "https://example.org/notices", cfg.Sites["neet"].URL)
				assert.Equal(t, []string{"neet"}, cfg.Sites["neet"].Keywords)
			},
		},
		{
			name: "defaults applied for optional fields",
			yaml: `
sites:
  neet:
    url: https://example.org/notices
    keywords: ["neet"]
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)
				assert.Equal(t, 10000, cfg.Server.Port)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
				assert.Equal(t, 5*time.Minute, cfg.Scheduler.CheckInterval)
				assert.False(t, cfg.Scheduler.SkipFirstRun)
				assert.Equal(t, 20*time.Second, cfg.Fetch.Timeout)
				assert.Equal(t, 3, cfg.Fetch.Attempts)
				assert.Equal(t, 5*time.Second, cfg.Fetch.RetryDelay)
				assert.Equal(t, "Mozilla/5.0 (Windows NT 10.0; Win64; x64)", cfg.Fetch.UserAgent)
				assert.False(t, cfg.Fetch.VerifyTLS)
				assert.Equal(t, "https://api.telegram.org", cfg.Telegram.APIBase)
				assert.Equal(t, 3500, cfg.Telegram.BatchLimit)
				assert.Equal(t, 10*time.Second, cfg.Telegram.Timeout)
				assert.Equal(t, "file", cfg.Store.Backend)
				assert.Equal(t, ".", cfg.Store.File.Dir)
				assert.Equal(t, "localhost:6379", cfg.Store.Redis.Addr)
				assert.Equal(t, "ntt", cfg.Store.Redis.KeyPrefix)
				assert.Equal(t, "localhost:4317", cfg.Telemetry.Endpoint)
				assert.False(t, cfg.Telemetry.Enabled)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "text", cfg.Logging.Format)
			},
		},
		{
			name: "base_url defaults to page url",
			yaml: `
sites:
  neet:
    url: https://example.org/notices
    keywords: ["neet"]
  aiims:
    url: https://aiims.example.org/news
    base_url: https://aiims.example.org/
    keywords: ["exam"]
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "https://example.org/notices", cfg.Sites["neet"].BaseURL)
				assert.Equal(t, "https://aiims.example.org/", cfg.Sites["aiims"].BaseURL)
			},
		},
		{
			name: "env var substitution",
			yaml: `
server:
  force_token: "${TEST_FORCE_TOKEN}"
telegram:
  enabled: true
  bot_token: "${TEST_BOT_TOKEN}"
  chat_id: "12345"
sites:
  neet:
    url: https://example.org/notices
    keywords: ["neet"]
`,
			envVars: map[string]string{
				"TEST_FORCE_TOKEN": "supersecret",
				"TEST_BOT_TOKEN":   "123:abc",
			},
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "supersecret", cfg.Server.ForceToken)
				assert.Equal(t, "123:abc", cfg.Telegram.BotToken)
			},
		},
		{
			name:    "no sites configured",
			yaml:    `{}`,
			wantErr: "at least one site must be configured",
		},
		{
			name: "site missing url",
			yaml: `
sites:
  neet:
    keywords: ["neet"]
`,
			wantErr: "sites.neet.url is required",
		},
		{
			name: "telegram enabled without bot token",
			yaml: `
telegram:
  enabled: true
  chat_id: "12345"
sites:
  neet:
    url: https://example.org/notices
    keywords: ["neet"]
`,
			wantErr: "telegram.bot_token is required when telegram is enabled",
		},
		{
			name: "telegram enabled without chat id",
			yaml: `
telegram:
  enabled: true
  bot_token: "123:abc"
sites:
  neet:
    url: https://example.org/notices
    keywords: ["neet"]
`,
			wantErr: "telegram.chat_id is required when telegram is enabled",
		},
		{
			name: "invalid store backend",
			yaml: `
store:
  backend: etcd
sites:
  neet:
    url: https://example.org/notices
    keywords: ["neet"]
`,
			wantErr: `store.backend must be one of: file, postgres, redis, memory (got "etcd")`,
		},
		{
			name: "postgres backend missing host",
			yaml: `
store:
  backend: postgres
  postgres:
    name: tracker
    user: tracker
sites:
  neet:
    url: https://example.org/notices
    keywords: ["neet"]
`,
			wantErr: "store.postgres.host is required when backend is postgres",
		},
		{
			name:    "invalid YAML",
			yaml:    `{{{not valid yaml`,
			wantErr: "parsing config YAML",
		},
		{
			name: "full config with overrides",
			yaml: `
server:
  host: "127.0.0.1"
  port: 9090
  read_timeout: 60s
  write_timeout: 60s
  force_token: sekrit
scheduler:
  check_interval: 90s
  skip_first_run: true
fetch:
  timeout: 10s
  attempts: 5
  retry_delay: 2s
  user_agent: notice-tracker/1.0
  verify_tls: true
  rate_limit:
    per_second: 2
telegram:
  enabled: true
  bot_token: "123:abc"
  chat_id: "-1009999"
  api_base: http://localhost:8081
  batch_limit: 2000
store:
  backend: redis
  redis:
    addr: redis.internal:6379
    db: 2
    key_prefix: notices
telemetry:
  enabled: true
  endpoint: otel.internal:4317
  metrics: true
logging:
  level: debug
  format: json
sites:
  neet:
    url: https://example.org/notices
    base_url: https://example.org/
    keywords: ["neet mds", "neet pg"]
    selector: "div.notice-board a[href]"
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "127.0.0.1", cfg.Server.Host)
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, "sekrit", cfg.Server.ForceToken)
				assert.Equal(t, 90*time.Second, cfg.Scheduler.CheckInterval)
				assert.True(t, cfg.Scheduler.SkipFirstRun)
				assert.Equal(t, 5, cfg.Fetch.Attempts)
				assert.True(t, cfg.Fetch.VerifyTLS)
				assert.Equal(t, 2.0, cfg.Fetch.RateLimit.PerSecond)
				assert.Equal(t, 1, cfg.Fetch.RateLimit.Burst, "burst defaults to 1 when a rate is set")
				assert.Equal(t, "http://localhost:8081", cfg.Telegram.APIBase)
				assert.Equal(t, 2000, cfg.Telegram.BatchLimit)
				assert.Equal(t, "redis", cfg.Store.Backend)
				assert.Equal(t, "redis.internal:6379", cfg.Store.Redis.Addr)
				assert.Equal(t, 2, cfg.Store.Redis.DB)
				assert.Equal(t, "notices", cfg.Store.Redis.KeyPrefix)
				assert.True(t, cfg.Telemetry.Enabled)
				assert.True(t, cfg.Telemetry.Metrics)
				assert.Equal(t, "otel.internal:4317", cfg.Telemetry.Endpoint)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "div.notice-board a[href]", cfg.Sites["neet"].Selector)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Only parallelize tests that don't modify env vars.
			if len(tt.envVars) == 0 {
				t.Parallel()
			}

			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))

			cfg, err := Load(path)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)

			if tt.checkFunc != nil {
				tt.checkFunc(t, cfg)
			}
		})
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	t.Parallel()

	_, err := Load("/nonexistent/path/config.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestConfig_SiteList(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		Sites: map[string]SiteConfig{
			"mcc":   {URL: "https://mcc.example.org/", BaseURL: "https://mcc.example.org/", Keywords: []string{"counselling"}},
			"aiims": {URL: "https://aiims.example.org/news", BaseURL: "https://aiims.example.org/", Keywords: []string{"exam"}},
			"neet":  {URL: "https://example.org/notices", BaseURL: "https://example.org/", Keywords: []string{"neet"}},
		},
	}

	sites := cfg.SiteList()
	require.Len(t, sites, 3)
	assert.Equal(t, "aiims", sites[0].Key)
	assert.Equal(t, "mcc", sites[1].Key)
	assert.Equal(t, "neet", sites[2].Key)
	assert.Equal(t, "https://example.org/", sites[2].BaseURL)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Parallel()

	cfg := DatabaseConfig{
		Host:     "db.example.com",
		Port:     5433,
		Name:     "tracker",
		User:     "admin",
		Password: "s3cret",
		SSLMode:  "require",
	}
	want := "host=db.example.com port=5433 dbname=tracker user=admin password=s3cret sslmode=require"
	assert.Equal(t, want, cfg.DSN())
}
