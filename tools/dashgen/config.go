package main

import "errors"

// KnownMetrics lists every metric name the tracker exports, plus the
// recording rules defined in rules/recording.go and the standard series
// Prometheus attaches to any scraped job. Panel and rule expressions are
// validated against this set so a renamed metric fails the build instead
// of producing an empty graph.
var KnownMetrics = map[string]bool{
	// HTTP surface.
	"ntt_http_request_duration_seconds": true,
	"ntt_http_requests_total":           true,

	// Check passes and per-site checks.
	"ntt_check_passes_total":                    true,
	"ntt_check_pass_duration_seconds":           true,
	"ntt_site_check_duration_seconds":           true,
	"ntt_site_check_failures_total":             true,
	"ntt_site_last_success_timestamp_seconds":   true,
	"ntt_scheduler_next_pass_timestamp_seconds": true,

	// Fetching and extraction.
	"ntt_fetch_attempts_total":    true,
	"ntt_fetch_failures_total":    true,
	"ntt_notices_extracted_total": true,
	"ntt_notices_new_total":       true,
	"ntt_snapshot_size":           true,

	// Notification dispatch.
	"ntt_notifications_sent_total":      true,
	"ntt_notification_failures_total":   true,
	"ntt_notification_batch_size_chars": true,

	// Probes.
	"ntt_healthz_up": true,
	"ntt_readyz_up":  true,

	// Recording rules.
	"ntt:http_requests:rate5m":         true,
	"ntt:http_errors:rate5m":           true,
	"ntt:check_passes:rate5m":          true,
	"ntt:site_check_failures:rate5m":   true,
	"ntt:notices_new:rate5m":           true,
	"ntt:notification_failures:rate5m": true,

	// Series Prometheus provides for every scraped job.
	"up":                         true,
	"process_start_time_seconds": true,
}

// Config controls which artifacts the generator emits and where.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns the settings used by the committed deploy tree.
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate reports configurations that cannot produce any output.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must not be empty")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules generation must be enabled")
	}
	return nil
}
