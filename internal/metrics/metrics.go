// Package metrics defines Prometheus metrics for notice-tracker.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ntt"

// HTTP metrics.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})
)

// Check pass metrics.
var (
	CheckPassesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "check_passes_total",
		Help:      "Total number of check passes, by trigger and outcome.",
	}, []string{"trigger", "status"})

	CheckPassDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "check_pass_duration_seconds",
		Help:      "Duration of full check passes in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	SiteCheckDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "site_check_duration_seconds",
		Help:      "Duration of individual site checks in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"site"})

	SiteCheckFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "site_check_failures_total",
		Help:      "Total number of failed site checks.",
	}, []string{"site"})

	LastSuccessTimestamp = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "site_last_success_timestamp_seconds",
		Help:      "Unix timestamp of the last successful check per site.",
	}, []string{"site"})

	SchedulerNextPassTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "scheduler_next_pass_timestamp_seconds",
		Help:      "Unix timestamp of the next scheduled check pass.",
	})
)

// Fetch metrics.
var (
	FetchAttemptsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetch_attempts_total",
		Help:      "Total number of page fetch attempts, including retries.",
	})

	FetchFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetch_failures_total",
		Help:      "Total number of fetches that exhausted all retry attempts.",
	})
)

// Notice metrics.
var (
	NoticesExtractedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notices_extracted_total",
		Help:      "Total number of notices extracted from fetched pages.",
	}, []string{"site"})

	NoticesNewTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notices_new_total",
		Help:      "Total number of previously unseen notices detected.",
	}, []string{"site"})

	SnapshotSize = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "snapshot_size",
		Help:      "Number of notices currently stored per site.",
	}, []string{"site"})
)

// Notification metrics.
var (
	NotificationsSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_sent_total",
		Help:      "Total number of notification batches sent.",
	})

	NotificationFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_failures_total",
		Help:      "Total number of notification send failures.",
	})

	NotificationBatchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "notification_batch_size_chars",
		Help:      "Size in characters of dispatched notification batches.",
		Buckets:   prometheus.ExponentialBuckets(64, 2, 8), // 64 .. 8192
	})
)

// Health gauges set by the readiness endpoints.
var (
	HealthzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "healthz_up",
		Help:      "1 when the process is live.",
	})

	ReadyzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "readyz_up",
		Help:      "1 when the snapshot store is reachable.",
	})
)
