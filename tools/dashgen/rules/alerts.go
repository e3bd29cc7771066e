package rules

// AlertRules returns a PrometheusRule CR containing alert rules for
// notice-tracker operational monitoring.
func AlertRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "ntt-alerts",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "ntt-alerts",
					Rules: []Rule{
						{
							Alert: "NttDown",
							Expr:  `absent(up{job="notice-tracker"})`,
							For:   "2m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "Notice Tracker is down",
								"description": "The notice-tracker job has been absent for more than 2 minutes.",
							},
						},
						{
							Alert: "NttReadinessDown",
							Expr:  `ntt_readyz_up == 0`,
							For:   "2m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "Notice Tracker readiness check is failing",
								"description": "The readiness probe has been reporting not-ready for more than 2 minutes. The snapshot store is likely unreachable.",
							},
						},
						{
							Alert: "NttHighErrorRate",
							Expr:  `ntt:http_errors:rate5m / ntt:http_requests:rate5m > 0.05`,
							For:   "5m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "High HTTP error rate on Notice Tracker",
								"description": "More than 5% of HTTP requests are returning 5xx errors over the last 5 minutes.",
							},
						},
						{
							Alert: "NttSiteCheckFailures",
							Expr:  `ntt:site_check_failures:rate5m > 0`,
							For:   "10m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Site checks are failing",
								"description": "At least one monitored site has failed its checks across consecutive passes. The page may be down or its markup may have changed.",
							},
						},
						{
							Alert: "NttSiteStale",
							Expr:  `time() - ntt_site_last_success_timestamp_seconds > 1800`,
							For:   "5m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "A monitored site has gone stale",
								"description": "A site has not completed a successful check in over 30 minutes. New notices on it are going unseen.",
							},
						},
						{
							Alert: "NttSchedulerStalled",
							Expr:  `time() - ntt_scheduler_next_pass_timestamp_seconds > 900`,
							For:   "5m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "Scheduled check passes have stopped running",
								"description": "The next-pass timestamp has not been refreshed for over 15 minutes. The scheduler is wedged or passes are hanging.",
							},
						},
						{
							Alert: "NttNotificationFailures",
							Expr:  `increase(ntt_notification_failures_total[5m]) > 0`,
							For:   "1m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Notification delivery failures detected",
								"description": "One or more Telegram batches have failed to send. Failed batches are not retried, so these notices were never delivered.",
							},
						},
						{
							Alert: "NttSnapshotShrunk",
							Expr:  `delta(ntt_snapshot_size[15m]) < 0`,
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "A site snapshot lost entries",
								"description": "Snapshot sizes only ever grow. A shrink points at storage corruption or a reset, and previously seen notices may be re-announced.",
							},
						},
					},
				},
			},
		},
	}
}
