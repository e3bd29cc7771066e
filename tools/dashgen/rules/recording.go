package rules

// RecordingRules returns a PrometheusRule CR containing pre-computed rate
// expressions used by dashboards and alert rules.
func RecordingRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "ntt-recording-rules",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "ntt-recording",
					Rules: []Rule{
						{
							Record: "ntt:http_requests:rate5m",
							Expr:   `sum(rate(ntt_http_requests_total[5m]))`,
						},
						{
							Record: "ntt:http_errors:rate5m",
							Expr:   `sum(rate(ntt_http_requests_total{status=~"5.."}[5m]))`,
						},
						{
							Record: "ntt:check_passes:rate5m",
							Expr:   `sum(rate(ntt_check_passes_total[5m]))`,
						},
						{
							Record: "ntt:site_check_failures:rate5m",
							Expr:   `sum(rate(ntt_site_check_failures_total[5m]))`,
						},
						{
							Record: "ntt:notices_new:rate5m",
							Expr:   `sum(rate(ntt_notices_new_total[5m]))`,
						},
						{
							Record: "ntt:notification_failures:rate5m",
							Expr:   `rate(ntt_notification_failures_total[5m])`,
						},
					},
				},
			},
		},
	}
}
