package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// PassRate returns a timeseries panel showing completed check passes per hour
// broken down by trigger and status.
func PassRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Passes / hour").
		Description("Completed check passes per hour by trigger and status").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`sum(increase(ntt_check_passes_total{job="notice-tracker"}[1h])) by (trigger, status)`,
			"{{trigger}}/{{status}}", "A",
		)).
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// PassDuration returns a timeseries panel showing the p95 check pass duration.
func PassDuration() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Pass Duration (p95)").
		Description("95th percentile duration of a full check pass").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`histogram_quantile(0.95, sum(rate(ntt_check_pass_duration_seconds_bucket{job="notice-tracker"}[5m])) by (le))`,
			"p95",
			"A",
		)).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// SiteCheckFailures returns a timeseries panel showing per-site check
// failures per minute.
func SiteCheckFailures() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Site Failures / min").
		Description("Rate of failed site checks per minute by site").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`sum(rate(ntt_site_check_failures_total{job="notice-tracker"}[5m]) * 60) by (site)`,
			"{{site}}", "A",
		)).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenYellowRed(0.1, 1)).
		ColorScheme(ColorSchemeThresholds()).
		DrawStyle(common.GraphDrawStyleLine)
}
