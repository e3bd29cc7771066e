package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// SiteStaleness returns a timeseries panel showing the time since each site
// last checked successfully.
func SiteStaleness() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Last Success Age").
		Description("Time since each site last completed a successful check").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`time() - ntt_site_last_success_timestamp_seconds{job="notice-tracker"}`,
			"{{site}}", "A",
		)).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("last", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenYellowRed(1800, 3600)).
		ColorScheme(ColorSchemeThresholds()).
		DrawStyle(common.GraphDrawStyleLine)
}

// SnapshotSize returns a timeseries panel showing per-site snapshot sizes.
// Snapshots only ever grow, so a downward step points at a storage problem.
func SnapshotSize() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Snapshot Size").
		Description("Number of notices remembered per site").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`ntt_snapshot_size{job="notice-tracker"}`,
			"{{site}}", "A",
		)).
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("last")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// SiteCheckDuration returns a timeseries panel showing the p95 per-site check
// duration.
func SiteCheckDuration() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Site Check Duration (p95)").
		Description("95th percentile single-site check duration by site").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`histogram_quantile(0.95, sum(rate(ntt_site_check_duration_seconds_bucket{job="notice-tracker"}[5m])) by (le, site))`,
			"{{site}}",
			"A",
		)).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}
