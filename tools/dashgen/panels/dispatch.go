package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/bargauge"
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// FetchRate returns a timeseries panel showing page fetch attempts and
// failures per minute. The gap between the two lines is the retry overhead.
func FetchRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Fetches / min").
		Description("Page fetch attempts and failures per minute").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`sum(rate(ntt_fetch_attempts_total{job="notice-tracker"}[5m]) * 60)`,
			"attempts/min", "A",
		)).
		WithTarget(PromQuery(
			`sum(rate(ntt_fetch_failures_total{job="notice-tracker"}[5m]) * 60)`,
			"failures/min", "B",
		)).
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// NotificationsRate returns a timeseries panel showing notification batches
// sent and failed per minute.
func NotificationsRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Notifications / min").
		Description("Notification batches sent and failed per minute").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`sum(rate(ntt_notifications_sent_total{job="notice-tracker"}[5m]) * 60)`,
			"sent/min", "A",
		)).
		WithTarget(PromQuery(
			`ntt:notification_failures:rate5m * 60`,
			"failures/min", "B",
		)).
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// NotificationFailures returns a stat panel showing notification failures
// over the trailing day.
func NotificationFailures() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Failed Notifications (24h)").
		Description("Notification batches that failed over the trailing 24 hours").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`sum(increase(ntt_notification_failures_total{job="notice-tracker"}[24h]))`,
			"", "A",
		)).
		Thresholds(ThresholdsGreenYellowRed(1, 5)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}

// BatchSizeDistribution returns a bar gauge panel showing the distribution of
// notification batch sizes across histogram buckets.
func BatchSizeDistribution() *bargauge.PanelBuilder {
	return bargauge.NewPanelBuilder().
		Title("Batch Size Distribution").
		Description("Distribution of notification batch sizes in characters").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(FullWidth).
		WithTarget(PromQuery(
			`sum(increase(ntt_notification_batch_size_chars_bucket{job="notice-tracker"}[24h])) by (le)`,
			"{{le}}", "A",
		)).
		Orientation(common.VizOrientationHorizontal).
		Min(0).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic())
}
