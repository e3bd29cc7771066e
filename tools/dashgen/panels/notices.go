package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// ExtractedRate returns a timeseries panel showing keyword-matched notices
// extracted per minute by site.
func ExtractedRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Extracted / min").
		Description("Rate of keyword-matched notices extracted per minute by site").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`sum(rate(ntt_notices_extracted_total{job="notice-tracker"}[5m]) * 60) by (site)`,
			"{{site}}", "A",
		)).
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// NewNotices returns a timeseries panel showing new notices detected over the
// trailing day. New notices are rare, so a daily window reads better than a
// raw rate.
func NewNotices() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("New Notices (24h)").
		Description("New notices detected per site over the trailing 24 hours").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`sum(increase(ntt_notices_new_total{job="notice-tracker"}[24h])) by (site)`,
			"{{site}}", "A",
		)).
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("last", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}
