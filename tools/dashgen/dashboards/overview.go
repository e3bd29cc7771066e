// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/donaldgifford/notice-tracker/tools/dashgen/panels"
)

// BuildOverview constructs the notice-tracker Overview dashboard with all
// metric rows.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("notice-tracker Overview").
		Uid("ntt-overview").
		Tags([]string{"ntt", "notice-tracker"}).
		Refresh("30s").
		Time("now-6h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	// Row 1: Overview.
	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.HealthzStat()).
		WithPanel(panels.ReadyzStat()).
		WithPanel(panels.NextPassStat()).
		WithPanel(panels.UptimeStat()))

	// Row 2: HTTP.
	b.WithRow(dashboard.NewRowBuilder("HTTP").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyPercentiles()).
		WithPanel(panels.ErrorRate()))

	// Row 3: Check Passes.
	b.WithRow(dashboard.NewRowBuilder("Check Passes").
		WithPanel(panels.PassRate()).
		WithPanel(panels.PassDuration()).
		WithPanel(panels.SiteCheckFailures()))

	// Row 4: Sites.
	b.WithRow(dashboard.NewRowBuilder("Sites").
		WithPanel(panels.SiteStaleness()).
		WithPanel(panels.SnapshotSize()).
		WithPanel(panels.SiteCheckDuration()))

	// Row 5: Notices.
	b.WithRow(dashboard.NewRowBuilder("Notices").
		WithPanel(panels.ExtractedRate()).
		WithPanel(panels.NewNotices()))

	// Row 6: Dispatch.
	b.WithRow(dashboard.NewRowBuilder("Dispatch").
		WithPanel(panels.FetchRate()).
		WithPanel(panels.NotificationsRate()).
		WithPanel(panels.NotificationFailures()).
		WithPanel(panels.BatchSizeDistribution()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
