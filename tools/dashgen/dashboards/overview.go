// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/donaldgifford/perses-gateway/tools/dashgen/panels"
)

// BuildOverview constructs the gateway overview dashboard with all metric rows.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("Perses Gateway").
		Uid("pgw-overview").
		Tags([]string{"pgw", "perses-gateway"}).
		Refresh("30s").
		Time("now-6h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.HealthzStat()).
		WithPanel(panels.ReadyzStat()).
		WithPanel(panels.CacheHitGauge()).
		WithPanel(panels.UptimeStat()))

	b.WithRow(dashboard.NewRowBuilder("HTTP").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyPercentiles()).
		WithPanel(panels.ErrorRate()))

	b.WithRow(dashboard.NewRowBuilder("Perses API").
		WithPanel(panels.UpstreamRate()).
		WithPanel(panels.UpstreamLatency()).
		WithPanel(panels.UpstreamErrors()).
		WithPanel(panels.RateLimitWaits()))

	b.WithRow(dashboard.NewRowBuilder("Datasource Cache").
		WithPanel(panels.CacheLookups()).
		WithPanel(panels.CacheEntries()))

	b.WithRow(dashboard.NewRowBuilder("Warmup").
		WithPanel(panels.WarmupRuns()).
		WithPanel(panels.WarmupDuration()).
		WithPanel(panels.WarmedDatasources()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
