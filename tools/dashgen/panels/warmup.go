package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// WarmupRuns returns a timeseries panel showing warmup runs per hour by
// result.
func WarmupRuns() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Warmup Runs / h").
		Description("Datasource cache warmup runs per hour by result").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`sum(increase(pgw_warmup_runs_total{`+Job+`}[1h])) by (result)`,
			"{{result}}", "A",
		)).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleBars)
}

// WarmupDuration returns a timeseries panel showing the p95 warmup run
// duration.
func WarmupDuration() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Warmup Duration (p95)").
		Description("95th percentile datasource cache warmup duration").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(Quantile(0.95, "pgw_warmup_duration_seconds"), "p95", "A")).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// WarmedDatasources returns a timeseries panel showing datasources loaded
// by warmup runs per hour.
func WarmedDatasources() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Datasources Warmed / h").
		Description("Datasources loaded into the cache by warmup runs").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`sum(increase(pgw_warmup_datasources_total{`+Job+`}[1h]))`,
			"datasources", "A",
		)).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}
