package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// CacheLookups returns a timeseries panel showing datasource cache lookups
// by scope and result.
func CacheLookups() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Cache Lookups").
		Description("Datasource cache lookups per second by scope and result").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`sum(rate(pgw_datasource_cache_lookups_total{`+Job+`}[5m])) by (scope, result)`,
			"{{scope}} {{result}}", "A",
		)).
		Unit("ops").
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// CacheEntries returns a timeseries panel showing the entry count of each
// datasource cache.
func CacheEntries() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Cache Entries").
		Description("Entries held by the datasource caches, including remembered misses").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`sum(pgw_datasource_cache_entries{`+Job+`}) by (cache)`, "{{cache}}", "A")).
		FillOpacity(10).
		LineWidth(2).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}
