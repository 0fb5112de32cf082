package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// UpstreamRate returns a timeseries panel showing Perses API calls per
// second by operation.
func UpstreamRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Perses Calls by Operation").
		Description("Requests sent to the Perses API per second").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`sum(rate(pgw_perses_requests_total{`+Job+`}[5m])) by (operation)`,
			"{{operation}}", "A",
		)).
		Unit("reqps").
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// UpstreamLatency returns a timeseries panel showing the p95 Perses API
// latency by operation.
func UpstreamLatency() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Perses Latency (p95)").
		Description("95th percentile Perses API latency by operation").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			Quantile(0.95, "pgw_perses_request_duration_seconds", "operation"),
			"{{operation}}", "A",
		)).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// UpstreamErrors returns a stat panel showing failed Perses calls in the
// past hour, counting transport errors and 5xx answers.
func UpstreamErrors() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Perses Errors (1h)").
		Description("Perses API calls that failed or returned 5xx in the last hour").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(4).
		WithTarget(PromQuery(
			`sum(increase(pgw_perses_requests_total{`+Job+`,status=~"error|5.."}[1h]))`,
			"", "A",
		)).
		Thresholds(ThresholdsGreenYellowRed(1, 10)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}

// RateLimitWaits returns a stat panel showing how often the client-side
// rate limiter delayed a Perses call in the past hour.
func RateLimitWaits() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Rate Limit Waits (1h)").
		Description("Perses API calls delayed by the gateway's rate limiter").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(4).
		WithTarget(PromQuery(
			`sum(increase(pgw_perses_rate_limit_waits_total{`+Job+`}[1h]))`,
			"", "A",
		)).
		Thresholds(ThresholdsGreenYellowRed(10, 100)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}
