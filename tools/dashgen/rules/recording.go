package rules

// RecordingRules returns a PrometheusRule CR containing pre-computed rate
// expressions used by dashboards and alert rules.
func RecordingRules() PrometheusRule {
	return newPrometheusRule("pgw-recording-rules", "pgw-recording",
		Rule{
			Record: "pgw:http_requests:rate5m",
			Expr:   `sum(rate(pgw_http_requests_total[5m]))`,
		},
		Rule{
			Record: "pgw:http_errors:rate5m",
			Expr:   `sum(rate(pgw_http_requests_total{status=~"5.."}[5m]))`,
		},
		Rule{
			Record: "pgw:perses_requests:rate5m",
			Expr:   `sum(rate(pgw_perses_requests_total[5m]))`,
		},
		Rule{
			Record: "pgw:perses_errors:rate5m",
			Expr:   `sum(rate(pgw_perses_requests_total{status=~"error|5.."}[5m]))`,
		},
		Rule{
			Record: "pgw:datasource_cache_lookups:rate5m",
			Expr:   `sum(rate(pgw_datasource_cache_lookups_total[5m]))`,
		},
		Rule{
			Record: "pgw:datasource_cache_hits:rate5m",
			Expr:   `sum(rate(pgw_datasource_cache_lookups_total{result=~"hit|negative_hit"}[5m]))`,
		},
	)
}
