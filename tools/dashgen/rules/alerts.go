package rules

// AlertRules returns a PrometheusRule CR containing alert rules for
// perses-gateway operational monitoring.
func AlertRules() PrometheusRule {
	return newPrometheusRule("pgw-alerts", "pgw-alerts",
		Rule{
			Alert:  "PgwDown",
			Expr:   `absent(up{job="perses-gateway"})`,
			For:    "2m",
			Labels: severity("critical"),
			Annotations: map[string]string{
				"summary":     "Perses Gateway is down",
				"description": "The perses-gateway job has been absent for more than 2 minutes.",
			},
		},
		Rule{
			Alert:  "PgwPersesUnreachable",
			Expr:   `pgw_readyz_up == 0`,
			For:    "2m",
			Labels: severity("critical"),
			Annotations: map[string]string{
				"summary":     "Perses Gateway cannot reach Perses",
				"description": "The readiness probe has failed to reach the Perses API for more than 2 minutes.",
			},
		},
		Rule{
			Alert:  "PgwHighErrorRate",
			Expr:   `pgw:http_errors:rate5m / pgw:http_requests:rate5m > 0.05`,
			For:    "5m",
			Labels: severity("warning"),
			Annotations: map[string]string{
				"summary":     "High HTTP error rate on Perses Gateway",
				"description": "More than 5% of HTTP requests are returning 5xx errors over the last 5 minutes.",
			},
		},
		Rule{
			Alert:  "PgwPersesErrors",
			Expr:   `pgw:perses_errors:rate5m / pgw:perses_requests:rate5m > 0.1`,
			For:    "5m",
			Labels: severity("warning"),
			Annotations: map[string]string{
				"summary":     "Perses API calls are failing",
				"description": "More than 10% of calls to the Perses API failed over the last 5 minutes.",
			},
		},
		Rule{
			Alert:  "PgwWarmupFailing",
			Expr:   `increase(pgw_warmup_runs_total{result="error"}[1h]) > 0 and increase(pgw_warmup_runs_total{result="success"}[1h]) == 0`,
			For:    "0m",
			Labels: severity("warning"),
			Annotations: map[string]string{
				"summary":     "Datasource cache warmup is failing",
				"description": "No warmup run succeeded in the last hour. Page loads fall back to Perses lookups.",
			},
		},
	)
}
