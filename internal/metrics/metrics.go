// Package metrics defines Prometheus metrics for perses-gateway.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pgw"

// HTTP metrics.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})

	HealthzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "healthz_up",
		Help:      "1 if the last liveness probe succeeded, 0 otherwise.",
	})

	ReadyzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "readyz_up",
		Help:      "1 if the last readiness probe succeeded, 0 otherwise.",
	})
)

// Perses upstream metrics.
var (
	PersesRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "perses_requests_total",
		Help:      "Total number of requests sent to the Perses API.",
	}, []string{"operation", "status"})

	PersesRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "perses_request_duration_seconds",
		Help:      "Duration of Perses API requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})

	PersesRateLimitWaitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "perses_rate_limit_waits_total",
		Help:      "Total number of Perses API calls delayed by the rate limiter.",
	})
)

// Datasource cache metrics. Scope is "project" or "global"; result is
// "hit", "negative_hit" or "miss".
var (
	DatasourceCacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "datasource_cache_lookups_total",
		Help:      "Total number of datasource cache lookups by result.",
	}, []string{"scope", "result"})

	DatasourceCacheEntries = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "datasource_cache_entries",
		Help:      "Number of entries held by the datasource caches.",
	}, []string{"cache"})
)

// Cache warmup metrics.
var (
	WarmupRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "warmup_runs_total",
		Help:      "Total number of datasource cache warmup runs by result.",
	}, []string{"result"})

	WarmupDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "warmup_duration_seconds",
		Help:      "Duration of datasource cache warmup runs in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	WarmupDatasourcesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "warmup_datasources_total",
		Help:      "Total number of datasources loaded into the cache by warmup runs.",
	})
)
