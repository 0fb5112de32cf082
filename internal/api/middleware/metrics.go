// Package middleware provides Echo middleware for perses-gateway.
package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/donaldgifford/perses-gateway/internal/metrics"
)

// probeGauges maps probe and scrape paths to the gauge they maintain. These
// paths are excluded from the request histogram and counter.
var probeGauges = map[string]prometheus.Gauge{
	"/metrics": nil,
	"/healthz": metrics.HealthzUp,
	"/readyz":  metrics.ReadyzUp,
}

// route returns the matched route template, so path parameters such as
// project names do not explode label cardinality.
func route(c echo.Context) string {
	if p := c.Path(); p != "" {
		return p
	}
	return c.Request().URL.Path
}

// Metrics returns Echo middleware that records request duration and status
// per route. Handler errors are rendered here so the recorded status is the
// one the client receives.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := route(c)

			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}

			if gauge, probe := probeGauges[path]; probe {
				if gauge != nil {
					setUp(gauge, c.Response().Status)
				}
				return nil
			}

			labels := []string{
				c.Request().Method,
				path,
				strconv.Itoa(c.Response().Status),
			}
			metrics.HTTPRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
			metrics.HTTPRequestsTotal.WithLabelValues(labels...).Inc()

			return nil
		}
	}
}

func setUp(g prometheus.Gauge, status int) {
	if status >= 200 && status < 300 {
		g.Set(1)
		return
	}
	g.Set(0)
}
