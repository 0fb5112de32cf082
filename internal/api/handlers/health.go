package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger checks that an upstream dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// readyTimeout bounds the upstream check of a readiness probe.
const readyTimeout = 5 * time.Second

// HealthHandler provides health and readiness endpoints.
type HealthHandler struct {
	perses Pinger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(p Pinger) *HealthHandler {
	return &HealthHandler{perses: p}
}

// Healthz returns 200 if the process is running.
func (*HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, StatusResponse{Status: "ok"})
}

// Readyz returns 200 if Perses answers, 503 otherwise.
func (h *HealthHandler) Readyz(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readyTimeout)
	defer cancel()

	if err := h.perses.Ping(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, StatusResponse{Status: "unavailable"})
	}
	return c.JSON(http.StatusOK, StatusResponse{Status: "ready"})
}
