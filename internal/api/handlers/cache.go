package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/perses-gateway/internal/datasource"
	"github.com/donaldgifford/perses-gateway/internal/warmup"
)

// StatsProvider reports datasource cache occupancy.
type StatsProvider interface {
	Stats() datasource.Stats
}

// WarmupRunner runs one cache warmup on demand.
type WarmupRunner interface {
	RunNow(ctx context.Context) (warmup.Result, error)
}

// CacheHandler exposes the datasource cache.
type CacheHandler struct {
	stats  StatsProvider
	warmer WarmupRunner
}

// NewCacheHandler creates a new CacheHandler. The warmup endpoint is only
// registered when warmer is non-nil.
func NewCacheHandler(s StatsProvider, warmer WarmupRunner) *CacheHandler {
	return &CacheHandler{stats: s, warmer: warmer}
}

// CacheStatsOutput is the response body for the cache stats endpoint.
type CacheStatsOutput struct {
	Body datasource.Stats
}

// WarmupOutput is the response body for a manual warmup.
type WarmupOutput struct {
	Body struct {
		Projects    int    `json:"projects"        doc:"Projects whose datasources were loaded"`
		Datasources int    `json:"datasources"     doc:"Datasources loaded into the cache"`
		Failed      int    `json:"failed"          doc:"Projects that failed to warm"`
		Error       string `json:"error,omitempty" doc:"Joined errors of the projects that failed to warm"`
	}
}

// GetStats returns the number of entries in each datasource cache.
func (h *CacheHandler) GetStats(_ context.Context, _ *struct{}) (*CacheStatsOutput, error) {
	return &CacheStatsOutput{Body: h.stats.Stats()}, nil
}

// Warmup loads every project's datasources into the cache now. Partial
// failures are reported in the body; a run that warmed nothing fails.
func (h *CacheHandler) Warmup(ctx context.Context, _ *struct{}) (*WarmupOutput, error) {
	res, err := h.warmer.RunNow(ctx)
	if err != nil && res.Projects == 0 {
		return nil, huma.Error502BadGateway("cache warmup failed", err)
	}

	resp := &WarmupOutput{}
	resp.Body.Projects = res.Projects
	resp.Body.Datasources = res.Datasources
	resp.Body.Failed = res.Failed
	if err != nil {
		resp.Body.Error = err.Error()
	}
	return resp, nil
}

// RegisterCacheRoutes registers cache endpoints with the Huma API.
func RegisterCacheRoutes(api huma.API, h *CacheHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-cache-stats",
		Method:      http.MethodGet,
		Path:        "/api/v1/cache/stats",
		Summary:     "Get datasource cache stats",
		Description: "Returns the number of found and missing entries held by the datasource caches.",
		Tags:        []string{"cache"},
	}, h.GetStats)

	if h.warmer == nil {
		return
	}

	huma.Register(api, huma.Operation{
		OperationID: "warm-cache",
		Method:      http.MethodPost,
		Path:        "/api/v1/cache/warmup",
		Summary:     "Warm the datasource cache",
		Description: "Loads the datasources of every project into the cache immediately.",
		Tags:        []string{"cache"},
		Errors:      []int{http.StatusBadGateway},
	}, h.Warmup)
}
