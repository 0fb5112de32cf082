package client

import "context"

// CacheStats reports datasource cache occupancy.
type CacheStats struct {
	Datasources              int `json:"datasources"`
	GlobalDatasources        int `json:"global_datasources"`
	MissingDatasources       int `json:"missing_datasources"`
	MissingGlobalDatasources int `json:"missing_global_datasources"`
}

// WarmupResponse summarizes a manual cache warmup.
type WarmupResponse struct {
	Projects    int    `json:"projects"`
	Datasources int    `json:"datasources"`
	Failed      int    `json:"failed"`
	Error       string `json:"error,omitempty"`
}

// CacheStats returns the datasource cache entry counts.
func (c *Client) CacheStats(ctx context.Context) (*CacheStats, error) {
	var resp CacheStats
	if err := c.get(ctx, "/api/v1/cache/stats", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// WarmCache triggers an immediate datasource cache warmup.
func (c *Client) WarmCache(ctx context.Context) (*WarmupResponse, error) {
	var resp WarmupResponse
	if err := c.post(ctx, "/api/v1/cache/warmup", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
