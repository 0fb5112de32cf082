package client

import "context"

// ListProjects returns the platform project names.
func (c *Client) ListProjects(ctx context.Context) ([]string, error) {
	var resp struct {
		Projects []string `json:"projects"`
	}
	if err := c.get(ctx, "/api/v1/projects", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Projects, nil
}
