package perses

import (
	"context"
	"fmt"

	domain "github.com/donaldgifford/perses-gateway/pkg/types"
)

// ListProjects returns the projects known to Perses.
func (c *Client) ListProjects(ctx context.Context) ([]domain.Project, error) {
	var out []domain.Project
	if err := c.get(ctx, "list_projects", "/api/v1/projects", nil, &out); err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return out, nil
}
