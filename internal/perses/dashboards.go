package perses

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	domain "github.com/donaldgifford/perses-gateway/pkg/types"
)

// ListDashboards returns the dashboards of every project.
func (c *Client) ListDashboards(ctx context.Context) ([]domain.Dashboard, error) {
	var out []domain.Dashboard
	if err := c.get(ctx, "list_dashboards", "/api/v1/dashboards", nil, &out); err != nil {
		return nil, fmt.Errorf("listing dashboards: %w", err)
	}
	return out, nil
}

// ListProjectDashboards returns the dashboards of one project. A project
// Perses does not know yields an empty list.
func (c *Client) ListProjectDashboards(
	ctx context.Context,
	project string,
) ([]domain.Dashboard, error) {
	var out []domain.Dashboard
	path := "/api/v1/projects/" + url.PathEscape(project) + "/dashboards"
	err := c.get(ctx, "list_project_dashboards", path, nil, &out)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing dashboards of project %q: %w", project, err)
	}
	return out, nil
}

// GetDashboard fetches one dashboard. It wraps ErrNotFound when the
// dashboard does not exist.
func (c *Client) GetDashboard(
	ctx context.Context,
	project, name string,
) (*domain.Dashboard, error) {
	var out domain.Dashboard
	path := "/api/v1/projects/" + url.PathEscape(project) +
		"/dashboards/" + url.PathEscape(name)
	if err := c.get(ctx, "get_dashboard", path, nil, &out); err != nil {
		return nil, fmt.Errorf("getting dashboard %s/%s: %w", project, name, err)
	}
	return &out, nil
}
