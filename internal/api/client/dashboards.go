package client

import (
	"context"
	"net/url"

	domain "github.com/donaldgifford/perses-gateway/pkg/types"
)

// DashboardSummary is one entry of the dashboard list.
type DashboardSummary struct {
	Name        string `json:"name"`
	Project     string `json:"project"`
	DisplayName string `json:"display_name"`
	URL         string `json:"url"`
}

// DashboardsResponse is the dashboard list.
type DashboardsResponse struct {
	Dashboards []DashboardSummary `json:"dashboards"`
	Total      int                `json:"total"`
	Admin      bool               `json:"admin"`
}

// ListDashboardsParams narrows a dashboard listing.
type ListDashboardsParams struct {
	Project string
	// Admin asks for admin dashboards. The gateway ignores it when it
	// reviews access itself.
	Admin bool
}

// ListDashboards returns the dashboards visible to the caller.
func (c *Client) ListDashboards(
	ctx context.Context,
	params *ListDashboardsParams,
) (*DashboardsResponse, error) {
	q := url.Values{}
	if params != nil {
		if params.Project != "" {
			q.Set("project", params.Project)
		}
		if params.Admin {
			q.Set("admin", "true")
		}
	}

	var resp DashboardsResponse
	if err := c.get(ctx, "/api/v1/dashboards", q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetDashboard returns a dashboard with its namespace variable bound to the
// project list. namespace, when set, becomes the initial selection.
func (c *Client) GetDashboard(
	ctx context.Context,
	project, name, namespace string,
) (*domain.Dashboard, error) {
	q := url.Values{}
	if namespace != "" {
		q.Set("var-namespace", namespace)
	}

	path := "/api/v1/projects/" + url.PathEscape(project) + "/dashboards/" + url.PathEscape(name)

	var d domain.Dashboard
	if err := c.get(ctx, path, q, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// DashboardURL returns the page URL selecting dashboard. An empty project
// targets the cluster-wide page.
func (c *Client) DashboardURL(ctx context.Context, project, dashboard, namespace string) (string, error) {
	q := url.Values{}
	q.Set("dashboard", dashboard)
	if project != "" {
		q.Set("project", project)
	}
	if namespace != "" {
		q.Set("namespace", namespace)
	}

	var resp struct {
		URL string `json:"url"`
	}
	if err := c.get(ctx, "/api/v1/dashboard-url", q, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}
