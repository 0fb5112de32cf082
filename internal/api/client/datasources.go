package client

import (
	"context"
	"net/url"

	domain "github.com/donaldgifford/perses-gateway/pkg/types"
)

// DatasourceResponse is a resolved datasource and its proxy URL.
type DatasourceResponse struct {
	Datasource domain.Datasource `json:"datasource"`
	ProxyURL   string            `json:"proxy_url"`
}

// GetDatasource resolves a datasource of project. An empty project looks
// up a global datasource; an empty name selects the default of kind.
func (c *Client) GetDatasource(
	ctx context.Context,
	project string,
	sel domain.DatasourceSelector,
) (*DatasourceResponse, error) {
	path := "/api/v1/globaldatasources/" + url.PathEscape(sel.Kind)
	if project != "" {
		path = "/api/v1/projects/" + url.PathEscape(project) + "/datasources/" + url.PathEscape(sel.Kind)
	}

	q := url.Values{}
	if sel.Name != "" {
		q.Set("name", sel.Name)
	}

	var resp DatasourceResponse
	if err := c.get(ctx, path, q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
