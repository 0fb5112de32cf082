package perses

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	domain "github.com/donaldgifford/perses-gateway/pkg/types"
)

// selectorQuery narrows a datasource listing to sel: by name when one is
// given, otherwise to the default datasource of the kind.
func selectorQuery(sel domain.DatasourceSelector) url.Values {
	q := url.Values{}
	if sel.Kind != "" {
		q.Set("kind", sel.Kind)
	}
	if sel.Name != "" {
		q.Set("name", sel.Name)
	} else {
		q.Set("default", "true")
	}
	return q
}

func kindQuery(pluginKind string) url.Values {
	if pluginKind == "" {
		return nil
	}
	return url.Values{"kind": {pluginKind}}
}

func projectDatasourcesPath(project string) string {
	return "/api/v1/projects/" + url.PathEscape(project) + "/datasources"
}

// first returns the first datasource of list, or nil when the list is empty.
func first(list []domain.Datasource) *domain.Datasource {
	if len(list) == 0 {
		return nil
	}
	ds := list[0]
	return &ds
}

// GetDatasource returns the datasource of project matching sel. It returns
// nil with a nil error when no datasource matches.
func (c *Client) GetDatasource(
	ctx context.Context,
	project string,
	sel domain.DatasourceSelector,
) (*domain.Datasource, error) {
	var out []domain.Datasource
	err := c.get(ctx, "get_datasource", projectDatasourcesPath(project), selectorQuery(sel), &out)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting %s datasource of project %q: %w", sel.Kind, project, err)
	}
	return first(out), nil
}

// GetGlobalDatasource returns the global datasource matching sel, or nil
// when none matches.
func (c *Client) GetGlobalDatasource(
	ctx context.Context,
	sel domain.DatasourceSelector,
) (*domain.Datasource, error) {
	var out []domain.Datasource
	err := c.get(ctx, "get_global_datasource", "/api/v1/globaldatasources", selectorQuery(sel), &out)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting %s global datasource: %w", sel.Kind, err)
	}
	return first(out), nil
}

// ListDatasources returns the datasources of project, optionally narrowed
// to one plugin kind.
func (c *Client) ListDatasources(
	ctx context.Context,
	project, pluginKind string,
) ([]domain.Datasource, error) {
	var out []domain.Datasource
	err := c.get(ctx, "list_datasources", projectDatasourcesPath(project), kindQuery(pluginKind), &out)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing datasources of project %q: %w", project, err)
	}
	return out, nil
}

// ListGlobalDatasources returns the global datasources, optionally narrowed
// to one plugin kind.
func (c *Client) ListGlobalDatasources(
	ctx context.Context,
	pluginKind string,
) ([]domain.Datasource, error) {
	var out []domain.Datasource
	err := c.get(ctx, "list_global_datasources", "/api/v1/globaldatasources", kindQuery(pluginKind), &out)
	if err != nil {
		return nil, fmt.Errorf("listing global datasources: %w", err)
	}
	return out, nil
}
