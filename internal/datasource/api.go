// Package datasource resolves Perses datasources through a TTL cache that
// also remembers lookups that found nothing.
package datasource

import (
	"context"

	domain "github.com/donaldgifford/perses-gateway/pkg/types"
)

// API looks up datasources. A lookup that finds nothing returns nil with a
// nil error; errors are reserved for failed requests.
type API interface {
	GetDatasource(
		ctx context.Context,
		project string,
		sel domain.DatasourceSelector,
	) (*domain.Datasource, error)
	GetGlobalDatasource(
		ctx context.Context,
		sel domain.DatasourceSelector,
	) (*domain.Datasource, error)
	ListDatasources(ctx context.Context, project, pluginKind string) ([]domain.Datasource, error)
	ListGlobalDatasources(ctx context.Context, pluginKind string) ([]domain.Datasource, error)
}
