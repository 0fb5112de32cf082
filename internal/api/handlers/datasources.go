package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domain "github.com/donaldgifford/perses-gateway/pkg/types"
)

// DatasourceGetter looks up a single datasource. A nil datasource with a
// nil error means none matched.
type DatasourceGetter interface {
	GetDatasource(ctx context.Context, project string, sel domain.DatasourceSelector) (*domain.Datasource, error)
	GetGlobalDatasource(ctx context.Context, sel domain.DatasourceSelector) (*domain.Datasource, error)
}

// ProxyURLFunc returns the URL that proxies queries to a datasource. An
// empty project selects a global datasource.
type ProxyURLFunc func(project, dashboard, datasource string) string

// DatasourcesHandler resolves datasources through the datasource cache.
type DatasourcesHandler struct {
	datasources DatasourceGetter
	proxyURL    ProxyURLFunc
}

// NewDatasourcesHandler creates a new DatasourcesHandler.
func NewDatasourcesHandler(d DatasourceGetter, proxyURL ProxyURLFunc) *DatasourcesHandler {
	return &DatasourcesHandler{datasources: d, proxyURL: proxyURL}
}

// --- Input/Output types ---

// GetDatasourceInput is the input for a project datasource lookup.
type GetDatasourceInput struct {
	Project string `path:"project" doc:"Perses project"`
	Kind    string `path:"kind"    doc:"Datasource plugin kind" example:"PrometheusDatasource"`
	Name    string `query:"name"   doc:"Datasource name; the default datasource of kind when empty"`
}

// GetGlobalDatasourceInput is the input for a global datasource lookup.
type GetGlobalDatasourceInput struct {
	Kind string `path:"kind"  doc:"Datasource plugin kind" example:"PrometheusDatasource"`
	Name string `query:"name" doc:"Datasource name; the default datasource of kind when empty"`
}

// DatasourceOutput is the response for a datasource lookup.
type DatasourceOutput struct {
	Body struct {
		Datasource domain.Datasource `json:"datasource"`
		ProxyURL   string            `json:"proxy_url" example:"https://perses.example.com/perses/api/proxy/projects/alpha/datasources/prom"`
	}
}

// --- Handlers ---

// GetDatasource returns the datasource of a project matching the selector.
func (h *DatasourcesHandler) GetDatasource(
	ctx context.Context,
	input *GetDatasourceInput,
) (*DatasourceOutput, error) {
	ds, err := h.datasources.GetDatasource(ctx, input.Project,
		domain.DatasourceSelector{Kind: input.Kind, Name: input.Name})
	if err != nil {
		return nil, upstreamError("datasource", err)
	}
	return h.output(input.Project, ds)
}

// GetGlobalDatasource returns the global datasource matching the selector.
func (h *DatasourcesHandler) GetGlobalDatasource(
	ctx context.Context,
	input *GetGlobalDatasourceInput,
) (*DatasourceOutput, error) {
	ds, err := h.datasources.GetGlobalDatasource(ctx,
		domain.DatasourceSelector{Kind: input.Kind, Name: input.Name})
	if err != nil {
		return nil, upstreamError("global datasource", err)
	}
	return h.output("", ds)
}

func (h *DatasourcesHandler) output(project string, ds *domain.Datasource) (*DatasourceOutput, error) {
	if ds == nil {
		return nil, huma.Error404NotFound("datasource not found")
	}

	resp := &DatasourceOutput{}
	resp.Body.Datasource = *ds
	resp.Body.ProxyURL = h.proxyURL(project, "", ds.Metadata.Name)
	return resp, nil
}

// RegisterDatasourceRoutes registers datasource endpoints with the Huma API.
func RegisterDatasourceRoutes(api huma.API, h *DatasourcesHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-datasource",
		Method:      http.MethodGet,
		Path:        "/api/v1/projects/{project}/datasources/{kind}",
		Summary:     "Get a project datasource",
		Description: "Returns the named datasource of a project, or its default datasource of the given kind.",
		Tags:        []string{"datasources"},
		Errors:      []int{http.StatusNotFound, http.StatusBadGateway},
	}, h.GetDatasource)

	huma.Register(api, huma.Operation{
		OperationID: "get-global-datasource",
		Method:      http.MethodGet,
		Path:        "/api/v1/globaldatasources/{kind}",
		Summary:     "Get a global datasource",
		Description: "Returns the named global datasource, or the default global datasource of the given kind.",
		Tags:        []string{"datasources"},
		Errors:      []int{http.StatusNotFound, http.StatusBadGateway},
	}, h.GetGlobalDatasource)
}
