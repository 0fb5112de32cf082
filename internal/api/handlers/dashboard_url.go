package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/perses-gateway/internal/urlsync"
	"github.com/donaldgifford/perses-gateway/pkg/dashboards"
	domain "github.com/donaldgifford/perses-gateway/pkg/types"
)

// DashboardURLInput is the input for building a dashboard page URL.
type DashboardURLInput struct {
	Project   string `query:"project"   doc:"Project of the page; the cluster-wide page when empty"`
	Dashboard string `query:"dashboard" doc:"Dashboard to select"                                     required:"true"`
	Namespace string `query:"namespace" doc:"Namespace selection, comma-separated for several"`
}

// DashboardURLOutput is the response for building a dashboard page URL.
type DashboardURLOutput struct {
	Body struct {
		URL string `json:"url" example:"/observe-and-monitor/dashboard/alpha?dashboard=dashboard-model&var-namespace=alpha"`
	}
}

// GetDashboardURL builds the page URL of a dashboard. The namespace
// selection reaches the URL the same way a page does: the variable starts
// at all namespaces and the selection is then synced into the query.
func GetDashboardURL(_ context.Context, input *DashboardURLInput) (*DashboardURLOutput, error) {
	params := urlsync.NewURLParams(nil)
	store := urlsync.NewStore()
	detach := urlsync.Attach(store, params)
	defer detach()

	store.Set(dashboards.NamespaceVariableName, urlsync.VariableState{
		Value: domain.SingleValue(dashboards.AllValue),
	})
	if v := dashboards.ParseNamespaceParam(input.Namespace); v != nil {
		store.Set(dashboards.NamespaceVariableName, urlsync.VariableState{Value: v})
	}

	resp := &DashboardURLOutput{}
	resp.Body.URL = dashboards.BuildDashboardURL(input.Project, input.Dashboard, params.Values())
	return resp, nil
}

// RegisterDashboardURLRoutes registers the dashboard URL endpoint with the
// Huma API.
func RegisterDashboardURLRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-dashboard-url",
		Method:      http.MethodGet,
		Path:        "/api/v1/dashboard-url",
		Summary:     "Build a dashboard page URL",
		Description: "Returns the page URL selecting a dashboard, carrying the namespace selection as var-namespace.",
		Tags:        []string{"dashboards"},
	}, GetDashboardURL)
}
