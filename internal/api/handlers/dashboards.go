package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/perses-gateway/pkg/dashboards"
	domain "github.com/donaldgifford/perses-gateway/pkg/types"
)

// DashboardSource reads dashboards from Perses.
type DashboardSource interface {
	ListDashboards(ctx context.Context) ([]domain.Dashboard, error)
	ListProjectDashboards(ctx context.Context, project string) ([]domain.Dashboard, error)
	GetDashboard(ctx context.Context, project, name string) (*domain.Dashboard, error)
}

// ProjectSource lists the platform projects visible to the gateway.
type ProjectSource interface {
	ListProjectNames(ctx context.Context) ([]string, error)
}

// AdminChecker decides whether the calling user is a cluster admin.
type AdminChecker interface {
	IsAdmin(ctx context.Context, user string, groups []string) (bool, error)
}

// DashboardsHandler serves the filtered dashboard list and single
// dashboards with their namespace variable bound to the project list.
type DashboardsHandler struct {
	dashboards DashboardSource
	projects   ProjectSource
	admin      AdminChecker
	log        *slog.Logger
}

// NewDashboardsHandler creates a new DashboardsHandler. With a nil admin
// checker the caller's admin query parameter is trusted.
func NewDashboardsHandler(
	d DashboardSource,
	p ProjectSource,
	admin AdminChecker,
	log *slog.Logger,
) *DashboardsHandler {
	return &DashboardsHandler{dashboards: d, projects: p, admin: admin, log: log}
}

// --- Input/Output types ---

// ListDashboardsInput is the input for listing dashboards.
type ListDashboardsInput struct {
	Project string `query:"project"            doc:"Only list dashboards of this project"`
	Admin   bool   `query:"admin"              doc:"Include admin dashboards; ignored when access reviews are enabled"`
	User    string `header:"X-Forwarded-User"   doc:"Authenticated user set by the auth proxy"`
	Groups  string `header:"X-Forwarded-Groups" doc:"Comma-separated groups of the user"`
}

// DashboardSummary is one entry of the dashboard list.
type DashboardSummary struct {
	Name        string `json:"name"         example:"dashboard-model-serving"`
	Project     string `json:"project"      example:"monitoring"`
	DisplayName string `json:"display_name" example:"Model Serving"`
	URL         string `json:"url"          example:"/observe-and-monitor/dashboard?dashboard=dashboard-model-serving"`
}

// ListDashboardsOutput is the response for listing dashboards.
type ListDashboardsOutput struct {
	Body struct {
		Dashboards []DashboardSummary `json:"dashboards"`
		Total      int                `json:"total"`
		Admin      bool               `json:"admin"`
	}
}

// GetDashboardInput is the input for getting a single dashboard.
type GetDashboardInput struct {
	Project   string `path:"project"        doc:"Perses project"`
	Name      string `path:"name"           doc:"Dashboard name"`
	Namespace string `query:"var-namespace" doc:"Initial namespace selection, comma-separated for several"`
}

// GetDashboardOutput is the response for getting a single dashboard.
type GetDashboardOutput struct {
	Body domain.Dashboard
}

// --- Handlers ---

// ListDashboards returns the dashboards meant for end users, sorted by
// name. Admin dashboards are included for cluster admins only.
func (h *DashboardsHandler) ListDashboards(
	ctx context.Context,
	input *ListDashboardsInput,
) (*ListDashboardsOutput, error) {
	var (
		list []domain.Dashboard
		err  error
	)
	if input.Project != "" {
		list, err = h.dashboards.ListProjectDashboards(ctx, input.Project)
	} else {
		list, err = h.dashboards.ListDashboards(ctx)
	}
	if err != nil {
		return nil, upstreamError("dashboards", err)
	}

	isAdmin := h.isAdmin(ctx, input)
	filtered := dashboards.FilterDashboards(list, isAdmin)

	resp := &ListDashboardsOutput{}
	resp.Body.Dashboards = make([]DashboardSummary, len(filtered))
	for i := range filtered {
		d := &filtered[i]
		resp.Body.Dashboards[i] = DashboardSummary{
			Name:        d.Metadata.Name,
			Project:     d.Metadata.Project,
			DisplayName: dashboards.DisplayName(d),
			URL:         dashboards.BuildDashboardURL(input.Project, d.Metadata.Name, nil),
		}
	}
	resp.Body.Total = len(filtered)
	resp.Body.Admin = isAdmin

	return resp, nil
}

// isAdmin resolves the caller's admin status. A failed access review
// counts as not admin.
func (h *DashboardsHandler) isAdmin(ctx context.Context, input *ListDashboardsInput) bool {
	if h.admin == nil {
		return input.Admin
	}

	ok, err := h.admin.IsAdmin(ctx, input.User, splitGroups(input.Groups))
	if err != nil {
		h.log.Warn("admin check failed", "user", input.User, "error", err)
		return false
	}
	return ok
}

// GetDashboard returns a dashboard whose namespace variable lists the
// platform projects.
func (h *DashboardsHandler) GetDashboard(
	ctx context.Context,
	input *GetDashboardInput,
) (*GetDashboardOutput, error) {
	d, err := h.dashboards.GetDashboard(ctx, input.Project, input.Name)
	if err != nil {
		return nil, upstreamError("dashboard", err)
	}

	names, err := h.projects.ListProjectNames(ctx)
	if err != nil {
		return nil, huma.Error502BadGateway("listing projects failed", err)
	}

	out := dashboards.TransformNamespaceVariable(d, names, dashboards.ParseNamespaceParam(input.Namespace))
	return &GetDashboardOutput{Body: *out}, nil
}

func splitGroups(raw string) []string {
	if raw == "" {
		return nil
	}
	var groups []string
	for g := range strings.SplitSeq(raw, ",") {
		if g = strings.TrimSpace(g); g != "" {
			groups = append(groups, g)
		}
	}
	return groups
}

// RegisterDashboardRoutes registers dashboard endpoints with the Huma API.
func RegisterDashboardRoutes(api huma.API, h *DashboardsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-dashboards",
		Method:      http.MethodGet,
		Path:        "/api/v1/dashboards",
		Summary:     "List dashboards",
		Description: "Returns the dashboards shown to the caller, optionally limited to one project.",
		Tags:        []string{"dashboards"},
		Errors:      []int{http.StatusBadGateway},
	}, h.ListDashboards)

	huma.Register(api, huma.Operation{
		OperationID: "get-dashboard",
		Method:      http.MethodGet,
		Path:        "/api/v1/projects/{project}/dashboards/{name}",
		Summary:     "Get a dashboard",
		Description: "Returns a dashboard whose namespace variable lists the platform projects.",
		Tags:        []string{"dashboards"},
		Errors:      []int{http.StatusNotFound, http.StatusBadGateway},
	}, h.GetDashboard)
}
