package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// ProjectsHandler lists platform projects.
type ProjectsHandler struct {
	projects ProjectSource
}

// NewProjectsHandler creates a new ProjectsHandler.
func NewProjectsHandler(p ProjectSource) *ProjectsHandler {
	return &ProjectsHandler{projects: p}
}

// ListProjectsOutput is the response for listing projects.
type ListProjectsOutput struct {
	Body struct {
		Projects []string `json:"projects" example:"[\"alpha\",\"beta\"]"`
	}
}

// ListProjects returns the project names in ascending order.
func (h *ProjectsHandler) ListProjects(ctx context.Context, _ *struct{}) (*ListProjectsOutput, error) {
	names, err := h.projects.ListProjectNames(ctx)
	if err != nil {
		return nil, huma.Error502BadGateway("listing projects failed", err)
	}

	resp := &ListProjectsOutput{}
	resp.Body.Projects = names
	if resp.Body.Projects == nil {
		resp.Body.Projects = []string{}
	}
	return resp, nil
}

// RegisterProjectRoutes registers project endpoints with the Huma API.
func RegisterProjectRoutes(api huma.API, h *ProjectsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-projects",
		Method:      http.MethodGet,
		Path:        "/api/v1/projects",
		Summary:     "List projects",
		Description: "Returns the names of the platform projects offered by the namespace variable.",
		Tags:        []string{"projects"},
		Errors:      []int{http.StatusBadGateway},
	}, h.ListProjects)
}
