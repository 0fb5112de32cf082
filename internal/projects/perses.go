package projects

import (
	"context"
	"fmt"
	"slices"

	domain "github.com/donaldgifford/perses-gateway/pkg/types"
)

// PersesProjects lists the projects Perses itself knows about.
type PersesProjects interface {
	ListProjects(ctx context.Context) ([]domain.Project, error)
}

// PersesLister lists project names from Perses. It stands in for Lister
// when the gateway runs without cluster access.
type PersesLister struct {
	api PersesProjects
}

// NewPersesLister creates a PersesLister backed by api.
func NewPersesLister(api PersesProjects) *PersesLister {
	return &PersesLister{api: api}
}

// ListProjectNames returns the Perses project names in ascending order.
func (l *PersesLister) ListProjectNames(ctx context.Context) ([]string, error) {
	list, err := l.api.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing perses projects: %w", err)
	}

	names := make([]string, 0, len(list))
	for i := range list {
		names = append(names, list[i].Metadata.Name)
	}
	slices.Sort(names)
	return slices.Compact(names), nil
}
