package projects_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/perses-gateway/internal/projects"
	domain "github.com/donaldgifford/perses-gateway/pkg/types"
)

type persesProjectsFunc func(context.Context) ([]domain.Project, error)

func (f persesProjectsFunc) ListProjects(ctx context.Context) ([]domain.Project, error) {
	return f(ctx)
}

func persesProject(name string) domain.Project {
	return domain.Project{Kind: domain.KindProject, Metadata: domain.Metadata{Name: name}}
}

func TestPersesLister_ListProjectNames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		list    []domain.Project
		err     error
		want    []string
		wantErr string
	}{
		{
			name: "sorted and deduplicated",
			list: []domain.Project{
				persesProject("zeta"),
				persesProject("alpha"),
				persesProject("zeta"),
			},
			want: []string{"alpha", "zeta"},
		},
		{
			name: "empty",
			want: []string{},
		},
		{
			name:    "upstream error",
			err:     errors.New("connection refused"),
			wantErr: "listing perses projects: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l := projects.NewPersesLister(persesProjectsFunc(
				func(context.Context) ([]domain.Project, error) {
					return tt.list, tt.err
				}))

			got, err := l.ListProjectNames(t.Context())
			if tt.wantErr != "" {
				require.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
