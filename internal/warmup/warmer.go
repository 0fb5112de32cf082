// Package warmup periodically loads the datasources of every project into
// the datasource cache, so page loads rarely wait on Perses.
package warmup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/donaldgifford/perses-gateway/internal/metrics"
	domain "github.com/donaldgifford/perses-gateway/pkg/types"
)

// ProjectLister lists the platform projects to warm.
type ProjectLister interface {
	ListProjectNames(ctx context.Context) ([]string, error)
}

// DatasourceLister lists datasources, caching them as a side effect.
type DatasourceLister interface {
	ListDatasources(ctx context.Context, project, pluginKind string) ([]domain.Datasource, error)
	ListGlobalDatasources(ctx context.Context, pluginKind string) ([]domain.Datasource, error)
}

// Result summarizes one warmup run.
type Result struct {
	Projects    int `json:"projects"`
	Datasources int `json:"datasources"`
	Failed      int `json:"failed"`
}

// Warmer loads datasources through a caching DatasourceLister.
type Warmer struct {
	projects    ProjectLister
	datasources DatasourceLister
	log         *slog.Logger
}

// NewWarmer creates a Warmer.
func NewWarmer(projects ProjectLister, datasources DatasourceLister, log *slog.Logger) *Warmer {
	return &Warmer{
		projects:    projects,
		datasources: datasources,
		log:         log,
	}
}

// Run warms global datasources and the datasources of every project. A
// failing project does not stop the run; all failures are returned joined.
func (w *Warmer) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	defer func() {
		metrics.WarmupDuration.Observe(time.Since(start).Seconds())
	}()

	var res Result

	names, err := w.projects.ListProjectNames(ctx)
	if err != nil {
		metrics.WarmupRunsTotal.WithLabelValues("error").Inc()
		return res, fmt.Errorf("listing projects: %w", err)
	}

	var errs []error

	global, err := w.datasources.ListGlobalDatasources(ctx, "")
	if err != nil {
		res.Failed++
		errs = append(errs, fmt.Errorf("warming global datasources: %w", err))
	}
	res.Datasources += len(global)

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		list, err := w.datasources.ListDatasources(ctx, name, "")
		if err != nil {
			res.Failed++
			w.log.Warn("warming project datasources failed", "project", name, "error", err)
			errs = append(errs, fmt.Errorf("warming project %s: %w", name, err))
			continue
		}
		res.Projects++
		res.Datasources += len(list)
	}

	metrics.WarmupDatasourcesTotal.Add(float64(res.Datasources))

	err = errors.Join(errs...)
	switch {
	case err == nil:
		metrics.WarmupRunsTotal.WithLabelValues("success").Inc()
	case res.Projects > 0:
		metrics.WarmupRunsTotal.WithLabelValues("partial").Inc()
	default:
		metrics.WarmupRunsTotal.WithLabelValues("error").Inc()
	}

	w.log.Info("datasource cache warmed",
		"projects", res.Projects,
		"datasources", res.Datasources,
		"failed", res.Failed,
		"duration", time.Since(start),
	)

	return res, err
}
