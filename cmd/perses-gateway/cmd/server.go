package cmd

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/donaldgifford/perses-gateway/api/openapi"
	"github.com/donaldgifford/perses-gateway/internal/api/handlers"
	mw "github.com/donaldgifford/perses-gateway/internal/api/middleware"
	"github.com/donaldgifford/perses-gateway/internal/config"
	"github.com/donaldgifford/perses-gateway/internal/datasource"
	"github.com/donaldgifford/perses-gateway/internal/perses"
	"github.com/donaldgifford/perses-gateway/internal/projects"
	"github.com/donaldgifford/perses-gateway/internal/warmup"
	"github.com/donaldgifford/perses-gateway/pkg/logger"
)

const apiTitle = "Perses Gateway API"

// server is the wired gateway.
type server struct {
	echo      *echo.Echo
	perses    *perses.Client
	cache     *datasource.CachedAPI
	scheduler *warmup.Scheduler // nil when warmup is disabled
}

// newServer wires the Perses client, the datasource cache, the project
// sources and the HTTP routes from cfg.
func newServer(cfg *config.Config, log *slog.Logger) (*server, error) {
	client := newPersesClient(&cfg.Perses)

	cacheOpts := []datasource.Option{
		datasource.WithTTL(cfg.Cache.TTL),
		datasource.WithLogger(log),
	}
	if cfg.Cache.Coalesce {
		cacheOpts = append(cacheOpts, datasource.WithCoalescing())
	}
	cache := datasource.NewCachedAPI(client, cacheOpts...)

	projectSource, admin, err := newProjectSources(cfg, client, log)
	if err != nil {
		return nil, err
	}

	s := &server{perses: client, cache: cache}

	var warmer handlers.WarmupRunner
	if cfg.Warmup.Enabled {
		wlog := logger.Component(log, "warmup")
		s.scheduler, err = warmup.NewScheduler(
			warmup.NewWarmer(projectSource, cache, wlog),
			cfg.Warmup.Interval,
			wlog,
		)
		if err != nil {
			return nil, fmt.Errorf("creating warmup scheduler: %w", err)
		}
		warmer = s.scheduler
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	httpLog := logger.Component(log, "http")
	e.Use(mw.Recovery(httpLog), mw.RequestLog(httpLog), mw.Metrics())

	health := handlers.NewHealthHandler(client)
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	openapi.RegisterRoutes(e, apiTitle)

	humaCfg := huma.DefaultConfig(apiTitle, Version)
	humaCfg.OpenAPIPath = openapi.SpecPath
	humaCfg.DocsPath = ""
	api := humaecho.New(e, humaCfg)

	handlers.RegisterDashboardRoutes(api, handlers.NewDashboardsHandler(
		client, projectSource, admin, logger.Component(log, "dashboards")))
	handlers.RegisterProjectRoutes(api, handlers.NewProjectsHandler(projectSource))
	handlers.RegisterDatasourceRoutes(api, handlers.NewDatasourcesHandler(cache, client.ProxyURL))
	handlers.RegisterDashboardURLRoutes(api)
	handlers.RegisterCacheRoutes(api, handlers.NewCacheHandler(cache, warmer))

	s.echo = e
	return s, nil
}

func newPersesClient(cfg *config.PersesConfig) *perses.Client {
	opts := []perses.Option{
		perses.WithBasePath(cfg.BasePath),
		perses.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	}

	switch {
	case cfg.TokenFile != "":
		opts = append(opts, perses.WithTokenProvider(perses.NewFileToken(cfg.TokenFile)))
	case cfg.Token != "":
		opts = append(opts, perses.WithTokenProvider(perses.StaticToken(cfg.Token)))
	}

	if cfg.RateLimit.PerSecond > 0 {
		opts = append(opts, perses.WithRateLimiter(
			perses.NewRateLimiter(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst)))
	}

	return perses.NewClient(cfg.URL, opts...)
}

// newProjectSources returns where project names come from and who decides
// admin status. Without cluster access projects come from Perses and the
// admin checker is nil.
func newProjectSources(
	cfg *config.Config,
	client *perses.Client,
	log *slog.Logger,
) (handlers.ProjectSource, handlers.AdminChecker, error) {
	if !cfg.Kubernetes.Enabled {
		log.Info("kubernetes disabled, listing projects from perses")
		return projects.NewPersesLister(client), nil, nil
	}

	cs, err := projects.NewClientset(cfg.Kubernetes.Kubeconfig)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to kubernetes: %w", err)
	}

	lister := projects.NewLister(cs,
		projects.WithLabelSelector(cfg.Kubernetes.ProjectLabelSelector),
		projects.WithListerLogger(logger.Component(log, "projects")),
	)

	if !cfg.AdminCheckEnabled() {
		return lister, nil, nil
	}
	return lister, projects.NewReviewer(cs), nil
}
