package datasource

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/donaldgifford/perses-gateway/internal/metrics"
	"github.com/donaldgifford/perses-gateway/pkg/logger"
	domain "github.com/donaldgifford/perses-gateway/pkg/types"
)

const tracerName = "github.com/donaldgifford/perses-gateway/internal/datasource"

const (
	scopeProject = "project"
	scopeGlobal  = "global"

	resultHit         = "hit"
	resultNegativeHit = "negative_hit"
	resultMiss        = "miss"
)

// Stats reports the number of entries held by each cache.
type Stats struct {
	Datasources              int `json:"datasources"`
	GlobalDatasources        int `json:"global_datasources"`
	MissingDatasources       int `json:"missing_datasources"`
	MissingGlobalDatasources int `json:"missing_global_datasources"`
}

// CachedAPI is an API that answers from a TTL cache before delegating.
// Results that found nothing are remembered too, so a datasource that does
// not exist costs one upstream call per ttl window. Cached datasources are
// shared between callers and must not be modified.
type CachedAPI struct {
	api API
	log *slog.Logger

	datasources       *Cache[*domain.Datasource]
	globalDatasources *Cache[*domain.Datasource]
	missing           *Cache[struct{}]
	missingGlobal     *Cache[struct{}]

	group  *singleflight.Group
	tracer trace.Tracer
}

type cachedOptions struct {
	ttl      time.Duration
	now      func() time.Time
	coalesce bool
	log      *slog.Logger
}

// Option configures a CachedAPI.
type Option func(*cachedOptions)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(o *cachedOptions) {
		o.ttl = ttl
	}
}

// WithNowFunc overrides the clock for testing.
func WithNowFunc(f func() time.Time) Option {
	return func(o *cachedOptions) {
		o.now = f
	}
}

// WithCoalescing makes concurrent identical cache misses share a single
// upstream call. Without it every miss goes upstream on its own. The shared
// call ignores the cancellation of the caller that started it, so one
// caller giving up does not fail the others.
func WithCoalescing() Option {
	return func(o *cachedOptions) {
		o.coalesce = true
	}
}

// WithLogger sets the logger used for cache debug output.
func WithLogger(l *slog.Logger) Option {
	return func(o *cachedOptions) {
		o.log = l
	}
}

// NewCachedAPI wraps api with datasource caching.
func NewCachedAPI(api API, opts ...Option) *CachedAPI {
	o := cachedOptions{ttl: DefaultTTL, now: time.Now, log: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	c := &CachedAPI{
		api:               api,
		log:               logger.Component(o.log, "datasource-cache"),
		datasources:       NewCache[*domain.Datasource](o.ttl, o.now),
		globalDatasources: NewCache[*domain.Datasource](o.ttl, o.now),
		missing:           NewCache[struct{}](o.ttl, o.now),
		missingGlobal:     NewCache[struct{}](o.ttl, o.now),
		tracer:            otel.Tracer(tracerName),
	}
	if o.coalesce {
		c.group = &singleflight.Group{}
	}
	return c
}

// GetDatasource returns the datasource of project matching sel, or nil when
// none exists.
func (c *CachedAPI) GetDatasource(
	ctx context.Context,
	project string,
	sel domain.DatasourceSelector,
) (*domain.Datasource, error) {
	ctx, span := c.startSpan(ctx, "GetDatasource", sel,
		attribute.String("perses.project", project))
	defer span.End()

	return c.lookup(ctx, span, scopeProject, project, sel, c.datasources, c.missing,
		func(ctx context.Context) (*domain.Datasource, error) {
			return c.api.GetDatasource(ctx, project, sel)
		})
}

// GetGlobalDatasource returns the global datasource matching sel, or nil
// when none exists.
func (c *CachedAPI) GetGlobalDatasource(
	ctx context.Context,
	sel domain.DatasourceSelector,
) (*domain.Datasource, error) {
	ctx, span := c.startSpan(ctx, "GetGlobalDatasource", sel)
	defer span.End()

	return c.lookup(ctx, span, scopeGlobal, "", sel, c.globalDatasources, c.missingGlobal,
		func(ctx context.Context) (*domain.Datasource, error) {
			return c.api.GetGlobalDatasource(ctx, sel)
		})
}

// ListDatasources always asks upstream and caches every datasource returned.
func (c *CachedAPI) ListDatasources(
	ctx context.Context,
	project, pluginKind string,
) ([]domain.Datasource, error) {
	ctx, span := c.startSpan(ctx, "ListDatasources",
		domain.DatasourceSelector{Kind: pluginKind},
		attribute.String("perses.project", project))
	defer span.End()

	list, err := c.api.ListDatasources(ctx, project, pluginKind)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	for i := range list {
		c.store(c.datasources, project, nil, &list[i])
	}
	c.updateEntryGauges()
	span.SetAttributes(attribute.Int("datasource.count", len(list)))

	return list, nil
}

// ListGlobalDatasources always asks upstream and caches every global
// datasource returned.
func (c *CachedAPI) ListGlobalDatasources(
	ctx context.Context,
	pluginKind string,
) ([]domain.Datasource, error) {
	ctx, span := c.startSpan(ctx, "ListGlobalDatasources",
		domain.DatasourceSelector{Kind: pluginKind})
	defer span.End()

	list, err := c.api.ListGlobalDatasources(ctx, pluginKind)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	for i := range list {
		c.store(c.globalDatasources, "", nil, &list[i])
	}
	c.updateEntryGauges()
	span.SetAttributes(attribute.Int("datasource.count", len(list)))

	return list, nil
}

// Stats returns the current entry counts.
func (c *CachedAPI) Stats() Stats {
	return Stats{
		Datasources:              c.datasources.Len(),
		GlobalDatasources:        c.globalDatasources.Len(),
		MissingDatasources:       c.missing.Len(),
		MissingGlobalDatasources: c.missingGlobal.Len(),
	}
}

func (c *CachedAPI) lookup(
	ctx context.Context,
	span trace.Span,
	scope, project string,
	sel domain.DatasourceSelector,
	hits *Cache[*domain.Datasource],
	misses *Cache[struct{}],
	fetch func(context.Context) (*domain.Datasource, error),
) (*domain.Datasource, error) {
	key := BuildKey(sel, project)

	if ds, ok := hits.Get(key); ok {
		c.recordLookup(span, scope, resultHit)
		return ds, nil
	}
	if _, ok := misses.Get(key); ok {
		c.recordLookup(span, scope, resultNegativeHit)
		return nil, nil
	}
	c.recordLookup(span, scope, resultMiss)

	ds, err := c.fetch(ctx, scope+"/"+key, fetch)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	if ds == nil {
		c.log.Debug("datasource not found, remembering miss", "scope", scope, "key", key)
		misses.Set(key, struct{}{})
	} else {
		c.store(hits, project, &sel, ds)
	}
	c.updateEntryGauges()

	return ds, nil
}

func (c *CachedAPI) fetch(
	ctx context.Context,
	flightKey string,
	fetch func(context.Context) (*domain.Datasource, error),
) (*domain.Datasource, error) {
	if c.group == nil {
		return fetch(ctx)
	}

	v, err, shared := c.group.Do(flightKey, func() (any, error) {
		return fetch(context.WithoutCancel(ctx))
	})
	if shared {
		c.log.Debug("coalesced datasource lookup", "key", flightKey)
	}
	if err != nil {
		return nil, err
	}
	ds, _ := v.(*domain.Datasource)
	return ds, nil
}

// store caches ds under the requested selector, under its own kind and
// name, and under its bare kind when it is that kind's default.
func (*CachedAPI) store(
	cache *Cache[*domain.Datasource],
	project string,
	requested *domain.DatasourceSelector,
	ds *domain.Datasource,
) {
	kind := ds.Spec.Plugin.Kind

	if requested != nil {
		cache.Set(BuildKey(*requested, project), ds)
	}
	cache.Set(BuildKey(domain.DatasourceSelector{Kind: kind, Name: ds.Metadata.Name}, project), ds)
	if ds.Spec.Default {
		cache.Set(BuildKey(domain.DatasourceSelector{Kind: kind}, project), ds)
	}
}

func (c *CachedAPI) updateEntryGauges() {
	s := c.Stats()
	metrics.DatasourceCacheEntries.WithLabelValues("datasources").Set(float64(s.Datasources))
	metrics.DatasourceCacheEntries.WithLabelValues("global_datasources").
		Set(float64(s.GlobalDatasources))
	metrics.DatasourceCacheEntries.WithLabelValues("missing_datasources").
		Set(float64(s.MissingDatasources))
	metrics.DatasourceCacheEntries.WithLabelValues("missing_global_datasources").
		Set(float64(s.MissingGlobalDatasources))
}

func (c *CachedAPI) startSpan(
	ctx context.Context,
	op string,
	sel domain.DatasourceSelector,
	attrs ...attribute.KeyValue,
) (context.Context, trace.Span) {
	attrs = append(attrs,
		attribute.String("datasource.kind", sel.Kind),
		attribute.String("datasource.name", sel.Name),
	)
	return c.tracer.Start(ctx, "datasource."+op, trace.WithAttributes(attrs...))
}

func (*CachedAPI) recordLookup(span trace.Span, scope, result string) {
	metrics.DatasourceCacheLookupsTotal.WithLabelValues(scope, result).Inc()
	span.SetAttributes(attribute.String("cache.result", result))
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
