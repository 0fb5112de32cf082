package datasource_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/perses-gateway/internal/datasource"
	"github.com/donaldgifford/perses-gateway/internal/datasource/mocks"
	domain "github.com/donaldgifford/perses-gateway/pkg/types"
)

const promKind = "PrometheusDatasource"

func promDatasource(name, project string, isDefault bool) *domain.Datasource {
	kind := domain.KindDatasource
	if project == "" {
		kind = domain.KindGlobalDatasource
	}
	return &domain.Datasource{
		Kind:     kind,
		Metadata: domain.Metadata{Name: name, Project: project},
		Spec: domain.DatasourceSpec{
			Default: isDefault,
			Plugin:  domain.Plugin{Kind: promKind},
		},
	}
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestCachedAPI_GetDatasource_CachesHit(t *testing.T) {
	t.Parallel()

	api := mocks.NewMockAPI(t)
	sel := domain.DatasourceSelector{Kind: promKind, Name: "thanos"}
	ds := promDatasource("thanos", "p1", false)
	api.On("GetDatasource", mock.Anything, "p1", sel).Return(ds, nil).Once()

	c := datasource.NewCachedAPI(api)

	got, err := c.GetDatasource(t.Context(), "p1", sel)
	require.NoError(t, err)
	assert.Same(t, ds, got)

	got, err = c.GetDatasource(t.Context(), "p1", sel)
	require.NoError(t, err)
	assert.Same(t, ds, got)
}

func TestCachedAPI_GetDatasource_NegativeCache(t *testing.T) {
	t.Parallel()

	api := mocks.NewMockAPI(t)
	sel := domain.DatasourceSelector{Kind: promKind, Name: "absent"}
	api.On("GetDatasource", mock.Anything, "p1", sel).Return(nil, nil).Once()

	c := datasource.NewCachedAPI(api)

	for range 3 {
		got, err := c.GetDatasource(t.Context(), "p1", sel)
		require.NoError(t, err)
		assert.Nil(t, got)
	}

	assert.Equal(t, 1, c.Stats().MissingDatasources)
}

func TestCachedAPI_GetDatasource_NegativeCacheExpires(t *testing.T) {
	t.Parallel()

	clock := newTestClock()
	api := mocks.NewMockAPI(t)
	sel := domain.DatasourceSelector{Kind: promKind}
	ds := promDatasource("thanos", "p1", true)
	api.On("GetDatasource", mock.Anything, "p1", sel).Return(nil, nil).Once()
	api.On("GetDatasource", mock.Anything, "p1", sel).Return(ds, nil).Once()

	c := datasource.NewCachedAPI(api, datasource.WithNowFunc(clock.Now))

	got, err := c.GetDatasource(t.Context(), "p1", sel)
	require.NoError(t, err)
	assert.Nil(t, got)

	clock.Advance(datasource.DefaultTTL + time.Second)

	got, err = c.GetDatasource(t.Context(), "p1", sel)
	require.NoError(t, err)
	assert.Same(t, ds, got)
}

func TestCachedAPI_GetDatasource_PositiveEntryExpires(t *testing.T) {
	t.Parallel()

	clock := newTestClock()
	api := mocks.NewMockAPI(t)
	sel := domain.DatasourceSelector{Kind: promKind, Name: "thanos"}
	first := promDatasource("thanos", "p1", false)
	second := promDatasource("thanos", "p1", false)
	api.On("GetDatasource", mock.Anything, "p1", sel).Return(first, nil).Once()
	api.On("GetDatasource", mock.Anything, "p1", sel).Return(second, nil).Once()

	c := datasource.NewCachedAPI(api,
		datasource.WithNowFunc(clock.Now),
		datasource.WithTTL(time.Minute),
	)

	got, err := c.GetDatasource(t.Context(), "p1", sel)
	require.NoError(t, err)
	assert.Same(t, first, got)

	clock.Advance(2 * time.Minute)

	got, err = c.GetDatasource(t.Context(), "p1", sel)
	require.NoError(t, err)
	assert.Same(t, second, got)
}

func TestCachedAPI_GetDatasource_DefaultStoredUnderBareKind(t *testing.T) {
	t.Parallel()

	api := mocks.NewMockAPI(t)
	named := domain.DatasourceSelector{Kind: promKind, Name: "thanos"}
	ds := promDatasource("thanos", "p1", true)
	api.On("GetDatasource", mock.Anything, "p1", named).Return(ds, nil).Once()

	c := datasource.NewCachedAPI(api)

	_, err := c.GetDatasource(t.Context(), "p1", named)
	require.NoError(t, err)

	got, err := c.GetDatasource(t.Context(), "p1", domain.DatasourceSelector{Kind: promKind})
	require.NoError(t, err)
	assert.Same(t, ds, got, "default datasource answers bare kind lookups")
}

func TestCachedAPI_GetDatasource_NonDefaultNotStoredUnderBareKind(t *testing.T) {
	t.Parallel()

	api := mocks.NewMockAPI(t)
	named := domain.DatasourceSelector{Kind: promKind, Name: "thanos"}
	bare := domain.DatasourceSelector{Kind: promKind}
	ds := promDatasource("thanos", "p1", false)
	api.On("GetDatasource", mock.Anything, "p1", named).Return(ds, nil).Once()
	api.On("GetDatasource", mock.Anything, "p1", bare).Return(nil, nil).Once()

	c := datasource.NewCachedAPI(api)

	_, err := c.GetDatasource(t.Context(), "p1", named)
	require.NoError(t, err)

	got, err := c.GetDatasource(t.Context(), "p1", bare)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCachedAPI_GetDatasource_ProjectsAreIsolated(t *testing.T) {
	t.Parallel()

	api := mocks.NewMockAPI(t)
	sel := domain.DatasourceSelector{Kind: promKind}
	ds1 := promDatasource("thanos", "p1", true)
	api.On("GetDatasource", mock.Anything, "p1", sel).Return(ds1, nil).Once()
	api.On("GetDatasource", mock.Anything, "p2", sel).Return(nil, nil).Once()

	c := datasource.NewCachedAPI(api)

	got, err := c.GetDatasource(t.Context(), "p1", sel)
	require.NoError(t, err)
	assert.Same(t, ds1, got)

	got, err = c.GetDatasource(t.Context(), "p2", sel)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCachedAPI_GetDatasource_ErrorPropagatesAndIsNotCached(t *testing.T) {
	t.Parallel()

	api := mocks.NewMockAPI(t)
	sel := domain.DatasourceSelector{Kind: promKind}
	upstream := errors.New("connection refused")
	ds := promDatasource("thanos", "p1", true)
	api.On("GetDatasource", mock.Anything, "p1", sel).Return(nil, upstream).Once()
	api.On("GetDatasource", mock.Anything, "p1", sel).Return(ds, nil).Once()

	c := datasource.NewCachedAPI(api)

	_, err := c.GetDatasource(t.Context(), "p1", sel)
	require.ErrorIs(t, err, upstream)

	got, err := c.GetDatasource(t.Context(), "p1", sel)
	require.NoError(t, err)
	assert.Same(t, ds, got)

	stats := c.Stats()
	assert.Equal(t, 0, stats.MissingDatasources)
}

func TestCachedAPI_GetGlobalDatasource(t *testing.T) {
	t.Parallel()

	api := mocks.NewMockAPI(t)
	sel := domain.DatasourceSelector{Kind: promKind}
	absent := domain.DatasourceSelector{Kind: "TempoDatasource"}
	ds := promDatasource("cluster-prom", "", true)
	api.On("GetGlobalDatasource", mock.Anything, sel).Return(ds, nil).Once()
	api.On("GetGlobalDatasource", mock.Anything, absent).Return(nil, nil).Once()

	c := datasource.NewCachedAPI(api)

	for range 2 {
		got, err := c.GetGlobalDatasource(t.Context(), sel)
		require.NoError(t, err)
		assert.Same(t, ds, got)

		got, err = c.GetGlobalDatasource(t.Context(), absent)
		require.NoError(t, err)
		assert.Nil(t, got)
	}

	stats := c.Stats()
	assert.Equal(t, 0, stats.Datasources)
	assert.Positive(t, stats.GlobalDatasources)
	assert.Equal(t, 1, stats.MissingGlobalDatasources)
	assert.Equal(t, 0, stats.MissingDatasources)
}

func TestCachedAPI_GlobalAndProjectScopesAreSeparate(t *testing.T) {
	t.Parallel()

	api := mocks.NewMockAPI(t)
	sel := domain.DatasourceSelector{Kind: promKind}
	api.On("GetGlobalDatasource", mock.Anything, sel).Return(nil, nil).Once()
	api.On("GetDatasource", mock.Anything, "", sel).
		Return(promDatasource("thanos", "", true), nil).Once()

	c := datasource.NewCachedAPI(api)

	got, err := c.GetGlobalDatasource(t.Context(), sel)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = c.GetDatasource(t.Context(), "", sel)
	require.NoError(t, err)
	assert.NotNil(t, got, "a global miss must not answer project lookups")
}

func TestCachedAPI_ListDatasources_PopulatesCache(t *testing.T) {
	t.Parallel()

	api := mocks.NewMockAPI(t)
	list := []domain.Datasource{
		*promDatasource("thanos", "p1", true),
		*promDatasource("local", "p1", false),
	}
	api.On("ListDatasources", mock.Anything, "p1", promKind).Return(list, nil).Twice()

	c := datasource.NewCachedAPI(api)

	got, err := c.ListDatasources(t.Context(), "p1", promKind)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// Lists are never served from the cache.
	_, err = c.ListDatasources(t.Context(), "p1", promKind)
	require.NoError(t, err)

	// Lookups are now answered without GetDatasource expectations.
	ds, err := c.GetDatasource(t.Context(), "p1", domain.DatasourceSelector{Kind: promKind})
	require.NoError(t, err)
	require.NotNil(t, ds)
	assert.Equal(t, "thanos", ds.Metadata.Name)

	ds, err = c.GetDatasource(t.Context(), "p1",
		domain.DatasourceSelector{Kind: promKind, Name: "local"})
	require.NoError(t, err)
	require.NotNil(t, ds)
	assert.Equal(t, "local", ds.Metadata.Name)
}

func TestCachedAPI_ListDatasources_Error(t *testing.T) {
	t.Parallel()

	api := mocks.NewMockAPI(t)
	api.On("ListDatasources", mock.Anything, "p1", "").Return(nil, errors.New("boom")).Once()

	c := datasource.NewCachedAPI(api)

	_, err := c.ListDatasources(t.Context(), "p1", "")
	require.EqualError(t, err, "boom")
	assert.Equal(t, datasource.Stats{}, c.Stats())
}

func TestCachedAPI_ListGlobalDatasources_PopulatesCache(t *testing.T) {
	t.Parallel()

	api := mocks.NewMockAPI(t)
	api.On("ListGlobalDatasources", mock.Anything, "").
		Return([]domain.Datasource{*promDatasource("cluster-prom", "", true)}, nil).Once()

	c := datasource.NewCachedAPI(api)

	_, err := c.ListGlobalDatasources(t.Context(), "")
	require.NoError(t, err)

	ds, err := c.GetGlobalDatasource(t.Context(), domain.DatasourceSelector{Kind: promKind})
	require.NoError(t, err)
	require.NotNil(t, ds)
	assert.Equal(t, "cluster-prom", ds.Metadata.Name)
}

// blockingLookups returns a Run func that holds every caller until n
// callers are inside the upstream call, or a timeout passes.
func blockingLookups(n int32) func(mock.Arguments) {
	var inFlight atomic.Int32
	release := make(chan struct{})
	var once sync.Once

	return func(mock.Arguments) {
		if inFlight.Add(1) >= n {
			once.Do(func() { close(release) })
		}
		select {
		case <-release:
		case <-time.After(2 * time.Second):
		}
	}
}

func TestCachedAPI_ConcurrentMissesAreNotCoalescedByDefault(t *testing.T) {
	t.Parallel()

	api := mocks.NewMockAPI(t)
	sel := domain.DatasourceSelector{Kind: promKind}
	ds := promDatasource("thanos", "p1", true)
	api.On("GetDatasource", mock.Anything, "p1", sel).
		Run(blockingLookups(2)).
		Return(ds, nil).
		Twice()

	c := datasource.NewCachedAPI(api)

	var wg sync.WaitGroup
	for range 2 {
		wg.Go(func() {
			got, err := c.GetDatasource(context.Background(), "p1", sel)
			assert.NoError(t, err)
			assert.Same(t, ds, got)
		})
	}
	wg.Wait()
}

func TestCachedAPI_WithCoalescing(t *testing.T) {
	t.Parallel()

	api := mocks.NewMockAPI(t)
	sel := domain.DatasourceSelector{Kind: promKind}
	ds := promDatasource("thanos", "p1", true)
	started := make(chan struct{})
	release := make(chan struct{})
	api.On("GetDatasource", mock.Anything, "p1", sel).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(ds, nil).
		Once()

	c := datasource.NewCachedAPI(api, datasource.WithCoalescing())

	results := make(chan *domain.Datasource, 2)
	go func() {
		got, err := c.GetDatasource(context.Background(), "p1", sel)
		assert.NoError(t, err)
		results <- got
	}()

	<-started
	go func() {
		got, err := c.GetDatasource(context.Background(), "p1", sel)
		assert.NoError(t, err)
		results <- got
	}()

	// Whether the second caller joins the flight or arrives after it and
	// hits the cache, upstream is called once.
	time.Sleep(20 * time.Millisecond)
	close(release)

	assert.Same(t, ds, <-results)
	assert.Same(t, ds, <-results)
}

func TestCachedAPI_WithCoalescing_DetachesFromCallerCancel(t *testing.T) {
	t.Parallel()

	api := mocks.NewMockAPI(t)
	sel := domain.DatasourceSelector{Kind: promKind}
	ds := promDatasource("thanos", "p1", true)

	var upstreamCtx context.Context
	started := make(chan struct{})
	release := make(chan struct{})
	api.On("GetDatasource", mock.Anything, "p1", sel).
		Run(func(args mock.Arguments) {
			upstreamCtx = args.Get(0).(context.Context) //nolint:errcheck // mock arg type is fixed
			close(started)
			<-release
		}).
		Return(ds, nil).
		Once()

	c := datasource.NewCachedAPI(api, datasource.WithCoalescing())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.GetDatasource(ctx, "p1", sel)
		done <- err
	}()

	<-started
	cancel()

	// Other callers may be waiting on this flight.
	assert.NoError(t, upstreamCtx.Err())

	close(release)
	require.NoError(t, <-done)

	got, err := c.GetDatasource(context.Background(), "p1", sel)
	require.NoError(t, err)
	assert.Same(t, ds, got)
}
