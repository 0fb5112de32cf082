package client

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/donaldgifford/perses-gateway/pkg/types"
)

func jsonServer(t *testing.T, check func(r *http.Request), body any) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		check(r)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_ConnectionRefused(t *testing.T) {
	t.Parallel()

	c := New("http://127.0.0.1:1") // nothing listening
	_, err := c.ListProjects(t.Context())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gateway not running")
}

func TestClient_HTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"title":"Bad Gateway"}` + "\n"))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.ListProjects(t.Context())
	require.Error(t, err)
	assert.EqualError(t, err, `API error (HTTP 502): {"title":"Bad Gateway"}`)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}

func TestClient_ListDashboards(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		params    *ListDashboardsParams
		wantQuery string
	}{
		{name: "no params", params: nil, wantQuery: ""},
		{name: "project", params: &ListDashboardsParams{Project: "alpha"}, wantQuery: "project=alpha"},
		{name: "admin", params: &ListDashboardsParams{Admin: true}, wantQuery: "admin=true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := jsonServer(t, func(r *http.Request) {
				assert.Equal(t, "/api/v1/dashboards", r.URL.Path)
				assert.Equal(t, tt.wantQuery, r.URL.RawQuery)
			}, DashboardsResponse{
				Dashboards: []DashboardSummary{{Name: "dashboard-model"}},
				Total:      1,
			})

			resp, err := New(srv.URL).ListDashboards(t.Context(), tt.params)
			require.NoError(t, err)
			assert.Equal(t, 1, resp.Total)
			assert.Equal(t, "dashboard-model", resp.Dashboards[0].Name)
		})
	}
}

func TestClient_Identity(t *testing.T) {
	t.Parallel()

	srv := jsonServer(t, func(r *http.Request) {
		assert.Equal(t, "alice", r.Header.Get("X-Forwarded-User"))
		assert.Equal(t, "ops,admins", r.Header.Get("X-Forwarded-Groups"))
	}, DashboardsResponse{})

	c := New(srv.URL+"/", WithIdentity("alice", "ops", "admins"))
	_, err := c.ListDashboards(t.Context(), nil)
	require.NoError(t, err)
}

func TestClient_GetDashboard(t *testing.T) {
	t.Parallel()

	srv := jsonServer(t, func(r *http.Request) {
		assert.Equal(t, "/api/v1/projects/my project/dashboards/dashboard-model", r.URL.Path)
		assert.Equal(t, "alpha,beta", r.URL.Query().Get("var-namespace"))
	}, domain.Dashboard{
		Kind:     domain.KindDashboard,
		Metadata: domain.Metadata{Name: "dashboard-model", Project: "my project"},
	})

	d, err := New(srv.URL).GetDashboard(t.Context(), "my project", "dashboard-model", "alpha,beta")
	require.NoError(t, err)
	assert.Equal(t, "dashboard-model", d.Metadata.Name)
}

func TestClient_DashboardURL(t *testing.T) {
	t.Parallel()

	srv := jsonServer(t, func(r *http.Request) {
		assert.Equal(t, "/api/v1/dashboard-url", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "dashboard-model", q.Get("dashboard"))
		assert.Equal(t, "alpha", q.Get("project"))
		assert.False(t, q.Has("namespace"))
	}, map[string]string{"url": "/observe-and-monitor/dashboard/alpha?dashboard=dashboard-model"})

	got, err := New(srv.URL).DashboardURL(t.Context(), "alpha", "dashboard-model", "")
	require.NoError(t, err)
	assert.Equal(t, "/observe-and-monitor/dashboard/alpha?dashboard=dashboard-model", got)
}

func TestClient_GetDatasource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		project  string
		sel      domain.DatasourceSelector
		wantPath string
		wantName string
	}{
		{
			name:     "project default",
			project:  "alpha",
			sel:      domain.DatasourceSelector{Kind: "PrometheusDatasource"},
			wantPath: "/api/v1/projects/alpha/datasources/PrometheusDatasource",
		},
		{
			name:     "global named",
			sel:      domain.DatasourceSelector{Kind: "PrometheusDatasource", Name: "thanos"},
			wantPath: "/api/v1/globaldatasources/PrometheusDatasource",
			wantName: "thanos",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := jsonServer(t, func(r *http.Request) {
				assert.Equal(t, tt.wantPath, r.URL.Path)
				assert.Equal(t, tt.wantName, r.URL.Query().Get("name"))
			}, DatasourceResponse{ProxyURL: "http://perses/proxy"})

			resp, err := New(srv.URL).GetDatasource(t.Context(), tt.project, tt.sel)
			require.NoError(t, err)
			assert.Equal(t, "http://perses/proxy", resp.ProxyURL)
		})
	}
}

func TestClient_Cache(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/cache/stats":
			_, _ = w.Write([]byte(`{"datasources":4,"missing_datasources":1}`))
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/cache/warmup":
			_, _ = w.Write([]byte(`{"projects":2,"datasources":4,"failed":0}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)

	stats, err := c.CacheStats(t.Context())
	require.NoError(t, err)
	assert.Equal(t, CacheStats{Datasources: 4, MissingDatasources: 1}, *stats)

	res, err := c.WarmCache(t.Context())
	require.NoError(t, err)
	assert.Equal(t, WarmupResponse{Projects: 2, Datasources: 4}, *res)
}

func TestClient_DecodeError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).ListProjects(t.Context())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding response")

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}
