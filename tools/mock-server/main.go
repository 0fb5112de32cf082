// Package main implements a mock Perses API server for local development.
// It serves projects, dashboards and datasources from a JSON fixture so the
// gateway can run without a Perses deployment.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	domain "github.com/donaldgifford/perses-gateway/pkg/types"
)

// fixture is the canned Perses state.
type fixture struct {
	Projects          []domain.Project    `json:"projects"`
	Dashboards        []domain.Dashboard  `json:"dashboards"`
	Datasources       []domain.Datasource `json:"datasources"`
	GlobalDatasources []domain.Datasource `json:"globaldatasources"`
}

func main() {
	port := flag.Int("port", 8090, "port to listen on")
	basePath := flag.String("base-path", "", "path prefix the Perses API is served under")
	token := flag.String("token", "", "bearer token to require; any caller is accepted when empty")
	fixtureFile := flag.String("fixture", "tools/mock-server/testdata/fixture.json", "path to Perses fixture")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	fx, err := loadFixture(*fixtureFile)
	if err != nil {
		logger.Error("failed to load fixture", "path", *fixtureFile, "error", err)
		os.Exit(1)
	}
	logger.Info("loaded fixture",
		"projects", len(fx.Projects),
		"dashboards", len(fx.Dashboards),
		"datasources", len(fx.Datasources),
		"global_datasources", len(fx.GlobalDatasources),
	)

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock Perses server", "addr", addr, "base_path", *basePath)

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, newMux(fx, *basePath, *token)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func loadFixture(path string) (*fixture, error) {
	data, err := os.ReadFile(path) //nolint:gosec // fixture path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	var fx fixture
	if err := json.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	return &fx, nil
}

func newMux(fx *fixture, basePath, token string) http.Handler {
	prefix := strings.TrimSuffix(basePath, "/") + "/api/v1"

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+prefix+"/projects", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, fx.Projects)
	})
	mux.HandleFunc("GET "+prefix+"/dashboards", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, fx.Dashboards)
	})
	mux.HandleFunc("GET "+prefix+"/projects/{project}/dashboards", func(w http.ResponseWriter, r *http.Request) {
		project := r.PathValue("project")
		out := []domain.Dashboard{}
		for i := range fx.Dashboards {
			if fx.Dashboards[i].Metadata.Project == project {
				out = append(out, fx.Dashboards[i])
			}
		}
		writeJSON(w, http.StatusOK, out)
	})
	mux.HandleFunc("GET "+prefix+"/projects/{project}/dashboards/{name}", func(w http.ResponseWriter, r *http.Request) {
		project, name := r.PathValue("project"), r.PathValue("name")
		for i := range fx.Dashboards {
			if fx.Dashboards[i].Metadata.Project == project && fx.Dashboards[i].Metadata.Name == name {
				writeJSON(w, http.StatusOK, fx.Dashboards[i])
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{
			"message": fmt.Sprintf("dashboard %q not found in project %q", name, project),
		})
	})
	mux.HandleFunc("GET "+prefix+"/projects/{project}/datasources", func(w http.ResponseWriter, r *http.Request) {
		project := r.PathValue("project")
		writeJSON(w, http.StatusOK, filterDatasources(fx.Datasources, r, func(ds *domain.Datasource) bool {
			return ds.Metadata.Project == project
		}))
	})
	mux.HandleFunc("GET "+prefix+"/globaldatasources", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, filterDatasources(fx.GlobalDatasources, r, nil))
	})

	if token == "" {
		return mux
	}
	return requireToken(token, mux)
}

// filterDatasources applies the kind, name and default query filters Perses
// supports on datasource listings.
func filterDatasources(all []domain.Datasource, r *http.Request, keep func(*domain.Datasource) bool) []domain.Datasource {
	q := r.URL.Query()
	kind, name := q.Get("kind"), q.Get("name")
	onlyDefault := q.Get("default") == "true"

	out := []domain.Datasource{}
	for i := range all {
		ds := &all[i]
		switch {
		case keep != nil && !keep(ds):
		case kind != "" && ds.Spec.Plugin.Kind != kind:
		case name != "" && ds.Metadata.Name != name:
		case onlyDefault && !ds.Spec.Default:
		default:
			out = append(out, *ds)
		}
	}
	return out
}

func requireToken(token string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "missing or invalid token"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery)
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
	json.NewEncoder(w).Encode(v)
}
