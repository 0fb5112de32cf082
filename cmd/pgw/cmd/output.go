package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	apiclient "github.com/donaldgifford/perses-gateway/internal/api/client"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printDashboardsTable(w io.Writer, ds []apiclient.DashboardSummary) error {
	tw := newTabWriter(w)
	tw.writef("NAME\tPROJECT\tTITLE\tURL\n")
	for i := range ds {
		tw.writef("%s\t%s\t%s\t%s\n",
			ds[i].Name,
			ds[i].Project,
			truncate(ds[i].DisplayName, 40),
			ds[i].URL,
		)
	}
	return tw.finish()
}

func printDatasourceDetail(w io.Writer, resp *apiclient.DatasourceResponse) error {
	ds := &resp.Datasource
	tw := newTabWriter(w)
	tw.writef("Name:\t%s\n", ds.Metadata.Name)
	if ds.Metadata.Project != "" {
		tw.writef("Project:\t%s\n", ds.Metadata.Project)
	}
	tw.writef("Kind:\t%s\n", ds.Kind)
	tw.writef("Plugin:\t%s\n", ds.Spec.Plugin.Kind)
	tw.writef("Default:\t%v\n", ds.Spec.Default)
	tw.writef("Proxy URL:\t%s\n", resp.ProxyURL)
	return tw.finish()
}

func printCacheStats(w io.Writer, s *apiclient.CacheStats) error {
	tw := newTabWriter(w)
	tw.writef("CACHE\tFOUND\tMISSING\n")
	tw.writef("project\t%d\t%d\n", s.Datasources, s.MissingDatasources)
	tw.writef("global\t%d\t%d\n", s.GlobalDatasources, s.MissingGlobalDatasources)
	return tw.finish()
}

func printWarmup(w io.Writer, r *apiclient.WarmupResponse) error {
	tw := newTabWriter(w)
	tw.writef("Projects:\t%d\n", r.Projects)
	tw.writef("Datasources:\t%d\n", r.Datasources)
	tw.writef("Failed:\t%d\n", r.Failed)
	if r.Error != "" {
		tw.writef("Error:\t%s\n", r.Error)
	}
	return tw.finish()
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
