package dashboards

import (
	"net/url"
	"slices"
)

const (
	// DashboardBasePath is the route of the observability dashboard page.
	DashboardBasePath = "/observe-and-monitor/dashboard"

	// DashboardURLParam selects the active dashboard tab.
	DashboardURLParam = "dashboard"
)

// BuildDashboardURL returns the page URL showing dashboard for project.
// An empty project targets the cluster-wide page. Parameters in existing are
// preserved and the dashboard parameter is set; existing is not modified.
func BuildDashboardURL(project, dashboard string, existing url.Values) string {
	path := DashboardBasePath
	if project != "" {
		path += "/" + url.PathEscape(project)
	}

	params := make(url.Values, len(existing)+1)
	for k, v := range existing {
		params[k] = slices.Clone(v)
	}
	params.Set(DashboardURLParam, dashboard)

	return path + "?" + params.Encode()
}
