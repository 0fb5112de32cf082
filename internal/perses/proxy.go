package perses

import "net/url"

// ProxyPath returns the Perses proxy path that forwards queries to the named
// datasource. An empty project selects a global datasource; a dashboard
// selects a datasource embedded in that dashboard.
func ProxyPath(project, dashboard, datasource string) string {
	name := url.PathEscape(datasource)
	switch {
	case project == "":
		return "/proxy/globaldatasources/" + name
	case dashboard != "":
		return "/proxy/projects/" + url.PathEscape(project) +
			"/dashboards/" + url.PathEscape(dashboard) + "/datasources/" + name
	default:
		return "/proxy/projects/" + url.PathEscape(project) + "/datasources/" + name
	}
}

// ProxyURL is ProxyPath resolved against the client's server and base path.
func (c *Client) ProxyURL(project, dashboard, datasource string) string {
	return c.baseURL + c.basePath + ProxyPath(project, dashboard, datasource)
}
