package dashboards

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	domain "github.com/donaldgifford/perses-gateway/pkg/types"
)

const (
	// DashboardPrefix marks dashboards meant for end users.
	DashboardPrefix = "dashboard-"

	// AdminSuffix marks dashboards shown to cluster admins only.
	AdminSuffix = "-admin"
)

// FilterDashboards keeps the dashboards whose name carries DashboardPrefix,
// drops AdminSuffix dashboards unless isAdmin, and sorts the rest by name
// using locale-aware collation. The input slice is left untouched.
func FilterDashboards(ds []domain.Dashboard, isAdmin bool) []domain.Dashboard {
	out := make([]domain.Dashboard, 0, len(ds))
	for i := range ds {
		name := ds[i].Metadata.Name
		if !strings.HasPrefix(name, DashboardPrefix) {
			continue
		}
		if !isAdmin && strings.HasSuffix(name, AdminSuffix) {
			continue
		}
		out = append(out, ds[i])
	}

	// Collators keep internal buffers and are not safe for concurrent use.
	c := collate.New(language.Und)
	slices.SortStableFunc(out, func(a, b domain.Dashboard) int {
		return c.CompareString(a.Metadata.Name, b.Metadata.Name)
	})

	return out
}

// DisplayName is the tab label of a dashboard: its display name, or the
// resource name when none is set.
func DisplayName(d *domain.Dashboard) string {
	if d.Spec.Display != nil && d.Spec.Display.Name != "" {
		return d.Spec.Display.Name
	}
	return d.Metadata.Name
}
