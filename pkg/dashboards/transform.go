// Package dashboards adapts Perses dashboards to the platform's project model:
// it filters and orders the dashboards shown to a user, rewrites the namespace
// variable into the user's project list and builds dashboard page URLs.
package dashboards

import (
	"strings"

	domain "github.com/donaldgifford/perses-gateway/pkg/types"
)

const (
	// NamespaceVariableName is the dashboard variable scoped to a project.
	NamespaceVariableName = "namespace"

	// NamespaceURLParam mirrors the namespace variable in the page URL.
	NamespaceURLParam = "var-namespace"

	// AllValue is the Perses sentinel for "all values selected".
	AllValue = "$__all"
)

// TransformNamespaceVariable replaces the plugin of the dashboard's
// namespace ListVariable with a static list of projectNames, in the given
// order. When initial is non-nil it becomes the variable's default value,
// otherwise the original default is kept.
//
// With no project names, or a dashboard without variables, d itself is
// returned. Otherwise the result is a new dashboard with a copied spec and
// variables slice, even when no namespace variable exists. d is never
// modified.
func TransformNamespaceVariable(
	d *domain.Dashboard,
	projectNames []string,
	initial *domain.DefaultValue,
) *domain.Dashboard {
	if d == nil || len(projectNames) == 0 || len(d.Spec.Variables) == 0 {
		return d
	}

	values := make([]domain.ListValue, len(projectNames))
	for i, name := range projectNames {
		values[i] = domain.ListValue{Label: name, Value: name}
	}

	out := *d
	out.Spec.Variables = make([]domain.Variable, len(d.Spec.Variables))

	replaced := false
	for i, v := range d.Spec.Variables {
		if replaced || !isNamespaceVariable(v) {
			out.Spec.Variables[i] = v
			continue
		}

		spec := *v.List
		spec.Plugin = domain.NewStaticListPlugin(values)
		if initial != nil {
			spec.DefaultValue = initial
		}
		out.Spec.Variables[i] = domain.Variable{Kind: v.Kind, List: &spec}
		replaced = true
	}

	return &out
}

func isNamespaceVariable(v domain.Variable) bool {
	return v.Kind == domain.ListVariableKind &&
		v.List != nil &&
		v.List.Name == NamespaceVariableName
}

// ParseNamespaceParam turns a var-namespace URL value into an initial
// variable value. An empty string yields nil, a comma-separated string a
// list, and anything else a single value.
func ParseNamespaceParam(raw string) *domain.DefaultValue {
	if raw == "" {
		return nil
	}
	if !strings.Contains(raw, ",") {
		return domain.SingleValue(raw)
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			values = append(values, p)
		}
	}
	return domain.SliceValue(values)
}
