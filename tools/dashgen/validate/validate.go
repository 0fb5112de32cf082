// Package validate checks generated dashboards and rules: every PromQL
// expression must parse and every metric it selects must be known.
package validate

import (
	"fmt"
	"strings"

	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/grafana/grafana-foundation-sdk/go/prometheus"
	"github.com/prometheus/prometheus/promql/parser"

	"github.com/donaldgifford/perses-gateway/tools/dashgen/rules"
)

// Result collects validation findings. Errors fail generation; warnings
// are reported only.
type Result struct {
	Errors   []error
	Warnings []error
}

// Ok reports whether no errors were found.
func (r Result) Ok() bool {
	return len(r.Errors) == 0
}

// Dashboard validates the queries of every panel, including panels nested
// in rows.
func Dashboard(dash *dashboard.Dashboard, known map[string]bool) Result {
	var res Result

	for _, p := range dash.Panels {
		switch {
		case p.Panel != nil:
			res.panel(*p.Panel, known)
		case p.RowPanel != nil:
			for _, inner := range p.RowPanel.Panels {
				res.panel(inner, known)
			}
		}
	}

	return res
}

// Rules validates every rule expression of a PrometheusRule CR.
func Rules(cr rules.PrometheusRule, known map[string]bool) Result {
	var res Result

	for _, g := range cr.Spec.Groups {
		for _, r := range g.Rules {
			name := r.Record
			if name == "" {
				name = r.Alert
			}
			if name == "" {
				res.Errors = append(res.Errors, fmt.Errorf("%s: rule without record or alert name", g.Name))
				continue
			}
			res.expr(g.Name+"/"+name, r.Expr, known)
		}
	}

	return res
}

func (r *Result) panel(p dashboard.Panel, known map[string]bool) {
	title := "untitled panel"
	if p.Title != nil {
		title = *p.Title
	}

	if len(p.Targets) == 0 {
		r.Warnings = append(r.Warnings, fmt.Errorf("%s: panel has no queries", title))
		return
	}

	for _, t := range p.Targets {
		var expr string
		switch q := t.(type) {
		case *prometheus.Dataquery:
			expr = q.Expr
		case prometheus.Dataquery:
			expr = q.Expr
		default:
			r.Warnings = append(r.Warnings, fmt.Errorf("%s: non-prometheus query %T", title, t))
			continue
		}
		r.expr(title, expr, known)
	}
}

func (r *Result) expr(where, expr string, known map[string]bool) {
	parsed, err := parser.ParseExpr(expr)
	if err != nil {
		r.Errors = append(r.Errors, fmt.Errorf("%s: invalid PromQL %q: %w", where, expr, err))
		return
	}

	parser.Inspect(parsed, func(node parser.Node, _ []parser.Node) error {
		vs, ok := node.(*parser.VectorSelector)
		if !ok || vs.Name == "" {
			return nil
		}
		if !known[baseName(vs.Name)] {
			r.Errors = append(r.Errors, fmt.Errorf("%s: unknown metric %q", where, vs.Name))
		}
		return nil
	})
}

// baseName strips histogram series suffixes.
func baseName(metric string) string {
	for _, suffix := range []string{"_bucket", "_sum", "_count"} {
		if base, ok := strings.CutSuffix(metric, suffix); ok {
			return base
		}
	}
	return metric
}
