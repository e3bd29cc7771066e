// Package validate checks generated dashboards and rule files against the
// set of metrics the tracker actually exports. Every PromQL expression is
// parsed and each metric it selects must be a known name, so a renamed or
// deleted metric breaks the generator instead of silently flatlining a panel.
package validate

import (
	"fmt"
	"strings"

	cogvariants "github.com/grafana/grafana-foundation-sdk/go/cog/variants"
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/grafana/grafana-foundation-sdk/go/prometheus"
	"github.com/prometheus/prometheus/model/labels"
	"github.com/prometheus/prometheus/promql/parser"

	"github.com/donaldgifford/notice-tracker/tools/dashgen/rules"
)

// Result collects validation findings. Errors fail the build, warnings are
// advisory.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether validation passed.
func (r Result) Ok() bool {
	return len(r.Errors) == 0
}

// Dashboard validates every panel target in a built dashboard. Targets must
// carry parseable PromQL and reference only known metrics.
func Dashboard(dash dashboard.Dashboard, known map[string]bool) Result {
	var res Result
	for _, p := range dash.Panels {
		switch {
		case p.Panel != nil:
			checkPanel(*p.Panel, known, &res)
		case p.RowPanel != nil:
			for _, inner := range p.RowPanel.Panels {
				checkPanel(inner, known, &res)
			}
		}
	}
	return res
}

// Rules validates every rule expression in a PrometheusRule CR.
func Rules(cr rules.PrometheusRule, known map[string]bool) Result {
	var res Result
	for _, group := range cr.Spec.Groups {
		for _, rule := range group.Rules {
			name := rule.Record
			if name == "" {
				name = rule.Alert
			}
			checkExpr(fmt.Sprintf("rule %q", name), rule.Expr, known, &res)
		}
	}
	return res
}

func checkPanel(p dashboard.Panel, known map[string]bool, res *Result) {
	title := panelTitle(p)
	if len(p.Targets) == 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("panel %q has no targets", title))
		return
	}
	for _, target := range p.Targets {
		expr, ok := targetExpr(target)
		if !ok {
			res.Warnings = append(res.Warnings, fmt.Sprintf("panel %q has a non-Prometheus target", title))
			continue
		}
		checkExpr(fmt.Sprintf("panel %q", title), expr, known, res)
	}
}

func checkExpr(where, expr string, known map[string]bool, res *Result) {
	if expr == "" {
		res.Warnings = append(res.Warnings, where+" has an empty expression")
		return
	}
	parsed, err := parser.ParseExpr(expr)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("%s: invalid PromQL %q: %v", where, expr, err))
		return
	}
	for _, name := range metricNames(parsed) {
		if !knownMetric(name, known) {
			res.Errors = append(res.Errors, fmt.Sprintf("%s references unknown metric %q", where, name))
		}
	}
}

// metricNames walks a parsed expression and collects every metric a vector
// selector references.
func metricNames(expr parser.Expr) []string {
	var names []string
	parser.Inspect(expr, func(node parser.Node, _ []parser.Node) error {
		vs, ok := node.(*parser.VectorSelector)
		if !ok {
			return nil
		}
		name := vs.Name
		if name == "" {
			for _, m := range vs.LabelMatchers {
				if m.Name == labels.MetricName {
					name = m.Value
				}
			}
		}
		if name != "" {
			names = append(names, name)
		}
		return nil
	})
	return names
}

// knownMetric also accepts the _bucket, _sum, and _count series a histogram
// exports under its base name.
func knownMetric(name string, known map[string]bool) bool {
	if known[name] {
		return true
	}
	for _, suffix := range []string{"_bucket", "_sum", "_count"} {
		if base, ok := strings.CutSuffix(name, suffix); ok && known[base] {
			return true
		}
	}
	return false
}

func targetExpr(target cogvariants.Dataquery) (string, bool) {
	switch q := target.(type) {
	case prometheus.Dataquery:
		return q.Expr, true
	case *prometheus.Dataquery:
		return q.Expr, true
	}
	return "", false
}

func panelTitle(p dashboard.Panel) string {
	if p.Title != nil {
		return *p.Title
	}
	return "(untitled)"
}
