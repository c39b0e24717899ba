package featuredefs

import (
	"fmt"
	"sort"
)

// Issue is a non-fatal finding about a definition model.
type Issue struct {
	Feature string
	Line    int
	Msg     string
}

func (i Issue) String() string {
	if i.Line > 0 {
		return fmt.Sprintf("line %d: %s: %s", i.Line, i.Feature, i.Msg)
	}
	return fmt.Sprintf("%s: %s", i.Feature, i.Msg)
}

// Lint reports dangling expression references and derived features that
// carry requirements. Parse accepts both; the generated code handles them,
// but they usually indicate a typo or a modeling mistake.
func (d *Defs) Lint() []Issue {
	var issues []Issue

	check := func(feature string, line int, kind string, cond Expr) {
		if cond == nil {
			return
		}
		for _, name := range Idents(cond) {
			if !d.AllFeatures.Has(name) {
				issues = append(issues, Issue{
					Feature: feature,
					Line:    line,
					Msg:     fmt.Sprintf("%s expression references unknown feature %s", kind, name),
				})
			}
		}
	}

	for _, r := range d.Requirements {
		cond, err := r.Condition()
		if err != nil {
			issues = append(issues, Issue{Feature: r.Feature, Line: r.Line, Msg: err.Error()})
			continue
		}
		check(r.Feature, r.Line, "requirement", cond)
		if d.Derived.Has(r.Feature) {
			issues = append(issues, Issue{
				Feature: r.Feature,
				Line:    r.Line,
				Msg:     "derived feature carries a requirement",
			})
		}
	}
	for _, dv := range d.Derivations {
		cond, err := dv.Condition()
		if err != nil {
			issues = append(issues, Issue{Feature: dv.Feature, Line: dv.Line, Msg: err.Error()})
			continue
		}
		check(dv.Feature, dv.Line, "derivation", cond)
	}

	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Feature != issues[j].Feature {
			return issues[i].Feature < issues[j].Feature
		}
		return issues[i].Line < issues[j].Line
	})
	return issues
}
