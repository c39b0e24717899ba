package featureconfig

import (
	"fmt"
	"sort"
	"strings"

	"github.com/espressomd/featuregen/pkg/featuredefs"
)

// CycleError is returned by NewPlan when Options.RejectCycles is set and the
// implication graph contains cycles.
type CycleError struct {
	Cycles [][]string
}

func (e *CycleError) Error() string {
	parts := make([]string, len(e.Cycles))
	for i, c := range e.Cycles {
		parts[i] = strings.Join(c, " -> ")
	}
	return fmt.Sprintf("implication cycles: %s", strings.Join(parts, "; "))
}

// Plan is the sorted, deduplicated content of both generated files.
type Plan struct {
	Options Options

	Externals    []string
	Implications []featuredefs.Implication // transitive closure
	Derivations  []featuredefs.Derivation
	Requirements []featuredefs.Requirement

	// Features are the names of the runtime FEATURES array: externals,
	// plain features and derived features.
	Features []string

	// AllFeatures are the names of the runtime FEATURES_ALL array.
	AllFeatures []string

	// Cycles lists the cyclic groups of the implication graph.
	Cycles [][]string
}

// NewPlan computes everything the emitters write. Implications are
// expanded to their transitive closure so that a single preprocessor pass
// resolves chains of any depth, whatever order they are declared in.
func NewPlan(defs *featuredefs.Defs, opts Options) (*Plan, error) {
	opts = opts.withDefaults()

	graph := NewGraph(defs.Implications)
	p := &Plan{
		Options:      opts,
		Externals:    defs.Externals.Sorted(),
		Implications: graph.Closure(),
		Derivations:  sortedDerivations(defs.Derivations),
		Requirements: sortedRequirements(defs.Requirements),
		Features:     defs.Externals.Union(defs.Features, defs.Derived).Sorted(),
		AllFeatures:  defs.AllFeatures.Sorted(),
		Cycles:       graph.Cycles(),
	}

	if len(p.Cycles) > 0 {
		if opts.RejectCycles {
			return nil, &CycleError{Cycles: p.Cycles}
		}
		if opts.Logger != nil {
			for _, c := range p.Cycles {
				opts.Logger.Warn("implication cycle", "features", c)
			}
		}
	}

	if opts.Logger != nil {
		opts.Logger.Debug("feature plan",
			"externals", len(p.Externals),
			"declared_implications", len(defs.Implications),
			"closure_implications", len(p.Implications),
			"derivations", len(p.Derivations),
			"requirements", len(p.Requirements),
			"features", len(p.Features),
			"all_features", len(p.AllFeatures),
		)
	}
	return p, nil
}

func sortedDerivations(in []featuredefs.Derivation) []featuredefs.Derivation {
	out := append([]featuredefs.Derivation(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		return lessTriple(out[i].Feature, out[i].Expr, out[i].CPPExpr, out[j].Feature, out[j].Expr, out[j].CPPExpr)
	})
	n := 0
	for i, d := range out {
		if i > 0 && d.Feature == out[n-1].Feature && d.Expr == out[n-1].Expr && d.CPPExpr == out[n-1].CPPExpr {
			continue
		}
		out[n] = d
		n++
	}
	return out[:n]
}

func sortedRequirements(in []featuredefs.Requirement) []featuredefs.Requirement {
	out := append([]featuredefs.Requirement(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		return lessTriple(out[i].Feature, out[i].Expr, out[i].CPPExpr, out[j].Feature, out[j].Expr, out[j].CPPExpr)
	})
	n := 0
	for i, r := range out {
		if i > 0 && r.Feature == out[n-1].Feature && r.Expr == out[n-1].Expr && r.CPPExpr == out[n-1].CPPExpr {
			continue
		}
		out[n] = r
		n++
	}
	return out[:n]
}

func lessTriple(a1, a2, a3, b1, b2, b3 string) bool {
	if a1 != b1 {
		return a1 < b1
	}
	if a2 != b2 {
		return a2 < b2
	}
	return a3 < b3
}
