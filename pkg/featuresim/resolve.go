package featuresim

import (
	"fmt"

	"github.com/espressomd/featuregen/pkg/featureconfig"
	"github.com/espressomd/featuregen/pkg/featuredefs"
)

// Directive is a #define or #undef of a symbol in the user configuration.
type Directive struct {
	Name  string
	Undef bool
}

func (d Directive) String() string {
	if d.Undef {
		return "#undef " + d.Name
	}
	return "#define " + d.Name
}

// Input is one configuration to resolve.
type Input struct {
	// Build are the symbols defined by the build-system configuration
	// header, such as ESPRESSO_BUILD_WITH_CUDA.
	Build []string

	// User are the directives of the user configuration header, in order.
	User []Directive
}

// Kind classifies a diagnostic.
type Kind int

const (
	// Warning corresponds to a #warning directive.
	Warning Kind = iota
	// Error corresponds to an #error directive.
	Error
)

func (k Kind) String() string {
	switch k {
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Diagnostic is a message the compiler would emit for the configuration.
type Diagnostic struct {
	Kind    Kind
	Feature string
	Message string
}

func (d Diagnostic) String() string {
	return d.Kind.String() + ": " + d.Message
}

// Origin values recorded for defined symbols.
const (
	OriginBuild    = "build"
	OriginExternal = "external"
	OriginUser     = "user"
	OriginDerived  = "derived"
)

// ImpliedBy is the origin of a symbol switched on by an implication.
func ImpliedBy(feature string) string {
	return "implied by " + feature
}

// Result is the outcome of resolving a configuration.
type Result struct {
	// Defined holds every symbol defined after both generated files.
	Defined featuredefs.NameSet

	// Features is the content of the runtime FEATURES array.
	Features    []string
	NumFeatures int

	// AllFeatures is the content of FEATURES_ALL.
	AllFeatures []string

	// Origin records why each symbol became defined.
	Origin map[string]string

	Diagnostics []Diagnostic
}

// Errors returns the error diagnostics.
func (r *Result) Errors() []Diagnostic {
	return r.filter(Error)
}

// Warnings returns the warning diagnostics.
func (r *Result) Warnings() []Diagnostic {
	return r.filter(Warning)
}

// OK reports whether the configuration compiles.
func (r *Result) OK() bool {
	return len(r.Errors()) == 0
}

func (r *Result) filter(k Kind) []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Kind == k {
			out = append(out, d)
		}
	}
	return out
}

type symbols struct {
	defined featuredefs.NameSet
	origin  map[string]string
}

func (s *symbols) define(name, origin string) {
	if s.defined.Has(name) {
		return
	}
	s.defined.Add(name)
	s.origin[name] = origin
}

func (s *symbols) undef(name string) {
	delete(s.defined, name)
	delete(s.origin, name)
}

// Resolve evaluates the generated guards of p against in.
func Resolve(p *featureconfig.Plan, in Input) *Result {
	s := &symbols{defined: featuredefs.NameSet{}, origin: make(map[string]string)}
	for _, name := range in.Build {
		s.define(name, OriginBuild)
	}

	prefix := p.Options.BuildPrefix
	for _, ext := range p.Externals {
		if s.defined.Has(prefix + ext) {
			s.undef(prefix + ext)
			s.define(ext, OriginExternal)
		}
	}

	for _, d := range in.User {
		if d.Undef {
			s.undef(d.Name)
		} else {
			s.define(d.Name, OriginUser)
		}
	}

	for _, imp := range p.Implications {
		if s.defined.Has(imp.Feature) && !s.defined.Has(imp.Implied) {
			s.define(imp.Implied, ImpliedBy(imp.Feature))
		}
	}

	var diags []Diagnostic
	for _, d := range p.Derivations {
		if s.defined.Has(d.Feature) {
			diags = append(diags, Diagnostic{
				Kind:    Warning,
				Feature: d.Feature,
				Message: d.Feature + " is a derived switch and should not be set manually!",
			})
			continue
		}
		cond, err := d.Condition()
		if err != nil {
			diags = append(diags, Diagnostic{Kind: Error, Feature: d.Feature, Message: err.Error()})
			continue
		}
		if cond.Eval(s.defined.Has) {
			s.define(d.Feature, OriginDerived)
		}
	}

	for _, r := range p.Requirements {
		if !s.defined.Has(r.Feature) {
			continue
		}
		cond, err := r.Condition()
		if err != nil {
			diags = append(diags, Diagnostic{Kind: Error, Feature: r.Feature, Message: err.Error()})
			continue
		}
		if !cond.Eval(s.defined.Has) {
			diags = append(diags, Diagnostic{
				Kind:    Error,
				Feature: r.Feature,
				Message: "Feature " + r.Feature + " requires " + r.Expr,
			})
		}
	}

	res := &Result{
		Defined:     s.defined,
		AllFeatures: append([]string(nil), p.AllFeatures...),
		Origin:      s.origin,
		Diagnostics: diags,
	}
	for _, f := range p.Features {
		if s.defined.Has(f) {
			res.Features = append(res.Features, f)
		}
	}
	res.NumFeatures = len(res.Features)
	return res
}

// Why explains how name became defined, following implications back to
// the symbol that started the chain. It returns nil if name is undefined.
func (r *Result) Why(name string) []string {
	var chain []string
	seen := featuredefs.NameSet{}
	for name != "" && !seen.Has(name) {
		origin, ok := r.Origin[name]
		if !ok {
			break
		}
		seen.Add(name)
		chain = append(chain, name+": "+origin)
		name = impliedFeature(origin)
	}
	return chain
}

func impliedFeature(origin string) string {
	const p = "implied by "
	if len(origin) > len(p) && origin[:len(p)] == p {
		return origin[len(p):]
	}
	return ""
}
