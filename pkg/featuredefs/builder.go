package featuredefs

import "fmt"

// SyntaxError reports a malformed or inconsistent definition.
type SyntaxError struct {
	File string
	Line int
	Msg  string
	Text string // offending source line, if known
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
}

// builder applies the consistency rules shared by all definition formats.
type builder struct {
	file    string
	defs    *Defs
	implied NameSet
}

func newBuilder(file string) *builder {
	return &builder{file: file, defs: NewDefs(), implied: NameSet{}}
}

func (b *builder) errorf(line int, text, format string, args ...any) error {
	return &SyntaxError{File: b.file, Line: line, Msg: fmt.Sprintf(format, args...), Text: text}
}

func (b *builder) declare(feature string) {
	b.defs.AllFeatures.Add(feature)
}

func (b *builder) plain(feature string) {
	b.declare(feature)
	b.defs.Features.Add(feature)
}

func (b *builder) parseExpr(line int, text, feature, expr string) (Expr, error) {
	cond, err := ParseExpr(expr)
	if err != nil {
		return nil, b.errorf(line, text, "%s: %v", feature, err)
	}
	return cond, nil
}

func (b *builder) derive(line int, text, feature, expr string) error {
	b.declare(feature)
	if expr == "" {
		return b.errorf(line, text, "<feature> equals <expr>")
	}
	if b.defs.Derived.Has(feature) {
		return b.errorf(line, text, "derived feature %s is already defined above", feature)
	}
	if b.defs.Externals.Has(feature) {
		return b.errorf(line, text, "derived feature %s is already defined as external above", feature)
	}
	cond, err := b.parseExpr(line, text, feature, expr)
	if err != nil {
		return err
	}
	b.defs.Derived.Add(feature)
	b.defs.Derivations = append(b.defs.Derivations, Derivation{
		Feature: feature,
		Expr:    expr,
		CPPExpr: cond.CPP(),
		Cond:    cond,
		Line:    line,
	})
	return nil
}

func (b *builder) external(line int, text, feature string, rest bool) error {
	b.declare(feature)
	if rest {
		return b.errorf(line, text, "<feature> external")
	}
	if b.defs.Derived.Has(feature) {
		return b.errorf(line, text, "external feature %s is already defined as derived above", feature)
	}
	if b.implied.Has(feature) {
		return b.errorf(line, text, "external feature %s is implied above", feature)
	}
	b.defs.Externals.Add(feature)
	return nil
}

func (b *builder) implies(line int, text, feature string, targets []string) error {
	b.declare(feature)
	if len(targets) == 0 {
		return b.errorf(line, text, "<feature> implies [<feature>...]")
	}
	for _, implied := range targets {
		if b.defs.Externals.Has(implied) {
			return b.errorf(line, text, "implied feature %s is already defined as external above", implied)
		}
		b.implied.Add(implied)
		b.defs.Implications = append(b.defs.Implications, Implication{
			Feature: feature,
			Implied: implied,
			Line:    line,
		})
	}
	return nil
}

func (b *builder) requires(line int, text, feature, expr string) error {
	b.declare(feature)
	if expr == "" {
		return b.errorf(line, text, "<feature> requires <expr>")
	}
	cond, err := b.parseExpr(line, text, feature, expr)
	if err != nil {
		return err
	}
	b.defs.Requirements = append(b.defs.Requirements, Requirement{
		Feature: feature,
		Expr:    expr,
		CPPExpr: cond.CPP(),
		Cond:    cond,
		Line:    line,
	})
	return nil
}

func (b *builder) notest(line int, text, feature string, rest bool) error {
	b.declare(feature)
	if rest {
		return b.errorf(line, text, "<feature> notest")
	}
	b.defs.NoTest.Add(feature)
	return nil
}

// finish runs the whole-file checks and returns the model.
func (b *builder) finish() (*Defs, error) {
	d := b.defs
	for _, imp := range d.Implications {
		if !d.AllFeatures.Has(imp.Implied) {
			return nil, b.errorf(imp.Line, "", "%s implies %s, which is not defined", imp.Feature, imp.Implied)
		}
	}
	d.Features = d.AllFeatures.Difference(d.Derived, d.Externals)
	return d, nil
}
