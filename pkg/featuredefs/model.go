package featuredefs

import "fmt"

// Implication forces Implied on whenever Feature is defined.
type Implication struct {
	Feature string
	Implied string
	Line    int
}

// Requirement states that Feature may only be defined while Cond holds.
type Requirement struct {
	Feature string
	Expr    string // as written in the definitions
	CPPExpr string // preprocessor rendering of Cond
	Cond    Expr
	Line    int
}

// Derivation switches Feature on whenever Cond holds.
type Derivation struct {
	Feature string
	Expr    string
	CPPExpr string
	Cond    Expr
	Line    int
}

// Defs is the parsed feature definition model.
type Defs struct {
	// AllFeatures holds every name that appears in the definitions,
	// including retired ones that are only kept for enumeration.
	AllFeatures NameSet

	// Features is AllFeatures without Externals and Derived.
	Features NameSet

	// Externals are controlled by build-system options.
	Externals NameSet

	// Derived are switched on by their derivation expression.
	Derived NameSet

	// NoTest are excluded from automated feature tests.
	NoTest NameSet

	Implications []Implication
	Requirements []Requirement
	Derivations  []Derivation
}

// NewDefs returns an empty model.
func NewDefs() *Defs {
	return &Defs{
		AllFeatures: NameSet{},
		Features:    NameSet{},
		Externals:   NameSet{},
		Derived:     NameSet{},
		NoTest:      NameSet{},
	}
}

// NewImplication creates an implication between two features.
func NewImplication(feature, implied string) Implication {
	return Implication{Feature: feature, Implied: implied}
}

// NewRequirement parses expr and creates a requirement on feature.
func NewRequirement(feature, expr string) (Requirement, error) {
	cond, err := ParseExpr(expr)
	if err != nil {
		return Requirement{}, fmt.Errorf("requirement of %s: %w", feature, err)
	}
	return Requirement{Feature: feature, Expr: expr, CPPExpr: cond.CPP(), Cond: cond}, nil
}

// NewDerivation parses expr and creates a derivation of feature.
func NewDerivation(feature, expr string) (Derivation, error) {
	cond, err := ParseExpr(expr)
	if err != nil {
		return Derivation{}, fmt.Errorf("derivation of %s: %w", feature, err)
	}
	return Derivation{Feature: feature, Expr: expr, CPPExpr: cond.CPP(), Cond: cond}, nil
}

// Condition returns the parsed condition, parsing Expr if Cond is unset.
func (r Requirement) Condition() (Expr, error) {
	if r.Cond != nil {
		return r.Cond, nil
	}
	return ParseExpr(r.Expr)
}

// Condition returns the parsed condition, parsing Expr if Cond is unset.
func (d Derivation) Condition() (Expr, error) {
	if d.Cond != nil {
		return d.Cond, nil
	}
	return ParseExpr(d.Expr)
}
