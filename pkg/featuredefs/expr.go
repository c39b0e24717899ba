package featuredefs

import (
	"fmt"
	"strings"
)

// Expr is a boolean expression over feature names.
type Expr interface {
	// Eval evaluates the expression, using defined to test each name.
	Eval(defined func(name string) bool) bool

	// CPP renders the expression as a preprocessor condition.
	CPP() string

	// String renders the expression in definition syntax.
	String() string

	collect(names NameSet)
}

// Ident is a reference to a feature name.
type Ident struct {
	Name string
}

// Not negates its operand.
type Not struct {
	X Expr
}

// And holds when all terms hold.
type And struct {
	Terms []Expr
}

// Or holds when any term holds.
type Or struct {
	Terms []Expr
}

// Group is a parenthesized sub-expression.
type Group struct {
	X Expr
}

func (e Ident) Eval(defined func(string) bool) bool { return defined(e.Name) }
func (e Not) Eval(defined func(string) bool) bool   { return !e.X.Eval(defined) }
func (e Group) Eval(defined func(string) bool) bool { return e.X.Eval(defined) }

func (e And) Eval(defined func(string) bool) bool {
	for _, t := range e.Terms {
		if !t.Eval(defined) {
			return false
		}
	}
	return true
}

func (e Or) Eval(defined func(string) bool) bool {
	for _, t := range e.Terms {
		if t.Eval(defined) {
			return true
		}
	}
	return false
}

func (e Ident) CPP() string { return "defined(" + e.Name + ")" }
func (e Not) CPP() string   { return "!" + e.X.CPP() }
func (e Group) CPP() string { return "(" + e.X.CPP() + ")" }
func (e And) CPP() string   { return joinTerms(e.Terms, Expr.CPP, " && ") }
func (e Or) CPP() string    { return joinTerms(e.Terms, Expr.CPP, " || ") }

func (e Ident) String() string { return e.Name }
func (e Not) String() string   { return "not " + e.X.String() }
func (e Group) String() string { return "(" + e.X.String() + ")" }
func (e And) String() string   { return joinTerms(e.Terms, Expr.String, " and ") }
func (e Or) String() string    { return joinTerms(e.Terms, Expr.String, " or ") }

func (e Ident) collect(names NameSet) { names.Add(e.Name) }
func (e Not) collect(names NameSet)   { e.X.collect(names) }
func (e Group) collect(names NameSet) { e.X.collect(names) }

func (e And) collect(names NameSet) {
	for _, t := range e.Terms {
		t.collect(names)
	}
}

func (e Or) collect(names NameSet) {
	for _, t := range e.Terms {
		t.collect(names)
	}
}

func joinTerms(terms []Expr, render func(Expr) string, sep string) string {
	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = render(t)
	}
	return strings.Join(parts, sep)
}

// Idents returns the sorted, deduplicated feature names referenced by e.
func Idents(e Expr) []string {
	names := NameSet{}
	e.collect(names)
	return names.Sorted()
}

// ExprError reports a malformed expression.
type ExprError struct {
	Expr string
	Pos  int
	Msg  string
}

func (e *ExprError) Error() string {
	return fmt.Sprintf("invalid expression %q at offset %d: %s", e.Expr, e.Pos, e.Msg)
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokAnd
	tokOr
	tokNot
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func isIdentByte(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func tokenize(src string) ([]token, error) {
	var toks []token
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '(':
			toks = append(toks, token{tokLParen, "(", i})
			i++
		case c == ')':
			toks = append(toks, token{tokRParen, ")", i})
			i++
		case c == '!':
			toks = append(toks, token{tokNot, "!", i})
			i++
		case strings.HasPrefix(src[i:], "&&"):
			toks = append(toks, token{tokAnd, "&&", i})
			i += 2
		case strings.HasPrefix(src[i:], "||"):
			toks = append(toks, token{tokOr, "||", i})
			i += 2
		case isIdentByte(c):
			start := i
			for i < len(src) && isIdentByte(src[i]) {
				i++
			}
			word := src[start:i]
			kind := tokIdent
			switch word {
			case "and":
				kind = tokAnd
			case "or":
				kind = tokOr
			case "not":
				kind = tokNot
			}
			toks = append(toks, token{kind, word, start})
		default:
			return nil, &ExprError{Expr: src, Pos: i, Msg: fmt.Sprintf("unexpected character %q", c)}
		}
	}
	return append(toks, token{tokEOF, "", len(src)}), nil
}

type exprParser struct {
	src  string
	toks []token
	pos  int
}

// ParseExpr parses a feature expression such as "A and (B or not C)".
// The operators and, or, not may also be written as &&, || and !.
func ParseExpr(src string) (Expr, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &exprParser{src: src, toks: toks}
	e, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, p.errorf(t, "unexpected %q", t.text)
	}
	return e, nil
}

func (p *exprParser) peek() token { return p.toks[p.pos] }

func (p *exprParser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *exprParser) errorf(t token, format string, args ...any) error {
	return &ExprError{Expr: p.src, Pos: t.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *exprParser) parseOr() (Expr, error) {
	first, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	terms := []Expr{first}
	for p.peek().kind == tokOr {
		p.next()
		t, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}
	if len(terms) == 1 {
		return first, nil
	}
	return Or{Terms: terms}, nil
}

func (p *exprParser) parseAnd() (Expr, error) {
	first, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	terms := []Expr{first}
	for p.peek().kind == tokAnd {
		p.next()
		t, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}
	if len(terms) == 1 {
		return first, nil
	}
	return And{Terms: terms}, nil
}

func (p *exprParser) parseUnary() (Expr, error) {
	if p.peek().kind == tokNot {
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Not{X: x}, nil
	}
	return p.parsePrimary()
}

func (p *exprParser) parsePrimary() (Expr, error) {
	t := p.next()
	switch t.kind {
	case tokIdent:
		return Ident{Name: t.text}, nil
	case tokLParen:
		x, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, p.errorf(closing, "missing closing parenthesis")
		}
		return Group{X: x}, nil
	case tokEOF:
		return nil, p.errorf(t, "unexpected end of expression")
	default:
		return nil, p.errorf(t, "unexpected %q", t.text)
	}
}
