package featuredefs

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// RawFeature represents one feature entry of a YAML definition file.
type RawFeature struct {
	Name     string     `yaml:"name"`
	External bool       `yaml:"external,omitempty"`
	Implies  []string   `yaml:"implies,omitempty"`
	Requires StringList `yaml:"requires,omitempty"`
	Equals   string     `yaml:"equals,omitempty"`
	NoTest   bool       `yaml:"notest,omitempty"`
}

// StringList accepts either a single scalar or a sequence of scalars.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*l = StringList{value.Value}
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := value.Decode(&items); err != nil {
			return err
		}
		*l = items
		return nil
	default:
		return fmt.Errorf("line %d: expected string or list of strings", value.Line)
	}
}

type rawDefs struct {
	Features []yaml.Node `yaml:"features"`
}

// ParseYAML reads definitions from a YAML document with a top-level
// "features" list. The same consistency rules as in Parse apply, in
// document order.
func ParseYAML(r io.Reader, name string) (*Defs, error) {
	var raw rawDefs
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}

	b := newBuilder(name)
	for i := range raw.Features {
		node := &raw.Features[i]
		var rf RawFeature
		if err := node.Decode(&rf); err != nil {
			return nil, &SyntaxError{File: name, Line: node.Line, Msg: err.Error()}
		}
		if err := applyRawFeature(b, node.Line, rf); err != nil {
			return nil, err
		}
	}
	return b.finish()
}

func applyRawFeature(b *builder, line int, rf RawFeature) error {
	if rf.Name == "" {
		return b.errorf(line, "", "feature entry missing name")
	}
	if !rf.External && rf.Equals == "" && len(rf.Implies) == 0 && len(rf.Requires) == 0 && !rf.NoTest {
		b.plain(rf.Name)
		return nil
	}
	if rf.External {
		if err := b.external(line, "", rf.Name, false); err != nil {
			return err
		}
	}
	if rf.Equals != "" {
		if err := b.derive(line, "", rf.Name, rf.Equals); err != nil {
			return err
		}
	}
	if len(rf.Implies) > 0 {
		if err := b.implies(line, "", rf.Name, rf.Implies); err != nil {
			return err
		}
	}
	for _, expr := range rf.Requires {
		if err := b.requires(line, "", rf.Name, expr); err != nil {
			return err
		}
	}
	if rf.NoTest {
		if err := b.notest(line, "", rf.Name, false); err != nil {
			return err
		}
	}
	return nil
}

// ToRaw converts a model back into YAML entries, one per name in
// AllFeatures, in sorted order.
func ToRaw(d *Defs) []RawFeature {
	byName := make(map[string]*RawFeature)
	names := d.AllFeatures.Sorted()
	out := make([]RawFeature, len(names))
	for i, n := range names {
		out[i] = RawFeature{
			Name:     n,
			External: d.Externals.Has(n),
			NoTest:   d.NoTest.Has(n),
		}
		byName[n] = &out[i]
	}
	for _, imp := range d.Implications {
		if rf, ok := byName[imp.Feature]; ok {
			rf.Implies = append(rf.Implies, imp.Implied)
		}
	}
	for _, req := range d.Requirements {
		if rf, ok := byName[req.Feature]; ok {
			rf.Requires = append(rf.Requires, req.Expr)
		}
	}
	for _, der := range d.Derivations {
		if rf, ok := byName[der.Feature]; ok {
			rf.Equals = der.Expr
		}
	}
	return out
}
