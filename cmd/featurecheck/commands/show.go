package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/espressomd/featuregen/pkg/featureconfig"
	"github.com/espressomd/featuregen/pkg/featuredefs"
)

// ShowOutput is the plan as printed by the show command.
type ShowOutput struct {
	File         string           `json:"file" yaml:"file"`
	Externals    []string         `json:"externals" yaml:"externals"`
	Features     []string         `json:"features" yaml:"features"`
	AllFeatures  []string         `json:"all_features" yaml:"all_features"`
	NoTest       []string         `json:"notest,omitempty" yaml:"notest,omitempty"`
	Implications []ImplicationOut `json:"implications,omitempty" yaml:"implications,omitempty"`
	Derivations  []ExpressionOut  `json:"derivations,omitempty" yaml:"derivations,omitempty"`
	Requirements []ExpressionOut  `json:"requirements,omitempty" yaml:"requirements,omitempty"`
	Cycles       [][]string       `json:"cycles,omitempty" yaml:"cycles,omitempty"`
}

// ImplicationOut is one pair of the implication closure.
type ImplicationOut struct {
	Feature string `json:"feature" yaml:"feature"`
	Implied string `json:"implied" yaml:"implied"`
}

// ExpressionOut is a derivation or requirement with both renderings.
type ExpressionOut struct {
	Feature string `json:"feature" yaml:"feature"`
	Expr    string `json:"expr" yaml:"expr"`
	CPP     string `json:"cpp" yaml:"cpp"`
}

func (a *app) showCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show DEFFILE",
		Short: "Print the generator plan",
		Long: `show prints what gen-featureconfig would emit: the sorted feature
collections, the implication closure, derivations, requirements and any
implication cycles. The defs format prints the definitions back in the
YAML definition syntax.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runShow(cmd.OutOrStdout(), args[0], format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, yaml, json or defs")
	return cmd
}

func (a *app) runShow(out io.Writer, path, format string) error {
	defs, plan, err := a.load(path)
	if err != nil {
		return err
	}
	output := buildShowOutput(path, defs, plan)

	switch format {
	case "json":
		data, err := json.MarshalIndent(output, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
	case "yaml":
		return encodeYAML(out, output)
	case "defs":
		return encodeYAML(out, map[string]any{"features": featuredefs.ToRaw(defs)})
	case "text":
		printShowText(out, output)
	default:
		return fmt.Errorf("unknown format %q (want text, yaml, json or defs)", format)
	}
	return nil
}

func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func buildShowOutput(path string, defs *featuredefs.Defs, plan *featureconfig.Plan) ShowOutput {
	output := ShowOutput{
		File:        path,
		Externals:   plan.Externals,
		Features:    plan.Features,
		AllFeatures: plan.AllFeatures,
		NoTest:      defs.NoTest.Sorted(),
		Cycles:      plan.Cycles,
	}
	for _, imp := range plan.Implications {
		output.Implications = append(output.Implications, ImplicationOut{Feature: imp.Feature, Implied: imp.Implied})
	}
	for _, d := range plan.Derivations {
		output.Derivations = append(output.Derivations, ExpressionOut{Feature: d.Feature, Expr: d.Expr, CPP: d.CPPExpr})
	}
	for _, r := range plan.Requirements {
		output.Requirements = append(output.Requirements, ExpressionOut{Feature: r.Feature, Expr: r.Expr, CPP: r.CPPExpr})
	}
	return output
}

func printShowText(w io.Writer, o ShowOutput) {
	fmt.Fprintf(w, "File: %s\n", o.File)
	fmt.Fprintf(w, "Features: %d, all features: %d, externals: %d\n",
		len(o.Features), len(o.AllFeatures), len(o.Externals))

	printList(w, "Externals", o.Externals)
	printList(w, "No test", o.NoTest)

	if len(o.Implications) > 0 {
		fmt.Fprintf(w, "\nImplications (%d):\n", len(o.Implications))
		for _, imp := range o.Implications {
			fmt.Fprintf(w, "  %s -> %s\n", imp.Feature, imp.Implied)
		}
	}
	if len(o.Derivations) > 0 {
		fmt.Fprintf(w, "\nDerivations (%d):\n", len(o.Derivations))
		for _, d := range o.Derivations {
			fmt.Fprintf(w, "  %s = %s\n", d.Feature, d.Expr)
		}
	}
	if len(o.Requirements) > 0 {
		fmt.Fprintf(w, "\nRequirements (%d):\n", len(o.Requirements))
		for _, r := range o.Requirements {
			fmt.Fprintf(w, "  %s needs %s\n", r.Feature, r.Expr)
		}
	}
	if len(o.Cycles) > 0 {
		fmt.Fprintf(w, "\nCycles (%d):\n", len(o.Cycles))
		for _, c := range o.Cycles {
			fmt.Fprintf(w, "  %s\n", strings.Join(c, " -> "))
		}
	}
}

func printList(w io.Writer, title string, names []string) {
	if len(names) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s (%d):\n", title, len(names))
	for _, n := range names {
		fmt.Fprintf(w, "  %s\n", n)
	}
}
