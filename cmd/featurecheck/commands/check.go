package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/espressomd/featuregen/pkg/featureconfig"
	"github.com/espressomd/featuregen/pkg/featuresim"
)

// checkOptions configures the check command.
type checkOptions struct {
	buildHeader string
	myConfig    string
	defines     []string
	undefs      []string
	with        []string
	verbose     bool
}

func (a *app) checkCommand() *cobra.Command {
	var opts checkOptions
	cmd := &cobra.Command{
		Use:   "check DEFFILE",
		Short: "Simulate one configuration",
		Long: `check replays the generated header and translation unit for one
configuration and prints the resulting FEATURES list, the derived-switch
warnings and the requirement errors. It exits with status 2 when the
configuration would not compile.`,
		Example: `  featurecheck check features.def --with CUDA -D P3M
  featurecheck check features.def --build cmake_config.hpp --myconfig myconfig-final.hpp`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCheck(cmd.OutOrStdout(), args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.buildHeader, "build", "", "build configuration header to read build symbols from")
	f.StringVar(&opts.myConfig, "myconfig", "", "user configuration header")
	f.StringArrayVarP(&opts.defines, "define", "D", nil, "define a feature in the user configuration")
	f.StringArrayVarP(&opts.undefs, "undef", "U", nil, "undefine a symbol in the user configuration")
	f.StringArrayVar(&opts.with, "with", nil, "enable an external feature through the build system")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "show why each feature is active")
	return cmd
}

func (a *app) runCheck(out io.Writer, path string, opts checkOptions) error {
	_, plan, err := a.load(path)
	if err != nil {
		return err
	}
	in, err := checkInput(plan, opts)
	if err != nil {
		return err
	}

	res := featuresim.Resolve(plan, in)
	printResult(out, res, opts.verbose)

	if errs := res.Errors(); len(errs) > 0 {
		return &violationError{count: len(errs), what: "requirement errors"}
	}
	return nil
}

// checkInput assembles the simulated configuration. Header contents come
// first; command-line switches are applied after them.
func checkInput(plan *featureconfig.Plan, opts checkOptions) (featuresim.Input, error) {
	var in featuresim.Input
	if opts.buildHeader != "" {
		build, err := featuresim.LoadBuildHeader(opts.buildHeader)
		if err != nil {
			return in, err
		}
		in.Build = build
	}
	for _, ext := range opts.with {
		in.Build = append(in.Build, plan.Options.BuildPrefix+ext)
	}

	if opts.myConfig != "" {
		dirs, err := featuresim.LoadConfigHeader(opts.myConfig)
		if err != nil {
			return in, err
		}
		in.User = dirs
	}
	for _, name := range opts.defines {
		in.User = append(in.User, featuresim.Directive{Name: name})
	}
	for _, name := range opts.undefs {
		in.User = append(in.User, featuresim.Directive{Name: name, Undef: true})
	}
	return in, nil
}

func printResult(w io.Writer, res *featuresim.Result, verbose bool) {
	fmt.Fprintf(w, "Features (%d of %d):\n", res.NumFeatures, len(res.AllFeatures))
	for _, f := range res.Features {
		if verbose {
			fmt.Fprintf(w, "  %-24s %s\n", f, res.Origin[f])
		} else {
			fmt.Fprintf(w, "  %s\n", f)
		}
	}
	for _, d := range res.Warnings() {
		fmt.Fprintln(w, d)
	}
	for _, d := range res.Errors() {
		fmt.Fprintln(w, d)
	}
	if res.OK() {
		fmt.Fprintln(w, "OK")
	}
}
