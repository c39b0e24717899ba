package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func (a *app) lintCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lint DEFFILE",
		Short: "Report definition defects",
		Long: `lint reports expressions that reference unknown features, derived
features that carry requirements and implication cycles. It exits with
status 2 when anything is found.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runLint(cmd.OutOrStdout(), args[0])
		},
	}
}

func (a *app) runLint(out io.Writer, path string) error {
	defs, plan, err := a.load(path)
	if err != nil {
		return err
	}

	issues := defs.Lint()
	for _, issue := range issues {
		fmt.Fprintf(out, "%s: %s\n", path, issue)
	}
	for _, c := range plan.Cycles {
		fmt.Fprintf(out, "%s: implication cycle: %s\n", path, strings.Join(c, " -> "))
	}

	if n := len(issues) + len(plan.Cycles); n > 0 {
		fmt.Fprintf(out, "%d issue(s) found\n", n)
		return &violationError{count: n, what: "lint issues"}
	}
	fmt.Fprintf(out, "%s: OK\n", path)
	return nil
}
