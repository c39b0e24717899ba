// Package commands implements the featurecheck subcommands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/espressomd/featuregen/internal/config"
	"github.com/espressomd/featuregen/internal/logging"
	"github.com/espressomd/featuregen/pkg/featureconfig"
	"github.com/espressomd/featuregen/pkg/featuredefs"
)

const version = "0.1.0"

const (
	exitSuccess      = 0
	exitCommandError = 1
	exitViolation    = 2
)

// violationError reports findings that make the command exit with status 2.
type violationError struct {
	count int
	what  string
}

func (e *violationError) Error() string {
	return fmt.Sprintf("%d %s", e.count, e.what)
}

// app carries the state shared by all subcommands.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	cfg    config.Config
	logger *slog.Logger
}

// Execute runs featurecheck with args and returns the process exit code.
func Execute(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return ExecuteContext(ctx, args, stdin, stdout, stderr)
}

// ExecuteContext is Execute with an explicit context. Long-running
// subcommands stop when ctx is cancelled.
func ExecuteContext(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitSuccess
	}
	var v *violationError
	if errors.As(err, &v) {
		return exitViolation
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return exitCommandError
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:     "featurecheck",
		Short:   "Inspect and simulate feature definitions",
		Version: version,
		Long: `featurecheck works on the feature definitions that gen-featureconfig
turns into a configuration header. It replays the generated guards for a
given configuration, prints the generator plan and reports definition
defects without invoking a compiler.

Generator settings are read from the FEATGEN_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, a.stderr)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logger
			return nil
		},
	}

	root.AddCommand(
		a.checkCommand(),
		a.showCommand(),
		a.lintCommand(),
		a.replCommand(),
		a.watchCommand(),
	)
	return root
}

// load parses the definitions at path and builds the generator plan.
func (a *app) load(path string) (*featuredefs.Defs, *featureconfig.Plan, error) {
	defs, err := featuredefs.Load(path)
	if err != nil {
		return nil, nil, err
	}
	plan, err := featureconfig.NewPlan(defs, a.options())
	if err != nil {
		return nil, nil, fmt.Errorf("planning %s: %w", path, err)
	}
	return defs, plan, nil
}

func (a *app) options() featureconfig.Options {
	return a.cfg.GeneratorOptions(a.logger)
}
