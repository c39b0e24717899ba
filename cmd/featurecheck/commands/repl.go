package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/espressomd/featuregen/pkg/featureconfig"
	"github.com/espressomd/featuregen/pkg/featuresim"
)

func (a *app) replCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl DEFFILE",
		Short: "Explore configurations interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, plan, err := a.load(args[0])
			if err != nil {
				return err
			}
			return a.runREPL(plan)
		},
	}
}

func (a *app) runREPL(plan *featureconfig.Plan) error {
	cfg := &readline.Config{
		Prompt:          "features> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    completer(plan),
	}
	if a.stdin != os.Stdin {
		cfg.Stdin = io.NopCloser(a.stdin)
		cfg.Stdout = a.stdout
		cfg.Stderr = a.stderr
	}
	rl, err := readline.NewEx(cfg)
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	s := newSession(plan, rl.Stdout())
	s.printHelp()
	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			return nil
		}
		if s.exec(line) {
			return nil
		}
	}
}

func completer(plan *featureconfig.Plan) readline.AutoCompleter {
	names := make([]readline.PrefixCompleterInterface, 0, len(plan.AllFeatures))
	for _, n := range plan.AllFeatures {
		names = append(names, readline.PcItem(n))
	}
	exts := make([]readline.PrefixCompleterInterface, 0, len(plan.Externals))
	for _, n := range plan.Externals {
		exts = append(exts, readline.PcItem(n))
	}
	return readline.NewPrefixCompleter(
		readline.PcItem("define", names...),
		readline.PcItem("undef", names...),
		readline.PcItem("with", exts...),
		readline.PcItem("without", exts...),
		readline.PcItem("why", names...),
		readline.PcItem("reset"),
		readline.PcItem("status"),
		readline.PcItem("features"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}

// session is the configuration being edited in the REPL.
type session struct {
	plan  *featureconfig.Plan
	build []string
	user  []featuresim.Directive
	out   io.Writer
}

func newSession(plan *featureconfig.Plan, out io.Writer) *session {
	return &session{plan: plan, out: out}
}

func (s *session) resolve() *featuresim.Result {
	return featuresim.Resolve(s.plan, featuresim.Input{Build: s.build, User: s.user})
}

// exec runs one command line and reports whether the session should end.
func (s *session) exec(line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		s.printHelp()
	case "define", "d":
		s.cmdDirective(args, false)
	case "undef", "u":
		s.cmdDirective(args, true)
	case "with", "w":
		s.cmdWith(args)
	case "without":
		s.cmdWithout(args)
	case "reset":
		s.build, s.user = nil, nil
		fmt.Fprintln(s.out, "Configuration cleared")
	case "status", "s":
		s.cmdStatus()
	case "features", "f":
		s.cmdFeatures()
	case "why":
		s.cmdWhy(args)
	case "quit", "exit", "q":
		fmt.Fprintln(s.out, "Exiting...")
		return true
	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return false
}

func (s *session) printHelp() {
	fmt.Fprintln(s.out, `
Feature Configuration Commands:
  User configuration:
    define <name>...   - Add #define lines
    undef <name>...    - Add #undef lines

  Build system:
    with <ext>...      - Enable external features
    without <ext>...   - Disable external features

  Inspection:
    status             - Show active features and diagnostics
    features           - List active features with their origin
    why <name>         - Explain why a symbol is defined

  General:
    reset              - Clear the configuration
    help               - Show this help
    quit               - Exit`)
}

func (s *session) cmdDirective(args []string, undef bool) {
	if len(args) == 0 {
		fmt.Fprintln(s.out, "Usage: define|undef <name>...")
		return
	}
	for _, name := range args {
		s.user = append(s.user, featuresim.Directive{Name: name, Undef: undef})
		fmt.Fprintln(s.out, featuresim.Directive{Name: name, Undef: undef})
	}
}

func (s *session) isExternal(name string) bool {
	for _, e := range s.plan.Externals {
		if e == name {
			return true
		}
	}
	return false
}

func (s *session) cmdWith(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(s.out, "Usage: with <ext>...")
		return
	}
	for _, ext := range args {
		if !s.isExternal(ext) {
			fmt.Fprintf(s.out, "%s is not an external feature\n", ext)
			continue
		}
		sym := s.plan.Options.BuildPrefix + ext
		if !contains(s.build, sym) {
			s.build = append(s.build, sym)
		}
		fmt.Fprintf(s.out, "Build system defines %s\n", sym)
	}
}

func (s *session) cmdWithout(args []string) {
	for _, ext := range args {
		sym := s.plan.Options.BuildPrefix + ext
		kept := s.build[:0]
		for _, b := range s.build {
			if b != sym {
				kept = append(kept, b)
			}
		}
		s.build = kept
		fmt.Fprintf(s.out, "Build system no longer defines %s\n", sym)
	}
}

func (s *session) cmdStatus() {
	res := s.resolve()
	fmt.Fprintf(s.out, "Build symbols:   %d\n", len(s.build))
	fmt.Fprintf(s.out, "User directives: %d\n", len(s.user))
	printResult(s.out, res, false)
}

func (s *session) cmdFeatures() {
	res := s.resolve()
	if res.NumFeatures == 0 {
		fmt.Fprintln(s.out, "No features active")
		return
	}
	printResult(s.out, res, true)
}

func (s *session) cmdWhy(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Usage: why <name>")
		return
	}
	chain := s.resolve().Why(args[0])
	if len(chain) == 0 {
		fmt.Fprintf(s.out, "%s is not defined\n", args[0])
		return
	}
	for i, step := range chain {
		fmt.Fprintf(s.out, "%s%s\n", strings.Repeat("  ", i), step)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
