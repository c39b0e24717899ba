// gen-featureconfig generates the feature configuration header and
// translation unit from a feature definition file.
//
// Usage:
//
//	gen-featureconfig DEFFILE HPPFILE CPPFILE
//
// Symbol names and include paths are taken from FEATGEN_* environment
// variables.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/espressomd/featuregen/internal/config"
	"github.com/espressomd/featuregen/internal/genrun"
	"github.com/espressomd/featuregen/internal/logging"
)

const (
	exitSuccess = 0
	exitError   = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) != 3 {
		fmt.Fprintln(stderr, "Usage: gen-featureconfig DEFFILE HPPFILE CPPFILE")
		return exitUsage
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}

	paths := genrun.Paths{Defs: args[0], Header: args[1], Source: args[2]}
	if _, err := genrun.Generate(stdout, paths, cfg.GeneratorOptions(logger)); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}
	return exitSuccess
}
