// Package genrun runs the generator pipeline shared by gen-featureconfig
// and featurecheck watch: load definitions, plan, write both files.
package genrun

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/espressomd/featuregen/pkg/featureconfig"
	"github.com/espressomd/featuregen/pkg/featuredefs"
)

// Paths names the input definitions and the two generated files.
type Paths struct {
	Defs   string
	Header string
	Source string
}

// Generate reads p.Defs and writes the header and then the translation
// unit, printing a progress line to progress before each step. A failure
// leaves any file already written in place.
func Generate(progress io.Writer, p Paths, opts featureconfig.Options) (*featureconfig.Plan, error) {
	fmt.Fprintf(progress, "Reading definitions from %s\n", p.Defs)
	defs, err := featuredefs.Load(p.Defs)
	if err != nil {
		return nil, fmt.Errorf("loading definitions: %w", err)
	}

	plan, err := featureconfig.NewPlan(defs, opts)
	if err != nil {
		return nil, fmt.Errorf("planning %s: %w", p.Defs, err)
	}

	fmt.Fprintf(progress, "Writing %s\n", p.Header)
	if err := writeFile(p.Header, plan, featureconfig.WriteHeader); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}

	fmt.Fprintf(progress, "Writing %s\n", p.Source)
	if err := writeFile(p.Source, plan, featureconfig.WriteSource); err != nil {
		return nil, fmt.Errorf("writing source: %w", err)
	}
	return plan, nil
}

type emitFunc func(io.Writer, *featureconfig.Plan) error

// writeFile renders into a buffered writer over a freshly created file and
// closes the file on every path.
func writeFile(path string, plan *featureconfig.Plan, emit emitFunc) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	w := bufio.NewWriter(f)
	if err := emit(w, plan); err != nil {
		return err
	}
	return w.Flush()
}
