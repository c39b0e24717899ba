package genrun

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/espressomd/featuregen/pkg/featureconfig"
	"github.com/espressomd/featuregen/pkg/featuredefs"
)

func writeDefs(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	p := Paths{
		Defs:   writeDefs(t, dir, "features.def", "A\nB implies A\nC external\n"),
		Header: filepath.Join(dir, "config-features.hpp"),
		Source: filepath.Join(dir, "config-features.cpp"),
	}

	var progress bytes.Buffer
	plan, err := Generate(&progress, p, featureconfig.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, plan.Features)

	assert.Equal(t,
		"Reading definitions from "+p.Defs+"\nWriting "+p.Header+"\nWriting "+p.Source+"\n",
		progress.String())

	want, err := featureconfig.Header(plan)
	require.NoError(t, err)
	got, err := os.ReadFile(p.Header)
	require.NoError(t, err)
	assert.Equal(t, want, string(got))

	want, err = featureconfig.Source(plan)
	require.NoError(t, err)
	got, err = os.ReadFile(p.Source)
	require.NoError(t, err)
	assert.Equal(t, want, string(got))
}

func TestGenerate_YAMLDefinitions(t *testing.T) {
	dir := t.TempDir()
	p := Paths{
		Defs:   writeDefs(t, dir, "features.yaml", "features:\n  - name: A\n  - name: B\n    implies: [A]\n"),
		Header: filepath.Join(dir, "out.hpp"),
		Source: filepath.Join(dir, "out.cpp"),
	}
	_, err := Generate(&bytes.Buffer{}, p, featureconfig.Options{})
	require.NoError(t, err)

	hdr, err := os.ReadFile(p.Header)
	require.NoError(t, err)
	assert.Contains(t, string(hdr), "// B implies A\n")
}

func TestGenerate_SyntaxErrorWritesNothing(t *testing.T) {
	dir := t.TempDir()
	p := Paths{
		Defs:   writeDefs(t, dir, "features.def", "A frobnicates B\n"),
		Header: filepath.Join(dir, "out.hpp"),
		Source: filepath.Join(dir, "out.cpp"),
	}

	var progress bytes.Buffer
	_, err := Generate(&progress, p, featureconfig.DefaultOptions())
	require.Error(t, err)

	var se *featuredefs.SyntaxError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 1, se.Line)
	assert.NotContains(t, progress.String(), "Writing")

	assert.NoFileExists(t, p.Header)
	assert.NoFileExists(t, p.Source)
}

func TestGenerate_RejectedCycle(t *testing.T) {
	dir := t.TempDir()
	p := Paths{
		Defs:   writeDefs(t, dir, "features.def", "A implies B\nB implies A\n"),
		Header: filepath.Join(dir, "out.hpp"),
		Source: filepath.Join(dir, "out.cpp"),
	}
	_, err := Generate(&bytes.Buffer{}, p, featureconfig.Options{RejectCycles: true})

	var ce *featureconfig.CycleError
	require.True(t, errors.As(err, &ce))
	assert.NoFileExists(t, p.Header)
}

func TestGenerate_SourceFailureKeepsHeader(t *testing.T) {
	dir := t.TempDir()
	p := Paths{
		Defs:   writeDefs(t, dir, "features.def", "A\n"),
		Header: filepath.Join(dir, "out.hpp"),
		Source: filepath.Join(dir, "missing", "out.cpp"),
	}
	_, err := Generate(&bytes.Buffer{}, p, featureconfig.DefaultOptions())
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "writing source: "))
	assert.FileExists(t, p.Header)
}
