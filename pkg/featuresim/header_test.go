package featuresim

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigHeader(t *testing.T) {
	src := `/* myconfig.hpp
#define IN_COMMENT
*/
#define ELECTROSTATICS
  #  define P3M 1
#define MAX(a, b) ((a) > (b) ? (a) : (b))
// #define COMMENTED
#define /* inline */ DIPOLES // trailing
#undef ELECTROSTATICS
#include "other.hpp"
#ifdef CUDA
#endif
#define
`
	dirs, err := ParseConfigHeader(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, []Directive{
		{Name: "ELECTROSTATICS"},
		{Name: "P3M"},
		{Name: "MAX"},
		{Name: "DIPOLES"},
		{Name: "ELECTROSTATICS", Undef: true},
	}, dirs)
}

func TestParseBuildHeader(t *testing.T) {
	src := "#define ESPRESSO_BUILD_WITH_CUDA\n#define ESPRESSO_BUILD_WITH_FFTW\n#define ESPRESSO_BUILD_WITH_CUDA\n#undef ESPRESSO_BUILD_WITH_FFTW\n#define ESPRESSO_BUILD_WITH_HDF5\n"
	names, err := ParseBuildHeader(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, []string{"ESPRESSO_BUILD_WITH_CUDA", "ESPRESSO_BUILD_WITH_HDF5"}, names)
}

func TestLoadConfigHeader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "myconfig.hpp")
	require.NoError(t, os.WriteFile(path, []byte("#define A\n#undef B\n"), 0o644))

	dirs, err := LoadConfigHeader(path)
	require.NoError(t, err)
	assert.Equal(t, []Directive{{Name: "A"}, {Name: "B", Undef: true}}, dirs)

	names, err := LoadBuildHeader(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, names)

	_, err = LoadConfigHeader(filepath.Join(dir, "missing.hpp"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDirective_String(t *testing.T) {
	assert.Equal(t, "#define A", Directive{Name: "A"}.String())
	assert.Equal(t, "#undef A", Directive{Name: "A", Undef: true}.String())
}
