package featuresim

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/espressomd/featuregen/pkg/featureconfig"
	"github.com/espressomd/featuregen/pkg/featuredefs"
)

const defs = `
ELECTROSTATICS
P3M implies ELECTROSTATICS
P3M requires FFTW
DIPOLES
DP3M implies DIPOLES
DP3M requires FFTW
ANY_P3M equals P3M or DP3M
CUDA external
FFTW external
MMM1D_GPU requires CUDA and ELECTROSTATICS
MMM1D_GPU implies P3M
`

func plan(t *testing.T, src string) *featureconfig.Plan {
	t.Helper()
	d, err := featuredefs.Parse(strings.NewReader(src), "features.def")
	require.NoError(t, err)
	p, err := featureconfig.NewPlan(d, featureconfig.DefaultOptions())
	require.NoError(t, err)
	return p
}

func define(names ...string) []Directive {
	out := make([]Directive, len(names))
	for i, n := range names {
		out[i] = Directive{Name: n}
	}
	return out
}

func TestResolve_EmptyConfiguration(t *testing.T) {
	res := Resolve(plan(t, defs), Input{})
	assert.Empty(t, res.Features)
	assert.Zero(t, res.NumFeatures)
	assert.Empty(t, res.Diagnostics)
	assert.Len(t, res.AllFeatures, 8)
	assert.True(t, res.OK())
}

func TestResolve_ExternalRename(t *testing.T) {
	res := Resolve(plan(t, defs), Input{Build: []string{"ESPRESSO_BUILD_WITH_FFTW", "UNRELATED"}})

	assert.True(t, res.Defined.Has("FFTW"))
	assert.False(t, res.Defined.Has("ESPRESSO_BUILD_WITH_FFTW"))
	assert.True(t, res.Defined.Has("UNRELATED"))
	assert.Equal(t, OriginExternal, res.Origin["FFTW"])
	assert.Equal(t, OriginBuild, res.Origin["UNRELATED"])
	assert.Equal(t, []string{"FFTW"}, res.Features)
}

func TestResolve_RequirementViolated(t *testing.T) {
	res := Resolve(plan(t, defs), Input{User: define("P3M")})

	require.False(t, res.OK())
	errs := res.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, "P3M", errs[0].Feature)
	assert.Equal(t, "Feature P3M requires FFTW", errs[0].Message)
	assert.Equal(t, "error: Feature P3M requires FFTW", errs[0].String())
}

func TestResolve_RequirementSatisfied(t *testing.T) {
	res := Resolve(plan(t, defs), Input{
		Build: []string{"ESPRESSO_BUILD_WITH_FFTW"},
		User:  define("P3M"),
	})

	assert.True(t, res.OK())
	assert.Equal(t, []string{"ANY_P3M", "ELECTROSTATICS", "FFTW", "P3M"}, res.Features)
	assert.Equal(t, 4, res.NumFeatures)
	assert.Equal(t, ImpliedBy("P3M"), res.Origin["ELECTROSTATICS"])
	assert.Equal(t, OriginDerived, res.Origin["ANY_P3M"])
}

func TestResolve_MultiHopImplication(t *testing.T) {
	// MMM1D_GPU implies P3M implies ELECTROSTATICS.
	res := Resolve(plan(t, defs), Input{
		Build: []string{"ESPRESSO_BUILD_WITH_FFTW", "ESPRESSO_BUILD_WITH_CUDA"},
		User:  define("MMM1D_GPU"),
	})

	assert.True(t, res.OK(), "diagnostics: %v", res.Diagnostics)
	assert.True(t, res.Defined.Has("P3M"))
	assert.True(t, res.Defined.Has("ELECTROSTATICS"))
	assert.True(t, res.Defined.Has("ANY_P3M"))
	assert.Equal(t, ImpliedBy("MMM1D_GPU"), res.Origin["ELECTROSTATICS"])
}

func TestResolve_DerivedOverride(t *testing.T) {
	res := Resolve(plan(t, defs), Input{User: define("ANY_P3M")})

	warns := res.Warnings()
	require.Len(t, warns, 1)
	assert.Equal(t, "ANY_P3M is a derived switch and should not be set manually!", warns[0].Message)
	assert.True(t, res.OK())
	assert.Equal(t, []string{"ANY_P3M"}, res.Features)
}

func TestResolve_UserUndef(t *testing.T) {
	res := Resolve(plan(t, defs), Input{
		Build: []string{"ESPRESSO_BUILD_WITH_CUDA"},
		User: []Directive{
			{Name: "DIPOLES"},
			{Name: "CUDA", Undef: true},
			{Name: "DIPOLES", Undef: true},
			{Name: "ELECTROSTATICS"},
		},
	})
	assert.Equal(t, []string{"ELECTROSTATICS"}, res.Features)
}

func TestResolve_CountInvariant(t *testing.T) {
	p := plan(t, defs)
	res := Resolve(p, Input{
		Build: []string{"ESPRESSO_BUILD_WITH_FFTW", "ESPRESSO_BUILD_WITH_CUDA"},
		User:  define("DP3M", "P3M", "NOT_A_FEATURE"),
	})

	assert.Equal(t, len(res.Features), res.NumFeatures)
	for _, f := range res.Features {
		assert.Contains(t, p.Features, f)
	}
	assert.NotContains(t, res.Features, "NOT_A_FEATURE")
	assert.Equal(t, p.AllFeatures, res.AllFeatures)
}

func TestResult_Why(t *testing.T) {
	res := Resolve(plan(t, defs), Input{
		Build: []string{"ESPRESSO_BUILD_WITH_FFTW", "ESPRESSO_BUILD_WITH_CUDA"},
		User:  define("MMM1D_GPU"),
	})

	assert.Equal(t, []string{
		"ELECTROSTATICS: implied by MMM1D_GPU",
		"MMM1D_GPU: user",
	}, res.Why("ELECTROSTATICS"))
	assert.Equal(t, []string{"CUDA: external"}, res.Why("CUDA"))
	assert.Nil(t, res.Why("DIPOLES"))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "warning", Warning.String())
	assert.Equal(t, "error", Error.String())
	assert.Equal(t, "Kind(7)", Kind(7).String())
}
