package featuredefs

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const sampleDefs = `
# Electrostatics
ELECTROSTATICS
P3M                  implies ELECTROSTATICS, FFT_HELPERS
P3M                  requires FFTW
// retired switch, kept for enumeration
OLD_SWITCH           notest

/* derived */
DIPOLES              equals DIPOLAR_P3M or DIPOLAR_DIRECT_SUM
DIPOLAR_P3M          implies FFT_HELPERS
DIPOLAR_DIRECT_SUM
FFT_HELPERS

CUDA                 external
FFTW                 external
`

func TestParse_Sample(t *testing.T) {
	d, err := Parse(strings.NewReader(sampleDefs), "features.def")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	wantAll := []string{"CUDA", "DIPOLAR_DIRECT_SUM", "DIPOLAR_P3M", "DIPOLES", "ELECTROSTATICS", "FFTW", "FFT_HELPERS", "OLD_SWITCH", "P3M"}
	if got := d.AllFeatures.Sorted(); !reflect.DeepEqual(got, wantAll) {
		t.Errorf("AllFeatures = %v, want %v", got, wantAll)
	}
	if got, want := d.Externals.Sorted(), []string{"CUDA", "FFTW"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Externals = %v, want %v", got, want)
	}
	if got, want := d.Derived.Sorted(), []string{"DIPOLES"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Derived = %v, want %v", got, want)
	}
	// Features is AllFeatures minus derived and externals.
	wantFeatures := []string{"DIPOLAR_DIRECT_SUM", "DIPOLAR_P3M", "ELECTROSTATICS", "FFT_HELPERS", "OLD_SWITCH", "P3M"}
	if got := d.Features.Sorted(); !reflect.DeepEqual(got, wantFeatures) {
		t.Errorf("Features = %v, want %v", got, wantFeatures)
	}
	if got, want := d.NoTest.Sorted(), []string{"OLD_SWITCH"}; !reflect.DeepEqual(got, want) {
		t.Errorf("NoTest = %v, want %v", got, want)
	}

	wantImpl := []Implication{
		{Feature: "P3M", Implied: "ELECTROSTATICS", Line: 4},
		{Feature: "P3M", Implied: "FFT_HELPERS", Line: 4},
		{Feature: "DIPOLAR_P3M", Implied: "FFT_HELPERS", Line: 11},
	}
	if !reflect.DeepEqual(d.Implications, wantImpl) {
		t.Errorf("Implications = %+v, want %+v", d.Implications, wantImpl)
	}

	if len(d.Requirements) != 1 {
		t.Fatalf("len(Requirements) = %d, want 1", len(d.Requirements))
	}
	req := d.Requirements[0]
	if req.Feature != "P3M" || req.Expr != "FFTW" || req.CPPExpr != "defined(FFTW)" || req.Line != 5 {
		t.Errorf("Requirements[0] = %+v", req)
	}

	if len(d.Derivations) != 1 {
		t.Fatalf("len(Derivations) = %d, want 1", len(d.Derivations))
	}
	der := d.Derivations[0]
	if der.Feature != "DIPOLES" || der.Expr != "DIPOLAR_P3M or DIPOLAR_DIRECT_SUM" {
		t.Errorf("Derivations[0] = %+v", der)
	}
	if der.CPPExpr != "defined(DIPOLAR_P3M) || defined(DIPOLAR_DIRECT_SUM)" {
		t.Errorf("Derivations[0].CPPExpr = %q", der.CPPExpr)
	}
}

func TestParse_ExternalAppearsInAllFeatures(t *testing.T) {
	d, err := Parse(strings.NewReader("CUDA external\n"), "features.def")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !d.AllFeatures.Has("CUDA") || !d.Externals.Has("CUDA") {
		t.Errorf("CUDA should be in AllFeatures and Externals")
	}
	if d.Features.Has("CUDA") {
		t.Errorf("CUDA should not be a plain feature")
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
		msg  string
	}{
		{"equals without expr", "A equals\n", 1, "<feature> equals <expr>"},
		{"derived twice", "B\nA equals B\nA equals B\n", 3, "already defined above"},
		{"derived external", "B\nA external\nA equals B\n", 3, "already defined as external"},
		{"external with rest", "A external yes\n", 1, "<feature> external"},
		{"external derived", "B\nA equals B\nA external\n", 3, "already defined as derived"},
		{"external implied", "A\nB implies A\nA external\n", 3, "is implied above"},
		{"implies nothing", "A implies\n", 1, "<feature> implies"},
		{"implies external", "A external\nB implies A\n", 2, "already defined as external"},
		{"requires nothing", "A requires\n", 1, "<feature> requires <expr>"},
		{"notest with rest", "A notest now\n", 1, "<feature> notest"},
		{"unknown keyword", "\n\nA needs B\n", 3, "unknown keyword needs"},
		{"bad expression", "B\nA requires B and\n", 2, "invalid expression"},
		{"undefined implied", "A implies GHOST\n", 1, "A implies GHOST, which is not defined"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.src), "test.def")
			if err == nil {
				t.Fatal("Parse succeeded, want error")
			}
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("error %T, want *SyntaxError", err)
			}
			if se.Line != tt.line {
				t.Errorf("line = %d, want %d (%v)", se.Line, tt.line, err)
			}
			if !strings.Contains(se.Msg, tt.msg) {
				t.Errorf("msg = %q, want it to contain %q", se.Msg, tt.msg)
			}
			if !strings.HasPrefix(err.Error(), "test.def:") {
				t.Errorf("Error() = %q, want test.def: prefix", err.Error())
			}
		})
	}
}

func TestParse_TrailingCommaAndTabs(t *testing.T) {
	src := "A\nB\nC\timplies\tA,  B,\n"
	d, err := Parse(strings.NewReader(src), "features.def")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := []Implication{
		{Feature: "C", Implied: "A", Line: 3},
		{Feature: "C", Implied: "B", Line: 3},
	}
	if !reflect.DeepEqual(d.Implications, want) {
		t.Errorf("Implications = %+v, want %+v", d.Implications, want)
	}
}

func TestParse_RequirementCanBeRepeated(t *testing.T) {
	src := "A\nB\nC\nC requires A\nC requires not B\n"
	d, err := Parse(strings.NewReader(src), "features.def")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(d.Requirements) != 2 {
		t.Fatalf("len(Requirements) = %d, want 2", len(d.Requirements))
	}
	if d.Requirements[1].CPPExpr != "!defined(B)" {
		t.Errorf("Requirements[1].CPPExpr = %q", d.Requirements[1].CPPExpr)
	}
}

func TestParse_Empty(t *testing.T) {
	d, err := Parse(strings.NewReader("# nothing here\n\n"), "features.def")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if d.AllFeatures.Len() != 0 || len(d.Implications) != 0 {
		t.Errorf("expected empty model, got %+v", d)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	defPath := filepath.Join(dir, "features.def")
	if err := os.WriteFile(defPath, []byte(sampleDefs), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err := Load(defPath)
	if err != nil {
		t.Fatalf("Load(.def) failed: %v", err)
	}
	if d.AllFeatures.Len() != 9 {
		t.Errorf("AllFeatures.Len() = %d, want 9", d.AllFeatures.Len())
	}

	yamlPath := filepath.Join(dir, "features.yaml")
	if err := os.WriteFile(yamlPath, []byte("features:\n  - name: A\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err = Load(yamlPath)
	if err != nil {
		t.Fatalf("Load(.yaml) failed: %v", err)
	}
	if !d.Features.Has("A") {
		t.Errorf("A should be a plain feature")
	}

	jsonPath := filepath.Join(dir, "features.json")
	if err := os.WriteFile(jsonPath, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(jsonPath); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Load(.json) error = %v, want ErrUnknownFormat", err)
	}

	if _, err := Load(filepath.Join(dir, "missing.def")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) error = %v, want os.ErrNotExist", err)
	}
}
