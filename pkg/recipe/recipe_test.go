package recipe

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/theia-art/theia/pkg/errors"
	"github.com/theia-art/theia/pkg/grid"
)

const squareRecipe = `
seed = 7

[builder]
kind = "square"
size = 512
num  = 5

[[step]]
op = "trim"

[[step]]
op    = "jitter"
min   = 4
max   = 12
clamp = true

[[step]]
op         = "sparsify"
percentage = 0.5
`

func intPtr(v int) *int { return &v }

func TestParse(t *testing.T) {
	r, err := Parse([]byte(squareRecipe))
	if err != nil {
		t.Fatal(err)
	}
	want := &Recipe{
		Seed:    7,
		Builder: Builder{Kind: KindSquare, Size: 512, Num: 5},
		Steps: []Step{
			{Op: OpTrim},
			{Op: OpJitter, Min: intPtr(4), Max: intPtr(12), Clamp: true},
			{Op: OpSparsify, Percentage: 0.5},
		},
	}
	if diff := cmp.Diff(want, r); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}
}

func TestRunDeterministic(t *testing.T) {
	r, err := Parse([]byte(squareRecipe))
	if err != nil {
		t.Fatal(err)
	}
	a, err := r.Run()
	if err != nil {
		t.Fatal(err)
	}
	b, err := r.Run()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed produced different grids (-a +b):\n%s", diff)
	}

	// 5x5 trimmed to 4x4, half kept
	if a.Count() != 8 {
		t.Errorf("count = %d, want 8", a.Count())
	}
	for _, p := range grid.Flatten(a) {
		if p.X < 0 || p.X > 384 || p.Y < 0 || p.Y > 384 {
			t.Errorf("point %v escaped the clamp bound", p)
		}
	}
}

func TestRunRadial(t *testing.T) {
	r, err := Parse([]byte(`
[builder]
kind    = "radial"
size    = 200
angular = 6
rings   = 2
center  = true

[[step]]
op = "translate"
dx = 10
dy = 20
`))
	if err != nil {
		t.Fatal(err)
	}
	g, err := r.Run()
	if err != nil {
		t.Fatal(err)
	}
	if len(g) != 3 || len(g[0]) != 1 {
		t.Fatalf("unexpected shape: %d rows, first has %d", len(g), len(g[0]))
	}
	if g[0][0] != (grid.Point{X: 110, Y: 120}) {
		t.Errorf("centre = %v, want (110,120)", g[0][0])
	}
}

func TestStepJitterMode(t *testing.T) {
	tests := []struct {
		name string
		step Step
		want grid.JitterMode
	}{
		{"none", Step{}, grid.NoJitter{}},
		{"list wins", Step{Values: []int{1, 2}, Min: intPtr(3)}, grid.FixedList{Values: []int{1, 2}}},
		{"range", Step{Min: intPtr(2), Max: intPtr(8)}, grid.RangeJitter{Min: 2, Max: 8}},
		{"only min", Step{Min: intPtr(5)}, grid.RangeJitter{Max: 5}},
		{"only max", Step{Max: intPtr(6)}, grid.RangeJitter{Max: 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.step.JitterMode()); diff != "" {
				t.Errorf("JitterMode mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStepErrorsCarryCodes(t *testing.T) {
	r := &Recipe{
		Builder: Builder{Kind: KindSquare, Size: 100, Num: 4},
		Steps: []Step{
			{Op: OpTrim},
			{Op: OpShiftRows, Offset: 10},
			{Op: OpTranspose},
		},
	}

	_, err := r.Run()
	if !errors.Is(err, errors.ErrCodeRaggedGrid) {
		t.Errorf("err = %v, want RAGGED_GRID from transpose of shifted grid", err)
	}

	r = &Recipe{Builder: Builder{Kind: KindSquare, Size: 100, Num: 1}}
	if _, err := r.Run(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG from builder", err)
	}
}

func TestRunRejectsNaNPercentage(t *testing.T) {
	for _, op := range []string{OpSparsify, OpFastSparsify} {
		t.Run(op, func(t *testing.T) {
			r, err := Parse([]byte("[builder]\nkind = \"square\"\nsize = 100\nnum = 4\n\n[[step]]\nop = \"" + op + "\"\npercentage = nan\n"))
			if err != nil {
				t.Fatal(err)
			}
			if _, err := r.Run(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("err = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	tests := map[string]string{
		"syntax":       "seed = ",
		"no kind":      "[builder]\nsize = 10",
		"unknown kind": "[builder]\nkind = \"hex\"",
		"unknown op":   "[builder]\nkind = \"square\"\n[[step]]\nop = \"melt\"",
		"unknown key":  "[builder]\nkind = \"square\"\ncolour = \"red\"",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(doc)); !errors.Is(err, errors.ErrCodeInvalidRecipe) {
				t.Errorf("err = %v, want INVALID_RECIPE", err)
			}
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	r, err := Parse([]byte(squareRecipe))
	if err != nil {
		t.Fatal(err)
	}
	again, err := Parse([]byte(r.String()))
	if err != nil {
		t.Fatalf("re-parse encoded recipe: %v\n%s", err, r.String())
	}
	if diff := cmp.Diff(r, again); diff != "" {
		t.Errorf("encode/parse mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.toml")
	if err := os.WriteFile(path, []byte(squareRecipe), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path + ".missing"); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}
