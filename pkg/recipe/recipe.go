// Package recipe describes grid pipelines as TOML documents.
//
// A recipe names a builder and an ordered list of steps. Running it with a
// seed always yields the same grid:
//
//	seed = 7
//
//	[builder]
//	kind = "square"
//	size = 512
//	num  = 5
//
//	[[step]]
//	op = "trim"
//
//	[[step]]
//	op    = "jitter"
//	min   = 4
//	max   = 12
//	clamp = true
//
//	[[step]]
//	op         = "sparsify"
//	percentage = 0.6
//
// Supported ops are listed in [Ops].
package recipe

import (
	"bytes"
	"fmt"
	"io"
	"math/rand/v2"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/theia-art/theia/pkg/errors"
	"github.com/theia-art/theia/pkg/grid"
)

// Builder kinds.
const (
	KindSquare = "square"
	KindRadial = "radial"
)

// Step operations.
const (
	OpTrim         = "trim"
	OpJitter       = "jitter"
	OpShiftRows    = "shift_rows"
	OpShiftColumns = "shift_columns"
	OpTriangle     = "triangle"
	OpSparsify     = "sparsify"
	OpFastSparsify = "fast_sparsify"
	OpTranspose    = "transpose"
	OpTranslate    = "translate"
)

// Ops is the set of supported step operations.
var Ops = map[string]bool{
	OpTrim:         true,
	OpJitter:       true,
	OpShiftRows:    true,
	OpShiftColumns: true,
	OpTriangle:     true,
	OpSparsify:     true,
	OpFastSparsify: true,
	OpTranspose:    true,
	OpTranslate:    true,
}

// Recipe is a builder plus the steps applied to its output.
type Recipe struct {
	Seed    uint64  `toml:"seed"`
	Builder Builder `toml:"builder"`
	Steps   []Step  `toml:"step"`
}

// Builder selects and configures the grid builder.
type Builder struct {
	Kind string `toml:"kind"`
	Size int    `toml:"size"`

	// square
	Num int `toml:"num,omitempty"`

	// radial
	Angular int     `toml:"angular,omitempty"`
	Rings   int     `toml:"rings,omitempty"`
	Offset  float64 `toml:"offset,omitempty"`
	Center  bool    `toml:"center,omitempty"`
}

// Step is one transform. Only the fields relevant to Op are read.
type Step struct {
	Op string `toml:"op"`

	// jitter
	Values []int `toml:"values,omitempty"`
	Min    *int  `toml:"min,omitempty"`
	Max    *int  `toml:"max,omitempty"`
	Clamp  bool  `toml:"clamp,omitempty"`

	// jitter, shift_rows
	Size int `toml:"size,omitempty"`

	// shift_rows, shift_columns
	Offset int `toml:"offset,omitempty"`
	Mod    int `toml:"mod,omitempty"`

	// triangle; zero step means 1
	Step      int  `toml:"step,omitempty"`
	Symmetric bool `toml:"symmetric,omitempty"`

	// sparsify, fast_sparsify
	Percentage float64 `toml:"percentage,omitempty"`

	// translate
	DX int `toml:"dx,omitempty"`
	DY int `toml:"dy,omitempty"`
}

// JitterMode picks the jitter variant from the step fields. An explicit value
// list wins; otherwise min/max form a range, a single bound forms a range
// from zero, and no bounds disables jitter.
func (s Step) JitterMode() grid.JitterMode {
	switch {
	case len(s.Values) > 0:
		return grid.FixedList{Values: s.Values}
	case s.Min != nil && s.Max != nil:
		return grid.RangeJitter{Min: *s.Min, Max: *s.Max}
	case s.Min != nil:
		return grid.RangeJitter{Max: *s.Min}
	case s.Max != nil:
		return grid.RangeJitter{Max: *s.Max}
	}
	return grid.NoJitter{}
}

// Parse decodes a TOML recipe and validates it.
func Parse(data []byte) (*Recipe, error) {
	var r Recipe
	md, err := toml.Decode(string(data), &r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRecipe, err, "decode recipe")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidRecipe, "unknown recipe keys: %v", undecoded)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Load reads and parses the recipe file at path.
func Load(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "recipe %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read recipe %s", path)
	}
	return Parse(data)
}

// Encode writes r as TOML.
func (r *Recipe) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(r)
}

// String returns the TOML form of r.
func (r *Recipe) String() string {
	var buf bytes.Buffer
	if err := r.Encode(&buf); err != nil {
		return fmt.Sprintf("<invalid recipe: %v>", err)
	}
	return buf.String()
}

// Validate checks that the builder kind and every step op are known.
// Parameter ranges are checked by the grid functions when the recipe runs.
func (r *Recipe) Validate() error {
	switch r.Builder.Kind {
	case KindSquare, KindRadial:
	case "":
		return errors.New(errors.ErrCodeInvalidRecipe, "builder kind is required")
	default:
		return errors.New(errors.ErrCodeInvalidRecipe, "unknown builder kind %q", r.Builder.Kind)
	}
	for i, s := range r.Steps {
		if !Ops[s.Op] {
			return errors.New(errors.ErrCodeInvalidRecipe, "step %d: unknown op %q", i+1, s.Op)
		}
	}
	return nil
}

// Run builds the grid and applies every step, drawing randomness from a
// generator seeded with r.Seed.
func (r *Recipe) Run() (grid.Grid, error) {
	return r.RunWith(rand.New(rand.NewPCG(r.Seed, r.Seed^0xdeadbeef)))
}

// RunWith is [Recipe.Run] with a caller-supplied generator.
func (r *Recipe) RunWith(rng *rand.Rand) (grid.Grid, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	g, err := r.Builder.Build()
	if err != nil {
		return nil, fmt.Errorf("builder: %w", err)
	}
	for i, s := range r.Steps {
		if g, err = s.Apply(g, rng); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, s.Op, err)
		}
	}
	return g, nil
}

// Build runs the configured builder.
func (b Builder) Build() (grid.Grid, error) {
	if b.Kind == KindRadial {
		return grid.BuildRadial(b.Size, grid.RadialOptions{
			Angular: b.Angular,
			Rings:   b.Rings,
			Offset:  b.Offset,
			Center:  b.Center,
		})
	}
	return grid.Build(b.Size, b.Num)
}

// Apply runs the step against g.
func (s Step) Apply(g grid.Grid, rng *rand.Rand) (grid.Grid, error) {
	switch s.Op {
	case OpTrim:
		return grid.TrimLast(g), nil
	case OpJitter:
		return grid.Jitter(g, s.JitterMode(), rng, grid.JitterOptions{Size: s.Size, Clamp: s.Clamp})
	case OpShiftRows:
		return grid.ShiftRows(g, s.Offset, grid.ShiftOptions{Mod: s.Mod, Size: s.Size}), nil
	case OpShiftColumns:
		return grid.ShiftColumns(g, s.Offset, grid.ShiftOptions{Mod: s.Mod}), nil
	case OpTriangle:
		step := s.Step
		if step == 0 {
			step = 1
		}
		return grid.Triangle(g, step, s.Symmetric)
	case OpSparsify:
		return grid.Sparsify(g, s.Percentage, rng)
	case OpFastSparsify:
		return grid.FastSparsify(g, s.Percentage, rng)
	case OpTranspose:
		return grid.Transpose(g)
	case OpTranslate:
		return grid.Translate(g, s.DX, s.DY), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidRecipe, "unknown op %q", s.Op)
}
