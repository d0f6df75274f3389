package grid

import (
	"math/rand/v2"

	"github.com/theia-art/theia/pkg/errors"
)

// JitterMode selects how [Jitter] draws coordinate offsets. The set of modes
// is closed: [NoJitter], [FixedList] and [RangeJitter].
type JitterMode interface {
	validate() error
	offset(rng *rand.Rand) int
}

// NoJitter leaves every point where it is.
type NoJitter struct{}

// FixedList offsets each coordinate by a value picked uniformly from Values.
type FixedList struct {
	Values []int
}

// RangeJitter offsets each coordinate by a magnitude drawn uniformly from
// [Min, Max] with a random sign. When Min >= Max the magnitude is always Min.
// Use Min 0 for a one-sided bound.
type RangeJitter struct {
	Min int
	Max int
}

func (NoJitter) validate() error       { return nil }
func (NoJitter) offset(*rand.Rand) int { return 0 }

func (m FixedList) offset(r *rand.Rand) int {
	return m.Values[r.IntN(len(m.Values))]
}

func (m FixedList) validate() error {
	if len(m.Values) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "jitter value list is empty")
	}
	return nil
}

func (m RangeJitter) validate() error {
	if m.Min < 0 || m.Max < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "jitter bounds must be >= 0, got [%d, %d]", m.Min, m.Max)
	}
	return nil
}

func (m RangeJitter) offset(r *rand.Rand) int {
	mag := m.Min
	if m.Max > m.Min {
		mag += r.IntN(m.Max - m.Min + 1)
	}
	if r.IntN(2) == 0 {
		return -mag
	}
	return mag
}

// JitterOptions bounds the output of [Jitter].
type JitterOptions struct {
	// Size is the upper bound used when clamping. Zero or negative means the
	// largest x in the first row of the input, so a bound of exactly zero
	// cannot be requested; collapse points with [Apply] instead.
	Size int

	// Clamp pins every jittered coordinate into [0, Size].
	Clamp bool
}

// Jitter offsets the x and y of every point independently according to mode.
// The result has the same shape as g; clamping never drops points.
//
// Jittering an already jittered grid without an explicit Size infers the
// bound from jittered points, which may be smaller than the canvas.
func Jitter(g Grid, mode JitterMode, rng *rand.Rand, opts JitterOptions) (Grid, error) {
	if mode == nil {
		mode = NoJitter{}
	}
	if err := mode.validate(); err != nil {
		return nil, err
	}
	if _, ok := mode.(NoJitter); ok {
		return g.Clone(), nil
	}

	rng = source(rng)
	size := opts.Size
	if size <= 0 {
		size = extent(g)
	}

	out := make(Grid, len(g))
	for i, row := range g {
		next := make(Row, len(row))
		for j, p := range row {
			x := p.X + mode.offset(rng)
			y := p.Y + mode.offset(rng)
			if opts.Clamp {
				x = clamp(x, 0, size)
				y = clamp(y, 0, size)
			}
			next[j] = Point{X: x, Y: y}
		}
		out[i] = next
	}
	return out, nil
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
