package grid

import (
	"math"

	"github.com/theia-art/theia/pkg/errors"
)

// Build returns a num×num square lattice spanning (0,0) to (size,size)
// inclusive, with points spaced size/(num-1) apart.
//
// num must be at least 2 (one point cannot span a size) and size must not be
// negative.
func Build(size, num int) (Grid, error) {
	if num < 2 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "num must be >= 2, got %d", num)
	}
	if size < 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "size must be >= 0, got %d", size)
	}

	step := float64(size) / float64(num-1)
	g := make(Grid, num)
	for yn := range num {
		row := make(Row, num)
		for xn := range num {
			row[xn] = Point{X: round(step * float64(xn)), Y: round(step * float64(yn))}
		}
		g[yn] = row
	}
	return g, nil
}

// RadialOptions configures [BuildRadial].
type RadialOptions struct {
	// Angular is the number of points on each ring.
	Angular int

	// Rings is the number of concentric rings.
	Rings int

	// Offset rotates every ring by this many degrees.
	Offset float64

	// Center prepends a single-point row holding the centre of the canvas.
	Center bool
}

// BuildRadial returns concentric rings of points centred on (size/2, size/2),
// innermost ring first. Ring n has radius (size/2)/Rings*(n+1), so the
// outermost ring touches the canvas edge.
//
// With Center set, row 0 holds only the centre point and the grid is ragged.
// Zero rings or zero angular points produce an empty grid (plus the centre
// row when requested) rather than an error.
func BuildRadial(size int, opts RadialOptions) (Grid, error) {
	if size < 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "size must be >= 0, got %d", size)
	}

	half := size / 2
	g := Grid{}
	if opts.Center {
		g = append(g, Row{{X: half, Y: half}})
	}
	if opts.Rings <= 0 || opts.Angular <= 0 {
		return g, nil
	}

	radStep := float64(half) / float64(opts.Rings)
	angStep := 2 * math.Pi / float64(opts.Angular)
	offset := opts.Offset * math.Pi / 180

	for rn := range opts.Rings {
		radius := radStep * float64(rn+1)
		row := make(Row, opts.Angular)
		for an := range opts.Angular {
			angle := offset + float64(an)*angStep
			row[an] = Point{
				X: round(float64(half) + radius*math.Cos(angle)),
				Y: round(float64(half) + radius*math.Sin(angle)),
			}
		}
		g = append(g, row)
	}
	return g, nil
}
