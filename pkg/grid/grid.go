package grid

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Point is an integer pixel coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// String formats the point as "(x,y)".
func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Add returns p offset by (dx, dy).
func (p Point) Add(dx, dy int) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Row is an ordered, left-to-right sequence of points.
type Row []Point

// Grid is an ordered, top-to-bottom sequence of rows. Rows may differ in
// length once points have been dropped.
type Grid []Row

// Clone returns a deep copy of g. A nil grid clones to nil.
func (g Grid) Clone() Grid {
	if g == nil {
		return nil
	}
	out := make(Grid, len(g))
	for i, row := range g {
		out[i] = append(Row{}, row...)
	}
	return out
}

// Count returns the total number of points in g.
func (g Grid) Count() int {
	n := 0
	for _, row := range g {
		n += len(row)
	}
	return n
}

// IsRectangular reports whether every row has the same length.
// Empty grids are rectangular.
func (g Grid) IsRectangular() bool {
	for _, row := range g {
		if len(row) != len(g[0]) {
			return false
		}
	}
	return true
}

// Bounds returns the component-wise minimum and maximum of all points.
// ok is false when g holds no points.
func (g Grid) Bounds() (lo, hi Point, ok bool) {
	lo = Point{X: math.MaxInt, Y: math.MaxInt}
	hi = Point{X: math.MinInt, Y: math.MinInt}
	for _, row := range g {
		for _, p := range row {
			lo.X, lo.Y = min(lo.X, p.X), min(lo.Y, p.Y)
			hi.X, hi.Y = max(hi.X, p.X), max(hi.Y, p.Y)
			ok = true
		}
	}
	if !ok {
		return Point{}, Point{}, false
	}
	return lo, hi, true
}

// extent is the implicit size of a grid: the largest x in the first row, or
// the largest x overall when the first row is empty.
func extent(g Grid) int {
	if len(g) > 0 && len(g[0]) > 0 {
		m := g[0][0].X
		for _, p := range g[0] {
			m = max(m, p.X)
		}
		return m
	}
	if _, hi, ok := g.Bounds(); ok {
		return hi.X
	}
	return 0
}

// round rounds half to even so that lattice fixtures computed with
// floating point steps land on the same integers every time.
func round(v float64) int {
	return int(math.RoundToEven(v))
}

// source returns rng, or a randomly seeded generator when rng is nil.
func source(rng *rand.Rand) *rand.Rand {
	if rng != nil {
		return rng
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
