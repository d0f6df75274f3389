package grid

import "github.com/theia-art/theia/pkg/errors"

// Transpose swaps the x and y of every point and swaps rows with columns,
// mirroring the whole grid across its diagonal. Applying it twice returns the
// original grid.
//
// g must be rectangular; ragged grids return a RAGGED_GRID error.
func Transpose(g Grid) (Grid, error) {
	if !g.IsRectangular() {
		return nil, errors.New(errors.ErrCodeRaggedGrid, "transpose needs a rectangular grid")
	}
	if len(g) == 0 {
		return Grid{}, nil
	}

	out := make(Grid, len(g[0]))
	for j := range out {
		row := make(Row, len(g))
		for i := range g {
			p := g[i][j]
			row[i] = Point{X: p.Y, Y: p.X}
		}
		out[j] = row
	}
	return out, nil
}

// Flatten concatenates the rows of g in row-major order.
func Flatten(g Grid) []Point {
	out := make([]Point, 0, g.Count())
	for _, row := range g {
		out = append(out, row...)
	}
	return out
}

// Apply maps fn over every point, preserving the shape of g.
func Apply(g Grid, fn func(Point) Point) Grid {
	out := make(Grid, len(g))
	for i, row := range g {
		next := make(Row, len(row))
		for j, p := range row {
			next[j] = fn(p)
		}
		out[i] = next
	}
	return out
}

// Translate offsets every point by (dx, dy).
func Translate(g Grid, dx, dy int) Grid {
	return Apply(g, func(p Point) Point { return p.Add(dx, dy) })
}

// TrimLast drops the last row and the last point of every remaining row.
// Square lattices built with [Build] repeat their first row and column on the
// far edge; trimming them lets the result tile seamlessly.
func TrimLast(g Grid) Grid {
	if len(g) == 0 {
		return Grid{}
	}
	out := make(Grid, len(g)-1)
	for i, row := range g[:len(g)-1] {
		if len(row) == 0 {
			out[i] = Row{}
			continue
		}
		out[i] = append(Row{}, row[:len(row)-1]...)
	}
	return out
}
