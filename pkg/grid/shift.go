package grid

// ShiftOptions selects which rows or columns a shift applies to.
type ShiftOptions struct {
	// Mod shifts every Mod-th row (or column), starting at index 0.
	// Zero means 2. Negative values use their absolute value.
	Mod int

	// Size bounds [ShiftRows]: shifted points with x outside [0, Size] are
	// dropped. Zero or negative means the largest x in the first row.
	// [ShiftColumns] ignores it.
	Size int
}

func (o ShiftOptions) mod() int {
	switch {
	case o.Mod == 0:
		return 2
	case o.Mod < 0:
		return -o.Mod
	}
	return o.Mod
}

// ShiftRows adds offset to the x of every point in rows whose index is a
// multiple of opts.Mod. Points pushed outside [0, Size] are removed from their
// row; rows that are not selected are copied unchanged.
func ShiftRows(g Grid, offset int, opts ShiftOptions) Grid {
	mod := opts.mod()
	size := opts.Size
	if size <= 0 {
		size = extent(g)
	}

	out := make(Grid, len(g))
	for i, row := range g {
		if i%mod != 0 {
			out[i] = append(Row{}, row...)
			continue
		}
		next := make(Row, 0, len(row))
		for _, p := range row {
			if x := p.X + offset; x >= 0 && x <= size {
				next = append(next, Point{X: x, Y: p.Y})
			}
		}
		out[i] = next
	}
	return out
}

// ShiftColumns adds offset to the y of every point whose position within its
// row is a multiple of opts.Mod. Nothing is dropped or clamped.
func ShiftColumns(g Grid, offset int, opts ShiftOptions) Grid {
	mod := opts.mod()
	out := make(Grid, len(g))
	for i, row := range g {
		next := make(Row, len(row))
		for j, p := range row {
			if j%mod == 0 {
				p.Y += offset
			}
			next[j] = p
		}
		out[i] = next
	}
	return out
}
