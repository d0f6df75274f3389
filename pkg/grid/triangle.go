package grid

import "github.com/theia-art/theia/pkg/errors"

// Triangle trims idx*step points from the start of row idx, and from the end
// as well when symmetric is true, carving a triangle out of a rectangular
// grid. Row 0 is untouched. Rows trimmed past their length become empty.
func Triangle(g Grid, step int, symmetric bool) (Grid, error) {
	if step < 1 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "triangle step must be >= 1, got %d", step)
	}

	out := make(Grid, len(g))
	for idx, row := range g {
		start, end := idx*step, len(row)
		if symmetric {
			end -= idx * step
		}
		if start >= end {
			out[idx] = Row{}
			continue
		}
		out[idx] = append(Row{}, row[start:end]...)
	}
	return out, nil
}
