package grid

import (
	"math/rand/v2"

	"github.com/theia-art/theia/pkg/errors"
)

// Sparsify keeps exactly round(Count*percentage) points, chosen uniformly at
// random without replacement. Surviving points keep their row and their order
// within it.
func Sparsify(g Grid, percentage float64, rng *rand.Rand) (Grid, error) {
	if err := checkPercentage(percentage); err != nil {
		return nil, err
	}
	rng = source(rng)

	total := g.Count()
	keep := make([]bool, total)
	for _, i := range rng.Perm(total)[:round(float64(total)*percentage)] {
		keep[i] = true
	}

	idx := 0
	return filter(g, func(Point) bool {
		k := keep[idx]
		idx++
		return k
	}), nil
}

// FastSparsify keeps each point independently with probability percentage.
// It makes a single pass without shuffling, so the number of survivors only
// approximates Count*percentage.
func FastSparsify(g Grid, percentage float64, rng *rand.Rand) (Grid, error) {
	if err := checkPercentage(percentage); err != nil {
		return nil, err
	}
	rng = source(rng)

	return filter(g, func(Point) bool {
		return rng.Float64() < percentage
	}), nil
}

// checkPercentage rejects values outside [0, 1], NaN included.
func checkPercentage(p float64) error {
	if !(p >= 0 && p <= 1) {
		return errors.New(errors.ErrCodeInvalidConfig, "percentage must be within [0, 1], got %g", p)
	}
	return nil
}

// filter visits points in row-major order and keeps those for which keep
// returns true.
func filter(g Grid, keep func(Point) bool) Grid {
	out := make(Grid, len(g))
	for i, row := range g {
		next := make(Row, 0, len(row))
		for _, p := range row {
			if keep(p) {
				next = append(next, p)
			}
		}
		out[i] = next
	}
	return out
}
