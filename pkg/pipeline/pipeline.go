// Package pipeline runs theia's batch jobs.
//
// Jobs are driven through a [Runner]:
//
//  1. Background: build random grids and stamp emblems onto tileable canvases
//  2. Recolor: tint, outline or glow images in every colour of a palette, or quantize them
//  3. Tidy: invert, pad or seam-swap icons
//  4. Swatch: render gradients and sample them into palettes
//  5. Preview: render a recipe's grid as a dot plot, cached by recipe
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, logger)
//	res, err := runner.Background(ctx, pipeline.BackgroundOptions{
//	    Emblems: "emblems/",
//	    Count:   4,
//	    Seed:    7,
//	})
//
// Every random choice is drawn from a generator seeded with the run's seed,
// so the same options always reproduce the same images.
package pipeline

import (
	"math/rand/v2"
)

// =============================================================================
// Defaults
// =============================================================================

const (
	DefaultSize       = 512
	DefaultCount      = 10
	DefaultBackground = "#f1f2f6"
	DefaultForeground = "#dfe4ea"
	DefaultOutput     = "output/grid_images"

	// ManifestName is written next to the generated images.
	ManifestName = "manifest.json"
)

// DefaultEmblemSizes is used when no emblem sizes are given.
var DefaultEmblemSizes = []int{48, 64, 80}

var (
	// square grid densities, weighted toward 3 and 4
	squareNums = []int{2, 3, 3, 3, 4, 4, 4, 5, 5, 6}

	// emblem rotations in degrees, weighted toward upright and 45
	rotations = []float64{-45, -45, -30, -15, 0, 0, 0, 15, 30, 45, 45}
)

const (
	radialChance = 0.2
	centerChance = 0.1
)

// newRand returns the generator every job draws from.
func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

func choice[T any](rng *rand.Rand, items []T) T {
	return items[rng.IntN(len(items))]
}
