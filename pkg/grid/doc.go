// Package grid builds procedural point lattices and transforms them.
//
// # Overview
//
// A [Grid] is an ordered list of rows of integer [Point] values, used as
// placement coordinates for stamping images onto a canvas. Builders create
// rectangular grids; transforms derive new grids from old ones:
//
//	g, _ := grid.Build(512, 5)              // 5x5 lattice from (0,0) to (512,512)
//	g = grid.TrimLast(g)                     // drop the far edge for tiling
//	g, _ = grid.Jitter(g, grid.RangeJitter{Min: 4, Max: 12}, rng, grid.JitterOptions{Clamp: true})
//	g, _ = grid.Sparsify(g, 0.6, rng)
//	for _, p := range grid.Flatten(g) {
//	    // paste something at p
//	}
//
// # Immutability
//
// No function in this package mutates its input. Every transform returns a
// freshly allocated grid, so pipelines can branch from any intermediate value.
//
// # Ragged Grids
//
// Builders return rectangular grids (except [BuildRadial] with a centre row),
// but several transforms drop points: [ShiftRows], [Triangle], [Sparsify] and
// [FastSparsify]. Consumers must not assume equal row lengths. [Transpose] is
// the only operation that requires a rectangular grid, and it returns an
// error with code RAGGED_GRID otherwise.
//
// # Bounds Policies
//
// [Jitter] clamps out-of-range coordinates into [0, size]. [ShiftRows] drops
// points whose shifted x leaves [0, size]; tiling layouts rely on that to trim
// the edges. [ShiftColumns] never drops or clamps. These policies differ on
// purpose and are kept separate.
//
// # Randomness
//
// [Jitter], [Sparsify] and [FastSparsify] take a *rand.Rand from math/rand/v2.
// Pass a seeded generator for reproducible output:
//
//	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
//
// A nil generator is replaced by a randomly seeded one.
package grid
