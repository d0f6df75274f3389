package grid_test

import (
	"fmt"
	"math/rand/v2"

	"github.com/theia-art/theia/pkg/grid"
)

func ExampleBuild() {
	g, _ := grid.Build(100, 3)
	for _, row := range g {
		fmt.Println(row)
	}
	// Output:
	// [(0,0) (50,0) (100,0)]
	// [(0,50) (50,50) (100,50)]
	// [(0,100) (50,100) (100,100)]
}

func ExampleTriangle() {
	g, _ := grid.Build(40, 5)
	tri, _ := grid.Triangle(g, 1, true)
	for _, row := range tri {
		fmt.Println(len(row), row)
	}
	// Output:
	// 5 [(0,0) (10,0) (20,0) (30,0) (40,0)]
	// 3 [(10,10) (20,10) (30,10)]
	// 1 [(20,20)]
	// 0 []
	// 0 []
}

func ExampleSparsify() {
	g, _ := grid.Build(90, 10)
	rng := rand.New(rand.NewPCG(42, 42^0xdeadbeef))

	sparse, _ := grid.Sparsify(g, 0.25, rng)
	fmt.Println(g.Count(), "->", sparse.Count())
	// Output:
	// 100 -> 25
}

func ExampleFlatten() {
	g, _ := grid.Build(10, 2)
	g = grid.ShiftColumns(g, 3, grid.ShiftOptions{})
	fmt.Println(grid.Flatten(g))
	// Output:
	// [(0,3) (10,0) (0,13) (10,10)]
}
