package vecclust_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/vecclust"
	"github.com/hupe1980/vecclust/modelstore"
	"github.com/hupe1980/vecclust/vectorsource"
)

// Example demonstrates clustering four points into two groups.
func Example() {
	src := vectorsource.NewDense([][]float64{
		{1, 1},
		{1, 2},
		{102, 100},
		{100, 102},
	})

	res, err := vecclust.Cluster(context.Background(), src, 2,
		vecclust.WithSampler(vecclust.SamplerKMeansPlusPlus),
		vecclust.WithRandomSeed(42),
	)
	if err != nil {
		log.Fatal(err)
	}

	low := res.Assignments[0]
	fmt.Println(res.Assignments[1] == low, res.Assignments[2] == low)
	fmt.Println(res.Centroids[low])
	// Output:
	// true false
	// [1 1.5]
}

// Example_seedCentroids demonstrates starting from known centroids.
func Example_seedCentroids() {
	src := vectorsource.NewDense([][]float32{{1}, {2}, {9}, {10}})

	res, err := vecclust.Cluster(context.Background(), src, 2,
		vecclust.WithSeedCentroids([][]float64{{0}, {8}}),
		vecclust.WithMaxIterations(20),
		vecclust.WithDeltaThreshold(0),
	)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(res.Assignments, res.Converged)
	// Output: [0 0 1 1] true
}

// Example_registry demonstrates saving a trained model and assigning new
// vectors with the loaded copy.
func Example_registry() {
	ctx := context.Background()
	src := vectorsource.NewDense([][]float64{{0, 0}, {0, 1}, {10, 10}, {10, 11}})

	res, err := vecclust.Cluster(ctx, src, 2, vecclust.WithRandomSeed(1))
	if err != nil {
		log.Fatal(err)
	}
	m, err := res.Model()
	if err != nil {
		log.Fatal(err)
	}

	reg := modelstore.NewRegistry(modelstore.NewMemoryStore())
	version, err := reg.Save(ctx, "points", m)
	if err != nil {
		log.Fatal(err)
	}

	loaded, _, err := reg.Load(ctx, "points")
	if err != nil {
		log.Fatal(err)
	}
	a, _ := loaded.Assign([]float64{9, 9})
	b, _ := loaded.Assign([]float64{1, 0})

	fmt.Println(version, a == int(res.Assignments[2]), b == int(res.Assignments[0]))
	// Output: 1 true true
}
