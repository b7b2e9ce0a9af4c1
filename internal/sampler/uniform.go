package sampler

import (
	"context"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/vecclust/distance"
)

// Uniform picks k distinct entities uniformly at random by rejection sampling.
type Uniform[T distance.Float] struct{}

// Select implements Sampler.
func (Uniform[T]) Select(ctx context.Context, env *Env[T]) (Selection, error) {
	n := env.Source.Len()
	k := env.Centroids.K()

	ids := make([]int, 0, k)
	seen := roaring.New()
	for len(ids) < k {
		if err := ctx.Err(); err != nil {
			return Selection{}, err
		}
		id := env.Rand.Intn(n)
		if !seen.CheckedAdd(uint32(id)) {
			continue
		}
		env.Centroids.InitialAssign(len(ids), env.Source.Vector(id))
		ids = append(ids, id)
	}
	return Selection{IDs: ids}, nil
}
