package sampler

import (
	"context"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/vecclust/distance"
	"github.com/hupe1980/vecclust/internal/partition"
)

// PlusPlus implements weighted k-means++ seeding.
//
// Seed 0 is uniform. For every further seed all workers fold the previous
// seed into their running minimum squared distances, the totals are summed
// to W, x is drawn from [0, W) and entities are scanned in id order until the
// running weight exceeds x. When rounding leaves the scan short of x, or W is
// zero, the last scanned entity with positive weight is taken, and failing
// that the last scanned entity that is not a seed yet.
//
// After the k-th seed the workers assign every entity to its nearest seed and
// accumulate the first round's partial sums.
type PlusPlus[T distance.Float] struct{}

// Select implements Sampler.
func (PlusPlus[T]) Select(ctx context.Context, env *Env[T]) (Selection, error) {
	n := env.Source.Len()
	k := env.Centroids.K()

	ids := make([]int, 0, k)
	chosen := roaring.New()

	pick := func(id int) {
		chosen.Add(uint32(id))
		env.Centroids.InitialAssign(len(ids), env.Source.Vector(id))
		ids = append(ids, id)
	}
	pick(env.Rand.Intn(n))

	for j := 1; j < k; j++ {
		if err := ctx.Err(); err != nil {
			return Selection{}, err
		}

		prev := env.Source.Vector(ids[j-1])
		err := partition.Run(ctx, env.Workers, env.Concurrency, func(w *partition.Worker[T]) error {
			return w.SeedDistance(prev, j-1)
		})
		if err != nil {
			return Selection{}, err
		}

		var total float64
		for _, w := range env.Workers {
			total += w.Weight()
		}
		pick(scan(env.Workers, chosen, env.Rand.Float64()*total))
	}

	last := env.Source.Vector(ids[k-1])
	err := partition.Run(ctx, env.Workers, env.Concurrency, func(w *partition.Worker[T]) error {
		return w.FinalizeSeeds(last, k-1)
	})
	if err != nil {
		return Selection{}, err
	}
	return Selection{IDs: ids, Primed: true}, nil
}

// scan walks entities in id order, accumulating their running minimum squared
// distances, and returns the first one that pushes the sum above x.
// Workers cover contiguous ascending ranges.
func scan[T distance.Float](workers []*partition.Worker[T], chosen *roaring.Bitmap, x float64) int {
	var running float64
	lastPositive, lastFree := -1, -1
	for _, w := range workers {
		r := w.Range()
		for id := r.Start; id < r.End; id++ {
			if chosen.Contains(uint32(id)) {
				continue
			}
			lastFree = id
			d := w.MinDistance(id)
			if d <= 0 {
				continue
			}
			lastPositive = id
			running += d
			if running > x {
				return id
			}
		}
	}
	if lastPositive >= 0 {
		return lastPositive
	}
	return lastFree
}
