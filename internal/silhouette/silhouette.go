package silhouette

import (
	"context"
	"math"

	"github.com/hupe1980/vecclust/distance"
	"github.com/hupe1980/vecclust/internal/partition"
	"github.com/hupe1980/vecclust/vectorsource"
	"github.com/sourcegraph/conc/pool"
)

// chunksPerWorker oversplits the id space so faster goroutines pick up more work.
const chunksPerWorker = 4

// Result holds per-entity scores and their mean.
type Result struct {
	Scores  []float64
	Average float64
}

// Score computes silhouette scores for the given assignment. counts[c] must
// equal the number of entities assigned to cluster c.
func Score[T distance.Float](ctx context.Context, src vectorsource.Source[T], assignments []int32, counts []int, concurrency int) (Result, error) {
	n := src.Len()
	scores := make([]float64, n)
	if n == 0 {
		return Result{Scores: scores}, nil
	}
	if concurrency < 1 {
		concurrency = 1
	}

	p := pool.New().WithContext(ctx).WithCancelOnError().WithMaxGoroutines(concurrency)
	for _, r := range partition.Ranges(n, concurrency*chunksPerWorker) {
		p.Go(func(ctx context.Context) error {
			sums := make([]float64, len(counts))
			for i := r.Start; i < r.End; i++ {
				if (i-r.Start)%1024 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				scores[i] = score(src, assignments, counts, sums, i)
			}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return Result{}, err
	}

	var total float64
	for _, s := range scores {
		total += s
	}
	return Result{Scores: scores, Average: total / float64(n)}, nil
}

func score[T distance.Float](src vectorsource.Source[T], assignments []int32, counts []int, sums []float64, i int) float64 {
	own := int(assignments[i])
	if counts[own] <= 1 {
		return 0
	}

	clear(sums)
	vec := src.Vector(i)
	for j := range assignments {
		if j == i {
			continue
		}
		sums[assignments[j]] += float64(distance.L2(vec, src.Vector(j)))
	}

	a := sums[own] / float64(counts[own]-1)
	b := math.Inf(1)
	for c, sum := range sums {
		if c == own || counts[c] == 0 {
			continue
		}
		b = math.Min(b, sum/float64(counts[c]))
	}
	if math.IsInf(b, 1) {
		return 0
	}

	m := math.Max(a, b)
	if m == 0 {
		return 0
	}
	return (b - a) / m
}
