package partition

import (
	"context"

	"github.com/hupe1980/vecclust/distance"
	"golang.org/x/sync/errgroup"
)

// Run executes fn for every worker in parallel, at most limit at a time, and
// returns after all of them finished. The first error cancels the workers
// that have not started yet.
func Run[T distance.Float](ctx context.Context, workers []*Worker[T], limit int, fn func(*Worker[T]) error) error {
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for _, w := range workers {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(w)
		})
	}
	return g.Wait()
}
