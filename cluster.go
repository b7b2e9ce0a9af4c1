package vecclust

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/vecclust/distance"
	"github.com/hupe1980/vecclust/internal/kmeans"
	"github.com/hupe1980/vecclust/vectorsource"
)

// Cluster partitions the entities of src into k clusters.
//
// Configuration errors are reported before any computation and match
// ErrConfiguration. Input vectors are validated in id order; the first
// vector whose dimension differs from entity 0 yields *ErrDimensionMismatch
// and the first NaN yields ErrNaN. If k is not smaller than the number of
// entities, every entity becomes its own cluster and the result carries a
// WarningDegenerateInput.
//
// Example:
//
//	src := vectorsource.NewDense([][]float64{{1, 1}, {1, 2}, {102, 100}, {100, 102}})
//	res, err := vecclust.Cluster(ctx, src, 2,
//	    vecclust.WithSampler(vecclust.SamplerKMeansPlusPlus),
//	    vecclust.WithRestarts(5),
//	)
func Cluster[T distance.Float](ctx context.Context, src vectorsource.Source[T], k int, optFns ...Option) (*Result[T], error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil vector source", ErrConfiguration)
	}

	o := applyOptions(k, optFns)
	n := src.Len()
	logger := o.logger.forRun().WithK(k).WithCount(n)
	if n > 0 {
		logger = logger.WithDimension(len(src.Vector(0)))
	}
	events := &runEvents{logger: logger, metrics: o.metricsCollector}

	start := time.Now()
	res, err := kmeans.New(o.cfg, src, logger.Logger, events, o.rc).Run(ctx)
	d := time.Since(start)
	err = translateError(err)

	o.metricsCollector.RecordRun(n, k, d, err)
	if err != nil {
		logger.LogRun(ctx, 0, 0, d, err)
		return nil, err
	}

	if !res.Degenerate {
		logger.LogConverged(ctx, res.BestRestart, res.Iterations, res.Converged)
	}
	logger.LogRun(ctx, res.Iterations, res.Distortion, d, nil)

	return newResult(res, events.warnings, o.sampler), nil
}

// runEvents forwards engine progress to the logger and metrics collector.
type runEvents struct {
	kmeans.NoopEvents

	logger   *Logger
	metrics  MetricsCollector
	warnings []Warning
}

func (e *runEvents) RoundCompleted(ctx context.Context, s kmeans.RoundStats) {
	e.logger.LogRound(ctx, s.Restart, s.Iteration, s.Swaps)
	e.metrics.RecordRound(s.Swaps, s.Duration)
}

func (e *runEvents) RestartCompleted(ctx context.Context, s kmeans.RestartStats) {
	e.logger.LogRestart(ctx, s.Restart, s.Iterations, s.Converged, s.Distortion)
	e.metrics.RecordRestart(s.Iterations, s.Converged, s.Distortion, s.Duration)
}

func (e *runEvents) Degenerate(ctx context.Context, n, k int) {
	e.logger.LogDegenerate(ctx, n, k)
	e.warnings = append(e.warnings, Warning{
		Kind:    WarningDegenerateInput,
		Message: fmt.Sprintf("k=%d is not smaller than the number of entities (%d)", k, n),
	})
}

func (e *runEvents) SilhouetteCompleted(ctx context.Context, average float64, d time.Duration) {
	e.logger.LogSilhouette(ctx, average, d)
	e.metrics.RecordSilhouette(average, d)
}
