package kmeans

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/hupe1980/vecclust/distance"
	"github.com/hupe1980/vecclust/internal/centroids"
	"github.com/hupe1980/vecclust/internal/partition"
	"github.com/hupe1980/vecclust/internal/sampler"
	"github.com/hupe1980/vecclust/internal/silhouette"
	"github.com/hupe1980/vecclust/internal/vecmath"
	"github.com/hupe1980/vecclust/resource"
	"github.com/hupe1980/vecclust/vectorsource"
)

// Result is the outcome of a completed run.
type Result[T distance.Float] struct {
	// Assignments maps every entity to its cluster.
	Assignments []int32
	// Centroids and Counts are nil for degenerate input.
	Centroids [][]T
	Counts    []int
	// Distances holds each entity's Euclidean distance to its centroid.
	Distances       []float64
	AverageDistance float64
	Distortion      float64
	// Silhouette is nil unless ComputeSilhouette was set.
	Silhouette        []float64
	AverageSilhouette float64
	Iterations        int
	Converged         bool
	Restarts          int
	BestRestart       int
	SeedIDs           []int
	// Degenerate is set when k >= n and the identity clustering was returned.
	Degenerate bool
}

// Engine runs k-means over a vector source. An Engine runs once.
type Engine[T distance.Float] struct {
	cfg    Config
	src    vectorsource.Source[T]
	logger *slog.Logger
	events Events
	rc     *resource.Controller

	dim   int
	seeds [][]T
	state atomic.Int32
}

// New creates an engine. logger, events and rc may be nil.
func New[T distance.Float](cfg Config, src vectorsource.Source[T], logger *slog.Logger, events Events, rc *resource.Controller) *Engine[T] {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if events == nil {
		events = NoopEvents{}
	}
	return &Engine[T]{
		cfg:    cfg,
		src:    src,
		logger: logger,
		events: events,
		rc:     rc,
	}
}

// State returns the current lifecycle state.
func (e *Engine[T]) State() State { return State(e.state.Load()) }

func (e *Engine[T]) setState(ctx context.Context, to State) {
	from := State(e.state.Swap(int32(to)))
	if from == to {
		return
	}
	e.logger.DebugContext(ctx, "k-means state changed", "from", from, "to", to)
	e.events.StateChanged(ctx, from, to)
}

// restart is the working set of one restart.
type restart[T distance.Float] struct {
	index      int
	centroids  *centroids.Centroids[T]
	tables     *partition.Tables
	workers    []*partition.Worker[T]
	seedIDs    []int
	iterations int
	converged  bool
	distortion float64
}

// Run executes the configured restarts and returns the best one.
// On cancellation it returns an error wrapping ErrCancelled and no result.
func (e *Engine[T]) Run(ctx context.Context) (res *Result[T], err error) {
	if e.State() != StateNew {
		return nil, errors.New("kmeans: engine already used")
	}
	defer func() {
		switch {
		case errors.Is(err, ErrCancelled):
			e.setState(ctx, StateCancelled)
		case err != nil:
			e.setState(ctx, StateFailed)
		}
	}()

	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	if err := e.validateInput(); err != nil {
		return nil, err
	}

	e.setState(ctx, StateInitializing)
	n := e.src.Len()
	if e.cfg.K >= n {
		return e.degenerate(ctx, n)
	}

	limit, err := e.rc.AcquireWorkers(ctx, e.cfg.Concurrency)
	if err != nil {
		return nil, cancelled(err)
	}
	defer e.rc.ReleaseWorkers(limit)

	smp, err := sampler.New[T](e.cfg.Sampler)
	if err != nil {
		return nil, errors.Join(ErrInvalidSampler, err)
	}

	baseSeed := e.cfg.RandomSeed
	if !e.cfg.HasRandomSeed {
		baseSeed = time.Now().UnixNano()
	}

	var best *restart[T]
	bestIndex := 0
	for i := 0; i < e.cfg.Restarts; i++ {
		if err := ctx.Err(); err != nil {
			return nil, cancelled(err)
		}
		rng := rand.New(rand.NewSource(baseSeed + int64(i))) //nolint:gosec // clustering, not crypto
		r, err := e.runRestart(ctx, i, n, limit, smp, rng)
		if err != nil {
			return nil, err
		}
		// strictly lower distortion wins, so ties keep the earlier restart
		if best == nil || r.distortion < best.distortion {
			best, bestIndex = r, i
		}
	}

	res = e.result(best, bestIndex)
	if e.cfg.ComputeSilhouette {
		if err := e.score(ctx, res, limit); err != nil {
			return nil, err
		}
	}
	e.setState(ctx, StateDone)
	return res, nil
}

// validateInput scans entities in id order and fails on the first vector with
// a different dimension than entity 0 or containing NaN. Seed centroids are
// converted to T and checked the same way.
func (e *Engine[T]) validateInput() error {
	n := e.src.Len()
	if n > 0 {
		e.dim = len(e.src.Vector(0))
	}
	for id := 0; id < n; id++ {
		vec := e.src.Vector(id)
		if len(vec) != e.dim {
			return &DimensionMismatchError{ID: id, Expected: e.dim, Actual: len(vec)}
		}
		if vecmath.HasNaN(vec) {
			return &NaNError{ID: id}
		}
	}

	if !e.cfg.Seeded() {
		return nil
	}
	e.seeds = make([][]T, len(e.cfg.SeedCentroids))
	for i, seed := range e.cfg.SeedCentroids {
		if n > 0 && len(seed) != e.dim {
			return &DimensionMismatchError{ID: i, Seed: true, Expected: e.dim, Actual: len(seed)}
		}
		if vecmath.HasNaN(seed) {
			return &NaNError{ID: i, Seed: true}
		}
		e.seeds[i] = vecmath.Convert[T](seed)
	}
	return nil
}

// degenerate returns the identity clustering used when there are not more
// entities than clusters.
func (e *Engine[T]) degenerate(ctx context.Context, n int) (*Result[T], error) {
	e.events.Degenerate(ctx, n, e.cfg.K)

	res := &Result[T]{
		Assignments: make([]int32, n),
		Distances:   make([]float64, n),
		Restarts:    1,
		Converged:   true,
		Degenerate:  true,
	}
	for i := range res.Assignments {
		res.Assignments[i] = int32(i)
	}
	if e.cfg.ComputeSilhouette {
		// every cluster is a singleton
		res.Silhouette = make([]float64, n)
	}
	e.setState(ctx, StateDone)
	return res, nil
}

func (e *Engine[T]) runRestart(ctx context.Context, index, n, limit int, smp sampler.Sampler[T], rng *rand.Rand) (*restart[T], error) {
	start := time.Now()
	e.setState(ctx, StateInitializing)

	r := &restart[T]{
		index:     index,
		centroids: centroids.New[T](e.cfg.K, e.dim),
		tables:    partition.NewTables(n),
	}
	for _, rg := range partition.Ranges(n, e.cfg.Concurrency) {
		r.workers = append(r.workers, partition.NewWorker(e.src, r.tables, rg, e.cfg.K, e.dim))
	}

	primed := false
	if e.seeds != nil {
		if err := r.centroids.AssignSeeded(e.seeds); err != nil {
			return nil, err
		}
	} else {
		sel, err := smp.Select(ctx, &sampler.Env[T]{
			Source:      e.src,
			Centroids:   r.centroids,
			Workers:     r.workers,
			Rand:        rng,
			Concurrency: limit,
		})
		if err != nil {
			return nil, e.wrapRunErr(ctx, err)
		}
		r.seedIDs = sel.IDs
		primed = sel.Primed
	}
	e.logger.DebugContext(ctx, "centroids seeded", "restart", index, "sampler", e.cfg.Sampler, "seeds", r.seedIDs)

	e.setState(ctx, StateRefining)
	for {
		if err := ctx.Err(); err != nil {
			return nil, cancelled(err)
		}
		roundStart := time.Now()

		// a primed restart already holds the first round's assignment
		if !primed {
			err := partition.Run(ctx, r.workers, limit, func(w *partition.Worker[T]) error {
				return w.Assign(r.centroids)
			})
			if err != nil {
				return nil, e.wrapRunErr(ctx, err)
			}
		}
		primed = false

		swaps := 0
		r.centroids.BeginRound()
		for _, w := range r.workers {
			swaps += w.Swaps()
			w.MergeInto(r.centroids)
		}
		r.centroids.Normalize()
		r.iterations++

		stats := RoundStats{Restart: index, Iteration: r.iterations, Swaps: swaps, Duration: time.Since(roundStart)}
		e.events.RoundCompleted(ctx, stats)

		if float64(swaps)/float64(n) <= e.cfg.DeltaThreshold {
			r.converged = true
			e.setState(ctx, StateConverged)
			break
		}
		if r.iterations >= e.cfg.MaxIterations {
			e.setState(ctx, StateMaxIterations)
			break
		}
	}

	err := partition.Run(ctx, r.workers, limit, func(w *partition.Worker[T]) error {
		return w.FinalDistance(r.centroids)
	})
	if err != nil {
		return nil, e.wrapRunErr(ctx, err)
	}
	for _, w := range r.workers {
		r.distortion += w.Distortion()
	}

	e.events.RestartCompleted(ctx, RestartStats{
		Restart:    index,
		Iterations: r.iterations,
		Converged:  r.converged,
		Distortion: r.distortion,
		SeedIDs:    r.seedIDs,
		Duration:   time.Since(start),
	})
	return r, nil
}

// wrapRunErr reports a failed parallel pass as cancellation when the context
// is done.
func (e *Engine[T]) wrapRunErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return cancelled(ctxErr)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return cancelled(err)
	}
	return err
}

func (e *Engine[T]) result(r *restart[T], index int) *Result[T] {
	n := len(r.tables.Assignments)
	res := &Result[T]{
		Assignments: r.tables.Assignments,
		Centroids:   r.centroids.Snapshot(),
		Counts:      r.centroids.Counts(),
		Distances:   r.tables.Distances,
		Distortion:  r.distortion,
		Iterations:  r.iterations,
		Converged:   r.converged,
		Restarts:    e.cfg.Restarts,
		BestRestart: index,
		SeedIDs:     r.seedIDs,
	}
	if n > 0 {
		res.AverageDistance = r.distortion / float64(n)
	}
	return res
}

func (e *Engine[T]) score(ctx context.Context, res *Result[T], limit int) error {
	e.setState(ctx, StateScoring)
	start := time.Now()
	s, err := silhouette.Score(ctx, e.src, res.Assignments, res.Counts, limit)
	if err != nil {
		return e.wrapRunErr(ctx, err)
	}
	res.Silhouette = s.Scores
	res.AverageSilhouette = s.Average
	e.events.SilhouetteCompleted(ctx, s.Average, time.Since(start))
	return nil
}
