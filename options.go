package vecclust

import (
	"log/slog"

	"github.com/hupe1980/vecclust/internal/kmeans"
	"github.com/hupe1980/vecclust/resource"
)

type options struct {
	cfg              kmeans.Config
	sampler          Sampler
	metricsCollector MetricsCollector
	logger           *Logger
	rc               *resource.Controller
}

// Option configures a clustering run.
type Option func(*options)

// WithMaxIterations bounds the number of refinement rounds per restart.
// Must be at least 1; the default is 10.
func WithMaxIterations(n int) Option {
	return func(o *options) {
		o.cfg.MaxIterations = n
	}
}

// WithDeltaThreshold stops refinement once the fraction of entities that
// changed cluster in a round is at most delta. Must be within [0, 1]; the
// default is 0.05. Zero runs until no entity moves.
func WithDeltaThreshold(delta float64) Option {
	return func(o *options) {
		o.cfg.DeltaThreshold = delta
	}
}

// WithRestarts runs n independent seedings and keeps the one with the lowest
// distortion. Must be 1 when seed centroids are given.
func WithRestarts(n int) Option {
	return func(o *options) {
		o.cfg.Restarts = n
	}
}

// WithSilhouette enables per-entity silhouette scoring.
func WithSilhouette(enabled bool) Option {
	return func(o *options) {
		o.cfg.ComputeSilhouette = enabled
	}
}

// WithConcurrency sets the number of partition workers.
// The default is runtime.GOMAXPROCS(0).
func WithConcurrency(n int) Option {
	return func(o *options) {
		o.cfg.Concurrency = n
	}
}

// WithSampler selects the initial centroid strategy.
func WithSampler(s Sampler) Option {
	return func(o *options) {
		o.sampler = s
	}
}

// WithRandomSeed makes seeding reproducible.
func WithRandomSeed(seed int64) Option {
	return func(o *options) {
		o.cfg.RandomSeed = seed
		o.cfg.HasRandomSeed = true
	}
}

// WithSeedCentroids starts from exactly k caller supplied centroids instead
// of sampling. Vectors are converted to the precision of the source.
//
// Example:
//
//	res, _ := vecclust.Cluster(ctx, src, 2,
//	    vecclust.WithSeedCentroids([][]float64{{5, 0}, {100, 0}}),
//	)
func WithSeedCentroids(seeds [][]float64) Option {
	return func(o *options) {
		o.cfg.SeedCentroids = seeds
	}
}

// WithMetricsCollector configures a metrics collector.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &vecclust.BasicMetricsCollector{}
//	_, _ = vecclust.Cluster(ctx, src, 8, vecclust.WithMetricsCollector(metrics))
//	stats := metrics.GetStats()
//	fmt.Printf("Rounds: %d, Avg round: %dns\n", stats.RoundCount, stats.RoundAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := vecclust.NewJSONLogger(slog.LevelInfo)
//	_, _ = vecclust.Cluster(ctx, src, 8, vecclust.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithResourceController shares worker slots with other runs of the process.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.rc = rc
	}
}

func applyOptions(k int, optFns []Option) options {
	o := options{
		cfg:              kmeans.DefaultConfig(k),
		sampler:          SamplerUniform,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	o.cfg.Sampler = o.sampler.internal()
	return o
}
