package kmeans

import (
	"fmt"
	"runtime"

	"github.com/hupe1980/vecclust/internal/sampler"
)

const (
	DefaultMaxIterations  = 10
	DefaultDeltaThreshold = 0.05
	DefaultRestarts       = 1
)

// Config holds the parameters of a k-means run.
type Config struct {
	K                 int
	MaxIterations     int
	DeltaThreshold    float64
	Restarts          int
	ComputeSilhouette bool
	Concurrency       int
	Sampler           sampler.Type

	// RandomSeed makes runs reproducible when HasRandomSeed is set.
	RandomSeed    int64
	HasRandomSeed bool

	// SeedCentroids bypass the sampler when non-empty.
	SeedCentroids [][]float64
}

// DefaultConfig returns the defaults for k clusters.
func DefaultConfig(k int) Config {
	return Config{
		K:              k,
		MaxIterations:  DefaultMaxIterations,
		DeltaThreshold: DefaultDeltaThreshold,
		Restarts:       DefaultRestarts,
		Concurrency:    runtime.GOMAXPROCS(0),
		Sampler:        sampler.TypeUniform,
	}
}

// Validate rejects configurations that cannot run.
func (c Config) Validate() error {
	switch {
	case c.K < 1:
		return fmt.Errorf("%w: got %d", ErrInvalidK, c.K)
	case c.MaxIterations < 1:
		return fmt.Errorf("%w: got %d", ErrInvalidMaxIterations, c.MaxIterations)
	case c.DeltaThreshold < 0 || c.DeltaThreshold > 1 || c.DeltaThreshold != c.DeltaThreshold:
		return fmt.Errorf("%w: got %v", ErrInvalidDeltaThreshold, c.DeltaThreshold)
	case c.Restarts < 1:
		return fmt.Errorf("%w: got %d", ErrInvalidRestarts, c.Restarts)
	case c.Concurrency < 1:
		return fmt.Errorf("%w: got %d", ErrInvalidConcurrency, c.Concurrency)
	case c.Sampler != sampler.TypeUniform && c.Sampler != sampler.TypeKMeansPlusPlus:
		return fmt.Errorf("%w: %v", ErrInvalidSampler, c.Sampler)
	}

	if len(c.SeedCentroids) > 0 {
		if c.Restarts > 1 {
			return ErrSeedRestartConflict
		}
		if len(c.SeedCentroids) != c.K {
			return fmt.Errorf("%w: got %d, expected k=%d", ErrSeedCount, len(c.SeedCentroids), c.K)
		}
	}
	return nil
}

// Seeded reports whether the run starts from caller supplied centroids.
func (c Config) Seeded() bool { return len(c.SeedCentroids) > 0 }
