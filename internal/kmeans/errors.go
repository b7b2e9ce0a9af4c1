package kmeans

import (
	"errors"
	"fmt"
)

// ErrConfiguration is wrapped by every error that rejects a configuration
// before any computation starts.
var ErrConfiguration = errors.New("invalid configuration")

var (
	ErrInvalidK              = fmt.Errorf("%w: k must be at least 1", ErrConfiguration)
	ErrInvalidMaxIterations  = fmt.Errorf("%w: maxIterations must be at least 1", ErrConfiguration)
	ErrInvalidDeltaThreshold = fmt.Errorf("%w: deltaThreshold must be within [0, 1]", ErrConfiguration)
	ErrInvalidRestarts       = fmt.Errorf("%w: numberOfRestarts must be at least 1", ErrConfiguration)
	ErrInvalidConcurrency    = fmt.Errorf("%w: concurrency must be at least 1", ErrConfiguration)
	ErrInvalidSampler        = fmt.Errorf("%w: unsupported initial sampler", ErrConfiguration)
	ErrSeedRestartConflict   = fmt.Errorf("%w: seeded centroids cannot be run with more than one restart", ErrConfiguration)
	ErrSeedCount             = fmt.Errorf("%w: incorrect number of seed centroids", ErrConfiguration)
)

var (
	// ErrNaN is returned when an input or seed vector contains NaN.
	ErrNaN = errors.New("input for k-means should not contain any NaN values")

	// ErrCancelled is returned when the context is done before the run completed.
	ErrCancelled = errors.New("k-means cancelled")
)

// DimensionMismatchError reports the first vector whose dimension differs
// from the dimension of entity 0.
type DimensionMismatchError struct {
	// ID is the entity id, or the seed index when Seed is set.
	ID       int
	Seed     bool
	Expected int
	Actual   int
}

func (e *DimensionMismatchError) Error() string {
	what := "entity"
	if e.Seed {
		what = "seed centroid"
	}
	return fmt.Sprintf("all vectors for k-means should have the same dimension: %s %d has %d, expected %d",
		what, e.ID, e.Actual, e.Expected)
}

// NaNError locates a NaN value.
type NaNError struct {
	ID   int
	Seed bool
}

func (e *NaNError) Error() string {
	if e.Seed {
		return fmt.Sprintf("%v: seed centroid %d", ErrNaN, e.ID)
	}
	return fmt.Sprintf("%v: entity %d", ErrNaN, e.ID)
}

func (e *NaNError) Unwrap() error { return ErrNaN }

func cancelled(err error) error {
	return fmt.Errorf("%w: %w", ErrCancelled, err)
}
