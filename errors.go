package vecclust

import (
	"errors"
	"fmt"

	"github.com/hupe1980/vecclust/internal/centroids"
	"github.com/hupe1980/vecclust/internal/kmeans"
	"github.com/hupe1980/vecclust/vectorsource"
)

// ErrConfiguration is matched by every error that rejects a run before any
// computation starts.
var ErrConfiguration = kmeans.ErrConfiguration

var (
	ErrInvalidK              = kmeans.ErrInvalidK
	ErrInvalidMaxIterations  = kmeans.ErrInvalidMaxIterations
	ErrInvalidDeltaThreshold = kmeans.ErrInvalidDeltaThreshold
	ErrInvalidRestarts       = kmeans.ErrInvalidRestarts
	ErrInvalidConcurrency    = kmeans.ErrInvalidConcurrency
	ErrInvalidSampler        = kmeans.ErrInvalidSampler
	ErrSeedRestartConflict   = kmeans.ErrSeedRestartConflict
	ErrSeedCount             = kmeans.ErrSeedCount

	// ErrUnsupportedValueType is returned for vector files whose value type
	// is unknown or differs from the requested precision.
	ErrUnsupportedValueType = fmt.Errorf("%w: unsupported vector value type", ErrConfiguration)
)

var (
	// ErrNaN is returned when an input or seed vector contains NaN.
	ErrNaN = kmeans.ErrNaN

	// ErrCancelled is returned when the context ends a run early. It wraps
	// the context error.
	ErrCancelled = kmeans.ErrCancelled
)

// ErrDimensionMismatch reports the first vector whose dimension differs from
// the dimension of entity 0.
//
// The original underlying error can be accessed via errors.Unwrap.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
	// ID is the entity id, or the seed index when Seed is set.
	ID    int
	Seed  bool
	cause error
}

func (e *ErrDimensionMismatch) Error() string {
	if e.Seed {
		return fmt.Sprintf("dimension mismatch: seed centroid %d: expected %d, got %d", e.ID, e.Expected, e.Actual)
	}
	return fmt.Sprintf("dimension mismatch: entity %d: expected %d, got %d", e.ID, e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var dm *kmeans.DimensionMismatchError
	if errors.As(err, &dm) {
		return &ErrDimensionMismatch{Expected: dm.Expected, Actual: dm.Actual, ID: dm.ID, Seed: dm.Seed, cause: err}
	}
	var cdm *centroids.DimensionMismatchError
	if errors.As(err, &cdm) {
		return &ErrDimensionMismatch{Expected: cdm.Expected, Actual: cdm.Actual, ID: cdm.Index, Seed: true, cause: err}
	}
	if errors.Is(err, centroids.ErrSeedCount) {
		return fmt.Errorf("%w: %w", ErrSeedCount, err)
	}
	if errors.Is(err, vectorsource.ErrUnsupportedValueType) {
		return fmt.Errorf("%w: %w", ErrUnsupportedValueType, err)
	}

	return err
}
