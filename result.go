package vecclust

import (
	"fmt"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/vecclust/distance"
	"github.com/hupe1980/vecclust/internal/kmeans"
	"github.com/hupe1980/vecclust/internal/vecmath"
	"github.com/hupe1980/vecclust/model"
	"github.com/hupe1980/vecclust/vectorsource"
)

// WarningKind classifies a non-fatal condition of a run.
type WarningKind int

const (
	// WarningDegenerateInput means k was not smaller than the number of
	// entities and every entity became its own cluster.
	WarningDegenerateInput WarningKind = iota + 1
)

func (k WarningKind) String() string {
	switch k {
	case WarningDegenerateInput:
		return "degenerate_input"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Warning is a non-fatal condition reported with a Result.
type Warning struct {
	Kind    WarningKind
	Message string
}

func (w Warning) String() string { return w.Kind.String() + ": " + w.Message }

// Result is the clustering of the best restart.
type Result[T distance.Float] struct {
	// Assignments maps every entity id to its cluster in [0, k).
	Assignments []int32
	// Centroids holds one vector per cluster. It is nil for degenerate input.
	Centroids [][]T
	// Counts holds the number of entities per cluster. It is nil for
	// degenerate input.
	Counts []int
	// Distances holds each entity's Euclidean distance to its centroid.
	Distances       []float64
	AverageDistance float64
	// Distortion is the sum of the Euclidean distances of all entities to
	// their centroids, so it equals the sum of Distances.
	Distortion float64
	// Silhouette is nil unless WithSilhouette(true) was given.
	Silhouette        []float64
	AverageSilhouette float64
	Iterations        int
	Converged         bool
	Restarts          int
	BestRestart       int
	// SeedIDs are the entities that seeded the best restart. Empty when seed
	// centroids were supplied.
	SeedIDs  []int
	Warnings []Warning

	sampler   Sampler
	createdAt time.Time
}

func newResult[T distance.Float](r *kmeans.Result[T], warnings []Warning, s Sampler) *Result[T] {
	return &Result[T]{
		Assignments:       r.Assignments,
		Centroids:         r.Centroids,
		Counts:            r.Counts,
		Distances:         r.Distances,
		AverageDistance:   r.AverageDistance,
		Distortion:        r.Distortion,
		Silhouette:        r.Silhouette,
		AverageSilhouette: r.AverageSilhouette,
		Iterations:        r.Iterations,
		Converged:         r.Converged,
		Restarts:          r.Restarts,
		BestRestart:       r.BestRestart,
		SeedIDs:           r.SeedIDs,
		Warnings:          warnings,
		sampler:           s,
		createdAt:         time.Now().UTC(),
	}
}

// K returns the number of clusters, which for degenerate input equals the
// number of entities.
func (r *Result[T]) K() int {
	if r.Centroids == nil {
		return len(r.Assignments)
	}
	return len(r.Centroids)
}

// Members returns the ids of the entities assigned to cluster. The bitmap is
// freshly built and owned by the caller.
func (r *Result[T]) Members(cluster int) *roaring.Bitmap {
	bm := roaring.New()
	for id, c := range r.Assignments {
		if int(c) == cluster {
			bm.Add(uint32(id))
		}
	}
	return bm
}

// Model returns the trained centroids as a float64 model that can assign new
// vectors and be saved to a modelstore. It fails with model.ErrEmpty for
// degenerate input.
func (r *Result[T]) Model() (*model.Model, error) {
	centroids := make([][]float64, len(r.Centroids))
	for i, c := range r.Centroids {
		centroids[i] = vecmath.Convert[float64](c)
	}

	md := model.Metadata{
		Precision:       vectorsource.ValueTypeOf[T]().String(),
		Sampler:         r.sampler.String(),
		Entities:        len(r.Assignments),
		Iterations:      r.Iterations,
		Converged:       r.Converged,
		Restarts:        r.Restarts,
		BestRestart:     r.BestRestart,
		Distortion:      r.Distortion,
		AverageDistance: r.AverageDistance,
		CreatedAt:       r.createdAt,
	}
	if r.Silhouette != nil {
		avg := r.AverageSilhouette
		md.AverageSilhouette = &avg
	}
	return model.New(centroids, r.Counts, md)
}
