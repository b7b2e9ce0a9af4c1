package model

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"slices"
	"time"

	"github.com/hupe1980/vecclust/distance"
	"github.com/hupe1980/vecclust/internal/partition"
	"github.com/hupe1980/vecclust/internal/vecmath"
	"github.com/hupe1980/vecclust/vectorsource"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrEmpty is returned when a model without centroids is built.
	ErrEmpty = errors.New("model has no centroids")
	// ErrDimensionMismatch is returned for vectors whose length differs from
	// the model dimension.
	ErrDimensionMismatch = errors.New("dimension mismatch")
)

// Metadata describes the run that produced a model.
type Metadata struct {
	Precision         string    `json:"precision"`
	Sampler           string    `json:"sampler"`
	Entities          int       `json:"entities"`
	Iterations        int       `json:"iterations"`
	Converged         bool      `json:"converged"`
	Restarts          int       `json:"restarts"`
	BestRestart       int       `json:"best_restart"`
	Distortion        float64   `json:"distortion"`
	AverageDistance   float64   `json:"average_distance"`
	AverageSilhouette *float64  `json:"average_silhouette,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// Model is a trained set of centroids. It is safe for concurrent reads.
type Model struct {
	Metadata Metadata

	k, dim    int
	centroids []float64 // flat k*dim
	counts    []int
}

// New builds a model from k centroids of equal dimension and their counts.
func New(centroids [][]float64, counts []int, md Metadata) (*Model, error) {
	if len(centroids) == 0 {
		return nil, ErrEmpty
	}
	if len(counts) != len(centroids) {
		return nil, fmt.Errorf("model: %d counts for %d centroids", len(counts), len(centroids))
	}
	dim := len(centroids[0])
	m := &Model{
		Metadata:  md,
		k:         len(centroids),
		dim:       dim,
		centroids: make([]float64, 0, len(centroids)*dim),
		counts:    slices.Clone(counts),
	}
	for i, c := range centroids {
		if len(c) != dim {
			return nil, fmt.Errorf("%w: centroid %d has %d, expected %d", ErrDimensionMismatch, i, len(c), dim)
		}
		m.centroids = append(m.centroids, c...)
	}
	return m, nil
}

// K returns the number of centroids.
func (m *Model) K() int { return m.k }

// Dimension returns the centroid dimension.
func (m *Model) Dimension() int { return m.dim }

// Centroid returns centroid i. The slice must not be modified.
func (m *Model) Centroid(i int) []float64 {
	off := i * m.dim
	return m.centroids[off : off+m.dim : off+m.dim]
}

// Centroids returns a copy of all centroids.
func (m *Model) Centroids() [][]float64 {
	out := make([][]float64, m.k)
	for i := range out {
		out[i] = slices.Clone(m.Centroid(i))
	}
	return out
}

// Count returns the number of training entities in cluster i.
func (m *Model) Count(i int) int { return m.counts[i] }

// Counts returns a copy of all member counts.
func (m *Model) Counts() []int { return slices.Clone(m.counts) }

func (m *Model) check(vec []float64) error {
	if len(vec) != m.dim {
		return fmt.Errorf("%w: expected %d, got %d", ErrDimensionMismatch, m.dim, len(vec))
	}
	return nil
}

func (m *Model) nearest(vec []float64) (int, float64) {
	best, bestDist := -1, math.Inf(1)
	for i := 0; i < m.k; i++ {
		if d := vecmath.SquaredL2(vec, m.Centroid(i)); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, bestDist
}

// Assign returns the cluster closest to vec. Ties go to the lowest index.
func (m *Model) Assign(vec []float64) (int, error) {
	if err := m.check(vec); err != nil {
		return -1, err
	}
	c, _ := m.nearest(vec)
	return c, nil
}

// Neighbor is a centroid ranked by distance.
type Neighbor struct {
	Cluster  int
	Distance float64
}

// Nearest returns the n closest centroids to vec ordered by Euclidean
// distance. n is clamped to K.
func (m *Model) Nearest(vec []float64, n int) ([]Neighbor, error) {
	if err := m.check(vec); err != nil {
		return nil, err
	}
	n = min(n, m.k)
	if n <= 0 {
		return nil, nil
	}

	dists := make([]Neighbor, m.k)
	for i := range dists {
		dists[i] = Neighbor{Cluster: i, Distance: distance.L2(vec, m.Centroid(i))}
	}
	slices.SortStableFunc(dists, func(a, b Neighbor) int {
		switch {
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		default:
			return 0
		}
	})
	return dists[:n], nil
}

// AssignAll assigns every vector of src in parallel. concurrency <= 0 uses
// GOMAXPROCS.
func AssignAll[T distance.Float](ctx context.Context, m *Model, src vectorsource.Source[T], concurrency int) ([]int32, error) {
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	n := src.Len()
	out := make([]int32, n)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, r := range partition.Ranges(n, concurrency) {
		g.Go(func() error {
			buf := make([]float64, m.dim)
			for id := r.Start; id < r.End; id++ {
				if (id-r.Start)%1024 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				vec := src.Vector(id)
				if len(vec) != m.dim {
					return fmt.Errorf("%w: entity %d has %d, expected %d", ErrDimensionMismatch, id, len(vec), m.dim)
				}
				for i, v := range vec {
					buf[i] = float64(v)
				}
				c, _ := m.nearest(buf)
				out[id] = int32(c)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
