package centroids

import (
	"errors"
	"fmt"

	"github.com/hupe1980/vecclust/distance"
	"github.com/hupe1980/vecclust/internal/vecmath"
)

// ErrSeedCount is returned by AssignSeeded when the number of seed vectors differs from k.
var ErrSeedCount = errors.New("incorrect number of seed centroids")

// DimensionMismatchError reports a vector whose length differs from the centroid dimension.
type DimensionMismatchError struct {
	Index    int
	Expected int
	Actual   int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("seed centroid %d: dimension mismatch: expected %d, got %d", e.Index, e.Expected, e.Actual)
}

// Centroids owns k centroid vectors of dimension d and the per-cluster member counts.
// It is not safe for concurrent mutation; concurrent Nearest and DistanceTo calls are fine.
type Centroids[T distance.Float] struct {
	k, dim  int
	vectors []T // k*dim
	counts  []int
	pending []bool
	rounds  int
}

// New allocates k zero centroids of dimension dim.
func New[T distance.Float](k, dim int) *Centroids[T] {
	return &Centroids[T]{
		k:       k,
		dim:     dim,
		vectors: make([]T, k*dim),
		counts:  make([]int, k),
		pending: make([]bool, k),
	}
}

// K returns the number of clusters.
func (c *Centroids[T]) K() int { return c.k }

// Dimension returns the vector dimension.
func (c *Centroids[T]) Dimension() int { return c.dim }

// Vector returns the live centroid vector of cluster i.
func (c *Centroids[T]) Vector(i int) []T {
	off := i * c.dim
	return c.vectors[off : off+c.dim : off+c.dim]
}

// Count returns the member count of cluster i as of the last Normalize.
func (c *Centroids[T]) Count(i int) int { return c.counts[i] }

// Counts returns a copy of all member counts.
func (c *Centroids[T]) Counts() []int {
	out := make([]int, c.k)
	copy(out, c.counts)
	return out
}

// Rounds returns the number of completed Normalize calls.
func (c *Centroids[T]) Rounds() int { return c.rounds }

// InitialAssign copies vec into cluster i, bypassing Accumulate/Normalize.
func (c *Centroids[T]) InitialAssign(i int, vec []T) {
	copy(c.Vector(i), vec)
}

// AssignSeeded copies exactly k externally supplied vectors.
func (c *Centroids[T]) AssignSeeded(vectors [][]T) error {
	if len(vectors) != c.k {
		return fmt.Errorf("%w: got %d, expected %d", ErrSeedCount, len(vectors), c.k)
	}
	for i, vec := range vectors {
		if len(vec) != c.dim {
			return &DimensionMismatchError{Index: i, Expected: c.dim, Actual: len(vec)}
		}
	}
	for i, vec := range vectors {
		c.InitialAssign(i, vec)
	}
	return nil
}

// BeginRound marks every centroid for a lazy reset and zeroes the counts.
func (c *Centroids[T]) BeginRound() {
	for i := range c.pending {
		c.pending[i] = true
	}
	clear(c.counts)
}

// Accumulate adds a partial sum of count member vectors to cluster i.
// Contributions with count == 0 are ignored.
func (c *Centroids[T]) Accumulate(i int, sum []T, count int) {
	if count == 0 {
		return
	}
	vec := c.Vector(i)
	if c.pending[i] {
		vecmath.Zero(vec)
		c.pending[i] = false
	}
	vecmath.AddInPlace(vec, sum)
	c.counts[i] += count
}

// Normalize turns accumulated sums into means. Clusters without members keep
// their previous vector.
func (c *Centroids[T]) Normalize() {
	c.rounds++
	for i := 0; i < c.k; i++ {
		c.pending[i] = false
		if c.counts[i] == 0 {
			continue
		}
		vecmath.ScaleInPlace(c.Vector(i), 1/T(c.counts[i]))
	}
}

// Nearest returns the cluster closest to vec. Ties go to the lowest index.
func (c *Centroids[T]) Nearest(vec []T) int {
	best := 0
	bestDist := vecmath.SquaredL2(vec, c.Vector(0))
	for i := 1; i < c.k; i++ {
		if d := vecmath.SquaredL2(vec, c.Vector(i)); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// DistanceTo returns the Euclidean distance between vec and cluster i.
func (c *Centroids[T]) DistanceTo(vec []T, i int) T {
	return distance.L2(vec, c.Vector(i))
}

// Snapshot returns a deep copy of the centroid vectors.
func (c *Centroids[T]) Snapshot() [][]T {
	out := make([][]T, c.k)
	for i := range out {
		out[i] = append([]T(nil), c.Vector(i)...)
	}
	return out
}
