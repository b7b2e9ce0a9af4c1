package partition

import (
	"math"

	"github.com/hupe1980/vecclust/distance"
	"github.com/hupe1980/vecclust/internal/centroids"
	"github.com/hupe1980/vecclust/internal/vecmath"
	"github.com/hupe1980/vecclust/vectorsource"
)

// Unassigned marks an entity that has not been assigned to a cluster yet.
const Unassigned int32 = -1

// Tables are the shared per-entity outputs written by workers over disjoint ranges.
type Tables struct {
	Assignments []int32
	Distances   []float64
}

// NewTables allocates tables for n entities with every assignment Unassigned.
func NewTables(n int) *Tables {
	t := &Tables{
		Assignments: make([]int32, n),
		Distances:   make([]float64, n),
	}
	for i := range t.Assignments {
		t.Assignments[i] = Unassigned
	}
	return t
}

// Worker processes one id range. A Worker is used by one goroutine at a time.
type Worker[T distance.Float] struct {
	src        vectorsource.Source[T]
	tables     *Tables
	start, end int
	k, dim     int

	phase Phase

	sums   []T
	counts []int
	swaps  int

	minDist []float64
	weight  float64

	distortion float64
}

// NewWorker creates an idle worker for [r.Start, r.End).
func NewWorker[T distance.Float](src vectorsource.Source[T], tables *Tables, r Range, k, dim int) *Worker[T] {
	return &Worker[T]{
		src:    src,
		tables: tables,
		start:  r.Start,
		end:    r.End,
		k:      k,
		dim:    dim,
		sums:   make([]T, k*dim),
		counts: make([]int, k),
	}
}

func (w *Worker[T]) enter(to Phase) error {
	next, err := Transition(w.phase, to)
	if err != nil {
		return err
	}
	w.phase = next
	return nil
}

func (w *Worker[T]) resetPartials() {
	vecmath.Zero(w.sums)
	clear(w.counts)
	w.swaps = 0
}

func (w *Worker[T]) record(id int, vec []T, cluster int) {
	if w.tables.Assignments[id] != int32(cluster) {
		w.swaps++
		w.tables.Assignments[id] = int32(cluster)
	}
	off := cluster * w.dim
	vecmath.AddInPlace(w.sums[off:off+w.dim], vec)
	w.counts[cluster]++
}

// Assign assigns every entity in range to its nearest centroid and
// accumulates the private per-cluster sums. Partials restart from zero.
func (w *Worker[T]) Assign(c *centroids.Centroids[T]) error {
	if err := w.enter(PhaseAssign); err != nil {
		return err
	}
	w.resetPartials()
	for id := w.start; id < w.end; id++ {
		vec := w.src.Vector(id)
		w.record(id, vec, c.Nearest(vec))
	}
	return nil
}

// SeedDistance folds the seed with index seedIndex into the running minimum
// squared distance of every entity in range. Entities that moved closer are
// tentatively assigned to seedIndex. Weight returns the new range total.
func (w *Worker[T]) SeedDistance(seed []T, seedIndex int) error {
	if err := w.enter(PhaseSeedDistance); err != nil {
		return err
	}
	if w.minDist == nil {
		w.minDist = make([]float64, w.end-w.start)
		for i := range w.minDist {
			w.minDist[i] = math.Inf(1)
		}
	}

	w.weight = 0
	for id := w.start; id < w.end; id++ {
		i := id - w.start
		d := float64(vecmath.SquaredL2(w.src.Vector(id), seed))
		if d < w.minDist[i] {
			w.minDist[i] = d
			w.tables.Assignments[id] = int32(seedIndex)
		}
		w.weight += w.minDist[i]
	}
	return nil
}

// FinalizeSeeds folds in the last seed, fixing every entity's membership to
// its nearest seed (ties to the lower seed index), and accumulates the
// per-cluster sums of that assignment. Every entity of the range counts as a
// swap since none was assigned before seeding.
func (w *Worker[T]) FinalizeSeeds(lastSeed []T, seedIndex int) error {
	if err := w.SeedDistance(lastSeed, seedIndex); err != nil {
		return err
	}
	if err := w.enter(PhaseAssign); err != nil {
		return err
	}
	w.resetPartials()
	for id := w.start; id < w.end; id++ {
		cluster := w.tables.Assignments[id]
		off := int(cluster) * w.dim
		vecmath.AddInPlace(w.sums[off:off+w.dim], w.src.Vector(id))
		w.counts[cluster]++
	}
	w.swaps = w.end - w.start
	w.minDist = nil
	return nil
}

// FinalDistance records each entity's Euclidean distance to its assigned
// centroid and accumulates the range distortion.
func (w *Worker[T]) FinalDistance(c *centroids.Centroids[T]) error {
	if err := w.enter(PhaseFinalDistance); err != nil {
		return err
	}
	w.distortion = 0
	for id := w.start; id < w.end; id++ {
		d := float64(c.DistanceTo(w.src.Vector(id), int(w.tables.Assignments[id])))
		w.tables.Distances[id] = d
		w.distortion += d
	}
	return nil
}

// Phase returns the current phase.
func (w *Worker[T]) Phase() Phase { return w.phase }

// Range returns the id range of the worker.
func (w *Worker[T]) Range() Range { return Range{Start: w.start, End: w.end} }

// Swaps returns the number of assignment changes in the last Assign or FinalizeSeeds.
func (w *Worker[T]) Swaps() int { return w.swaps }

// PartialSum returns the private sum of cluster i.
func (w *Worker[T]) PartialSum(i int) []T {
	off := i * w.dim
	return w.sums[off : off+w.dim : off+w.dim]
}

// PartialCount returns the private member count of cluster i.
func (w *Worker[T]) PartialCount(i int) int { return w.counts[i] }

// Weight returns the sum of running minimum squared distances of the range.
func (w *Worker[T]) Weight() float64 { return w.weight }

// MinDistance returns the running minimum squared distance of entity id,
// valid only in PhaseSeedDistance.
func (w *Worker[T]) MinDistance(id int) float64 { return w.minDist[id-w.start] }

// Distortion returns the summed distance computed by FinalDistance.
func (w *Worker[T]) Distortion() float64 { return w.distortion }

// MergeInto adds the worker's partial sums to c. Callers bracket merges with
// c.BeginRound and c.Normalize.
func (w *Worker[T]) MergeInto(c *centroids.Centroids[T]) {
	for i := 0; i < w.k; i++ {
		c.Accumulate(i, w.PartialSum(i), w.counts[i])
	}
}
