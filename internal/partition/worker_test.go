package partition

import (
	"context"
	"math"
	"testing"

	"github.com/hupe1980/vecclust/internal/centroids"
	"github.com/hupe1980/vecclust/vectorsource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoBlobs() *vectorsource.Dense[float64] {
	return vectorsource.NewDense([][]float64{
		{0, 0}, {0, 1}, {1, 0},
		{10, 10}, {10, 11}, {11, 10},
	})
}

func TestWorker_Assign(t *testing.T) {
	src := twoBlobs()
	tables := NewTables(src.Len())
	c := centroids.New[float64](2, 2)
	c.InitialAssign(0, []float64{0, 0})
	c.InitialAssign(1, []float64{10, 10})

	w := NewWorker[float64](src, tables, Range{Start: 0, End: 6}, 2, 2)
	require.NoError(t, w.Assign(c))

	assert.Equal(t, PhaseAssign, w.Phase())
	assert.Equal(t, []int32{0, 0, 0, 1, 1, 1}, tables.Assignments)
	assert.Equal(t, 6, w.Swaps())
	assert.Equal(t, []float64{1, 1}, w.PartialSum(0))
	assert.Equal(t, []float64{31, 31}, w.PartialSum(1))
	assert.Equal(t, 3, w.PartialCount(0))

	// unchanged centroids: no swaps and partials restart from zero
	require.NoError(t, w.Assign(c))
	assert.Zero(t, w.Swaps())
	assert.Equal(t, []float64{1, 1}, w.PartialSum(0))
}

func TestWorker_DisjointRanges(t *testing.T) {
	src := twoBlobs()
	tables := NewTables(src.Len())
	c := centroids.New[float64](2, 2)
	c.InitialAssign(0, []float64{0, 0})
	c.InitialAssign(1, []float64{10, 10})

	var workers []*Worker[float64]
	for _, r := range Ranges(src.Len(), 4) {
		w := NewWorker[float64](src, tables, r, 2, 2)
		require.NoError(t, w.Assign(c))
		workers = append(workers, w)
	}

	c.BeginRound()
	for _, w := range workers {
		w.MergeInto(c)
	}
	c.Normalize()

	assert.InDeltaSlice(t, []float64{1.0 / 3, 1.0 / 3}, c.Vector(0), 1e-12)
	assert.InDeltaSlice(t, []float64{31.0 / 3, 31.0 / 3}, c.Vector(1), 1e-12)
	assert.Equal(t, []int{3, 3}, c.Counts())
}

func TestWorker_SeedDistance(t *testing.T) {
	src := twoBlobs()
	tables := NewTables(src.Len())
	w := NewWorker[float64](src, tables, Range{Start: 0, End: 6}, 2, 2)

	require.NoError(t, w.SeedDistance(src.Vector(0), 0))
	assert.Equal(t, PhaseSeedDistance, w.Phase())
	assert.Zero(t, w.MinDistance(0))
	assert.Equal(t, 1.0, w.MinDistance(1))
	assert.Equal(t, 200.0, w.MinDistance(3))
	assert.Equal(t, 1+1+200+221+221.0, w.Weight())

	// the second seed only lowers minima and moves the far blob
	require.NoError(t, w.FinalizeSeeds(src.Vector(3), 1))
	assert.Equal(t, PhaseAssign, w.Phase())
	assert.Equal(t, []int32{0, 0, 0, 1, 1, 1}, tables.Assignments)
	assert.Equal(t, 6, w.Swaps())
	assert.Equal(t, []float64{31, 31}, w.PartialSum(1))
	assert.Equal(t, 3, w.PartialCount(1))
}

func TestWorker_SeedDistanceTiesKeepEarlierSeed(t *testing.T) {
	src := vectorsource.NewDense([][]float64{{-1}, {1}, {0}})
	tables := NewTables(3)
	w := NewWorker[float64](src, tables, Range{Start: 0, End: 3}, 2, 1)

	require.NoError(t, w.SeedDistance(src.Vector(0), 0))
	require.NoError(t, w.FinalizeSeeds(src.Vector(1), 1))
	assert.Equal(t, []int32{0, 1, 0}, tables.Assignments)
}

func TestWorker_FinalDistance(t *testing.T) {
	src := vectorsource.NewDense([][]float64{{1, 1}, {1, 2}, {102, 100}, {100, 102}})
	tables := NewTables(4)
	c := centroids.New[float64](2, 2)
	c.InitialAssign(0, []float64{1, 1.5})
	c.InitialAssign(1, []float64{101, 101})

	w := NewWorker[float64](src, tables, Range{Start: 0, End: 4}, 2, 2)
	require.NoError(t, w.Assign(c))
	require.NoError(t, w.FinalDistance(c))

	assert.InDeltaSlice(t, []float64{0.5, 0.5, math.Sqrt2, math.Sqrt2}, tables.Distances, 1e-9)
	assert.InDelta(t, 1+2*math.Sqrt2, w.Distortion(), 1e-9)
}

func TestWorker_IllegalPhase(t *testing.T) {
	src := twoBlobs()
	tables := NewTables(src.Len())
	c := centroids.New[float64](2, 2)
	w := NewWorker[float64](src, tables, Range{Start: 0, End: 6}, 2, 2)

	require.NoError(t, w.Assign(c))
	var te *TransitionError
	assert.ErrorAs(t, w.SeedDistance(src.Vector(0), 0), &te)
}

func TestNewTables(t *testing.T) {
	tables := NewTables(3)
	assert.Equal(t, []int32{Unassigned, Unassigned, Unassigned}, tables.Assignments)
	assert.Len(t, tables.Distances, 3)
}

func TestRun(t *testing.T) {
	src := twoBlobs()
	tables := NewTables(src.Len())
	c := centroids.New[float64](2, 2)
	c.InitialAssign(1, []float64{10, 10})

	var workers []*Worker[float64]
	for _, r := range Ranges(src.Len(), 3) {
		workers = append(workers, NewWorker[float64](src, tables, r, 2, 2))
	}

	err := Run(context.Background(), workers, 2, func(w *Worker[float64]) error {
		return w.Assign(c)
	})
	require.NoError(t, err)
	assert.Equal(t, []int32{0, 0, 0, 1, 1, 1}, tables.Assignments)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = Run(ctx, workers, 2, func(w *Worker[float64]) error { return w.Assign(c) })
	assert.ErrorIs(t, err, context.Canceled)
}
