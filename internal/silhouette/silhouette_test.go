package silhouette

import (
	"context"
	"math"
	"testing"

	"github.com/hupe1980/vecclust/vectorsource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore_TwoSquares(t *testing.T) {
	src := vectorsource.NewDense([][]float64{{1, 1}, {1, 2}, {102, 100}, {100, 102}})
	res, err := Score[float64](context.Background(), src, []int32{0, 0, 1, 1}, []int{2, 2}, 2)
	require.NoError(t, err)

	assert.InDelta(t, 0.99292928571, res.Scores[0], 1e-4)
	assert.InDelta(t, 0.99289384777, res.Scores[1], 1e-4)
	assert.InDelta(t, 0.97995151331, res.Scores[2], 1e-4)
	assert.InDelta(t, 0.97995050342, res.Scores[3], 1e-4)

	mean := (res.Scores[0] + res.Scores[1] + res.Scores[2] + res.Scores[3]) / 4
	assert.InDelta(t, mean, res.Average, 1e-12)
}

func TestScore_SingletonIsZero(t *testing.T) {
	src := vectorsource.NewDense([][]float32{{0}, {1}, {10}})
	res, err := Score[float32](context.Background(), src, []int32{0, 0, 1}, []int{2, 1}, 1)
	require.NoError(t, err)

	assert.Zero(t, res.Scores[2])
	// a = 1 for both; b = 10 for entity 0 and 9 for entity 1
	assert.InDelta(t, 0.9, res.Scores[0], 1e-6)
	assert.InDelta(t, 8.0/9, res.Scores[1], 1e-6)
}

func TestScore_NoOtherClusterIsZero(t *testing.T) {
	src := vectorsource.NewDense([][]float64{{0}, {1}})
	res, err := Score[float64](context.Background(), src, []int32{0, 0}, []int{2, 0}, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, res.Scores)
}

func TestScore_DuplicatesAreZero(t *testing.T) {
	src := vectorsource.NewDense([][]float64{{3}, {3}, {3}, {3}})
	res, err := Score[float64](context.Background(), src, []int32{0, 0, 1, 1}, []int{2, 2}, 4)
	require.NoError(t, err)
	for _, s := range res.Scores {
		assert.False(t, math.IsNaN(s))
		assert.Zero(t, s)
	}
}

func TestScore_Empty(t *testing.T) {
	res, err := Score[float64](context.Background(), vectorsource.NewDense[float64](nil), nil, nil, 2)
	require.NoError(t, err)
	assert.Empty(t, res.Scores)
	assert.Zero(t, res.Average)
}

func TestScore_Cancelled(t *testing.T) {
	vectors := make([][]float64, 64)
	assignments := make([]int32, 64)
	for i := range vectors {
		vectors[i] = []float64{float64(i)}
		assignments[i] = int32(i % 2)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Score[float64](ctx, vectorsource.NewDense(vectors), assignments, []int{32, 32}, 2)
	assert.ErrorIs(t, err, context.Canceled)
}
