package vecmath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSquaredL2(t *testing.T) {
	assert.InDelta(t, 27.0, SquaredL2([]float64{1, 2, 3}, []float64{4, 5, 6}), 1e-12)
	assert.InDelta(t, float32(8), SquaredL2([]float32{1, -1}, []float32{-1, 1}), 1e-6)
	assert.Zero(t, SquaredL2([]float32{}, []float32{}))
}

func TestDot(t *testing.T) {
	assert.InDelta(t, float32(32), Dot([]float32{1, 2, 3}, []float32{4, 5, 6}), 1e-6)
}

func TestAddScale(t *testing.T) {
	a := []float64{1, 2}
	AddInPlace(a, []float64{3, 4})
	assert.Equal(t, []float64{4, 6}, a)

	ScaleInPlace(a, 0.5)
	assert.Equal(t, []float64{2, 3}, a)

	Zero(a)
	assert.Equal(t, []float64{0, 0}, a)
}

func TestHasNaN(t *testing.T) {
	assert.False(t, HasNaN([]float64{1, 2}))
	assert.True(t, HasNaN([]float64{1, math.NaN()}))
	assert.True(t, HasNaN([]float32{float32(math.NaN())}))
}

func TestConvert(t *testing.T) {
	got := Convert[float64]([]float32{1.5, 2})
	assert.Equal(t, []float64{1.5, 2}, got)
}
