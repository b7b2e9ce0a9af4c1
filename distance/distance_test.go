package distance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSquaredL2(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float32
	}{
		{"Simple", []float32{1, 2, 3}, []float32{4, 5, 6}, 27},
		{"Zero", []float32{0, 0, 0}, []float32{0, 0, 0}, 0},
		{"Identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 0},
		{"Mixed", []float32{1, -1}, []float32{-1, 1}, 8},
		{"Empty", []float32{}, []float32{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, SquaredL2(tt.a, tt.b), 1e-5)
		})
	}
}

func TestL2(t *testing.T) {
	assert.InDelta(t, math.Sqrt(2), L2([]float64{1, 1}, []float64{2, 2}), 1e-12)
	assert.InDelta(t, float32(5), L2([]float32{0, 0}, []float32{3, 4}), 1e-6)
}

func TestProvider(t *testing.T) {
	fn, err := Provider[float64](MetricL2)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, fn([]float64{0, 0}, []float64{3, 4}), 1e-12)

	_, err = Provider[float64](Metric(999))
	assert.Error(t, err)
	assert.Equal(t, "Unknown(999)", Metric(999).String())
	assert.Equal(t, "L2", MetricL2.String())
}
