package model

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/hupe1980/vecclust/codec"
	"github.com/hupe1980/vecclust/testutil"
	"github.com/hupe1980/vecclust/vectorsource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoCenters(t *testing.T) *Model {
	t.Helper()
	m, err := New([][]float64{{1, 1.5}, {101, 101}}, []int{2, 2}, Metadata{
		Precision:  "float64",
		Sampler:    "uniform",
		Entities:   4,
		Iterations: 3,
		Converged:  true,
		Restarts:   1,
		Distortion: 1 + 2*1.4142135623730951,
		CreatedAt:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return m
}

func TestNew(t *testing.T) {
	_, err := New(nil, nil, Metadata{})
	require.ErrorIs(t, err, ErrEmpty)

	_, err = New([][]float64{{1, 2}, {3}}, []int{1, 1}, Metadata{})
	require.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = New([][]float64{{1, 2}}, []int{1, 1}, Metadata{})
	require.Error(t, err)

	m := twoCenters(t)
	assert.Equal(t, 2, m.K())
	assert.Equal(t, 2, m.Dimension())
	assert.Equal(t, []float64{101, 101}, m.Centroid(1))
	assert.Equal(t, []int{2, 2}, m.Counts())

	// copies do not alias the model
	cs := m.Centroids()
	cs[0][0] = 42
	assert.Equal(t, 1.0, m.Centroid(0)[0])
}

func TestAssign(t *testing.T) {
	m := twoCenters(t)

	c, err := m.Assign([]float64{0, 0})
	require.NoError(t, err)
	assert.Equal(t, 0, c)

	c, err = m.Assign([]float64{90, 95})
	require.NoError(t, err)
	assert.Equal(t, 1, c)

	_, err = m.Assign([]float64{1})
	require.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestAssign_TieGoesToLowestIndex(t *testing.T) {
	m, err := New([][]float64{{0}, {2}}, []int{1, 1}, Metadata{})
	require.NoError(t, err)
	c, err := m.Assign([]float64{1})
	require.NoError(t, err)
	assert.Equal(t, 0, c)
}

func TestNearest(t *testing.T) {
	m, err := New([][]float64{{0, 0}, {10, 0}, {3, 4}}, []int{1, 1, 1}, Metadata{})
	require.NoError(t, err)

	nn, err := m.Nearest([]float64{0, 0}, 5)
	require.NoError(t, err)
	require.Len(t, nn, 3)
	assert.Equal(t, []Neighbor{{0, 0}, {2, 5}, {1, 10}}, nn)

	nn, err = m.Nearest([]float64{0, 0}, 1)
	require.NoError(t, err)
	assert.Equal(t, []Neighbor{{0, 0}}, nn)

	nn, err = m.Nearest([]float64{0, 0}, 0)
	require.NoError(t, err)
	assert.Empty(t, nn)
}

func TestAssignAll(t *testing.T) {
	m := twoCenters(t)
	src := vectorsource.NewDense([][]float32{{1, 1}, {100, 102}, {1, 2}, {102, 100}})

	got, err := AssignAll(context.Background(), m, src, 2)
	require.NoError(t, err)
	assert.Equal(t, []int32{0, 1, 0, 1}, got)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = AssignAll(ctx, m, src, 2)
	require.ErrorIs(t, err, context.Canceled)

	_, err = AssignAll(context.Background(), m, vectorsource.NewDense([][]float32{{1}}), 1)
	require.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestMarshal_RoundTrip(t *testing.T) {
	rng := testutil.NewRNG(1)
	vecs := rng.UniformVectors(64, 32)
	centroids := make([][]float64, len(vecs))
	counts := make([]int, len(vecs))
	for i, v := range vecs {
		centroids[i] = make([]float64, len(v))
		for j, x := range v {
			centroids[i][j] = float64(x)
		}
		counts[i] = i * 3
	}
	avg := 0.42
	m, err := New(centroids, counts, Metadata{Sampler: "kmeans++", AverageSilhouette: &avg, CreatedAt: time.Unix(1700000000, 0).UTC()})
	require.NoError(t, err)

	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		for _, cd := range []codec.Codec{codec.JSON{}, codec.GoJSON{}} {
			t.Run(c.String()+"/"+cd.Name(), func(t *testing.T) {
				data, err := Marshal(m, func(o *EncodeOptions) {
					o.Compression = c
					o.Codec = cd
				})
				require.NoError(t, err)

				got, err := Unmarshal(data)
				require.NoError(t, err)
				assert.Equal(t, m.Centroids(), got.Centroids())
				assert.Equal(t, m.Counts(), got.Counts())
				assert.Equal(t, m.Metadata, got.Metadata)
			})
		}
	}
}

func TestMarshal_CompressesRepetitiveData(t *testing.T) {
	centroids := make([][]float64, 32)
	for i := range centroids {
		centroids[i] = make([]float64, 64)
	}
	m, err := New(centroids, make([]int, 32), Metadata{})
	require.NoError(t, err)

	plain, err := Marshal(m)
	require.NoError(t, err)
	for _, c := range []Compression{CompressionLZ4, CompressionZSTD} {
		packed, err := Marshal(m, func(o *EncodeOptions) { o.Compression = c })
		require.NoError(t, err)
		assert.Less(t, len(packed), len(plain)/4, c.String())
	}
}

func TestUnmarshal_Corruption(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, twoCenters(t), func(o *EncodeOptions) { o.Compression = CompressionZSTD }))
	data := buf.Bytes()

	got, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 2, got.K())

	_, err = Unmarshal([]byte("nope"))
	require.ErrorIs(t, err, ErrInvalidFormat)

	flipped := bytes.Clone(data)
	flipped[len(flipped)/2] ^= 0xff
	_, err = Unmarshal(flipped)
	require.ErrorIs(t, err, ErrChecksum)

	_, err = Unmarshal(data[:len(data)-1])
	require.Error(t, err)
}

func TestParseCompression(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		got, err := ParseCompression(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	_, err := ParseCompression("brotli")
	require.Error(t, err)
}
