package modelstore

import (
	"context"
	"sync"
	"testing"

	"github.com/hupe1980/vecclust/codec"
	"github.com/hupe1980/vecclust/model"
	"github.com/hupe1980/vecclust/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newModel(t *testing.T, offset float64) *model.Model {
	t.Helper()
	m, err := model.New([][]float64{{offset, 0}, {offset + 10, 10}}, []int{3, 3}, model.Metadata{
		Sampler:  "kmeans++",
		Entities: 6,
	})
	require.NoError(t, err)
	return m
}

func TestRegistry_SaveLoad(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	reg := NewRegistry(store)

	_, _, err := reg.Load(ctx, "blobs")
	require.ErrorIs(t, err, ErrNotFound)

	v1, err := reg.Save(ctx, "blobs", newModel(t, 0))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v1)

	v2, err := reg.Save(ctx, "blobs", newModel(t, 100))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), v2)

	m, version, err := reg.Load(ctx, "blobs")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), version)
	assert.Equal(t, []float64{100, 0}, m.Centroid(0))
	assert.Equal(t, "kmeans++", m.Metadata.Sampler)

	old, err := reg.LoadVersion(ctx, "blobs", 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, old.Centroid(0))

	versions, err := reg.Versions(ctx, "blobs")
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2}, versions)

	_, err = reg.LoadVersion(ctx, "blobs", 3)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, reg.Delete(ctx, "blobs", 1))
	versions, err = reg.Versions(ctx, "blobs")
	require.NoError(t, err)
	assert.Equal(t, []uint64{2}, versions)
}

func TestRegistry_Options(t *testing.T) {
	ctx := context.Background()
	rc := resource.NewController(resource.Config{IOLimitBytesPerSec: 1 << 20})
	reg := NewRegistry(NewLocalStore(t.TempDir()), func(o *Options) {
		o.Compression = model.CompressionLZ4
		o.Codec = codec.JSON{}
		o.ResourceController = rc
	})

	_, err := reg.Save(ctx, "local", newModel(t, 1))
	require.NoError(t, err)
	m, _, err := reg.Load(ctx, "local")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 3}, m.Counts())
}

func TestRegistry_InvalidName(t *testing.T) {
	reg := NewRegistry(NewMemoryStore())
	for _, name := range []string{"", "../etc", "/abs"} {
		_, err := reg.Save(context.Background(), name, newModel(t, 0))
		assert.Error(t, err, name)
	}
}

func TestStorePointer_RejectsStaleVersion(t *testing.T) {
	ctx := context.Background()
	p := NewStorePointer(NewMemoryStore())

	require.NoError(t, p.Commit(ctx, "m", 1, Key("m", 1, "a")))
	require.ErrorIs(t, p.Commit(ctx, "m", 1, Key("m", 1, "b")), ErrConcurrentModification)

	v, key, err := p.Latest(ctx, "m")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v)
	assert.Equal(t, Key("m", 1, "a"), key)
}

func TestRegistry_ConcurrentSaves(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(NewMemoryStore())

	models := make([]*model.Model, 8)
	for i := range models {
		models[i] = newModel(t, float64(i))
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded []uint64
	)
	for _, m := range models {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := reg.Save(ctx, "shared", m)
			if err != nil {
				assert.ErrorIs(t, err, ErrConcurrentModification)
				return
			}
			mu.Lock()
			succeeded = append(succeeded, v)
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.NotEmpty(t, succeeded)
	latest, _, err := reg.Load(ctx, "shared")
	require.NoError(t, err)
	assert.NotNil(t, latest)

	// every committed version is distinct and loadable
	seen := map[uint64]bool{}
	for _, v := range succeeded {
		assert.False(t, seen[v])
		seen[v] = true
		_, err := reg.LoadVersion(ctx, "shared", v)
		require.NoError(t, err)
	}

	// losers cleaned up their blobs
	versions, err := reg.Versions(ctx, "shared")
	require.NoError(t, err)
	assert.Len(t, versions, len(succeeded))
}
