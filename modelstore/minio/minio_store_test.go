package minio

import (
	"context"
	"testing"

	"github.com/hupe1980/vecclust/model"
	"github.com/hupe1980/vecclust/modelstore"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore requires a running MinIO instance and skips otherwise.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	client, err := minio.New("localhost:9000", &minio.Options{
		Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
		Secure: false,
	})
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx := context.Background()
	if _, err := client.ListBuckets(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	const bucket = "test-vecclust"
	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	return NewStore(client, bucket, "test-prefix/"+t.Name()+"/")
}

func TestMinioStore_Integration(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	data := []byte("hello minio world")
	require.NoError(t, store.Put(ctx, "a/test.bin", data))

	got, err := store.Get(ctx, "a/test.bin")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	names, err := store.List(ctx, "a/")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/test.bin"}, names)

	require.NoError(t, store.Delete(ctx, "a/test.bin"))
	require.NoError(t, store.Delete(ctx, "a/test.bin"))

	_, err = store.Get(ctx, "a/test.bin")
	require.ErrorIs(t, err, modelstore.ErrNotFound)
}

func TestMinioStore_Registry(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	m, err := model.New([][]float64{{0, 0}, {10, 10}}, []int{3, 4}, model.Metadata{Precision: "float64"})
	require.NoError(t, err)

	reg := modelstore.NewRegistry(store)
	v, err := reg.Save(ctx, "minio-model", m)
	require.NoError(t, err)

	loaded, version, err := reg.Load(ctx, "minio-model")
	require.NoError(t, err)
	assert.Equal(t, v, version)
	assert.Equal(t, m.Centroids(), loaded.Centroids())
	assert.Equal(t, m.Counts(), loaded.Counts())

	require.NoError(t, reg.Delete(ctx, "minio-model", v))
}
