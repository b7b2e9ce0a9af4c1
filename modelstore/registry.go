package modelstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/hupe1980/vecclust/codec"
	"github.com/hupe1980/vecclust/model"
	"github.com/hupe1980/vecclust/resource"
)

const modelExt = ".vclm"

// Options configures a Registry.
type Options struct {
	// Pointer tracks latest versions. Defaults to a StorePointer on the
	// registry's store.
	Pointer Pointer
	// Compression of newly saved models.
	Compression model.Compression
	// Codec of the metadata section; codec.Default if nil.
	Codec codec.Codec
	// ResourceController throttles model IO.
	ResourceController *resource.Controller
}

// Registry saves and loads versioned models.
type Registry struct {
	store Store
	opts  Options
}

// NewRegistry creates a registry on store.
func NewRegistry(store Store, optFns ...func(o *Options)) *Registry {
	opts := Options{Compression: model.CompressionZSTD}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Pointer == nil {
		opts.Pointer = NewStorePointer(store)
	}
	if opts.Codec == nil {
		opts.Codec = codec.Default
	}
	return &Registry{store: store, opts: opts}
}

// Key returns the blob key of one save attempt of a model version. The
// token keeps writers racing for the same version from overwriting each
// other's blobs.
func Key(name string, version uint64, token string) string {
	return fmt.Sprintf("%s/%020d-%s%s", name, version, token, modelExt)
}

// parseKey extracts the version from a blob key under name.
func parseKey(name, key string) (uint64, bool) {
	base, ok := strings.CutSuffix(strings.TrimPrefix(key, name+"/"), modelExt)
	if !ok || strings.Contains(base, "/") {
		return 0, false
	}
	v, _, ok := strings.Cut(base, "-")
	if !ok {
		return 0, false
	}
	version, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return version, true
}

func validName(name string) error {
	if name == "" || strings.Contains(name, "..") || strings.HasPrefix(name, "/") {
		return fmt.Errorf("modelstore: invalid model name %q", name)
	}
	return nil
}

// Save writes m as the next version of name and returns that version.
func (r *Registry) Save(ctx context.Context, name string, m *model.Model) (uint64, error) {
	if err := validName(name); err != nil {
		return 0, err
	}
	latest, _, err := r.opts.Pointer.Latest(ctx, name)
	if err != nil {
		return 0, err
	}
	version := latest + 1
	key := Key(name, version, uuid.NewString())

	var buf bytes.Buffer
	w := resource.NewRateLimitedWriter(ctx, &buf, r.opts.ResourceController)
	err = model.Encode(w, m, func(o *model.EncodeOptions) {
		o.Compression = r.opts.Compression
		o.Codec = r.opts.Codec
	})
	if err != nil {
		return 0, err
	}
	if err := r.store.Put(ctx, key, buf.Bytes()); err != nil {
		return 0, err
	}
	if err := r.opts.Pointer.Commit(ctx, name, version, key); err != nil {
		// the blob is unreachable without the pointer
		_ = r.store.Delete(ctx, key)
		return 0, err
	}
	return version, nil
}

// Load returns the latest version of name.
func (r *Registry) Load(ctx context.Context, name string) (*model.Model, uint64, error) {
	if err := validName(name); err != nil {
		return nil, 0, err
	}
	version, key, err := r.opts.Pointer.Latest(ctx, name)
	if err != nil {
		return nil, 0, err
	}
	if version == 0 {
		return nil, 0, fmt.Errorf("model %q: %w", name, ErrNotFound)
	}
	m, err := r.load(ctx, key)
	return m, version, err
}

// LoadVersion returns a specific version of name.
func (r *Registry) LoadVersion(ctx context.Context, name string, version uint64) (*model.Model, error) {
	key, err := r.versionKey(ctx, name, version)
	if err != nil {
		return nil, err
	}
	return r.load(ctx, key)
}

func (r *Registry) versionKey(ctx context.Context, name string, version uint64) (string, error) {
	if err := validName(name); err != nil {
		return "", err
	}
	keys, err := r.store.List(ctx, fmt.Sprintf("%s/%020d-", name, version))
	if err != nil {
		return "", err
	}
	for _, k := range keys {
		if v, ok := parseKey(name, k); ok && v == version {
			return k, nil
		}
	}
	return "", fmt.Errorf("model %q version %d: %w", name, version, ErrNotFound)
}

func (r *Registry) load(ctx context.Context, key string) (*model.Model, error) {
	data, err := r.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return model.Decode(resource.NewRateLimitedReader(ctx, bytes.NewReader(data), r.opts.ResourceController))
}

// Versions lists the stored versions of name in ascending order.
func (r *Registry) Versions(ctx context.Context, name string) ([]uint64, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	keys, err := r.store.List(ctx, name+"/")
	if err != nil {
		return nil, err
	}
	var versions []uint64
	for _, k := range keys {
		if v, ok := parseKey(name, k); ok {
			versions = append(versions, v)
		}
	}
	return versions, nil
}

// Delete removes one version. The latest pointer is left untouched, so
// deleting the latest version makes Load fail until the next Save.
func (r *Registry) Delete(ctx context.Context, name string, version uint64) error {
	if version == 0 {
		return errors.New("modelstore: version must be positive")
	}
	key, err := r.versionKey(ctx, name, version)
	if err != nil {
		return err
	}
	return r.store.Delete(ctx, key)
}
