package modelstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Pointer tracks the latest version of every model name.
type Pointer interface {
	// Latest returns the latest committed version and blob key of name.
	// Version 0 means nothing was committed yet.
	Latest(ctx context.Context, name string) (uint64, string, error)
	// Commit records key as version of name. It fails with
	// ErrConcurrentModification if version was already committed.
	Commit(ctx context.Context, name string, version uint64, key string) error
}

// StorePointer keeps the pointer as a "<name>/LATEST" blob holding
// "<version> <key>". A process-local lock serializes commits; writers in
// different processes can race.
type StorePointer struct {
	store Store
	mu    sync.Mutex
}

// NewStorePointer creates a pointer backed by store.
func NewStorePointer(store Store) *StorePointer {
	return &StorePointer{store: store}
}

func latestName(name string) string { return name + "/LATEST" }

// Latest implements Pointer.
func (p *StorePointer) Latest(ctx context.Context, name string) (uint64, string, error) {
	data, err := p.store.Get(ctx, latestName(name))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, "", nil
		}
		return 0, "", err
	}
	v, key, ok := strings.Cut(strings.TrimSpace(string(data)), " ")
	if !ok {
		return 0, "", fmt.Errorf("modelstore: malformed pointer %q", data)
	}
	version, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("modelstore: malformed pointer version: %w", err)
	}
	return version, key, nil
}

// Commit implements Pointer.
func (p *StorePointer) Commit(ctx context.Context, name string, version uint64, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	current, _, err := p.Latest(ctx, name)
	if err != nil {
		return err
	}
	if version <= current {
		return ErrConcurrentModification
	}
	return p.store.Put(ctx, latestName(name), []byte(fmt.Sprintf("%d %s", version, key)))
}
