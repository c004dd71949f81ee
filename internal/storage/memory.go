package storage

import (
	"context"
	"sync"

	"github.com/patrickmn/go-cache"
)

// MemoryRepository keeps values in process memory. Entries never expire.
type MemoryRepository struct {
	mu     sync.RWMutex
	cache  *cache.Cache
	closed bool
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{cache: cache.New(cache.NoExpiration, 0)}
}

func (r *MemoryRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return nil, false, ErrClosed
	}
	v, found := r.cache.Get(key)
	if !found {
		return nil, false, nil
	}
	b := v.([]byte)
	return append([]byte(nil), b...), true, nil
}

func (r *MemoryRepository) Set(ctx context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	r.cache.Set(key, append([]byte(nil), value...), cache.NoExpiration)
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	r.cache.Delete(key)
	return nil
}

func (r *MemoryRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.cache.Flush()
	return nil
}
