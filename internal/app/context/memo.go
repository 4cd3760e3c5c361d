package context

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Memo caches fetched values by key. Concurrent first reads of a key share
// one fetch; failed fetches are not cached so the next read retries.
type Memo struct {
	cache sync.Map
	group singleflight.Group
}

// GetOrFetch returns the cached value for key, or runs fetchFn and caches
// its result.
func (m *Memo) GetOrFetch(ctx context.Context, key string, fetchFn func(ctx context.Context) (any, error)) (any, error) {
	// Fast path: check cache
	if cached, ok := m.cache.Load(key); ok {
		return cached, nil
	}

	value, err, _ := m.group.Do(key, func() (any, error) {
		if cached, ok := m.cache.Load(key); ok {
			return cached, nil
		}

		v, err := fetchFn(ctx)
		if err != nil {
			return nil, err
		}

		m.cache.Store(key, v)
		return v, nil
	})

	return value, err
}

// getOrFetch is the typed form of Memo.GetOrFetch.
func getOrFetch[T any](ctx context.Context, m *Memo, key string, fetchFn func(ctx context.Context) (T, error)) (T, error) {
	value, err := m.GetOrFetch(ctx, key, func(ctx context.Context) (any, error) {
		return fetchFn(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}

	return value.(T), nil
}
