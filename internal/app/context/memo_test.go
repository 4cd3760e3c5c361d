package context

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrFetch_CachesValue(t *testing.T) {
	var m Memo
	var calls int32

	fetchFn := func(_ context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		return "cached-value", nil
	}

	val1, err := m.GetOrFetch(context.Background(), "key", fetchFn)
	require.NoError(t, err)
	val2, err := m.GetOrFetch(context.Background(), "key", fetchFn)
	require.NoError(t, err)

	assert.Equal(t, "cached-value", val1)
	assert.Equal(t, val1, val2)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGetOrFetch_ErrorNotCached(t *testing.T) {
	var m Memo
	var calls int32
	fetchErr := errors.New("fetch failed")

	fetchFn := func(_ context.Context) (any, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return nil, fetchErr
		}
		return "second", nil
	}

	val, err := m.GetOrFetch(context.Background(), "key", fetchFn)
	assert.Nil(t, val)
	require.ErrorIs(t, err, fetchErr)

	val, err = m.GetOrFetch(context.Background(), "key", fetchFn)
	require.NoError(t, err)
	assert.Equal(t, "second", val)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGetOrFetch_DifferentKeys(t *testing.T) {
	var m Memo

	a, err := m.GetOrFetch(context.Background(), "a", func(context.Context) (any, error) { return 1, nil })
	require.NoError(t, err)
	b, err := m.GetOrFetch(context.Background(), "b", func(context.Context) (any, error) { return 2, nil })
	require.NoError(t, err)

	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)
}

func TestGetOrFetch_ConcurrentCallersShareOneFetch(t *testing.T) {
	var m Memo
	var calls int32
	release := make(chan struct{})

	fetchFn := func(_ context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "shared", nil
	}

	const goroutines = 20

	var (
		wg      sync.WaitGroup
		started sync.WaitGroup
		results = make([]any, goroutines)
	)

	started.Add(goroutines)
	for i := range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			started.Done()
			results[i], _ = m.GetOrFetch(context.Background(), "key", fetchFn)
		}()
	}

	started.Wait()
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, r := range results {
		assert.Equal(t, "shared", r)
	}
}

func TestGetOrFetchTyped(t *testing.T) {
	var m Memo

	val, err := getOrFetch(context.Background(), &m, "n", func(context.Context) (int, error) { return 42, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, val)

	val, err = getOrFetch(context.Background(), &m, "e", func(context.Context) (int, error) {
		return 7, errors.New("boom")
	})
	require.Error(t, err)
	assert.Zero(t, val)
}
