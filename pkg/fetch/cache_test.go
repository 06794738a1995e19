package fetch

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angryss/idp-config/pkg/schema"
)

type countingFetcher struct {
	mu      sync.Mutex
	calls   int
	block   chan struct{}
	started chan struct{}
	result  *schema.Schema
	err     error
}

func (f *countingFetcher) Fetch(ctx context.Context, key schema.FetchKey) (*schema.Schema, error) {
	f.mu.Lock()
	f.calls++
	block := f.block
	started := f.started
	f.mu.Unlock()
	if started != nil {
		started <- struct{}{}
	}
	if block != nil {
		<-block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *countingFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testKey() schema.FetchKey {
	return schema.FetchKey{
		ResourceTypeID:  uuid.MustParse("11111111-1111-1111-1111-111111111111"),
		CloudProviderID: uuid.MustParse("22222222-2222-2222-2222-222222222222"),
		Context:         schema.ContextBlueprint,
	}
}

func Test_Cache_IdempotentUntilCleared(t *testing.T) {
	fetcher := &countingFetcher{result: &schema.Schema{ResourceTypeName: "Managed Container Orchestrator"}}
	cache := NewCache(fetcher)

	first, err := cache.Schema(context.Background(), testKey())
	require.NoError(t, err)
	second, err := cache.Schema(context.Background(), testKey())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, fetcher.callCount())

	cache.ClearCache()
	assert.Equal(t, 0, cache.Len())

	_, err = cache.Schema(context.Background(), testKey())
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.callCount())
}

func Test_Cache_DistinctKeysFetchIndependently(t *testing.T) {
	fetcher := &countingFetcher{result: &schema.Schema{}}
	cache := NewCache(fetcher)

	_, err := cache.Schema(context.Background(), testKey())
	require.NoError(t, err)

	other := testKey()
	other.Context = schema.ContextStack
	_, err = cache.Schema(context.Background(), other)
	require.NoError(t, err)

	assert.Equal(t, 2, fetcher.callCount())
}

func Test_Cache_CoalescesConcurrentFetches(t *testing.T) {
	fetcher := &countingFetcher{
		result: &schema.Schema{},
		block:  make(chan struct{}),
	}
	cache := NewCache(fetcher)

	var wg sync.WaitGroup
	results := make([]*schema.Schema, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := cache.Schema(context.Background(), testKey())
			assert.NoError(t, err)
			results[i] = result
		}(i)
	}

	close(fetcher.block)
	wg.Wait()

	assert.Equal(t, 1, fetcher.callCount())
	for _, result := range results {
		assert.Same(t, results[0], result)
	}
}

func Test_Cache_FailuresAreNotCached(t *testing.T) {
	fetcher := &countingFetcher{err: errors.New("network error")}
	cache := NewCache(fetcher)

	_, err := cache.Schema(context.Background(), testKey())
	require.Error(t, err)
	assert.Equal(t, 0, cache.Len())

	fetcher.mu.Lock()
	fetcher.err = nil
	fetcher.result = &schema.Schema{}
	fetcher.mu.Unlock()

	_, err = cache.Schema(context.Background(), testKey())
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.callCount())
}

func Test_Cache_RefreshDoesNotJoinInflightRead(t *testing.T) {
	fetcher := &countingFetcher{
		result:  &schema.Schema{},
		block:   make(chan struct{}),
		started: make(chan struct{}, 2),
	}
	cache := NewCache(fetcher)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := cache.Schema(context.Background(), testKey())
		assert.NoError(t, err)
	}()
	<-fetcher.started

	// the refresh races the in-flight read and must issue its own request
	go func() {
		defer wg.Done()
		_, err := cache.Refresh(context.Background(), testKey())
		assert.NoError(t, err)
	}()
	<-fetcher.started

	close(fetcher.block)
	wg.Wait()
	assert.Equal(t, 2, fetcher.callCount())
}

func Test_Cache_RefreshBypassesCache(t *testing.T) {
	fetcher := &countingFetcher{result: &schema.Schema{}}
	cache := NewCache(fetcher)

	_, err := cache.Schema(context.Background(), testKey())
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.callCount())

	_, err = cache.Refresh(context.Background(), testKey())
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.callCount())

	// refreshed result is cached for subsequent reads
	_, err = cache.Schema(context.Background(), testKey())
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.callCount())
}
