package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore_MarkProcessed(t *testing.T) {
	t.Run("first mark wins, duplicates are rejected", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		defer store.Close()

		ctx := context.Background()

		first, err := store.MarkProcessed(ctx, "evt_123", time.Hour)
		require.NoError(t, err)
		assert.True(t, first)

		second, err := store.MarkProcessed(ctx, "evt_123", time.Hour)
		require.NoError(t, err)
		assert.False(t, second)
	})

	t.Run("expired entries can be marked again", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		defer store.Close()

		ctx := context.Background()

		first, err := store.MarkProcessed(ctx, "evt_ttl", time.Millisecond)
		require.NoError(t, err)
		assert.True(t, first)

		time.Sleep(5 * time.Millisecond)

		again, err := store.MarkProcessed(ctx, "evt_ttl", time.Hour)
		require.NoError(t, err)
		assert.True(t, again)
	})

	t.Run("concurrent marks admit exactly one winner", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		defer store.Close()

		ctx := context.Background()
		const goroutines = 20

		var wg sync.WaitGroup
		results := make(chan bool, goroutines)
		for i := 0; i < goroutines; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ok, err := store.MarkProcessed(ctx, "evt_race", time.Hour)
				require.NoError(t, err)
				results <- ok
			}()
		}
		wg.Wait()
		close(results)

		winners := 0
		for ok := range results {
			if ok {
				winners++
			}
		}
		assert.Equal(t, 1, winners)
	})
}

func TestInMemoryIdempotencyStore_IsProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	processed, err := store.IsProcessed(ctx, "evt_unknown")
	require.NoError(t, err)
	assert.False(t, processed)

	_, err = store.MarkProcessed(ctx, "evt_known", time.Hour)
	require.NoError(t, err)

	processed, err = store.IsProcessed(ctx, "evt_known")
	require.NoError(t, err)
	assert.True(t, processed)
}

func TestInMemoryIdempotencyStore_Cleanup(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		_, err := store.MarkProcessed(ctx, fmt.Sprintf("evt_%d", i), time.Millisecond)
		require.NoError(t, err)
	}
	require.Equal(t, 10, store.Size())

	time.Sleep(5 * time.Millisecond)
	store.cleanup()

	assert.Equal(t, 0, store.Size())
}

func TestInMemoryIdempotencyStore_CloseIsIdempotent(t *testing.T) {
	store := NewInMemoryIdempotencyStore()

	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
}
