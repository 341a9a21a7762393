package store

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_RoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(Options{SweepInterval: time.Hour})
	defer m.Close(ctx)

	data := []byte("workbook bytes")
	id, err := m.Put(ctx, data, time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := m.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestMemory_UnknownID(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(Options{SweepInterval: time.Hour})
	defer m.Close(ctx)

	_, err := m.Get(ctx, "never-existed")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_SingleUse(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(Options{SingleUse: true, SweepInterval: time.Hour})
	defer m.Close(ctx)

	id, err := m.Put(ctx, []byte("once"), time.Minute)
	require.NoError(t, err)

	got, err := m.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []byte("once"), got)

	_, err = m.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound, "second read of a single-use artifact")
}

func TestMemory_ReusableUntilExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(Options{SingleUse: false, SweepInterval: time.Hour})
	defer m.Close(ctx)

	id, err := m.Put(ctx, []byte("again"), time.Minute)
	require.NoError(t, err)

	for range 3 {
		got, err := m.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, []byte("again"), got)
	}
}

func TestMemory_ExpiryBoundary(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(Options{SweepInterval: time.Hour})
	defer m.Close(ctx)

	base := time.Now()
	m.now = func() time.Time { return base }

	id, err := m.Put(ctx, []byte("fleeting"), 60*time.Second)
	require.NoError(t, err)

	// One second before expiry: found.
	m.now = func() time.Time { return base.Add(59 * time.Second) }
	_, err = m.Get(ctx, id)
	require.NoError(t, err)

	// Exactly at createdAt+ttl: already expired.
	m.now = func() time.Time { return base.Add(60 * time.Second) }
	_, err = m.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_TTLTruncatedToWholeSeconds(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(Options{SweepInterval: time.Hour})
	defer m.Close(ctx)

	base := time.Now()
	m.now = func() time.Time { return base }

	id, err := m.Put(ctx, []byte("x"), 1500*time.Millisecond)
	require.NoError(t, err)

	// The sub-second remainder is dropped, so 1s after creation is the boundary.
	m.now = func() time.Time { return base.Add(time.Second) }
	_, err = m.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_ConcurrentSingleUseGets(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(Options{SingleUse: true, SweepInterval: time.Hour})
	defer m.Close(ctx)

	id, err := m.Put(ctx, []byte("contested"), time.Minute)
	require.NoError(t, err)

	const callers = 32
	var successes, notFounds atomic.Int64
	var wg sync.WaitGroup
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Get(ctx, id)
			switch {
			case err == nil:
				successes.Add(1)
			case err == ErrNotFound:
				notFounds.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), successes.Load(), "exactly one caller wins")
	assert.Equal(t, int64(callers-1), notFounds.Load())
}

func TestMemory_SweepRemovesExpired(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(Options{SweepInterval: time.Hour})
	defer m.Close(ctx)

	base := time.Now()
	m.now = func() time.Time { return base }

	_, err := m.Put(ctx, []byte("a"), time.Second)
	require.NoError(t, err)
	_, err = m.Put(ctx, []byte("b"), time.Hour)
	require.NoError(t, err)
	require.Equal(t, 2, m.Len())

	m.now = func() time.Time { return base.Add(time.Minute) }
	m.sweep()

	assert.Equal(t, 1, m.Len(), "only the unexpired entry survives the sweep")
}

func TestMemory_DistinctIDs(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(Options{SweepInterval: time.Hour})
	defer m.Close(ctx)

	seen := make(map[string]bool)
	for range 100 {
		id, err := m.Put(ctx, []byte("x"), time.Minute)
		require.NoError(t, err)
		require.False(t, seen[id], "IDs must never collide")
		seen[id] = true
	}
}
