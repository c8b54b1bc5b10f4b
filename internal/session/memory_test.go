package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetSet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Hour)

	_, ok, err := s.Get(ctx, 42, "topic")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, 42, "topic", "animals"))
	require.NoError(t, s.Set(ctx, 42, "topic", "food"))

	v, ok, err := s.Get(ctx, 42, "topic")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "food", v, "last write wins")

	_, ok, _ = s.Get(ctx, 7, "topic")
	assert.False(t, ok, "users do not share slots")

	require.NoError(t, s.Delete(ctx, 42, "topic"))
	_, ok, _ = s.Get(ctx, 42, "topic")
	assert.False(t, ok)

	assert.NoError(t, s.Delete(ctx, 999, "topic"), "deleting for an unknown user is fine")
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStore_Evict(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 20, 12, 0, 0, 0, time.UTC)

	s := NewMemoryStore(time.Hour)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set(ctx, 1, "topic", "animals"))
	now = now.Add(30 * time.Minute)
	require.NoError(t, s.Set(ctx, 2, "topic", "food"))

	now = now.Add(40 * time.Minute)
	assert.Equal(t, 1, s.Evict(), "only user 1 has been idle for an hour")
	assert.Equal(t, 1, s.Len())

	_, ok, _ := s.Get(ctx, 1, "topic")
	assert.False(t, ok)
	v, ok, _ := s.Get(ctx, 2, "topic")
	assert.True(t, ok)
	assert.Equal(t, "food", v)
}

func TestMemoryStore_SetSurvivesConcurrentEviction(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 20, 12, 0, 0, 0, time.UTC)

	s := NewMemoryStore(time.Hour)
	s.now = func() time.Time { return now }
	require.NoError(t, s.Set(ctx, 1, "locale", "nl"))
	now = now.Add(2 * time.Hour)

	// Hold the entry so the writer finds it and then waits for its lock
	stale := s.entry(1, false)
	require.NotNil(t, stale)
	stale.mu.Lock()

	done := make(chan error, 1)
	go func() { done <- s.Set(ctx, 1, "topic", "animals") }()
	time.Sleep(20 * time.Millisecond)

	s.mu.Lock()
	s.evictLocked(1, stale)
	s.mu.Unlock()
	stale.mu.Unlock()

	require.NoError(t, <-done)

	v, ok, err := s.Get(ctx, 1, "topic")
	require.NoError(t, err)
	assert.True(t, ok, "write after eviction must land in the live entry")
	assert.Equal(t, "animals", v)
	assert.Equal(t, 1, s.Len())
	assert.NotContains(t, stale.values, "topic")
}

func TestMemoryStore_ReadRefreshesIdleTime(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 20, 12, 0, 0, 0, time.UTC)

	s := NewMemoryStore(time.Hour)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set(ctx, 1, "locale", "ru"))
	now = now.Add(50 * time.Minute)
	_, _, _ = s.Get(ctx, 1, "locale")
	now = now.Add(50 * time.Minute)

	assert.Zero(t, s.Evict())
}

func TestMemoryStore_NoTTL(t *testing.T) {
	s := NewMemoryStore(0)
	require.NoError(t, s.Set(context.Background(), 1, "topic", "animals"))
	assert.Zero(t, s.Evict())

	// Run returns at once when eviction is disabled
	s.Run(context.Background(), time.Millisecond)
}

func TestMemoryStore_RunStopsOnCancel(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		s.Run(ctx, time.Millisecond)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestMemoryStore_ConcurrentUsers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Hour)

	var wg sync.WaitGroup
	for i := int64(0); i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				_ = s.Set(ctx, id, "topic", fmt.Sprintf("t%d", j))
				_, _, _ = s.Get(ctx, id, "topic")
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, s.Len())
	for i := int64(0); i < 50; i++ {
		v, ok, _ := s.Get(ctx, i, "topic")
		assert.True(t, ok)
		assert.Equal(t, "t19", v)
	}
}
