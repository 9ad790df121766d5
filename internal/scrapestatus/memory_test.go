package scrapestatus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestTracker(ttl time.Duration) (*MemoryTracker, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := NewMemoryTracker(ttl)
	m.now = clock.Now
	return m, clock
}

func TestMemoryTracker_Lifecycle(t *testing.T) {
	ctx := context.Background()
	m, clock := newTestTracker(20 * time.Minute)

	st, err := m.Status(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, Inactive, st)

	require.NoError(t, m.Start(ctx, "acme"))
	st, _ = m.Status(ctx, "acme")
	assert.Equal(t, Active, st)

	assert.ErrorIs(t, m.Start(ctx, "acme"), ErrAlreadyActive)

	clock.Advance(20 * time.Minute)
	st, _ = m.Status(ctx, "acme")
	assert.Equal(t, TimedOut, st)

	require.NoError(t, m.Start(ctx, "acme"))
	st, _ = m.Status(ctx, "acme")
	assert.Equal(t, Active, st)

	require.NoError(t, m.Clear(ctx, "acme"))
	st, _ = m.Status(ctx, "acme")
	assert.Equal(t, Inactive, st)
}

func TestMemoryTracker_LazyEviction(t *testing.T) {
	ctx := context.Background()
	m, clock := newTestTracker(time.Minute)

	require.NoError(t, m.Start(ctx, "acme"))
	clock.Advance(2 * time.Minute)

	st, _ := m.Status(ctx, "acme")
	assert.Equal(t, Inactive, st)
	assert.Equal(t, 0, m.Len())
}

func TestMemoryTracker_Sweep(t *testing.T) {
	ctx := context.Background()
	m, clock := newTestTracker(time.Minute)

	require.NoError(t, m.Start(ctx, "old"))
	clock.Advance(90 * time.Second)
	require.NoError(t, m.Start(ctx, "new"))

	assert.Equal(t, 0, m.Sweep())
	clock.Advance(31 * time.Second)

	assert.Equal(t, 1, m.Sweep())
	assert.Equal(t, 1, m.Len())
	st, _ := m.Status(ctx, "new")
	assert.Equal(t, Active, st)
	st, _ = m.Status(ctx, "old")
	assert.Equal(t, Inactive, st)
}

func TestMemoryTracker_KeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestTracker(0)

	require.NoError(t, m.Start(ctx, "a"))
	require.NoError(t, m.Start(ctx, "b"))
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, DefaultTTL, m.ttl)
}

func TestMemoryTracker_ConcurrentStartAllowsOne(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryTracker(time.Minute)

	var wg sync.WaitGroup
	var mu sync.Mutex
	started := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if m.Start(ctx, "acme") == nil {
				mu.Lock()
				started++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, started)
}

func TestMemoryTracker_RunSweeperStops(t *testing.T) {
	m := NewMemoryTracker(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		m.RunSweeper(ctx, time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
