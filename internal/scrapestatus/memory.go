package scrapestatus

import (
	"context"
	"sync"
	"time"
)

// MemoryTracker is a process-local Tracker. Stale entries are evicted lazily on access and
// by Sweep, which RunSweeper calls periodically.
type MemoryTracker struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]time.Time
}

// NewMemoryTracker returns a tracker with the given TTL (DefaultTTL when zero).
func NewMemoryTracker(ttl time.Duration) *MemoryTracker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryTracker{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]time.Time),
	}
}

// Start implements Tracker.
func (m *MemoryTracker) Start(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if started, ok := m.entries[key]; ok && statusAt(started, now, m.ttl) == Active {
		return ErrAlreadyActive
	}
	m.entries[key] = now
	return nil
}

// Status implements Tracker.
func (m *MemoryTracker) Status(_ context.Context, key string) (Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	started, ok := m.entries[key]
	if !ok {
		return Inactive, nil
	}
	st := statusAt(started, m.now(), m.ttl)
	if st == Inactive {
		delete(m.entries, key)
	}
	return st, nil
}

// Clear implements Tracker.
func (m *MemoryTracker) Clear(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// Sweep evicts entries older than twice the TTL and returns how many were removed.
func (m *MemoryTracker) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for key, started := range m.entries {
		if statusAt(started, now, m.ttl) == Inactive {
			delete(m.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, including timed-out ones.
func (m *MemoryTracker) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (m *MemoryTracker) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = m.ttl
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}
