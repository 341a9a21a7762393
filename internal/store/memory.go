package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryEntry struct {
	data      []byte
	createdAt time.Time
	ttl       time.Duration
}

func (e memoryEntry) expired(now time.Time) bool {
	return !now.Before(e.createdAt.Add(e.ttl))
}

// Memory is the in-process Store backend: a mutex-guarded table with a
// background goroutine sweeping expired entries. Everything is lost on
// process restart.
type Memory struct {
	singleUse bool

	mu      sync.Mutex
	entries map[string]memoryEntry

	// now is swappable so tests can pin the clock at the TTL boundary.
	now func() time.Time

	stopOnce sync.Once
	done     chan struct{}
}

// NewMemory creates an in-process store and starts its sweep goroutine.
// Call Close to stop it.
func NewMemory(opts Options) *Memory {
	interval := opts.SweepInterval
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	m := &Memory{
		singleUse: opts.SingleUse,
		entries:   make(map[string]memoryEntry),
		now:       time.Now,
		done:      make(chan struct{}),
	}
	go m.sweepLoop(interval)
	return m
}

// Put implements Store.
func (m *Memory) Put(_ context.Context, data []byte, ttl time.Duration) (string, error) {
	id := uuid.NewString()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[id] = memoryEntry{
		data:      data,
		createdAt: m.now(),
		ttl:       ttl.Truncate(time.Second),
	}
	return id, nil
}

// Get implements Store. Expiry is checked here rather than left to the
// sweep, so correctness never depends on sweep timing. Under single-use the
// lookup and delete happen under one lock acquisition: of any number of
// concurrent Gets for the same ID, exactly one succeeds.
func (m *Memory) Get(_ context.Context, id string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	if e.expired(m.now()) {
		delete(m.entries, id)
		return nil, ErrNotFound
	}
	if m.singleUse {
		delete(m.entries, id)
	}
	return e.data, nil
}

// Close stops the sweep goroutine and discards all entries.
// Safe to call multiple times.
func (m *Memory) Close(context.Context) error {
	m.stopOnce.Do(func() { close(m.done) })

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]memoryEntry)
	return nil
}

// Len reports the number of stored entries, counting expired ones the sweep
// has not removed yet.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Memory) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

func (m *Memory) sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for id, e := range m.entries {
		if e.expired(now) {
			delete(m.entries, id)
		}
	}
}
