package session

import (
	"context"
	"sync"
	"time"
)

// entry holds one user's slots behind its own lock
type entry struct {
	mu       sync.Mutex
	values   map[string]string
	lastSeen time.Time
	evicted  bool
}

// MemoryStore keeps sessions in process memory. The map lock is only held
// to find a user's entry; slot reads and writes lock that entry alone.
// Entries idle for longer than ttl are evicted by Run.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[int64]*entry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates a store. A ttl of zero disables eviction.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[int64]*entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryStore) entry(userID int64, create bool) *entry {
	s.mu.RLock()
	e, ok := s.entries[userID]
	s.mu.RUnlock()
	if ok || !create {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[userID]; ok {
		return e
	}
	e = &entry{values: make(map[string]string), lastSeen: s.now()}
	s.entries[userID] = e
	return e
}

// Get returns the slot value and whether it was set
func (s *MemoryStore) Get(_ context.Context, userID int64, key string) (string, bool, error) {
	e := s.entry(userID, false)
	if e == nil {
		return "", false, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastSeen = s.now()
	v, ok := e.values[key]
	return v, ok, nil
}

// Set stores a slot value. An entry evicted between lookup and lock is
// replaced by a fresh one so the write is never lost.
func (s *MemoryStore) Set(_ context.Context, userID int64, key, value string) error {
	for {
		e := s.entry(userID, true)

		e.mu.Lock()
		if e.evicted {
			e.mu.Unlock()
			continue
		}
		e.lastSeen = s.now()
		e.values[key] = value
		e.mu.Unlock()
		return nil
	}
}

// Delete clears a slot
func (s *MemoryStore) Delete(_ context.Context, userID int64, key string) error {
	e := s.entry(userID, false)
	if e == nil {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastSeen = s.now()
	delete(e.values, key)
	return nil
}

// Len returns the number of users with a session
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Evict drops sessions idle for at least ttl and returns how many were removed
func (s *MemoryStore) Evict() int {
	if s.ttl <= 0 {
		return 0
	}
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.entries {
		e.mu.Lock()
		if now.Sub(e.lastSeen) >= s.ttl {
			s.evictLocked(id, e)
			removed++
		}
		e.mu.Unlock()
	}
	return removed
}

// evictLocked removes e from the map. Callers hold s.mu and e.mu.
func (s *MemoryStore) evictLocked(userID int64, e *entry) {
	e.evicted = true
	delete(s.entries, userID)
}

// Run evicts idle sessions every interval until ctx is cancelled
func (s *MemoryStore) Run(ctx context.Context, interval time.Duration) {
	if s.ttl <= 0 || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Evict()
		}
	}
}
