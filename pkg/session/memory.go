package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process memory. Suitable for
// single-process deployments and tests; anything load-balanced needs a
// shared store behind the same interface.
type MemoryStore struct {
	ttl time.Duration

	mu    sync.RWMutex
	items map[string]*memoryItem
}

type memoryItem struct {
	values  map[string]any
	expires time.Time
}

// NewMemoryStore creates a store whose sessions expire after ttl of
// inactivity.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:   ttl,
		items: make(map[string]*memoryItem),
	}
}

// Load implements Store. Expired sessions are removed lazily.
func (s *MemoryStore) Load(_ context.Context, id string) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	if time.Now().After(item.expires) {
		delete(s.items, id)
		return nil, ErrNotFound
	}

	values := make(map[string]any, len(item.values))
	for k, v := range item.values {
		values[k] = v
	}
	return values, nil
}

// Save implements Store.
func (s *MemoryStore) Save(_ context.Context, id string, values map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[id] = &memoryItem{
		values:  values,
		expires: time.Now().Add(s.ttl),
	}
	return nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

// Len returns the number of live sessions, expired ones included until
// the next sweep.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Sweep removes expired sessions.
func (s *MemoryStore) Sweep() {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, item := range s.items {
		if now.After(item.expires) {
			delete(s.items, id)
		}
	}
}

// StartGC sweeps expired sessions on an interval until ctx is done.
func (s *MemoryStore) StartGC(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sweep()
			}
		}
	}()
}
