// Package session provides cookie-backed sessions for Volt
// applications: a Store interface, an in-memory store, and a Manager
// whose middleware attaches a session to every dispatched request.
package session

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by a Store when a session ID does not exist
// or has expired.
var ErrNotFound = errors.New("session: not found")

// Store persists session values by ID.
type Store interface {
	// Load returns the values for a session, or ErrNotFound.
	Load(ctx context.Context, id string) (map[string]any, error)

	// Save persists the values for a session and refreshes its TTL.
	Save(ctx context.Context, id string, values map[string]any) error

	// Delete removes a session.
	Delete(ctx context.Context, id string) error
}

// Session is a per-request view of one session's values. Mutations are
// written through to the store with the request's context.
type Session struct {
	id    string
	fresh bool

	ctx   context.Context
	store Store

	mu     sync.RWMutex
	values map[string]any
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Fresh reports whether the session was created for this request.
func (s *Session) Fresh() bool { return s.fresh }

// Get returns a stored value.
func (s *Session) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// GetString returns a stored string value, or "" for absent or
// non-string values.
func (s *Session) GetString(key string) string {
	v, ok := s.Get(key)
	if !ok {
		return ""
	}
	str, _ := v.(string)
	return str
}

// Set stores a value and persists the session.
func (s *Session) Set(key string, v any) error {
	s.mu.Lock()
	s.values[key] = v
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	return s.store.Save(s.ctx, s.id, snapshot)
}

// Delete removes a value and persists the session.
func (s *Session) Delete(key string) error {
	s.mu.Lock()
	delete(s.values, key)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	return s.store.Save(s.ctx, s.id, snapshot)
}

// Destroy removes the whole session from the store.
func (s *Session) Destroy() error {
	s.mu.Lock()
	s.values = make(map[string]any)
	s.mu.Unlock()
	return s.store.Delete(s.ctx, s.id)
}

func (s *Session) snapshotLocked() map[string]any {
	snapshot := make(map[string]any, len(s.values))
	for k, v := range s.values {
		snapshot[k] = v
	}
	return snapshot
}
