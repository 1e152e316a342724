// Package sessions keeps short-lived interactive state (ROA views, pending alias confirmations)
// keyed by random identifiers until it expires.
package sessions

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned for unknown or expired ids
var ErrNotFound = errors.New("session not found or expired")

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// Store is a TTL map safe for concurrent use. Expired entries are invisible to Get
// and are physically removed by Sweep.
type Store[T any] struct {
	mu      sync.RWMutex
	entries map[string]entry[T]
	ttl     time.Duration
	now     func() time.Time
	onSize  func(int)
}

// NewStore creates a store whose entries live for ttl after their last write
func NewStore[T any](ttl time.Duration) *Store[T] {
	return &Store[T]{
		entries: make(map[string]entry[T]),
		ttl:     ttl,
		now:     time.Now,
	}
}

// OnSizeChange registers a callback invoked with the entry count after every mutation
func (s *Store[T]) OnSizeChange(fn func(int)) {
	s.mu.Lock()
	s.onSize = fn
	s.mu.Unlock()
}

// TTL returns the entry lifetime
func (s *Store[T]) TTL() time.Duration {
	return s.ttl
}

// Put stores value under a new id and returns the id
func (s *Store[T]) Put(value T) string {
	id := uuid.NewString()

	s.mu.Lock()
	s.entries[id] = entry[T]{value: value, expiresAt: s.now().Add(s.ttl)}
	s.notifyLocked()
	s.mu.Unlock()

	return id
}

// Get returns the value for id if it has not expired
func (s *Store[T]) Get(id string) (T, error) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()

	if !ok || !s.now().Before(e.expiresAt) {
		var zero T
		return zero, ErrNotFound
	}
	return e.value, nil
}

// Update replaces the value for a live id and refreshes its lifetime
func (s *Store[T]) Update(id string, value T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	now := s.now()
	if !ok || !now.Before(e.expiresAt) {
		return ErrNotFound
	}
	s.entries[id] = entry[T]{value: value, expiresAt: now.Add(s.ttl)}
	return nil
}

// Take removes and returns the value for a live id, so it can be consumed only once
func (s *Store[T]) Take(id string) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	var zero T
	if !ok {
		return zero, ErrNotFound
	}
	delete(s.entries, id)
	s.notifyLocked()

	if !s.now().Before(e.expiresAt) {
		return zero, ErrNotFound
	}
	return e.value, nil
}

// Delete removes id; unknown ids are ignored
func (s *Store[T]) Delete(id string) {
	s.mu.Lock()
	delete(s.entries, id)
	s.notifyLocked()
	s.mu.Unlock()
}

// Sweep removes entries expired at now and returns how many were removed
func (s *Store[T]) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, id)
			removed++
		}
	}
	if removed > 0 {
		s.notifyLocked()
	}
	return removed
}

// Len returns the number of stored entries, including expired ones not yet swept
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store[T]) notifyLocked() {
	if s.onSize != nil {
		s.onSize(len(s.entries))
	}
}
