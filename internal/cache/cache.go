// Package cache provides a TTL-expiring memoization store for remote call
// results. Entries expire by age or are dropped by an explicit Clear; there
// is no per-entry invalidation and no LRU eviction.
package cache

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type entry[V any] struct {
	value      V
	expiration time.Time
}

// Store memoizes values by string key with a single TTL injected at
// construction time.
type Store[V any] struct {
	name string
	ttl  time.Duration

	mu      sync.Mutex
	entries map[string]entry[V]
}

// New creates an empty store whose entries live for ttl.
func New[V any](name string, ttl time.Duration) *Store[V] {
	return &Store[V]{
		name:    name,
		ttl:     ttl,
		entries: make(map[string]entry[V]),
	}
}

// Do returns the cached value for key when a fresh entry exists, otherwise
// it runs compute, stores the result and returns it. Compute errors are not
// cached. The lock is held only around map access, so two concurrent misses
// on the same key may both compute; the second write overwrites the first
// with an identical value, which is harmless for idempotent fetches.
func (s *Store[V]) Do(key string, compute func() (V, error)) (V, error) {
	if v, ok := s.get(key); ok {
		return v, nil
	}

	v, err := compute()
	if err != nil {
		return v, err
	}
	s.put(key, v)
	return v, nil
}

func (s *Store[V]) get(key string) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		log.Debug().Str("cache", s.name).Str("key", key).Msg("Cache miss")
		var zero V
		return zero, false
	}
	if time.Now().After(e.expiration) {
		delete(s.entries, key)
		log.Debug().Str("cache", s.name).Str("key", key).Msg("Cache entry expired")
		var zero V
		return zero, false
	}

	log.Debug().Str("cache", s.name).Str("key", key).Msg("Cache hit")
	return e.value, true
}

func (s *Store[V]) put(key string, v V) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = entry[V]{
		value:      v,
		expiration: time.Now().Add(s.ttl),
	}
	log.Debug().Str("cache", s.name).Str("key", key).Dur("ttl", s.ttl).Msg("Added to cache")
}

// Clear drops every entry unconditionally.
func (s *Store[V]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]entry[V])
	log.Debug().Str("cache", s.name).Msg("Cache cleared")
}

// Len reports the number of stored entries, including any not yet expired.
func (s *Store[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
