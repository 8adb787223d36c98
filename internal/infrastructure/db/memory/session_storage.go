// Package memory is an in-process session storage for development and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/vertextarget/portal-gateway/internal/core/ports"
)

type entry struct {
	value   string
	expires time.Time
}

// SessionStorage keeps session values in a map with the same sliding
// expiry as the Redis storage. Values do not survive a restart.
//
// Expired entries are dropped when read and by a sweep that runs inside
// Set at most once per TTL, so abandoned sessions do not accumulate.
type SessionStorage struct {
	ttl time.Duration
	now func() time.Time

	mu        sync.Mutex
	values    map[string]entry
	lastSweep time.Time
}

func NewSessionStorage(ttl time.Duration) *SessionStorage {
	return &SessionStorage{ttl: ttl, now: time.Now, values: make(map[string]entry)}
}

func (s *SessionStorage) Scope(sessionID string) ports.SessionStorage {
	return &scoped{parent: s, prefix: sessionID + ":"}
}

func (s *SessionStorage) get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.values[key]
	if !ok {
		return "", false
	}
	now := s.now()
	if s.ttl > 0 && !now.Before(e.expires) {
		delete(s.values, key)
		return "", false
	}
	e.expires = now.Add(s.ttl)
	s.values[key] = e
	return e.value, true
}

func (s *SessionStorage) set(key, value string) {
	s.mu.Lock()
	now := s.now()
	if s.ttl > 0 && now.Sub(s.lastSweep) >= s.ttl {
		s.sweepLocked(now)
	}
	s.values[key] = entry{value: value, expires: now.Add(s.ttl)}
	s.mu.Unlock()
}

func (s *SessionStorage) sweepLocked(now time.Time) {
	for k, e := range s.values {
		if !now.Before(e.expires) {
			delete(s.values, k)
		}
	}
	s.lastSweep = now
}

func (s *SessionStorage) delete(keys []string) {
	s.mu.Lock()
	for _, k := range keys {
		delete(s.values, k)
	}
	s.mu.Unlock()
}

type scoped struct {
	parent *SessionStorage
	prefix string
}

func (s *scoped) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := s.parent.get(s.prefix + key)
	return v, ok, nil
}

func (s *scoped) Set(_ context.Context, key, value string) error {
	s.parent.set(s.prefix+key, value)
	return nil
}

func (s *scoped) Delete(_ context.Context, keys ...string) error {
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.prefix + k
	}
	s.parent.delete(full)
	return nil
}
