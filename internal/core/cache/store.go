// Package cache implements the resource store: a time-boxed, single-flight
// cache in front of a remote list fetch, shared by every consumer of one
// resource type.
//
// A Store is valid while its last successful load is younger than its TTL.
// Loads are deduplicated: callers arriving while a load is in flight wait for
// that load instead of starting another one. Every load is tagged with a
// sequence number and only the most recently issued load may write the
// store, so a slow response can never overwrite newer state.
package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is the cache window used when no TTL option is given.
const DefaultTTL = 30 * time.Minute

// ErrSuperseded is returned to callers of a load that Clear or a local
// mutation overtook. The response was discarded; a new Fetch loads again.
var ErrSuperseded = errors.New("cache load superseded")

// Record is anything with a stable identifier.
type Record interface {
	ResourceID() string
}

// Fetcher loads the full collection from the backend.
type Fetcher[T any] func(ctx context.Context) ([]T, error)

// State is a point-in-time copy of a store.
type State[T any] struct {
	Items     []T
	Loading   bool
	Err       string
	LastFetch time.Time // zero when absent
	TTL       time.Duration
}

// Stats summarises a store for dashboards.
type Stats struct {
	Count     int
	Loading   bool
	Err       string
	LastFetch time.Time
	Valid     bool
	Expiry    time.Time // zero when never fetched
}

// Store caches one resource collection.
type Store[T Record] struct {
	name  string
	fetch Fetcher[T]
	ttl   time.Duration
	now   func() time.Time
	log   zerolog.Logger
	obs   Observer
	group singleflight.Group

	mu        sync.Mutex
	items     []T // replaced, never mutated in place
	lastErr   string
	lastFetch time.Time
	inflight  int
	seq       uint64
}

// New returns an empty store for the named resource.
func New[T Record](name string, fetch Fetcher[T], opts ...Option) *Store[T] {
	o := options{
		ttl: DefaultTTL,
		now: time.Now,
		log: zerolog.Nop(),
		obs: nopObserver{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Store[T]{
		name:  name,
		fetch: fetch,
		ttl:   o.ttl,
		now:   o.now,
		log:   o.log.With().Str("resource", name).Logger(),
		obs:   o.obs,
	}
}

// Name returns the resource name.
func (s *Store[T]) Name() string { return s.name }

// TTL returns the fixed cache window.
func (s *Store[T]) TTL() time.Duration { return s.ttl }

// Fetch returns the collection, loading it from the backend when the cache
// is empty, expired or force is set.
//
// A forced call that arrives while a load is in flight joins that load. The
// load itself is detached from ctx: a caller that gives up stops waiting but
// the load still completes and updates the store.
//
// On failure the error is recorded in the store, previously cached items are
// kept, and (nil, err) is returned. A load overtaken by Clear or a local
// mutation returns ErrSuperseded and leaves the store alone.
func (s *Store[T]) Fetch(ctx context.Context, force bool) ([]T, error) {
	s.mu.Lock()
	if !force && len(s.items) > 0 && s.inflight == 0 && s.validLocked() {
		items := clone(s.items)
		s.mu.Unlock()
		s.obs.Request(s.name, ResultHit)
		s.log.Debug().Int("items", len(items)).Msg("serving from cache")
		return items, nil
	}
	s.mu.Unlock()

	detached := context.WithoutCancel(ctx)
	ch := s.group.DoChan(s.name, func() (any, error) {
		return s.load(detached)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Shared {
			s.obs.Request(s.name, ResultJoined)
		} else {
			s.obs.Request(s.name, ResultMiss)
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return clone(res.Val.([]T)), nil
	}
}

func (s *Store[T]) load(ctx context.Context) ([]T, error) {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.lastErr = ""
	s.inflight++
	s.mu.Unlock()

	s.log.Info().Uint64("seq", seq).Msg("loading from backend")
	start := time.Now()
	items, err := s.fetch(ctx)
	s.obs.Load(s.name, time.Since(start), err)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--

	if seq != s.seq {
		s.log.Debug().Uint64("seq", seq).Uint64("latest", s.seq).Msg("discarding superseded load")
		if err != nil {
			return nil, err
		}
		return nil, ErrSuperseded
	}

	if err != nil {
		s.lastErr = err.Error()
		s.log.Warn().Err(err).Int("kept_items", len(s.items)).Msg("load failed")
		return nil, err
	}

	if items == nil {
		items = []T{}
	}
	s.items = items
	s.lastFetch = s.now()
	s.lastErr = ""
	s.obs.Size(s.name, len(items))
	s.log.Info().Int("items", len(items)).Msg("loaded and cached")
	return items, nil
}

// Valid reports whether the last successful load is still inside the TTL.
func (s *Store[T]) Valid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validLocked()
}

func (s *Store[T]) validLocked() bool {
	return valid(s.lastFetch, s.ttl, s.now())
}

func valid(lastFetch time.Time, ttl time.Duration, now time.Time) bool {
	return !lastFetch.IsZero() && now.Sub(lastFetch) < ttl
}

// Clear resets items, timestamp and error. A load in flight when Clear is
// called is not allowed to repopulate the store.
func (s *Store[T]) Clear() {
	s.mu.Lock()
	s.items = nil
	s.lastFetch = time.Time{}
	s.lastErr = ""
	s.seq++
	s.mu.Unlock()

	s.group.Forget(s.name)
	s.obs.Size(s.name, 0)
	s.log.Info().Msg("cache cleared")
}

// Loading reports whether a load is in flight.
func (s *Store[T]) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight > 0
}

// Err returns the message of the last failed load, or "".
func (s *Store[T]) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Items returns a copy of the cached collection without loading.
func (s *Store[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.items)
}

// State returns a snapshot of the store.
func (s *Store[T]) State() State[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State[T]{
		Items:     clone(s.items),
		Loading:   s.inflight > 0,
		Err:       s.lastErr,
		LastFetch: s.lastFetch,
		TTL:       s.ttl,
	}
}

// Find looks up a cached item by id.
func (s *Store[T]) Find(id string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.ResourceID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Filter returns the cached items matching keep, in cache order.
func (s *Store[T]) Filter(keep func(T) bool) []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, 0, len(s.items))
	for _, item := range s.items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// Stats summarises the store.
func (s *Store[T]) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Stats{
		Count:     len(s.items),
		Loading:   s.inflight > 0,
		Err:       s.lastErr,
		LastFetch: s.lastFetch,
		Valid:     s.validLocked(),
	}
	if !s.lastFetch.IsZero() {
		st.Expiry = s.lastFetch.Add(s.ttl)
	}
	return st
}

// Add appends an item the backend has already created. The cache window
// is invalidated so the next Fetch reconciles with the backend.
func (s *Store[T]) Add(item T) {
	s.mu.Lock()
	next := make([]T, 0, len(s.items)+1)
	next = append(next, s.items...)
	s.items = append(next, item)
	s.invalidateLocked()
	n := len(s.items)
	s.mu.Unlock()

	s.group.Forget(s.name)
	s.obs.Size(s.name, n)
}

// Replace swaps the item with the given id for item. It reports false and
// changes nothing when id is not cached.
func (s *Store[T]) Replace(id string, item T) bool {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	next := clone(s.items)
	next[idx] = item
	s.items = next
	s.invalidateLocked()
	s.mu.Unlock()

	s.group.Forget(s.name)
	return true
}

// Remove drops the item with the given id. It reports false when id is not cached.
func (s *Store[T]) Remove(id string) bool {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	next := make([]T, 0, len(s.items)-1)
	next = append(next, s.items[:idx]...)
	s.items = append(next, s.items[idx+1:]...)
	s.invalidateLocked()
	n := len(s.items)
	s.mu.Unlock()

	s.group.Forget(s.name)
	s.obs.Size(s.name, n)
	return true
}

func (s *Store[T]) indexLocked(id string) int {
	for i, item := range s.items {
		if item.ResourceID() == id {
			return i
		}
	}
	return -1
}

// invalidateLocked ends the cache window and supersedes any load in flight.
func (s *Store[T]) invalidateLocked() {
	s.lastFetch = time.Time{}
	s.seq++
}

func clone[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}
