// Package querycache gives every backend read a cache key, de-duplicates
// concurrent identical reads, serves stale data while revalidating in the
// background, and lets writes invalidate or optimistically patch affected
// reads with guaranteed rollback.
package querycache

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"medash/config"

	"golang.org/x/sync/singleflight"
)

// Key identifies one cache entry: a resource name plus its parameters.
type Key struct {
	Resource string
	Params   string
}

// NewKey builds a Key from a resource name and its call parameters.
func NewKey(resource string, params ...any) Key {
	if len(params) == 0 {
		return Key{Resource: resource}
	}

	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = fmt.Sprint(p)
	}

	return Key{Resource: resource, Params: strings.Join(parts, "/")}
}

// String renders the key for logging and flight grouping.
func (k Key) String() string {
	if k.Params == "" {
		return k.Resource
	}

	return k.Resource + "?" + k.Params
}

type entry struct {
	data      any
	fetchedAt time.Time

	// refreshStop terminates this entry's periodic refresher, if any.
	refreshStop chan struct{}
}

// Snapshot preserves the exact pre-mutation state of a set of keys so a
// failed optimistic mutation can restore it verbatim.
type Snapshot struct {
	states map[Key]snapshotState
}

type snapshotState struct {
	data      any
	fetchedAt time.Time
	present   bool
}

// Store is the shared cache behind all queries and mutations. No component
// outside this package reads or writes entries directly.
type Store struct {
	mu      sync.RWMutex
	entries map[Key]*entry

	flight singleflight.Group
	logger *slog.Logger

	staleTime       time.Duration
	refetchInterval time.Duration
	gcTime          time.Duration

	done     chan struct{}
	stopOnce sync.Once
}

// NewStore is the constructor for Store. It starts a janitor that drops
// entries untouched for longer than the configured retention window.
func NewStore(cfg *config.Config, logger *slog.Logger) *Store {
	s := &Store{
		entries:         make(map[Key]*entry),
		logger:          logger,
		staleTime:       cfg.Cache.StaleTime,
		refetchInterval: cfg.Cache.RefetchInterval,
		gcTime:          cfg.Cache.GCTime,
		done:            make(chan struct{}),
	}
	go s.janitor()

	return s
}

// Close stops the janitor and every periodic refresher.
func (s *Store) Close() {
	s.stopOnce.Do(func() {
		close(s.done)

		s.mu.Lock()
		defer s.mu.Unlock()
		for _, e := range s.entries {
			e.stopRefresher()
		}
	})
}

func (e *entry) stopRefresher() {
	if e.refreshStop != nil {
		close(e.refreshStop)
		e.refreshStop = nil
	}
}

// lookup returns the cached value and its age.
func (s *Store) lookup(key Key) (data any, age time.Duration, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, found := s.entries[key]
	if !found {
		return nil, 0, false
	}

	return e.data, time.Since(e.fetchedAt), true
}

// put stores a freshly fetched value, preserving any running refresher.
func (s *Store) put(key Key, data any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, found := s.entries[key]; found {
		e.data = data
		e.fetchedAt = time.Now()

		return
	}
	s.entries[key] = &entry{data: data, fetchedAt: time.Now()}
}

// Patch replaces the cached value under key through fn. fn receives the
// current value (nil if absent) and must return a replacement without
// mutating the old value in place, so rollback can restore it untouched.
// Patching keeps the entry's original fetch time: an optimistic guess is
// not fresher than the data it was derived from.
func (s *Store) Patch(key Key, fn func(old any) any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, found := s.entries[key]
	if !found {
		return
	}
	e.data = fn(e.data)
}

// Invalidate drops entries, forcing the next read to refetch.
func (s *Store) Invalidate(keys ...Key) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		if e, found := s.entries[key]; found {
			e.stopRefresher()
			delete(s.entries, key)
		}
	}
}

// InvalidateResource drops every entry under the given resource names,
// regardless of parameters. Used by mutations whose effect spans keys the
// caller cannot enumerate, like paginated listings.
func (s *Store) InvalidateResource(resources ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, e := range s.entries {
		for _, resource := range resources {
			if key.Resource == resource {
				e.stopRefresher()
				delete(s.entries, key)

				break
			}
		}
	}
}

// Clear drops every entry. Subscribed to logout and to the client's auth
// expiry signal so nothing cached under one session outlives it.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, e := range s.entries {
		e.stopRefresher()
		delete(s.entries, key)
	}
}

// Keys lists the cached keys under a resource, in no particular order.
// Mutations use it to patch every cached page of a listing they affect.
func (s *Store) Keys(resource string) []Key {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []Key
	for key := range s.entries {
		if key.Resource == resource {
			keys = append(keys, key)
		}
	}

	return keys
}

// TakeSnapshot captures the current state of the given keys, including
// their absence.
func (s *Store) TakeSnapshot(keys []Key) Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{states: make(map[Key]snapshotState, len(keys))}
	for _, key := range keys {
		if e, found := s.entries[key]; found {
			snap.states[key] = snapshotState{data: e.data, fetchedAt: e.fetchedAt, present: true}
		} else {
			snap.states[key] = snapshotState{}
		}
	}

	return snap
}

// Restore puts every snapshotted key back exactly as captured: patched
// values are replaced, entries created since are removed.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, state := range snap.states {
		if !state.present {
			if e, found := s.entries[key]; found {
				e.stopRefresher()
				delete(s.entries, key)
			}

			continue
		}

		if e, found := s.entries[key]; found {
			e.data = state.data
			e.fetchedAt = state.fetchedAt
		} else {
			s.entries[key] = &entry{data: state.data, fetchedAt: state.fetchedAt}
		}
	}
}

func (s *Store) janitor() {
	ticker := time.NewTicker(s.gcTime)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.collect()
		}
	}
}

func (s *Store) collect() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, e := range s.entries {
		if time.Since(e.fetchedAt) > s.gcTime {
			e.stopRefresher()
			delete(s.entries, key)
		}
	}
}
