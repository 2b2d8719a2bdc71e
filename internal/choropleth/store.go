// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

package choropleth

import (
	"sync"
	"sync/atomic"
	"time"
)

// Store holds the current Snapshot. Reads are lock-free; writers are
// serialized and every accepted change gets the next version number.
type Store struct {
	current atomic.Pointer[Snapshot]

	mu      sync.Mutex
	version uint64
	nextSub int
	subs    map[int]func(*Snapshot)
	now     func() time.Time
}

// NewStore creates a store whose first snapshot is empty and loading.
func NewStore() *Store {
	s := &Store{
		subs: make(map[int]func(*Snapshot)),
		now:  time.Now,
	}
	s.current.Store(newSnapshot(0, nil, true, time.Time{}))
	return s
}

// Current returns the latest snapshot.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Replace validates rows and publishes them as a new, non-loading snapshot.
// Invalid rows leave the current snapshot untouched.
func (s *Store) Replace(rows []Row) (*Snapshot, error) {
	normalized, err := NormalizeRows(rows)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.version++
	snap := newSnapshot(s.version, normalized, false, s.now())
	s.publishLocked(snap)
	return snap, nil
}

// Restore publishes rows loaded from persistence. It behaves like Replace but
// keeps the original update time.
func (s *Store) Restore(rows []Row, updatedAt time.Time) (*Snapshot, error) {
	normalized, err := NormalizeRows(rows)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.version++
	snap := newSnapshot(s.version, normalized, false, updatedAt)
	s.publishLocked(snap)
	return snap, nil
}

// SetLoading flips the loading flag, keeping the rows. It is a no-op when
// the flag already has that value.
func (s *Store) SetLoading(loading bool) *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.current.Load()
	if cur.loading == loading {
		return cur
	}
	s.version++
	snap := cur.withLoading(s.version, loading)
	s.publishLocked(snap)
	return snap
}

// Subscribe registers fn to run after every published change, in publish
// order. fn runs on the writer's goroutine and must not call back into the
// store's write methods. The returned function removes the subscription.
func (s *Store) Subscribe(fn func(*Snapshot)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) publishLocked(snap *Snapshot) {
	s.current.Store(snap)
	for _, fn := range s.subs {
		fn(snap)
	}
}
