// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

package cache

import (
	"strconv"
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func TestLRU_BasicOperations(t *testing.T) {
	c := NewLRU[string]("test_basic", 3, time.Minute)

	c.Add("a", "1")
	c.Add("b", "2")
	c.Add("c", "3")

	for _, key := range []string{"a", "b", "c"} {
		if _, ok := c.Get(key); !ok {
			t.Errorf("Get(%q) missing", key)
		}
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
	if v, _ := c.Get("b"); v != "2" {
		t.Errorf("Get(b) = %q, want 2", v)
	}
}

func TestLRU_Eviction(t *testing.T) {
	c := NewLRU[int]("test_eviction", 3, time.Minute)

	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("c", 3)
	c.Get("a")
	c.Add("d", 4)

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted as least recently used")
	}
	for _, key := range []string{"a", "c", "d"} {
		if _, ok := c.Get(key); !ok {
			t.Errorf("%s should still be cached", key)
		}
	}
	if s := c.Stats(); s.Evictions != 1 {
		t.Errorf("Evictions = %d, want 1", s.Evictions)
	}
}

func TestLRU_TTLExpiration(t *testing.T) {
	clock := newFakeClock()
	c := NewLRU[string]("test_ttl", 10, time.Second, WithClock(clock.Now))

	c.Add("k", "v")
	clock.Advance(time.Second)
	if _, ok := c.Get("k"); !ok {
		t.Fatal("entry expired at exactly the TTL")
	}

	clock.Advance(time.Second + time.Nanosecond)
	if c.Contains("k") {
		t.Error("Contains() should report expired entries as absent")
	}
	if _, ok := c.Get("k"); ok {
		t.Error("Get() returned an expired entry")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after lazy expiry", c.Len())
	}
}

func TestLRU_UpdateExistingRefreshesTTL(t *testing.T) {
	clock := newFakeClock()
	c := NewLRU[string]("test_update", 10, time.Minute, WithClock(clock.Now))

	c.Add("k", "old")
	clock.Advance(50 * time.Second)
	c.Add("k", "new")
	clock.Advance(50 * time.Second)

	v, ok := c.Get("k")
	if !ok || v != "new" {
		t.Errorf("Get(k) = (%q, %v), want (new, true)", v, ok)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestLRU_GetOrAdd(t *testing.T) {
	c := NewLRU[string]("test_get_or_add", 4, time.Minute)

	calls := 0
	render := func() string {
		calls++
		return "<svg/>"
	}

	v, hit := c.GetOrAdd("frame", render)
	if hit || v != "<svg/>" {
		t.Errorf("first GetOrAdd() = (%q, %v)", v, hit)
	}
	v, hit = c.GetOrAdd("frame", render)
	if !hit || v != "<svg/>" {
		t.Errorf("second GetOrAdd() = (%q, %v)", v, hit)
	}
	if calls != 1 {
		t.Errorf("render called %d times, want 1", calls)
	}
}

func TestLRU_RemoveAndClear(t *testing.T) {
	c := NewLRU[int]("test_remove", 4, time.Minute)
	c.Add("a", 1)
	c.Add("b", 2)

	if !c.Remove("a") {
		t.Error("Remove(a) = false, want true")
	}
	if c.Remove("a") {
		t.Error("second Remove(a) = true, want false")
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d", c.Len())
	}
	c.Add("c", 3)
	if v, ok := c.Get("c"); !ok || v != 3 {
		t.Error("cache unusable after Clear")
	}
}

func TestLRU_CleanupExpired(t *testing.T) {
	clock := newFakeClock()
	c := NewLRU[int]("test_cleanup", 10, time.Minute, WithClock(clock.Now))

	c.Add("old1", 1)
	c.Add("old2", 2)
	clock.Advance(30 * time.Second)
	c.Add("fresh", 3)
	clock.Advance(45 * time.Second)

	if removed := c.CleanupExpired(); removed != 2 {
		t.Errorf("CleanupExpired() = %d, want 2", removed)
	}
	if !c.Contains("fresh") {
		t.Error("fresh entry removed")
	}
}

func TestLRU_Stats(t *testing.T) {
	c := NewLRU[int]("test_stats", 2, time.Minute)
	c.Add("a", 1)
	c.Get("a")
	c.Get("a")
	c.Get("missing")

	s := c.Stats()
	if s.Hits != 2 || s.Misses != 1 || s.Size != 1 || s.Capacity != 2 {
		t.Errorf("Stats() = %+v", s)
	}
	if got := s.HitRate(); got < 66.6 || got > 66.7 {
		t.Errorf("HitRate() = %v, want ~66.67", got)
	}
	if (Stats{}).HitRate() != 0 {
		t.Error("empty HitRate() should be 0")
	}
}

func TestLRU_Defaults(t *testing.T) {
	c := NewLRU[int]("test_defaults", 0, 0)
	if s := c.Stats(); s.Capacity != 256 {
		t.Errorf("Capacity = %d, want 256", s.Capacity)
	}
}

func TestLRU_Concurrent(t *testing.T) {
	c := NewLRU[int]("test_concurrent", 64, time.Minute)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				key := strconv.Itoa((g*31 + i) % 100)
				c.Add(key, i)
				c.Get(key)
			}
		}(g)
	}
	wg.Wait()

	if c.Len() > 64 {
		t.Errorf("Len() = %d exceeds capacity", c.Len())
	}
}

func TestFrameKey(t *testing.T) {
	t.Parallel()

	base := NewFrameKey(10.2, 20.1, 400, 400, "", 3, 0.5)
	tests := []struct {
		name string
		key  FrameKey
		same bool
	}{
		{"within step", NewFrameKey(10.1, 20.2, 400, 400, "", 3, 0.5), true},
		{"full turn", NewFrameKey(370.2, 20.1, 400, 400, "", 3, 0.5), true},
		{"negative turn", NewFrameKey(-349.8, 20.1, 400, 400, "", 3, 0.5), true},
		{"other version", NewFrameKey(10.2, 20.1, 400, 400, "", 4, 0.5), false},
		{"other selection", NewFrameKey(10.2, 20.1, 400, 400, "DE", 3, 0.5), false},
		{"other size", NewFrameKey(10.2, 20.1, 401, 400, "", 3, 0.5), false},
		{"other latitude", NewFrameKey(10.2, 25, 400, 400, "", 3, 0.5), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.key.String() == base.String(); got != tt.same {
				t.Errorf("key equality = %v, want %v (%+v vs %+v)", got, tt.same, tt.key, base)
			}
		})
	}
}

func TestQuantize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		v, step, want float64
	}{
		{10.26, 0.5, 10.5},
		{10.24, 0.5, 10},
		{-0.1, 0.5, 0},
		{7.3, 0, 7.3},
	}
	for _, tt := range tests {
		if got := Quantize(tt.v, tt.step); got != tt.want {
			t.Errorf("Quantize(%v, %v) = %v, want %v", tt.v, tt.step, got, tt.want)
		}
	}
}
