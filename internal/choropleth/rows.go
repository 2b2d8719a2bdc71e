// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

package choropleth

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/globeview/internal/validation"
)

// ErrDuplicateCode is returned when a row set names a country twice.
var ErrDuplicateCode = errors.New("duplicate country code")

// Row is one country's visitor metrics.
type Row struct {
	CountryCode        string  `json:"country_code" validate:"required,country_code"`
	Visitors           int64   `json:"visitors" validate:"gte=0"`
	Pageviews          *int64  `json:"pageviews,omitempty" validate:"omitempty,gte=0"`
	BounceRate         float64 `json:"bounce_rate" validate:"gte=0,lte=100"`
	AvgDurationSeconds float64 `json:"avg_duration_seconds" validate:"gte=0"`
}

// rowSet wraps rows so validation errors carry "rows[i]" paths.
type rowSet struct {
	Rows []Row `json:"rows" validate:"dive"`
}

// NormalizeRows upper-cases and trims codes, validates every row and rejects
// duplicate codes. The input slice is not modified.
func NormalizeRows(rows []Row) ([]Row, error) {
	out := make([]Row, len(rows))
	seen := make(map[string]int, len(rows))
	for i, r := range rows {
		r.CountryCode = strings.ToUpper(strings.TrimSpace(r.CountryCode))
		if j, dup := seen[r.CountryCode]; dup && r.CountryCode != "" {
			return nil, fmt.Errorf("rows[%d] and rows[%d]: %w %q", j, i, ErrDuplicateCode, r.CountryCode)
		}
		seen[r.CountryCode] = i
		out[i] = r
	}
	if verr := validation.ValidateStruct(&rowSet{Rows: out}); verr != nil {
		return nil, verr
	}
	return out, nil
}

// Snapshot is an immutable row set. A new snapshot is built for every change;
// readers hold on to the one they started a render with.
type Snapshot struct {
	version     uint64
	loading     bool
	rows        map[string]Row
	ordered     []Row
	maxVisitors int64
	updatedAt   time.Time
}

// newSnapshot builds a snapshot from already normalized rows.
func newSnapshot(version uint64, rows []Row, loading bool, at time.Time) *Snapshot {
	s := &Snapshot{
		version:     version,
		loading:     loading,
		rows:        make(map[string]Row, len(rows)),
		ordered:     make([]Row, len(rows)),
		maxVisitors: 1,
		updatedAt:   at,
	}
	copy(s.ordered, rows)
	sort.Slice(s.ordered, func(i, j int) bool {
		return s.ordered[i].CountryCode < s.ordered[j].CountryCode
	})
	for _, r := range s.ordered {
		s.rows[r.CountryCode] = r
		if r.Visitors > s.maxVisitors {
			s.maxVisitors = r.Visitors
		}
	}
	return s
}

// NewSnapshot validates rows and returns a snapshot at the given version.
func NewSnapshot(version uint64, rows []Row) (*Snapshot, error) {
	normalized, err := NormalizeRows(rows)
	if err != nil {
		return nil, err
	}
	return newSnapshot(version, normalized, false, time.Now()), nil
}

// EmptySnapshot has no rows and is not loading.
func EmptySnapshot() *Snapshot {
	return newSnapshot(0, nil, false, time.Time{})
}

// Version increases with every change published by a Store.
func (s *Snapshot) Version() uint64 { return s.version }

// Loading reports whether data is being fetched; the globe shows a skeleton.
func (s *Snapshot) Loading() bool { return s.loading }

// UpdatedAt is when the rows were last replaced.
func (s *Snapshot) UpdatedAt() time.Time { return s.updatedAt }

// Len returns the number of rows.
func (s *Snapshot) Len() int { return len(s.ordered) }

// MaxVisitors is the largest visitor count, never below 1.
func (s *Snapshot) MaxVisitors() int64 { return s.maxVisitors }

// Row looks up a country by alpha-2 code.
func (s *Snapshot) Row(code string) (Row, bool) {
	r, ok := s.rows[code]
	return r, ok
}

// Has reports whether a row exists for code.
func (s *Snapshot) Has(code string) bool {
	_, ok := s.rows[code]
	return ok
}

// Rows returns a copy of the rows ordered by country code.
func (s *Snapshot) Rows() []Row {
	out := make([]Row, len(s.ordered))
	copy(out, s.ordered)
	return out
}

// withLoading returns a copy of s with a new version and loading flag.
func (s *Snapshot) withLoading(version uint64, loading bool) *Snapshot {
	c := *s
	c.version = version
	c.loading = loading
	return &c
}
