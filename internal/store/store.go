// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/goccy/go-json"

	"github.com/tomtom215/globeview/internal/choropleth"
	"github.com/tomtom215/globeview/internal/globe"
	"github.com/tomtom215/globeview/internal/logging"
	"github.com/tomtom215/globeview/internal/metrics"
)

// Key prefixes.
const (
	rotationPrefix = "rotation:"
	rowsKey        = "rows:last"
)

// Errors
var (
	// ErrStoreClosed is returned when the store is closed.
	ErrStoreClosed = fmt.Errorf("store is closed")

	// ErrNotFound is returned when a key doesn't exist or has expired.
	ErrNotFound = fmt.Errorf("not found")

	// ErrEmptySessionID is returned when an empty session ID is provided.
	ErrEmptySessionID = fmt.Errorf("session ID cannot be empty")
)

// RowsRecord is the persisted form of the last accepted row set.
type RowsRecord struct {
	Rows      []choropleth.Row `json:"rows"`
	UpdatedAt time.Time        `json:"updated_at"`
}

type rotationRecord struct {
	Rotation globe.RotationVector `json:"rotation"`
	SavedAt  time.Time            `json:"saved_at"`
}

// BadgerStore persists globe session rotations and the last row snapshot.
type BadgerStore struct {
	db     *badger.DB
	config Config

	mu     sync.RWMutex
	closed bool
}

// Open opens or creates the store described by cfg.
func Open(cfg Config) (*BadgerStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid store config: %w", err)
	}

	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.SyncWrites = cfg.SyncWrites
	if cfg.Compression {
		opts.Compression = options.Snappy
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	if cfg.CloseTimeout == 0 {
		cfg.CloseTimeout = 30 * time.Second
	}

	logging.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Dur("session_ttl", cfg.SessionTTL).
		Msg("Store opened")

	return &BadgerStore{db: db, config: cfg}, nil
}

// SaveRotation stores the rotation for sessionID with the configured TTL.
func (s *BadgerStore) SaveRotation(ctx context.Context, sessionID string, v globe.RotationVector) (err error) {
	defer func() { metrics.RecordStoreOperation("save_rotation", err) }()

	if sessionID == "" {
		return ErrEmptySessionID
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(rotationRecord{Rotation: v.Normalized(), SavedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal rotation: %w", err)
	}
	return s.update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(rotationPrefix+sessionID), data).WithTTL(s.config.SessionTTL)
		return txn.SetEntry(e)
	})
}

// LoadRotation returns the rotation saved for sessionID. The result is
// normalized on decode, so a tampered record cannot break the latitude bound.
func (s *BadgerStore) LoadRotation(ctx context.Context, sessionID string) (v globe.RotationVector, err error) {
	defer func() {
		if !errors.Is(err, ErrNotFound) {
			metrics.RecordStoreOperation("load_rotation", err)
		}
	}()

	if sessionID == "" {
		return v, ErrEmptySessionID
	}
	if err := ctx.Err(); err != nil {
		return v, err
	}

	var rec rotationRecord
	if err := s.get([]byte(rotationPrefix+sessionID), &rec); err != nil {
		return v, err
	}
	return rec.Rotation, nil
}

// DeleteRotation removes the rotation saved for sessionID, if any.
func (s *BadgerStore) DeleteRotation(ctx context.Context, sessionID string) (err error) {
	defer func() { metrics.RecordStoreOperation("delete_rotation", err) }()

	if sessionID == "" {
		return ErrEmptySessionID
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(rotationPrefix + sessionID))
	})
}

// CountRotations returns the number of live saved rotations.
func (s *BadgerStore) CountRotations() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrStoreClosed
	}

	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(rotationPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("count rotations: %w", err)
	}
	return count, nil
}

// SaveRows stores the last accepted row set. It has no TTL.
func (s *BadgerStore) SaveRows(ctx context.Context, rows []choropleth.Row, updatedAt time.Time) (err error) {
	defer func() { metrics.RecordStoreOperation("save_rows", err) }()

	if err := ctx.Err(); err != nil {
		return err
	}
	if rows == nil {
		rows = []choropleth.Row{}
	}
	data, err := json.Marshal(RowsRecord{Rows: rows, UpdatedAt: updatedAt.UTC()})
	if err != nil {
		return fmt.Errorf("marshal rows: %w", err)
	}
	return s.update(func(txn *badger.Txn) error {
		return txn.Set([]byte(rowsKey), data)
	})
}

// LoadRows returns the last persisted row set, or ErrNotFound.
func (s *BadgerStore) LoadRows(ctx context.Context) (rec RowsRecord, err error) {
	defer func() {
		if !errors.Is(err, ErrNotFound) {
			metrics.RecordStoreOperation("load_rows", err)
		}
	}()

	if err := ctx.Err(); err != nil {
		return rec, err
	}
	err = s.get([]byte(rowsKey), &rec)
	return rec, err
}

// RunGC runs value log garbage collection until nothing is left to rewrite.
func (s *BadgerStore) RunGC() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}

	for {
		err := s.db.RunValueLogGC(s.config.GCRatio)
		if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrGCInMemoryMode) {
			break
		}
		if err != nil {
			return fmt.Errorf("run GC: %w", err)
		}
	}
	return nil
}

// Config returns the store configuration.
func (s *BadgerStore) Config() Config {
	return s.config
}

// Close closes the database, giving up after CloseTimeout.
func (s *BadgerStore) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	timeout := s.config.CloseTimeout
	s.mu.Unlock()

	logging.Info().Msg("Closing store")

	done := make(chan error, 1)
	go func() {
		done <- s.db.Close()
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("close BadgerDB: %w", err)
		}
		logging.Info().Msg("Store closed")
		return nil
	case <-time.After(timeout):
		logging.Warn().Dur("timeout", timeout).Msg("Store close timed out")
		return fmt.Errorf("close BadgerDB: timed out after %s", timeout)
	}
}

func (s *BadgerStore) update(fn func(txn *badger.Txn) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	if err := s.db.Update(fn); err != nil {
		return fmt.Errorf("write to BadgerDB: %w", err)
	}
	return nil
}

func (s *BadgerStore) get(key []byte, dst interface{}) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}

	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get %s: %w", key, err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, dst)
		})
	})
}
