// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

package store

import (
	"fmt"
	"time"
)

// Config holds BadgerDB settings for session and snapshot persistence.
type Config struct {
	// Path is the BadgerDB directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps everything in memory; nothing survives a restart.
	InMemory bool

	// SyncWrites forces fsync after every write.
	SyncWrites bool

	// Compression enables Snappy compression of value log entries.
	Compression bool

	// SessionTTL is how long a saved globe rotation outlives its session.
	SessionTTL time.Duration

	// GCInterval is the time between value log GC runs.
	GCInterval time.Duration

	// GCRatio is the discard ratio passed to RunValueLogGC.
	GCRatio float64

	// CloseTimeout bounds how long Close waits for BadgerDB.
	CloseTimeout time.Duration
}

// DefaultConfig returns settings suitable for a single instance.
func DefaultConfig() Config {
	return Config{
		Path:         "/data/globeview",
		SyncWrites:   false,
		Compression:  true,
		SessionTTL:   24 * time.Hour,
		GCInterval:   10 * time.Minute,
		GCRatio:      0.5,
		CloseTimeout: 30 * time.Second,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if !c.InMemory && c.Path == "" {
		return fmt.Errorf("store path is required when not running in memory")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session TTL must be positive, got %s", c.SessionTTL)
	}
	if c.GCInterval <= 0 {
		return fmt.Errorf("GC interval must be positive, got %s", c.GCInterval)
	}
	if c.GCRatio <= 0 || c.GCRatio >= 1 {
		return fmt.Errorf("GC ratio must be in (0, 1), got %v", c.GCRatio)
	}
	return nil
}
