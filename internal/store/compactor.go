// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

package store

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/globeview/internal/logging"
	"github.com/tomtom215/globeview/internal/metrics"
)

// Compactor runs BadgerDB value log GC on an interval. Expired rotations
// are dropped by Badger itself; GC reclaims the space they held.
type Compactor struct {
	store    *BadgerStore
	interval time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	running bool
	lastRun time.Time
}

// NewCompactor creates a compactor for s using its GC interval.
func NewCompactor(s *BadgerStore) *Compactor {
	return &Compactor{
		store:    s,
		interval: s.config.GCInterval,
	}
}

// Start begins the background GC loop.
func (c *Compactor) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return nil
	}
	ctx, c.cancel = context.WithCancel(ctx)
	c.running = true
	c.mu.Unlock()

	c.wg.Add(1)
	go c.run(ctx)

	logging.Info().Dur("interval", c.interval).Msg("Store compactor started")
	return nil
}

// Stop stops the loop and waits for it to exit.
func (c *Compactor) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.cancel()
	c.running = false
	c.mu.Unlock()

	c.wg.Wait()
	logging.Info().Msg("Store compactor stopped")
}

// IsRunning returns whether the compactor is active.
func (c *Compactor) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// LastRun returns when GC last completed.
func (c *Compactor) LastRun() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastRun
}

func (c *Compactor) run(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.compact()
		}
	}
}

func (c *Compactor) compact() {
	err := c.store.RunGC()
	metrics.RecordStoreOperation("gc", err)
	if err != nil {
		logging.Error().Err(err).Msg("Store GC failed")
		return
	}

	c.mu.Lock()
	c.lastRun = time.Now()
	c.mu.Unlock()

	if n, err := c.store.CountRotations(); err == nil {
		logging.Debug().Int("sessions", n).Msg("Store GC complete")
	}
}
