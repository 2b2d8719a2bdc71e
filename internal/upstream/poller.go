// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

package upstream

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/globeview/internal/choropleth"
	"github.com/tomtom215/globeview/internal/logging"
	"github.com/tomtom215/globeview/internal/metrics"
)

// RowsPersister saves an accepted row set.
type RowsPersister interface {
	SaveRows(ctx context.Context, rows []choropleth.Row, updatedAt time.Time) error
}

// Poller periodically fetches rows and publishes them to a choropleth.Store.
// A failed poll keeps the current snapshot.
type Poller struct {
	fetcher  RowFetcher
	rows     *choropleth.Store
	persist  RowsPersister
	interval time.Duration
	events   *logging.EventLogger

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	wg       sync.WaitGroup
	lastErr  error
	lastPoll time.Time
	failures int
}

// NewPoller creates a poller. persist may be nil.
func NewPoller(fetcher RowFetcher, rows *choropleth.Store, persist RowsPersister, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Poller{
		fetcher:  fetcher,
		rows:     rows,
		persist:  persist,
		interval: interval,
		events:   logging.NewEventLogger(),
	}
}

// Start begins the polling loop. The first poll runs immediately.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = true
	p.stopChan = make(chan struct{})
	p.mu.Unlock()

	logging.Info().Dur("interval", p.interval).Msg("Starting upstream poller")

	p.wg.Add(1)
	go p.pollLoop(ctx)
	return nil
}

// Stop stops the polling loop and waits for an in-flight poll.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.stopChan)
	p.mu.Unlock()

	p.wg.Wait()
	logging.Info().Msg("Upstream poller stopped")
}

// IsRunning returns whether the loop is active.
func (p *Poller) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// LastResult returns when the last poll finished and its error.
func (p *Poller) LastResult() (time.Time, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastPoll, p.lastErr
}

func (p *Poller) pollLoop(ctx context.Context) {
	defer p.wg.Done()

	_ = p.Poll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopChan:
			return
		case <-ticker.C:
			_ = p.Poll(ctx)
		}
	}
}

// Poll fetches once and publishes the result.
func (p *Poller) Poll(ctx context.Context) error {
	start := time.Now()
	rows, err := p.fetcher.FetchRows(ctx)
	metrics.RecordUpstreamFetch(time.Since(start), err)

	if err == nil {
		var snap *choropleth.Snapshot
		snap, err = p.rows.Replace(rows)
		if err == nil {
			metrics.UpdateDataset(snap.Len(), snap.MaxVisitors(), snap.Version())
			p.events.LogRowsReplaced(ctx, "upstream", snap.Version(), snap.Len())
			if p.persist != nil {
				if perr := p.persist.SaveRows(ctx, snap.Rows(), snap.UpdatedAt()); perr != nil {
					logging.Warn().Err(perr).Msg("Failed to persist upstream rows")
				}
			}
		}
	}
	p.mu.Lock()
	p.lastPoll = time.Now()
	p.lastErr = err
	if err != nil {
		p.failures++
	} else {
		p.failures = 0
	}
	failures := p.failures
	p.mu.Unlock()

	if err != nil {
		p.events.LogUpstreamFailure(err, failures)
	}
	return err
}
