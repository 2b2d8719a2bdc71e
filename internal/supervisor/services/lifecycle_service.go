// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

package services

import (
	"context"
	"fmt"
)

// StartStopper is a background loop with a Start/Stop lifecycle.
//
// Satisfied by *store.Compactor and *upstream.Poller.
type StartStopper interface {
	Start(ctx context.Context) error
	Stop()
	IsRunning() bool
}

// LoopService adapts a StartStopper to suture's Serve. Stop blocks until
// the loop goroutine exits, so a restarted service never overlaps the
// previous one.
type LoopService struct {
	loop StartStopper
	name string
}

// NewLoopService wraps loop under name.
func NewLoopService(name string, loop StartStopper) *LoopService {
	return &LoopService{loop: loop, name: name}
}

// NewCompactorService wraps the badger value-log compactor.
func NewCompactorService(c StartStopper) *LoopService {
	return NewLoopService("store-compactor", c)
}

// NewPollerService wraps the upstream analytics poller.
func NewPollerService(p StartStopper) *LoopService {
	return NewLoopService("upstream-poller", p)
}

// Serve implements suture.Service. A failed Start is returned so the
// supervisor backs off and retries.
func (s *LoopService) Serve(ctx context.Context) error {
	if err := s.loop.Start(ctx); err != nil {
		return fmt.Errorf("%s start failed: %w", s.name, err)
	}
	<-ctx.Done()
	s.loop.Stop()
	return ctx.Err()
}

func (s *LoopService) String() string {
	return s.name
}
