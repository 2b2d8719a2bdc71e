// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

package services

import (
	"context"
	"time"

	"github.com/tomtom215/globeview/internal/logging"
)

// ExpiringCache is satisfied by *cache.LRU.
type ExpiringCache interface {
	CleanupExpired() int
}

// CacheJanitorService periodically drops expired entries from a TTL cache,
// so frames for rotations nobody requests again do not hold memory until
// they are evicted by size.
type CacheJanitorService struct {
	cache    ExpiringCache
	interval time.Duration
	name     string
}

// NewCacheJanitorService sweeps c every interval. A non-positive interval
// means one minute.
func NewCacheJanitorService(name string, c ExpiringCache, interval time.Duration) *CacheJanitorService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &CacheJanitorService{cache: c, interval: interval, name: name}
}

// Serve implements suture.Service.
func (j *CacheJanitorService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if n := j.cache.CleanupExpired(); n > 0 {
				logging.Debug().Str("cache", j.name).Int("expired", n).Msg("expired cache entries removed")
			}
		}
	}
}

func (j *CacheJanitorService) String() string {
	return j.name
}
