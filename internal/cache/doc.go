// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

/*
Package cache provides the LRU used to reuse rendered globe frames.

The static SVG endpoint is hit with the same few rotations over and over
(embeds, thumbnails, link previews), so frames are cached under a FrameKey
built from the quantized rotation, viewport, selection and snapshot version.
A new snapshot version changes every key, which retires stale frames without
an explicit purge; the TTL and capacity bound whatever is left behind.

# Usage

	frames := cache.NewLRU[string]("frame", 512, 10*time.Minute)

	key := cache.NewFrameKey(lon, lat, w, h, selected, snap.Version(), 0.5)
	svg, hit := frames.GetOrAdd(key.String(), func() string {
	    return renderer.Render(rotation, snap, selected, vp)
	})

# Metrics

Every LRU reports cache_hits_total, cache_misses_total, cache_entries and
cache_evictions_total with its name as the cache_type label.
*/
package cache
