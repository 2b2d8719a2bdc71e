// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

// Package choropleth holds the per-country visitor rows and turns them into
// fill colors.
//
// Rows are published as immutable Snapshots through a Store. A renderer reads
// one snapshot for the whole frame, so a concurrent update never produces a
// half-old, half-new globe. MaxVisitors is recomputed per snapshot and never
// drops below 1, which keeps Intensity defined for an all-zero row set.
package choropleth
