// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

// Package render draws the choropleth globe as SVG and resolves pointer
// positions to countries.
//
// Render is a pure function of (rotation, snapshot, selection, viewport).
// Every country path carries its numeric topology id as data-id; a path also
// carries data-code when its country has a row in the snapshot, which is the
// same rule HitTest uses to decide whether a tooltip appears.
package render
