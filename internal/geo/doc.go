// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

/*
Package geo holds the static country geometry and the spherical math used to
draw it on a globe.

# Overview

The package provides:
  - Dataset: country shapes decoded once from GeoJSON or TopoJSON
  - Numeric topology id to ISO 3166-1 alpha-2 lookup (AlphaForNumeric)
  - Orthographic: forward and inverse orthographic projection for a rotation
  - GridIndex: a lon/lat cell index used to find the shape under a point

# Dataset

The Natural Earth 1:110m admin-0 countries (public domain, 177 features,
coordinates rounded to three decimals) are embedded in the binary and used
when no dataset path is configured. Operators can point dataset.path at a
finer Natural Earth or world-atlas file instead:

	ds, err := geo.LoadFile("/data/countries-110m.json")
	if err != nil {
	    return err
	}

Shape ids are normalized to 3-digit zero-padded strings ("4" becomes "004").
Ids without an alpha-2 mapping (world-atlas uses "-99" for disputed areas)
keep an empty Code. Such shapes are drawn but never hit-tested to a country.

# Thread Safety

A Dataset is immutable after loading and safe for concurrent use.
*/
package geo
