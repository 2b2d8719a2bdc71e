// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

/*
Package store persists globe state in BadgerDB.

Two kinds of records are kept:

  - rotation:<session id> holds the last rotation of a globe session, written
    when the session's WebSocket closes and read when a client reconnects with
    the same session id. Entries expire after SessionTTL.
  - rows:last holds the last accepted row set, so a restart renders the
    previous data instead of a loading skeleton while the first upstream
    poll is in flight.

Values are JSON encoded with goccy/go-json. Rotations are normalized on
decode, so whatever is read back satisfies the latitude bound and has a
zero roll.

# Usage

	s, err := store.Open(cfg)
	if err != nil {
	    return err
	}
	defer s.Close()

	_ = s.SaveRotation(ctx, sessionID, ctrl.Rotation())
	v, err := s.LoadRotation(ctx, sessionID)
	if errors.Is(err, store.ErrNotFound) {
	    v = globe.RotationVector{}
	}

The Compactor runs value log GC on an interval and is supervised as a data
layer service.
*/
package store
