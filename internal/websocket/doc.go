// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

/*
Package websocket serves interactive globe sessions over WebSocket.

Each connection gets its own Session: a drag controller and rotation engine
driven by pointer events from the browser, rendered server-side into SVG
frames. The Hub tracks every connection and fans out dataset updates.

Key Components:

  - Hub: connection registry and broadcaster for data_updated events
  - Client: one connection with read and write goroutines
  - Session: the per-connection globe loop
  - Manager: creates sessions and persists their rotation on close

Architecture:

	browser ──pointer events──▶ Client.readPump ──Post──▶ Session loop
	browser ◀──frame / hello── Client.writePump ◀─────── Session loop
	                                  ▲
	            Hub.BroadcastDataUpdated (row store subscriber)

The session loop owns the controller. Inbound messages and resume timer
callbacks are queued on its events channel; the frame ticker runs at the
configured frame rate and only pushes a frame when the rotation, tooltip,
selection, viewport or snapshot changed. Queued events always run before the
next tick.

Message Types:

Server to client:

  - hello: session id, restored rotation, viewport
  - frame: state, rotation, tooltip, selection and the SVG
  - country_selected: a click picked a marked country
  - data_updated: a new row snapshot was published
  - pong, error

Client to server:

  - pointerdown, pointermove, pointerup, pointercancel ({pointer_id, x, y})
  - pointerleave, click ({x, y}), select ({country_code}), resize ({width, height})
  - ping

While the row snapshot is loading, frames carry the skeleton globe, the
rotation engine is suspended and pointerdown, pointermove and click are
ignored.

Usage:

	hub := websocket.NewHub()
	go hub.RunWithContext(ctx)
	stop := hub.WatchRows(rows)
	defer stop()

	mgr, err := websocket.NewManager(websocket.ManagerConfig{
	    Renderer:  renderer,
	    Rows:      rows,
	    Hub:       hub,
	    Rotations: badgerStore,
	})

	// in the /ws handler, after Upgrade
	mgr.Serve(conn, websocket.SessionParams{ID: r.URL.Query().Get("session"), Viewport: vp})

Thread Safety:

Hub and Manager are safe for concurrent use. Session state is only touched
on its loop goroutine; use Post to run code there.
*/
package websocket
