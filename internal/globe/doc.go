// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

/*
Package globe implements the interaction model of the rotatable globe: the
rotation engine, the drag controller, and the state machine that arbitrates
between them.

# State Machine

	             pointerdown                    pointerup / cancel
	AutoRotating ───────────► Dragging ────────────────────────► Paused
	     ▲                       ▲                                 │
	     │                       └────────── pointerdown ──────────┤
	     └──────────────── resume timer (2500ms) ──────────────────┘

The initial state is AutoRotating. There is no terminal state; Close tears
down the pending resume timer and makes every later call a no-op.

# Concurrency

A Controller is not safe for concurrent use. It models a single-threaded
event loop: the owner must deliver pointer events, animation ticks and timer
callbacks from one goroutine. The websocket session does this by funneling
every source through one channel. Timer callbacks are guarded by a token, so
a callback that was already queued when the timer was cancelled does nothing.

# Time

Ticks carry their own timestamp and the engine advances by the elapsed time
since the previous tick, so rotation speed does not depend on frame rate.
Timers go through the Scheduler interface; ManualScheduler drives them from
a simulated clock in tests.
*/
package globe
