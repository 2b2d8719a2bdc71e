// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

// Package logging provides centralized zerolog-based structured logging for Globeview.
//
// JSON output is the production format; console output is for development.
// Every package logs through the global logger configured here, so a single
// LOG_LEVEL change applies to the HTTP layer, the globe sessions and the
// supervisor alike.
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Int("port", 3857).Msg("HTTP server listening")
//	logging.Error().Err(err).Msg("failed to open badger store")
//
//	// Request-scoped, carries request_id and correlation_id
//	logging.Ctx(ctx).Info().Msg("visitor metrics replaced")
//
// # Configuration
//
//	LOG_LEVEL   - trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  - json, console (default: json)
//	LOG_CALLER  - include caller file:line (default: false)
//
// Always terminate log chains with .Msg() or .Send(); an unterminated chain
// emits nothing.
//
// # Globe Events
//
// EventLogger wraps the global logger with component=globe and domain
// methods for session start and end, country picks, snapshot replacement,
// upstream poll failures and rejected WebSocket origins:
//
//	events := logging.NewEventLogger()
//	events.LogSessionStarted(id, restored, rot.Longitude, rot.Latitude)
//
// Session IDs arrive from clients and upstream errors may echo request
// headers, so both are passed through SanitizeSessionID and SanitizeError.
//
// # slog Adapter
//
// SlogHandler exposes zerolog as an slog.Handler for sutureslog:
//
//	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), cfg)
//
// # Testing
//
//	var buf bytes.Buffer
//	logger := logging.NewTestLogger(&buf)
//	logger.Info().Msg("test message")
//
// # Thread Safety
//
// All exported functions are safe for concurrent use. Init and SetLogger swap
// the global logger atomically.
package logging
