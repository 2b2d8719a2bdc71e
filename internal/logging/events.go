// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

package logging

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// EventLogger logs globe lifecycle events: sessions opening and closing,
// country picks, snapshot replacements and upstream failures. Session IDs and
// upstream errors pass through the sanitizers before they reach the output.
type EventLogger struct {
	logger zerolog.Logger
}

// NewEventLogger creates an event logger on top of the global logger.
func NewEventLogger() *EventLogger {
	return &EventLogger{
		logger: Logger().With().Str("component", "globe").Logger(),
	}
}

// NewEventLoggerWithLogger creates an EventLogger with a custom logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewEventLoggerWithLogger(logger zerolog.Logger) *EventLogger {
	return &EventLogger{
		logger: logger.With().Str("component", "globe").Logger(),
	}
}

// WithFields returns a new EventLogger with additional default fields.
func (e *EventLogger) WithFields(fields map[string]interface{}) *EventLogger {
	ctx := e.logger.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &EventLogger{logger: ctx.Logger()}
}

// Debug logs a debug message.
func (e *EventLogger) Debug(msg string, fields ...interface{}) {
	addFieldPairs(e.logger.Debug(), fields).Msg(msg)
}

// Info logs an info message.
func (e *EventLogger) Info(msg string, fields ...interface{}) {
	addFieldPairs(e.logger.Info(), fields).Msg(msg)
}

// Warn logs a warning message.
func (e *EventLogger) Warn(msg string, fields ...interface{}) {
	addFieldPairs(e.logger.Warn(), fields).Msg(msg)
}

// InfoContext logs an info message carrying the request and correlation IDs
// found in ctx.
func (e *EventLogger) InfoContext(ctx context.Context, msg string, fields ...interface{}) {
	logger := e.loggerWithContext(ctx)
	addFieldPairs(logger.Info(), fields).Msg(msg)
}

// WarnContext logs a warning message with context.
func (e *EventLogger) WarnContext(ctx context.Context, msg string, fields ...interface{}) {
	logger := e.loggerWithContext(ctx)
	addFieldPairs(logger.Warn(), fields).Msg(msg)
}

func (e *EventLogger) loggerWithContext(ctx context.Context) zerolog.Logger {
	logCtx := e.logger.With()
	if correlationID := CorrelationIDFromContext(ctx); correlationID != "" {
		logCtx = logCtx.Str("correlation_id", correlationID)
	}
	if requestID := RequestIDFromContext(ctx); requestID != "" {
		logCtx = logCtx.Str("request_id", requestID)
	}
	return logCtx.Logger()
}

// LogSessionStarted logs a globe session attaching to a connection.
func (e *EventLogger) LogSessionStarted(sessionID string, restored bool, lon, lat float64) {
	e.Info("globe session started",
		"session_id", sessionID,
		"restored", restored,
		"longitude", lon,
		"latitude", lat,
	)
}

// LogSessionEnded logs a session teardown with its lifetime and final rotation.
func (e *EventLogger) LogSessionEnded(sessionID string, lifetime time.Duration, lon, lat float64) {
	e.Info("globe session ended",
		"session_id", sessionID,
		"duration_ms", lifetime.Milliseconds(),
		"longitude", lon,
		"latitude", lat,
	)
}

// LogCountryPicked logs a click that resolved to a marked country. An empty
// code means the selection was cleared.
func (e *EventLogger) LogCountryPicked(sessionID, code string) {
	if code == "" {
		e.Debug("country selection cleared", "session_id", sessionID)
		return
	}
	e.Debug("country picked", "session_id", sessionID, "country_code", code)
}

// LogRowsReplaced logs a new snapshot becoming current.
func (e *EventLogger) LogRowsReplaced(ctx context.Context, source string, version uint64, rows int) {
	e.InfoContext(ctx, "visitor metrics replaced",
		"source", source,
		"version", version,
		"rows", rows,
	)
}

// LogUpstreamFailure logs a failed poll of the upstream analytics API.
func (e *EventLogger) LogUpstreamFailure(err error, consecutive int) {
	e.logger.Warn().
		Str("error", SanitizeError(err.Error())).
		Int("consecutive_failures", consecutive).
		Msg("upstream poll failed")
}

// LogOriginRejected logs a WebSocket upgrade refused by the origin check.
func (e *EventLogger) LogOriginRejected(ctx context.Context, origin, remoteAddr string) {
	e.WarnContext(ctx, "websocket origin rejected",
		"origin", truncateString(origin, 200),
		"remote_addr", remoteAddr,
	)
}
