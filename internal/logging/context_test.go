// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

package logging

import (
	"context"
	"testing"
)

func TestContextIDs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if RequestIDFromContext(ctx) != "" || CorrelationIDFromContext(ctx) != "" {
		t.Fatal("empty context returned IDs")
	}

	ctx = ContextWithRequestID(ctx, "req-42")
	ctx = ContextWithCorrelationID(ctx, "corr-7")
	if got := RequestIDFromContext(ctx); got != "req-42" {
		t.Errorf("RequestIDFromContext() = %q", got)
	}
	if got := CorrelationIDFromContext(ctx); got != "corr-7" {
		t.Errorf("CorrelationIDFromContext() = %q", got)
	}
}

func TestContextWithNewCorrelationID(t *testing.T) {
	t.Parallel()

	a := CorrelationIDFromContext(ContextWithNewCorrelationID(context.Background()))
	b := CorrelationIDFromContext(ContextWithNewCorrelationID(context.Background()))
	if len(a) != 8 || len(b) != 8 {
		t.Fatalf("correlation IDs %q, %q: want 8 characters", a, b)
	}
	if a == b {
		t.Error("two fresh correlation IDs are equal")
	}
}

func TestCtx(t *testing.T) {
	buf := captureGlobal(t, Config{Level: "info"})

	ctx := ContextWithCorrelationID(ContextWithRequestID(context.Background(), "req-1"), "corr-1")
	Ctx(ctx).Info().Msg("with ids")

	m := decodeLine(t, buf.Bytes())
	if m["request_id"] != "req-1" || m["correlation_id"] != "corr-1" {
		t.Errorf("entry = %v", m)
	}

	buf.Reset()
	Ctx(context.Background()).Info().Msg("without ids")
	m = decodeLine(t, buf.Bytes())
	if _, ok := m["request_id"]; ok {
		t.Errorf("entry without IDs carries request_id: %v", m)
	}
}
