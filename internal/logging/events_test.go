// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newBufferedEventLogger() (*EventLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewEventLoggerWithLogger(zerolog.New(&buf)), &buf
}

func TestEventLogger_SessionLifecycle(t *testing.T) {
	log, buf := newBufferedEventLogger()

	log.LogSessionStarted("sess-1", true, 12.5, -3)
	out := buf.String()
	for _, want := range []string{`"component":"globe"`, `"session_id":"sess-1"`, `"restored":true`, "globe session started"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in output: %s", want, out)
		}
	}

	buf.Reset()
	log.LogSessionEnded("sess-1", 1500*time.Millisecond, 0, 0)
	if !strings.Contains(buf.String(), `"duration_ms":1500`) {
		t.Errorf("expected duration in output: %s", buf.String())
	}
}

func TestEventLogger_RowsReplacedCarriesRequestID(t *testing.T) {
	log, buf := newBufferedEventLogger()

	ctx := ContextWithRequestID(context.Background(), "req-42")
	log.LogRowsReplaced(ctx, "api", 7, 120)

	out := buf.String()
	for _, want := range []string{`"request_id":"req-42"`, `"source":"api"`, `"version":7`, `"rows":120`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in output: %s", want, out)
		}
	}
}

func TestEventLogger_UpstreamFailureRedacts(t *testing.T) {
	log, buf := newBufferedEventLogger()

	log.LogUpstreamFailure(errors.New("401 Unauthorized: Bearer sk_live_secret"), 3)

	out := buf.String()
	if strings.Contains(out, "sk_live_secret") {
		t.Errorf("credential leaked into log: %s", out)
	}
	if !strings.Contains(out, `"consecutive_failures":3`) {
		t.Errorf("expected failure count in output: %s", out)
	}
}

func TestEventLogger_CountryPickedLevels(t *testing.T) {
	var buf bytes.Buffer
	log := NewEventLoggerWithLogger(zerolog.New(&buf).Level(zerolog.InfoLevel))

	log.LogCountryPicked("s", "DE")
	if buf.Len() != 0 {
		t.Errorf("country picks should log at debug: %s", buf.String())
	}
}

func TestEventLogger_WithFields(t *testing.T) {
	log, buf := newBufferedEventLogger()

	log.WithFields(map[string]interface{}{"remote_addr": "10.0.0.1"}).Info("hello", "k", 1)
	out := buf.String()
	if !strings.Contains(out, "10.0.0.1") || !strings.Contains(out, `"k":1`) {
		t.Errorf("missing fields: %s", out)
	}
}
