// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/globeview/internal/choropleth"
	"github.com/tomtom215/globeview/internal/config"
	"github.com/tomtom215/globeview/internal/geo"
	"github.com/tomtom215/globeview/internal/render"
)

func testConfig() *config.Config {
	return &config.Config{
		Security: config.SecurityConfig{
			RateLimitDisabled: true,
			CORSOrigins:       []string{"https://analytics.example.com"},
		},
		Globe: config.GlobeConfig{DefaultWidth: 400, DefaultHeight: 400},
		Choropleth: config.ChoroplethConfig{
			LegendSteps: 5,
			Locale:      "en",
		},
		Cache: config.CacheConfig{
			FrameCapacity: 16,
			FrameTTL:      time.Minute,
			QuantizeStep:  0.5,
		},
		WebSocket: config.WebSocketConfig{HandshakeTimeout: 5 * time.Second},
	}
}

var (
	rendererOnce sync.Once
	testRenderer *render.Renderer
	rendererErr  error
)

// newTestRenderer shares one renderer over the embedded dataset.
func newTestRenderer(t *testing.T) *render.Renderer {
	t.Helper()
	rendererOnce.Do(func() {
		ds, err := geo.Default()
		if err != nil {
			rendererErr = err
			return
		}
		testRenderer = render.NewRenderer(ds, choropleth.DefaultPalette())
	})
	if rendererErr != nil {
		t.Fatalf("geo.Default() error = %v", rendererErr)
	}
	return testRenderer
}

// memoryPersister records SaveRows calls.
type memoryPersister struct {
	mu    sync.Mutex
	calls int
	rows  []choropleth.Row
	err   error
}

func (p *memoryPersister) SaveRows(_ context.Context, rows []choropleth.Row, _ time.Time) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	p.rows = rows
	return p.err
}

func (p *memoryPersister) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// fakeUpstream reports a fixed poller state.
type fakeUpstream struct {
	running bool
	at      time.Time
	err     error
}

func (f fakeUpstream) IsRunning() bool                { return f.running }
func (f fakeUpstream) LastResult() (time.Time, error) { return f.at, f.err }

var errUpstreamDown = errors.New("upstream returned 502")

type testServer struct {
	handler *Handler
	rows    *choropleth.Store
	persist *memoryPersister
	router  http.Handler
}

// newTestServer builds a handler without sessions. A nil rows slice leaves
// the store loading; an empty one publishes an empty snapshot.
func newTestServer(t *testing.T, rows []choropleth.Row) *testServer {
	t.Helper()
	store := choropleth.NewStore()
	if rows != nil {
		if _, err := store.Replace(rows); err != nil {
			t.Fatalf("Replace() error = %v", err)
		}
	}
	cfg := testConfig()
	persist := &memoryPersister{}
	h := NewHandler(cfg, newTestRenderer(t), store, nil, nil, persist)
	router := NewRouter(h, NewChiMiddlewareFromConfig(cfg.Security))
	return &testServer{handler: h, rows: store, persist: persist, router: router.SetupChi()}
}

func (s *testServer) do(t *testing.T, method, target string, body io.Reader, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(method, target, body)
	for k, v := range header {
		r.Header[k] = v
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, r)
	return w
}

func sampleRows() []choropleth.Row {
	pv := int64(4200)
	return []choropleth.Row{
		{CountryCode: "US", Visitors: 1200, Pageviews: &pv, BounceRate: 42.5, AvgDurationSeconds: 95},
		{CountryCode: "DE", Visitors: 300, BounceRate: 30, AvgDurationSeconds: 120},
		{CountryCode: "BR", Visitors: 75, BounceRate: 55, AvgDurationSeconds: 40},
	}
}
