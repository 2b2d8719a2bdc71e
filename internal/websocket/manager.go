// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

package websocket

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/globeview/internal/choropleth"
	"github.com/tomtom215/globeview/internal/globe"
	"github.com/tomtom215/globeview/internal/logging"
	"github.com/tomtom215/globeview/internal/render"
	"github.com/tomtom215/globeview/internal/store"
)

// RotationStore persists session rotations across reconnects.
type RotationStore interface {
	LoadRotation(ctx context.Context, sessionID string) (globe.RotationVector, error)
	SaveRotation(ctx context.Context, sessionID string, v globe.RotationVector) error
}

// ManagerConfig wires sessions to the shared renderer and row store.
type ManagerConfig struct {
	Renderer *render.Renderer
	Rows     *choropleth.Store
	Hub      *Hub

	// Rotations may be nil, which disables persistence.
	Rotations RotationStore

	// FrameRate caps frames per second per session.
	FrameRate int

	Options globe.Options
	Tooltip render.TooltipLayout

	// StoreTimeout bounds rotation load and save.
	StoreTimeout time.Duration

	// Events defaults to logging.NewEventLogger().
	Events *logging.EventLogger
}

// Manager creates and tracks globe sessions.
type Manager struct {
	cfg ManagerConfig

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager validates cfg and returns a manager.
func NewManager(cfg ManagerConfig) (*Manager, error) {
	if cfg.Renderer == nil || cfg.Rows == nil || cfg.Hub == nil {
		return nil, fmt.Errorf("websocket manager requires a renderer, a row store and a hub")
	}
	if cfg.FrameRate <= 0 {
		cfg.FrameRate = 30
	}
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = 2 * time.Second
	}
	if cfg.Tooltip == (render.TooltipLayout{}) {
		cfg.Tooltip = render.DefaultTooltipLayout()
	}
	if cfg.Events == nil {
		cfg.Events = logging.NewEventLogger()
	}
	return &Manager{cfg: cfg, sessions: make(map[string]*Session)}, nil
}

// Serve starts a session on an upgraded connection and returns immediately.
// An empty params.ID gets a fresh UUID; a known ID restores its rotation.
func (m *Manager) Serve(conn *websocket.Conn, params SessionParams) *Session {
	if params.ID == "" {
		params.ID = uuid.NewString()
	}

	ctx, cancel := context.WithCancel(context.Background())

	var client *Client
	s := newSession(params, &m.cfg, func(msg Message) bool {
		return client.enqueue(msg)
	})
	m.restore(s)

	client = NewClient(m.cfg.Hub, conn, func(env Envelope) {
		if err := s.Post(func() { s.handle(env) }); err != nil {
			cancel()
		}
	}, cancel)

	m.track(s)
	client.Start()

	// The controller belongs to the session loop once Run starts.
	rot := s.ctrl.Rotation()
	m.cfg.Events.LogSessionStarted(s.id, s.restored, rot.Longitude, rot.Latitude)

	started := time.Now()
	go s.Run(ctx, func(final globe.RotationVector) {
		m.untrack(s)
		m.save(s.id, final)
		m.cfg.Events.LogSessionEnded(s.id, time.Since(started), final.Longitude, final.Latitude)
		// The hub may already have closed the queue on shutdown.
		m.cfg.Hub.Unregister(client)
	})
	return s
}

// ActiveSessions returns the number of running sessions.
func (m *Manager) ActiveSessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) track(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.id] = s
}

func (m *Manager) untrack(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sessions[s.id] == s {
		delete(m.sessions, s.id)
	}
}

func (m *Manager) restore(s *Session) {
	if m.cfg.Rotations == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), m.cfg.StoreTimeout)
	defer cancel()

	v, err := m.cfg.Rotations.LoadRotation(ctx, s.id)
	switch {
	case err == nil:
		s.ctrl.SetRotation(v)
		s.restored = true
	case errors.Is(err, store.ErrNotFound):
	default:
		logging.Warn().Err(err).Str("session_id", logging.SanitizeSessionID(s.id)).Msg("failed to restore globe rotation")
	}
}

func (m *Manager) save(id string, v globe.RotationVector) {
	if m.cfg.Rotations == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), m.cfg.StoreTimeout)
	defer cancel()

	if err := m.cfg.Rotations.SaveRotation(ctx, id, v); err != nil {
		logging.Warn().Err(err).Str("session_id", logging.SanitizeSessionID(id)).Msg("failed to save globe rotation")
		return
	}
	logging.Debug().Str("session_id", logging.SanitizeSessionID(id)).Float64("longitude", v.Longitude).Float64("latitude", v.Latitude).Msg("globe rotation saved")
}
