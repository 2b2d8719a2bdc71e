// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

package websocket

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/globeview/internal/choropleth"
	"github.com/tomtom215/globeview/internal/globe"
	"github.com/tomtom215/globeview/internal/logging"
	"github.com/tomtom215/globeview/internal/metrics"
	"github.com/tomtom215/globeview/internal/render"
	"github.com/tomtom215/globeview/internal/validation"
)

// ErrSessionClosed is returned by Post after the session has stopped.
var ErrSessionClosed = errors.New("globe session closed")

// loopScheduler arms real timers whose callbacks run on the session loop.
type loopScheduler struct {
	post func(func()) error
}

// AfterFunc implements globe.Scheduler. *time.Timer satisfies globe.Timer.
func (s loopScheduler) AfterFunc(d time.Duration, f func()) globe.Timer {
	return time.AfterFunc(d, func() {
		_ = s.post(f)
	})
}

// SessionParams are the per-connection settings.
type SessionParams struct {
	ID       string
	Viewport render.Viewport
	Selected string
	Locale   string
}

// Session is one interactive globe. Its controller is owned by the loop
// goroutine; inbound messages, timer callbacks and frame ticks all reach it
// through the events channel or the ticker in Run.
type Session struct {
	id       string
	ctrl     *globe.Controller
	hit      *render.SessionHitTester
	renderer *render.Renderer
	rows     *choropleth.Store
	layout   render.TooltipLayout
	locale   string
	interval time.Duration
	log      *logging.EventLogger

	out func(Message) bool

	events    chan func()
	done      chan struct{}
	closeOnce sync.Once

	// Loop-owned state.
	vp        render.Viewport
	selected  string
	snap      *choropleth.Snapshot
	dirty     bool
	suspended bool
	restored  bool
}

func newSession(p SessionParams, cfg *ManagerConfig, out func(Message) bool) *Session {
	s := &Session{
		id:       p.ID,
		renderer: cfg.Renderer,
		rows:     cfg.Rows,
		layout:   cfg.Tooltip,
		locale:   p.Locale,
		log:      cfg.Events,
		interval: time.Second / time.Duration(cfg.FrameRate),
		out:      out,
		events:   make(chan func(), 64),
		done:     make(chan struct{}),
		vp:       p.Viewport,
		selected: strings.ToUpper(p.Selected),
		dirty:    true,
	}
	s.snap = s.rows.Current()
	s.hit = &render.SessionHitTester{Renderer: s.renderer, Snapshot: s.snap, Viewport: s.vp}
	s.ctrl = globe.NewController(
		loopScheduler{post: s.Post},
		s.hit,
		cfg.Options,
		globe.WithPickHandler(s.onPick),
		globe.WithTransitionHook(s.onTransition),
	)
	return s
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// Post queues fn to run on the session loop. It blocks while the queue is
// full and fails once the session has stopped.
func (s *Session) Post(fn func()) error {
	select {
	case <-s.done:
		return ErrSessionClosed
	default:
	}
	select {
	case s.events <- fn:
		return nil
	case <-s.done:
		return ErrSessionClosed
	}
}

// Run drives the session until ctx is canceled. teardown runs on the loop
// goroutine after the controller is closed and receives its final rotation.
func (s *Session) Run(ctx context.Context, teardown func(globe.RotationVector)) {
	metrics.GlobeSessions.Inc()
	defer metrics.GlobeSessions.Dec()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	defer func() {
		s.ctrl.Close()
		s.closeOnce.Do(func() { close(s.done) })
		if teardown != nil {
			teardown(s.ctrl.Rotation())
		}
	}()

	s.send(MessageTypeHello, HelloData{
		SessionID: s.id,
		Rotation:  s.ctrl.Rotation(),
		Restored:  s.restored,
		Width:     s.vp.Width,
		Height:    s.vp.Height,
	})

	for {
		// Queued events are applied before the next tick reads the
		// controller state.
		select {
		case <-ctx.Done():
			return
		case fn := <-s.events:
			fn()
			continue
		default:
		}

		select {
		case <-ctx.Done():
			return
		case fn := <-s.events:
			fn()
		case now := <-ticker.C:
			s.tick(now)
		}
	}
}

// tick advances the rotation engine and pushes a frame if anything changed.
func (s *Session) tick(now time.Time) {
	s.syncSnapshot()

	if s.snap.Loading() {
		if !s.suspended {
			s.ctrl.ResetClock()
			s.suspended = true
			s.dirty = true
		}
	} else {
		if s.suspended {
			s.suspended = false
			s.dirty = true
		}
		if s.ctrl.Tick(now) {
			s.ctrl.Refresh()
			s.dirty = true
		}
	}

	if s.dirty {
		s.pushFrame()
	}
}

// syncSnapshot picks up a new row snapshot.
func (s *Session) syncSnapshot() {
	cur := s.rows.Current()
	if cur == s.snap {
		return
	}
	s.snap = cur
	s.hit.Snapshot = cur
	s.ctrl.Refresh()
	s.dirty = true
}

func (s *Session) pushFrame() {
	frame := FrameData{
		State:      s.ctrl.State().String(),
		Rotation:   s.ctrl.Rotation(),
		AutoRotate: s.ctrl.AutoRotate(),
		Tooltip:    render.DescribeTooltip(s.ctrl.Tooltip(), s.snap, s.vp, s.layout, s.locale),
		Selected:   s.selected,
		Loading:    s.snap.Loading(),
		Version:    s.snap.Version(),
		SVG:        s.renderer.Render(s.ctrl.Rotation(), s.snap, s.selected, s.vp),
	}
	// A dropped frame stays dirty and is retried on the next tick.
	s.dirty = !s.send(MessageTypeFrame, frame)
}

func (s *Session) send(msgType string, data interface{}) bool {
	if s.out == nil {
		return true
	}
	return s.out(Message{Type: msgType, Data: data})
}

func (s *Session) sendError(code, message string) {
	s.send(MessageTypeError, ErrorData{Code: code, Message: message})
}

// handle applies one inbound message. It runs on the loop goroutine.
func (s *Session) handle(env Envelope) {
	s.syncSnapshot()
	// Drag and picks are disabled while the snapshot is loading; releasing
	// a pointer still ends a drag.
	interactive := !s.snap.Loading()

	switch env.Type {
	case MessageTypePointerDown, MessageTypePointerMove, MessageTypePointerUp, MessageTypePointerCancel:
		var p PointerPayload
		if !s.decode(env, &p) {
			return
		}
		switch env.Type {
		case MessageTypePointerDown:
			if interactive {
				s.mark(s.ctrl.PointerDown(p.PointerID, p.X, p.Y))
			}
		case MessageTypePointerMove:
			if interactive {
				s.mark(s.ctrl.PointerMove(p.PointerID, p.X, p.Y))
			}
		case MessageTypePointerUp:
			s.mark(s.ctrl.PointerUp(p.PointerID))
		case MessageTypePointerCancel:
			s.mark(s.ctrl.PointerCancel(p.PointerID))
		}

	case MessageTypePointerLeave:
		s.mark(s.ctrl.PointerLeave())

	case MessageTypeClick:
		var p ClickPayload
		if !s.decode(env, &p) || !interactive {
			return
		}
		s.ctrl.Click(p.X, p.Y)

	case MessageTypeSelect:
		var p SelectPayload
		if !s.decode(env, &p) {
			return
		}
		p.CountryCode = strings.ToUpper(strings.TrimSpace(p.CountryCode))
		if verr := validation.ValidateStruct(&p); verr != nil {
			s.sendError("VALIDATION_ERROR", verr.Error())
			return
		}
		if p.CountryCode != s.selected {
			s.selected = p.CountryCode
			s.dirty = true
		}

	case MessageTypeResize:
		var p ResizePayload
		if !s.decode(env, &p) {
			return
		}
		if verr := validation.ValidateStruct(&p); verr != nil {
			s.sendError("VALIDATION_ERROR", verr.Error())
			return
		}
		s.vp = render.Viewport{Width: p.Width, Height: p.Height}
		s.hit.Viewport = s.vp
		s.ctrl.Refresh()
		s.dirty = true

	default:
		s.sendError("BAD_REQUEST", "unknown message type "+env.Type)
	}
}

func (s *Session) decode(env Envelope, dst interface{}) bool {
	if len(env.Data) == 0 {
		s.sendError("BAD_REQUEST", env.Type+" requires data")
		return false
	}
	if err := json.Unmarshal(env.Data, dst); err != nil {
		metrics.WSErrors.WithLabelValues("decode").Inc()
		s.sendError("BAD_REQUEST", "invalid "+env.Type+" payload")
		return false
	}
	return true
}

func (s *Session) mark(changed bool) {
	if changed {
		s.dirty = true
	}
}

// onPick toggles the selection and reports the pick to the client.
func (s *Session) onPick(code string) {
	metrics.GlobeCountryPicks.Inc()
	if strings.EqualFold(s.selected, code) {
		s.selected = ""
	} else {
		s.selected = code
	}
	s.dirty = true
	s.send(MessageTypeCountrySelected, CountrySelectedData{CountryCode: code, Selected: s.selected})
	s.log.LogCountryPicked(s.id, s.selected)
}

func (s *Session) onTransition(from, to globe.State) {
	metrics.RecordStateTransition(from.String(), to.String())
	s.dirty = true
}
