// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

package globe

import "time"

// State is the combined drag controller / rotation engine state.
type State int

const (
	// StateAutoRotating is idle with auto-rotation enabled (initial state).
	StateAutoRotating State = iota
	// StatePaused is idle while the resume timer is pending.
	StatePaused
	// StateDragging means a pointer owns the rotation.
	StateDragging
)

// String returns the wire name of the state.
func (s State) String() string {
	switch s {
	case StateAutoRotating:
		return "idle_auto_rotating"
	case StatePaused:
		return "idle_paused"
	case StateDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// DragSession exists between pointer-down and pointer-up/cancel.
type DragSession struct {
	PointerID int
	AnchorX   float64
	AnchorY   float64
}

// Tooltip is the country under the pointer, in container coordinates.
type Tooltip struct {
	CountryCode string  `json:"country_code"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
}

// HitTester resolves a container position to the code marker of the shape
// drawn there for a given rotation. It returns "" when the shape carries no
// marker or the position hits no shape.
type HitTester interface {
	MarkerAt(v RotationVector, x, y float64) string
}

// HitTesterFunc adapts a function to HitTester.
type HitTesterFunc func(v RotationVector, x, y float64) string

// MarkerAt calls f.
func (f HitTesterFunc) MarkerAt(v RotationVector, x, y float64) string {
	return f(v, x, y)
}

// Controller owns one globe's rotation vector and arbitrates between the
// rotation engine and the drag controller. See the package documentation
// for the threading contract.
type Controller struct {
	opts  Options
	sched Scheduler
	hit   HitTester

	onPick       func(code string)
	onTransition func(from, to State)

	rotation   RotationVector
	autoRotate bool
	drag       *DragSession
	tooltip    *Tooltip

	lastTick time.Time
	hasTick  bool

	resume      Timer
	resumeToken uint64
	closed      bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithPickHandler sets the callback invoked when Click resolves a country.
func WithPickHandler(fn func(code string)) Option {
	return func(c *Controller) {
		c.onPick = fn
	}
}

// WithTransitionHook sets a callback invoked after every state change.
func WithTransitionHook(fn func(from, to State)) Option {
	return func(c *Controller) {
		c.onTransition = fn
	}
}

// NewController creates a controller in the auto-rotating state.
func NewController(sched Scheduler, hit HitTester, opts Options, options ...Option) *Controller {
	opts = opts.withDefaults()
	c := &Controller{
		opts:       opts,
		sched:      sched,
		hit:        hit,
		rotation:   opts.Initial,
		autoRotate: true,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// State returns the current state.
func (c *Controller) State() State {
	switch {
	case c.drag != nil:
		return StateDragging
	case c.autoRotate:
		return StateAutoRotating
	default:
		return StatePaused
	}
}

// Rotation returns the current rotation vector.
func (c *Controller) Rotation() RotationVector {
	return c.rotation
}

// AutoRotate reports whether the auto-rotate flag is set.
func (c *Controller) AutoRotate() bool {
	return c.autoRotate
}

// Dragging reports whether a drag session is active.
func (c *Controller) Dragging() bool {
	return c.drag != nil
}

// Drag returns a copy of the active drag session, or nil.
func (c *Controller) Drag() *DragSession {
	if c.drag == nil {
		return nil
	}
	d := *c.drag
	return &d
}

// Tooltip returns a copy of the tooltip state, or nil.
func (c *Controller) Tooltip() *Tooltip {
	if c.tooltip == nil {
		return nil
	}
	t := *c.tooltip
	return &t
}

// Closed reports whether Close has been called.
func (c *Controller) Closed() bool {
	return c.closed
}

// SetRotation replaces the rotation, for example when a session is restored.
// It is ignored during a drag.
func (c *Controller) SetRotation(v RotationVector) {
	if c.closed || c.drag != nil {
		return
	}
	c.rotation = v.Normalized()
}

// Tick advances the rotation engine to timestamp ts and reports whether the
// rotation changed. The first tick only records the timestamp.
func (c *Controller) Tick(ts time.Time) bool {
	if c.closed {
		return false
	}
	if !c.hasTick {
		c.lastTick = ts
		c.hasTick = true
		return false
	}
	elapsed := ts.Sub(c.lastTick)
	if elapsed <= 0 {
		return false
	}
	c.lastTick = ts

	if c.drag != nil || !c.autoRotate {
		return false
	}
	c.rotation.Longitude += c.opts.AutoRotateSpeed * elapsed.Seconds()
	return true
}

// ResetClock forgets the previous tick so the next one starts a new delta.
// Used when the loop is suspended, for example while data is loading.
func (c *Controller) ResetClock() {
	c.hasTick = false
}

// PointerDown starts a drag for pointerID. It reports whether the pointer
// was captured; a second pointer is ignored while a drag is active.
func (c *Controller) PointerDown(pointerID int, x, y float64) bool {
	if c.closed || c.drag != nil {
		return false
	}
	prev := c.State()

	c.cancelResume()
	c.drag = &DragSession{PointerID: pointerID, AnchorX: x, AnchorY: y}
	c.autoRotate = false
	c.tooltip = nil

	c.notify(prev)
	return true
}

// PointerMove rotates the globe while dragging, otherwise it hit-tests the
// position to update the tooltip. It reports whether anything observable
// changed.
func (c *Controller) PointerMove(pointerID int, x, y float64) bool {
	if c.closed {
		return false
	}
	if c.drag == nil {
		return c.hover(x, y)
	}
	if pointerID != c.drag.PointerID {
		return false
	}

	dx := x - c.drag.AnchorX
	dy := y - c.drag.AnchorY
	c.drag.AnchorX, c.drag.AnchorY = x, y
	if dx == 0 && dy == 0 {
		return false
	}

	// Rightward drag increases longitude; upward drag (dy < 0) increases
	// latitude, bringing the southern hemisphere into view.
	c.rotation.Longitude += dx * c.opts.DragSensitivity
	c.rotation.Latitude = ClampLatitude(c.rotation.Latitude - dy*c.opts.DragSensitivity)
	return true
}

// PointerUp ends the drag owned by pointerID and arms the resume timer.
func (c *Controller) PointerUp(pointerID int) bool {
	return c.endDrag(pointerID)
}

// PointerCancel behaves like PointerUp.
func (c *Controller) PointerCancel(pointerID int) bool {
	return c.endDrag(pointerID)
}

func (c *Controller) endDrag(pointerID int) bool {
	if c.closed || c.drag == nil || c.drag.PointerID != pointerID {
		return false
	}
	prev := c.State()
	c.drag = nil
	c.armResume()
	c.notify(prev)
	return true
}

// PointerLeave clears the tooltip. A captured drag continues.
func (c *Controller) PointerLeave() bool {
	if c.closed || c.tooltip == nil {
		return false
	}
	c.tooltip = nil
	return true
}

// Click resolves the country at (x, y) and invokes the pick handler.
// Clicks during a drag are ignored.
func (c *Controller) Click(x, y float64) (string, bool) {
	if c.closed || c.drag != nil || c.hit == nil {
		return "", false
	}
	code := c.hit.MarkerAt(c.rotation, x, y)
	if code == "" {
		return "", false
	}
	if c.onPick != nil {
		c.onPick(code)
	}
	return code, true
}

// Refresh re-runs the hover hit test at the current tooltip position, used
// when the data or rotation behind a stationary pointer changed.
func (c *Controller) Refresh() bool {
	if c.closed || c.drag != nil || c.tooltip == nil {
		return false
	}
	return c.hover(c.tooltip.X, c.tooltip.Y)
}

// Close cancels the resume timer and detaches the controller. Every later
// call, including a timer callback already in flight, is a no-op.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.cancelResume()
	c.closed = true
	c.drag = nil
	c.tooltip = nil
}

func (c *Controller) hover(x, y float64) bool {
	var next *Tooltip
	if c.hit != nil {
		if code := c.hit.MarkerAt(c.rotation, x, y); code != "" {
			next = &Tooltip{CountryCode: code, X: x, Y: y}
		}
	}
	changed := !sameTooltip(c.tooltip, next)
	c.tooltip = next
	return changed
}

func (c *Controller) armResume() {
	c.cancelResume()
	token := c.resumeToken
	c.resume = c.sched.AfterFunc(c.opts.ResumeDelay, func() {
		c.fireResume(token)
	})
}

func (c *Controller) cancelResume() {
	if c.resume != nil {
		c.resume.Stop()
		c.resume = nil
	}
	c.resumeToken++
}

func (c *Controller) fireResume(token uint64) {
	if c.closed || token != c.resumeToken || c.drag != nil {
		return
	}
	prev := c.State()
	c.resume = nil
	c.autoRotate = true
	c.notify(prev)
}

// ResumePending reports whether a resume timer is armed.
func (c *Controller) ResumePending() bool {
	return c.resume != nil
}

func (c *Controller) notify(prev State) {
	if c.onTransition == nil {
		return
	}
	if next := c.State(); next != prev {
		c.onTransition(prev, next)
	}
}

func sameTooltip(a, b *Tooltip) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
