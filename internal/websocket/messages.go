// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

package websocket

import (
	"github.com/goccy/go-json"

	"github.com/tomtom215/globeview/internal/choropleth"
	"github.com/tomtom215/globeview/internal/globe"
	"github.com/tomtom215/globeview/internal/render"
)

// Server to client message types.
const (
	MessageTypeHello           = "hello"
	MessageTypeFrame           = "frame"
	MessageTypeCountrySelected = "country_selected"
	MessageTypeDataUpdated     = "data_updated"
	MessageTypePong            = "pong"
	MessageTypeError           = "error"
)

// Client to server message types.
const (
	MessageTypePing          = "ping"
	MessageTypePointerDown   = "pointerdown"
	MessageTypePointerMove   = "pointermove"
	MessageTypePointerUp     = "pointerup"
	MessageTypePointerCancel = "pointercancel"
	MessageTypePointerLeave  = "pointerleave"
	MessageTypeClick         = "click"
	MessageTypeSelect        = "select"
	MessageTypeResize        = "resize"
)

// Message is an outbound WebSocket message.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Envelope is an inbound message; Data is decoded per Type.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// PointerPayload carries pointerdown/move/up/cancel, in container pixels.
type PointerPayload struct {
	PointerID int     `json:"pointer_id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}

// ClickPayload is a country pick position.
type ClickPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// SelectPayload changes the selected-country filter. Empty clears it.
type SelectPayload struct {
	CountryCode string `json:"country_code" validate:"omitempty,country_code"`
}

// ResizePayload changes the container size.
type ResizePayload struct {
	Width  float64 `json:"width" validate:"gt=0,lte=8192"`
	Height float64 `json:"height" validate:"gt=0,lte=8192"`
}

// HelloData is sent once when a session starts.
type HelloData struct {
	SessionID string               `json:"session_id"`
	Rotation  globe.RotationVector `json:"rotation"`
	Restored  bool                 `json:"restored"`
	Width     float64              `json:"width"`
	Height    float64              `json:"height"`
}

// FrameData is one rendered globe frame.
type FrameData struct {
	State      string               `json:"state"`
	Rotation   globe.RotationVector `json:"rotation"`
	AutoRotate bool                 `json:"auto_rotate"`
	Tooltip    *render.TooltipView  `json:"tooltip"`
	Selected   string               `json:"selected"`
	Loading    bool                 `json:"loading"`
	Version    uint64               `json:"version"`
	SVG        string               `json:"svg"`
}

// CountrySelectedData reports a pick. Selected is the filter value after the
// pick: picking the selected country again clears it.
type CountrySelectedData struct {
	CountryCode string `json:"country_code"`
	Selected    string `json:"selected"`
}

// DataUpdatedData is broadcast when the row snapshot changes.
type DataUpdatedData struct {
	Version     uint64           `json:"version"`
	Loading     bool             `json:"loading"`
	Rows        []choropleth.Row `json:"rows"`
	MaxVisitors int64            `json:"max_visitors"`
}

// ErrorData reports a rejected inbound message.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewDataUpdated builds the broadcast payload for snap.
func NewDataUpdated(snap *choropleth.Snapshot) DataUpdatedData {
	return DataUpdatedData{
		Version:     snap.Version(),
		Loading:     snap.Loading(),
		Rows:        snap.Rows(),
		MaxVisitors: snap.MaxVisitors(),
	}
}
