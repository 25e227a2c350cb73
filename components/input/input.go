// Package input provides human input events, such as taps on a touch panel.
package input

import (
	"context"
	"time"
)

// Controller is a logical "container" more than an actual device. It reports events on a fixed
// set of controls and calls back registered functions as they happen.
type Controller interface {
	// Controls returns a list of Controls provided by the Controller.
	Controls(ctx context.Context) ([]Control, error)

	// Events returns the most recent Event for each input (which should be the current state).
	Events(ctx context.Context) (map[Control]Event, error)

	// RegisterControlCallback registers a callback that will fire on given EventTypes for a given
	// Control. A nil ctrlFunc removes the callback.
	RegisterControlCallback(ctx context.Context, control Control, triggers []EventType, ctrlFunc ControlFunction) error

	// Close stops event delivery.
	Close(ctx context.Context) error
}

// ControlFunction is a callback passed to RegisterControlCallback.
type ControlFunction func(ctx context.Context, ev Event)

// EventType represents the type of input event, and is returned by Events() or passed to
// ControlFunction callbacks.
type EventType string

// EventType list, to be expanded as new input devices are developed.
const (
	// Callbacks registered for this event will be called in ADDITION to other registered event callbacks.
	AllEvents EventType = "AllEvents"
	// Sent at controller initialization.
	Connect EventType = "Connect"
	// Typical key press, or the start of a touch.
	ButtonPress EventType = "ButtonPress"
	// Key release, or the end of a touch.
	ButtonRelease EventType = "ButtonRelease"
	// Both up and down for convenience during registration, not typically emitted.
	ButtonChange EventType = "ButtonChange"
	// Absolute position is reported via Value.
	PositionChangeAbs EventType = "PositionChangeAbs"
)

// Control identifies the input (specific Axis or Button) of a controller.
type Control string

// Controls, to be expanded as new input devices are developed.
const (
	// Axes. Touch positions are reported in screen pixels and pressure in panel units.
	AbsoluteX        Control = "AbsoluteX"
	AbsoluteY        Control = "AbsoluteY"
	AbsolutePressure Control = "AbsolutePressure"

	// Buttons.
	ButtonTouch Control = "ButtonTouch"
)

// Event is passed to the registered ControlFunction or returned by Events().
type Event struct {
	Time    time.Time
	Event   EventType
	Control Control // Key or Axis
	Value   float64 // 0 or 1 for buttons, the absolute position for axes
}

// Matches reports whether a callback registered for trigger should fire for this event.
func (e Event) Matches(trigger EventType) bool {
	switch trigger {
	case AllEvents, e.Event:
		return true
	case ButtonChange:
		return e.Event == ButtonPress || e.Event == ButtonRelease
	default:
		return false
	}
}
