// Package touch turns raw 4-wire resistive panel readings into debounced screen taps.
//
// The panel reports two resistance readings and a pressure reading. An Engine filters the
// pressure, runs a press/release hysteresis state machine over it and, on each new press, maps
// the resistance readings to a pixel location for the current display orientation.
package touch

import "fmt"

// RawResistance is one acquisition from the panel. X and Y are proportional to resistance along
// the panel's fixed physical axes and are nominally 0..1023. Z is pressure and may be negative
// when the acquisition overflows.
type RawResistance struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

func (r RawResistance) String() string {
	return fmt.Sprintf("(%d, %d, %d) ohms", r.X, r.Y, r.Z)
}

// ScreenPoint is a pixel location on the display. X is the column and Y the row, both clamped to
// the configured screen size. Z carries the pressure of the touch that produced it.
type ScreenPoint struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

func (p ScreenPoint) String() string {
	return fmt.Sprintf("(%d, %d, %d) px", p.X, p.Y, p.Z)
}
