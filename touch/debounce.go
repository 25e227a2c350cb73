package touch

// pressState is the debounce state of one panel.
type pressState bool

const (
	idle    pressState = false
	pressed pressState = true
)

func (s pressState) String() string {
	if s == pressed {
		return "pressed"
	}
	return "idle"
}

// next evaluates one pressure reading against the hysteresis band. It returns the following state
// and whether this reading is the leading edge of a press. It does not modify s so the caller can
// commit the transition only once the rest of the poll has succeeded.
func (s pressState) next(pressure int, cal Calibration) (pressState, bool) {
	switch s {
	case idle:
		if pressure > cal.StartPressure {
			return pressed, true
		}
	case pressed:
		if pressure < cal.StopPressure {
			return idle, false
		}
	}
	return s, false
}
