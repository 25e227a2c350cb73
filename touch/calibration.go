package touch

import "fmt"

// Calibration holds the expected resistance range of each panel axis, the press/release pressure
// thresholds and the target screen size.
type Calibration struct {
	XMinOhms int `json:"x_min_ohms"`
	XMaxOhms int `json:"x_max_ohms"`
	YMinOhms int `json:"y_min_ohms"`
	YMaxOhms int `json:"y_max_ohms"`

	// StartPressure must be exceeded for a press to begin. StopPressure must be undercut for it to
	// end. The gap between them is the noise margin.
	StartPressure int `json:"start_pressure"`
	StopPressure  int `json:"stop_pressure"`

	Width  int `json:"width"`
	Height int `json:"height"`
}

// DefaultCalibration returns values measured on a 3.2" ILI9341 breakout in landscape.
func DefaultCalibration() Calibration {
	return Calibration{
		XMinOhms:      100,
		XMaxOhms:      900,
		YMinOhms:      100,
		YMaxOhms:      900,
		StartPressure: 200,
		StopPressure:  50,
		Width:         320,
		Height:        240,
	}
}

// Validate returns an ErrInvalidCalibration wrapped error describing the first problem found.
func (c Calibration) Validate() error {
	if c.XMinOhms >= c.XMaxOhms {
		return newInvalidCalibrationError("x resistance range [%d, %d] is empty or inverted", c.XMinOhms, c.XMaxOhms)
	}
	if c.YMinOhms >= c.YMaxOhms {
		return newInvalidCalibrationError("y resistance range [%d, %d] is empty or inverted", c.YMinOhms, c.YMaxOhms)
	}
	if c.StartPressure <= c.StopPressure {
		return newInvalidCalibrationError("start pressure %d must be above stop pressure %d", c.StartPressure, c.StopPressure)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return newInvalidCalibrationError("screen size %dx%d must be positive", c.Width, c.Height)
	}
	return nil
}

func (c Calibration) String() string {
	return fmt.Sprintf("screen %dx%d, x %d..%d ohms, y %d..%d ohms, press above %d, release below %d",
		c.Width, c.Height, c.XMinOhms, c.XMaxOhms, c.YMinOhms, c.YMaxOhms, c.StartPressure, c.StopPressure)
}
