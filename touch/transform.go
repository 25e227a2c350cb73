package touch

// Transform maps a panel reading to a screen location for the given orientation.
//
// In landscape the panel's Y axis runs along the screen's columns and its X axis runs against the
// screen's rows. Flipped landscape reverses the column direction and runs X along the rows.
// Portrait orientations return ErrUnsupportedOrientation.
//
// Readings outside the calibrated range are extrapolated and then clamped to the screen edges.
func Transform(raw RawResistance, o Orientation, cal Calibration) (ScreenPoint, error) {
	var p ScreenPoint
	switch o {
	case Landscape:
		p.X = linearMap(raw.Y, cal.YMinOhms, cal.YMaxOhms, 0, cal.Width)
		p.Y = linearMap(raw.X, cal.XMaxOhms, cal.XMinOhms, 0, cal.Height)
	case FlippedLandscape:
		p.X = linearMap(raw.Y, cal.XMaxOhms, cal.XMinOhms, 0, cal.Width)
		p.Y = linearMap(raw.X, cal.YMinOhms, cal.YMaxOhms, 0, cal.Height)
	default:
		// Portrait, FlippedPortrait and anything out of range.
		return ScreenPoint{}, newUnsupportedOrientationError(o)
	}
	p.Z = raw.Z

	p.X = clamp(p.X, 0, cal.Width)
	p.Y = clamp(p.Y, 0, cal.Height)
	return p, nil
}

// linearMap interpolates value from [inMin, inMax] onto [outMin, outMax]. Integer division
// truncates toward zero; calibration tables depend on that rounding.
func linearMap(value, inMin, inMax, outMin, outMax int) int {
	return outMin + (value-inMin)*(outMax-outMin)/(inMax-inMin)
}

func clamp(value, lo, hi int) int {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
