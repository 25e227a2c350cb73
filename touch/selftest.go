package touch

import "fmt"

// SelfTestResult is the outcome of mapping one known panel reading.
type SelfTestResult struct {
	Description string        `json:"description"`
	Orientation Orientation   `json:"orientation"`
	Raw         RawResistance `json:"raw"`
	Expected    ScreenPoint   `json:"expected"`
	Actual      ScreenPoint   `json:"actual"`
	Passed      bool          `json:"passed"`
	Err         error         `json:"-"`
}

func (r SelfTestResult) String() string {
	if r.Err != nil {
		return fmt.Sprintf("%s %s: given %s: %v", r.Orientation, r.Description, r.Raw, r.Err)
	}
	status := "ok"
	if !r.Passed {
		status = "FAIL"
	}
	return fmt.Sprintf("%s %s: given %s, expected %s, got %s: %s",
		r.Orientation, r.Description, r.Raw, r.Expected, r.Actual, status)
}

type selfTestCase struct {
	description string
	orientation Orientation
	raw         RawResistance
	expected    ScreenPoint
	// tolerance in pixels on each axis. Corners map exactly; the center can be off by one when a
	// range has an odd span.
	tolerance int
}

// selfTestPressure is the pressure carried through every table entry.
const selfTestPressure = 900

func selfTestCases(cal Calibration) []selfTestCase {
	w, h, z := cal.Width, cal.Height, selfTestPressure
	var (
		upperLeft  = ScreenPoint{0, 0, z}
		upperRight = ScreenPoint{w, 0, z}
		lowerLeft  = ScreenPoint{0, h, z}
		lowerRight = ScreenPoint{w, h, z}
		center     = ScreenPoint{w / 2, h / 2, z}
	)
	xMid := (cal.XMinOhms + cal.XMaxOhms) / 2
	yMid := (cal.YMinOhms + cal.YMaxOhms) / 2

	return []selfTestCase{
		{"lower left", Landscape, RawResistance{cal.XMinOhms, cal.YMinOhms, z}, lowerLeft, 0},
		{"lower right", Landscape, RawResistance{cal.XMinOhms, cal.YMaxOhms, z}, lowerRight, 0},
		{"upper left", Landscape, RawResistance{cal.XMaxOhms, cal.YMinOhms, z}, upperLeft, 0},
		{"upper right", Landscape, RawResistance{cal.XMaxOhms, cal.YMaxOhms, z}, upperRight, 0},
		{"center", Landscape, RawResistance{xMid, yMid, z}, center, 1},

		// Flipped landscape runs the panel's Y reading over the X range and vice versa.
		{"upper right", FlippedLandscape, RawResistance{cal.YMinOhms, cal.XMinOhms, z}, upperRight, 0},
		{"upper left", FlippedLandscape, RawResistance{cal.YMinOhms, cal.XMaxOhms, z}, upperLeft, 0},
		{"lower right", FlippedLandscape, RawResistance{cal.YMaxOhms, cal.XMinOhms, z}, lowerRight, 0},
		{"lower left", FlippedLandscape, RawResistance{cal.YMaxOhms, cal.XMaxOhms, z}, lowerLeft, 0},
		{"center", FlippedLandscape, RawResistance{yMid, xMid, z}, center, 1},
	}
}

// SelfTest maps the corners and center of the calibrated resistance range for each supported
// orientation and checks each lands on the matching screen corner or center. It only exercises
// Transform and never reads the panel, so a new calibration can be checked without touching it.
func SelfTest(cal Calibration) []SelfTestResult {
	cases := selfTestCases(cal)
	results := make([]SelfTestResult, 0, len(cases))
	for _, tc := range cases {
		result := SelfTestResult{
			Description: tc.description,
			Orientation: tc.orientation,
			Raw:         tc.raw,
			Expected:    tc.expected,
		}
		actual, err := Transform(tc.raw, tc.orientation, cal)
		if err != nil {
			result.Err = err
			results = append(results, result)
			continue
		}
		result.Actual = actual
		result.Passed = within(actual.X, tc.expected.X, tc.tolerance) &&
			within(actual.Y, tc.expected.Y, tc.tolerance) &&
			actual.Z == tc.expected.Z
		results = append(results, result)
	}
	return results
}

func within(actual, expected, tolerance int) bool {
	diff := actual - expected
	if diff < 0 {
		diff = -diff
	}
	return diff <= tolerance
}
