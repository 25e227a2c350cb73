package touch

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrUnsupportedOrientation is returned when a reading is requested for an orientation the
	// transform cannot map. Only the two landscape orientations are implemented.
	ErrUnsupportedOrientation = errors.New("unsupported orientation")

	// ErrInvalidCalibration is returned when a calibration has an empty or inverted resistance
	// range, a collapsed hysteresis band or a non-positive screen size.
	ErrInvalidCalibration = errors.New("invalid calibration")
)

func newUnsupportedOrientationError(o Orientation) error {
	return errors.Wrapf(ErrUnsupportedOrientation, "%s (%d)", o, int(o))
}

func newInvalidCalibrationError(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidCalibration, format, args...)
}

// AcquisitionError is a read failure reported by the Sensor. The engine returns it as is and does
// not change its debounce state.
type AcquisitionError struct {
	Op  string
	Err error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("acquisition failed reading %s: %v", e.Op, e.Err)
}

// Unwrap returns the sensor's error.
func (e *AcquisitionError) Unwrap() error {
	return e.Err
}

// IsAcquisitionError reports whether err, or anything it wraps, is an AcquisitionError.
func IsAcquisitionError(err error) bool {
	var acqErr *AcquisitionError
	return errors.As(err, &acqErr)
}
