package touch

import (
	"context"
	"sync"

	"github.com/viam-modules/resistive-touch/logging"
)

// Sensor is the signal acquisition side of a resistive panel. Each call performs one reading and
// may reconfigure the panel's shared lines, so calls must not interleave with other users of the
// same lines.
type Sensor interface {
	ReadX(ctx context.Context) (int, error)
	ReadY(ctx context.Context) (int, error)
	ReadPressure(ctx context.Context) (int, error)
}

// An Option configures an Engine.
type Option func(*Engine)

// WithAcquisitionLock makes the engine hold lock for every sensor read of a poll or sample. Use it
// when the panel's lines are shared with another subsystem that takes the same lock. A nil lock
// keeps the engine's own.
func WithAcquisitionLock(lock sync.Locker) Option {
	return func(e *Engine) {
		if lock != nil {
			e.acqLock = lock
		}
	}
}

// Engine debounces a single panel and maps its presses to screen coordinates. An Engine is safe for
// concurrent use; polls and samples are serialized.
type Engine struct {
	sensor Sensor
	logger logging.Logger

	// acqLock is held for the whole of a poll or sample.
	acqLock sync.Locker

	mu    sync.Mutex
	cal   Calibration
	state pressState
}

// NewEngine returns an idle engine reading from sensor. The calibration is validated up front.
func NewEngine(sensor Sensor, cal Calibration, logger logging.Logger, opts ...Option) (*Engine, error) {
	if err := cal.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Global()
	}
	e := &Engine{
		sensor:  sensor,
		logger:  logger,
		acqLock: &sync.Mutex{},
		cal:     cal,
		state:   idle,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Configure replaces the calibration. It takes effect on the next poll. An invalid calibration is
// rejected and the current one is kept.
func (e *Engine) Configure(cal Calibration) error {
	if err := cal.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	e.cal = cal
	e.mu.Unlock()
	e.logger.Debugw("calibration replaced", "calibration", cal.String())
	return nil
}

// Calibration returns the active calibration.
func (e *Engine) Calibration() Calibration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cal
}

// Touching reports whether the engine currently considers the panel pressed.
func (e *Engine) Touching() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state == pressed
}

// Poll reads the panel once and reports a screen point only on the leading edge of a press. A
// press held across polls is reported once; a new report needs the pressure to drop below the
// stop threshold and rise above the start threshold again.
//
// Unsupported orientations and sensor failures are returned as errors and leave the debounce
// state as it was.
func (e *Engine) Poll(ctx context.Context, o Orientation) (ScreenPoint, bool, error) {
	if !o.Supported() {
		return ScreenPoint{}, false, newUnsupportedOrientationError(o)
	}

	e.acqLock.Lock()
	defer e.acqLock.Unlock()

	e.mu.Lock()
	cal, state := e.cal, e.state
	e.mu.Unlock()

	pressure, err := e.filteredPressure(ctx)
	if err != nil {
		return ScreenPoint{}, false, err
	}

	next, edge := state.next(pressure, cal)
	if !edge {
		if next != state {
			e.logger.CDebugw(ctx, "touch released", "pressure", pressure)
		}
		e.setState(next)
		return ScreenPoint{}, false, nil
	}

	raw, err := e.acquire(ctx)
	if err != nil {
		return ScreenPoint{}, false, err
	}
	point, err := Transform(raw, o, cal)
	if err != nil {
		return ScreenPoint{}, false, err
	}
	e.setState(next)
	e.logger.CDebugw(ctx, "touch pressed", "raw", raw.String(), "screen", point.String(), "orientation", o.String())
	return point, true, nil
}

// Sample takes one raw X, Y and filtered pressure reading for diagnostics. It ignores and does not
// affect the debounce state.
func (e *Engine) Sample(ctx context.Context) (RawResistance, error) {
	e.acqLock.Lock()
	defer e.acqLock.Unlock()
	return e.acquire(ctx)
}

// SelfTest runs the corner and center table against the active calibration.
func (e *Engine) SelfTest() []SelfTestResult {
	return SelfTest(e.Calibration())
}

func (e *Engine) setState(s pressState) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
}

// acquire reads X, Y and then pressure so all three describe the same contact.
func (e *Engine) acquire(ctx context.Context) (RawResistance, error) {
	x, err := e.sensor.ReadX(ctx)
	if err != nil {
		return RawResistance{}, &AcquisitionError{Op: "x", Err: err}
	}
	y, err := e.sensor.ReadY(ctx)
	if err != nil {
		return RawResistance{}, &AcquisitionError{Op: "y", Err: err}
	}
	z, err := e.filteredPressure(ctx)
	if err != nil {
		return RawResistance{}, err
	}
	return RawResistance{X: x, Y: y, Z: z}, nil
}

func (e *Engine) filteredPressure(ctx context.Context) (int, error) {
	var samples [3]int
	for i := range samples {
		z, err := e.sensor.ReadPressure(ctx)
		if err != nil {
			return 0, &AcquisitionError{Op: "pressure", Err: err}
		}
		samples[i] = z
	}
	return MedianOfThree(samples[0], samples[1], samples[2]), nil
}
