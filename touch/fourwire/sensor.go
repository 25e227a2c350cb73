// Package fourwire reads a 4-wire resistive panel through board pins.
//
// Each plate edge (X+, X-, Y+, Y-) is wired to a GPIO pin. Y+ and X- are also wired to ADC
// channels. A position reading drives a voltage across one plate and senses it through the other;
// a pressure reading drives across both plates and senses how much current leaks between them.
package fourwire

import (
	"context"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"github.com/viam-modules/resistive-touch/components/board"
	"github.com/viam-modules/resistive-touch/logging"
	"github.com/viam-modules/resistive-touch/touch"
)

// FullScale is the top of the range readings are reported in. ADCs with other resolutions are
// scaled to it.
const FullScale = 1023

var _ = touch.Sensor(&Sensor{})

// Config names the pins a panel is wired to.
type Config struct {
	XPlus  string `json:"x_plus"`
	XMinus string `json:"x_minus"`
	YPlus  string `json:"y_plus"`
	YMinus string `json:"y_minus"`

	// Analog inputs on the same nets as Y+ and X-.
	YPlusAnalog  string `json:"y_plus_analog"`
	XMinusAnalog string `json:"x_minus_analog"`

	// SettleMicros is how long to wait after switching the drive lines before sampling. Panels with
	// filter capacitors need a few hundred microseconds.
	SettleMicros int `json:"settle_us,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (conf *Config) Validate(path string) error {
	for _, field := range []struct {
		name  string
		value string
	}{
		{"x_plus", conf.XPlus},
		{"x_minus", conf.XMinus},
		{"y_plus", conf.YPlus},
		{"y_minus", conf.YMinus},
		{"y_plus_analog", conf.YPlusAnalog},
		{"x_minus_analog", conf.XMinusAnalog},
	} {
		if field.value == "" {
			return utils.NewConfigValidationFieldRequiredError(path, field.name)
		}
	}
	if conf.SettleMicros < 0 {
		return utils.NewConfigValidationError(path, errors.New("settle_us cannot be negative"))
	}
	return nil
}

// An Option configures a Sensor.
type Option func(*Sensor)

// WithClock replaces the clock used to wait for the plates to settle.
func WithClock(clk clock.Clock) Option {
	return func(s *Sensor) {
		s.clk = clk
	}
}

// Sensor implements touch.Sensor for a panel wired to board pins. It is not safe for concurrent
// use; the engine serializes reads.
type Sensor struct {
	xp, xm, yp, ym board.GPIOPin
	ypADC, xmADC   board.Analog
	settle         time.Duration
	clk            clock.Clock
	logger         logging.Logger
}

// NewSensor looks up the configured pins on b.
func NewSensor(b board.Board, conf Config, logger logging.Logger, opts ...Option) (*Sensor, error) {
	if err := conf.Validate("touch.panel"); err != nil {
		return nil, err
	}
	s := &Sensor{
		settle: time.Duration(conf.SettleMicros) * time.Microsecond,
		clk:    clock.New(),
		logger: logger,
	}
	var err error
	gpio := func(name string) board.GPIOPin {
		pin, pinErr := b.GPIOPinByName(name)
		err = multierr.Combine(err, pinErr)
		return pin
	}
	analog := func(name string) board.Analog {
		a, analogErr := b.AnalogByName(name)
		err = multierr.Combine(err, analogErr)
		return a
	}
	s.xp, s.xm, s.yp, s.ym = gpio(conf.XPlus), gpio(conf.XMinus), gpio(conf.YPlus), gpio(conf.YMinus)
	s.ypADC, s.xmADC = analog(conf.YPlusAnalog), analog(conf.XMinusAnalog)
	if err != nil {
		return nil, err
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.Global()
	}
	s.logger.Debugw("panel pins resolved",
		"x+", conf.XPlus, "x-", conf.XMinus, "y+", conf.YPlus, "y-", conf.YMinus,
		"y+ adc", conf.YPlusAnalog, "x- adc", conf.XMinusAnalog, "settle", s.settle)
	return s, nil
}

// drive is the state of one plate line during a reading.
type drive int

const (
	float drive = iota
	low
	high
)

func (d drive) apply(ctx context.Context, pin board.GPIOPin) error {
	switch d {
	case low:
		return pin.Set(ctx, false, nil)
	case high:
		return pin.Set(ctx, true, nil)
	default:
		return pin.Float(ctx, nil)
	}
}

// setup applies a drive to every plate line. Lines are released before any is driven so two
// outputs are never fighting over the same plate.
func (s *Sensor) setup(ctx context.Context, xp, xm, yp, ym drive) error {
	lines := []struct {
		name  string
		pin   board.GPIOPin
		drive drive
	}{
		{"x+", s.xp, xp},
		{"x-", s.xm, xm},
		{"y+", s.yp, yp},
		{"y-", s.ym, ym},
	}
	for _, released := range []bool{true, false} {
		for _, line := range lines {
			if (line.drive == float) != released {
				continue
			}
			if err := line.drive.apply(ctx, line.pin); err != nil {
				return errors.Wrapf(err, "setting %s", line.name)
			}
		}
	}
	return s.wait(ctx)
}

func (s *Sensor) wait(ctx context.Context) error {
	if s.settle <= 0 {
		return ctx.Err()
	}
	timer := s.clk.Timer(s.settle)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *Sensor) sample(ctx context.Context, name string, a board.Analog) (int, error) {
	v, err := a.Read(ctx, nil)
	if err != nil {
		return 0, errors.Wrapf(err, "reading %s", name)
	}
	return v.Scale(FullScale), nil
}

// ReadX drives X+ high and X- low and senses the X plate's voltage at the contact through Y+.
func (s *Sensor) ReadX(ctx context.Context) (int, error) {
	if err := s.setup(ctx, high, low, float, float); err != nil {
		return 0, err
	}
	v, err := s.sample(ctx, "y+", s.ypADC)
	if err != nil {
		return 0, err
	}
	return FullScale - v, nil
}

// ReadY drives Y+ high and Y- low and senses the Y plate's voltage at the contact through X-.
func (s *Sensor) ReadY(ctx context.Context) (int, error) {
	if err := s.setup(ctx, float, float, high, low); err != nil {
		return 0, err
	}
	v, err := s.sample(ctx, "x-", s.xmADC)
	if err != nil {
		return 0, err
	}
	return FullScale - v, nil
}

// ReadPressure grounds X+ and drives Y- high, then averages how far each plate is pulled toward
// the other. An untouched panel reads near zero and a firm press reads several hundred.
func (s *Sensor) ReadPressure(ctx context.Context) (int, error) {
	if err := s.setup(ctx, low, float, float, high); err != nil {
		return 0, err
	}
	z1, err := s.sample(ctx, "x-", s.xmADC)
	if err != nil {
		return 0, err
	}
	yp, err := s.sample(ctx, "y+", s.ypADC)
	if err != nil {
		return 0, err
	}
	z2 := FullScale - yp
	return (z1 + z2) / 2, nil
}

// Release floats every plate line so the panel draws no current between readings.
func (s *Sensor) Release(ctx context.Context) error {
	var err error
	for _, pin := range []board.GPIOPin{s.xp, s.xm, s.yp, s.ym} {
		err = multierr.Combine(err, pin.Float(ctx, nil))
	}
	return err
}

func (s *Sensor) String() string {
	return fmt.Sprintf("4-wire panel (settle %s)", s.settle)
}
