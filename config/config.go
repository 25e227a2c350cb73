// Package config defines the touchd configuration file and how it is read, validated and watched.
package config

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"github.com/viam-modules/resistive-touch/components/board"
	"github.com/viam-modules/resistive-touch/components/board/genericlinux"
	"github.com/viam-modules/resistive-touch/components/input/resistivetouch"
	"github.com/viam-modules/resistive-touch/logging"
	"github.com/viam-modules/resistive-touch/touch"
	"github.com/viam-modules/resistive-touch/touch/fourwire"
)

// DefaultSampleInterval is the gap between readings of the sample command.
const DefaultSampleInterval = 50 * time.Millisecond

// Config is the whole of a touchd configuration file.
type Config struct {
	Board       genericlinux.Config `json:"board"`
	Panel       fourwire.Config     `json:"panel"`
	Calibration touch.Calibration   `json:"calibration"`
	Orientation touch.Orientation   `json:"orientation"`
	PollHz      int                 `json:"poll_hz,omitempty"`

	// SampleInterval is a duration string such as "50ms".
	SampleInterval time.Duration `json:"sample_interval,omitempty"`

	Log LogConfig `json:"log"`

	// ConfigFilePath is the file the config was read from, if any.
	ConfigFilePath string `json:"-"`
}

// LogConfig controls the level and destination of touchd's logs.
type LogConfig struct {
	Level logging.Level `json:"level"`
	// File, if set, receives a copy of every log line and is rotated by size.
	File       string `json:"file,omitempty"`
	MaxSizeMB  int    `json:"max_size_mb,omitempty"`
	MaxBackups int    `json:"max_backups,omitempty"`
}

// Default returns the config used for anything a file leaves out.
func Default() Config {
	return Config{
		Board:          genericlinux.Config{GPIOChip: genericlinux.DefaultGPIOChip},
		Calibration:    touch.DefaultCalibration(),
		Orientation:    touch.Landscape,
		PollHz:         resistivetouch.DefaultPollHz,
		SampleInterval: DefaultSampleInterval,
		Log:            LogConfig{Level: logging.INFO, MaxSizeMB: 10, MaxBackups: 3},
	}
}

// Controller returns the part of the config the input controller needs.
func (conf *Config) Controller() resistivetouch.Config {
	return resistivetouch.Config{Orientation: conf.Orientation, PollHz: conf.PollHz}
}

// Validate ensures all parts of the config are valid. Panel pins must name pins configured on the
// board.
func (conf *Config) Validate() error {
	if err := conf.Board.Validate("board"); err != nil {
		return err
	}
	if err := conf.Panel.Validate("panel"); err != nil {
		return err
	}
	if err := conf.Calibration.Validate(); err != nil {
		return utils.NewConfigValidationError("calibration", err)
	}
	controller := conf.Controller()
	if err := controller.Validate("touch"); err != nil {
		return err
	}
	if conf.SampleInterval < 0 {
		return utils.NewConfigValidationError("sample_interval", errors.New("cannot be negative"))
	}
	if conf.Log.MaxSizeMB < 0 || conf.Log.MaxBackups < 0 {
		return utils.NewConfigValidationError("log", errors.New("max_size_mb and max_backups cannot be negative"))
	}

	var err error
	for _, field := range []struct {
		name, pin string
	}{
		{"x_plus", conf.Panel.XPlus},
		{"x_minus", conf.Panel.XMinus},
		{"y_plus", conf.Panel.YPlus},
		{"y_minus", conf.Panel.YMinus},
	} {
		if !lo.ContainsBy(conf.Board.GPIOPins, func(c board.GPIOConfig) bool { return c.Name == field.pin }) {
			err = multierr.Append(err, errors.Errorf("%s gpio pin %q is not configured on the board", field.name, field.pin))
		}
	}
	for _, field := range []struct {
		name, pin string
	}{
		{"y_plus_analog", conf.Panel.YPlusAnalog},
		{"x_minus_analog", conf.Panel.XMinusAnalog},
	} {
		if !lo.ContainsBy(conf.Board.Analogs, func(c board.AnalogConfig) bool { return c.Name == field.pin }) {
			err = multierr.Append(err, errors.Errorf("%s analog %q is not configured on the board", field.name, field.pin))
		}
	}
	if err != nil {
		return utils.NewConfigValidationError("panel", err)
	}
	return nil
}

func (conf *Config) String() string {
	return fmt.Sprintf("%s (%s, %d Hz)", conf.Calibration, conf.Orientation, conf.PollHz)
}
