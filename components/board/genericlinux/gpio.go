//go:build linux

package genericlinux

import (
	"context"
	"sync"

	"github.com/mkch/gpio"
	"github.com/pkg/errors"
	"go.viam.com/utils"
)

const lineConsumer = "resistive-touch"

// linePin is one line of a gpiochip character device, by way of mkch's gpio package. The kernel
// fixes a line's direction when it is requested, so switching between driving and floating the
// line releases it and requests it again.
type linePin struct {
	// These values should both be considered immutable.
	devicePath string
	offset     uint32

	mu     sync.Mutex
	line   *gpio.Line
	output bool
}

func newLinePin(devicePath string, offset uint32) (*linePin, error) {
	return &linePin{devicePath: devicePath, offset: offset}, nil
}

// This is a private helper function that should only be called when the mutex is locked. It makes
// sure pin.line is requested in the given direction. value is the initial level of an output.
func (pin *linePin) request(output bool, value byte) error {
	if pin.line != nil && pin.output == output {
		return nil
	}
	if pin.line != nil {
		if err := pin.line.Close(); err != nil {
			return err
		}
		pin.line = nil
	}

	chip, err := gpio.OpenChip(pin.devicePath)
	if err != nil {
		return err
	}
	defer utils.UncheckedErrorFunc(chip.Close)

	flags := gpio.Input
	if output {
		flags = gpio.Output
	}
	line, err := chip.OpenLine(pin.offset, value, flags, lineConsumer)
	if err != nil {
		return errors.Wrapf(err, "requesting line %d on %s", pin.offset, pin.devicePath)
	}
	pin.line = line
	pin.output = output
	return nil
}

func (pin *linePin) Set(ctx context.Context, isHigh bool, extra map[string]interface{}) error {
	pin.mu.Lock()
	defer pin.mu.Unlock()

	var value byte
	if isHigh {
		value = 1
	}
	if pin.line == nil || !pin.output {
		// Requesting the line as an output with the right default avoids a glitch to the old level.
		return pin.request(true, value)
	}
	return pin.line.SetValue(value)
}

func (pin *linePin) Get(ctx context.Context, extra map[string]interface{}) (bool, error) {
	pin.mu.Lock()
	defer pin.mu.Unlock()

	if pin.line == nil {
		if err := pin.request(false, 0); err != nil {
			return false, err
		}
	}
	value, err := pin.line.Value()
	if err != nil {
		return false, err
	}
	// We'd expect value to be either 0 or 1, but any non-zero value should be considered high.
	return value != 0, nil
}

func (pin *linePin) Float(ctx context.Context, extra map[string]interface{}) error {
	pin.mu.Lock()
	defer pin.mu.Unlock()
	return pin.request(false, 0)
}

func (pin *linePin) Close() error {
	pin.mu.Lock()
	defer pin.mu.Unlock()
	if pin.line == nil {
		return nil
	}
	err := pin.line.Close()
	pin.line = nil
	return err
}
