package genericlinux

import (
	"context"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"
)

// periphPin drives a header pin through periph.io's pin registry. It is used for pins configured
// by name rather than by gpiochip line offset.
type periphPin struct {
	pin gpio.PinIO
}

func (gp *periphPin) Set(ctx context.Context, high bool, extra map[string]interface{}) error {
	level := gpio.Low
	if high {
		level = gpio.High
	}
	return errors.Wrapf(gp.pin.Out(level), "setting %s", gp.pin.Name())
}

func (gp *periphPin) Get(ctx context.Context, extra map[string]interface{}) (bool, error) {
	return gp.pin.Read() == gpio.High, nil
}

func (gp *periphPin) Float(ctx context.Context, extra map[string]interface{}) error {
	return errors.Wrapf(gp.pin.In(gpio.Float, gpio.NoEdge), "floating %s", gp.pin.Name())
}

func (gp *periphPin) Close() error {
	return gp.pin.Halt()
}
