//go:build !linux

package genericlinux

import (
	"context"

	"github.com/pkg/errors"
)

type linePin struct {
	// This struct is implemented in the Linux version. We have a dummy struct here just to get
	// things to compile on non-Linux environments.
}

func newLinePin(devicePath string, offset uint32) (*linePin, error) {
	return nil, errors.Errorf("gpiochip line %d on %s: gpiochip lines are only supported on linux", offset, devicePath)
}

func (pin *linePin) Set(ctx context.Context, isHigh bool, extra map[string]interface{}) error {
	return errors.New("unsupported")
}

func (pin *linePin) Get(ctx context.Context, extra map[string]interface{}) (bool, error) {
	return false, errors.New("unsupported")
}

func (pin *linePin) Float(ctx context.Context, extra map[string]interface{}) error {
	return errors.New("unsupported")
}

func (pin *linePin) Close() error {
	return nil
}
