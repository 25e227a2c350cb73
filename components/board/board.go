// Package board defines the pins a touch panel is wired to: GPIO lines that drive the panel's
// plates and analog inputs that sense them.
package board

import (
	"context"

	"github.com/pkg/errors"
)

// A Board gives access to named pins. Names come from the board's configuration.
type Board interface {
	// AnalogByName returns the analog input by the given name if it exists.
	AnalogByName(name string) (Analog, error)

	// GPIOPinByName returns the GPIO pin by the given name if it exists.
	GPIOPinByName(name string) (GPIOPin, error)

	// Close releases every pin and bus the board holds.
	Close(ctx context.Context) error
}

// ErrPinNotFound is returned by boards when asked for a pin they were not configured with.
var ErrPinNotFound = errors.New("pin not found")

// NewPinNotFoundError returns an ErrPinNotFound naming the missing pin.
func NewPinNotFoundError(kind, name string) error {
	return errors.Wrapf(ErrPinNotFound, "%s %q", kind, name)
}
