package board

import "context"

// A GPIOPin represents an individual GPIO pin on a board.
type GPIOPin interface {
	// Set drives the pin as an output, either low or high.
	Set(ctx context.Context, high bool, extra map[string]interface{}) error

	// Get gets the high/low state of the pin.
	Get(ctx context.Context, extra map[string]interface{}) (bool, error)

	// Float releases the pin to a high impedance input so it neither sources nor sinks current.
	// The next Set drives it again.
	Float(ctx context.Context, extra map[string]interface{}) error
}
