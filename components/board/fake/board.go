// Package fake implements a fake board.
package fake

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"

	"github.com/viam-modules/resistive-touch/components/board"
	"github.com/viam-modules/resistive-touch/logging"
)

// DefaultAnalogMax is the full scale of a fake analog reader unless told otherwise.
const DefaultAnalogMax = 1023

// A Config describes the configuration of a fake board and all of its connected parts.
type Config struct {
	Analogs  []board.AnalogConfig `json:"analogs,omitempty"`
	GPIOPins []board.GPIOConfig   `json:"gpio_pins,omitempty"`
	FailNew  bool                 `json:"fail_new"`
}

// Validate ensures all parts of the config are valid.
func (conf *Config) Validate(path string) error {
	for idx, c := range conf.Analogs {
		if err := c.Validate(fmt.Sprintf("%s.%s.%d", path, "analogs", idx)); err != nil {
			return err
		}
	}
	for idx, c := range conf.GPIOPins {
		if err := c.Validate(fmt.Sprintf("%s.%s.%d", path, "gpio_pins", idx)); err != nil {
			return err
		}
	}
	if conf.FailNew {
		return errors.New("whoops")
	}
	return nil
}

// NewBoard returns a new fake board with the configured pins.
func NewBoard(conf *Config, logger logging.Logger) (*Board, error) {
	if err := conf.Validate("board"); err != nil {
		return nil, err
	}
	b := &Board{
		Analogs:  map[string]*Analog{},
		GPIOPins: map[string]*GPIOPin{},
		logger:   logger,
	}
	for _, c := range conf.Analogs {
		b.Analogs[c.Name] = NewAnalog()
	}
	for _, c := range conf.GPIOPins {
		b.GPIOPins[c.Name] = &GPIOPin{}
	}
	return b, nil
}

// A Board provides dummy data from fake parts in order to implement a Board.
type Board struct {
	mu         sync.RWMutex
	Analogs    map[string]*Analog
	GPIOPins   map[string]*GPIOPin
	logger     logging.Logger
	CloseCount int
}

// AnalogByName returns the analog pin by the given name if it exists.
func (b *Board) AnalogByName(name string) (board.Analog, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	a, ok := b.Analogs[name]
	if !ok {
		return nil, board.NewPinNotFoundError("analog", name)
	}
	return a, nil
}

// GPIOPinByName returns the GPIO pin by the given name if it exists.
func (b *Board) GPIOPinByName(name string) (board.GPIOPin, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	p, ok := b.GPIOPins[name]
	if !ok {
		return nil, board.NewPinNotFoundError("gpio pin", name)
	}
	return p, nil
}

// Close counts how often the board was closed.
func (b *Board) Close(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.CloseCount++
	if b.logger != nil {
		b.logger.CDebugw(ctx, "fake board closed", "count", b.CloseCount)
	}
	return nil
}

// An Analog returns the value it was set to. Queued values are returned first, one per read.
// ReadFunc, when set, replaces both and lets a test compute readings from other pins.
type Analog struct {
	mu        sync.Mutex
	Value     int
	Max       int
	Err       error
	ReadFunc  func(ctx context.Context) (int, error)
	ReadCount int
	queue     []int
}

// NewAnalog returns a fake analog reader with a 10 bit range.
func NewAnalog() *Analog {
	return &Analog{Max: DefaultAnalogMax}
}

// Read returns the next queued value, the ReadFunc result or the set value, in that order.
func (a *Analog) Read(ctx context.Context, extra map[string]interface{}) (board.AnalogValue, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ReadCount++
	if a.Err != nil {
		return board.AnalogValue{}, a.Err
	}
	value := a.Value
	switch {
	case len(a.queue) > 0:
		value, a.queue = a.queue[0], a.queue[1:]
	case a.ReadFunc != nil:
		var err error
		value, err = a.ReadFunc(ctx)
		if err != nil {
			return board.AnalogValue{}, err
		}
	}
	return board.AnalogValue{Value: value, Min: 0, Max: a.Max, StepSize: 3.3 / float32(a.Max+1)}, nil
}

// Set is used to set the value of an Analog.
func (a *Analog) Set(value int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Value = value
}

// Queue adds values to be returned by the next reads ahead of the set value.
func (a *Analog) Queue(values ...int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.queue = append(a.queue, values...)
}

// SetError makes every read fail with err until it is cleared with nil.
func (a *Analog) SetError(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Err = err
}

// PinState is one observed state of a fake GPIO pin.
type PinState struct {
	High     bool
	Floating bool
}

func (s PinState) String() string {
	switch {
	case s.Floating:
		return "float"
	case s.High:
		return "high"
	default:
		return "low"
	}
}

// A GPIOPin reads back the same set values and records every change.
type GPIOPin struct {
	mu      sync.Mutex
	state   PinState
	history []PinState
	Err     error
}

// NewFloatingGPIOPin returns a pin that starts out as an input.
func NewFloatingGPIOPin() *GPIOPin {
	return &GPIOPin{state: PinState{Floating: true}}
}

// Set sets the pin to either low or high.
func (gp *GPIOPin) Set(ctx context.Context, high bool, extra map[string]interface{}) error {
	gp.mu.Lock()
	defer gp.mu.Unlock()
	if gp.Err != nil {
		return gp.Err
	}
	gp.state = PinState{High: high}
	gp.history = append(gp.history, gp.state)
	return nil
}

// Get gets the high/low state of the pin.
func (gp *GPIOPin) Get(ctx context.Context, extra map[string]interface{}) (bool, error) {
	gp.mu.Lock()
	defer gp.mu.Unlock()
	if gp.Err != nil {
		return false, gp.Err
	}
	return gp.state.High, nil
}

// Float releases the pin. A floating pin reads low.
func (gp *GPIOPin) Float(ctx context.Context, extra map[string]interface{}) error {
	gp.mu.Lock()
	defer gp.mu.Unlock()
	if gp.Err != nil {
		return gp.Err
	}
	gp.state = PinState{Floating: true}
	gp.history = append(gp.history, gp.state)
	return nil
}

// State returns the current state of the pin.
func (gp *GPIOPin) State() PinState {
	gp.mu.Lock()
	defer gp.mu.Unlock()
	return gp.state
}

// History returns and clears every state the pin has been put in.
func (gp *GPIOPin) History() []PinState {
	gp.mu.Lock()
	defer gp.mu.Unlock()
	h := gp.history
	gp.history = nil
	return h
}

// SetError makes every call on the pin fail with err until it is cleared with nil.
func (gp *GPIOPin) SetError(err error) {
	gp.mu.Lock()
	defer gp.mu.Unlock()
	gp.Err = err
}
