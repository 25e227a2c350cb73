// Package genericlinux implements a board for Linux single board computers. GPIO pins are driven
// through the gpiochip character device or periph.io's pin registry and analog inputs are read
// from an MCP3008 ADC on a spidev bus.
package genericlinux

import (
	"context"
	"io"
	"strconv"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/viam-modules/resistive-touch/components/board"
	"github.com/viam-modules/resistive-touch/logging"
)

var _ = board.Board(&Board{})

type closablePin interface {
	board.GPIOPin
	io.Closer
}

// Board is a Linux board exposing the configured GPIO pins and MCP3008 channels.
type Board struct {
	mu       sync.RWMutex
	spis     map[string]*spiBus
	analogs  map[string]*MCP3008Analog
	gpioPins map[string]closablePin
	logger   logging.Logger
}

// NewBoard initializes periph.io's host drivers and returns a board with the configured pins. Pins
// are not requested from the kernel until first used.
func NewBoard(ctx context.Context, conf *Config, logger logging.Logger) (*Board, error) {
	if err := conf.Validate("board"); err != nil {
		return nil, err
	}
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "initializing periph host drivers")
	}
	return newBoard(conf, logger)
}

func newBoard(conf *Config, logger logging.Logger) (*Board, error) {
	b := &Board{
		spis:     map[string]*spiBus{},
		analogs:  map[string]*MCP3008Analog{},
		gpioPins: map[string]closablePin{},
		logger:   logger,
	}

	for _, c := range conf.SPIs {
		b.spis[c.Name] = &spiBus{bus: c.BusSelect}
	}
	for _, c := range conf.Analogs {
		channel, err := strconv.Atoi(c.Channel)
		if err != nil {
			return nil, errors.Wrapf(err, "analog %q channel", c.Name)
		}
		speed := uint(DefaultMCP3008SpeedHz)
		if c.SpeedHz > 0 {
			speed = uint(c.SpeedHz)
		}
		b.analogs[c.Name] = &MCP3008Analog{
			Bus:     b.spis[c.SPIBus],
			Chip:    c.ChipSelect,
			Channel: channel,
			SpeedHz: speed,
		}
	}
	for _, c := range conf.GPIOPins {
		pin, err := b.openPin(conf.gpioChip(), c.Pin)
		if err != nil {
			return nil, multierr.Combine(errors.Wrapf(err, "gpio pin %q", c.Name), b.Close(context.Background()))
		}
		b.gpioPins[c.Name] = pin
	}
	return b, nil
}

// openPin treats a numeric pin as a line offset on the gpiochip and anything else as a name for
// periph.io's registry, such as "GPIO17" or "P1_11".
func (b *Board) openPin(chip, pin string) (closablePin, error) {
	if offset, err := strconv.ParseUint(pin, 10, 32); err == nil {
		b.logger.Debugw("using gpiochip line", "chip", chip, "offset", offset)
		return newLinePin(chip, uint32(offset))
	}
	p := gpioreg.ByName(pin)
	if p == nil {
		return nil, errors.Errorf("no pin named %q", pin)
	}
	b.logger.Debugw("using periph pin", "pin", p.Name())
	return &periphPin{pin: p}, nil
}

// AnalogByName returns the analog pin by the given name if it exists.
func (b *Board) AnalogByName(name string) (board.Analog, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	a, ok := b.analogs[name]
	if !ok {
		return nil, board.NewPinNotFoundError("analog", name)
	}
	return a, nil
}

// GPIOPinByName returns the GPIO pin by the given name if it exists.
func (b *Board) GPIOPinByName(name string) (board.GPIOPin, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	p, ok := b.gpioPins[name]
	if !ok {
		return nil, board.NewPinNotFoundError("gpio pin", name)
	}
	return p, nil
}

// Close releases every requested line.
func (b *Board) Close(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	var err error
	for name, pin := range b.gpioPins {
		err = multierr.Combine(err, errors.Wrapf(pin.Close(), "closing gpio pin %q", name))
	}
	return err
}
