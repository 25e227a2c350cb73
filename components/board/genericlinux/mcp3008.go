package genericlinux

import (
	"context"

	"go.uber.org/multierr"

	"github.com/viam-modules/resistive-touch/components/board"
)

// DefaultMCP3008SpeedHz is the SPI clock used when an analog's config leaves speed_hz unset. The
// MCP3008 is rated for 1.35MHz at 2.7V.
const DefaultMCP3008SpeedHz = 1000000

// MCP3008Analog reads one single ended channel of an MCP3008 10 bit ADC.
type MCP3008Analog struct {
	Bus     SPI
	Chip    string
	Channel int
	SpeedHz uint
}

// Read takes one conversion.
func (mar *MCP3008Analog) Read(ctx context.Context, extra map[string]interface{}) (value board.AnalogValue, err error) {
	var tx [3]byte
	tx[0] = 1                            // start bit
	tx[1] = byte((8 + mar.Channel) << 4) // single-ended
	tx[2] = 0                            // extra clocks to receive full 10 bits of data

	bus, err := mar.Bus.OpenHandle()
	if err != nil {
		return board.AnalogValue{}, err
	}
	defer func() {
		err = multierr.Combine(err, bus.Close())
	}()

	rx, err := bus.Xfer(ctx, mar.SpeedHz, mar.Chip, 0, tx[:])
	if err != nil {
		return board.AnalogValue{}, err
	}
	// Reassemble the 10-bit value. Do not include bits before the final 10, because they contain
	// garbage and might be non-zero.
	val := 0x03FF & ((int(rx[1]) << 8) | int(rx[2]))
	return board.AnalogValue{Value: val, Min: 0, Max: 1023, StepSize: 3.3 / 1024}, nil
}
