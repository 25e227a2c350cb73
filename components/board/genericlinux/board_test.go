package genericlinux

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"github.com/viam-modules/resistive-touch/components/board"
	"github.com/viam-modules/resistive-touch/logging"
)

func TestConfigValidate(t *testing.T) {
	validConfig := Config{}
	test.That(t, validConfig.Validate("path"), test.ShouldBeNil)

	validConfig.SPIs = []board.SPIConfig{{}}
	err := validConfig.Validate("path")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `path.spis.0`)

	validConfig.SPIs = []board.SPIConfig{{Name: "main", BusSelect: "0"}}
	test.That(t, validConfig.Validate("path"), test.ShouldBeNil)

	validConfig.Analogs = []board.AnalogConfig{{Name: "yp"}}
	err = validConfig.Validate("path")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `path.analogs.0`)
	test.That(t, err.Error(), test.ShouldContainSubstring, "channel")

	validConfig.Analogs = []board.AnalogConfig{{Name: "yp", Channel: "0"}}
	err = validConfig.Validate("path")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "spi_bus")

	validConfig.Analogs = []board.AnalogConfig{{Name: "yp", Channel: "0", SPIBus: "aux"}}
	err = validConfig.Validate("path")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `spi bus "aux" is not configured`)

	validConfig.Analogs = []board.AnalogConfig{{Name: "yp", Channel: "0", SPIBus: "main"}}
	err = validConfig.Validate("path")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "chip_select")

	validConfig.Analogs = []board.AnalogConfig{{Name: "yp", Channel: "0", SPIBus: "main", ChipSelect: "0"}}
	test.That(t, validConfig.Validate("path"), test.ShouldBeNil)

	validConfig.GPIOPins = []board.GPIOConfig{{Name: "xp"}}
	err = validConfig.Validate("path")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `path.gpio_pins.0`)

	test.That(t, validConfig.gpioChip(), test.ShouldEqual, DefaultGPIOChip)
	validConfig.GPIOChip = "/dev/gpiochip4"
	test.That(t, validConfig.gpioChip(), test.ShouldEqual, "/dev/gpiochip4")
}

func TestNewBoardAnalogs(t *testing.T) {
	conf := &Config{
		SPIs: []board.SPIConfig{{Name: "main", BusSelect: "0"}},
		Analogs: []board.AnalogConfig{
			{Name: "yp", Channel: "0", SPIBus: "main", ChipSelect: "0"},
			{Name: "xm", Channel: "1", SPIBus: "main", ChipSelect: "0", SpeedHz: 500000},
		},
	}
	b, err := newBoard(conf, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)

	a, err := b.AnalogByName("yp")
	test.That(t, err, test.ShouldBeNil)
	yp := a.(*MCP3008Analog)
	test.That(t, yp.Channel, test.ShouldEqual, 0)
	test.That(t, yp.SpeedHz, test.ShouldEqual, uint(DefaultMCP3008SpeedHz))

	a, err = b.AnalogByName("xm")
	test.That(t, err, test.ShouldBeNil)
	xm := a.(*MCP3008Analog)
	test.That(t, xm.Channel, test.ShouldEqual, 1)
	test.That(t, xm.SpeedHz, test.ShouldEqual, uint(500000))
	test.That(t, xm.Bus, test.ShouldEqual, yp.Bus)

	_, err = b.AnalogByName("zz")
	test.That(t, errors.Is(err, board.ErrPinNotFound), test.ShouldBeTrue)
	_, err = b.GPIOPinByName("xp")
	test.That(t, errors.Is(err, board.ErrPinNotFound), test.ShouldBeTrue)

	test.That(t, b.Close(context.Background()), test.ShouldBeNil)
}

func TestNewBoardUnknownPinName(t *testing.T) {
	conf := &Config{GPIOPins: []board.GPIOConfig{{Name: "xp", Pin: "NOT_A_PIN"}}}
	_, err := newBoard(conf, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `gpio pin "xp"`)
	test.That(t, err.Error(), test.ShouldContainSubstring, `no pin named "NOT_A_PIN"`)
}

type fakeSPI struct {
	mu       sync.Mutex
	rx       []byte
	err      error
	tx       []byte
	baud     uint
	chip     string
	open     bool
	closeErr error
}

func (s *fakeSPI) OpenHandle() (SPIHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = true
	return s, nil
}

func (s *fakeSPI) Xfer(ctx context.Context, baud uint, chipSelect string, mode uint, tx []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tx = append([]byte(nil), tx...)
	s.baud = baud
	s.chip = chipSelect
	return s.rx, s.err
}

func (s *fakeSPI) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = false
	return s.closeErr
}

func TestMCP3008Read(t *testing.T) {
	ctx := context.Background()
	// The top bits of rx[1] are garbage and must be masked off.
	bus := &fakeSPI{rx: []byte{0xFF, 0xFE, 0x34}}
	a := &MCP3008Analog{Bus: bus, Chip: "1", Channel: 3, SpeedHz: DefaultMCP3008SpeedHz}

	v, err := a.Read(ctx, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v.Value, test.ShouldEqual, 0x234)
	test.That(t, v.Max, test.ShouldEqual, 1023)
	test.That(t, bus.tx, test.ShouldResemble, []byte{1, (8 + 3) << 4, 0})
	test.That(t, bus.chip, test.ShouldEqual, "1")
	test.That(t, bus.baud, test.ShouldEqual, uint(DefaultMCP3008SpeedHz))
	test.That(t, bus.open, test.ShouldBeFalse)

	bus.err = errors.New("spidev gone")
	_, err = a.Read(ctx, nil)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "spidev gone")
	test.That(t, bus.open, test.ShouldBeFalse)

	bus.err = nil
	bus.closeErr = errors.New("close failed")
	_, err = a.Read(ctx, nil)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "close failed")
}

func TestSPIHandle(t *testing.T) {
	sb := &spiBus{bus: "0"}
	h, err := sb.OpenHandle()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, h.Close(), test.ShouldBeNil)
	test.That(t, h.Close(), test.ShouldBeNil)

	_, err = h.Xfer(context.Background(), DefaultMCP3008SpeedHz, "0", 0, []byte{1, 2, 3})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "already closed")

	// The bus is free again once the handle is closed.
	h, err = sb.OpenHandle()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, h.Close(), test.ShouldBeNil)
}
