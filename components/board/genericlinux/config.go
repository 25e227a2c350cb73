package genericlinux

import (
	"fmt"

	"github.com/pkg/errors"
	"go.viam.com/utils"

	"github.com/viam-modules/resistive-touch/components/board"
)

// DefaultGPIOChip is the gpiochip character device numeric pin names are looked up on.
const DefaultGPIOChip = "/dev/gpiochip0"

// A Config describes the configuration of a board and all of its connected parts.
type Config struct {
	GPIOChip string               `json:"gpio_chip,omitempty"`
	GPIOPins []board.GPIOConfig   `json:"gpio_pins,omitempty"`
	SPIs     []board.SPIConfig    `json:"spis,omitempty"`
	Analogs  []board.AnalogConfig `json:"analogs,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (conf *Config) Validate(path string) error {
	spis := map[string]struct{}{}
	for idx, c := range conf.SPIs {
		if err := c.Validate(fmt.Sprintf("%s.%s.%d", path, "spis", idx)); err != nil {
			return err
		}
		spis[c.Name] = struct{}{}
	}
	for idx, c := range conf.Analogs {
		analogPath := fmt.Sprintf("%s.%s.%d", path, "analogs", idx)
		if err := c.Validate(analogPath); err != nil {
			return err
		}
		if c.SPIBus == "" {
			return utils.NewConfigValidationFieldRequiredError(analogPath, "spi_bus")
		}
		if _, ok := spis[c.SPIBus]; !ok {
			return utils.NewConfigValidationError(analogPath, errors.Errorf("spi bus %q is not configured", c.SPIBus))
		}
		if c.ChipSelect == "" {
			return utils.NewConfigValidationFieldRequiredError(analogPath, "chip_select")
		}
	}
	for idx, c := range conf.GPIOPins {
		if err := c.Validate(fmt.Sprintf("%s.%s.%d", path, "gpio_pins", idx)); err != nil {
			return err
		}
	}
	return nil
}

func (conf *Config) gpioChip() string {
	if conf.GPIOChip == "" {
		return DefaultGPIOChip
	}
	return conf.GPIOChip
}
