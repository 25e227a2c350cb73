package board

import (
	"strconv"

	"github.com/pkg/errors"
	"go.viam.com/utils"
)

// SPIConfig enumerates a specific, shareable SPI bus.
type SPIConfig struct {
	Name      string `json:"name"`
	BusSelect string `json:"bus_select"` // the N in /dev/spidevN.M
}

// Validate ensures all parts of the config are valid.
func (config *SPIConfig) Validate(path string) error {
	if config.Name == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "name")
	}
	if config.BusSelect == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "bus_select")
	}
	return nil
}

// AnalogConfig describes the configuration of an analog reader on a board.
type AnalogConfig struct {
	Name       string `json:"name"`
	Channel    string `json:"channel"`     // analog input channel on the ADC itself
	SPIBus     string `json:"spi_bus"`     // name of the SPI bus (which is configured elsewhere in the config file)
	ChipSelect string `json:"chip_select"` // the M in /dev/spidevN.M
	SpeedHz    int    `json:"speed_hz,omitempty"`
}

// MaxADCChannel is the highest channel on the 8 channel ADCs boards read through.
const MaxADCChannel = 7

// Validate ensures all parts of the config are valid.
func (config *AnalogConfig) Validate(path string) error {
	if config.Name == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "name")
	}
	if config.Channel == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "channel")
	}
	ch, err := strconv.Atoi(config.Channel)
	if err != nil || ch < 0 || ch > MaxADCChannel {
		return utils.NewConfigValidationError(path,
			errors.Errorf("channel must be an integer between 0 and %d, got %q", MaxADCChannel, config.Channel))
	}
	if config.SpeedHz < 0 {
		return utils.NewConfigValidationError(path, errors.New("speed_hz cannot be negative"))
	}
	return nil
}

// GPIOConfig names a GPIO pin. Pin is either a line offset on the board's gpiochip or a header pin
// name the board's pin registry knows.
type GPIOConfig struct {
	Name string `json:"name"`
	Pin  string `json:"pin"`
}

// Validate ensures all parts of the config are valid.
func (config *GPIOConfig) Validate(path string) error {
	if config.Name == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "name")
	}
	if config.Pin == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "pin")
	}
	return nil
}
