package sensor

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ads1x15"
	"periph.io/x/host/v3"
)

// ADS1115 reads a capacitive probe wired to one single-ended ADS1115 channel.
type ADS1115 struct {
	bus i2c.BusCloser
	pin ads1x15.PinADC
}

var channels = [...]ads1x15.Channel{
	ads1x15.Channel0,
	ads1x15.Channel1,
	ads1x15.Channel2,
	ads1x15.Channel3,
}

// NewADS1115 opens the I²C bus and configures channel for single reads.
// busName may be empty to use the default bus.
func NewADS1115(busName string, address uint16, channel int) (*ADS1115, error) {
	if channel < 0 || channel >= len(channels) {
		return nil, fmt.Errorf("ads1115: channel %d out of range 0-3", channel)
	}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", busName, err)
	}

	opts := ads1x15.DefaultOpts
	opts.I2cAddress = address
	adc, err := ads1x15.NewADS1115(bus, &opts)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("ads1115 at 0x%02x: %w", address, err)
	}

	// Capacitive probes run from 3.3V; 4.096V full scale keeps the whole
	// swing in range.
	pin, err := adc.PinForChannel(channels[channel], 4096*physic.MilliVolt, 8*physic.Hertz, ads1x15.BestQuality)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("ads1115 channel %d: %w", channel, err)
	}

	return &ADS1115{bus: bus, pin: pin}, nil
}

// Read returns the raw conversion result.
func (a *ADS1115) Read() (int, error) {
	sample, err := a.pin.Read()
	if err != nil {
		return 0, fmt.Errorf("ads1115 read: %w", err)
	}
	return int(sample.Raw), nil
}

// Close halts the ADC pin and closes the bus.
func (a *ADS1115) Close() error {
	var errs []error
	if a.pin != nil {
		if err := a.pin.Halt(); err != nil {
			errs = append(errs, fmt.Errorf("halt pin: %w", err))
		}
	}
	if a.bus != nil {
		if err := a.bus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close bus: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
