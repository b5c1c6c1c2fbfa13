// Package sensor reads the raw capacitive moisture sample.
// The real implementation uses an ADS1115 ADC on I²C via periph.io.
// The fake implementation allows testing without hardware.
package sensor

// Reader reads one raw analog sample from the moisture probe.
type Reader interface {
	// Read returns the raw ADC value. No unit conversion is applied.
	Read() (int, error)

	// Close releases sensor resources.
	Close() error
}

// Defaults for the ADS1115 wiring.
const (
	DefaultBus     = "" // periph picks the first bus, usually /dev/i2c-1
	DefaultAddress = 0x48
	DefaultChannel = 0
)
