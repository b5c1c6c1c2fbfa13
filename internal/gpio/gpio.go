// Package gpio provides relay output and button input with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Relay drives the pump relay.
type Relay interface {
	// Set writes the logical relay state (true = pump on).
	// Writing the same value repeatedly is harmless.
	Set(on bool) error

	// Close forces the relay off and releases GPIO resources.
	Close() error
}

// EdgeSource delivers debounced button press edges.
type EdgeSource interface {
	// Edges returns all presses since the previous call, oldest first.
	Edges() []Button

	// Close releases input resources.
	Close() error
}

// Button identifies a threshold adjustment button.
type Button int

const (
	ButtonUp Button = iota + 1
	ButtonDown
)

// Delta returns the threshold adjustment for one press.
func (b Button) Delta() int {
	switch b {
	case ButtonUp:
		return 1
	case ButtonDown:
		return -1
	}
	return 0
}

func (b Button) String() string {
	switch b {
	case ButtonUp:
		return "UP"
	case ButtonDown:
		return "DOWN"
	}
	return "UNKNOWN"
}

// Pin defaults (BCM numbering)
const (
	DefaultChip    = "gpiochip0"
	DefaultPinPump = 17
	DefaultPinUp   = 23
	DefaultPinDown = 24
)
