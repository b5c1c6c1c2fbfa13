package display

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// DefaultLCDAddress is the usual address of a PCF8574 LCD backpack.
const DefaultLCDAddress = 0x27

// PCF8574 port bits on the common HD44780 backpack.
const (
	bitRS        = 0x01
	bitEN        = 0x04
	bitBacklight = 0x08
)

// HD44780 instructions.
const (
	cmdClear       = 0x01
	cmdEntryMode   = 0x06 // increment, no shift
	cmdDisplayOn   = 0x0C // display on, cursor off, blink off
	cmdFunctionSet = 0x28 // 4-bit, 2 lines, 5x8 font
	cmdDDRAM       = 0x80
	line2Offset    = 0x40
)

// LCD drives an HD44780 1602/2004 character LCD through a PCF8574 I²C
// backpack in 4-bit mode.
type LCD struct {
	dev       conn.Conn
	closer    i2c.BusCloser
	width     int
	backlight byte
	sleep     func(time.Duration)
}

// OpenLCD initialises the periph host, opens busName and resets the LCD
// at addr. busName may be empty for the default bus.
func OpenLCD(busName string, addr uint16, width int) (*LCD, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", busName, err)
	}
	l, err := newLCD(&i2c.Dev{Bus: bus, Addr: addr}, width, time.Sleep)
	if err != nil {
		bus.Close()
		return nil, err
	}
	l.closer = bus
	return l, nil
}

func newLCD(dev conn.Conn, width int, sleep func(time.Duration)) (*LCD, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	l := &LCD{dev: dev, width: width, backlight: bitBacklight, sleep: sleep}
	if err := l.init(); err != nil {
		return nil, fmt.Errorf("lcd init: %w", err)
	}
	return l, nil
}

// init runs the HD44780 "initialisation by instruction" sequence for
// 4-bit operation.
func (l *LCD) init() error {
	l.sleep(50 * time.Millisecond)
	for _, d := range []time.Duration{5 * time.Millisecond, 200 * time.Microsecond, 200 * time.Microsecond} {
		if err := l.writeNibble(0x30, 0); err != nil {
			return err
		}
		l.sleep(d)
	}
	if err := l.writeNibble(0x20, 0); err != nil {
		return err
	}
	for _, cmd := range []byte{cmdFunctionSet, cmdDisplayOn, cmdClear, cmdEntryMode} {
		if err := l.command(cmd); err != nil {
			return err
		}
	}
	return nil
}

// Show rewrites both lines. Characters outside printable ASCII are
// replaced with '?' since the controller ROM only maps ASCII reliably.
func (l *LCD) Show(line1, line2 string) error {
	for i, line := range []string{line1, line2} {
		addr := byte(0)
		if i == 1 {
			addr = line2Offset
		}
		if err := l.command(cmdDDRAM | addr); err != nil {
			return fmt.Errorf("lcd line %d: %w", i+1, err)
		}
		for _, b := range lcdBytes(Fit(line, l.width)) {
			if err := l.write(b, bitRS); err != nil {
				return fmt.Errorf("lcd line %d: %w", i+1, err)
			}
		}
	}
	return nil
}

// Close clears the screen, turns the backlight off and closes the bus if
// OpenLCD opened it.
func (l *LCD) Close() error {
	var errs []error
	if err := l.command(cmdClear); err != nil {
		errs = append(errs, fmt.Errorf("clear: %w", err))
	}
	l.backlight = 0
	if err := l.dev.Tx([]byte{0}, nil); err != nil {
		errs = append(errs, fmt.Errorf("backlight off: %w", err))
	}
	if l.closer != nil {
		if err := l.closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close bus: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

func (l *LCD) command(cmd byte) error {
	if err := l.write(cmd, 0); err != nil {
		return err
	}
	if cmd == cmdClear {
		l.sleep(2 * time.Millisecond)
	}
	return nil
}

// write sends b as two nibbles in a single bus transaction.
func (l *LCD) write(b, mode byte) error {
	hi := b&0xF0 | mode | l.backlight
	lo := b<<4&0xF0 | mode | l.backlight
	return l.dev.Tx([]byte{hi, hi | bitEN, hi, lo, lo | bitEN, lo}, nil)
}

func (l *LCD) writeNibble(n, mode byte) error {
	v := n&0xF0 | mode | l.backlight
	return l.dev.Tx([]byte{v, v | bitEN, v}, nil)
}

func lcdBytes(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r < 0x20 || r > 0x7E {
			r = '?'
		}
		out = append(out, byte(r))
	}
	return out
}
