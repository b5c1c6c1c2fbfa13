// Package display renders controller status as two fixed-width text lines
// and writes them to a character display.
package display

// Display shows two lines of text. Each call rewrites the whole screen.
type Display interface {
	Show(line1, line2 string) error

	// Close blanks the display and releases resources.
	Close() error
}

// DefaultWidth is the column count of a 1602 character LCD.
const DefaultWidth = 16

// None is a Display that discards everything.
type None struct{}

// Show discards the lines.
func (None) Show(string, string) error { return nil }

// Close is a no-op.
func (None) Close() error { return nil }
