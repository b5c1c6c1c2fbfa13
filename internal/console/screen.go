// Package console emulates the controller's panel on a terminal: a boxed
// two-line screen and keyboard keys standing in for the two buttons.
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sweeney/irrigator/internal/display"
)

var panelStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder(), true).
	BorderForeground(lipgloss.Color("#4A7C59")).
	Foreground(lipgloss.Color("#C8F0C8")).
	Background(lipgloss.Color("#1E3A24"))

// Screen redraws a bordered two-line panel in place on a terminal.
type Screen struct {
	out   io.Writer
	width int
	drawn int // lines drawn by the previous frame
}

// NewScreen creates a Screen of width columns writing to out.
func NewScreen(out io.Writer, width int) *Screen {
	if width <= 0 {
		width = display.DefaultWidth
	}
	return &Screen{out: out, width: width}
}

// Show draws the panel, replacing the previous frame.
func (s *Screen) Show(line1, line2 string) error {
	box := panelStyle.Render(display.Fit(line1, s.width) + "\n" + display.Fit(line2, s.width))
	rows := strings.Split(box, "\n")

	var b strings.Builder
	if s.drawn > 0 {
		fmt.Fprintf(&b, "\x1b[%dA", s.drawn)
	}
	for _, row := range rows {
		// \r\n because the terminal may be in raw mode.
		b.WriteString("\r" + row + "\x1b[K\r\n")
	}
	s.drawn = len(rows)

	_, err := io.WriteString(s.out, b.String())
	return err
}

// Close leaves the last frame on screen.
func (s *Screen) Close() error {
	return nil
}
