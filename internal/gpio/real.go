//go:build linux

package gpio

import (
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// RealRelay drives the pump relay through the Linux GPIO character device.
type RealRelay struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

// NewRealRelay requests pin as an output, initially off.
// Set activeLow for relay boards that energise on a low level.
func NewRealRelay(chipName string, pin int, activeLow bool) (*RealRelay, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	opts := []gpiocdev.LineReqOption{gpiocdev.AsOutput(0), gpiocdev.WithConsumer("irrigator-pump")}
	if activeLow {
		opts = append(opts, gpiocdev.AsActiveLow)
	}

	line, err := chip.RequestLine(pin, opts...)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request pump pin %d: %w", pin, err)
	}

	return &RealRelay{chip: chip, line: line}, nil
}

// Set writes the logical relay state.
func (r *RealRelay) Set(on bool) error {
	v := 0
	if on {
		v = 1
	}
	if err := r.line.SetValue(v); err != nil {
		return fmt.Errorf("set pump pin: %w", err)
	}
	return nil
}

// Close forces the pump off, then returns the pin to an input so the
// relay board is not driven while the daemon is down.
func (r *RealRelay) Close() error {
	var errs []error

	if r.line != nil {
		if err := r.line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("force pump off: %w", err))
		}
		if err := r.line.Reconfigure(gpiocdev.AsInput); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure pump pin: %w", err))
		}
		if err := r.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close pump pin: %w", err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// RealButtons watches two push buttons wired between the pin and ground.
// The kernel debounces the lines; each falling edge is one press.
type RealButtons struct {
	chip    *gpiocdev.Chip
	lines   *gpiocdev.Lines
	queue   *EdgeQueue
	pinUp   int
	pinDown int
}

// NewRealButtons requests both pins as pulled-up inputs with falling edge
// detection and the given debounce period.
func NewRealButtons(chipName string, pinUp, pinDown int, debounce time.Duration) (*RealButtons, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	b := &RealButtons{
		chip:    chip,
		queue:   NewEdgeQueue(DefaultQueueSize),
		pinUp:   pinUp,
		pinDown: pinDown,
	}

	lines, err := chip.RequestLines([]int{pinUp, pinDown},
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithFallingEdge,
		gpiocdev.WithDebounce(debounce),
		gpiocdev.WithConsumer("irrigator-buttons"),
		gpiocdev.WithEventHandler(b.handle),
	)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request button pins %d,%d: %w", pinUp, pinDown, err)
	}
	b.lines = lines

	return b, nil
}

// handle runs on the gpiocdev watcher goroutine.
func (b *RealButtons) handle(evt gpiocdev.LineEvent) {
	if evt.Type != gpiocdev.LineEventFallingEdge {
		return
	}
	switch evt.Offset {
	case b.pinUp:
		b.queue.Push(ButtonUp)
	case b.pinDown:
		b.queue.Push(ButtonDown)
	}
}

// Edges returns presses since the previous call.
func (b *RealButtons) Edges() []Button {
	return b.queue.Drain()
}

// Close releases the button lines.
func (b *RealButtons) Close() error {
	var errs []error

	if b.lines != nil {
		if err := b.lines.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close button pins: %w", err))
		}
	}
	if b.chip != nil {
		if err := b.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
