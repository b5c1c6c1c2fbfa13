package console

import (
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"

	"github.com/sweeney/irrigator/internal/gpio"
)

// Keys turns keystrokes into button presses:
//
//	+ = k   threshold up
//	- _ j   threshold down
//	q ^C ^D quit
type Keys struct {
	queue    *gpio.EdgeQueue
	quit     chan struct{}
	quitOnce sync.Once
	done     chan struct{}
	restore  func() error
}

// NewKeys reads keystrokes from in. If in is a terminal it is switched to
// raw mode so single keys arrive without Enter; Close restores it.
func NewKeys(in *os.File) (*Keys, error) {
	k := newKeys()
	fd := int(in.Fd())
	if term.IsTerminal(fd) {
		state, err := term.MakeRaw(fd)
		if err != nil {
			return nil, fmt.Errorf("raw terminal: %w", err)
		}
		k.restore = func() error { return term.Restore(fd, state) }
	}
	go k.readLoop(in)
	return k, nil
}

func newKeys() *Keys {
	return &Keys{
		queue: gpio.NewEdgeQueue(gpio.DefaultQueueSize),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}
}

// readLoop exits at EOF; a blocked read on stdin is left behind at shutdown.
func (k *Keys) readLoop(r io.Reader) {
	defer close(k.done)
	buf := make([]byte, 64)
	for {
		n, err := r.Read(buf)
		for _, c := range buf[:n] {
			switch c {
			case '+', '=', 'k':
				k.queue.Push(gpio.ButtonUp)
			case '-', '_', 'j':
				k.queue.Push(gpio.ButtonDown)
			case 'q', 0x03, 0x04:
				k.quitOnce.Do(func() { close(k.quit) })
			}
		}
		if err != nil {
			return
		}
	}
}

// Edges returns key presses since the previous call.
func (k *Keys) Edges() []gpio.Button {
	return k.queue.Drain()
}

// Quit is closed when the operator asks to stop.
func (k *Keys) Quit() <-chan struct{} {
	return k.quit
}

// Close restores the terminal mode.
func (k *Keys) Close() error {
	if k.restore != nil {
		return k.restore()
	}
	return nil
}
