package gpio

import "errors"

// FakeRelay is a test double that records relay writes.
type FakeRelay struct {
	// Writes contains every value passed to Set.
	Writes []bool

	// On is the last value written.
	On bool

	// SetError, if set, will be returned by Set().
	SetError error

	// Closed tracks if Close was called
	Closed bool
}

// NewFakeRelay creates a FakeRelay in the off state.
func NewFakeRelay() *FakeRelay {
	return &FakeRelay{}
}

// Set records the write.
func (f *FakeRelay) Set(on bool) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.Writes = append(f.Writes, on)
	f.On = on
	return nil
}

// Close forces the relay off and marks it closed.
func (f *FakeRelay) Close() error {
	f.On = false
	f.Closed = true
	return nil
}

// FakeButtons is a test double whose presses are scripted with Press.
type FakeButtons struct {
	queue *EdgeQueue

	// Closed tracks if Close was called
	Closed bool
}

// NewFakeButtons creates FakeButtons with an empty queue.
func NewFakeButtons() *FakeButtons {
	return &FakeButtons{queue: NewEdgeQueue(DefaultQueueSize)}
}

// Press queues one or more presses.
func (f *FakeButtons) Press(buttons ...Button) {
	for _, b := range buttons {
		f.queue.Push(b)
	}
}

// Edges drains the queued presses.
func (f *FakeButtons) Edges() []Button {
	return f.queue.Drain()
}

// Close marks the buttons as closed.
func (f *FakeButtons) Close() error {
	if f.Closed {
		return errors.New("already closed")
	}
	f.Closed = true
	return nil
}

// NoButtons is an EdgeSource that never reports presses.
type NoButtons struct{}

// Edges always returns nil.
func (NoButtons) Edges() []Button { return nil }

// Close is a no-op.
func (NoButtons) Close() error { return nil }

// NoRelay is a Relay that discards writes, for running without a pump.
type NoRelay struct{}

// Set discards the value.
func (NoRelay) Set(bool) error { return nil }

// Close is a no-op.
func (NoRelay) Close() error { return nil }
