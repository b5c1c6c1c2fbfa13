package display

// Frame is one pair of lines written to a FakeDisplay.
type Frame struct {
	Line1 string
	Line2 string
}

// FakeDisplay records frames for test assertions.
type FakeDisplay struct {
	// Frames contains every frame shown, oldest first.
	Frames []Frame

	// ShowError, if set, will be returned by Show.
	ShowError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeDisplay creates an empty FakeDisplay.
func NewFakeDisplay() *FakeDisplay {
	return &FakeDisplay{}
}

// Show records the frame.
func (f *FakeDisplay) Show(line1, line2 string) error {
	if f.ShowError != nil {
		return f.ShowError
	}
	f.Frames = append(f.Frames, Frame{Line1: line1, Line2: line2})
	return nil
}

// Last returns the most recent frame, or a zero Frame if none.
func (f *FakeDisplay) Last() Frame {
	if len(f.Frames) == 0 {
		return Frame{}
	}
	return f.Frames[len(f.Frames)-1]
}

// Close marks the display as closed.
func (f *FakeDisplay) Close() error {
	f.Closed = true
	return nil
}
