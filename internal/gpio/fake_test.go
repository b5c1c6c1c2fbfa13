package gpio

import (
	"errors"
	"testing"
)

func TestFakeRelaySet(t *testing.T) {
	f := NewFakeRelay()

	if err := f.Set(true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.On {
		t.Error("expected relay on")
	}

	f.Set(true)
	f.Set(false)

	want := []bool{true, true, false}
	if len(f.Writes) != len(want) {
		t.Fatalf("expected %d writes, got %d", len(want), len(f.Writes))
	}
	for i := range want {
		if f.Writes[i] != want[i] {
			t.Errorf("write %d: expected %v, got %v", i, want[i], f.Writes[i])
		}
	}
}

func TestFakeRelayError(t *testing.T) {
	f := NewFakeRelay()
	f.SetError = errors.New("simulated error")

	err := f.Set(true)
	if err == nil || err.Error() != "simulated error" {
		t.Errorf("unexpected error: %v", err)
	}
	if f.On {
		t.Error("failed write should not change state")
	}
}

func TestFakeRelayCloseForcesOff(t *testing.T) {
	f := NewFakeRelay()
	f.Set(true)

	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if f.On {
		t.Error("Close should force relay off")
	}
	if !f.Closed {
		t.Error("should be closed after Close()")
	}
}

func TestFakeButtons(t *testing.T) {
	f := NewFakeButtons()

	if got := f.Edges(); got != nil {
		t.Errorf("expected no edges initially, got %v", got)
	}

	f.Press(ButtonUp, ButtonDown)
	got := f.Edges()
	if len(got) != 2 || got[0] != ButtonUp || got[1] != ButtonDown {
		t.Errorf("expected [UP DOWN], got %v", got)
	}

	// Each press is reported exactly once
	if got := f.Edges(); got != nil {
		t.Errorf("expected edges to be consumed, got %v", got)
	}
}

func TestFakeButtonsClose(t *testing.T) {
	f := NewFakeButtons()
	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !f.Closed {
		t.Error("should be closed after Close()")
	}
	if err := f.Close(); err == nil {
		t.Error("expected error on second Close()")
	}
}
