package logic

import (
	"errors"
	"math"
	"testing"
)

// Reference capacitive sensor calibration: AirValue=620, WaterValue=35.
var referenceCal = Calibration{DryRaw: 620, WetRaw: 35}

func TestMoisturePercentReferencePoints(t *testing.T) {
	tests := []struct {
		raw  int
		want float64
	}{
		{620, 0},
		{35, 100},
		{327, 50.085},
		{328, 49.915},
	}

	for _, tt := range tests {
		got, err := MoisturePercent(tt.raw, referenceCal)
		if err != nil {
			t.Fatalf("raw=%d: unexpected error: %v", tt.raw, err)
		}
		if math.Abs(got-tt.want) > 0.01 {
			t.Errorf("raw=%d: got %.3f, want %.3f", tt.raw, got, tt.want)
		}
	}
}

func TestMoisturePercentNotClamped(t *testing.T) {
	// Drier than air: negative percentage
	got, _ := MoisturePercent(700, referenceCal)
	if got >= 0 {
		t.Errorf("raw above DryRaw: expected negative percentage, got %.2f", got)
	}

	// Wetter than water: above 100
	got, _ = MoisturePercent(0, referenceCal)
	if got <= 100 {
		t.Errorf("raw below WetRaw: expected >100, got %.2f", got)
	}
}

func TestMoisturePercentMonotonic(t *testing.T) {
	prev, _ := MoisturePercent(0, referenceCal)
	for raw := 1; raw <= 1023; raw++ {
		got, _ := MoisturePercent(raw, referenceCal)
		if got > prev {
			t.Fatalf("raw=%d: percentage increased from %.3f to %.3f", raw, prev, got)
		}
		prev = got
	}
}

func TestMoisturePercentInvertedCalibration(t *testing.T) {
	// A sensor that reads higher when wet.
	cal := Calibration{DryRaw: 100, WetRaw: 900}

	got, _ := MoisturePercent(100, cal)
	if got != 0 {
		t.Errorf("raw=DryRaw: got %.2f, want 0", got)
	}
	got, _ = MoisturePercent(900, cal)
	if got != 100 {
		t.Errorf("raw=WetRaw: got %.2f, want 100", got)
	}
}

func TestMoisturePercentEqualCalibration(t *testing.T) {
	_, err := MoisturePercent(300, Calibration{DryRaw: 500, WetRaw: 500})
	if !errors.Is(err, ErrCalibration) {
		t.Errorf("expected ErrCalibration, got %v", err)
	}
}
