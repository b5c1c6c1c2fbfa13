// Package logic contains pure business logic for soil-moisture irrigation.
// This package has NO external dependencies (no GPIO, ADC, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import (
	"errors"
	"time"
)

// ErrCalibration is returned when the dry and wet calibration points are
// equal, which leaves the percentage formula undefined.
var ErrCalibration = errors.New("calibration: dry and wet raw values must differ")

// Phase names the conceptual state of the irrigation machine.
// The machine itself is driven by two counters; Phase is derived for
// logging and display.
type Phase string

const (
	PhaseSatisfied  Phase = "SATISFIED"
	PhaseConfirming Phase = "CONFIRMING"
	PhaseDosing     Phase = "DOSING"
	PhaseSoaking    Phase = "SOAKING"
	// PhaseFault follows a failed sensor read that stopped a dose.
	PhaseFault Phase = "FAULT"
)

// EventType represents a transition worth reporting.
type EventType string

const (
	EventDryDetected EventType = "DRY_DETECTED"
	EventDoseStart   EventType = "DOSE_START"
	EventDoseEnd     EventType = "DOSE_END"
	EventSatisfied   EventType = "SATISFIED"
)

// End reasons carried by EventDoseEnd.
const (
	ReasonCeiling   = "ceiling"
	ReasonSatisfied = "satisfied"
	ReasonSensor    = "sensor"
)

// Timing holds the durations that drive the state machine.
type Timing struct {
	SampleInterval time.Duration
	DryConfirm     time.Duration
	DoseCeiling    time.Duration
}

// State is the mutable core of the irrigation machine. It is passed into
// and returned from Step; callers never mutate it directly.
type State struct {
	// Time the soil has continuously read below threshold.
	DryTime time.Duration
	// Time the pump has been on within the current dose.
	DoseTime time.Duration
	PumpOn   bool
	Phase    Phase
	// Status is a short human-readable line, recomputed every step.
	Status string
}

// Input represents a single raw sensor sample.
type Input struct {
	Raw  int
	Time time.Time
}

// Event represents a transition to be logged or journaled.
type Event struct {
	Timestamp time.Time
	Type      EventType
	Moisture  float64
	Threshold float64
	// Reason is set for EventDoseEnd.
	Reason string
	// Dose is the pump on-time of the finished dose (EventDoseEnd only).
	Dose time.Duration
}

// Counts tracks dose activity since startup.
type Counts struct {
	Doses       int
	PumpOnTime  time.Duration
	Adjustments int
}

// HeartbeatData contains information for a heartbeat log line.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Counts    Counts
	State     State
	Moisture  float64
	Threshold float64
}
