package logic

import (
	"fmt"
	"time"
)

// ControllerConfig is the fixed configuration of a Controller.
type ControllerConfig struct {
	Calibration Calibration
	Timing      Timing
	Threshold   float64
}

// Controller owns the irrigation state, the threshold and the sampling
// clock. It is not safe for concurrent use; the control loop owns it.
type Controller struct {
	cal       Calibration
	timing    Timing
	threshold float64

	state    State
	moisture float64
	sampled  bool

	lastAdvance   time.Time
	startTime     time.Time
	lastHeartbeat time.Time
	counts        Counts
}

// NewController validates cfg and creates a controller. The first sample
// is due one SampleInterval after startTime.
func NewController(cfg ControllerConfig, startTime time.Time) (*Controller, error) {
	if err := cfg.Calibration.Validate(); err != nil {
		return nil, err
	}
	if cfg.Timing.SampleInterval <= 0 {
		return nil, fmt.Errorf("sample interval must be positive, got %v", cfg.Timing.SampleInterval)
	}
	if cfg.Timing.DryConfirm < 0 || cfg.Timing.DoseCeiling < 0 {
		return nil, fmt.Errorf("dry confirm and dose ceiling must not be negative")
	}
	return &Controller{
		cal:           cfg.Calibration,
		timing:        cfg.Timing,
		threshold:     cfg.Threshold,
		lastAdvance:   startTime,
		startTime:     startTime,
		lastHeartbeat: startTime,
	}, nil
}

// Due reports whether a sample should be taken at now.
func (c *Controller) Due(now time.Time) bool {
	return now.Sub(c.lastAdvance) >= c.timing.SampleInterval
}

// Process takes a raw sample and, if a sampling interval has elapsed,
// advances the state machine. The bool result reports whether it advanced.
// Events describe transitions caused by this step.
func (c *Controller) Process(input Input) ([]Event, bool) {
	if !c.Due(input.Time) {
		return nil, false
	}
	c.lastAdvance = input.Time

	// Calibration was validated in NewController.
	pct, _ := MoisturePercent(input.Raw, c.cal)

	prev := c.state
	c.state = Step(prev, pct, c.threshold, c.timing)
	c.moisture = pct
	c.sampled = true

	if c.state.PumpOn {
		c.counts.PumpOnTime += c.timing.SampleInterval
	}

	return c.transitions(prev, input.Time), true
}

func (c *Controller) transitions(prev State, now time.Time) []Event {
	var events []Event
	emit := func(t EventType) *Event {
		events = append(events, Event{
			Timestamp: now,
			Type:      t,
			Moisture:  c.moisture,
			Threshold: c.threshold,
		})
		return &events[len(events)-1]
	}

	next := c.state
	wasIdle := prev.Phase == "" || prev.Phase == PhaseSatisfied || prev.Phase == PhaseFault
	if wasIdle && (next.Phase == PhaseConfirming || next.Phase == PhaseDosing) {
		emit(EventDryDetected)
	}
	if !prev.PumpOn && next.PumpOn {
		c.counts.Doses++
		emit(EventDoseStart)
	}
	if prev.PumpOn && !next.PumpOn {
		e := emit(EventDoseEnd)
		e.Dose = prev.DoseTime
		e.Reason = ReasonSatisfied
		if next.Phase == PhaseSoaking {
			e.Reason = ReasonCeiling
		}
	}
	if next.Phase == PhaseSatisfied && prev.Phase != "" && prev.Phase != PhaseSatisfied {
		emit(EventSatisfied)
	}
	return events
}

// Fault records a failed sensor read at now. A dose in progress is ended
// with both counters reset, so the pump never runs without fresh samples;
// the next good sample starts a new confirmation. Confirmation counting
// without the pump is left paused. The sampling gate is not advanced, so
// the caller retries on its next poll.
func (c *Controller) Fault(now time.Time) []Event {
	prev := c.state
	if !prev.PumpOn {
		return nil
	}
	c.state = State{Phase: PhaseFault, Status: statusFault}
	return []Event{{
		Timestamp: now,
		Type:      EventDoseEnd,
		Moisture:  c.moisture,
		Threshold: c.threshold,
		Reason:    ReasonSensor,
		Dose:      prev.DoseTime,
	}}
}

// Adjust applies one button edge to the threshold and returns the new value.
// The new threshold takes effect at the next sampling step.
func (c *Controller) Adjust(delta int) float64 {
	c.threshold = ApplyAdjustment(c.threshold, delta)
	c.counts.Adjustments++
	return c.threshold
}

// Threshold returns the current threshold.
func (c *Controller) Threshold() float64 {
	return c.threshold
}

// State returns the current machine state.
func (c *Controller) State() State {
	return c.state
}

// Moisture returns the last computed percentage and whether any sample
// has been taken yet.
func (c *Controller) Moisture() (float64, bool) {
	return c.moisture, c.sampled
}

// Timing returns the configured durations.
func (c *Controller) Timing() Timing {
	return c.timing
}

// CountsSnapshot returns a copy of the activity counters.
func (c *Controller) CountsSnapshot() Counts {
	return c.counts
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since the
// last heartbeat (or startup). Returns nil if no sample has been taken yet,
// if the interval has not elapsed, or if interval is <= 0 (disabled).
func (c *Controller) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}

	if !c.sampled {
		return nil
	}

	if now.Sub(c.lastHeartbeat) < interval {
		return nil
	}

	c.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(c.startTime),
		Counts:    c.counts,
		State:     c.state,
		Moisture:  c.moisture,
		Threshold: c.threshold,
	}
}
