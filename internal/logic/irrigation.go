package logic

import (
	"fmt"
	"time"
)

const (
	statusSatisfied = "Soil OK"
	statusSoaking   = "Soaking"
	statusFault     = "Sensor error"
)

// Step advances the irrigation machine by one sampling interval.
//
// Rules, in order:
//  1. moisture >= threshold: counters reset, pump off.
//  2. DryTime below DryConfirm: keep confirming, pump off.
//  3. DoseTime below DoseCeiling: pump on.
//  4. Otherwise the dose is spent: counters reset, pump off. The next
//     dry step starts a fresh confirmation, which doubles as the soak.
func Step(s State, moisture, threshold float64, t Timing) State {
	if moisture >= threshold {
		return State{Phase: PhaseSatisfied, Status: statusSatisfied}
	}

	switch {
	case s.DryTime < t.DryConfirm:
		s.DryTime += t.SampleInterval
		s.PumpOn = false
		s.Phase = PhaseConfirming
		s.Status = "Dose in " + clock(t.DryConfirm-s.DryTime)
	case s.DoseTime < t.DoseCeiling:
		s.DoseTime += t.SampleInterval
		s.PumpOn = true
		s.Phase = PhaseDosing
		s.Status = fmt.Sprintf("Pump %d/%ds", int(s.DoseTime.Seconds()), int(t.DoseCeiling.Seconds()))
	default:
		s = State{Phase: PhaseSoaking, Status: statusSoaking}
	}
	return s
}

// clock renders a non-negative duration as m:ss.
func clock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d.Round(time.Second).Seconds())
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
