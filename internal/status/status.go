// Package status builds point-in-time views of controller state for the
// read command and heartbeat log lines.
package status

import (
	"log/slog"
	"math"
	"time"

	"github.com/sweeney/irrigator/internal/logic"
)

// Config contains daemon configuration for display.
type Config struct {
	SampleMs     int64
	DryConfirmMs int64
	DoseMs       int64
	HeartbeatMs  int64
	DryRaw       float64
	WetRaw       float64
	Sensor       string
	Relay        string
	Input        string
	Display      string
}

// Snapshot is a point-in-time view of daemon state.
type Snapshot struct {
	Raw       int
	Moisture  float64
	Sampled   bool
	Threshold float64
	State     logic.State
	Counts    logic.Counts
	StartTime time.Time
	Now       time.Time
	Config    Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Controller is the read side of logic.Controller.
type Controller interface {
	Moisture() (float64, bool)
	Threshold() float64
	State() logic.State
	CountsSnapshot() logic.Counts
}

// Capture builds a snapshot from the controller and the last raw sample.
func Capture(c Controller, raw int, start, now time.Time, cfg Config) Snapshot {
	moisture, sampled := c.Moisture()
	return Snapshot{
		Raw:       raw,
		Moisture:  moisture,
		Sampled:   sampled,
		Threshold: c.Threshold(),
		State:     c.State(),
		Counts:    c.CountsSnapshot(),
		StartTime: start,
		Now:       now,
		Config:    cfg,
	}
}

// Attrs returns the snapshot as structured log attributes.
func (s Snapshot) Attrs() []slog.Attr {
	return []slog.Attr{
		slog.String("phase", phase(s.State)),
		slog.Float64("moisture", round1(s.Moisture)),
		slog.Int("raw", s.Raw),
		slog.Float64("threshold", s.Threshold),
		slog.Bool("pump", s.State.PumpOn),
		slog.Duration("dry", s.State.DryTime),
		slog.Duration("dose", s.State.DoseTime),
		slog.Int("doses", s.Counts.Doses),
		slog.Duration("pump_on_time", s.Counts.PumpOnTime),
		slog.Int("adjustments", s.Counts.Adjustments),
		slog.Duration("uptime", s.Uptime().Truncate(time.Second)),
	}
}

func phase(st logic.State) string {
	if st.Phase == "" {
		return "STARTING"
	}
	return string(st.Phase)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
