package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Phase         string     `json:"phase"`
	Line          string     `json:"line,omitempty"`
	Raw           int        `json:"raw"`
	Moisture      *float64   `json:"moisture"`
	Threshold     float64    `json:"threshold"`
	Dry           bool       `json:"dry"`
	Pump          bool       `json:"pump"`
	DryMs         int64      `json:"dry_ms"`
	DoseMs        int64      `json:"dose_ms"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	Counts        CountsJSON `json:"counts"`
	Config        ConfigJSON `json:"config"`
}

// CountsJSON is the JSON representation of activity counters.
type CountsJSON struct {
	Doses       int   `json:"doses"`
	PumpOnMs    int64 `json:"pump_on_ms"`
	Adjustments int   `json:"adjustments"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	SampleMs     int64   `json:"sample_ms"`
	DryConfirmMs int64   `json:"dry_confirm_ms"`
	DoseMs       int64   `json:"dose_ms"`
	HeartbeatMs  int64   `json:"heartbeat_ms"`
	DryRaw       float64 `json:"dry_raw"`
	WetRaw       float64 `json:"wet_raw"`
	Sensor       string  `json:"sensor"`
	Relay        string  `json:"relay"`
	Input        string  `json:"input"`
	Display      string  `json:"display"`
}

func buildInner(snap Snapshot) StatusInner {
	inner := StatusInner{
		Phase:         phase(snap.State),
		Line:          snap.State.Status,
		Raw:           snap.Raw,
		Threshold:     snap.Threshold,
		Pump:          snap.State.PumpOn,
		DryMs:         snap.State.DryTime.Milliseconds(),
		DoseMs:        snap.State.DoseTime.Milliseconds(),
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		Counts: CountsJSON{
			Doses:       snap.Counts.Doses,
			PumpOnMs:    snap.Counts.PumpOnTime.Milliseconds(),
			Adjustments: snap.Counts.Adjustments,
		},
		Config: ConfigJSON(snap.Config),
	}
	if snap.Sampled {
		m := round1(snap.Moisture)
		inner.Moisture = &m
		inner.Dry = snap.Moisture < snap.Threshold
	}
	return inner
}

// FormatJSON returns the indented JSON status.
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}
