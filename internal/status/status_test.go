package status

import (
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/sweeney/irrigator/internal/logic"
)

var testStart = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

type fakeController struct {
	moisture  float64
	sampled   bool
	threshold float64
	state     logic.State
	counts    logic.Counts
}

func (f fakeController) Moisture() (float64, bool) { return f.moisture, f.sampled }
func (f fakeController) Threshold() float64 { return f.threshold }
func (f fakeController) State() logic.State { return f.state }
func (f fakeController) CountsSnapshot() logic.Counts { return f.counts }

func TestSnapshotUptime(t *testing.T) {
	snap := Snapshot{
		StartTime: testStart,
		Now:       testStart.Add(15 * time.Minute),
	}

	if snap.Uptime() != 15*time.Minute {
		t.Errorf("Uptime: got %v, want 15m", snap.Uptime())
	}
}

func TestCapture(t *testing.T) {
	fc := fakeController{
		moisture:  30,
		sampled:   true,
		threshold: 37,
		state:     logic.State{DryTime: 180 * time.Second, DoseTime: 3 * time.Second, PumpOn: true, Phase: logic.PhaseDosing, Status: "Pump 3/20s"},
		counts:    logic.Counts{Doses: 1, PumpOnTime: 3 * time.Second},
	}
	cfg := Config{SampleMs: 1000}
	snap := Capture(fc, 444, testStart, testStart.Add(time.Minute), cfg)

	if snap.Raw != 444 || snap.Moisture != 30 || !snap.Sampled || snap.Threshold != 37 {
		t.Errorf("unexpected snapshot values: %+v", snap)
	}
	if snap.State != fc.state {
		t.Errorf("State: got %+v, want %+v", snap.State, fc.state)
	}
	if snap.Counts != fc.counts {
		t.Errorf("Counts: got %+v, want %+v", snap.Counts, fc.counts)
	}
	if snap.Config != cfg {
		t.Errorf("Config: got %+v, want %+v", snap.Config, cfg)
	}
}

func TestFormatJSON(t *testing.T) {
	snap := Snapshot{
		Raw:       444,
		Moisture:  30.0854,
		Sampled:   true,
		Threshold: 37,
		State:     logic.State{DryTime: 180 * time.Second, DoseTime: 5 * time.Second, PumpOn: true, Phase: logic.PhaseDosing, Status: "Pump 5/20s"},
		Counts:    logic.Counts{Doses: 2, PumpOnTime: 25 * time.Second, Adjustments: 3},
		StartTime: testStart,
		Now:       testStart.Add(15 * time.Minute),
		Config:    Config{SampleMs: 1000, DryConfirmMs: 180000, DoseMs: 20000, HeartbeatMs: 900000, DryRaw: 620, WetRaw: 35, Sensor: "ads1115"},
	}

	data := FormatJSON(snap)

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	s := parsed.Status
	if s.Phase != "DOSING" {
		t.Errorf("Phase: got %q, want DOSING", s.Phase)
	}
	if s.Line != "Pump 5/20s" {
		t.Errorf("Line: got %q", s.Line)
	}
	if s.Moisture == nil || *s.Moisture != 30.1 {
		t.Errorf("Moisture: got %v, want 30.1", s.Moisture)
	}
	if !s.Dry || !s.Pump {
		t.Errorf("expected Dry and Pump true, got %v %v", s.Dry, s.Pump)
	}
	if s.DryMs != 180000 || s.DoseMs != 5000 {
		t.Errorf("DryMs/DoseMs: got %d/%d", s.DryMs, s.DoseMs)
	}
	if s.UptimeSeconds != 900 {
		t.Errorf("UptimeSeconds: got %d, want 900", s.UptimeSeconds)
	}
	if s.StartTime != "2026-01-01T00:00:00Z" {
		t.Errorf("StartTime: got %q", s.StartTime)
	}
	if s.Counts.Doses != 2 || s.Counts.PumpOnMs != 25000 || s.Counts.Adjustments != 3 {
		t.Errorf("Counts: got %+v", s.Counts)
	}
	if s.Config.DryRaw != 620 || s.Config.Sensor != "ads1115" {
		t.Errorf("Config: got %+v", s.Config)
	}
}

func TestFormatJSONBeforeFirstSample(t *testing.T) {
	snap := Snapshot{
		Threshold: 37,
		StartTime: testStart,
		Now:       testStart.Add(time.Second),
	}

	var raw map[string]any
	if err := json.Unmarshal(FormatJSON(snap), &raw); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	status := raw["status"].(map[string]any)
	if status["phase"] != "STARTING" {
		t.Errorf("phase: got %v, want STARTING", status["phase"])
	}
	if status["moisture"] != nil {
		t.Errorf("moisture: got %v, want null", status["moisture"])
	}
	if status["dry"] != false {
		t.Errorf("dry: got %v, want false", status["dry"])
	}
	if _, exists := status["line"]; exists {
		t.Error("line should be omitted when empty")
	}
}

func TestFormatJSONOutOfRangeMoisture(t *testing.T) {
	snap := Snapshot{
		Raw:       700,
		Moisture:  -13.675,
		Sampled:   true,
		Threshold: 37,
		StartTime: testStart,
		Now:       testStart,
	}

	var parsed StatusJSON
	if err := json.Unmarshal(FormatJSON(snap), &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.Status.Moisture == nil || *parsed.Status.Moisture != -13.7 {
		t.Errorf("Moisture: got %v, want -13.7 (unclamped)", parsed.Status.Moisture)
	}
}

func TestFormatJSONHugeMoisture(t *testing.T) {
	snap := Snapshot{
		Raw:       65535,
		Moisture:  -1e20,
		Sampled:   true,
		Threshold: 37,
		StartTime: testStart,
		Now:       testStart,
	}

	var parsed StatusJSON
	if err := json.Unmarshal(FormatJSON(snap), &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.Status.Moisture == nil || *parsed.Status.Moisture != -1e20 {
		t.Errorf("Moisture: got %v, want -1e20", parsed.Status.Moisture)
	}
}

func TestAttrs(t *testing.T) {
	snap := Snapshot{
		Raw:       444,
		Moisture:  30.04,
		Sampled:   true,
		Threshold: 37,
		State:     logic.State{DryTime: 42 * time.Second, Phase: logic.PhaseConfirming},
		Counts:    logic.Counts{Doses: 1},
		StartTime: testStart,
		Now:       testStart.Add(90*time.Second + 300*time.Millisecond),
	}

	got := map[string]slog.Value{}
	for _, a := range snap.Attrs() {
		got[a.Key] = a.Value
	}

	if got["phase"].String() != "CONFIRMING" {
		t.Errorf("phase: got %v", got["phase"])
	}
	if got["moisture"].Float64() != 30.0 {
		t.Errorf("moisture: got %v, want 30.0", got["moisture"])
	}
	if got["dry"].Duration() != 42*time.Second {
		t.Errorf("dry: got %v", got["dry"])
	}
	if got["pump"].Bool() {
		t.Error("pump: expected false")
	}
	if got["uptime"].Duration() != 90*time.Second {
		t.Errorf("uptime: got %v, want 1m30s", got["uptime"])
	}
	if got["doses"].Int64() != 1 {
		t.Errorf("doses: got %v", got["doses"])
	}
}
