package config

import "time"

// Merge copies values set in fc into cfg, skipping any key whose flag
// name changed reports as set on the command line. Flags win over the file.
func Merge(cfg *Config, fc FileConfig, changed func(flag string) bool) {
	if changed == nil {
		changed = func(string) bool { return false }
	}
	str := func(flag string, target *string, value *string) {
		if value != nil && !changed(flag) {
			*target = *value
		}
	}
	flt := func(flag string, target *float64, value *float64) {
		if value != nil && !changed(flag) {
			*target = *value
		}
	}
	num := func(flag string, target *int, value *int) {
		if value != nil && !changed(flag) {
			*target = *value
		}
	}
	addr := func(flag string, target *uint16, value *int) {
		if value != nil && !changed(flag) {
			*target = uint16(*value)
		}
	}
	dur := func(flag string, target *time.Duration, value *Duration) {
		if value != nil && !changed(flag) {
			*target = value.Duration
		}
	}

	flt("dry-raw", &cfg.DryRaw, fc.Calibration.DryRaw)
	flt("wet-raw", &cfg.WetRaw, fc.Calibration.WetRaw)

	flt("threshold", &cfg.Threshold, fc.Control.Threshold)
	dur("sample", &cfg.Sample, fc.Control.Sample)
	dur("dry-confirm", &cfg.DryConfirm, fc.Control.DryConfirm)
	dur("dose", &cfg.DoseCeiling, fc.Control.DoseCeiling)
	dur("poll", &cfg.Poll, fc.Control.Poll)
	dur("heartbeat", &cfg.Heartbeat, fc.Control.Heartbeat)

	hw := fc.Hardware
	str("sensor", &cfg.Sensor, hw.Sensor)
	str("sensor-bus", &cfg.SensorBus, hw.SensorBus)
	addr("sensor-address", &cfg.SensorAddress, hw.SensorAddress)
	num("sensor-channel", &cfg.SensorChannel, hw.SensorChannel)
	str("relay", &cfg.Relay, hw.Relay)
	str("chip", &cfg.Chip, hw.Chip)
	num("pin-pump", &cfg.PinPump, hw.PinPump)
	if hw.RelayActiveLow != nil && !changed("relay-active-low") {
		cfg.RelayActiveLow = *hw.RelayActiveLow
	}
	str("input", &cfg.Input, hw.Input)
	num("pin-up", &cfg.PinUp, hw.PinUp)
	num("pin-down", &cfg.PinDown, hw.PinDown)
	dur("button-debounce", &cfg.ButtonDebounce, hw.ButtonDebounce)
	str("display", &cfg.Display, hw.Display)
	str("display-bus", &cfg.DisplayBus, hw.DisplayBus)
	addr("display-address", &cfg.DisplayAddress, hw.DisplayAddress)
	num("display-width", &cfg.DisplayWidth, hw.DisplayWidth)

	str("journal", &cfg.Journal, fc.Journal)
	str("log-level", &cfg.LogLevel, fc.Log.Level)
	str("log-format", &cfg.LogFormat, fc.Log.Format)
}
