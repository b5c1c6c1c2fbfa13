package logic

// Calibration holds the raw readings for fully dry and fully wet soil.
// Capacitive sensors read higher when dry, so DryRaw is normally the
// larger value, but either ordering is accepted.
type Calibration struct {
	DryRaw float64
	WetRaw float64
}

// Validate reports ErrCalibration when the two points coincide.
func (c Calibration) Validate() error {
	if c.DryRaw == c.WetRaw {
		return ErrCalibration
	}
	return nil
}

// MoisturePercent maps a raw sample linearly onto 0% (DryRaw) .. 100% (WetRaw).
// The result is not clamped: samples outside the calibrated range produce
// percentages outside [0,100] so the operator can see the anomaly.
func MoisturePercent(raw int, c Calibration) (float64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	return 100 - (float64(raw)-c.WetRaw)/(c.DryRaw-c.WetRaw)*100, nil
}
