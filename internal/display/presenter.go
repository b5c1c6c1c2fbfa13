package display

import (
	"fmt"

	"github.com/mattn/go-runewidth"
)

// View is everything the presenter needs for one frame.
type View struct {
	Moisture  float64
	Sampled   bool // false until the first sample is taken
	Threshold float64
	Status    string
}

// Relation returns the comparison sign between moisture and threshold.
func Relation(moisture, threshold float64) string {
	switch {
	case moisture < threshold:
		return "<"
	case moisture > threshold:
		return ">"
	}
	return "="
}

// Lines formats v into two lines of exactly width columns.
//
//	M 30.0% < 37.0%
//	Dose in 2:59
func Lines(v View, width int) (string, string) {
	var top string
	if v.Sampled {
		top = fmt.Sprintf("M%5.1f%% %s%5.1f%%", v.Moisture, Relation(v.Moisture, v.Threshold), v.Threshold)
	} else {
		top = fmt.Sprintf("M  --.-%% ?%5.1f%%", v.Threshold)
	}
	status := v.Status
	if !v.Sampled && status == "" {
		status = "Starting"
	}
	return Fit(top, width), Fit(status, width)
}

// Fit truncates or right-pads s to exactly width display columns.
func Fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.FillRight(runewidth.Truncate(s, width, ""), width)
}
