package logic

// ThresholdStep is the change applied per button edge.
const ThresholdStep = 1.0

// Adjustment deltas for button edges.
const (
	AdjustUp   = 1
	AdjustDown = -1
)

// ApplyAdjustment returns the threshold after one edge event.
// No bounds are enforced; the threshold may leave [0,100].
func ApplyAdjustment(current float64, delta int) float64 {
	return current + float64(delta)*ThresholdStep
}
