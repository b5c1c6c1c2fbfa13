package journal

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sweeney/irrigator/internal/logic"
)

// DoseWriter persists completed doses.
type DoseWriter interface {
	RecordDose(ctx context.Context, d Dose) error
}

// Recorder turns controller events into dose rows. It holds the start of
// the dose in progress between DOSE_START and DOSE_END.
type Recorder struct {
	w     DoseWriter
	newID func() string

	open *Dose
}

// NewRecorder creates a recorder writing to w.
func NewRecorder(w DoseWriter) *Recorder {
	return &Recorder{w: w, newID: uuid.NewString}
}

// Handle consumes the events of one step. It returns the first write
// error; later events in the batch are still processed.
func (r *Recorder) Handle(ctx context.Context, events []logic.Event) error {
	var firstErr error
	for _, e := range events {
		switch e.Type {
		case logic.EventDoseStart:
			r.open = &Dose{
				StartedAt:     e.Timestamp,
				MoistureStart: e.Moisture,
				Threshold:     e.Threshold,
			}
		case logic.EventDoseEnd:
			if err := r.finish(ctx, e.Timestamp, e.Moisture, e.Dose, e.Reason); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Abort closes a dose that is still open when the pump is forced off.
// It is a no-op when no dose is in progress.
func (r *Recorder) Abort(ctx context.Context, now time.Time, moisture float64, dose time.Duration) error {
	return r.finish(ctx, now, moisture, dose, ReasonShutdown)
}

// Open reports whether a dose is in progress.
func (r *Recorder) Open() bool {
	return r.open != nil
}

func (r *Recorder) finish(ctx context.Context, now time.Time, moisture float64, dose time.Duration, reason string) error {
	if r.open == nil {
		return nil
	}
	d := *r.open
	r.open = nil

	d.ID = r.newID()
	d.EndedAt = now
	d.Duration = dose
	d.MoistureEnd = moisture
	d.Reason = reason
	return r.w.RecordDose(ctx, d)
}
