package journal

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweeney/irrigator/internal/logic"
)

type memWriter struct {
	doses []Dose
	err   error
}

func (m *memWriter) RecordDose(_ context.Context, d Dose) error {
	if m.err != nil {
		return m.err
	}
	m.doses = append(m.doses, d)
	return nil
}

func seqIDs(r *Recorder) {
	n := 0
	r.newID = func() string {
		n++
		return fmt.Sprintf("dose-%d", n)
	}
}

func TestRecorderCeilingDose(t *testing.T) {
	w := &memWriter{}
	r := NewRecorder(w)
	seqIDs(r)
	ctx := context.Background()

	start := t0.Add(181 * time.Second)
	require.NoError(t, r.Handle(ctx, []logic.Event{
		{Timestamp: start, Type: logic.EventDoseStart, Moisture: 30, Threshold: 37},
	}))
	assert.True(t, r.Open())

	end := t0.Add(201 * time.Second)
	require.NoError(t, r.Handle(ctx, []logic.Event{
		{Timestamp: end, Type: logic.EventDoseEnd, Moisture: 32, Threshold: 37, Reason: logic.ReasonCeiling, Dose: 20 * time.Second},
	}))
	assert.False(t, r.Open())

	require.Len(t, w.doses, 1)
	assert.Equal(t, Dose{
		ID:            "dose-1",
		StartedAt:     start,
		EndedAt:       end,
		Duration:      20 * time.Second,
		MoistureStart: 30,
		MoistureEnd:   32,
		Threshold:     37,
		Reason:        logic.ReasonCeiling,
	}, w.doses[0])
}

func TestRecorderSatisfiedInSameBatch(t *testing.T) {
	w := &memWriter{}
	r := NewRecorder(w)
	ctx := context.Background()

	require.NoError(t, r.Handle(ctx, []logic.Event{
		{Timestamp: t0, Type: logic.EventDoseStart, Moisture: 30, Threshold: 37},
	}))
	require.NoError(t, r.Handle(ctx, []logic.Event{
		{Timestamp: t0.Add(5 * time.Second), Type: logic.EventDoseEnd, Moisture: 40, Threshold: 37, Reason: logic.ReasonSatisfied, Dose: 5 * time.Second},
		{Timestamp: t0.Add(5 * time.Second), Type: logic.EventSatisfied, Moisture: 40, Threshold: 37},
	}))

	require.Len(t, w.doses, 1)
	assert.Equal(t, logic.ReasonSatisfied, w.doses[0].Reason)
	_, err := uuid.Parse(w.doses[0].ID)
	assert.NoError(t, err, "default ids are uuids")
}

func TestRecorderIgnoresUnmatchedEnd(t *testing.T) {
	w := &memWriter{}
	r := NewRecorder(w)
	require.NoError(t, r.Handle(context.Background(), []logic.Event{
		{Timestamp: t0, Type: logic.EventDoseEnd, Reason: logic.ReasonCeiling},
		{Timestamp: t0, Type: logic.EventDryDetected},
	}))
	assert.Empty(t, w.doses)
}

func TestRecorderAbort(t *testing.T) {
	w := &memWriter{}
	r := NewRecorder(w)
	ctx := context.Background()

	require.NoError(t, r.Abort(ctx, t0, 30, 0))
	assert.Empty(t, w.doses)

	require.NoError(t, r.Handle(ctx, []logic.Event{
		{Timestamp: t0, Type: logic.EventDoseStart, Moisture: 30, Threshold: 37},
	}))
	require.NoError(t, r.Abort(ctx, t0.Add(7*time.Second), 31, 7*time.Second))
	require.Len(t, w.doses, 1)
	assert.Equal(t, ReasonShutdown, w.doses[0].Reason)
	assert.Equal(t, 7*time.Second, w.doses[0].Duration)
	assert.False(t, r.Open())
}

func TestRecorderWriteError(t *testing.T) {
	boom := errors.New("disk full")
	w := &memWriter{err: boom}
	r := NewRecorder(w)
	ctx := context.Background()

	require.NoError(t, r.Handle(ctx, []logic.Event{{Timestamp: t0, Type: logic.EventDoseStart}}))
	err := r.Handle(ctx, []logic.Event{{Timestamp: t0, Type: logic.EventDoseEnd, Reason: logic.ReasonCeiling}})
	assert.ErrorIs(t, err, boom)
	assert.False(t, r.Open(), "failed dose is not retried")
}

func TestRecorderWithStore(t *testing.T) {
	store := openTestStore(t)
	r := NewRecorder(store)
	ctx := context.Background()

	require.NoError(t, r.Handle(ctx, []logic.Event{{Timestamp: t0, Type: logic.EventDoseStart, Moisture: 30, Threshold: 37}}))
	require.NoError(t, r.Handle(ctx, []logic.Event{{Timestamp: t0.Add(20 * time.Second), Type: logic.EventDoseEnd, Moisture: 33, Threshold: 37, Reason: logic.ReasonCeiling, Dose: 20 * time.Second}}))

	doses, err := store.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, doses, 1)
	assert.Equal(t, 20*time.Second, doses[0].Duration)
}
