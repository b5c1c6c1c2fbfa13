package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/sweeney/irrigator/internal/display"
	"github.com/sweeney/irrigator/internal/gpio"
	"github.com/sweeney/irrigator/internal/journal"
	"github.com/sweeney/irrigator/internal/logic"
	"github.com/sweeney/irrigator/internal/sensor"
	"github.com/sweeney/irrigator/internal/status"
)

// devices are the collaborators driven by the control loop.
type devices struct {
	reader   sensor.Reader
	relay    gpio.Relay
	buttons  gpio.EdgeSource
	display  display.Display
	recorder *journal.Recorder // nil when the journal is off
}

type loopConfig struct {
	controller logic.ControllerConfig
	heartbeat  time.Duration
	width      int
	status     status.Config
}

// runLoop owns the controller. Each tick drains button edges, samples the
// sensor when a sampling interval has elapsed, drives the relay and
// redraws the display. It returns after a signal or quit, with the pump off.
func runLoop(dev devices, lc loopConfig, logger *slog.Logger, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal, quit <-chan struct{}) error {
	startTime := now()
	ctrl, err := logic.NewController(lc.controller, startTime)
	if err != nil {
		if rerr := dev.relay.Set(false); rerr != nil {
			logger.Error("cannot force pump off", "err", rerr)
		}
		logger.Error("invalid configuration, pump forced off", "err", err)
		return err
	}

	ctx := context.Background()
	var (
		lastRaw   int
		sensorErr bool
	)

	show := func() {
		moisture, sampled := ctrl.Moisture()
		line1, line2 := display.Lines(display.View{
			Moisture:  moisture,
			Sampled:   sampled,
			Threshold: ctrl.Threshold(),
			Status:    ctrl.State().Status,
		}, lc.width)
		if err := dev.display.Show(line1, line2); err != nil {
			logger.Warn("display write failed", "err", err)
		}
	}

	shutdown := func(reason string) error {
		t := now()
		logger.Info("shutting down", "reason", reason)
		if err := dev.relay.Set(false); err != nil {
			logger.Error("cannot force pump off", "err", err)
		}
		if dev.recorder != nil && dev.recorder.Open() {
			moisture, _ := ctrl.Moisture()
			if err := dev.recorder.Abort(ctx, t, moisture, ctrl.State().DoseTime); err != nil {
				logger.Warn("journal write failed", "err", err)
			}
		}
		if err := dev.display.Show("", ""); err != nil {
			logger.Warn("display write failed", "err", err)
		}
		snap := status.Capture(ctrl, lastRaw, startTime, t, lc.status)
		logger.LogAttrs(ctx, slog.LevelInfo, "SHUTDOWN", snap.Attrs()...)
		return nil
	}

	if err := dev.relay.Set(false); err != nil {
		logger.Warn("relay write failed", "err", err)
	}
	show()

	for {
		select {
		case s := <-sig:
			return shutdown(s.String())

		case <-quit:
			return shutdown("quit")

		case <-tick:
			t := now()
			redraw := false

			for _, b := range dev.buttons.Edges() {
				th := ctrl.Adjust(b.Delta())
				logger.Info("threshold adjusted", "button", b.String(), "threshold", th)
				redraw = true
			}

			if ctrl.Due(t) {
				raw, err := dev.reader.Read()
				if err != nil {
					if !sensorErr {
						logger.Warn("sensor read failed", "err", err)
					}
					sensorErr = true
					if events := ctrl.Fault(t); len(events) > 0 {
						logger.Warn("pump forced off", "reason", logic.ReasonSensor, "pumped", events[0].Dose)
						step(dev, ctrl, events, lastRaw, logger)
						redraw = true
					} else if err := dev.relay.Set(ctrl.State().PumpOn); err != nil {
						logger.Warn("relay write failed", "pump", false, "err", err)
					}
				} else {
					if sensorErr {
						logger.Info("sensor recovered")
					}
					sensorErr = false
					lastRaw = raw

					events, advanced := ctrl.Process(logic.Input{Raw: raw, Time: t})
					if advanced {
						step(dev, ctrl, events, raw, logger)
						redraw = true
					}
				}
			}

			if redraw {
				show()
			}

			if hb := ctrl.CheckHeartbeat(t, lc.heartbeat); hb != nil {
				snap := status.Capture(ctrl, lastRaw, startTime, hb.Timestamp, lc.status)
				logger.LogAttrs(ctx, slog.LevelInfo, "HEARTBEAT", snap.Attrs()...)
			}
		}
	}
}

// step drives the relay from the new state, then logs and journals the step.
func step(dev devices, ctrl *logic.Controller, events []logic.Event, raw int, logger *slog.Logger) {
	st := ctrl.State()
	if err := dev.relay.Set(st.PumpOn); err != nil {
		logger.Warn("relay write failed", "pump", st.PumpOn, "err", err)
	}

	moisture, _ := ctrl.Moisture()
	logger.Debug("sample",
		"raw", raw,
		"moisture", moisture,
		"threshold", ctrl.Threshold(),
		"phase", st.Phase,
		"dry", st.DryTime,
		"dose", st.DoseTime,
		"pump", st.PumpOn,
	)

	for _, e := range events {
		attrs := []any{
			"moisture", e.Moisture,
			"threshold", e.Threshold,
			"phase", st.Phase,
			"dry", st.DryTime,
			"dose", st.DoseTime,
		}
		if e.Type == logic.EventDoseEnd {
			attrs = append(attrs, "reason", e.Reason, "pumped", e.Dose)
		}
		logger.Info(string(e.Type), attrs...)
	}

	if dev.recorder != nil {
		if err := dev.recorder.Handle(context.Background(), events); err != nil {
			logger.Warn("journal write failed", "err", err)
		}
	}
}
