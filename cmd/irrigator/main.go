// Command irrigator waters a pot when its soil stays dry: it samples a
// capacitive moisture probe, confirms dryness, and runs the pump in short
// doses until the soil recovers.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sweeney/irrigator/internal/config"
	"github.com/sweeney/irrigator/internal/journal"
	"github.com/sweeney/irrigator/internal/logging"
	"github.com/sweeney/irrigator/internal/logic"
	"github.com/sweeney/irrigator/internal/status"
)

const appName = "irrigator"

var version = "dev"

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := config.Default()
	var configPath string

	rootCmd := &cobra.Command{
		Use:           appName,
		Short:         "Soil-moisture irrigation controller",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadConfig(cmd, configPath, &cfg); err != nil {
				return err
			}
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			return run(cfg, logger)
		},
	}

	f := rootCmd.PersistentFlags()
	f.StringVar(&configPath, "config", config.DefaultConfigPath(), "TOML config file")

	f.Float64Var(&cfg.DryRaw, "dry-raw", cfg.DryRaw, "raw reading in air (0%)")
	f.Float64Var(&cfg.WetRaw, "wet-raw", cfg.WetRaw, "raw reading in water (100%)")
	f.Float64Var(&cfg.Threshold, "threshold", cfg.Threshold, "initial moisture threshold in percent")
	f.DurationVar(&cfg.Sample, "sample", cfg.Sample, "sampling interval")
	f.DurationVar(&cfg.DryConfirm, "dry-confirm", cfg.DryConfirm, "continuous dryness required before a dose")
	f.DurationVar(&cfg.DoseCeiling, "dose", cfg.DoseCeiling, "pump on-time per dose")
	f.DurationVar(&cfg.Poll, "poll", cfg.Poll, "button and display poll interval")
	f.DurationVar(&cfg.Heartbeat, "heartbeat", cfg.Heartbeat, "heartbeat interval (0 to disable)")

	f.StringVar(&cfg.Sensor, "sensor", cfg.Sensor, "sensor backend: ads1115 or fake")
	f.StringVar(&cfg.SensorBus, "sensor-bus", cfg.SensorBus, "I2C bus for the ADC (empty for the first bus)")
	f.Uint16Var(&cfg.SensorAddress, "sensor-address", cfg.SensorAddress, "ADS1115 I2C address")
	f.IntVar(&cfg.SensorChannel, "sensor-channel", cfg.SensorChannel, "ADS1115 input channel (0-3)")
	f.IntVar(&cfg.FakeRaw, "fake-raw", cfg.FakeRaw, "raw value returned by the fake sensor")
	f.StringVar(&cfg.Relay, "relay", cfg.Relay, "relay backend: gpio or none")
	f.StringVar(&cfg.Chip, "chip", cfg.Chip, "GPIO chip")
	f.IntVar(&cfg.PinPump, "pin-pump", cfg.PinPump, "BCM pin number for the pump relay")
	f.BoolVar(&cfg.RelayActiveLow, "relay-active-low", cfg.RelayActiveLow, "relay module switches on a low level")
	f.StringVar(&cfg.Input, "input", cfg.Input, "button backend: gpio, console or none")
	f.IntVar(&cfg.PinUp, "pin-up", cfg.PinUp, "BCM pin number for the threshold up button")
	f.IntVar(&cfg.PinDown, "pin-down", cfg.PinDown, "BCM pin number for the threshold down button")
	f.DurationVar(&cfg.ButtonDebounce, "button-debounce", cfg.ButtonDebounce, "button debounce period")
	f.StringVar(&cfg.Display, "display", cfg.Display, "display backend: lcd, console or none")
	f.StringVar(&cfg.DisplayBus, "display-bus", cfg.DisplayBus, "I2C bus for the LCD (empty for the first bus)")
	f.Uint16Var(&cfg.DisplayAddress, "display-address", cfg.DisplayAddress, "LCD backpack I2C address")
	f.IntVar(&cfg.DisplayWidth, "display-width", cfg.DisplayWidth, "display columns")

	f.StringVar(&cfg.Journal, "journal", cfg.Journal, `dose journal path ("off" disables)`)
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")
	f.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format: text or json")

	rootCmd.AddCommand(newReadCmd(&cfg, &configPath))
	rootCmd.AddCommand(newHistoryCmd(&cfg, &configPath))
	rootCmd.AddCommand(newConfigCmd(&configPath))

	return rootCmd
}

// loadConfig merges the config file into cfg. Flags set on the command
// line win over the file.
func loadConfig(cmd *cobra.Command, path string, cfg *config.Config) error {
	fileCfg, err := config.LoadFile(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	config.Merge(cfg, fileCfg, cmd.Flags().Changed)
	return nil
}

func newLogger(cfg config.Config) (*slog.Logger, error) {
	level, err := config.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return logging.New(os.Stderr, level, cfg.LogFormat, version, appName), nil
}

func run(cfg config.Config, logger *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		if errors.Is(err, logic.ErrCalibration) {
			forcePumpOff(cfg, logger)
		}
		logger.Error("invalid configuration", "err", err)
		return err
	}

	reader, err := openSensor(cfg)
	if err != nil {
		return fmt.Errorf("init sensor: %w", err)
	}
	defer closeLogged(logger, "sensor", reader)

	relay, err := openRelay(cfg)
	if err != nil {
		return fmt.Errorf("init relay: %w", err)
	}
	defer closeLogged(logger, "relay", relay)

	buttons, quit, err := openInput(cfg)
	if err != nil {
		return fmt.Errorf("init buttons: %w", err)
	}
	defer closeLogged(logger, "buttons", buttons)

	disp, err := openDisplay(cfg)
	if err != nil {
		return fmt.Errorf("init display: %w", err)
	}
	defer closeLogged(logger, "display", disp)

	var recorder *journal.Recorder
	if cfg.JournalEnabled() {
		store, err := journal.Open(cfg.Journal)
		if err != nil {
			return fmt.Errorf("init journal: %w", err)
		}
		defer closeLogged(logger, "journal", store)
		recorder = journal.NewRecorder(store)
	}

	logger.Info("started",
		"threshold", cfg.Threshold,
		"dry_raw", cfg.DryRaw,
		"wet_raw", cfg.WetRaw,
		"sample", cfg.Sample,
		"dry_confirm", cfg.DryConfirm,
		"dose", cfg.DoseCeiling,
		"heartbeat", cfg.Heartbeat,
		"sensor", cfg.Sensor,
		"relay", cfg.Relay,
		"input", cfg.Input,
		"display", cfg.Display,
		"journal", cfg.Journal,
	)

	ticker := time.NewTicker(cfg.Poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	dev := devices{
		reader:   reader,
		relay:    relay,
		buttons:  buttons,
		display:  disp,
		recorder: recorder,
	}
	lc := loopConfig{
		controller: cfg.Controller(),
		heartbeat:  cfg.Heartbeat,
		width:      cfg.DisplayWidth,
		status:     statusConfig(cfg),
	}
	return runLoop(dev, lc, logger, time.Now, ticker.C, sigCh, quit)
}

// forcePumpOff drives the relay low when the configuration is unusable.
func forcePumpOff(cfg config.Config, logger *slog.Logger) {
	relay, err := openRelay(cfg)
	if err != nil {
		logger.Error("cannot open relay to force pump off", "err", err)
		return
	}
	if err := relay.Set(false); err != nil {
		logger.Error("cannot force pump off", "err", err)
	}
	closeLogged(logger, "relay", relay)
}

func statusConfig(cfg config.Config) status.Config {
	return status.Config{
		SampleMs:     cfg.Sample.Milliseconds(),
		DryConfirmMs: cfg.DryConfirm.Milliseconds(),
		DoseMs:       cfg.DoseCeiling.Milliseconds(),
		HeartbeatMs:  cfg.Heartbeat.Milliseconds(),
		DryRaw:       cfg.DryRaw,
		WetRaw:       cfg.WetRaw,
		Sensor:       cfg.Sensor,
		Relay:        cfg.Relay,
		Input:        cfg.Input,
		Display:      cfg.Display,
	}
}

type closer interface {
	Close() error
}

func closeLogged(logger *slog.Logger, name string, c closer) {
	if err := c.Close(); err != nil {
		logger.Warn("close failed", "device", name, "err", err)
	}
}
