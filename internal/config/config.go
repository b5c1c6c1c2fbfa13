// Package config holds daemon configuration: defaults, the optional TOML
// file, and validation.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/sweeney/irrigator/internal/display"
	"github.com/sweeney/irrigator/internal/gpio"
	"github.com/sweeney/irrigator/internal/logic"
	"github.com/sweeney/irrigator/internal/sensor"
)

// Backend names.
const (
	SensorADS1115 = "ads1115"
	SensorFake    = "fake"

	RelayGPIO = "gpio"
	RelayNone = "none"

	InputGPIO    = "gpio"
	InputConsole = "console"
	InputNone    = "none"

	DisplayLCD     = "lcd"
	DisplayConsole = "console"
	DisplayNone    = "none"

	JournalOff = "off"
)

// Config is the complete daemon configuration.
type Config struct {
	// Calibration
	DryRaw float64
	WetRaw float64

	// Control
	Threshold   float64
	Sample      time.Duration
	DryConfirm  time.Duration
	DoseCeiling time.Duration
	Poll        time.Duration
	Heartbeat   time.Duration

	// Hardware
	Sensor         string
	SensorBus      string
	SensorAddress  uint16
	SensorChannel  int
	FakeRaw        int
	Relay          string
	Chip           string
	PinPump        int
	RelayActiveLow bool
	Input          string
	PinUp          int
	PinDown        int
	ButtonDebounce time.Duration
	Display        string
	DisplayBus     string
	DisplayAddress uint16
	DisplayWidth   int

	// Ambient
	Journal   string
	LogLevel  string
	LogFormat string
}

// Default returns the reference configuration: a capacitive probe
// calibrated at 620 (air) and 35 (water), 37% threshold, 1s sampling,
// 3 minutes dry confirmation and 20 second doses.
func Default() Config {
	return Config{
		DryRaw:      620,
		WetRaw:      35,
		Threshold:   37,
		Sample:      time.Second,
		DryConfirm:  180 * time.Second,
		DoseCeiling: 20 * time.Second,
		Poll:        50 * time.Millisecond,
		Heartbeat:   15 * time.Minute,

		Sensor:         SensorADS1115,
		SensorBus:      sensor.DefaultBus,
		SensorAddress:  sensor.DefaultAddress,
		SensorChannel:  sensor.DefaultChannel,
		FakeRaw:        620,
		Relay:          RelayGPIO,
		Chip:           gpio.DefaultChip,
		PinPump:        gpio.DefaultPinPump,
		Input:          InputGPIO,
		PinUp:          gpio.DefaultPinUp,
		PinDown:        gpio.DefaultPinDown,
		ButtonDebounce: 30 * time.Millisecond,
		Display:        DisplayLCD,
		DisplayAddress: display.DefaultLCDAddress,
		DisplayWidth:   display.DefaultWidth,

		Journal:   DefaultJournalPath(),
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// I2C addresses are 7 bits.
const maxI2CAddress = 0x7f

// Validate checks the configuration. Equal calibration points are
// reported as logic.ErrCalibration.
func (c Config) Validate() error {
	if err := c.Calibration().Validate(); err != nil {
		return fmt.Errorf("dry_raw=%v wet_raw=%v: %w", c.DryRaw, c.WetRaw, err)
	}

	var errs []error
	positive := map[string]time.Duration{
		"sample": c.Sample,
		"poll":   c.Poll,
	}
	for name, d := range positive {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", name, d))
		}
	}
	if c.DryConfirm < 0 {
		errs = append(errs, fmt.Errorf("dry-confirm must not be negative, got %v", c.DryConfirm))
	}
	if c.DoseCeiling < 0 {
		errs = append(errs, fmt.Errorf("dose must not be negative, got %v", c.DoseCeiling))
	}
	if c.DisplayWidth <= 0 {
		errs = append(errs, fmt.Errorf("display-width must be positive, got %d", c.DisplayWidth))
	}
	if c.SensorAddress > maxI2CAddress {
		errs = append(errs, fmt.Errorf("sensor-address must be 0x00-0x7f, got %#x", c.SensorAddress))
	}
	if c.DisplayAddress > maxI2CAddress {
		errs = append(errs, fmt.Errorf("display-address must be 0x00-0x7f, got %#x", c.DisplayAddress))
	}
	if c.SensorChannel < 0 || c.SensorChannel > 3 {
		errs = append(errs, fmt.Errorf("sensor-channel must be 0-3, got %d", c.SensorChannel))
	}

	checks := []struct {
		name, value string
		allowed     []string
	}{
		{"sensor", c.Sensor, []string{SensorADS1115, SensorFake}},
		{"relay", c.Relay, []string{RelayGPIO, RelayNone}},
		{"input", c.Input, []string{InputGPIO, InputConsole, InputNone}},
		{"display", c.Display, []string{DisplayLCD, DisplayConsole, DisplayNone}},
		{"log-format", c.LogFormat, []string{"text", "json"}},
	}
	for _, ch := range checks {
		if !contains(ch.allowed, ch.value) {
			errs = append(errs, fmt.Errorf("invalid %s %q (allowed: %s)", ch.name, ch.value, strings.Join(ch.allowed, ", ")))
		}
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Calibration returns the calibration points.
func (c Config) Calibration() logic.Calibration {
	return logic.Calibration{DryRaw: c.DryRaw, WetRaw: c.WetRaw}
}

// Controller returns the controller configuration.
func (c Config) Controller() logic.ControllerConfig {
	return logic.ControllerConfig{
		Calibration: c.Calibration(),
		Timing: logic.Timing{
			SampleInterval: c.Sample,
			DryConfirm:     c.DryConfirm,
			DoseCeiling:    c.DoseCeiling,
		},
		Threshold: c.Threshold,
	}
}

// JournalEnabled reports whether doses are recorded.
func (c Config) JournalEnabled() bool {
	return c.Journal != "" && c.Journal != JournalOff
}

// ParseLogLevel maps a level name to a slog.Level.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log-level %q (allowed: debug, info, warn, error)", s)
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// FileConfig represents the TOML configuration file. Unset keys keep
// their defaults.
type FileConfig struct {
	Calibration CalibrationFile `toml:"calibration"`
	Control     ControlFile     `toml:"control"`
	Hardware    HardwareFile    `toml:"hardware"`
	Journal     *string         `toml:"journal"`
	Log         LogFile         `toml:"log"`
}

// CalibrationFile maps the [calibration] table.
type CalibrationFile struct {
	DryRaw *float64 `toml:"dry_raw"`
	WetRaw *float64 `toml:"wet_raw"`
}

// ControlFile maps the [control] table. Durations use Go syntax ("3m").
type ControlFile struct {
	Threshold   *float64  `toml:"threshold"`
	Sample      *Duration `toml:"sample"`
	DryConfirm  *Duration `toml:"dry_confirm"`
	DoseCeiling *Duration `toml:"dose"`
	Poll        *Duration `toml:"poll"`
	Heartbeat   *Duration `toml:"heartbeat"`
}

// HardwareFile maps the [hardware] table.
type HardwareFile struct {
	Sensor         *string   `toml:"sensor"`
	SensorBus      *string   `toml:"sensor_bus"`
	SensorAddress  *int      `toml:"sensor_address"`
	SensorChannel  *int      `toml:"sensor_channel"`
	Relay          *string   `toml:"relay"`
	Chip           *string   `toml:"chip"`
	PinPump        *int      `toml:"pin_pump"`
	RelayActiveLow *bool     `toml:"relay_active_low"`
	Input          *string   `toml:"input"`
	PinUp          *int      `toml:"pin_up"`
	PinDown        *int      `toml:"pin_down"`
	ButtonDebounce *Duration `toml:"button_debounce"`
	Display        *string   `toml:"display"`
	DisplayBus     *string   `toml:"display_bus"`
	DisplayAddress *int      `toml:"display_address"`
	DisplayWidth   *int      `toml:"display_width"`
}

// LogFile maps the [log] table.
type LogFile struct {
	Level  *string `toml:"level"`
	Format *string `toml:"format"`
}

// Duration decodes TOML strings such as "20s" into a time.Duration.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// LoadFile reads a TOML config from the given path. Missing file is not an error.
func LoadFile(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var fc FileConfig
	md, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config keys: %v", undecoded)
	}
	addrs := []struct {
		key string
		v   *int
	}{
		{"sensor_address", fc.Hardware.SensorAddress},
		{"display_address", fc.Hardware.DisplayAddress},
	}
	for _, a := range addrs {
		if a.v != nil && (*a.v < 0 || *a.v > maxI2CAddress) {
			return FileConfig{}, fmt.Errorf("%s must be 0x00-0x7f, got %d", a.key, *a.v)
		}
	}
	return fc, nil
}
