package config

import "fmt"

// Template returns a commented TOML file listing every key with its
// default value.
func Template() string {
	d := Default()
	return fmt.Sprintf(`# irrigator configuration
# Uncomment a value to enable it. CLI flags override config values.

# journal = %q   # Dose journal path, "off" disables

[calibration]
# dry_raw = %.1f           # Raw reading in air (0%%)
# wet_raw = %.1f            # Raw reading in water (100%%)

[control]
# threshold = %.1f          # Start watering below this moisture %%
# sample = %q              # Sampling interval
# dry_confirm = %q         # Continuous dryness required before a dose
# dose = %q               # Pump on-time per dose
# poll = %q             # Button and display poll interval
# heartbeat = %q         # Heartbeat log interval (0 disables)

[hardware]
# sensor = %q          # ads1115 or fake
# sensor_bus = ""            # I2C bus name, empty for the first bus
# sensor_address = %d        # ADS1115 I2C address (0x48)
# sensor_channel = %d         # ADS1115 input A0-A3
# relay = %q             # gpio or none
# chip = %q         # GPIO chip
# pin_pump = %d              # Relay line offset
# relay_active_low = false
# input = %q             # gpio, console or none
# pin_up = %d                # Threshold up button
# pin_down = %d              # Threshold down button
# button_debounce = %q
# display = %q             # lcd, console or none
# display_bus = ""
# display_address = %d       # PCF8574 backpack address (0x27)
# display_width = %d

[log]
# level = %q
# format = %q             # text or json
`,
		d.Journal,
		d.DryRaw, d.WetRaw,
		d.Threshold, d.Sample.String(), d.DryConfirm.String(), d.DoseCeiling.String(),
		d.Poll.String(), d.Heartbeat.String(),
		d.Sensor, d.SensorAddress, d.SensorChannel,
		d.Relay, d.Chip, d.PinPump,
		d.Input, d.PinUp, d.PinDown, d.ButtonDebounce.String(),
		d.Display, d.DisplayAddress, d.DisplayWidth,
		d.LogLevel, d.LogFormat,
	)
}
