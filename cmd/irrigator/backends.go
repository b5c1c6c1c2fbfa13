package main

import (
	"os"

	"github.com/sweeney/irrigator/internal/config"
	"github.com/sweeney/irrigator/internal/console"
	"github.com/sweeney/irrigator/internal/display"
	"github.com/sweeney/irrigator/internal/gpio"
	"github.com/sweeney/irrigator/internal/sensor"
)

func openSensor(cfg config.Config) (sensor.Reader, error) {
	if cfg.Sensor == config.SensorFake {
		return sensor.NewFakeReader(cfg.FakeRaw), nil
	}
	r, err := sensor.NewADS1115(cfg.SensorBus, cfg.SensorAddress, cfg.SensorChannel)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func openRelay(cfg config.Config) (gpio.Relay, error) {
	if cfg.Relay == config.RelayNone {
		return gpio.NoRelay{}, nil
	}
	r, err := gpio.NewRealRelay(cfg.Chip, cfg.PinPump, cfg.RelayActiveLow)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// openInput returns the button source and, for the console backend, a
// channel closed when the user quits.
func openInput(cfg config.Config) (gpio.EdgeSource, <-chan struct{}, error) {
	switch cfg.Input {
	case config.InputNone:
		return gpio.NoButtons{}, nil, nil
	case config.InputConsole:
		k, err := console.NewKeys(os.Stdin)
		if err != nil {
			return nil, nil, err
		}
		return k, k.Quit(), nil
	}
	b, err := gpio.NewRealButtons(cfg.Chip, cfg.PinUp, cfg.PinDown, cfg.ButtonDebounce)
	if err != nil {
		return nil, nil, err
	}
	return b, nil, nil
}

func openDisplay(cfg config.Config) (display.Display, error) {
	switch cfg.Display {
	case config.DisplayNone:
		return display.None{}, nil
	case config.DisplayConsole:
		return console.NewScreen(os.Stdout, cfg.DisplayWidth), nil
	}
	l, err := display.OpenLCD(cfg.DisplayBus, cfg.DisplayAddress, cfg.DisplayWidth)
	if err != nil {
		return nil, err
	}
	return l, nil
}
