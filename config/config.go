package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"aprskit/aprs"
)

// DefaultPath is where the CLI looks for configuration.
const DefaultPath = "config.toml"

// Interface types.
const (
	InterfaceKISS   = "kiss"
	InterfaceAPRSIS = "aprsis"
)

// Config holds all application configuration
type Config struct {
	Station   StationConfig   `toml:"station"`
	Interface InterfaceConfig `toml:"interface"`
	Msgbar    MsgbarConfig    `toml:"msgbar"`
	Monitor   MonitorConfig   `toml:"monitor"`
	Log       LogConfig       `toml:"log"`
}

// StationConfig holds settings specific to the user's station
type StationConfig struct {
	Callsign   string `toml:"callsign"`
	Passcode   int    `toml:"passcode"`
	GridSquare string `toml:"gridsquare"`
	ToCall     string `toml:"tocall"`
}

// InterfaceConfig selects the TNC or APRS-IS connection.
type InterfaceConfig struct {
	Type string `toml:"type"`
	// Device is host:port for KISS over TCP, otherwise a serial device.
	Device   string `toml:"device"`
	Baud     int    `toml:"baud"`
	Server   string `toml:"server"`
	RadiusKm int    `toml:"radius_km"`
}

// MsgbarConfig controls the monitor's message bar.
type MsgbarConfig struct {
	Say bool `toml:"say"`
}

// MonitorConfig controls the traffic list.
type MonitorConfig struct {
	// TimestampFormat is a strftime pattern.
	TimestampFormat string `toml:"timestamp_format"`
	History         int    `toml:"history"`
}

type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Station: StationConfig{
			ToCall: aprs.DefaultToCall,
		},
		Interface: InterfaceConfig{
			Type:     InterfaceAPRSIS,
			Baud:     9600,
			RadiusKm: 200,
		},
		Monitor: MonitorConfig{
			TimestampFormat: "%H:%M:%S",
			History:         100,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads the configuration from path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	conf, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return conf, nil
}

// Parse decodes TOML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	conf := Default()
	if err := toml.Unmarshal(data, &conf); err != nil {
		return Config{}, err
	}
	conf.Interface.Type = strings.ToLower(strings.TrimSpace(conf.Interface.Type))
	conf.Station.Callsign = strings.ToUpper(strings.TrimSpace(conf.Station.Callsign))
	if err := conf.Validate(); err != nil {
		return Config{}, err
	}
	return conf, nil
}

// Validate checks the fields the codec and clients depend on.
func (c Config) Validate() error {
	if c.Station.Callsign != "" && !aprs.ValidCallsign(c.Station.Callsign) {
		return fmt.Errorf("station callsign %q is not valid", c.Station.Callsign)
	}
	if !aprs.ValidCallsign(c.Station.ToCall) {
		return fmt.Errorf("station tocall %q is not valid", c.Station.ToCall)
	}
	switch c.Interface.Type {
	case InterfaceKISS, InterfaceAPRSIS:
	default:
		return fmt.Errorf("unknown interface type: %q", c.Interface.Type)
	}
	if c.Interface.Baud <= 0 {
		return fmt.Errorf("baud rate must be positive, got %d", c.Interface.Baud)
	}
	if c.Interface.RadiusKm <= 0 {
		return fmt.Errorf("filter radius must be positive, got %d", c.Interface.RadiusKm)
	}
	if c.Monitor.History <= 0 {
		return fmt.Errorf("monitor history must be positive, got %d", c.Monitor.History)
	}
	return nil
}
