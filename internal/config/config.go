// Package config loads the station configuration from YAML.
// Every field has a sensible default, so a missing file or an empty
// document yields a runnable configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for sensor-station.
type Config struct {
	// PollMs is the poll cycle interval in milliseconds.
	PollMs int `yaml:"poll_ms"`

	// Decay is the debounce filter coefficient, in (0,1).
	Decay float64 `yaml:"decay"`

	Serial SerialConfig `yaml:"serial"`
	MQTT   MQTTConfig   `yaml:"mqtt"`
	HTTP   HTTPConfig   `yaml:"http"`
	Store  StoreConfig  `yaml:"store"`

	// Sensors are created at startup, after the store is loaded, so a
	// config entry overrides a persisted one with the same id.
	Sensors []SensorDef `yaml:"sensors"`
}

// SerialConfig selects the command transport. An empty port means stdio.
type SerialConfig struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
}

// MQTTConfig contains broker settings. An empty broker disables MQTT.
type MQTTConfig struct {
	Broker string `yaml:"broker"`
}

// HTTPConfig contains the status server settings. An empty addr
// disables the server.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// StoreConfig locates the EEPROM image file.
type StoreConfig struct {
	Path string `yaml:"path"`
	Size int    `yaml:"size"`
}

// SensorDef is a sensor declared in the config file.
type SensorDef struct {
	ID     int16 `yaml:"id"`
	Pin    uint8 `yaml:"pin"`
	PullUp bool  `yaml:"pull_up"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		PollMs: 10,
		Decay:  0.02,
		Serial: SerialConfig{Baud: 115200},
		HTTP:   HTTPConfig{Addr: ":8080"},
		Store:  StoreConfig{Path: "sensors.eeprom", Size: 512},
	}
}

// Load reads the YAML file at path over the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the control loop cannot run with.
func (c *Config) Validate() error {
	if c.PollMs <= 0 {
		return fmt.Errorf("poll_ms must be positive, got %d", c.PollMs)
	}
	if c.Decay <= 0 || c.Decay >= 1 {
		return fmt.Errorf("decay must be in (0,1), got %g", c.Decay)
	}
	if c.Store.Size < 0 {
		return fmt.Errorf("store size must not be negative, got %d", c.Store.Size)
	}
	for _, s := range c.Sensors {
		if s.ID < 0 {
			return fmt.Errorf("sensor id must not be negative, got %d", s.ID)
		}
	}
	return nil
}

// Poll returns the poll interval as a duration.
func (c *Config) Poll() time.Duration {
	return time.Duration(c.PollMs) * time.Millisecond
}
