package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/noman1228/RelayCtlr/internal/relay"
)

// Config represents the complete controller configuration.
type Config struct {
	Network  NetworkConfig  `yaml:"network"`
	DMX      DMXConfig      `yaml:"dmx"`
	Relays   RelaysConfig   `yaml:"relays"`
	Watchdog WatchdogConfig `yaml:"watchdog"`
	HTTP     HTTPConfig     `yaml:"http"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// NetworkConfig contains the UDP listener settings.
type NetworkConfig struct {
	BindAddress   string `yaml:"bind_address"`
	ArtNetPort    int    `yaml:"artnet_port"`
	DDPPort       int    `yaml:"ddp_port"`
	DiscoveryPort int    `yaml:"discovery_port"`
}

// DMXConfig binds the device to a universe and channel range.
type DMXConfig struct {
	Universe     uint16 `yaml:"universe"`
	Subnet       uint8  `yaml:"subnet"`
	StartChannel uint16 `yaml:"start_channel"` // 1-based DMX channel of relay 0
	RelayCount   int    `yaml:"relay_count"`
}

// RelaysConfig maps relays to GPIO pins. The mapping is carried for the
// external GPIO driver and surfaced over the status API; this core never
// touches pins.
type RelaysConfig struct {
	GPIOs []uint8 `yaml:"gpios"`
}

// WatchdogConfig controls the receive-liveness watchdog and the tick loop.
type WatchdogConfig struct {
	TimeoutSeconds int  `yaml:"timeout_seconds"`
	TickIntervalMS int  `yaml:"tick_interval_ms"`
	ForceRelaysOff bool `yaml:"force_relays_off"` // on entering stale
}

// HTTPConfig contains the status API server configuration.
type HTTPConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Default returns the reference deployment configuration: universe 41,
// eight relays, the stock ESP32 pin map, 30 second watchdog.
func Default() *Config {
	return &Config{
		Network: NetworkConfig{
			BindAddress:   "0.0.0.0",
			ArtNetPort:    6454,
			DDPPort:       4048,
			DiscoveryPort: 32320,
		},
		DMX: DMXConfig{
			Universe:     41,
			Subnet:       0,
			StartChannel: 1,
			RelayCount:   8,
		},
		Relays: RelaysConfig{
			GPIOs: []uint8{26, 25, 27, 14, 33, 32, 13, 12},
		},
		Watchdog: WatchdogConfig{
			TimeoutSeconds: 30,
			TickIntervalMS: 1,
			ForceRelaysOff: false,
		},
		HTTP: HTTPConfig{
			Enabled: true,
			Address: "0.0.0.0",
			Port:    8080,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
	}
}

// Load reads path into the default configuration and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return config, nil
}

// Validate performs validation of the whole configuration.
func (c *Config) Validate() error {
	if err := c.Network.Validate(); err != nil {
		return fmt.Errorf("network config: %w", err)
	}
	if err := c.DMX.Validate(); err != nil {
		return fmt.Errorf("dmx config: %w", err)
	}
	if err := c.Relays.Validate(c.DMX.RelayCount); err != nil {
		return fmt.Errorf("relays config: %w", err)
	}
	if err := c.Watchdog.Validate(); err != nil {
		return fmt.Errorf("watchdog config: %w", err)
	}
	if err := c.HTTP.Validate(); err != nil {
		return fmt.Errorf("http config: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}
	return nil
}

// Validate validates the network section.
func (n *NetworkConfig) Validate() error {
	if n.BindAddress == "" {
		return fmt.Errorf("bind_address cannot be empty")
	}
	for name, port := range map[string]int{
		"artnet_port":    n.ArtNetPort,
		"ddp_port":       n.DDPPort,
		"discovery_port": n.DiscoveryPort,
	} {
		if port < 1 || port > 65535 {
			return fmt.Errorf("%s must be between 1 and 65535, got %d", name, port)
		}
	}
	if n.ArtNetPort == n.DDPPort || n.ArtNetPort == n.DiscoveryPort || n.DDPPort == n.DiscoveryPort {
		return fmt.Errorf("artnet_port, ddp_port and discovery_port must be distinct")
	}
	return nil
}

// Validate validates the DMX binding.
func (d *DMXConfig) Validate() error {
	if d.StartChannel < 1 || d.StartChannel > 512 {
		return fmt.Errorf("start_channel must be between 1 and 512, got %d", d.StartChannel)
	}
	if d.RelayCount < 1 || d.RelayCount > relay.MaxRelays {
		return fmt.Errorf("relay_count must be between 1 and %d, got %d", relay.MaxRelays, d.RelayCount)
	}
	return nil
}

// Validate checks the GPIO map covers every configured relay.
func (r *RelaysConfig) Validate(relayCount int) error {
	if len(r.GPIOs) < relayCount {
		return fmt.Errorf("gpios lists %d pins for %d relays", len(r.GPIOs), relayCount)
	}
	for i, pin := range r.GPIOs {
		if pin > 39 {
			return fmt.Errorf("gpio %d for relay %d is out of range (0-39)", pin, i)
		}
	}
	return nil
}

// Validate validates the watchdog section.
func (w *WatchdogConfig) Validate() error {
	if w.TimeoutSeconds < 1 {
		return fmt.Errorf("timeout_seconds must be at least 1, got %d", w.TimeoutSeconds)
	}
	if w.TickIntervalMS < 1 {
		return fmt.Errorf("tick_interval_ms must be at least 1, got %d", w.TickIntervalMS)
	}
	return nil
}

// Validate validates the HTTP section.
func (h *HTTPConfig) Validate() error {
	if !h.Enabled {
		return nil
	}
	if h.Port < 1 || h.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", h.Port)
	}
	if h.Address == "" {
		return fmt.Errorf("address cannot be empty when http is enabled")
	}
	return nil
}

// Validate validates the logging section.
func (l *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[l.Level] {
		return fmt.Errorf("level must be one of [debug, info, warn, error], got '%s'", l.Level)
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("format must be 'json' or 'text', got '%s'", l.Format)
	}
	return nil
}

// Timeout returns the watchdog timeout as a time.Duration.
func (w *WatchdogConfig) Timeout() time.Duration {
	return time.Duration(w.TimeoutSeconds) * time.Second
}

// TickInterval returns the scheduler tick interval as a time.Duration.
func (w *WatchdogConfig) TickInterval() time.Duration {
	return time.Duration(w.TickIntervalMS) * time.Millisecond
}
