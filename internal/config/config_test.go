package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

const validYAML = `
network:
  bind_address: "0.0.0.0"
  artnet_port: 6454
  ddp_port: 4048
  discovery_port: 32320
dmx:
  universe: 41
  subnet: 0
  start_channel: 1
  relay_count: 8
relays:
  gpios: [26, 25, 27, 14, 33, 32, 13, 12]
watchdog:
  timeout_seconds: 30
  tick_interval_ms: 1
http:
  enabled: true
  address: "0.0.0.0"
  port: 8080
logging:
  level: info
  format: text
  output: stdout
`

func TestLoadValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.DMX.Universe != 41 {
		t.Errorf("universe = %d, expected 41", cfg.DMX.Universe)
	}
	if cfg.DMX.RelayCount != 8 {
		t.Errorf("relay_count = %d, expected 8", cfg.DMX.RelayCount)
	}
	if cfg.Network.ArtNetPort != 6454 {
		t.Errorf("artnet_port = %d, expected 6454", cfg.Network.ArtNetPort)
	}
	if cfg.Watchdog.Timeout() != 30*time.Second {
		t.Errorf("watchdog timeout = %v, expected 30s", cfg.Watchdog.Timeout())
	}
	if cfg.Watchdog.TickInterval() != time.Millisecond {
		t.Errorf("tick interval = %v, expected 1ms", cfg.Watchdog.TickInterval())
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	// A file that only overrides the universe keeps every other default.
	cfg, err := Load(writeConfig(t, "dmx:\n  universe: 7\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DMX.Universe != 7 {
		t.Errorf("universe = %d, expected 7", cfg.DMX.Universe)
	}
	if cfg.Network.ArtNetPort != 6454 || cfg.Network.DDPPort != 4048 || cfg.Network.DiscoveryPort != 32320 {
		t.Errorf("default ports lost: %+v", cfg.Network)
	}
	if cfg.DMX.StartChannel != 1 || cfg.DMX.RelayCount != 8 {
		t.Errorf("default dmx settings lost: %+v", cfg.DMX)
	}
	if len(cfg.Relays.GPIOs) != 8 {
		t.Errorf("default gpio map lost: %+v", cfg.Relays.GPIOs)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("Expected error for missing file but got none")
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "network: [not a map")); err == nil {
		t.Error("Expected error for malformed yaml but got none")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		errorMsg string
	}{
		{
			name:   "valid defaults",
			mutate: func(c *Config) {},
		},
		{
			name:     "empty bind address",
			mutate:   func(c *Config) { c.Network.BindAddress = "" },
			errorMsg: "bind_address",
		},
		{
			name:     "artnet port out of range",
			mutate:   func(c *Config) { c.Network.ArtNetPort = 0 },
			errorMsg: "artnet_port",
		},
		{
			name:     "colliding ports",
			mutate:   func(c *Config) { c.Network.DDPPort = c.Network.ArtNetPort },
			errorMsg: "distinct",
		},
		{
			name:     "zero start channel",
			mutate:   func(c *Config) { c.DMX.StartChannel = 0 },
			errorMsg: "start_channel",
		},
		{
			name:     "start channel past universe size",
			mutate:   func(c *Config) { c.DMX.StartChannel = 513 },
			errorMsg: "start_channel",
		},
		{
			name:     "relay count zero",
			mutate:   func(c *Config) { c.DMX.RelayCount = 0 },
			errorMsg: "relay_count",
		},
		{
			name:     "relay count over maximum",
			mutate:   func(c *Config) { c.DMX.RelayCount = 17 },
			errorMsg: "relay_count",
		},
		{
			name:     "too few gpio pins",
			mutate:   func(c *Config) { c.Relays.GPIOs = []uint8{26, 25} },
			errorMsg: "gpios",
		},
		{
			name:     "gpio pin out of range",
			mutate:   func(c *Config) { c.Relays.GPIOs[3] = 40 },
			errorMsg: "out of range",
		},
		{
			name:     "watchdog timeout zero",
			mutate:   func(c *Config) { c.Watchdog.TimeoutSeconds = 0 },
			errorMsg: "timeout_seconds",
		},
		{
			name:     "tick interval zero",
			mutate:   func(c *Config) { c.Watchdog.TickIntervalMS = 0 },
			errorMsg: "tick_interval_ms",
		},
		{
			name:     "http enabled without address",
			mutate:   func(c *Config) { c.HTTP.Address = "" },
			errorMsg: "address",
		},
		{
			name:   "http disabled skips http checks",
			mutate: func(c *Config) { c.HTTP.Enabled = false; c.HTTP.Address = ""; c.HTTP.Port = 0 },
		},
		{
			name:     "bad log level",
			mutate:   func(c *Config) { c.Logging.Level = "verbose" },
			errorMsg: "level",
		},
		{
			name:     "bad log format",
			mutate:   func(c *Config) { c.Logging.Format = "xml" },
			errorMsg: "format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.errorMsg == "" {
				if err != nil {
					t.Errorf("Expected no error but got: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Expected error but got none")
			}
			if !strings.Contains(err.Error(), tt.errorMsg) {
				t.Errorf("Expected error to contain '%s', got '%s'", tt.errorMsg, err.Error())
			}
		})
	}
}
