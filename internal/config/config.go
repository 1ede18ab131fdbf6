package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DeviceConfig stores per-device settings.
type DeviceConfig struct {
	Nickname string `yaml:"nickname,omitempty"`
	WiFiIP   string `yaml:"wifi_ip,omitempty"`
}

// Config is the top-level configuration.
type Config struct {
	ADBPath  string                  `yaml:"adb_path"`
	Timeout  time.Duration           `yaml:"timeout"`
	Retries  int                     `yaml:"retries"`
	LogLevel string                  `yaml:"log_level"`
	History  bool                    `yaml:"history"`
	Devices  map[string]DeviceConfig `yaml:"devices,omitempty"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ADBPath:  "adb",
		Timeout:  30 * time.Second,
		Retries:  2,
		LogLevel: "warn",
		History:  true,
		Devices:  make(map[string]DeviceConfig),
	}
}

// ConfigDir returns the config directory path.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "adbctl")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "adbctl")
}

// ConfigPath returns the config file path.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (*Config, error) {
	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Devices == nil {
		cfg.Devices = make(map[string]DeviceConfig)
	}
	if cfg.Retries < 0 {
		return nil, fmt.Errorf("parse config: retries must not be negative, got %d", cfg.Retries)
	}
	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg *Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(ConfigPath(), data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Nickname returns the configured nickname for serial, or "".
func (c *Config) Nickname(serial string) string {
	return c.Devices[serial].Nickname
}

// SerialFor resolves a nickname to its serial. Anything that is not a known
// nickname is returned unchanged.
func (c *Config) SerialFor(nameOrSerial string) string {
	for serial, dc := range c.Devices {
		if dc.Nickname != "" && dc.Nickname == nameOrSerial {
			return serial
		}
	}
	return nameOrSerial
}
