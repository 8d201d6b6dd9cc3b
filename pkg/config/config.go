// Package config loads server configuration from an optional YAML file.
// Flags override file values; file values override defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like
// "80ms" or "1s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std converts back to a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config holds the serve-mode configuration.
type Config struct {
	// ListenAddr is the control-plane bind address.
	ListenAddr string `yaml:"listenAddr"`
	// MetricsAddr is the metrics/health bind address.
	MetricsAddr string `yaml:"metricsAddr"`
	// TickPeriod is the per-universe clock period.
	TickPeriod Duration `yaml:"tickPeriod"`
	// PumpPeriod is the supervisor's intent pump period.
	PumpPeriod Duration `yaml:"pumpPeriod"`
	// Seed pins all randomness for reproducible runs. 0 seeds from the
	// current time.
	Seed int64 `yaml:"seed"`
	// LogLevel is debug, info, warn or error.
	LogLevel string `yaml:"logLevel"`
	// LogJSON switches operator logging from console to JSON output.
	LogJSON bool `yaml:"logJSON"`
	// RingCapacity bounds the in-memory log retention window.
	RingCapacity int `yaml:"ringCapacity"`
}

// Default returns the production defaults.
func Default() *Config {
	return &Config{
		ListenAddr:   "127.0.0.1:3000",
		MetricsAddr:  "127.0.0.1:9090",
		TickPeriod:   Duration(80 * time.Millisecond),
		PumpPeriod:   Duration(100 * time.Millisecond),
		LogLevel:     "info",
		RingCapacity: 1000,
	}
}

// Load reads a YAML file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations that cannot run.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listenAddr must not be empty")
	}
	if c.TickPeriod <= 0 {
		return fmt.Errorf("tickPeriod must be positive")
	}
	if c.PumpPeriod <= 0 {
		return fmt.Errorf("pumpPeriod must be positive")
	}
	if c.RingCapacity <= 0 {
		return fmt.Errorf("ringCapacity must be positive")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return nil
}
