package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values like "10ms" decode naturally.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("duration must be a string like \"10ms\": %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// DriverConfig selects and parameterizes the concrete driver implementation.
type DriverConfig struct {
	// Type names the driver implementation, e.g. "fake".
	Type string `yaml:"type"`

	// Settings carries driver-specific options, passed through untouched.
	Settings map[string]string `yaml:"settings,omitempty"`
}

// HardwareConfig describes one hardware interface instance.
type HardwareConfig struct {
	// Namespace identifies the instance, e.g. "/ur10/hw".
	Namespace string `yaml:"namespace"`

	// SamplingPeriod is the control cycle period of the real-time loop.
	SamplingPeriod Duration `yaml:"sampling_period"`

	// ResourceNames is the ordered set of resources the interface exposes.
	ResourceNames []string `yaml:"resource_names"`

	// HistoryLimit caps the status history; zero selects the default.
	HistoryLimit int `yaml:"history_limit,omitempty"`

	// LogLevel selects the logging verbosity (debug, info, warn, error).
	LogLevel string `yaml:"log_level,omitempty"`

	// Driver selects the concrete driver implementation.
	Driver DriverConfig `yaml:"driver"`

	// Params seeds the configuration store before the first cycle.
	Params map[string]string `yaml:"params,omitempty"`
}

// Default returns the configuration defaults applied before a file is read.
func Default() HardwareConfig {
	return HardwareConfig{
		SamplingPeriod: Duration(10 * time.Millisecond),
		LogLevel:       "info",
		Driver:         DriverConfig{Type: "fake"},
	}
}
