package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"robohw/pkg/logging"
)

// LoadConfig reads a hardware configuration file. Fields missing from the
// file keep their defaults; a missing file is an error because a hardware
// interface cannot run without at least a namespace and resource set.
func LoadConfig(path string) (HardwareConfig, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return HardwareConfig{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return HardwareConfig{}, fmt.Errorf("parsing config %s: %w", path, err)
	}

	logging.Info("ConfigLoader", "Loaded hardware configuration from %s (namespace %s)", path, cfg.Namespace)
	return cfg, nil
}

// Validate checks the configuration for the invariants the lifecycle core
// relies on.
func (c HardwareConfig) Validate() error {
	if c.Namespace == "" || c.Namespace[0] != '/' {
		return fmt.Errorf("%w (got %q)", ErrMissingNamespace, c.Namespace)
	}
	if c.SamplingPeriod.Std() <= 0 {
		return ErrInvalidSamplingPeriod
	}
	if len(c.ResourceNames) == 0 {
		return ErrNoResources
	}

	seen := make(map[string]struct{}, len(c.ResourceNames))
	for _, r := range c.ResourceNames {
		if _, dup := seen[r]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateResource, r)
		}
		seen[r] = struct{}{}
	}

	if c.Driver.Type == "" {
		return ErrMissingDriver
	}
	return nil
}
