package config

import "errors"

var (
	// ErrMissingNamespace is returned when the namespace is empty or does
	// not start with "/".
	ErrMissingNamespace = errors.New("namespace must be set and start with '/'")

	// ErrInvalidSamplingPeriod is returned for a zero or negative period.
	ErrInvalidSamplingPeriod = errors.New("sampling_period must be positive")

	// ErrNoResources is returned when no resource names are configured.
	ErrNoResources = errors.New("resource_names must not be empty")

	// ErrDuplicateResource is returned when a resource name appears twice.
	ErrDuplicateResource = errors.New("resource_names contains a duplicate")

	// ErrMissingDriver is returned when no driver type is configured.
	ErrMissingDriver = errors.New("driver.type must be set")
)
