// Package config loads and validates the YAML configuration of a hardware
// interface instance: its namespace, sampling period, resource set, driver
// selection and initial parameters.
package config
