// Package config loads, normalizes, and validates photosort configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and keeps every knob the daemon and CLI need
// in one Config value: the watch folder, session window sizes, reserved
// folder names, error policy, and log settings.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical extension lists, and clear validation errors.
package config
