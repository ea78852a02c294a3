package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateSession(); err != nil {
		return err
	}
	if err := c.validateFolders(); err != nil {
		return err
	}
	if err := c.validateProcessing(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.WatchFolder) == "" {
		return errors.New("paths.watch_folder must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateSession() error {
	if c.Session.WindowMinutes <= 0 {
		return errors.New("session.window_minutes must be positive")
	}
	if c.Session.MaxPhotos <= 0 {
		return errors.New("session.max_photos must be positive")
	}
	if c.Session.StartupScanMinutes <= 0 {
		return errors.New("session.startup_scan_minutes must be positive")
	}
	if c.Session.SettleDelaySeconds < 0 {
		return errors.New("session.settle_delay_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateFolders() error {
	names := map[string]string{
		"folders.backup": c.Folders.Backup,
		"folders.error":  c.Folders.Error,
		"folders.done":   c.Folders.Done,
	}
	seen := map[string]string{}
	for key, name := range names {
		if name == "" {
			return fmt.Errorf("%s must be set", key)
		}
		if !strings.HasPrefix(name, ReservedPrefix) {
			return fmt.Errorf("%s must begin with %q so it is excluded from collection", key, ReservedPrefix)
		}
		if strings.ContainsAny(name, `/\`) {
			return fmt.Errorf("%s must be a bare folder name", key)
		}
		if prev, ok := seen[name]; ok {
			return fmt.Errorf("%s and %s must not share the name %q", prev, key, name)
		}
		seen[name] = key
	}
	return nil
}

func (c *Config) validateProcessing() error {
	switch c.Processing.ErrorPolicy {
	case PolicyHalt, PolicyContinue:
	default:
		return fmt.Errorf("processing.error_policy must be %q or %q", PolicyHalt, PolicyContinue)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
