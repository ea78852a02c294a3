package testsupport

import (
	"path/filepath"
	"testing"

	"photosort/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// The watch folder and its reserved subfolders exist when it returns.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WatchFolder = filepath.Join(base, "inbox")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithErrorPolicy overrides the error policy on the test config.
func WithErrorPolicy(policy string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Processing.ErrorPolicy = policy
	}
}

// WithMaxPhotos overrides the per-session candidate limit.
func WithMaxPhotos(n int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Session.MaxPhotos = n
	}
}

// WithWindowMinutes overrides the session collection window.
func WithWindowMinutes(n int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Session.WindowMinutes = n
	}
}

// WithSettleDelaySeconds overrides the settle delay applied to live events.
func WithSettleDelaySeconds(n int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Session.SettleDelaySeconds = n
	}
}
