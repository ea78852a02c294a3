package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	WatchFolder string `toml:"watch_folder"`
	LogDir      string `toml:"log_dir"`
}

// Session contains the session-batching knobs.
type Session struct {
	WindowMinutes      int    `toml:"window_minutes"`
	MaxPhotos          int    `toml:"max_photos"`
	StartupScanMinutes int    `toml:"startup_scan_minutes"`
	SettleDelaySeconds int    `toml:"settle_delay_seconds"`
	MarkerPrefix       string `toml:"marker_prefix"`
}

// Folders names the reserved subfolders inside the watch folder. Every name
// must begin with the reserved prefix so the collector can skip them.
type Folders struct {
	Backup string `toml:"backup"`
	Error  string `toml:"error"`
	Done   string `toml:"done"`
}

// Processing contains error policy and file-selection settings.
type Processing struct {
	ErrorPolicy         string   `toml:"error_policy"`
	SupportedExtensions []string `toml:"supported_extensions"`
	EventQueueSize      int      `toml:"event_queue_size"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Error policies accepted by processing.error_policy.
const (
	PolicyHalt     = "halt"
	PolicyContinue = "continue"
)

// ReservedPrefix is the leading character that marks a directory entry as
// owned by photosort rather than incoming material.
const ReservedPrefix = "_"

// Config encapsulates all configuration values for photosort.
type Config struct {
	Paths         Paths         `toml:"paths"`
	Session       Session       `toml:"session"`
	Folders       Folders       `toml:"folders"`
	Processing    Processing    `toml:"processing"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/photosort/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("photosort.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the daemon needs: the watch
// folder, its reserved subfolders, and the log directory.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Paths.WatchFolder,
		c.BackupDir(),
		c.ErrorDir(),
		c.DoneDir(),
		c.Paths.LogDir,
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// BackupDir returns the absolute path of the backup folder.
func (c *Config) BackupDir() string {
	return filepath.Join(c.Paths.WatchFolder, c.Folders.Backup)
}

// ErrorDir returns the absolute path of the failure-record folder.
func (c *Config) ErrorDir() string {
	return filepath.Join(c.Paths.WatchFolder, c.Folders.Error)
}

// DoneDir returns the absolute path of the success-record folder.
func (c *Config) DoneDir() string {
	return filepath.Join(c.Paths.WatchFolder, c.Folders.Done)
}

// Window returns the session collection window as a duration.
func (c *Config) Window() time.Duration {
	return time.Duration(c.Session.WindowMinutes) * time.Minute
}

// StartupScanWindow returns the backlog scan window as a duration.
func (c *Config) StartupScanWindow() time.Duration {
	return time.Duration(c.Session.StartupScanMinutes) * time.Minute
}

// SettleDelay returns the wait applied after a file-creation event.
func (c *Config) SettleDelay() time.Duration {
	return time.Duration(c.Session.SettleDelaySeconds) * time.Second
}

// HaltOnError reports whether a session-fatal error should stop the pipeline.
func (c *Config) HaltOnError() bool {
	return c.Processing.ErrorPolicy == PolicyHalt
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
