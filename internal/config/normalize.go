package config

import "strings"

// normalize expands paths and canonicalizes string fields before validation.
func (c *Config) normalize() error {
	expandedWatch, err := expandPath(strings.TrimSpace(c.Paths.WatchFolder))
	if err != nil {
		return err
	}
	c.Paths.WatchFolder = expandedWatch

	expandedLogs, err := expandPath(strings.TrimSpace(c.Paths.LogDir))
	if err != nil {
		return err
	}
	c.Paths.LogDir = expandedLogs

	c.Folders.Backup = strings.TrimSpace(c.Folders.Backup)
	c.Folders.Error = strings.TrimSpace(c.Folders.Error)
	c.Folders.Done = strings.TrimSpace(c.Folders.Done)

	c.Session.MarkerPrefix = strings.TrimSpace(c.Session.MarkerPrefix)
	if c.Session.MarkerPrefix == "" {
		c.Session.MarkerPrefix = defaultMarkerPrefix
	}

	c.Processing.ErrorPolicy = strings.ToLower(strings.TrimSpace(c.Processing.ErrorPolicy))
	if c.Processing.EventQueueSize <= 0 {
		c.Processing.EventQueueSize = defaultEventQueueSize
	}

	normalized := make([]string, 0, len(c.Processing.SupportedExtensions))
	for _, ext := range c.Processing.SupportedExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized = append(normalized, ext)
	}
	if len(normalized) == 0 {
		normalized = defaultExtensions()
	}
	c.Processing.SupportedExtensions = normalized

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))

	return nil
}
