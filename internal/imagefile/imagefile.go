package imagefile

import (
	"path/filepath"
	"strings"
	"time"

	"photosort/internal/config"
)

// ImageFile is a candidate photo in the watch folder together with its
// resolved capture time. The timestamp is filled in by the collector once
// per processing pass and treated as immutable afterwards.
type ImageFile struct {
	Path       string
	CapturedAt time.Time
}

// Name returns the base name of the file.
func (f ImageFile) Name() string {
	return filepath.Base(f.Path)
}

// Ext returns the lower-cased extension of the file.
func (f ImageFile) Ext() string {
	return strings.ToLower(filepath.Ext(f.Path))
}

// HasSupportedExtension reports whether name carries one of the configured
// image extensions. Extensions are expected in normalized (lower-case,
// dot-prefixed) form as produced by the config package.
func HasSupportedExtension(name string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return false
	}
	for _, supported := range extensions {
		if ext == supported {
			return true
		}
	}
	return false
}

// IsReservedName reports whether a top-level directory entry belongs to
// photosort itself (backup/error/done folders, or anything else following
// the reserved-prefix convention) and must never be collected.
func IsReservedName(name string) bool {
	return strings.HasPrefix(name, config.ReservedPrefix)
}
