package collector

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"photosort/internal/config"
	"photosort/internal/imagefile"
	"photosort/internal/logging"
	"photosort/internal/session"
	"photosort/internal/stage"
)

// TimestampResolver yields the logical capture time of an image file.
type TimestampResolver interface {
	Resolve(path string) time.Time
}

// Collector selects the time-windowed candidate set for a session trigger.
type Collector struct {
	cfg      *config.Config
	resolver TimestampResolver
	logger   *slog.Logger
}

// New constructs a collector.
func New(cfg *config.Config, resolver TimestampResolver, logger *slog.Logger) *Collector {
	return &Collector{
		cfg:      cfg,
		resolver: resolver,
		logger:   logging.NewComponentLogger(logger, "collector"),
	}
}

// Collect enumerates the watch folder once and returns the candidates whose
// capture time falls inside [marker-window, marker], both ends inclusive,
// sorted ascending by capture time. The enumeration is a point-in-time
// snapshot: files created after the scan begins are not picked up.
func (c *Collector) Collect(trigger session.Trigger) ([]imagefile.ImageFile, error) {
	watch := c.cfg.Paths.WatchFolder
	entries, err := os.ReadDir(watch)
	if err != nil {
		return nil, stage.Wrap(stage.ErrTransient, "collecting", "scan watch folder", "failed to enumerate directory", err)
	}

	markerPath := filepath.Clean(trigger.MarkerPath)
	cutoff := trigger.CapturedAt.Add(-c.cfg.Window())

	candidates := make([]imagefile.ImageFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if imagefile.IsReservedName(name) {
			continue
		}
		if !imagefile.HasSupportedExtension(name, c.cfg.Processing.SupportedExtensions) {
			continue
		}
		path := filepath.Join(watch, name)
		if filepath.Clean(path) == markerPath {
			continue
		}
		capturedAt := c.resolver.Resolve(path)
		if capturedAt.Before(cutoff) || capturedAt.After(trigger.CapturedAt) {
			continue
		}
		candidates = append(candidates, imagefile.ImageFile{Path: path, CapturedAt: capturedAt})
	}

	// Stable: ties keep enumeration order, there is no secondary key.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].CapturedAt.Before(candidates[j].CapturedAt)
	})

	c.logger.Info("collection complete",
		logging.String(logging.FieldSubjectID, trigger.SubjectID),
		logging.Int("candidates", len(candidates)),
		logging.Time("cutoff", cutoff),
		logging.Time("marker_at", trigger.CapturedAt),
	)
	return candidates, nil
}
