package organizer

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"photosort/internal/config"
	"photosort/internal/fileutil"
	"photosort/internal/logging"
	"photosort/internal/session"
	"photosort/internal/stage"
)

// Organizer moves a session's files into their final per-subject, per-date
// layout. Candidates are renamed to zero-padded sequence numbers in the
// chronological order produced by the collector; the original filenames are
// discarded. Sequence numbering makes destinations collision-free within one
// session, so no existence-check loop is needed. A pre-existing file from an
// earlier session at the same path is assumed not to occur.
type Organizer struct {
	cfg    *config.Config
	logger *slog.Logger
}

// New constructs an organizer.
func New(cfg *config.Config, logger *slog.Logger) *Organizer {
	return &Organizer{cfg: cfg, logger: logging.NewComponentLogger(logger, "organizer")}
}

// Organize moves every candidate, then the marker, into
// <watch>/<subject>/<YYYY.MM.DD>/ and returns the number of files moved.
// Any individual move failure aborts the session; a partial move is a known
// possible inconsistency that the backup taken by the archiver covers.
func (o *Organizer) Organize(s session.Session) (int, error) {
	destDir := filepath.Join(o.cfg.Paths.WatchFolder, s.SubjectID, s.DateFolder())
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return 0, stage.Wrap(stage.ErrTransient, "organizing", "create destination", "failed to create "+destDir, err)
	}

	moved := 0
	for i, candidate := range s.Candidates {
		name := fmt.Sprintf("%03d%s", i+1, candidate.Ext())
		if err := fileutil.MoveFile(candidate.Path, filepath.Join(destDir, name)); err != nil {
			return moved, stage.Wrap(stage.ErrTransient, "organizing", "move candidate", "failed to move "+candidate.Name(), err)
		}
		moved++
	}

	// Marker goes last so its disappearance from the watch folder signals
	// the session is fully organized.
	markerName := s.MarkerName(o.cfg.Session.MarkerPrefix)
	if err := fileutil.MoveFile(s.MarkerPath, filepath.Join(destDir, markerName)); err != nil {
		return moved, stage.Wrap(stage.ErrTransient, "organizing", "move marker", "failed to move marker image", err)
	}
	moved++

	o.logger.Info("session organized",
		logging.String(logging.FieldSessionID, s.ID),
		logging.String(logging.FieldSubjectID, s.SubjectID),
		logging.Int("moved", moved),
		logging.String("destination", destDir),
	)
	return moved, nil
}

// HealthCheck verifies the organizer can write to the watch folder.
func (o *Organizer) HealthCheck() stage.Health {
	const name = "organizer"
	if o.cfg == nil {
		return stage.Unhealthy(name, "configuration unavailable")
	}
	info, err := os.Stat(o.cfg.Paths.WatchFolder)
	if err != nil {
		return stage.Unhealthy(name, "watch folder unavailable: "+err.Error())
	}
	if !info.IsDir() {
		return stage.Unhealthy(name, "watch folder is not a directory")
	}
	return stage.Healthy(name)
}
