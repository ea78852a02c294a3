package archiver

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"photosort/internal/config"
	"photosort/internal/fileutil"
	"photosort/internal/logging"
	"photosort/internal/session"
	"photosort/internal/stage"
)

// Archiver copies a session's raw inputs into the backup folder before any
// destructive mutation. Organizing assumes archiving succeeded; any failure
// here is session-fatal and prevents the organize stage from running.
type Archiver struct {
	cfg    *config.Config
	logger *slog.Logger
}

// New constructs an archiver.
func New(cfg *config.Config, logger *slog.Logger) *Archiver {
	return &Archiver{cfg: cfg, logger: logging.NewComponentLogger(logger, "archiver")}
}

// Archive copies every candidate unchanged into _backup/<sessionID>, then
// the marker under a name embedding the subject id so a backup can be
// correlated to a subject even when organizing fails later. The session
// directory must not pre-exist: a second marker in the same second would
// silently share the same id, so the collision is rejected instead.
func (a *Archiver) Archive(s session.Session) error {
	if err := os.MkdirAll(a.cfg.BackupDir(), 0o755); err != nil {
		return stage.Wrap(stage.ErrTransient, "archiving", "ensure backup folder", "failed to create backup root", err)
	}

	dir := filepath.Join(a.cfg.BackupDir(), s.ID)
	if err := os.Mkdir(dir, 0o755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return stage.Wrap(stage.ErrValidation, "archiving", "create session folder", "session id collision: a backup for this second already exists", err)
		}
		return stage.Wrap(stage.ErrTransient, "archiving", "create session folder", "failed to create backup directory", err)
	}

	for _, candidate := range s.Candidates {
		target := filepath.Join(dir, candidate.Name())
		if err := fileutil.CopyFileVerified(candidate.Path, target); err != nil {
			return stage.Wrap(stage.ErrTransient, "archiving", "copy candidate", "failed to back up "+candidate.Name(), err)
		}
	}

	markerTarget := filepath.Join(dir, s.MarkerName(a.cfg.Session.MarkerPrefix))
	if err := fileutil.CopyFileVerified(s.MarkerPath, markerTarget); err != nil {
		return stage.Wrap(stage.ErrTransient, "archiving", "copy marker", "failed to back up marker image", err)
	}

	a.logger.Info("session archived",
		logging.String(logging.FieldSessionID, s.ID),
		logging.String(logging.FieldSubjectID, s.SubjectID),
		logging.Int("files", len(s.Candidates)+1),
		logging.String("backup_dir", dir),
	)
	return nil
}
