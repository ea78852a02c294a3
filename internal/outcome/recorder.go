package outcome

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/renameio/v2"

	"photosort/internal/config"
	"photosort/internal/logging"
)

// Recorder writes the terminal success or failure record of a session
// attempt. Recording is best-effort diagnostics: a failure to write a record
// is logged and swallowed, it never changes the session's already-decided
// outcome.
type Recorder struct {
	cfg    *config.Config
	logger *slog.Logger
	now    func() time.Time
}

// NewRecorder constructs a recorder.
func NewRecorder(cfg *config.Config, logger *slog.Logger) *Recorder {
	return &Recorder{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "outcome"),
		now:    time.Now,
	}
}

// RecordSuccess writes the done record for a completed session.
func (r *Recorder) RecordSuccess(sessionID, subjectID string, filesMoved int) {
	name := fmt.Sprintf("done_%s_%s.txt", sessionID, subjectID)
	body := new(strings.Builder)
	fmt.Fprintf(body, "session: %s\n", sessionID)
	fmt.Fprintf(body, "subject: %s\n", subjectID)
	fmt.Fprintf(body, "files_moved: %d\n", filesMoved)
	fmt.Fprintf(body, "completed_at: %s\n", r.now().Format(time.RFC3339))
	r.write(filepath.Join(r.cfg.DoneDir(), name), body.String(), sessionID)
}

// RecordFailure writes the error record for a failed session.
func (r *Recorder) RecordFailure(sessionID, subjectID string, cause error) {
	name := fmt.Sprintf("error_%s.txt", sessionID)
	message := "unknown error"
	if cause != nil {
		message = cause.Error()
	}
	body := new(strings.Builder)
	fmt.Fprintf(body, "session: %s\n", sessionID)
	fmt.Fprintf(body, "subject: %s\n", subjectID)
	fmt.Fprintf(body, "error: %s\n", message)
	fmt.Fprintf(body, "failed_at: %s\n", r.now().Format(time.RFC3339))
	r.write(filepath.Join(r.cfg.ErrorDir(), name), body.String(), sessionID)
}

func (r *Recorder) write(path, body, sessionID string) {
	if err := renameio.WriteFile(path, []byte(body), 0o644); err != nil {
		r.logger.Warn("failed to write outcome record",
			logging.String(logging.FieldSessionID, sessionID),
			logging.String(logging.FieldFile, path),
			logging.Error(err),
		)
		return
	}
	r.logger.Debug("outcome record written",
		logging.String(logging.FieldSessionID, sessionID),
		logging.String(logging.FieldFile, path),
	)
}
