package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"photosort/internal/config"
	"photosort/internal/imagefile"
	"photosort/internal/logging"
	"photosort/internal/notifications"
	"photosort/internal/session"
	"photosort/internal/stage"
)

// Collector assembles the candidate set for a trigger.
type Collector interface {
	Collect(trigger session.Trigger) ([]imagefile.ImageFile, error)
}

// Archiver takes the verified backup of a session before any move.
type Archiver interface {
	Archive(s session.Session) error
}

// Organizer moves a session's files into the destination layout.
type Organizer interface {
	Organize(s session.Session) (int, error)
}

// Recorder persists the terminal outcome of a session attempt.
type Recorder interface {
	RecordSuccess(sessionID, subjectID string, filesMoved int)
	RecordFailure(sessionID, subjectID string, cause error)
}

// Controller runs one session end to end: collect, archive, organize,
// record. A failure in any stage produces a failure record and, under the
// halt policy, sets the process-wide halt flag. Exactly one trigger is
// processed at a time; the dispatcher guarantees no interleaving.
type Controller struct {
	cfg       *config.Config
	collector Collector
	archiver  Archiver
	organizer Organizer
	recorder  Recorder
	notifier  notifications.Service
	state     *State
	logger    *slog.Logger
}

// NewController wires the pipeline stages together.
func NewController(
	cfg *config.Config,
	collector Collector,
	archiver Archiver,
	organizer Organizer,
	recorder Recorder,
	notifier notifications.Service,
	state *State,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		cfg:       cfg,
		collector: collector,
		archiver:  archiver,
		organizer: organizer,
		recorder:  recorder,
		notifier:  notifier,
		state:     state,
		logger:    logging.NewComponentLogger(logger, "pipeline"),
	}
}

// Process handles a single marker trigger. The returned error reports the
// session's outcome to the caller; the failure record and halt flag have
// already been applied by the time it returns.
func (c *Controller) Process(ctx context.Context, trigger session.Trigger) error {
	if c.state.Halted() {
		c.logger.Warn("trigger ignored, processing halted",
			logging.String(logging.FieldSubjectID, trigger.SubjectID),
			logging.String(logging.FieldFile, trigger.MarkerPath),
		)
		return nil
	}

	runID := uuid.NewString()
	logger := c.logger.With(
		logging.String(logging.FieldRunID, runID),
		logging.String(logging.FieldSessionID, trigger.ID()),
		logging.String(logging.FieldSubjectID, trigger.SubjectID),
	)
	logger.Info("session started", logging.String(logging.FieldFile, trigger.MarkerPath))

	candidates, err := c.collector.Collect(trigger)
	if err != nil {
		return c.fail(ctx, logger, trigger.ID(), trigger.SubjectID, err)
	}
	if max := c.cfg.Session.MaxPhotos; len(candidates) > max {
		err := stage.Wrap(stage.ErrValidation, "collecting", "enforce session limit",
			fmt.Sprintf("too many photos: %d candidates exceed the limit of %d", len(candidates), max), nil)
		return c.fail(ctx, logger, trigger.ID(), trigger.SubjectID, err)
	}

	s := session.New(trigger, candidates)
	if err := c.archiver.Archive(s); err != nil {
		return c.fail(ctx, logger, s.ID, s.SubjectID, err)
	}

	moved, err := c.organizer.Organize(s)
	if err != nil {
		return c.fail(ctx, logger, s.ID, s.SubjectID, err)
	}

	c.recorder.RecordSuccess(s.ID, s.SubjectID, moved)
	logger.Info("session completed", logging.Int("moved", moved))
	if err := c.notifier.NotifySessionCompleted(ctx, s.SubjectID, moved); err != nil {
		logger.Warn("completion notification failed", logging.Error(err))
	}
	return nil
}

func (c *Controller) fail(ctx context.Context, logger *slog.Logger, sessionID, subjectID string, cause error) error {
	logger.Error("session failed", logging.Error(cause))
	c.recorder.RecordFailure(sessionID, subjectID, cause)
	if err := c.notifier.NotifySessionFailed(ctx, subjectID, cause); err != nil {
		logger.Warn("failure notification failed", logging.Error(err))
	}

	if c.cfg.HaltOnError() {
		c.state.Halt()
		logger.Error("processing halted, manual intervention required")
		if err := c.notifier.NotifyProcessingHalted(ctx, subjectID); err != nil {
			logger.Warn("halt notification failed", logging.Error(err))
		}
	}
	return cause
}
