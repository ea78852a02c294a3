package dispatcher

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"photosort/internal/config"
	"photosort/internal/imagefile"
	"photosort/internal/logging"
	"photosort/internal/marker"
	"photosort/internal/pipeline"
	"photosort/internal/session"
)

// Processor runs one session for a marker trigger.
type Processor interface {
	Process(ctx context.Context, trigger session.Trigger) error
}

// TimestampResolver yields the logical capture time of an image file.
type TimestampResolver interface {
	Resolve(path string) time.Time
}

// Dispatcher feeds marker triggers to the processor from two sources: the
// one-time startup backlog scan and the live event queue. All processing is
// strictly serialized through the single Run loop; event producers only
// enqueue.
type Dispatcher struct {
	cfg       *config.Config
	detector  marker.Detector
	resolver  TimestampResolver
	processor Processor
	state     *pipeline.State
	logger    *slog.Logger
	events    chan string
}

// New constructs a dispatcher with a bounded event queue.
func New(
	cfg *config.Config,
	detector marker.Detector,
	resolver TimestampResolver,
	processor Processor,
	state *pipeline.State,
	logger *slog.Logger,
) *Dispatcher {
	size := cfg.Processing.EventQueueSize
	if size <= 0 {
		size = 1
	}
	return &Dispatcher{
		cfg:       cfg,
		detector:  detector,
		resolver:  resolver,
		processor: processor,
		state:     state,
		logger:    logging.NewComponentLogger(logger, "dispatcher"),
		events:    make(chan string, size),
	}
}

// Enqueue submits a file-creation event for processing. It never blocks the
// producer: when the queue is full the event is dropped with a warning, and
// after a halt all events are dropped silently.
func (d *Dispatcher) Enqueue(path string) {
	if d.state.Halted() {
		return
	}
	select {
	case d.events <- path:
	default:
		d.logger.Warn("event queue full, dropping event",
			logging.String(logging.FieldFile, path),
		)
	}
}

// Run consumes the event queue until ctx is canceled. The settle delay gives
// the producing writer time to finish before the file is read. An in-flight
// session completes before Run returns.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case path := <-d.events:
			if d.state.Halted() {
				d.logger.Warn("event dropped, processing halted",
					logging.String(logging.FieldFile, path),
				)
				continue
			}
			if !d.settle(ctx) {
				return
			}
			d.dispatch(ctx, path)
		}
	}
}

func (d *Dispatcher) settle(ctx context.Context) bool {
	delay := d.cfg.SettleDelay()
	if delay <= 0 {
		return true
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// dispatch runs marker detection on one file and, on a positive detection,
// invokes the processor synchronously. Session failures are fully handled by
// the processor; the dispatcher only observes them for logging.
func (d *Dispatcher) dispatch(ctx context.Context, path string) {
	name := filepath.Base(path)
	if imagefile.IsReservedName(name) || !imagefile.HasSupportedExtension(name, d.cfg.Processing.SupportedExtensions) {
		return
	}

	subjectID, found := d.detector.Detect(path)
	if !found {
		d.logger.Debug("no marker payload", logging.String(logging.FieldFile, path))
		return
	}

	capturedAt := d.resolver.Resolve(path)
	if capturedAt.IsZero() {
		d.logger.Warn("marker vanished before processing",
			logging.String(logging.FieldFile, path),
		)
		return
	}

	trigger := session.Trigger{SubjectID: subjectID, MarkerPath: path, CapturedAt: capturedAt}
	d.logger.Info("marker detected",
		logging.String(logging.FieldSubjectID, subjectID),
		logging.String(logging.FieldFile, path),
	)
	if err := d.processor.Process(ctx, trigger); err != nil {
		d.logger.Debug("session ended in failure",
			logging.String(logging.FieldSessionID, trigger.ID()),
			logging.Error(err),
		)
	}
}
