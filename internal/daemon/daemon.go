package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/gofrs/flock"

	"photosort/internal/archiver"
	"photosort/internal/collector"
	"photosort/internal/config"
	"photosort/internal/dispatcher"
	"photosort/internal/imagefile"
	"photosort/internal/logging"
	"photosort/internal/marker"
	"photosort/internal/notifications"
	"photosort/internal/organizer"
	"photosort/internal/outcome"
	"photosort/internal/pipeline"
)

// Daemon owns the running watch pipeline and enforces single-instance
// execution through a lock file in the log directory.
type Daemon struct {
	cfg        *config.Config
	logger     *slog.Logger
	state      *pipeline.State
	dispatcher *dispatcher.Dispatcher
	watcher    *dispatcher.Watcher

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	Halted       bool
	WatchFolder  string
	LockFilePath string
	SessionsDone int
	SessionsFail int
}

// New wires the full pipeline behind a daemon. The watch folder and its
// reserved subfolders are created if missing.
func New(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || logger == nil {
		return nil, errors.New("daemon requires config and logger")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("prepare directories: %w", err)
	}

	state := pipeline.NewState()
	resolver := imagefile.NewResolver(logger)
	controller := pipeline.NewController(
		cfg,
		collector.New(cfg, resolver, logger),
		archiver.New(cfg, logger),
		organizer.New(cfg, logger),
		outcome.NewRecorder(cfg, logger),
		notifications.NewService(cfg),
		state,
		logger,
	)
	disp := dispatcher.New(cfg, marker.NewQRDetector(logger), resolver, controller, state, logger)

	lockPath := filepath.Join(cfg.Paths.LogDir, "photosortd.lock")
	return &Daemon{
		cfg:        cfg,
		logger:     logging.NewComponentLogger(logger, "daemon"),
		state:      state,
		dispatcher: disp,
		lockPath:   lockPath,
		lock:       flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock, runs the startup backlog scan, and begins
// live watching. It returns once the daemon is fully running.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another photosort daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)

	// The watcher subscribes before the backlog scan so files created during
	// the scan still produce live events.
	watcher, err := dispatcher.NewWatcher(d.cfg, d.dispatcher, d.logger)
	if err != nil {
		cancel()
		_ = d.lock.Unlock()
		return err
	}
	d.watcher = watcher

	if err := d.dispatcher.ScanBacklog(runCtx); err != nil {
		cancel()
		_ = watcher.Close()
		_ = d.lock.Unlock()
		return fmt.Errorf("startup backlog scan: %w", err)
	}

	d.cancel = cancel
	d.wg.Add(2)
	go func() {
		defer d.wg.Done()
		d.dispatcher.Run(runCtx)
	}()
	go func() {
		defer d.wg.Done()
		watcher.Run(runCtx)
	}()

	d.running.Store(true)
	d.logger.Info("photosort daemon started",
		logging.String("watch_folder", d.cfg.Paths.WatchFolder),
		logging.String("lock", d.lockPath),
	)
	return nil
}

// Stop cancels the watch loops, waits for any in-flight session to finish,
// and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.wg.Wait()
	if d.watcher != nil {
		if err := d.watcher.Close(); err != nil {
			d.logger.Warn("failed to close watcher", logging.Error(err))
		}
		d.watcher = nil
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("photosort daemon stopped")
}

// Status reports runtime information, including outcome record counts.
func (d *Daemon) Status() Status {
	done, failed, err := outcome.Counts(d.cfg)
	if err != nil {
		d.logger.Warn("failed to count outcome records", logging.Error(err))
	}
	return Status{
		Running:      d.running.Load(),
		Halted:       d.state.Halted(),
		WatchFolder:  d.cfg.Paths.WatchFolder,
		LockFilePath: d.lockPath,
		SessionsDone: done,
		SessionsFail: failed,
	}
}
