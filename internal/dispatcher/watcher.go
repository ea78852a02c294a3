package dispatcher

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"photosort/internal/config"
	"photosort/internal/imagefile"
	"photosort/internal/logging"
	"photosort/internal/stage"
)

// Watcher bridges filesystem creation events into the dispatcher queue. Only
// top-level files with a supported extension are forwarded; everything the
// daemon itself writes lives in reserved folders and never produces a
// forwarded event.
type Watcher struct {
	cfg        *config.Config
	dispatcher *Dispatcher
	logger     *slog.Logger
	fsw        *fsnotify.Watcher
}

// NewWatcher constructs a watcher for the configured watch folder.
func NewWatcher(cfg *config.Config, dispatcher *Dispatcher, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, stage.Wrap(stage.ErrConfiguration, "watching", "create watcher", "failed to initialize filesystem notifications", err)
	}
	if err := fsw.Add(cfg.Paths.WatchFolder); err != nil {
		_ = fsw.Close()
		return nil, stage.Wrap(stage.ErrConfiguration, "watching", "watch folder", "failed to watch "+cfg.Paths.WatchFolder, err)
	}
	return &Watcher{
		cfg:        cfg,
		dispatcher: dispatcher,
		logger:     logging.NewComponentLogger(logger, "watcher"),
		fsw:        fsw,
	}, nil
}

// Run forwards creation events until ctx is canceled.
func (w *Watcher) Run(ctx context.Context) {
	w.logger.Info("watching for new files",
		logging.String("folder", w.cfg.Paths.WatchFolder),
	)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			name := filepath.Base(event.Name)
			if imagefile.IsReservedName(name) || !imagefile.HasSupportedExtension(name, w.cfg.Processing.SupportedExtensions) {
				continue
			}
			w.logger.Debug("file created", logging.String(logging.FieldFile, event.Name))
			w.dispatcher.Enqueue(event.Name)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", logging.Error(err))
		}
	}
}

// Close releases the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
