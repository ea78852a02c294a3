package dispatcher

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"photosort/internal/imagefile"
	"photosort/internal/logging"
	"photosort/internal/stage"
)

// ScanBacklog processes markers that arrived while the daemon was not
// running. It enumerates the watch folder once, keeps files whose capture
// time falls within the startup scan window, and invokes the processor
// synchronously for each positive detection, in directory enumeration order.
// Enumeration order is not timestamp order, so backlog sessions with
// interleaved capture times may collect differently than they would have
// live.
func (d *Dispatcher) ScanBacklog(ctx context.Context) error {
	watch := d.cfg.Paths.WatchFolder
	entries, err := os.ReadDir(watch)
	if err != nil {
		return stage.Wrap(stage.ErrTransient, "backlog", "enumerate watch folder", "failed to read "+watch, err)
	}

	cutoff := time.Now().Add(-d.cfg.StartupScanWindow())
	d.logger.Debug("scanning backlog in directory enumeration order",
		logging.Time("cutoff", cutoff),
	)
	scanned := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.state.Halted() {
			d.logger.Warn("backlog scan stopped, processing halted")
			return nil
		}
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if imagefile.IsReservedName(name) || !imagefile.HasSupportedExtension(name, d.cfg.Processing.SupportedExtensions) {
			continue
		}
		path := filepath.Join(watch, name)
		capturedAt := d.resolver.Resolve(path)
		if capturedAt.IsZero() || capturedAt.Before(cutoff) {
			continue
		}
		scanned++
		d.dispatch(ctx, path)
	}

	d.logger.Info("backlog scan complete", logging.Int("scanned", scanned))
	return nil
}
