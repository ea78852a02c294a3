package dispatcher_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"photosort/internal/dispatcher"
	"photosort/internal/logging"
	"photosort/internal/pipeline"
	"photosort/internal/testsupport"
)

func TestWatcherForwardsCreatedMarker(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithSettleDelaySeconds(0))
	at := time.Now()

	processor := newRecordingProcessor()
	d := dispatcher.New(cfg,
		stubDetector{payloads: map[string]string{"marker.jpg": "42"}},
		stubResolver{times: map[string]time.Time{"marker.jpg": at}},
		processor,
		pipeline.NewState(),
		logging.NewNop(),
	)

	w, err := dispatcher.NewWatcher(cfg, d, logging.NewNop())
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)
	go w.Run(ctx)

	// An unsupported file first, then the marker. Only the marker should be
	// forwarded.
	testsupport.WriteFile(t, filepath.Join(cfg.Paths.WatchFolder, "notes.txt"), 16)
	testsupport.WritePhotoAt(t, filepath.Join(cfg.Paths.WatchFolder, "marker.jpg"), at)

	select {
	case trigger := <-processor.notify:
		if trigger.SubjectID != "42" {
			t.Fatalf("unexpected trigger: %+v", trigger)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watcher dispatch")
	}
	if got := processor.snapshot(); len(got) != 1 {
		t.Fatalf("len(triggers) = %d, want 1", len(got))
	}
}

func TestNewWatcherFailsForMissingFolder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Paths.WatchFolder = filepath.Join(cfg.Paths.WatchFolder, "does-not-exist")

	d := dispatcher.New(cfg, stubDetector{}, stubResolver{}, newRecordingProcessor(), pipeline.NewState(), logging.NewNop())
	if _, err := dispatcher.NewWatcher(cfg, d, logging.NewNop()); err == nil {
		t.Fatal("expected error for missing watch folder")
	}
}
