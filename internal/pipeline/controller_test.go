package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"photosort/internal/archiver"
	"photosort/internal/collector"
	"photosort/internal/config"
	"photosort/internal/imagefile"
	"photosort/internal/logging"
	"photosort/internal/notifications"
	"photosort/internal/organizer"
	"photosort/internal/outcome"
	"photosort/internal/pipeline"
	"photosort/internal/session"
	"photosort/internal/testsupport"
)

func newController(cfg *config.Config, state *pipeline.State) *pipeline.Controller {
	logger := logging.NewNop()
	return pipeline.NewController(
		cfg,
		collector.New(cfg, imagefile.NewResolver(logger), logger),
		archiver.New(cfg, logger),
		organizer.New(cfg, logger),
		outcome.NewRecorder(cfg, logger),
		notifications.NewService(cfg),
		state,
		logger,
	)
}

func TestProcessRunsFullSessionEndToEnd(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	watch := cfg.Paths.WatchFolder
	markerAt := time.Date(2024, 3, 9, 10, 0, 10, 0, time.Local)

	testsupport.WritePhotoAt(t, filepath.Join(watch, "a.jpg"), markerAt.Add(-10*time.Second))
	testsupport.WritePhotoAt(t, filepath.Join(watch, "b.jpg"), markerAt.Add(-5*time.Second))
	markerPath := filepath.Join(watch, "marker.jpg")
	testsupport.WritePhotoAt(t, markerPath, markerAt)

	state := pipeline.NewState()
	trigger := session.Trigger{SubjectID: "42", MarkerPath: markerPath, CapturedAt: markerAt}
	if err := newController(cfg, state).Process(context.Background(), trigger); err != nil {
		t.Fatalf("Process: %v", err)
	}

	destDir := filepath.Join(watch, "42", "2024.03.09")
	for _, name := range []string{"001.jpg", "002.jpg", "QR_42.jpg"} {
		if _, err := os.Stat(filepath.Join(destDir, name)); err != nil {
			t.Fatalf("expected %s in destination: %v", name, err)
		}
	}
	backupDir := filepath.Join(cfg.BackupDir(), trigger.ID())
	for _, name := range []string{"a.jpg", "b.jpg", "QR_42.jpg"} {
		if _, err := os.Stat(filepath.Join(backupDir, name)); err != nil {
			t.Fatalf("expected %s in backup: %v", name, err)
		}
	}

	records, err := outcome.List(cfg)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}
	if records[0].Status != outcome.StatusDone || records[0].SubjectID != "42" || records[0].FilesMoved != 3 {
		t.Fatalf("unexpected record: %+v", records[0])
	}
	if state.Halted() {
		t.Fatal("successful session must not halt processing")
	}
}

func TestProcessRejectsOversizedSessionBeforeArchiving(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithMaxPhotos(2))
	watch := cfg.Paths.WatchFolder
	markerAt := time.Now()

	for _, name := range []string{"a.jpg", "b.jpg", "c.jpg"} {
		testsupport.WritePhotoAt(t, filepath.Join(watch, name), markerAt.Add(-time.Minute))
	}
	markerPath := filepath.Join(watch, "marker.jpg")
	testsupport.WritePhotoAt(t, markerPath, markerAt)

	state := pipeline.NewState()
	trigger := session.Trigger{SubjectID: "7", MarkerPath: markerPath, CapturedAt: markerAt}
	if err := newController(cfg, state).Process(context.Background(), trigger); err == nil {
		t.Fatal("expected oversized session to fail")
	}

	// Nothing was archived or moved.
	if _, err := os.Stat(filepath.Join(cfg.BackupDir(), trigger.ID())); !os.IsNotExist(err) {
		t.Fatalf("backup folder should not exist, err=%v", err)
	}
	for _, name := range []string{"a.jpg", "b.jpg", "c.jpg", "marker.jpg"} {
		if _, err := os.Stat(filepath.Join(watch, name)); err != nil {
			t.Fatalf("%s should remain in watch folder: %v", name, err)
		}
	}

	done, failed, err := outcome.Counts(cfg)
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	if done != 0 || failed != 1 {
		t.Fatalf("done=%d failed=%d, want 0/1", done, failed)
	}
	if !state.Halted() {
		t.Fatal("halt policy should have set the halt flag")
	}
}

func TestProcessContinuePolicyDoesNotHalt(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithMaxPhotos(1), testsupport.WithErrorPolicy(config.PolicyContinue))
	watch := cfg.Paths.WatchFolder
	markerAt := time.Now()

	testsupport.WritePhotoAt(t, filepath.Join(watch, "a.jpg"), markerAt.Add(-time.Minute))
	testsupport.WritePhotoAt(t, filepath.Join(watch, "b.jpg"), markerAt.Add(-30*time.Second))
	markerPath := filepath.Join(watch, "marker.jpg")
	testsupport.WritePhotoAt(t, markerPath, markerAt)

	state := pipeline.NewState()
	trigger := session.Trigger{SubjectID: "9", MarkerPath: markerPath, CapturedAt: markerAt}
	if err := newController(cfg, state).Process(context.Background(), trigger); err == nil {
		t.Fatal("expected session failure")
	}
	if state.Halted() {
		t.Fatal("continue policy must not halt processing")
	}
}

func TestProcessIgnoresTriggersWhenHalted(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	watch := cfg.Paths.WatchFolder
	markerAt := time.Now()
	markerPath := filepath.Join(watch, "marker.jpg")
	testsupport.WritePhotoAt(t, markerPath, markerAt)

	state := pipeline.NewState()
	state.Halt()
	trigger := session.Trigger{SubjectID: "42", MarkerPath: markerPath, CapturedAt: markerAt}
	if err := newController(cfg, state).Process(context.Background(), trigger); err != nil {
		t.Fatalf("halted trigger should be dropped silently, got %v", err)
	}
	if _, err := os.Stat(markerPath); err != nil {
		t.Fatalf("marker must remain untouched: %v", err)
	}
	done, failed, err := outcome.Counts(cfg)
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	if done != 0 || failed != 0 {
		t.Fatalf("halted trigger must not record an outcome, done=%d failed=%d", done, failed)
	}
}

func TestProcessMarkerOnlySession(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	watch := cfg.Paths.WatchFolder
	markerAt := time.Date(2024, 3, 9, 14, 30, 0, 0, time.Local)
	markerPath := filepath.Join(watch, "marker.jpg")
	testsupport.WritePhotoAt(t, markerPath, markerAt)

	state := pipeline.NewState()
	trigger := session.Trigger{SubjectID: "7", MarkerPath: markerPath, CapturedAt: markerAt}
	if err := newController(cfg, state).Process(context.Background(), trigger); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if _, err := os.Stat(filepath.Join(watch, "7", "2024.03.09", "QR_7.jpg")); err != nil {
		t.Fatalf("marker not organized: %v", err)
	}
}
