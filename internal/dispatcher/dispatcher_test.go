package dispatcher_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"photosort/internal/dispatcher"
	"photosort/internal/logging"
	"photosort/internal/pipeline"
	"photosort/internal/session"
	"photosort/internal/testsupport"
)

type stubDetector struct {
	payloads map[string]string
}

func (d stubDetector) Detect(path string) (string, bool) {
	subject, ok := d.payloads[filepath.Base(path)]
	return subject, ok
}

type stubResolver struct {
	times map[string]time.Time
}

func (r stubResolver) Resolve(path string) time.Time {
	return r.times[filepath.Base(path)]
}

type recordingProcessor struct {
	mu       sync.Mutex
	triggers []session.Trigger
	notify   chan session.Trigger
}

func newRecordingProcessor() *recordingProcessor {
	return &recordingProcessor{notify: make(chan session.Trigger, 16)}
}

func (p *recordingProcessor) Process(_ context.Context, trigger session.Trigger) error {
	p.mu.Lock()
	p.triggers = append(p.triggers, trigger)
	p.mu.Unlock()
	p.notify <- trigger
	return nil
}

func (p *recordingProcessor) snapshot() []session.Trigger {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]session.Trigger(nil), p.triggers...)
}

func TestRunDispatchesDetectedMarker(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithSettleDelaySeconds(0))
	at := time.Now()
	markerPath := filepath.Join(cfg.Paths.WatchFolder, "marker.jpg")
	testsupport.WritePhotoAt(t, markerPath, at)

	processor := newRecordingProcessor()
	d := dispatcher.New(cfg,
		stubDetector{payloads: map[string]string{"marker.jpg": "42"}},
		stubResolver{times: map[string]time.Time{"marker.jpg": at}},
		processor,
		pipeline.NewState(),
		logging.NewNop(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()

	d.Enqueue(markerPath)
	select {
	case trigger := <-processor.notify:
		if trigger.SubjectID != "42" || trigger.MarkerPath != markerPath {
			t.Fatalf("unexpected trigger: %+v", trigger)
		}
		if !trigger.CapturedAt.Equal(at) {
			t.Fatalf("CapturedAt = %v, want %v", trigger.CapturedAt, at)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for dispatch")
	}

	cancel()
	<-done
}

func TestRunIgnoresNonMarkerFiles(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithSettleDelaySeconds(0))
	at := time.Now()
	plainPath := filepath.Join(cfg.Paths.WatchFolder, "plain.jpg")
	markerPath := filepath.Join(cfg.Paths.WatchFolder, "marker.jpg")
	testsupport.WritePhotoAt(t, plainPath, at)
	testsupport.WritePhotoAt(t, markerPath, at)

	processor := newRecordingProcessor()
	d := dispatcher.New(cfg,
		stubDetector{payloads: map[string]string{"marker.jpg": "7"}},
		stubResolver{times: map[string]time.Time{"plain.jpg": at, "marker.jpg": at}},
		processor,
		pipeline.NewState(),
		logging.NewNop(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	// The plain photo and an unsupported document are enqueued first; only
	// the marker should reach the processor.
	d.Enqueue(plainPath)
	d.Enqueue(filepath.Join(cfg.Paths.WatchFolder, "notes.txt"))
	d.Enqueue(markerPath)

	select {
	case trigger := <-processor.notify:
		if trigger.SubjectID != "7" {
			t.Fatalf("unexpected trigger: %+v", trigger)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for dispatch")
	}
	if got := processor.snapshot(); len(got) != 1 {
		t.Fatalf("len(triggers) = %d, want 1", len(got))
	}
}

func TestEnqueueDropsWhenHalted(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithSettleDelaySeconds(0))
	state := pipeline.NewState()
	state.Halt()

	processor := newRecordingProcessor()
	d := dispatcher.New(cfg,
		stubDetector{payloads: map[string]string{"marker.jpg": "42"}},
		stubResolver{},
		processor,
		state,
		logging.NewNop(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	d.Enqueue(filepath.Join(cfg.Paths.WatchFolder, "marker.jpg"))
	select {
	case trigger := <-processor.notify:
		t.Fatalf("halted dispatcher processed trigger %+v", trigger)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestEnqueueNeverBlocksWhenQueueFull(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Processing.EventQueueSize = 1

	d := dispatcher.New(cfg,
		stubDetector{},
		stubResolver{},
		newRecordingProcessor(),
		pipeline.NewState(),
		logging.NewNop(),
	)

	// No consumer is running; the second enqueue must drop, not block.
	done := make(chan struct{})
	go func() {
		d.Enqueue("one.jpg")
		d.Enqueue("two.jpg")
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}
}

func TestScanBacklogProcessesMarkersInEnumerationOrder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	watch := cfg.Paths.WatchFolder
	now := time.Now()

	times := map[string]time.Time{
		"alpha.jpg": now.Add(-30 * time.Minute),
		"beta.jpg":  now.Add(-20 * time.Minute),
		"old.jpg":   now.Add(-48 * time.Hour),
	}
	for name, at := range times {
		testsupport.WritePhotoAt(t, filepath.Join(watch, name), at)
	}

	processor := newRecordingProcessor()
	d := dispatcher.New(cfg,
		stubDetector{payloads: map[string]string{
			"alpha.jpg": "1",
			"beta.jpg":  "2",
			"old.jpg":   "3",
		}},
		stubResolver{times: times},
		processor,
		pipeline.NewState(),
		logging.NewNop(),
	)

	if err := d.ScanBacklog(context.Background()); err != nil {
		t.Fatalf("ScanBacklog: %v", err)
	}

	got := processor.snapshot()
	if len(got) != 2 {
		t.Fatalf("len(triggers) = %d, want 2 (old marker outside scan window)", len(got))
	}
	// ReadDir enumerates lexically, so alpha precedes beta.
	if got[0].SubjectID != "1" || got[1].SubjectID != "2" {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestScanBacklogStopsAfterHalt(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	watch := cfg.Paths.WatchFolder
	now := time.Now()
	for _, name := range []string{"a.jpg", "b.jpg"} {
		testsupport.WritePhotoAt(t, filepath.Join(watch, name), now)
	}

	state := pipeline.NewState()
	processor := &haltingProcessor{state: state}
	d := dispatcher.New(cfg,
		stubDetector{payloads: map[string]string{"a.jpg": "1", "b.jpg": "2"}},
		stubResolver{times: map[string]time.Time{"a.jpg": now, "b.jpg": now}},
		processor,
		state,
		logging.NewNop(),
	)

	if err := d.ScanBacklog(context.Background()); err != nil {
		t.Fatalf("ScanBacklog: %v", err)
	}
	if processor.calls != 1 {
		t.Fatalf("calls = %d, want scan to stop after the halting session", processor.calls)
	}
}

type haltingProcessor struct {
	state *pipeline.State
	calls int
}

func (p *haltingProcessor) Process(context.Context, session.Trigger) error {
	p.calls++
	p.state.Halt()
	return nil
}
