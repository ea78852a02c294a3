package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"photosort/internal/config"
)

const userAgent = "Photosort-Go/0.1.0"

// Service defines the notification surface exposed to the pipeline.
type Service interface {
	NotifySessionCompleted(ctx context.Context, subjectID string, filesMoved int) error
	NotifySessionFailed(ctx context.Context, subjectID string, err error) error
	NotifyProcessingHalted(ctx context.Context, subjectID string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &http.Client{Timeout: timeout}
	return &ntfyService{
		endpoint: topic,
		client:   client,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifySessionCompleted(ctx context.Context, subjectID string, filesMoved int) error {
	subjectID = strings.TrimSpace(subjectID)
	data := payload{
		title:   "Photosort - Session Complete",
		message: fmt.Sprintf("✅ Session complete for %s: %d files organized", subjectID, filesMoved),
		tags:    []string{"photosort", "session", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifySessionFailed(ctx context.Context, subjectID string, err error) error {
	subjectID = strings.TrimSpace(subjectID)
	message := "unknown"
	if err != nil {
		message = strings.TrimSpace(err.Error())
	}
	data := payload{
		title:    "Photosort - Session Failed",
		message:  fmt.Sprintf("❌ Session failed for %s: %s", subjectID, message),
		tags:     []string{"photosort", "session", "failed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyProcessingHalted(ctx context.Context, subjectID string) error {
	subjectID = strings.TrimSpace(subjectID)
	data := payload{
		title:    "Photosort - Processing Halted",
		message:  fmt.Sprintf("🛑 Processing halted after failed session for %s\nManual intervention required", subjectID),
		tags:     []string{"photosort", "halted", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Photosort - Test",
		message:  "🧪 Notification system test",
		tags:     []string{"photosort", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifySessionCompleted(context.Context, string, int) error { return nil }
func (noopService) NotifySessionFailed(context.Context, string, error) error  { return nil }
func (noopService) NotifyProcessingHalted(context.Context, string) error      { return nil }
func (noopService) TestNotification(context.Context) error                    { return nil }
