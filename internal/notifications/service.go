package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Jrchintu/a2z-old-sheet/internal/config"
)

const userAgent = "a2z/0.1.0"

// Event identifies a command outcome worth pushing to the configured topic.
type Event string

const (
	// EventLocalizeCompleted fires after a localize run finishes.
	EventLocalizeCompleted Event = "localize_completed"
	// EventLocalizeFailed fires when a localize run aborts.
	EventLocalizeFailed Event = "localize_failed"
	// EventMirrorCompleted fires after a mirror run finishes.
	EventMirrorCompleted Event = "mirror_completed"
	// EventMirrorFailed fires when a mirror run aborts.
	EventMirrorFailed Event = "mirror_failed"
)

// Payload carries the string fields each event's message is built from.
type Payload map[string]string

func (p Payload) value(key string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(p[key])
}

// Service publishes events. Events without a message mapping are dropped
// silently, so callers can publish unconditionally.
type Service interface {
	Publish(ctx context.Context, event Event, payload Payload) error
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

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type message struct {
	title    string
	body     string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

// Publish formats the event into an ntfy message and posts it. Unmapped
// events return nil without sending anything.
func (n *ntfyService) Publish(ctx context.Context, event Event, payload Payload) error {
	msg, ok := compose(event, payload)
	if !ok {
		return nil
	}
	return n.send(ctx, msg)
}

func compose(event Event, payload Payload) (message, bool) {
	switch event {
	case EventLocalizeCompleted:
		return message{
			title: "a2z - Localize Complete",
			body: fmt.Sprintf("✅ Localized %s: %s assets fetched, %s failed",
				payload.value("root"), payload.value("fetched"), payload.value("failed")),
			tags: []string{"a2z", "localize", "completed"},
		}, true
	case EventLocalizeFailed:
		return message{
			title: "a2z - Localize Failed",
			body: fmt.Sprintf("❌ Localize failed for %s: %s",
				payload.value("root"), payload.value("error")),
			tags:     []string{"a2z", "localize", "failed"},
			priority: "high",
		}, true
	case EventMirrorCompleted:
		return message{
			title: "a2z - Mirror Complete",
			body: fmt.Sprintf("✅ Mirrored %s: %s fetched, %s already saved, %s failed",
				payload.value("sheet"), payload.value("fetched"), payload.value("exists"), payload.value("failed")),
			tags: []string{"a2z", "mirror", "completed"},
		}, true
	case EventMirrorFailed:
		return message{
			title: "a2z - Mirror Failed",
			body: fmt.Sprintf("❌ Mirror failed for %s: %s",
				payload.value("sheet"), payload.value("error")),
			tags:     []string{"a2z", "mirror", "failed"},
			priority: "high",
		}, true
	}
	return message{}, false
}

func (n *ntfyService) send(ctx context.Context, msg message) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(msg.body))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if msg.title != "" {
		req.Header.Set("Title", msg.title)
	}
	if len(msg.tags) > 0 {
		req.Header.Set("Tags", strings.Join(msg.tags, ","))
	}
	if msg.priority != "" && msg.priority != "default" {
		req.Header.Set("Priority", msg.priority)
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

func (noopService) Publish(context.Context, Event, Payload) error { return nil }
