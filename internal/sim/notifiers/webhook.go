package notifiers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rparoni/iotshield/internal/sim"
)

const (
	webhookUserAgent = "iotshield-webhook/1.0"

	// maxErrorBody bounds how much of a failure response is carried into
	// the error message.
	maxErrorBody = 512
)

// WebhookNotifier posts engine events to an external HTTP endpoint.
type WebhookNotifier struct {
	id      string
	url     string
	client  *http.Client
	headers map[string]string
}

// NewWebhookNotifier creates a webhook notifier for the given URL.
func NewWebhookNotifier(id, url string) *WebhookNotifier {
	return &WebhookNotifier{
		id:      id,
		url:     url,
		client:  &http.Client{Timeout: 5 * time.Second},
		headers: make(map[string]string),
	}
}

// SetHeader sets a custom header to include in webhook requests. Custom
// headers take precedence over the defaults.
func (wn *WebhookNotifier) SetHeader(key, value string) {
	if wn.headers == nil {
		wn.headers = make(map[string]string)
	}
	wn.headers[key] = value
}

// ID returns the notifier ID.
func (wn *WebhookNotifier) ID() string {
	return wn.id
}

// Type returns the notifier type.
func (wn *WebhookNotifier) Type() string {
	return "webhook"
}

// Notify posts the engine event to the webhook URL. Non-2xx responses
// are errors; an excerpt of the response body is included so the retry
// log shows what the endpoint complained about.
func (wn *WebhookNotifier) Notify(ctx context.Context, event sim.EngineEvent) error {
	jsonData, err := event.JSON()
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, wn.url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", webhookUserAgent)
	for key, value := range wn.headers {
		req.Header.Set(key, value)
	}

	resp, err := wn.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if msg := strings.TrimSpace(string(excerpt)); msg != "" {
			return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, msg)
		}
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	// Drain so the keep-alive connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Close closes the notifier (no-op for webhook).
func (wn *WebhookNotifier) Close() error {
	return nil
}
