package alerts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/stablewatchers/transferwatch-backend/internal/model"
)

// WebhookChannel POSTs alerts as JSON to an operator-provided endpoint.
type WebhookChannel struct {
	hc     *http.Client
	url    string
	secret string
}

// NewWebhookChannel builds a generic webhook channel. secret, when set, is
// sent as the X-Webhook-Secret header so receivers can authenticate us.
func NewWebhookChannel(url, secret string) (*WebhookChannel, error) {
	if url == "" {
		return nil, errors.New("webhook url is required")
	}
	return &WebhookChannel{
		hc:     &http.Client{Timeout: 10 * time.Second},
		url:    url,
		secret: secret,
	}, nil
}

func (c *WebhookChannel) Name() string { return "webhook" }

type webhookPayload struct {
	AlertType     model.AlertType `json:"alert_type"`
	Severity      model.Severity  `json:"severity"`
	Message       string          `json:"message"`
	TransactionID string          `json:"transaction_id,omitempty"`
	Timestamp     int64           `json:"timestamp"`
}

// Send delivers the alert payload with at most one attempt.
func (c *WebhookChannel) Send(ctx context.Context, event model.AlertEvent) error {
	body, err := json.Marshal(webhookPayload{
		AlertType:     event.Type,
		Severity:      event.Severity,
		Message:       event.Message,
		TransactionID: event.TxHash,
		Timestamp:     event.SentAt.Unix(),
	})
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.secret != "" {
		req.Header.Set("X-Webhook-Secret", c.secret)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("webhook send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook status=%d", resp.StatusCode)
	}
	return nil
}
