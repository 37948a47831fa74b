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

// Discord embed sidebar colors per severity.
var discordColors = map[model.Severity]int{
	model.SeverityLow:      3447003,  // blue
	model.SeverityMedium:   16776960, // yellow
	model.SeverityHigh:     16711680, // red
	model.SeverityCritical: 10038562, // dark red
}

// DiscordChannel delivers alerts through a Discord webhook as embeds.
type DiscordChannel struct {
	hc         *http.Client
	webhookURL string
}

// NewDiscordChannel builds a channel posting to the given webhook.
func NewDiscordChannel(webhookURL string) (*DiscordChannel, error) {
	if webhookURL == "" {
		return nil, errors.New("discord webhook url is required")
	}
	return &DiscordChannel{
		hc:         &http.Client{Timeout: 10 * time.Second},
		webhookURL: webhookURL,
	}, nil
}

func (c *DiscordChannel) Name() string { return "discord" }

// Send posts the alert as a single embed colored by severity.
func (c *DiscordChannel) Send(ctx context.Context, event model.AlertEvent) error {
	color, ok := discordColors[event.Severity]
	if !ok {
		color = discordColors[model.SeverityLow]
	}

	body, err := json.Marshal(map[string]any{
		"embeds": []map[string]any{{
			"title":       fmt.Sprintf("Transfer Monitor Alert: %s", event.Type),
			"description": event.Message,
			"color":       color,
			"timestamp":   event.SentAt.UTC().Format(time.RFC3339),
			"footer":      map[string]any{"text": "transferwatch"},
		}},
	})
	if err != nil {
		return fmt.Errorf("marshal discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("discord send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("discord webhook status=%d", resp.StatusCode)
	}
	return nil
}
