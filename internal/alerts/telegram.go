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

const telegramAPIBase = "https://api.telegram.org"

// TelegramChannel delivers alerts through the Telegram bot API.
type TelegramChannel struct {
	hc      *http.Client
	baseURL string
	token   string
	chatID  string
}

// NewTelegramChannel builds a channel posting to the given chat.
func NewTelegramChannel(token, chatID string) (*TelegramChannel, error) {
	if token == "" || chatID == "" {
		return nil, errors.New("telegram bot token and chat id are required")
	}
	return &TelegramChannel{
		hc:      &http.Client{Timeout: 10 * time.Second},
		baseURL: telegramAPIBase,
		token:   token,
		chatID:  chatID,
	}, nil
}

func (c *TelegramChannel) Name() string { return "telegram" }

// Send posts the alert as a Markdown message prefixed with a severity
// marker.
func (c *TelegramChannel) Send(ctx context.Context, event model.AlertEvent) error {
	emoji, ok := severityEmoji[event.Severity]
	if !ok {
		emoji = "🔔"
	}

	body, err := json.Marshal(map[string]any{
		"chat_id":                  c.chatID,
		"text":                     emoji + " " + event.Message,
		"parse_mode":               "Markdown",
		"disable_web_page_preview": true,
	})
	if err != nil {
		return fmt.Errorf("marshal telegram payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram api status=%d", resp.StatusCode)
	}
	return nil
}
