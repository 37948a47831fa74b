package alerts

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/stablewatchers/transferwatch-backend/internal/model"
)

// EmailConfig holds SMTP settings for the email channel.
type EmailConfig struct {
	Host     string
	Port     int
	From     string
	Password string
	To       []string
}

// EmailChannel delivers alerts over SMTP with STARTTLS.
type EmailChannel struct {
	cfg EmailConfig
	// send is swappable in tests; defaults to smtp.SendMail.
	send func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmailChannel builds an email channel from SMTP settings.
func NewEmailChannel(cfg EmailConfig) (*EmailChannel, error) {
	if cfg.Host == "" || cfg.From == "" || cfg.Password == "" {
		return nil, errors.New("email smtp host, sender and password are required")
	}
	if len(cfg.To) == 0 {
		return nil, errors.New("email recipient list is empty")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &EmailChannel{cfg: cfg, send: smtp.SendMail}, nil
}

func (c *EmailChannel) Name() string { return "email" }

// Send delivers the alert as a plain-text message. SMTP has no context
// support; the router's timeout covers the goroutine, not the dial.
func (c *EmailChannel) Send(ctx context.Context, event model.AlertEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	subject := fmt.Sprintf("[%s] transferwatch: %s", strings.ToUpper(string(event.Severity)), event.Type)

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", c.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(c.cfg.To, ", "))
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	msg.WriteString(event.Message)
	if event.TxHash != "" {
		fmt.Fprintf(&msg, "\r\n\r\nTransaction: %s", event.TxHash)
	}

	addr := fmt.Sprintf("%s:%d", c.cfg.Host, c.cfg.Port)
	auth := smtp.PlainAuth("", c.cfg.From, c.cfg.Password, c.cfg.Host)
	if err := c.send(addr, auth, c.cfg.From, c.cfg.To, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
