// Package main delivers one test alert through every configured channel so
// operators can verify credentials before going live.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/stablewatchers/transferwatch-backend/internal/alerts"
	"github.com/stablewatchers/transferwatch-backend/internal/metrics"
	"github.com/stablewatchers/transferwatch-backend/internal/model"
	"go.uber.org/zap"
)

type config struct {
	Message string `long:"message" env:"ALERT_TEST_MESSAGE" description:"test message body" default:"transferwatch test alert: channel configuration is working"`

	TelegramToken  string   `long:"telegram-token" env:"ALERT_TEST_TELEGRAM_TOKEN" description:"telegram bot token"`
	TelegramChatID string   `long:"telegram-chat-id" env:"ALERT_TEST_TELEGRAM_CHAT_ID" description:"telegram chat id"`
	DiscordWebhook string   `long:"discord-webhook" env:"ALERT_TEST_DISCORD_WEBHOOK" description:"discord webhook url"`
	WebhookURL     string   `long:"webhook-url" env:"ALERT_TEST_WEBHOOK_URL" description:"generic webhook url"`
	WebhookSecret  string   `long:"webhook-secret" env:"ALERT_TEST_WEBHOOK_SECRET" description:"generic webhook shared secret"`
	SMTPHost       string   `long:"smtp-host" env:"ALERT_TEST_SMTP_HOST" description:"smtp host"`
	SMTPPort       int      `long:"smtp-port" env:"ALERT_TEST_SMTP_PORT" description:"smtp port" default:"587"`
	SMTPFrom       string   `long:"smtp-from" env:"ALERT_TEST_SMTP_FROM" description:"alert sender address"`
	SMTPPassword   string   `long:"smtp-password" env:"ALERT_TEST_SMTP_PASSWORD" description:"smtp password"`
	SMTPTo         []string `long:"smtp-to" env:"ALERT_TEST_SMTP_TO" env-delim:"," description:"alert recipients"`
	KafkaBrokers   []string `long:"kafka-broker" env:"ALERT_TEST_KAFKA_BROKERS" env-delim:"," description:"kafka broker list"`
	KafkaTopic     string   `long:"kafka-topic" env:"ALERT_TEST_KAFKA_TOPIC" description:"kafka alert topic" default:"transferwatch.alerts"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("alert test failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	channels, closeChannels, err := buildChannels(cfg)
	if err != nil {
		return err
	}
	defer func() {
		for _, c := range closeChannels {
			if err := c(); err != nil {
				logger.Error("close alert channel", zap.Error(err))
			}
		}
	}()

	if len(channels) == 0 {
		return errors.New("no alert channels configured")
	}

	names := make([]string, 0, len(channels))
	for _, ch := range channels {
		names = append(names, ch.Name())
	}
	logger.Info("sending test alert", zap.Strings("channels", names))

	router := alerts.NewRouter(alerts.RouterConfig{
		SendTimeout: 15 * time.Second,
	}, channels, nil, metrics.NewAlertRouter(), logger.Named("alerts"))

	router.Dispatch(ctx, model.AlertEvent{
		Type:     model.AlertTest,
		Severity: model.SeverityLow,
		Message:  cfg.Message,
	})
	return nil
}

func buildChannels(cfg config) ([]alerts.Channel, []func() error, error) {
	var (
		channels []alerts.Channel
		closers  []func() error
	)

	if cfg.TelegramToken != "" {
		ch, err := alerts.NewTelegramChannel(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			return nil, closers, fmt.Errorf("init telegram channel: %w", err)
		}
		channels = append(channels, ch)
	}
	if cfg.DiscordWebhook != "" {
		ch, err := alerts.NewDiscordChannel(cfg.DiscordWebhook)
		if err != nil {
			return nil, closers, fmt.Errorf("init discord channel: %w", err)
		}
		channels = append(channels, ch)
	}
	if cfg.WebhookURL != "" {
		ch, err := alerts.NewWebhookChannel(cfg.WebhookURL, cfg.WebhookSecret)
		if err != nil {
			return nil, closers, fmt.Errorf("init webhook channel: %w", err)
		}
		channels = append(channels, ch)
	}
	if cfg.SMTPHost != "" {
		ch, err := alerts.NewEmailChannel(alerts.EmailConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			From:     cfg.SMTPFrom,
			Password: cfg.SMTPPassword,
			To:       cfg.SMTPTo,
		})
		if err != nil {
			return nil, closers, fmt.Errorf("init email channel: %w", err)
		}
		channels = append(channels, ch)
	}
	if len(cfg.KafkaBrokers) > 0 {
		ch, err := alerts.NewKafkaChannel(cfg.KafkaBrokers, cfg.KafkaTopic, nil)
		if err != nil {
			return nil, closers, fmt.Errorf("init kafka channel: %w", err)
		}
		channels = append(channels, ch)
		closers = append(closers, ch.Close)
	}

	return channels, closers, nil
}
