// Package alerts evaluates detection rules against scored transfers and
// fans alert delivery out across independent channels.
package alerts

import (
	"context"
	"time"

	"github.com/stablewatchers/transferwatch-backend/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Channel is one alert-delivery destination. Transport and credentials
	// are the channel's own business.
	Channel interface {
		Name() string
		Send(ctx context.Context, event model.AlertEvent) error
	}

	// AlertStore persists dispatched alerts. Failures are logged, never
	// retried.
	AlertStore interface {
		InsertAlerts(ctx context.Context, events []model.AlertEvent) error
	}

	// RouterMetrics records rule firings and per-channel delivery outcomes.
	RouterMetrics interface {
		ObserveFired(alertType model.AlertType, severity model.Severity)
		ObserveSend(channel string, err error, started time.Time)
	}
)

// SendResult is the outcome of one delivery attempt on one channel.
type SendResult struct {
	Channel string
	Err     error
}
