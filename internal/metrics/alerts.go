package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/stablewatchers/transferwatch-backend/internal/model"
)

var (
	alertsFiredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "transferwatch",
		Subsystem: "alerts",
		Name:      "fired_total",
		Help:      "Count of alert rules fired.",
	}, []string{"type", "severity"})
	alertSendsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "transferwatch",
		Subsystem: "alerts",
		Name:      "sends_total",
		Help:      "Count of per-channel delivery attempts.",
	}, []string{"channel", "status"})
	alertSendDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "transferwatch",
		Subsystem: "alerts",
		Name:      "send_duration_seconds",
		Help:      "Duration of per-channel delivery attempts.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"channel", "status"})
)

// AlertRouter tracks rule firings and channel delivery outcomes.
type AlertRouter struct{}

// NewAlertRouter constructs a metrics collector for the alert router.
func NewAlertRouter() *AlertRouter {
	return &AlertRouter{}
}

// ObserveFired records one fired rule.
func (m AlertRouter) ObserveFired(alertType model.AlertType, severity model.Severity) {
	alertsFiredTotal.WithLabelValues(string(alertType), string(severity)).Inc()
}

// ObserveSend records one delivery attempt on one channel.
func (m AlertRouter) ObserveSend(channel string, err error, started time.Time) {
	status := statusLabel(err)
	alertSendsTotal.WithLabelValues(channel, status).Inc()
	alertSendDuration.WithLabelValues(channel, status).Observe(time.Since(started).Seconds())
}
