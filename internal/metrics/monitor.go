package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	monitorTicksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "transferwatch",
		Subsystem: "monitor",
		Name:      "ticks_total",
		Help:      "Count of monitor poll ticks.",
	}, []string{"status"})
	monitorTickDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "transferwatch",
		Subsystem: "monitor",
		Name:      "tick_duration_seconds",
		Help:      "Duration of monitor poll ticks.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"})
	monitorTransfersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "transferwatch",
		Subsystem: "monitor",
		Name:      "transfers_total",
		Help:      "Count of transfers routed through the pipeline.",
	}, []string{"outcome"})
	monitorLastBlock = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "transferwatch",
		Subsystem: "monitor",
		Name:      "last_block",
		Help:      "Highest block the monitor has processed.",
	})
	monitorPatternScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "transferwatch",
		Subsystem: "monitor",
		Name:      "pattern_score",
		Help:      "Distribution of composite anomaly scores.",
		Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
	})
)

// Transfer outcomes recorded against transfers_total.
const (
	TransferProcessed = "processed"
	TransferDuplicate = "duplicate"
)

// Monitor tracks metrics for the polling loop.
type Monitor struct{}

// NewMonitor constructs a metrics collector for the monitor loop.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// ObserveTick records one poll iteration.
func (m Monitor) ObserveTick(err error, started time.Time) {
	status := statusLabel(err)
	monitorTicksTotal.WithLabelValues(status).Inc()
	monitorTickDuration.WithLabelValues(status).Observe(time.Since(started).Seconds())
}

// ObserveTransfer records one transfer outcome and, when processed, its
// anomaly score.
func (m Monitor) ObserveTransfer(outcome string, patternScore float64) {
	monitorTransfersTotal.WithLabelValues(outcome).Inc()
	if outcome == TransferProcessed {
		monitorPatternScore.Observe(patternScore)
	}
}

// SetLastBlock publishes the monitor's processed-block high-water mark.
func (m Monitor) SetLastBlock(block uint64) {
	monitorLastBlock.Set(float64(block))
}
