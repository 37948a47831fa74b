package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	enrichmentRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "transferwatch",
		Subsystem: "enrichment",
		Name:      "operations_total",
		Help:      "Count of explorer API operations.",
	}, []string{"operation", "status"})
	enrichmentRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "transferwatch",
		Subsystem: "enrichment",
		Name:      "operation_duration_seconds",
		Help:      "Duration of explorer API operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "status"})
)

// Enrichment tracks metrics for explorer API lookups.
type Enrichment struct{}

// NewEnrichment constructs a metrics collector for the enrichment client.
func NewEnrichment() *Enrichment {
	return &Enrichment{}
}

// Observe records a single explorer API call outcome and duration.
func (m Enrichment) Observe(operation string, err error, started time.Time) {
	status := statusLabel(err)
	enrichmentRequestsTotal.WithLabelValues(operation, status).Inc()
	enrichmentRequestDuration.WithLabelValues(operation, status).Observe(time.Since(started).Seconds())
}
