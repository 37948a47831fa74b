package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	repositoryQueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "transferwatch",
		Subsystem: "repository",
		Name:      "operations_total",
		Help:      "Count of ClickHouse operations.",
	}, []string{"operation", "status"})
	repositoryQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "transferwatch",
		Subsystem: "repository",
		Name:      "operation_duration_seconds",
		Help:      "Duration of ClickHouse operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "status"})
)

// Repository tracks metrics for store queries.
type Repository struct{}

// NewRepository constructs a metrics collector for the store.
func NewRepository() *Repository {
	return &Repository{}
}

// Observe records a single query outcome and duration.
func (m Repository) Observe(operation string, err error, started time.Time) {
	status := statusLabel(err)
	repositoryQueriesTotal.WithLabelValues(operation, status).Inc()
	repositoryQueryDuration.WithLabelValues(operation, status).Observe(time.Since(started).Seconds())
}
