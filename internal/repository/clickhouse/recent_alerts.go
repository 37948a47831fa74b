package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/stablewatchers/transferwatch-backend/internal/model"
)

// RecentAlerts returns the newest alert events, newest first.
func (r *Repository) RecentAlerts(ctx context.Context, limit uint64) ([]model.AlertEvent, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("recent_alerts", err, start)
	}()

	const query = `
SELECT transaction_id, alert_type, severity, message, sent_at
FROM alerts
ORDER BY sent_at DESC
LIMIT ?`

	rows, err := r.conn.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent alerts: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	var events []model.AlertEvent
	for rows.Next() {
		var (
			ev       model.AlertEvent
			typ      string
			severity string
		)
		if err = rows.Scan(&ev.TxHash, &typ, &severity, &ev.Message, &ev.SentAt); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		ev.Type = model.AlertType(typ)
		ev.Severity = model.Severity(severity)
		events = append(events, ev)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recent alerts: %w", err)
	}
	return events, nil
}
