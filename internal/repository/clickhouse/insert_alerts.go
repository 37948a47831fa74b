package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/stablewatchers/transferwatch-backend/internal/model"
)

// InsertAlerts stores dispatched alert events.
func (r *Repository) InsertAlerts(ctx context.Context, events []model.AlertEvent) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_alerts", err, start)
	}()

	if len(events) == 0 {
		return nil
	}

	const query = `
INSERT INTO alerts (
	transaction_id,
	alert_type,
	severity,
	message,
	sent_at
) VALUES`

	batch, err := r.conn.PrepareBatch(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare alerts batch: %w", err)
	}

	for _, ev := range events {
		if err = batch.Append(
			ev.TxHash,
			string(ev.Type),
			string(ev.Severity),
			ev.Message,
			ev.SentAt,
		); err != nil {
			return fmt.Errorf("append alert: %w", err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert alerts: %w", err)
	}
	return nil
}
