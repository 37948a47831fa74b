package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/stablewatchers/transferwatch-backend/internal/model"
)

// Stats returns aggregate counters over the stored data.
func (r *Repository) Stats(ctx context.Context) (model.StoreStats, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("stats", err, start)
	}()

	const query = `
SELECT
	(SELECT uniqExact(tx_hash) FROM transfers)            AS total_transactions,
	(SELECT uniqExactIf(tx_hash, is_flagged = 1) FROM transfers) AS flagged_transactions,
	(SELECT count() FROM alerts)                          AS total_alerts`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return model.StoreStats{}, fmt.Errorf("query stats: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	if !rows.Next() {
		err = fmt.Errorf("stats query returned no rows")
		return model.StoreStats{}, err
	}

	var stats model.StoreStats
	if err = rows.Scan(&stats.TotalTransactions, &stats.FlaggedTransactions, &stats.TotalAlerts); err != nil {
		return model.StoreStats{}, fmt.Errorf("scan stats: %w", err)
	}
	if err = rows.Err(); err != nil {
		return model.StoreStats{}, fmt.Errorf("iterate stats: %w", err)
	}
	return stats, nil
}
