package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/stablewatchers/transferwatch-backend/internal/model"
)

// RecentTransactions returns the newest stored records, newest first.
func (r *Repository) RecentTransactions(ctx context.Context, limit uint64) ([]model.TransactionRecord, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("recent_transactions", err, start)
	}()

	const query = `
SELECT tx_hash, block_number, timestamp, from_address, to_address, amount,
	gas_used, gas_price, status, is_flagged, pattern_score
FROM transfers FINAL
ORDER BY timestamp DESC
LIMIT ?`

	rows, err := r.conn.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent transactions: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	var records []model.TransactionRecord
	for rows.Next() {
		rec, scanErr := scanRecord(rows)
		if scanErr != nil {
			err = scanErr
			return nil, err
		}
		records = append(records, *rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recent transactions: %w", err)
	}
	return records, nil
}
