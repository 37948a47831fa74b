package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/stablewatchers/transferwatch-backend/internal/model"
)

// TransactionsByAddress returns records where the address appears as sender
// or receiver, newest first.
func (r *Repository) TransactionsByAddress(ctx context.Context, address string, limit uint64) ([]model.TransactionRecord, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("transactions_by_address", err, start)
	}()

	const query = `
SELECT tx_hash, block_number, timestamp, from_address, to_address, amount,
	gas_used, gas_price, status, is_flagged, pattern_score
FROM transfers FINAL
WHERE from_address = ? OR to_address = ?
ORDER BY timestamp DESC
LIMIT ?`

	rows, err := r.conn.Query(ctx, query, address, address, limit)
	if err != nil {
		return nil, fmt.Errorf("query transactions by address: %w", err)
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
		return nil, fmt.Errorf("iterate transactions by address: %w", err)
	}
	return records, nil
}
