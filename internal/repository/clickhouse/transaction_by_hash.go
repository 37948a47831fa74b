package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/stablewatchers/transferwatch-backend/internal/model"
)

// TransactionByHash returns the stored record for a transaction hash, or
// (nil, nil) when unknown.
func (r *Repository) TransactionByHash(ctx context.Context, txHash string) (*model.TransactionRecord, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("transaction_by_hash", err, start)
	}()

	const query = `
SELECT tx_hash, block_number, timestamp, from_address, to_address, amount,
	gas_used, gas_price, status, is_flagged, pattern_score
FROM transfers FINAL
WHERE tx_hash = ?
LIMIT 1`

	rows, err := r.conn.Query(ctx, query, txHash)
	if err != nil {
		return nil, fmt.Errorf("query transaction by hash: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return nil, fmt.Errorf("iterate transaction by hash: %w", err)
		}
		return nil, nil
	}

	rec, err := scanRecord(rows)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

type recordScanner interface {
	Scan(dest ...any) error
}

func scanRecord(rows recordScanner) (*model.TransactionRecord, error) {
	var (
		rec    model.TransactionRecord
		status string
	)
	if err := rows.Scan(
		&rec.TxHash,
		&rec.BlockNumber,
		&rec.Timestamp,
		&rec.FromAddress,
		&rec.ToAddress,
		&rec.Amount,
		&rec.GasUsed,
		&rec.GasPrice,
		&status,
		&rec.IsFlagged,
		&rec.PatternScore,
	); err != nil {
		return nil, fmt.Errorf("scan transfer record: %w", err)
	}
	rec.Status = model.TxStatus(status)
	return &rec, nil
}
