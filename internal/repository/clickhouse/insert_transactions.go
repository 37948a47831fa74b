package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/stablewatchers/transferwatch-backend/internal/model"
)

// InsertTransactions stores transfer records. The transfers table is a
// ReplacingMergeTree keyed by tx_hash, so replaying a range collapses to
// one row per transaction.
func (r *Repository) InsertTransactions(ctx context.Context, records []model.TransactionRecord) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_transactions", err, start)
	}()

	if len(records) == 0 {
		return nil
	}

	const query = `
INSERT INTO transfers (
	tx_hash,
	block_number,
	timestamp,
	from_address,
	to_address,
	amount,
	gas_used,
	gas_price,
	status,
	is_flagged,
	pattern_score
) VALUES`

	batch, err := r.conn.PrepareBatch(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare transfers batch: %w", err)
	}

	for _, rec := range records {
		if err = batch.Append(
			rec.TxHash,
			rec.BlockNumber,
			rec.Timestamp,
			rec.FromAddress,
			rec.ToAddress,
			rec.Amount,
			rec.GasUsed,
			rec.GasPrice,
			string(rec.Status),
			rec.IsFlagged,
			rec.PatternScore,
		); err != nil {
			return fmt.Errorf("append transfer: %w", err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert transfers: %w", err)
	}
	return nil
}
