package clickhouse

import (
	"context"
	"fmt"
	"time"
)

// SeenTransactionHashes returns the hashes of the most recently stored
// transfers, oldest of the slice first. Used to warm the in-memory dedup
// window after a restart so already-alerted transfers are not replayed.
func (r *Repository) SeenTransactionHashes(ctx context.Context, limit uint64) ([]string, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("seen_transaction_hashes", err, start)
	}()

	const query = `
SELECT tx_hash
FROM (
	SELECT tx_hash, max(timestamp) AS ts
	FROM transfers
	GROUP BY tx_hash
	ORDER BY ts DESC
	LIMIT ?
)
ORDER BY ts ASC`

	rows, err := r.conn.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query seen transaction hashes: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	var hashes []string
	for rows.Next() {
		var h string
		if err = rows.Scan(&h); err != nil {
			return nil, fmt.Errorf("scan transaction hash: %w", err)
		}
		hashes = append(hashes, h)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate seen transaction hashes: %w", err)
	}
	return hashes, nil
}
