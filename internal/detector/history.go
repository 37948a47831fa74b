package detector

import (
	"time"

	"github.com/stablewatchers/transferwatch-backend/internal/model"
)

// recentStatsSize bounds the per-address amount/timestamp sequences used by
// the frequency and timing heuristics.
const recentStatsSize = 10

type historyEntry struct {
	amount    float64
	timestamp time.Time
}

// addressStats is the rolling per-address aggregate, mutated on every
// transfer touching the address as sender or receiver.
type addressStats struct {
	count      int
	amounts    []float64
	timestamps []time.Time
}

func (s *addressStats) observe(amount float64, ts time.Time) {
	s.count++
	s.amounts = append(s.amounts, amount)
	s.timestamps = append(s.timestamps, ts)
	if len(s.amounts) > recentStatsSize {
		s.amounts = s.amounts[len(s.amounts)-recentStatsSize:]
	}
	if len(s.timestamps) > recentStatsSize {
		s.timestamps = s.timestamps[len(s.timestamps)-recentStatsSize:]
	}
}

// observe appends the record to the rolling history and both endpoint
// aggregates. The history grows to twice the window, then is truncated back
// to the window.
func (d *Detector) observe(rec *model.TransactionRecord) {
	d.history = append(d.history, historyEntry{amount: rec.Amount, timestamp: rec.Timestamp})
	if len(d.history) > d.window*2 {
		d.history = d.history[len(d.history)-d.window:]
	}

	for _, addr := range []string{rec.FromAddress, rec.ToAddress} {
		if addr == "" {
			continue
		}
		stats, ok := d.addresses[addr]
		if !ok {
			stats = &addressStats{}
			d.addresses[addr] = stats
		}
		stats.observe(rec.Amount, rec.Timestamp)
	}
}
