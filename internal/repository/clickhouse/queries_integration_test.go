package clickhouse

import (
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stablewatchers/transferwatch-backend/internal/model"
)

func (s *RepositorySuite) TestInsertTransactionsDeduplicates() {
	now := time.Now().UTC().Truncate(time.Second)

	s.seedRecords([]model.TransactionRecord{
		newRecord("0x1", 10, 100, false, now),
		newRecord("0x2", 11, 200, true, now.Add(time.Second)),
	})
	// Same hash again: ReplacingMergeTree keyed by tx_hash collapses it.
	s.seedRecords([]model.TransactionRecord{
		newRecord("0x1", 10, 100, false, now),
	})

	s.metrics.EXPECT().Observe("recent_transactions", gomock.Nil(), gomock.Any())
	records, err := s.repo.RecentTransactions(s.testCtx, 10)
	s.Require().NoError(err)
	s.Len(records, 2)
}

func (s *RepositorySuite) TestRecentTransactionsOrder() {
	now := time.Now().UTC().Truncate(time.Second)

	s.seedRecords([]model.TransactionRecord{
		newRecord("0xolder", 10, 100, false, now.Add(-time.Minute)),
		newRecord("0xnewer", 11, 200, false, now),
	})

	s.metrics.EXPECT().Observe("recent_transactions", gomock.Nil(), gomock.Any())
	records, err := s.repo.RecentTransactions(s.testCtx, 1)
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Equal("0xnewer", records[0].TxHash)
}

func (s *RepositorySuite) TestFlaggedTransactions() {
	now := time.Now().UTC().Truncate(time.Second)

	s.seedRecords([]model.TransactionRecord{
		newRecord("0xplain", 10, 100, false, now),
		newRecord("0xflagged", 11, 50000, true, now),
	})

	s.metrics.EXPECT().Observe("flagged_transactions", gomock.Nil(), gomock.Any())
	records, err := s.repo.FlaggedTransactions(s.testCtx, 10)
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Equal("0xflagged", records[0].TxHash)
	s.True(records[0].IsFlagged)
}

func (s *RepositorySuite) TestTransactionsByAddress() {
	now := time.Now().UTC().Truncate(time.Second)
	rec := newRecord("0xmatch", 10, 100, false, now)
	rec.FromAddress = "0xwatched"
	other := newRecord("0xother", 11, 200, false, now)

	s.seedRecords([]model.TransactionRecord{rec, other})

	s.metrics.EXPECT().Observe("transactions_by_address", gomock.Nil(), gomock.Any())
	records, err := s.repo.TransactionsByAddress(s.testCtx, "0xwatched", 10)
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Equal("0xmatch", records[0].TxHash)
}

func (s *RepositorySuite) TestTransactionByHash() {
	now := time.Now().UTC().Truncate(time.Second)
	rec := newRecord("0xtarget", 42, 123.45, true, now)

	s.seedRecords([]model.TransactionRecord{rec})

	s.metrics.EXPECT().Observe("transaction_by_hash", gomock.Nil(), gomock.Any()).Times(2)

	got, err := s.repo.TransactionByHash(s.testCtx, "0xtarget")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(rec.TxHash, got.TxHash)
	s.Equal(rec.BlockNumber, got.BlockNumber)
	s.Equal(rec.Amount, got.Amount)
	s.Equal(rec.IsFlagged, got.IsFlagged)

	missing, err := s.repo.TransactionByHash(s.testCtx, "0xunknown")
	s.Require().NoError(err)
	s.Nil(missing)
}

func (s *RepositorySuite) TestSeenTransactionHashes() {
	now := time.Now().UTC().Truncate(time.Second)

	s.seedRecords([]model.TransactionRecord{
		newRecord("0xfirst", 10, 100, false, now.Add(-2*time.Minute)),
		newRecord("0xsecond", 11, 200, false, now.Add(-time.Minute)),
		newRecord("0xthird", 12, 300, false, now),
	})

	s.metrics.EXPECT().Observe("seen_transaction_hashes", gomock.Nil(), gomock.Any())
	hashes, err := s.repo.SeenTransactionHashes(s.testCtx, 2)
	s.Require().NoError(err)
	// Two newest, oldest of them first.
	s.Equal([]string{"0xsecond", "0xthird"}, hashes)
}

func (s *RepositorySuite) TestInsertAndQueryAlerts() {
	now := time.Now().UTC().Truncate(time.Second)

	s.seedAlerts([]model.AlertEvent{
		{
			Type:     model.AlertTargetAmount,
			Severity: model.SeverityHigh,
			Message:  "older alert",
			TxHash:   "0x1",
			SentAt:   now.Add(-time.Minute),
		},
		{
			Type:     model.AlertLargeTransfer,
			Severity: model.SeverityHigh,
			Message:  "newer alert",
			TxHash:   "0x2",
			SentAt:   now,
		},
	})

	s.metrics.EXPECT().Observe("recent_alerts", gomock.Nil(), gomock.Any())
	events, err := s.repo.RecentAlerts(s.testCtx, 1)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal("newer alert", events[0].Message)
	s.Equal(model.AlertLargeTransfer, events[0].Type)
}

func (s *RepositorySuite) TestStats() {
	now := time.Now().UTC().Truncate(time.Second)

	s.seedRecords([]model.TransactionRecord{
		newRecord("0x1", 10, 100, true, now),
		newRecord("0x2", 11, 200, false, now),
	})
	s.seedAlerts([]model.AlertEvent{
		{Type: model.AlertTargetAmount, Severity: model.SeverityHigh, Message: "m", TxHash: "0x1", SentAt: now},
	})

	s.metrics.EXPECT().Observe("stats", gomock.Nil(), gomock.Any())
	stats, err := s.repo.Stats(s.testCtx)
	s.Require().NoError(err)
	s.Equal(model.StoreStats{
		TotalTransactions:   2,
		FlaggedTransactions: 1,
		TotalAlerts:         1,
	}, stats)
}
