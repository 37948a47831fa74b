// Package model defines domain models for the transfer monitor.
package model

import (
	"math/big"
	"time"
)

// Transfer is one decoded ERC-20 Transfer event. It is never mutated after
// decoding.
type Transfer struct {
	TxHash      string
	BlockNumber uint64
	LogIndex    uint32
	From        string
	To          string
	Amount      float64  // token units, scaled by the token's decimals
	RawAmount   *big.Int // token base units, kept unscaled for exact comparisons
}

// TxStatus describes the confirmation status of a persisted transfer.
type TxStatus string

var (
	// StatusConfirmed marks a transfer observed in a mined block.
	StatusConfirmed TxStatus = "confirmed"
	// StatusPending marks a transfer not yet confirmed.
	StatusPending TxStatus = "pending"
)

// TransactionRecord is the persisted projection of a Transfer plus
// enrichment and scoring results.
type TransactionRecord struct {
	TxHash       string
	BlockNumber  uint64
	Timestamp    time.Time
	FromAddress  string
	ToAddress    string
	Amount       float64
	GasUsed      uint64
	GasPrice     uint64
	Status       TxStatus
	IsFlagged    bool
	PatternScore float64
}

// GasInfo carries enrichment-sourced gas fields for a transaction.
type GasInfo struct {
	GasUsed  uint64
	GasPrice uint64
}

// StoreStats aggregates counters over the persisted data.
type StoreStats struct {
	TotalTransactions   uint64 `json:"total_transactions"`
	FlaggedTransactions uint64 `json:"flagged_transactions"`
	TotalAlerts         uint64 `json:"total_alerts"`
}
