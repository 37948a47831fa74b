package service

import (
	"context"
	"time"

	"github.com/stablewatchers/transferwatch-backend/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// ChainClient resolves the current chain head.
	ChainClient interface {
		BlockNumber(ctx context.Context) (uint64, error)
	}

	// TransferSource retrieves decoded transfers over an inclusive block
	// range.
	TransferSource interface {
		Transfers(ctx context.Context, fromBlock, toBlock uint64) ([]model.Transfer, error)
	}

	// Deduper classifies transaction hashes as new or already processed.
	Deduper interface {
		IsNew(txHash string) bool
	}

	// Scorer computes a composite anomaly score and owns the rolling state
	// it needs.
	Scorer interface {
		Score(rec *model.TransactionRecord) float64
	}

	// Enricher backfills gas fields from an explorer API. Optional.
	Enricher interface {
		TransactionDetails(ctx context.Context, txHash string) (model.GasInfo, error)
	}

	// TransactionSink accepts records for persistence. Failures are logged
	// by the monitor and never stop the pipeline.
	TransactionSink interface {
		Add(ctx context.Context, rec model.TransactionRecord) error
	}

	// AlertRouter evaluates rules and dispatches fired alerts.
	AlertRouter interface {
		Fire(ctx context.Context, rec *model.TransactionRecord)
	}

	// MonitorMetrics records tick and transfer outcomes.
	MonitorMetrics interface {
		ObserveTick(err error, started time.Time)
		ObserveTransfer(outcome string, patternScore float64)
		SetLastBlock(block uint64)
	}
)
