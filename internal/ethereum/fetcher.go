package ethereum

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/stablewatchers/transferwatch-backend/internal/model"
	"go.uber.org/zap"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// LogSource abstracts the node RPC query the fetcher depends on.
	LogSource interface {
		GetLogs(ctx context.Context, contract, topic0 string, fromBlock, toBlock uint64) ([]Log, error)
	}
)

// Fetcher retrieves Transfer logs for one token contract over a block range
// and decodes them. Malformed logs are skipped and logged, never fatal to
// the batch.
type Fetcher struct {
	logger     *zap.Logger
	source     LogSource
	decoder    *Decoder
	contract   string
	watchAddrs map[string]struct{} // optional from/to filter, lowercased
}

// NewFetcher builds a Fetcher. watchAddrs may be empty to keep every
// transfer.
func NewFetcher(source LogSource, contract string, decimals int, watchAddrs []string, logger *zap.Logger) (*Fetcher, error) {
	if source == nil {
		return nil, errors.New("log source is required")
	}
	if contract == "" {
		return nil, errors.New("token contract address is required")
	}

	filter := make(map[string]struct{}, len(watchAddrs))
	for _, a := range watchAddrs {
		a = strings.ToLower(strings.TrimSpace(a))
		if a != "" {
			filter[a] = struct{}{}
		}
	}

	return &Fetcher{
		logger:     logger,
		source:     source,
		decoder:    NewDecoder(decimals),
		contract:   contract,
		watchAddrs: filter,
	}, nil
}

// Transfers returns decoded transfers for the inclusive range
// [fromBlock, toBlock], ordered by block number then log index.
func (f *Fetcher) Transfers(ctx context.Context, fromBlock, toBlock uint64) ([]model.Transfer, error) {
	logs, err := f.source.GetLogs(ctx, f.contract, TransferTopic, fromBlock, toBlock)
	if err != nil {
		return nil, fmt.Errorf("get logs [%d, %d]: %w", fromBlock, toBlock, err)
	}

	transfers := make([]model.Transfer, 0, len(logs))
	for _, raw := range logs {
		t, err := f.decoder.Decode(raw)
		if err != nil {
			f.logger.Warn("skipping malformed transfer log",
				zap.String("tx_hash", raw.TransactionHash),
				zap.Uint64("from_block", fromBlock),
				zap.Uint64("to_block", toBlock),
				zap.Error(err))
			continue
		}
		if !f.watched(t) {
			continue
		}
		transfers = append(transfers, t)
	}

	sort.Slice(transfers, func(i, j int) bool {
		if transfers[i].BlockNumber != transfers[j].BlockNumber {
			return transfers[i].BlockNumber < transfers[j].BlockNumber
		}
		return transfers[i].LogIndex < transfers[j].LogIndex
	})

	return transfers, nil
}

func (f *Fetcher) watched(t model.Transfer) bool {
	if len(f.watchAddrs) == 0 {
		return true
	}
	if _, ok := f.watchAddrs[strings.ToLower(t.From)]; ok {
		return true
	}
	_, ok := f.watchAddrs[strings.ToLower(t.To)]
	return ok
}
