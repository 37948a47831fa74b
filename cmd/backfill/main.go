// Package main replays a historical block range through the transfer
// pipeline. Chunks are fetched concurrently; scoring and persistence stay
// sequential so the detector sees transfers in chain order.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/stablewatchers/transferwatch-backend/internal/alerts"
	"github.com/stablewatchers/transferwatch-backend/internal/dedup"
	"github.com/stablewatchers/transferwatch-backend/internal/detector"
	"github.com/stablewatchers/transferwatch-backend/internal/ethereum"
	"github.com/stablewatchers/transferwatch-backend/internal/metrics"
	"github.com/stablewatchers/transferwatch-backend/internal/model"
	"github.com/stablewatchers/transferwatch-backend/internal/repository/clickhouse"
	"github.com/stablewatchers/transferwatch-backend/internal/service"
	"github.com/stablewatchers/transferwatch-backend/pkg/batcher"
	"github.com/stablewatchers/transferwatch-backend/pkg/workerpool"
	"go.uber.org/zap"
)

type config struct {
	RPCURL        string   `long:"rpc-url" env:"BACKFILL_RPC_URL" description:"EVM node JSON-RPC URL" default:"https://mainnet.base.org"`
	Network       string   `long:"network" env:"BACKFILL_NETWORK" description:"network label for metrics" default:"base"`
	TokenContract string   `long:"token-contract" env:"BACKFILL_TOKEN_CONTRACT" description:"ERC-20 token contract address" required:"true"`
	TokenDecimals int      `long:"token-decimals" env:"BACKFILL_TOKEN_DECIMALS" description:"token decimal count" default:"6"`
	WatchAddrs    []string `long:"watch-addr" env:"BACKFILL_WATCH_ADDRS" env-delim:"," description:"optional from/to address filter"`

	FromBlock uint64 `long:"from-block" env:"BACKFILL_FROM_BLOCK" description:"first block of the range" required:"true"`
	ToBlock   uint64 `long:"to-block" env:"BACKFILL_TO_BLOCK" description:"last block of the range" required:"true"`
	ChunkSize uint64 `long:"chunk-size" env:"BACKFILL_CHUNK_SIZE" description:"blocks per log query" default:"1000"`
	Workers   int    `long:"workers" env:"BACKFILL_WORKERS" description:"concurrent chunk fetchers" default:"4"`

	ClickhouseDSN string        `long:"clickhouse-dsn" env:"BACKFILL_CLICKHOUSE_DSN" description:"ClickHouse DSN" required:"true"`
	DedupCapacity int           `long:"dedup-capacity" env:"BACKFILL_DEDUP_CAPACITY" description:"seen-hash window size" default:"1000000"`
	WarmupLimit   uint64        `long:"warmup-limit" env:"BACKFILL_WARMUP_LIMIT" description:"hashes to preload into the dedup window" default:"1000000"`
	FlushSize     int           `long:"flush-size" env:"BACKFILL_FLUSH_SIZE" description:"transfer insert batch size" default:"1000"`
	FlushInterval time.Duration `long:"flush-interval" env:"BACKFILL_FLUSH_INTERVAL" description:"transfer insert flush interval" default:"2s"`
	FlushRPS      int           `long:"flush-rps" env:"BACKFILL_FLUSH_RPS" description:"max insert batches per second" default:"20"`

	DetectorWindow     int     `long:"detector-window" env:"BACKFILL_DETECTOR_WINDOW" description:"rolling history length" default:"100"`
	DeviationThreshold float64 `long:"deviation-threshold" env:"BACKFILL_DEVIATION_THRESHOLD" description:"z-score mapped to full statistical score" default:"3"`
	AnomalyThreshold   float64 `long:"anomaly-threshold" env:"BACKFILL_ANOMALY_THRESHOLD" description:"pattern score flag threshold" default:"0.85"`
	TargetAmount       float64 `long:"target-amount" env:"BACKFILL_TARGET_AMOUNT" description:"amount the target rule watches for" default:"100"`
	LargeAmount        float64 `long:"large-amount" env:"BACKFILL_LARGE_AMOUNT" description:"large transfer rule threshold" default:"10000"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if cfg.FromBlock > cfg.ToBlock {
		logger.Fatal("from-block must not exceed to-block",
			zap.Uint64("from_block", cfg.FromBlock),
			zap.Uint64("to_block", cfg.ToBlock))
	}

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("backfill failed", zap.Error(err))
	}
}

type chunk struct {
	index     int
	fromBlock uint64
	toBlock   uint64
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	repo, err := clickhouse.NewRepository(cfg.ClickhouseDSN, metrics.NewRepository())
	if err != nil {
		return fmt.Errorf("init repository: %w", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("close repository", zap.Error(err))
		}
	}()

	rpc := ethereum.NewRPCClient(cfg.RPCURL, metrics.NewRPCClient(cfg.Network))
	fetcher, err := ethereum.NewFetcher(rpc, cfg.TokenContract, cfg.TokenDecimals, cfg.WatchAddrs, logger.Named("fetcher"))
	if err != nil {
		return fmt.Errorf("init fetcher: %w", err)
	}

	tracker := dedup.NewTracker(cfg.DedupCapacity)
	if cfg.WarmupLimit > 0 {
		hashes, err := repo.SeenTransactionHashes(ctx, cfg.WarmupLimit)
		if err != nil {
			logger.Warn("dedup warmup query failed, starting with an empty window", zap.Error(err))
		} else {
			for _, h := range hashes {
				tracker.Mark(h)
			}
			logger.Info("dedup window warmed", zap.Int("hashes", tracker.Len()))
		}
	}

	det := detector.New(detector.Config{
		Window:             cfg.DetectorWindow,
		DeviationThreshold: cfg.DeviationThreshold,
	}, logger.Named("detector"))

	// No delivery channels during a replay: fired alerts are persisted for
	// the API but nothing is notified about historical transfers.
	router := alerts.NewRouter(alerts.RouterConfig{
		TargetAmount:     cfg.TargetAmount,
		AnomalyThreshold: cfg.AnomalyThreshold,
		LargeAmount:      cfg.LargeAmount,
	}, nil, repo, metrics.NewAlertRouter(), logger.Named("alerts"))

	sink := batcher.New(logger.Named("batcher"), repo.InsertTransactions, cfg.FlushSize, cfg.FlushInterval, cfg.FlushRPS)
	sink.Start(ctx)
	defer sink.Stop()

	monitor, err := service.NewMonitor(
		service.MonitorConfig{
			AnomalyThreshold: cfg.AnomalyThreshold,
			TargetAmount:     cfg.TargetAmount,
		},
		rpc,
		fetcher,
		tracker,
		det,
		nil,
		sink,
		router,
		metrics.NewMonitor(),
		logger.Named("monitor"),
	)
	if err != nil {
		return fmt.Errorf("init monitor: %w", err)
	}

	chunks := splitRange(cfg.FromBlock, cfg.ToBlock, cfg.ChunkSize)
	logger.Info("backfill starting",
		zap.Uint64("from_block", cfg.FromBlock),
		zap.Uint64("to_block", cfg.ToBlock),
		zap.Int("chunks", len(chunks)),
		zap.Int("workers", cfg.Workers))

	// Fetch chunks concurrently; each worker owns its own result slot.
	fetched := make([][]model.Transfer, len(chunks))
	var fetchedCount atomic.Int64
	err = workerpool.Process(ctx, cfg.Workers, chunks, func(ctx context.Context, c chunk) error {
		transfers, err := fetcher.Transfers(ctx, c.fromBlock, c.toBlock)
		if err != nil {
			return fmt.Errorf("fetch chunk [%d, %d]: %w", c.fromBlock, c.toBlock, err)
		}
		fetched[c.index] = transfers
		fetchedCount.Add(int64(len(transfers)))
		return nil
	}, nil)
	if err != nil {
		return fmt.Errorf("fetch block range: %w", err)
	}
	logger.Info("block range fetched", zap.Int64("transfers", fetchedCount.Load()))

	for _, transfers := range fetched {
		if err := ctx.Err(); err != nil {
			return err
		}
		monitor.ProcessTransfers(ctx, transfers)
	}

	logger.Info("backfill finished",
		zap.Uint64("from_block", cfg.FromBlock),
		zap.Uint64("to_block", cfg.ToBlock))
	return nil
}

func splitRange(fromBlock, toBlock, chunkSize uint64) []chunk {
	if chunkSize == 0 {
		chunkSize = 1
	}
	var chunks []chunk
	for start := fromBlock; start <= toBlock; start += chunkSize {
		end := start + chunkSize - 1
		if end > toBlock {
			end = toBlock
		}
		chunks = append(chunks, chunk{index: len(chunks), fromBlock: start, toBlock: end})
		if end == toBlock {
			break
		}
	}
	return chunks
}
