// Package service hosts the monitor loop driving the
// ingestion-to-alert pipeline.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/stablewatchers/transferwatch-backend/internal/clock"
	"github.com/stablewatchers/transferwatch-backend/internal/metrics"
	"github.com/stablewatchers/transferwatch-backend/internal/model"
	"go.uber.org/zap"
)

// State is the monitor lifecycle phase.
type State int32

const (
	StateInitializing State = iota
	StateRunning
	StateStopping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// MonitorConfig tunes the polling loop.
type MonitorConfig struct {
	// PollInterval is the fixed delay between ticks.
	PollInterval time.Duration
	// AnomalyThreshold flags a record when its pattern score exceeds it.
	AnomalyThreshold float64
	// TargetAmount flags transfers landing within TargetTolerance of it.
	TargetAmount    float64
	TargetTolerance float64
}

// DefaultMonitorConfig returns the tuning the monitor ships with.
func DefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		PollInterval:     12 * time.Second,
		AnomalyThreshold: 0.85,
		TargetAmount:     100,
		TargetTolerance:  0.01,
	}
}

// Monitor polls for new blocks and drives each transfer through
// decode → dedup → enrich → score → persist → alert. One tick is active at
// a time; shutdown is observed between ticks.
type Monitor struct {
	logger  *zap.Logger
	cfg     MonitorConfig
	chain   ChainClient
	source  TransferSource
	dedup   Deduper
	scorer  Scorer
	enrich  Enricher // nil disables enrichment
	sink    TransactionSink
	router  AlertRouter
	metrics MonitorMetrics

	sleep func(context.Context, time.Duration) error
	now   func() time.Time

	state     atomic.Int32
	lastBlock uint64
}

// NewMonitor wires the pipeline. enrich may be nil.
func NewMonitor(
	cfg MonitorConfig,
	chain ChainClient,
	source TransferSource,
	dedup Deduper,
	scorer Scorer,
	enrich Enricher,
	sink TransactionSink,
	router AlertRouter,
	monitorMetrics MonitorMetrics,
	logger *zap.Logger,
) (*Monitor, error) {
	if chain == nil || source == nil || dedup == nil || scorer == nil || sink == nil || router == nil {
		return nil, errors.New("monitor is missing a required collaborator")
	}
	if monitorMetrics == nil {
		return nil, errors.New("monitor metrics is required")
	}

	def := DefaultMonitorConfig()
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = def.PollInterval
	}
	if cfg.AnomalyThreshold <= 0 {
		cfg.AnomalyThreshold = def.AnomalyThreshold
	}
	if cfg.TargetAmount <= 0 {
		cfg.TargetAmount = def.TargetAmount
	}
	if cfg.TargetTolerance <= 0 {
		cfg.TargetTolerance = def.TargetTolerance
	}

	m := &Monitor{
		logger:  logger,
		cfg:     cfg,
		chain:   chain,
		source:  source,
		dedup:   dedup,
		scorer:  scorer,
		enrich:  enrich,
		sink:    sink,
		router:  router,
		metrics: monitorMetrics,
		sleep:   clock.SleepWithContext,
		now:     time.Now,
	}
	m.state.Store(int32(StateInitializing))
	return m, nil
}

// State returns the current lifecycle phase.
func (m *Monitor) State() State {
	return State(m.state.Load())
}

// LastBlock returns the processed-block high-water mark.
func (m *Monitor) LastBlock() uint64 {
	return atomic.LoadUint64(&m.lastBlock)
}

// Run resolves the chain head and polls until the context is canceled.
// Failure to resolve the initial head is the only fatal error; every tick
// error after that is logged and retried on the next interval.
func (m *Monitor) Run(ctx context.Context) error {
	head, err := m.chain.BlockNumber(ctx)
	if err != nil {
		m.state.Store(int32(StateStopped))
		return fmt.Errorf("resolve initial chain head: %w", err)
	}
	atomic.StoreUint64(&m.lastBlock, head)
	m.metrics.SetLastBlock(head)
	m.state.Store(int32(StateRunning))
	m.logger.Info("monitor running",
		zap.Uint64("start_block", head),
		zap.Duration("poll_interval", m.cfg.PollInterval))

	defer m.state.Store(int32(StateStopped))

	for {
		if ctx.Err() != nil {
			m.state.Store(int32(StateStopping))
			m.logger.Info("monitor stopping", zap.Uint64("last_block", m.LastBlock()))
			return ctx.Err()
		}

		started := time.Now()
		if err := m.tick(ctx); err != nil {
			m.metrics.ObserveTick(err, started)
			m.logger.Error("tick failed, retrying next interval",
				zap.Uint64("last_block", m.LastBlock()),
				zap.Error(err))
		} else {
			m.metrics.ObserveTick(nil, started)
		}

		if err := m.sleep(ctx, m.cfg.PollInterval); err != nil {
			m.state.Store(int32(StateStopping))
			m.logger.Info("monitor stopping", zap.Uint64("last_block", m.LastBlock()))
			return err
		}
	}
}

// tick processes every block the head has advanced past since the previous
// tick.
func (m *Monitor) tick(ctx context.Context) error {
	head, err := m.chain.BlockNumber(ctx)
	if err != nil {
		return fmt.Errorf("query chain head: %w", err)
	}

	last := m.LastBlock()
	if head <= last {
		return nil
	}

	if err := m.ProcessRange(ctx, last+1, head); err != nil {
		return err
	}

	atomic.StoreUint64(&m.lastBlock, head)
	m.metrics.SetLastBlock(head)
	return nil
}

// ProcessRange pushes every transfer in the inclusive range through the
// pipeline. Shared with backfill tooling; replaying a range is a no-op for
// transfers still resident in the dedup window.
func (m *Monitor) ProcessRange(ctx context.Context, fromBlock, toBlock uint64) error {
	transfers, err := m.source.Transfers(ctx, fromBlock, toBlock)
	if err != nil {
		return fmt.Errorf("fetch transfers [%d, %d]: %w", fromBlock, toBlock, err)
	}

	m.logger.Info("processing block range",
		zap.Uint64("from_block", fromBlock),
		zap.Uint64("to_block", toBlock),
		zap.Int("transfers", len(transfers)))

	m.ProcessTransfers(ctx, transfers)
	return nil
}

// ProcessTransfers runs the per-transfer pipeline in order. Transfers are
// independent: a failure on one is logged and the rest continue.
func (m *Monitor) ProcessTransfers(ctx context.Context, transfers []model.Transfer) {
	for i := range transfers {
		m.processTransfer(ctx, &transfers[i])
	}
}

func (m *Monitor) processTransfer(ctx context.Context, t *model.Transfer) {
	if !m.dedup.IsNew(t.TxHash) {
		m.metrics.ObserveTransfer(metrics.TransferDuplicate, 0)
		m.logger.Debug("skipping duplicate transfer", zap.String("tx_hash", t.TxHash))
		return
	}

	rec := model.TransactionRecord{
		TxHash:      t.TxHash,
		BlockNumber: t.BlockNumber,
		Timestamp:   m.now(),
		FromAddress: t.From,
		ToAddress:   t.To,
		Amount:      t.Amount,
		Status:      model.StatusConfirmed,
		IsFlagged:   m.isTargetAmount(t.Amount),
	}

	if m.enrich != nil {
		info, err := m.enrich.TransactionDetails(ctx, t.TxHash)
		if err != nil {
			m.logger.Warn("enrichment lookup failed, continuing without gas fields",
				zap.String("tx_hash", t.TxHash), zap.Error(err))
		} else {
			rec.GasUsed = info.GasUsed
			rec.GasPrice = info.GasPrice
		}
	}

	rec.PatternScore = m.scorer.Score(&rec)
	if rec.PatternScore > m.cfg.AnomalyThreshold {
		rec.IsFlagged = true
	}

	if err := m.sink.Add(ctx, rec); err != nil {
		m.logger.Error("persist transfer failed, continuing",
			zap.String("tx_hash", rec.TxHash),
			zap.Uint64("block_number", rec.BlockNumber),
			zap.Error(err))
	}

	m.router.Fire(ctx, &rec)
	m.metrics.ObserveTransfer(metrics.TransferProcessed, rec.PatternScore)
}

func (m *Monitor) isTargetAmount(amount float64) bool {
	diff := amount - m.cfg.TargetAmount
	if diff < 0 {
		diff = -diff
	}
	return diff < m.cfg.TargetTolerance
}
