package alerts

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/stablewatchers/transferwatch-backend/internal/model"
	"go.uber.org/zap"
)

// RouterConfig tunes rule thresholds and dispatch behavior.
type RouterConfig struct {
	// TargetAmount fires the target-amount rule when a transfer lands
	// within TargetTolerance of it.
	TargetAmount    float64
	TargetTolerance float64
	// AnomalyThreshold gates the pattern-anomaly rule.
	AnomalyThreshold float64
	// LargeAmount gates the large-transfer rule.
	LargeAmount float64
	// SendTimeout bounds each channel's delivery attempt.
	SendTimeout time.Duration
}

// DefaultRouterConfig returns the rule tuning the router ships with.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		TargetAmount:     100,
		TargetTolerance:  0.01,
		AnomalyThreshold: 0.85,
		LargeAmount:      10000,
		SendTimeout:      10 * time.Second,
	}
}

// Router evaluates alert rules per transfer and dispatches fired alerts
// across every enabled channel concurrently. One channel's failure never
// reaches its siblings or the caller.
type Router struct {
	logger   *zap.Logger
	cfg      RouterConfig
	channels []Channel
	store    AlertStore
	metrics  RouterMetrics
	now      func() time.Time
}

// NewRouter builds a Router over the enabled channel set. The store may be
// nil when alert persistence is not configured.
func NewRouter(cfg RouterConfig, channels []Channel, store AlertStore, metrics RouterMetrics, logger *zap.Logger) *Router {
	def := DefaultRouterConfig()
	if cfg.TargetAmount <= 0 {
		cfg.TargetAmount = def.TargetAmount
	}
	if cfg.TargetTolerance <= 0 {
		cfg.TargetTolerance = def.TargetTolerance
	}
	if cfg.AnomalyThreshold <= 0 {
		cfg.AnomalyThreshold = def.AnomalyThreshold
	}
	if cfg.LargeAmount <= 0 {
		cfg.LargeAmount = def.LargeAmount
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = def.SendTimeout
	}
	return &Router{
		logger:   logger,
		cfg:      cfg,
		channels: channels,
		store:    store,
		metrics:  metrics,
		now:      time.Now,
	}
}

// Fire evaluates all rules against the record and dispatches one alert per
// fired rule. A transfer may fire zero to three alerts.
func (r *Router) Fire(ctx context.Context, rec *model.TransactionRecord) {
	for _, event := range r.evaluate(rec) {
		r.Dispatch(ctx, event)
	}
}

func (r *Router) evaluate(rec *model.TransactionRecord) []model.AlertEvent {
	var events []model.AlertEvent

	if math.Abs(rec.Amount-r.cfg.TargetAmount) < r.cfg.TargetTolerance {
		events = append(events, model.AlertEvent{
			Type:     model.AlertTargetAmount,
			Severity: model.SeverityHigh,
			Message:  targetAmountMessage(rec, r.cfg.TargetAmount),
			TxHash:   rec.TxHash,
		})
	}

	if rec.IsFlagged && rec.PatternScore > r.cfg.AnomalyThreshold {
		events = append(events, model.AlertEvent{
			Type:     model.AlertPatternAnomaly,
			Severity: model.SeverityMedium,
			Message:  patternAnomalyMessage(rec),
			TxHash:   rec.TxHash,
		})
	}

	if rec.Amount > r.cfg.LargeAmount {
		events = append(events, model.AlertEvent{
			Type:     model.AlertLargeTransfer,
			Severity: model.SeverityHigh,
			Message:  largeTransferMessage(rec),
			TxHash:   rec.TxHash,
		})
	}

	return events
}

// Dispatch fans one alert out to every channel concurrently, waits for all
// attempts to finish (each bounded by the send timeout), then hands the
// event to the store exactly once. At most one delivery attempt per
// channel.
func (r *Router) Dispatch(ctx context.Context, event model.AlertEvent) {
	event.SentAt = r.now()
	r.metrics.ObserveFired(event.Type, event.Severity)

	results := make([]SendResult, len(r.channels))

	var wg sync.WaitGroup
	for i, ch := range r.channels {
		wg.Add(1)
		go func(i int, ch Channel) {
			defer wg.Done()

			started := time.Now()
			sendCtx, cancel := context.WithTimeout(ctx, r.cfg.SendTimeout)
			defer cancel()

			err := ch.Send(sendCtx, event)
			r.metrics.ObserveSend(ch.Name(), err, started)
			results[i] = SendResult{Channel: ch.Name(), Err: err}
		}(i, ch)
	}
	wg.Wait()

	delivered := 0
	for _, res := range results {
		if res.Err != nil {
			r.logger.Error("alert delivery failed",
				zap.String("channel", res.Channel),
				zap.String("alert_type", string(event.Type)),
				zap.String("tx_hash", event.TxHash),
				zap.Error(res.Err))
			continue
		}
		delivered++
	}

	r.logger.Info("alert dispatched",
		zap.String("alert_type", string(event.Type)),
		zap.String("severity", string(event.Severity)),
		zap.String("tx_hash", event.TxHash),
		zap.Int("delivered", delivered),
		zap.Int("channels", len(r.channels)))

	if r.store == nil {
		return
	}
	if err := r.store.InsertAlerts(ctx, []model.AlertEvent{event}); err != nil {
		r.logger.Error("persist alert failed",
			zap.String("alert_type", string(event.Type)),
			zap.String("tx_hash", event.TxHash),
			zap.Error(err))
	}
}
