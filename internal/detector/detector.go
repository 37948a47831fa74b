// Package detector scores transfers for anomalous behavior with a set of
// independent heuristics plus an optional trained outlier model.
package detector

import (
	"errors"
	"math"
	"sync"

	"github.com/stablewatchers/transferwatch-backend/internal/model"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
)

// Config tunes the scoring engine.
type Config struct {
	// Window is the rolling history length consulted by the statistical
	// stage and required before the trained model contributes.
	Window int
	// DeviationThreshold is the z-score mapped to a full statistical score.
	DeviationThreshold float64
}

// DefaultConfig returns the tuning the detector ships with.
func DefaultConfig() Config {
	return Config{
		Window:             100,
		DeviationThreshold: 3,
	}
}

// Detector computes a composite anomaly score in [0,1] per transfer and
// owns the rolling transaction history and per-address statistics. Not safe
// for concurrent use without the internal lock; scoring is sequential by
// design.
type Detector struct {
	mu sync.Mutex

	logger             *zap.Logger
	window             int
	deviationThreshold float64

	history   []historyEntry
	addresses map[string]*addressStats

	scaler  *standardizer
	forest  *isolationForest
	trained bool
}

// New builds a Detector with the given tuning.
func New(cfg Config, logger *zap.Logger) *Detector {
	if cfg.Window <= 0 {
		cfg.Window = DefaultConfig().Window
	}
	if cfg.DeviationThreshold <= 0 {
		cfg.DeviationThreshold = DefaultConfig().DeviationThreshold
	}
	return &Detector{
		logger:             logger,
		window:             cfg.Window,
		deviationThreshold: cfg.DeviationThreshold,
		addresses:          make(map[string]*addressStats),
	}
}

// Score updates the rolling state with rec and returns its composite
// anomaly score. Heuristic stages that lack data contribute their default
// of 0; the trained-model stage is excluded from the mean entirely when
// untrained or the history is shorter than the window, and contributes 0
// when scoring itself fails.
func (d *Detector) Score(rec *model.TransactionRecord) float64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.observe(rec)

	scores := []float64{
		d.statisticalScore(rec),
		d.frequencyScore(rec),
		d.clusteringScore(rec),
		d.timingScore(rec),
	}

	if d.trained && len(d.history) >= d.window {
		s, err := d.modelScore(rec)
		if err != nil {
			d.logger.Warn("outlier model scoring failed",
				zap.String("tx_hash", rec.TxHash), zap.Error(err))
			s = 0
		}
		scores = append(scores, s)
	}

	return stat.Mean(scores, nil)
}

// statisticalScore maps the amount's z-score against the rolling history to
// [0,1]. Silent until enough history has accumulated.
func (d *Detector) statisticalScore(rec *model.TransactionRecord) float64 {
	if len(d.history) < statisticalMinHistory {
		return 0
	}

	amounts := make([]float64, len(d.history))
	for i, e := range d.history {
		amounts[i] = e.amount
	}

	mean := stat.Mean(amounts, nil)
	std := stat.PopStdDev(amounts, nil)
	if std == 0 {
		return 0
	}

	z := math.Abs(rec.Amount-mean) / std
	return math.Min(z/d.deviationThreshold, 1)
}

// frequencyScore rates how tightly packed each endpoint's recent
// transactions are, averaged across endpoints that have a signal.
func (d *Detector) frequencyScore(rec *model.TransactionRecord) float64 {
	var scores []float64

	for _, addr := range []string{rec.FromAddress, rec.ToAddress} {
		stats, ok := d.addresses[addr]
		if !ok || len(stats.timestamps) < 2 {
			continue
		}

		var gaps []float64
		for i := 1; i < len(stats.timestamps); i++ {
			prev, cur := stats.timestamps[i-1], stats.timestamps[i]
			if prev.IsZero() || cur.IsZero() {
				continue
			}
			gaps = append(gaps, cur.Sub(prev).Hours())
		}
		if len(gaps) == 0 {
			continue
		}

		if s, ok := bandScore(frequencyBands, stat.Mean(gaps, nil)); ok {
			scores = append(scores, s)
		}
	}

	if len(scores) == 0 {
		return 0
	}
	return stat.Mean(scores, nil)
}

// clusteringScore flags amounts repeated near-exactly in recent history and
// round numbers favored by scripted transfers.
func (d *Detector) clusteringScore(rec *model.TransactionRecord) float64 {
	recent := d.history
	if len(recent) > clusteringLookback {
		recent = recent[len(recent)-clusteringLookback:]
	}

	matches := 0
	for _, e := range recent {
		if math.Abs(e.amount-rec.Amount) < amountMatchTolerance {
			matches++
		}
	}

	for _, band := range clusteringBands {
		if matches >= band.atLeast {
			return band.score
		}
	}

	for _, round := range roundAmounts {
		if rec.Amount == round {
			return roundAmountScore
		}
	}

	return baselineAmountScore
}

// timingScore flags off-hours activity and rapid succession. The hour check
// takes precedence over the gap check.
func (d *Detector) timingScore(rec *model.TransactionRecord) float64 {
	if rec.Timestamp.IsZero() {
		return 0
	}

	hour := rec.Timestamp.Hour()
	if hour >= oddHourStart && hour <= oddHourEnd {
		return oddHourScore
	}

	if len(d.history) >= 2 {
		prev := d.history[len(d.history)-2]
		if !prev.timestamp.IsZero() {
			gap := rec.Timestamp.Sub(prev.timestamp).Seconds()
			if s, ok := bandScore(rapidSuccessionBands, gap); ok {
				return s
			}
		}
	}

	return baselineTimingScore
}

func (d *Detector) modelScore(rec *model.TransactionRecord) (float64, error) {
	if d.scaler == nil || d.forest == nil {
		return 0, errors.New("outlier model not fitted")
	}

	scaled, err := d.scaler.transform(featuresOf(rec))
	if err != nil {
		return 0, err
	}

	// The forest's native score lives in [-1, 0), more negative meaning
	// more isolated. Map onto [0, 1] with 1 the most anomalous.
	raw := d.forest.scoreSample(scaled)
	normalized := 1 - (raw+1)/2
	return math.Max(0, math.Min(1, normalized)), nil
}

// Train fits the standardizer and the isolation forest on historical
// records. Retraining replaces the previous model in place.
func (d *Detector) Train(records []model.TransactionRecord) error {
	if len(records) == 0 {
		return errors.New("train outlier model: no samples")
	}

	features := make([][]float64, len(records))
	for i := range records {
		features[i] = featuresOf(&records[i])
	}

	scaler := fitStandardizer(features)
	scaled := make([][]float64, len(features))
	for i, f := range features {
		s, err := scaler.transform(f)
		if err != nil {
			return err
		}
		scaled[i] = s
	}

	forest := fitIsolationForest(scaled)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.scaler = scaler
	d.forest = forest
	d.trained = true

	d.logger.Info("outlier model trained", zap.Int("samples", len(records)))
	return nil
}

// Trained reports whether the optional model stage is active.
func (d *Detector) Trained() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.trained
}

// featuresOf extracts the numerical feature vector the outlier model is
// fitted on.
func featuresOf(rec *model.TransactionRecord) []float64 {
	return []float64{
		rec.Amount,
		float64(rec.GasUsed),
		float64(rec.GasPrice),
		float64(rec.BlockNumber),
	}
}
