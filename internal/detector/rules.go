package detector

import "math"

// The heuristic thresholds live here as ordered rule tables so each
// sub-score stays tunable and testable on its own. Order matters: the first
// matching rule wins.

// scoreBand maps an upper bound (exclusive) to a score.
type scoreBand struct {
	below float64
	score float64
}

// Mean hours between an address's recent transactions.
var frequencyBands = []scoreBand{
	{below: 1, score: 0.8},
	{below: 6, score: 0.5},
	{below: math.Inf(1), score: 0.1},
}

// Seconds since the previous transfer in the rolling history.
var rapidSuccessionBands = []scoreBand{
	{below: 30, score: 0.8},
	{below: 300, score: 0.5},
}

// Count of near-exact amount repeats within the recent history.
var clusteringBands = []struct {
	atLeast int
	score   float64
}{
	{atLeast: 5, score: 0.9},
	{atLeast: 3, score: 0.6},
}

// Round amounts frequently used by structured or scripted transfers.
var roundAmounts = []float64{100, 500, 1000, 5000, 10000, 50000, 100000}

const (
	// Hour-of-day range treated as off-hours activity, inclusive.
	oddHourStart = 2
	oddHourEnd   = 5

	oddHourScore        = 0.6
	baselineTimingScore = 0.1
	baselineAmountScore = 0.2
	roundAmountScore    = 0.7

	// Tolerance for treating two amounts as the same transfer size.
	amountMatchTolerance = 0.01

	// Recent slice of history consulted by the clustering heuristic.
	clusteringLookback = 20

	// Minimum history before the statistical stage produces a signal.
	statisticalMinHistory = 10
)

func bandScore(bands []scoreBand, v float64) (float64, bool) {
	for _, b := range bands {
		if v < b.below {
			return b.score, true
		}
	}
	return 0, false
}
