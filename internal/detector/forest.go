package detector

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat"
)

const (
	forestTrees     = 100
	forestSubsample = 256
	forestSeed      = 42
)

// standardizer centers and scales feature vectors to zero mean and unit
// variance per column.
type standardizer struct {
	mean []float64
	std  []float64
}

func fitStandardizer(rows [][]float64) *standardizer {
	cols := len(rows[0])
	s := &standardizer{
		mean: make([]float64, cols),
		std:  make([]float64, cols),
	}

	column := make([]float64, len(rows))
	for c := 0; c < cols; c++ {
		for r := range rows {
			column[r] = rows[r][c]
		}
		s.mean[c] = stat.Mean(column, nil)
		s.std[c] = stat.PopStdDev(column, nil)
		if s.std[c] == 0 {
			// Constant column: leave centered values at zero.
			s.std[c] = 1
		}
	}
	return s
}

func (s *standardizer) transform(x []float64) ([]float64, error) {
	if len(x) != len(s.mean) {
		return nil, fmt.Errorf("feature vector has %d columns, model expects %d", len(x), len(s.mean))
	}
	out := make([]float64, len(x))
	for i := range x {
		out[i] = (x[i] - s.mean[i]) / s.std[i]
	}
	return out, nil
}

// isolationForest is an ensemble of random isolation trees. Samples that
// isolate in few splits score as outliers.
type isolationForest struct {
	trees     []*isolationNode
	subsample int
}

type isolationNode struct {
	left, right *isolationNode
	splitCol    int
	splitVal    float64
	size        int
}

func fitIsolationForest(rows [][]float64) *isolationForest {
	rng := rand.New(rand.NewSource(forestSeed))

	subsample := forestSubsample
	if subsample > len(rows) {
		subsample = len(rows)
	}
	heightLimit := int(math.Ceil(math.Log2(math.Max(2, float64(subsample)))))

	f := &isolationForest{subsample: subsample}
	for i := 0; i < forestTrees; i++ {
		sample := make([][]float64, subsample)
		for j := range sample {
			sample[j] = rows[rng.Intn(len(rows))]
		}
		f.trees = append(f.trees, growTree(sample, 0, heightLimit, rng))
	}
	return f
}

func growTree(rows [][]float64, depth, limit int, rng *rand.Rand) *isolationNode {
	if depth >= limit || len(rows) <= 1 {
		return &isolationNode{size: len(rows)}
	}

	col := rng.Intn(len(rows[0]))
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, r := range rows {
		lo = math.Min(lo, r[col])
		hi = math.Max(hi, r[col])
	}
	if lo == hi {
		return &isolationNode{size: len(rows)}
	}

	split := lo + rng.Float64()*(hi-lo)
	var left, right [][]float64
	for _, r := range rows {
		if r[col] < split {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}

	return &isolationNode{
		splitCol: col,
		splitVal: split,
		size:     len(rows),
		left:     growTree(left, depth+1, limit, rng),
		right:    growTree(right, depth+1, limit, rng),
	}
}

// scoreSample returns the negated anomaly score in [-1, 0): values near -1
// isolate quickly and are the strongest outliers.
func (f *isolationForest) scoreSample(x []float64) float64 {
	total := 0.0
	for _, tree := range f.trees {
		total += pathLength(tree, x, 0)
	}
	avg := total / float64(len(f.trees))

	return -math.Pow(2, -avg/averagePathLength(f.subsample))
}

func pathLength(n *isolationNode, x []float64, depth float64) float64 {
	if n.left == nil && n.right == nil {
		return depth + averagePathLength(n.size)
	}
	if x[n.splitCol] < n.splitVal {
		return pathLength(n.left, x, depth+1)
	}
	return pathLength(n.right, x, depth+1)
}

// averagePathLength is the expected search depth in a binary tree over n
// samples, the normalization constant from the isolation forest paper.
func averagePathLength(n int) float64 {
	if n <= 1 {
		return 0
	}
	fn := float64(n)
	harmonic := math.Log(fn-1) + 0.5772156649
	return 2*harmonic - 2*(fn-1)/fn
}
