package forest

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// Defaults applied when corresponding Params fields are unset.
const (
	DefaultEstimators      = 100
	DefaultMinSamplesSplit = 2
)

// Params controls training. Zero values select defaults; MaxDepth 0 grows
// trees until leaves are pure.
type Params struct {
	Estimators      int
	MaxDepth        int
	MinSamplesSplit int
	// MaxFeatures is the number of candidate features per split; 0 means floor(sqrt(n_features)).
	MaxFeatures int
	Seed        int64
}

// Train fits a forest on rows X with class indices y in [0, nClasses).
// The same inputs and Seed always produce the same forest.
func Train(X [][]float64, y []int, nClasses int, p Params) (*Forest, error) {
	if len(X) == 0 || len(y) == 0 {
		return nil, errors.New("features or labels empty")
	}
	if len(X) != len(y) {
		return nil, errors.New("features and labels size mismatch")
	}
	if nClasses <= 0 {
		return nil, errors.New("class count must be positive")
	}
	nFeatures := len(X[0])
	if nFeatures == 0 {
		return nil, errors.New("rows have no features")
	}
	for i, row := range X {
		if len(row) != nFeatures {
			return nil, fmt.Errorf("row %d has %d features, want %d", i, len(row), nFeatures)
		}
		if y[i] < 0 || y[i] >= nClasses {
			return nil, fmt.Errorf("row %d label %d out of range", i, y[i])
		}
	}
	if p.Estimators <= 0 {
		p.Estimators = DefaultEstimators
	}
	if p.MinSamplesSplit < 2 {
		p.MinSamplesSplit = DefaultMinSamplesSplit
	}
	if p.MaxFeatures <= 0 || p.MaxFeatures > nFeatures {
		p.MaxFeatures = int(math.Sqrt(float64(nFeatures)))
		if p.MaxFeatures < 1 {
			p.MaxFeatures = 1
		}
	}

	rng := rand.New(rand.NewSource(p.Seed))
	f := &Forest{NFeatures: nFeatures, NClasses: nClasses, Trees: make([]Tree, 0, p.Estimators)}
	for i := 0; i < p.Estimators; i++ {
		sample := make([]int, len(X))
		for j := range sample {
			sample[j] = rng.Intn(len(X))
		}
		b := &builder{X: X, y: y, nClasses: nClasses, params: p, rng: rng}
		b.build(sample, 0)
		f.Trees = append(f.Trees, Tree{Nodes: b.nodes})
	}
	return f, nil
}

type builder struct {
	X        [][]float64
	y        []int
	nClasses int
	params   Params
	rng      *rand.Rand
	nodes    []Node
}

// build appends the subtree for rows idx in pre-order and returns its root index.
func (b *builder) build(idx []int, depth int) int {
	counts := b.counts(idx)
	at := len(b.nodes)
	b.nodes = append(b.nodes, Node{Feature: -1, Left: -1, Right: -1})

	stop := isPure(counts) || len(idx) < b.params.MinSamplesSplit ||
		(b.params.MaxDepth > 0 && depth >= b.params.MaxDepth)
	if !stop {
		if feature, threshold, ok := b.bestSplit(idx, counts); ok {
			left, right := b.partition(idx, feature, threshold)
			if len(left) > 0 && len(right) > 0 {
				b.nodes[at].Feature = feature
				b.nodes[at].Threshold = threshold
				l := b.build(left, depth+1)
				r := b.build(right, depth+1)
				b.nodes[at].Left = l
				b.nodes[at].Right = r
				return at
			}
		}
	}
	b.nodes[at].Value = normalize(counts)
	return at
}

// bestSplit scans a random subset of features and returns the threshold with
// the lowest weighted gini. Constant features do not count toward the subset.
func (b *builder) bestSplit(idx []int, parent []int) (int, float64, bool) {
	bestFeature := -1
	bestThreshold := 0.0
	bestImpurity := math.MaxFloat64
	visited := 0

	sorted := append([]int(nil), idx...)
	for _, feature := range b.rng.Perm(len(b.X[0])) {
		if visited >= b.params.MaxFeatures {
			break
		}
		sort.SliceStable(sorted, func(i, j int) bool {
			return b.X[sorted[i]][feature] < b.X[sorted[j]][feature]
		})
		if b.X[sorted[0]][feature] == b.X[sorted[len(sorted)-1]][feature] {
			continue
		}
		visited++

		left := make([]int, b.nClasses)
		right := append([]int(nil), parent...)
		for i := 0; i < len(sorted)-1; i++ {
			c := b.y[sorted[i]]
			left[c]++
			right[c]--
			cur, next := b.X[sorted[i]][feature], b.X[sorted[i+1]][feature]
			if cur == next {
				continue
			}
			nl, nr := i+1, len(sorted)-i-1
			impurity := (float64(nl)*gini(left, nl) + float64(nr)*gini(right, nr)) / float64(len(sorted))
			if impurity < bestImpurity {
				bestImpurity = impurity
				bestFeature = feature
				bestThreshold = cur + (next-cur)/2
			}
		}
	}
	if bestFeature < 0 {
		return -1, 0, false
	}
	return bestFeature, bestThreshold, true
}

func (b *builder) partition(idx []int, feature int, threshold float64) ([]int, []int) {
	left := make([]int, 0, len(idx))
	right := make([]int, 0, len(idx))
	for _, i := range idx {
		if b.X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	return left, right
}

func (b *builder) counts(idx []int) []int {
	out := make([]int, b.nClasses)
	for _, i := range idx {
		out[b.y[i]]++
	}
	return out
}

func gini(counts []int, total int) float64 {
	if total == 0 {
		return 0
	}
	impurity := 1.0
	for _, c := range counts {
		p := float64(c) / float64(total)
		impurity -= p * p
	}
	return impurity
}

func isPure(counts []int) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

func normalize(counts []int) []float64 {
	total := 0
	for _, c := range counts {
		total += c
	}
	out := make([]float64, len(counts))
	if total == 0 {
		return out
	}
	for i, c := range counts {
		out[i] = float64(c) / float64(total)
	}
	return out
}
