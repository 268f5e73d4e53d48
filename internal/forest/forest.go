// Package forest implements a random forest classifier over dense float64
// feature vectors. Trees are stored as flat node slices so a trained forest
// round-trips through JSON without custom codecs.
package forest

import (
	"errors"
	"fmt"
)

// Node is one entry of a tree's flat node slice. Leaves have Feature == -1 and
// carry the class distribution observed during training in Value.
type Node struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      int       `json:"left"`
	Right     int       `json:"right"`
	Value     []float64 `json:"value,omitempty"`
}

// IsLeaf reports whether the node terminates traversal.
func (n Node) IsLeaf() bool { return n.Feature < 0 }

// Tree is a single CART tree. Nodes[0] is the root.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Forest is a trained ensemble. It is never mutated after training, so a
// single value can serve concurrent predictions.
type Forest struct {
	NFeatures int    `json:"n_features"`
	NClasses  int    `json:"n_classes"`
	Trees     []Tree `json:"trees"`
}

// NumFeatures returns the input width the forest was trained on.
func (f *Forest) NumFeatures() int { return f.NFeatures }

// NumClasses returns the width of the probability distribution.
func (f *Forest) NumClasses() int { return f.NClasses }

// NumEstimators returns the number of trees.
func (f *Forest) NumEstimators() int { return len(f.Trees) }

// PredictProba averages the leaf distributions reached in every tree.
func (f *Forest) PredictProba(x []float64) ([]float64, error) {
	if len(f.Trees) == 0 {
		return nil, errors.New("forest has no trees")
	}
	if len(x) != f.NFeatures {
		return nil, fmt.Errorf("expected %d features, got %d", f.NFeatures, len(x))
	}
	out := make([]float64, f.NClasses)
	for ti := range f.Trees {
		leaf, err := f.Trees[ti].leaf(x)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", ti, err)
		}
		if len(leaf.Value) != f.NClasses {
			return nil, fmt.Errorf("tree %d: leaf has %d classes, want %d", ti, len(leaf.Value), f.NClasses)
		}
		for c, v := range leaf.Value {
			out[c] += v
		}
	}
	n := float64(len(f.Trees))
	for c := range out {
		out[c] /= n
	}
	return out, nil
}

// Predict returns the index of the most probable class. Ties go to the lower index.
func (f *Forest) Predict(x []float64) (int, error) {
	proba, err := f.PredictProba(x)
	if err != nil {
		return 0, err
	}
	return Argmax(proba), nil
}

// Argmax returns the index of the largest value, preferring the first on ties.
// It returns -1 for an empty slice.
func Argmax(values []float64) int {
	best := -1
	for i, v := range values {
		if best < 0 || v > values[best] {
			best = i
		}
	}
	return best
}

func (t *Tree) leaf(x []float64) (Node, error) {
	if len(t.Nodes) == 0 {
		return Node{}, errors.New("empty tree")
	}
	idx := 0
	// Children always sit after their parent, so a walk visits at most len(Nodes) nodes.
	for steps := 0; steps <= len(t.Nodes); steps++ {
		node := t.Nodes[idx]
		if node.IsLeaf() {
			return node, nil
		}
		if node.Feature >= len(x) {
			return Node{}, errors.New("feature index out of range")
		}
		if x[node.Feature] <= node.Threshold {
			idx = node.Left
		} else {
			idx = node.Right
		}
		if idx <= 0 || idx >= len(t.Nodes) {
			return Node{}, errors.New("invalid tree state")
		}
	}
	return Node{}, errors.New("tree traversal did not terminate")
}

// Validate checks the structural invariants a decoded forest must satisfy
// before it can be trusted for inference.
func (f *Forest) Validate() error {
	if f.NFeatures <= 0 {
		return fmt.Errorf("n_features must be positive, got %d", f.NFeatures)
	}
	if f.NClasses <= 0 {
		return fmt.Errorf("n_classes must be positive, got %d", f.NClasses)
	}
	if len(f.Trees) == 0 {
		return errors.New("no trees")
	}
	for ti, t := range f.Trees {
		if len(t.Nodes) == 0 {
			return fmt.Errorf("tree %d: no nodes", ti)
		}
		for ni, n := range t.Nodes {
			if n.IsLeaf() {
				if len(n.Value) != f.NClasses {
					return fmt.Errorf("tree %d node %d: leaf has %d classes, want %d", ti, ni, len(n.Value), f.NClasses)
				}
				continue
			}
			if n.Feature >= f.NFeatures {
				return fmt.Errorf("tree %d node %d: feature %d out of range", ti, ni, n.Feature)
			}
			if n.Left <= ni || n.Left >= len(t.Nodes) || n.Right <= ni || n.Right >= len(t.Nodes) {
				return fmt.Errorf("tree %d node %d: child index out of range", ti, ni)
			}
		}
	}
	return nil
}
