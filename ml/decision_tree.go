package ml

import (
	"errors"
	"fmt"
	"math"
)

// TreeNode is one node of a flattened tree. Internal nodes send a row left
// when its column value is <= Threshold. Regressor leaves carry Value,
// classifier leaves carry a per-class Distribution.
type TreeNode struct {
	Column       string    `json:"column,omitempty"`
	Threshold    float64   `json:"threshold"`
	LeftChild    int       `json:"left"`
	RightChild   int       `json:"right"`
	IsLeaf       bool      `json:"leaf"`
	Value        float64   `json:"value,omitempty"`
	Distribution []float64 `json:"distribution,omitempty"`

	featureIdx int
}

type DecisionTree struct {
	encoder *encoder
	nodes   []TreeNode
}

func newDecisionTree(enc *encoder, nodes []TreeNode, classes int) (*DecisionTree, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: tree has no nodes", ErrInvalidArtifact)
	}
	resolved := make([]TreeNode, len(nodes))
	copy(resolved, nodes)
	for idx := range resolved {
		node := &resolved[idx]
		node.featureIdx = -1
		if node.IsLeaf {
			if classes > 0 {
				if err := checkDistribution(node.Distribution, classes); err != nil {
					return nil, fmt.Errorf("%w: node %d: %v", ErrInvalidArtifact, idx, err)
				}
			}
			continue
		}
		col, ok := enc.column(node.Column)
		if !ok {
			return nil, fmt.Errorf("%w: node %d splits on unknown column %q", ErrInvalidArtifact, idx, node.Column)
		}
		node.featureIdx = col
		// Children always come after their parent, so traversal terminates.
		for _, child := range []int{node.LeftChild, node.RightChild} {
			if child <= idx || child >= len(resolved) {
				return nil, fmt.Errorf("%w: node %d has invalid child %d", ErrInvalidArtifact, idx, child)
			}
		}
	}
	return &DecisionTree{encoder: enc, nodes: resolved}, nil
}

func checkDistribution(dist []float64, classes int) error {
	if len(dist) != classes {
		return fmt.Errorf("distribution has %d entries, want %d", len(dist), classes)
	}
	total := 0.0
	for _, v := range dist {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New("distribution has an invalid weight")
		}
		total += v
	}
	if total <= 0 {
		return errors.New("distribution is empty")
	}
	return nil
}

func (dt *DecisionTree) Schema() Schema {
	return dt.encoder.schema()
}

// Nodes returns the number of nodes in the tree.
func (dt *DecisionTree) Nodes() int {
	return len(dt.nodes)
}

func (dt *DecisionTree) leaf(row Row) (*TreeNode, error) {
	features, err := dt.encoder.encode(row)
	if err != nil {
		return nil, err
	}
	idx := 0
	for {
		node := &dt.nodes[idx]
		if node.IsLeaf {
			return node, nil
		}
		if features[node.featureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
	}
}

// TreeRegressor predicts the value stored at the reached leaf.
type TreeRegressor struct {
	*DecisionTree
}

func (t *TreeRegressor) Kind() Kind { return KindTreeRegressor }

func (t *TreeRegressor) Predict(row Row) (float64, error) {
	node, err := t.leaf(row)
	if err != nil {
		return 0, err
	}
	return node.Value, nil
}

// TreeClassifier predicts the most probable class at the reached leaf.
type TreeClassifier struct {
	*DecisionTree
	classes []string
}

func (t *TreeClassifier) Kind() Kind { return KindTreeClassifier }

func (t *TreeClassifier) Classes() []string {
	return append([]string(nil), t.classes...)
}

func (t *TreeClassifier) PredictProba(row Row) ([]float64, error) {
	node, err := t.leaf(row)
	if err != nil {
		return nil, err
	}
	total := 0.0
	for _, v := range node.Distribution {
		total += v
	}
	probs := make([]float64, len(node.Distribution))
	for i, v := range node.Distribution {
		probs[i] = v / total
	}
	return probs, nil
}

// Predict returns the argmax class; ties go to the first class.
func (t *TreeClassifier) Predict(row Row) (string, error) {
	probs, err := t.PredictProba(row)
	if err != nil {
		return "", err
	}
	best := 0
	for i, p := range probs {
		if p > probs[best] {
			best = i
		}
	}
	return t.classes[best], nil
}
