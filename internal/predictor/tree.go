package predictor

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/Meesho/BharatMLStack/housing-inference/internal/aligner"
)

// treeNode follows the XGBoost JSON dump format.
type treeNode struct {
	NodeID         int        `json:"nodeid"`
	Split          string     `json:"split"`
	SplitCondition float64    `json:"split_condition"`
	Yes            int        `json:"yes"`
	No             int        `json:"no"`
	Missing        int        `json:"missing"`
	Leaf           *float64   `json:"leaf"`
	Children       []treeNode `json:"children"`
}

type treeArtifact struct {
	BaseScore    float64    `json:"base_score"`
	FeatureNames []string   `json:"feature_names"`
	Trees        []treeNode `json:"trees"`
}

type tree struct {
	root  int
	nodes map[int]treeNode
}

// TreeEnsemble sums the leaf of every tree on top of the base score. A NaN feature
// follows the missing branch of a split.
type TreeEnsemble struct {
	baseScore    float64
	featureNames []string
	splitFeature []string
	trees        []tree
}

func decodeTreeEnsemble(raw []byte) (*TreeEnsemble, error) {
	var a treeArtifact
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("decoding tree ensemble: %w", err)
	}
	if len(a.Trees) == 0 {
		return nil, fmt.Errorf("tree ensemble has no trees")
	}
	e := &TreeEnsemble{baseScore: a.BaseScore, featureNames: a.FeatureNames}
	used := map[string]struct{}{}
	for i, root := range a.Trees {
		t := tree{root: root.NodeID, nodes: map[int]treeNode{}}
		if err := flatten(root, t.nodes, used); err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		if err := t.check(); err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		e.trees = append(e.trees, t)
	}
	for f := range used {
		e.splitFeature = append(e.splitFeature, f)
	}
	return e, nil
}

func flatten(n treeNode, nodes map[int]treeNode, used map[string]struct{}) error {
	if _, ok := nodes[n.NodeID]; ok {
		return fmt.Errorf("duplicate node id %d", n.NodeID)
	}
	children := n.Children
	n.Children = nil
	nodes[n.NodeID] = n
	if n.Leaf == nil {
		used[n.Split] = struct{}{}
	}
	for _, c := range children {
		if err := flatten(c, nodes, used); err != nil {
			return err
		}
	}
	return nil
}

func (t tree) check() error {
	for id, n := range t.nodes {
		if n.Leaf != nil {
			continue
		}
		if n.Split == "" {
			return fmt.Errorf("node %d has neither split nor leaf", id)
		}
		for _, next := range []int{n.Yes, n.No, n.Missing} {
			if _, ok := t.nodes[next]; !ok {
				return fmt.Errorf("node %d points at unknown node %d", id, next)
			}
		}
	}
	return nil
}

func (e *TreeEnsemble) Type() string {
	return TypeTreeEnsemble
}

func (e *TreeEnsemble) Features() []string {
	if len(e.featureNames) > 0 {
		return append([]string(nil), e.featureNames...)
	}
	return append([]string(nil), e.splitFeature...)
}

func (e *TreeEnsemble) Predict(m *aligner.Matrix) ([]float64, error) {
	columns := m.Columns()
	if len(e.featureNames) > 0 {
		if len(e.featureNames) != len(columns) {
			return nil, fmt.Errorf("model expects %d features, matrix has %d", len(e.featureNames), len(columns))
		}
		for j, c := range columns {
			if e.featureNames[j] != c {
				return nil, fmt.Errorf("feature %d is %q, model expects %q", j, c, e.featureNames[j])
			}
		}
	}
	index := make(map[string]int, len(columns))
	for j, c := range columns {
		index[c] = j
	}
	for _, f := range e.splitFeature {
		if _, ok := index[f]; !ok {
			return nil, fmt.Errorf("model splits on %q which the matrix does not carry", f)
		}
	}
	out := make([]float64, m.Rows())
	for i := range out {
		row := m.Row(i)
		p := e.baseScore
		for _, t := range e.trees {
			p += t.eval(row, index)
		}
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return nil, fmt.Errorf("non-finite prediction for row %d", i)
		}
		out[i] = p
	}
	return out, nil
}

func (t tree) eval(row []float64, index map[string]int) float64 {
	n := t.nodes[t.root]
	// a cyclic tree stops after visiting as many nodes as it has
	for steps := 0; n.Leaf == nil && steps <= len(t.nodes); steps++ {
		x := row[index[n.Split]]
		switch {
		case math.IsNaN(x):
			n = t.nodes[n.Missing]
		case x < n.SplitCondition:
			n = t.nodes[n.Yes]
		default:
			n = t.nodes[n.No]
		}
	}
	if n.Leaf == nil {
		return math.NaN()
	}
	return *n.Leaf
}
