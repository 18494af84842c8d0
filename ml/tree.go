package ml

import (
	"errors"
	"fmt"
)

// TreeNode is one node of a tree stored as a flat array. Children are
// indexes into the same array; leaves carry either a class label
// (classification trees) or a raw score (boosting stages).
type TreeNode struct {
	FeatureIdx int     `json:"feature_idx"`
	Threshold  float64 `json:"threshold"`
	LeftChild  int     `json:"left_child"`
	RightChild int     `json:"right_child"`
	ClassLabel int     `json:"class_label,omitempty"`
	Value      float64 `json:"value,omitempty"`
	IsLeaf     bool    `json:"is_leaf"`
}

func walkTree(nodes []TreeNode, features []float64) (TreeNode, error) {
	if len(nodes) == 0 {
		return TreeNode{}, errors.New("empty tree")
	}
	idx := 0
	for steps := 0; steps <= len(nodes); steps++ {
		node := nodes[idx]
		if node.IsLeaf {
			return node, nil
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= len(features) {
			return TreeNode{}, errors.New("feature index out of range")
		}
		if features[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
		if idx < 0 || idx >= len(nodes) {
			return TreeNode{}, errors.New("invalid tree state")
		}
	}
	return TreeNode{}, errors.New("tree contains a cycle")
}

func validateTree(nodes []TreeNode, featureCount int) error {
	if len(nodes) == 0 {
		return errors.New("empty tree")
	}
	for i, node := range nodes {
		if node.IsLeaf {
			continue
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= featureCount {
			return fmt.Errorf("node %d: feature index %d out of range", i, node.FeatureIdx)
		}
		if node.LeftChild <= i || node.LeftChild >= len(nodes) || node.RightChild <= i || node.RightChild >= len(nodes) {
			return fmt.Errorf("node %d: invalid children %d/%d", i, node.LeftChild, node.RightChild)
		}
	}
	return nil
}
