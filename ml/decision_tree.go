package ml

import (
	"errors"
	"fmt"
)

// DecisionTree is a single classification tree over numeric features. It
// has no probability support.
type DecisionTree struct {
	Features []string   `json:"features"`
	Nodes    []TreeNode `json:"nodes"`
}

func (dt *DecisionTree) Predict(row Row) (int, error) {
	if len(dt.Nodes) == 0 {
		return 0, errors.New("model not trained")
	}
	x, err := featureVector(row, dt.Features, InputNumeric, nil)
	if err != nil {
		return 0, err
	}
	leaf, err := walkTree(dt.Nodes, x)
	if err != nil {
		return 0, err
	}
	return leaf.ClassLabel, nil
}

func (dt *DecisionTree) validate() error {
	if len(dt.Features) == 0 {
		return errors.New("decision tree: no features")
	}
	if err := validateTree(dt.Nodes, len(dt.Features)); err != nil {
		return fmt.Errorf("decision tree: %w", err)
	}
	return nil
}
