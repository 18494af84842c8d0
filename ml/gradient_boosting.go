package ml

import (
	"errors"
	"fmt"
	"math"
)

// InputMode says which cell kinds a model accepts.
type InputMode string

const (
	// InputNumeric models were trained on encoded columns and reject labels.
	InputNumeric InputMode = "numeric"
	// InputCategorical models carry their own label mapping.
	InputCategorical InputMode = "categorical"
)

// GradientBoosting is a binary gradient-boosted ensemble of regression
// trees. The positive-class log-odds are InitScore plus LearningRate times
// the sum of the leaf values reached in every stage.
type GradientBoosting struct {
	Features     []string                      `json:"features"`
	Input        InputMode                     `json:"input"`
	Categories   map[string]map[string]float64 `json:"categories,omitempty"`
	InitScore    float64                       `json:"init_score"`
	LearningRate float64                       `json:"learning_rate"`
	Trees        [][]TreeNode                  `json:"trees"`
}

func (gb *GradientBoosting) Predict(row Row) (int, error) {
	proba, err := gb.PredictProba(row)
	if err != nil {
		return 0, err
	}
	if proba[1] >= 0.5 {
		return 1, nil
	}
	return 0, nil
}

func (gb *GradientBoosting) PredictProba(row Row) ([2]float64, error) {
	x, err := featureVector(row, gb.Features, gb.Input, gb.Categories)
	if err != nil {
		return [2]float64{}, err
	}
	score := gb.InitScore
	for i, tree := range gb.Trees {
		leaf, err := walkTree(tree, x)
		if err != nil {
			return [2]float64{}, fmt.Errorf("stage %d: %w", i, err)
		}
		score += gb.LearningRate * leaf.Value
	}
	p := sigmoid(score)
	return [2]float64{1 - p, p}, nil
}

func (gb *GradientBoosting) validate() error {
	if len(gb.Features) == 0 {
		return errors.New("gradient boosting: no features")
	}
	if len(gb.Trees) == 0 {
		return errors.New("gradient boosting: no trees")
	}
	if gb.LearningRate <= 0 {
		return errors.New("gradient boosting: learning rate must be positive")
	}
	switch gb.Input {
	case "":
		gb.Input = InputNumeric
	case InputNumeric, InputCategorical:
	default:
		return fmt.Errorf("gradient boosting: unknown input mode %q", gb.Input)
	}
	for i, tree := range gb.Trees {
		if err := validateTree(tree, len(gb.Features)); err != nil {
			return fmt.Errorf("gradient boosting: stage %d: %w", i, err)
		}
	}
	return nil
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// featureVector turns a row into the float vector a tree walks. Label cells
// are only accepted by categorical models that know the label.
func featureVector(row Row, features []string, mode InputMode, categories map[string]map[string]float64) ([]float64, error) {
	x := make([]float64, len(features))
	for i, name := range features {
		cell, ok := row.Get(name)
		if !ok {
			return nil, fmt.Errorf("missing feature %s", name)
		}
		if cell.IsNumber() {
			x[i] = cell.Float()
			continue
		}
		if mode != InputCategorical {
			return nil, &InputTypeError{Field: name, Value: cell.String(), Want: "a number"}
		}
		v, ok := categories[name][cell.String()]
		if !ok {
			return nil, &InputTypeError{Field: name, Value: cell.String(), Want: "a known category"}
		}
		x[i] = v
	}
	return x, nil
}
