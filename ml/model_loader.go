package ml

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// DefaultModelPath is where the trained artifact ships.
const DefaultModelPath = "models/heart_gradient_boosting.json"

const (
	ModelTypeGradientBoosting = "gradient_boosting"
	ModelTypeDecisionTree     = "decision_tree"
)

// LoadModel reads a model artifact from disk.
func LoadModel(path string) (Classifier, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model %s: %w", path, err)
	}
	model, err := DecodeModel(payload)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", path, err)
	}
	return model, nil
}

// DecodeModel parses an artifact. The "type" key selects the model kind.
func DecodeModel(payload []byte) (Classifier, error) {
	var header struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(payload, &header); err != nil {
		return nil, err
	}

	switch header.Type {
	case ModelTypeGradientBoosting:
		model := &GradientBoosting{}
		if err := json.Unmarshal(payload, model); err != nil {
			return nil, err
		}
		if err := model.validate(); err != nil {
			return nil, err
		}
		return model, nil
	case ModelTypeDecisionTree:
		model := &DecisionTree{}
		if err := json.Unmarshal(payload, model); err != nil {
			return nil, err
		}
		if err := model.validate(); err != nil {
			return nil, err
		}
		return model, nil
	default:
		return nil, fmt.Errorf("unsupported model type %q", header.Type)
	}
}

// ModelCache loads a model at most once and hands the same instance to
// every caller afterwards. A failed load is cached too.
type ModelCache struct {
	once  sync.Once
	path  string
	model Classifier
	err   error
}

// Load returns the cached model, loading it from path on first use. Later
// paths are ignored.
func (c *ModelCache) Load(path string) (Classifier, error) {
	c.once.Do(func() {
		c.path = path
		c.model, c.err = LoadModel(path)
	})
	return c.model, c.err
}

// Path returns the path the cached model was loaded from.
func (c *ModelCache) Path() string {
	return c.path
}

var sharedModel ModelCache

// SharedModel returns the process-wide model.
func SharedModel(path string) (Classifier, error) {
	return sharedModel.Load(path)
}
