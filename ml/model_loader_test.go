package ml

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const decisionTreeArtifact = `{
  "type": "decision_tree",
  "features": ["Age", "Sex", "ChestPainType", "RestingBP", "Cholesterol", "FastingBS",
               "RestingECG", "MaxHR", "ExerciseAngina", "Oldpeak", "ST_Slope"],
  "nodes": [
    {"feature_idx": 10, "threshold": 1.5, "left_child": 1, "right_child": 2},
    {"feature_idx": -1, "left_child": -1, "right_child": -1, "class_label": 1, "is_leaf": true},
    {"feature_idx": -1, "left_child": -1, "right_child": -1, "class_label": 0, "is_leaf": true}
  ]
}`

func writeArtifact(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestShippedArtifact(t *testing.T) {
	model, err := LoadModel(filepath.Join("..", DefaultModelPath))
	require.NoError(t, err)

	_, ok := model.(ProbabilityEstimator)
	require.True(t, ok)

	// labels are rejected, so the predictor has to encode
	result, err := NewPredictor(model, nil).Predict(context.Background(), scenarioRecord(t))
	require.NoError(t, err)
	assert.Equal(t, AttemptEncoded, result.Attempt)
	assert.Equal(t, 0, result.Class)
	require.NotNil(t, result.Probability)
	assert.Less(t, *result.Probability, 0.5)

	in := scenarioRecord(t).Input()
	in.Age = 63
	in.ChestPainType = "ASY"
	in.ExerciseAngina = "Yes"
	in.Oldpeak = 2.5
	in.STSlope = "Flat"
	in.MaxHR = 118
	risky, err := in.Build()
	require.NoError(t, err)

	result, err = NewPredictor(model, nil).Predict(context.Background(), risky)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Class)
	assert.Greater(t, *result.Probability, 0.5)
}

func TestDecisionTreeHasNoProbability(t *testing.T) {
	model, err := LoadModel(writeArtifact(t, decisionTreeArtifact))
	require.NoError(t, err)

	_, ok := model.(ProbabilityEstimator)
	assert.False(t, ok)

	result, err := NewPredictor(model, nil).Predict(context.Background(), scenarioRecord(t))
	require.NoError(t, err)
	assert.Equal(t, AttemptEncoded, result.Attempt)
	assert.Equal(t, 0, result.Class)
	assert.Nil(t, result.Probability)
}

func TestCategoricalModelAcceptsLabels(t *testing.T) {
	artifact := `{
	  "type": "gradient_boosting",
	  "input": "categorical",
	  "features": ["ST_Slope", "Oldpeak"],
	  "categories": {"ST_Slope": {"Down": 0, "Flat": 1, "Up": 2}},
	  "init_score": 0,
	  "learning_rate": 1,
	  "trees": [[
	    {"feature_idx": 0, "threshold": 1.5, "left_child": 1, "right_child": 2},
	    {"feature_idx": -1, "left_child": -1, "right_child": -1, "value": 1.2, "is_leaf": true},
	    {"feature_idx": -1, "left_child": -1, "right_child": -1, "value": -1.2, "is_leaf": true}
	  ]]
	}`
	model, err := DecodeModel([]byte(artifact))
	require.NoError(t, err)

	result, err := NewPredictor(model, nil).Predict(context.Background(), scenarioRecord(t))
	require.NoError(t, err)
	assert.Equal(t, AttemptDirect, result.Attempt)
	assert.Equal(t, 0, result.Class)
	assert.InDelta(t, sigmoid(-1.2), *result.Probability, 1e-9)
}

func TestDecodeModelRejectsBadArtifacts(t *testing.T) {
	cases := map[string]string{
		"unknown type": `{"type": "svm"}`,
		"not json":     `{`,
		"no trees":     `{"type": "gradient_boosting", "features": ["Age"], "learning_rate": 0.1, "trees": []}`,
		"bad child": `{"type": "decision_tree", "features": ["Age"], "nodes": [
			{"feature_idx": 0, "threshold": 1, "left_child": 0, "right_child": 5}]}`,
		"bad feature": `{"type": "decision_tree", "features": ["Age"], "nodes": [
			{"feature_idx": 3, "threshold": 1, "left_child": 1, "right_child": 2},
			{"is_leaf": true}, {"is_leaf": true}]}`,
	}
	for name, artifact := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeModel([]byte(artifact))
			assert.Error(t, err)
		})
	}
}

func TestModelCacheLoadsOnce(t *testing.T) {
	path := writeArtifact(t, decisionTreeArtifact)

	var cache ModelCache
	first, err := cache.Load(path)
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))
	second, err := cache.Load("somewhere/else.json")
	require.NoError(t, err)

	assert.Same(t, first.(*DecisionTree), second.(*DecisionTree))
	assert.Equal(t, path, cache.Path())
}

func TestModelCacheKeepsLoadError(t *testing.T) {
	var cache ModelCache
	_, err := cache.Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	_, again := cache.Load(writeArtifact(t, decisionTreeArtifact))
	assert.Equal(t, err, again)
}
