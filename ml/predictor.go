package ml

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"heartrisk/patient"
)

// Attempt records which input shape produced a result.
type Attempt int

const (
	// AttemptDirect fed the record to the model with raw labels.
	AttemptDirect Attempt = iota + 1
	// AttemptEncoded fed the record after label encoding.
	AttemptEncoded
)

func (a Attempt) String() string {
	switch a {
	case AttemptDirect:
		return "direct"
	case AttemptEncoded:
		return "encoded"
	default:
		return "unknown"
	}
}

// Result is the outcome of one prediction.
type Result struct {
	Class       int
	Probability *float64
	Attempt     Attempt
}

// AtRisk reports whether the positive class was predicted.
func (r Result) AtRisk() bool {
	return r.Class == 1
}

// Predictor runs a record through a classifier, retrying once with encoded
// input when the model rejects raw labels.
type Predictor struct {
	model  Classifier
	logger *zap.Logger
}

func NewPredictor(model Classifier, logger *zap.Logger) *Predictor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Predictor{model: model, logger: logger}
}

// Ready reports whether a model is attached.
func (p *Predictor) Ready() bool {
	return p.model != nil
}

func (p *Predictor) Predict(ctx context.Context, record patient.Record) (Result, error) {
	if p.model == nil {
		return Result{}, ErrModelNotLoaded
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	row := RowFromRecord(record)
	class, proba, err := p.invoke(row)
	if err == nil {
		return Result{Class: class, Probability: proba, Attempt: AttemptDirect}, nil
	}

	var shapeErr *InputTypeError
	if !errors.As(err, &shapeErr) {
		return Result{}, &PredictionError{Attempt: AttemptDirect, Err: err}
	}
	p.logger.Debug("model rejected raw input, retrying encoded",
		zap.String("field", shapeErr.Field),
		zap.String("value", shapeErr.Value))

	encoded, err := Encode(row)
	if err != nil {
		return Result{}, err
	}
	class, proba, err = p.invoke(encoded)
	if err != nil {
		return Result{}, &PredictionError{Attempt: AttemptEncoded, Err: err}
	}
	return Result{Class: class, Probability: proba, Attempt: AttemptEncoded}, nil
}

func (p *Predictor) invoke(row Row) (int, *float64, error) {
	class, err := p.model.Predict(row)
	if err != nil {
		return 0, nil, err
	}
	if class != 0 && class != 1 {
		return 0, nil, fmt.Errorf("unexpected class label %d", class)
	}

	estimator, ok := p.model.(ProbabilityEstimator)
	if !ok {
		return class, nil, nil
	}
	probs, err := estimator.PredictProba(row)
	if err != nil {
		return 0, nil, err
	}
	positive := probs[1]
	if math.IsNaN(positive) || positive < 0 || positive > 1 {
		return 0, nil, fmt.Errorf("positive-class probability %v outside [0, 1]", positive)
	}
	return class, &positive, nil
}
