package ml

// Classifier is a loaded binary model. Predict returns 0 or 1.
type Classifier interface {
	Predict(row Row) (int, error)
}

// ProbabilityEstimator is implemented by classifiers that can also report
// class probabilities, ordered [p(class 0), p(class 1)].
type ProbabilityEstimator interface {
	PredictProba(row Row) ([2]float64, error)
}
