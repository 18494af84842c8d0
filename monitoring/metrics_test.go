package monitoring

import (
	"errors"
	"sync"
	"testing"

	"heartrisk/ml"
	"heartrisk/patient"
)

func TestPredictionMetricsObserve(t *testing.T) {
	m := NewPredictionMetrics()

	m.Observe(ml.Result{Class: 1, Attempt: ml.AttemptDirect}, nil)
	m.Observe(ml.Result{Class: 0, Attempt: ml.AttemptEncoded}, nil)
	m.Observe(ml.Result{}, &ml.UnrecognizedCategoryError{Field: "Sex", Value: "?"})
	m.Observe(ml.Result{}, errors.Join(&patient.BoundsError{Field: "Age"}))
	m.Observe(ml.Result{}, &ml.PredictionError{Attempt: ml.AttemptDirect, Err: errors.New("boom")})

	expected := map[string]float64{
		"predictions_total":             5,
		"predictions_direct_total":      1,
		"predictions_encoded_total":     1,
		"predictions_positive_total":    1,
		"prediction_input_errors_total": 2,
		"prediction_failures_total":     1,
	}
	for name, want := range expected {
		got, ok := m.Value(name)
		if !ok {
			t.Fatalf("metric %s missing", name)
		}
		if got != want {
			t.Errorf("%s: expected %v, got %v", name, want, got)
		}
	}
}

func TestPredictionMetricsConcurrent(t *testing.T) {
	m := NewPredictionMetrics()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Observe(ml.Result{Class: 1, Attempt: ml.AttemptEncoded}, nil)
		}()
	}
	wg.Wait()

	if got, _ := m.Value("predictions_encoded_total"); got != 50 {
		t.Fatalf("expected 50 encoded predictions, got %v", got)
	}
}
