package ml

import (
	"errors"
	"fmt"
	"strings"
)

// ErrModelNotLoaded is returned when a predictor has no model behind it.
var ErrModelNotLoaded = errors.New("model not loaded")

// InputTypeError is raised by a model that cannot consume a cell in its raw
// form, typically a category label given to a model trained on codes. It is
// the only failure that makes the Predictor retry with encoded input.
type InputTypeError struct {
	Field string
	Value string
	Want  string
}

func (e *InputTypeError) Error() string {
	return fmt.Sprintf("feature %s: cannot use %q, model expects %s", e.Field, e.Value, e.Want)
}

// UnrecognizedCategoryError reports a label missing from the encoding table.
type UnrecognizedCategoryError struct {
	Field   string
	Value   string
	Options []string
}

func (e *UnrecognizedCategoryError) Error() string {
	return fmt.Sprintf("value %q in field %q is not recognized, options: [%s]",
		e.Value, e.Field, strings.Join(e.Options, ", "))
}

// NumericConversionError reports a value that is still not a number after
// categorical substitution.
type NumericConversionError struct {
	Field string
	Value string
	Err   error
}

func (e *NumericConversionError) Error() string {
	return fmt.Sprintf("field %q: cannot convert %q to a number", e.Field, e.Value)
}

func (e *NumericConversionError) Unwrap() error { return e.Err }

// PredictionError wraps a model failure that has no recovery path.
type PredictionError struct {
	Attempt Attempt
	Err     error
}

func (e *PredictionError) Error() string {
	return fmt.Sprintf("prediction failed (%s attempt): %v", e.Attempt, e.Err)
}

func (e *PredictionError) Unwrap() error { return e.Err }

// IsInputError reports whether err describes bad caller input rather than a
// model failure.
func IsInputError(err error) bool {
	var unrecognized *UnrecognizedCategoryError
	var conversion *NumericConversionError
	return errors.As(err, &unrecognized) || errors.As(err, &conversion)
}
