package patient

import (
	"errors"
	"fmt"
	"strconv"
)

// BoundsError reports a numeric value outside its widget range.
type BoundsError struct {
	Field string
	Value float64
	Min   float64
	Max   float64
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("field %s: value %s out of range [%s, %s]",
		e.Field, formatNumber(e.Value), formatNumber(e.Min), formatNumber(e.Max))
}

// ParseError reports a numeric field whose text is not a number.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("field %s: %q is not a number", e.Field, e.Value)
}

func (e *ParseError) Unwrap() error { return e.Err }

// BoundsErrors flattens err into the bounds violations it carries.
func BoundsErrors(err error) []*BoundsError {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []*BoundsError
		for _, e := range joined.Unwrap() {
			out = append(out, BoundsErrors(e)...)
		}
		return out
	}
	var be *BoundsError
	if errors.As(err, &be) {
		return []*BoundsError{be}
	}
	return nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// IsInputError reports whether err is a bounds or parse problem with the
// submitted values.
func IsInputError(err error) bool {
	var be *BoundsError
	var pe *ParseError
	return errors.As(err, &be) || errors.As(err, &pe)
}
