package render

import (
	"errors"
	"strconv"
	"strings"

	"golang.org/x/text/message"

	"heartrisk/ml"
	"heartrisk/patient"
)

// Verdict kinds map to alert styles.
const (
	KindAlert   = "alert"
	KindSuccess = "success"
)

// Verdict is a prediction ready for display.
type Verdict struct {
	AtRisk          bool   `json:"at_risk"`
	Kind            string `json:"kind"`
	Message         string `json:"message"`
	Probability     string `json:"probability_text,omitempty"`
	ProbabilityLine string `json:"probability_line,omitempty"`
}

// NewVerdict localizes a result. The probability line is only present when
// the model reported a probability.
func NewVerdict(p *message.Printer, result ml.Result) Verdict {
	v := Verdict{AtRisk: result.AtRisk()}
	if v.AtRisk {
		v.Kind = KindAlert
		v.Message = p.Sprintf(MsgAtRisk)
	} else {
		v.Kind = KindSuccess
		v.Message = p.Sprintf(MsgNotAtRisk)
	}
	if result.Probability != nil {
		v.Probability = FormatPercent(p, *result.Probability)
		v.ProbabilityLine = p.Sprintf(MsgProbability, v.Probability)
	}
	return v
}

// FormatPercent formats a fraction as a percentage with two decimals in the
// printer's locale, e.g. 0.82 -> "82.00%".
func FormatPercent(p *message.Printer, fraction float64) string {
	return p.Sprintf("%.2f%%", fraction*100)
}

// ErrorMessage explains err to the user. Model failures get a generic
// message; input problems name the field and what was expected.
func ErrorMessage(p *message.Printer, err error) string {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var msgs []string
		for _, e := range joined.Unwrap() {
			msgs = append(msgs, ErrorMessage(p, e))
		}
		return strings.Join(msgs, "; ")
	}

	var (
		unrecognized *ml.UnrecognizedCategoryError
		conversion   *ml.NumericConversionError
		parse        *patient.ParseError
		bounds       *patient.BoundsError
	)
	switch {
	case errors.As(err, &unrecognized):
		return p.Sprintf(MsgUnrecognized, unrecognized.Value, unrecognized.Field, "["+strings.Join(unrecognized.Options, ", ")+"]")
	case errors.As(err, &conversion):
		return p.Sprintf(MsgNotNumber, conversion.Field, conversion.Value)
	case errors.As(err, &parse):
		return p.Sprintf(MsgNotNumber, parse.Field, parse.Value)
	case errors.As(err, &bounds):
		label := bounds.Field
		if f, ok := patient.Lookup(bounds.Field); ok {
			label = p.Sprintf(f.Label)
		}
		return p.Sprintf(MsgOutOfRange, label,
			strconv.FormatFloat(bounds.Min, 'f', -1, 64), strconv.FormatFloat(bounds.Max, 'f', -1, 64))
	}
	return p.Sprintf(MsgPredictionFailed)
}

// FieldErrors maps each field named by err, or by any error joined into
// it, to its message.
func FieldErrors(p *message.Printer, err error) map[string]string {
	out := make(map[string]string)
	collectFieldErrors(p, err, out)
	return out
}

func collectFieldErrors(p *message.Printer, err error, out map[string]string) {
	if err == nil {
		return
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			collectFieldErrors(p, e, out)
		}
		return
	}
	if field := errorField(err); field != "" {
		out[field] = ErrorMessage(p, err)
	}
}

func errorField(err error) string {
	var (
		unrecognized *ml.UnrecognizedCategoryError
		conversion   *ml.NumericConversionError
		parse        *patient.ParseError
		bounds       *patient.BoundsError
	)
	switch {
	case errors.As(err, &unrecognized):
		return unrecognized.Field
	case errors.As(err, &conversion):
		return conversion.Field
	case errors.As(err, &parse):
		return parse.Field
	case errors.As(err, &bounds):
		return bounds.Field
	}
	return ""
}
