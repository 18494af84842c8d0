package render

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"heartrisk/ml"
	"heartrisk/patient"
)

func newLocalizer(t *testing.T) *Localizer {
	t.Helper()
	l, err := NewLocalizer("en", 8)
	require.NoError(t, err)
	return l
}

func probability(v float64) *float64 { return &v }

func TestVerdictAtRiskWithProbability(t *testing.T) {
	p := newLocalizer(t).Printer(language.English)

	v := NewVerdict(p, ml.Result{Class: 1, Probability: probability(0.82), Attempt: ml.AttemptDirect})

	assert.True(t, v.AtRisk)
	assert.Equal(t, KindAlert, v.Kind)
	assert.Contains(t, v.Message, "at risk")
	assert.Equal(t, "82.00%", v.Probability)
	assert.Equal(t, "Positive probability: 82.00%", v.ProbabilityLine)
}

func TestVerdictNotAtRiskWithoutProbability(t *testing.T) {
	p := newLocalizer(t).Printer(language.English)

	v := NewVerdict(p, ml.Result{Class: 0, Attempt: ml.AttemptEncoded})

	assert.False(t, v.AtRisk)
	assert.Equal(t, KindSuccess, v.Kind)
	assert.Contains(t, v.Message, "not at risk")
	assert.Empty(t, v.Probability)
	assert.Empty(t, v.ProbabilityLine)
}

func TestVerdictIndonesian(t *testing.T) {
	p := newLocalizer(t).Printer(language.Indonesian)

	v := NewVerdict(p, ml.Result{Class: 1, Probability: probability(0.5)})

	assert.Equal(t, "Pasien berisiko memiliki penyakit jantung", v.Message)
	assert.Contains(t, v.ProbabilityLine, "Probabilitas positif")
	assert.Contains(t, v.Probability, "50,00")
}

func TestFormatPercent(t *testing.T) {
	p := newLocalizer(t).Printer(language.English)

	assert.Equal(t, "0.00%", FormatPercent(p, 0))
	assert.Equal(t, "6.43%", FormatPercent(p, 0.06431))
	assert.Equal(t, "100.00%", FormatPercent(p, 1))
}

func TestLocalizerMatch(t *testing.T) {
	l := newLocalizer(t)

	assert.Equal(t, language.English, l.Match(""))
	assert.Equal(t, language.Indonesian, l.Match("", "id-ID,id;q=0.9,en;q=0.8"))
	assert.Equal(t, language.English, l.Match("", "fr-FR"))
	assert.Equal(t, language.Indonesian, l.Match("id", "en-US"))
	assert.Equal(t, language.English, l.Match("not a tag!", ""))

	before := l.CachedMatches()
	l.Match("", "id-ID,id;q=0.9,en;q=0.8")
	assert.Equal(t, before, l.CachedMatches())
}

func TestLocalizerDefault(t *testing.T) {
	l, err := NewLocalizer("id", 4)
	require.NoError(t, err)
	assert.Equal(t, language.Indonesian, l.Match("", "de"))

	_, err = NewLocalizer("fr", 4)
	assert.Error(t, err)

	_, err = NewLocalizer("!!", 4)
	assert.Error(t, err)

	_, err = NewLocalizer("en", 0)
	assert.Error(t, err)
}

func TestErrorMessages(t *testing.T) {
	p := newLocalizer(t).Printer(language.English)

	unrecognized := &ml.UnrecognizedCategoryError{Field: "ChestPainType", Value: "XYZ", Options: []string{"ASY", "ATA", "NAP", "TA"}}
	msg := ErrorMessage(p, unrecognized)
	assert.Contains(t, msg, `"XYZ"`)
	assert.Contains(t, msg, "[ASY, ATA, NAP, TA]")
	assert.Equal(t, map[string]string{"ChestPainType": msg}, FieldErrors(p, unrecognized))

	conversion := &ml.NumericConversionError{Field: "MaxHR", Value: "fast"}
	assert.Contains(t, ErrorMessage(p, conversion), `"fast"`)

	in := patient.DefaultInput()
	in.Age = 0
	in.Cholesterol = 900
	_, err := in.Build()
	require.Error(t, err)
	fieldErrs := FieldErrors(p, err)
	assert.Equal(t, "Age (years) must be between 1 and 120", fieldErrs["Age"])
	assert.Contains(t, fieldErrs, "Cholesterol")
	assert.Contains(t, ErrorMessage(p, err), "; ")

	failure := &ml.PredictionError{Attempt: ml.AttemptEncoded, Err: errors.New("boom")}
	assert.Equal(t, MsgPredictionFailed, ErrorMessage(p, failure))
	assert.Empty(t, FieldErrors(p, failure))
}

func TestPageRender(t *testing.T) {
	p := newLocalizer(t).Printer(language.English)
	in := patient.DefaultInput()
	in.ChestPainType = "NAP"

	page := NewPage(p, language.English, in)
	require.Len(t, page.Left, 6)
	require.Len(t, page.Right, 5)

	page.SetFieldErrors(map[string]string{"MaxHR": "too fast"})
	verdict := NewVerdict(p, ml.Result{Class: 1, Probability: probability(0.82)})
	page.Verdict = &verdict

	var buf bytes.Buffer
	require.NoError(t, page.Render(&buf))
	html := buf.String()

	assert.Contains(t, html, `<html lang="en">`)
	assert.Contains(t, html, `name="Age" min="1" max="120" step="1" value="50"`)
	assert.Contains(t, html, `name="Oldpeak" min="0" max="10" step="0.1" value="1.0"`)
	assert.Contains(t, html, `<option value="NAP" selected>NAP</option>`)
	assert.Contains(t, html, "too fast")
	assert.Contains(t, html, `class="alert"`)
	assert.Contains(t, html, "82.00%")
}

func TestPageRenderIndonesianLabels(t *testing.T) {
	p := newLocalizer(t).Printer(language.Indonesian)

	page := NewPage(p, language.Indonesian, patient.DefaultInput())
	var buf bytes.Buffer
	require.NoError(t, page.Render(&buf))

	assert.Contains(t, buf.String(), "Umur (tahun)")
	assert.Contains(t, buf.String(), "Prediksi Penyakit Jantung")
	assert.NotContains(t, buf.String(), "Hasil Prediksi")
}
