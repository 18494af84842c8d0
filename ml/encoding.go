package ml

import (
	"sort"
	"strconv"
	"strings"

	"heartrisk/patient"
)

// encodingOrder is the order categorical fields are substituted in.
var encodingOrder = []string{
	patient.FieldSex,
	patient.FieldExerciseAngina,
	patient.FieldFastingBS,
	patient.FieldChestPainType,
	patient.FieldRestingECG,
	patient.FieldSTSlope,
}

var encodingTable = map[string]map[string]int{
	patient.FieldSex:            {"Female": 0, "Male": 1},
	patient.FieldExerciseAngina: {"No": 0, "Yes": 1},
	patient.FieldFastingBS:      {"No": 0, "Yes": 1},
	patient.FieldChestPainType:  {"ASY": 0, "ATA": 1, "NAP": 2, "TA": 3},
	patient.FieldRestingECG:     {"LVH": 0, "Normal": 1, "ST": 2},
	patient.FieldSTSlope:        {"Down": 0, "Flat": 1, "Up": 2},
}

// NumericFields lists the columns that must be numbers after encoding.
var NumericFields = []string{
	patient.FieldAge,
	patient.FieldRestingBP,
	patient.FieldCholesterol,
	patient.FieldMaxHR,
	patient.FieldOldpeak,
	patient.FieldSex,
	patient.FieldExerciseAngina,
	patient.FieldFastingBS,
	patient.FieldChestPainType,
	patient.FieldRestingECG,
	patient.FieldSTSlope,
}

// EncodingTable returns a copy of the label-to-code table.
func EncodingTable() map[string]map[string]int {
	out := make(map[string]map[string]int, len(encodingTable))
	for field, codes := range encodingTable {
		m := make(map[string]int, len(codes))
		for label, code := range codes {
			m[label] = code
		}
		out[field] = m
	}
	return out
}

// EncodedFields returns the categorical fields covered by the table.
func EncodedFields() []string {
	return append([]string(nil), encodingOrder...)
}

// Code returns the integer code of a label.
func Code(field, label string) (int, bool) {
	codes, ok := encodingTable[field]
	if !ok {
		return 0, false
	}
	code, ok := codes[label]
	return code, ok
}

// Categories returns the labels of a field ordered by code.
func Categories(field string) []string {
	codes := encodingTable[field]
	labels := make([]string, 0, len(codes))
	for label := range codes {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool { return codes[labels[i]] < codes[labels[j]] })
	return labels
}

// Encode substitutes category codes for labels and coerces every numeric
// field to a number. The input row is not modified. Cells that are already
// numbers pass through unchanged.
func Encode(row Row) (Row, error) {
	out := row.Clone()

	for _, field := range encodingOrder {
		i := out.index(field)
		if i < 0 || out[i].Cell.IsNumber() {
			continue
		}
		label := out[i].Cell.String()
		code, ok := Code(field, label)
		if !ok {
			return nil, &UnrecognizedCategoryError{Field: field, Value: label, Options: Categories(field)}
		}
		out[i].Cell = Number(float64(code))
	}

	for _, field := range NumericFields {
		i := out.index(field)
		if i < 0 || out[i].Cell.IsNumber() {
			continue
		}
		raw := out[i].Cell.String()
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, &NumericConversionError{Field: field, Value: raw, Err: err}
		}
		out[i].Cell = Number(v)
	}
	return out, nil
}
