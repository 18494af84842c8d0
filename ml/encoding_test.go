package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heartrisk/patient"
)

func scenarioRecord(t *testing.T) patient.Record {
	t.Helper()
	in := patient.Input{
		Age:            50,
		Sex:            "Male",
		ChestPainType:  "ATA",
		RestingBP:      120,
		Cholesterol:    200,
		FastingBS:      "No",
		RestingECG:     "Normal",
		MaxHR:          150,
		ExerciseAngina: "No",
		Oldpeak:        1.0,
		STSlope:        "Up",
	}
	record, err := in.Build()
	require.NoError(t, err)
	return record
}

func cellValue(t *testing.T, row Row, name string) float64 {
	t.Helper()
	cell, ok := row.Get(name)
	require.True(t, ok, "missing column %s", name)
	require.True(t, cell.IsNumber(), "column %s is not numeric: %q", name, cell.String())
	return cell.Float()
}

func TestEncodeScenario(t *testing.T) {
	row := RowFromRecord(scenarioRecord(t))

	encoded, err := Encode(row)
	require.NoError(t, err)

	want := map[string]float64{
		"Age":            50,
		"Sex":            1,
		"ChestPainType":  1,
		"RestingBP":      120,
		"Cholesterol":    200,
		"FastingBS":      0,
		"RestingECG":     1,
		"MaxHR":          150,
		"ExerciseAngina": 0,
		"Oldpeak":        1.0,
		"ST_Slope":       2,
	}
	for name, v := range want {
		assert.Equal(t, v, cellValue(t, encoded, name), name)
	}

	// the input row keeps its labels
	sex, _ := row.Get("Sex")
	assert.False(t, sex.IsNumber())
	assert.Equal(t, "Male", sex.String())
}

func TestEncodeUnrecognizedCategory(t *testing.T) {
	in := scenarioRecord(t).Input()
	in.ChestPainType = "XYZ"
	record, err := in.Build()
	require.NoError(t, err)

	_, err = Encode(RowFromRecord(record))

	var unrecognized *UnrecognizedCategoryError
	require.ErrorAs(t, err, &unrecognized)
	assert.Equal(t, "ChestPainType", unrecognized.Field)
	assert.Equal(t, "XYZ", unrecognized.Value)
	assert.Equal(t, []string{"ASY", "ATA", "NAP", "TA"}, unrecognized.Options)
	assert.Contains(t, err.Error(), "XYZ")
	assert.True(t, IsInputError(err))
}

func TestEncodeEveryFormOption(t *testing.T) {
	for _, field := range patient.Fields() {
		if field.Kind != patient.KindChoice {
			continue
		}
		for _, option := range field.Options {
			row := Row{{Name: field.Name, Cell: Text(option)}}
			encoded, err := Encode(row)
			require.NoError(t, err, "%s=%s", field.Name, option)
			assert.True(t, encoded[0].Cell.IsNumber())
		}
	}
}

func TestEncodeIsIdempotent(t *testing.T) {
	once, err := Encode(RowFromRecord(scenarioRecord(t)))
	require.NoError(t, err)

	twice, err := Encode(once)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestEncodeCoercesNumericText(t *testing.T) {
	row := Row{
		{Name: "Age", Cell: Text(" 61 ")},
		{Name: "Oldpeak", Cell: Text("2.5")},
	}
	encoded, err := Encode(row)
	require.NoError(t, err)
	assert.Equal(t, 61.0, cellValue(t, encoded, "Age"))
	assert.Equal(t, 2.5, cellValue(t, encoded, "Oldpeak"))

	_, err = Encode(Row{{Name: "MaxHR", Cell: Text("fast")}})
	var conversion *NumericConversionError
	require.ErrorAs(t, err, &conversion)
	assert.Equal(t, "MaxHR", conversion.Field)
	assert.Equal(t, "fast", conversion.Value)
}

func TestEncodingTableCodesAreDense(t *testing.T) {
	table := EncodingTable()
	require.Len(t, table, 6)

	for field, codes := range table {
		seen := make(map[int]bool, len(codes))
		for label, code := range codes {
			assert.False(t, seen[code], "%s: duplicate code %d (%s)", field, code, label)
			seen[code] = true
		}
		for code := 0; code < len(codes); code++ {
			assert.True(t, seen[code], "%s: code %d unused", field, code)
		}
	}

	// callers get a copy
	table["Sex"]["Male"] = 7
	code, ok := Code("Sex", "Male")
	require.True(t, ok)
	assert.Equal(t, 1, code)
}

func TestEncodingCoversFormOptions(t *testing.T) {
	for _, name := range EncodedFields() {
		field, ok := patient.Lookup(name)
		require.True(t, ok, name)
		assert.ElementsMatch(t, field.Options, Categories(name), name)
	}
}
