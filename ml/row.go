package ml

import (
	"strconv"

	"heartrisk/patient"
)

// Cell is one model input value: either a category label or a number.
type Cell struct {
	text    string
	number  float64
	numeric bool
}

func Text(s string) Cell      { return Cell{text: s} }
func Number(v float64) Cell   { return Cell{number: v, numeric: true} }
func (c Cell) IsNumber() bool { return c.numeric }
func (c Cell) Float() float64 { return c.number }

func (c Cell) String() string {
	if c.numeric {
		return strconv.FormatFloat(c.number, 'f', -1, 64)
	}
	return c.text
}

// Column is a named cell.
type Column struct {
	Name string
	Cell Cell
}

// Row is a single-row frame in feature order.
type Row []Column

// RowFromRecord lays a record out in the column order the model was trained
// on, keeping categorical fields as their labels.
func RowFromRecord(r patient.Record) Row {
	return Row{
		{Name: patient.FieldAge, Cell: Number(float64(r.Age()))},
		{Name: patient.FieldSex, Cell: Text(r.Sex())},
		{Name: patient.FieldChestPainType, Cell: Text(r.ChestPainType())},
		{Name: patient.FieldRestingBP, Cell: Number(float64(r.RestingBP()))},
		{Name: patient.FieldCholesterol, Cell: Number(float64(r.Cholesterol()))},
		{Name: patient.FieldFastingBS, Cell: Text(r.FastingBS())},
		{Name: patient.FieldRestingECG, Cell: Text(r.RestingECG())},
		{Name: patient.FieldMaxHR, Cell: Number(float64(r.MaxHR()))},
		{Name: patient.FieldExerciseAngina, Cell: Text(r.ExerciseAngina())},
		{Name: patient.FieldOldpeak, Cell: Number(r.Oldpeak())},
		{Name: patient.FieldSTSlope, Cell: Text(r.STSlope())},
	}
}

// Get returns the cell of the named column.
func (r Row) Get(name string) (Cell, bool) {
	for _, col := range r {
		if col.Name == name {
			return col.Cell, true
		}
	}
	return Cell{}, false
}

func (r Row) index(name string) int {
	for i, col := range r {
		if col.Name == name {
			return i
		}
	}
	return -1
}

// Clone returns an independent copy of the row.
func (r Row) Clone() Row {
	return append(Row(nil), r...)
}
