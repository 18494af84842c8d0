package patient

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Input holds the raw values of one form submission. The struct tags are
// shared by the HTML form decoder and the JSON API.
type Input struct {
	Age            int     `schema:"Age" json:"Age"`
	Sex            string  `schema:"Sex" json:"Sex"`
	ChestPainType  string  `schema:"ChestPainType" json:"ChestPainType"`
	RestingBP      int     `schema:"RestingBP" json:"RestingBP"`
	Cholesterol    int     `schema:"Cholesterol" json:"Cholesterol"`
	FastingBS      string  `schema:"FastingBS" json:"FastingBS"`
	RestingECG     string  `schema:"RestingECG" json:"RestingECG"`
	MaxHR          int     `schema:"MaxHR" json:"MaxHR"`
	ExerciseAngina string  `schema:"ExerciseAngina" json:"ExerciseAngina"`
	Oldpeak        float64 `schema:"Oldpeak" json:"Oldpeak"`
	STSlope        string  `schema:"ST_Slope" json:"ST_Slope"`
}

// DefaultInput returns the values the form shows before the user touches it.
func DefaultInput() Input {
	in := Input{}
	for _, f := range fields {
		if f.Numeric() {
			_ = in.Set(f.Name, strconv.FormatFloat(f.Default, 'f', -1, 64))
			continue
		}
		_ = in.Set(f.Name, f.Options[0])
	}
	return in
}

// Get returns the value of a field formatted for display.
func (in Input) Get(name string) string {
	switch name {
	case FieldAge:
		return strconv.Itoa(in.Age)
	case FieldSex:
		return in.Sex
	case FieldChestPainType:
		return in.ChestPainType
	case FieldRestingBP:
		return strconv.Itoa(in.RestingBP)
	case FieldCholesterol:
		return strconv.Itoa(in.Cholesterol)
	case FieldFastingBS:
		return in.FastingBS
	case FieldRestingECG:
		return in.RestingECG
	case FieldMaxHR:
		return strconv.Itoa(in.MaxHR)
	case FieldExerciseAngina:
		return in.ExerciseAngina
	case FieldOldpeak:
		return formatDecimal(in.Oldpeak)
	case FieldSTSlope:
		return in.STSlope
	}
	return ""
}

// formatDecimal keeps every digit of v but always shows one decimal place,
// so 1 reads "1.0" and 1.25 stays "1.25".
func formatDecimal(v float64) string {
	text := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(text, ".eEnN") {
		text += ".0"
	}
	return text
}

// Set parses value into the named field. Selector values are stored as is;
// only numeric fields can fail to parse.
func (in *Input) Set(name, value string) error {
	value = strings.TrimSpace(value)
	parseInt := func(dst *int) error {
		v, err := strconv.Atoi(value)
		if err != nil {
			return &ParseError{Field: name, Value: value, Err: err}
		}
		*dst = v
		return nil
	}

	switch name {
	case FieldAge:
		return parseInt(&in.Age)
	case FieldSex:
		in.Sex = value
	case FieldChestPainType:
		in.ChestPainType = value
	case FieldRestingBP:
		return parseInt(&in.RestingBP)
	case FieldCholesterol:
		return parseInt(&in.Cholesterol)
	case FieldFastingBS:
		in.FastingBS = value
	case FieldRestingECG:
		in.RestingECG = value
	case FieldMaxHR:
		return parseInt(&in.MaxHR)
	case FieldExerciseAngina:
		in.ExerciseAngina = value
	case FieldOldpeak:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return &ParseError{Field: name, Value: value, Err: err}
		}
		in.Oldpeak = v
	case FieldSTSlope:
		in.STSlope = value
	default:
		return fmt.Errorf("unknown field %q", name)
	}
	return nil
}

// Build checks the numeric widget bounds and freezes the input into a Record.
// Every out-of-range field is reported; the returned error joins one
// *BoundsError per field.
func (in Input) Build() (Record, error) {
	numbers := map[string]float64{
		FieldAge:         float64(in.Age),
		FieldRestingBP:   float64(in.RestingBP),
		FieldCholesterol: float64(in.Cholesterol),
		FieldMaxHR:       float64(in.MaxHR),
		FieldOldpeak:     in.Oldpeak,
	}

	var errs []error
	for _, f := range fields {
		if !f.Numeric() {
			continue
		}
		v := numbers[f.Name]
		if math.IsNaN(v) || v < f.Min || v > f.Max {
			errs = append(errs, &BoundsError{Field: f.Name, Value: v, Min: f.Min, Max: f.Max})
		}
	}
	if len(errs) > 0 {
		return Record{}, errors.Join(errs...)
	}

	return Record{
		age:            in.Age,
		sex:            in.Sex,
		chestPainType:  in.ChestPainType,
		restingBP:      in.RestingBP,
		cholesterol:    in.Cholesterol,
		fastingBS:      in.FastingBS,
		restingECG:     in.RestingECG,
		maxHR:          in.MaxHR,
		exerciseAngina: in.ExerciseAngina,
		oldpeak:        in.Oldpeak,
		stSlope:        in.STSlope,
	}, nil
}

// Record is one validated submission. It is immutable: fields are only
// reachable through accessors.
type Record struct {
	age            int
	sex            string
	chestPainType  string
	restingBP      int
	cholesterol    int
	fastingBS      string
	restingECG     string
	maxHR          int
	exerciseAngina string
	oldpeak        float64
	stSlope        string
}

func (r Record) Age() int               { return r.age }
func (r Record) Sex() string            { return r.sex }
func (r Record) ChestPainType() string  { return r.chestPainType }
func (r Record) RestingBP() int         { return r.restingBP }
func (r Record) Cholesterol() int       { return r.cholesterol }
func (r Record) FastingBS() string      { return r.fastingBS }
func (r Record) RestingECG() string     { return r.restingECG }
func (r Record) MaxHR() int             { return r.maxHR }
func (r Record) ExerciseAngina() string { return r.exerciseAngina }
func (r Record) Oldpeak() float64       { return r.oldpeak }
func (r Record) STSlope() string        { return r.stSlope }

// Input returns a mutable copy of the record's values.
func (r Record) Input() Input {
	return Input{
		Age:            r.age,
		Sex:            r.sex,
		ChestPainType:  r.chestPainType,
		RestingBP:      r.restingBP,
		Cholesterol:    r.cholesterol,
		FastingBS:      r.fastingBS,
		RestingECG:     r.restingECG,
		MaxHR:          r.maxHR,
		ExerciseAngina: r.exerciseAngina,
		Oldpeak:        r.oldpeak,
		STSlope:        r.stSlope,
	}
}
