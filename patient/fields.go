// Package patient describes the clinical input form and the record it produces.
package patient

// Field names as the model artifact knows them.
const (
	FieldAge            = "Age"
	FieldSex            = "Sex"
	FieldChestPainType  = "ChestPainType"
	FieldRestingBP      = "RestingBP"
	FieldCholesterol    = "Cholesterol"
	FieldFastingBS      = "FastingBS"
	FieldRestingECG     = "RestingECG"
	FieldMaxHR          = "MaxHR"
	FieldExerciseAngina = "ExerciseAngina"
	FieldOldpeak        = "Oldpeak"
	FieldSTSlope        = "ST_Slope"
)

// Kind is the widget type of a field.
type Kind string

const (
	KindInteger Kind = "integer"
	KindDecimal Kind = "decimal"
	KindChoice  Kind = "choice"
)

// Field describes one form widget: its bounds for numeric inputs or its
// closed option list for selectors. The first option is the default choice.
type Field struct {
	Name    string   `json:"name"`
	Label   string   `json:"label"`
	Flag    string   `json:"-"`
	Kind    Kind     `json:"kind"`
	Min     float64  `json:"min,omitempty"`
	Max     float64  `json:"max,omitempty"`
	Step    float64  `json:"step,omitempty"`
	Default float64  `json:"default,omitempty"`
	Options []string `json:"options,omitempty"`
}

// Numeric reports whether the field is a bounded number input.
func (f Field) Numeric() bool {
	return f.Kind == KindInteger || f.Kind == KindDecimal
}

var fields = []Field{
	{Name: FieldAge, Label: "Age (years)", Flag: "age", Kind: KindInteger, Min: 1, Max: 120, Step: 1, Default: 50},
	{Name: FieldSex, Label: "Sex", Flag: "sex", Kind: KindChoice, Options: []string{"Male", "Female"}},
	{Name: FieldChestPainType, Label: "Chest Pain Type", Flag: "chest-pain-type", Kind: KindChoice, Options: []string{"ATA", "NAP", "ASY", "TA"}},
	{Name: FieldRestingBP, Label: "Resting Blood Pressure (mmHg)", Flag: "resting-bp", Kind: KindInteger, Min: 0, Max: 250, Step: 1, Default: 120},
	{Name: FieldCholesterol, Label: "Cholesterol (mg/dl)", Flag: "cholesterol", Kind: KindInteger, Min: 0, Max: 600, Step: 1, Default: 200},
	{Name: FieldFastingBS, Label: "Fasting Blood Sugar > 120 mg/dl", Flag: "fasting-bs", Kind: KindChoice, Options: []string{"No", "Yes"}},
	{Name: FieldRestingECG, Label: "Resting ECG Result", Flag: "resting-ecg", Kind: KindChoice, Options: []string{"Normal", "ST", "LVH"}},
	{Name: FieldMaxHR, Label: "Maximum Heart Rate Achieved", Flag: "max-hr", Kind: KindInteger, Min: 50, Max: 250, Step: 1, Default: 150},
	{Name: FieldExerciseAngina, Label: "Exercise Induced Angina", Flag: "exercise-angina", Kind: KindChoice, Options: []string{"No", "Yes"}},
	{Name: FieldOldpeak, Label: "Oldpeak (ST Depression)", Flag: "oldpeak", Kind: KindDecimal, Min: 0, Max: 10, Step: 0.1, Default: 1.0},
	{Name: FieldSTSlope, Label: "ST Slope", Flag: "st-slope", Kind: KindChoice, Options: []string{"Up", "Flat", "Down"}},
}

// Fields returns the form definition in display order.
func Fields() []Field {
	out := make([]Field, len(fields))
	for i, f := range fields {
		f.Options = append([]string(nil), f.Options...)
		out[i] = f
	}
	return out
}

// Lookup returns the field definition with the given name.
func Lookup(name string) (Field, bool) {
	for _, f := range fields {
		if f.Name == name {
			f.Options = append([]string(nil), f.Options...)
			return f, true
		}
	}
	return Field{}, false
}

// Names returns the field names in display order, which is also the
// column order the model expects.
func Names() []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}
