// Package render turns predictions and form state into localized output.
package render

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message/catalog"
)

// Message keys. English text doubles as the English translation.
const (
	MsgTitle            = "Heart Disease Prediction"
	MsgResult           = "Prediction Result"
	MsgSubmit           = "Predict"
	MsgAtRisk           = "The patient is at risk of heart disease"
	MsgNotAtRisk        = "The patient is likely not at risk of heart disease"
	MsgProbability      = "Positive probability: %s"
	MsgPredictionFailed = "Prediction failed, please try again later"
	MsgUnrecognized     = "Value %q in field %q is not recognized. Options: %s"
	MsgNotNumber        = "Field %q must be a number, got %q"
	MsgOutOfRange       = "%s must be between %s and %s"
)

var indonesian = map[string]string{
	MsgTitle:            "Prediksi Penyakit Jantung",
	MsgResult:           "Hasil Prediksi",
	MsgSubmit:           "Prediksi",
	MsgAtRisk:           "Pasien berisiko memiliki penyakit jantung",
	MsgNotAtRisk:        "Pasien kemungkinan tidak memiliki penyakit jantung",
	MsgProbability:      "Probabilitas positif: %s",
	MsgPredictionFailed: "Prediksi gagal, silakan coba lagi nanti",
	MsgUnrecognized:     "Nilai %q pada kolom %q tidak dikenal. Pilihan: %s",
	MsgNotNumber:        "Kolom %q harus berupa angka, bukan %q",
	MsgOutOfRange:       "%s harus di antara %s dan %s",

	"Age (years)":                     "Umur (tahun)",
	"Sex":                             "Jenis Kelamin",
	"Chest Pain Type":                 "Tipe Nyeri Dada",
	"Resting Blood Pressure (mmHg)":   "Tekanan Darah Istirahat (mmHg)",
	"Cholesterol (mg/dl)":             "Kolesterol (mg/dl)",
	"Fasting Blood Sugar > 120 mg/dl": "Gula Darah Puasa > 120 mg/dl",
	"Resting ECG Result":              "Hasil EKG Istirahat",
	"Maximum Heart Rate Achieved":     "Detak Jantung Maksimum",
	"Exercise Induced Angina":         "Angina Akibat Olahraga",
	"Oldpeak (ST Depression)":         "Oldpeak (Depresi ST)",
	"ST Slope":                        "Kemiringan ST",
}

func newCatalog() (catalog.Catalog, error) {
	builder := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, msg := range indonesian {
		if err := builder.SetString(language.Indonesian, key, msg); err != nil {
			return nil, err
		}
	}
	return builder, nil
}
