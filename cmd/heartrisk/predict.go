package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"heartrisk/ml"
	"heartrisk/patient"
	"heartrisk/render"
)

var (
	predictModel string
	predictLang  string
	predictJSON  bool
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict heart disease risk for one patient",
	Long: `Runs a single prediction. Every attribute has a flag; attributes that are
not given keep the defaults of the web form.

Example:
  heartrisk predict --age 61 --sex Male --chest-pain-type ASY --st-slope Flat`,
	Args: cobra.NoArgs,
	RunE: runPredict,
}

func init() {
	defaults := patient.DefaultInput()
	for _, f := range patient.Fields() {
		var usage string
		if f.Kind == patient.KindChoice {
			usage = fmt.Sprintf("%s %v", f.Label, f.Options)
		} else {
			usage = fmt.Sprintf("%s [%g, %g]", f.Label, f.Min, f.Max)
		}
		predictCmd.Flags().String(f.Flag, defaults.Get(f.Name), usage)
	}
	predictCmd.Flags().StringVar(&predictModel, "model", "", "model artifact, overrides model.path")
	predictCmd.Flags().StringVar(&predictLang, "lang", "", "output language (en, id)")
	predictCmd.Flags().BoolVar(&predictJSON, "json", false, "print the result as JSON")
}

type predictOutput struct {
	Class       int      `json:"class"`
	Probability *float64 `json:"probability,omitempty"`
	Attempt     string   `json:"attempt"`
	render.Verdict
}

func runPredict(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if predictModel != "" {
		cfg.Model.Path = predictModel
	}
	initLogger(cfg)

	locales, err := render.NewLocalizer(cfg.Locale.Default, cfg.Locale.CacheSize)
	if err != nil {
		return err
	}
	p := locales.Printer(locales.Match(predictLang))

	in, err := inputFromFlags(cmd.Flags())
	if err != nil {
		return errors.New(render.ErrorMessage(p, err))
	}
	record, err := in.Build()
	if err != nil {
		return errors.New(render.ErrorMessage(p, err))
	}

	model, err := ml.LoadModel(cfg.Model.Path)
	if err != nil {
		logger.Error("failed to load model", zap.String("path", cfg.Model.Path), zap.Error(err))
		return err
	}
	result, err := ml.NewPredictor(model, logger).Predict(context.Background(), record)
	if err != nil {
		if !ml.IsInputError(err) {
			logger.Error("prediction failed", zap.Error(err))
		}
		return errors.New(render.ErrorMessage(p, err))
	}

	verdict := render.NewVerdict(p, result)
	out := cmd.OutOrStdout()
	if predictJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(predictOutput{
			Class:       result.Class,
			Probability: result.Probability,
			Attempt:     result.Attempt.String(),
			Verdict:     verdict,
		})
	}
	fmt.Fprintln(out, verdict.Message)
	if verdict.ProbabilityLine != "" {
		fmt.Fprintln(out, verdict.ProbabilityLine)
	}
	return nil
}

// inputFromFlags starts from the form defaults and applies every field flag.
func inputFromFlags(flags *pflag.FlagSet) (patient.Input, error) {
	in := patient.DefaultInput()
	var errs []error
	for _, f := range patient.Fields() {
		value, err := flags.GetString(f.Flag)
		if err != nil {
			return in, err
		}
		if err := in.Set(f.Name, value); err != nil {
			errs = append(errs, err)
		}
	}
	return in, errors.Join(errs...)
}
