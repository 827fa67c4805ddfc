package output

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// YAMLFormatter writes the same documents as JSONFormatter in YAML.
type YAMLFormatter struct{}

// FormatPlan writes the plan document.
func (f *YAMLFormatter) FormatPlan(w *bytes.Buffer, r *PlanReport) error {
	return encodeYAML(w, buildPlanView(r))
}

// FormatOutcome writes the outcome document.
func (f *YAMLFormatter) FormatOutcome(w *bytes.Buffer, r *OutcomeReport) error {
	return encodeYAML(w, buildOutcomeView(r))
}

func encodeYAML(w *bytes.Buffer, v any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return err
	}
	return encoder.Close()
}

func init() {
	Register("yaml", func() Formatter {
		return &YAMLFormatter{}
	})
}

var _ Formatter = (*YAMLFormatter)(nil)
