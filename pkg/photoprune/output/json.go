package output

import (
	"bytes"
	"encoding/json"
)

// JSONFormatter writes the complete plan or outcome as one indented JSON
// document. Every group and every failure is included.
type JSONFormatter struct{}

// FormatPlan writes the plan document.
func (f *JSONFormatter) FormatPlan(w *bytes.Buffer, r *PlanReport) error {
	return encodeJSON(w, buildPlanView(r))
}

// FormatOutcome writes the outcome document.
func (f *JSONFormatter) FormatOutcome(w *bytes.Buffer, r *OutcomeReport) error {
	return encodeJSON(w, buildOutcomeView(r))
}

func encodeJSON(w *bytes.Buffer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func init() {
	Register("json", func() Formatter {
		return &JSONFormatter{}
	})
}

var _ Formatter = (*JSONFormatter)(nil)
