package output

import (
	"bytes"
)

// PathsFormatter prints one path per line: the files scheduled for deletion
// before confirmation and the files actually deleted afterwards.
type PathsFormatter struct {
	// sep terminates each path.
	sep byte
}

// FormatPlan writes the paths of every scheduled deletion.
func (f *PathsFormatter) FormatPlan(w *bytes.Buffer, r *PlanReport) error {
	if r.Plan == nil {
		return nil
	}
	for _, a := range r.Plan.Actions() {
		f.write(w, a.Path)
	}
	return nil
}

// FormatOutcome writes the paths that were deleted.
func (f *PathsFormatter) FormatOutcome(w *bytes.Buffer, r *OutcomeReport) error {
	if r.Outcome == nil {
		return nil
	}
	for _, a := range r.Outcome.Deleted {
		f.write(w, a.Path)
	}
	return nil
}

func (f *PathsFormatter) write(w *bytes.Buffer, path string) {
	w.WriteString(path)
	w.WriteByte(f.sep)
}

func init() {
	Register("paths", func() Formatter {
		return &PathsFormatter{sep: '\n'}
	})
	// null separates paths with NUL bytes for xargs -0.
	Register("null", func() Formatter {
		return &PathsFormatter{sep: 0}
	})
}

var _ Formatter = (*PathsFormatter)(nil)
