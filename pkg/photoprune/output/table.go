package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/jamesainslie/photoprune/pkg/photoprune/types"
)

// CSVFormatter writes RFC 4180 rows with raw byte sizes for spreadsheets.
type CSVFormatter struct{}

// FormatPlan writes one row per group member.
func (f *CSVFormatter) FormatPlan(w *bytes.Buffer, r *PlanReport) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"category", "key", "action", "size", "path"}); err != nil {
		return err
	}

	if r.Plan != nil {
		for _, res := range r.Plan.Results {
			for _, g := range res.Groups {
				row := []string{string(res.Category), g.Key, "keep", strconv.FormatInt(g.Keep.Size, 10), g.Keep.Path}
				if err := writer.Write(row); err != nil {
					return err
				}
				for _, d := range g.Delete {
					row := []string{string(res.Category), g.Key, "delete", strconv.FormatInt(d.Size, 10), d.Path}
					if err := writer.Write(row); err != nil {
						return err
					}
				}
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

// FormatOutcome writes one row per deleted or failed file.
func (f *CSVFormatter) FormatOutcome(w *bytes.Buffer, r *OutcomeReport) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"status", "category", "size", "path", "error"}); err != nil {
		return err
	}

	if o := r.Outcome; o != nil {
		for _, a := range o.Deleted {
			row := []string{"deleted", string(a.Category), strconv.FormatInt(a.Size, 10), a.Path, ""}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
		for _, fl := range o.Failures {
			row := []string{string(fl.Kind), "", "", fl.Path, fl.Err.Error()}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

func init() {
	Register("csv", func() Formatter {
		return &CSVFormatter{}
	})
}

var _ Formatter = (*CSVFormatter)(nil)

// MarkdownFormatter writes GitHub-flavored Markdown tables, one per category.
type MarkdownFormatter struct{}

// FormatPlan writes a table per category and a total line.
func (f *MarkdownFormatter) FormatPlan(w *bytes.Buffer, r *PlanReport) error {
	if r.Plan == nil {
		return nil
	}
	for _, res := range r.Plan.Results {
		fmt.Fprintf(w, "## %s\n\n", escapeMarkdownPipe(res.Category.Title()))
		if len(res.Groups) == 0 {
			w.WriteString("_Nothing found._\n\n")
			continue
		}
		w.WriteString("| ACTION | SIZE | PATH |\n")
		w.WriteString("|--------|------|------|\n")
		for _, g := range res.Groups {
			fmt.Fprintf(w, "| keep | %s | %s |\n", g.Keep.HumanSize(), escapeMarkdownPipe(g.Keep.Path))
			for _, d := range g.Delete {
				fmt.Fprintf(w, "| delete | %s | %s |\n", d.HumanSize(), escapeMarkdownPipe(d.Path))
			}
		}
		w.WriteString("\n")
	}
	s := r.Plan.Summary()
	fmt.Fprintf(w, "**Total:** %d files, %s\n", s.Files, types.FormatSize(s.Bytes))
	return nil
}

// FormatOutcome writes the deleted files and failures as tables.
func (f *MarkdownFormatter) FormatOutcome(w *bytes.Buffer, r *OutcomeReport) error {
	o := r.Outcome
	if o == nil {
		return nil
	}
	fmt.Fprintf(w, "**Deleted:** %d files, %s freed\n\n", len(o.Deleted), types.FormatSize(o.FreedBytes))
	if len(o.Failures) > 0 {
		w.WriteString("| KIND | PATH | ERROR |\n")
		w.WriteString("|------|------|-------|\n")
		for _, fl := range o.Failures {
			fmt.Fprintf(w, "| %s | %s | %s |\n", fl.Kind, escapeMarkdownPipe(fl.Path), escapeMarkdownPipe(fl.Err.Error()))
		}
	}
	return nil
}

func escapeMarkdownPipe(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func init() {
	Register("markdown", func() Formatter {
		return &MarkdownFormatter{}
	})
}

var _ Formatter = (*MarkdownFormatter)(nil)
