package output

import (
	"bytes"
	"fmt"
	"text/tabwriter"

	"github.com/jamesainslie/photoprune/pkg/photoprune/types"
)

// PlainFormatter writes tab-aligned tables without colors, one row per file.
// Every group is listed regardless of the sample size.
type PlainFormatter struct{}

// FormatPlan writes CATEGORY ACTION SIZE PATH rows followed by a total.
func (f *PlainFormatter) FormatPlan(w *bytes.Buffer, r *PlanReport) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tACTION\tSIZE\tPATH")

	if r.Plan != nil {
		for _, res := range r.Plan.Results {
			for _, g := range res.Groups {
				fmt.Fprintf(tw, "%s\tkeep\t%s\t%s\n", res.Category, g.Keep.HumanSize(), g.Keep.Path)
				for _, d := range g.Delete {
					fmt.Fprintf(tw, "%s\tdelete\t%s\t%s\n", res.Category, d.HumanSize(), d.Path)
				}
			}
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if r.Plan != nil {
		s := r.Plan.Summary()
		fmt.Fprintf(w, "\ntotal: %d files, %s\n", s.Files, types.FormatSize(s.Bytes))
	}
	return nil
}

// FormatOutcome writes a row per deleted or failed file and a summary line.
func (f *PlainFormatter) FormatOutcome(w *bytes.Buffer, r *OutcomeReport) error {
	o := r.Outcome
	if o == nil {
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintln(tw, "STATUS\tSIZE\tPATH")
	status := "deleted"
	if o.DryRun {
		status = "would-delete"
	}
	for _, a := range o.Deleted {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", status, types.FormatSize(a.Size), a.Path)
	}
	shown, hidden := truncateFailures(o.Failures, r.MaxErrors)
	for _, fl := range shown {
		fmt.Fprintf(tw, "%s\t-\t%s\n", fl.Kind, fl.Path)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if hidden > 0 {
		fmt.Fprintf(w, "... and %d more errors\n", hidden)
	}

	fmt.Fprintf(w, "\n%s: %d files, freed %s, skipped %d, failed %d\n",
		status, len(o.Deleted), types.FormatSize(o.FreedBytes), o.Skipped(), o.Failed())
	return nil
}

func init() {
	Register("plain", func() Formatter {
		return &PlainFormatter{}
	})
}

var _ Formatter = (*PlainFormatter)(nil)
