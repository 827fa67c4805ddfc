package output

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jamesainslie/photoprune/pkg/photoprune/classify"
	"github.com/jamesainslie/photoprune/pkg/photoprune/executor"
	"github.com/jamesainslie/photoprune/pkg/photoprune/types"
)

// maxWarnings caps the scan warnings listed under the header.
const maxWarnings = 5

// PrettyFormatter renders plans and outcomes for a terminal using lipgloss.
type PrettyFormatter struct{}

// FormatPlan writes the scan header, a sampled section per category and the
// plan total.
func (f *PrettyFormatter) FormatPlan(w *bytes.Buffer, r *PlanReport) error {
	w.WriteString(f.formatHeader(r))
	w.WriteString("\n")

	if warnings := f.formatScanWarnings(r.Scan); warnings != "" {
		w.WriteString(warnings)
		w.WriteString("\n")
	}

	if r.Plan != nil {
		for _, res := range r.Plan.Results {
			w.WriteString(f.formatResult(res, r.Sample))
			w.WriteString("\n")
		}
	}

	w.WriteString(f.formatPlanFooter(r))
	w.WriteString("\n")
	return nil
}

func (f *PrettyFormatter) formatHeader(r *PlanReport) string {
	lines := []string{
		fmt.Sprintf("%s %s", LabelStyle.Render("Root:"), ValueStyle.Render(r.Root)),
	}

	if s := r.Scan; s != nil {
		scanned := fmt.Sprintf("%s files in %s dirs (%s)",
			humanize.Comma(s.FilesScanned), humanize.Comma(s.DirsScanned), formatDuration(s.Elapsed))
		media := humanize.Comma(int64(len(s.Records)))
		lines = append(lines, fmt.Sprintf("%s %s  %s %s",
			LabelStyle.Render("Scanned:"), ValueStyle.Render(scanned),
			LabelStyle.Render("Media:"), ValueStyle.Render(media)))

		var dirs []string
		for _, sub := range s.Subdirs {
			if sub.Missing {
				dirs = append(dirs, MutedStyle.Render(sub.Name+" (missing)"))
				continue
			}
			dirs = append(dirs, fmt.Sprintf("%s %s", sub.Name, MutedStyle.Render(humanize.Comma(int64(sub.Files)))))
		}
		if len(dirs) > 1 {
			lines = append(lines, fmt.Sprintf("%s %s", LabelStyle.Render("Dirs:"), strings.Join(dirs, "  ")))
		}
	}

	if r.DryRun {
		lines = append(lines, WarningStyle.Bold(true).Render("Dry run: nothing will be deleted"))
	}

	return HeaderBox.Render(strings.Join(lines, "\n"))
}

func (f *PrettyFormatter) formatScanWarnings(s *types.ScanResult) string {
	if s == nil || len(s.Errors) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(WarningStyle.Bold(true).Render("Warnings:"))
	sb.WriteString("\n")

	shown := s.Errors
	if len(shown) > maxWarnings {
		shown = shown[:maxWarnings]
	}
	for _, e := range shown {
		sb.WriteString(WarningStyle.Render(fmt.Sprintf("  %s: %s", e.Path, e.Error)))
		sb.WriteString("\n")
	}
	if hidden := len(s.Errors) - len(shown); hidden > 0 {
		sb.WriteString(MutedStyle.Render(fmt.Sprintf("  ... and %d more", hidden)))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (f *PrettyFormatter) formatResult(res classify.Result, sample int) string {
	var sb strings.Builder

	sb.WriteString(TitleStyle.Render(res.Category.Title()))
	sb.WriteString("\n")

	if res.DeleteCount == 0 {
		sb.WriteString(MutedStyle.Render("  Nothing found"))
		sb.WriteString("\n")
		return sb.String()
	}

	noun := "groups"
	if len(res.Groups) == 1 {
		noun = "group"
	}
	sb.WriteString(fmt.Sprintf("  %s %s, %s %s\n",
		ValueStyle.Render(humanize.Comma(int64(len(res.Groups)))), noun,
		DeleteStyle.Render(humanize.Comma(int64(res.DeleteCount))+" to delete"),
		SizeStyle.Render(types.FormatSize(res.DeleteBytes))))

	if res.Category == classify.CategoryRaw {
		sb.WriteString(fmt.Sprintf("  %s %s  %s %s  %s %s\n",
			LabelStyle.Render("RAW total:"), SizeStyle.Render(types.FormatSize(res.DeleteBytes)),
			LabelStyle.Render("JPG total:"), SizeStyle.Render(types.FormatSize(res.KeepBytes)),
			LabelStyle.Render("Space to free:"), SizeStyle.Render(types.FormatSize(res.NetBytes()))))
	}

	shown, hidden := sampleGroups(res.Groups, sample)
	for _, g := range shown {
		sb.WriteString(f.formatGroup(g))
	}
	if hidden > 0 {
		sb.WriteString(MutedStyle.Render(fmt.Sprintf("  ... and %s more", humanize.Comma(int64(hidden)))))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (f *PrettyFormatter) formatGroup(g classify.Group) string {
	width := 8
	for _, m := range g.Members() {
		width = max(width, len(m.HumanSize()))
	}

	var sb strings.Builder
	sb.WriteString("  ")
	sb.WriteString(ValueStyle.Render(g.Key))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("    %s %s  %s\n",
		KeepStyle.Render("keep  "), SizeStyle.Render(padLeft(g.Keep.HumanSize(), width)), PathStyle.Render(g.Keep.Path)))
	for _, d := range g.Delete {
		sb.WriteString(fmt.Sprintf("    %s %s  %s\n",
			DeleteStyle.Render("delete"), SizeStyle.Render(padLeft(d.HumanSize(), width)), PathStyle.Render(d.Path)))
	}
	return sb.String()
}

func (f *PrettyFormatter) formatPlanFooter(r *PlanReport) string {
	if r.Plan == nil || r.Plan.Empty() {
		return FooterBox.Render(SuccessStyle.Render("No redundant files found"))
	}

	s := r.Plan.Summary()
	parts := []string{
		fmt.Sprintf("%s %s", LabelStyle.Render("To delete:"), DeleteStyle.Render(humanize.Comma(int64(s.Files))+" files")),
		fmt.Sprintf("%s %s", LabelStyle.Render("Total:"), SizeStyle.Render(types.FormatSize(s.Bytes))),
		MutedStyle.Render("Use -o paths to list every file"),
	}
	return FooterBox.Render(strings.Join(parts, "  "))
}

// FormatOutcome writes the deletion totals and the first failures.
func (f *PrettyFormatter) FormatOutcome(w *bytes.Buffer, r *OutcomeReport) error {
	o := r.Outcome
	if o == nil {
		return nil
	}

	verb := "Deleted:"
	if o.DryRun {
		verb = "Would delete:"
	}
	parts := []string{
		fmt.Sprintf("%s %s", LabelStyle.Render(verb), SuccessStyle.Render(humanize.Comma(int64(len(o.Deleted)))+" files")),
		fmt.Sprintf("%s %s", LabelStyle.Render("Freed:"), SizeStyle.Render(types.FormatSize(o.FreedBytes))),
	}
	if n := o.Skipped(); n > 0 {
		parts = append(parts, fmt.Sprintf("%s %s", LabelStyle.Render("Skipped:"), WarningStyle.Render(humanize.Comma(int64(n)))))
	}
	if n := o.Failed(); n > 0 {
		parts = append(parts, fmt.Sprintf("%s %s", LabelStyle.Render("Failed:"), ErrorStyle.Render(humanize.Comma(int64(n)))))
	}

	lines := []string{strings.Join(parts, "  ")}
	if o.Cancelled {
		lines = append(lines, WarningStyle.Bold(true).Render(
			fmt.Sprintf("Interrupted: %d of %d actions not attempted", o.Planned-len(o.Deleted)-len(o.Failures), o.Planned)))
	}
	if r.ManifestID != "" {
		lines = append(lines, fmt.Sprintf("%s %s", LabelStyle.Render("Manifest:"), MutedStyle.Render(r.ManifestID)))
	}
	w.WriteString(FooterBox.Render(strings.Join(lines, "\n")))
	w.WriteString("\n")

	if len(o.Failures) > 0 {
		w.WriteString(f.formatFailures(o.Failures, r.MaxErrors))
		w.WriteString("\n")
	}
	return nil
}

func (f *PrettyFormatter) formatFailures(failures []executor.Failure, maxErrors int) string {
	shown, hidden := truncateFailures(failures, maxErrors)

	lines := []string{ErrorStyle.Bold(true).Render("Errors:")}
	for _, fl := range shown {
		lines = append(lines, fmt.Sprintf("%s %s", WarningStyle.Render(string(fl.Kind)), fl.Error()))
	}
	if hidden > 0 {
		lines = append(lines, MutedStyle.Render(fmt.Sprintf("... and %d more errors", hidden)))
	}
	return ErrorBox.Render(strings.Join(lines, "\n"))
}

// padLeft pads a string with spaces on the left to achieve the desired width.
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// formatDuration formats a duration in a human-friendly way.
func formatDuration(d time.Duration) string {
	sec := d.Seconds()
	switch {
	case sec < 1:
		return fmt.Sprintf("%.0fms", sec*1000)
	case sec < 60:
		return fmt.Sprintf("%.1fs", sec)
	}
	minutes := int(sec) / 60
	seconds := int(sec) % 60
	if minutes < 60 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

func init() {
	Register("pretty", func() Formatter {
		return &PrettyFormatter{}
	})
}

var _ Formatter = (*PrettyFormatter)(nil)
