// Package prune runs one photoprune pass: scan, classify, show the plan,
// confirm, delete, report and log. It only depends on small interfaces so
// the whole pipeline can run against an in-memory filesystem in tests.
package prune

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jamesainslie/photoprune/pkg/photoprune/classify"
	"github.com/jamesainslie/photoprune/pkg/photoprune/confirm"
	"github.com/jamesainslie/photoprune/pkg/photoprune/executor"
	"github.com/jamesainslie/photoprune/pkg/photoprune/logging"
	"github.com/jamesainslie/photoprune/pkg/photoprune/manifest"
	"github.com/jamesainslie/photoprune/pkg/photoprune/output"
	"github.com/jamesainslie/photoprune/pkg/photoprune/types"
)

var logger = logging.Get("prune")

// Scanner produces the records to classify.
type Scanner interface {
	Scan(ctx context.Context) (*types.ScanResult, error)
}

// Executor carries out the scheduled deletions.
type Executor interface {
	Execute(ctx context.Context, actions []classify.Action) *executor.Outcome
	DryRun() bool
}

// Recorder writes the audit log entry of a run.
type Recorder interface {
	LogDelete(root string, actions []classify.Action) (*manifest.Entry, error)
}

// Status says how far a run got.
type Status string

// Run statuses.
const (
	// StatusNothingToDo means the plan was empty; nothing was asked.
	StatusNothingToDo Status = "nothing"
	// StatusDeclined means confirmation was refused; nothing was deleted.
	StatusDeclined Status = "declined"
	// StatusCompleted means the plan was executed, possibly with failures.
	StatusCompleted Status = "completed"
	// StatusInterrupted means the context was cancelled during execution.
	StatusInterrupted Status = "interrupted"
)

// Report summarizes a run.
type Report struct {
	Status  Status
	Scan    *types.ScanResult
	Plan    *classify.Plan
	Outcome *executor.Outcome

	// ManifestID names the audit log entry, if one was written.
	ManifestID string
}

// Runner wires the stages of a run together.
type Runner struct {
	// Root is shown in reports and recorded in the manifest.
	Root string

	Scanner   Scanner
	Confirmer confirm.Confirmer
	Executor  Executor
	Formatter output.Formatter

	// Recorder is optional; nil disables the audit log.
	Recorder Recorder

	// Out receives the formatted plan and outcome.
	Out io.Writer

	// Policies selects the categories to plan. Empty means all.
	Policies []classify.Category

	// Classify configures the classifier.
	Classify classify.Options

	// Sample caps the groups listed per category by human formats.
	Sample int

	// MaxErrors caps the failures listed by human formats.
	MaxErrors int
}

// Run performs one pass. Only a failed scan, a failed write to Out or a
// failed confirmation are errors; declining and per-file failures are
// reported through the Report.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	scan, err := r.Scanner.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	logger.Info("scan complete", "records", len(scan.Records), "errors", len(scan.Errors), "elapsed", scan.Elapsed)

	plan := classify.NewPlan(scan.All(), r.Policies, r.Classify)
	report := &Report{Scan: scan, Plan: plan}

	dryRun := r.Executor.DryRun()
	if err := r.write(func(buf *bytes.Buffer) error {
		return r.Formatter.FormatPlan(buf, &output.PlanReport{
			Root:   r.Root,
			Scan:   scan,
			Plan:   plan,
			Sample: r.Sample,
			DryRun: dryRun,
		})
	}); err != nil {
		return report, err
	}

	if plan.Empty() {
		logger.Info("nothing to delete")
		report.Status = StatusNothingToDo
		return report, nil
	}

	summary := plan.Summary()
	ok, err := r.Confirmer.Confirm(ctx, confirm.Prompt{
		Files:  summary.Files,
		Bytes:  summary.Bytes,
		DryRun: dryRun,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("confirmation interrupted")
			report.Status = StatusDeclined
			return report, nil
		}
		return report, fmt.Errorf("confirmation failed: %w", err)
	}
	if !ok {
		logger.Info("deletion declined", "files", summary.Files)
		report.Status = StatusDeclined
		return report, nil
	}

	logger.Info("executing plan", "files", summary.Files, "bytes", summary.Bytes, "dry_run", dryRun)
	outcome := r.Executor.Execute(ctx, plan.Actions())
	report.Outcome = outcome
	report.Status = StatusCompleted
	if outcome.Cancelled {
		report.Status = StatusInterrupted
	}
	logger.Info("execution finished",
		"deleted", len(outcome.Deleted), "freed", outcome.FreedBytes,
		"skipped", outcome.Skipped(), "failed", outcome.Failed())

	if r.Recorder != nil && !outcome.DryRun && len(outcome.Deleted) > 0 {
		entry, err := r.Recorder.LogDelete(r.Root, outcome.Deleted)
		if err != nil {
			// The files are already gone; losing the log is not fatal.
			logger.Error("failed to write manifest", "error", err)
		} else if entry != nil {
			report.ManifestID = entry.ID
		}
	}

	err = r.write(func(buf *bytes.Buffer) error {
		return r.Formatter.FormatOutcome(buf, &output.OutcomeReport{
			Outcome:    outcome,
			MaxErrors:  r.MaxErrors,
			ManifestID: report.ManifestID,
		})
	})
	return report, err
}

func (r *Runner) write(format func(*bytes.Buffer) error) error {
	var buf bytes.Buffer
	if err := format(&buf); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	if _, err := r.Out.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
