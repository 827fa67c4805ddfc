// Package executor carries out a deletion plan against a filesystem. Every
// per-file problem is recorded as a Failure and the batch carries on.
package executor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/afero"

	"github.com/jamesainslie/photoprune/pkg/photoprune/classify"
	"github.com/jamesainslie/photoprune/pkg/photoprune/logging"
)

var (
	// ErrVanished means the file was gone by the time it was to be deleted.
	ErrVanished = errors.New("file vanished before deletion")

	// ErrJPGMissing means a RAW was not deleted because its JPG is gone.
	ErrJPGMissing = errors.New("paired JPG missing")

	// ErrIsDirectory means the path now names a directory.
	ErrIsDirectory = errors.New("is a directory")
)

// Kind classifies a per-file failure.
type Kind string

const (
	KindVanished     Kind = "vanished"
	KindJPGMissing   Kind = "jpg_missing"
	KindRemoveFailed Kind = "remove_failed"
)

// KindOf maps an error returned by Remove to its Kind.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrVanished):
		return KindVanished
	case errors.Is(err, ErrJPGMissing):
		return KindJPGMissing
	default:
		return KindRemoveFailed
	}
}

// Failure is a recoverable per-file error. Err already names Path.
type Failure struct {
	Path string
	Kind Kind
	Err  error
}

func (f Failure) Error() string {
	return f.Err.Error()
}

func (f Failure) Unwrap() error {
	return f.Err
}

// Skipped reports whether the file was left alone on purpose rather than
// failing to delete.
func (f Failure) Skipped() bool {
	return f.Kind != KindRemoveFailed
}

// Options configures an Executor.
type Options struct {
	// DryRun decides every action but removes nothing.
	DryRun bool

	// OnAction is called after each action with its error, if any.
	OnAction func(classify.Action, error)
}

// Executor deletes files through an afero.Fs.
type Executor struct {
	fs   afero.Fs
	opts Options
	log  *logging.Logger
}

// New returns an Executor operating on fsys.
func New(fsys afero.Fs, opts Options) *Executor {
	return &Executor{
		fs:   fsys,
		opts: opts,
		log:  logging.Get("executor"),
	}
}

// DryRun reports whether the executor is in dry-run mode.
func (e *Executor) DryRun() bool {
	return e.opts.DryRun
}

// Remove deletes a single regular file. A missing file yields ErrVanished;
// anything else that stops the removal is returned wrapped.
func (e *Executor) Remove(path string) error {
	info, err := e.fs.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%s: %w", path, ErrVanished)
	case err != nil:
		return fmt.Errorf("stat %s: %w", path, err)
	case info.IsDir():
		return fmt.Errorf("%s: %w", path, ErrIsDirectory)
	}

	if e.opts.DryRun {
		return nil
	}

	if err := e.fs.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w", path, ErrVanished)
		}
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

// Execute runs actions in order. Actions with a RequirePath are skipped when
// that file no longer exists. Cancelling ctx stops before the next action.
func (e *Executor) Execute(ctx context.Context, actions []classify.Action) *Outcome {
	out := &Outcome{Planned: len(actions), DryRun: e.opts.DryRun}

	for _, a := range actions {
		if ctx.Err() != nil {
			out.Cancelled = true
			e.log.Warn("execution cancelled", "remaining", len(actions)-len(out.Deleted)-len(out.Failures))
			break
		}

		err := e.apply(a)
		if err != nil {
			f := Failure{Path: a.Path, Kind: KindOf(err), Err: err}
			out.Failures = append(out.Failures, f)
			if f.Skipped() {
				e.log.Info("skipped", "path", a.Path, "kind", f.Kind)
			} else {
				e.log.Error("delete failed", "path", a.Path, "err", err)
			}
		} else {
			out.Deleted = append(out.Deleted, a)
			out.FreedBytes += a.Size
			e.log.Debug("deleted", "path", a.Path, "category", a.Category, "dry_run", e.opts.DryRun)
		}

		if e.opts.OnAction != nil {
			e.opts.OnAction(a, err)
		}
	}

	e.log.Info("execution finished",
		"deleted", len(out.Deleted),
		"freed", out.FreedBytes,
		"failures", len(out.Failures),
		"dry_run", e.opts.DryRun,
	)
	return out
}

func (e *Executor) apply(a classify.Action) error {
	if a.RequirePath != "" {
		ok, err := afero.Exists(e.fs, a.RequirePath)
		if err != nil {
			return fmt.Errorf("%s: checking %s: %w", a.Path, a.RequirePath, err)
		}
		if !ok {
			return fmt.Errorf("%s: %w: %s", a.Path, ErrJPGMissing, a.RequirePath)
		}
	}
	return e.Remove(a.Path)
}
