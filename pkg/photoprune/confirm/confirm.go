// Package confirm asks the user whether a deletion plan may go ahead.
// Anything short of an explicit yes is a no.
package confirm

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jamesainslie/photoprune/pkg/photoprune/types"
)

// Prompt describes what is about to happen.
type Prompt struct {
	// Files is the number of files that will be deleted.
	Files int

	// Bytes is the recorded size of those files.
	Bytes int64

	// DryRun is set when nothing will actually be removed.
	DryRun bool
}

// Question renders the prompt as a single line without the answer hint.
func (p Prompt) Question() string {
	verb := "Delete"
	if p.DryRun {
		verb = "Simulate deleting"
	}
	noun := "files"
	if p.Files == 1 {
		noun = "file"
	}
	return fmt.Sprintf("%s %d %s (%s)?", verb, p.Files, noun, types.FormatSize(p.Bytes))
}

// Confirmer asks for permission to proceed.
type Confirmer interface {
	Confirm(ctx context.Context, p Prompt) (bool, error)
}

// Func adapts a function to the Confirmer interface.
type Func func(ctx context.Context, p Prompt) (bool, error)

// Confirm calls f.
func (f Func) Confirm(ctx context.Context, p Prompt) (bool, error) {
	return f(ctx, p)
}

// Fixed always gives the same answer without asking.
type Fixed bool

// Confirm returns the fixed answer.
func (f Fixed) Confirm(context.Context, Prompt) (bool, error) {
	return bool(f), nil
}

// Affirmative reports whether answer means yes: "y" or "yes" in any case.
func Affirmative(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// Line asks on a text stream and reads one line of reply.
//
// A Line is meant for a single question per process. When ctx is cancelled
// Confirm returns at once, but the goroutine blocked reading the reply keeps
// the reader until a line arrives or the stream closes.
type Line struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLine returns a Line prompting on out and reading from in.
func NewLine(in io.Reader, out io.Writer) *Line {
	return &Line{in: bufio.NewReader(in), out: out}
}

type lineResult struct {
	answer string
	err    error
}

// Confirm writes the question with a (y/N) hint and reads the reply. EOF
// without an answer is a no. Cancelling ctx returns ctx.Err(); the pending
// read is abandoned.
func (l *Line) Confirm(ctx context.Context, p Prompt) (bool, error) {
	if _, err := fmt.Fprintf(l.out, "%s (y/N) ", p.Question()); err != nil {
		return false, fmt.Errorf("writing prompt: %w", err)
	}

	done := make(chan lineResult, 1)
	go func() {
		answer, err := l.in.ReadString('\n')
		done <- lineResult{answer: answer, err: err}
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case res := <-done:
		if res.err != nil && !errors.Is(res.err, io.EOF) {
			return false, fmt.Errorf("reading answer: %w", res.err)
		}
		return Affirmative(res.answer), nil
	}
}

var (
	_ Confirmer = (*Line)(nil)
	_ Confirmer = Fixed(false)
	_ Confirmer = Func(nil)
)
