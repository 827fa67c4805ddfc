package executor

import "github.com/jamesainslie/photoprune/pkg/photoprune/classify"

// Outcome is the result of executing a plan.
type Outcome struct {
	// Planned is the number of actions handed to Execute.
	Planned int

	// Deleted lists the actions that removed their file, in order. In dry-run
	// mode these are the actions that would have.
	Deleted []classify.Action

	// FreedBytes sums the recorded sizes of Deleted.
	FreedBytes int64

	// Failures lists every action that did not delete its file.
	Failures []Failure

	DryRun    bool
	Cancelled bool
}

// Skipped counts failures that left the file alone on purpose.
func (o *Outcome) Skipped() int {
	n := 0
	for _, f := range o.Failures {
		if f.Skipped() {
			n++
		}
	}
	return n
}

// Failed counts failures where removal was attempted and refused.
func (o *Outcome) Failed() int {
	return len(o.Failures) - o.Skipped()
}

// CountByKind tallies failures per kind.
func (o *Outcome) CountByKind() map[Kind]int {
	counts := make(map[Kind]int)
	for _, f := range o.Failures {
		counts[f.Kind]++
	}
	return counts
}

// FreedBy sums the freed bytes per category.
func (o *Outcome) FreedBy() map[classify.Category]int64 {
	freed := make(map[classify.Category]int64)
	for _, a := range o.Deleted {
		freed[a.Category] += a.Size
	}
	return freed
}
