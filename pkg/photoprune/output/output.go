// Package output renders photoprune plans and deletion outcomes in the
// formats selectable with --output (pretty, plain, json, yaml, csv, paths,
// null).
//
// The package uses a registry so the CLI can list and select formatters by
// name:
//
//	formatter, err := output.Get("pretty")
//	if err != nil {
//	    return err
//	}
//	var buf bytes.Buffer
//	if err := formatter.FormatPlan(&buf, report); err != nil {
//	    return err
//	}
package output

import (
	"bytes"
	"fmt"
	"slices"
	"sync"

	"github.com/jamesainslie/photoprune/pkg/photoprune/classify"
	"github.com/jamesainslie/photoprune/pkg/photoprune/executor"
	"github.com/jamesainslie/photoprune/pkg/photoprune/logging"
	"github.com/jamesainslie/photoprune/pkg/photoprune/types"
)

var logger = logging.Get("output")

// Default sample sizes and error list length for human formats. The CLI
// config defaults to these.
const (
	// DefaultSample is the groups shown per category when several run.
	DefaultSample = 3
	// DefaultSingleSample is the groups shown when a single policy runs.
	DefaultSingleSample = 10
	// DefaultMaxErrors is the failures listed after a run.
	DefaultMaxErrors = 5
)

// PlanReport is everything shown before confirmation.
type PlanReport struct {
	// Root is the library directory that was scanned.
	Root string

	// Scan is the scan that fed the plan.
	Scan *types.ScanResult

	// Plan is the classifier output.
	Plan *classify.Plan

	// Sample caps the groups listed per category by human formats.
	// Zero or less lists none.
	Sample int

	// DryRun marks a run that will not delete anything.
	DryRun bool
}

// OutcomeReport is everything shown after execution.
type OutcomeReport struct {
	Outcome *executor.Outcome

	// MaxErrors caps the failures listed by human formats. Zero or less
	// lists all of them.
	MaxErrors int

	// ManifestID names the audit log entry, if one was written.
	ManifestID string
}

// Formatter renders reports.
type Formatter interface {
	// FormatPlan writes the plan shown before confirmation.
	FormatPlan(w *bytes.Buffer, r *PlanReport) error

	// FormatOutcome writes the result of executing the plan.
	FormatOutcome(w *bytes.Buffer, r *OutcomeReport) error
}

// FormatterFactory is a function that creates a new Formatter instance.
type FormatterFactory func() Formatter

// Registry manages formatter registration and lookup.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]FormatterFactory
}

// NewRegistry creates a new formatter registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]FormatterFactory)}
}

// Register adds a formatter factory, replacing any with the same name.
func (r *Registry) Register(name string, factory FormatterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get returns a new formatter instance by name.
func (r *Registry) Get(name string) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		logger.Debug("unknown formatter requested", "name", name)
		return nil, fmt.Errorf("unknown output format %q (available: %v)", name, r.available())
	}
	return factory(), nil
}

// Available returns a sorted list of all registered formatter names.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.available()
}

func (r *Registry) available() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// DefaultRegistry is the global formatter registry.
var DefaultRegistry = NewRegistry()

// Register adds a formatter factory to the default registry.
func Register(name string, factory FormatterFactory) {
	DefaultRegistry.Register(name, factory)
}

// Get returns a new formatter instance from the default registry.
func Get(name string) (Formatter, error) {
	return DefaultRegistry.Get(name)
}

// Available returns all formatter names from the default registry.
func Available() []string {
	return DefaultRegistry.Available()
}

// IsHuman reports whether the named format is meant for people rather than
// programs. Human formats are followed by an interactive prompt.
func IsHuman(name string) bool {
	return name == "pretty" || name == "plain"
}

// sampleGroups returns at most n groups and the number left out.
func sampleGroups(groups []classify.Group, n int) ([]classify.Group, int) {
	if n < 0 {
		n = 0
	}
	if len(groups) <= n {
		return groups, 0
	}
	return groups[:n], len(groups) - n
}

// truncateFailures returns at most n failures and the number left out.
// n <= 0 keeps everything.
func truncateFailures(failures []executor.Failure, n int) ([]executor.Failure, int) {
	if n <= 0 || len(failures) <= n {
		return failures, 0
	}
	return failures[:n], len(failures) - n
}
