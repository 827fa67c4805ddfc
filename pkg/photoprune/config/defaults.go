// Package config provides configuration management for photoprune. Settings
// come from command-line flags and PHOTOPRUNE_* environment variables; no
// config file is read.
package config

import "github.com/jamesainslie/photoprune/pkg/photoprune/output"

// Default configuration values for photoprune.
const (
	// DefaultRoot is the library scanned when no root is given.
	DefaultRoot = "~/Pictures"

	// DefaultYears is the year range scanned under the root.
	DefaultYears = "2014-2018"

	// DefaultOutput is the output format.
	DefaultOutput = "pretty"

	// DefaultPrompt selects the confirmation prompt.
	DefaultPrompt = PromptAuto

	// DefaultMaxErrors is the number of failures listed after a run.
	DefaultMaxErrors = output.DefaultMaxErrors

	// DefaultRetentionDays is the default number of days to retain manifests.
	DefaultRetentionDays = 30

	// DefaultLogLevel is the log file level.
	DefaultLogLevel = "info"
)

// Prompt modes.
const (
	PromptAuto = "auto"
	PromptTUI  = "tui"
	PromptLine = "line"
)

// DefaultPolicies enables every policy.
var DefaultPolicies = []string{"exact", "size", "raw"}
