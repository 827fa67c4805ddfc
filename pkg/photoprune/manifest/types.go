// Package manifest keeps an audit log of photoprune deletion runs: one JSON
// document per run under $XDG_STATE_HOME/photoprune/manifest. The log is
// written after deletions and only read back by the history command.
package manifest

import (
	"time"

	"github.com/jamesainslie/photoprune/pkg/photoprune/classify"
)

// OperationType represents the type of operation.
type OperationType string

// OpDelete represents a deletion run.
const OpDelete OperationType = "delete"

// Entry represents a single manifest entry.
type Entry struct {
	ID        string        `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	Operation OperationType `json:"operation"`
	Root      string        `json:"root"`
	Files     []FileRecord  `json:"files"`
	Summary   Summary       `json:"summary"`
}

// FileRecord represents a deleted file in the manifest.
type FileRecord struct {
	Path      string            `json:"path"`
	Size      int64             `json:"size"`
	Category  classify.Category `json:"category"`
	KeptPath  string            `json:"kept_path"`
	DeletedAt time.Time         `json:"deleted_at"`
}

// Summary contains operation summary.
type Summary struct {
	TotalFiles int64                       `json:"total_files"`
	TotalBytes int64                       `json:"total_bytes"`
	ByCategory map[classify.Category]int64 `json:"by_category,omitempty"`
}
