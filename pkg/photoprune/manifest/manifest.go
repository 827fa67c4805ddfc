package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/google/uuid"

	"github.com/jamesainslie/photoprune/pkg/photoprune/classify"
	"github.com/jamesainslie/photoprune/pkg/photoprune/logging"
)

var logger = logging.Get("manifest")

// ErrNotFound is returned by Get when no entry has the requested ID.
var ErrNotFound = errors.New("manifest entry not found")

// DefaultDir returns $XDG_STATE_HOME/photoprune/manifest.
func DefaultDir() string {
	return filepath.Join(xdg.StateHome, logging.AppName, "manifest")
}

// Manifest manages the entries in one directory.
type Manifest struct {
	dir string
	mu  sync.Mutex

	// now is replaced in tests.
	now func() time.Time
}

// New creates a new Manifest with the given directory.
// The directory is created on the first write.
func New(dir string) (*Manifest, error) {
	if dir == "" {
		return nil, errors.New("manifest directory cannot be empty")
	}
	return &Manifest{dir: dir, now: time.Now}, nil
}

// Dir returns the directory entries are stored in.
func (m *Manifest) Dir() string {
	return m.dir
}

// LogDelete records the actions that removed a file during a run over root.
// Nothing is written when actions is empty.
func (m *Manifest) LogDelete(root string, actions []classify.Action) (*Entry, error) {
	if len(actions) == 0 {
		return nil, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now().UTC()
	entry := &Entry{
		ID:        generateID(OpDelete, now),
		Timestamp: now,
		Operation: OpDelete,
		Root:      root,
		Files:     make([]FileRecord, 0, len(actions)),
		Summary: Summary{
			ByCategory: make(map[classify.Category]int64),
		},
	}
	for _, a := range actions {
		entry.Files = append(entry.Files, FileRecord{
			Path:      a.Path,
			Size:      a.Size,
			Category:  a.Category,
			KeptPath:  a.KeptPath,
			DeletedAt: now,
		})
		entry.Summary.TotalFiles++
		entry.Summary.TotalBytes += a.Size
		entry.Summary.ByCategory[a.Category] += a.Size
	}

	if err := m.writeEntry(entry); err != nil {
		return nil, fmt.Errorf("failed to write manifest entry: %w", err)
	}
	logger.Info("manifest written", "id", entry.ID, "files", entry.Summary.TotalFiles)
	return entry, nil
}

// writeEntry writes an entry atomically through a temp file.
func (m *Manifest) writeEntry(entry *Entry) error {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}

	path := filepath.Join(m.dir, entry.ID+".json")
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// List returns entries newest first. A limit of 0 or less returns all.
// Files that cannot be parsed are skipped.
func (m *Manifest) List(limit int) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, err := m.readAll()
	if err != nil {
		return nil, err
	}

	slices.SortFunc(entries, func(a, b Entry) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Get returns the entry with the given ID. A unique ID prefix is accepted.
func (m *Manifest) Get(id string) (*Entry, error) {
	if id == "" {
		return nil, errors.New("entry ID cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entries, err := m.readAll()
	if err != nil {
		return nil, err
	}

	var match *Entry
	for i := range entries {
		switch {
		case entries[i].ID == id:
			return &entries[i], nil
		case strings.HasPrefix(entries[i].ID, id):
			if match != nil {
				return nil, fmt.Errorf("entry ID %q is ambiguous", id)
			}
			match = &entries[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return match, nil
}

// Cleanup removes entries recorded more than retentionDays ago and returns
// how many were removed. A retention of 0 or less removes nothing.
func (m *Manifest) Cleanup(retentionDays int) (int, error) {
	if retentionDays <= 0 {
		return 0, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entries, err := m.readAll()
	if err != nil {
		return 0, err
	}

	cutoff := m.now().AddDate(0, 0, -retentionDays)
	removed := 0
	for _, e := range entries {
		if !e.Timestamp.Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(m.dir, e.ID+".json")); err != nil {
			logger.Warn("failed to remove manifest entry", "id", e.ID, "error", err)
			continue
		}
		removed++
	}
	return removed, nil
}

func (m *Manifest) readAll() ([]Entry, error) {
	files, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("failed to read manifest directory: %w", err)
	}

	entries := []Entry{}
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}
		entry, err := m.readEntryFile(f.Name())
		if err != nil {
			logger.Debug("skipping unreadable manifest file", "file", f.Name(), "error", err)
			continue
		}
		entries = append(entries, *entry)
	}
	return entries, nil
}

func (m *Manifest) readEntryFile(filename string) (*Entry, error) {
	data, err := os.ReadFile(filepath.Join(m.dir, filename))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal entry: %w", err)
	}
	if entry.ID == "" {
		return nil, errors.New("entry has no ID")
	}
	return &entry, nil
}

// generateID creates an ID like "delete-2026-01-02T15-04-05-1b4e28ba".
func generateID(op OperationType, at time.Time) string {
	return fmt.Sprintf("%s-%s-%s", op, at.Format("2006-01-02T15-04-05"), uuid.NewString()[:8])
}
