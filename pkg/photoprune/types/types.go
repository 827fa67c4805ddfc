// Package types provides the core data types shared by the photoprune
// scanner, classifier and executor, along with helpers for parsing and
// formatting byte sizes.
package types

import (
	"errors"
	"fmt"
	"iter"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Size constants for binary (IEC) units.
const (
	KiB int64 = 1024
	MiB int64 = 1024 * KiB
	GiB int64 = 1024 * MiB
	TiB int64 = 1024 * GiB
)

// FileRecord is an immutable snapshot of one media file taken at scan time.
// Identity is the path; two records with the same path describe the same file.
type FileRecord struct {
	// Path is the absolute path to the file.
	Path string `json:"path" yaml:"path"`

	// Name is the lowercased filename including the extension.
	Name string `json:"name" yaml:"name"`

	// Base is the lowercased filename without its extension.
	Base string `json:"base" yaml:"base"`

	// Ext is the lowercased extension including the leading dot, or "".
	Ext string `json:"ext" yaml:"ext"`

	// Size is the file size in bytes as recorded during the scan.
	Size int64 `json:"size" yaml:"size"`
}

// HumanSize returns the recorded size formatted with FormatSize.
func (r FileRecord) HumanSize() string {
	return FormatSize(r.Size)
}

// ScanError pairs a path with the error met while scanning it.
type ScanError struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// SubdirStat describes the outcome of scanning one configured subdirectory.
type SubdirStat struct {
	// Name is the subdirectory name as configured (e.g. "2016").
	Name string `json:"name"`

	// Path is the absolute path that was walked.
	Path string `json:"path"`

	// Files is the number of matching files found under Path.
	Files int `json:"files"`

	// Missing is true when Path did not exist and was skipped.
	Missing bool `json:"missing,omitempty"`
}

// ScanResult contains the records discovered by a scan, in discovery order.
type ScanResult struct {
	// Records holds every matching file, in deterministic discovery order.
	Records []FileRecord `json:"records"`

	// Subdirs reports per-subdirectory counts in scan order.
	Subdirs []SubdirStat `json:"subdirs"`

	// DirsScanned is the number of directories traversed.
	DirsScanned int64 `json:"dirs_scanned"`

	// FilesScanned is the number of regular files examined, matching or not.
	FilesScanned int64 `json:"files_scanned"`

	// Elapsed is the wall time spent scanning.
	Elapsed time.Duration `json:"elapsed"`

	// Errors lists per-entry errors; none of them stop the scan.
	Errors []ScanError `json:"errors,omitempty"`
}

// All yields the records in discovery order.
func (r *ScanResult) All() iter.Seq[FileRecord] {
	return slices.Values(r.Records)
}

// sizePattern matches size strings like "100M", "2G", "500K", "1.5GB".
var sizePattern = regexp.MustCompile(`(?i)^([0-9]+(?:\.[0-9]+)?)\s*([KMGT]?)(?:i?B)?$`)

// ErrInvalidSize indicates that the size string could not be parsed.
var ErrInvalidSize = errors.New("invalid size format")

// ErrNegativeSize indicates that a negative size value was provided.
var ErrNegativeSize = errors.New("size cannot be negative")

// ParseSize parses a human-readable size string and returns the size in bytes.
// Unit letters K, M, G and T are binary multiples, with or without a trailing
// "B" or "iB". A bare number is a byte count. Decimal values are truncated.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidSize)
	}
	if strings.HasPrefix(s, "-") {
		return 0, ErrNegativeSize
	}

	m := sizePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	unit := "B"
	if letter := strings.ToUpper(m[2]); letter != "" {
		unit = letter + "iB"
	}

	n, err := humanize.ParseBytes(m[1] + " " + unit)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}
	return int64(n), nil
}

// sizeUnits are the units FormatSize steps through, smallest first.
var sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// FormatSize renders a byte count by dividing by 1024 until the value drops
// below 1024 or the last unit (TB) is reached, with two decimals and no space
// between value and unit: 512.00B, 1.50KB, 2.00GB.
func FormatSize(bytes int64) string {
	value := float64(bytes)
	for _, unit := range sizeUnits[:len(sizeUnits)-1] {
		if value < 1024 {
			return fmt.Sprintf("%.2f%s", value, unit)
		}
		value /= 1024
	}
	return fmt.Sprintf("%.2f%s", value, sizeUnits[len(sizeUnits)-1])
}
