// Package media knows which file extensions photoprune cares about and how a
// filename splits into base name and extension.
package media

import (
	"strings"

	"github.com/jamesainslie/photoprune/pkg/photoprune/types"
)

// Class is the extension class of a file for the RAW/JPG policy.
type Class int

const (
	// ClassOther is any file that is neither RAW nor JPG.
	ClassOther Class = iota
	// ClassRaw is a camera RAW file.
	ClassRaw
	// ClassJPG is a JPEG file.
	ClassJPG
)

// String returns the lowercase name of the class.
func (c Class) String() string {
	switch c {
	case ClassRaw:
		return "raw"
	case ClassJPG:
		return "jpg"
	default:
		return "other"
	}
}

// RawExtensions are the camera RAW formats recognised by the raw policy.
var RawExtensions = []string{
	".cr2", ".nef", ".arw", ".dng", ".orf", ".raf", ".rw2", ".srw", ".x3f", ".cr3",
}

// JPGExtensions are the JPEG extensions recognised by the raw policy.
var JPGExtensions = []string{".jpg", ".jpeg"}

// DefaultExtensions are the media types considered by the exact and size
// policies.
var DefaultExtensions = []string{".jpg", ".jpeg", ".png", ".heic", ".mov", ".mp4"}

var (
	rawSet = NewExtSet(RawExtensions...)
	jpgSet = NewExtSet(JPGExtensions...)
)

// ClassOf returns the class of a lowercased extension such as ".cr2".
func ClassOf(ext string) Class {
	switch {
	case rawSet.Has(ext):
		return ClassRaw
	case jpgSet.Has(ext):
		return ClassJPG
	default:
		return ClassOther
	}
}

// ExtSet is a case-insensitive set of extensions.
type ExtSet map[string]struct{}

// NewExtSet builds a set from extensions. Each entry is lowercased and given
// a leading dot if it lacks one; empty entries are ignored.
func NewExtSet(exts ...string) ExtSet {
	set := make(ExtSet, len(exts))
	for _, ext := range exts {
		if ext = NormalizeExt(ext); ext != "" {
			set[ext] = struct{}{}
		}
	}
	return set
}

// Has reports whether ext (any case, with or without dot) is in the set.
func (s ExtSet) Has(ext string) bool {
	_, ok := s[NormalizeExt(ext)]
	return ok
}

// Union returns a new set holding the members of s and every other set.
func (s ExtSet) Union(others ...ExtSet) ExtSet {
	out := make(ExtSet, len(s))
	for ext := range s {
		out[ext] = struct{}{}
	}
	for _, o := range others {
		for ext := range o {
			out[ext] = struct{}{}
		}
	}
	return out
}

// NormalizeExt lowercases ext and ensures a single leading dot.
func NormalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// SplitName splits a filename into its lowercased base name and extension.
// The extension starts at the last dot, unless that dot is the first or the
// last character: ".hidden" and "name." have no extension.
func SplitName(filename string) (base, ext string) {
	lower := strings.ToLower(filename)
	i := strings.LastIndexByte(lower, '.')
	if i <= 0 || i == len(lower)-1 {
		return lower, ""
	}
	return lower[:i], lower[i:]
}

// NewRecord builds a FileRecord for the file at path with the given size.
// filename is the last path element as found on disk.
func NewRecord(path, filename string, size int64) types.FileRecord {
	base, ext := SplitName(filename)
	return types.FileRecord{
		Path: path,
		Name: strings.ToLower(filename),
		Base: base,
		Ext:  ext,
		Size: size,
	}
}
