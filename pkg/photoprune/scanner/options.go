// Package scanner walks the configured subdirectories of a photo library and
// returns a FileRecord for every media file it finds, in an order that is
// stable across runs on an unchanged tree.
package scanner

import (
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"slices"

	"github.com/gobwas/glob"

	"github.com/jamesainslie/photoprune/pkg/photoprune/media"
	"github.com/jamesainslie/photoprune/pkg/photoprune/types"
)

// ErrNoRoot is returned when Options.Root is empty.
var ErrNoRoot = errors.New("scanner: root directory is required")

// Options configures the scanner behavior.
type Options struct {
	// Root is the library directory, e.g. ~/Pictures.
	Root string

	// Subdirs are walked in order, relative to Root. Empty means walk Root.
	Subdirs []string

	// Extensions is the set of extensions to collect, with or without dots.
	// Empty means every RAW, JPG and default media extension.
	Extensions []string

	// Exclude holds glob patterns. A pattern matches when it matches the
	// base name or the full path of an entry; matching directories are
	// not descended into.
	Exclude []string

	// MinSize drops files smaller than this many bytes.
	MinSize int64

	// OnSubdir is called after each subdirectory has been walked.
	OnSubdir func(types.SubdirStat)
}

// DefaultExtensions returns every extension any policy can act on, sorted.
func DefaultExtensions() []string {
	set := media.NewExtSet(media.DefaultExtensions...).
		Union(media.NewExtSet(media.RawExtensions...), media.NewExtSet(media.JPGExtensions...))
	return slices.Sorted(maps.Keys(set))
}

// Validate checks the options, compiling exclude patterns.
func (o *Options) Validate() error {
	if o.Root == "" {
		return ErrNoRoot
	}
	if _, err := compileExcludes(o.Exclude); err != nil {
		return err
	}
	if o.MinSize < 0 {
		return fmt.Errorf("scanner: %w", types.ErrNegativeSize)
	}
	return nil
}

type matcher struct {
	pattern string
	glob    glob.Glob
}

func compileExcludes(patterns []string) ([]matcher, error) {
	out := make([]matcher, 0, len(patterns))
	for _, p := range patterns {
		if p == "" {
			continue
		}
		g, err := glob.Compile(p, filepath.Separator)
		if err != nil {
			return nil, fmt.Errorf("scanner: invalid exclude pattern %q: %w", p, err)
		}
		out = append(out, matcher{pattern: filepath.Clean(p), glob: g})
	}
	return out, nil
}
