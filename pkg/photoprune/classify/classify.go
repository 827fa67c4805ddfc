// Package classify is the photoprune decision engine. It folds a stream of
// file records into immutable grouping indexes and derives keep/delete
// partitions from them under three policies:
//
//   - exact: same lowercased filename and size; the first discovered copy is kept.
//   - size:  same lowercased filename, several sizes; the largest copy is kept.
//   - raw:   a RAW and a JPG sharing a base name; the JPG is kept.
//
// Nothing in this package touches the filesystem.
package classify

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/jamesainslie/photoprune/pkg/photoprune/media"
	"github.com/jamesainslie/photoprune/pkg/photoprune/types"
)

// Category identifies the policy that produced a group.
type Category string

const (
	// CategoryExact groups files with the same name and size.
	CategoryExact Category = "exact"
	// CategorySize groups same-name files of different sizes.
	CategorySize Category = "size"
	// CategoryRaw pairs RAW files with a JPG of the same base name.
	CategoryRaw Category = "raw"
)

// Categories lists every category in plan order.
var Categories = []Category{CategoryExact, CategorySize, CategoryRaw}

// Title returns a short human description of the category.
func (c Category) Title() string {
	switch c {
	case CategoryExact:
		return "Exact duplicates (same name + size)"
	case CategorySize:
		return "Same name, different sizes (keep largest)"
	case CategoryRaw:
		return "RAW files with JPG copies"
	default:
		return string(c)
	}
}

// ParseCategory parses a policy name. Accepted aliases: "dup" for exact,
// "name" for size, "rawjpg" for raw.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "exact", "dup":
		return CategoryExact, nil
	case "size", "name":
		return CategorySize, nil
	case "raw", "rawjpg":
		return CategoryRaw, nil
	default:
		return "", fmt.Errorf("unknown policy %q: want exact, size or raw", s)
	}
}

// Group is one keep/delete decision: a single kept file and the files that
// are redundant with it.
type Group struct {
	// Category is the policy that produced the group.
	Category Category `json:"category" yaml:"category"`

	// Key is the grouping key: the lowercased filename for exact and size
	// groups, the base name for raw groups.
	Key string `json:"key" yaml:"key"`

	// Keep is the file that survives.
	Keep types.FileRecord `json:"keep" yaml:"keep"`

	// Delete holds the redundant files in decision order.
	Delete []types.FileRecord `json:"delete" yaml:"delete"`
}

// Members returns Keep followed by Delete.
func (g Group) Members() []types.FileRecord {
	out := make([]types.FileRecord, 0, len(g.Delete)+1)
	out = append(out, g.Keep)
	return append(out, g.Delete...)
}

// DeleteBytes sums the recorded sizes of the delete members.
func (g Group) DeleteBytes() int64 {
	var total int64
	for _, r := range g.Delete {
		total += r.Size
	}
	return total
}

// Options selects the record subsets each policy sees.
type Options struct {
	// Extensions are the media extensions considered by the exact and size
	// policies. Nil means media.DefaultExtensions.
	Extensions []string
}

type exactKey struct {
	name string
	size int64
}

type rawPair struct {
	raw *types.FileRecord
	jpg *types.FileRecord
}

// Index holds the grouping structures built from one pass over the records.
// It is immutable once built; every accessor derives fresh slices.
type Index struct {
	exact      map[exactKey][]types.FileRecord
	exactOrder []exactKey

	names     map[string][]types.FileRecord
	nameOrder []string

	pairs     map[string]rawPair
	pairOrder []string

	records int
}

// Build folds records into an Index in a single pass. Records are taken in
// the order the sequence yields them; that order decides which copy of an
// exact duplicate is kept and which RAW/JPG wins a pairing slot. A path is
// one file: repeats of an already folded path are ignored.
func Build(records iter.Seq[types.FileRecord], opts Options) *Index {
	exts := opts.Extensions
	if exts == nil {
		exts = media.DefaultExtensions
	}
	dupExts := media.NewExtSet(exts...)

	idx := &Index{
		exact: make(map[exactKey][]types.FileRecord),
		names: make(map[string][]types.FileRecord),
		pairs: make(map[string]rawPair),
	}
	paths := make(map[string]struct{})

	for r := range records {
		if _, dup := paths[r.Path]; dup {
			continue
		}
		paths[r.Path] = struct{}{}
		idx.records++

		if dupExts.Has(r.Ext) {
			k := exactKey{name: r.Name, size: r.Size}
			if _, ok := idx.exact[k]; !ok {
				idx.exactOrder = append(idx.exactOrder, k)
			}
			idx.exact[k] = append(idx.exact[k], r)

			if _, ok := idx.names[r.Name]; !ok {
				idx.nameOrder = append(idx.nameOrder, r.Name)
			}
			idx.names[r.Name] = append(idx.names[r.Name], r)
		}

		class := media.ClassOf(r.Ext)
		if class == media.ClassOther {
			continue
		}
		p, seen := idx.pairs[r.Base]
		if !seen {
			idx.pairOrder = append(idx.pairOrder, r.Base)
		}
		// First seen wins per slot; later variants are not considered.
		rec := r
		switch {
		case class == media.ClassRaw && p.raw == nil:
			p.raw = &rec
		case class == media.ClassJPG && p.jpg == nil:
			p.jpg = &rec
		}
		idx.pairs[r.Base] = p
	}

	return idx
}

// Len returns the number of records folded into the index.
func (idx *Index) Len() int {
	return idx.records
}

// ExactDuplicates returns every (name, size) group with two or more members.
// The first discovered member is kept.
func (idx *Index) ExactDuplicates() []Group {
	var groups []Group
	for _, k := range idx.exactOrder {
		members := idx.exact[k]
		if len(members) < 2 {
			continue
		}
		groups = append(groups, Group{
			Category: CategoryExact,
			Key:      k.name,
			Keep:     members[0],
			Delete:   slices.Clone(members[1:]),
		})
	}
	return groups
}

// SizeConflicts returns every same-name group holding more than one distinct
// size. Members are ordered largest first with ties in discovery order, and
// the largest is kept.
func (idx *Index) SizeConflicts() []Group {
	var groups []Group
	for _, name := range idx.nameOrder {
		members := idx.names[name]
		if !hasDistinctSizes(members) {
			continue
		}
		sorted := slices.Clone(members)
		slices.SortStableFunc(sorted, func(a, b types.FileRecord) int {
			switch {
			case a.Size > b.Size:
				return -1
			case a.Size < b.Size:
				return 1
			default:
				return 0
			}
		})
		groups = append(groups, Group{
			Category: CategorySize,
			Key:      name,
			Keep:     sorted[0],
			Delete:   sorted[1:],
		})
	}
	return groups
}

// RawPairs returns every base name that has both a RAW and a JPG. The JPG is
// kept and the RAW deleted.
func (idx *Index) RawPairs() []Group {
	var groups []Group
	for _, base := range idx.pairOrder {
		p := idx.pairs[base]
		if p.raw == nil || p.jpg == nil {
			continue
		}
		groups = append(groups, Group{
			Category: CategoryRaw,
			Key:      base,
			Keep:     *p.jpg,
			Delete:   []types.FileRecord{*p.raw},
		})
	}
	return groups
}

// Groups returns the groups of one category.
func (idx *Index) Groups(c Category) []Group {
	switch c {
	case CategoryExact:
		return idx.ExactDuplicates()
	case CategorySize:
		return idx.SizeConflicts()
	case CategoryRaw:
		return idx.RawPairs()
	default:
		return nil
	}
}

func hasDistinctSizes(members []types.FileRecord) bool {
	for _, r := range members[1:] {
		if r.Size != members[0].Size {
			return true
		}
	}
	return false
}
