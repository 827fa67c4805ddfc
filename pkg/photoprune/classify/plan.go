package classify

import (
	"iter"

	"github.com/jamesainslie/photoprune/pkg/photoprune/types"
)

// Result holds the groups of one category and their aggregates.
type Result struct {
	Category Category `json:"category" yaml:"category"`
	Groups   []Group  `json:"groups" yaml:"groups"`

	// DeleteCount is the number of delete members across all groups.
	DeleteCount int `json:"delete_count" yaml:"delete_count"`

	// DeleteBytes is the sum of the recorded sizes of the delete members.
	DeleteBytes int64 `json:"delete_bytes" yaml:"delete_bytes"`

	// KeepBytes is the sum of the recorded sizes of the kept members.
	KeepBytes int64 `json:"keep_bytes" yaml:"keep_bytes"`
}

// NetBytes is DeleteBytes minus KeepBytes. For the raw category this is the
// space freed beyond what the kept JPGs occupy.
func (r Result) NetBytes() int64 {
	return r.DeleteBytes - r.KeepBytes
}

func newResult(c Category, groups []Group) Result {
	res := Result{Category: c, Groups: groups}
	for _, g := range groups {
		res.DeleteCount += len(g.Delete)
		res.DeleteBytes += g.DeleteBytes()
		res.KeepBytes += g.Keep.Size
	}
	return res
}

// Action is one scheduled deletion.
type Action struct {
	// Path is the file to delete.
	Path string `json:"path" yaml:"path"`

	// Size is the recorded size of the file at scan time.
	Size int64 `json:"size" yaml:"size"`

	// Category is the policy that scheduled the deletion.
	Category Category `json:"category" yaml:"category"`

	// Key is the grouping key of the group the action came from.
	Key string `json:"key" yaml:"key"`

	// KeptPath is the file that survives in place of Path.
	KeptPath string `json:"kept_path" yaml:"kept_path"`

	// RequirePath, when set, must still exist at execution time or the
	// action is skipped. Raw actions require their paired JPG.
	RequirePath string `json:"require_path,omitempty" yaml:"require_path,omitempty"`
}

// Plan is the complete decision for one run.
type Plan struct {
	// Results holds one entry per enabled policy in plan order.
	Results []Result `json:"results" yaml:"results"`

	// Scanned is the number of records the plan was built from.
	Scanned int `json:"scanned" yaml:"scanned"`
}

// NewPlan builds a plan from records for the given policies. Categories are
// always laid out exact, size, raw regardless of the order of policies.
// Empty policies means all of them.
func NewPlan(records iter.Seq[types.FileRecord], policies []Category, opts Options) *Plan {
	idx := Build(records, opts)
	return idx.Plan(policies)
}

// Plan derives a plan for the given policies from the index.
func (idx *Index) Plan(policies []Category) *Plan {
	enabled := make(map[Category]bool, len(policies))
	for _, c := range policies {
		enabled[c] = true
	}

	p := &Plan{Scanned: idx.Len()}
	for _, c := range Categories {
		if len(policies) > 0 && !enabled[c] {
			continue
		}
		p.Results = append(p.Results, newResult(c, idx.Groups(c)))
	}
	return p
}

// Result returns the result for category c, if the policy was enabled.
func (p *Plan) Result(c Category) (Result, bool) {
	for _, r := range p.Results {
		if r.Category == c {
			return r, true
		}
	}
	return Result{}, false
}

// Empty reports whether no enabled policy found anything to delete.
func (p *Plan) Empty() bool {
	for _, r := range p.Results {
		if r.DeleteCount > 0 {
			return false
		}
	}
	return true
}

// Actions flattens the plan into deletions. A path scheduled by an earlier
// category is not scheduled again, so the same file is never deleted twice,
// and a file is never deleted as a copy of itself. When the JPG a RAW is
// paired with is itself scheduled, the RAW requires the copy that survives
// it instead.
func (p *Plan) Actions() []Action {
	var actions []Action
	// replacedBy maps a scheduled path to the file kept in its place.
	replacedBy := make(map[string]string)

	for _, res := range p.Results {
		for _, g := range res.Groups {
			for _, r := range g.Delete {
				if r.Path == g.Keep.Path {
					continue
				}
				if _, scheduled := replacedBy[r.Path]; scheduled {
					continue
				}

				a := Action{
					Path:     r.Path,
					Size:     r.Size,
					Category: g.Category,
					Key:      g.Key,
					KeptPath: g.Keep.Path,
				}
				if g.Category == CategoryRaw {
					a.KeptPath = survivor(replacedBy, g.Keep.Path)
					a.RequirePath = a.KeptPath
				}
				replacedBy[r.Path] = a.KeptPath
				actions = append(actions, a)
			}
		}
	}
	return actions
}

// survivor follows replacedBy from path to a file that is not scheduled.
func survivor(replacedBy map[string]string, path string) string {
	for range len(replacedBy) {
		next, ok := replacedBy[path]
		if !ok {
			return path
		}
		path = next
	}
	return path
}

// Summary is the plan total after de-duplication across categories.
type Summary struct {
	Files int   `json:"files" yaml:"files"`
	Bytes int64 `json:"bytes" yaml:"bytes"`
}

// Summary totals Actions.
func (p *Plan) Summary() Summary {
	var s Summary
	for _, a := range p.Actions() {
		s.Files++
		s.Bytes += a.Size
	}
	return s
}
