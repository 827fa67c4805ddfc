package output

import (
	"github.com/jamesainslie/photoprune/pkg/photoprune/classify"
	"github.com/jamesainslie/photoprune/pkg/photoprune/executor"
	"github.com/jamesainslie/photoprune/pkg/photoprune/types"
)

// The view types below are the document shape shared by the json and yaml
// formatters.

type planView struct {
	Root    string       `json:"root" yaml:"root"`
	DryRun  bool         `json:"dry_run" yaml:"dry_run"`
	Scan    scanView     `json:"scan" yaml:"scan"`
	Results []resultView `json:"results" yaml:"results"`
	Actions []actionView `json:"actions" yaml:"actions"`
	Summary summaryView  `json:"summary" yaml:"summary"`
}

type scanView struct {
	DirsScanned  int64              `json:"dirs_scanned" yaml:"dirs_scanned"`
	FilesScanned int64              `json:"files_scanned" yaml:"files_scanned"`
	Records      int                `json:"records" yaml:"records"`
	Elapsed      string             `json:"elapsed" yaml:"elapsed"`
	Subdirs      []types.SubdirStat `json:"subdirs,omitempty" yaml:"subdirs,omitempty"`
	Errors       []types.ScanError  `json:"errors,omitempty" yaml:"errors,omitempty"`
}

type resultView struct {
	Category    classify.Category `json:"category" yaml:"category"`
	Title       string            `json:"title" yaml:"title"`
	DeleteCount int               `json:"delete_count" yaml:"delete_count"`
	DeleteBytes int64             `json:"delete_bytes" yaml:"delete_bytes"`
	DeleteHuman string            `json:"delete_human" yaml:"delete_human"`
	KeepBytes   int64             `json:"keep_bytes" yaml:"keep_bytes"`
	Groups      []groupView       `json:"groups" yaml:"groups"`
}

type groupView struct {
	Key    string     `json:"key" yaml:"key"`
	Keep   fileView   `json:"keep" yaml:"keep"`
	Delete []fileView `json:"delete" yaml:"delete"`
}

type fileView struct {
	Path      string `json:"path" yaml:"path"`
	Size      int64  `json:"size" yaml:"size"`
	SizeHuman string `json:"size_human" yaml:"size_human"`
}

type actionView struct {
	Path        string            `json:"path" yaml:"path"`
	Size        int64             `json:"size" yaml:"size"`
	Category    classify.Category `json:"category" yaml:"category"`
	KeptPath    string            `json:"kept_path" yaml:"kept_path"`
	RequirePath string            `json:"require_path,omitempty" yaml:"require_path,omitempty"`
}

type summaryView struct {
	Files int    `json:"files" yaml:"files"`
	Bytes int64  `json:"bytes" yaml:"bytes"`
	Human string `json:"human" yaml:"human"`
}

type outcomeView struct {
	DryRun     bool          `json:"dry_run" yaml:"dry_run"`
	Cancelled  bool          `json:"cancelled" yaml:"cancelled"`
	Planned    int           `json:"planned" yaml:"planned"`
	Deleted    []actionView  `json:"deleted" yaml:"deleted"`
	FreedBytes int64         `json:"freed_bytes" yaml:"freed_bytes"`
	FreedHuman string        `json:"freed_human" yaml:"freed_human"`
	Skipped    int           `json:"skipped" yaml:"skipped"`
	Failed     int           `json:"failed" yaml:"failed"`
	Failures   []failureView `json:"failures" yaml:"failures"`
	ManifestID string        `json:"manifest_id,omitempty" yaml:"manifest_id,omitempty"`
}

type failureView struct {
	Path  string        `json:"path" yaml:"path"`
	Kind  executor.Kind `json:"kind" yaml:"kind"`
	Error string        `json:"error" yaml:"error"`
}

func newFileView(r types.FileRecord) fileView {
	return fileView{Path: r.Path, Size: r.Size, SizeHuman: types.FormatSize(r.Size)}
}

func newActionView(a classify.Action) actionView {
	return actionView{
		Path:        a.Path,
		Size:        a.Size,
		Category:    a.Category,
		KeptPath:    a.KeptPath,
		RequirePath: a.RequirePath,
	}
}

// buildPlanView lists every group; sampling applies to human formats only.
func buildPlanView(r *PlanReport) planView {
	v := planView{
		Root:    r.Root,
		DryRun:  r.DryRun,
		Results: []resultView{},
		Actions: []actionView{},
	}

	if r.Scan != nil {
		v.Scan = scanView{
			DirsScanned:  r.Scan.DirsScanned,
			FilesScanned: r.Scan.FilesScanned,
			Records:      len(r.Scan.Records),
			Elapsed:      r.Scan.Elapsed.String(),
			Subdirs:      r.Scan.Subdirs,
			Errors:       r.Scan.Errors,
		}
	}

	if r.Plan == nil {
		return v
	}

	for _, res := range r.Plan.Results {
		rv := resultView{
			Category:    res.Category,
			Title:       res.Category.Title(),
			DeleteCount: res.DeleteCount,
			DeleteBytes: res.DeleteBytes,
			DeleteHuman: types.FormatSize(res.DeleteBytes),
			KeepBytes:   res.KeepBytes,
			Groups:      make([]groupView, 0, len(res.Groups)),
		}
		for _, g := range res.Groups {
			gv := groupView{Key: g.Key, Keep: newFileView(g.Keep)}
			for _, d := range g.Delete {
				gv.Delete = append(gv.Delete, newFileView(d))
			}
			rv.Groups = append(rv.Groups, gv)
		}
		v.Results = append(v.Results, rv)
	}

	for _, a := range r.Plan.Actions() {
		v.Actions = append(v.Actions, newActionView(a))
	}

	s := r.Plan.Summary()
	v.Summary = summaryView{Files: s.Files, Bytes: s.Bytes, Human: types.FormatSize(s.Bytes)}
	return v
}

// buildOutcomeView lists every failure; truncation applies to human formats only.
func buildOutcomeView(r *OutcomeReport) outcomeView {
	o := r.Outcome
	if o == nil {
		o = &executor.Outcome{}
	}

	v := outcomeView{
		DryRun:     o.DryRun,
		Cancelled:  o.Cancelled,
		Planned:    o.Planned,
		Deleted:    make([]actionView, 0, len(o.Deleted)),
		FreedBytes: o.FreedBytes,
		FreedHuman: types.FormatSize(o.FreedBytes),
		Skipped:    o.Skipped(),
		Failed:     o.Failed(),
		Failures:   make([]failureView, 0, len(o.Failures)),
		ManifestID: r.ManifestID,
	}
	for _, a := range o.Deleted {
		v.Deleted = append(v.Deleted, newActionView(a))
	}
	for _, f := range o.Failures {
		v.Failures = append(v.Failures, failureView{Path: f.Path, Kind: f.Kind, Error: f.Err.Error()})
	}
	return v
}
