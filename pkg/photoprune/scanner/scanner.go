package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charlievieth/fastwalk"

	"github.com/jamesainslie/photoprune/pkg/photoprune/logging"
	"github.com/jamesainslie/photoprune/pkg/photoprune/media"
	"github.com/jamesainslie/photoprune/pkg/photoprune/types"
)

// Scanner walks a photo library with fastwalk. A Scanner may be reused; each
// Scan starts from a clean slate.
type Scanner struct {
	opts     Options
	exts     media.ExtSet
	excludes []matcher
	log      *logging.Logger

	// mu guards the fields below. fastwalk runs the callback on its own
	// goroutine even with a single worker.
	mu      sync.Mutex
	records []types.FileRecord
	seen    map[string]struct{}
	errors  []types.ScanError
	dirs    int64
	files   int64
}

// New validates opts and returns a Scanner.
func New(opts Options) (*Scanner, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	excludes, err := compileExcludes(opts.Exclude)
	if err != nil {
		return nil, err
	}

	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions()
	}

	return &Scanner{
		opts:     opts,
		exts:     media.NewExtSet(exts...),
		excludes: excludes,
		log:      logging.Get("scanner"),
	}, nil
}

// Scan walks every configured subdirectory in order. Per-entry errors are
// collected in the result. When ctx is cancelled the partial result is
// returned together with ctx.Err().
func (s *Scanner) Scan(ctx context.Context) (*types.ScanResult, error) {
	start := time.Now()
	s.reset()

	root, err := validateRoot(s.opts.Root)
	if err != nil {
		return nil, err
	}

	result := &types.ScanResult{}
	for _, target := range s.targets(root) {
		if err := ctx.Err(); err != nil {
			return s.finish(result, start), err
		}

		stat, err := s.walkTarget(ctx, target)
		result.Subdirs = append(result.Subdirs, stat)
		if s.opts.OnSubdir != nil {
			s.opts.OnSubdir(stat)
		}
		if err != nil {
			return s.finish(result, start), err
		}
	}

	return s.finish(result, start), nil
}

type target struct {
	name string
	path string
}

func (s *Scanner) targets(root string) []target {
	if len(s.opts.Subdirs) == 0 {
		return []target{{name: ".", path: root}}
	}
	out := make([]target, 0, len(s.opts.Subdirs))
	for _, sub := range s.opts.Subdirs {
		out = append(out, target{name: sub, path: filepath.Join(root, sub)})
	}
	return out
}

// walkTarget walks one subdirectory and appends its records, sorted by path,
// to the scanner's record list.
func (s *Scanner) walkTarget(ctx context.Context, t target) (types.SubdirStat, error) {
	stat := types.SubdirStat{Name: t.name, Path: t.path}

	info, err := os.Stat(t.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.log.Warn("skipping missing directory", "path", t.path)
		stat.Missing = true
		return stat, nil
	case err != nil:
		s.addError(t.path, err)
		return stat, nil
	case !info.IsDir():
		s.addError(t.path, fmt.Errorf("not a directory"))
		return stat, nil
	}

	s.log.Debug("walking", "path", t.path)

	var (
		mu    sync.Mutex
		found []types.FileRecord
	)
	collect := func(r types.FileRecord) {
		mu.Lock()
		found = append(found, r)
		mu.Unlock()
	}

	conf := fastwalk.Config{
		Follow:     false,
		Sort:       fastwalk.SortLexical,
		NumWorkers: 1,
	}
	walkErr := fastwalk.Walk(&conf, t.path, s.walkCallback(ctx, t.path, collect))

	slices.SortFunc(found, func(a, b types.FileRecord) int {
		return strings.Compare(a.Path, b.Path)
	})
	stat.Files = len(found)

	s.mu.Lock()
	for _, r := range found {
		// Overlapping targets such as "." and "2014" reach the same file twice.
		if _, dup := s.seen[r.Path]; dup {
			s.log.Debug("already scanned", "path", r.Path)
			continue
		}
		s.seen[r.Path] = struct{}{}
		s.records = append(s.records, r)
	}
	s.mu.Unlock()

	if walkErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return stat, ctxErr
		}
		if !errors.Is(walkErr, fastwalk.ErrSkipFiles) {
			s.addError(t.path, walkErr)
		}
	}
	return stat, nil
}

func (s *Scanner) walkCallback(ctx context.Context, top string, collect func(types.FileRecord)) fs.WalkDirFunc {
	return func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err != nil {
			s.addError(path, err)
			return nil
		}

		if d.IsDir() {
			if path != top && s.isExcluded(path) {
				s.log.Debug("excluded directory", "path", path)
				return fastwalk.SkipDir
			}
			s.mu.Lock()
			s.dirs++
			s.mu.Unlock()
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		s.mu.Lock()
		s.files++
		s.mu.Unlock()

		_, ext := media.SplitName(d.Name())
		if !s.exts.Has(ext) || s.isExcluded(path) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			s.addError(path, err)
			return nil
		}
		if info.Size() < s.opts.MinSize {
			return nil
		}

		collect(media.NewRecord(path, d.Name(), info.Size()))
		return nil
	}
}

// isExcluded reports whether path matches any exclude pattern, either as a
// glob against the base name or full path, or as a directory prefix.
func (s *Scanner) isExcluded(path string) bool {
	base := filepath.Base(path)
	for _, m := range s.excludes {
		if path == m.pattern || strings.HasPrefix(path, m.pattern+string(filepath.Separator)) {
			return true
		}
		if m.glob.Match(base) || m.glob.Match(path) {
			return true
		}
	}
	return false
}

func (s *Scanner) addError(path string, err error) {
	s.log.Warn("scan error", "path", path, "err", err)

	s.mu.Lock()
	s.errors = append(s.errors, types.ScanError{Path: path, Error: err.Error()})
	s.mu.Unlock()
}

func (s *Scanner) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	s.seen = make(map[string]struct{})
	s.errors = nil
	s.dirs = 0
	s.files = 0
}

func (s *Scanner) finish(result *types.ScanResult, start time.Time) *types.ScanResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	result.Records = s.records
	result.Errors = s.errors
	result.DirsScanned = s.dirs
	result.FilesScanned = s.files
	result.Elapsed = time.Since(start)

	s.log.Info("scan complete",
		"records", len(result.Records),
		"dirs", result.DirsScanned,
		"files", result.FilesScanned,
		"errors", len(result.Errors),
		"elapsed", result.Elapsed,
	)
	return result
}

// validateRoot resolves root to an absolute path and checks it is a directory.
func validateRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolving root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("root %s: %w", abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("root %s: %w", abs, ErrNotDirectory)
	}
	return abs, nil
}

// ErrNotDirectory is returned when the root is not a directory.
var ErrNotDirectory = errors.New("not a directory")
