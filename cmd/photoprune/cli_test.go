package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/photoprune/cmd/photoprune/tui"
	"github.com/jamesainslie/photoprune/pkg/photoprune/config"
	"github.com/jamesainslie/photoprune/pkg/photoprune/confirm"
	"github.com/jamesainslie/photoprune/pkg/photoprune/manifest"
)

// testEnv points the log file and the history at a temp dir and returns
// the manifest directory.
func testEnv(t *testing.T) string {
	t.Helper()
	state := t.TempDir()
	manifestDir := filepath.Join(state, "manifest")
	t.Setenv("PHOTOPRUNE_LOG_FILE", filepath.Join(state, "photoprune.log"))
	t.Setenv("PHOTOPRUNE_MANIFEST_DIR", manifestDir)
	return manifestDir
}

// writeLibrary creates a library with one redundant file per policy.
func writeLibrary(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]int{
		"2014/a.jpg": 100,
		"2015/a.jpg": 100,
		"2014/b.jpg": 200,
		"2015/b.jpg": 500,
		"2016/c.cr2": 1000,
		"2016/c.jpg": 300,
	}
	for rel, size := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte{'x'}, size), 0o644))
	}
	return root
}

type result struct {
	stdout string
	stderr string
	err    error
}

func run(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestRun_YesDeletesAndRecords(t *testing.T) {
	manifestDir := testEnv(t)
	root := writeLibrary(t)

	res := run(t, "", root, "--years", "2014-2016", "--yes", "-o", "paths")
	require.NoError(t, res.err, res.stderr)

	deleted := []string{"2015/a.jpg", "2014/b.jpg", "2016/c.cr2"}
	kept := []string{"2014/a.jpg", "2015/b.jpg", "2016/c.jpg"}
	for _, rel := range deleted {
		path := filepath.Join(root, filepath.FromSlash(rel))
		assert.False(t, exists(path), "%s should be deleted", rel)
		assert.Contains(t, res.stdout, path)
	}
	for _, rel := range kept {
		assert.True(t, exists(filepath.Join(root, filepath.FromSlash(rel))), "%s should be kept", rel)
	}

	m, err := manifest.New(manifestDir)
	require.NoError(t, err)
	entries, err := m.List(0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(3), entries[0].Summary.TotalFiles)
	assert.Equal(t, int64(1300), entries[0].Summary.TotalBytes)
	assert.Equal(t, root, entries[0].Root)
}

func TestRun_DryRunKeepsEverything(t *testing.T) {
	manifestDir := testEnv(t)
	root := writeLibrary(t)

	res := run(t, "", root, "--years", "2014-2016", "--yes", "--dry-run", "-o", "plain")
	require.NoError(t, res.err, res.stderr)

	assert.True(t, exists(filepath.Join(root, "2015", "a.jpg")))
	assert.True(t, exists(filepath.Join(root, "2016", "c.cr2")))

	m, err := manifest.New(manifestDir)
	require.NoError(t, err)
	entries, err := m.List(0)
	require.NoError(t, err)
	assert.Empty(t, entries, "dry runs are not recorded")
}

func TestRun_DeclinedLinePrompt(t *testing.T) {
	testEnv(t)
	root := writeLibrary(t)

	res := run(t, "n\n", root, "--years", "2014-2016", "--prompt", "line", "-o", "plain")
	require.NoError(t, res.err)

	assert.Contains(t, res.stderr, "(y/N)")
	assert.Contains(t, res.stderr, "Aborted. No files were deleted.")
	assert.True(t, exists(filepath.Join(root, "2015", "a.jpg")))
	assert.True(t, exists(filepath.Join(root, "2016", "c.cr2")))
}

func TestRun_ConfirmedLinePrompt(t *testing.T) {
	testEnv(t)
	root := writeLibrary(t)

	res := run(t, "yes\n", root, "--years", "2016", "--policy", "raw", "-o", "plain", "--no-manifest")
	require.NoError(t, res.err, res.stderr)

	assert.False(t, exists(filepath.Join(root, "2016", "c.cr2")))
	assert.True(t, exists(filepath.Join(root, "2016", "c.jpg")))
	assert.True(t, exists(filepath.Join(root, "2015", "a.jpg")), "other years are not scanned")
}

func TestRun_EnvironmentSelectsYears(t *testing.T) {
	testEnv(t)
	root := writeLibrary(t)
	t.Setenv("PHOTOPRUNE_YEARS", "2016")
	t.Setenv("PHOTOPRUNE_YES", "true")

	res := run(t, "", root, "-o", "paths", "--no-manifest")
	require.NoError(t, res.err, res.stderr)

	assert.False(t, exists(filepath.Join(root, "2016", "c.cr2")))
	assert.True(t, exists(filepath.Join(root, "2015", "a.jpg")))
}

func TestRun_RootErrors(t *testing.T) {
	testEnv(t)
	dir := t.TempDir()
	file := filepath.Join(dir, "file.jpg")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	res := run(t, "", file, "--yes")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "not a directory")

	res = run(t, "", filepath.Join(dir, "missing"), "--yes")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "does not exist")
}

func TestRun_InvalidFlags(t *testing.T) {
	testEnv(t)
	root := t.TempDir()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"policy", []string{"--policy", "hash"}, "unknown policy"},
		{"years", []string{"--years", "2018-2014"}, "invalid year range"},
		{"output", []string{"--output", "xml"}, "xml"},
		{"prompt", []string{"--prompt", "gui"}, "invalid prompt"},
		{"min size", []string{"--min-size", "lots"}, "invalid min size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, "", append([]string{root, "--yes"}, tt.args...)...)
			require.Error(t, res.err)
			assert.Contains(t, res.err.Error(), tt.want)
		})
	}
}

func TestFlagsBindToConfig(t *testing.T) {
	t.Setenv("PHOTOPRUNE_MAX_ERRORS", "9")
	t.Setenv("PHOTOPRUNE_SAMPLE", "4")

	cmd := &cobra.Command{Use: "test"}
	v := config.New()
	addRootFlags(cmd, v)
	require.NoError(t, cmd.ParseFlags([]string{
		"-y", "2016,2018", "-p", "raw", "--min-size", "1M", "--dry-run", "--sample", "7", "-e", "*.tmp",
	}))

	cfg, err := config.Load(v)
	require.NoError(t, err)

	subdirs, err := cfg.Subdirs()
	require.NoError(t, err)
	assert.Equal(t, []string{"2016", "2018"}, subdirs)

	minSize, err := cfg.MinSizeBytes()
	require.NoError(t, err)
	assert.Equal(t, int64(1024*1024), minSize)

	assert.Equal(t, []string{"raw"}, cfg.Policy)
	assert.True(t, cfg.DryRun)
	assert.Equal(t, 7, cfg.Sample, "flag wins over environment")
	assert.Equal(t, 9, cfg.MaxErrors, "environment wins over default")
	assert.Equal(t, []string{"*.tmp"}, cfg.Exclude)
	assert.Equal(t, config.DefaultOutput, cfg.Output)
}

func TestNewConfirmer(t *testing.T) {
	orig := isTerminal
	t.Cleanup(func() { isTerminal = orig })

	tests := []struct {
		name     string
		cfg      config.Config
		terminal bool
		want     any
	}{
		{"yes", config.Config{Yes: true, Prompt: config.PromptTUI}, true, confirm.Fixed(true)},
		{"auto terminal", config.Config{Prompt: config.PromptAuto, Output: "pretty"}, true, &tui.Confirmer{}},
		{"auto pipe", config.Config{Prompt: config.PromptAuto, Output: "pretty"}, false, &confirm.Line{}},
		{"auto machine output", config.Config{Prompt: config.PromptAuto, Output: "json"}, true, &confirm.Line{}},
		{"forced tui", config.Config{Prompt: config.PromptTUI, Output: "json"}, false, &tui.Confirmer{}},
		{"forced line", config.Config{Prompt: config.PromptLine, Output: "pretty"}, true, &confirm.Line{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isTerminal = func(any) bool { return tt.terminal }
			got := newConfirmer(&tt.cfg, strings.NewReader(""), &bytes.Buffer{})
			assert.IsType(t, tt.want, got)
		})
	}
}

func TestHistoryCommands(t *testing.T) {
	manifestDir := testEnv(t)

	res := run(t, "", "history")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "No history entries found.")

	root := writeLibrary(t)
	res = run(t, "", root, "--years", "2014-2016", "--yes", "-o", "paths")
	require.NoError(t, res.err, res.stderr)

	m, err := manifest.New(manifestDir)
	require.NoError(t, err)
	entries, err := m.List(0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	id := entries[0].ID

	res = run(t, "", "history")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, id)
	assert.Contains(t, res.stdout, "Showing 1 of 1 entries.")

	res = run(t, "", "history", "show", id[:len(id)-4])
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "ID:         "+id)
	assert.Contains(t, res.stdout, filepath.Join(root, "2016", "c.cr2"))
	assert.Contains(t, res.stdout, "kept "+filepath.Join(root, "2016", "c.jpg"))

	res = run(t, "", "history", "show", "delete-1999")
	require.Error(t, res.err)
	assert.ErrorIs(t, res.err, manifest.ErrNotFound)

	res = run(t, "", "history", "clean")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Removed 0 entries.")
}

func TestConfigCommands(t *testing.T) {
	manifestDir := testEnv(t)
	t.Setenv("PHOTOPRUNE_YEARS", "2016-2017")

	res := run(t, "", "config", "show")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "subdirs:")
	assert.Contains(t, res.stdout, "2017")
	assert.Contains(t, res.stdout, "PHOTOPRUNE_YEARS=2016-2017")
	assert.Contains(t, res.stdout, "dir: "+manifestDir)

	res = run(t, "", "config", "path")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "history:  "+manifestDir)
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "PHOTOPRUNE_MIN_SIZE", envName(config.KeyMinSize))
	assert.Equal(t, "PHOTOPRUNE_MANIFEST_RETENTION_DAYS", envName(config.KeyRetentionDays))
}

func TestVersionCommand(t *testing.T) {
	res := run(t, "", "version")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "photoprune dev")
}
