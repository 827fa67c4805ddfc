package main

import (
	"fmt"
	"maps"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/photoprune/pkg/photoprune/classify"
	"github.com/jamesainslie/photoprune/pkg/photoprune/config"
	"github.com/jamesainslie/photoprune/pkg/photoprune/executor"
	"github.com/jamesainslie/photoprune/pkg/photoprune/logging"
	"github.com/jamesainslie/photoprune/pkg/photoprune/manifest"
	"github.com/jamesainslie/photoprune/pkg/photoprune/media"
	"github.com/jamesainslie/photoprune/pkg/photoprune/output"
	"github.com/jamesainslie/photoprune/pkg/photoprune/prune"
	"github.com/jamesainslie/photoprune/pkg/photoprune/scanner"
	"github.com/jamesainslie/photoprune/pkg/photoprune/types"
)

// runPrune is the main command handler.
func runPrune(cmd *cobra.Command, v *viper.Viper) error {
	cfg, err := loadConfig(v)
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	if err := initLogging(cfg, stderr); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer func() { _ = logging.Close() }()
	log := logging.Get("cli")

	formatter, err := output.Get(cfg.Output)
	if err != nil {
		return err
	}

	root, err := resolveRoot(cfg.Root)
	if err != nil {
		return err
	}

	subdirs, err := cfg.Subdirs()
	if err != nil {
		return err
	}
	policies, err := cfg.Policies()
	if err != nil {
		return err
	}
	if len(policies) == 0 {
		policies = classify.Categories
	}
	minSize, err := cfg.MinSizeBytes()
	if err != nil {
		return err
	}

	s, err := scanner.New(scanner.Options{
		Root:       root,
		Subdirs:    subdirs,
		Extensions: scanExtensions(cfg.Extensions(), policies),
		Exclude:    cfg.Exclude,
		MinSize:    minSize,
		OnSubdir: func(st types.SubdirStat) {
			log.Debug("subdirectory scanned", "name", st.Name, "files", st.Files, "missing", st.Missing)
		},
	})
	if err != nil {
		return err
	}

	var recorder prune.Recorder
	if !cfg.NoManifest && !cfg.DryRun {
		m, err := manifest.New(cfg.Manifest.Dir)
		if err != nil {
			return fmt.Errorf("failed to initialize manifest: %w", err)
		}
		recorder = m
	}

	runner := &prune.Runner{
		Root:      root,
		Scanner:   s,
		Confirmer: newConfirmer(cfg, cmd.InOrStdin(), stderr),
		Executor:  executor.New(afero.NewOsFs(), executor.Options{DryRun: cfg.DryRun}),
		Formatter: formatter,
		Recorder:  recorder,
		Out:       cmd.OutOrStdout(),
		Policies:  policies,
		Classify:  classify.Options{Extensions: cfg.Extensions()},
		Sample:    cfg.SampleSize(len(policies)),
		MaxErrors: cfg.MaxErrors,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting run", "root", root, "subdirs", subdirs, "policies", policies, "dry_run", cfg.DryRun)
	report, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	human := output.IsHuman(cfg.Output)
	switch report.Status {
	case prune.StatusDeclined:
		printInfo(stderr, cfg.Quiet || !human, "Aborted. No files were deleted.")
	case prune.StatusInterrupted:
		printInfo(stderr, cfg.Quiet, "Interrupted. Remaining files were left in place.")
	}
	return nil
}

// resolveRoot makes root absolute and checks that it is a directory.
func resolveRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("path does not exist: %s", abs)
		}
		return "", fmt.Errorf("cannot access path: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("path is not a directory: %s", abs)
	}
	return abs, nil
}

// scanExtensions returns what the scanner must collect: the media
// extensions, plus RAW and JPG files when the raw policy runs.
func scanExtensions(exts []string, policies []classify.Category) []string {
	set := media.NewExtSet(exts...)
	for _, p := range policies {
		if p == classify.CategoryRaw {
			set = set.Union(media.NewExtSet(media.RawExtensions...), media.NewExtSet(media.JPGExtensions...))
		}
	}
	return slices.Sorted(maps.Keys(set))
}
