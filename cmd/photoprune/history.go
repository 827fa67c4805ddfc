package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/photoprune/pkg/photoprune/config"
	"github.com/jamesainslie/photoprune/pkg/photoprune/manifest"
	"github.com/jamesainslie/photoprune/pkg/photoprune/types"
)

// showFilesLimit caps the files listed by history show.
const showFilesLimit = 50

func newHistoryCmd(v *viper.Viper) *cobra.Command {
	var limit int

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "View deletion history",
		Long: `View the history of deletion runs.

Every run that deletes files records which files were removed, their sizes,
the policy that chose them and the copy that was kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, _, err := getManifest(v)
			if err != nil {
				return err
			}
			return runHistory(cmd.OutOrStdout(), m, limit)
		},
	}
	historyCmd.Flags().IntVarP(&limit, "limit", "l", 20, "maximum number of entries to show")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show details of a deletion run",
		Long:  `Display the files removed by one run. A unique ID prefix is enough.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, _, err := getManifest(v)
			if err != nil {
				return err
			}
			return runHistoryShow(cmd.OutOrStdout(), m, args[0])
		},
	}

	cleanCmd := &cobra.Command{
		Use:   "clean",
		Short: "Clean up old history entries",
		Long:  `Remove history entries older than the retention period (PHOTOPRUNE_MANIFEST_RETENTION_DAYS).`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, cfg, err := getManifest(v)
			if err != nil {
				return err
			}
			return runHistoryClean(cmd.OutOrStdout(), m, cfg)
		},
	}

	historyCmd.AddCommand(showCmd, cleanCmd)
	return historyCmd
}

// getManifest returns a manifest instance with the configured directory.
func getManifest(v *viper.Viper) (*manifest.Manifest, *config.Config, error) {
	cfg, err := loadConfig(v)
	if err != nil {
		return nil, nil, err
	}
	m, err := manifest.New(cfg.Manifest.Dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize manifest: %w", err)
	}
	return m, cfg, nil
}

// runHistory lists recent runs.
func runHistory(w io.Writer, m *manifest.Manifest, limit int) error {
	entries, err := m.List(0)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No history entries found.")
		fmt.Fprintln(w, "Deletion runs are recorded here once they remove files.")
		return nil
	}

	total := len(entries)
	if limit > 0 && total > limit {
		entries = entries[:limit]
	}

	fmt.Fprintf(w, "\n%-36s  %-14s  %-8s  %-10s  %s\n", "ID", "WHEN", "FILES", "FREED", "ROOT")
	fmt.Fprintln(w, strings.Repeat("-", 90))

	for _, entry := range entries {
		fmt.Fprintf(w, "%-36s  %-14s  %-8s  %-10s  %s\n",
			truncateString(entry.ID, 36),
			humanize.Time(entry.Timestamp),
			humanize.Comma(entry.Summary.TotalFiles),
			types.FormatSize(entry.Summary.TotalBytes),
			entry.Root,
		)
	}

	fmt.Fprintln(w, strings.Repeat("-", 90))
	fmt.Fprintf(w, "\nShowing %d of %d entries. Use --limit to see more.\n", len(entries), total)
	fmt.Fprintln(w, "Use 'photoprune history show <id>' for details on a specific entry.")
	return nil
}

// runHistoryShow displays one run.
func runHistoryShow(w io.Writer, m *manifest.Manifest, id string) error {
	entry, err := m.Get(id)
	if err != nil {
		return fmt.Errorf("failed to get entry: %w", err)
	}

	fmt.Fprintln(w, "\nDeletion Details")
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "ID:         %s\n", entry.ID)
	fmt.Fprintf(w, "Timestamp:  %s (%s)\n", entry.Timestamp.Local().Format("2006-01-02 15:04:05 MST"), humanize.Time(entry.Timestamp))
	fmt.Fprintf(w, "Root:       %s\n", entry.Root)
	fmt.Fprintf(w, "Files:      %s\n", humanize.Comma(entry.Summary.TotalFiles))
	fmt.Fprintf(w, "Total Size: %s\n", types.FormatSize(entry.Summary.TotalBytes))

	if len(entry.Files) == 0 {
		return nil
	}

	fmt.Fprintln(w, "\nFiles:")
	fmt.Fprintln(w, strings.Repeat("-", 60))
	fmt.Fprintf(w, "%-6s  %-12s  %s\n", "POLICY", "SIZE", "PATH")
	fmt.Fprintln(w, strings.Repeat("-", 60))

	shown := entry.Files[:min(len(entry.Files), showFilesLimit)]
	for _, file := range shown {
		fmt.Fprintf(w, "%-6s  %-12s  %s\n", file.Category, types.FormatSize(file.Size), file.Path)
		fmt.Fprintf(w, "%-6s  %-12s  kept %s\n", "", "", file.KeptPath)
	}
	if hidden := len(entry.Files) - len(shown); hidden > 0 {
		fmt.Fprintf(w, "\n... and %d more files\n", hidden)
	}
	return nil
}

// runHistoryClean removes old history entries.
func runHistoryClean(w io.Writer, m *manifest.Manifest, cfg *config.Config) error {
	retentionDays := cfg.Manifest.RetentionDays
	if retentionDays <= 0 {
		retentionDays = config.DefaultRetentionDays
	}

	printInfo(w, cfg.Quiet, "Cleaning history entries older than %d days...", retentionDays)

	removed, err := m.Cleanup(retentionDays)
	if err != nil {
		return fmt.Errorf("failed to clean history: %w", err)
	}

	printInfo(w, cfg.Quiet, "Removed %d entries.", removed)
	return nil
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
