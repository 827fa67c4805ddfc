package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/photoprune/pkg/photoprune/config"
)

// newRootCmd builds the command tree around a fresh viper instance.
func newRootCmd() *cobra.Command {
	v := config.New()

	rootCmd := &cobra.Command{
		Use:   "photoprune [root]",
		Short: "Remove redundant copies from a photo library",
		Long: `Photoprune scans a photo library, one subdirectory per year, and removes
redundant files under three policies:

  exact  same filename and size: the first copy found is kept
  size   same filename, different sizes: the largest copy is kept
  raw    a RAW file next to a JPG with the same name: the JPG is kept

Nothing is deleted before the plan has been shown and confirmed.

Examples:
  photoprune                          # ~/Pictures/2014 .. 2018, all policies
  photoprune -y 2019-2023 ~/Photos    # other years and library
  photoprune -p raw --dry-run         # only RAW/JPG pairs, delete nothing
  photoprune -o paths --yes           # script-friendly, no prompt
  photoprune history                  # past deletions`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				v.Set(config.KeyRoot, args[0])
			}
			return runPrune(cmd, v)
		},
	}

	addRootFlags(rootCmd, v)

	rootCmd.AddCommand(
		newHistoryCmd(v),
		newConfigCmd(v),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		printError(rootCmd.ErrOrStderr(), "%v", err)
		return err
	}
	return nil
}

// loadConfig decodes the flags and environment bound to v.
func loadConfig(v *viper.Viper) (*config.Config, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// printInfo prints a message unless quiet mode is enabled.
func printInfo(w io.Writer, quiet bool, format string, args ...any) {
	if !quiet {
		fmt.Fprintf(w, format+"\n", args...)
	}
}

// printError prints an error message.
func printError(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "Error: "+format+"\n", args...)
}
