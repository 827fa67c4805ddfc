package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jamesainslie/photoprune/pkg/photoprune/config"
	"github.com/jamesainslie/photoprune/pkg/photoprune/media"
	"github.com/jamesainslie/photoprune/pkg/photoprune/output"
)

// flagKeys maps flag names to config keys. Each flag is also readable from
// PHOTOPRUNE_<KEY>.
var flagKeys = map[string]string{
	"years":       config.KeyYears,
	"policy":      config.KeyPolicy,
	"ext":         config.KeyExt,
	"exclude":     config.KeyExclude,
	"min-size":    config.KeyMinSize,
	"sample":      config.KeySample,
	"max-errors":  config.KeyMaxErrors,
	"output":      config.KeyOutput,
	"dry-run":     config.KeyDryRun,
	"yes":         config.KeyYes,
	"prompt":      config.KeyPrompt,
	"no-manifest": config.KeyNoManifest,
	"quiet":       config.KeyQuiet,
	"verbose":     config.KeyVerbose,
	"log-level":   config.KeyLogLevel,
}

func addRootFlags(cmd *cobra.Command, v *viper.Viper) {
	flags := cmd.Flags()
	flags.StringSliceP("years", "y", []string{config.DefaultYears}, `subdirectories to scan: years, ranges or names ("" scans the root)`)
	flags.StringSliceP("policy", "p", config.DefaultPolicies, "policies to apply: exact, size, raw")
	flags.StringSlice("ext", extensionNames(media.DefaultExtensions), "extensions compared by the exact and size policies")
	flags.StringSliceP("exclude", "e", nil, "glob patterns to skip (can be specified multiple times)")
	flags.StringP("min-size", "s", "", "ignore files smaller than this (e.g., 100K, 2M)")
	flags.Int("sample", 0, "groups shown per policy (0: 3, or 10 with a single policy)")
	flags.Int("max-errors", config.DefaultMaxErrors, "errors listed after deleting (0 lists all)")
	flags.StringP("output", "o", config.DefaultOutput, "output format: "+strings.Join(output.Available(), ", "))
	flags.BoolP("dry-run", "d", false, "don't delete files (preview only)")
	flags.Bool("yes", false, "delete without asking")
	flags.String("prompt", config.DefaultPrompt, "confirmation prompt: auto, tui, line")
	flags.Bool("no-manifest", false, "don't record deletions in the history")

	persistent := cmd.PersistentFlags()
	persistent.BoolP("quiet", "q", false, "minimal output")
	persistent.BoolP("verbose", "v", false, "debug output")
	persistent.String("log-level", config.DefaultLogLevel, "log file level: debug, info, warn, error")

	bindFlags(flags, v)
	bindFlags(persistent, v)
}

// bindFlags binds every known flag in fs to its config key.
func bindFlags(fs *pflag.FlagSet, v *viper.Viper) {
	fs.VisitAll(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			_ = v.BindPFlag(key, f)
		}
	})
}

// extensionNames strips the leading dots for display.
func extensionNames(exts []string) []string {
	out := make([]string, len(exts))
	for i, ext := range exts {
		out[i] = strings.TrimPrefix(ext, ".")
	}
	return out
}
