package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/jamesainslie/photoprune/pkg/photoprune/config"
)

// envKeys lists the config keys reported by config show, in display order.
var envKeys = []string{
	config.KeyRoot,
	config.KeyYears,
	config.KeyPolicy,
	config.KeyExt,
	config.KeyExclude,
	config.KeyMinSize,
	config.KeySample,
	config.KeyMaxErrors,
	config.KeyOutput,
	config.KeyDryRun,
	config.KeyYes,
	config.KeyPrompt,
	config.KeyNoManifest,
	config.KeyQuiet,
	config.KeyVerbose,
	config.KeyLogLevel,
	config.KeyLogFile,
	config.KeyManifestDir,
	config.KeyRetentionDays,
}

// effectiveConfig is the YAML shape printed by config show.
type effectiveConfig struct {
	Root       string   `yaml:"root"`
	Subdirs    []string `yaml:"subdirs"`
	Policies   []string `yaml:"policies"`
	Extensions []string `yaml:"extensions"`
	Exclude    []string `yaml:"exclude,omitempty"`
	MinSize    string   `yaml:"min_size,omitempty"`
	Sample     int      `yaml:"sample"`
	MaxErrors  int      `yaml:"max_errors"`
	Output     string   `yaml:"output"`
	DryRun     bool     `yaml:"dry_run"`
	Prompt     string   `yaml:"prompt"`
	LogLevel   string   `yaml:"log_level"`
	LogFile    string   `yaml:"log_file"`
	Manifest   struct {
		Enabled       bool   `yaml:"enabled"`
		Dir           string `yaml:"dir"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"manifest"`
}

func newConfigCmd(v *viper.Viper) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
		Long: `Inspect the effective configuration.

Every setting can be given as a flag or as a PHOTOPRUNE_* environment
variable, e.g. PHOTOPRUNE_YEARS=2019-2023 or PHOTOPRUNE_MANIFEST_DIR=/tmp/m.`,
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			return runConfigShow(cmd.OutOrStdout(), cfg)
		},
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Show log file and history locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "log:      %s\n", cfg.LogFile)
			fmt.Fprintf(w, "history:  %s\n", cfg.Manifest.Dir)
			return nil
		},
	}

	configCmd.AddCommand(showCmd, pathCmd)
	return configCmd
}

// runConfigShow prints the resolved configuration followed by any
// environment overrides.
func runConfigShow(w io.Writer, cfg *config.Config) error {
	subdirs, err := cfg.Subdirs()
	if err != nil {
		return err
	}
	policies, err := cfg.Policies()
	if err != nil {
		return err
	}

	var out effectiveConfig
	out.Root = cfg.Root
	out.Subdirs = subdirs
	for _, p := range policies {
		out.Policies = append(out.Policies, string(p))
	}
	out.Extensions = cfg.Extensions()
	out.Exclude = cfg.Exclude
	out.MinSize = cfg.MinSize
	out.Sample = cfg.SampleSize(len(policies))
	out.MaxErrors = cfg.MaxErrors
	out.Output = cfg.Output
	out.DryRun = cfg.DryRun
	out.Prompt = cfg.Prompt
	out.LogLevel = cfg.LogLevel
	out.LogFile = cfg.LogFile
	out.Manifest.Enabled = !cfg.NoManifest
	out.Manifest.Dir = cfg.Manifest.Dir
	out.Manifest.RetentionDays = cfg.Manifest.RetentionDays

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	fmt.Fprintln(w, "\nEnvironment overrides:")
	anyOverrides := false
	for _, key := range envKeys {
		name := envName(key)
		if val, ok := os.LookupEnv(name); ok {
			fmt.Fprintf(w, "  %s=%s\n", name, val)
			anyOverrides = true
		}
	}
	if !anyOverrides {
		fmt.Fprintln(w, "  (none)")
	}
	return nil
}

// envName returns the environment variable read for a config key.
func envName(key string) string {
	r := strings.NewReplacer(".", "_", "-", "_")
	return config.EnvPrefix + "_" + strings.ToUpper(r.Replace(key))
}
