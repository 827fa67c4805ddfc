package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"github.com/jamesainslie/photoprune/pkg/photoprune/classify"
	"github.com/jamesainslie/photoprune/pkg/photoprune/logging"
	"github.com/jamesainslie/photoprune/pkg/photoprune/manifest"
	"github.com/jamesainslie/photoprune/pkg/photoprune/media"
	"github.com/jamesainslie/photoprune/pkg/photoprune/output"
	"github.com/jamesainslie/photoprune/pkg/photoprune/types"
)

// EnvPrefix prefixes every environment variable, e.g. PHOTOPRUNE_MIN_SIZE.
const EnvPrefix = "PHOTOPRUNE"

// Viper keys. Flags are bound to these keys by the CLI.
const (
	KeyRoot          = "root"
	KeyYears         = "years"
	KeyPolicy        = "policy"
	KeyExt           = "ext"
	KeyExclude       = "exclude"
	KeyMinSize       = "min_size"
	KeySample        = "sample"
	KeyMaxErrors     = "max_errors"
	KeyOutput        = "output"
	KeyDryRun        = "dry_run"
	KeyYes           = "yes"
	KeyPrompt        = "prompt"
	KeyNoManifest    = "no_manifest"
	KeyQuiet         = "quiet"
	KeyVerbose       = "verbose"
	KeyLogLevel      = "log_level"
	KeyLogFile       = "log_file"
	KeyManifestDir   = "manifest.dir"
	KeyRetentionDays = "manifest.retention_days"
)

// ErrInvalidYears is returned for a malformed --years value.
var ErrInvalidYears = errors.New("invalid year range")

const maxYearSpan = 200

// ManifestConfig configures the deletion audit log.
type ManifestConfig struct {
	Dir           string `mapstructure:"dir"`
	RetentionDays int    `mapstructure:"retention_days"`
}

// Config represents the application configuration.
type Config struct {
	Root       string         `mapstructure:"root"`
	Years      []string       `mapstructure:"years"`
	Policy     []string       `mapstructure:"policy"`
	Ext        []string       `mapstructure:"ext"`
	Exclude    []string       `mapstructure:"exclude"`
	MinSize    string         `mapstructure:"min_size"`
	Sample     int            `mapstructure:"sample"`
	MaxErrors  int            `mapstructure:"max_errors"`
	Output     string         `mapstructure:"output"`
	DryRun     bool           `mapstructure:"dry_run"`
	Yes        bool           `mapstructure:"yes"`
	Prompt     string         `mapstructure:"prompt"`
	NoManifest bool           `mapstructure:"no_manifest"`
	Quiet      bool           `mapstructure:"quiet"`
	Verbose    bool           `mapstructure:"verbose"`
	LogLevel   string         `mapstructure:"log_level"`
	LogFile    string         `mapstructure:"log_file"`
	Manifest   ManifestConfig `mapstructure:"manifest"`
}

// New returns a viper instance with defaults set and PHOTOPRUNE_* variables
// bound. Dashes and dots in keys become underscores in variable names.
func New() *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyRoot, DefaultRoot)
	v.SetDefault(KeyYears, []string{DefaultYears})
	v.SetDefault(KeyPolicy, slices.Clone(DefaultPolicies))
	v.SetDefault(KeyExt, slices.Clone(media.DefaultExtensions))
	v.SetDefault(KeyExclude, []string{})
	v.SetDefault(KeyMinSize, "0")
	v.SetDefault(KeySample, 0)
	v.SetDefault(KeyMaxErrors, DefaultMaxErrors)
	v.SetDefault(KeyOutput, DefaultOutput)
	v.SetDefault(KeyDryRun, false)
	v.SetDefault(KeyYes, false)
	v.SetDefault(KeyPrompt, DefaultPrompt)
	v.SetDefault(KeyNoManifest, false)
	v.SetDefault(KeyQuiet, false)
	v.SetDefault(KeyVerbose, false)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyManifestDir, "")
	v.SetDefault(KeyRetentionDays, DefaultRetentionDays)

	return v
}

// Load decodes v into a Config, expands ~ in paths and validates the result.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	var err error
	if cfg.Root, err = ExpandPath(cfg.Root); err != nil {
		return nil, err
	}
	if cfg.LogFile == "" {
		cfg.LogFile = logging.DefaultLogPath()
	}
	if cfg.LogFile, err = ExpandPath(cfg.LogFile); err != nil {
		return nil, err
	}
	if cfg.Manifest.Dir == "" {
		cfg.Manifest.Dir = ManifestDir()
	}
	if cfg.Manifest.Dir, err = ExpandPath(cfg.Manifest.Dir); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every value that can be rejected before scanning.
func (c *Config) Validate() error {
	if c.Root == "" {
		return errors.New("root directory cannot be empty")
	}
	if _, err := c.Subdirs(); err != nil {
		return err
	}
	if _, err := c.Policies(); err != nil {
		return err
	}
	if _, err := c.MinSizeBytes(); err != nil {
		return err
	}
	if c.Sample < 0 {
		return fmt.Errorf("sample must not be negative, got %d", c.Sample)
	}
	switch c.Prompt {
	case PromptAuto, PromptTUI, PromptLine:
	default:
		return fmt.Errorf("invalid prompt %q: want auto, tui or line", c.Prompt)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Subdirs expands the year specs into subdirectory names in order.
func (c *Config) Subdirs() ([]string, error) {
	return ExpandYears(c.Years)
}

// Policies parses the enabled policies. Empty means all of them.
func (c *Config) Policies() ([]classify.Category, error) {
	var out []classify.Category
	for _, spec := range splitList(c.Policy) {
		cat, err := classify.ParseCategory(spec)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(out, cat) {
			out = append(out, cat)
		}
	}
	return out, nil
}

// MinSizeBytes parses MinSize. Empty means no minimum.
func (c *Config) MinSizeBytes() (int64, error) {
	if strings.TrimSpace(c.MinSize) == "" {
		return 0, nil
	}
	n, err := types.ParseSize(c.MinSize)
	if err != nil {
		return 0, fmt.Errorf("invalid min size: %w", err)
	}
	return n, nil
}

// Extensions returns the configured media extensions, split on commas.
func (c *Config) Extensions() []string {
	return splitList(c.Ext)
}

// SampleSize returns the number of groups sampled per category. An unset
// sample shows 10 groups when one policy runs and 3 otherwise.
func (c *Config) SampleSize(policies int) int {
	if c.Sample > 0 {
		return c.Sample
	}
	if policies == 1 {
		return output.DefaultSingleSample
	}
	return output.DefaultSample
}

// ConsoleLevel returns the level mirrored to stderr, or "" for none.
func (c *Config) ConsoleLevel() string {
	switch {
	case c.Verbose:
		return "debug"
	case c.Quiet:
		return ""
	default:
		return "warn"
	}
}

// ExpandYears turns specs like "2014-2016,2018" into
// ["2014", "2015", "2016", "2018"]. Elements may hold comma-separated
// lists. Duplicates are dropped keeping the first occurrence; an empty
// result means the root itself is scanned. Entries that are not numeric
// are taken as literal directory names, "2016-trip" included.
func ExpandYears(specs []string) ([]string, error) {
	var out []string
	add := func(s string) {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}

	for _, spec := range splitList(specs) {
		from, to, isRange := strings.Cut(spec, "-")
		start, errStart := strconv.Atoi(strings.TrimSpace(from))
		end, errEnd := strconv.Atoi(strings.TrimSpace(to))
		if !isRange || errStart != nil || errEnd != nil {
			add(spec)
			continue
		}
		if end < start {
			return nil, fmt.Errorf("%w: %q ends before it starts", ErrInvalidYears, spec)
		}
		if end-start > maxYearSpan {
			return nil, fmt.Errorf("%w: %q spans more than %d years", ErrInvalidYears, spec, maxYearSpan)
		}
		for y := start; y <= end; y++ {
			add(strconv.Itoa(y))
		}
	}
	return out, nil
}

// splitList splits each element on commas and drops empty items.
func splitList(items []string) []string {
	var out []string
	for _, item := range items {
		for part := range strings.SplitSeq(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// ExpandPath expands ~ in a path to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, path[1:]), nil
}

// StateDir returns $XDG_STATE_HOME/photoprune/ for logs and manifests.
func StateDir() string {
	return filepath.Join(xdg.StateHome, logging.AppName)
}

// ManifestDir returns the default manifest directory.
func ManifestDir() string {
	return manifest.DefaultDir()
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string {
	return logging.DefaultLogPath()
}
