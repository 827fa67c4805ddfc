package logging_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jamesainslie/photoprune/pkg/photoprune/logging"
)

// These tests share the package-level logger state and must not run in parallel.

func TestInit(t *testing.T) {
	validDir := t.TempDir()
	componentsDir := t.TempDir()
	invalidDir := t.TempDir()

	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to create blocker file: %v", err)
	}

	tests := []struct {
		name    string
		cfg     logging.Config
		wantErr bool
	}{
		{
			name: "valid config",
			cfg:  logging.Config{Level: "info", Path: filepath.Join(validDir, "test.log")},
		},
		{
			name: "component overrides",
			cfg: logging.Config{
				Level:      "info",
				Path:       filepath.Join(componentsDir, "components.log"),
				Components: map[string]string{"scanner": "debug", "executor": "warn"},
			},
		},
		{
			name:    "invalid level",
			cfg:     logging.Config{Level: "loud", Path: filepath.Join(invalidDir, "x.log")},
			wantErr: true,
		},
		{
			name:    "invalid component level",
			cfg:     logging.Config{Level: "info", Path: filepath.Join(invalidDir, "y.log"), Components: map[string]string{"scanner": "chatty"}},
			wantErr: true,
		},
		{
			name:    "invalid console level",
			cfg:     logging.Config{Level: "info", Path: filepath.Join(invalidDir, "z.log"), ConsoleLevel: "shout"},
			wantErr: true,
		},
		{
			name:    "parent is a file",
			cfg:     logging.Config{Level: "info", Path: filepath.Join(blocker, "test.log")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := logging.Init(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Init() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				if closeErr := logging.Close(); closeErr != nil {
					t.Errorf("Close() error = %v", closeErr)
				}
			}
		})
	}
}

func TestSilentBeforeInit(t *testing.T) {
	logger := logging.Get("quiet")
	if logger == nil {
		t.Fatal("Get() returned nil")
	}
	// Must not panic or write anywhere.
	logger.Error("nobody hears this")

	if logger.Component() != "quiet" {
		t.Errorf("Component() = %q, want %q", logger.Component(), "quiet")
	}
	if logging.Get("quiet") != logger {
		t.Error("Get() should return the same logger for a component")
	}
}

func TestLoggerWritesToFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "write.log")

	// Obtained before Init: must pick up the file once Init runs.
	early := logging.Get("early")

	if err := logging.Init(logging.Config{Level: "debug", Path: logPath}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	early.Info("early message")
	logging.Get("test").With("run", 7).Info("test message", "key", "value")

	if err := logging.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	for _, want := range []string{"early message", "test message", "key=value", "run=7"} {
		if !strings.Contains(string(content), want) {
			t.Errorf("log file missing %q, got: %s", want, content)
		}
	}
}

func TestLogLevels(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "levels.log")

	if err := logging.Init(logging.Config{Level: "warn", Path: logPath}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	logger := logging.Get("levels")
	logger.Debug("debug should not appear")
	logger.Info("info should not appear")
	logger.Warn("warn should appear")
	logger.Error("error should appear")

	if err := logging.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	logContent := string(content)

	if strings.Contains(logContent, "should not appear") {
		t.Errorf("messages below warn were written: %s", logContent)
	}
	if !strings.Contains(logContent, "warn should appear") || !strings.Contains(logContent, "error should appear") {
		t.Errorf("expected warn and error messages, got: %s", logContent)
	}
}

func TestComponentLevelOverride(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "component.log")

	cfg := logging.Config{
		Level:      "error",
		Path:       logPath,
		Components: map[string]string{"verbose": "debug"},
	}
	if err := logging.Init(cfg); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	logging.Get("normal").Info("normal info should not appear")
	logging.Get("verbose").Info("verbose info should appear")

	if err := logging.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if strings.Contains(string(content), "normal info should not appear") {
		t.Error("normal info should be filtered at error level")
	}
	if !strings.Contains(string(content), "verbose info should appear") {
		t.Error("verbose info should pass the component override")
	}
}

func TestConsoleOutput(t *testing.T) {
	var console bytes.Buffer
	cfg := logging.Config{
		Level:        "debug",
		Path:         filepath.Join(t.TempDir(), "console.log"),
		ConsoleLevel: "warn",
		Console:      &console,
	}
	if err := logging.Init(cfg); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	logger := logging.Get("console")
	logger.Info("file only")
	logger.Warn("both places")

	if err := logging.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	out := console.String()
	if strings.Contains(out, "file only") {
		t.Errorf("info should not reach the console at warn level: %s", out)
	}
	if !strings.Contains(out, "both places") {
		t.Errorf("warn should reach the console: %s", out)
	}

	// After Close the logger is silent again.
	logger.Warn("after close")
	if strings.Contains(console.String(), "after close") {
		t.Error("logger should discard after Close")
	}
}

func TestCloseWithoutInit(t *testing.T) {
	if err := logging.Close(); err != nil {
		t.Errorf("Close() without Init error = %v", err)
	}
}

func TestDefaultLogPath(t *testing.T) {
	path := logging.DefaultLogPath()
	if !strings.HasSuffix(path, filepath.Join("photoprune", "photoprune.log")) {
		t.Errorf("DefaultLogPath() = %q, want suffix photoprune/photoprune.log", path)
	}
	if cfg := logging.DefaultConfig(); cfg.Path != path || cfg.Level != "info" {
		t.Errorf("DefaultConfig() = %+v", cfg)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    logging.Level
		wantErr bool
	}{
		{"debug", logging.LevelDebug, false},
		{"INFO", logging.LevelInfo, false},
		{"", logging.LevelInfo, false},
		{"warn", logging.LevelWarn, false},
		{"warning", logging.LevelWarn, false},
		{"Error", logging.LevelError, false},
		{"trace", logging.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := logging.ParseLevel(tt.input)
			if tt.wantErr {
				if !errors.Is(err, logging.ErrInvalidLevel) {
					t.Errorf("ParseLevel(%q) error = %v, want ErrInvalidLevel", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseLevel(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if got.String() == "unknown" {
				t.Errorf("Level %d has no name", got)
			}
		})
	}
}
