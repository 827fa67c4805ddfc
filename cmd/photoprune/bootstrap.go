package main

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/jamesainslie/photoprune/cmd/photoprune/tui"
	"github.com/jamesainslie/photoprune/pkg/photoprune/config"
	"github.com/jamesainslie/photoprune/pkg/photoprune/confirm"
	"github.com/jamesainslie/photoprune/pkg/photoprune/logging"
	"github.com/jamesainslie/photoprune/pkg/photoprune/output"
)

// initLogging opens the log file and mirrors warnings, or everything with
// --verbose, to stderr.
func initLogging(cfg *config.Config, stderr io.Writer) error {
	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.LogLevel
	logCfg.Path = cfg.LogFile
	if cfg.Verbose {
		logCfg.Level = "debug"
	}
	logCfg.ConsoleLevel = cfg.ConsoleLevel()
	logCfg.Console = stderr
	return logging.Init(logCfg)
}

// isTerminal reports whether the stream is an interactive terminal.
var isTerminal = func(stream any) bool {
	f, ok := stream.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// newConfirmer picks the confirmation prompt. --yes skips it; auto uses the
// dialog when both ends are terminals and the output is for people, and a
// line prompt otherwise.
func newConfirmer(cfg *config.Config, stdin io.Reader, stderr io.Writer) confirm.Confirmer {
	if cfg.Yes {
		return confirm.Fixed(true)
	}

	mode := cfg.Prompt
	if mode == config.PromptAuto {
		mode = config.PromptLine
		if output.IsHuman(cfg.Output) && isTerminal(stdin) && isTerminal(stderr) {
			mode = config.PromptTUI
		}
	}

	if mode == config.PromptTUI {
		return tui.NewConfirmer(stdin, stderr)
	}
	return confirm.NewLine(stdin, stderr)
}
