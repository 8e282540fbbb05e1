package synth

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/dribble/pkg/logger"
)

// SetupLogging configures logging to both console and, when logFile is set,
// a file.
func SetupLogging(logFile string, verbose bool) error {
	var out io.Writer = os.Stdout
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return fmt.Errorf("failed to create log file: %w", err)
		}
		out = io.MultiWriter(os.Stdout, file)
	}
	if err := logger.Init(logger.WithWriter(out)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	if logFile != "" {
		logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	}
	return nil
}

// DefaultTimeout bounds verification requests.
const DefaultTimeout = 30 * time.Second

// ShowHelp prints usage information for the synthetic dataset tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Dribble Synthetic Dataset Tool
==============================

Writes scripted SoccerNet game-state label files (dribble, tackle, quiet and
mixed possessions) for smoke testing the detection pipeline.

Usage:
  go run ./cmd/synth [options]

Options:
  -out string
        Dataset root (default "data/synthetic")
  -subset string
        Subset directory (default "interpolated-predictions")
  -videos int
        Number of videos to generate (default 8)
  -seed uint
        Seed for background player placement (default 1)
  -verify string
        Base URL of a service that already processed the dataset
  -timeout duration
        HTTP request timeout (default 30s)
  -log string
        Also log to this file
  -verbose
        Enable debug logging
  -help
        Show this help message

Examples:
  go run ./cmd/synth -out /tmp/gs -videos 20
  DRIBBLE_DATA_PATH=/tmp/gs DRIBBLE_ADDR=:9080 go run ./cmd
  go run ./cmd/synth -out /tmp/gs -videos 20 -verify http://localhost:9080
`)
}
