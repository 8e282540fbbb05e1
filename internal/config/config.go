// Package config defines the pipeline configuration and its loading hooks.
package config

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/okian/dribble/internal/domain/detector"
	"github.com/okian/dribble/internal/domain/model"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the optional HTTP listen address, e.g. ":9080".
	// Empty disables the HTTP surface.
	Addr string `koanf:"addr"`

	// DataPath is the dataset root holding one directory per subset.
	DataPath string `koanf:"data_path"`

	// Subsets lists the subset directories under DataPath to process.
	Subsets []string `koanf:"subsets"`

	// OutputPath is the directory dribble_events.json is written to.
	OutputPath string `koanf:"output_path"`

	// WorkerCount sets the number of detection workers.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the in-memory video queue.
	QueueSize int `koanf:"queue_size"`

	// DedupeSize bounds the duplicate submission cache.
	DedupeSize int `koanf:"dedupe_size"`

	// Detection zones in pitch units and hysteresis thresholds in frames.
	InnerRadius    float64 `koanf:"inner_radius"`
	OuterRadius    float64 `koanf:"outer_radius"`
	InnerThreshold int     `koanf:"inner_threshold"`
	OuterThreshold int     `koanf:"outer_threshold"`

	// MaxFrameGap ends a tracked episode when frames jump further than this.
	// Zero disables the check.
	MaxFrameGap int `koanf:"max_frame_gap"`

	// ExportMargin pads every exported episode on both sides.
	ExportMargin int `koanf:"export_margin"`

	// KeepUnfinished exports episodes whose holder disappeared.
	KeepUnfinished bool `koanf:"keep_unfinished"`

	// IgnorePersonClasses drops annotations of these category names.
	IgnorePersonClasses []string `koanf:"ignore_person_classes"`

	// IgnoreTeams drops annotations whose team attribute matches.
	IgnoreTeams []string `koanf:"ignore_teams"`

	// MissingBallX and MissingBallY position the ball on frames without one.
	MissingBallX float64 `koanf:"missing_ball_x"`
	MissingBallY float64 `koanf:"missing_ball_y"`
}

// New creates a Config with defaults. Context is accepted first to follow
// the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:       "info",
		LogFormat:      "text",
		Addr:           "",
		DataPath:       "data/SoccerNetGS",
		Subsets:        []string{"interpolated-predictions"},
		OutputPath:     "output",
		WorkerCount:    runtime.NumCPU(),
		QueueSize:      1_000,
		DedupeSize:     10_000,
		InnerRadius:    detector.DefaultInnerRadius,
		OuterRadius:    detector.DefaultOuterRadius,
		InnerThreshold: detector.DefaultInnerThreshold,
		OuterThreshold: detector.DefaultOuterThreshold,
		MaxFrameGap:    0,
		ExportMargin:   20,
		KeepUnfinished: false,
		MissingBallX:   1e9,
		MissingBallY:   1e9,
	}
}

// Validate reports the first invalid setting wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.DataPath) == "":
		return fmt.Errorf("%w: data_path must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.OutputPath) == "":
		return fmt.Errorf("%w: output_path must not be empty", ErrInvalidConfig)
	case len(c.Subsets) == 0:
		return fmt.Errorf("%w: subsets must not be empty", ErrInvalidConfig)
	case c.WorkerCount <= 0:
		return fmt.Errorf("%w: worker_count must be positive, got %d", ErrInvalidConfig, c.WorkerCount)
	case c.QueueSize <= 0:
		return fmt.Errorf("%w: queue_size must be positive, got %d", ErrInvalidConfig, c.QueueSize)
	case c.DedupeSize < 0:
		return fmt.Errorf("%w: dedupe_size must not be negative, got %d", ErrInvalidConfig, c.DedupeSize)
	case c.InnerRadius <= 0 || c.OuterRadius <= 0:
		return fmt.Errorf("%w: radii must be positive", ErrInvalidConfig)
	case c.InnerRadius >= c.OuterRadius:
		return fmt.Errorf("%w: inner_radius %.2f must be below outer_radius %.2f",
			ErrInvalidConfig, c.InnerRadius, c.OuterRadius)
	case c.InnerThreshold <= 0 || c.OuterThreshold <= 0:
		return fmt.Errorf("%w: thresholds must be positive", ErrInvalidConfig)
	case c.MaxFrameGap < 0:
		return fmt.Errorf("%w: max_frame_gap must not be negative", ErrInvalidConfig)
	case c.ExportMargin < 0:
		return fmt.Errorf("%w: export_margin must not be negative", ErrInvalidConfig)
	}
	return nil
}

// DetectorOptions maps the detection settings onto detector options.
func (c *Config) DetectorOptions() []detector.Option {
	return []detector.Option{
		detector.WithRadii(c.InnerRadius, c.OuterRadius),
		detector.WithThresholds(c.InnerThreshold, c.OuterThreshold),
		detector.WithMaxFrameGap(c.MaxFrameGap),
	}
}

// MissingBall returns the ball position used on frames without a ball.
func (c *Config) MissingBall() model.Point {
	return model.Point{X: c.MissingBallX, Y: c.MissingBallY}
}
