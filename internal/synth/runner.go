package synth

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/dribble/pkg/logger"
)

// ExpectationsFile is written next to the generated subset.
const ExpectationsFile = "expectations.json"

// Run generates the dataset and, when BaseURL is set, verifies a running
// service against it.
func Run(ctx context.Context, cfg *Config) error {
	stats := &Stats{StartTime: time.Now()}

	logger.Get().Info(ctx, "generating synthetic dataset",
		logger.String("outDir", cfg.OutDir),
		logger.String("subset", cfg.Subset),
		logger.Int("videos", cfg.Videos),
		logger.Bool("verify", cfg.BaseURL != ""))

	expected, err := Generate(ctx, cfg, stats)
	if err != nil {
		return fmt.Errorf("dataset generation failed: %w", err)
	}
	if err := saveExpectations(cfg, expected); err != nil {
		logger.Get().Warn(ctx, "failed to save expectations", logger.Error(err))
	}

	if cfg.BaseURL != "" {
		summaries, err := FetchSummaries(ctx, cfg.BaseURL, cfg.Timeout)
		if err != nil {
			return fmt.Errorf("result retrieval failed: %w", err)
		}
		stats.VideosVerified = len(summaries)
		stats.Mismatches, err = Verify(ctx, expected, summaries)
		if err != nil {
			displayFinalStats(ctx, stats)
			return fmt.Errorf("result verification failed: %w", err)
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)
	return nil
}

func saveExpectations(cfg *Config, expected []Expectation) error {
	data, err := json.MarshalIndent(expected, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(cfg.OutDir, cfg.Subset, ExpectationsFile), data, filePermission)
}

func displayFinalStats(ctx context.Context, stats *Stats) {
	logger.Get().Info(ctx, "final statistics",
		logger.Int("videosGenerated", stats.VideosGenerated),
		logger.Int("framesGenerated", stats.FramesGenerated),
		logger.Int("videosVerified", stats.VideosVerified),
		logger.Int("mismatches", stats.Mismatches),
		logger.Duration("duration", stats.Duration))
}
