package synth

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/okian/dribble/internal/adapters/dataset"
	"github.com/okian/dribble/pkg/logger"
)

// Generate writes cfg.Videos videos under cfg.OutDir/cfg.Subset, cycling
// through Scenarios, and returns what detection should find in each.
func Generate(ctx context.Context, cfg *Config, stats *Stats) ([]Expectation, error) {
	dir := filepath.Join(cfg.OutDir, cfg.Subset)
	if err := os.MkdirAll(dir, directoryPermission); err != nil {
		return nil, fmt.Errorf("failed to create subset directory: %w", err)
	}

	out := make([]Expectation, 0, cfg.Videos)
	for i := 0; i < cfg.Videos; i++ {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		scenario := Scenarios[i%len(Scenarios)]
		name := fmt.Sprintf("SNGS-%03d", i+1)
		frames, dribbles, tackles := Frames(scenario, cfg.Seed+uint64(i))

		if err := writeLabels(filepath.Join(dir, name), Labels(name, i+1, frames)); err != nil {
			return out, err
		}
		out = append(out, Expectation{
			VideoID:  cfg.Subset + "/" + name,
			Scenario: scenario,
			Frames:   len(frames),
			Dribbles: dribbles,
			Tackles:  tackles,
		})
		if stats != nil {
			stats.VideosGenerated++
			stats.FramesGenerated += len(frames)
		}
		logger.Get().Debug(ctx, "video generated",
			logger.String("video", name),
			logger.String("scenario", string(scenario)),
			logger.Int("frames", len(frames)))
	}
	return out, nil
}

func writeLabels(dir string, labels *dataset.Labels) error {
	if err := os.MkdirAll(dir, directoryPermission); err != nil {
		return fmt.Errorf("failed to create video directory: %w", err)
	}
	data, err := json.Marshal(labels)
	if err != nil {
		return fmt.Errorf("failed to marshal labels: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, dataset.LabelsFile), data, filePermission); err != nil {
		return fmt.Errorf("failed to write labels: %w", err)
	}
	return nil
}
