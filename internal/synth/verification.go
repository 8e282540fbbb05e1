package synth

import (
	"context"
	"fmt"

	"github.com/okian/dribble/internal/adapters/repository"
	"github.com/okian/dribble/pkg/logger"
)

// Verify compares detection summaries with the expectations and returns the
// number of mismatching videos.
func Verify(ctx context.Context, expected []Expectation, got []repository.Summary) (int, error) {
	if len(expected) == 0 {
		return 0, fmt.Errorf("no expectations to verify")
	}
	byID := make(map[string]repository.Summary, len(got))
	for _, s := range got {
		byID[s.VideoID] = s
	}

	mismatches := 0
	for _, e := range expected {
		s, ok := byID[e.VideoID]
		switch {
		case !ok:
			logger.Get().Warn(ctx, "video missing from results", logger.String("video_id", e.VideoID))
			mismatches++
		case s.Skipped:
			logger.Get().Warn(ctx, "video was skipped", logger.String("video_id", e.VideoID), logger.String("error", s.Error))
			mismatches++
		case s.Dribbles != e.Dribbles || s.Tackles != e.Tackles:
			logger.Get().Warn(ctx, "episode counts differ",
				logger.String("video_id", e.VideoID),
				logger.String("scenario", string(e.Scenario)),
				logger.Int("wantDribbles", e.Dribbles),
				logger.Int("gotDribbles", s.Dribbles),
				logger.Int("wantTackles", e.Tackles),
				logger.Int("gotTackles", s.Tackles))
			mismatches++
		}
	}
	if mismatches > 0 {
		return mismatches, fmt.Errorf("%d of %d videos did not match", mismatches, len(expected))
	}
	return 0, nil
}
