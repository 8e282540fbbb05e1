// Package merge coalesces adjacent same-class episodes of one video.
package merge

import (
	"sort"

	"github.com/okian/dribble/internal/domain/model"
)

// Episodes sorts episodes by start frame and merges each one into its
// predecessor when it starts no later than one frame after the predecessor
// ends and both carry the same class. Unclassified episodes never merge.
// The input slice is not modified.
func Episodes(episodes []model.Episode) []model.Episode {
	if len(episodes) == 0 {
		return nil
	}

	sorted := make([]model.Episode, len(episodes))
	for i := range episodes {
		sorted[i] = episodes[i].Clone()
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].StartFrame < sorted[j].StartFrame })

	merged := make([]model.Episode, 0, len(sorted))
	merged = append(merged, sorted[0])
	for _, next := range sorted[1:] {
		cur := &merged[len(merged)-1]
		if !mergeable(cur, &next) {
			merged = append(merged, next)
			continue
		}
		cur.Frames = append(cur.Frames, next.Frames...)
		if next.End() > cur.End() {
			end := next.End()
			cur.EndFrame = &end
		}
		cur.DetectedTackle = cur.DetectedTackle || next.DetectedTackle
		cur.DetectedDribble = cur.DetectedDribble || next.DetectedDribble
		cur.EverContested = cur.EverContested || next.EverContested
	}
	return merged
}

func mergeable(cur, next *model.Episode) bool {
	class := cur.Class()
	if class == model.ClassNone || class != next.Class() {
		return false
	}
	return next.StartFrame <= cur.End()+1
}
