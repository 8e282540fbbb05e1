package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/okian/dribble/internal/domain/model"
	"github.com/okian/dribble/pkg/metrics"
)

// MemoryStore is a mutex guarded, in-memory Store keyed by video id.
type MemoryStore struct {
	mu       sync.RWMutex
	byVideo  map[string]model.VideoResult
	capacity int
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{}
	for _, opt := range opts {
		opt(s)
	}
	s.byVideo = make(map[string]model.VideoResult, s.capacity)
	return s
}

// Put implements Store. The episode slice is copied so later caller
// mutations do not leak into the store.
func (s *MemoryStore) Put(_ context.Context, result model.VideoResult) error {
	if result.Job.VideoID == "" {
		metrics.RecordErrorByComponent("repository", "empty_video_id")
		return ErrEmptyVideo
	}
	result.Episodes = cloneEpisodes(result.Episodes)

	s.mu.Lock()
	s.byVideo[result.Job.VideoID] = result
	n := len(s.byVideo)
	s.mu.Unlock()

	metrics.UpdateVideosStored(n)
	return nil
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, videoID string) (model.VideoResult, error) {
	s.mu.RLock()
	r, ok := s.byVideo[videoID]
	s.mu.RUnlock()
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return model.VideoResult{}, ErrNotFound
	}
	r.Episodes = cloneEpisodes(r.Episodes)
	return r, nil
}

// List implements Store.
func (s *MemoryStore) List(_ context.Context) []model.VideoResult {
	s.mu.RLock()
	out := make([]model.VideoResult, 0, len(s.byVideo))
	for _, r := range s.byVideo {
		r.Episodes = cloneEpisodes(r.Episodes)
		out = append(out, r)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Job.VideoID < out[j].Job.VideoID })
	return out
}

// Summaries implements Store.
func (s *MemoryStore) Summaries(ctx context.Context) []Summary {
	results := s.List(ctx)
	out := make([]Summary, len(results))
	for i, r := range results {
		sum := Summary{
			VideoID:  r.Job.VideoID,
			Episodes: len(r.Episodes),
			Frames:   r.Frames,
			Skipped:  r.Err != nil,
		}
		if r.Err != nil {
			sum.Error = r.Err.Error()
		}
		for _, ep := range r.Episodes {
			switch ep.Class() {
			case model.ClassDribble:
				sum.Dribbles++
			case model.ClassTackle:
				sum.Tackles++
			}
		}
		out[i] = sum
	}
	return out
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byVideo)
}

func cloneEpisodes(in []model.Episode) []model.Episode {
	if in == nil {
		return nil
	}
	out := make([]model.Episode, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}
