// Package repository stores detection results per video.
package repository

import (
	"context"

	"github.com/okian/dribble/internal/domain/model"
)

// Summary is the listing row of one stored video.
type Summary struct {
	VideoID  string `json:"video_id"`
	Episodes int    `json:"episodes"`
	Dribbles int    `json:"dribbles"`
	Tackles  int    `json:"tackles"`
	Frames   int    `json:"frames"`
	Skipped  bool   `json:"skipped"`
	Error    string `json:"error,omitempty"`
}

// Store provides read/write access to per-video results.
type Store interface {
	// Put stores or replaces the result of a video.
	Put(ctx context.Context, result model.VideoResult) error

	// Get returns the result of a video.
	// Returns ErrNotFound if the video is unknown.
	Get(ctx context.Context, videoID string) (model.VideoResult, error)

	// List returns every result ordered by video id.
	List(ctx context.Context) []model.VideoResult

	// Summaries returns one listing row per video ordered by video id.
	Summaries(ctx context.Context) []Summary

	// Count returns the number of stored videos.
	Count(ctx context.Context) int
}
