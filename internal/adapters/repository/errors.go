package repository

import "errors"

// Sentinel kinds for result store errors.
var (
	ErrNotFound   = errors.New("video not found")
	ErrEmptyVideo = errors.New("result has no video id")
)
