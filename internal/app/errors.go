package service

import "errors"

// Sentinel errors returned by the Service.
var (
	ErrNotStarted    = errors.New("service not started")
	ErrDuplicate     = errors.New("video already submitted")
	ErrInvalidJob    = errors.New("video job has no id")
	ErrNoFrameSource = errors.New("no frame source configured")
)
