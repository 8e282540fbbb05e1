package worker

import "errors"

// ErrAbandoned marks a video that was still queued when the workers stopped.
var ErrAbandoned = errors.New("video abandoned before detection")
