package model

import "time"

// VideoJob is one video submitted for detection.
type VideoJob struct {
	JobID   string // unique id of this submission
	VideoID string // stable video identifier, used for deduplication and export
	Dir     string // directory holding the video's label file
	Index   int    // position of the video in its dataset listing
}

// VideoResult is the outcome of running detection over one video.
type VideoResult struct {
	Job       VideoJob      // the submitted job
	Episodes  []Episode     // merged, ordered, non-overlapping
	Frames    int           // frames fed to the detector
	Discarded int           // episodes rejected by the acceptance test
	Duration  time.Duration // wall time spent on detection
	Partial   bool          // detection stopped early on cancellation
	Err       error         // non-nil when the video was skipped
}
