// Package worker runs per-video detection off the job queue.
package worker

import (
	"github.com/okian/dribble/internal/domain/detector"
	"github.com/okian/dribble/pkg/logger"
)

// Option applies a configuration option to the InMemoryWorker.
type Option func(*InMemoryWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithDetectorOptions configures the detector created for every video.
func WithDetectorOptions(opts ...detector.Option) Option {
	return func(w *InMemoryWorker) {
		w.detectorOpts = append(w.detectorOpts, opts...)
	}
}
