// Package service wires the queue, worker pool and result store into the
// detection pipeline used by the CLI and the HTTP API.
package service

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	videoqueue "github.com/okian/dribble/internal/adapters/mq/queue"
	workerpool "github.com/okian/dribble/internal/adapters/mq/worker"
	"github.com/okian/dribble/internal/adapters/repository"
	"github.com/okian/dribble/internal/domain/dedupe"
	"github.com/okian/dribble/internal/domain/detector"
	"github.com/okian/dribble/internal/domain/model"
	"github.com/okian/dribble/pkg/logger"
	"github.com/okian/dribble/pkg/metrics"
)

const (
	defaultQueueSize     = 1_000
	defaultDedupeSize    = 10_000
	defaultSubmitBackoff = 5 * time.Millisecond
	stopTimeout          = 30 * time.Second
)

// Service runs detection over submitted videos and keeps their results.
type Service struct {
	mu sync.RWMutex

	// Core components
	store   repository.Store
	deduper dedupe.Deduper
	queue   videoqueue.Queue
	pool    *workerpool.Pool
	source  workerpool.FrameSource

	// Configuration
	workerCount   int
	queueSize     int
	dedupeSize    int
	detectorOpts  []detector.Option
	submitBackoff time.Duration

	// Progress
	pending    sync.WaitGroup
	submitted  atomic.Int64
	completed  atomic.Int64
	skipped    atomic.Int64
	partial    atomic.Int64
	duplicates atomic.Int64

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of detection workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of queued videos.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the duplicate submission cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithFrameSource sets where workers load video frames from.
func WithFrameSource(src workerpool.FrameSource) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithStore replaces the in-memory result store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithDetectorOptions configures the detector used for every video.
func WithDetectorOptions(opts ...detector.Option) Option {
	return func(s *Service) {
		s.detectorOpts = append(s.detectorOpts, opts...)
	}
}

// WithSubmitBackoff sets how long Submit sleeps between attempts on a full queue.
func WithSubmitBackoff(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.submitBackoff = d
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:   runtime.NumCPU(),
		queueSize:     defaultQueueSize,
		dedupeSize:    defaultDedupeSize,
		submitBackoff: defaultSubmitBackoff,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components. Workers stop when
// ctx is done.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.source == nil {
		return ErrNoFrameSource
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if _, err := detector.New(s.detectorOpts...); err != nil {
		return err
	}

	s.logger.Info(ctx, "starting detection service...")

	if s.store == nil {
		s.store = repository.NewMemoryStore(repository.WithCapacity(s.queueSize))
	}
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = videoqueue.NewInMemoryQueue(videoqueue.WithCapacity(s.queueSize))
	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.source, s,
		workerpool.WithDetectorOptions(s.detectorOpts...))
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "detection service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)
	return nil
}

// Stop closes the queue and waits for workers to drain it.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	s.logger.Info(ctx, "stopping detection service...")
	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool did not drain", logger.Error(err))
	}
	s.started = false
	s.logger.Info(ctx, "detection service stopped")
}

// Submit queues a video for detection and returns its job id. A full queue
// is retried until ctx is done. Repeated video ids return ErrDuplicate.
func (s *Service) Submit(ctx context.Context, job model.VideoJob) (string, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return "", ErrNotStarted
	}
	if job.VideoID == "" {
		return "", ErrInvalidJob
	}

	if s.deduper.SeenAndRecord(ctx, job.VideoID) {
		s.duplicates.Add(1)
		metrics.RecordVideoDuplicate()
		s.logger.Debug(ctx, "duplicate video skipped", logger.String("video_id", job.VideoID))
		return "", ErrDuplicate
	}

	job.JobID = uuid.NewString()
	s.pending.Add(1)
	for {
		err := s.queue.Enqueue(ctx, job)
		if err == nil {
			s.submitted.Add(1)
			return job.JobID, nil
		}
		if !errors.Is(err, videoqueue.ErrFull) {
			s.abandon(ctx, job)
			return "", err
		}
		select {
		case <-ctx.Done():
			s.abandon(ctx, job)
			return "", ctx.Err()
		case <-time.After(s.submitBackoff):
		}
	}
}

func (s *Service) abandon(ctx context.Context, job model.VideoJob) {
	s.pending.Done()
	s.deduper.Unrecord(ctx, job.VideoID)
}

// Report implements worker.Reporter.
func (s *Service) Report(ctx context.Context, result model.VideoResult) {
	defer s.pending.Done()

	switch {
	case result.Err != nil:
		s.skipped.Add(1)
	case result.Partial:
		s.partial.Add(1)
	default:
		s.completed.Add(1)
	}
	if err := s.store.Put(ctx, result); err != nil {
		s.logger.Error(ctx, "storing result failed",
			logger.String("video_id", result.Job.VideoID), logger.Error(err))
	}
}

// Wait blocks until every submitted video has been reported or ctx is done.
func (s *Service) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Results returns every stored result ordered by video id.
func (s *Service) Results(ctx context.Context) []model.VideoResult {
	if s.store == nil {
		return nil
	}
	return s.store.List(ctx)
}

// Result returns the stored result of one video.
func (s *Service) Result(ctx context.Context, videoID string) (model.VideoResult, error) {
	if s.store == nil {
		return model.VideoResult{}, repository.ErrNotFound
	}
	return s.store.Get(ctx, videoID)
}

// Summaries returns one listing row per stored video.
func (s *Service) Summaries(ctx context.Context) []repository.Summary {
	if s.store == nil {
		return nil
	}
	return s.store.Summaries(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
		"submitted":   s.submitted.Load(),
		"completed":   s.completed.Load(),
		"skipped":     s.skipped.Load(),
		"partial":     s.partial.Load(),
		"duplicates":  s.duplicates.Load(),
	}
	if s.queue != nil {
		stats["queueLength"] = s.queue.Len(ctx)
	}
	if s.store != nil {
		stats["videosStored"] = s.store.Count(ctx)
	}
	return stats
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}
