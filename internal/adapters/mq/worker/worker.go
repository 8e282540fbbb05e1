// Package worker runs per-video detection off the job queue.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/okian/dribble/internal/adapters/dataset"
	"github.com/okian/dribble/internal/adapters/mq/queue"
	"github.com/okian/dribble/internal/domain/detector"
	"github.com/okian/dribble/internal/domain/merge"
	"github.com/okian/dribble/internal/domain/model"
	"github.com/okian/dribble/pkg/logger"
	"github.com/okian/dribble/pkg/metrics"
)

const (
	workerShutdownTimeout = 5 * time.Second
	poolShutdownTimeout   = 30 * time.Second
)

// Job abstracts what workers read off the queue.
type Job = queue.Job

// FrameSource loads the frames of a video.
type FrameSource interface {
	Frames(ctx context.Context, job model.VideoJob) ([]model.Frame, error)
}

// Reporter receives the outcome of every dequeued job.
type Reporter interface {
	Report(ctx context.Context, result model.VideoResult)
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker processes jobs until the queue drains or it is stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown stops the worker after its current video.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker runs one detector per dequeued video.
type InMemoryWorker struct {
	queue        Queue
	source       FrameSource
	reporter     Reporter
	name         string
	detectorOpts []detector.Option

	shutdown chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, source FrameSource, reporter Reporter, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		source:   source,
		reporter: reporter,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.With(logger.String("worker", w.name))
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			metrics.RecordQueueDequeue()
			metrics.WorkerBusy(1)
			result := w.Process(ctx, job)
			metrics.WorkerBusy(-1)
			w.reporter.Report(ctx, result)
		}
	}
}

// Shutdown stops the worker after its current video.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.stop()

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *InMemoryWorker) stop() {
	w.stopOnce.Do(func() { close(w.shutdown) })
}

// Process runs detection over one video. It never fails: load and
// configuration errors are carried in the result. A cancelled context stops
// the frame loop and keeps the episodes finalized so far.
func (w *InMemoryWorker) Process(ctx context.Context, job Job) model.VideoResult {
	start := time.Now()
	result := model.VideoResult{Job: job}
	log := w.logger.With(logger.String("video_id", job.VideoID))

	frames, err := w.source.Frames(ctx, job)
	if err != nil {
		reason := skipReason(err)
		metrics.RecordVideoSkipped(reason)
		metrics.RecordErrorByComponent("worker", reason)
		log.Warn(ctx, "video skipped", logger.String("reason", reason), logger.Error(err))
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	det, err := detector.New(w.detectorOpts...)
	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "detector_config")
		log.Error(ctx, "detector construction failed", logger.Error(err))
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	var episodes []model.Episode
	for _, f := range frames {
		if ctx.Err() != nil {
			result.Partial = true
			break
		}
		ep, err := det.Process(f)
		if err != nil {
			metrics.RecordFrameRejected()
			log.Warn(ctx, "frame rejected", logger.Int("frame", f.Number), logger.Error(err))
			continue
		}
		result.Frames++
		metrics.RecordFrameProcessed()
		if ep != nil {
			episodes = append(episodes, *ep)
		}
	}
	if !result.Partial {
		if ep := det.Flush(); ep != nil {
			episodes = append(episodes, *ep)
		}
	}

	result.Episodes = merge.Episodes(episodes)
	result.Discarded = det.Discarded()
	result.Duration = time.Since(start)

	for i := range result.Episodes {
		metrics.RecordEpisodeEmitted(result.Episodes[i].Class().String())
	}
	metrics.RecordEpisodesDiscarded(result.Discarded)
	metrics.RecordEpisodesMerged(len(episodes) - len(result.Episodes))
	metrics.RecordVideoProcessed(result.Frames, float64(result.Duration.Microseconds())/1000)

	if result.Partial {
		log.Warn(ctx, "video cancelled", logger.Int("frames", result.Frames), logger.Int("episodes", len(result.Episodes)))
	} else {
		log.Debug(ctx, "video processed",
			logger.Int("frames", result.Frames),
			logger.Int("episodes", len(result.Episodes)),
			logger.Int("discarded", result.Discarded),
			logger.Duration("elapsed", result.Duration))
	}
	return result
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, dataset.ErrLabelsMissing):
		return "labels_missing"
	case errors.Is(err, dataset.ErrLabelsDecode):
		return "labels_decode"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "load_error"
	}
}

// Pool manages multiple workers.
type Pool struct {
	workers  []*InMemoryWorker
	queue    Queue
	reporter Reporter

	logger logger.Logger
}

// NewPool creates a new worker pool. A non-positive count uses one worker per CPU.
func NewPool(workerCount int, q Queue, source FrameSource, reporter Reporter, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	pool := &Pool{
		workers:  make([]*InMemoryWorker, workerCount),
		queue:    q,
		reporter: reporter,
		logger:   logger.Get().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		wopts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		pool.workers[i] = NewInMemoryWorker(q, source, reporter, wopts...)
	}

	metrics.UpdateWorkerCount(workerCount)
	return pool
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Done returns a channel closed once every worker has exited.
func (p *Pool) Done() <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, w := range p.workers {
			<-w.done
		}
	}()
	return done
}

// Stop signals every worker and waits a bounded time for each.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		w.stop()
	}
	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
}

// Shutdown closes the queue so workers drain it, then waits for them.
// Jobs left queued because the workers already stopped on their context are
// reported as abandoned, so every dequeued or queued job gets a result.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	select {
	case <-p.Done():
	case <-shutdownCtx.Done():
		p.logger.Warn(ctx, "worker pool shutdown timed out", logger.Int("workers", len(p.workers)))
		return fmt.Errorf("worker pool shutdown: %w", shutdownCtx.Err())
	}

	p.reportAbandoned(ctx)
	return nil
}

func (p *Pool) reportAbandoned(ctx context.Context) {
	drainer, ok := p.queue.(interface{ Drain() []Job })
	if !ok {
		return
	}
	jobs := drainer.Drain()
	if len(jobs) == 0 {
		return
	}
	p.logger.Warn(ctx, "reporting videos abandoned in the queue", logger.Int("videos", len(jobs)))
	for _, job := range jobs {
		metrics.RecordVideoSkipped("abandoned")
		p.reporter.Report(ctx, model.VideoResult{
			Job:     job,
			Partial: true,
			Err:     fmt.Errorf("%w: %s", ErrAbandoned, job.VideoID),
		})
	}
}
