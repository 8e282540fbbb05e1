package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/dribble/internal/adapters/dataset"
	"github.com/okian/dribble/internal/adapters/export"
	"github.com/okian/dribble/internal/adapters/http/api"
	"github.com/okian/dribble/internal/adapters/http/swagger"
	app "github.com/okian/dribble/internal/app"
	"github.com/okian/dribble/internal/config"
	"github.com/okian/dribble/pkg/logger"
	"github.com/okian/dribble/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	os.Exit(start())
}

func start() int {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		// Use fmt for initialization errors since logger isn't available yet
		fmt.Fprintln(os.Stderr, "failed to initialize logging:", err)
		return 1
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		return 1
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logging:", err)
		return 1
	}
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "detection run failed", logger.Error(err))
		return 1
	}
	return 0
}

// run processes every discovered video, writes the export and, when an
// address is configured, keeps serving the results until ctx is done.
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	ds := newDataset(cfg)
	svc := app.New(
		app.WithLogger(log.Named("service")),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithDedupeSize(cfg.DedupeSize),
		app.WithFrameSource(ds),
		app.WithDetectorOptions(cfg.DetectorOptions()...),
	)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		startSystemMetricsUpdater(gctx, metrics.RefreshInterval())
		return nil
	})

	g.Go(func() error {
		path, err := runBatch(gctx, cfg, ds, svc, log)
		if err != nil {
			return err
		}
		log.Info(gctx, "export written", logger.String("path", path))
		if cfg.Addr == "" {
			cancel()
			return nil
		}
		log.Info(gctx, "batch finished; serving results until interrupted", logger.String("addr", cfg.Addr))
		return nil
	})

	if cfg.Addr != "" {
		srv := newHTTPServer(gctx, cfg.Addr, svc)
		g.Go(func() error {
			log.Info(gctx, "starting HTTP server", logger.String("addr", cfg.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancelShutdown()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("http shutdown: %w", err)
			}
			log.Info(shutdownCtx, "server stopped")
			return nil
		})
	}

	return g.Wait()
}

// runBatch submits every discovered video, waits for detection and writes
// the export. An interrupted batch still exports the videos finished so far.
func runBatch(ctx context.Context, cfg *config.Config, ds *dataset.Dataset, svc *app.Service, log logger.Logger) (string, error) {
	jobs, err := ds.Discover(ctx)
	if err != nil {
		return "", fmt.Errorf("discover videos: %w", err)
	}
	log.Info(ctx, "videos discovered",
		logger.Int("videos", len(jobs)),
		logger.Strings("subsets", cfg.Subsets),
		logger.String("data_path", cfg.DataPath),
	)

	for _, job := range jobs {
		if _, err := svc.Submit(ctx, job); err != nil {
			if errors.Is(err, app.ErrDuplicate) {
				log.Warn(ctx, "duplicate video id", logger.String("video_id", job.VideoID))
				continue
			}
			if ctx.Err() != nil {
				break
			}
			return "", fmt.Errorf("submit %s: %w", job.VideoID, err)
		}
	}

	if err := svc.Wait(ctx); err != nil {
		log.Warn(ctx, "detection interrupted; exporting finished videos", logger.Error(err))
		svc.Stop()
	}

	builder := export.NewBuilder(
		export.WithMargin(cfg.ExportMargin),
		export.WithKeepUnfinished(cfg.KeepUnfinished),
	)
	doc := builder.Build(svc.Results(context.WithoutCancel(ctx)))
	path, err := export.Write(cfg.OutputPath, doc)
	if err != nil {
		return "", err
	}
	return path, nil
}

func newDataset(cfg *config.Config) *dataset.Dataset {
	return dataset.New(cfg.DataPath,
		dataset.WithSubsets(cfg.Subsets...),
		dataset.WithIgnorePersonClasses(cfg.IgnorePersonClasses...),
		dataset.WithIgnoreTeams(cfg.IgnoreTeams...),
		dataset.WithMissingBall(cfg.MissingBall()),
	)
}

func newMux(ctx context.Context, svc *app.Service) *http.ServeMux {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc).Register(ctx, mux)
	return mux
}

func newHTTPServer(ctx context.Context, addr string, svc *app.Service) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           newMux(ctx, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// startSystemMetricsUpdater updates system metrics every interval until ctx
// is done.
func startSystemMetricsUpdater(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	updateSystemMetrics()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}
