package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/jamaine1984/indira/internal/adapters/http/api"
	"github.com/jamaine1984/indira/internal/adapters/repository"
	"github.com/jamaine1984/indira/internal/adapters/scheduler"
	"github.com/jamaine1984/indira/internal/adapters/scorecache"
	service "github.com/jamaine1984/indira/internal/app"
	"github.com/jamaine1984/indira/internal/config"
	"github.com/jamaine1984/indira/internal/domain/scoring"
	"github.com/jamaine1984/indira/pkg/logger"
	"github.com/jamaine1984/indira/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 30 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
)

// Scheduled job names.
const (
	jobRecompute = "recompute_all"
	jobPurge     = "purge_expired"
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Open the collaborator stores. Single handles, initialized once
	// here and injected into every component that needs them.
	store, err := repository.NewSQLiteStore(ctx, cfg.ProfileDBPath)
	if err != nil {
		log.Error(ctx, "failed to open profile store", logger.Error(err))
		return
	}
	defer func() { _ = store.Close() }()

	cache, err := scorecache.NewBadgerStore(cfg.ScoreCachePath)
	if err != nil {
		log.Error(ctx, "failed to open score cache", logger.Error(err))
		return
	}
	defer func() { _ = cache.Close() }()

	// Wire the service.
	svc := service.New(store, store, cache, scoring.NewCalculator(),
		service.WithLogger(log.Named("service")),
		service.WithMaxDiscoverLimit(cfg.MaxDiscoverLimit),
		service.WithSubBatchSize(cfg.SubBatchSize),
		service.WithRecomputeCaps(cfg.RecomputeUserCap, cfg.RecomputeCandidateCap, cfg.RecomputeScoreCap),
		service.WithSweepBatchSize(cfg.SweepBatchSize),
	)

	// Register and start the maintenance jobs.
	runner := scheduler.New(
		scheduler.WithLogger(log.Named("scheduler")),
		scheduler.WithRunTimeout(time.Duration(cfg.JobTimeoutSeconds)*time.Second),
	)
	if err := runner.Register(jobRecompute, cfg.RecomputeSchedule, svc.RecomputeAll); err != nil {
		log.Error(ctx, "failed to register recompute job", logger.Error(err))
		return
	}
	if err := runner.Register(jobPurge, cfg.PurgeSchedule, svc.PurgeExpired); err != nil {
		log.Error(ctx, "failed to register purge job", logger.Error(err))
		return
	}
	runner.Start()

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	// HTTP mux and routes.
	mux := http.NewServeMux()
	apiServer := api.NewServer(svc)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	runner.Stop(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			metrics.UpdateSystemMemoryUsage(m.Alloc)
			metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
		}
	}
}
