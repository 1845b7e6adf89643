// Package scheduler runs the periodic maintenance jobs on a cron
// cadence.
//
// Jobs are side-effect-only: a failing run is logged and ends, to be
// retried at the next tick. Runs are not guarded against overlap; the
// operations they drive are idempotent.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jamaine1984/indira/pkg/logger"
	"github.com/jamaine1984/indira/pkg/metrics"
)

// defaultRunTimeout bounds a single job run's wall-clock time in
// addition to the per-run item caps.
const defaultRunTimeout = 5 * time.Minute

// JobFunc is a scheduled unit of work. The context carries the
// per-run timeout.
type JobFunc func(ctx context.Context) error

// Runner registers cron-driven jobs and invokes them with explicit
// inputs; the jobs themselves know nothing about the trigger
// mechanism.
type Runner struct {
	cron       *cron.Cron
	runTimeout time.Duration
	logger     logger.Logger
}

// New creates a Runner with configuration options.
func New(opts ...Option) *Runner {
	r := &Runner{
		cron:       cron.New(),
		runTimeout: defaultRunTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logger.Get().Named("scheduler")
	}
	return r
}

// Register adds a job under the given cron spec (e.g. "@every 6h").
func (r *Runner) Register(name, spec string, job JobFunc) error {
	_, err := r.cron.AddFunc(spec, func() {
		r.runJob(name, job)
	})
	if err != nil {
		return err
	}
	r.logger.Info(context.Background(), "job registered",
		logger.String("job", name),
		logger.String("spec", spec),
	)
	return nil
}

// runJob executes one job run with timeout, metrics and panic
// isolation. Job failures never escape the run.
func (r *Runner) runJob(name string, job JobFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), r.runTimeout)
	defer cancel()

	start := time.Now()
	metrics.RecordJobRun(name)
	r.logger.Info(ctx, "job starting", logger.String("job", name))

	defer func() {
		if p := recover(); p != nil {
			metrics.RecordJobFailure(name)
			r.logger.Error(ctx, "job panicked",
				logger.String("job", name),
				logger.Any("panic", p),
			)
		}
	}()

	err := job(ctx)
	durationMs := float64(time.Since(start).Milliseconds())
	metrics.RecordJobDuration(name, durationMs)

	if err != nil {
		metrics.RecordJobFailure(name)
		r.logger.Error(ctx, "job failed",
			logger.String("job", name),
			logger.Error(err),
		)
		return
	}
	r.logger.Info(ctx, "job complete",
		logger.String("job", name),
		logger.Float64("duration_ms", durationMs),
	)
}

// Start begins the cron scheduler.
func (r *Runner) Start() {
	r.cron.Start()
}

// Stop halts the scheduler and waits for in-flight runs to finish or
// ctx to expire.
func (r *Runner) Stop(ctx context.Context) {
	done := r.cron.Stop().Done()
	select {
	case <-done:
	case <-ctx.Done():
		r.logger.Warn(ctx, "scheduler stop timed out")
	}
}
