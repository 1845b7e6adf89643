package scheduler

import (
	"time"

	"github.com/jamaine1984/indira/pkg/logger"
)

// Option applies a configuration option to the Runner.
type Option func(*Runner)

// WithRunTimeout bounds the wall-clock time of a single job run.
func WithRunTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.runTimeout = d
		}
	}
}

// WithLogger sets a custom logger for the runner.
func WithLogger(l logger.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}
