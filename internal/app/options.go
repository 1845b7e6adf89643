package service

import (
	"time"

	"github.com/jamaine1984/indira/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock sets the time source used for cache timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithMaxDiscoverLimit caps the per-request discovery limit.
func WithMaxDiscoverLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.maxDiscoverLimit = limit
		}
	}
}

// WithSubBatchSize bounds concurrent scoring fan-out per sub-batch.
func WithSubBatchSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.subBatchSize = size
		}
	}
}

// WithRecomputeCaps bounds the full-recompute job: users iterated,
// candidates per user, and total scores per run.
func WithRecomputeCaps(users, candidatesPerUser, totalScores int) Option {
	return func(s *Service) {
		if users > 0 {
			s.recomputeUserCap = users
		}
		if candidatesPerUser > 0 {
			s.recomputeCandidateCap = candidatesPerUser
		}
		if totalScores > 0 {
			s.recomputeScoreCap = totalScores
		}
	}
}

// WithSweepBatchSize bounds deletions per purge run.
func WithSweepBatchSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.sweepBatchSize = size
		}
	}
}
