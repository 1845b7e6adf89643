// Package service provides the core recommendation service that
// implements the operations exposed by the HTTP API and the scheduled
// jobs.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jamaine1984/indira/internal/adapters/repository"
	"github.com/jamaine1984/indira/internal/adapters/scorecache"
	"github.com/jamaine1984/indira/internal/domain/exclude"
	"github.com/jamaine1984/indira/internal/domain/model"
	"github.com/jamaine1984/indira/internal/domain/types"
	"github.com/jamaine1984/indira/pkg/logger"
	"github.com/jamaine1984/indira/pkg/metrics"
)

// Default operation bounds. Each one caps the cost of a single
// invocation; runs terminate early when a cap is hit.
const (
	defaultDiscoverLimit    = 50
	defaultMaxDiscoverLimit = 100
	maxCandidatePage        = 100
	defaultSubBatchSize     = 10
	defaultRecomputeUsers   = 1000
	defaultRecomputeCands   = 50
	defaultRecomputeScores  = 10000
)

// Scorer computes a directional compatibility score from two profile
// snapshots. Implementations must be pure and total.
type Scorer interface {
	Score(source, target model.Profile) float64
}

// Service implements the scoring, discovery and maintenance
// operations over the collaborator stores and the score cache.
type Service struct {
	profiles     repository.ProfileStore
	interactions repository.InteractionStore
	cache        scorecache.Store
	scorer       Scorer

	now func() time.Time

	maxDiscoverLimit      int
	subBatchSize          int
	recomputeUserCap      int
	recomputeCandidateCap int
	recomputeScoreCap     int
	sweepBatchSize        int

	logger logger.Logger
}

// New constructs a Service with default bounds.
func New(profiles repository.ProfileStore, interactions repository.InteractionStore,
	cache scorecache.Store, scorer Scorer, opts ...Option) *Service {
	s := &Service{
		profiles:              profiles,
		interactions:          interactions,
		cache:                 cache,
		scorer:                scorer,
		now:                   time.Now,
		maxDiscoverLimit:      defaultMaxDiscoverLimit,
		subBatchSize:          defaultSubBatchSize,
		recomputeUserCap:      defaultRecomputeUsers,
		recomputeCandidateCap: defaultRecomputeCands,
		recomputeScoreCap:     defaultRecomputeScores,
		sweepBatchSize:        scorecache.DefaultSweepBatch,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	return s
}

// ComputeScore scores a single directional pair and writes the entry
// through the cache.
func (s *Service) ComputeScore(ctx context.Context, callerID, sourceID, targetID string) (types.ScoreResult, error) {
	if callerID == "" {
		return types.ScoreResult{}, fmt.Errorf("%w: caller identity required", ErrUnauthenticated)
	}
	if sourceID == "" || targetID == "" {
		return types.ScoreResult{}, fmt.Errorf("%w: source and target ids are required", ErrInvalidArgument)
	}

	source, err := s.getProfile(ctx, sourceID)
	if err != nil {
		return types.ScoreResult{}, err
	}
	target, err := s.getProfile(ctx, targetID)
	if err != nil {
		return types.ScoreResult{}, err
	}

	score := s.scorer.Score(source, target)
	metrics.RecordScoreComputed()

	entry := model.NewScoreEntry(sourceID, targetID, score, s.now())
	if err := s.cache.Upsert(ctx, entry); err != nil {
		metrics.RecordCacheUpsertError()
		metrics.RecordErrorByComponent("service", "cache_upsert")
		return types.ScoreResult{}, fmt.Errorf("%w: cache score %s->%s: %v", ErrInternal, sourceID, targetID, err)
	}
	metrics.RecordCacheUpsert()

	s.logger.Debug(ctx, "score computed",
		logger.String("sourceID", sourceID),
		logger.String("targetID", targetID),
		logger.Float64("score", score),
	)
	return types.ScoreResult{SourceID: sourceID, TargetID: targetID, Score: score}, nil
}

// DiscoverCandidates returns up to limit candidates for sourceID,
// ranked by score descending, excluding the source itself and every
// user the source has already liked or swiped.
func (s *Service) DiscoverCandidates(ctx context.Context, callerID, sourceID string, limit int) ([]types.Match, error) {
	if callerID == "" {
		return nil, fmt.Errorf("%w: caller identity required", ErrUnauthenticated)
	}
	if sourceID == "" {
		return nil, fmt.Errorf("%w: source id is required", ErrInvalidArgument)
	}
	if limit < 1 {
		limit = defaultDiscoverLimit
	}
	if limit > s.maxDiscoverLimit {
		limit = s.maxDiscoverLimit
	}

	start := s.now()
	metrics.RecordDiscoveryRequest()

	source, err := s.getProfile(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	excluded, err := s.buildExclusionSet(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	// Overfetch 2x to compensate for candidates removed post-fetch by
	// the exclusion filter.
	pageSize := limit * 2
	if pageSize > maxCandidatePage {
		pageSize = maxCandidatePage
	}
	gender := source.LookingFor
	if gender == "" {
		gender = source.Gender
	}
	page, err := s.profiles.Query(ctx, repository.Filter{Gender: gender}, pageSize)
	if err != nil {
		metrics.RecordErrorByComponent("service", "profile_query")
		return nil, fmt.Errorf("%w: query candidates: %v", ErrInternal, err)
	}

	matches := s.scoreCandidates(ctx, source, page, excluded, limit)

	// Stable sort keeps input order among equal scores.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}

	metrics.RecordDiscoveryLatency(float64(s.now().Sub(start).Milliseconds()))
	s.logger.Info(ctx, "discovery complete",
		logger.String("sourceID", sourceID),
		logger.Int("candidates", len(page)),
		logger.Int("matches", len(matches)),
	)
	return matches, nil
}

// scoreCandidates walks the candidate page in sub-batches: inside a
// sub-batch candidates are scored concurrently, bounding fan-out to
// the sub-batch size. Stops issuing sub-batches once limit results
// have accumulated. A single candidate's failure is logged and
// skipped, never aborting the batch.
func (s *Service) scoreCandidates(ctx context.Context, source model.Profile,
	page []model.Profile, excluded *exclude.Set, limit int) []types.Match {
	matches := make([]types.Match, 0, limit)

	for batchStart := 0; batchStart < len(page) && len(matches) < limit; batchStart += s.subBatchSize {
		batchEnd := batchStart + s.subBatchSize
		if batchEnd > len(page) {
			batchEnd = len(page)
		}
		batch := page[batchStart:batchEnd]

		// Results indexed by batch position so accumulation preserves
		// input order; no ordering is guaranteed among the concurrent
		// computations themselves.
		results := make([]*types.Match, len(batch))
		var wg sync.WaitGroup
		for i, candidate := range batch {
			if excluded.Contains(candidate.ID) {
				metrics.RecordCandidateSkipped()
				continue
			}
			wg.Add(1)
			go func(i int, candidate model.Profile) {
				defer wg.Done()
				m, err := s.scoreAndCache(ctx, source, candidate)
				if err != nil {
					metrics.RecordScoringError()
					s.logger.Warn(ctx, "candidate skipped",
						logger.String("candidateID", candidate.ID),
						logger.Error(err),
					)
					return
				}
				results[i] = &m
			}(i, candidate)
		}
		wg.Wait()

		for _, m := range results {
			if m != nil {
				matches = append(matches, *m)
			}
		}
	}
	return matches
}

// scoreAndCache computes one pair score and writes it through the
// cache.
func (s *Service) scoreAndCache(ctx context.Context, source, candidate model.Profile) (types.Match, error) {
	scoreStart := time.Now()
	score := s.scorer.Score(source, candidate)
	metrics.RecordScoringLatency(float64(time.Since(scoreStart).Milliseconds()))
	metrics.RecordScoreComputed()

	entry := model.NewScoreEntry(source.ID, candidate.ID, score, s.now())
	if err := s.cache.Upsert(ctx, entry); err != nil {
		metrics.RecordCacheUpsertError()
		return types.Match{}, fmt.Errorf("cache upsert: %w", err)
	}
	metrics.RecordCacheUpsert()

	return types.Match{
		CandidateID: candidate.ID,
		Score:       score,
		Profile: types.ProfileSummary{
			ID:        candidate.ID,
			Age:       candidate.Age,
			Bio:       candidate.Bio,
			Interests: candidate.Interests,
			Photos:    candidate.Photos,
		},
	}, nil
}

// RecomputeAll refreshes cached scores across the user population.
// The run iterates at most the configured user cap, scores at most
// the configured candidates per user, and stops entirely once the
// global score cap is reached. Per-item failures are logged and
// skipped.
func (s *Service) RecomputeAll(ctx context.Context) error {
	runID := uuid.NewString()
	s.logger.Info(ctx, "recompute run starting", logger.String("runID", runID))

	users, err := s.profiles.List(ctx, s.recomputeUserCap)
	if err != nil {
		metrics.RecordErrorByComponent("service", "profile_list")
		return fmt.Errorf("%w: list users: %v", ErrInternal, err)
	}

	// One extra row compensates for the self-row filtered below.
	candidates, err := s.profiles.List(ctx, s.recomputeCandidateCap+1)
	if err != nil {
		metrics.RecordErrorByComponent("service", "profile_list")
		return fmt.Errorf("%w: list candidates: %v", ErrInternal, err)
	}

	total := 0
	for _, user := range users {
		if total >= s.recomputeScoreCap {
			break
		}
		if err := ctx.Err(); err != nil {
			s.logger.Warn(ctx, "recompute run cancelled",
				logger.String("runID", runID),
				logger.Int("scores", total),
			)
			return fmt.Errorf("%w: recompute cancelled: %v", ErrInternal, err)
		}

		scored := 0
		for _, candidate := range candidates {
			if candidate.ID == user.ID {
				continue
			}
			if scored >= s.recomputeCandidateCap || total >= s.recomputeScoreCap {
				break
			}
			if _, err := s.scoreAndCache(ctx, user, candidate); err != nil {
				metrics.RecordScoringError()
				s.logger.Warn(ctx, "recompute pair skipped",
					logger.String("sourceID", user.ID),
					logger.String("targetID", candidate.ID),
					logger.Error(err),
				)
				continue
			}
			scored++
			total++
		}
	}

	s.logger.Info(ctx, "recompute run complete",
		logger.String("runID", runID),
		logger.Int("users", len(users)),
		logger.Int("scores", total),
	)
	return nil
}

// PurgeExpired removes one sweep batch of expired cache entries. It
// does not loop to drain a backlog; the schedule cadence converges it.
func (s *Service) PurgeExpired(ctx context.Context) error {
	deleted, err := s.cache.Sweep(ctx, s.now(), s.sweepBatchSize)
	if err != nil {
		metrics.RecordErrorByComponent("service", "cache_sweep")
		return fmt.Errorf("%w: sweep expired scores: %v", ErrInternal, err)
	}
	metrics.RecordCacheSweepDeleted(deleted)
	s.logger.Info(ctx, "purge complete", logger.Int("deleted", deleted))
	return nil
}

// Stats returns service counters for monitoring.
func (s *Service) Stats(ctx context.Context) map[string]interface{} {
	stats := map[string]interface{}{
		"max_discover_limit":  s.maxDiscoverLimit,
		"sub_batch_size":      s.subBatchSize,
		"recompute_user_cap":  s.recomputeUserCap,
		"recompute_score_cap": s.recomputeScoreCap,
		"sweep_batch_size":    s.sweepBatchSize,
	}
	if count, err := s.cache.Count(ctx); err == nil {
		stats["cached_scores"] = count
		metrics.UpdateCacheEntries(count)
	}
	return stats
}

// getProfile translates store errors into the boundary taxonomy.
func (s *Service) getProfile(ctx context.Context, id string) (model.Profile, error) {
	p, err := s.profiles.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Profile{}, fmt.Errorf("%w: profile %s", ErrNotFound, id)
		}
		metrics.RecordErrorByComponent("service", "profile_get")
		return model.Profile{}, fmt.Errorf("%w: get profile %s: %v", ErrInternal, id, err)
	}
	return p, nil
}

// buildExclusionSet collects the ids that must never be offered to
// sourceID: the source itself plus its like and swipe histories.
func (s *Service) buildExclusionSet(ctx context.Context, sourceID string) (*exclude.Set, error) {
	liked, err := s.interactions.QueryByActor(ctx, sourceID, model.KindLike)
	if err != nil {
		metrics.RecordErrorByComponent("service", "interaction_query")
		return nil, fmt.Errorf("%w: query likes: %v", ErrInternal, err)
	}
	swiped, err := s.interactions.QueryByActor(ctx, sourceID, model.KindSwipe)
	if err != nil {
		metrics.RecordErrorByComponent("service", "interaction_query")
		return nil, fmt.Errorf("%w: query swipes: %v", ErrInternal, err)
	}
	return exclude.New(sourceID, liked, swiped), nil
}
