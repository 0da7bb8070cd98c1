package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"

	"github.com/cypherlabdev/match-prediction-service/internal/metrics"
	"github.com/cypherlabdev/match-prediction-service/internal/models"
)

// PredictionConfig holds prediction service parameters
type PredictionConfig struct {
	TTL             time.Duration // cache validity of a generated prediction
	Horizon         time.Duration // how far ahead pregeneration looks
	FormWindowDays  int           // finished-match window for team form
	HeadToHeadLimit int
	Concurrency     int // matches processed in parallel by Pregenerate
	Limit           int // default match limit for Pregenerate, 0 = no limit
}

// PregenerateOptions tunes a single pregeneration run
type PregenerateOptions struct {
	Limit int  // overrides PredictionConfig.Limit when > 0
	Force bool // regenerate even if a valid prediction is cached
}

// PredictionService serves cached predictions and pre-generates them in the background
type PredictionService struct {
	predictor Predictor
	cache     PredictionCache
	matches   MatchSource
	forms     FormProvider
	config    PredictionConfig
	logger    zerolog.Logger
	now       func() time.Time
}

// NewPredictionService creates a new prediction service
func NewPredictionService(
	predictor Predictor,
	cache PredictionCache,
	matches MatchSource,
	forms FormProvider,
	config PredictionConfig,
	logger zerolog.Logger,
) *PredictionService {
	if config.TTL <= 0 {
		config.TTL = 6 * time.Hour
	}
	if config.Horizon <= 0 {
		config.Horizon = 30 * 24 * time.Hour
	}
	if config.FormWindowDays <= 0 {
		config.FormWindowDays = 60
	}
	if config.HeadToHeadLimit <= 0 {
		config.HeadToHeadLimit = 5
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 4
	}

	return &PredictionService{
		predictor: predictor,
		cache:     cache,
		matches:   matches,
		forms:     forms,
		config:    config,
		logger:    logger.With().Str("component", "prediction_service").Logger(),
		now:       time.Now,
	}
}

// GetPrediction returns the cached prediction for a match. A miss is reported
// as models.ErrPredictionNotReady; predictions are never computed here.
func (s *PredictionService) GetPrediction(ctx context.Context, matchID int64) (*models.HybridPrediction, error) {
	prediction, err := s.cache.Get(ctx, matchID)
	if err == nil {
		s.logger.Debug().Int64("match_id", matchID).Msg("cache hit for prediction")
		return prediction, nil
	}

	if !errors.Is(err, models.ErrPredictionNotReady) {
		s.logger.Warn().
			Err(err).
			Int64("match_id", matchID).
			Msg("cache error, reporting prediction as not ready")
	}
	return nil, fmt.Errorf("%w: match %d", models.ErrPredictionNotReady, matchID)
}

// GetPredictions returns the cached predictions for several matches; matches
// without one are listed as pending
func (s *PredictionService) GetPredictions(ctx context.Context, matchIDs []int64) (map[int64]*models.HybridPrediction, []int64) {
	found := make(map[int64]*models.HybridPrediction, len(matchIDs))
	pending := make([]int64, 0)

	for _, id := range matchIDs {
		prediction, err := s.GetPrediction(ctx, id)
		if err != nil {
			pending = append(pending, id)
			continue
		}
		found[id] = prediction
	}
	return found, pending
}

// PrepareMatchData gathers both teams' form and the head-to-head record
func (s *PredictionService) PrepareMatchData(ctx context.Context, match *models.Match) (*models.MatchData, error) {
	homeForm, err := s.forms.GetRecentForm(ctx, match.Home.ID, s.config.FormWindowDays)
	if err != nil {
		return nil, fmt.Errorf("%w: form for team %d: %w", models.ErrUpstreamDataUnavailable, match.Home.ID, err)
	}
	awayForm, err := s.forms.GetRecentForm(ctx, match.Away.ID, s.config.FormWindowDays)
	if err != nil {
		return nil, fmt.Errorf("%w: form for team %d: %w", models.ErrUpstreamDataUnavailable, match.Away.ID, err)
	}

	meetings, err := s.matches.HeadToHead(ctx, match.Home.ID, match.Away.ID, s.config.HeadToHeadLimit)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Int64("match_id", match.ID).
			Msg("failed to load head-to-head, continuing without it")
		meetings = nil
	}

	return &models.MatchData{
		Match:      *match,
		HomeForm:   homeForm,
		AwayForm:   awayForm,
		HeadToHead: models.FormatHeadToHead(meetings),
	}, nil
}

// RegenerateMatch recomputes and caches the prediction for one match,
// superseding any cached entry
func (s *PredictionService) RegenerateMatch(ctx context.Context, matchID int64) (*models.HybridPrediction, error) {
	match, err := s.matches.GetMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load match %d: %w", matchID, err)
	}
	return s.generate(ctx, match)
}

func (s *PredictionService) generate(ctx context.Context, match *models.Match) (*models.HybridPrediction, error) {
	data, err := s.PrepareMatchData(ctx, match)
	if err != nil {
		return nil, err
	}

	prediction := s.predictor.Predict(ctx, data)

	if err := s.cache.Put(ctx, match.ID, prediction, s.config.TTL); err != nil {
		if !errors.Is(err, models.ErrCacheWrite) {
			err = fmt.Errorf("%w: %w", models.ErrCacheWrite, err)
		}
		return nil, err
	}

	s.logger.Info().
		Int64("match_id", match.ID).
		Str("score", prediction.PredictedScore()).
		Str("confidence", string(prediction.Confidence)).
		Dur("ttl", s.config.TTL).
		Msg("generated and cached prediction")

	return prediction, nil
}

type pregenerationStatus string

const (
	statusGenerated pregenerationStatus = "generated"
	statusCached    pregenerationStatus = "cached"
	statusFailed    pregenerationStatus = "failed"
)

type matchOutcome struct {
	matchID  int64
	status   pregenerationStatus
	degraded bool
	err      error
}

// Pregenerate computes predictions for upcoming matches with bounded
// concurrency. Per-match failures are collected in the report and do not stop
// the run; expired entries are evicted afterwards.
func (s *PredictionService) Pregenerate(ctx context.Context, opts PregenerateOptions) (*models.PregenerationReport, error) {
	began := time.Now()
	from := s.now()

	limit := s.config.Limit
	if opts.Limit > 0 {
		limit = opts.Limit
	}

	matches, err := s.matches.ListUpcomingMatches(ctx, from, from.Add(s.config.Horizon), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming matches: %w", err)
	}

	s.logger.Info().
		Int("matches", len(matches)).
		Int("concurrency", s.config.Concurrency).
		Bool("force", opts.Force).
		Msg("starting prediction pregeneration")

	p := pool.NewWithResults[matchOutcome]().WithMaxGoroutines(s.config.Concurrency)
	for _, match := range matches {
		p.Go(func() matchOutcome {
			return s.pregenerateMatch(ctx, match, opts.Force)
		})
	}
	outcomes := p.Wait()

	report := &models.PregenerationReport{
		Total:    len(matches),
		Failures: []models.MatchFailure{},
	}
	for _, o := range outcomes {
		metrics.PregeneratedMatches.WithLabelValues(string(o.status)).Inc()
		switch o.status {
		case statusGenerated:
			report.Generated++
			if o.degraded {
				report.Degraded++
			}
		case statusCached:
			report.Cached++
		case statusFailed:
			report.Failures = append(report.Failures, models.MatchFailure{MatchID: o.matchID, Error: o.err.Error()})
		}
	}
	sort.Slice(report.Failures, func(i, j int) bool {
		return report.Failures[i].MatchID < report.Failures[j].MatchID
	})

	evicted, err := s.cache.EvictExpired(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to evict expired predictions")
	}
	report.Evicted = evicted

	report.Duration = time.Since(began)
	metrics.PregenerationDuration.Observe(report.Duration.Seconds())

	s.logger.Info().
		Int("total", report.Total).
		Int("generated", report.Generated).
		Int("cached", report.Cached).
		Int("degraded", report.Degraded).
		Int("failed", len(report.Failures)).
		Int("evicted", report.Evicted).
		Dur("duration", report.Duration).
		Msg("prediction pregeneration complete")

	return report, nil
}

func (s *PredictionService) pregenerateMatch(ctx context.Context, match *models.Match, force bool) matchOutcome {
	if err := ctx.Err(); err != nil {
		return matchOutcome{matchID: match.ID, status: statusFailed, err: err}
	}

	if !force {
		if _, err := s.cache.Get(ctx, match.ID); err == nil {
			return matchOutcome{matchID: match.ID, status: statusCached}
		} else if !errors.Is(err, models.ErrPredictionNotReady) {
			s.logger.Warn().Err(err).Int64("match_id", match.ID).Msg("cache lookup failed, regenerating")
		}
	}

	prediction, err := s.generate(ctx, match)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("match_id", match.ID).
			Msg("failed to pregenerate prediction")
		return matchOutcome{matchID: match.ID, status: statusFailed, err: err}
	}
	return matchOutcome{matchID: match.ID, status: statusGenerated, degraded: prediction.Degraded}
}

// EvictExpired removes expired predictions from the cache
func (s *PredictionService) EvictExpired(ctx context.Context) (int, error) {
	return s.cache.EvictExpired(ctx)
}

// HandleMatchEvent reacts to fixture changes: scheduled or updated matches are
// regenerated, finished matches drop their cached prediction
func (s *PredictionService) HandleMatchEvent(ctx context.Context, event models.MatchEventMessage) error {
	switch event.Event {
	case models.MatchEventScheduled, models.MatchEventUpdated:
		if _, err := s.RegenerateMatch(ctx, event.MatchID); err != nil {
			return fmt.Errorf("failed to regenerate match %d: %w", event.MatchID, err)
		}
		return nil
	case models.MatchEventFinished:
		if err := s.cache.Delete(ctx, event.MatchID); err != nil {
			return fmt.Errorf("failed to drop prediction for match %d: %w", event.MatchID, err)
		}
		s.logger.Info().Int64("match_id", event.MatchID).Msg("dropped prediction for finished match")
		return nil
	default:
		return fmt.Errorf("unknown match event %q", event.Event)
	}
}

// RunScheduler pregenerates immediately and then on every tick until ctx is done
func (s *PredictionService) RunScheduler(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info().Dur("interval", interval).Msg("started pregeneration scheduler")

	for {
		if _, err := s.Pregenerate(ctx, PregenerateOptions{}); err != nil {
			s.logger.Error().Err(err).Msg("scheduled pregeneration failed")
		}

		select {
		case <-ctx.Done():
			s.logger.Info().Msg("stopping pregeneration scheduler")
			return
		case <-ticker.C:
		}
	}
}
