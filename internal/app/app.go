package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cypherlabdev/match-prediction-service/internal/cache"
	"github.com/cypherlabdev/match-prediction-service/internal/config"
	"github.com/cypherlabdev/match-prediction-service/internal/models"
	"github.com/cypherlabdev/match-prediction-service/internal/provider/footballdata"
	"github.com/cypherlabdev/match-prediction-service/internal/service"
	"github.com/cypherlabdev/match-prediction-service/internal/store"
	"github.com/cypherlabdev/match-prediction-service/pkg/estimator"
	"github.com/cypherlabdev/match-prediction-service/pkg/hybrid"
)

// App holds the wired components shared by the server and the CLI
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Cache   *cache.RedisCache
	Store   *store.MatchStore
	Service *service.PredictionService
}

// New connects to Redis and the match store and wires the prediction pipeline
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	redisCache := cache.NewRedisCache(
		cache.RedisCacheConfig{
			Addr:      cfg.Redis.Addr,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Redis.KeyPrefix,
			Grace:     cfg.Redis.Grace,
		},
		logger,
	)
	if err := redisCache.Ping(ctx); err != nil {
		redisCache.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	logger.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")

	matchStore, err := store.Open(ctx, store.MatchStoreConfig{
		Driver:       cfg.Database.Driver,
		DSN:          cfg.Database.DSN,
		FormMatches:  cfg.Database.FormMatches,
		MaxOpenConns: cfg.Database.MaxOpenConns,
	}, logger)
	if err != nil {
		redisCache.Close()
		return nil, err
	}
	if err := matchStore.EnsureSchema(ctx); err != nil {
		redisCache.Close()
		matchStore.Close()
		return nil, err
	}
	logger.Info().Str("driver", cfg.Database.Driver).Msg("connected to match store")

	adjustments := learningAdjustments(ctx, cfg, matchStore, logger)
	statistical := estimator.NewStatistical(cfg.Statistical.ToStatisticalParams(adjustments), logger)

	var reasoner hybrid.Reasoner
	if cfg.Reasoning.Enabled && cfg.Reasoning.APIKey != "" {
		reasoner = estimator.NewReasoning(cfg.Reasoning.ToReasoningConfig(), logger)
		logger.Info().Str("model", cfg.Reasoning.Model).Msg("reasoning estimator enabled")
	} else {
		logger.Warn().Msg("reasoning estimator disabled, predictions will be statistical only")
	}

	var scorers hybrid.ScorerProvider
	if cfg.Scorers.Enabled {
		scorers = footballdata.NewClient(footballdata.Config{
			BaseURL:           cfg.Scorers.BaseURL,
			APIKey:            cfg.Scorers.APIKey,
			Limit:             cfg.Scorers.Limit,
			CacheTTL:          cfg.Scorers.CacheTTL,
			RequestsPerSecond: cfg.Scorers.RequestsPerSecond,
			MaxRetries:        uint64(max(cfg.Scorers.MaxRetries, 0)),
			Timeout:           cfg.Scorers.Timeout,
		}, logger)
	}

	reconciler := hybrid.NewReconciler(statistical, reasoner, scorers,
		hybrid.ReconcilerConfig{
			MaxScorers: cfg.Scorers.MaxPerSide,
			Timeout:    cfg.Reasoning.Timeout,
		}, logger)

	predictionService := service.NewPredictionService(
		reconciler,
		redisCache,
		matchStore,
		matchStore,
		service.PredictionConfig{
			TTL:             cfg.Redis.TTL,
			Horizon:         cfg.Pregeneration.Horizon,
			FormWindowDays:  cfg.Pregeneration.FormWindowDays,
			HeadToHeadLimit: cfg.Pregeneration.HeadToHeadLimit,
			Concurrency:     cfg.Pregeneration.Concurrency,
			Limit:           cfg.Pregeneration.Limit,
		},
		logger,
	)

	return &App{
		Config:  cfg,
		Logger:  logger,
		Cache:   redisCache,
		Store:   matchStore,
		Service: predictionService,
	}, nil
}

func learningAdjustments(ctx context.Context, cfg *config.Config, matchStore *store.MatchStore, logger zerolog.Logger) models.LearningAdjustments {
	if !cfg.Statistical.UseLearning {
		return models.LearningAdjustments{}
	}
	adjustments, err := matchStore.LoadCoefficients(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to load learning coefficients, using base constants")
		return models.LearningAdjustments{}
	}
	return adjustments
}

// Close releases the Redis and database connections
func (a *App) Close() error {
	return errors.Join(a.Cache.Close(), a.Store.Close())
}

// SetupLogger configures the logger based on config
func SetupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	return log.Logger.With().Str("service", "match-predictor").Logger()
}
