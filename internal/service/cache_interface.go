package service

import (
	"context"
	"time"

	"github.com/cypherlabdev/match-prediction-service/internal/models"
)

// PredictionCache is an interface that abstracts prediction cache operations
// This allows for easier testing and mocking
type PredictionCache interface {
	Get(ctx context.Context, matchID int64) (*models.HybridPrediction, error)
	Put(ctx context.Context, matchID int64, prediction *models.HybridPrediction, ttl time.Duration) error
	EvictExpired(ctx context.Context) (int, error)
	Delete(ctx context.Context, matchID int64) error
	Ping(ctx context.Context) error
}
