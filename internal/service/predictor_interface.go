package service

import (
	"context"

	"github.com/cypherlabdev/match-prediction-service/internal/models"
)

// Predictor is an interface that abstracts the hybrid prediction pipeline
// Implementations never fail; degraded predictions are still predictions
type Predictor interface {
	Predict(ctx context.Context, data *models.MatchData) *models.HybridPrediction
}

// PredictionReader is an interface that abstracts read access to cached predictions
type PredictionReader interface {
	GetPrediction(ctx context.Context, matchID int64) (*models.HybridPrediction, error)
	GetPredictions(ctx context.Context, matchIDs []int64) (map[int64]*models.HybridPrediction, []int64)
}
