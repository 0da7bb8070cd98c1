package service

import (
	"context"

	"github.com/cypherlabdev/match-prediction-service/internal/models"
)

// MatchEventHandler is an interface that abstracts reactions to fixture changes
type MatchEventHandler interface {
	HandleMatchEvent(ctx context.Context, event models.MatchEventMessage) error
}
