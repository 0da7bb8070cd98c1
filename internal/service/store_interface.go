package service

import (
	"context"
	"time"

	"github.com/cypherlabdev/match-prediction-service/internal/models"
)

// MatchSource is an interface that abstracts fixture lookups
type MatchSource interface {
	GetMatch(ctx context.Context, matchID int64) (*models.Match, error)
	ListUpcomingMatches(ctx context.Context, from, to time.Time, limit int) ([]*models.Match, error)
	HeadToHead(ctx context.Context, homeTeamID, awayTeamID int64, limit int) ([]models.MatchResult, error)
}

// FormProvider is an interface that abstracts team form lookups
// Missing history yields the documented defaults rather than an error
type FormProvider interface {
	GetRecentForm(ctx context.Context, teamID int64, windowDays int) (models.TeamFormSummary, error)
}
