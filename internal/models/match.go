package models

import (
	"time"
)

// Match statuses as stored by the ingestion side
const (
	MatchStatusScheduled = "SCHEDULED"
	MatchStatusTimed     = "TIMED"
	MatchStatusFinished  = "FINISHED"
)

// Team is a team reference
type Team struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	ExternalID int64  `json:"external_id,omitempty"` // football-data.org team id
}

// Match is a fixture known to the match store
type Match struct {
	ID         int64     `json:"id"`
	Kickoff    time.Time `json:"kickoff"`
	Status     string    `json:"status"`
	LeagueCode string    `json:"league_code"`
	Home       Team      `json:"home"`
	Away       Team      `json:"away"`
}

// MatchData is everything the reconciler needs for one fixture
type MatchData struct {
	Match      Match           `json:"match"`
	HomeForm   TeamFormSummary `json:"home_form"`
	AwayForm   TeamFormSummary `json:"away_form"`
	HeadToHead string          `json:"head_to_head"`
}

// ScorerStat is a player's season goal tally
type ScorerStat struct {
	Name        string `json:"name"`
	TeamID      int64  `json:"team_id"` // external team id
	SeasonGoals int    `json:"season_goals"`
}

// StatisticalParams holds the statistical estimator's constants and
// learning adjustments. Loaded and saved outside the estimator.
type StatisticalParams struct {
	FavoriteRatio float64 // home > away * ratio makes home the strong favorite

	FavoriteWin float64
	UnderdogWin float64
	FavoredDraw float64

	BalancedHomeWin float64
	BalancedAwayWin float64
	BalancedDraw    float64

	BTTSThreshold float64 // both sides must exceed this expected value
	BTTSLikely    float64
	BTTSUnlikely  float64

	Adjustments LearningAdjustments
}

// LearningAdjustments are additive corrections derived from past accuracy
type LearningAdjustments struct {
	HomeWin float64 `json:"home_win"`
	AwayWin float64 `json:"away_win"`
	Draw    float64 `json:"draw"`
	Goals   float64 `json:"goals"`
}

// IsZero reports whether no adjustment applies
func (a LearningAdjustments) IsZero() bool {
	return a == LearningAdjustments{}
}

// DefaultStatisticalParams returns the fixed design constants
func DefaultStatisticalParams() StatisticalParams {
	return StatisticalParams{
		FavoriteRatio:   1.3,
		FavoriteWin:     60,
		UnderdogWin:     20,
		FavoredDraw:     20,
		BalancedHomeWin: 40,
		BalancedAwayWin: 30,
		BalancedDraw:    30,
		BTTSThreshold:   1.0,
		BTTSLikely:      70,
		BTTSUnlikely:    40,
	}
}

// MatchFailure is one match that could not be pregenerated
type MatchFailure struct {
	MatchID int64  `json:"match_id"`
	Error   string `json:"error"`
}

// PregenerationReport summarizes a background pregeneration run
type PregenerationReport struct {
	Total     int            `json:"total"`
	Generated int            `json:"generated"`
	Cached    int            `json:"cached"`
	Degraded  int            `json:"degraded"`
	Failures  []MatchFailure `json:"failures"`
	Evicted   int            `json:"evicted"`
	Duration  time.Duration  `json:"duration"`
}

// Match event types published by the ingestion side
const (
	MatchEventScheduled = "scheduled"
	MatchEventUpdated   = "updated"
	MatchEventFinished  = "finished"
)

// MatchEventMessage represents the Kafka message emitted when a fixture changes
type MatchEventMessage struct {
	MatchID   int64     `json:"match_id"`
	Event     string    `json:"event"`
	Timestamp time.Time `json:"timestamp"`
}
