package estimator

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/cypherlabdev/match-prediction-service/internal/models"
)

// Statistical derives a prediction from scoring averages (attack vs opposing defense)
type Statistical struct {
	params models.StatisticalParams
	logger zerolog.Logger
}

// NewStatistical creates a new statistical estimator
func NewStatistical(params models.StatisticalParams, logger zerolog.Logger) *Statistical {
	return &Statistical{
		params: params,
		logger: logger.With().Str("component", "statistical_estimator").Logger(),
	}
}

// ExpectedGoals returns each side's expected goals: own attack averaged with
// the opponent's defense
func ExpectedGoals(home, away models.TeamFormSummary) (homeExpected, awayExpected float64) {
	homeExpected = (home.GoalsScoredAvg + away.GoalsConcededAvg) / 2
	awayExpected = (away.GoalsScoredAvg + home.GoalsConcededAvg) / 2
	return homeExpected, awayExpected
}

// Estimate produces a prediction. It never fails.
func (s *Statistical) Estimate(home, away models.TeamFormSummary, homeName, awayName string) models.PredictionResult {
	homeExpected, awayExpected := ExpectedGoals(home, away)
	totalGoals := homeExpected + awayExpected

	winHome, winAway, draw := s.classify(homeExpected, awayExpected)

	btts := s.params.BTTSUnlikely
	if homeExpected > s.params.BTTSThreshold && awayExpected > s.params.BTTSThreshold {
		btts = s.params.BTTSLikely
	}

	if adj := s.params.Adjustments; !adj.IsZero() {
		h, a, d := math.Max(0, winHome+adj.HomeWin), math.Max(0, winAway+adj.AwayWin), math.Max(0, draw+adj.Draw)
		if h+a+d > 0 {
			winHome, winAway, draw = Normalize(h, a, d)
		} else {
			// every outcome clamped to zero; keep the unadjusted classification
			s.logger.Warn().
				Float64("home_win", adj.HomeWin).
				Float64("away_win", adj.AwayWin).
				Float64("draw", adj.Draw).
				Msg("outcome adjustments cancel every probability, ignoring them")
		}
		if adj.Goals != 0 {
			totalGoals = math.Max(0.5, math.Min(6.0, totalGoals+adj.Goals))
		}
	}

	result := models.PredictionResult{
		Method:             models.MethodStatistical,
		PredictedScoreHome: int(math.Round(homeExpected)),
		PredictedScoreAway: int(math.Round(awayExpected)),
		ExpectedGoals:      Round1(totalGoals),
		WinProbabilityHome: winHome,
		WinProbabilityAway: winAway,
		DrawProbability:    draw,
		BTTSProbability:    btts,
		Confidence:         models.ConfidenceMedium,
		Reasoning: fmt.Sprintf(
			"Based on recent averages: %s (%.1f goals/match, %.1f conceded) vs %s (%.1f goals/match, %.1f conceded).",
			homeName, home.GoalsScoredAvg, home.GoalsConcededAvg,
			awayName, away.GoalsScoredAvg, away.GoalsConcededAvg,
		),
	}

	s.logger.Debug().
		Str("home", homeName).
		Str("away", awayName).
		Float64("home_expected", homeExpected).
		Float64("away_expected", awayExpected).
		Str("winner", string(result.Winner())).
		Msg("statistical estimate")

	return result
}

// classify maps the expected-goals ratio to fixed outcome probabilities
func (s *Statistical) classify(homeExpected, awayExpected float64) (winHome, winAway, draw float64) {
	p := s.params
	switch {
	case homeExpected > awayExpected*p.FavoriteRatio:
		return p.FavoriteWin, p.UnderdogWin, p.FavoredDraw
	case awayExpected > homeExpected*p.FavoriteRatio:
		return p.UnderdogWin, p.FavoriteWin, p.FavoredDraw
	default:
		return p.BalancedHomeWin, p.BalancedAwayWin, p.BalancedDraw
	}
}
