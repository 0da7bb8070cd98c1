package models

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Method identifies which estimator produced a prediction
type Method string

const (
	MethodStatistical Method = "statistical"
	MethodReasoning   Method = "reasoning"
	MethodHybrid      Method = "hybrid"
)

// Winner is the match outcome implied by a set of probabilities
type Winner string

const (
	WinnerHome Winner = "home"
	WinnerAway Winner = "away"
	WinnerDraw Winner = "draw"
)

// Convergence records whether both estimators picked the same winner
type Convergence string

const (
	ConvergenceAligned   Convergence = "aligned"
	ConvergenceDivergent Convergence = "divergent"
)

// ProbabilityTolerance is the allowed drift of home+away+draw from 100
const ProbabilityTolerance = 1.0

// PredictionResult is the normalized output of a single estimator
type PredictionResult struct {
	Method             Method     `json:"method"`
	PredictedScoreHome int        `json:"predicted_score_home"`
	PredictedScoreAway int        `json:"predicted_score_away"`
	ExpectedGoals      float64    `json:"expected_goals"`
	WinProbabilityHome float64    `json:"win_probability_home"`
	WinProbabilityAway float64    `json:"win_probability_away"`
	DrawProbability    float64    `json:"draw_probability"`
	BTTSProbability    float64    `json:"btts_probability"`
	Confidence         Confidence `json:"confidence"`
	Reasoning          string     `json:"reasoning"`
}

// Winner returns the outcome with the highest probability.
// Exact ties resolve Home > Away > Draw.
func (p *PredictionResult) Winner() Winner {
	switch {
	case p.WinProbabilityHome >= p.WinProbabilityAway && p.WinProbabilityHome >= p.DrawProbability:
		return WinnerHome
	case p.WinProbabilityAway >= p.DrawProbability:
		return WinnerAway
	default:
		return WinnerDraw
	}
}

// ProbabilitySum returns home + away + draw
func (p *PredictionResult) ProbabilitySum() float64 {
	return p.WinProbabilityHome + p.WinProbabilityAway + p.DrawProbability
}

// Validate checks the structural invariants of a prediction result
func (p *PredictionResult) Validate() error {
	if p.PredictedScoreHome < 0 || p.PredictedScoreAway < 0 {
		return fmt.Errorf("invalid predicted score: %d-%d", p.PredictedScoreHome, p.PredictedScoreAway)
	}
	if p.ExpectedGoals < 0 || math.IsNaN(p.ExpectedGoals) {
		return fmt.Errorf("invalid expected goals: %v", p.ExpectedGoals)
	}
	for name, v := range map[string]float64{
		"win_probability_home": p.WinProbabilityHome,
		"win_probability_away": p.WinProbabilityAway,
		"draw_probability":     p.DrawProbability,
		"btts_probability":     p.BTTSProbability,
	} {
		if v < 0 || v > 100 || math.IsNaN(v) {
			return fmt.Errorf("invalid %s: %v", name, v)
		}
	}
	if sum := p.ProbabilitySum(); math.Abs(sum-100) > ProbabilityTolerance {
		return fmt.Errorf("outcome probabilities sum to %.1f, expected 100", sum)
	}
	if !p.Confidence.Valid() {
		return fmt.Errorf("invalid confidence: %q", p.Confidence)
	}
	if strings.TrimSpace(p.Reasoning) == "" {
		return fmt.Errorf("reasoning is empty")
	}
	return nil
}

// ScorerGuess is a probable goal scorer for one side
type ScorerGuess struct {
	Name        string `json:"name"`
	Probability int    `json:"probability"`
	SeasonGoals int    `json:"season_goals"`
}

// ProbableScorers holds the scorer guesses for both sides
type ProbableScorers struct {
	Home []ScorerGuess `json:"home"`
	Away []ScorerGuess `json:"away"`
}

// EmptyScorers returns a scorer structure with both sides present but empty
func EmptyScorers() ProbableScorers {
	return ProbableScorers{Home: []ScorerGuess{}, Away: []ScorerGuess{}}
}

// HybridPrediction is the reconciled prediction stored in the cache
type HybridPrediction struct {
	ID      uuid.UUID `json:"id"`
	MatchID int64     `json:"match_id"`

	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`

	PredictionResult

	Convergence     Convergence     `json:"convergence"`
	ConfidenceIcon  string          `json:"confidence_icon"`
	ProbableScorers ProbableScorers `json:"probable_scorers"`

	Sources     []Method  `json:"sources"`
	Degraded    bool      `json:"degraded"`
	GeneratedAt time.Time `json:"generated_at"`
}

// PredictedScore renders the score as "home-away"
func (h *HybridPrediction) PredictedScore() string {
	return fmt.Sprintf("%d-%d", h.PredictedScoreHome, h.PredictedScoreAway)
}

// CacheEntry is a cached prediction with its validity window
type CacheEntry struct {
	MatchID   int64            `json:"match_id"`
	Payload   HybridPrediction `json:"payload"`
	CreatedAt time.Time        `json:"created_at"`
	ExpiresAt time.Time        `json:"expires_at"`
}

// Expired reports whether the entry is logically absent at now
func (e *CacheEntry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}
