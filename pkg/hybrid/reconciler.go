package hybrid

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/panics"

	"github.com/cypherlabdev/match-prediction-service/internal/metrics"
	"github.com/cypherlabdev/match-prediction-service/internal/models"
	"github.com/cypherlabdev/match-prediction-service/pkg/estimator"
)

const degradedNote = "Only the statistical method was available."

var errReasonerDisabled = errors.New("reasoning estimator disabled")

// StatisticalEstimator is the always-available estimator
type StatisticalEstimator interface {
	Estimate(home, away models.TeamFormSummary, homeName, awayName string) models.PredictionResult
}

// Reasoner is the estimator that may fail
type Reasoner interface {
	Estimate(ctx context.Context, data *models.MatchData) (*models.PredictionResult, error)
}

// ScorerProvider returns season scorers of one team in a league
type ScorerProvider interface {
	TopScorers(ctx context.Context, leagueCode string, teamExternalID int64) ([]models.ScorerStat, error)
}

// ReconcilerConfig holds reconciler options
type ReconcilerConfig struct {
	MaxScorers int           // per side
	Timeout    time.Duration // bounds the reasoning call and the scorer lookup, e.g. 30 * time.Second
}

type reasonOutcome struct {
	result *models.PredictionResult
	err    error
}

// Reconciler combines both estimators into one HybridPrediction
type Reconciler struct {
	statistical StatisticalEstimator
	reasoner    Reasoner
	scorers     ScorerProvider
	config      ReconcilerConfig
	logger      zerolog.Logger
	now         func() time.Time
}

// NewReconciler creates a new reconciler. reasoner and scorers may be nil.
func NewReconciler(
	statistical StatisticalEstimator,
	reasoner Reasoner,
	scorers ScorerProvider,
	config ReconcilerConfig,
	logger zerolog.Logger,
) *Reconciler {
	if config.MaxScorers <= 0 {
		config.MaxScorers = 3
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	return &Reconciler{
		statistical: statistical,
		reasoner:    reasoner,
		scorers:     scorers,
		config:      config,
		logger:      logger.With().Str("component", "reconciler").Logger(),
		now:         time.Now,
	}
}

// Predict produces the reconciled prediction. It never fails: without a
// reasoning result it degrades to the statistical estimate. It returns within
// the configured timeout; late reasoning or scorer results are discarded.
func (r *Reconciler) Predict(ctx context.Context, data *models.MatchData) *models.HybridPrediction {
	bounded, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	reasonCh := make(chan reasonOutcome, 1)
	if r.reasoner != nil {
		go func() {
			var out reasonOutcome
			if recovered := panics.Try(func() {
				out.result, out.err = r.reasoner.Estimate(bounded, data)
			}); recovered != nil {
				r.logPanic(data.Match.ID, "reasoning estimator", recovered)
				out = reasonOutcome{err: recovered.AsError()}
			}
			reasonCh <- out
		}()
	} else {
		reasonCh <- reasonOutcome{err: errReasonerDisabled}
	}

	scorerCh := make(chan models.ProbableScorers, 1)
	go func() {
		scorers := models.EmptyScorers()
		if recovered := panics.Try(func() {
			scorers = r.probableScorers(bounded, data)
		}); recovered != nil {
			r.logPanic(data.Match.ID, "scorer lookup", recovered)
			scorers = models.EmptyScorers()
		}
		scorerCh <- scorers
	}()

	stat := r.statistical.Estimate(data.HomeForm, data.AwayForm, data.Match.Home.Name, data.Match.Away.Name)

	var outcome reasonOutcome
	select {
	case outcome = <-reasonCh:
	case <-bounded.Done():
		select {
		case outcome = <-reasonCh:
		default:
			outcome = reasonOutcome{err: fmt.Errorf("%w: %w", models.ErrReasoningFailed, bounded.Err())}
		}
	}
	reasoned, reasonErr := outcome.result, outcome.err

	scorers := models.EmptyScorers()
	select {
	case scorers = <-scorerCh:
	case <-bounded.Done():
		select {
		case scorers = <-scorerCh:
		default:
			r.logger.Warn().
				Int64("match_id", data.Match.ID).
				Msg("scorer lookup did not finish in time, continuing without scorers")
		}
	}

	prediction := &models.HybridPrediction{
		ID:              uuid.New(),
		MatchID:         data.Match.ID,
		HomeTeam:        data.Match.Home.Name,
		AwayTeam:        data.Match.Away.Name,
		ProbableScorers: scorers,
		GeneratedAt:     r.now().UTC(),
	}

	if reasonErr != nil || reasoned == nil {
		prediction.PredictionResult = Degrade(stat)
		prediction.Convergence = models.ConvergenceAligned
		prediction.Sources = []models.Method{models.MethodStatistical}
		prediction.Degraded = true
		metrics.PredictionsTotal.WithLabelValues("degraded").Inc()

		r.logger.Info().
			Err(reasonErr).
			Int64("match_id", data.Match.ID).
			Msg("reasoning unavailable, using statistical estimate only")
	} else {
		prediction.PredictionResult, prediction.Convergence = Blend(stat, *reasoned)
		prediction.Sources = []models.Method{models.MethodStatistical, models.MethodReasoning}
		metrics.PredictionsTotal.WithLabelValues(string(prediction.Convergence)).Inc()
	}
	prediction.ConfidenceIcon = prediction.Confidence.Icon()

	r.logger.Info().
		Int64("match_id", data.Match.ID).
		Str("home", prediction.HomeTeam).
		Str("away", prediction.AwayTeam).
		Str("score", prediction.PredictedScore()).
		Str("convergence", string(prediction.Convergence)).
		Str("confidence", string(prediction.Confidence)).
		Bool("degraded", prediction.Degraded).
		Msg("reconciled prediction")

	return prediction
}

func (r *Reconciler) logPanic(matchID int64, source string, recovered *panics.Recovered) {
	r.logger.Error().
		Int64("match_id", matchID).
		Str("source", source).
		Str("panic", fmt.Sprint(recovered.Value)).
		Msg("recovered panic, continuing without its result")
}

// Degrade turns the statistical estimate into the sole basis of a prediction
func Degrade(stat models.PredictionResult) models.PredictionResult {
	result := stat
	result.Reasoning = degradedNote + " " + stat.Reasoning
	return result
}

// Blend averages two estimates and derives convergence and confidence.
// Probabilities are averaged first and then re-normalized to sum to 100.
func Blend(stat, reasoned models.PredictionResult) (models.PredictionResult, models.Convergence) {
	statWinner, reasonedWinner := stat.Winner(), reasoned.Winner()

	convergence := models.ConvergenceDivergent
	if statWinner == reasonedWinner {
		convergence = models.ConvergenceAligned
	}

	home, away, draw := estimator.Normalize(
		mean(stat.WinProbabilityHome, reasoned.WinProbabilityHome),
		mean(stat.WinProbabilityAway, reasoned.WinProbabilityAway),
		mean(stat.DrawProbability, reasoned.DrawProbability),
	)

	confidence := stat.Confidence.Lower(reasoned.Confidence)
	var verdict string
	if convergence == models.ConvergenceAligned {
		confidence = confidence.Promote()
		verdict = fmt.Sprintf("Both methods agree: %s.", describe(statWinner))
	} else {
		confidence = confidence.Demote()
		verdict = fmt.Sprintf("The methods disagree: statistics point to %s, the contextual analysis to %s.",
			describe(statWinner), describe(reasonedWinner))
	}

	return models.PredictionResult{
		Method:             models.MethodHybrid,
		PredictedScoreHome: int(math.Round(mean(float64(stat.PredictedScoreHome), float64(reasoned.PredictedScoreHome)))),
		PredictedScoreAway: int(math.Round(mean(float64(stat.PredictedScoreAway), float64(reasoned.PredictedScoreAway)))),
		ExpectedGoals:      estimator.Round1(mean(stat.ExpectedGoals, reasoned.ExpectedGoals)),
		WinProbabilityHome: home,
		WinProbabilityAway: away,
		DrawProbability:    draw,
		BTTSProbability:    estimator.Round1(mean(stat.BTTSProbability, reasoned.BTTSProbability)),
		Confidence:         confidence,
		Reasoning: fmt.Sprintf("%s Statistical view: %s Contextual analysis: %s",
			verdict, stat.Reasoning, reasoned.Reasoning),
	}, convergence
}

func mean(a, b float64) float64 {
	return (a + b) / 2
}

func describe(w models.Winner) string {
	switch w {
	case models.WinnerHome:
		return "a home win"
	case models.WinnerAway:
		return "an away win"
	default:
		return "a draw"
	}
}
