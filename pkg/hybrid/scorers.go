package hybrid

import (
	"context"
	"math"
	"sort"

	"github.com/sourcegraph/conc"

	"github.com/cypherlabdev/match-prediction-service/internal/models"
	"github.com/cypherlabdev/match-prediction-service/pkg/estimator"
)

const maxScorerProbability = 95

// probableScorers looks up both sides' scorers concurrently. Missing data
// yields empty lists.
func (r *Reconciler) probableScorers(ctx context.Context, data *models.MatchData) models.ProbableScorers {
	result := models.EmptyScorers()
	if r.scorers == nil || data.Match.LeagueCode == "" {
		return result
	}

	homeExpected, awayExpected := estimator.ExpectedGoals(data.HomeForm, data.AwayForm)

	var wg conc.WaitGroup
	wg.Go(func() {
		result.Home = r.sideScorers(ctx, data.Match.LeagueCode, data.Match.Home, homeExpected)
	})
	wg.Go(func() {
		result.Away = r.sideScorers(ctx, data.Match.LeagueCode, data.Match.Away, awayExpected)
	})
	wg.Wait()
	return result
}

func (r *Reconciler) sideScorers(ctx context.Context, leagueCode string, team models.Team, expected float64) []models.ScorerGuess {
	if team.ExternalID == 0 {
		return []models.ScorerGuess{}
	}

	stats, err := r.scorers.TopScorers(ctx, leagueCode, team.ExternalID)
	if err != nil {
		r.logger.Warn().
			Err(err).
			Str("league", leagueCode).
			Str("team", team.Name).
			Msg("failed to fetch scorers")
		return []models.ScorerGuess{}
	}

	return RankScorers(stats, expected, r.config.MaxScorers)
}

// RankScorers turns season tallies into per-match scoring probabilities.
// A player's share of the listed goals scales the side's expected goals into
// a Poisson rate; the probability of at least one goal is capped at 95.
func RankScorers(stats []models.ScorerStat, sideExpectedGoals float64, limit int) []models.ScorerGuess {
	guesses := make([]models.ScorerGuess, 0, len(stats))

	total := 0
	for _, s := range stats {
		if s.SeasonGoals > 0 {
			total += s.SeasonGoals
		}
	}
	if total == 0 || sideExpectedGoals <= 0 {
		return guesses
	}

	for _, s := range stats {
		if s.SeasonGoals <= 0 {
			continue
		}
		lambda := float64(s.SeasonGoals) / float64(total) * sideExpectedGoals
		probability := int(math.Round(100 * (1 - math.Exp(-lambda))))
		if probability > maxScorerProbability {
			probability = maxScorerProbability
		}
		guesses = append(guesses, models.ScorerGuess{
			Name:        s.Name,
			Probability: probability,
			SeasonGoals: s.SeasonGoals,
		})
	}

	sort.SliceStable(guesses, func(i, j int) bool {
		if guesses[i].Probability != guesses[j].Probability {
			return guesses[i].Probability > guesses[j].Probability
		}
		if guesses[i].SeasonGoals != guesses[j].SeasonGoals {
			return guesses[i].SeasonGoals > guesses[j].SeasonGoals
		}
		return guesses[i].Name < guesses[j].Name
	})

	if limit > 0 && len(guesses) > limit {
		guesses = guesses[:limit]
	}
	return guesses
}
