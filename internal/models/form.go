package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Outcome is a single result from one team's point of view
type Outcome string

const (
	OutcomeWin  Outcome = "W"
	OutcomeDraw Outcome = "D"
	OutcomeLoss Outcome = "L"
)

const (
	// DefaultGoalsAverage is used for both averages when a team has no finished matches
	DefaultGoalsAverage = 1.5
	// MaxFormLength is the longest recent-form sequence kept
	MaxFormLength = 5
)

// TeamFormSummary is a team's recent form, computed per prediction request
type TeamFormSummary struct {
	TeamID           int64     `json:"team_id"`
	GoalsScoredAvg   float64   `json:"goals_scored_avg"`
	GoalsConcededAvg float64   `json:"goals_conceded_avg"`
	RecentForm       []Outcome `json:"recent_form"` // most recent first
	MatchesPlayed    int       `json:"matches_played"`
}

// DefaultForm is the summary for a team without history
func DefaultForm(teamID int64) TeamFormSummary {
	return TeamFormSummary{
		TeamID:           teamID,
		GoalsScoredAvg:   DefaultGoalsAverage,
		GoalsConcededAvg: DefaultGoalsAverage,
		RecentForm:       []Outcome{},
	}
}

// FormString renders the recent form as e.g. "WWDLW", or "N/A" when empty
func (f TeamFormSummary) FormString() string {
	if len(f.RecentForm) == 0 {
		return "N/A"
	}
	var sb strings.Builder
	for _, o := range f.RecentForm {
		sb.WriteString(string(o))
	}
	return sb.String()
}

// MatchResult is a finished match row
type MatchResult struct {
	MatchID    int64     `json:"match_id"`
	Kickoff    time.Time `json:"kickoff"`
	HomeTeamID int64     `json:"home_team_id"`
	AwayTeamID int64     `json:"away_team_id"`
	HomeTeam   string    `json:"home_team,omitempty"`
	AwayTeam   string    `json:"away_team,omitempty"`
	HomeScore  int       `json:"home_score"`
	AwayScore  int       `json:"away_score"`
}

// OutcomeFor returns the result from teamID's point of view
func (r MatchResult) OutcomeFor(teamID int64) Outcome {
	scored, conceded := r.HomeScore, r.AwayScore
	if r.AwayTeamID == teamID {
		scored, conceded = r.AwayScore, r.HomeScore
	}
	switch {
	case scored > conceded:
		return OutcomeWin
	case scored < conceded:
		return OutcomeLoss
	default:
		return OutcomeDraw
	}
}

// SummarizeForm builds a TeamFormSummary from finished matches ordered most recent first.
// Averages are rounded to one decimal place.
func SummarizeForm(teamID int64, results []MatchResult) TeamFormSummary {
	if len(results) == 0 {
		return DefaultForm(teamID)
	}

	var scored, conceded int
	form := make([]Outcome, 0, MaxFormLength)
	for i, r := range results {
		if r.AwayTeamID == teamID {
			scored += r.AwayScore
			conceded += r.HomeScore
		} else {
			scored += r.HomeScore
			conceded += r.AwayScore
		}
		if i < MaxFormLength {
			form = append(form, r.OutcomeFor(teamID))
		}
	}

	n := decimal.NewFromInt(int64(len(results)))
	return TeamFormSummary{
		TeamID:           teamID,
		GoalsScoredAvg:   decimal.NewFromInt(int64(scored)).DivRound(n, 1).InexactFloat64(),
		GoalsConcededAvg: decimal.NewFromInt(int64(conceded)).DivRound(n, 1).InexactFloat64(),
		RecentForm:       form,
		MatchesPlayed:    len(results),
	}
}

// FormatHeadToHead renders previous meetings for a prompt
func FormatHeadToHead(results []MatchResult) string {
	if len(results) == 0 {
		return "No head-to-head history available"
	}
	parts := make([]string, 0, len(results))
	for _, r := range results {
		parts = append(parts, fmt.Sprintf("%s %d-%d %s", r.HomeTeam, r.HomeScore, r.AwayScore, r.AwayTeam))
	}
	return fmt.Sprintf("Last %d meetings: %s", len(results), strings.Join(parts, ", "))
}
