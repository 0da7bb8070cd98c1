package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSummarizeForm tests averages and the recent form sequence
func TestSummarizeForm(t *testing.T) {
	results := []MatchResult{
		{HomeTeamID: 1, AwayTeamID: 2, HomeScore: 2, AwayScore: 0},
		{HomeTeamID: 3, AwayTeamID: 1, HomeScore: 1, AwayScore: 1},
		{HomeTeamID: 1, AwayTeamID: 4, HomeScore: 0, AwayScore: 3},
	}

	form := SummarizeForm(1, results)

	assert.Equal(t, int64(1), form.TeamID)
	assert.Equal(t, 3, form.MatchesPlayed)
	assert.Equal(t, 1.0, form.GoalsScoredAvg)
	assert.Equal(t, 1.3, form.GoalsConcededAvg)
	assert.Equal(t, "WDL", form.FormString())
}

// TestSummarizeForm_CapsFormLength tests that only five outcomes are kept
func TestSummarizeForm_CapsFormLength(t *testing.T) {
	results := make([]MatchResult, 7)
	for i := range results {
		results[i] = MatchResult{HomeTeamID: 1, AwayTeamID: 2, HomeScore: 1, AwayScore: 0}
	}

	form := SummarizeForm(1, results)

	assert.Len(t, form.RecentForm, MaxFormLength)
	assert.Equal(t, 7, form.MatchesPlayed)
}

// TestSummarizeForm_NoHistory tests the documented defaults
func TestSummarizeForm_NoHistory(t *testing.T) {
	form := SummarizeForm(5, nil)

	assert.Equal(t, DefaultGoalsAverage, form.GoalsScoredAvg)
	assert.Equal(t, DefaultGoalsAverage, form.GoalsConcededAvg)
	assert.Empty(t, form.RecentForm)
	assert.Equal(t, 0, form.MatchesPlayed)
	assert.Equal(t, "N/A", form.FormString())
}

// TestFormatHeadToHead tests prompt rendering of previous meetings
func TestFormatHeadToHead(t *testing.T) {
	assert.Equal(t, "No head-to-head history available", FormatHeadToHead(nil))

	got := FormatHeadToHead([]MatchResult{
		{HomeTeam: "Arsenal", AwayTeam: "Chelsea", HomeScore: 3, AwayScore: 1},
		{HomeTeam: "Chelsea", AwayTeam: "Arsenal", HomeScore: 0, AwayScore: 0},
	})
	assert.Equal(t, "Last 2 meetings: Arsenal 3-1 Chelsea, Chelsea 0-0 Arsenal", got)
}
