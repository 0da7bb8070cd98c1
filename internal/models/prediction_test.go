package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validResult() PredictionResult {
	return PredictionResult{
		Method:             MethodStatistical,
		PredictedScoreHome: 2,
		PredictedScoreAway: 1,
		ExpectedGoals:      3.2,
		WinProbabilityHome: 40,
		WinProbabilityAway: 30,
		DrawProbability:    30,
		BTTSProbability:    70,
		Confidence:         ConfidenceMedium,
		Reasoning:          "Based on recent averages.",
	}
}

// TestPredictionResult_Winner tests the argmax with tie-breaking
func TestPredictionResult_Winner(t *testing.T) {
	tests := []struct {
		name             string
		home, away, draw float64
		want             Winner
	}{
		{name: "home favourite", home: 60, away: 20, draw: 20, want: WinnerHome},
		{name: "away favourite", home: 20, away: 60, draw: 20, want: WinnerAway},
		{name: "draw favourite", home: 30, away: 30, draw: 40, want: WinnerDraw},
		{name: "home-away tie", home: 40, away: 40, draw: 20, want: WinnerHome},
		{name: "home-draw tie", home: 40, away: 20, draw: 40, want: WinnerHome},
		{name: "away-draw tie", home: 20, away: 40, draw: 40, want: WinnerAway},
		{name: "three-way tie", home: 33.3, away: 33.3, draw: 33.3, want: WinnerHome},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := PredictionResult{WinProbabilityHome: tt.home, WinProbabilityAway: tt.away, DrawProbability: tt.draw}
			assert.Equal(t, tt.want, r.Winner())
		})
	}
}

// TestPredictionResult_Validate tests structural checks
func TestPredictionResult_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *PredictionResult)
		wantErr string
	}{
		{name: "valid", mutate: func(r *PredictionResult) {}},
		{name: "sum within tolerance", mutate: func(r *PredictionResult) { r.DrawProbability = 30.9 }},
		{name: "sum off", mutate: func(r *PredictionResult) { r.DrawProbability = 40 }, wantErr: "sum to"},
		{name: "negative score", mutate: func(r *PredictionResult) { r.PredictedScoreAway = -1 }, wantErr: "predicted score"},
		{name: "probability above 100", mutate: func(r *PredictionResult) { r.BTTSProbability = 120 }, wantErr: "btts_probability"},
		{name: "negative expected goals", mutate: func(r *PredictionResult) { r.ExpectedGoals = -0.5 }, wantErr: "expected goals"},
		{name: "unknown confidence", mutate: func(r *PredictionResult) { r.Confidence = "sure" }, wantErr: "confidence"},
		{name: "empty reasoning", mutate: func(r *PredictionResult) { r.Reasoning = "  " }, wantErr: "reasoning"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validResult()
			tt.mutate(&r)
			err := r.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// TestHybridPrediction_JSON tests the flattened wire shape
func TestHybridPrediction_JSON(t *testing.T) {
	p := HybridPrediction{
		MatchID:          9,
		HomeTeam:         "Arsenal",
		AwayTeam:         "Chelsea",
		PredictionResult: validResult(),
		Convergence:      ConvergenceAligned,
		ConfidenceIcon:   ConfidenceMedium.Icon(),
		ProbableScorers:  EmptyScorers(),
		Sources:          []Method{MethodStatistical},
		Degraded:         true,
		GeneratedAt:      time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Equal(t, "medium", fields["confidence"])
	assert.Equal(t, 40.0, fields["win_probability_home"])
	assert.Equal(t, "aligned", fields["convergence"])
	assert.Equal(t, true, fields["degraded"])
	assert.Equal(t, map[string]any{"home": []any{}, "away": []any{}}, fields["probable_scorers"])
	assert.Equal(t, "2-1", p.PredictedScore())
}

// TestCacheEntry_Expired tests the validity boundary
func TestCacheEntry_Expired(t *testing.T) {
	expiresAt := time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC)
	e := CacheEntry{ExpiresAt: expiresAt}

	assert.False(t, e.Expired(expiresAt.Add(-time.Millisecond)))
	assert.True(t, e.Expired(expiresAt))
	assert.True(t, e.Expired(expiresAt.Add(time.Hour)))
}
