package estimator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cypherlabdev/match-prediction-service/internal/models"
)

const validAnswer = `{
  "predictedScoreHome": 2,
  "predictedScoreAway": 1,
  "expectedGoals": 2.9,
  "winProbabilityHome": 50,
  "winProbabilityAway": 25,
  "drawProbability": 25,
  "bttsProbability": 60,
  "confidence": "High",
  "reasoning": "Arsenal are unbeaten at home and Chelsea concede often."
}`

func chatCompletion(content string) string {
	body, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "test-model",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]string{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
	})
	return string(body)
}

type testReasoning struct {
	estimator *Reasoning
	calls     *atomic.Int32
}

func setupTestReasoning(t *testing.T, timeout time.Duration, handler http.HandlerFunc) *testReasoning {
	calls := &atomic.Int32{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	estimator := NewReasoning(ReasoningConfig{
		BaseURL:           server.URL + "/v1",
		APIKey:            "sk-test",
		Model:             "test-model",
		Timeout:           timeout,
		MaxRetries:        2,
		RetryInterval:     time.Millisecond,
		RequestsPerSecond: 1000,
	}, zerolog.Nop())

	return &testReasoning{estimator: estimator, calls: calls}
}

func testMatchData() *models.MatchData {
	return &models.MatchData{
		Match: models.Match{
			ID:   42,
			Home: models.Team{ID: 1, Name: "Arsenal"},
			Away: models.Team{ID: 2, Name: "Chelsea"},
		},
		HomeForm:   form(2.4, 0.8),
		AwayForm:   form(2.1, 1.0),
		HeadToHead: "No head-to-head history available",
	}
}

// TestReasoningEstimate_Success tests a well-formed answer
func TestReasoningEstimate_Success(t *testing.T) {
	tr := setupTestReasoning(t, 5*time.Second, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		if assert.Len(t, req.Messages, 2) {
			assert.Equal(t, "system", req.Messages[0].Role)
			assert.Contains(t, req.Messages[1].Content, "MATCH: Arsenal vs Chelsea")
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, chatCompletion(validAnswer))
	})

	result, err := tr.estimator.Estimate(context.Background(), testMatchData())

	require.NoError(t, err)
	assert.Equal(t, models.MethodReasoning, result.Method)
	assert.Equal(t, 2, result.PredictedScoreHome)
	assert.Equal(t, 1, result.PredictedScoreAway)
	assert.Equal(t, 2.9, result.ExpectedGoals)
	assert.Equal(t, 50.0, result.WinProbabilityHome)
	assert.Equal(t, models.ConfidenceHigh, result.Confidence)
	assert.Equal(t, models.WinnerHome, result.Winner())
	assert.Equal(t, int32(1), tr.calls.Load())
}

// TestReasoningEstimate_CodeFencedAnswer tests that a fenced JSON block is accepted
func TestReasoningEstimate_CodeFencedAnswer(t *testing.T) {
	tr := setupTestReasoning(t, 5*time.Second, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chatCompletion("```json\n"+validAnswer+"\n```"))
	})

	result, err := tr.estimator.Estimate(context.Background(), testMatchData())

	require.NoError(t, err)
	assert.Equal(t, 25.0, result.DrawProbability)
}

// TestReasoningEstimate_ClientErrorNotRetried tests that 4xx fails immediately
func TestReasoningEstimate_ClientErrorNotRetried(t *testing.T) {
	tr := setupTestReasoning(t, 5*time.Second, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"invalid api key","type":"invalid_request_error"}}`)
	})

	result, err := tr.estimator.Estimate(context.Background(), testMatchData())

	assert.Nil(t, result)
	assert.ErrorIs(t, err, models.ErrReasoningFailed)
	assert.Equal(t, int32(1), tr.calls.Load())
}

// TestReasoningEstimate_ServerErrorRetried tests that 5xx is retried up to the limit
func TestReasoningEstimate_ServerErrorRetried(t *testing.T) {
	tr := setupTestReasoning(t, 5*time.Second, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":{"message":"overloaded","type":"server_error"}}`)
	})

	result, err := tr.estimator.Estimate(context.Background(), testMatchData())

	assert.Nil(t, result)
	assert.ErrorIs(t, err, models.ErrReasoningFailed)
	assert.Equal(t, int32(3), tr.calls.Load())
}

// TestReasoningEstimate_RecoversAfterTransientError tests success on a retry
func TestReasoningEstimate_RecoversAfterTransientError(t *testing.T) {
	var attempts atomic.Int32
	tr := setupTestReasoning(t, 5*time.Second, func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, chatCompletion(validAnswer))
	})

	result, err := tr.estimator.Estimate(context.Background(), testMatchData())

	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, int32(2), tr.calls.Load())
}

// TestReasoningEstimate_Timeout tests that a slow service is abandoned
func TestReasoningEstimate_Timeout(t *testing.T) {
	tr := setupTestReasoning(t, 100*time.Millisecond, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	start := time.Now()
	result, err := tr.estimator.Estimate(context.Background(), testMatchData())

	assert.Nil(t, result)
	assert.ErrorIs(t, err, models.ErrReasoningFailed)
	assert.Less(t, time.Since(start), time.Second)
}

// TestReasoningEstimate_InvalidAnswers tests rejection of malformed and partial answers
func TestReasoningEstimate_InvalidAnswers(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not json", content: "I think Arsenal will win 2-1."},
		{name: "missing fields", content: `{"predictedScoreHome": 2, "predictedScoreAway": 1}`},
		{name: "probabilities off", content: `{"predictedScoreHome":2,"predictedScoreAway":1,"expectedGoals":2.9,"winProbabilityHome":60,"winProbabilityAway":30,"drawProbability":30,"bttsProbability":60,"confidence":"High","reasoning":"x"}`},
		{name: "unknown confidence", content: `{"predictedScoreHome":2,"predictedScoreAway":1,"expectedGoals":2.9,"winProbabilityHome":50,"winProbabilityAway":25,"drawProbability":25,"bttsProbability":60,"confidence":"Certain","reasoning":"x"}`},
		{name: "empty", content: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := setupTestReasoning(t, 5*time.Second, func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, chatCompletion(tt.content))
			})

			result, err := tr.estimator.Estimate(context.Background(), testMatchData())

			assert.Nil(t, result)
			assert.ErrorIs(t, err, models.ErrReasoningFailed)
			assert.ErrorIs(t, err, errInvalidAnswer)
			assert.Equal(t, int32(1), tr.calls.Load())
		})
	}
}

// TestParseAnswer_MissingFieldsListed tests the reported field names
func TestParseAnswer_MissingFieldsListed(t *testing.T) {
	_, err := ParseAnswer(`{"predictedScoreHome": 0, "predictedScoreAway": 0, "expectedGoals": 0}`)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "[bttsProbability confidence drawProbability reasoning winProbabilityAway winProbabilityHome]")
}

// TestParseAnswer_ZeroValuesAccepted tests that explicit zeros are not treated as missing
func TestParseAnswer_ZeroValuesAccepted(t *testing.T) {
	result, err := ParseAnswer(`{"predictedScoreHome":0,"predictedScoreAway":0,"expectedGoals":0.8,"winProbabilityHome":30,"winProbabilityAway":30,"drawProbability":40,"bttsProbability":0,"confidence":"low","reasoning":"Two defensive sides."}`)

	require.NoError(t, err)
	assert.Equal(t, 0, result.PredictedScoreHome)
	assert.Equal(t, 0.0, result.BTTSProbability)
	assert.Equal(t, models.WinnerDraw, result.Winner())
}

// TestBuildPrompt tests the rendered prompt contents
func TestBuildPrompt(t *testing.T) {
	data := testMatchData()
	data.HomeForm.RecentForm = []models.Outcome{models.OutcomeWin, models.OutcomeWin, models.OutcomeDraw}

	prompt := BuildPrompt(data)

	assert.Contains(t, prompt, "MATCH: Arsenal vs Chelsea")
	assert.Contains(t, prompt, "- Arsenal: WWD (2.4 goals/match scored, 0.8 conceded/match)")
	assert.Contains(t, prompt, "- Chelsea: N/A (2.1 goals/match scored, 1.0 conceded/match)")
	assert.Contains(t, prompt, "No head-to-head history available")
	for _, field := range []string{
		"predictedScoreHome", "predictedScoreAway", "expectedGoals",
		"winProbabilityHome", "winProbabilityAway", "drawProbability",
		"bttsProbability", "confidence", "reasoning",
	} {
		assert.Contains(t, prompt, field)
	}
}
