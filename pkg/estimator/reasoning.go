package estimator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/cypherlabdev/match-prediction-service/internal/metrics"
	"github.com/cypherlabdev/match-prediction-service/internal/models"
)

var errInvalidAnswer = errors.New("invalid reasoning answer")

// ReasoningConfig holds reasoning service client configuration
type ReasoningConfig struct {
	BaseURL           string        // OpenAI-compatible API root, e.g. "https://api.openai.com/v1"
	APIKey            string
	Model             string
	Temperature       float32
	Timeout           time.Duration // bounds the whole call including retries, e.g. 30s
	MaxRetries        uint64
	RetryInterval     time.Duration // initial backoff interval
	RequestsPerSecond float64
}

// Reasoning delegates the prediction to an external language-reasoning service
type Reasoning struct {
	client  *openai.Client
	config  ReasoningConfig
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// NewReasoning creates a new reasoning estimator
func NewReasoning(config ReasoningConfig, logger zerolog.Logger) *Reasoning {
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RetryInterval <= 0 {
		config.RetryInterval = 500 * time.Millisecond
	}
	if config.RequestsPerSecond <= 0 {
		config.RequestsPerSecond = 2
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimSuffix(config.BaseURL, "/")
	}
	clientConfig.HTTPClient = &http.Client{Timeout: config.Timeout}

	return &Reasoning{
		client:  openai.NewClientWithConfig(clientConfig),
		config:  config,
		limiter: rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1),
		logger:  logger.With().Str("component", "reasoning_estimator").Logger(),
	}
}

// Estimate asks the reasoning service for a prediction. Every failure is
// returned as an error wrapping models.ErrReasoningFailed.
func (r *Reasoning) Estimate(ctx context.Context, data *models.MatchData) (*models.PredictionResult, error) {
	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	start := time.Now()
	result, err := r.estimate(ctx, data)
	metrics.ReasoningLatency.Observe(time.Since(start).Seconds())

	if err != nil {
		reason := failureReason(ctx, err)
		metrics.ReasoningFailures.WithLabelValues(reason).Inc()
		r.logger.Warn().
			Err(err).
			Int64("match_id", data.Match.ID).
			Str("reason", reason).
			Dur("elapsed", time.Since(start)).
			Msg("reasoning estimate failed")
		return nil, fmt.Errorf("%w: %w", models.ErrReasoningFailed, err)
	}

	r.logger.Debug().
		Int64("match_id", data.Match.ID).
		Str("winner", string(result.Winner())).
		Dur("elapsed", time.Since(start)).
		Msg("reasoning estimate")

	return result, nil
}

func (r *Reasoning) estimate(ctx context.Context, data *models.MatchData) (*models.PredictionResult, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req := openai.ChatCompletionRequest{
		Model:       r.config.Model,
		Temperature: r.config.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(data)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	var content string
	operation := func() error {
		resp, err := r.client.CreateChatCompletion(ctx, req)
		if err != nil {
			if isPermanent(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		if len(resp.Choices) == 0 {
			return backoff.Permanent(fmt.Errorf("%w: no choices returned", errInvalidAnswer))
		}
		content = resp.Choices[0].Message.Content
		return nil
	}

	strategy := backoff.NewExponentialBackOff()
	strategy.InitialInterval = r.config.RetryInterval
	strategy.MaxElapsedTime = r.config.Timeout

	if err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(strategy, r.config.MaxRetries), ctx)); err != nil {
		return nil, err
	}

	return ParseAnswer(content)
}

// reasoningAnswer mirrors the JSON contract requested from the service.
// Pointer fields let missing values be told apart from zeros.
type reasoningAnswer struct {
	PredictedScoreHome *int     `json:"predictedScoreHome"`
	PredictedScoreAway *int     `json:"predictedScoreAway"`
	ExpectedGoals      *float64 `json:"expectedGoals"`
	WinProbabilityHome *float64 `json:"winProbabilityHome"`
	WinProbabilityAway *float64 `json:"winProbabilityAway"`
	DrawProbability    *float64 `json:"drawProbability"`
	BTTSProbability    *float64 `json:"bttsProbability"`
	Confidence         *string  `json:"confidence"`
	Reasoning          *string  `json:"reasoning"`
}

// ParseAnswer validates the service's JSON answer. Partial or out-of-range
// answers are rejected.
func ParseAnswer(content string) (*models.PredictionResult, error) {
	content = stripCodeFence(content)

	var answer reasoningAnswer
	if err := json.Unmarshal([]byte(content), &answer); err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidAnswer, err)
	}

	var missing []string
	for name, present := range map[string]bool{
		"predictedScoreHome": answer.PredictedScoreHome != nil,
		"predictedScoreAway": answer.PredictedScoreAway != nil,
		"expectedGoals":      answer.ExpectedGoals != nil,
		"winProbabilityHome": answer.WinProbabilityHome != nil,
		"winProbabilityAway": answer.WinProbabilityAway != nil,
		"drawProbability":    answer.DrawProbability != nil,
		"bttsProbability":    answer.BTTSProbability != nil,
		"confidence":         answer.Confidence != nil,
		"reasoning":          answer.Reasoning != nil,
	} {
		if !present {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("%w: missing fields %v", errInvalidAnswer, missing)
	}

	confidence, err := models.ParseConfidence(*answer.Confidence)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidAnswer, err)
	}

	result := &models.PredictionResult{
		Method:             models.MethodReasoning,
		PredictedScoreHome: *answer.PredictedScoreHome,
		PredictedScoreAway: *answer.PredictedScoreAway,
		ExpectedGoals:      *answer.ExpectedGoals,
		WinProbabilityHome: *answer.WinProbabilityHome,
		WinProbabilityAway: *answer.WinProbabilityAway,
		DrawProbability:    *answer.DrawProbability,
		BTTSProbability:    *answer.BTTSProbability,
		Confidence:         confidence,
		Reasoning:          strings.TrimSpace(*answer.Reasoning),
	}
	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidAnswer, err)
	}
	return result, nil
}

// stripCodeFence removes a surrounding ```json ... ``` block if present
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}

func isPermanent(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	if code := statusCode(err); code != 0 {
		return code >= 400 && code < 500 && code != http.StatusTooManyRequests
	}
	return false
}

func statusCode(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

func failureReason(ctx context.Context, err error) string {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded), errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, errInvalidAnswer):
		return "parse"
	case statusCode(err) != 0:
		return "status"
	default:
		return "transport"
	}
}
