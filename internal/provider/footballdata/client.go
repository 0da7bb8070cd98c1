package footballdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/cypherlabdev/match-prediction-service/internal/models"
)

// Config holds football-data.org client configuration
type Config struct {
	BaseURL           string // e.g. "https://api.football-data.org/v4"
	APIKey            string
	Limit             int           // scorers requested per competition
	CacheTTL          time.Duration // how long a competition's scorer list is reused
	RequestsPerSecond float64       // the free tier allows 10 requests per minute
	MaxRetries        uint64
	Timeout           time.Duration
}

// StatusError is a non-2xx response from the API
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("football-data returned status %d: %s", e.StatusCode, e.Body)
}

type scorersResponse struct {
	Scorers []struct {
		Player struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"player"`
		Team struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"team"`
		Goals *int `json:"goals"`
	} `json:"scorers"`
}

type memoEntry struct {
	stats     []models.ScorerStat
	fetchedAt time.Time
}

// leagueFetch is a fetch in progress; done is closed once stats and err are set
type leagueFetch struct {
	done  chan struct{}
	stats []models.ScorerStat
	err   error
}

// Client fetches season top scorers per competition
type Client struct {
	httpClient *http.Client
	config     Config
	limiter    *rate.Limiter
	logger     zerolog.Logger
	now        func() time.Time

	mu       sync.Mutex
	memo     map[string]memoEntry
	inflight map[string]*leagueFetch
}

// NewClient creates a new football-data.org client
func NewClient(config Config, logger zerolog.Logger) *Client {
	if config.BaseURL == "" {
		config.BaseURL = "https://api.football-data.org/v4"
	}
	if config.Limit <= 0 {
		config.Limit = 50
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = 12 * time.Hour
	}
	if config.RequestsPerSecond <= 0 {
		config.RequestsPerSecond = 10.0 / 60.0
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: config.Timeout},
		config:     config,
		limiter:    rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1),
		logger:     logger.With().Str("component", "footballdata_client").Logger(),
		now:        time.Now,
		memo:       make(map[string]memoEntry),
		inflight:   make(map[string]*leagueFetch),
	}
}

// TopScorers returns the season scorers of one team in a competition
func (c *Client) TopScorers(ctx context.Context, leagueCode string, teamExternalID int64) ([]models.ScorerStat, error) {
	all, err := c.competitionScorers(ctx, leagueCode)
	if err != nil {
		return nil, err
	}

	stats := make([]models.ScorerStat, 0)
	for _, s := range all {
		if s.TeamID == teamExternalID {
			stats = append(stats, s)
		}
	}
	return stats, nil
}

// competitionScorers serves the memoized list of a league. Concurrent callers
// on a stale league share a single fetch.
func (c *Client) competitionScorers(ctx context.Context, leagueCode string) ([]models.ScorerStat, error) {
	c.mu.Lock()
	entry, ok := c.memo[leagueCode]
	if ok && c.now().Sub(entry.fetchedAt) < c.config.CacheTTL {
		c.mu.Unlock()
		return entry.stats, nil
	}
	call, running := c.inflight[leagueCode]
	if !running {
		call = &leagueFetch{done: make(chan struct{})}
		c.inflight[leagueCode] = call
	}
	c.mu.Unlock()

	if running {
		select {
		case <-call.done:
		case <-ctx.Done():
			if ok {
				return entry.stats, nil
			}
			return nil, fmt.Errorf("%w: scorers for %s: %w", models.ErrUpstreamDataUnavailable, leagueCode, ctx.Err())
		}
	} else {
		call.stats, call.err = c.fetch(ctx, leagueCode)

		c.mu.Lock()
		delete(c.inflight, leagueCode)
		if call.err == nil {
			c.memo[leagueCode] = memoEntry{stats: call.stats, fetchedAt: c.now()}
		}
		c.mu.Unlock()
		close(call.done)

		if call.err == nil {
			c.logger.Debug().
				Str("league", leagueCode).
				Int("scorers", len(call.stats)).
				Msg("fetched competition scorers")
		}
	}

	if call.err != nil {
		if ok {
			c.logger.Warn().
				Err(call.err).
				Str("league", leagueCode).
				Msg("failed to refresh scorers, serving previous list")
			return entry.stats, nil
		}
		return nil, call.err
	}
	return call.stats, nil
}

func (c *Client) fetch(ctx context.Context, leagueCode string) ([]models.ScorerStat, error) {
	endpoint := fmt.Sprintf("%s/competitions/%s/scorers?limit=%s",
		strings.TrimSuffix(c.config.BaseURL, "/"), url.PathEscape(leagueCode), strconv.Itoa(c.config.Limit))

	var body scorersResponse
	operation := func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(fmt.Errorf("rate limiter: %w", err))
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to build request: %w", err))
		}
		req.Header.Set("X-Auth-Token", c.config.APIKey)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return backoff.Permanent(err)
			}
			return fmt.Errorf("failed to call football-data: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			statusErr := &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
			if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
				return backoff.Permanent(statusErr)
			}
			return statusErr
		}

		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode scorers: %w", err))
		}
		return nil
	}

	strategy := backoff.NewExponentialBackOff()
	strategy.InitialInterval = time.Second
	if err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(strategy, c.config.MaxRetries), ctx)); err != nil {
		return nil, fmt.Errorf("%w: scorers for %s: %w", models.ErrUpstreamDataUnavailable, leagueCode, err)
	}

	stats := make([]models.ScorerStat, 0, len(body.Scorers))
	for _, s := range body.Scorers {
		if s.Goals == nil || s.Player.Name == "" {
			continue
		}
		stats = append(stats, models.ScorerStat{
			Name:        s.Player.Name,
			TeamID:      s.Team.ID,
			SeasonGoals: *s.Goals,
		})
	}
	return stats, nil
}
