package footballdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cypherlabdev/match-prediction-service/internal/models"
)

const scorersPayload = `{
  "count": 4,
  "competition": {"code": "PL"},
  "scorers": [
    {"player": {"id": 1, "name": "Striker One"}, "team": {"id": 65, "name": "City"}, "goals": 20},
    {"player": {"id": 2, "name": "Winger Two"}, "team": {"id": 65, "name": "City"}, "goals": 8},
    {"player": {"id": 3, "name": "Forward Three"}, "team": {"id": 57, "name": "Arsenal"}, "goals": 15},
    {"player": {"id": 4, "name": "No Goals Field"}, "team": {"id": 57, "name": "Arsenal"}}
  ]
}`

type testClient struct {
	client *Client
	server *httptest.Server
	calls  *atomic.Int32
}

func setupTestClient(t *testing.T, handler http.HandlerFunc) *testClient {
	calls := &atomic.Int32{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	client := NewClient(Config{
		BaseURL:           server.URL,
		APIKey:            "test-token",
		CacheTTL:          time.Hour,
		RequestsPerSecond: 1000,
		MaxRetries:        2,
		Timeout:           2 * time.Second,
	}, zerolog.Nop())

	return &testClient{client: client, server: server, calls: calls}
}

// TestTopScorers_FiltersByTeam tests that only the requested team's scorers are returned
func TestTopScorers_FiltersByTeam(t *testing.T) {
	tc := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/competitions/PL/scorers", r.URL.Path)
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		assert.Equal(t, "test-token", r.Header.Get("X-Auth-Token"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(scorersPayload))
	})

	stats, err := tc.client.TopScorers(context.Background(), "PL", 65)

	require.NoError(t, err)
	assert.Equal(t, []models.ScorerStat{
		{Name: "Striker One", TeamID: 65, SeasonGoals: 20},
		{Name: "Winger Two", TeamID: 65, SeasonGoals: 8},
	}, stats)
}

// TestTopScorers_SkipsEntriesWithoutGoals tests that incomplete entries are dropped
func TestTopScorers_SkipsEntriesWithoutGoals(t *testing.T) {
	tc := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(scorersPayload))
	})

	stats, err := tc.client.TopScorers(context.Background(), "PL", 57)

	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, "Forward Three", stats[0].Name)
}

// TestTopScorers_UnknownTeam tests that a team without scorers gets an empty list
func TestTopScorers_UnknownTeam(t *testing.T) {
	tc := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(scorersPayload))
	})

	stats, err := tc.client.TopScorers(context.Background(), "PL", 999)

	require.NoError(t, err)
	assert.Empty(t, stats)
}

// TestTopScorers_MemoizesCompetition tests that one fetch serves every team in the league
func TestTopScorers_MemoizesCompetition(t *testing.T) {
	tc := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(scorersPayload))
	})
	ctx := context.Background()

	_, err := tc.client.TopScorers(ctx, "PL", 65)
	require.NoError(t, err)
	_, err = tc.client.TopScorers(ctx, "PL", 57)
	require.NoError(t, err)

	assert.Equal(t, int32(1), tc.calls.Load())
}

// TestTopScorers_RefetchesAfterTTL tests that the memo expires
func TestTopScorers_RefetchesAfterTTL(t *testing.T) {
	tc := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(scorersPayload))
	})
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tc.client.now = func() time.Time { return now }
	ctx := context.Background()

	_, err := tc.client.TopScorers(ctx, "PL", 65)
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = tc.client.TopScorers(ctx, "PL", 65)
	require.NoError(t, err)

	assert.Equal(t, int32(2), tc.calls.Load())
}

// TestTopScorers_ClientErrorNotRetried tests that 4xx responses fail without retrying
func TestTopScorers_ClientErrorNotRetried(t *testing.T) {
	tc := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"The resource you are looking for is restricted."}`))
	})

	stats, err := tc.client.TopScorers(context.Background(), "CL", 65)

	require.Error(t, err)
	assert.Nil(t, stats)
	assert.ErrorIs(t, err, models.ErrUpstreamDataUnavailable)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
	assert.Equal(t, int32(1), tc.calls.Load())
}

// TestTopScorers_ServerErrorRetried tests that 5xx responses are retried
func TestTopScorers_ServerErrorRetried(t *testing.T) {
	var attempts atomic.Int32
	tc := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(scorersPayload))
	})

	stats, err := tc.client.TopScorers(context.Background(), "PL", 65)

	require.NoError(t, err)
	assert.Len(t, stats, 2)
	assert.Equal(t, int32(2), tc.calls.Load())
}

// TestTopScorers_ServesStaleOnRefreshFailure tests that a failed refresh keeps the previous list
func TestTopScorers_ServesStaleOnRefreshFailure(t *testing.T) {
	var fail atomic.Bool
	tc := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(scorersPayload))
	})
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tc.client.now = func() time.Time { return now }
	ctx := context.Background()

	_, err := tc.client.TopScorers(ctx, "PL", 65)
	require.NoError(t, err)

	fail.Store(true)
	now = now.Add(2 * time.Hour)
	stats, err := tc.client.TopScorers(ctx, "PL", 65)

	require.NoError(t, err)
	assert.Len(t, stats, 2)
}

// TestTopScorers_ConcurrentCallersShareFetch tests that a cold league is fetched once for simultaneous callers
func TestTopScorers_ConcurrentCallersShareFetch(t *testing.T) {
	tc := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(scorersPayload))
	})

	teams := []int64{65, 57, 65, 57}
	counts := make([]int, len(teams))
	errs := make([]error, len(teams))

	var wg conc.WaitGroup
	for i, team := range teams {
		wg.Go(func() {
			stats, err := tc.client.TopScorers(context.Background(), "PL", team)
			counts[i], errs[i] = len(stats), err
		})
	}
	wg.Wait()

	for i := range teams {
		require.NoError(t, errs[i])
	}
	assert.Equal(t, []int{2, 1, 2, 1}, counts)
	assert.Equal(t, int32(1), tc.calls.Load())
}

// TestTopScorers_WaiterHonoursContext tests that a caller waiting on another fetch can give up
func TestTopScorers_WaiterHonoursContext(t *testing.T) {
	release := make(chan struct{})
	tc := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
		_, _ = w.Write([]byte(scorersPayload))
	})

	leaderDone := make(chan error, 1)
	go func() {
		_, err := tc.client.TopScorers(context.Background(), "PL", 65)
		leaderDone <- err
	}()
	require.Eventually(t, func() bool { return tc.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	stats, err := tc.client.TopScorers(ctx, "PL", 57)

	assert.Nil(t, stats)
	assert.ErrorIs(t, err, models.ErrUpstreamDataUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	require.NoError(t, <-leaderDone)
	assert.Equal(t, int32(1), tc.calls.Load())
}
