package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/cypherlabdev/match-prediction-service/internal/models"
)

// Dialect selects the SQL flavour
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// MatchStoreConfig holds match store configuration
type MatchStoreConfig struct {
	Driver       string // "postgres" or "sqlite"
	DSN          string
	FormMatches  int // finished matches considered for team form
	MaxOpenConns int
}

// MatchStore reads fixtures, results and learning coefficients from SQL
type MatchStore struct {
	db          *sql.DB
	dialect     Dialect
	formMatches int
	logger      zerolog.Logger
	now         func() time.Time
}

// Open connects to the configured database
func Open(ctx context.Context, config MatchStoreConfig, logger zerolog.Logger) (*MatchStore, error) {
	dialect := Dialect(config.Driver)
	if dialect != DialectPostgres && dialect != DialectSQLite {
		return nil, fmt.Errorf("unsupported database driver: %q", config.Driver)
	}

	db, err := sql.Open(string(dialect), config.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if config.MaxOpenConns > 0 {
		db.SetMaxOpenConns(config.MaxOpenConns)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return NewMatchStore(db, dialect, config.FormMatches, logger), nil
}

// NewMatchStore wraps an open database handle
func NewMatchStore(db *sql.DB, dialect Dialect, formMatches int, logger zerolog.Logger) *MatchStore {
	if formMatches <= 0 {
		formMatches = models.MaxFormLength
	}
	return &MatchStore{
		db:          db,
		dialect:     dialect,
		formMatches: formMatches,
		logger:      logger.With().Str("component", "match_store").Logger(),
		now:         time.Now,
	}
}

// rebind rewrites "?" placeholders as "$n" for postgres
func (s *MatchStore) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS teams (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		external_id BIGINT
	)`,
	`CREATE TABLE IF NOT EXISTS matches (
		id BIGINT PRIMARY KEY,
		home_team_id BIGINT NOT NULL REFERENCES teams(id),
		away_team_id BIGINT NOT NULL REFERENCES teams(id),
		league_code TEXT NOT NULL DEFAULT 'PL',
		kickoff TIMESTAMP NOT NULL,
		status TEXT NOT NULL,
		home_score INTEGER,
		away_score INTEGER
	)`,
	`CREATE INDEX IF NOT EXISTS idx_matches_status_kickoff ON matches(status, kickoff)`,
	`CREATE TABLE IF NOT EXISTS learning_history (
		home_win_adjustment DOUBLE PRECISION NOT NULL DEFAULT 0,
		away_win_adjustment DOUBLE PRECISION NOT NULL DEFAULT 0,
		draw_adjustment DOUBLE PRECISION NOT NULL DEFAULT 0,
		goals_adjustment DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL
	)`,
}

// EnsureSchema creates the tables the store reads if they don't exist
func (s *MatchStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// SaveTeam inserts or updates a team
func (s *MatchStore) SaveTeam(ctx context.Context, team models.Team) error {
	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO teams (id, name, external_id) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name, external_id = excluded.external_id
	`), team.ID, team.Name, nullableID(team.ExternalID))
	if err != nil {
		return fmt.Errorf("failed to save team %d: %w", team.ID, err)
	}
	return nil
}

// SaveMatch inserts or updates a fixture. Scores are stored only for finished matches.
func (s *MatchStore) SaveMatch(ctx context.Context, match models.Match, homeScore, awayScore *int) error {
	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO matches (id, home_team_id, away_team_id, league_code, kickoff, status, home_score, away_score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			home_team_id = excluded.home_team_id,
			away_team_id = excluded.away_team_id,
			league_code = excluded.league_code,
			kickoff = excluded.kickoff,
			status = excluded.status,
			home_score = excluded.home_score,
			away_score = excluded.away_score
	`), match.ID, match.Home.ID, match.Away.ID, match.LeagueCode, match.Kickoff.UTC(), match.Status,
		nullableInt(homeScore), nullableInt(awayScore))
	if err != nil {
		return fmt.Errorf("failed to save match %d: %w", match.ID, err)
	}
	return nil
}

const matchColumns = `
	m.id, m.kickoff, m.status, m.league_code,
	h.id, h.name, COALESCE(h.external_id, 0),
	a.id, a.name, COALESCE(a.external_id, 0)
	FROM matches m
	JOIN teams h ON m.home_team_id = h.id
	JOIN teams a ON m.away_team_id = a.id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatch(row rowScanner) (*models.Match, error) {
	var m models.Match
	if err := row.Scan(
		&m.ID, &m.Kickoff, &m.Status, &m.LeagueCode,
		&m.Home.ID, &m.Home.Name, &m.Home.ExternalID,
		&m.Away.ID, &m.Away.Name, &m.Away.ExternalID,
	); err != nil {
		return nil, err
	}
	m.Kickoff = m.Kickoff.UTC()
	return &m, nil
}

// GetMatch loads one fixture
func (s *MatchStore) GetMatch(ctx context.Context, matchID int64) (*models.Match, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT`+matchColumns+` WHERE m.id = ?`), matchID)
	match, err := scanMatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", models.ErrMatchNotFound, matchID)
	} else if err != nil {
		return nil, fmt.Errorf("failed to get match %d: %w", matchID, err)
	}
	return match, nil
}

// ListUpcomingMatches returns scheduled fixtures kicking off in [from, to], earliest first.
// limit <= 0 means no limit.
func (s *MatchStore) ListUpcomingMatches(ctx context.Context, from, to time.Time, limit int) ([]*models.Match, error) {
	query := `SELECT` + matchColumns + `
		WHERE m.status IN (?, ?) AND m.kickoff >= ? AND m.kickoff <= ?
		ORDER BY m.kickoff, m.id`
	args := []any{models.MatchStatusScheduled, models.MatchStatusTimed, from.UTC(), to.UTC()}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming matches: %w", err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, match)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate matches: %w", err)
	}

	s.logger.Debug().
		Time("from", from).
		Time("to", to).
		Int("count", len(matches)).
		Msg("listed upcoming matches")

	return matches, nil
}

// GetRecentForm summarizes the team's latest finished matches within the
// window. A team without history gets the default summary.
func (s *MatchStore) GetRecentForm(ctx context.Context, teamID int64, windowDays int) (models.TeamFormSummary, error) {
	cutoff := s.now().UTC().AddDate(0, 0, -windowDays)

	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT id, kickoff, home_team_id, away_team_id, home_score, away_score
		FROM matches
		WHERE (home_team_id = ? OR away_team_id = ?)
			AND status = ?
			AND kickoff > ?
			AND home_score IS NOT NULL AND away_score IS NOT NULL
		ORDER BY kickoff DESC
		LIMIT ?
	`), teamID, teamID, models.MatchStatusFinished, cutoff, s.formMatches)
	if err != nil {
		return models.TeamFormSummary{}, fmt.Errorf("failed to query form for team %d: %w", teamID, err)
	}
	defer rows.Close()

	results := make([]models.MatchResult, 0, s.formMatches)
	for rows.Next() {
		var r models.MatchResult
		if err := rows.Scan(&r.MatchID, &r.Kickoff, &r.HomeTeamID, &r.AwayTeamID, &r.HomeScore, &r.AwayScore); err != nil {
			return models.TeamFormSummary{}, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return models.TeamFormSummary{}, fmt.Errorf("failed to iterate results: %w", err)
	}

	return models.SummarizeForm(teamID, results), nil
}

// HeadToHead returns the latest finished meetings between two teams in either venue
func (s *MatchStore) HeadToHead(ctx context.Context, homeTeamID, awayTeamID int64, limit int) ([]models.MatchResult, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT m.id, m.kickoff, m.home_team_id, m.away_team_id, h.name, a.name, m.home_score, m.away_score
		FROM matches m
		JOIN teams h ON m.home_team_id = h.id
		JOIN teams a ON m.away_team_id = a.id
		WHERE ((m.home_team_id = ? AND m.away_team_id = ?) OR (m.home_team_id = ? AND m.away_team_id = ?))
			AND m.status = ?
			AND m.home_score IS NOT NULL AND m.away_score IS NOT NULL
		ORDER BY m.kickoff DESC
		LIMIT ?
	`), homeTeamID, awayTeamID, awayTeamID, homeTeamID, models.MatchStatusFinished, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query head-to-head: %w", err)
	}
	defer rows.Close()

	results := make([]models.MatchResult, 0, limit)
	for rows.Next() {
		var r models.MatchResult
		if err := rows.Scan(&r.MatchID, &r.Kickoff, &r.HomeTeamID, &r.AwayTeamID, &r.HomeTeam, &r.AwayTeam, &r.HomeScore, &r.AwayScore); err != nil {
			return nil, fmt.Errorf("failed to scan head-to-head: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// LoadCoefficients returns the latest learning adjustments, zero when none were saved
func (s *MatchStore) LoadCoefficients(ctx context.Context) (models.LearningAdjustments, error) {
	var adj models.LearningAdjustments
	err := s.db.QueryRowContext(ctx, `
		SELECT home_win_adjustment, away_win_adjustment, draw_adjustment, goals_adjustment
		FROM learning_history
		ORDER BY created_at DESC
		LIMIT 1
	`).Scan(&adj.HomeWin, &adj.AwayWin, &adj.Draw, &adj.Goals)
	if errors.Is(err, sql.ErrNoRows) {
		return models.LearningAdjustments{}, nil
	} else if err != nil {
		return models.LearningAdjustments{}, fmt.Errorf("failed to load coefficients: %w", err)
	}
	return adj, nil
}

// SaveCoefficients appends a new set of learning adjustments
func (s *MatchStore) SaveCoefficients(ctx context.Context, adj models.LearningAdjustments) error {
	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO learning_history (home_win_adjustment, away_win_adjustment, draw_adjustment, goals_adjustment, created_at)
		VALUES (?, ?, ?, ?, ?)
	`), adj.HomeWin, adj.AwayWin, adj.Draw, adj.Goals, s.now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save coefficients: %w", err)
	}
	s.logger.Info().
		Float64("home_win", adj.HomeWin).
		Float64("away_win", adj.AwayWin).
		Float64("draw", adj.Draw).
		Float64("goals", adj.Goals).
		Msg("saved learning coefficients")
	return nil
}

// Ping checks the database connection
func (s *MatchStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection
func (s *MatchStore) Close() error {
	return s.db.Close()
}

func nullableID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}

func nullableInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
