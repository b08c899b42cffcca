// Package store keeps the round journal of the running process in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/tuxquiz/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// MemoryDSN opens a private in-memory database that disappears on Close.
const MemoryDSN = ":memory:"

// Store wraps SQLite access for round data.
type Store struct {
	db *sql.DB
}

// Open opens the database and applies migrations.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS rounds (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			play_time_ms INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			final_score INTEGER NOT NULL,
			correct INTEGER NOT NULL,
			timeouts INTEGER NOT NULL,
			spawned INTEGER NOT NULL,
			score_trace TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_rounds_ended_at ON rounds(ended_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertRound stores a finished round.
func (s *Store) InsertRound(ctx context.Context, r model.RoundSummary) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO rounds (id, started_at, ended_at, play_time_ms, outcome, final_score, correct, timeouts, spawned, score_trace)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID,
		r.StartedAt.Format(time.RFC3339Nano),
		r.EndedAt.Format(time.RFC3339Nano),
		r.PlayTime.Milliseconds(),
		string(r.Outcome),
		r.FinalScore,
		r.Correct,
		r.Timeouts,
		r.Spawned,
		encodeTrace(r.ScoreTrace),
	)
	if err != nil {
		return fmt.Errorf("failed to insert round: %w", err)
	}
	return nil
}

// ListRounds returns every stored round, oldest first.
func (s *Store) ListRounds(ctx context.Context) ([]model.RoundSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, ended_at, play_time_ms, outcome, final_score, correct, timeouts, spawned, score_trace
		 FROM rounds
		 ORDER BY ended_at ASC, rowid ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var rounds []model.RoundSummary
	for rows.Next() {
		var (
			r                  model.RoundSummary
			startedAt, endedAt string
			playTimeMs         int64
			outcome, trace     string
		)
		if err := rows.Scan(&r.ID, &startedAt, &endedAt, &playTimeMs, &outcome, &r.FinalScore, &r.Correct, &r.Timeouts, &r.Spawned, &trace); err != nil {
			return nil, err
		}
		if r.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, err
		}
		if r.EndedAt, err = time.Parse(time.RFC3339Nano, endedAt); err != nil {
			return nil, err
		}
		if r.ScoreTrace, err = decodeTrace(trace); err != nil {
			return nil, err
		}
		r.PlayTime = time.Duration(playTimeMs) * time.Millisecond
		r.Outcome = model.RoundOutcome(outcome)
		rounds = append(rounds, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rounds, nil
}

func encodeTrace(trace []int) string {
	parts := make([]string, len(trace))
	for i, v := range trace {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func decodeTrace(raw string) ([]int, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid score trace %q: %w", raw, err)
		}
		out[i] = v
	}
	return out, nil
}
