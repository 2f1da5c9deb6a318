package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ugaemi/mazechase/internal/game"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    outcome TEXT NOT NULL,
    level_reached INTEGER NOT NULL,
    levels INTEGER NOT NULL,
    tally INTEGER NOT NULL,
    ticks BIGINT NOT NULL,
    started_at TIMESTAMPTZ NOT NULL,
    ended_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_ended_at ON runs(ended_at DESC);
`

// PostgresStore implements RunStore using PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to PostgreSQL and initializes the schema.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// Record inserts a finished run.
func (s *PostgresStore) Record(ctx context.Context, rec *RunRecord) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO runs (id, outcome, level_reached, levels, tally, ticks, started_at, ended_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID, rec.Outcome.String(), rec.LevelReached, rec.Levels, rec.Tally, int64(rec.Ticks), rec.StartedAt, rec.EndedAt)
	return err
}

// Recent returns up to limit runs, newest first.
func (s *PostgresStore) Recent(ctx context.Context, limit int) ([]*RunRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, outcome, level_reached, levels, tally, ticks, started_at, ended_at
		 FROM runs ORDER BY ended_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close releases database resources.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func scanRun(row pgx.Row) (*RunRecord, error) {
	var (
		rec     RunRecord
		outcome string
		ticks   int64
	)
	err := row.Scan(&rec.ID, &outcome, &rec.LevelReached, &rec.Levels, &rec.Tally, &ticks, &rec.StartedAt, &rec.EndedAt)
	if err != nil {
		return nil, err
	}
	rec.Outcome = game.ParseOutcome(outcome)
	rec.Ticks = uint64(ticks)
	return &rec, nil
}
