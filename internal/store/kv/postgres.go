package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgSlot is a PostgreSQL-backed slot. Each key is one row holding the
// whole value; Set upserts it.
type PgSlot struct {
	pool *pgxpool.Pool
}

func NewPgSlot(pool *pgxpool.Pool) *PgSlot {
	return &PgSlot{pool: pool}
}

// OpenPgSlot connects to dsn and makes sure the slot table exists.
func OpenPgSlot(ctx context.Context, dsn string) (*PgSlot, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	s := NewPgSlot(pool)
	if err := s.EnsureTable(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure table: %w", err)
	}
	return s, nil
}

// EnsureTable creates the slot table if it doesn't exist.
func (s *PgSlot) EnsureTable(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS dailytask_slots (
			key        TEXT PRIMARY KEY,
			value      JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	return err
}

func (s *PgSlot) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ValidateKey(key); err != nil {
		return nil, false, err
	}
	var value string
	err := s.pool.QueryRow(ctx,
		`SELECT value::text FROM dailytask_slots WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get slot %s: %w", key, err)
	}
	return []byte(value), true, nil
}

func (s *PgSlot) Set(ctx context.Context, key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO dailytask_slots (key, value, updated_at)
		VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		key, string(value))
	if err != nil {
		return fmt.Errorf("set slot %s: %w", key, err)
	}
	return nil
}

// Close releases the connection pool.
func (s *PgSlot) Close() {
	s.pool.Close()
}
