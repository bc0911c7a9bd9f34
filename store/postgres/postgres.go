// Package postgres is a store.Store backed by PostgreSQL. Rows read inside
// Update are locked until the transaction ends.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ParsaRahabarn/Solana-Dex/store"
	"github.com/gagliardetto/solana-go"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	key        BYTEA PRIMARY KEY,
	data       BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type Store struct {
	pool *pgxpool.Pool
}

func Open(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Get(ctx context.Context, key solana.PublicKey) ([]byte, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM accounts WHERE key = $1`, key[:]).Scan(&data)
	return data, notFound(err, key)
}

func (s *Store) Update(ctx context.Context, fn func(tx store.Tx) error) error {
	return pgx.BeginFunc(ctx, s.pool, func(t pgx.Tx) error {
		return fn(&tx{tx: t})
	})
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// Truncate removes every account. Used by tests.
func (s *Store) Truncate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `TRUNCATE accounts`)
	return err
}

type tx struct {
	tx pgx.Tx
}

func (t *tx) Get(ctx context.Context, key solana.PublicKey) ([]byte, error) {
	var data []byte
	err := t.tx.QueryRow(ctx, `SELECT data FROM accounts WHERE key = $1 FOR UPDATE`, key[:]).Scan(&data)
	return data, notFound(err, key)
}

func (t *tx) Put(ctx context.Context, key solana.PublicKey, data []byte) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO accounts (key, data, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = now()
	`, key[:], data)
	return err
}

func notFound(err error, key solana.PublicKey) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", store.ErrNotFound, key)
	}
	return err
}
