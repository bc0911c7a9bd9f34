// Package sqlite is a store.Store backed by a SQLite database file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ParsaRahabarn/Solana-Dex/store"
	"github.com/gagliardetto/solana-go"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	key  BLOB PRIMARY KEY,
	data BLOB NOT NULL
)`

const upsert = `
INSERT INTO accounts (key, data) VALUES (?, ?)
ON CONFLICT (key) DO UPDATE SET data = excluded.data`

type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	// SQLite allows one writer; a single connection keeps transactions serial.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func get(ctx context.Context, q querier, key solana.PublicKey) ([]byte, error) {
	var data []byte
	err := q.QueryRowContext(ctx, `SELECT data FROM accounts WHERE key = ?`, key[:]).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", store.ErrNotFound, key)
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *Store) Get(ctx context.Context, key solana.PublicKey) ([]byte, error) {
	return get(ctx, s.db, key)
}

func (s *Store) Update(ctx context.Context, fn func(tx store.Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(&tx{tx: sqlTx}); err != nil {
		_ = sqlTx.Rollback()
		return err
	}
	return sqlTx.Commit()
}

func (s *Store) Close() error {
	return s.db.Close()
}

type tx struct {
	tx *sql.Tx
}

func (t *tx) Get(ctx context.Context, key solana.PublicKey) ([]byte, error) {
	return get(ctx, t.tx, key)
}

func (t *tx) Put(ctx context.Context, key solana.PublicKey, data []byte) error {
	_, err := t.tx.ExecContext(ctx, upsert, key[:], data)
	return err
}
