// Package store persists account records keyed by their address. Every
// mutation goes through Update, which applies all writes of its callback or
// none of them.
package store

import (
	"context"
	"errors"

	"github.com/gagliardetto/solana-go"
)

var (
	ErrNotFound = errors.New("account not found")
	ErrClosed   = errors.New("store closed")
)

// Reader reads account records.
type Reader interface {
	Get(ctx context.Context, key solana.PublicKey) ([]byte, error)
}

// Tx is the view of the store inside Update. Reads observe the writes made
// earlier in the same transaction.
type Tx interface {
	Reader
	Put(ctx context.Context, key solana.PublicKey, data []byte) error
}

type Store interface {
	Reader
	// Update runs fn in a transaction. The writes of fn are committed only if
	// fn returns nil.
	Update(ctx context.Context, fn func(tx Tx) error) error
	Close() error
}
