// Package storetest checks that a store.Store honours the transaction
// contract. Backends call Run from their own tests.
package storetest

import (
	"context"
	"crypto/sha256"
	"errors"
	"testing"

	"github.com/ParsaRahabarn/Solana-Dex/store"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Key derives a deterministic address from name.
func Key(name string) solana.PublicKey {
	sum := sha256.Sum256([]byte(name))
	return solana.PublicKeyFromBytes(sum[:])
}

// Run exercises s. The store must be empty.
func Run(t *testing.T, s store.Store) {
	ctx := context.Background()
	a, b := Key("a"), Key("b")

	t.Run("missing key", func(t *testing.T) {
		_, err := s.Get(ctx, Key("missing"))
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("commit", func(t *testing.T) {
		err := s.Update(ctx, func(tx store.Tx) error {
			require.NoError(t, tx.Put(ctx, a, []byte{1, 2, 3}))
			got, err := tx.Get(ctx, a)
			require.NoError(t, err)
			assert.Equal(t, []byte{1, 2, 3}, got)
			return tx.Put(ctx, b, []byte{9})
		})
		require.NoError(t, err)

		got, err := s.Get(ctx, a)
		require.NoError(t, err)
		assert.Equal(t, []byte{1, 2, 3}, got)
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, s.Update(ctx, func(tx store.Tx) error {
			return tx.Put(ctx, a, []byte{4})
		}))
		got, err := s.Get(ctx, a)
		require.NoError(t, err)
		assert.Equal(t, []byte{4}, got)
	})

	t.Run("rollback", func(t *testing.T) {
		boom := errors.New("boom")
		err := s.Update(ctx, func(tx store.Tx) error {
			require.NoError(t, tx.Put(ctx, a, []byte{5}))
			require.NoError(t, tx.Put(ctx, Key("new"), []byte{6}))
			return boom
		})
		assert.ErrorIs(t, err, boom)

		got, err := s.Get(ctx, a)
		require.NoError(t, err)
		assert.Equal(t, []byte{4}, got)
		_, err = s.Get(ctx, Key("new"))
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("returned data is a copy", func(t *testing.T) {
		got, err := s.Get(ctx, b)
		require.NoError(t, err)
		got[0] = 0
		again, err := s.Get(ctx, b)
		require.NoError(t, err)
		assert.Equal(t, []byte{9}, again)
	})
}
