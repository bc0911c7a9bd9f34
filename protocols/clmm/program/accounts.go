package program

import (
	"context"
	"errors"
	"fmt"

	"github.com/ParsaRahabarn/Solana-Dex/protocols/clmm"
	"github.com/ParsaRahabarn/Solana-Dex/protocols/token"
	"github.com/ParsaRahabarn/Solana-Dex/store"
	"github.com/gagliardetto/solana-go"
)

// loader reads the records of one instruction, normally through its
// transaction. It remembers every tick array it hands out so no array is
// borrowed twice.
type loader struct {
	tx       store.Reader
	borrowed map[solana.PublicKey]bool
}

func newLoader(tx store.Reader) *loader {
	return &loader{tx: tx, borrowed: make(map[solana.PublicKey]bool)}
}

func (l *loader) pool(ctx context.Context, key solana.PublicKey) (*clmm.Pool, error) {
	data, err := l.tx.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load pool %s: %w", key, err)
	}
	return clmm.DecodePool(key, data)
}

func (l *loader) poolsConfig(ctx context.Context, key solana.PublicKey) (*clmm.PoolsConfig, error) {
	data, err := l.tx.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load pools config %s: %w", key, err)
	}
	return clmm.DecodePoolsConfig(key, data)
}

func (l *loader) mints(ctx context.Context, pool *clmm.Pool) (*token.Mint, *token.Mint, error) {
	mintA, err := token.LoadMint(ctx, l.tx, pool.TokenMintA)
	if err != nil {
		return nil, nil, err
	}
	mintB, err := token.LoadMint(ctx, l.tx, pool.TokenMintB)
	if err != nil {
		return nil, nil, err
	}
	return mintA, mintB, nil
}

// tokenAccount loads a token account and checks that it holds mint.
func (l *loader) tokenAccount(ctx context.Context, key, mint solana.PublicKey) (*token.Account, error) {
	a, err := token.LoadAccount(ctx, l.tx, key)
	if err != nil {
		return nil, err
	}
	if a.Mint != mint {
		return nil, fmt.Errorf("%w: %s holds %s, want %s", ErrTokenAccountMintMismatch, key, a.Mint, mint)
	}
	return a, nil
}

// tickSequence loads the tick arrays of a swap on pool. The first key is
// required. A later key that is zero, missing from the store, or already
// borrowed is treated as absent.
func (l *loader) tickSequence(ctx context.Context, pool *clmm.Pool, keys [3]solana.PublicKey) (*clmm.TickSequence, []*clmm.TickArray, error) {
	if l.borrowed[keys[0]] {
		return nil, nil, fmt.Errorf("%w: %s", ErrDuplicateTickArray, keys[0])
	}
	first, err := l.tickArray(ctx, pool, keys[0])
	if err != nil {
		return nil, nil, err
	}

	arrays := []*clmm.TickArray{first}
	for _, key := range keys[1:] {
		if key.IsZero() || l.borrowed[key] {
			continue
		}
		ta, err := l.tickArray(ctx, pool, key)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		arrays = append(arrays, ta)
	}

	seq, err := clmm.NewTickSequence(arrays[0], arrays[1:]...)
	if err != nil {
		return nil, nil, err
	}
	return seq, arrays, nil
}

func (l *loader) tickArray(ctx context.Context, pool *clmm.Pool, key solana.PublicKey) (*clmm.TickArray, error) {
	data, err := l.tx.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load tick array %s: %w", key, err)
	}
	ta, err := clmm.DecodeTickArray(key, data)
	if err != nil {
		return nil, err
	}
	if ta.Pool != pool.Address {
		return nil, fmt.Errorf("%w: %s belongs to %s", clmm.ErrTickArrayPoolMismatch, key, ta.Pool)
	}
	if !clmm.IsValidStartTickIndex(ta.StartTickIndex, pool.TickSpacing) {
		return nil, fmt.Errorf("%w: %s starts at %d for spacing %d", clmm.ErrInvalidStartTick, key, ta.StartTickIndex, pool.TickSpacing)
	}
	l.borrowed[key] = true
	return ta, nil
}

// storePool writes back a pool and the tick arrays its swap borrowed.
func storePool(ctx context.Context, tx store.Tx, pool *clmm.Pool, arrays []*clmm.TickArray) error {
	data, err := clmm.EncodePool(pool)
	if err != nil {
		return err
	}
	if err := tx.Put(ctx, pool.Address, data); err != nil {
		return err
	}
	for _, ta := range arrays {
		data, err := clmm.EncodeTickArray(ta)
		if err != nil {
			return err
		}
		if err := tx.Put(ctx, ta.Address, data); err != nil {
			return err
		}
	}
	return nil
}
