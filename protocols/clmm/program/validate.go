package program

import (
	"context"
	"fmt"

	"github.com/ParsaRahabarn/Solana-Dex/protocols/clmm"
	"github.com/ParsaRahabarn/Solana-Dex/protocols/token"
	"github.com/gagliardetto/solana-go"
)

// swapAccounts is the validated account set of a single pool swap.
type swapAccounts struct {
	pool   *clmm.Pool
	mintA  *token.Mint
	mintB  *token.Mint
	seq    *clmm.TickSequence
	arrays []*clmm.TickArray
}

func checkVault(pool *clmm.Pool, got, want solana.PublicKey) error {
	if got != want {
		return fmt.Errorf("%w: %s is not a vault of %s", ErrVaultMismatch, got, pool.Address)
	}
	return nil
}

// validateSwap loads the accounts of a swap and checks that they belong
// together: owner accounts hold the pool's mints, vaults are the pool's, and
// every tick array is owned by the pool.
func (l *loader) validateSwap(ctx context.Context, p *SwapParams) (*swapAccounts, error) {
	pool, err := l.pool(ctx, p.Pool)
	if err != nil {
		return nil, err
	}
	if err := checkVault(pool, p.TokenVaultA, pool.TokenVaultA); err != nil {
		return nil, err
	}
	if err := checkVault(pool, p.TokenVaultB, pool.TokenVaultB); err != nil {
		return nil, err
	}
	if _, err := l.tokenAccount(ctx, p.TokenOwnerAccountA, pool.TokenMintA); err != nil {
		return nil, err
	}
	if _, err := l.tokenAccount(ctx, p.TokenOwnerAccountB, pool.TokenMintB); err != nil {
		return nil, err
	}
	mintA, mintB, err := l.mints(ctx, pool)
	if err != nil {
		return nil, err
	}
	seq, arrays, err := l.tickSequence(ctx, pool, p.TickArrays)
	if err != nil {
		return nil, err
	}
	return &swapAccounts{pool: pool, mintA: mintA, mintB: mintB, seq: seq, arrays: arrays}, nil
}

// twoHopAccounts is the validated account set of a two-hop swap.
type twoHopAccounts struct {
	one, two         *swapAccounts
	mintInput        *token.Mint
	mintIntermediate *token.Mint
	mintOutput       *token.Mint
}

func (l *loader) validateTwoHop(ctx context.Context, p *TwoHopSwapParams) (*twoHopAccounts, error) {
	if p.PoolOne == p.PoolTwo {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateTwoHopPool, p.PoolOne)
	}
	poolOne, err := l.pool(ctx, p.PoolOne)
	if err != nil {
		return nil, err
	}
	poolTwo, err := l.pool(ctx, p.PoolTwo)
	if err != nil {
		return nil, err
	}
	if poolOne.OutputTokenMint(p.AToBOne) != poolTwo.InputTokenMint(p.AToBTwo) {
		return nil, fmt.Errorf("%w: %s then %s", ErrInvalidIntermediaryMint, poolOne.OutputTokenMint(p.AToBOne), poolTwo.InputTokenMint(p.AToBTwo))
	}

	for _, v := range []struct {
		pool      *clmm.Pool
		got, want solana.PublicKey
	}{
		{poolOne, p.TokenVaultOneInput, poolOne.InputTokenVault(p.AToBOne)},
		{poolOne, p.TokenVaultOneIntermediate, poolOne.OutputTokenVault(p.AToBOne)},
		{poolTwo, p.TokenVaultTwoIntermediate, poolTwo.InputTokenVault(p.AToBTwo)},
		{poolTwo, p.TokenVaultTwoOutput, poolTwo.OutputTokenVault(p.AToBTwo)},
	} {
		if err := checkVault(v.pool, v.got, v.want); err != nil {
			return nil, err
		}
	}
	if _, err := l.tokenAccount(ctx, p.TokenOwnerAccountInput, poolOne.InputTokenMint(p.AToBOne)); err != nil {
		return nil, err
	}
	if _, err := l.tokenAccount(ctx, p.TokenOwnerAccountOutput, poolTwo.OutputTokenMint(p.AToBTwo)); err != nil {
		return nil, err
	}

	one := &swapAccounts{pool: poolOne}
	if one.mintA, one.mintB, err = l.mints(ctx, poolOne); err != nil {
		return nil, err
	}
	two := &swapAccounts{pool: poolTwo}
	if two.mintA, two.mintB, err = l.mints(ctx, poolTwo); err != nil {
		return nil, err
	}
	if one.seq, one.arrays, err = l.tickSequence(ctx, poolOne, p.TickArraysOne); err != nil {
		return nil, err
	}
	if two.seq, two.arrays, err = l.tickSequence(ctx, poolTwo, p.TickArraysTwo); err != nil {
		return nil, err
	}

	acc := &twoHopAccounts{one: one, two: two}
	acc.mintInput, acc.mintIntermediate = one.mintB, one.mintA
	if p.AToBOne {
		acc.mintInput, acc.mintIntermediate = one.mintA, one.mintB
	}
	acc.mintOutput = two.mintA
	if p.AToBTwo {
		acc.mintOutput = two.mintB
	}
	return acc, nil
}

// protocolFeeAccounts is the validated account set of a fee collection.
type protocolFeeAccounts struct {
	config *clmm.PoolsConfig
	pool   *clmm.Pool
}

func (l *loader) validateCollectProtocolFees(ctx context.Context, p *CollectProtocolFeesParams) (*protocolFeeAccounts, error) {
	cfg, err := l.poolsConfig(ctx, p.PoolsConfig)
	if err != nil {
		return nil, err
	}
	pool, err := l.pool(ctx, p.Pool)
	if err != nil {
		return nil, err
	}
	if pool.PoolsConfig != cfg.Address {
		return nil, fmt.Errorf("%w: %s", ErrPoolsConfigMismatch, pool.Address)
	}
	if p.CollectProtocolFeesAuthority != cfg.CollectProtocolFeesAuthority {
		return nil, fmt.Errorf("%w: %s cannot collect protocol fees", ErrUnauthorized, p.CollectProtocolFeesAuthority)
	}
	if err := checkVault(pool, p.TokenVaultA, pool.TokenVaultA); err != nil {
		return nil, err
	}
	if err := checkVault(pool, p.TokenVaultB, pool.TokenVaultB); err != nil {
		return nil, err
	}
	if _, err := l.tokenAccount(ctx, p.TokenDestinationA, pool.TokenMintA); err != nil {
		return nil, err
	}
	if _, err := l.tokenAccount(ctx, p.TokenDestinationB, pool.TokenMintB); err != nil {
		return nil, err
	}
	return &protocolFeeAccounts{config: cfg, pool: pool}, nil
}
