package program

import (
	"context"

	"github.com/ParsaRahabarn/Solana-Dex/protocols/clmm"
	"github.com/ParsaRahabarn/Solana-Dex/protocols/token"
	"github.com/ParsaRahabarn/Solana-Dex/store"
	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
)

// CollectProtocolFeesParams name the pool, its config and where the fees go.
// Remaining account slices may be typed TransferHookA and TransferHookB.
type CollectProtocolFeesParams struct {
	PoolsConfig                  solana.PublicKey
	Pool                         solana.PublicKey
	CollectProtocolFeesAuthority solana.PublicKey
	TokenVaultA                  solana.PublicKey
	TokenVaultB                  solana.PublicKey
	TokenDestinationA            solana.PublicKey
	TokenDestinationB            solana.PublicKey

	RemainingAccountsInfo *clmm.RemainingAccountsInfo
	RemainingAccounts     []solana.PublicKey
}

// CollectProtocolFees transfers the protocol fees owed by a pool out of its
// vaults and zeroes the owed counters.
func (p *Program) CollectProtocolFees(ctx context.Context, params CollectProtocolFeesParams) (*CollectProtocolFeesEvent, error) {
	var event *CollectProtocolFeesEvent
	err := p.execute(ctx, instructionCollectProtocolFees, func(tx store.Tx, id uuid.UUID) error {
		hooks, err := clmm.ParseRemainingAccounts(params.RemainingAccounts, params.RemainingAccountsInfo, []clmm.AccountsType{
			clmm.AccountsTypeTransferHookA,
			clmm.AccountsTypeTransferHookB,
		})
		if err != nil {
			return err
		}
		acc, err := newLoader(tx).validateCollectProtocolFees(ctx, &params)
		if err != nil {
			return err
		}

		pool := acc.pool
		epoch := p.clock.Epoch()
		event = &CollectProtocolFeesEvent{
			InvocationID: id,
			Pool:         pool.Address,
			AmountA:      pool.ProtocolFeeOwedA,
			AmountB:      pool.ProtocolFeeOwedB,
			DestinationA: params.TokenDestinationA,
			DestinationB: params.TokenDestinationB,
		}
		for _, t := range []token.Transfer{
			{
				Source:       pool.TokenVaultA,
				Destination:  params.TokenDestinationA,
				Mint:         pool.TokenMintA,
				Authority:    pool.Address,
				Amount:       pool.ProtocolFeeOwedA,
				Memo:         token.MemoCollectProtocolFees,
				HookAccounts: hooks.TransferHookA,
				Epoch:        epoch,
			},
			{
				Source:       pool.TokenVaultB,
				Destination:  params.TokenDestinationB,
				Mint:         pool.TokenMintB,
				Authority:    pool.Address,
				Amount:       pool.ProtocolFeeOwedB,
				Memo:         token.MemoCollectProtocolFees,
				HookAccounts: hooks.TransferHookB,
				Epoch:        epoch,
			},
		} {
			if _, err := p.token.Transfer(ctx, tx, t); err != nil {
				return err
			}
		}

		pool.ResetProtocolFeesOwed()
		return storePool(ctx, tx, pool, nil)
	})
	if err != nil {
		return nil, err
	}

	p.metrics.protocolFees.WithLabelValues("a").Add(float64(event.AmountA))
	p.metrics.protocolFees.WithLabelValues("b").Add(float64(event.AmountB))
	p.logger.Info("protocol fees collected",
		"invocation", event.InvocationID.String(),
		"pool", event.Pool.String(),
		"amount_a", event.AmountA,
		"amount_b", event.AmountB,
	)
	return event, nil
}
