package program

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ParsaRahabarn/Solana-Dex/protocols/clmm"
	"github.com/ParsaRahabarn/Solana-Dex/protocols/clmm/calculator"
	"github.com/ParsaRahabarn/Solana-Dex/protocols/token"
	"github.com/ParsaRahabarn/Solana-Dex/store"
	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
)

// SwapParams are the accounts and arguments of a single pool swap.
type SwapParams struct {
	TokenAuthority     solana.PublicKey
	Pool               solana.PublicKey
	TokenOwnerAccountA solana.PublicKey
	TokenVaultA        solana.PublicKey
	TokenOwnerAccountB solana.PublicKey
	TokenVaultB        solana.PublicKey
	// TickArrays[0] is required, the others may be zero.
	TickArrays [3]solana.PublicKey

	Amount uint64
	// OtherAmountThreshold is the minimum output for exact input swaps and
	// the maximum input for exact output swaps.
	OtherAmountThreshold   uint64
	SqrtPriceLimit         *big.Int
	AmountSpecifiedIsInput bool
	AToB                   bool
}

// SwapV2Params add transfer hook accounts to a swap. Slices may be typed
// TransferHookA and TransferHookB.
type SwapV2Params struct {
	SwapParams
	RemainingAccountsInfo *clmm.RemainingAccountsInfo
	RemainingAccounts     []solana.PublicKey
}

// Swap trades against a pool whose mints carry no token extensions.
func (p *Program) Swap(ctx context.Context, params SwapParams) (*SwapEvent, error) {
	var event *SwapEvent
	err := p.execute(ctx, instructionSwap, func(tx store.Tx, id uuid.UUID) error {
		timestamp, err := timestampOf(p.clock)
		if err != nil {
			return err
		}
		acc, err := newLoader(tx).validateSwap(ctx, &params)
		if err != nil {
			return err
		}
		for _, m := range []*token.Mint{acc.mintA, acc.mintB} {
			if m.HasExtensions() {
				return fmt.Errorf("%w: %s", ErrUnsupportedTokenMint, m.Address)
			}
		}

		update, err := calculator.Swap(acc.pool, acc.seq, params.Amount, params.SqrtPriceLimit, params.AmountSpecifiedIsInput, params.AToB, timestamp)
		if err != nil {
			return err
		}
		if err := checkSlippage(update, params.OtherAmountThreshold, params.AmountSpecifiedIsInput, params.AToB); err != nil {
			return err
		}

		s := settlement{
			authority:          params.TokenAuthority,
			tokenOwnerAccountA: params.TokenOwnerAccountA,
			tokenOwnerAccountB: params.TokenOwnerAccountB,
		}
		if err := p.settleSwap(ctx, tx, acc, s, update, params.AToB, timestamp); err != nil {
			return err
		}
		event = newSwapEvent(id, acc.pool, params.TokenAuthority, update, params.AToB)
		return nil
	})
	if err != nil {
		return nil, err
	}
	p.logSwap(instructionSwap, event)
	return event, nil
}

// SwapV2 trades against any pool, charging the transfer fees of its mints and
// running their transfer hooks.
func (p *Program) SwapV2(ctx context.Context, params SwapV2Params) (*SwapEvent, error) {
	var event *SwapEvent
	err := p.execute(ctx, instructionSwapV2, func(tx store.Tx, id uuid.UUID) error {
		timestamp, err := timestampOf(p.clock)
		if err != nil {
			return err
		}
		hooks, err := clmm.ParseRemainingAccounts(params.RemainingAccounts, params.RemainingAccountsInfo, []clmm.AccountsType{
			clmm.AccountsTypeTransferHookA,
			clmm.AccountsTypeTransferHookB,
		})
		if err != nil {
			return err
		}
		acc, err := newLoader(tx).validateSwap(ctx, &params.SwapParams)
		if err != nil {
			return err
		}

		epoch := p.clock.Epoch()
		update, err := calculator.SwapWithTransferFee(acc.pool, acc.mintA, acc.mintB, epoch, acc.seq, params.Amount, params.SqrtPriceLimit, params.AmountSpecifiedIsInput, params.AToB, timestamp)
		if err != nil {
			return err
		}

		if params.AmountSpecifiedIsInput {
			outputMint := acc.mintA
			if params.AToB {
				outputMint = acc.mintB
			}
			out, err := token.TransferFeeExcludedAmount(outputMint, epoch, update.OutputAmount(params.AToB))
			if err != nil {
				return err
			}
			if out.Amount < params.OtherAmountThreshold {
				return fmt.Errorf("%w: %d < %d", ErrAmountOutBelowMinimum, out.Amount, params.OtherAmountThreshold)
			}
		} else if in := update.InputAmount(params.AToB); in > params.OtherAmountThreshold {
			return fmt.Errorf("%w: %d > %d", ErrAmountInAboveMaximum, in, params.OtherAmountThreshold)
		}

		s := settlement{
			authority:          params.TokenAuthority,
			tokenOwnerAccountA: params.TokenOwnerAccountA,
			tokenOwnerAccountB: params.TokenOwnerAccountB,
			hookAccountsA:      hooks.TransferHookA,
			hookAccountsB:      hooks.TransferHookB,
			memo:               token.MemoSwap,
		}
		if err := p.settleSwap(ctx, tx, acc, s, update, params.AToB, timestamp); err != nil {
			return err
		}
		event = newSwapEvent(id, acc.pool, params.TokenAuthority, update, params.AToB)
		return nil
	})
	if err != nil {
		return nil, err
	}
	p.logSwap(instructionSwapV2, event)
	return event, nil
}

// checkSlippage compares the unspecified side of a swap with the caller's
// threshold.
func checkSlippage(update clmm.PostSwapUpdate, threshold uint64, amountSpecifiedIsInput, aToB bool) error {
	if amountSpecifiedIsInput {
		if out := update.OutputAmount(aToB); out < threshold {
			return fmt.Errorf("%w: %d < %d", ErrAmountOutBelowMinimum, out, threshold)
		}
		return nil
	}
	if in := update.InputAmount(aToB); in > threshold {
		return fmt.Errorf("%w: %d > %d", ErrAmountInAboveMaximum, in, threshold)
	}
	return nil
}

func newSwapEvent(id uuid.UUID, pool *clmm.Pool, sender solana.PublicKey, update clmm.PostSwapUpdate, aToB bool) *SwapEvent {
	return &SwapEvent{
		InvocationID:  id,
		Pool:          pool.Address,
		Sender:        sender,
		TokenAccount0: pool.TokenVaultA,
		TokenAccount1: pool.TokenVaultB,
		Amount0:       update.AmountA,
		Amount1:       update.AmountB,
		ZeroForOne:    aToB,
		SqrtPriceX64:  new(big.Int).Set(pool.SqrtPrice),
		Liquidity:     new(big.Int).Set(pool.Liquidity),
		Tick:          pool.TickCurrentIndex,
		Fee:           update.FeeAmount,
		TicksCrossed:  update.TicksCrossed,
	}
}

func (p *Program) logSwap(instruction string, e *SwapEvent) {
	p.logger.Info("swap executed",
		"instruction", instruction,
		"invocation", e.InvocationID.String(),
		"pool", e.Pool.String(),
		"a_to_b", e.ZeroForOne,
		"amount_a", e.Amount0,
		"amount_b", e.Amount1,
		"fee", e.Fee,
		"tick", e.Tick,
	)
}
