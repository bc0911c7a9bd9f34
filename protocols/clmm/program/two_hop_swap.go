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

// TwoHopSwapParams route a trade through two pools sharing the intermediate
// mint. Remaining account slices may be typed TransferHookInput,
// TransferHookIntermediate and TransferHookOutput.
type TwoHopSwapParams struct {
	TokenAuthority            solana.PublicKey
	PoolOne                   solana.PublicKey
	PoolTwo                   solana.PublicKey
	TokenOwnerAccountInput    solana.PublicKey
	TokenVaultOneInput        solana.PublicKey
	TokenVaultOneIntermediate solana.PublicKey
	TokenVaultTwoIntermediate solana.PublicKey
	TokenVaultTwoOutput       solana.PublicKey
	TokenOwnerAccountOutput   solana.PublicKey
	TickArraysOne             [3]solana.PublicKey
	TickArraysTwo             [3]solana.PublicKey

	Amount                 uint64
	OtherAmountThreshold   uint64
	AmountSpecifiedIsInput bool
	AToBOne                bool
	AToBTwo                bool
	SqrtPriceLimitOne      *big.Int
	SqrtPriceLimitTwo      *big.Int

	RemainingAccountsInfo *clmm.RemainingAccountsInfo
	RemainingAccounts     []solana.PublicKey
}

// TwoHopSwap executes both legs of a route as one unit. For exact input the
// first leg runs forward and its output feeds the second; for exact output
// the second leg runs first and the first leg is sized to deliver what the
// second needs after the intermediate transfer fee.
func (p *Program) TwoHopSwap(ctx context.Context, params TwoHopSwapParams) (*TwoHopSwapEvent, error) {
	var event *TwoHopSwapEvent
	err := p.execute(ctx, instructionTwoHopSwap, func(tx store.Tx, id uuid.UUID) error {
		timestamp, err := timestampOf(p.clock)
		if err != nil {
			return err
		}
		acc, err := newLoader(tx).validateTwoHop(ctx, &params)
		if err != nil {
			return err
		}
		hooks, err := clmm.ParseRemainingAccounts(params.RemainingAccounts, params.RemainingAccountsInfo, []clmm.AccountsType{
			clmm.AccountsTypeTransferHookInput,
			clmm.AccountsTypeTransferHookIntermediate,
			clmm.AccountsTypeTransferHookOutput,
		})
		if err != nil {
			return err
		}

		epoch := p.clock.Epoch()
		legOne := func(amount uint64) (clmm.PostSwapUpdate, error) {
			return calculator.SwapWithTransferFee(acc.one.pool, acc.one.mintA, acc.one.mintB, epoch, acc.one.seq,
				amount, params.SqrtPriceLimitOne, params.AmountSpecifiedIsInput, params.AToBOne, timestamp)
		}
		legTwo := func(amount uint64) (clmm.PostSwapUpdate, error) {
			return calculator.SwapWithTransferFee(acc.two.pool, acc.two.mintA, acc.two.mintB, epoch, acc.two.seq,
				amount, params.SqrtPriceLimitTwo, params.AmountSpecifiedIsInput, params.AToBTwo, timestamp)
		}

		var updateOne, updateTwo clmm.PostSwapUpdate
		if params.AmountSpecifiedIsInput {
			if updateOne, err = legOne(params.Amount); err != nil {
				return err
			}
			// The vault to vault transfer charges the intermediate fee once,
			// inside the second leg.
			if updateTwo, err = legTwo(updateOne.OutputAmount(params.AToBOne)); err != nil {
				return err
			}
		} else {
			if updateTwo, err = legTwo(params.Amount); err != nil {
				return err
			}
			needed, err := token.TransferFeeExcludedAmount(acc.mintIntermediate, epoch, updateTwo.InputAmount(params.AToBTwo))
			if err != nil {
				return err
			}
			if updateOne, err = legOne(needed.Amount); err != nil {
				return err
			}
		}

		intermediateOut := updateOne.OutputAmount(params.AToBOne)
		intermediateIn := updateTwo.InputAmount(params.AToBTwo)
		if intermediateOut != intermediateIn {
			return fmt.Errorf("%w: leg one out %d, leg two in %d", ErrIntermediateTokenAmountMismatch, intermediateOut, intermediateIn)
		}

		if params.AmountSpecifiedIsInput {
			out, err := token.TransferFeeExcludedAmount(acc.mintOutput, epoch, updateTwo.OutputAmount(params.AToBTwo))
			if err != nil {
				return err
			}
			if out.Amount < params.OtherAmountThreshold {
				return fmt.Errorf("%w: %d < %d", ErrAmountOutBelowMinimum, out.Amount, params.OtherAmountThreshold)
			}
		} else if in := updateOne.InputAmount(params.AToBOne); in > params.OtherAmountThreshold {
			return fmt.Errorf("%w: %d > %d", ErrAmountInAboveMaximum, in, params.OtherAmountThreshold)
		}

		s := twoHopSettlement{
			authority:               params.TokenAuthority,
			tokenOwnerAccountInput:  params.TokenOwnerAccountInput,
			tokenOwnerAccountOutput: params.TokenOwnerAccountOutput,
			hooks:                   hooks,
		}
		received, err := p.settleTwoHop(ctx, tx, acc, s, updateOne, updateTwo, params.AToBOne, params.AToBTwo, timestamp)
		if err != nil {
			return err
		}

		event = &TwoHopSwapEvent{
			InvocationID:         id,
			LegOne:               *newSwapEvent(id, acc.one.pool, params.TokenAuthority, updateOne, params.AToBOne),
			LegTwo:               *newSwapEvent(id, acc.two.pool, params.TokenAuthority, updateTwo, params.AToBTwo),
			InputAmount:          updateOne.InputAmount(params.AToBOne),
			IntermediateAmount:   intermediateOut,
			IntermediateReceived: received.Amount,
			OutputAmount:         updateTwo.OutputAmount(params.AToBTwo),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.logger.Info("two-hop swap executed",
		"invocation", event.InvocationID.String(),
		"pool_one", event.LegOne.Pool.String(),
		"pool_two", event.LegTwo.Pool.String(),
		"input", event.InputAmount,
		"intermediate", event.IntermediateAmount,
		"intermediate_received", event.IntermediateReceived,
		"output", event.OutputAmount,
	)
	return event, nil
}
