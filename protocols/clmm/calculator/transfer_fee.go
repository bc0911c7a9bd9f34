package calculator

import (
	"fmt"
	"math/big"

	"github.com/ParsaRahabarn/Solana-Dex/protocols/clmm"
	"github.com/ParsaRahabarn/Solana-Dex/protocols/token"
)

// SwapWithTransferFee runs Swap for mints that may charge a fee on transfer.
// For exact input the pool swaps what arrives in the vault after the input
// fee, and the reported input is the gross amount the trader sends. For exact
// output the pool pays out enough that amount arrives after the output fee,
// and the reported input includes the input fee.
func SwapWithTransferFee(
	pool *clmm.Pool,
	mintA, mintB *token.Mint,
	epoch uint64,
	seq *clmm.TickSequence,
	amount uint64,
	sqrtPriceLimit *big.Int,
	amountSpecifiedIsInput bool,
	aToB bool,
	timestamp uint64,
) (clmm.PostSwapUpdate, error) {
	if mintA.Address != pool.TokenMintA || mintB.Address != pool.TokenMintB {
		return clmm.PostSwapUpdate{}, fmt.Errorf("%w: %s", ErrMintMismatch, pool.Address)
	}
	inputMint, outputMint := mintB, mintA
	if aToB {
		inputMint, outputMint = mintA, mintB
	}

	if amountSpecifiedIsInput {
		excludedInput, err := token.TransferFeeExcludedAmount(inputMint, epoch, amount)
		if err != nil {
			return clmm.PostSwapUpdate{}, err
		}
		update, err := Swap(pool, seq, excludedInput.Amount, sqrtPriceLimit, true, aToB, timestamp)
		if err != nil {
			return clmm.PostSwapUpdate{}, err
		}

		swapInput := update.InputAmount(aToB)
		grossInput := amount
		if swapInput != excludedInput.Amount {
			included, err := token.TransferFeeIncludedAmount(inputMint, epoch, swapInput)
			if err != nil {
				return clmm.PostSwapUpdate{}, err
			}
			grossInput = included.Amount
		}
		setInput(&update, aToB, grossInput)
		return update, nil
	}

	includedOutput, err := token.TransferFeeIncludedAmount(outputMint, epoch, amount)
	if err != nil {
		return clmm.PostSwapUpdate{}, err
	}
	update, err := Swap(pool, seq, includedOutput.Amount, sqrtPriceLimit, false, aToB, timestamp)
	if err != nil {
		return clmm.PostSwapUpdate{}, err
	}
	includedInput, err := token.TransferFeeIncludedAmount(inputMint, epoch, update.InputAmount(aToB))
	if err != nil {
		return clmm.PostSwapUpdate{}, err
	}
	setInput(&update, aToB, includedInput.Amount)
	return update, nil
}

func setInput(u *clmm.PostSwapUpdate, aToB bool, amount uint64) {
	if aToB {
		u.AmountA = amount
	} else {
		u.AmountB = amount
	}
}
