package calculator

import (
	"math/big"

	"github.com/ParsaRahabarn/Solana-Dex/protocols/clmm"
	"github.com/ParsaRahabarn/Solana-Dex/protocols/token"
)

// QuoteResult is a swap computed without side effects.
type QuoteResult struct {
	Update clmm.PostSwapUpdate
	// EstimatedOut is the net output after the output mint's transfer fee.
	EstimatedOut uint64
	// EstimatedIn is the gross input including the input mint's transfer fee.
	EstimatedIn uint64
}

// Quote runs SwapWithTransferFee against copies of the pool and tick arrays.
func Quote(
	pool *clmm.Pool,
	mintA, mintB *token.Mint,
	epoch uint64,
	seq *clmm.TickSequence,
	amount uint64,
	sqrtPriceLimit *big.Int,
	amountSpecifiedIsInput bool,
	aToB bool,
	timestamp uint64,
) (QuoteResult, error) {
	update, err := SwapWithTransferFee(pool.Clone(), mintA, mintB, epoch, seq.Clone(), amount, sqrtPriceLimit, amountSpecifiedIsInput, aToB, timestamp)
	if err != nil {
		return QuoteResult{}, err
	}

	outputMint := mintA
	if aToB {
		outputMint = mintB
	}
	out, err := token.TransferFeeExcludedAmount(outputMint, epoch, update.OutputAmount(aToB))
	if err != nil {
		return QuoteResult{}, err
	}
	return QuoteResult{
		Update:       update,
		EstimatedOut: out.Amount,
		EstimatedIn:  update.InputAmount(aToB),
	}, nil
}
