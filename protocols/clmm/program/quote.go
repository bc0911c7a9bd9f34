package program

import (
	"context"
	"math/big"

	"github.com/ParsaRahabarn/Solana-Dex/protocols/clmm/calculator"
	"github.com/gagliardetto/solana-go"
)

// QuoteParams select the pool and direction of a simulated swap.
type QuoteParams struct {
	Pool                   solana.PublicKey
	TickArrays             [3]solana.PublicKey
	Amount                 uint64
	SqrtPriceLimit         *big.Int
	AmountSpecifiedIsInput bool
	AToB                   bool
}

// Quote computes a swap with the transfer fees of the pool's mints without
// writing anything.
func (p *Program) Quote(ctx context.Context, params QuoteParams) (calculator.QuoteResult, error) {
	timestamp, err := timestampOf(p.clock)
	if err != nil {
		return calculator.QuoteResult{}, err
	}
	l := newLoader(p.store)
	pool, err := l.pool(ctx, params.Pool)
	if err != nil {
		return calculator.QuoteResult{}, err
	}
	mintA, mintB, err := l.mints(ctx, pool)
	if err != nil {
		return calculator.QuoteResult{}, err
	}
	seq, _, err := l.tickSequence(ctx, pool, params.TickArrays)
	if err != nil {
		return calculator.QuoteResult{}, err
	}
	return calculator.Quote(pool, mintA, mintB, p.clock.Epoch(), seq, params.Amount, params.SqrtPriceLimit, params.AmountSpecifiedIsInput, params.AToB, timestamp)
}
