package swapmath

import (
	"math/big"
	"sync"

	"github.com/ParsaRahabarn/Solana-Dex/protocols/clmm/calculator/sqrtpricemath"
)

// FEE_RATE_MUL_VALUE is the fee rate denominator: a fee rate is expressed in
// hundredths of a basis point.
const FEE_RATE_MUL_VALUE = 1_000_000

var (
	feeDenominator = big.NewInt(FEE_RATE_MUL_VALUE)
	one            = big.NewInt(1)
	maxUint64      = new(big.Int).SetUint64(^uint64(0))
)

// Step is the outcome of a swap within a single price range.
type Step struct {
	AmountIn  uint64
	AmountOut uint64
	FeeAmount uint64
}

type swapMath struct {
	remaining *big.Int
	feeRate   *big.Int
	product   *big.Int
	quotient  *big.Int
	rem       *big.Int
	temp      *big.Int
}

var swapMathPool = sync.Pool{
	New: func() any {
		return &swapMath{
			remaining: new(big.Int),
			feeRate:   new(big.Int),
			product:   new(big.Int),
			quotient:  new(big.Int),
			rem:       new(big.Int),
			temp:      new(big.Int),
		}
	},
}

// ComputeSwapStep swaps amountRemaining between sqrtPriceCurrent and
// sqrtPriceTarget and writes the resulting price into nextSqrtPrice.
// amountRemaining is the input budget when amountSpecifiedIsInput, otherwise
// the output still owed.
func ComputeSwapStep(
	nextSqrtPrice *big.Int,

	amountRemaining uint64,
	feeRate uint16,
	liquidity *big.Int,
	sqrtPriceCurrent *big.Int,
	sqrtPriceTarget *big.Int,
	amountSpecifiedIsInput bool,
	aToB bool,
) (Step, error) {
	s := swapMathPool.Get().(*swapMath)
	defer swapMathPool.Put(s)
	return s.computeSwapStep(nextSqrtPrice, amountRemaining, feeRate, liquidity, sqrtPriceCurrent, sqrtPriceTarget, amountSpecifiedIsInput, aToB)
}

func (s *swapMath) computeSwapStep(
	next *big.Int,
	amountRemaining uint64,
	feeRate uint16,
	liquidity, current, target *big.Int,
	specifiedInput, aToB bool,
) (Step, error) {
	var step Step

	// The amount needed to reach target may exceed a u64; the target is then
	// out of reach of any remaining amount.
	initialFixed, err := amountFixedDelta(current, target, liquidity, specifiedInput, aToB)
	if err != nil {
		return step, err
	}

	amountCalc := amountRemaining
	if specifiedInput {
		s.feeRate.SetUint64(uint64(feeRate))
		s.remaining.SetUint64(amountRemaining)
		s.temp.Sub(feeDenominator, s.feeRate)
		s.product.Mul(s.remaining, s.temp)
		s.quotient.Div(s.product, feeDenominator)
		amountCalc = s.quotient.Uint64()
	}

	if initialFixed.LessOrEqual(amountCalc) {
		next.Set(target)
	} else if err := sqrtpricemath.GetNextSqrtPrice(next, current, liquidity, amountCalc, specifiedInput, aToB); err != nil {
		return step, err
	}

	reachedTarget := next.Cmp(target) == 0

	unfixed, err := amountUnfixedDelta(current, next, liquidity, specifiedInput, aToB)
	if err != nil {
		return step, err
	}
	unfixedDelta, err := unfixed.Value()
	if err != nil {
		return step, err
	}
	fixed := initialFixed
	if !reachedTarget || initialFixed.ExceedsMax {
		if fixed, err = amountFixedDelta(current, next, liquidity, specifiedInput, aToB); err != nil {
			return step, err
		}
	}
	fixedDelta, err := fixed.Value()
	if err != nil {
		return step, err
	}

	if specifiedInput {
		step.AmountIn, step.AmountOut = fixedDelta, unfixedDelta
	} else {
		step.AmountIn, step.AmountOut = unfixedDelta, fixedDelta
		if step.AmountOut > amountRemaining {
			step.AmountOut = amountRemaining
		}
	}

	if specifiedInput && !reachedTarget {
		step.FeeAmount = amountRemaining - step.AmountIn
		return step, nil
	}

	s.feeRate.SetUint64(uint64(feeRate))
	s.temp.Sub(feeDenominator, s.feeRate)
	s.product.SetUint64(step.AmountIn)
	s.product.Mul(s.product, s.feeRate)
	s.quotient.QuoRem(s.product, s.temp, s.rem)
	if s.rem.Sign() > 0 {
		s.quotient.Add(s.quotient, one)
	}
	if s.quotient.Cmp(maxUint64) > 0 {
		return step, sqrtpricemath.ErrTokenMaxExceeded
	}
	step.FeeAmount = s.quotient.Uint64()
	return step, nil
}

// amountFixedDelta is the amount of the token the caller specified, rounded
// in the pool's favour.
func amountFixedDelta(current, target, liquidity *big.Int, specifiedInput, aToB bool) (sqrtpricemath.AmountDelta, error) {
	if aToB == specifiedInput {
		return sqrtpricemath.TryGetAmountDeltaA(current, target, liquidity, specifiedInput)
	}
	return sqrtpricemath.TryGetAmountDeltaB(current, target, liquidity, specifiedInput)
}

// amountUnfixedDelta is the amount of the other token.
func amountUnfixedDelta(current, target, liquidity *big.Int, specifiedInput, aToB bool) (sqrtpricemath.AmountDelta, error) {
	if aToB == specifiedInput {
		return sqrtpricemath.TryGetAmountDeltaB(current, target, liquidity, !specifiedInput)
	}
	return sqrtpricemath.TryGetAmountDeltaA(current, target, liquidity, !specifiedInput)
}
