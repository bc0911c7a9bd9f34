// Package calculator walks a pool's price curve across its tick arrays and
// produces the state update of a swap without touching token balances.
package calculator

import (
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ParsaRahabarn/Solana-Dex/protocols/clmm"
	"github.com/ParsaRahabarn/Solana-Dex/protocols/clmm/calculator/liquiditymath"
	"github.com/ParsaRahabarn/Solana-Dex/protocols/clmm/calculator/swapmath"
	"github.com/ParsaRahabarn/Solana-Dex/protocols/clmm/calculator/tickmath"
	"github.com/ethereum/go-ethereum/common/math"
)

var (
	// NO_EXPLICIT_SQRT_PRICE_LIMIT lets the swap run to the domain edge.
	NO_EXPLICIT_SQRT_PRICE_LIMIT = big.NewInt(0)

	maxUint128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
)

// swapState holds the running values of one swap.
type swapState struct {
	sqrtPrice       *big.Int
	liquidity       *big.Int
	feeGrowthGlobal *big.Int

	// scratch
	nextTickSqrtPrice *big.Int
	target            *big.Int
	nextSqrtPrice     *big.Int
	growthDelta       *big.Int
}

var swapStatePool = sync.Pool{
	New: func() any {
		return &swapState{
			sqrtPrice:         new(big.Int),
			liquidity:         new(big.Int),
			feeGrowthGlobal:   new(big.Int),
			nextTickSqrtPrice: new(big.Int),
			target:            new(big.Int),
			nextSqrtPrice:     new(big.Int),
			growthDelta:       new(big.Int),
		}
	},
}

// Swap computes the result of swapping amount against pool across the tick
// arrays of seq. Crossed ticks are updated inside seq; the pool is left
// untouched. A nil or zero sqrtPriceLimit lets the price run to the domain
// edge in the direction of travel.
func Swap(
	pool *clmm.Pool,
	seq *clmm.TickSequence,
	amount uint64,
	sqrtPriceLimit *big.Int,
	amountSpecifiedIsInput bool,
	aToB bool,
	timestamp uint64,
) (clmm.PostSwapUpdate, error) {
	explicitLimit := sqrtPriceLimit != nil && sqrtPriceLimit.Sign() != 0
	limit := sqrtPriceLimit
	if !explicitLimit {
		if aToB {
			limit = tickmath.MIN_SQRT_PRICE
		} else {
			limit = tickmath.MAX_SQRT_PRICE
		}
	}

	if limit.Cmp(tickmath.MIN_SQRT_PRICE) < 0 || limit.Cmp(tickmath.MAX_SQRT_PRICE) > 0 {
		return clmm.PostSwapUpdate{}, fmt.Errorf("%w: %s", ErrSqrtPriceLimitOutOfBounds, limit)
	}
	if (aToB && limit.Cmp(pool.SqrtPrice) > 0) || (!aToB && limit.Cmp(pool.SqrtPrice) < 0) {
		return clmm.PostSwapUpdate{}, ErrInvalidSqrtPriceLimitDirection
	}
	if amount == 0 {
		return clmm.PostSwapUpdate{}, ErrZeroTradableAmount
	}

	nextRewardInfos, err := NextRewardInfos(pool, timestamp)
	if err != nil {
		return clmm.PostSwapUpdate{}, err
	}

	s := swapStatePool.Get().(*swapState)
	defer swapStatePool.Put(s)

	s.sqrtPrice.Set(pool.SqrtPrice)
	s.liquidity.Set(pool.Liquidity)
	if aToB {
		s.feeGrowthGlobal.Set(pool.FeeGrowthGlobalA)
	} else {
		s.feeGrowthGlobal.Set(pool.FeeGrowthGlobalB)
	}

	var (
		amountRemaining  = amount
		amountCalculated uint64
		protocolFee      uint64
		feeTotal         uint64
		ticksCrossed     int
		tickIndex        = pool.TickCurrentIndex
		arrayIndex       = 0
		overflow         bool
	)

	for amountRemaining > 0 && limit.Cmp(s.sqrtPrice) != 0 {
		nextArrayIndex, nextTick, err := seq.NextInitializedTickIndex(tickIndex, pool.TickSpacing, aToB, arrayIndex)
		if err != nil {
			return clmm.PostSwapUpdate{}, err
		}

		if err := tickmath.GetSqrtPriceAtTick(s.nextTickSqrtPrice, nextTick); err != nil {
			return clmm.PostSwapUpdate{}, err
		}
		if (aToB && s.nextTickSqrtPrice.Cmp(limit) < 0) || (!aToB && s.nextTickSqrtPrice.Cmp(limit) > 0) {
			s.target.Set(limit)
		} else {
			s.target.Set(s.nextTickSqrtPrice)
		}

		if s.liquidity.Sign() == 0 {
			return clmm.PostSwapUpdate{}, fmt.Errorf("%w: at tick %d", ErrZeroLiquidityInRange, tickIndex)
		}

		step, err := swapmath.ComputeSwapStep(
			s.nextSqrtPrice,
			amountRemaining,
			pool.FeeRate,
			s.liquidity,
			s.sqrtPrice,
			s.target,
			amountSpecifiedIsInput,
			aToB,
		)
		if err != nil {
			return clmm.PostSwapUpdate{}, err
		}

		if amountSpecifiedIsInput {
			if amountRemaining, overflow = math.SafeSub(amountRemaining, step.AmountIn); overflow {
				return clmm.PostSwapUpdate{}, ErrAmountRemainingOverflow
			}
			if amountRemaining, overflow = math.SafeSub(amountRemaining, step.FeeAmount); overflow {
				return clmm.PostSwapUpdate{}, ErrAmountRemainingOverflow
			}
			if amountCalculated, overflow = math.SafeAdd(amountCalculated, step.AmountOut); overflow {
				return clmm.PostSwapUpdate{}, ErrAmountCalcOverflow
			}
		} else {
			if amountRemaining, overflow = math.SafeSub(amountRemaining, step.AmountOut); overflow {
				return clmm.PostSwapUpdate{}, ErrAmountRemainingOverflow
			}
			if amountCalculated, overflow = math.SafeAdd(amountCalculated, step.AmountIn); overflow {
				return clmm.PostSwapUpdate{}, ErrAmountCalcOverflow
			}
			if amountCalculated, overflow = math.SafeAdd(amountCalculated, step.FeeAmount); overflow {
				return clmm.PostSwapUpdate{}, ErrAmountCalcOverflow
			}
		}

		if feeTotal, overflow = math.SafeAdd(feeTotal, step.FeeAmount); overflow {
			return clmm.PostSwapUpdate{}, ErrAmountCalcOverflow
		}
		stepProtocolFee, err := s.accrueFee(step.FeeAmount, pool.ProtocolFeeRate)
		if err != nil {
			return clmm.PostSwapUpdate{}, err
		}
		if protocolFee, overflow = math.SafeAdd(protocolFee, stepProtocolFee); overflow {
			return clmm.PostSwapUpdate{}, ErrAmountCalcOverflow
		}

		if s.nextSqrtPrice.Cmp(s.nextTickSqrtPrice) == 0 {
			crossed, err := s.crossTick(pool, seq, nextArrayIndex, nextTick, aToB, nextRewardInfos)
			if err != nil {
				return clmm.PostSwapUpdate{}, err
			}
			if crossed {
				ticksCrossed++
			}

			ta, err := seq.ArrayAt(nextArrayIndex)
			if err != nil {
				return clmm.PostSwapUpdate{}, err
			}
			offset := ta.TickOffset(nextTick, pool.TickSpacing)
			if (aToB && offset == 0) || (!aToB && offset == clmm.TICK_ARRAY_SIZE-1) {
				arrayIndex = nextArrayIndex + 1
			} else {
				arrayIndex = nextArrayIndex
			}
			if aToB {
				tickIndex = nextTick - 1
			} else {
				tickIndex = nextTick
			}
		} else if s.nextSqrtPrice.Cmp(s.sqrtPrice) != 0 {
			arrayIndex = nextArrayIndex
			if tickIndex, err = tickmath.GetTickAtSqrtPrice(s.nextSqrtPrice); err != nil {
				return clmm.PostSwapUpdate{}, err
			}
		}

		s.sqrtPrice.Set(s.nextSqrtPrice)
	}

	if amountRemaining > 0 && !amountSpecifiedIsInput && !explicitLimit {
		return clmm.PostSwapUpdate{}, fmt.Errorf("%w: %d of %d unfilled", ErrPartialFill, amountRemaining, amount)
	}

	var amountA, amountB uint64
	if aToB == amountSpecifiedIsInput {
		amountA, amountB = amount-amountRemaining, amountCalculated
	} else {
		amountA, amountB = amountCalculated, amount-amountRemaining
	}

	return clmm.PostSwapUpdate{
		AmountA:             amountA,
		AmountB:             amountB,
		NextLiquidity:       new(big.Int).Set(s.liquidity),
		NextTickIndex:       tickIndex,
		NextSqrtPrice:       new(big.Int).Set(s.sqrtPrice),
		NextFeeGrowthGlobal: new(big.Int).Set(s.feeGrowthGlobal),
		NextRewardInfos:     nextRewardInfos,
		NextProtocolFee:     protocolFee,
		FeeAmount:           feeTotal,
		TicksCrossed:        ticksCrossed,
	}, nil
}

// accrueFee splits a step fee into the protocol share, which it returns, and
// the liquidity provider share, which it adds to the running fee growth.
func (s *swapState) accrueFee(fee uint64, protocolFeeRate uint16) (uint64, error) {
	var protocolFee uint64
	if protocolFeeRate > 0 {
		s.growthDelta.SetUint64(fee)
		s.growthDelta.Mul(s.growthDelta, big.NewInt(int64(protocolFeeRate)))
		s.growthDelta.Div(s.growthDelta, big.NewInt(clmm.PROTOCOL_FEE_RATE_MUL_VALUE))
		protocolFee = s.growthDelta.Uint64()
	}

	s.growthDelta.SetUint64(fee - protocolFee)
	s.growthDelta.Lsh(s.growthDelta, 64)
	s.growthDelta.Div(s.growthDelta, s.liquidity)
	s.growthDelta.Add(s.growthDelta, s.feeGrowthGlobal)
	if s.growthDelta.Cmp(maxUint128) > 0 {
		return 0, ErrFeeGrowthOverflow
	}
	s.feeGrowthGlobal.Set(s.growthDelta)
	return protocolFee, nil
}

// crossTick applies the liquidity net of an initialized tick and flips its
// outside checkpoints. Ticks that cannot be read, such as the domain edge,
// count as uninitialized.
func (s *swapState) crossTick(
	pool *clmm.Pool,
	seq *clmm.TickSequence,
	arrayIndex int,
	tickIndex int32,
	aToB bool,
	rewardInfos [clmm.NUM_REWARDS]clmm.RewardInfo,
) (bool, error) {
	tick, err := seq.GetTick(arrayIndex, tickIndex, pool.TickSpacing)
	if err != nil {
		if errors.Is(err, clmm.ErrTickNotFound) {
			return false, nil
		}
		return false, err
	}
	if !tick.Initialized {
		return false, nil
	}

	delta := liquiditymath.CrossDelta(new(big.Int), tick.LiquidityNet, aToB)
	if err := liquiditymath.AddDelta(s.liquidity, s.liquidity, delta); err != nil {
		return false, fmt.Errorf("crossing tick %d: %w", tickIndex, err)
	}

	feeGrowthA, feeGrowthB := pool.FeeGrowthGlobalA, pool.FeeGrowthGlobalB
	if aToB {
		feeGrowthA = s.feeGrowthGlobal
	} else {
		feeGrowthB = s.feeGrowthGlobal
	}
	tick.Cross(feeGrowthA, feeGrowthB, rewardInfos)
	return true, nil
}
