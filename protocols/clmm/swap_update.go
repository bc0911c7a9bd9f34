package clmm

import "math/big"

// PostSwapUpdate is the outcome of a swap computation. It is produced without
// touching the pool and applied with Pool.UpdateAfterSwap.
type PostSwapUpdate struct {
	AmountA             uint64
	AmountB             uint64
	NextLiquidity       *big.Int
	NextTickIndex       int32
	NextSqrtPrice       *big.Int
	NextFeeGrowthGlobal *big.Int
	NextRewardInfos     [NUM_REWARDS]RewardInfo
	// NextProtocolFee is the protocol fee taken by this swap, to be added to
	// the owed counter of the input token.
	NextProtocolFee uint64
	FeeAmount       uint64
	TicksCrossed    int
}

// InputAmount is the amount of the input token moved by the swap.
func (u PostSwapUpdate) InputAmount(aToB bool) uint64 {
	if aToB {
		return u.AmountA
	}
	return u.AmountB
}

// OutputAmount is the amount of the output token moved by the swap.
func (u PostSwapUpdate) OutputAmount(aToB bool) uint64 {
	if aToB {
		return u.AmountB
	}
	return u.AmountA
}
