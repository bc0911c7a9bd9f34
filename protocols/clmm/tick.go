package clmm

import (
	"math/big"

	"github.com/ParsaRahabarn/Solana-Dex/protocols/clmm/calculator/tickmath"
)

const (
	// TICK_ARRAY_SIZE is the number of tick slots held by one tick array.
	TICK_ARRAY_SIZE = 88
	// NUM_REWARDS is the number of reward emissions a pool can carry.
	NUM_REWARDS = 3
)

var (
	q128     = new(big.Int).Lsh(big.NewInt(1), 128)
	maskU128 = new(big.Int).Sub(q128, big.NewInt(1))
)

// Tick is one slot of a tick array.
type Tick struct {
	Initialized          bool
	LiquidityNet         *big.Int // i128
	LiquidityGross       *big.Int // u128
	FeeGrowthOutsideA    *big.Int
	FeeGrowthOutsideB    *big.Int
	RewardGrowthsOutside [NUM_REWARDS]*big.Int
}

// NewTick returns an uninitialized tick with all counters at zero.
func NewTick() Tick {
	t := Tick{
		LiquidityNet:      new(big.Int),
		LiquidityGross:    new(big.Int),
		FeeGrowthOutsideA: new(big.Int),
		FeeGrowthOutsideB: new(big.Int),
	}
	for i := range t.RewardGrowthsOutside {
		t.RewardGrowthsOutside[i] = new(big.Int)
	}
	return t
}

// Clone returns a deep copy of t.
func (t Tick) Clone() Tick {
	c := Tick{
		Initialized:       t.Initialized,
		LiquidityNet:      cloneInt(t.LiquidityNet),
		LiquidityGross:    cloneInt(t.LiquidityGross),
		FeeGrowthOutsideA: cloneInt(t.FeeGrowthOutsideA),
		FeeGrowthOutsideB: cloneInt(t.FeeGrowthOutsideB),
	}
	for i, g := range t.RewardGrowthsOutside {
		c.RewardGrowthsOutside[i] = cloneInt(g)
	}
	return c
}

// Cross flips the outside checkpoints of t when the price moves across it:
// outside becomes global - outside, modulo 2^128.
func (t *Tick) Cross(feeGrowthGlobalA, feeGrowthGlobalB *big.Int, rewardInfos [NUM_REWARDS]RewardInfo) {
	flip(t.FeeGrowthOutsideA, feeGrowthGlobalA)
	flip(t.FeeGrowthOutsideB, feeGrowthGlobalB)
	for i, info := range rewardInfos {
		if !info.Initialized() {
			continue
		}
		flip(t.RewardGrowthsOutside[i], info.GrowthGlobalX64)
	}
}

func flip(outside, global *big.Int) {
	outside.Sub(global, outside)
	outside.And(outside, maskU128)
}

// IsUsableTick reports whether tick can be initialized for the given spacing.
func IsUsableTick(tick int32, tickSpacing uint16) bool {
	if tick < tickmath.MIN_TICK_INDEX || tick > tickmath.MAX_TICK_INDEX {
		return false
	}
	return tick%int32(tickSpacing) == 0
}

func cloneInt(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v)
}
