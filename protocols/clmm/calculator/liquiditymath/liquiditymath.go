package liquiditymath

import (
	"errors"
	"math/big"
)

var (
	// MaxUint128 bounds pool and tick liquidity.
	MaxUint128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

	ErrLiquidityOverflow  = errors.New("liquidity overflow")
	ErrLiquidityUnderflow = errors.New("liquidity underflow")
)

// AddDelta adds a signed liquidity delta to an unsigned liquidity value.
// dest may alias x or y and is left unchanged on error.
func AddDelta(dest *big.Int, x *big.Int, y *big.Int) error {
	sum := new(big.Int).Add(x, y)

	if sum.Sign() < 0 {
		return ErrLiquidityUnderflow
	}
	if sum.Cmp(MaxUint128) > 0 {
		return ErrLiquidityOverflow
	}
	dest.Set(sum)
	return nil
}

// CrossDelta is the change applied to pool liquidity when the price crosses a
// tick with the given net liquidity: -net moving down, +net moving up.
func CrossDelta(dest *big.Int, liquidityNet *big.Int, aToB bool) *big.Int {
	if aToB {
		return dest.Neg(liquidityNet)
	}
	return dest.Set(liquidityNet)
}
