package sqrtpricemath

import (
	"errors"
	"math/big"
	"sync"

	"github.com/ParsaRahabarn/Solana-Dex/protocols/clmm/calculator/tickmath"
)

var (
	// Q64 is the Q64.64 fixed-point number representing 1.
	Q64 = new(big.Int).Lsh(big.NewInt(1), 64)
	// Resolution is the number of fractional bits of a sqrt price.
	Resolution = uint(64)

	ErrMultiplicationOverflow = errors.New("multiplication overflow")
	ErrTokenMaxExceeded       = errors.New("token amount exceeds maximum")
	ErrTokenMinSubceeded      = errors.New("token amount below minimum")
	ErrDivideByZero           = errors.New("divide by zero")

	one       = big.NewInt(1)
	maxUint64 = new(big.Int).SetUint64(^uint64(0))
	u128Bits  = 128
	u256Bits  = 256
)

// SqrtPriceMath holds reusable big.Int objects to avoid memory allocations.
type SqrtPriceMath struct {
	product     *big.Int
	numerator   *big.Int
	denominator *big.Int
	diff        *big.Int
	quotient    *big.Int
	rem         *big.Int
	amount      *big.Int
}

var pool = sync.Pool{
	New: func() any {
		return &SqrtPriceMath{
			product:     new(big.Int),
			numerator:   new(big.Int),
			denominator: new(big.Int),
			diff:        new(big.Int),
			quotient:    new(big.Int),
			rem:         new(big.Int),
			amount:      new(big.Int),
		}
	},
}

// divRoundUpIf writes a / b into dest, rounded up when roundUp is set.
func (s *SqrtPriceMath) divRoundUpIf(dest, a, b *big.Int, roundUp bool) {
	s.quotient.QuoRem(a, b, s.rem)
	dest.Set(s.quotient)
	if roundUp && s.rem.Sign() > 0 {
		dest.Add(dest, one)
	}
}

// AmountDelta is a token amount that may not fit in a u64. ExceedsMax marks
// an amount larger than any token balance, in which case Amount is zero.
type AmountDelta struct {
	Amount     uint64
	ExceedsMax bool
}

// Value returns the amount or ErrTokenMaxExceeded.
func (d AmountDelta) Value() (uint64, error) {
	if d.ExceedsMax {
		return 0, ErrTokenMaxExceeded
	}
	return d.Amount, nil
}

// LessOrEqual reports whether the delta fits in a u64 and is at most amount.
func (d AmountDelta) LessOrEqual(amount uint64) bool {
	return !d.ExceedsMax && d.Amount <= amount
}

func toDelta(v *big.Int) AmountDelta {
	if v.Cmp(maxUint64) > 0 {
		return AmountDelta{ExceedsMax: true}
	}
	return AmountDelta{Amount: v.Uint64()}
}

// GetAmountDeltaA returns the amount of token A between two sqrt prices:
// L * (upper - lower) * 2^64 / (upper * lower).
func GetAmountDeltaA(sqrtPrice0, sqrtPrice1, liquidity *big.Int, roundUp bool) (uint64, error) {
	d, err := TryGetAmountDeltaA(sqrtPrice0, sqrtPrice1, liquidity, roundUp)
	if err != nil {
		return 0, err
	}
	return d.Value()
}

// TryGetAmountDeltaA is GetAmountDeltaA reporting an amount above u64 as
// ExceedsMax instead of failing.
func TryGetAmountDeltaA(sqrtPrice0, sqrtPrice1, liquidity *big.Int, roundUp bool) (AmountDelta, error) {
	s := pool.Get().(*SqrtPriceMath)
	defer pool.Put(s)

	lower, upper := sqrtPrice0, sqrtPrice1
	if lower.Cmp(upper) > 0 {
		lower, upper = upper, lower
	}
	if lower.Sign() <= 0 {
		return AmountDelta{}, ErrDivideByZero
	}

	s.diff.Sub(upper, lower)
	s.numerator.Mul(liquidity, s.diff)
	s.numerator.Lsh(s.numerator, Resolution)
	if s.numerator.BitLen() > u256Bits {
		return AmountDelta{}, ErrMultiplicationOverflow
	}
	s.denominator.Mul(upper, lower)
	s.divRoundUpIf(s.amount, s.numerator, s.denominator, roundUp)
	return toDelta(s.amount), nil
}

// GetAmountDeltaB returns the amount of token B between two sqrt prices:
// L * (upper - lower) / 2^64.
func GetAmountDeltaB(sqrtPrice0, sqrtPrice1, liquidity *big.Int, roundUp bool) (uint64, error) {
	d, err := TryGetAmountDeltaB(sqrtPrice0, sqrtPrice1, liquidity, roundUp)
	if err != nil {
		return 0, err
	}
	return d.Value()
}

// TryGetAmountDeltaB is GetAmountDeltaB reporting an amount above u64 as
// ExceedsMax instead of failing.
func TryGetAmountDeltaB(sqrtPrice0, sqrtPrice1, liquidity *big.Int, roundUp bool) (AmountDelta, error) {
	s := pool.Get().(*SqrtPriceMath)
	defer pool.Put(s)

	lower, upper := sqrtPrice0, sqrtPrice1
	if lower.Cmp(upper) > 0 {
		lower, upper = upper, lower
	}

	s.diff.Sub(upper, lower)
	s.product.Mul(liquidity, s.diff)
	if s.product.BitLen() > u256Bits {
		return AmountDelta{}, ErrMultiplicationOverflow
	}
	s.divRoundUpIf(s.amount, s.product, Q64, roundUp)
	return toDelta(s.amount), nil
}

// GetNextSqrtPriceFromARoundUp moves the price by an amount of token A:
// L * P / (L ± amount * P), rounded up.
func GetNextSqrtPriceFromARoundUp(dest, sqrtPrice, liquidity *big.Int, amount uint64, specifiedInput bool) error {
	if amount == 0 {
		dest.Set(sqrtPrice)
		return nil
	}

	s := pool.Get().(*SqrtPriceMath)
	defer pool.Put(s)

	s.amount.SetUint64(amount)
	s.product.Mul(sqrtPrice, s.amount)

	s.numerator.Mul(liquidity, sqrtPrice)
	s.numerator.Lsh(s.numerator, Resolution)
	if s.numerator.BitLen() > u256Bits {
		return ErrMultiplicationOverflow
	}

	s.denominator.Lsh(liquidity, Resolution)
	if specifiedInput {
		s.denominator.Add(s.denominator, s.product)
	} else {
		if s.denominator.Cmp(s.product) <= 0 {
			return ErrDivideByZero
		}
		s.denominator.Sub(s.denominator, s.product)
	}
	if s.denominator.Sign() == 0 {
		return ErrDivideByZero
	}

	s.divRoundUpIf(dest, s.numerator, s.denominator, true)
	if dest.Cmp(tickmath.MIN_SQRT_PRICE) < 0 {
		return ErrTokenMinSubceeded
	}
	if dest.Cmp(tickmath.MAX_SQRT_PRICE) > 0 {
		return ErrTokenMaxExceeded
	}
	return nil
}

// GetNextSqrtPriceFromBRoundDown moves the price by an amount of token B:
// P ± amount / L. Exact-out rounds the delta up so the price rounds down.
func GetNextSqrtPriceFromBRoundDown(dest, sqrtPrice, liquidity *big.Int, amount uint64, specifiedInput bool) error {
	if liquidity.Sign() == 0 {
		return ErrDivideByZero
	}

	s := pool.Get().(*SqrtPriceMath)
	defer pool.Put(s)

	s.amount.SetUint64(amount)
	s.amount.Lsh(s.amount, Resolution)
	s.divRoundUpIf(s.diff, s.amount, liquidity, !specifiedInput)

	if specifiedInput {
		dest.Add(sqrtPrice, s.diff)
		if dest.BitLen() > u128Bits {
			return tickmath.ErrSqrtPriceOutOfBounds
		}
		return nil
	}
	if sqrtPrice.Cmp(s.diff) < 0 {
		return tickmath.ErrSqrtPriceOutOfBounds
	}
	dest.Sub(sqrtPrice, s.diff)
	return nil
}

// GetNextSqrtPrice moves the price by the specified amount. The amount is of
// token A when it is the input of an a-to-b swap or the output of a b-to-a swap.
func GetNextSqrtPrice(dest, sqrtPrice, liquidity *big.Int, amount uint64, specifiedInput, aToB bool) error {
	if specifiedInput == aToB {
		return GetNextSqrtPriceFromARoundUp(dest, sqrtPrice, liquidity, amount, specifiedInput)
	}
	return GetNextSqrtPriceFromBRoundDown(dest, sqrtPrice, liquidity, amount, specifiedInput)
}
