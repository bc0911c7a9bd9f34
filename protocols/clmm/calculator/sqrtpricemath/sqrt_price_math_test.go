package sqrtpricemath

import (
	"math/big"
	"testing"

	"github.com/ParsaRahabarn/Solana-Dex/protocols/clmm/calculator/tickmath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fromString(s string) *big.Int {
	n, _ := new(big.Int).SetString(s, 10)
	return n
}

var (
	priceAt2816 = fromString("21235638729690797695")
	priceAt2752 = fromString("21167796682965327548")
	liquidity   = big.NewInt(1_000_000_000)
	maxUint128  = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
)

func TestGetAmountDeltaA(t *testing.T) {
	t.Run("rounding", func(t *testing.T) {
		up, err := GetAmountDeltaA(priceAt2816, priceAt2752, liquidity, true)
		require.NoError(t, err)
		down, err := GetAmountDeltaA(priceAt2816, priceAt2752, liquidity, false)
		require.NoError(t, err)
		assert.Equal(t, uint64(2784055), up)
		assert.Equal(t, uint64(2784054), down)
	})

	t.Run("order of prices does not matter", func(t *testing.T) {
		a, err := GetAmountDeltaA(priceAt2752, priceAt2816, liquidity, true)
		require.NoError(t, err)
		assert.Equal(t, uint64(2784055), a)
	})

	t.Run("one spacing above unit price", func(t *testing.T) {
		a, err := GetAmountDeltaA(Q64, fromString("18505865242158250041"), big.NewInt(1_000_000_000_000), true)
		require.NoError(t, err)
		assert.Equal(t, uint64(3194725979), a)
	})

	t.Run("zero liquidity", func(t *testing.T) {
		a, err := GetAmountDeltaA(priceAt2816, priceAt2752, new(big.Int), true)
		require.NoError(t, err)
		assert.Zero(t, a)
	})

	t.Run("numerator overflow", func(t *testing.T) {
		_, err := GetAmountDeltaA(tickmath.MIN_SQRT_PRICE, tickmath.MAX_SQRT_PRICE, maxUint128, true)
		assert.ErrorIs(t, err, ErrMultiplicationOverflow)
	})

	t.Run("result above u64", func(t *testing.T) {
		_, err := GetAmountDeltaA(tickmath.MIN_SQRT_PRICE, Q64, new(big.Int).Lsh(big.NewInt(1), 80), false)
		assert.ErrorIs(t, err, ErrTokenMaxExceeded)
	})
}

func TestGetAmountDeltaB(t *testing.T) {
	up, err := GetAmountDeltaB(priceAt2816, priceAt2752, liquidity, true)
	require.NoError(t, err)
	down, err := GetAmountDeltaB(priceAt2752, priceAt2816, liquidity, false)
	require.NoError(t, err)
	assert.Equal(t, uint64(3677725), up)
	assert.Equal(t, uint64(3677724), down)

	_, err = GetAmountDeltaB(tickmath.MIN_SQRT_PRICE, tickmath.MAX_SQRT_PRICE, new(big.Int).Lsh(big.NewInt(1), 100), true)
	assert.ErrorIs(t, err, ErrTokenMaxExceeded)
}

func TestTryGetAmountDelta(t *testing.T) {
	d, err := TryGetAmountDeltaA(priceAt2816, priceAt2752, liquidity, true)
	require.NoError(t, err)
	assert.Equal(t, AmountDelta{Amount: 2784055}, d)
	assert.True(t, d.LessOrEqual(2784055))
	assert.False(t, d.LessOrEqual(2784054))

	deep := new(big.Int).Lsh(big.NewInt(1), 80)
	d, err = TryGetAmountDeltaA(tickmath.MIN_SQRT_PRICE, Q64, deep, false)
	require.NoError(t, err)
	assert.True(t, d.ExceedsMax)
	assert.False(t, d.LessOrEqual(^uint64(0)))
	_, err = d.Value()
	assert.ErrorIs(t, err, ErrTokenMaxExceeded)

	d, err = TryGetAmountDeltaB(tickmath.MIN_SQRT_PRICE, tickmath.MAX_SQRT_PRICE, new(big.Int).Lsh(big.NewInt(1), 100), true)
	require.NoError(t, err)
	assert.True(t, d.ExceedsMax)
}

func TestGetNextSqrtPriceFromA(t *testing.T) {
	dest := new(big.Int)

	require.NoError(t, GetNextSqrtPriceFromARoundUp(dest, priceAt2816, liquidity, 1000, true))
	assert.Equal(t, "21235614283542939490", dest.String())

	require.NoError(t, GetNextSqrtPriceFromARoundUp(dest, priceAt2816, liquidity, 1000, false))
	assert.Equal(t, "21235663175894940106", dest.String())

	require.NoError(t, GetNextSqrtPriceFromARoundUp(dest, priceAt2816, liquidity, 0, true))
	assert.Zero(t, dest.Cmp(priceAt2816))

	t.Run("output drains the whole range", func(t *testing.T) {
		err := GetNextSqrtPriceFromARoundUp(dest, Q64, big.NewInt(1), 1, false)
		assert.ErrorIs(t, err, ErrDivideByZero)
	})

	t.Run("price falls below the domain", func(t *testing.T) {
		err := GetNextSqrtPriceFromARoundUp(dest, tickmath.MIN_SQRT_PRICE, big.NewInt(1), 1_000_000, true)
		assert.ErrorIs(t, err, ErrTokenMinSubceeded)
	})
}

func TestGetNextSqrtPriceFromB(t *testing.T) {
	dest := new(big.Int)

	require.NoError(t, GetNextSqrtPriceFromBRoundDown(dest, priceAt2816, liquidity, 1000, true))
	assert.Equal(t, "21235657176434871404", dest.String())

	require.NoError(t, GetNextSqrtPriceFromBRoundDown(dest, priceAt2816, liquidity, 1000, false))
	assert.Equal(t, "21235620282946723985", dest.String())

	assert.ErrorIs(t, GetNextSqrtPriceFromBRoundDown(dest, priceAt2816, new(big.Int), 1, true), ErrDivideByZero)
	assert.ErrorIs(t, GetNextSqrtPriceFromBRoundDown(dest, Q64, big.NewInt(1), 2, false), tickmath.ErrSqrtPriceOutOfBounds)
}

func TestGetNextSqrtPrice(t *testing.T) {
	viaA, viaB := new(big.Int), new(big.Int)

	// input of a-to-b and output of b-to-a both move along token A.
	require.NoError(t, GetNextSqrtPrice(viaA, priceAt2816, liquidity, 1000, true, true))
	require.NoError(t, GetNextSqrtPriceFromARoundUp(viaB, priceAt2816, liquidity, 1000, true))
	assert.Zero(t, viaA.Cmp(viaB))

	require.NoError(t, GetNextSqrtPrice(viaA, priceAt2816, liquidity, 1000, false, false))
	require.NoError(t, GetNextSqrtPriceFromARoundUp(viaB, priceAt2816, liquidity, 1000, false))
	assert.Zero(t, viaA.Cmp(viaB))

	require.NoError(t, GetNextSqrtPrice(viaA, priceAt2816, liquidity, 1000, true, false))
	require.NoError(t, GetNextSqrtPriceFromBRoundDown(viaB, priceAt2816, liquidity, 1000, true))
	assert.Zero(t, viaA.Cmp(viaB))
}
