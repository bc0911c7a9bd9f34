package tickmath

import (
	"errors"
	"math/big"
	"sync"

	"github.com/holiman/uint256"
)

var (
	// MIN_TICK_INDEX is the lowest tick a position or a swap may reach.
	MIN_TICK_INDEX = int32(-443636)
	// MAX_TICK_INDEX is the highest tick a position or a swap may reach.
	MAX_TICK_INDEX = int32(443636)

	// MIN_SQRT_PRICE is the Q64.64 sqrt price at MIN_TICK_INDEX.
	MIN_SQRT_PRICE, _ = new(big.Int).SetString("4295048016", 10)
	// MAX_SQRT_PRICE is the Q64.64 sqrt price at MAX_TICK_INDEX.
	MAX_SQRT_PRICE, _ = new(big.Int).SetString("79226673515401279992447579061", 10)

	ErrTickOutOfBounds      = errors.New("tick out of bounds")
	ErrSqrtPriceOutOfBounds = errors.New("sqrt price out of bounds")

	maxUint256 = new(uint256.Int).SetAllOne()

	// sqrt(1.0001^-(2^i)) in UQ128.128, indexed by bit. Entry 1 is one.
	ratioConstants = [21]*uint256.Int{
		uint256.MustFromHex("0xfffcb933bd6fad37aa2d162d1a594001"),
		uint256.MustFromHex("0x100000000000000000000000000000000"),
		uint256.MustFromHex("0xfff97272373d413259a46990580e213a"),
		uint256.MustFromHex("0xfff2e50f5f656932ef12357cf3c7fdcc"),
		uint256.MustFromHex("0xffe5caca7e10e4e61c3624eaa0941cd0"),
		uint256.MustFromHex("0xffcb9843d60f6159c9db58835c926644"),
		uint256.MustFromHex("0xff973b41fa98c081472e6896dfb254c0"),
		uint256.MustFromHex("0xff2ea16466c96a3843ec78b326b52861"),
		uint256.MustFromHex("0xfe5dee046a99a2a811c461f1969c3053"),
		uint256.MustFromHex("0xfcbe86c7900a88aedcffc83b479aa3a4"),
		uint256.MustFromHex("0xf987a7253ac413176f2b074cf7815e54"),
		uint256.MustFromHex("0xf3392b0822b70005940c7a398e4b70f3"),
		uint256.MustFromHex("0xe7159475a2c29b7443b29c7fa6e889d9"),
		uint256.MustFromHex("0xd097f3bdfd2022b8845ad8f792aa5825"),
		uint256.MustFromHex("0xa9f746462d870fdf8a65dc1f90e061e5"),
		uint256.MustFromHex("0x70d869a156d2a1b890bb3df62baf32f7"),
		uint256.MustFromHex("0x31be135f97d08fd981231505542fcfa6"),
		uint256.MustFromHex("0x9aa508b5b7a84e1c677de54f3e99bc9"),
		uint256.MustFromHex("0x5d6af8dedb81196699c329225ee604"),
		uint256.MustFromHex("0x2216e584f5fa1ea926041bedfe98"),
		uint256.MustFromHex("0x48a170391f7dc42444e8fa2"),
	}
)

type tickMath struct {
	ratio *uint256.Int
	temp  *big.Int
}

var pool = sync.Pool{
	New: func() any {
		return &tickMath{
			ratio: new(uint256.Int),
			temp:  new(big.Int),
		}
	},
}

// GetSqrtPriceAtTick writes floor(sqrt(1.0001^tick) * 2^64) into dest.
func GetSqrtPriceAtTick(dest *big.Int, tick int32) error {
	if tick < MIN_TICK_INDEX || tick > MAX_TICK_INDEX {
		return ErrTickOutOfBounds
	}

	tm := pool.Get().(*tickMath)
	defer pool.Put(tm)

	absTick := int64(tick)
	if absTick < 0 {
		absTick = -absTick
	}

	if absTick&0x1 != 0 {
		tm.ratio.Set(ratioConstants[0])
	} else {
		tm.ratio.Set(ratioConstants[1])
	}
	for i := 2; i < len(ratioConstants); i++ {
		if absTick&(1<<(i-1)) != 0 {
			tm.ratio.Mul(tm.ratio, ratioConstants[i]).Rsh(tm.ratio, 128)
		}
	}

	if tick > 0 {
		tm.ratio.Div(maxUint256, tm.ratio)
	}

	// Q128.128 -> Q64.64, truncating.
	tm.ratio.Rsh(tm.ratio, 64)
	tm.ratio.IntoBig(&dest)
	return nil
}

// GetTickAtSqrtPrice returns the greatest tick whose sqrt price is <= sqrtPrice.
func GetTickAtSqrtPrice(sqrtPrice *big.Int) (int32, error) {
	if sqrtPrice.Cmp(MIN_SQRT_PRICE) < 0 || sqrtPrice.Cmp(MAX_SQRT_PRICE) > 0 {
		return 0, ErrSqrtPriceOutOfBounds
	}

	tm := pool.Get().(*tickMath)
	defer pool.Put(tm)
	candidate := tm.temp

	low, high := MIN_TICK_INDEX, MAX_TICK_INDEX
	var tick int32
	for low <= high {
		mid := (low + high) / 2
		if err := GetSqrtPriceAtTick(candidate, mid); err != nil {
			return 0, err
		}
		if candidate.Cmp(sqrtPrice) <= 0 {
			tick = mid
			low = mid + 1
		} else {
			high = mid - 1
		}
	}
	return tick, nil
}
