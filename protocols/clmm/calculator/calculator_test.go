package calculator

import (
	"crypto/sha256"
	"math/big"
	"testing"

	"github.com/ParsaRahabarn/Solana-Dex/protocols/clmm"
	"github.com/ParsaRahabarn/Solana-Dex/protocols/clmm/calculator/tickmath"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =================================================================
// Test Helpers
// =================================================================

func testKey(name string) solana.PublicKey {
	sum := sha256.Sum256([]byte(name))
	return solana.PublicKeyFromBytes(sum[:])
}

func fromString(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("failed to set string for big.Int")
	}
	return n
}

func sqrtPriceAt(t *testing.T, tick int32) *big.Int {
	t.Helper()
	p := new(big.Int)
	require.NoError(t, tickmath.GetSqrtPriceAtTick(p, tick))
	return p
}

// newPool returns a pool with 1e9 liquidity at tick, spacing 64 and a 0.3%
// fee.
func newPool(t *testing.T, tick int32) *clmm.Pool {
	t.Helper()
	return &clmm.Pool{
		Address:          testKey("pool"),
		TokenMintA:       testKey("mint-a"),
		TokenMintB:       testKey("mint-b"),
		TokenVaultA:      testKey("vault-a"),
		TokenVaultB:      testKey("vault-b"),
		SqrtPrice:        sqrtPriceAt(t, tick),
		TickCurrentIndex: tick,
		Liquidity:        big.NewInt(1_000_000_000),
		TickSpacing:      64,
		FeeRate:          3000,
		FeeGrowthGlobalA: new(big.Int),
		FeeGrowthGlobalB: new(big.Int),
	}
}

func tickArray(t *testing.T, start int32, ticks map[int32]int64) *clmm.TickArray {
	t.Helper()
	ta, err := clmm.NewTickArray(testKey("pool"), start, 64)
	require.NoError(t, err)
	for idx, net := range ticks {
		tick := clmm.NewTick()
		tick.Initialized = true
		tick.LiquidityNet.SetInt64(net)
		tick.LiquidityGross.Abs(tick.LiquidityNet)
		require.NoError(t, ta.UpdateTick(idx, 64, tick))
	}
	return ta
}

func sequence(t *testing.T, arrays ...*clmm.TickArray) *clmm.TickSequence {
	t.Helper()
	seq, err := clmm.NewTickSequence(arrays[0], arrays[1:]...)
	require.NoError(t, err)
	return seq
}

// =================================================================
// Swap
// =================================================================

func TestSwap(t *testing.T) {
	testCases := []struct {
		name           string
		startTick      int32
		protocolFee    uint16
		liquidity      string
		arrays         func(t *testing.T) []*clmm.TickArray
		amount         uint64
		limit          *big.Int
		exactIn        bool
		aToB           bool
		wantA, wantB   uint64
		wantFee        uint64
		wantProtoFee   uint64
		wantSqrtPrice  string
		wantTick       int32
		wantLiquidity  string
		wantFeeGrowth  string
		wantTicksCross int
	}{
		{
			name:      "exact in a to b within one range",
			startTick: 2816,
			arrays:    func(t *testing.T) []*clmm.TickArray { return []*clmm.TickArray{tickArray(t, 0, nil)} },
			amount:    1_000_000, exactIn: true, aToB: true,
			wantA: 1_000_000, wantB: 1_319_739, wantFee: 3000,
			wantSqrtPrice: "21211293833652353953", wantTick: 2793,
			wantLiquidity: "1000000000", wantFeeGrowth: "55340232221128",
		},
		{
			name:        "protocol fee share",
			startTick:   2816,
			protocolFee: 300,
			arrays:      func(t *testing.T) []*clmm.TickArray { return []*clmm.TickArray{tickArray(t, 0, nil)} },
			amount:      1_000_000, exactIn: true, aToB: true,
			wantA: 1_000_000, wantB: 1_319_739, wantFee: 3000, wantProtoFee: 90,
			wantSqrtPrice: "21211293833652353953", wantTick: 2793,
			wantLiquidity: "1000000000", wantFeeGrowth: "53680025254494",
		},
		{
			name:      "exact out a to b",
			startTick: 2816,
			arrays:    func(t *testing.T) []*clmm.TickArray { return []*clmm.TickArray{tickArray(t, 0, nil)} },
			amount:    1_000_000, aToB: true,
			wantA: 757_516, wantB: 1_000_000, wantFee: 2273,
			wantSqrtPrice: "21217191985617088143", wantTick: 2798,
			wantLiquidity: "1000000000", wantFeeGrowth: "41929449279541",
		},
		{
			name:      "exact out b to a",
			startTick: 2816,
			arrays:    func(t *testing.T) []*clmm.TickArray { return []*clmm.TickArray{tickArray(t, 0, nil)} },
			amount:    1_000_000,
			wantA:     1_000_000, wantB: 1_330_751, wantFee: 3993,
			wantSqrtPrice: "21260113080227678101", wantTick: 2839,
			wantLiquidity: "1000000000", wantFeeGrowth: "73657849086322",
		},
		{
			name:      "stops at the price limit",
			startTick: 2816,
			arrays:    func(t *testing.T) []*clmm.TickArray { return []*clmm.TickArray{tickArray(t, 0, nil)} },
			amount:    1_000_000, limit: fromString("21218657860989411706"), exactIn: true, aToB: true,
			wantA: 697_271, wantB: 920_534, wantFee: 2092,
			wantSqrtPrice: "21218657860989411706", wantTick: 2800,
			wantLiquidity: "1000000000", wantFeeGrowth: "38590588602200",
		},
		{
			name:      "crosses a tick moving down",
			startTick: 2816,
			arrays: func(t *testing.T) []*clmm.TickArray {
				return []*clmm.TickArray{tickArray(t, 0, map[int32]int64{2752: 500_000_000})}
			},
			amount: 10_000_000, exactIn: true, aToB: true,
			wantA: 10_000_000, wantB: 12_986_483, wantFee: 30_001,
			wantSqrtPrice: "20824364092721690485", wantTick: 2424,
			wantLiquidity: "500000000", wantFeeGrowth: "952294716061181", wantTicksCross: 1,
		},
		{
			name:      "crosses a tick moving up",
			startTick: 2816,
			arrays: func(t *testing.T) []*clmm.TickArray {
				return []*clmm.TickArray{tickArray(t, 0, map[int32]int64{2880: -400_000_000})}
			},
			amount: 10_000_000, exactIn: true,
			wantA: 7_441_797, wantB: 10_000_000, wantFee: 30_001,
			wantSqrtPrice: "21496789101711181554", wantTick: 3060,
			wantLiquidity: "600000000", wantFeeGrowth: "785837446454717", wantTicksCross: 1,
		},
		{
			name:      "walks into the next array",
			startTick: 2816,
			arrays: func(t *testing.T) []*clmm.TickArray {
				return []*clmm.TickArray{
					tickArray(t, 0, map[int32]int64{0: 100_000_000}),
					tickArray(t, -5632, map[int32]int64{-128: 200_000_000}),
				}
			},
			amount: 200_000_000, exactIn: true, aToB: true,
			wantA: 200_000_000, wantB: 213_430_411, wantFee: 600_002,
			wantSqrtPrice: "16840077985020461256", wantTick: -1823,
			wantLiquidity: "700000000", wantFeeGrowth: "12585542078568835", wantTicksCross: 2,
		},
		{
			name:      "skips an empty array",
			startTick: 2816,
			arrays: func(t *testing.T) []*clmm.TickArray {
				return []*clmm.TickArray{
					tickArray(t, 0, nil),
					tickArray(t, -5632, map[int32]int64{-128: 200_000_000}),
				}
			},
			amount: 200_000_000, exactIn: true, aToB: true,
			wantA: 200_000_000, wantB: 214_101_492, wantFee: 600_001,
			wantSqrtPrice: "17025437161370647309", wantTick: -1604,
			wantLiquidity: "800000000", wantFeeGrowth: "11923551094132158", wantTicksCross: 1,
		},
		{
			name:      "deep liquidity exact in a to b",
			startTick: 2816,
			liquidity: "300000000000000000000",
			arrays:    func(t *testing.T) []*clmm.TickArray { return []*clmm.TickArray{tickArray(t, 0, nil)} },
			amount:    1000, exactIn: true, aToB: true,
			wantA: 1000, wantB: 1317, wantFee: 5,
			wantSqrtPrice: "21235638729690797614", wantTick: 2815,
			wantLiquidity: "300000000000000000000", wantFeeGrowth: "0",
		},
		{
			name:      "deep liquidity exact out a to b",
			startTick: 2816,
			liquidity: "300000000000000000000",
			arrays:    func(t *testing.T) []*clmm.TickArray { return []*clmm.TickArray{tickArray(t, 0, nil)} },
			amount:    1000, aToB: true,
			wantA: 764, wantB: 1000, wantFee: 3,
			wantSqrtPrice: "21235638729690797633", wantTick: 2815,
			wantLiquidity: "300000000000000000000", wantFeeGrowth: "0",
		},
		{
			name:      "deep liquidity exact in b to a",
			startTick: 2816,
			liquidity: "300000000000000000000",
			arrays:    func(t *testing.T) []*clmm.TickArray { return []*clmm.TickArray{tickArray(t, 0, nil)} },
			amount:    1000, exactIn: true,
			wantA: 748, wantB: 1000, wantFee: 7,
			wantSqrtPrice: "21235638729690797756", wantTick: 2816,
			wantLiquidity: "300000000000000000000", wantFeeGrowth: "0",
		},
		{
			name:      "one unit is taken entirely as fee",
			startTick: 2816,
			arrays:    func(t *testing.T) []*clmm.TickArray { return []*clmm.TickArray{tickArray(t, 0, nil)} },
			amount:    1, exactIn: true, aToB: true,
			wantA: 1, wantB: 0, wantFee: 1,
			wantSqrtPrice: "21235638729690797695", wantTick: 2816,
			wantLiquidity: "1000000000", wantFeeGrowth: "18446744073",
		},
		{
			name:      "explicit limit allows a partial exact out",
			startTick: 443000,
			arrays:    func(t *testing.T) []*clmm.TickArray { return []*clmm.TickArray{tickArray(t, 439296, nil)} },
			amount:    1000, limit: tickmath.MAX_SQRT_PRICE,
			wantA: 0, wantB: 134_826_514_367_302_676, wantFee: 404_479_543_101_909,
			wantSqrtPrice: tickmath.MAX_SQRT_PRICE.String(), wantTick: tickmath.MAX_TICK_INDEX,
			wantLiquidity: "1000000000", wantFeeGrowth: "7461330614651886994182258",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			pool := newPool(t, tc.startTick)
			pool.ProtocolFeeRate = tc.protocolFee
			if tc.liquidity != "" {
				pool.Liquidity = fromString(tc.liquidity)
			}
			before := pool.Clone()

			update, err := Swap(pool, sequence(t, tc.arrays(t)...), tc.amount, tc.limit, tc.exactIn, tc.aToB, 0)
			require.NoError(t, err)

			assert.Equal(t, tc.wantA, update.AmountA, "amount a")
			assert.Equal(t, tc.wantB, update.AmountB, "amount b")
			assert.Equal(t, tc.wantFee, update.FeeAmount, "fee")
			assert.Equal(t, tc.wantProtoFee, update.NextProtocolFee, "protocol fee")
			assert.Equal(t, tc.wantSqrtPrice, update.NextSqrtPrice.String(), "sqrt price")
			assert.Equal(t, tc.wantTick, update.NextTickIndex, "tick")
			assert.Equal(t, tc.wantLiquidity, update.NextLiquidity.String(), "liquidity")
			assert.Equal(t, tc.wantFeeGrowth, update.NextFeeGrowthGlobal.String(), "fee growth")
			assert.Equal(t, tc.wantTicksCross, update.TicksCrossed)

			// The pool itself is never written.
			assert.Equal(t, before.SqrtPrice.String(), pool.SqrtPrice.String())
			assert.Equal(t, before.TickCurrentIndex, pool.TickCurrentIndex)
			assert.Equal(t, before.Liquidity.String(), pool.Liquidity.String())
		})
	}
}

func TestSwap_PriceMonotonicity(t *testing.T) {
	pool := newPool(t, 2816)
	for _, aToB := range []bool{true, false} {
		for _, exactIn := range []bool{true, false} {
			seq := sequence(t, tickArray(t, 0, map[int32]int64{2752: 100_000_000, 2880: -100_000_000}))
			update, err := Swap(pool, seq, 5_000_000, nil, exactIn, aToB, 0)
			require.NoError(t, err)
			cmp := update.NextSqrtPrice.Cmp(pool.SqrtPrice)
			if aToB {
				assert.Equal(t, -1, cmp)
				assert.LessOrEqual(t, update.NextTickIndex, pool.TickCurrentIndex)
			} else {
				assert.Equal(t, 1, cmp)
				assert.GreaterOrEqual(t, update.NextTickIndex, pool.TickCurrentIndex)
			}
			assert.GreaterOrEqual(t, update.NextFeeGrowthGlobal.Cmp(pool.FeeGrowthGlobalA), 0)
		}
	}
}

func TestSwap_CrossUpdatesTick(t *testing.T) {
	pool := newPool(t, 2816)
	pool.FeeGrowthGlobalB = big.NewInt(777)
	ta := tickArray(t, 0, map[int32]int64{2752: 500_000_000})

	_, err := Swap(pool, sequence(t, ta), 10_000_000, nil, true, true, 0)
	require.NoError(t, err)

	tick, err := ta.GetTick(2752, 64)
	require.NoError(t, err)
	// Fee growth of A at the moment of crossing.
	assert.Equal(t, "154546821849538", tick.FeeGrowthOutsideA.String())
	assert.Equal(t, "777", tick.FeeGrowthOutsideB.String())
}

func TestSwap_Errors(t *testing.T) {
	single := func(t *testing.T) *clmm.TickSequence { return sequence(t, tickArray(t, 0, nil)) }

	testCases := []struct {
		name    string
		mutate  func(p *clmm.Pool)
		amount  uint64
		limit   *big.Int
		exactIn bool
		aToB    bool
		wantErr error
	}{
		{name: "zero amount", amount: 0, exactIn: true, aToB: true, wantErr: ErrZeroTradableAmount},
		{name: "limit below the domain", amount: 1, limit: new(big.Int).Sub(tickmath.MIN_SQRT_PRICE, big.NewInt(1)), exactIn: true, aToB: true, wantErr: ErrSqrtPriceLimitOutOfBounds},
		{name: "limit above the domain", amount: 1, limit: new(big.Int).Add(tickmath.MAX_SQRT_PRICE, big.NewInt(1)), exactIn: true, wantErr: ErrSqrtPriceLimitOutOfBounds},
		{name: "limit above price moving down", amount: 1, limit: tickmath.MAX_SQRT_PRICE, exactIn: true, aToB: true, wantErr: ErrInvalidSqrtPriceLimitDirection},
		{name: "limit below price moving up", amount: 1, limit: tickmath.MIN_SQRT_PRICE, exactIn: true, wantErr: ErrInvalidSqrtPriceLimitDirection},
		{name: "no liquidity", mutate: func(p *clmm.Pool) { p.Liquidity = new(big.Int) }, amount: 1000, exactIn: true, aToB: true, wantErr: ErrZeroLiquidityInRange},
		{name: "runs past the loaded arrays", amount: 200_000_000, exactIn: true, aToB: true, wantErr: clmm.ErrTickArraySequenceInvalidIndex},
		{name: "backwards clock", mutate: func(p *clmm.Pool) { p.RewardLastUpdatedTimestamp = 10 }, amount: 1000, exactIn: true, aToB: true, wantErr: clmm.ErrInvalidTimestamp},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			pool := newPool(t, 2816)
			if tc.mutate != nil {
				tc.mutate(pool)
			}
			_, err := Swap(pool, single(t), tc.amount, tc.limit, tc.exactIn, tc.aToB, 0)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}

	t.Run("partial exact out without a limit", func(t *testing.T) {
		pool := newPool(t, 443000)
		_, err := Swap(pool, sequence(t, tickArray(t, 439296, nil)), 1000, nil, false, false, 0)
		assert.ErrorIs(t, err, ErrPartialFill)
	})
}

// =================================================================
// Rewards
// =================================================================

func TestNextRewardInfos(t *testing.T) {
	pool := newPool(t, 0)
	pool.RewardLastUpdatedTimestamp = 100
	pool.RewardInfos[0] = clmm.RewardInfo{
		Mint:                  testKey("reward"),
		EmissionsPerSecondX64: new(big.Int).Lsh(big.NewInt(1_000_000_000), 64),
		GrowthGlobalX64:       big.NewInt(5),
	}
	pool.RewardInfos[1] = clmm.RewardInfo{
		Mint:                  testKey("reward-overflow"),
		EmissionsPerSecondX64: new(big.Int).Lsh(big.NewInt(1), 127),
		GrowthGlobalX64:       big.NewInt(9),
	}

	t.Run("advances initialized rewards", func(t *testing.T) {
		next, err := NextRewardInfos(pool, 110)
		require.NoError(t, err)
		// 10s * 1e9 * 2^64 / 1e9 liquidity
		want := new(big.Int).Lsh(big.NewInt(10), 64)
		want.Add(want, big.NewInt(5))
		assert.Equal(t, want.String(), next[0].GrowthGlobalX64.String())
		assert.Equal(t, "9", next[1].GrowthGlobalX64.String())
		assert.Equal(t, "0", next[2].GrowthGlobalX64.String())
		assert.Equal(t, "5", pool.RewardInfos[0].GrowthGlobalX64.String())
	})

	t.Run("same timestamp", func(t *testing.T) {
		next, err := NextRewardInfos(pool, 100)
		require.NoError(t, err)
		assert.Equal(t, "5", next[0].GrowthGlobalX64.String())
	})

	t.Run("no liquidity", func(t *testing.T) {
		p := pool.Clone()
		p.Liquidity = new(big.Int)
		next, err := NextRewardInfos(p, 200)
		require.NoError(t, err)
		assert.Equal(t, "5", next[0].GrowthGlobalX64.String())
	})

	t.Run("time goes backwards", func(t *testing.T) {
		_, err := NextRewardInfos(pool, 99)
		assert.ErrorIs(t, err, clmm.ErrInvalidTimestamp)
	})
}
