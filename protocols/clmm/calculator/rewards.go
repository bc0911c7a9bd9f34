package calculator

import (
	"fmt"
	"math/big"

	"github.com/ParsaRahabarn/Solana-Dex/protocols/clmm"
)

var q128 = new(big.Int).Lsh(big.NewInt(1), 128)

// NextRewardInfos advances the reward growth of every initialized reward to
// timestamp: growth += elapsed * emissions_per_second / liquidity. A reward
// whose product does not fit 128 bits accrues nothing for the interval.
func NextRewardInfos(pool *clmm.Pool, timestamp uint64) ([clmm.NUM_REWARDS]clmm.RewardInfo, error) {
	if timestamp < pool.RewardLastUpdatedTimestamp {
		return [clmm.NUM_REWARDS]clmm.RewardInfo{}, fmt.Errorf("%w: %d before %d", clmm.ErrInvalidTimestamp, timestamp, pool.RewardLastUpdatedTimestamp)
	}

	next := clmm.CloneRewardInfos(pool.RewardInfos)
	if pool.Liquidity.Sign() == 0 || timestamp == pool.RewardLastUpdatedTimestamp {
		return next, nil
	}

	elapsed := new(big.Int).SetUint64(timestamp - pool.RewardLastUpdatedTimestamp)
	delta := new(big.Int)
	for i := range next {
		if !next[i].Initialized() {
			continue
		}
		delta.Mul(elapsed, next[i].EmissionsPerSecondX64)
		if delta.Cmp(maxUint128) > 0 {
			continue
		}
		delta.Div(delta, pool.Liquidity)
		next[i].GrowthGlobalX64.Add(next[i].GrowthGlobalX64, delta)
		next[i].GrowthGlobalX64.Mod(next[i].GrowthGlobalX64, q128)
	}
	return next, nil
}
