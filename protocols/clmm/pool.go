package clmm

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gagliardetto/solana-go"
)

const (
	// MAX_FEE_RATE caps a pool fee rate at 3%.
	MAX_FEE_RATE = uint16(30_000)
	// MAX_PROTOCOL_FEE_RATE caps the protocol share of fees at 25%.
	MAX_PROTOCOL_FEE_RATE = uint16(2_500)
	// PROTOCOL_FEE_RATE_MUL_VALUE is the protocol fee rate denominator.
	PROTOCOL_FEE_RATE_MUL_VALUE = 10_000
)

// RewardInfo tracks one reward emission of a pool.
type RewardInfo struct {
	Mint                  solana.PublicKey
	Vault                 solana.PublicKey
	Authority             solana.PublicKey
	EmissionsPerSecondX64 *big.Int
	GrowthGlobalX64       *big.Int
}

// Initialized reports whether the reward slot has a mint.
func (r RewardInfo) Initialized() bool {
	return !r.Mint.IsZero()
}

func (r RewardInfo) Clone() RewardInfo {
	r.EmissionsPerSecondX64 = cloneInt(r.EmissionsPerSecondX64)
	r.GrowthGlobalX64 = cloneInt(r.GrowthGlobalX64)
	return r
}

// CloneRewardInfos deep-copies a reward info set.
func CloneRewardInfos(infos [NUM_REWARDS]RewardInfo) [NUM_REWARDS]RewardInfo {
	var out [NUM_REWARDS]RewardInfo
	for i, r := range infos {
		out[i] = r.Clone()
	}
	return out
}

// Pool is the state of one trading pair and fee tier.
type Pool struct {
	// Address is the store key of the pool. It is not part of the record.
	Address solana.PublicKey

	PoolsConfig solana.PublicKey
	TokenMintA  solana.PublicKey
	TokenMintB  solana.PublicKey
	TokenVaultA solana.PublicKey
	TokenVaultB solana.PublicKey

	SqrtPrice        *big.Int
	TickCurrentIndex int32
	Liquidity        *big.Int

	TickSpacing     uint16
	FeeRate         uint16
	ProtocolFeeRate uint16

	FeeGrowthGlobalA *big.Int
	FeeGrowthGlobalB *big.Int
	ProtocolFeeOwedA uint64
	ProtocolFeeOwedB uint64

	RewardLastUpdatedTimestamp uint64
	RewardInfos                [NUM_REWARDS]RewardInfo
}

// Validate checks the configuration fields of a pool record.
func (p *Pool) Validate() error {
	if p.TickSpacing == 0 {
		return ErrInvalidTickSpacing
	}
	if p.FeeRate > MAX_FEE_RATE {
		return fmt.Errorf("%w: %d", ErrFeeRateMaxExceeded, p.FeeRate)
	}
	if p.ProtocolFeeRate > MAX_PROTOCOL_FEE_RATE {
		return fmt.Errorf("%w: %d", ErrProtocolFeeRateMaxExceeded, p.ProtocolFeeRate)
	}
	if p.SqrtPrice == nil || p.Liquidity == nil || p.FeeGrowthGlobalA == nil || p.FeeGrowthGlobalB == nil {
		return fmt.Errorf("%w: pool numeric state is unset", ErrInvalidAccountData)
	}
	return nil
}

func (p *Pool) InputTokenMint(aToB bool) solana.PublicKey {
	if aToB {
		return p.TokenMintA
	}
	return p.TokenMintB
}

func (p *Pool) OutputTokenMint(aToB bool) solana.PublicKey {
	if aToB {
		return p.TokenMintB
	}
	return p.TokenMintA
}

func (p *Pool) InputTokenVault(aToB bool) solana.PublicKey {
	if aToB {
		return p.TokenVaultA
	}
	return p.TokenVaultB
}

func (p *Pool) OutputTokenVault(aToB bool) solana.PublicKey {
	if aToB {
		return p.TokenVaultB
	}
	return p.TokenVaultA
}

// UpdateAfterSwap commits a swap result. The fee growth and protocol fee of
// the input token are updated. Nothing is written when the protocol fee owed
// would overflow.
func (p *Pool) UpdateAfterSwap(u PostSwapUpdate, aToB bool, timestamp uint64) error {
	owed := &p.ProtocolFeeOwedB
	feeGrowth := &p.FeeGrowthGlobalB
	if aToB {
		owed = &p.ProtocolFeeOwedA
		feeGrowth = &p.FeeGrowthGlobalA
	}
	nextOwed, overflow := math.SafeAdd(*owed, u.NextProtocolFee)
	if overflow {
		return ErrProtocolFeeOwedOverflow
	}

	p.TickCurrentIndex = u.NextTickIndex
	p.SqrtPrice = cloneInt(u.NextSqrtPrice)
	p.Liquidity = cloneInt(u.NextLiquidity)
	p.RewardInfos = CloneRewardInfos(u.NextRewardInfos)
	p.RewardLastUpdatedTimestamp = timestamp
	*feeGrowth = cloneInt(u.NextFeeGrowthGlobal)
	*owed = nextOwed
	return nil
}

// ResetProtocolFeesOwed zeroes both protocol fee counters.
func (p *Pool) ResetProtocolFeesOwed() {
	p.ProtocolFeeOwedA = 0
	p.ProtocolFeeOwedB = 0
}

// Clone returns a deep copy of p.
func (p *Pool) Clone() *Pool {
	c := *p
	c.SqrtPrice = cloneInt(p.SqrtPrice)
	c.Liquidity = cloneInt(p.Liquidity)
	c.FeeGrowthGlobalA = cloneInt(p.FeeGrowthGlobalA)
	c.FeeGrowthGlobalB = cloneInt(p.FeeGrowthGlobalB)
	c.RewardInfos = CloneRewardInfos(p.RewardInfos)
	return &c
}
