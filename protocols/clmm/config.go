package clmm

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// PoolsConfig holds the authorities shared by a family of pools.
type PoolsConfig struct {
	Address solana.PublicKey

	FeeAuthority                  solana.PublicKey
	CollectProtocolFeesAuthority  solana.PublicKey
	RewardEmissionsSuperAuthority solana.PublicKey
	DefaultProtocolFeeRate        uint16
}

func (c *PoolsConfig) UpdateDefaultProtocolFeeRate(rate uint16) error {
	if rate > MAX_PROTOCOL_FEE_RATE {
		return fmt.Errorf("%w: %d", ErrProtocolFeeRateMaxExceeded, rate)
	}
	c.DefaultProtocolFeeRate = rate
	return nil
}

// FeeTier is the default fee rate for pools of one tick spacing.
type FeeTier struct {
	Address solana.PublicKey

	PoolsConfig    solana.PublicKey
	TickSpacing    uint16
	DefaultFeeRate uint16
}

func (f *FeeTier) UpdateDefaultFeeRate(rate uint16) error {
	if rate > MAX_FEE_RATE {
		return fmt.Errorf("%w: %d", ErrFeeRateMaxExceeded, rate)
	}
	f.DefaultFeeRate = rate
	return nil
}
