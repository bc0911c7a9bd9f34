package clmm

import (
	"fmt"

	"github.com/ParsaRahabarn/Solana-Dex/protocols/layout"
	"github.com/gagliardetto/solana-go"
)

// Record names of the account types owned by the pool program.
const (
	PoolAccountName        = "Pool"
	TickArrayAccountName   = "TickArray"
	PoolsConfigAccountName = "PoolsConfig"
	FeeTierAccountName     = "FeeTier"
)

func wrapDecode(name string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrInvalidAccountData, name, err)
}

// wrapInvalid keeps the validation error matchable next to
// ErrInvalidAccountData.
func wrapInvalid(name string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrInvalidAccountData, name, err)
}

// EncodePool writes p in its record layout.
func EncodePool(p *Pool) ([]byte, error) {
	e := layout.NewEncoder(PoolAccountName)
	e.Key(p.PoolsConfig)
	e.Key(p.TokenMintA)
	e.Key(p.TokenMintB)
	e.Key(p.TokenVaultA)
	e.Key(p.TokenVaultB)
	e.U128(p.SqrtPrice)
	e.I32(p.TickCurrentIndex)
	e.U128(p.Liquidity)
	e.U16(p.TickSpacing)
	e.U16(p.FeeRate)
	e.U16(p.ProtocolFeeRate)
	e.U128(p.FeeGrowthGlobalA)
	e.U128(p.FeeGrowthGlobalB)
	e.U64(p.ProtocolFeeOwedA)
	e.U64(p.ProtocolFeeOwedB)
	e.U64(p.RewardLastUpdatedTimestamp)
	for _, r := range p.RewardInfos {
		e.Key(r.Mint)
		e.Key(r.Vault)
		e.Key(r.Authority)
		e.U128(r.EmissionsPerSecondX64)
		e.U128(r.GrowthGlobalX64)
	}
	return e.Bytes()
}

// DecodePool reads a pool record stored at address.
func DecodePool(address solana.PublicKey, data []byte) (*Pool, error) {
	d, err := layout.NewDecoder(PoolAccountName, data)
	if err != nil {
		return nil, wrapDecode(PoolAccountName, err)
	}
	p := &Pool{Address: address}
	p.PoolsConfig = d.Key()
	p.TokenMintA = d.Key()
	p.TokenMintB = d.Key()
	p.TokenVaultA = d.Key()
	p.TokenVaultB = d.Key()
	p.SqrtPrice = d.U128()
	p.TickCurrentIndex = d.I32()
	p.Liquidity = d.U128()
	p.TickSpacing = d.U16()
	p.FeeRate = d.U16()
	p.ProtocolFeeRate = d.U16()
	p.FeeGrowthGlobalA = d.U128()
	p.FeeGrowthGlobalB = d.U128()
	p.ProtocolFeeOwedA = d.U64()
	p.ProtocolFeeOwedB = d.U64()
	p.RewardLastUpdatedTimestamp = d.U64()
	for i := range p.RewardInfos {
		p.RewardInfos[i] = RewardInfo{
			Mint:                  d.Key(),
			Vault:                 d.Key(),
			Authority:             d.Key(),
			EmissionsPerSecondX64: d.U128(),
			GrowthGlobalX64:       d.U128(),
		}
	}
	if err := d.Finish(); err != nil {
		return nil, wrapDecode(PoolAccountName, err)
	}
	if err := p.Validate(); err != nil {
		return nil, wrapInvalid(PoolAccountName, err)
	}
	return p, nil
}

// EncodeTickArray writes ta in its record layout.
func EncodeTickArray(ta *TickArray) ([]byte, error) {
	e := layout.NewEncoder(TickArrayAccountName)
	e.Key(ta.Pool)
	e.I32(ta.StartTickIndex)
	for i := range ta.ticks {
		t := &ta.ticks[i]
		e.Bool(t.Initialized)
		e.I128(t.LiquidityNet)
		e.U128(t.LiquidityGross)
		e.U128(t.FeeGrowthOutsideA)
		e.U128(t.FeeGrowthOutsideB)
		for _, g := range t.RewardGrowthsOutside {
			e.U128(g)
		}
	}
	return e.Bytes()
}

// DecodeTickArray reads a tick array record stored at address. The record
// does not carry the pool's tick spacing, so the start index is only checked
// against the finest spacing; callers holding the pool check the rest.
func DecodeTickArray(address solana.PublicKey, data []byte) (*TickArray, error) {
	d, err := layout.NewDecoder(TickArrayAccountName, data)
	if err != nil {
		return nil, wrapDecode(TickArrayAccountName, err)
	}
	ta := &TickArray{Address: address}
	ta.Pool = d.Key()
	ta.StartTickIndex = d.I32()
	for i := range ta.ticks {
		t := Tick{
			Initialized:       d.Bool(),
			LiquidityNet:      d.I128(),
			LiquidityGross:    d.U128(),
			FeeGrowthOutsideA: d.U128(),
			FeeGrowthOutsideB: d.U128(),
		}
		for j := range t.RewardGrowthsOutside {
			t.RewardGrowthsOutside[j] = d.U128()
		}
		ta.ticks[i] = t
	}
	if err := d.Finish(); err != nil {
		return nil, wrapDecode(TickArrayAccountName, err)
	}
	if !IsValidStartTickIndex(ta.StartTickIndex, 1) {
		return nil, wrapInvalid(TickArrayAccountName, fmt.Errorf("%w: %d", ErrInvalidStartTick, ta.StartTickIndex))
	}
	ta.reindex()
	return ta, nil
}

func EncodePoolsConfig(c *PoolsConfig) ([]byte, error) {
	e := layout.NewEncoder(PoolsConfigAccountName)
	e.Key(c.FeeAuthority)
	e.Key(c.CollectProtocolFeesAuthority)
	e.Key(c.RewardEmissionsSuperAuthority)
	e.U16(c.DefaultProtocolFeeRate)
	return e.Bytes()
}

func DecodePoolsConfig(address solana.PublicKey, data []byte) (*PoolsConfig, error) {
	d, err := layout.NewDecoder(PoolsConfigAccountName, data)
	if err != nil {
		return nil, wrapDecode(PoolsConfigAccountName, err)
	}
	c := &PoolsConfig{
		Address:                       address,
		FeeAuthority:                  d.Key(),
		CollectProtocolFeesAuthority:  d.Key(),
		RewardEmissionsSuperAuthority: d.Key(),
		DefaultProtocolFeeRate:        d.U16(),
	}
	if err := d.Finish(); err != nil {
		return nil, wrapDecode(PoolsConfigAccountName, err)
	}
	return c, nil
}

func EncodeFeeTier(f *FeeTier) ([]byte, error) {
	e := layout.NewEncoder(FeeTierAccountName)
	e.Key(f.PoolsConfig)
	e.U16(f.TickSpacing)
	e.U16(f.DefaultFeeRate)
	return e.Bytes()
}

func DecodeFeeTier(address solana.PublicKey, data []byte) (*FeeTier, error) {
	d, err := layout.NewDecoder(FeeTierAccountName, data)
	if err != nil {
		return nil, wrapDecode(FeeTierAccountName, err)
	}
	f := &FeeTier{
		Address:        address,
		PoolsConfig:    d.Key(),
		TickSpacing:    d.U16(),
		DefaultFeeRate: d.U16(),
	}
	if err := d.Finish(); err != nil {
		return nil, wrapDecode(FeeTierAccountName, err)
	}
	return f, nil
}
