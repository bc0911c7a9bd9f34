// Package fixture seeds a store from a YAML description of mints, token
// accounts, pool configs, pools and their tick arrays.
package fixture

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"os"

	"github.com/ParsaRahabarn/Solana-Dex/protocols/clmm"
	"github.com/ParsaRahabarn/Solana-Dex/protocols/clmm/calculator/tickmath"
	"github.com/ParsaRahabarn/Solana-Dex/protocols/token"
	"github.com/ParsaRahabarn/Solana-Dex/store"
	"github.com/gagliardetto/solana-go"
	"gopkg.in/yaml.v3"
)

// File is the root of a fixture document. Keys are base58 strings.
type File struct {
	Mints    []Mint        `yaml:"mints"`
	Configs  []PoolsConfig `yaml:"configs"`
	Accounts []Account     `yaml:"accounts"`
	Pools    []Pool        `yaml:"pools"`
}

type Mint struct {
	Address      string       `yaml:"address"`
	Decimals     uint8        `yaml:"decimals"`
	TransferFee  *TransferFee `yaml:"transfer_fee"`
	TransferHook string       `yaml:"transfer_hook"`
}

type TransferFee struct {
	BasisPoints uint16 `yaml:"basis_points"`
	MaximumFee  uint64 `yaml:"maximum_fee"`
}

type PoolsConfig struct {
	Address                      string `yaml:"address"`
	FeeAuthority                 string `yaml:"fee_authority"`
	CollectProtocolFeesAuthority string `yaml:"collect_protocol_fees_authority"`
	DefaultProtocolFeeRate       uint16 `yaml:"default_protocol_fee_rate"`
}

type Account struct {
	Address      string `yaml:"address"`
	Mint         string `yaml:"mint"`
	Owner        string `yaml:"owner"`
	Amount       uint64 `yaml:"amount"`
	MemoRequired bool   `yaml:"memo_required"`
}

// Pool describes a pool at Tick with Liquidity in range. Its address and
// vaults are derived; the vaults hold VaultA and VaultB.
type Pool struct {
	Config           string      `yaml:"config"`
	MintA            string      `yaml:"mint_a"`
	MintB            string      `yaml:"mint_b"`
	TickSpacing      uint16      `yaml:"tick_spacing"`
	FeeRate          uint16      `yaml:"fee_rate"`
	ProtocolFeeRate  uint16      `yaml:"protocol_fee_rate"`
	Tick             int32       `yaml:"tick"`
	Liquidity        string      `yaml:"liquidity"`
	VaultA           uint64      `yaml:"vault_a"`
	VaultB           uint64      `yaml:"vault_b"`
	ProtocolFeeOwedA uint64      `yaml:"protocol_fee_owed_a"`
	ProtocolFeeOwedB uint64      `yaml:"protocol_fee_owed_b"`
	TickArrays       []TickArray `yaml:"tick_arrays"`
}

type TickArray struct {
	Start int32  `yaml:"start"`
	Ticks []Tick `yaml:"ticks"`
}

type Tick struct {
	Index        int32  `yaml:"index"`
	LiquidityNet string `yaml:"liquidity_net"`
}

// Decode parses a fixture document, rejecting unknown fields.
func Decode(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	f := &File{}
	if err := dec.Decode(f); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	return f, nil
}

func LoadFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return Decode(fh)
}

// SeededPool reports the derived addresses of a seeded pool.
type SeededPool struct {
	Address    solana.PublicKey   `json:"address"`
	VaultA     solana.PublicKey   `json:"vaultA"`
	VaultB     solana.PublicKey   `json:"vaultB"`
	TickArrays []solana.PublicKey `json:"tickArrays"`
}

type Summary struct {
	Mints    int          `json:"mints"`
	Configs  int          `json:"configs"`
	Accounts int          `json:"accounts"`
	Pools    []SeededPool `json:"pools"`
}

// Apply writes every record of f in one transaction. Existing records with the
// same addresses are overwritten.
func Apply(ctx context.Context, s store.Store, programID solana.PublicKey, f *File) (*Summary, error) {
	summary := &Summary{Mints: len(f.Mints), Configs: len(f.Configs), Accounts: len(f.Accounts)}
	err := s.Update(ctx, func(tx store.Tx) error {
		w := writer{ctx: ctx, tx: tx}
		for i := range f.Mints {
			if err := w.mint(&f.Mints[i]); err != nil {
				return fmt.Errorf("mints[%d]: %w", i, err)
			}
		}
		for i := range f.Configs {
			if err := w.poolsConfig(&f.Configs[i]); err != nil {
				return fmt.Errorf("configs[%d]: %w", i, err)
			}
		}
		for i := range f.Accounts {
			if err := w.account(&f.Accounts[i]); err != nil {
				return fmt.Errorf("accounts[%d]: %w", i, err)
			}
		}
		for i := range f.Pools {
			seeded, err := w.pool(programID, &f.Pools[i])
			if err != nil {
				return fmt.Errorf("pools[%d]: %w", i, err)
			}
			summary.Pools = append(summary.Pools, seeded)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

type writer struct {
	ctx context.Context
	tx  store.Tx
}

func (w writer) put(key solana.PublicKey, data []byte, err error) error {
	if err != nil {
		return err
	}
	return w.tx.Put(w.ctx, key, data)
}

func parseKey(field, s string) (solana.PublicKey, error) {
	key, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%s %q: %w", field, s, err)
	}
	return key, nil
}

// parseOptionalKey returns the zero key for an empty string.
func parseOptionalKey(field, s string) (solana.PublicKey, error) {
	if s == "" {
		return solana.PublicKey{}, nil
	}
	return parseKey(field, s)
}

func (w writer) mint(m *Mint) error {
	address, err := parseKey("address", m.Address)
	if err != nil {
		return err
	}
	hook, err := parseOptionalKey("transfer_hook", m.TransferHook)
	if err != nil {
		return err
	}
	mint := &token.Mint{Address: address, Decimals: m.Decimals, TransferHookProgram: hook}
	if m.TransferFee != nil {
		fee := token.TransferFee{MaximumFee: m.TransferFee.MaximumFee, TransferFeeBasisPoints: m.TransferFee.BasisPoints}
		mint.TransferFeeConfig = &token.TransferFeeConfig{OlderTransferFee: fee, NewerTransferFee: fee}
		if err := mint.TransferFeeConfig.Validate(); err != nil {
			return err
		}
	}
	data, err := token.EncodeMint(mint)
	return w.put(address, data, err)
}

func (w writer) poolsConfig(c *PoolsConfig) error {
	address, err := parseKey("address", c.Address)
	if err != nil {
		return err
	}
	cfg := &clmm.PoolsConfig{Address: address}
	if cfg.FeeAuthority, err = parseOptionalKey("fee_authority", c.FeeAuthority); err != nil {
		return err
	}
	if cfg.CollectProtocolFeesAuthority, err = parseKey("collect_protocol_fees_authority", c.CollectProtocolFeesAuthority); err != nil {
		return err
	}
	if err := cfg.UpdateDefaultProtocolFeeRate(c.DefaultProtocolFeeRate); err != nil {
		return err
	}
	data, err := clmm.EncodePoolsConfig(cfg)
	return w.put(address, data, err)
}

func (w writer) account(a *Account) error {
	acc := &token.Account{Amount: a.Amount, MemoRequired: a.MemoRequired}
	var err error
	if acc.Address, err = parseKey("address", a.Address); err != nil {
		return err
	}
	if acc.Mint, err = parseKey("mint", a.Mint); err != nil {
		return err
	}
	if acc.Owner, err = parseKey("owner", a.Owner); err != nil {
		return err
	}
	data, err := token.EncodeAccount(acc)
	return w.put(acc.Address, data, err)
}

func (w writer) pool(programID solana.PublicKey, p *Pool) (SeededPool, error) {
	var (
		seeded SeededPool
		pool   = &clmm.Pool{
			TickCurrentIndex: p.Tick,
			TickSpacing:      p.TickSpacing,
			FeeRate:          p.FeeRate,
			ProtocolFeeRate:  p.ProtocolFeeRate,
			ProtocolFeeOwedA: p.ProtocolFeeOwedA,
			ProtocolFeeOwedB: p.ProtocolFeeOwedB,
			SqrtPrice:        new(big.Int),
			FeeGrowthGlobalA: new(big.Int),
			FeeGrowthGlobalB: new(big.Int),
		}
		err error
	)
	if pool.PoolsConfig, err = parseKey("config", p.Config); err != nil {
		return seeded, err
	}
	if pool.TokenMintA, err = parseKey("mint_a", p.MintA); err != nil {
		return seeded, err
	}
	if pool.TokenMintB, err = parseKey("mint_b", p.MintB); err != nil {
		return seeded, err
	}
	liquidity, ok := new(big.Int).SetString(p.Liquidity, 10)
	if !ok {
		return seeded, fmt.Errorf("liquidity %q is not an integer", p.Liquidity)
	}
	pool.Liquidity = liquidity
	if err := tickmath.GetSqrtPriceAtTick(pool.SqrtPrice, p.Tick); err != nil {
		return seeded, err
	}
	if err := pool.Validate(); err != nil {
		return seeded, err
	}

	if pool.Address, err = clmm.FindPoolAddress(programID, pool.PoolsConfig, pool.TokenMintA, pool.TokenMintB, pool.TickSpacing); err != nil {
		return seeded, err
	}
	if pool.TokenVaultA, _, err = solana.FindAssociatedTokenAddress(pool.Address, pool.TokenMintA); err != nil {
		return seeded, err
	}
	if pool.TokenVaultB, _, err = solana.FindAssociatedTokenAddress(pool.Address, pool.TokenMintB); err != nil {
		return seeded, err
	}
	for _, v := range []Account{
		{Address: pool.TokenVaultA.String(), Mint: p.MintA, Owner: pool.Address.String(), Amount: p.VaultA},
		{Address: pool.TokenVaultB.String(), Mint: p.MintB, Owner: pool.Address.String(), Amount: p.VaultB},
	} {
		if err := w.account(&v); err != nil {
			return seeded, err
		}
	}
	data, err := clmm.EncodePool(pool)
	if err := w.put(pool.Address, data, err); err != nil {
		return seeded, err
	}

	seeded = SeededPool{Address: pool.Address, VaultA: pool.TokenVaultA, VaultB: pool.TokenVaultB}
	for i, arr := range p.TickArrays {
		ta, err := tickArray(programID, pool, arr)
		if err != nil {
			return seeded, fmt.Errorf("tick_arrays[%d]: %w", i, err)
		}
		data, err := clmm.EncodeTickArray(ta)
		if err := w.put(ta.Address, data, err); err != nil {
			return seeded, err
		}
		seeded.TickArrays = append(seeded.TickArrays, ta.Address)
	}
	return seeded, nil
}

func tickArray(programID solana.PublicKey, pool *clmm.Pool, arr TickArray) (*clmm.TickArray, error) {
	ta, err := clmm.NewTickArray(pool.Address, arr.Start, pool.TickSpacing)
	if err != nil {
		return nil, err
	}
	if ta.Address, err = clmm.FindTickArrayAddress(programID, pool.Address, arr.Start); err != nil {
		return nil, err
	}
	for _, t := range arr.Ticks {
		net, ok := new(big.Int).SetString(t.LiquidityNet, 10)
		if !ok {
			return nil, fmt.Errorf("tick %d: liquidity_net %q is not an integer", t.Index, t.LiquidityNet)
		}
		tick := clmm.NewTick()
		tick.Initialized = true
		tick.LiquidityNet.Set(net)
		tick.LiquidityGross.Abs(net)
		if err := ta.UpdateTick(t.Index, pool.TickSpacing, tick); err != nil {
			return nil, err
		}
	}
	return ta, nil
}
