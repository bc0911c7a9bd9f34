package program

import (
	"context"
	"crypto/sha256"
	"io"
	"log/slog"
	"math/big"
	"testing"

	"github.com/ParsaRahabarn/Solana-Dex/protocols/clmm"
	"github.com/ParsaRahabarn/Solana-Dex/protocols/clmm/calculator/tickmath"
	"github.com/ParsaRahabarn/Solana-Dex/protocols/token"
	"github.com/ParsaRahabarn/Solana-Dex/store"
	"github.com/gagliardetto/solana-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

const (
	testTimestamp = 1_700_000_000
	testEpoch     = 500
	vaultBalance  = 1_000_000_000
)

func testKey(name string) solana.PublicKey {
	sum := sha256.Sum256([]byte(name))
	return solana.PublicKeyFromBytes(sum[:])
}

func onePercent() *token.TransferFeeConfig {
	fee := token.TransferFee{MaximumFee: 1_000_000_000, TransferFeeBasisPoints: 100}
	return &token.TransferFeeConfig{OlderTransferFee: fee, NewerTransferFee: fee}
}

type fixture struct {
	t        *testing.T
	store    *store.Memory
	tokens   *token.Program
	program  *Program
	registry *prometheus.Registry

	programID solana.PublicKey
	config    solana.PublicKey
	collector solana.PublicKey
	trader    solana.PublicKey
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens, err := token.NewProgram(&token.ProgramConfig{Logger: logger})
	require.NoError(t, err)

	f := &fixture{
		t:         t,
		store:     store.NewMemory(),
		tokens:    tokens,
		registry:  prometheus.NewRegistry(),
		programID: testKey("program"),
		config:    testKey("config"),
		collector: testKey("collector"),
		trader:    testKey("trader"),
	}
	f.program, err = New(&Config{
		ProgramID:    f.programID,
		Store:        f.store,
		TokenProgram: tokens,
		Clock:        FixedClock{Timestamp: testTimestamp, EpochID: testEpoch},
		Logger:       logger,
		Registry:     f.registry,
	})
	require.NoError(t, err)

	cfg := &clmm.PoolsConfig{Address: f.config, CollectProtocolFeesAuthority: f.collector}
	f.put(func() ([]byte, error) { return clmm.EncodePoolsConfig(cfg) }, f.config)
	return f
}

func (f *fixture) put(encode func() ([]byte, error), key solana.PublicKey) {
	f.t.Helper()
	data, err := encode()
	require.NoError(f.t, err)
	require.NoError(f.t, f.store.Update(context.Background(), func(tx store.Tx) error {
		return tx.Put(context.Background(), key, data)
	}))
}

func (f *fixture) mint(m *token.Mint) *token.Mint {
	f.t.Helper()
	f.put(func() ([]byte, error) { return token.EncodeMint(m) }, m.Address)
	return m
}

func (f *fixture) account(name string, mint, owner solana.PublicKey, amount uint64) solana.PublicKey {
	f.t.Helper()
	a := &token.Account{Address: testKey(name), Mint: mint, Owner: owner, Amount: amount}
	f.put(func() ([]byte, error) { return token.EncodeAccount(a) }, a.Address)
	return a.Address
}

// testPool is a seeded pool at tick 2816 with 1e9 liquidity, spacing 64 and
// a 0.3% fee, plus the tick array starting at 0.
type testPool struct {
	*clmm.Pool
	tickArray solana.PublicKey
}

func (f *fixture) pool(name string, mintA, mintB *token.Mint, protocolFeeRate uint16) testPool {
	f.t.Helper()
	addr, err := clmm.FindPoolAddress(f.programID, f.config, mintA.Address, mintB.Address, 64)
	require.NoError(f.t, err)

	sqrtPrice := new(big.Int)
	require.NoError(f.t, tickmath.GetSqrtPriceAtTick(sqrtPrice, 2816))
	pool := &clmm.Pool{
		Address:                    addr,
		PoolsConfig:                f.config,
		TokenMintA:                 mintA.Address,
		TokenMintB:                 mintB.Address,
		SqrtPrice:                  sqrtPrice,
		TickCurrentIndex:           2816,
		Liquidity:                  big.NewInt(1_000_000_000),
		TickSpacing:                64,
		FeeRate:                    3000,
		ProtocolFeeRate:            protocolFeeRate,
		FeeGrowthGlobalA:           new(big.Int),
		FeeGrowthGlobalB:           new(big.Int),
		RewardLastUpdatedTimestamp: testTimestamp,
	}
	pool.TokenVaultA = f.account(name+"/vault-a", mintA.Address, addr, vaultBalance)
	pool.TokenVaultB = f.account(name+"/vault-b", mintB.Address, addr, vaultBalance)
	f.put(func() ([]byte, error) { return clmm.EncodePool(pool) }, addr)

	ta, err := clmm.NewTickArray(addr, 0, 64)
	require.NoError(f.t, err)
	ta.Address, err = clmm.FindTickArrayAddress(f.programID, addr, 0)
	require.NoError(f.t, err)
	f.put(func() ([]byte, error) { return clmm.EncodeTickArray(ta) }, ta.Address)

	return testPool{Pool: pool, tickArray: ta.Address}
}

func (f *fixture) loadPool(key solana.PublicKey) *clmm.Pool {
	f.t.Helper()
	data, err := f.store.Get(context.Background(), key)
	require.NoError(f.t, err)
	pool, err := clmm.DecodePool(key, data)
	require.NoError(f.t, err)
	return pool
}

func (f *fixture) balance(key solana.PublicKey) uint64 {
	return f.tokenAccount(key).Amount
}

func (f *fixture) tokenAccount(key solana.PublicKey) *token.Account {
	f.t.Helper()
	a, err := token.LoadAccount(context.Background(), f.store, key)
	require.NoError(f.t, err)
	return a
}
