package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/ParsaRahabarn/Solana-Dex/cmd/clmm/config"
	"github.com/ParsaRahabarn/Solana-Dex/protocols/clmm"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sugawarayuuta/sonnet"
)

type testEnv struct {
	fixture                         string
	config, collector, mintA, mintB solana.PublicKey
	trader, traderA, traderB        solana.PublicKey
	pool                            solana.PublicKey
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	e := &testEnv{}
	for _, k := range []*solana.PublicKey{&e.config, &e.collector, &e.mintA, &e.mintB, &e.trader, &e.traderA, &e.traderB} {
		*k = solana.NewWallet().PublicKey()
	}
	programID := solana.MustPublicKeyFromBase58(config.DefaultProgramID)
	var err error
	e.pool, err = clmm.FindPoolAddress(programID, e.config, e.mintA, e.mintB, 64)
	require.NoError(t, err)

	doc := fmt.Sprintf(`
mints:
  - address: %[1]s
  - address: %[2]s
configs:
  - address: %[3]s
    collect_protocol_fees_authority: %[4]s
accounts:
  - {address: %[5]s, mint: %[1]s, owner: %[7]s, amount: 10000000}
  - {address: %[6]s, mint: %[2]s, owner: %[7]s, amount: 10000000}
pools:
  - config: %[3]s
    mint_a: %[1]s
    mint_b: %[2]s
    tick_spacing: 64
    fee_rate: 3000
    protocol_fee_rate: 300
    tick: 2816
    liquidity: "1000000000"
    vault_a: 1000000000
    vault_b: 1000000000
    tick_arrays:
      - start: 0
`, e.mintA, e.mintB, e.config, e.collector, e.traderA, e.traderB, e.trader)
	e.fixture = filepath.Join(t.TempDir(), "fixture.yaml")
	require.NoError(t, os.WriteFile(e.fixture, []byte(doc), 0o600))
	return e
}

func execute(t *testing.T, args ...string) (map[string]any, error) {
	t.Helper()
	chdir(t, t.TempDir())
	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--clock-timestamp", "1700000000", "--log-level", "error"}, args...))
	if err := root.ExecuteContext(context.Background()); err != nil {
		return nil, err
	}
	out := map[string]any{}
	require.NoError(t, sonnet.Unmarshal(stdout.Bytes(), &out), stdout.String())
	return out, nil
}

func TestSwapCommand(t *testing.T) {
	e := newTestEnv(t)
	out, err := execute(t, "--fixture", e.fixture, "swap",
		"--pool", e.pool.String(),
		"--authority", e.trader.String(),
		"--owner-a", e.traderA.String(),
		"--owner-b", e.traderB.String(),
		"--amount", "1000000",
		"--threshold", "1319739",
	)
	require.NoError(t, err)
	assert.Equal(t, float64(1_319_739), out["amount1"])
	assert.Equal(t, float64(2793), out["tick"])
}

func TestQuoteCommand(t *testing.T) {
	e := newTestEnv(t)
	out, err := execute(t, "--fixture", e.fixture, "quote", "--pool", e.pool.String(), "--amount", "1000000")
	require.NoError(t, err)
	assert.Equal(t, float64(1_319_739), out["estimatedOut"])
}

func TestSwapCommand_Slippage(t *testing.T) {
	e := newTestEnv(t)
	_, err := execute(t, "--fixture", e.fixture, "swap",
		"--pool", e.pool.String(),
		"--authority", e.trader.String(),
		"--owner-a", e.traderA.String(),
		"--owner-b", e.traderB.String(),
		"--amount", "1000000",
		"--threshold", "1319740",
	)
	assert.Error(t, err)
}

func TestSQLiteSession(t *testing.T) {
	e := newTestEnv(t)
	dsn := filepath.Join(t.TempDir(), "clmm.db")
	storeFlags := []string{"--store-driver", "sqlite", "--store-dsn", dsn}

	seeded, err := execute(t, append(storeFlags, "--fixture", e.fixture, "seed")...)
	require.NoError(t, err)
	pools, ok := seeded["pools"].([]any)
	require.True(t, ok)
	require.Len(t, pools, 1)
	assert.Equal(t, e.pool.String(), pools[0].(map[string]any)["address"])

	_, err = execute(t, append(storeFlags, "swap",
		"--pool", e.pool.String(),
		"--authority", e.trader.String(),
		"--owner-a", e.traderA.String(),
		"--owner-b", e.traderB.String(),
		"--amount", "1000000",
	)...)
	require.NoError(t, err)

	account, err := execute(t, append(storeFlags, "inspect", "account", e.traderB.String())...)
	require.NoError(t, err)
	assert.Equal(t, float64(11_319_739), account["Amount"])

	fees, err := execute(t, append(storeFlags, "collect-fees",
		"--pool", e.pool.String(),
		"--authority", e.collector.String(),
		"--destination-a", e.traderA.String(),
		"--destination-b", e.traderB.String(),
	)...)
	require.NoError(t, err)
	assert.Equal(t, float64(90), fees["amountA"])

	pool, err := execute(t, append(storeFlags, "inspect", "pool", e.pool.String())...)
	require.NoError(t, err)
	assert.Equal(t, float64(0), pool["ProtocolFeeOwedA"])
	assert.Equal(t, float64(2793), pool["TickCurrentIndex"])
}

func TestSeedCommand_RequiresFixture(t *testing.T) {
	_, err := execute(t, "seed")
	assert.Error(t, err)
}
