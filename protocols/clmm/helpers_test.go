package clmm

import (
	"crypto/sha256"
	"math/big"

	"github.com/gagliardetto/solana-go"
)

func testKey(name string) solana.PublicKey {
	sum := sha256.Sum256([]byte(name))
	return solana.PublicKeyFromBytes(sum[:])
}

func fromString(s string) *big.Int {
	n, _ := new(big.Int).SetString(s, 10)
	return n
}

func initializedTick(net int64) Tick {
	t := NewTick()
	t.Initialized = true
	t.LiquidityNet.SetInt64(net)
	t.LiquidityGross.Abs(t.LiquidityNet)
	return t
}

func mustTickArray(start int32, spacing uint16, ticks map[int32]int64) *TickArray {
	ta, err := NewTickArray(testKey("pool"), start, spacing)
	if err != nil {
		panic(err)
	}
	for idx, net := range ticks {
		if err := ta.UpdateTick(idx, spacing, initializedTick(net)); err != nil {
			panic(err)
		}
	}
	return ta
}
