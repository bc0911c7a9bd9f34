package clmm

import (
	"encoding/binary"
	"strconv"

	"github.com/gagliardetto/solana-go"
)

// FindPoolAddress derives the address of the pool for a config, token pair and
// tick spacing.
func FindPoolAddress(programID, poolsConfig, mintA, mintB solana.PublicKey, tickSpacing uint16) (solana.PublicKey, error) {
	var spacing [2]byte
	binary.LittleEndian.PutUint16(spacing[:], tickSpacing)
	addr, _, err := solana.FindProgramAddress([][]byte{
		[]byte("pool"),
		poolsConfig[:],
		mintA[:],
		mintB[:],
		spacing[:],
	}, programID)
	return addr, err
}

// FindTickArrayAddress derives the address of the tick array of pool starting
// at startTickIndex.
func FindTickArrayAddress(programID, pool solana.PublicKey, startTickIndex int32) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress([][]byte{
		[]byte("tick_array"),
		pool[:],
		[]byte(strconv.FormatInt(int64(startTickIndex), 10)),
	}, programID)
	return addr, err
}

// SwapTickArrayAddresses returns the addresses of the three tick arrays a swap
// from the pool's current tick would traverse. Arrays past the tick domain
// repeat the last valid one.
func SwapTickArrayAddresses(programID solana.PublicKey, pool *Pool, aToB bool) ([3]solana.PublicKey, error) {
	var keys [3]solana.PublicKey
	span := int32(TICK_ARRAY_SIZE) * int32(pool.TickSpacing)
	tick := pool.TickCurrentIndex
	if !aToB {
		// The search for b to a starts one spacing above the current tick.
		tick += int32(pool.TickSpacing)
	}
	start := StartTickIndex(tick, pool.TickSpacing)
	for i := range keys {
		if !IsValidStartTickIndex(start, pool.TickSpacing) {
			keys[i] = keys[i-1]
			continue
		}
		addr, err := FindTickArrayAddress(programID, pool.Address, start)
		if err != nil {
			return keys, err
		}
		keys[i] = addr
		if aToB {
			start -= span
		} else {
			start += span
		}
	}
	return keys, nil
}
