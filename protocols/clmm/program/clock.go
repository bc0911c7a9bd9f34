package program

import (
	"fmt"
	"time"

	"github.com/ParsaRahabarn/Solana-Dex/protocols/clmm"
)

// Clock supplies the time an instruction executes at.
type Clock interface {
	// UnixTimestamp is the current time in seconds.
	UnixTimestamp() int64
	// Epoch selects the transfer fee schedule of token mints.
	Epoch() uint64
}

// SystemClock reads the wall clock. An epoch lasts EpochSeconds.
type SystemClock struct {
	EpochSeconds uint64
}

func (c SystemClock) UnixTimestamp() int64 {
	return time.Now().Unix()
}

func (c SystemClock) Epoch() uint64 {
	if c.EpochSeconds == 0 {
		return 0
	}
	return uint64(time.Now().Unix()) / c.EpochSeconds
}

// FixedClock always returns the same instant.
type FixedClock struct {
	Timestamp int64
	EpochID   uint64
}

func (c FixedClock) UnixTimestamp() int64 { return c.Timestamp }
func (c FixedClock) Epoch() uint64        { return c.EpochID }

func timestampOf(c Clock) (uint64, error) {
	ts := c.UnixTimestamp()
	if ts < 0 {
		return 0, fmt.Errorf("%w: negative clock %d", clmm.ErrInvalidTimestamp, ts)
	}
	return uint64(ts), nil
}
