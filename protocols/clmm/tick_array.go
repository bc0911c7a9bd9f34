package clmm

import (
	"fmt"

	"github.com/ParsaRahabarn/Solana-Dex/bitset"
	"github.com/ParsaRahabarn/Solana-Dex/protocols/clmm/calculator/tickmath"
	"github.com/gagliardetto/solana-go"
)

// TickArray is a fixed window of TICK_ARRAY_SIZE ticks starting at
// StartTickIndex. Ticks are reached through GetTick and UpdateTick, which keep
// the occupancy bitmap in step with the Initialized flags.
type TickArray struct {
	Address        solana.PublicKey
	Pool           solana.PublicKey
	StartTickIndex int32

	ticks    [TICK_ARRAY_SIZE]Tick
	occupied bitset.BitSet
}

// NewTickArray returns an empty tick array. The start index must be aligned to
// TICK_ARRAY_SIZE * tickSpacing and the array must overlap the tick domain.
func NewTickArray(pool solana.PublicKey, startTickIndex int32, tickSpacing uint16) (*TickArray, error) {
	if tickSpacing == 0 {
		return nil, ErrInvalidTickSpacing
	}
	if !IsValidStartTickIndex(startTickIndex, tickSpacing) {
		return nil, fmt.Errorf("%w: %d for spacing %d", ErrInvalidStartTick, startTickIndex, tickSpacing)
	}
	ta := &TickArray{
		Pool:           pool,
		StartTickIndex: startTickIndex,
		occupied:       bitset.New(TICK_ARRAY_SIZE),
	}
	for i := range ta.ticks {
		ta.ticks[i] = NewTick()
	}
	return ta, nil
}

// StartTickIndex returns the start of the tick array holding tick.
func StartTickIndex(tick int32, tickSpacing uint16) int32 {
	span := int32(TICK_ARRAY_SIZE) * int32(tickSpacing)
	start := tick / span
	if tick < 0 && tick%span != 0 {
		start--
	}
	return start * span
}

// IsValidStartTickIndex reports whether start is an aligned array start whose
// window overlaps [MIN_TICK_INDEX, MAX_TICK_INDEX].
func IsValidStartTickIndex(start int32, tickSpacing uint16) bool {
	span := int32(TICK_ARRAY_SIZE) * int32(tickSpacing)
	if start%span != 0 {
		return false
	}
	return start > tickmath.MIN_TICK_INDEX-span && start <= tickmath.MAX_TICK_INDEX
}

func (ta *TickArray) span(tickSpacing uint16) int32 {
	return int32(TICK_ARRAY_SIZE) * int32(tickSpacing)
}

func (ta *TickArray) IsMinTickArray() bool {
	return ta.StartTickIndex <= tickmath.MIN_TICK_INDEX
}

func (ta *TickArray) IsMaxTickArray(tickSpacing uint16) bool {
	return ta.StartTickIndex+ta.span(tickSpacing) > tickmath.MAX_TICK_INDEX
}

// InSearchRange reports whether a search may start from tick in this array.
// b-to-a searches begin one slot to the right, so their range is shifted left
// by one spacing.
func (ta *TickArray) InSearchRange(tick int32, tickSpacing uint16, shifted bool) bool {
	lower := ta.StartTickIndex
	upper := ta.StartTickIndex + ta.span(tickSpacing)
	if shifted {
		lower -= int32(tickSpacing)
		upper -= int32(tickSpacing)
	}
	return tick >= lower && tick < upper
}

// TickOffset is the floor slot offset of tick relative to the array start.
func (ta *TickArray) TickOffset(tick int32, tickSpacing uint16) int {
	d := tick - ta.StartTickIndex
	s := int32(tickSpacing)
	off := d / s
	if d < 0 && d%s != 0 {
		off--
	}
	return int(off)
}

func (ta *TickArray) checkTick(tick int32, tickSpacing uint16) (int, error) {
	if !ta.InSearchRange(tick, tickSpacing, false) || !IsUsableTick(tick, tickSpacing) {
		return 0, fmt.Errorf("%w: %d in array %d", ErrTickNotFound, tick, ta.StartTickIndex)
	}
	return ta.TickOffset(tick, tickSpacing), nil
}

// GetTick returns the slot for tick. The returned tick may be mutated in
// place, except for its Initialized flag which must go through UpdateTick.
func (ta *TickArray) GetTick(tick int32, tickSpacing uint16) (*Tick, error) {
	off, err := ta.checkTick(tick, tickSpacing)
	if err != nil {
		return nil, err
	}
	return &ta.ticks[off], nil
}

// UpdateTick replaces the slot for tick.
func (ta *TickArray) UpdateTick(tick int32, tickSpacing uint16, t Tick) error {
	off, err := ta.checkTick(tick, tickSpacing)
	if err != nil {
		return err
	}
	ta.ticks[off] = t.Clone()
	ta.bitmap().Put(off, t.Initialized)
	return nil
}

// InitializedTicks returns the tick indices of all initialized slots in
// ascending order.
func (ta *TickArray) InitializedTicks(tickSpacing uint16) []int32 {
	var out []int32
	bm := ta.bitmap()
	for off, ok := bm.NextSet(0); ok; off, ok = bm.NextSet(off + 1) {
		out = append(out, ta.StartTickIndex+int32(off)*int32(tickSpacing))
	}
	return out
}

// NextInitializedTick searches from tick in the direction of travel. a-to-b
// searches include the slot holding tick; b-to-a searches start at the next
// slot. ok is false when the rest of the array holds no initialized tick.
func (ta *TickArray) NextInitializedTick(tick int32, tickSpacing uint16, aToB bool) (next int32, ok bool, err error) {
	if !ta.InSearchRange(tick, tickSpacing, !aToB) {
		return 0, false, fmt.Errorf("%w: tick %d, array %d", ErrInvalidTickArraySequence, tick, ta.StartTickIndex)
	}

	off := ta.TickOffset(tick, tickSpacing)
	var found int
	if aToB {
		found, ok = ta.bitmap().PrevSet(off)
	} else {
		found, ok = ta.bitmap().NextSet(off + 1)
	}
	if !ok || found >= TICK_ARRAY_SIZE {
		return 0, false, nil
	}
	return ta.StartTickIndex + int32(found)*int32(tickSpacing), true, nil
}

// Clone returns a deep copy of ta.
func (ta *TickArray) Clone() *TickArray {
	c := &TickArray{
		Address:        ta.Address,
		Pool:           ta.Pool,
		StartTickIndex: ta.StartTickIndex,
		occupied:       bitset.New(TICK_ARRAY_SIZE),
	}
	for i := range ta.ticks {
		c.ticks[i] = ta.ticks[i].Clone()
	}
	c.occupied.SetFrom(ta.bitmap())
	return c
}

func (ta *TickArray) bitmap() bitset.BitSet {
	if ta.occupied == nil {
		ta.reindex()
	}
	return ta.occupied
}

func (ta *TickArray) reindex() {
	ta.occupied = bitset.New(TICK_ARRAY_SIZE)
	for i := range ta.ticks {
		if ta.ticks[i].Initialized {
			ta.occupied.Set(i)
		}
	}
}
