package clmm

import (
	"fmt"

	"github.com/ParsaRahabarn/Solana-Dex/protocols/clmm/calculator/tickmath"
)

// TickSequence is the ordered set of tick arrays borrowed by one swap. The
// first array is required; later ones may be absent and are skipped.
type TickSequence struct {
	arrays []*TickArray
}

// NewTickSequence builds a sequence from the arrays a caller loaded. Nil
// entries after the first are treated as absent.
func NewTickSequence(ta0 *TickArray, rest ...*TickArray) (*TickSequence, error) {
	if ta0 == nil {
		return nil, ErrTickArrayMissing
	}
	seq := &TickSequence{arrays: []*TickArray{ta0}}
	for _, ta := range rest {
		if ta != nil {
			seq.arrays = append(seq.arrays, ta)
		}
	}
	return seq, nil
}

// Len returns the number of loaded arrays.
func (s *TickSequence) Len() int {
	return len(s.arrays)
}

// Arrays returns the loaded arrays in order.
func (s *TickSequence) Arrays() []*TickArray {
	return s.arrays
}

// Clone deep-copies every array so the copy can be swapped against freely.
func (s *TickSequence) Clone() *TickSequence {
	c := &TickSequence{arrays: make([]*TickArray, len(s.arrays))}
	for i, ta := range s.arrays {
		c.arrays[i] = ta.Clone()
	}
	return c
}

// GetTick returns a tick from the array at arrayIndex.
func (s *TickSequence) GetTick(arrayIndex int, tick int32, tickSpacing uint16) (*Tick, error) {
	if arrayIndex < 0 || arrayIndex >= len(s.arrays) {
		return nil, fmt.Errorf("%w: array %d of %d", ErrTickArraySequenceInvalidIndex, arrayIndex, len(s.arrays))
	}
	return s.arrays[arrayIndex].GetTick(tick, tickSpacing)
}

// ArrayAt returns the array at arrayIndex.
func (s *TickSequence) ArrayAt(arrayIndex int) (*TickArray, error) {
	if arrayIndex < 0 || arrayIndex >= len(s.arrays) {
		return nil, fmt.Errorf("%w: array %d of %d", ErrTickArraySequenceInvalidIndex, arrayIndex, len(s.arrays))
	}
	return s.arrays[arrayIndex], nil
}

// NextInitializedTickIndex searches for the next initialized tick starting at
// the array arrayIndex. When the loaded arrays run out it returns the domain
// edge if the last array reaches it, otherwise the boundary tick of the last
// array so the swap can stop there. The returned array index is the array the
// tick was found in.
func (s *TickSequence) NextInitializedTickIndex(tick int32, tickSpacing uint16, aToB bool, arrayIndex int) (int, int32, error) {
	searchIndex := tick
	for {
		ta, err := s.ArrayAt(arrayIndex)
		if err != nil {
			return 0, 0, err
		}

		next, ok, err := ta.NextInitializedTick(searchIndex, tickSpacing, aToB)
		if err != nil {
			return 0, 0, err
		}
		if ok {
			return arrayIndex, next, nil
		}

		if aToB && ta.IsMinTickArray() {
			return arrayIndex, tickmath.MIN_TICK_INDEX, nil
		}
		if !aToB && ta.IsMaxTickArray(tickSpacing) {
			return arrayIndex, tickmath.MAX_TICK_INDEX, nil
		}

		span := ta.span(tickSpacing)
		if arrayIndex+1 == len(s.arrays) {
			if aToB {
				return arrayIndex, ta.StartTickIndex, nil
			}
			return arrayIndex, ta.StartTickIndex + span - 1, nil
		}

		if aToB {
			searchIndex = ta.StartTickIndex - 1
		} else {
			searchIndex = ta.StartTickIndex + span - 1
		}
		arrayIndex++
	}
}
