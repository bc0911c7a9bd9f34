package bitset

import (
	"fmt"
	"math/bits"
)

// BitSet is a fixed-size set of small non-negative integers.
type BitSet []uint64

func New(size int) BitSet {
	return make(BitSet, (size+63)/64)
}

// Cap is the number of addressable bits.
func (b BitSet) Cap() int {
	return len(b) * 64
}

func (b BitSet) IsSet(i int) bool {
	return b[i/64]&(1<<(uint(i)%64)) != 0
}

func (b BitSet) Set(i int) {
	b[i/64] |= 1 << (uint(i) % 64)
}

func (b BitSet) Unset(i int) {
	b[i/64] &^= 1 << (uint(i) % 64)
}

// Put sets or clears bit i.
func (b BitSet) Put(i int, on bool) {
	if on {
		b.Set(i)
	} else {
		b.Unset(i)
	}
}

func (b BitSet) Clear() {
	for i := range b {
		b[i] = 0
	}
}

func (b BitSet) SetFrom(o BitSet) {
	if len(b) != len(o) {
		panic(fmt.Sprintf("bitsets must be same size: got %d vs %d", len(b), len(o)))
	}
	copy(b, o)
}

// Count returns the number of set bits.
func (b BitSet) Count() int {
	n := 0
	for _, w := range b {
		n += bits.OnesCount64(w)
	}
	return n
}

// NextSet returns the lowest set bit >= from.
func (b BitSet) NextSet(from int) (int, bool) {
	if from < 0 {
		from = 0
	}
	if from >= b.Cap() {
		return 0, false
	}
	word := from / 64
	w := b[word] &^ (1<<(uint(from)%64) - 1)
	for {
		if w != 0 {
			return word*64 + bits.TrailingZeros64(w), true
		}
		word++
		if word == len(b) {
			return 0, false
		}
		w = b[word]
	}
}

// PrevSet returns the highest set bit <= from.
func (b BitSet) PrevSet(from int) (int, bool) {
	if from < 0 || len(b) == 0 {
		return 0, false
	}
	if from >= b.Cap() {
		from = b.Cap() - 1
	}
	word := from / 64
	shift := 63 - uint(from)%64
	w := b[word] << shift >> shift
	for {
		if w != 0 {
			return word*64 + 63 - bits.LeadingZeros64(w), true
		}
		word--
		if word < 0 {
			return 0, false
		}
		w = b[word]
	}
}
