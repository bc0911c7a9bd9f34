package bitset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBitSet_SetAndIsSet(t *testing.T) {
	bs := New(88)
	assert.Equal(t, 128, bs.Cap())

	for _, i := range []int{0, 63, 64, 87} {
		bs.Set(i)
	}
	for _, i := range []int{0, 63, 64, 87} {
		assert.True(t, bs.IsSet(i), "bit %d", i)
	}
	assert.False(t, bs.IsSet(1))
	assert.Equal(t, 4, bs.Count())

	bs.Unset(63)
	assert.False(t, bs.IsSet(63))
	bs.Put(5, true)
	assert.True(t, bs.IsSet(5))
	bs.Put(5, false)
	assert.False(t, bs.IsSet(5))

	bs.Clear()
	assert.Zero(t, bs.Count())
}

func TestBitSet_SetFrom(t *testing.T) {
	a, b := New(88), New(88)
	a.Set(10)
	b.SetFrom(a)
	assert.True(t, b.IsSet(10))
	assert.Panics(t, func() { New(200).SetFrom(a) })
}

func TestBitSet_Search(t *testing.T) {
	bs := New(88)
	bs.Set(3)
	bs.Set(64)
	bs.Set(80)

	tests := []struct {
		name string
		got  func() (int, bool)
		want int
		ok   bool
	}{
		{"next from zero", func() (int, bool) { return bs.NextSet(0) }, 3, true},
		{"next inclusive", func() (int, bool) { return bs.NextSet(3) }, 3, true},
		{"next across words", func() (int, bool) { return bs.NextSet(4) }, 64, true},
		{"next exhausted", func() (int, bool) { return bs.NextSet(81) }, 0, false},
		{"next past the end", func() (int, bool) { return bs.NextSet(500) }, 0, false},
		{"prev inclusive", func() (int, bool) { return bs.PrevSet(80) }, 80, true},
		{"prev across words", func() (int, bool) { return bs.PrevSet(63) }, 3, true},
		{"prev clamps to cap", func() (int, bool) { return bs.PrevSet(1000) }, 80, true},
		{"prev exhausted", func() (int, bool) { return bs.PrevSet(2) }, 0, false},
		{"prev negative", func() (int, bool) { return bs.PrevSet(-1) }, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.got()
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
