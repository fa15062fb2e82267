package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRangeHalfOpen(t *testing.T) {
	start := Pos(0)
	r := NewRange(start, 5)
	assert.True(t, r.Contains(start))
	assert.True(t, r.Contains(start.Offset(4)))
	assert.False(t, r.Contains(start.Offset(5)))
}

func TestRangeContainsRange(t *testing.T) {
	start := Pos(16)
	r := NewRange(start.Offset(1), 20)
	assert.True(t, r.ContainsRange(r))
	assert.True(t, r.ContainsRange(r.Subrange(5, 7)))
	assert.False(t, r.ContainsRange(NewRange(start, 5)))
	assert.False(t, r.ContainsRange(NewRange(start.Offset(6), 20)))
}

func TestOffsetFromPanicsOnReversedOperands(t *testing.T) {
	assert.Panics(t, func() {
		Pos(3).OffsetFrom(Pos(8))
	})
}

func TestFragmentedRangeAt(t *testing.T) {
	f := FragmentedRangeAt(Pos(7))
	assert.Equal(t, Pos(7), f.Start)
	assert.Equal(t, Pos(7), f.End)
}
