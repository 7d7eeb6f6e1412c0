package state_test

import (
	"math/big"
	"testing"

	"github.com/huku-/recover-go/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func funcs8() []uint64 {
	return []uint64{0, 1, 2, 3, 4, 5, 6, 7}
}

func bitsOf(v uint64) *big.Int {
	return new(big.Int).SetUint64(v)
}

func TestNewIsMSBOnly(t *testing.T) {
	s, err := state.New(funcs8())
	require.NoError(t, err)
	assert.Equal(t, 1, s.PopCount())
	assert.True(t, s.Bits.Cmp(bitsOf(0b10000000)) == 0)
}

func TestSiblingsCountMatchesBinomial(t *testing.T) {
	s, err := state.New(funcs8())
	require.NoError(t, err)

	ones := s.Siblings(1)
	require.Len(t, ones, 1)
	assert.Equal(t, bitsOf(0b10000000), ones[0].Bits)

	twos := s.Siblings(2)
	assert.Len(t, twos, 7)
	want := []uint64{
		0b10000001, 0b10000010, 0b10000100, 0b10001000,
		0b10010000, 0b10100000, 0b11000000,
	}
	var got []uint64
	for _, sib := range twos {
		got = append(got, sib.Bits.Uint64())
	}
	assert.ElementsMatch(t, want, got)
}

func TestSiblingsWidthLenMatchesBinomialGeneral(t *testing.T) {
	s, err := state.New(funcs8())
	require.NoError(t, err)
	assert.Len(t, s.Siblings(3), 21) // C(7,2)
	assert.Len(t, s.Siblings(8), 1)  // C(7,7)
}

func TestToCUListRoundTrip(t *testing.T) {
	cases := []struct {
		bits uint64
		cus  [][]uint64
	}{
		{0b10000000, [][]uint64{{0, 1, 2, 3, 4, 5, 6, 7}}},
		{0b10000001, [][]uint64{{0, 1, 2, 3, 4, 5, 6}, {7}}},
		{0b11000000, [][]uint64{{0}, {1, 2, 3, 4, 5, 6, 7}}},
		{0b10010000, [][]uint64{{0, 1, 2}, {3, 4, 5, 6, 7}}},
	}

	for _, c := range cases {
		s, err := state.FromBits(funcs8(), bitsOf(c.bits))
		require.NoError(t, err)
		assert.Equal(t, c.cus, s.ToCUList())

		back, err := state.FromCUList(funcs8(), c.cus)
		require.NoError(t, err)
		assert.Equal(t, c.bits, back.Bits.Uint64())
		assert.True(t, s.Equal(back))
	}
}

func TestFromCUListRejectsPartitionMismatch(t *testing.T) {
	_, err := state.FromCUList(funcs8(), [][]uint64{{0, 1}})
	assert.ErrorIs(t, err, state.ErrPartitionMismatch)
}

func TestCheckInvariantRejectsUnsetMSB(t *testing.T) {
	_, err := state.FromBits(funcs8(), bitsOf(0b00000001))
	assert.ErrorIs(t, err, state.ErrMSBNotSet)
}

func TestSiblingsFastAddsExactlyOneBit(t *testing.T) {
	base, err := state.New(funcs8())
	require.NoError(t, err)
	sibs := base.SiblingsFast()
	assert.Len(t, sibs, 7)
	for _, sib := range sibs {
		assert.Equal(t, 2, sib.PopCount())
	}
}
