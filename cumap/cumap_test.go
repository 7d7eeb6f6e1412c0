package cumap_test

import (
	"encoding/json"
	"testing"

	"github.com/huku-/recover-go/cumap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T) *cumap.CUMap {
	t.Helper()
	m, err := cumap.New(
		[]uint64{0, 1, 2, 3, 4, 5, 6, 7},
		[]int32{5, 5, 5, 9, 9, 2, 2, 2},
	)
	require.NoError(t, err)
	return m
}

func TestNewRejectsMismatchedLength(t *testing.T) {
	_, err := cumap.New([]uint64{1, 2}, []int32{0})
	assert.ErrorIs(t, err, cumap.ErrLengthMismatch)
}

func TestNewRejectsUnsortedFuncs(t *testing.T) {
	_, err := cumap.New([]uint64{2, 1}, []int32{0, 1})
	assert.ErrorIs(t, err, cumap.ErrNotSorted)
}

func TestLenCountsDistinctCUs(t *testing.T) {
	m := build(t)
	assert.Equal(t, 3, m.Len())
}

func TestGetFirstLastCU(t *testing.T) {
	m := build(t)
	first, ok := m.GetFirstCU()
	require.True(t, ok)
	assert.Equal(t, int32(5), first.ID)
	assert.Equal(t, 0, first.Start)
	assert.Equal(t, 3, first.End)

	last, ok := m.GetLastCU()
	require.True(t, ok)
	assert.Equal(t, int32(2), last.ID)
	assert.Equal(t, 5, last.Start)
	assert.Equal(t, 8, last.End)
}

func TestGetNextPrevCU(t *testing.T) {
	m := build(t)
	first, _ := m.GetFirstCU()
	second, ok := m.GetNextCU(first)
	require.True(t, ok)
	assert.Equal(t, int32(9), second.ID)

	back, ok := m.GetPrevCU(second)
	require.True(t, ok)
	assert.Equal(t, first.ID, back.ID)

	last, _ := m.GetLastCU()
	_, ok = m.GetNextCU(last)
	assert.False(t, ok)
}

func TestGetCUByCUID(t *testing.T) {
	m := build(t)
	cu, ok := m.GetCUByCUID(9)
	require.True(t, ok)
	assert.Equal(t, 3, cu.Start)
	assert.Equal(t, 5, cu.End)

	_, ok = m.GetCUByCUID(999)
	assert.False(t, ok)
}

func TestGetCUByFuncEA(t *testing.T) {
	m := build(t)
	cu, err := m.GetCUByFuncEA(4)
	require.NoError(t, err)
	assert.Equal(t, int32(9), cu.ID)

	_, err = m.GetCUByFuncEA(999)
	assert.ErrorIs(t, err, cumap.ErrUnknownFunc)
}

func TestGetNextCUID(t *testing.T) {
	m := build(t)
	assert.Equal(t, int32(10), m.GetNextCUID())
}

func TestRenumber(t *testing.T) {
	m := build(t)
	m.Renumber()
	assert.Equal(t, []int32{0, 0, 0, 1, 1, 2, 2, 2}, m.FuncToCU())
}

func TestGetInvalidCUs(t *testing.T) {
	m, err := cumap.New(
		[]uint64{0, 1, 2, 3},
		[]int32{1, 2, 1, 2}, // neither id's occurrences are contiguous
	)
	require.NoError(t, err)
	invalid := m.GetInvalidCUs()
	assert.ElementsMatch(t, []int32{1, 2}, invalid)
}

func TestGetInvalidCUsEmptyWhenContiguous(t *testing.T) {
	m := build(t)
	assert.Empty(t, m.GetInvalidCUs())
}

func TestGetIDDeterministic(t *testing.T) {
	a := build(t)
	b := build(t)
	assert.Equal(t, a.GetID(), b.GetID())

	b.Renumber()
	assert.Equal(t, a.GetID(), b.GetID(), "renumbering must not change the size-sequence fingerprint")
}

func TestGetIDChangesWithLayout(t *testing.T) {
	a := build(t)
	merged, err := cumap.New(
		[]uint64{0, 1, 2, 3, 4, 5, 6, 7},
		[]int32{5, 5, 5, 5, 5, 2, 2, 2},
	)
	require.NoError(t, err)
	assert.NotEqual(t, a.GetID(), merged.GetID())
}

func TestJSONRoundTrip(t *testing.T) {
	m := build(t)
	data, err := json.MarshalIndent(m, "", "    ")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"funcs"`)
	assert.Contains(t, string(data), `"func_to_cu"`)

	var out cumap.CUMap
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, m.Funcs(), out.Funcs())
	assert.Equal(t, m.FuncToCU(), out.FuncToCU())
}

func TestSingleton(t *testing.T) {
	m, err := cumap.Singleton([]uint64{10, 20, 30})
	require.NoError(t, err)
	assert.Equal(t, 3, m.Len())
	assert.Equal(t, []int32{0, 1, 2}, m.FuncToCU())
}
