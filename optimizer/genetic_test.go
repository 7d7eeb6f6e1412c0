package optimizer_test

import (
	"testing"

	"github.com/huku-/recover-go/cumap"
	"github.com/huku-/recover-go/optimizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneticProducesValidCUMap(t *testing.T) {
	g := disjointTrianglesGraph()
	cuMap, err := cumap.New([]uint64{0, 1, 2, 3, 4, 5}, []int32{0, 0, 1, 1, 1, 1})
	require.NoError(t, err)

	eng := optimizer.NewEngine(cuMap, optimizer.NewGenetic(modularityFactory(g), 42))
	_ = eng.Optimize()

	assert.Empty(t, cuMap.GetInvalidCUs())
	assert.Equal(t, []uint64{0, 1, 2, 3, 4, 5}, cuMap.Funcs())
}

func TestGeneticIsDeterministicForAFixedSeed(t *testing.T) {
	g := disjointTrianglesGraph()

	run := func() []int32 {
		cuMap, err := cumap.New([]uint64{0, 1, 2, 3, 4, 5}, []int32{0, 0, 1, 1, 1, 1})
		require.NoError(t, err)
		eng := optimizer.NewEngine(cuMap, optimizer.NewGenetic(modularityFactory(g), 7))
		_ = eng.Optimize()
		return append([]int32(nil), cuMap.FuncToCU()...)
	}

	assert.Equal(t, run(), run())
}
