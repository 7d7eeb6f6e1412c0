package optimizer_test

import (
	"testing"

	"github.com/huku-/recover-go/cumap"
	"github.com/huku-/recover-go/fitness"
	"github.com/huku-/recover-go/graph"
	"github.com/huku-/recover-go/optimizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isFunctionAlways(uint64) bool { return true }

// disjointTrianglesGraph builds two directed 3-cycles, {0,1,2} and
// {3,4,5}, with no edges between them.
func disjointTrianglesGraph() *graph.Graph {
	g := graph.New()
	for _, a := range []uint64{0, 1, 2, 3, 4, 5} {
		g.AddNode(graph.Node{Addr: a, Type: graph.NodeCode})
	}
	g.AddProgramEdge(0, 1, graph.EdgeCode2Code, graph.ClassControlRelation, 0)
	g.AddProgramEdge(1, 2, graph.EdgeCode2Code, graph.ClassControlRelation, 0)
	g.AddProgramEdge(2, 0, graph.EdgeCode2Code, graph.ClassControlRelation, 0)
	g.AddProgramEdge(3, 4, graph.EdgeCode2Code, graph.ClassControlRelation, 0)
	g.AddProgramEdge(4, 5, graph.EdgeCode2Code, graph.ClassControlRelation, 0)
	g.AddProgramEdge(5, 3, graph.EdgeCode2Code, graph.ClassControlRelation, 0)
	return g
}

func modularityFactory(g *graph.Graph) optimizer.FitnessFactory {
	pdg := graph.NoSequenceView(g)
	dfg := graph.DFG(g)
	return func(funcs []uint64) fitness.Function {
		return fitness.NewModularity(pdg, dfg, funcs, isFunctionAlways)
	}
}

// TestBruteForceFixedPointMakesNoCommits is spec §8 scenario 5:
// running BruteForce on an already-optimal layout produces zero
// commits.
func TestBruteForceFixedPointMakesNoCommits(t *testing.T) {
	g := disjointTrianglesGraph()
	cuMap, err := cumap.New([]uint64{0, 1, 2, 3, 4, 5}, []int32{0, 0, 0, 1, 1, 1})
	require.NoError(t, err)

	eng := optimizer.NewEngine(cuMap, optimizer.NewBruteForce(modularityFactory(g)))
	numChanges := eng.Optimize()

	assert.Equal(t, 0, numChanges)
	assert.Equal(t, []int32{0, 0, 0, 1, 1, 1}, cuMap.FuncToCU())
}

// TestBruteForceMergesAnArbitrarySplit starts from a suboptimal
// boundary cutting straight through one of the triangles and checks
// that BruteForce relabels at least one function to improve it.
func TestBruteForceMergesAnArbitrarySplit(t *testing.T) {
	g := disjointTrianglesGraph()
	cuMap, err := cumap.New([]uint64{0, 1, 2, 3, 4, 5}, []int32{0, 0, 1, 1, 1, 1})
	require.NoError(t, err)

	eng := optimizer.NewEngine(cuMap, optimizer.NewBruteForce(modularityFactory(g)))
	numChanges := eng.Optimize()

	assert.Greater(t, numChanges, 0)
	assert.Equal(t, []int32{0, 0, 0, 1, 1, 1}, cuMap.FuncToCU())
}

func TestBruteForceFastFixedPointMakesNoCommits(t *testing.T) {
	g := disjointTrianglesGraph()
	cuMap, err := cumap.New([]uint64{0, 1, 2, 3, 4, 5}, []int32{0, 0, 0, 1, 1, 1})
	require.NoError(t, err)

	eng := optimizer.NewEngine(cuMap, optimizer.NewBruteForceFast(modularityFactory(g)))
	numChanges := eng.Optimize()

	assert.Equal(t, 0, numChanges)
	assert.Equal(t, []int32{0, 0, 0, 1, 1, 1}, cuMap.FuncToCU())
}
