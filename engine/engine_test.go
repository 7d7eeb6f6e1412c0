package engine_test

import (
	"testing"
	"time"

	"github.com/huku-/recover-go/cumap"
	"github.com/huku-/recover-go/engine"
	"github.com/huku-/recover-go/graph"
	"github.com/huku-/recover-go/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCUMap() (*cumap.CUMap, error) {
	return cumap.New(
		[]uint64{0, 1, 2, 3, 4, 5},
		[]int32{0, 0, 0, 1, 1, 1},
	)
}

// disjointTrianglesData builds two directed 3-cycles in the .text
// segment, {0,1,2} and {3,4,5}, with no edges between them, plus a
// .plt stub segment excluded from Sels.
func disjointTrianglesData() *storage.Data {
	g := graph.New()
	for _, a := range []uint64{0, 1, 2, 3, 4, 5} {
		g.AddNode(graph.Node{Addr: a, Type: graph.NodeCode, Segment: 1})
	}
	g.AddProgramEdge(0, 1, graph.EdgeCode2Code, graph.ClassControlRelation, 0)
	g.AddProgramEdge(1, 2, graph.EdgeCode2Code, graph.ClassControlRelation, 0)
	g.AddProgramEdge(2, 0, graph.EdgeCode2Code, graph.ClassControlRelation, 0)
	g.AddProgramEdge(3, 4, graph.EdgeCode2Code, graph.ClassControlRelation, 0)
	g.AddProgramEdge(4, 5, graph.EdgeCode2Code, graph.ClassControlRelation, 0)
	g.AddProgramEdge(5, 3, graph.EdgeCode2Code, graph.ClassControlRelation, 0)

	segs := []storage.Segment{
		{Name: ".text", StartEA: 0, EndEA: 0x1000, Selector: 1, Class: storage.SegmentCode},
		{Name: ".plt", StartEA: 0x1000, EndEA: 0x1100, Selector: 2, Class: storage.SegmentCode},
	}
	return &storage.Data{PDG: g, Segs: segs}
}

func writeData(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, storage.SaveData(dir, "", disjointTrianglesData()))
	return dir
}

func TestAnalyzeWithEstimatorAndNoneOptimizer(t *testing.T) {
	dir := writeData(t)

	cuMap, stats, err := engine.Analyze(dir, "", engine.Config{
		Estimator: "agglnse",
		Optimizer: "none",
		Segment:   ".text",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, cuMap.Len())
	assert.Empty(t, cuMap.GetInvalidCUs())
	assert.Greater(t, stats.Total(), time.Duration(0))
}

func TestAnalyzeWithBruteForceOptimizerConverges(t *testing.T) {
	dir := writeData(t)

	cuMap, _, err := engine.Analyze(dir, "", engine.Config{
		Estimator: "apspse",
		Optimizer: "brute_fast",
		Fitness:   "modularity",
		Segment:   ".text",
	})
	require.NoError(t, err)
	assert.Empty(t, cuMap.GetInvalidCUs())
}

func TestAnalyzeRejectsUnknownEstimator(t *testing.T) {
	dir := writeData(t)

	_, _, err := engine.Analyze(dir, "", engine.Config{
		Estimator: "bogus",
		Optimizer: "none",
		Segment:   ".text",
	})
	assert.ErrorIs(t, err, engine.ErrUnknownEstimator)
}

func TestAnalyzeRejectsUnknownSegment(t *testing.T) {
	dir := writeData(t)

	_, _, err := engine.Analyze(dir, "", engine.Config{
		Estimator: "agglnse",
		Optimizer: "none",
		Segment:   ".rodata",
	})
	assert.ErrorIs(t, err, storage.ErrNoSuchSegment)
}

func TestAnalyzeLoadsEstimationInsteadOfRunningEstimator(t *testing.T) {
	dir := writeData(t)

	preset, err := newCUMap()
	require.NoError(t, err)
	estPath := dir + "/preset.json"
	require.NoError(t, storage.SaveCUMap(estPath, preset))

	cuMap, _, err := engine.Analyze(dir, "", engine.Config{
		LoadEstimation: estPath,
		Optimizer:      "none",
		Segment:        ".text",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, cuMap.Len())
}
