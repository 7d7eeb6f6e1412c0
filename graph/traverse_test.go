package graph_test

import (
	"context"
	"errors"
	"testing"

	"github.com/huku-/recover-go/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pathGraph() *graph.Graph {
	g := graph.New()
	for _, addr := range []uint64{0, 1, 2, 3, 4} {
		g.AddNode(graph.Node{Addr: addr, Type: graph.NodeCode, Segment: 1})
	}
	g.AddProgramEdge(0, 1, graph.EdgeCode2Code, graph.ClassControlRelation, 0)
	g.AddProgramEdge(1, 2, graph.EdgeCode2Code, graph.ClassControlRelation, 0)
	g.AddProgramEdge(2, 3, graph.EdgeCode2Code, graph.ClassControlRelation, 0)
	g.AddProgramEdge(3, 4, graph.EdgeCode2Code, graph.ClassControlRelation, 0)
	return g
}

func TestDFSVisitsEveryReachableNode(t *testing.T) {
	g := pathGraph()
	res, err := graph.DFS(g, 0, nil)
	require.NoError(t, err)
	assert.Len(t, res.Order, 5)
	assert.Equal(t, 4, res.Depth[4])
}

func TestDFSUnknownStart(t *testing.T) {
	g := pathGraph()
	_, err := graph.DFS(g, 999, nil)
	assert.ErrorIs(t, err, graph.ErrUnknownNode)
}

func TestDFSOnVisitAbort(t *testing.T) {
	g := pathGraph()
	boom := errors.New("boom")
	_, err := graph.DFS(g, 0, &graph.DFSOptions{
		OnVisit: func(addr uint64, depth int) error {
			if addr == 2 {
				return boom
			}
			return nil
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestDFSRespectsCancellation(t *testing.T) {
	g := pathGraph()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := graph.DFS(g, 0, &graph.DFSOptions{Ctx: ctx})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNeighborsIsUndirected(t *testing.T) {
	g := pathGraph()
	nbrs := graph.Neighbors(g, 2)
	assert.ElementsMatch(t, []uint64{1, 3}, nbrs)
}
