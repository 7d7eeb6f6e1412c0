package graph_test

import (
	"testing"

	"github.com/huku-/recover-go/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddNodeIdempotent(t *testing.T) {
	g := graph.New()
	g.AddNode(graph.Node{Addr: 0x1000, Type: graph.NodeCode, Segment: 1, Name: "f0"})
	g.AddNode(graph.Node{Addr: 0x1000, Type: graph.NodeCode, Segment: 1, Name: "renamed"})

	require.True(t, g.HasNode(0x1000))
	n, ok := g.Node(0x1000)
	require.True(t, ok)
	assert.Equal(t, "renamed", n.Name)
	assert.Len(t, g.Nodes(), 1)
}

func TestAddProgramEdgeSuppressesDuplicateClass(t *testing.T) {
	g := graph.New()
	g.AddProgramEdge(1, 2, graph.EdgeCode2Code, graph.ClassControlRelation, 0)
	g.AddProgramEdge(1, 2, graph.EdgeCode2Code, graph.ClassControlRelation, 0)
	g.AddProgramEdge(1, 2, graph.EdgeCode2Code, graph.ClassSequence, 0)

	assert.Len(t, g.Edges(), 2)
	assert.Equal(t, 2, g.Size())
	assert.Len(t, g.OutEdges(1), 2)
	assert.Len(t, g.InEdges(2), 2)
}

func TestAddProgramEdgeAutoAddsNodes(t *testing.T) {
	g := graph.New()
	g.AddProgramEdge(1, 2, graph.EdgeCode2Code, graph.ClassControlRelation, 0)

	n, ok := g.Node(1)
	require.True(t, ok)
	assert.Equal(t, graph.NodeInvalid, n.Type)
}

func TestDegrees(t *testing.T) {
	g := graph.New()
	g.AddProgramEdge(1, 2, graph.EdgeCode2Code, graph.ClassControlRelation, 0)
	g.AddProgramEdge(1, 3, graph.EdgeCode2Code, graph.ClassControlRelation, 0)
	g.AddProgramEdge(3, 2, graph.EdgeCode2Code, graph.ClassControlRelation, 0)

	assert.Equal(t, 2, g.OutDegree(1))
	assert.Equal(t, 2, g.InDegree(2))
	assert.Equal(t, 0, g.InDegree(1))
}
