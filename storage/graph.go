package storage

import (
	"encoding/gob"
	"fmt"
	"os"

	"github.com/huku-/recover-go/graph"
)

// gobGraph is the on-disk shape of a persisted Graph: a flat node and
// edge list, sufficient to reconstruct an equivalent *graph.Graph via
// AddNode/AddProgramEdge. graph.Graph's fields are unexported (it owns
// a sync.RWMutex and adjacency indices), so this is the serialization
// boundary rather than gob-encoding the type directly.
type gobGraph struct {
	Nodes []graph.Node
	Edges []graph.Edge
}

// SaveGraph gob-encodes every node and edge visible through v to path.
// Passing a *graph.View (e.g. the AFCG or DFG view of a PDG) persists
// a materialized snapshot of that view, not a live filter.
func SaveGraph(path string, v graph.Viewer) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("storage.SaveGraph: %w", err)
	}
	defer f.Close()

	g := gobGraph{Nodes: v.Nodes(), Edges: v.Edges()}
	if err := gob.NewEncoder(f).Encode(g); err != nil {
		return fmt.Errorf("storage.SaveGraph: %w", err)
	}
	return nil
}

// LoadGraph decodes a Graph previously written by SaveGraph.
func LoadGraph(path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("storage.LoadGraph: %w", err)
	}
	defer f.Close()

	var g gobGraph
	if err := gob.NewDecoder(f).Decode(&g); err != nil {
		return nil, fmt.Errorf("storage.LoadGraph: %w", err)
	}

	out := graph.New()
	for _, n := range g.Nodes {
		out.AddNode(n)
	}
	for _, e := range g.Edges {
		out.AddProgramEdge(e.Tail, e.Head, e.Type, e.Class, e.Size)
	}
	return out, nil
}
