package estimator

import "github.com/huku-/recover-go/graph"

// undirectedNeighbors builds, for every address in funcs, its
// undirected neighbor set restricted to funcs itself — self-loops and
// neighbors outside the target segment are excluded, matching "convert
// the (directed) AFCG to undirected" (spec §4.4.1) over exactly the
// segment's function set.
func undirectedNeighbors(view graph.Viewer, funcs []uint64) map[uint64][]uint64 {
	inSet := make(map[uint64]struct{}, len(funcs))
	for _, f := range funcs {
		inSet[f] = struct{}{}
	}

	out := make(map[uint64][]uint64, len(funcs))
	for _, f := range funcs {
		seen := make(map[uint64]struct{})
		var nbrs []uint64
		for _, nbr := range graph.Neighbors(view, f) {
			if nbr == f {
				continue
			}
			if _, ok := inSet[nbr]; !ok {
				continue
			}
			if _, ok := seen[nbr]; ok {
				continue
			}
			seen[nbr] = struct{}{}
			nbrs = append(nbrs, nbr)
		}
		out[f] = nbrs
	}
	return out
}

// directedAdjacency builds, for every address in funcs, its distinct
// predecessor and successor sets within view, restricted to funcs —
// the simple-digraph neighbor sets the agglomerative estimators move
// functions between CU-graph nodes with (spec §4.4.2).
func directedAdjacency(view graph.Viewer, funcs []uint64) (preds, succs map[uint64][]uint64) {
	inSet := make(map[uint64]struct{}, len(funcs))
	for _, f := range funcs {
		inSet[f] = struct{}{}
	}

	preds = make(map[uint64][]uint64, len(funcs))
	succs = make(map[uint64][]uint64, len(funcs))
	for _, f := range funcs {
		preds[f] = dedupInSet(view.InEdges(f), func(e graph.Edge) uint64 { return e.Tail }, inSet)
		succs[f] = dedupInSet(view.OutEdges(f), func(e graph.Edge) uint64 { return e.Head }, inSet)
	}
	return preds, succs
}

func dedupInSet(edges []graph.Edge, endpoint func(graph.Edge) uint64, inSet map[uint64]struct{}) []uint64 {
	seen := make(map[uint64]struct{})
	var out []uint64
	for _, e := range edges {
		addr := endpoint(e)
		if _, ok := inSet[addr]; !ok {
			continue
		}
		if _, ok := seen[addr]; ok {
			continue
		}
		seen[addr] = struct{}{}
		out = append(out, addr)
	}
	return out
}
