package fitness

import "github.com/huku-/recover-go/graph"

// dataClosure walks dfg forward from start, collecting every non-
// function node reached, without continuing traversal past a function
// node it encounters (mirroring the original estimator's behavior of
// not following a DATA2CODE hop any further).
func dataClosure(dfg graph.Viewer, start uint64, isFunction func(uint64) bool) map[uint64]struct{} {
	out := make(map[uint64]struct{})
	enqueued := map[uint64]bool{start: true}
	queue := []uint64{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range dfg.OutEdges(cur) {
			if enqueued[e.Head] {
				continue
			}
			enqueued[e.Head] = true
			if isFunction(e.Head) {
				continue
			}
			out[e.Head] = struct{}{}
			queue = append(queue, e.Head)
		}
	}
	return out
}

// dataClosures precomputes D(f) (spec §4.5) for every address in
// funcs, shared between Modularity and ClusteringCoefficient so both
// fitness functions build communities the same way.
func dataClosures(dfg graph.Viewer, funcs []uint64, isFunction func(uint64) bool) map[uint64]map[uint64]struct{} {
	out := make(map[uint64]map[uint64]struct{}, len(funcs))
	for _, f := range funcs {
		out[f] = dataClosure(dfg, f, isFunction)
	}
	return out
}

// buildCommunity expands one CU's function list into
// c ∪ ⋃_{f∈c} D(f), given precomputed closures (spec §4.5).
func buildCommunity(closures map[uint64]map[uint64]struct{}, funcs []uint64) map[uint64]struct{} {
	community := make(map[uint64]struct{}, len(funcs))
	for _, f := range funcs {
		community[f] = struct{}{}
		for d := range closures[f] {
			community[d] = struct{}{}
		}
	}
	return community
}
