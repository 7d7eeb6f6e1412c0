package estimator

import (
	"sort"

	"github.com/huku-/recover-go/cumap"
	"github.com/huku-/recover-go/graph"
)

// (sortedFuncs lives in sort.go, shared with the agglomerative estimator)

// articulationEstimator implements APSNSE/APSPSE (spec §4.4.1): the
// two estimators differ only in which AFCG view they are constructed
// over, so NewAPSNSE/NewAPSPSE are the only exported difference.
type articulationEstimator struct {
	view graph.Viewer
}

// NewAPSNSE builds the articulation-point estimator over the
// no-sequence view of base's AFCG.
func NewAPSNSE(base graph.Viewer) Estimator {
	return &articulationEstimator{view: graph.NoSequenceView(graph.AFCG(base))}
}

// NewAPSPSE builds the articulation-point estimator over the
// partial-no-sequence view of base's AFCG (denser graph, typically
// fewer articulation points and fewer, larger CUs).
func NewAPSPSE(base graph.Viewer) Estimator {
	return &articulationEstimator{view: graph.PartialNoSequenceView(graph.AFCG(base))}
}

// Estimate computes cut vertices of the undirected AFCG and partitions
// funcs around them (spec §4.4.1).
func (e *articulationEstimator) Estimate(funcs []uint64) (*cumap.CUMap, error) {
	if len(funcs) == 0 {
		return nil, ErrNoFuncs
	}
	sorted := sortedFuncs(funcs)
	nbrs := undirectedNeighbors(e.view, sorted)
	aps := articulationPoints(sorted, nbrs)

	groups := splitAroundArticulationPoints(sorted, aps)

	labels := make([]int32, 0, len(sorted))
	for i, g := range groups {
		for range g {
			labels = append(labels, int32(i))
		}
	}
	m, err := cumap.New(sorted, labels)
	if err != nil {
		return nil, err
	}
	m.Renumber()
	return m, nil
}

// splitAroundArticulationPoints implements the formal partition rule
// of spec §4.4.1: each articulation point, in address order, closes
// the span since the previous boundary and opens the next one with
// itself as its first element; the tail after the last articulation
// point forms the final CU. Spans that end up empty (two articulation
// points adjacent in funcs) are dropped.
func splitAroundArticulationPoints(funcs []uint64, aps map[uint64]bool) [][]uint64 {
	idxOf := make(map[uint64]int, len(funcs))
	for i, f := range funcs {
		idxOf[f] = i
	}
	var sortedAPs []uint64
	for f := range aps {
		if aps[f] {
			sortedAPs = append(sortedAPs, f)
		}
	}
	sort.Slice(sortedAPs, func(i, j int) bool { return sortedAPs[i] < sortedAPs[j] })

	var groups [][]uint64
	prev := 0
	for _, ap := range sortedAPs {
		idx := idxOf[ap]
		if span := funcs[prev:idx]; len(span) > 0 {
			groups = append(groups, append([]uint64(nil), span...))
		}
		prev = idx
	}
	if span := funcs[prev:]; len(span) > 0 {
		groups = append(groups, append([]uint64(nil), span...))
	}
	return groups
}

// articulation phase constants for the iterative Tarjan walk, grounded
// on the other_examples dominators_articulation.go reference.
const (
	phaseInit = iota
	phaseProcessEdges
	phasePostChild
	phaseFinalize
)

// articulationFrame is one stack frame of the iterative DFS.
type articulationFrame struct {
	node       uint64
	parent     uint64
	hasParent  bool
	edgeIndex  int
	phase      int
	childNode  uint64
	childCount int
}

// articulationPoints finds cut vertices of the undirected graph nbrs
// describes, over every node in funcs (possibly spanning several
// connected components), via iterative Tarjan's algorithm — iterative
// rather than recursive to avoid stack-overflow risk on deep call
// graphs (spec §4.4.1; same trade the other_examples Tarjan reference
// makes).
func articulationPoints(funcs []uint64, nbrs map[uint64][]uint64) map[uint64]bool {
	discovery := make(map[uint64]int, len(funcs))
	lowLink := make(map[uint64]int, len(funcs))
	visited := make(map[uint64]bool, len(funcs))
	isAP := make(map[uint64]bool, len(funcs))
	timer := 0

	for _, start := range funcs {
		if visited[start] {
			continue
		}
		tarjanIterative(start, nbrs, discovery, lowLink, visited, isAP, &timer)
	}
	return isAP
}

func tarjanIterative(start uint64, nbrs map[uint64][]uint64, discovery, lowLink map[uint64]int, visited, isAP map[uint64]bool, timer *int) {
	stack := []*articulationFrame{{node: start, phase: phaseInit}}

	for len(stack) > 0 {
		frame := stack[len(stack)-1]

		switch frame.phase {
		case phaseInit:
			visited[frame.node] = true
			discovery[frame.node] = *timer
			lowLink[frame.node] = *timer
			*timer++
			frame.phase = phaseProcessEdges

		case phaseProcessEdges:
			advanced := false
			for frame.edgeIndex < len(nbrs[frame.node]) {
				nbr := nbrs[frame.node][frame.edgeIndex]
				frame.edgeIndex++
				if frame.hasParent && nbr == frame.parent {
					continue
				}
				if !visited[nbr] {
					frame.phase = phasePostChild
					frame.childNode = nbr
					frame.childCount++
					stack = append(stack, &articulationFrame{node: nbr, parent: frame.node, hasParent: true, phase: phaseInit})
					advanced = true
					break
				}
				if discovery[nbr] < lowLink[frame.node] {
					lowLink[frame.node] = discovery[nbr]
				}
			}
			if advanced {
				continue
			}
			frame.phase = phaseFinalize

		case phasePostChild:
			if lowLink[frame.childNode] < lowLink[frame.node] {
				lowLink[frame.node] = lowLink[frame.childNode]
			}
			if frame.hasParent && lowLink[frame.childNode] >= discovery[frame.node] {
				isAP[frame.node] = true
			}
			frame.phase = phaseProcessEdges

		case phaseFinalize:
			if !frame.hasParent && frame.childCount >= 2 {
				isAP[frame.node] = true
			}
			stack = stack[:len(stack)-1]
		}
	}
}

var _ Estimator = (*articulationEstimator)(nil)
