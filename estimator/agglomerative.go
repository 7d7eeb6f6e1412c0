package estimator

import (
	"github.com/huku-/recover-go/cumap"
	"github.com/huku-/recover-go/graph"
)

// agglomerativeEstimator implements AGGLNSE/AGGLPSE (spec §4.4.2): the
// two differ only in which AFCG view they fold edges from.
type agglomerativeEstimator struct {
	view graph.Viewer
}

// NewAGGLNSE builds the agglomerative estimator over the no-sequence
// view of base's AFCG.
func NewAGGLNSE(base graph.Viewer) Estimator {
	return &agglomerativeEstimator{view: graph.NoSequenceView(graph.AFCG(base))}
}

// NewAGGLPSE builds the agglomerative estimator over the
// partial-no-sequence view of base's AFCG.
func NewAGGLPSE(base graph.Viewer) Estimator {
	return &agglomerativeEstimator{view: graph.PartialNoSequenceView(graph.AFCG(base))}
}

// Estimate runs the agglomerative fold-and-restart procedure of spec
// §4.4.2 to a fixed point: starting from singleton CUs, it repeatedly
// tries to move the function immediately following the current CU's
// span into that CU, accepting the move only if it does not increase
// the current CU's non-tree-edge count, and restarting from the
// rejected function as the new pivot otherwise. Rounds are bounded by
// len(funcs) per DESIGN NOTES §9 ("bound by |V|").
func (e *agglomerativeEstimator) Estimate(funcs []uint64) (*cumap.CUMap, error) {
	if len(funcs) == 0 {
		return nil, ErrNoFuncs
	}
	sorted := sortedFuncs(funcs)

	cuOf := make(map[uint64]int32, len(sorted))
	for i, f := range sorted {
		cuOf[f] = int32(i)
	}
	preds, succs := directedAdjacency(e.view, sorted)

	cg := newCUGraph()
	for _, ed := range e.view.Edges() {
		a, aok := cuOf[ed.Tail]
		b, bok := cuOf[ed.Head]
		if !aok || !bok {
			continue
		}
		cg.inc(a, b)
	}

	// spanLen returns the length of the contiguous run of sorted
	// starting at idx that currently shares one CU id.
	spanLen := func(idx int) int {
		id := cuOf[sorted[idx]]
		n := 1
		for idx+n < len(sorted) && cuOf[sorted[idx+n]] == id {
			n++
		}
		return n
	}

	remove := func(f uint64, from int32) {
		for _, p := range preds[f] {
			cg.dec(cuOf[p], from)
		}
		for _, s := range succs[f] {
			cg.dec(from, cuOf[s])
		}
	}
	add := func(f uint64, into int32) {
		for _, p := range preds[f] {
			if cu := cuOf[p]; cu != into {
				cg.inc(cu, into)
			}
		}
		for _, s := range succs[f] {
			if cu := cuOf[s]; cu != into {
				cg.inc(into, cu)
			}
		}
	}

	cache := make(map[int32]int)
	count := func(id int32) int {
		if v, ok := cache[id]; ok {
			return v
		}
		v := cg.nonTreeEdgeCount(id)
		cache[id] = v
		return v
	}

	for round := 0; round < len(sorted); round++ {
		changed := false
		funcIdx := 0
		curID := cuOf[sorted[funcIdx]]
		_ = count(curID)

		for {
			nextIdx := funcIdx + spanLen(funcIdx)
			if nextIdx >= len(sorted) {
				break
			}
			nf := sorted[nextIdx]
			nextID := cuOf[nf]

			remove(nf, nextID)
			cuOf[nf] = curID
			add(nf, curID)

			before := cache[curID]
			after := cg.nonTreeEdgeCount(curID)
			if after <= before {
				cache[curID] = after
				changed = true
				continue
			}

			remove(nf, curID)
			cuOf[nf] = nextID
			add(nf, nextID)

			funcIdx = nextIdx
			curID = nextID
			_ = count(curID)
		}
		if !changed {
			break
		}
	}

	labels := make([]int32, len(sorted))
	for i, f := range sorted {
		labels[i] = cuOf[f]
	}
	m, err := cumap.New(sorted, labels)
	if err != nil {
		return nil, err
	}
	m.Renumber()
	return m, nil
}

var _ Estimator = (*agglomerativeEstimator)(nil)
