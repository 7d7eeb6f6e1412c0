// Package-level traversal helpers, grounded on the teacher's
// graph/algorithms/dfs.go walker shape (context cancellation,
// OnVisit/OnExit hooks), but iterative rather than recursive — the
// same trade the other_examples Tarjan reference makes, since a
// disassembled binary's call graph can be far deeper than a typical
// test fixture.
package graph

import (
	"context"
	"fmt"
)

// Neighbors returns the distinct addresses reachable from addr by
// either an outgoing or an incoming edge in v — i.e. addr's neighbor
// set in the undirected sense spec §4.4.1 requires before computing
// articulation points.
func Neighbors(v Viewer, addr uint64) []uint64 {
	seen := make(map[uint64]struct{})
	var out []uint64
	add := func(a uint64) {
		if _, ok := seen[a]; ok {
			return
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	for _, e := range v.OutEdges(addr) {
		add(e.Head)
	}
	for _, e := range v.InEdges(addr) {
		add(e.Tail)
	}
	return out
}

// DFSOptions configures an iterative depth-first traversal.
type DFSOptions struct {
	// Ctx allows cancellation; checked before visiting each node.
	Ctx context.Context
	// OnVisit(addr, depth) runs when addr is first discovered.
	// Returning a non-nil error aborts the traversal.
	OnVisit func(addr uint64, depth int) error
	// OnExit(addr, depth) runs once all of addr's descendants in the
	// DFS tree have been processed.
	OnExit func(addr uint64, depth int)
}

// DFSResult holds the outcome of a DFS traversal.
type DFSResult struct {
	Order   []uint64
	Depth   map[uint64]int
	Parent  map[uint64]uint64
	Visited map[uint64]bool
}

// dfsFrame is one stack entry of the iterative walk: addr at depth,
// with nbrIdx pointing at the next neighbor to examine.
type dfsFrame struct {
	addr   uint64
	depth  int
	nbrs   []uint64
	nbrIdx int
}

// DFS performs an iterative, undirected depth-first traversal of v
// starting at start, following Neighbors at each step.
func DFS(v Viewer, start uint64, opts *DFSOptions) (*DFSResult, error) {
	ctx := context.Background()
	if opts != nil && opts.Ctx != nil {
		ctx = opts.Ctx
	}
	res := &DFSResult{
		Order:   make([]uint64, 0),
		Depth:   make(map[uint64]int),
		Parent:  make(map[uint64]uint64),
		Visited: make(map[uint64]bool),
	}
	if !v.HasNode(start) {
		return res, fmt.Errorf("graph.DFS: start %d: %w", start, ErrUnknownNode)
	}

	stack := []*dfsFrame{{addr: start, depth: 0, nbrs: Neighbors(v, start)}}
	res.Visited[start] = true
	res.Depth[start] = 0
	res.Order = append(res.Order, start)
	if opts != nil && opts.OnVisit != nil {
		if err := opts.OnVisit(start, 0); err != nil {
			return res, fmt.Errorf("graph.DFS: OnVisit at %d: %w", start, err)
		}
	}

	for len(stack) > 0 {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		top := stack[len(stack)-1]
		if top.nbrIdx >= len(top.nbrs) {
			if opts != nil && opts.OnExit != nil {
				opts.OnExit(top.addr, top.depth)
			}
			stack = stack[:len(stack)-1]
			continue
		}

		nbr := top.nbrs[top.nbrIdx]
		top.nbrIdx++
		if res.Visited[nbr] {
			continue
		}

		res.Visited[nbr] = true
		res.Depth[nbr] = top.depth + 1
		res.Parent[nbr] = top.addr
		res.Order = append(res.Order, nbr)
		if opts != nil && opts.OnVisit != nil {
			if err := opts.OnVisit(nbr, top.depth+1); err != nil {
				return res, fmt.Errorf("graph.DFS: OnVisit at %d: %w", nbr, err)
			}
		}
		stack = append(stack, &dfsFrame{addr: nbr, depth: top.depth + 1, nbrs: Neighbors(v, nbr)})
	}
	return res, nil
}
