package fitness

import (
	"golang.org/x/sync/errgroup"

	"github.com/huku-/recover-go/graph"
	"github.com/huku-/recover-go/state"
)

// communityFanoutThreshold is the minimum CU count at which Score fans
// per-community scoring out across goroutines via errgroup instead of
// summing serially — below it the goroutine overhead would dwarf the
// O(1)-ish per-community work.
const communityFanoutThreshold = 4

// Modularity is Newman's community-structure quality measure, adapted
// to the PDG as spec §4.5 describes. Construct one per optimizer pass
// over a fixed pair of adjacent CUs: data closures and degree maps are
// computed once, at construction time, from that pair's function list
// and the fixed PDG — not recomputed per Score call (spec §4.5, §5).
type Modularity struct {
	pdg    graph.Viewer // the PDG with SEQUENCE edges already removed
	m      int          // pdg.Size(), after SEQUENCE removal (spec §9 Open Questions)
	dataCl map[uint64]map[uint64]struct{}
	outDeg map[uint64]int
	inDeg  map[uint64]int
}

// sizer is satisfied by *graph.View and *graph.Graph — anything that
// can report its own edge count directly
// instead of paying to re-filter and re-count on every call.
type sizer interface {
	Size() int
}

// NewModularity precomputes, for every function in funcs, its data
// closure in dfg (spec §4.5) and caches in/out degree for every node
// that could appear in a community. pdg must already have SEQUENCE
// edges removed (spec §4.6: "replace data.pdg with its no-sequence
// view"). isFunction reports whether an address names a function, so
// D(f) can exclude function-set nodes per spec §4.5.
func NewModularity(pdg graph.Viewer, dfg graph.Viewer, funcs []uint64, isFunction func(uint64) bool) *Modularity {
	m := 0
	if sz, ok := pdg.(sizer); ok {
		m = sz.Size()
	} else {
		m = len(pdg.Edges())
	}

	mod := &Modularity{
		pdg:    pdg,
		m:      m,
		dataCl: dataClosures(dfg, funcs, isFunction),
		outDeg: make(map[uint64]int),
		inDeg:  make(map[uint64]int),
	}

	relevant := make(map[uint64]struct{})
	for _, f := range funcs {
		relevant[f] = struct{}{}
		for d := range mod.dataCl[f] {
			relevant[d] = struct{}{}
		}
	}
	for v := range relevant {
		mod.outDeg[v] = len(pdg.OutEdges(v))
		mod.inDeg[v] = len(pdg.InEdges(v))
	}
	return mod
}

// scoreCommunity computes Q_c for one community (spec §4.5).
func (mo *Modularity) scoreCommunity(community map[uint64]struct{}) float64 {
	if mo.m == 0 {
		return 0
	}
	var lin, outSum, inSum int
	for v := range community {
		outSum += mo.outDeg[v]
		inSum += mo.inDeg[v]
		for _, e := range mo.pdg.OutEdges(v) {
			if _, ok := community[e.Head]; ok {
				lin++
			}
		}
	}
	m := float64(mo.m)
	return float64(lin)/m - float64(outSum)*float64(inSum)/(m*m)
}

// Score returns the sum of Q_c over every CU in s (spec §4.5). It is
// deterministic: equal states always score bit-for-bit equal, since it
// only reads the caches built at construction time (spec §8).
func (mo *Modularity) Score(s *state.State) float64 {
	cus := s.ToCUList()
	if len(cus) < communityFanoutThreshold {
		total := 0.0
		for _, cu := range cus {
			total += mo.scoreCommunity(buildCommunity(mo.dataCl, cu))
		}
		return total
	}

	scores := make([]float64, len(cus))
	var g errgroup.Group
	for i, cu := range cus {
		i, cu := i, cu
		g.Go(func() error {
			scores[i] = mo.scoreCommunity(buildCommunity(mo.dataCl, cu))
			return nil
		})
	}
	_ = g.Wait() // scoreCommunity never errors; Wait only awaits completion
	total := 0.0
	for _, q := range scores {
		total += q
	}
	return total
}

var _ Function = (*Modularity)(nil)
