package fitness

import (
	"math"

	"github.com/huku-/recover-go/graph"
	"github.com/huku-/recover-go/state"
)

// ClusteringCoefficient is a supplemental fitness function recovered
// from the original estimator's clustering_coefficient module (not
// named in spec §4.5, added per SPEC_FULL.md Supplemented Features).
// It rewards partitions whose communities are locally dense: each
// community's nodes contribute 1+coefficient factors to a running
// product, squashed through tanh so the score stays bounded regardless
// of function-list size.
type ClusteringCoefficient struct {
	pdg          graph.Viewer
	dataClosures map[uint64]map[uint64]struct{}
}

// NewClusteringCoefficient precomputes, for every function in funcs,
// its data closure in dfg — the same community-building step Modularity
// uses (spec §4.5) — so both fitness functions partition the PDG
// identically given the same function list and graph.
func NewClusteringCoefficient(pdg graph.Viewer, dfg graph.Viewer, funcs []uint64, isFunction func(uint64) bool) *ClusteringCoefficient {
	return &ClusteringCoefficient{
		pdg:          pdg,
		dataClosures: dataClosures(dfg, funcs, isFunction),
	}
}

// Score computes tanh(total / len(Funcs)), where total is the product
// of (1 + localClusteringCoefficient(v)) over every node v in every
// community s.ToCUList() induces.
func (cc *ClusteringCoefficient) Score(s *state.State) float64 {
	total := 1.0
	for _, cu := range s.ToCUList() {
		community := buildCommunity(cc.dataClosures, cu)
		for v := range community {
			total *= 1.0 + localClusteringCoefficient(cc.pdg, v)
		}
	}
	return math.Tanh(total / float64(len(s.Funcs)))
}

// localClusteringCoefficient returns the fraction of addr's neighbor
// pairs that are themselves connected, i.e. the standard local
// clustering coefficient over the undirected neighbor set (spec §4.4.1
// defines the same undirected Neighbors used here for APSNSE/APSPSE).
func localClusteringCoefficient(v graph.Viewer, addr uint64) float64 {
	nbrs := graph.Neighbors(v, addr)
	k := len(nbrs)
	if k < 2 {
		return 0
	}
	triangles := 0
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			if hasUndirectedEdge(v, nbrs[i], nbrs[j]) {
				triangles++
			}
		}
	}
	return float64(2*triangles) / float64(k*(k-1))
}

// hasUndirectedEdge reports whether a and b are connected by an edge
// in either direction.
func hasUndirectedEdge(v graph.Viewer, a, b uint64) bool {
	for _, e := range v.OutEdges(a) {
		if e.Head == b {
			return true
		}
	}
	for _, e := range v.OutEdges(b) {
		if e.Head == a {
			return true
		}
	}
	return false
}

var _ Function = (*ClusteringCoefficient)(nil)
