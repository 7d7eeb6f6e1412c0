package optimizer

import (
	"github.com/huku-/recover-go/cumap"
	"github.com/huku-/recover-go/fitness"
	"github.com/huku-/recover-go/state"
)

// BruteForceFast is the stratified alternative to BruteForce (spec
// §4.7, §9 Open Questions: "Two implementations of BruteForce differ
// in whether they enumerate the full k≤3 state space or a stratified
// refinement. Spec treats the stratified variant as a distinct
// optimizer (brute_fast)"). Instead of O(n²) full enumeration, it walks
// a single best-of-each-width chain: 1-bit -> best 2-bit refinement ->
// best 3-bit refinement, each step costing O(n) score evaluations via
// State.SiblingsFast.
type BruteForceFast struct {
	fitnessFactory FitnessFactory
	cuScores       map[int32]float64
}

func NewBruteForceFast(ff FitnessFactory) *BruteForceFast {
	return &BruteForceFast{fitnessFactory: ff, cuScores: make(map[int32]float64)}
}

func (b *BruteForceFast) optimizePair(cuMap *cumap.CUMap, cu, nextCU cumap.CUInfo) (int, int32) {
	funcs := concatFuncs(cu.Funcs, nextCU.Funcs)
	initState, err := state.FromCUList(funcs, [][]uint64{cu.Funcs, nextCU.Funcs})
	if err != nil {
		panic(err)
	}

	ff := b.fitnessFactory(funcs)

	initScore, ok := b.cuScores[cu.ID]
	if !ok {
		initScore = ff.Score(initState)
		b.cuScores[cu.ID] = initScore
	}

	merged, err := state.New(funcs)
	if err != nil {
		panic(err)
	}
	best, bestScore := merged, ff.Score(merged)

	best, bestScore = refineOnce(ff, best, bestScore) // up to 2 bits
	best, bestScore = refineOnce(ff, best, bestScore) // up to 3 bits

	if bestScore > initScore && !best.Equal(initState) {
		b.cuScores[cu.ID] = bestScore
		return commitState(cuMap, cu, nextCU, best)
	}
	return 0, -1
}

func refineOnce(ff fitness.Function, cur *state.State, curScore float64) (*state.State, float64) {
	best, bestScore := cur, curScore
	for _, candidate := range cur.SiblingsFast() {
		if candidateScore := ff.Score(candidate); candidateScore > bestScore {
			best, bestScore = candidate, candidateScore
		}
	}
	return best, bestScore
}

var _ Strategy = (*BruteForceFast)(nil)
