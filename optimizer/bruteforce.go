package optimizer

import (
	"github.com/huku-/recover-go/cumap"
	"github.com/huku-/recover-go/state"
)

// BruteForce enumerates the full k<=3 sibling state space for every CU
// pair and commits the best-scoring refinement, if it strictly
// improves on — and differs from — the current layout (spec §4.7).
type BruteForce struct {
	fitnessFactory FitnessFactory
	cuScores       map[int32]float64
}

// NewBruteForce builds a BruteForce optimizer. ff is called once per
// examined pair with that pair's combined function list.
func NewBruteForce(ff FitnessFactory) *BruteForce {
	return &BruteForce{fitnessFactory: ff, cuScores: make(map[int32]float64)}
}

func (b *BruteForce) optimizePair(cuMap *cumap.CUMap, cu, nextCU cumap.CUInfo) (int, int32) {
	funcs := concatFuncs(cu.Funcs, nextCU.Funcs)
	initState, err := state.FromCUList(funcs, [][]uint64{cu.Funcs, nextCU.Funcs})
	if err != nil {
		panic(err)
	}

	ff := b.fitnessFactory(funcs)

	score, ok := b.cuScores[cu.ID]
	if !ok {
		score = ff.Score(initState)
		b.cuScores[cu.ID] = score
	}
	maxState, maxScore := initState, score

	maxBitsSet := minInt(len(funcs), 3)
	for numOnes := 1; numOnes <= maxBitsSet; numOnes++ {
		for _, candidate := range initState.Siblings(numOnes) {
			if candidateScore := ff.Score(candidate); candidateScore > maxScore {
				maxState, maxScore = candidate, candidateScore
			}
		}
	}

	if maxScore > score && !maxState.Equal(initState) {
		b.cuScores[cu.ID] = maxScore
		return commitState(cuMap, cu, nextCU, maxState)
	}
	return 0, -1
}

var _ Strategy = (*BruteForce)(nil)
