package optimizer

import (
	"fmt"
	"math/big"
	"math/bits"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"

	"github.com/huku-/recover-go/cumap"
	"github.com/huku-/recover-go/fitness"
	"github.com/huku-/recover-go/state"
)

const (
	geneticPopSize    = 3
	geneticNumParents = 2
	geneticGenMulti   = 64
)

// Genetic explores a CU pair's k<=3 state space with a small, custom
// genetic algorithm (spec §4.8): population 3, two parents mate per
// generation, num_generations = numBits*64, initial population drawn
// from {MSB-only, top-three-bits-set}.
//
// The original delegates to the PyGAD library; no comparable
// genetic-algorithm package exists among the example repos (see
// DESIGN.md), so this transliterates spec §4.8's crossover/mutation
// rules directly instead of wrapping a borrowed GA engine. Parent
// selection uses steady-state (top-k by score) selection, matching
// PyGAD's own default ("sss") rather than a roulette wheel.
type Genetic struct {
	fitnessFactory FitnessFactory
	cuScores       map[int32]float64
	rng            *rand.Rand
}

// NewGenetic builds a Genetic optimizer seeded for reproducibility
// (spec §5: "expose a seed parameter").
func NewGenetic(ff FitnessFactory, seed uint64) *Genetic {
	return &Genetic{
		fitnessFactory: ff,
		cuScores:       make(map[int32]float64),
		rng:            rand.New(rand.NewPCG(seed, seed)),
	}
}

func (g *Genetic) optimizePair(cuMap *cumap.CUMap, cu, nextCU cumap.CUInfo) (int, int32) {
	funcs := concatFuncs(cu.Funcs, nextCU.Funcs)
	numBits := len(funcs)
	maxBitsSet := minInt(numBits, 3)

	initState, err := state.FromCUList(funcs, [][]uint64{cu.Funcs, nextCU.Funcs})
	if err != nil {
		panic(err)
	}

	ff := g.fitnessFactory(funcs)

	initScore, ok := g.cuScores[cu.ID]
	if !ok {
		initScore = ff.Score(initState)
		g.cuScores[cu.ID] = initScore
	}

	minState := new(big.Int)
	minState.SetBit(minState, numBits-1, 1)
	maxState := new(big.Int)
	for i := 0; i < maxBitsSet; i++ {
		maxState.SetBit(maxState, numBits-1-i, 1)
	}

	pop := make([]*big.Int, geneticPopSize)
	for i := range pop {
		if g.rng.IntN(2) == 0 {
			pop[i] = new(big.Int).Set(minState)
		} else {
			pop[i] = new(big.Int).Set(maxState)
		}
	}
	scores := g.scorePopulation(ff, funcs, pop)

	for gen := 0; gen < numBits*geneticGenMulti; gen++ {
		p0, p1 := selectParents(scores)
		child := g.crossover(pop[p0], pop[p1], numBits, maxBitsSet)
		child = g.mutate(child, numBits, maxBitsSet)

		childState, err := state.FromBits(funcs, child)
		if err != nil {
			panic(fmt.Errorf("optimizer: genetic produced invalid state: %w", err))
		}

		pop = []*big.Int{pop[p0], pop[p1], child}
		scores = []float64{scores[p0], scores[p1], ff.Score(childState)}
	}

	bestIdx := 0
	for i, s := range scores {
		if s > scores[bestIdx] {
			bestIdx = i
		}
	}
	bestState, err := state.FromBits(funcs, pop[bestIdx])
	if err != nil {
		panic(err)
	}
	bestScore := scores[bestIdx]

	if bestScore > initScore && !bestState.Equal(initState) {
		g.cuScores[cu.ID] = bestScore
		return commitState(cuMap, cu, nextCU, bestState)
	}
	return 0, -1
}

// scorePopulation scores the population concurrently via errgroup
// (spec §4.8 expansion: "concurrent population scoring").
func (g *Genetic) scorePopulation(ff fitness.Function, funcs []uint64, pop []*big.Int) []float64 {
	scores := make([]float64, len(pop))
	var eg errgroup.Group
	for i, genome := range pop {
		i, genome := i, genome
		eg.Go(func() error {
			s, err := state.FromBits(funcs, genome)
			if err != nil {
				return err
			}
			scores[i] = ff.Score(s)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		panic(err)
	}
	return scores
}

// selectParents picks the two highest-scoring individuals — PyGAD's
// "sss" (steady-state) default selector.
func selectParents(scores []float64) (int, int) {
	best, second := 0, 1
	if scores[second] > scores[best] {
		best, second = second, best
	}
	for i := 2; i < len(scores); i++ {
		switch {
		case scores[i] > scores[best]:
			second = best
			best = i
		case scores[i] > scores[second]:
			second = i
		}
	}
	return best, second
}

// crossover implements spec §4.8's crossover rule: pool every set bit
// across both parents excluding the MSB, draw a random sample size in
// [0, min(|pool|, maxBitsSet)), and OR a random sample of that size
// onto the MSB.
func (g *Genetic) crossover(a, b *big.Int, numBits, maxBitsSet int) *big.Int {
	pool := unionSetBits(a, b, numBits-1)

	bound := minInt(len(pool), maxBitsSet)
	numSamples := 0
	if bound > 0 {
		numSamples = g.rng.IntN(bound)
	}

	child := new(big.Int)
	child.SetBit(child, numBits-1, 1)
	for _, pos := range g.sampleDistinct(pool, numSamples) {
		child.SetBit(child, pos, 1)
	}

	if pc := popcount(child); pc < 1 || pc > 3 {
		panic(fmt.Sprintf("optimizer: invalid crossover state (%d set bits, not in [1,3])", pc))
	}
	return child
}

// mutate dispatches on the child's current popcount, per spec §4.8.
func (g *Genetic) mutate(child *big.Int, numBits, maxBitsSet int) *big.Int {
	lower := setBitPositions(child, numBits-1)

	var result *big.Int
	switch len(lower) + 1 {
	case 1:
		result = g.mutateReset(numBits, maxBitsSet)
	case 2:
		result = g.mutateTwo(child, numBits, lower)
	case 3:
		result = g.mutateThree(child, numBits, lower)
	default:
		result = g.mutateReset(numBits, maxBitsSet)
	}

	if pc := popcount(result); pc < 1 || pc > 3 {
		panic(fmt.Sprintf("optimizer: mutation produced invalid state (%d set bits, not in [1,3])", pc))
	}
	return result
}

// mutateReset implements the k=1 (and k>3 fallback) rule: reset to the
// MSB then OR in a random subset of up to maxBitsSet-1 lower bits.
func (g *Genetic) mutateReset(numBits, maxBitsSet int) *big.Int {
	bits := new(big.Int)
	bits.SetBit(bits, numBits-1, 1)

	numSamples := 0
	if maxBitsSet > 0 {
		numSamples = g.rng.IntN(maxBitsSet)
	}
	pool := make([]int, numBits-1)
	for i := range pool {
		pool[i] = i
	}
	for _, pos := range g.sampleDistinct(pool, numSamples) {
		bits.SetBit(bits, pos, 1)
	}
	return bits
}

// mutateTwo implements the k=2 rule: equal odds of adding a random
// unset lower bit, removing the one lower set bit, or shifting it left
// or right by one position.
func (g *Genetic) mutateTwo(child *big.Int, numBits int, lower []int) *big.Int {
	low := lower[0]
	for {
		switch g.rng.IntN(4) {
		case 0:
			if numBits < 3 {
				continue
			}
			i := g.rng.IntN(numBits)
			for i == low || i == numBits-1 {
				i = g.rng.IntN(numBits)
			}
			return setBit(child, i)
		case 1:
			return xorBit(child, low)
		case 2:
			if low+1 < numBits-1 {
				return moveBit(child, low, low+1)
			}
		case 3:
			if low > 0 {
				return moveBit(child, low, low-1)
			}
		}
	}
}

// mutateThree implements the k=3 rule: a symmetric menu of six moves
// over the lowest and middle set bits (remove either, shift either
// left or right by one position).
func (g *Genetic) mutateThree(child *big.Int, numBits int, lower []int) *big.Int {
	low, mid := lower[0], lower[1]
	for {
		switch g.rng.IntN(6) {
		case 0:
			return xorBit(child, low)
		case 1:
			return xorBit(child, mid)
		case 2:
			if mid+1 < numBits-1 {
				return moveBit(child, mid, mid+1)
			}
		case 3:
			if mid > 0 {
				return moveBit(child, mid, mid-1)
			}
		case 4:
			if low+1 < numBits-1 {
				return moveBit(child, low, low+1)
			}
		case 5:
			if low > 0 {
				return moveBit(child, low, low-1)
			}
		}
	}
}

func (g *Genetic) sampleDistinct(pool []int, k int) []int {
	if k <= 0 || len(pool) == 0 {
		return nil
	}
	if k > len(pool) {
		k = len(pool)
	}
	shuffled := append([]int(nil), pool...)
	g.rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	return shuffled[:k]
}

func unionSetBits(a, b *big.Int, upTo int) []int {
	var out []int
	for i := 0; i < upTo; i++ {
		if a.Bit(i) == 1 || b.Bit(i) == 1 {
			out = append(out, i)
		}
	}
	return out
}

func setBitPositions(b *big.Int, upTo int) []int {
	var out []int
	for i := 0; i < upTo; i++ {
		if b.Bit(i) == 1 {
			out = append(out, i)
		}
	}
	return out
}

func setBit(b *big.Int, i int) *big.Int {
	return new(big.Int).SetBit(b, i, 1)
}

func xorBit(b *big.Int, i int) *big.Int {
	out := new(big.Int).Set(b)
	if out.Bit(i) == 1 {
		out.SetBit(out, i, 0)
	} else {
		out.SetBit(out, i, 1)
	}
	return out
}

func moveBit(b *big.Int, from, to int) *big.Int {
	out := new(big.Int).Set(b)
	out.SetBit(out, from, 0)
	out.SetBit(out, to, 1)
	return out
}

func popcount(b *big.Int) int {
	n := 0
	for _, w := range b.Bits() {
		n += bits.OnesCount(uint(w))
	}
	return n
}

var _ Strategy = (*Genetic)(nil)
