// Package optimizer implements the §4.6 convergence-loop framework
// plus three concrete layout optimizers — BruteForce, BruteForceFast,
// and Genetic — that each propose a new local State for one physically
// adjacent pair of compile units.
package optimizer

import (
	"fmt"

	"github.com/huku-/recover-go/cumap"
	"github.com/huku-/recover-go/fitness"
	"github.com/huku-/recover-go/state"
)

// FitnessFactory builds a fresh fitness.Function bound to exactly
// funcs. Construction caches data closures and degree maps over that
// list, so a new Function is built per CU pair and never reused across
// pairs with a different function list (spec §5).
type FitnessFactory func(funcs []uint64) fitness.Function

// Strategy is the per-pair optimization step a concrete optimizer
// implements; Engine drives it to a fixed point (spec §4.6).
type Strategy interface {
	optimizePair(cuMap *cumap.CUMap, cu, nextCU cumap.CUInfo) (numChanges int, newCUID int32)
}

// commitState applies a new local layout for the pair (cu, nextCU) to
// cuMap, following spec §4.6's k=1/2/3 split. An invalid state here is
// a programmer bug, not user-facing input — spec §7 treats these as
// fatal assertions.
func commitState(cuMap *cumap.CUMap, cu, nextCU cumap.CUInfo, s *state.State) (numChanges int, newCUID int32) {
	newCUID = -1
	k := s.PopCount()
	if k < 1 || k > 3 {
		panic(fmt.Sprintf("optimizer: invalid state %s (%d set bits, not in [1,3])", s.Bits.Text(2), k))
	}
	cus := s.ToCUList()
	if len(cus) != k {
		panic(fmt.Sprintf("optimizer: invalid CUs for state %s (expected %d, got %d)", s.Bits.Text(2), k, len(cus)))
	}

	switch k {
	case 1:
		numChanges += assignAll(cuMap, cus[0], cu.ID)
	case 2:
		numChanges += assignAll(cuMap, cus[0], cu.ID)
		numChanges += assignAll(cuMap, cus[1], nextCU.ID)
	case 3:
		newCUID = cuMap.GetNextCUID()
		numChanges += assignAll(cuMap, cus[0], cu.ID)
		numChanges += assignAll(cuMap, cus[1], newCUID)
		numChanges += assignAll(cuMap, cus[2], nextCU.ID)
	}
	return numChanges, newCUID
}

func assignAll(cuMap *cumap.CUMap, funcs []uint64, id int32) int {
	for _, ea := range funcs {
		if err := cuMap.SetCUByFuncEA(ea, id); err != nil {
			panic(err)
		}
	}
	return len(funcs)
}

func concatFuncs(a, b []uint64) []uint64 {
	out := make([]uint64, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
