package optimizer

import "github.com/huku-/recover-go/cumap"

// fingerprintRingSize bounds the recent-layout history the
// convergence loop checks for recursion against: a small ring buffer
// rather than the unbounded set the original keeps (spec §9: "Store a
// small ring buffer of recent fingerprints rather than an unbounded
// set").
const fingerprintRingSize = 8

// Engine drives a Strategy to a fixed point over a CUMap's physically
// adjacent CU pairs (spec §4.6).
type Engine struct {
	cuMap    *cumap.CUMap
	strategy Strategy
}

// NewEngine builds an Engine committing strategy's decisions to
// cuMap. cuMap's layout is mutated in place as Optimize runs.
func NewEngine(cuMap *cumap.CUMap, strategy Strategy) *Engine {
	return &Engine{cuMap: cuMap, strategy: strategy}
}

// Optimize runs optimization rounds to equilibrium, returning the
// total number of function relabels committed across all rounds. It
// exits early, abandoning any still-pending work, if the CUMap's
// layout fingerprint recurs while changes are still being applied —
// "completed with recursion" (spec §4.6).
func (e *Engine) Optimize() int {
	cuMap := e.cuMap

	var ring [][32]byte
	ring = pushFingerprint(ring, cuMap.GetID())

	numChanges, prevNumChanges := 0, 0

	modified := make(map[int32]struct{})
	for _, id := range cuMap.FuncToCU() {
		modified[id] = struct{}{}
	}

	for len(modified) > 0 {
		round := make([]int32, 0, len(modified))
		for id := range modified {
			round = append(round, id)
		}

		for _, cuID := range round {
			cu, ok := cuMap.GetCUByCUID(cuID)
			if !ok {
				delete(modified, cuID)
				continue
			}
			nextCU, ok := cuMap.GetNextCU(cu)
			if !ok {
				delete(modified, cuID)
				continue
			}

			cuChanges, newCUID := e.strategy.optimizePair(cuMap, cu, nextCU)
			if cuChanges > 0 {
				if prevCU, ok := cuMap.GetPrevCU(cu); ok {
					modified[prevCU.ID] = struct{}{}
				}
			}
			if cuChanges == 0 {
				delete(modified, cuID)
			}
			if newCUID >= 0 {
				modified[newCUID] = struct{}{}
			}
			numChanges += cuChanges
		}

		id := cuMap.GetID()
		if numChanges > prevNumChanges && containsFingerprint(ring, id) {
			modified = make(map[int32]struct{})
		}
		ring = pushFingerprint(ring, id)
		prevNumChanges = numChanges
	}

	return numChanges
}

func containsFingerprint(ring [][32]byte, id [32]byte) bool {
	for _, f := range ring {
		if f == id {
			return true
		}
	}
	return false
}

func pushFingerprint(ring [][32]byte, id [32]byte) [][32]byte {
	ring = append(ring, id)
	if len(ring) > fingerprintRingSize {
		ring = ring[len(ring)-fingerprintRingSize:]
	}
	return ring
}
