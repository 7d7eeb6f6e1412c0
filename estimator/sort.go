package estimator

import "sort"

// sortedFuncs returns a sorted copy of funcs, never mutating the
// caller's slice — spec §4.4.1 requires "sort both the function list
// and the articulation-point list by address" before partitioning.
func sortedFuncs(funcs []uint64) []uint64 {
	out := append([]uint64(nil), funcs...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
