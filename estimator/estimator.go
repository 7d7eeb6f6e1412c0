package estimator

import "github.com/huku-/recover-go/cumap"

// Estimator produces an initial CU partition for a segment's function
// list (spec §4.4: "all estimators consume the AFCG restricted to the
// target segment and return a CUMap with initial labels, then
// renumber"). Implementations already own the AFCG view they read
// from; funcs is the segment's function address list.
type Estimator interface {
	Estimate(funcs []uint64) (*cumap.CUMap, error)
}
