// Package estimator computes an initial CUMap for a segment's function
// set via the articulation-point family (APSNSE/APSPSE) or the
// agglomerative family (AGGLNSE/AGGLPSE), spec §4.4.
package estimator

import "errors"

// ErrNoFuncs is returned when the function list to estimate over is
// empty — there is no partition to produce.
var ErrNoFuncs = errors.New("estimator: empty function list")
