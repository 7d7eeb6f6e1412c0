// Package engine wires storage, estimator, optimizer and fitness into
// the single analyse-a-segment operation spec §2 describes: load
// persisted graphs, locate the target segment, produce an initial
// CUMap (by estimation or by loading one), then optimize it to a fixed
// point. This is the binding layer cmd/recover drives; nothing here
// is reachable without a disassembler export already on disk (spec
// §1: the exporter/disassembler adapter itself stays out of scope).
package engine

import "errors"

// Sentinel errors for configuration mistakes (spec §7:
// "Input/configuration: unknown estimator/optimizer/fitness ... All
// reported and abort the run").
var (
	ErrUnknownEstimator = errors.New("engine: unknown estimator")
	ErrUnknownOptimizer = errors.New("engine: unknown optimizer")
	ErrUnknownFitness   = errors.New("engine: unknown fitness function")
)
