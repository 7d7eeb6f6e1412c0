package fitness

import "github.com/huku-/recover-go/state"

// Function scores a candidate State against a fixed program graph. An
// instance is constructed once per optimizer pass over a (cu, next_cu)
// pair and may be reused across many Score calls for that pair; it
// must be rebuilt when the pair (and hence its function list) changes
// (spec §5).
type Function interface {
	Score(s *state.State) float64
}
