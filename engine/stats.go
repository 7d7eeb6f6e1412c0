package engine

import (
	"fmt"
	"strings"
	"time"
)

// Stats records how long each phase of an analyse run took, keyed by
// phase name ("load", "estimate", "optimize"). Supplemented from
// original_source/src/recover/run_time_stats.py's RunTimeStats, which
// additionally predicts unseen run times via linear interpolation over
// bit-vector size — that half served the interactive IDA Pro progress
// bar (ui.py), which is out of scope here (spec §1 Non-goals:
// "interactive GUI"), so Stats keeps only the measurement half: record
// what each phase actually took, not predict what an unmeasured one
// would.
type Stats struct {
	phases map[string]time.Duration
	order  []string
}

// NewStats returns an empty Stats.
func NewStats() *Stats {
	return &Stats{phases: make(map[string]time.Duration)}
}

// Record stores how long phase took. Calling Record twice for the same
// phase keeps the larger duration, matching RunTimeStats.set_run_time's
// "keep the maximum value" rule.
func (s *Stats) Record(phase string, d time.Duration) {
	if cur, ok := s.phases[phase]; !ok || d > cur {
		if !ok {
			s.order = append(s.order, phase)
		}
		s.phases[phase] = d
	}
}

// Time runs fn, recording its elapsed duration under phase, and
// returns whatever error fn returned.
func (s *Stats) Time(phase string, fn func() error) error {
	start := time.Now()
	err := fn()
	s.Record(phase, time.Since(start))
	return err
}

// Total sums every recorded phase duration.
func (s *Stats) Total() time.Duration {
	var total time.Duration
	for _, d := range s.phases {
		total += d
	}
	return total
}

// String renders phases in the order they were first recorded, one
// per line, for the CLI's --time flag.
func (s *Stats) String() string {
	var b strings.Builder
	for _, phase := range s.order {
		fmt.Fprintf(&b, "%s: %s\n", phase, s.phases[phase])
	}
	fmt.Fprintf(&b, "total: %s\n", s.Total())
	return b.String()
}
