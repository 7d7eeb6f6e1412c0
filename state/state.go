package state

import (
	"fmt"
	"math/big"

	"gonum.org/v1/gonum/stat/combin"
)

// State is a bit-vector layout over a fixed, ordered function list.
// Width is len(Funcs); bit n-1 (the MSB) is always set, and a State
// with k set bits encodes a k-way partition of Funcs (spec §4.3).
//
// Funcs is shared with the caller's slice, not copied — a State is a
// short-lived value carrying a reference to a function-list slice
// whose lifetime exceeds the State (spec §5).
type State struct {
	Bits  *big.Int
	Funcs []uint64
}

// New builds a State of the given width with only the MSB set,
// encoding the trivial 1-way partition (the whole function list as
// one CU).
func New(funcs []uint64) (*State, error) {
	if len(funcs) == 0 {
		return nil, ErrEmptyFuncs
	}
	bits := new(big.Int)
	bits.SetBit(bits, len(funcs)-1, 1)
	return &State{Bits: bits, Funcs: funcs}, nil
}

// FromBits builds a State from an explicit bit-vector, validating the
// MSB invariant.
func FromBits(funcs []uint64, bits *big.Int) (*State, error) {
	if len(funcs) == 0 {
		return nil, ErrEmptyFuncs
	}
	s := &State{Bits: new(big.Int).Set(bits), Funcs: funcs}
	if err := s.CheckInvariant(); err != nil {
		return nil, err
	}
	return s, nil
}

// CheckInvariant verifies the MSB-set invariant spec §4.3/§7 requires
// of every valid State.
func (s *State) CheckInvariant() error {
	n := len(s.Funcs)
	if n == 0 {
		return ErrEmptyFuncs
	}
	if s.Bits.Bit(n-1) != 1 {
		return ErrMSBNotSet
	}
	return nil
}

// PopCount returns the number of set bits, i.e. the number of CUs this
// State encodes.
func (s *State) PopCount() int {
	n := len(s.Funcs)
	count := 0
	for i := 0; i < n; i++ {
		count += int(s.Bits.Bit(i))
	}
	return count
}

// ToCUList partitions Funcs into popcount(s) contiguous sublists by
// scanning bit positions from the MSB to the LSB; a set bit at
// position n-1-p starts a new CU at function index p (spec §4.3).
func (s *State) ToCUList() [][]uint64 {
	n := len(s.Funcs)
	var cus [][]uint64
	for p := 0; p < n; p++ {
		if s.Bits.Bit(n-1-p) == 1 {
			cus = append(cus, nil)
		}
		last := len(cus) - 1
		cus[last] = append(cus[last], s.Funcs[p])
	}
	return cus
}

// FromCUList builds the State whose ToCUList reproduces cus exactly:
// for each CU from last to first, set bit
// sum(sizes of CUs at or after this one) - 1 (spec §4.3).
func FromCUList(funcs []uint64, cus [][]uint64) (*State, error) {
	if len(funcs) == 0 {
		return nil, ErrEmptyFuncs
	}
	total := 0
	for _, cu := range cus {
		total += len(cu)
	}
	if total != len(funcs) {
		return nil, fmt.Errorf("state.FromCUList: %d funcs across CUs, funcs has %d: %w", total, len(funcs), ErrPartitionMismatch)
	}

	bits := new(big.Int)
	suffix := 0
	for i := len(cus) - 1; i >= 0; i-- {
		suffix += len(cus[i])
		bits.SetBit(bits, suffix-1, 1)
	}
	s := &State{Bits: bits, Funcs: funcs}
	if err := s.CheckInvariant(); err != nil {
		return nil, err
	}
	return s, nil
}

// Siblings enumerates every State of the same width with exactly
// numOnes set bits and the MSB fixed, iterating over all
// C(n-1, numOnes-1) choices of the remaining set bits (spec §4.3).
func (s *State) Siblings(numOnes int) []*State {
	n := len(s.Funcs)
	if numOnes < 1 || numOnes > n {
		return nil
	}
	if numOnes == 1 {
		base, _ := New(s.Funcs)
		return []*State{base}
	}

	lowerWidth := n - 1 // candidate positions 0..n-2
	combos := combin.Combinations(lowerWidth, numOnes-1)
	out := make([]*State, 0, len(combos))
	for _, combo := range combos {
		bits := new(big.Int)
		bits.SetBit(bits, n-1, 1)
		for _, pos := range combo {
			bits.SetBit(bits, pos, 1)
		}
		out = append(out, &State{Bits: bits, Funcs: s.Funcs})
	}
	return out
}

// SiblingsFast enumerates the states obtained from s by setting
// exactly one additional, currently-unset bit among positions
// 0..n-2 — the "neighbourhood of refinements" BruteForceFast explores
// instead of the full C(n-1,k-1) space (spec §4.3, §4.7).
func (s *State) SiblingsFast() []*State {
	n := len(s.Funcs)
	out := make([]*State, 0, n-1)
	for p := 0; p < n-1; p++ {
		if s.Bits.Bit(p) == 1 {
			continue
		}
		bits := new(big.Int).Set(s.Bits)
		bits.SetBit(bits, p, 1)
		out = append(out, &State{Bits: bits, Funcs: s.Funcs})
	}
	return out
}

// Equal reports whether s and o encode the same bit-vector over the
// same width.
func (s *State) Equal(o *State) bool {
	return len(s.Funcs) == len(o.Funcs) && s.Bits.Cmp(o.Bits) == 0
}

// Clone returns a deep copy of s.
func (s *State) Clone() *State {
	return &State{Bits: new(big.Int).Set(s.Bits), Funcs: s.Funcs}
}
