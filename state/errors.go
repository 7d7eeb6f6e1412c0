// Package state implements State, the bit-vector encoding of a local
// 1-, 2- or 3-way layout across two adjacent CUs (spec §3, §4.3).
package state

import "errors"

// Sentinel errors for the state package; branch with errors.Is.
var (
	// ErrEmptyFuncs is returned when a State is built over zero
	// functions — width must be at least 1 so the MSB has somewhere to
	// live.
	ErrEmptyFuncs = errors.New("state: funcs must be non-empty")

	// ErrMSBNotSet is returned when a bit vector's MSB (bit n-1) is not
	// set, violating the invariant every State must satisfy (spec §4.3).
	ErrMSBNotSet = errors.New("state: MSB must be set")

	// ErrPopCountOutOfRange names a popcount(bits) outside [1,3] where
	// only 1-, 2- or 3-way layouts are valid (spec §4.6, §4.8, §7). No
	// function in this package returns it; the optimizer package panics
	// on such states instead.
	ErrPopCountOutOfRange = errors.New("state: popcount out of range [1,3]")

	// ErrPartitionMismatch is returned by FromCUList when the supplied
	// CU list does not exactly partition the State's function list.
	ErrPartitionMismatch = errors.New("state: CU list does not partition funcs")
)
