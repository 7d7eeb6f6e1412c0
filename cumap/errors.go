// Package cumap implements CUMap, the partition of an ordered function
// list into contiguous compile-unit runs (spec §3, §4.2).
package cumap

import "errors"

// Sentinel errors for the cumap package; branch with errors.Is.
var (
	// ErrLengthMismatch is returned by New when funcs and cus differ in
	// length.
	ErrLengthMismatch = errors.New("cumap: funcs and func_to_cu length mismatch")

	// ErrNotSorted is returned by New when funcs is not strictly
	// increasing (spec §3: "function addresses are strictly increasing").
	ErrNotSorted = errors.New("cumap: funcs must be strictly increasing")

	// ErrUnknownFunc is returned when a lookup address is not present in
	// the CUMap (spec §7: "a structural invariant violation").
	ErrUnknownFunc = errors.New("cumap: unknown function address")

	// ErrIndexOutOfRange is returned when a function index is outside
	// [0, len(funcs)).
	ErrIndexOutOfRange = errors.New("cumap: function index out of range")

	// ErrEmpty names an operation requiring at least one function
	// attempted on an empty CUMap. No function in this package returns
	// it: GetFirstCU and GetLastCU report an empty CUMap with ok=false.
	ErrEmpty = errors.New("cumap: empty CUMap")

	// ErrUnknownExtension is returned by storage loaders when a CUMap
	// file's extension is neither a recognized binary nor JSON form
	// (spec §7: "CUMap file with unrecognised extension").
	ErrUnknownExtension = errors.New("cumap: unrecognised file extension")
)
