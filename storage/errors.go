// Package storage persists the program graph, segment table and
// CUMap to disk and loads them back (spec §6, supplementing spec.md:
// "Re-implementations may choose a different container format"). The
// binary form uses encoding/gob; CUMap additionally supports a JSON
// form for interop with external tooling.
package storage

import "errors"

// ErrNoSuchSegment is returned when no segment in a loaded Data
// matches the name passed to Data.Selector.
var ErrNoSuchSegment = errors.New("storage: no segment with that name")
