// Package fitness scores a State against the community structure of
// the PDG (spec §4.5).
package fitness

import "errors"

// ErrZeroEdges names the case where the scored PDG view has no edges,
// so m in the modularity formula would be a division by zero (spec
// §4.5). No function in this package returns it: Modularity scores
// every community 0 when m is 0.
var ErrZeroEdges = errors.New("fitness: PDG view has zero edges")
